package core

import (
	"fmt"
	"strings"
)

// Kind identifies one of the mini-games. The set is closed.
type Kind int

const (
	KindLaneDash Kind = iota
	KindSignalFlow
	KindCrosswaySplit
	KindTimingArcs
)

// kindInfo holds the display metadata for a kind.
type kindInfo struct {
	id          string
	label       string
	description string
	icon        string
}

var kindTable = [...]kindInfo{
	KindLaneDash:      {"lane_dash", "Lane Dash", "Stop in the glow zone", "minus.forwardslash.plus"},
	KindSignalFlow:    {"signal_flow", "Signal Flow", "Follow the signal pattern", "light.beacon.max.fill"},
	KindCrosswaySplit: {"crossway_split", "Crossway Split", "Choose the safe lane", "arrow.triangle.branch"},
	KindTimingArcs:    {"timing_arcs", "Timing Arcs", "Time the perfect arc", "circle.dotted.circle"},
}

// Kinds returns every game kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindLaneDash, KindSignalFlow, KindCrosswaySplit, KindTimingArcs}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k >= KindLaneDash && k <= KindTimingArcs
}

// ID returns the stable identifier used for persistence and CLI arguments.
func (k Kind) ID() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindTable[k].id
}

// String returns the display label.
func (k Kind) String() string {
	if !k.Valid() {
		return "Unknown"
	}
	return kindTable[k].label
}

// Description returns the one-line pitch shown in menus.
func (k Kind) Description() string {
	if !k.Valid() {
		return ""
	}
	return kindTable[k].description
}

// Icon returns the presentation icon id. The core never interprets it.
func (k Kind) Icon() string {
	if !k.Valid() {
		return ""
	}
	return kindTable[k].icon
}

// ParseKind resolves an ID ("lane_dash"), a label ("Lane Dash") or a dashed
// form ("lane-dash") to a Kind.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, k := range Kinds() {
		if kindTable[k].id == norm {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText encodes the kind as its ID so it can key JSON maps.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.ID()), nil
}

// UnmarshalText decodes an ID produced by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
