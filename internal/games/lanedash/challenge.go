package lanedash

import "github.com/vovakirdan/glow-routes/internal/core"

// Challenge is one Lane Dash round: a marker sweeping [0,1] and a glow zone
// it has to be stopped in.
type Challenge struct {
	RoundIndex int
	Speed      float64 // Marker speed, 1.0 + 0.2*round by default
	ZoneStart  float64
	ZoneEnd    float64
}

// Kind implements core.Challenge.
func (c Challenge) Kind() core.Kind { return core.KindLaneDash }

// Round implements core.Challenge.
func (c Challenge) Round() int { return c.RoundIndex }

// Center returns the middle of the glow zone.
func (c Challenge) Center() float64 {
	return (c.ZoneStart + c.ZoneEnd) / 2
}

// HalfWidth returns half the glow zone width.
func (c Challenge) HalfWidth() float64 {
	return (c.ZoneEnd - c.ZoneStart) / 2
}

// Contains reports whether pos lies inside the glow zone, edges included.
func (c Challenge) Contains(pos float64) bool {
	return pos >= c.ZoneStart && pos <= c.ZoneEnd
}
