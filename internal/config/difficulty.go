package config

import "math"

// Scaling describes a knob that changes linearly with the 1-based round index:
// value = Base + Step*round, clamped to [Min, Max]. A zero Max means no upper
// bound.
type Scaling struct {
	Base float64 `yaml:"base" toml:"base"`
	Step float64 `yaml:"step" toml:"step"`
	Min  float64 `yaml:"min" toml:"min"`
	Max  float64 `yaml:"max" toml:"max"`
}

// At returns the knob value for the given round.
func (s Scaling) At(round int) float64 {
	v := s.Base + s.Step*float64(round)
	if v < s.Min {
		v = s.Min
	}
	if s.Max > 0 && v > s.Max {
		v = s.Max
	}
	return v
}

// IntAt returns At rounded down to an integer, for count-valued knobs.
func (s Scaling) IntAt(round int) int {
	return int(math.Floor(s.At(round) + 1e-9))
}
