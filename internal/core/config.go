package core

import (
	"math"
	"time"
)

// TotalRounds is the fixed number of rounds in every session.
const TotalRounds = 8

// RuntimeConfig contains configuration passed to the round engine.
type RuntimeConfig struct {
	TickRate int   // Logical clock ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic challenges
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		TickRate: 60,
		Seed:     0, // 0 means use current time
	}
}

// Normalize fills zero fields with defaults.
func (c RuntimeConfig) Normalize() RuntimeConfig {
	if c.TickRate <= 0 {
		c.TickRate = DefaultConfig().TickRate
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

// Ticks converts a duration in seconds to whole clock ticks, rounding to nearest.
func (c RuntimeConfig) Ticks(seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return int(math.Round(seconds * float64(rate)))
}
