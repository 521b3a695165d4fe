// Package core provides fundamental types and utilities for the round engine.
// It contains no storage or terminal dependencies to keep game logic pure and
// testable.
package core

import "math"

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Accuracy maps a distance from a target center to a 0-100 score that falls
// off linearly to 0 at halfWidth.
func Accuracy(distance, halfWidth float64) int {
	if halfWidth <= 0 {
		return 0
	}
	return int(math.Round(100 * math.Max(0, 1-distance/halfWidth)))
}

// WrapAngle normalizes degrees into [0, 360).
func WrapAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// AngleDistance returns the circular distance between two angles in degrees.
func AngleDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, math.Min(math.Abs(a-b+360), math.Abs(a-b-360)))
}

// RandRange returns a value in [lo, hi) drawn from r.
func RandRange(r interface{ Float64() float64 }, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}
