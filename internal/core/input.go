package core

// Challenge is the immutable puzzle generated for one round.
// Each game package provides its own concrete type.
type Challenge interface {
	Kind() Kind
	// Round returns the 1-based round index the challenge was generated for.
	Round() int
}

// Input is the captured player answer for a round. Only the field matching
// the challenge's kind is read.
type Input struct {
	Position float64 // Lane Dash: marker stop position in [0,1]
	Taps     []int   // Signal Flow: cells tapped so far, in order
	Lane     int     // Crossway Split: chosen lane index
	Angle    float64 // Timing Arcs: pointer stop angle in [0,360)

	// Synthesized is set when the controller produced the input on timeout.
	Synthesized bool
}

// PositionInput builds a Lane Dash input.
func PositionInput(pos float64) Input {
	return Input{Position: pos}
}

// TapsInput builds a Signal Flow input. The slice is copied.
func TapsInput(taps ...int) Input {
	return Input{Taps: append([]int(nil), taps...)}
}

// LaneInput builds a Crossway Split input.
func LaneInput(lane int) Input {
	return Input{Lane: lane}
}

// AngleInput builds a Timing Arcs input.
func AngleInput(angle float64) Input {
	return Input{Angle: angle}
}

// Outcome is the scored result of evaluating an input against a challenge.
type Outcome struct {
	Success bool
	Points  int // Always >= 0
	Streak  int // Streak after this round: previous+1 on success, else 0

	// Resolved is false when the input is a valid but incomplete answer
	// (a matching Signal Flow prefix). Unresolved outcomes are not scored.
	Resolved bool
}

// Hit returns a resolved successful outcome continuing the given streak.
func Hit(points, prevStreak int) Outcome {
	return Outcome{Success: true, Points: Max(points, 0), Streak: prevStreak + 1, Resolved: true}
}

// Miss returns a resolved failed outcome; the streak resets.
func Miss() Outcome {
	return Outcome{Resolved: true}
}
