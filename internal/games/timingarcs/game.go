// Package timingarcs implements Timing Arcs: a pointer sweeps around a circle
// and the player stops it inside a glowing arc. The pointer speeds up every
// round.
package timingarcs

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/glow-routes/internal/config"
	"github.com/vovakirdan/glow-routes/internal/core"
	"github.com/vovakirdan/glow-routes/internal/registry"
)

// Challenge is one Timing Arcs round. Angles are in degrees; ArcEnd may
// exceed 360 for an arc that wraps past 0.
type Challenge struct {
	RoundIndex int
	Revolution float64 // Seconds per full turn, 2.0 - 0.15*round by default
	ArcStart   float64
	ArcEnd     float64
}

// Kind implements core.Challenge.
func (c Challenge) Kind() core.Kind { return core.KindTimingArcs }

// Round implements core.Challenge.
func (c Challenge) Round() int { return c.RoundIndex }

// DegreesPerTick returns the pointer speed at the given tick rate.
// At 60Hz this is 360 / (revolution * 60).
func (c Challenge) DegreesPerTick(tickRate int) float64 {
	if tickRate <= 0 {
		tickRate = 60
	}
	return 360 / (c.Revolution * float64(tickRate))
}

// Center returns the arc midpoint, not normalized.
func (c Challenge) Center() float64 {
	return (c.ArcStart + c.ArcEnd) / 2
}

// Contains reports whether angle (in [0,360)) falls in the arc, edges
// included. An arc ending past 360 is split at 0.
func (c Challenge) Contains(angle float64) bool {
	start, end := c.ArcStart, c.ArcEnd
	if end > 360 {
		end -= 360
		return angle >= start || angle <= end
	}
	return angle >= start && angle <= end
}

// Game is the Timing Arcs scoring strategy.
type Game struct {
	cfg config.TimingArcsConfig
}

// New creates a Timing Arcs strategy.
func New(cfg config.TimingArcsConfig) *Game {
	return &Game{cfg: cfg}
}

// Kind implements registry.Strategy.
func (g *Game) Kind() core.Kind {
	return core.KindTimingArcs
}

// Generate picks a random arc and the round's pointer speed.
func (g *Game) Generate(round int, rng *rand.Rand) core.Challenge {
	width := core.RandRange(rng, g.cfg.ArcMinWidth, g.cfg.ArcMaxWidth)
	start := core.RandRange(rng, 0, 360-width)
	return Challenge{
		RoundIndex: round,
		Revolution: g.cfg.Revolution.At(round),
		ArcStart:   start,
		ArcEnd:     start + width,
	}
}

// Evaluate scores a stop angle. Inside the arc the score is
// round(100 * max(0, 1 - d/halfWidth)) with d the circular distance to the
// arc center; outside it is 0.
func (g *Game) Evaluate(ch core.Challenge, in core.Input, streak int) (core.Outcome, error) {
	c, err := challengeOf(ch)
	if err != nil {
		return core.Outcome{}, err
	}

	a := in.Angle
	if math.IsNaN(a) || a < 0 || a >= 360 {
		return core.Outcome{}, fmt.Errorf("timing arcs: angle %v: %w", a, core.ErrInvalidInputIndex)
	}

	if !c.Contains(a) {
		return core.Miss(), nil
	}
	half := (c.ArcEnd - c.ArcStart) / 2
	points := core.Accuracy(core.AngleDistance(a, c.Center()), half)
	if points <= 0 {
		return core.Miss(), nil
	}
	return core.Hit(points, streak), nil
}

// Solve stops the pointer at the arc center.
func (g *Game) Solve(ch core.Challenge) core.Input {
	c, err := challengeOf(ch)
	if err != nil {
		return core.Input{}
	}
	return core.AngleInput(core.WrapAngle(c.Center()))
}

// Random stops the pointer anywhere on the circle.
func (g *Game) Random(_ core.Challenge, rng *rand.Rand) core.Input {
	return core.AngleInput(rng.Float64() * 360)
}

// Timing implements registry.Strategy.
func (g *Game) Timing(_ core.Challenge, rt core.RuntimeConfig) registry.Timing {
	return registry.Timing{
		Countdown:  rt.Ticks(g.cfg.Timing.Intro),
		Timeout:    rt.Ticks(g.cfg.Timing.Timeout),
		Transition: rt.Ticks(g.cfg.Timing.Transition),
	}
}

// NewMotion starts the pointer at 0 degrees.
func (g *Game) NewMotion(ch core.Challenge, rt core.RuntimeConfig) registry.Motion {
	c, _ := challengeOf(ch)
	speed := 0.0
	if c.Revolution > 0 {
		speed = c.DegreesPerTick(rt.TickRate)
	}
	return &Pointer{speed: speed}
}

func challengeOf(ch core.Challenge) (Challenge, error) {
	c, ok := ch.(Challenge)
	if !ok {
		return Challenge{}, fmt.Errorf("timing arcs: got %T: %w", ch, core.ErrInvalidChallenge)
	}
	width := c.ArcEnd - c.ArcStart
	if width <= 0 || width >= 360 || c.ArcStart < 0 || c.ArcStart >= 360 {
		return Challenge{}, fmt.Errorf("timing arcs: arc [%v, %v]: %w", c.ArcStart, c.ArcEnd, core.ErrInvalidChallenge)
	}
	return c, nil
}

// Pointer is the rotating Timing Arcs pointer.
type Pointer struct {
	angle float64
	speed float64
}

// Step rotates the pointer one tick, wrapping at 360.
func (p *Pointer) Step() {
	p.angle += p.speed
	if p.angle >= 360 {
		p.angle -= 360
	}
}

// Value returns the pointer angle in [0,360).
func (p *Pointer) Value() float64 {
	return p.angle
}

// Capture returns the stop input for the current angle.
func (p *Pointer) Capture() core.Input {
	return core.AngleInput(core.WrapAngle(p.angle))
}

// Register the game with the registry
func init() {
	registry.Register(core.KindTimingArcs, func(cfg config.GameConfig) registry.Strategy {
		return New(cfg.TimingArcs)
	})
}
