// Package lanedash implements Lane Dash: a marker bounces along a lane and
// the player stops it inside a glowing zone. Points fall off linearly from
// the zone center.
package lanedash

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/glow-routes/internal/config"
	"github.com/vovakirdan/glow-routes/internal/core"
	"github.com/vovakirdan/glow-routes/internal/registry"
)

// Game is the Lane Dash scoring strategy.
type Game struct {
	cfg config.LaneDashConfig
}

// New creates a Lane Dash strategy.
func New(cfg config.LaneDashConfig) *Game {
	return &Game{cfg: cfg}
}

// Kind implements registry.Strategy.
func (g *Game) Kind() core.Kind {
	return core.KindLaneDash
}

// Generate picks a random glow zone and the round's marker speed.
func (g *Game) Generate(round int, rng *rand.Rand) core.Challenge {
	width := core.RandRange(rng, g.cfg.ZoneMinWidth, g.cfg.ZoneMaxWidth)
	start := core.RandRange(rng, g.cfg.ZoneMinStart, g.cfg.ZoneMaxEnd-width)
	return Challenge{
		RoundIndex: round,
		Speed:      g.cfg.Speed.At(round),
		ZoneStart:  start,
		ZoneEnd:    start + width,
	}
}

// Evaluate scores a stop position. Inside the zone the score is
// round(100 * (1 - distance/halfWidth)); outside it is 0. Only a positive
// score counts as a hit.
func (g *Game) Evaluate(ch core.Challenge, in core.Input, streak int) (core.Outcome, error) {
	c, err := challengeOf(ch)
	if err != nil {
		return core.Outcome{}, err
	}

	pos := in.Position
	if math.IsNaN(pos) || pos < 0 || pos > 1 {
		return core.Outcome{}, fmt.Errorf("lane dash: position %v: %w", pos, core.ErrInvalidInputIndex)
	}

	if !c.Contains(pos) {
		return core.Miss(), nil
	}
	points := core.Accuracy(math.Abs(pos-c.Center()), c.HalfWidth())
	if points <= 0 {
		return core.Miss(), nil
	}
	return core.Hit(points, streak), nil
}

// Solve stops the marker at the zone center.
func (g *Game) Solve(ch core.Challenge) core.Input {
	c, err := challengeOf(ch)
	if err != nil {
		return core.Input{}
	}
	return core.PositionInput(c.Center())
}

// Random stops the marker anywhere on the lane.
func (g *Game) Random(_ core.Challenge, rng *rand.Rand) core.Input {
	return core.PositionInput(rng.Float64())
}

// Timing implements registry.Strategy.
func (g *Game) Timing(_ core.Challenge, rt core.RuntimeConfig) registry.Timing {
	return registry.Timing{
		Countdown:  rt.Ticks(g.cfg.Timing.Intro),
		Timeout:    rt.Ticks(g.cfg.Timing.Timeout),
		Transition: rt.Ticks(g.cfg.Timing.Transition),
	}
}

// NewMotion starts the marker at the left edge moving right. StepScale is
// defined per tick at 60Hz and rescaled for other tick rates.
func (g *Game) NewMotion(ch core.Challenge, rt core.RuntimeConfig) registry.Motion {
	c, _ := challengeOf(ch)
	rate := rt.TickRate
	if rate <= 0 {
		rate = 60
	}
	return &Marker{dir: 1, step: c.Speed * g.cfg.StepScale * 60 / float64(rate)}
}

func challengeOf(ch core.Challenge) (Challenge, error) {
	c, ok := ch.(Challenge)
	if !ok {
		return Challenge{}, fmt.Errorf("lane dash: got %T: %w", ch, core.ErrInvalidChallenge)
	}
	if c.ZoneEnd <= c.ZoneStart || c.ZoneStart < 0 || c.ZoneEnd > 1 {
		return Challenge{}, fmt.Errorf("lane dash: zone [%v, %v]: %w", c.ZoneStart, c.ZoneEnd, core.ErrInvalidChallenge)
	}
	return c, nil
}

// Marker is the bouncing Lane Dash marker.
type Marker struct {
	pos  float64
	dir  float64
	step float64
}

// Step moves the marker one tick, reversing at either end of the lane.
func (m *Marker) Step() {
	m.pos = core.ClampF(m.pos+m.dir*m.step, 0, 1)
	if m.pos == 1 {
		m.dir = -1
	} else if m.pos == 0 {
		m.dir = 1
	}
}

// Value returns the marker position in [0,1].
func (m *Marker) Value() float64 {
	return m.pos
}

// Capture returns the stop input for the current position.
func (m *Marker) Capture() core.Input {
	return core.PositionInput(m.pos)
}

// Register the game with the registry
func init() {
	registry.Register(core.KindLaneDash, func(cfg config.GameConfig) registry.Strategy {
		return New(cfg.LaneDash)
	})
}
