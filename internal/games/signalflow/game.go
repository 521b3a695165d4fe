// Package signalflow implements Signal Flow: a sequence of cells on a 3x3
// grid lights up and the player repeats it. Taps are checked prefix by
// prefix; the first wrong tap fails the round.
package signalflow

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/glow-routes/internal/config"
	"github.com/vovakirdan/glow-routes/internal/core"
	"github.com/vovakirdan/glow-routes/internal/registry"
)

// Challenge is one Signal Flow round. Sequence must not be modified.
type Challenge struct {
	RoundIndex int
	Sequence   []int // Cell indices in [0, GridSize)
	GridSize   int
}

// Kind implements core.Challenge.
func (c Challenge) Kind() core.Kind { return core.KindSignalFlow }

// Round implements core.Challenge.
func (c Challenge) Round() int { return c.RoundIndex }

// Len returns the sequence length.
func (c Challenge) Len() int { return len(c.Sequence) }

// Game is the Signal Flow scoring strategy.
type Game struct {
	cfg config.SignalFlowConfig
}

// New creates a Signal Flow strategy.
func New(cfg config.SignalFlowConfig) *Game {
	return &Game{cfg: cfg}
}

// Kind implements registry.Strategy.
func (g *Game) Kind() core.Kind {
	return core.KindSignalFlow
}

// Length returns the sequence length for a round: min(3+round, 7) by default.
func (g *Game) Length(round int) int {
	return core.Max(g.cfg.Length.IntAt(round), 1)
}

// Generate draws a random sequence for the round.
func (g *Game) Generate(round int, rng *rand.Rand) core.Challenge {
	seq := make([]int, g.Length(round))
	for i := range seq {
		seq[i] = rng.Intn(g.cfg.GridSize)
	}
	return Challenge{RoundIndex: round, Sequence: seq, GridSize: g.cfg.GridSize}
}

// Evaluate checks the taps so far against the sequence.
// A wrong tap fails the round. A complete match scores
// base + perSymbol*len. A correct but incomplete prefix is unresolved.
func (g *Game) Evaluate(ch core.Challenge, in core.Input, streak int) (core.Outcome, error) {
	c, err := challengeOf(ch)
	if err != nil {
		return core.Outcome{}, err
	}

	if len(in.Taps) > len(c.Sequence) {
		return core.Outcome{}, fmt.Errorf("signal flow: %d taps for a %d-step sequence: %w",
			len(in.Taps), len(c.Sequence), core.ErrInvalidInputIndex)
	}
	for i, cell := range in.Taps {
		if cell < 0 || cell >= c.GridSize {
			return core.Outcome{}, fmt.Errorf("signal flow: tap %d cell %d: %w", i, cell, core.ErrInvalidInputIndex)
		}
	}

	for i, cell := range in.Taps {
		if cell != c.Sequence[i] {
			return core.Miss(), nil
		}
	}

	if len(in.Taps) < len(c.Sequence) {
		return core.Outcome{Streak: streak}, nil
	}
	return core.Hit(g.cfg.BasePoints+g.cfg.PointsPerSymbol*len(c.Sequence), streak), nil
}

// Solve repeats the sequence.
func (g *Game) Solve(ch core.Challenge) core.Input {
	c, err := challengeOf(ch)
	if err != nil {
		return core.Input{}
	}
	return core.TapsInput(c.Sequence...)
}

// Random taps a full-length sequence of random cells.
func (g *Game) Random(ch core.Challenge, rng *rand.Rand) core.Input {
	c, err := challengeOf(ch)
	if err != nil {
		return core.Input{}
	}
	taps := make([]int, len(c.Sequence))
	for i := range taps {
		taps[i] = rng.Intn(c.GridSize)
	}
	return core.Input{Taps: taps}
}

// Timing implements registry.Strategy. Playback lasts show+gap per symbol.
func (g *Game) Timing(ch core.Challenge, rt core.RuntimeConfig) registry.Timing {
	c, _ := ch.(Challenge)
	per := rt.Ticks(g.cfg.ShowSeconds) + rt.Ticks(g.cfg.GapSeconds)
	return registry.Timing{
		Playback:   per * len(c.Sequence),
		Countdown:  rt.Ticks(g.cfg.Timing.Intro),
		Timeout:    rt.Ticks(g.cfg.Timing.Timeout),
		Transition: rt.Ticks(g.cfg.Timing.Transition),
	}
}

// Frame returns the lit cell at a tick offset into playback, or -1.
func (g *Game) Frame(ch core.Challenge, rt core.RuntimeConfig, offset int) int {
	c, ok := ch.(Challenge)
	if !ok || offset < 0 {
		return -1
	}
	show := rt.Ticks(g.cfg.ShowSeconds)
	per := show + rt.Ticks(g.cfg.GapSeconds)
	if per == 0 {
		return -1
	}
	idx := offset / per
	if idx >= len(c.Sequence) || offset%per >= show {
		return -1
	}
	return c.Sequence[idx]
}

func challengeOf(ch core.Challenge) (Challenge, error) {
	c, ok := ch.(Challenge)
	if !ok {
		return Challenge{}, fmt.Errorf("signal flow: got %T: %w", ch, core.ErrInvalidChallenge)
	}
	if c.GridSize < 1 || len(c.Sequence) == 0 {
		return Challenge{}, fmt.Errorf("signal flow: empty grid or sequence: %w", core.ErrInvalidChallenge)
	}
	for _, cell := range c.Sequence {
		if cell < 0 || cell >= c.GridSize {
			return Challenge{}, fmt.Errorf("signal flow: sequence cell %d: %w", cell, core.ErrInvalidChallenge)
		}
	}
	return c, nil
}

// Register the game with the registry
func init() {
	registry.Register(core.KindSignalFlow, func(cfg config.GameConfig) registry.Strategy {
		return New(cfg.SignalFlow)
	})
}
