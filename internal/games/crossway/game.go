// Package crossway implements Crossway Split: three lanes of safe and blocked
// segments scroll past and the player picks the lane whose last segment is
// safe. Undecided players get a random lane when the choice times out.
package crossway

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/glow-routes/internal/config"
	"github.com/vovakirdan/glow-routes/internal/core"
	"github.com/vovakirdan/glow-routes/internal/registry"
)

// Challenge is one Crossway Split round. Lanes[i][j] is true when segment j
// of lane i is safe. Lanes must not be modified.
type Challenge struct {
	RoundIndex int
	Lanes      [][]bool
}

// Kind implements core.Challenge.
func (c Challenge) Kind() core.Kind { return core.KindCrosswaySplit }

// Round implements core.Challenge.
func (c Challenge) Round() int { return c.RoundIndex }

// EndsSafe reports whether lane i ends in a safe segment.
func (c Challenge) EndsSafe(i int) bool {
	lane := c.Lanes[i]
	return lane[len(lane)-1]
}

// SafeLanes returns the indices of lanes ending safe.
func (c Challenge) SafeLanes() []int {
	var safe []int
	for i := range c.Lanes {
		if c.EndsSafe(i) {
			safe = append(safe, i)
		}
	}
	return safe
}

// Game is the Crossway Split scoring strategy.
type Game struct {
	cfg config.CrosswaySplitConfig
}

// New creates a Crossway Split strategy.
func New(cfg config.CrosswaySplitConfig) *Game {
	return &Game{cfg: cfg}
}

// Kind implements registry.Strategy.
func (g *Game) Kind() core.Kind {
	return core.KindCrosswaySplit
}

// Generate fills every segment with a coin flip. If no lane ends safe, one
// random lane's last segment is forced safe.
func (g *Game) Generate(round int, rng *rand.Rand) core.Challenge {
	lanes := make([][]bool, g.cfg.Lanes)
	for i := range lanes {
		lanes[i] = make([]bool, g.cfg.Segments)
		for j := range lanes[i] {
			lanes[i][j] = rng.Intn(2) == 1
		}
	}

	c := Challenge{RoundIndex: round, Lanes: lanes}
	if len(c.SafeLanes()) == 0 {
		pick := rng.Intn(len(lanes))
		lanes[pick][len(lanes[pick])-1] = true
	}
	return c
}

// Evaluate scores the chosen lane: full points if it ends safe, else none.
func (g *Game) Evaluate(ch core.Challenge, in core.Input, streak int) (core.Outcome, error) {
	c, err := challengeOf(ch)
	if err != nil {
		return core.Outcome{}, err
	}
	if in.Lane < 0 || in.Lane >= len(c.Lanes) {
		return core.Outcome{}, fmt.Errorf("crossway split: lane %d of %d: %w", in.Lane, len(c.Lanes), core.ErrInvalidInputIndex)
	}

	if !c.EndsSafe(in.Lane) {
		return core.Miss(), nil
	}
	return core.Hit(g.cfg.Points, streak), nil
}

// Solve picks the first safe lane.
func (g *Game) Solve(ch core.Challenge) core.Input {
	c, err := challengeOf(ch)
	if err != nil {
		return core.Input{}
	}
	if safe := c.SafeLanes(); len(safe) > 0 {
		return core.LaneInput(safe[0])
	}
	return core.LaneInput(0)
}

// Random picks any lane. This is the timeout choice.
func (g *Game) Random(ch core.Challenge, rng *rand.Rand) core.Input {
	c, err := challengeOf(ch)
	if err != nil {
		return core.Input{}
	}
	return core.LaneInput(rng.Intn(len(c.Lanes)))
}

// Timing implements registry.Strategy.
func (g *Game) Timing(_ core.Challenge, rt core.RuntimeConfig) registry.Timing {
	return registry.Timing{
		Countdown:  rt.Ticks(g.cfg.Timing.Intro),
		Timeout:    rt.Ticks(g.cfg.Timing.Timeout),
		Transition: rt.Ticks(g.cfg.Timing.Transition),
	}
}

func challengeOf(ch core.Challenge) (Challenge, error) {
	c, ok := ch.(Challenge)
	if !ok {
		return Challenge{}, fmt.Errorf("crossway split: got %T: %w", ch, core.ErrInvalidChallenge)
	}
	if len(c.Lanes) == 0 {
		return Challenge{}, fmt.Errorf("crossway split: no lanes: %w", core.ErrInvalidChallenge)
	}
	for i, lane := range c.Lanes {
		if len(lane) == 0 {
			return Challenge{}, fmt.Errorf("crossway split: lane %d has no segments: %w", i, core.ErrInvalidChallenge)
		}
	}
	return c, nil
}

// Register the game with the registry
func init() {
	registry.Register(core.KindCrosswaySplit, func(cfg config.GameConfig) registry.Strategy {
		return New(cfg.CrosswaySplit)
	})
}
