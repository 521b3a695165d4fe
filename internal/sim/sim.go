// Package sim plays sessions headlessly with a simple bot. It drives the
// round controller on its logical clock exactly like a presentation adapter
// would, which makes it useful for tuning and smoke tests.
package sim

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/glow-routes/internal/config"
	"github.com/vovakirdan/glow-routes/internal/core"
	"github.com/vovakirdan/glow-routes/internal/registry"
	"github.com/vovakirdan/glow-routes/internal/round"
	"github.com/vovakirdan/glow-routes/internal/stats"
)

// maxSessionTicks bounds a single session so a stuck round cannot spin forever.
const maxSessionTicks = 1_000_000

// Options configures a simulation run.
type Options struct {
	Kind     core.Kind
	Sessions int
	Skill    float64 // Probability of answering a round correctly
	Idle     float64 // Probability of waiting out a round that has a timeout
	Seed     int64
}

// Report summarizes a run.
type Report struct {
	Sessions []stats.Session
	Ticks    core.Tick // Logical ticks consumed across the run
	Failed   int       // Sessions whose summary could not be recorded
}

// BestScore returns the highest session score in the report.
func (r Report) BestScore() int {
	best := 0
	for _, s := range r.Sessions {
		best = core.Max(best, s.TotalScore)
	}
	return best
}

// AverageScore returns the mean session score, 0 for an empty report.
func (r Report) AverageScore() float64 {
	if len(r.Sessions) == 0 {
		return 0
	}
	total := 0
	for _, s := range r.Sessions {
		total += s.TotalScore
	}
	return float64(total) / float64(len(r.Sessions))
}

// Run plays opts.Sessions full sessions through ctrl. The bot waits through
// playback and intros, then answers each round with a solved input with
// probability Skill and a random one otherwise.
func Run(ctx context.Context, ctrl *round.Controller, cfg config.GameConfig, opts Options, logger *log.Logger) (Report, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Sessions <= 0 {
		return Report{}, fmt.Errorf("sim: sessions must be positive, got %d", opts.Sessions)
	}
	if opts.Skill < 0 || opts.Skill > 1 || opts.Idle < 0 || opts.Idle > 1 {
		return Report{}, fmt.Errorf("sim: skill and idle must be within [0, 1]")
	}

	strategy, err := registry.Create(opts.Kind, cfg)
	if err != nil {
		return Report{}, err
	}

	b := &bot{
		ctrl:     ctrl,
		strategy: strategy,
		rt:       ctrl.Runtime(),
		rng:      rand.New(rand.NewSource(opts.Seed)),
		opts:     opts,
	}

	var report Report
	start := ctrl.State().Tick
	for i := 0; i < opts.Sessions; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		st, err := b.play()
		if err != nil {
			return report, err
		}
		report.Sessions = append(report.Sessions, *st.Summary)
		if st.RecordErr != nil {
			report.Failed++
			logger.Warn("session not recorded", "session", st.SessionID, "err", st.RecordErr)
		}
		logger.Debug("simulated session",
			"n", i+1,
			"kind", opts.Kind.ID(),
			"score", st.Summary.TotalScore,
			"streak", st.Summary.FinalStreak)
	}
	report.Ticks = ctrl.State().Tick - start
	return report, nil
}

type bot struct {
	ctrl     *round.Controller
	strategy registry.Strategy
	rt       core.RuntimeConfig
	rng      *rand.Rand
	opts     Options
}

// play runs one session to completion and returns its final state.
func (b *bot) play() (round.State, error) {
	if err := b.ctrl.Start(b.opts.Kind); err != nil {
		return round.State{}, err
	}

	decided, idling := 0, false
	for n := 0; n < maxSessionTicks; n++ {
		st := b.ctrl.State()
		if st.Status == round.StatusFinished {
			return st, nil
		}
		if st.Phase != round.PhaseAwaitInput {
			b.ctrl.Advance(1)
			continue
		}

		if st.Round != decided {
			decided = st.Round
			idling = b.strategy.Timing(st.Challenge, b.rt).Timeout > 0 && b.rng.Float64() < b.opts.Idle
		}
		if idling {
			b.ctrl.Advance(1)
			continue
		}

		if _, err := b.ctrl.Submit(b.answer(st.Challenge)); err != nil {
			return st, fmt.Errorf("sim: round %d: %w", st.Round, err)
		}
	}
	return b.ctrl.State(), fmt.Errorf("sim: session did not finish within %d ticks", maxSessionTicks)
}

func (b *bot) answer(ch core.Challenge) core.Input {
	if b.rng.Float64() < b.opts.Skill {
		return b.strategy.Solve(ch)
	}
	return b.strategy.Random(ch, b.rng)
}
