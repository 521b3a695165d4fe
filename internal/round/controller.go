// Package round drives a mini-game session: eight rounds of generate,
// present, capture and score, paced by a logical clock.
package round

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/glow-routes/internal/config"
	"github.com/vovakirdan/glow-routes/internal/core"
	"github.com/vovakirdan/glow-routes/internal/registry"
	"github.com/vovakirdan/glow-routes/internal/stats"
)

// Controller owns one session at a time. It is safe for concurrent use;
// clock callbacks run under the same lock as the public methods.
type Controller struct {
	mu        sync.Mutex
	cfg       config.GameConfig
	rt        core.RuntimeConfig
	rng       *rand.Rand
	clock     *core.Clock
	recorder  Recorder
	logger    *log.Logger
	listeners []func(Event)
	outbox    []Event

	state      State
	token      core.Token
	strategy   registry.Strategy
	timing     registry.Timing
	motion     registry.Motion
	player     registry.Player
	phaseStart core.Tick
	timeout    core.EventID
	unrecorded bool
}

// New creates an idle controller. rec may be nil to skip recording; a nil
// logger discards output.
func New(cfg config.GameConfig, rt core.RuntimeConfig, rec Recorder, logger *log.Logger) *Controller {
	rt = rt.Normalize()
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		cfg:      cfg,
		rt:       rt,
		rng:      rand.New(rand.NewSource(rt.Seed)),
		clock:    core.NewClock(),
		recorder: rec,
		logger:   logger,
		state:    idleState(),
	}
}

func idleState() State {
	return State{Status: StatusIdle, TotalRounds: core.TotalRounds, ActiveCell: -1}
}

// Runtime returns the normalized runtime configuration.
func (c *Controller) Runtime() core.RuntimeConfig {
	return c.rt
}

// Subscribe registers fn for every future event.
func (c *Controller) Subscribe(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// State returns a copy of the current session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Tick = c.clock.Now()
	s.Taps = append([]int(nil), c.state.Taps...)
	if c.state.LastOutcome != nil {
		o := *c.state.LastOutcome
		s.LastOutcome = &o
	}
	if c.state.Summary != nil {
		sum := *c.state.Summary
		s.Summary = &sum
	}
	return s
}

// Start begins a new session of kind. Any current session is superseded and
// its pending clock events are dropped.
func (c *Controller) Start(kind core.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("round: %w: %d", core.ErrUnknownKind, int(kind))
	}
	strategy, err := registry.Create(kind, c.cfg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.unlock()

	if c.state.Status == StatusPlaying {
		c.logger.Info("superseding session", "session", c.state.SessionID, "round", c.state.Round)
	}
	c.discard()

	c.strategy = strategy
	c.token = core.Token(uuid.NewString())
	c.player, _ = strategy.(registry.Player)
	c.state = idleState()
	c.state.SessionID = string(c.token)
	c.state.Kind = kind
	c.state.Status = StatusPlaying

	c.logger.Debug("session started", "session", c.state.SessionID, "kind", kind.ID())
	c.beginRound(1)
	return nil
}

// Reset abandons the current session and returns to idle.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.unlock()

	if c.state.Status == StatusIdle {
		return fmt.Errorf("round: reset while idle: %w", core.ErrInvalidTransition)
	}
	c.discard()
	c.state = idleState()
	return nil
}

// Submit scores an input for the open round. Outside the input phase it
// returns core.ErrInvalidTransition; an out-of-bounds input returns
// core.ErrInvalidInputIndex and the round stays open.
func (c *Controller) Submit(in core.Input) (core.Outcome, error) {
	c.mu.Lock()
	defer c.unlock()

	if err := c.awaitingInput("submit"); err != nil {
		return core.Outcome{}, err
	}
	return c.evaluate(in)
}

// Stop captures the moving marker or pointer and submits it.
func (c *Controller) Stop() (core.Outcome, error) {
	c.mu.Lock()
	defer c.unlock()

	if err := c.awaitingInput("stop"); err != nil {
		return core.Outcome{}, err
	}
	if c.motion == nil {
		return core.Outcome{}, fmt.Errorf("round: stop in %s: %w", c.state.Kind.ID(), core.ErrInvalidTransition)
	}
	return c.evaluate(c.motion.Capture())
}

// Tap adds a Signal Flow cell tap and submits the taps so far. A matching
// prefix returns an unresolved outcome.
func (c *Controller) Tap(cell int) (core.Outcome, error) {
	c.mu.Lock()
	defer c.unlock()

	if err := c.awaitingInput("tap"); err != nil {
		return core.Outcome{}, err
	}
	if c.state.Kind != core.KindSignalFlow {
		return core.Outcome{}, fmt.Errorf("round: tap in %s: %w", c.state.Kind.ID(), core.ErrInvalidTransition)
	}
	taps := append(append([]int(nil), c.state.Taps...), cell)
	return c.evaluate(core.TapsInput(taps...))
}

// ChooseLane submits a Crossway Split lane choice.
func (c *Controller) ChooseLane(lane int) (core.Outcome, error) {
	c.mu.Lock()
	defer c.unlock()

	if err := c.awaitingInput("choose lane"); err != nil {
		return core.Outcome{}, err
	}
	if c.state.Kind != core.KindCrosswaySplit {
		return core.Outcome{}, fmt.Errorf("round: lane choice in %s: %w", c.state.Kind.ID(), core.ErrInvalidTransition)
	}
	return c.evaluate(core.LaneInput(lane))
}

// Advance moves the logical clock forward. Motion steps once per tick while
// input is open; playback, timeouts and transitions fire in tick order.
func (c *Controller) Advance(ticks int) {
	c.mu.Lock()
	defer c.unlock()

	c.clock.Advance(ticks, c.tick)
}

// RetryRecord retries a summary whose recording failed.
func (c *Controller) RetryRecord(ctx context.Context) (stats.Snapshot, error) {
	c.mu.Lock()
	defer c.unlock()

	if c.state.Status != StatusFinished || !c.unrecorded || c.recorder == nil {
		return stats.Snapshot{}, fmt.Errorf("round: nothing to record: %w", core.ErrInvalidTransition)
	}

	var (
		snap stats.Snapshot
		err  error
	)
	if errors.Is(c.state.RecordErr, core.ErrPersistence) {
		// The store already holds the session in memory.
		if err = c.recorder.Flush(ctx); err == nil {
			snap = c.recorder.Snapshot()
		}
	} else {
		snap, err = c.recorder.RecordSession(ctx, *c.state.Summary)
	}
	c.recorded(snap, err)
	return snap, err
}

func (c *Controller) awaitingInput(op string) error {
	if c.state.Status != StatusPlaying || c.state.Phase != PhaseAwaitInput {
		return fmt.Errorf("round: %s during %s/%s: %w", op, c.state.Status, c.state.Phase, core.ErrInvalidTransition)
	}
	return nil
}

// discard drops the current session's scheduled events.
func (c *Controller) discard() {
	if c.token != "" {
		if n := c.clock.CancelToken(c.token); n > 0 {
			c.logger.Debug("dropped pending events", "session", string(c.token), "count", n)
		}
	}
	c.token = ""
	c.strategy = nil
	c.motion = nil
	c.player = nil
	c.timeout = 0
	c.unrecorded = false
}

// schedule runs fn after the given ticks unless the session was replaced.
func (c *Controller) schedule(after int, fn func()) core.EventID {
	token := c.token
	return c.clock.Schedule(after, token, func() {
		if c.token != token {
			return
		}
		fn()
	})
}

// after runs fn after the given ticks, or now when ticks is zero.
func (c *Controller) after(ticks int, fn func()) {
	if ticks <= 0 {
		fn()
		return
	}
	c.schedule(ticks, fn)
}

func (c *Controller) beginRound(r int) {
	ch := c.strategy.Generate(r, c.rng)
	c.timing = c.strategy.Timing(ch, c.rt)
	c.motion = nil
	if m, ok := c.strategy.(registry.Mover); ok {
		c.motion = m.NewMotion(ch, c.rt)
	}

	c.state.Round = r
	c.state.Challenge = ch
	c.state.Taps = nil
	c.state.Pointer = 0
	c.state.ActiveCell = -1
	c.emit(EventRoundStarted, core.Outcome{})

	if c.timing.Playback > 0 && c.player != nil {
		c.state.Phase = PhasePlayback
		c.phaseStart = c.clock.Now()
		c.state.ActiveCell = c.player.Frame(ch, c.rt, 0)
		c.schedule(c.timing.Playback, c.countdown)
		return
	}
	c.countdown()
}

func (c *Controller) countdown() {
	c.state.ActiveCell = -1
	if c.timing.Countdown > 0 {
		c.state.Phase = PhaseIntro
		c.schedule(c.timing.Countdown, c.openInput)
		return
	}
	c.openInput()
}

func (c *Controller) openInput() {
	c.state.Phase = PhaseAwaitInput
	c.emit(EventInputOpened, core.Outcome{})

	if c.timing.Timeout > 0 {
		r := c.state.Round
		c.timeout = c.schedule(c.timing.Timeout, func() { c.expire(r) })
	}
}

// expire submits a synthesized input when the round times out.
func (c *Controller) expire(r int) {
	c.timeout = 0
	if c.state.Phase != PhaseAwaitInput || c.state.Round != r {
		return
	}

	var in core.Input
	if c.motion != nil {
		in = c.motion.Capture()
	} else {
		in = c.strategy.Random(c.state.Challenge, c.rng)
	}
	in.Synthesized = true

	c.logger.Debug("input timed out", "kind", c.state.Kind.ID(), "round", r)
	if _, err := c.evaluate(in); err != nil {
		c.logger.Error("cannot score synthesized input", "kind", c.state.Kind.ID(), "round", r, "err", err)
	}
}

// tick is called once per clock tick before due events fire.
func (c *Controller) tick(now core.Tick) {
	switch c.state.Phase {
	case PhaseAwaitInput:
		if c.motion != nil {
			c.motion.Step()
			c.state.Pointer = c.motion.Value()
		}
	case PhasePlayback:
		if c.player != nil {
			c.state.ActiveCell = c.player.Frame(c.state.Challenge, c.rt, int(now-c.phaseStart))
		}
	}
}

func (c *Controller) evaluate(in core.Input) (core.Outcome, error) {
	out, err := c.strategy.Evaluate(c.state.Challenge, in, c.state.Streak)
	if err != nil {
		return core.Outcome{}, err
	}
	if !out.Resolved {
		c.state.Taps = append([]int(nil), in.Taps...)
		return out, nil
	}
	c.resolve(in, out)
	return out, nil
}

func (c *Controller) resolve(in core.Input, out core.Outcome) {
	if c.timeout != 0 {
		c.clock.Cancel(c.timeout)
		c.timeout = 0
	}
	if in.Taps != nil {
		c.state.Taps = append([]int(nil), in.Taps...)
	}

	c.state.TotalScore += out.Points
	c.state.Streak = out.Streak
	c.state.LastOutcome = &out
	c.state.Phase = PhaseTransition

	c.logger.Debug("round resolved",
		"kind", c.state.Kind.ID(),
		"round", c.state.Round,
		"success", out.Success,
		"points", out.Points,
		"streak", out.Streak,
		"synthesized", in.Synthesized)
	c.emit(EventRoundResolved, out)

	c.after(c.timing.Transition, c.nextRound)
}

func (c *Controller) nextRound() {
	if c.state.Round < core.TotalRounds {
		c.beginRound(c.state.Round + 1)
		return
	}
	c.finish()
}

func (c *Controller) finish() {
	c.state.Status = StatusFinished
	c.state.Phase = PhaseNone
	c.motion = nil

	summary := stats.Session{
		ID:          c.state.SessionID,
		Kind:        c.state.Kind,
		TotalScore:  c.state.TotalScore,
		GlowShards:  c.cfg.Rewards.GlowShards(c.state.TotalScore, c.state.Streak),
		FinalStreak: c.state.Streak,
	}
	c.state.Summary = &summary

	c.logger.Info("session finished",
		"kind", summary.Kind.ID(),
		"score", summary.TotalScore,
		"shards", summary.GlowShards,
		"streak", summary.FinalStreak)
	c.emit(EventSessionFinished, core.Outcome{})

	if c.recorder == nil {
		return
	}
	snap, err := c.recorder.RecordSession(context.Background(), summary)
	c.recorded(snap, err)
}

func (c *Controller) recorded(snap stats.Snapshot, err error) {
	if err != nil {
		c.unrecorded = true
		c.state.RecordErr = err
		c.logger.Error("cannot record session", "session", c.state.SessionID, "err", err)
		return
	}
	c.unrecorded = false
	c.state.RecordErr = nil
	ev := c.event(EventSessionRecorded, core.Outcome{})
	ev.Snapshot = snap
	c.outbox = append(c.outbox, ev)
}

func (c *Controller) event(t EventType, out core.Outcome) Event {
	ev := Event{
		Type:      t,
		SessionID: c.state.SessionID,
		Kind:      c.state.Kind,
		Round:     c.state.Round,
		Outcome:   out,
	}
	if c.state.Summary != nil {
		ev.Summary = *c.state.Summary
	}
	return ev
}

func (c *Controller) emit(t EventType, out core.Outcome) {
	c.outbox = append(c.outbox, c.event(t, out))
}

// unlock releases the lock and then delivers queued events.
func (c *Controller) unlock() {
	events := c.outbox
	c.outbox = nil
	listeners := c.listeners
	c.mu.Unlock()

	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}
