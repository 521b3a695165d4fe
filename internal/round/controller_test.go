package round

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/glow-routes/internal/config"
	"github.com/vovakirdan/glow-routes/internal/core"
	_ "github.com/vovakirdan/glow-routes/internal/games/crossway"
	_ "github.com/vovakirdan/glow-routes/internal/games/lanedash"
	"github.com/vovakirdan/glow-routes/internal/games/signalflow"
	_ "github.com/vovakirdan/glow-routes/internal/games/timingarcs"
	"github.com/vovakirdan/glow-routes/internal/registry"
	"github.com/vovakirdan/glow-routes/internal/stats"
	"github.com/vovakirdan/glow-routes/internal/storage"
)

var testRuntime = core.RuntimeConfig{TickRate: 60, Seed: 7}

// playSession advances the clock until input opens, submits choose(state)
// and repeats until the session finishes.
func playSession(t *testing.T, c *Controller, choose func(State) core.Input) State {
	t.Helper()
	for i := 0; i < 100000; i++ {
		st := c.State()
		switch {
		case st.Status == StatusFinished:
			return st
		case st.Phase == PhaseAwaitInput:
			if _, err := c.Submit(choose(st)); err != nil {
				t.Fatalf("round %d: Submit() failed: %v", st.Round, err)
			}
		default:
			c.Advance(1)
		}
	}
	t.Fatal("session did not finish")
	return State{}
}

func newStatsStore(t *testing.T) *stats.Store {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return stats.Open(context.Background(), db, nil)
}

func TestStartUnknownKind(t *testing.T) {
	c := New(config.DefaultGameConfig(), testRuntime, nil, nil)
	if err := c.Start(core.Kind(42)); !errors.Is(err, core.ErrUnknownKind) {
		t.Errorf("Start() error = %v, expected ErrUnknownKind", err)
	}
	if c.State().Status != StatusIdle {
		t.Error("failed start must leave the controller idle")
	}
}

func TestInvalidTransitions(t *testing.T) {
	c := New(config.DefaultGameConfig(), testRuntime, nil, nil)

	if err := c.Reset(); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("Reset() while idle: error = %v", err)
	}
	if _, err := c.Submit(core.PositionInput(0.5)); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("Submit() while idle: error = %v", err)
	}

	if err := c.Start(core.KindLaneDash); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if st := c.State(); st.Phase != PhaseIntro {
		t.Fatalf("phase = %s, expected intro", st.Phase)
	}
	// Input is not open during the 0.3s intro
	if _, err := c.Stop(); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("Stop() during intro: error = %v", err)
	}

	c.Advance(18)
	if st := c.State(); st.Phase != PhaseAwaitInput {
		t.Fatalf("phase after intro = %s, expected await_input", st.Phase)
	}
	if _, err := c.Tap(0); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("Tap() in lane dash: error = %v", err)
	}
	if _, err := c.ChooseLane(0); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("ChooseLane() in lane dash: error = %v", err)
	}

	if _, err := c.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	// The round is resolved; a second answer is rejected
	if _, err := c.Stop(); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("second Stop() during transition: error = %v", err)
	}
	if st := c.State(); st.Round != 1 || st.Phase != PhaseTransition {
		t.Errorf("state = round %d %s, expected round 1 transition", st.Round, st.Phase)
	}
}

func TestInvalidInputKeepsRoundOpen(t *testing.T) {
	c := New(config.DefaultGameConfig().Instant(), testRuntime, nil, nil)
	if err := c.Start(core.KindCrosswaySplit); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if _, err := c.ChooseLane(3); !errors.Is(err, core.ErrInvalidInputIndex) {
		t.Errorf("ChooseLane(3) error = %v, expected ErrInvalidInputIndex", err)
	}
	st := c.State()
	if st.Phase != PhaseAwaitInput || st.Round != 1 || st.LastOutcome != nil {
		t.Errorf("invalid input must not resolve the round: %+v", st)
	}
}

func TestLaneDashAllMissSession(t *testing.T) {
	ctx := context.Background()
	store := newStatsStore(t)
	if _, err := store.RecordSession(ctx, stats.Session{Kind: core.KindLaneDash, TotalScore: 500, GlowShards: 54, FinalStreak: 2}); err != nil {
		t.Fatalf("RecordSession() failed: %v", err)
	}

	c := New(config.DefaultGameConfig(), testRuntime, store, nil)

	counts := make(map[EventType]int)
	c.Subscribe(func(ev Event) { counts[ev.Type]++ })

	if err := c.Start(core.KindLaneDash); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	// Zones never start before 0.2, so stopping at 0 always misses.
	st := playSession(t, c, func(State) core.Input { return core.PositionInput(0) })

	if st.TotalScore != 0 || st.Streak != 0 {
		t.Errorf("score %d streak %d, expected 0 and 0", st.TotalScore, st.Streak)
	}
	if st.Summary == nil || st.Summary.GlowShards != 0 || st.Summary.FinalStreak != 0 {
		t.Errorf("summary = %+v, expected zero shards and streak", st.Summary)
	}
	if st.RecordErr != nil {
		t.Errorf("RecordErr = %v", st.RecordErr)
	}

	g := store.Game(core.KindLaneDash)
	if g.TotalPlays != 2 || g.BestScore != 500 {
		t.Errorf("lane dash stats = %+v, expected 2 plays and best 500", g)
	}

	if counts[EventRoundStarted] != 8 || counts[EventRoundResolved] != 8 {
		t.Errorf("round events = %v, expected 8 started and 8 resolved", counts)
	}
	if counts[EventSessionFinished] != 1 || counts[EventSessionRecorded] != 1 {
		t.Errorf("session events = %v", counts)
	}
}

func TestStreakAndScoreMonotonic(t *testing.T) {
	cfg := config.DefaultGameConfig().Instant()
	c := New(cfg, testRuntime, nil, nil)
	strategy, err := registry.Create(core.KindSignalFlow, cfg)
	if err != nil {
		t.Fatalf("registry.Create() failed: %v", err)
	}

	if err := c.Start(core.KindSignalFlow); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// Win, win, miss, win, win, win, miss, win
	pattern := []bool{true, true, false, true, true, true, false, true}
	prevScore, prevStreak := 0, 0

	for _, win := range pattern {
		st := c.State()
		if st.Phase != PhaseAwaitInput {
			t.Fatalf("round %d phase = %s, expected await_input", st.Round, st.Phase)
		}
		ch := st.Challenge.(signalflow.Challenge)

		in := strategy.Solve(ch)
		if !win {
			wrong := (ch.Sequence[0] + 1) % ch.GridSize
			in = core.TapsInput(wrong)
		}

		out, err := c.Submit(in)
		if err != nil {
			t.Fatalf("Submit() failed: %v", err)
		}
		if out.Success != win {
			t.Fatalf("round %d: success = %v, expected %v", st.Round, out.Success, win)
		}

		expectedStreak := 0
		if win {
			expectedStreak = prevStreak + 1
		}
		after := c.State()
		if after.Streak != expectedStreak {
			t.Errorf("round %d: streak = %d, expected %d", st.Round, after.Streak, expectedStreak)
		}
		if after.TotalScore < prevScore {
			t.Errorf("round %d: score decreased from %d to %d", st.Round, prevScore, after.TotalScore)
		}
		prevScore, prevStreak = after.TotalScore, after.Streak
	}

	st := c.State()
	if st.Status != StatusFinished {
		t.Fatalf("status = %s, expected finished", st.Status)
	}
	expectedShards := st.TotalScore/10 + 1*2
	if st.Summary.GlowShards != expectedShards || st.Summary.FinalStreak != 1 {
		t.Errorf("summary = %+v, expected %d shards and streak 1", st.Summary, expectedShards)
	}
}

func TestSignalFlowPlaybackAndTaps(t *testing.T) {
	c := New(config.DefaultGameConfig(), testRuntime, nil, nil)
	if err := c.Start(core.KindSignalFlow); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	st := c.State()
	ch := st.Challenge.(signalflow.Challenge)
	if ch.Len() != 4 {
		t.Fatalf("round 1 sequence length = %d, expected 4", ch.Len())
	}
	if st.Phase != PhasePlayback || st.ActiveCell != ch.Sequence[0] {
		t.Fatalf("playback should light %d first, got phase %s cell %d", ch.Sequence[0], st.Phase, st.ActiveCell)
	}

	// 0.6s show: still the first cell; then a 0.2s gap
	c.Advance(35)
	if got := c.State().ActiveCell; got != ch.Sequence[0] {
		t.Errorf("tick 35: cell %d, expected %d", got, ch.Sequence[0])
	}
	c.Advance(1)
	if got := c.State().ActiveCell; got != -1 {
		t.Errorf("tick 36: cell %d, expected dark", got)
	}
	c.Advance(12)
	if got := c.State().ActiveCell; got != ch.Sequence[1] {
		t.Errorf("tick 48: cell %d, expected %d", got, ch.Sequence[1])
	}

	if _, err := c.Tap(ch.Sequence[0]); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("Tap() during playback: error = %v", err)
	}

	// 4 symbols * 48 ticks, then the 0.5s countdown
	c.Advance(4*48 - 48)
	if st := c.State(); st.Phase != PhaseIntro {
		t.Fatalf("phase after playback = %s, expected intro", st.Phase)
	}
	c.Advance(30)
	if st := c.State(); st.Phase != PhaseAwaitInput {
		t.Fatalf("phase after countdown = %s, expected await_input", st.Phase)
	}

	if _, err := c.Tap(9); !errors.Is(err, core.ErrInvalidInputIndex) {
		t.Errorf("Tap(9) error = %v, expected ErrInvalidInputIndex", err)
	}

	for i, cell := range ch.Sequence[:3] {
		out, err := c.Tap(cell)
		if err != nil {
			t.Fatalf("Tap(%d) failed: %v", cell, err)
		}
		if out.Resolved {
			t.Fatalf("prefix of %d taps should not resolve", i+1)
		}
	}
	if got := c.State().Taps; len(got) != 3 {
		t.Errorf("Taps = %v, expected 3 accepted taps", got)
	}

	out, err := c.Tap(ch.Sequence[3])
	if err != nil {
		t.Fatalf("final Tap() failed: %v", err)
	}
	if !out.Success || out.Points != 140 || out.Streak != 1 {
		t.Errorf("full sequence: %+v, expected success with 140 points", out)
	}
	if st := c.State(); st.Phase != PhaseTransition || st.TotalScore != 140 {
		t.Errorf("state = %s score %d, expected transition with 140", st.Phase, st.TotalScore)
	}
}

func TestCrosswayTimeoutPicksLane(t *testing.T) {
	c := New(config.DefaultGameConfig(), testRuntime, nil, nil)

	var resolved []Event
	c.Subscribe(func(ev Event) {
		if ev.Type == EventRoundResolved {
			resolved = append(resolved, ev)
		}
	})

	if err := c.Start(core.KindCrosswaySplit); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if st := c.State(); st.Phase != PhaseAwaitInput {
		t.Fatalf("crossway should open input immediately, phase = %s", st.Phase)
	}

	c.Advance(179)
	if st := c.State(); st.Phase != PhaseAwaitInput {
		t.Fatalf("phase before 3.0s = %s", st.Phase)
	}
	c.Advance(1)

	st := c.State()
	if st.Phase != PhaseTransition || st.LastOutcome == nil {
		t.Fatalf("timeout should resolve the round, state = %+v", st)
	}
	if len(resolved) != 1 || resolved[0].Round != 1 {
		t.Errorf("resolved events = %+v, expected one for round 1", resolved)
	}

	// 1.5s transition, then round 2
	c.Advance(90)
	if st := c.State(); st.Round != 2 || st.Phase != PhaseAwaitInput {
		t.Errorf("state = round %d %s, expected round 2 await_input", st.Round, st.Phase)
	}
}

func TestSupersededSessionEventsAreInert(t *testing.T) {
	c := New(config.DefaultGameConfig(), testRuntime, nil, nil)

	if err := c.Start(core.KindCrosswaySplit); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	first := c.State().SessionID
	c.Advance(100)

	if err := c.Start(core.KindCrosswaySplit); err != nil {
		t.Fatalf("second Start() failed: %v", err)
	}
	second := c.State().SessionID
	if first == second {
		t.Fatal("restart must create a new session id")
	}

	// The first session's timeout was due at tick 180
	c.Advance(100)
	if st := c.State(); st.Phase != PhaseAwaitInput || st.LastOutcome != nil {
		t.Fatalf("stale timeout resolved the new session: %+v", st)
	}
	c.Advance(80)
	if st := c.State(); st.LastOutcome == nil || st.SessionID != second {
		t.Errorf("new session timeout did not fire at its own deadline: %+v", st)
	}

	if err := c.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	c.Advance(1000)
	if st := c.State(); st.Status != StatusIdle || st.Round != 0 {
		t.Errorf("events fired after reset: %+v", st)
	}
	if n := c.clock.Pending(); n != 0 {
		t.Errorf("%d events still pending after reset", n)
	}
}

func TestStopCapturesMotion(t *testing.T) {
	c := New(config.DefaultGameConfig().Instant(), testRuntime, nil, nil)
	if err := c.Start(core.KindLaneDash); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// Round 1 speed 1.2 moves the marker 0.012 per tick
	c.Advance(10)
	st := c.State()
	if st.Pointer < 0.1199 || st.Pointer > 0.1201 {
		t.Fatalf("pointer = %v, expected 0.12", st.Pointer)
	}

	out, err := c.Stop()
	if err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if out.Success || out.Points != 0 {
		t.Errorf("stop at 0.12 is before every zone: %+v", out)
	}

	// Zero transition goes straight to round 2 with a fresh marker
	st = c.State()
	if st.Round != 2 || st.Phase != PhaseAwaitInput || st.Pointer != 0 {
		t.Errorf("state = round %d %s pointer %v", st.Round, st.Phase, st.Pointer)
	}
}

func TestRestartFromFinished(t *testing.T) {
	c := New(config.DefaultGameConfig().Instant(), testRuntime, nil, nil)
	if err := c.Start(core.KindTimingArcs); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	playSession(t, c, func(State) core.Input { return core.AngleInput(0) })

	if err := c.Start(core.KindTimingArcs); err != nil {
		t.Fatalf("Start() from finished failed: %v", err)
	}
	st := c.State()
	if st.Status != StatusPlaying || st.Round != 1 || st.TotalScore != 0 || st.Summary != nil {
		t.Errorf("restart state = %+v", st)
	}
}

// failingRecorder fails every write until ok is set.
type failingRecorder struct {
	ok       bool
	sessions []stats.Session
	flushes  int
}

func (r *failingRecorder) RecordSession(_ context.Context, sess stats.Session) (stats.Snapshot, error) {
	r.sessions = append(r.sessions, sess)
	if !r.ok {
		return stats.Snapshot{}, &core.PersistenceError{Op: "record session", Err: errors.New("disk full")}
	}
	return r.Snapshot(), nil
}

func (r *failingRecorder) Flush(context.Context) error {
	r.flushes++
	if !r.ok {
		return &core.PersistenceError{Op: "flush", Err: errors.New("disk full")}
	}
	return nil
}

func (r *failingRecorder) Snapshot() stats.Snapshot {
	return stats.NewSnapshot()
}

func TestPersistenceFailureCanRetry(t *testing.T) {
	rec := &failingRecorder{}
	c := New(config.DefaultGameConfig().Instant(), testRuntime, rec, nil)

	recorded := 0
	c.Subscribe(func(ev Event) {
		if ev.Type == EventSessionRecorded {
			recorded++
		}
	})

	if err := c.Start(core.KindCrosswaySplit); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	st := playSession(t, c, func(State) core.Input { return core.LaneInput(0) })

	if !errors.Is(st.RecordErr, core.ErrPersistence) {
		t.Fatalf("RecordErr = %v, expected a persistence error", st.RecordErr)
	}
	if recorded != 0 {
		t.Error("no recorded event expected while persistence fails")
	}

	if _, err := c.RetryRecord(context.Background()); !errors.Is(err, core.ErrPersistence) {
		t.Errorf("RetryRecord() while failing: error = %v", err)
	}

	rec.ok = true
	if _, err := c.RetryRecord(context.Background()); err != nil {
		t.Fatalf("RetryRecord() failed: %v", err)
	}
	if len(rec.sessions) != 1 || rec.flushes != 2 {
		t.Errorf("recorder saw %d sessions and %d flushes, expected 1 and 2", len(rec.sessions), rec.flushes)
	}
	if recorded != 1 || c.State().RecordErr != nil {
		t.Errorf("recorded events = %d, RecordErr = %v", recorded, c.State().RecordErr)
	}

	if _, err := c.RetryRecord(context.Background()); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("RetryRecord() after success: error = %v", err)
	}
}
