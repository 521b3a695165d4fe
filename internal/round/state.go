package round

import (
	"context"

	"github.com/vovakirdan/glow-routes/internal/core"
	"github.com/vovakirdan/glow-routes/internal/stats"
)

// Status is the session lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusPlaying
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPlaying:
		return "playing"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Phase is the sub-state of a round while playing.
type Phase int

const (
	PhaseNone       Phase = iota
	PhasePlayback         // Challenge is being shown (Signal Flow)
	PhaseIntro            // Countdown before input opens
	PhaseAwaitInput       // Waiting for the player's answer
	PhaseTransition       // Pause after a resolved round
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhasePlayback:
		return "playback"
	case PhaseIntro:
		return "intro"
	case PhaseAwaitInput:
		return "await_input"
	case PhaseTransition:
		return "transition"
	default:
		return "unknown"
	}
}

// State is a copy of the session as seen by a presentation adapter.
type State struct {
	SessionID   string
	Kind        core.Kind
	Status      Status
	Phase       Phase
	Round       int // 1-based
	TotalRounds int
	TotalScore  int
	Streak      int
	Tick        core.Tick

	Challenge  core.Challenge
	Pointer    float64 // Live marker position or pointer angle
	ActiveCell int     // Cell lit during playback, -1 when dark
	Taps       []int   // Signal Flow taps accepted this round

	LastOutcome *core.Outcome
	Summary     *stats.Session // Set once finished
	RecordErr   error          // Last failure to record the summary
}

// EventType names a controller notification.
type EventType int

const (
	EventRoundStarted EventType = iota
	EventInputOpened
	EventRoundResolved
	EventSessionFinished
	EventSessionRecorded
)

func (t EventType) String() string {
	switch t {
	case EventRoundStarted:
		return "round_started"
	case EventInputOpened:
		return "input_opened"
	case EventRoundResolved:
		return "round_resolved"
	case EventSessionFinished:
		return "session_finished"
	case EventSessionRecorded:
		return "session_recorded"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after the controller releases its lock,
// so handlers may call back into the controller.
type Event struct {
	Type      EventType
	SessionID string
	Kind      core.Kind
	Round     int
	Outcome   core.Outcome   // EventRoundResolved
	Summary   stats.Session  // EventSessionFinished, EventSessionRecorded
	Snapshot  stats.Snapshot // EventSessionRecorded
}

// Recorder receives finished session summaries. *stats.Store implements it.
type Recorder interface {
	RecordSession(ctx context.Context, sess stats.Session) (stats.Snapshot, error)
	Flush(ctx context.Context) error
	Snapshot() stats.Snapshot
}

var _ Recorder = (*stats.Store)(nil)
