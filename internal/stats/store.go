package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/glow-routes/internal/core"
	"github.com/vovakirdan/glow-routes/internal/storage"
)

// Backend is the persistence the store writes through.
// *storage.Store implements it.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Commit(ctx context.Context, b storage.Batch) error
	TopScores(ctx context.Context, kind string, limit int) ([]storage.Play, error)
	RecentPlays(ctx context.Context, kind string, limit int) ([]storage.Play, error)
}

var _ Backend = (*storage.Store)(nil)

// Store owns the aggregated stats. All mutations are serialized; every
// successful mutation leaves a snapshot that passes Validate.
type Store struct {
	mu         sync.Mutex
	backend    Backend
	logger     *log.Logger
	snap       Snapshot
	onboarding bool

	// Plays whose commit failed; written by the next successful commit.
	pending []storage.Play
}

// Open creates a store over backend and loads the persisted state.
// A nil logger discards output.
func Open(ctx context.Context, backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Store{backend: backend, logger: logger, snap: NewSnapshot()}
	s.Load(ctx)
	return s
}

// Load replaces the in-memory state with the persisted one. Absent or
// corrupt entries fall back to zeroed defaults; Load never fails.
func (s *Store) Load(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := NewSnapshot()

	var global GlobalStats
	if s.read(ctx, KeyGlobal, &global) {
		snap.Global = global
	}

	var games map[string]GameStats
	if s.read(ctx, KeyGames, &games) {
		for id, g := range games {
			kind, err := core.ParseKind(id)
			if err != nil {
				s.logger.Warn("ignoring stats for unknown kind", "kind", id)
				continue
			}
			snap.Games[kind] = g
		}
	}

	var done bool
	if s.read(ctx, KeyOnboarding, &done) {
		s.onboarding = done
	} else {
		s.onboarding = false
	}

	if snap.reconcile() {
		s.logger.Warn("reconciled inconsistent stats",
			"routes", snap.Global.TotalRoutesPlayed,
			"longest", snap.Global.LongestStreakOverall)
	}

	s.snap = snap
	return snap.Clone()
}

// read decodes key into v. Returns false when the entry is absent or unusable.
func (s *Store) read(ctx context.Context, key string, v any) bool {
	data, err := s.backend.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if err != nil {
		s.logger.Warn("cannot read stats entry, using defaults", "key", key, "err", err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn("corrupt stats entry, using defaults", "key", key, "err", err)
		return false
	}
	return true
}

// RecordSession folds a finished session into the stats and persists the
// result together with a play history row. When persistence fails the
// in-memory update is kept and a *core.PersistenceError is returned; Flush
// retries the write.
func (s *Store) RecordSession(ctx context.Context, sess Session) (Snapshot, error) {
	if !sess.Kind.Valid() {
		return s.Snapshot(), fmt.Errorf("stats: %w: %d", core.ErrUnknownKind, int(sess.Kind))
	}
	if sess.TotalScore < 0 || sess.GlowShards < 0 || sess.FinalStreak < 0 {
		return s.Snapshot(), fmt.Errorf("stats: negative session values %+v", sess)
	}
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.apply(sess)
	s.pending = append(s.pending, storage.Play{
		SessionID:  sess.ID,
		Kind:       sess.Kind.ID(),
		Score:      sess.TotalScore,
		GlowShards: sess.GlowShards,
		Streak:     sess.FinalStreak,
	})

	s.logger.Debug("session recorded",
		"kind", sess.Kind.ID(),
		"score", sess.TotalScore,
		"shards", sess.GlowShards,
		"streak", sess.FinalStreak)

	if err := s.commit(ctx, "record session", s.statsEntries()...); err != nil {
		return s.snap.Clone(), err
	}
	return s.snap.Clone(), nil
}

// Flush writes the current in-memory state and any pending plays.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append(s.statsEntries(), s.onboardingEntry())
	return s.commit(ctx, "flush", entries...)
}

// ResetAll zeroes the global and every per-kind stats and persists them.
// The onboarding flag and play history are left alone.
func (s *Store) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = NewSnapshot()
	s.logger.Info("stats reset")
	return s.commit(ctx, "reset", s.statsEntries()...)
}

// CompleteOnboarding marks the onboarding flow as done.
func (s *Store) CompleteOnboarding(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onboarding = true
	return s.commit(ctx, "complete onboarding", s.onboardingEntry())
}

// OnboardingComplete reports whether onboarding has been completed.
func (s *Store) OnboardingComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onboarding
}

// Snapshot returns a copy of the current stats.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Game returns the stats for one kind.
func (s *Store) Game(kind core.Kind) GameStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Game(kind)
}

// Global returns the cross-game stats.
func (s *Store) Global() GlobalStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Global
}

// Pending returns the number of plays waiting to be persisted.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// History returns the most recent persisted plays for kind.
func (s *Store) History(ctx context.Context, kind core.Kind, limit int) ([]storage.Play, error) {
	plays, err := s.backend.RecentPlays(ctx, kind.ID(), limit)
	if err != nil {
		return nil, &core.PersistenceError{Op: "history", Err: err}
	}
	return plays, nil
}

// TopScores returns the best persisted plays for kind.
func (s *Store) TopScores(ctx context.Context, kind core.Kind, limit int) ([]storage.Play, error) {
	plays, err := s.backend.TopScores(ctx, kind.ID(), limit)
	if err != nil {
		return nil, &core.PersistenceError{Op: "top scores", Err: err}
	}
	return plays, nil
}

// commit writes entries plus pending plays. Must be called with mu held.
func (s *Store) commit(ctx context.Context, op string, entries ...storage.Entry) error {
	batch := storage.Batch{Entries: entries, Plays: s.pending}
	if err := s.backend.Commit(ctx, batch); err != nil {
		s.logger.Error("cannot persist stats", "op", op, "pending", len(s.pending), "err", err)
		return &core.PersistenceError{Op: op, Err: err}
	}
	s.pending = nil
	return nil
}

func (s *Store) statsEntries() []storage.Entry {
	games := make(map[string]GameStats, len(s.snap.Games))
	for k, g := range s.snap.Games {
		games[k.ID()] = g
	}
	return []storage.Entry{
		{Key: KeyGlobal, Value: mustJSON(s.snap.Global)},
		{Key: KeyGames, Value: mustJSON(games)},
	}
}

func (s *Store) onboardingEntry() storage.Entry {
	return storage.Entry{Key: KeyOnboarding, Value: mustJSON(s.onboarding)}
}

// mustJSON encodes plain structs, maps and bools, which cannot fail.
func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("stats: encode %T: %v", v, err))
	}
	return data
}
