// Package stats aggregates finished sessions into per-game and global
// progress and persists them through a storage backend.
package stats

import (
	"fmt"

	"github.com/vovakirdan/glow-routes/internal/core"
)

// Persisted entry keys.
const (
	KeyGlobal     = "globalStats"
	KeyGames      = "gameStats"
	KeyOnboarding = "hasCompletedOnboarding"
)

// GameStats is the lifetime progress for one kind.
type GameStats struct {
	BestScore  int `json:"bestScore"`
	TotalPlays int `json:"totalPlays"`
	BestStreak int `json:"bestStreak"`
}

// GlobalStats is the progress across all kinds.
type GlobalStats struct {
	TotalGlowShards      int `json:"totalGlowShards"`
	TotalRoutesPlayed    int `json:"totalRoutesPlayed"`
	LongestStreakOverall int `json:"longestStreakOverall"`
}

// Session is the summary of a finished session handed over for recording.
type Session struct {
	ID          string // Play history key; generated when empty
	Kind        core.Kind
	TotalScore  int
	GlowShards  int
	FinalStreak int
}

// Snapshot is a copy of the aggregated stats. Games always holds every kind.
type Snapshot struct {
	Global GlobalStats
	Games  map[core.Kind]GameStats
}

// NewSnapshot returns zeroed stats with every kind present.
func NewSnapshot() Snapshot {
	s := Snapshot{Games: make(map[core.Kind]GameStats, len(core.Kinds()))}
	for _, k := range core.Kinds() {
		s.Games[k] = GameStats{}
	}
	return s
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{Global: s.Global, Games: make(map[core.Kind]GameStats, len(s.Games))}
	for k, g := range s.Games {
		c.Games[k] = g
	}
	return c
}

// Game returns the stats for kind, zeroed if absent.
func (s Snapshot) Game(kind core.Kind) GameStats {
	return s.Games[kind]
}

// Validate checks the aggregate invariants: every kind present, no negative
// counter, routes played equal to the sum of plays and the longest streak
// covering every per-kind best streak.
func (s Snapshot) Validate() error {
	plays := 0
	for _, k := range core.Kinds() {
		g, ok := s.Games[k]
		if !ok {
			return fmt.Errorf("stats: missing %s", k.ID())
		}
		if g.BestScore < 0 || g.TotalPlays < 0 || g.BestStreak < 0 {
			return fmt.Errorf("stats: negative counter for %s", k.ID())
		}
		if g.BestStreak > s.Global.LongestStreakOverall {
			return fmt.Errorf("stats: %s best streak %d exceeds longest %d",
				k.ID(), g.BestStreak, s.Global.LongestStreakOverall)
		}
		plays += g.TotalPlays
	}
	if s.Global.TotalGlowShards < 0 {
		return fmt.Errorf("stats: negative glow shards")
	}
	if plays != s.Global.TotalRoutesPlayed {
		return fmt.Errorf("stats: routes played %d, plays sum %d", s.Global.TotalRoutesPlayed, plays)
	}
	return nil
}

// apply folds one session into the snapshot.
func (s *Snapshot) apply(sess Session) {
	g := s.Games[sess.Kind]
	g.TotalPlays++
	g.BestScore = core.Max(g.BestScore, sess.TotalScore)
	g.BestStreak = core.Max(g.BestStreak, sess.FinalStreak)
	s.Games[sess.Kind] = g

	s.Global.TotalGlowShards += sess.GlowShards
	s.Global.TotalRoutesPlayed++
	s.Global.LongestStreakOverall = core.Max(s.Global.LongestStreakOverall, sess.FinalStreak)
}

// reconcile repairs derived global counters from the per-kind stats.
// Reports whether anything changed.
func (s *Snapshot) reconcile() bool {
	changed := false
	plays, longest := 0, s.Global.LongestStreakOverall
	for _, k := range core.Kinds() {
		g := s.Games[k]
		if g.BestScore < 0 || g.TotalPlays < 0 || g.BestStreak < 0 {
			g = GameStats{
				BestScore:  core.Max(g.BestScore, 0),
				TotalPlays: core.Max(g.TotalPlays, 0),
				BestStreak: core.Max(g.BestStreak, 0),
			}
			s.Games[k] = g
			changed = true
		}
		plays += g.TotalPlays
		longest = core.Max(longest, g.BestStreak)
	}
	if s.Global.TotalGlowShards < 0 {
		s.Global.TotalGlowShards = 0
		changed = true
	}
	if s.Global.TotalRoutesPlayed != plays {
		s.Global.TotalRoutesPlayed = plays
		changed = true
	}
	if s.Global.LongestStreakOverall != longest {
		s.Global.LongestStreakOverall = longest
		changed = true
	}
	return changed
}
