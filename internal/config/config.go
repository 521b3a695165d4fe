// Package config provides YAML/TOML game tuning, environment settings and
// round-based difficulty scaling for the round engine.
package config

import (
	"errors"
	"fmt"
)

// GameConfig contains the tuning for every game plus session rewards.
type GameConfig struct {
	LaneDash      LaneDashConfig      `yaml:"lane_dash" toml:"lane_dash"`
	SignalFlow    SignalFlowConfig    `yaml:"signal_flow" toml:"signal_flow"`
	CrosswaySplit CrosswaySplitConfig `yaml:"crossway_split" toml:"crossway_split"`
	TimingArcs    TimingArcsConfig    `yaml:"timing_arcs" toml:"timing_arcs"`
	Rewards       RewardsConfig       `yaml:"rewards" toml:"rewards"`
}

// LaneDashConfig tunes the marker-in-zone game.
type LaneDashConfig struct {
	Speed        Scaling `yaml:"speed" toml:"speed"`                 // Marker speed per round
	StepScale    float64 `yaml:"step_scale" toml:"step_scale"`       // Lane fraction moved per tick per unit of speed
	ZoneMinWidth float64 `yaml:"zone_min_width" toml:"zone_min_width"`
	ZoneMaxWidth float64 `yaml:"zone_max_width" toml:"zone_max_width"`
	ZoneMinStart float64 `yaml:"zone_min_start" toml:"zone_min_start"`
	ZoneMaxEnd   float64 `yaml:"zone_max_end" toml:"zone_max_end"`
	Timing       Timing  `yaml:"timing" toml:"timing"`
}

// SignalFlowConfig tunes the sequence memory game.
type SignalFlowConfig struct {
	GridSize        int     `yaml:"grid_size" toml:"grid_size"`
	Length          Scaling `yaml:"length" toml:"length"` // Sequence length per round
	BasePoints      int     `yaml:"base_points" toml:"base_points"`
	PointsPerSymbol int     `yaml:"points_per_symbol" toml:"points_per_symbol"`
	ShowSeconds     float64 `yaml:"show_seconds" toml:"show_seconds"` // Symbol lit duration
	GapSeconds      float64 `yaml:"gap_seconds" toml:"gap_seconds"`   // Dark gap after each symbol
	Timing          Timing  `yaml:"timing" toml:"timing"`
}

// CrosswaySplitConfig tunes the lane choice game.
type CrosswaySplitConfig struct {
	Lanes    int    `yaml:"lanes" toml:"lanes"`
	Segments int    `yaml:"segments" toml:"segments"`
	Points   int    `yaml:"points" toml:"points"`
	Timing   Timing `yaml:"timing" toml:"timing"`
}

// TimingArcsConfig tunes the rotating pointer game.
type TimingArcsConfig struct {
	Revolution  Scaling `yaml:"revolution" toml:"revolution"` // Seconds per full turn, per round
	ArcMinWidth float64 `yaml:"arc_min_width" toml:"arc_min_width"`
	ArcMaxWidth float64 `yaml:"arc_max_width" toml:"arc_max_width"`
	Timing      Timing  `yaml:"timing" toml:"timing"`
}

// Timing holds the delays around one round, in seconds.
type Timing struct {
	Intro      float64 `yaml:"intro" toml:"intro"`           // Before input opens (motion start or post-playback)
	Timeout    float64 `yaml:"timeout" toml:"timeout"`       // Input deadline, 0 = wait indefinitely
	Transition float64 `yaml:"transition" toml:"transition"` // Pause after a resolved round
}

// RewardsConfig controls glow shard payout for a finished session.
type RewardsConfig struct {
	ScoreDivisor int `yaml:"score_divisor" toml:"score_divisor"`
	StreakBonus  int `yaml:"streak_bonus" toml:"streak_bonus"`
}

// GlowShards computes the session reward: floor(score/divisor) + streak*bonus.
func (r RewardsConfig) GlowShards(totalScore, finalStreak int) int {
	div := r.ScoreDivisor
	if div <= 0 {
		div = 10
	}
	return totalScore/div + finalStreak*r.StreakBonus
}

// Validate reports knobs that would break challenge generation.
func (c GameConfig) Validate() error {
	var errs []error

	ld := c.LaneDash
	if ld.ZoneMinWidth <= 0 || ld.ZoneMaxWidth < ld.ZoneMinWidth {
		errs = append(errs, fmt.Errorf("lane_dash: zone width range [%v, %v] is invalid", ld.ZoneMinWidth, ld.ZoneMaxWidth))
	}
	if ld.ZoneMinStart < 0 || ld.ZoneMaxEnd > 1 || ld.ZoneMaxEnd-ld.ZoneMaxWidth < ld.ZoneMinStart {
		errs = append(errs, fmt.Errorf("lane_dash: zone bounds [%v, %v] cannot fit width %v", ld.ZoneMinStart, ld.ZoneMaxEnd, ld.ZoneMaxWidth))
	}
	if ld.StepScale <= 0 {
		errs = append(errs, errors.New("lane_dash: step_scale must be positive"))
	}

	sf := c.SignalFlow
	if sf.GridSize < 1 {
		errs = append(errs, errors.New("signal_flow: grid_size must be at least 1"))
	}
	if sf.Length.At(1) < 1 {
		errs = append(errs, errors.New("signal_flow: sequence length must be at least 1"))
	}

	cs := c.CrosswaySplit
	if cs.Lanes < 1 || cs.Segments < 1 {
		errs = append(errs, fmt.Errorf("crossway_split: need at least one lane and segment, got %dx%d", cs.Lanes, cs.Segments))
	}

	ta := c.TimingArcs
	if ta.ArcMinWidth <= 0 || ta.ArcMaxWidth < ta.ArcMinWidth || ta.ArcMaxWidth >= 360 {
		errs = append(errs, fmt.Errorf("timing_arcs: arc width range [%v, %v] is invalid", ta.ArcMinWidth, ta.ArcMaxWidth))
	}
	if ta.Revolution.Min <= 0 {
		errs = append(errs, errors.New("timing_arcs: revolution.min must be positive"))
	}

	for name, tm := range map[string]Timing{
		"lane_dash": ld.Timing, "signal_flow": sf.Timing,
		"crossway_split": cs.Timing, "timing_arcs": ta.Timing,
	} {
		if tm.Intro < 0 || tm.Timeout < 0 || tm.Transition < 0 {
			errs = append(errs, fmt.Errorf("%s: timing values must not be negative", name))
		}
	}

	return errors.Join(errs...)
}
