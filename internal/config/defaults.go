package config

import (
	_ "embed"
)

//go:embed defaults/glowroutes.yaml
var defaultGameYAML []byte

// DefaultGameConfig returns the built-in tuning. It mirrors the embedded YAML
// and is used when no file can be decoded.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		LaneDash: LaneDashConfig{
			Speed:        Scaling{Base: 1.0, Step: 0.2},
			StepScale:    0.01,
			ZoneMinWidth: 0.15,
			ZoneMaxWidth: 0.25,
			ZoneMinStart: 0.2,
			ZoneMaxEnd:   0.8,
			Timing:       Timing{Intro: 0.3, Timeout: 0, Transition: 1.2},
		},
		SignalFlow: SignalFlowConfig{
			GridSize:        9,
			Length:          Scaling{Base: 3, Step: 1, Min: 1, Max: 7},
			BasePoints:      100,
			PointsPerSymbol: 10,
			ShowSeconds:     0.6,
			GapSeconds:      0.2,
			Timing:          Timing{Intro: 0.5, Timeout: 0, Transition: 1.5},
		},
		CrosswaySplit: CrosswaySplitConfig{
			Lanes:    3,
			Segments: 6,
			Points:   100,
			Timing:   Timing{Intro: 0, Timeout: 3.0, Transition: 1.5},
		},
		TimingArcs: TimingArcsConfig{
			Revolution:  Scaling{Base: 2.0, Step: -0.15, Min: 0.1},
			ArcMinWidth: 40,
			ArcMaxWidth: 70,
			Timing:      Timing{Intro: 0.5, Timeout: 0, Transition: 1.5},
		},
		Rewards: RewardsConfig{
			ScoreDivisor: 10,
			StreakBonus:  2,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultGameYAML
}

// Instant returns a copy of c with every delay and timeout set to zero except
// the Crossway Split choice timeout. Useful for headless runs and tests that
// do not care about pacing.
func (c GameConfig) Instant() GameConfig {
	zero := Timing{}
	c.LaneDash.Timing = zero
	c.SignalFlow.Timing = zero
	c.SignalFlow.ShowSeconds = 0
	c.SignalFlow.GapSeconds = 0
	c.CrosswaySplit.Timing = Timing{Timeout: c.CrosswaySplit.Timing.Timeout}
	c.TimingArcs.Timing = zero
	return c
}
