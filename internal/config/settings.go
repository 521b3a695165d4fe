package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings holds process-level options read from the environment.
// Command-line flags override them.
type Settings struct {
	DBPath     string `env:"GLOWROUTES_DB"        envDefault:"~/.glowroutes/stats.db"`
	ConfigPath string `env:"GLOWROUTES_CONFIG"`
	LogLevel   string `env:"GLOWROUTES_LOG_LEVEL" envDefault:"info"`
	Seed       int64  `env:"GLOWROUTES_SEED"`
	TickRate   int    `env:"GLOWROUTES_TICK_RATE" envDefault:"60"`
}

// DefaultSettings returns the settings used when the environment is empty.
func DefaultSettings() Settings {
	return Settings{
		DBPath:   "~/.glowroutes/stats.db",
		LogLevel: "info",
		TickRate: 60,
	}
}

// LoadSettings parses Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}
