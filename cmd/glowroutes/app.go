package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/glow-routes/internal/config"
	"github.com/vovakirdan/glow-routes/internal/core"
	"github.com/vovakirdan/glow-routes/internal/registry"
	"github.com/vovakirdan/glow-routes/internal/stats"
	"github.com/vovakirdan/glow-routes/internal/storage"
)

// fatalf prints an error and exits.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "glowroutes",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func runtimeConfig() core.RuntimeConfig {
	return core.RuntimeConfig{TickRate: flagFPS, Seed: flagSeed}.Normalize()
}

func loadGameConfig() config.GameConfig {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		fatalf("loading game config: %v", err)
	}
	return cfg
}

// openStats opens the database and the stats store on top of it.
// The caller closes the returned database.
func openStats(ctx context.Context, logger *log.Logger) (*stats.Store, *storage.Store) {
	db, err := storage.Open(flagDBPath)
	if err != nil {
		fatalf("opening stats database: %v", err)
	}
	return stats.Open(ctx, db, logger), db
}

func parseKind(arg string) core.Kind {
	kind, err := core.ParseKind(arg)
	if err != nil || !registry.Exists(kind) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", arg)
		fmt.Fprintln(os.Stderr, "Run 'glowroutes list' to see available games.")
		os.Exit(1)
	}
	return kind
}
