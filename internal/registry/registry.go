// Package registry provides a global registry for game strategies.
// Games register themselves in init() functions, allowing the round
// controller to drive any kind without hardcoded dependencies.
package registry

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/vovakirdan/glow-routes/internal/config"
	"github.com/vovakirdan/glow-routes/internal/core"
)

// Strategy is the scoring engine contract every game implements.
// Strategies hold only configuration; all round state lives in the challenge
// and the controller.
type Strategy interface {
	// Kind returns the game this strategy scores.
	Kind() core.Kind

	// Generate builds the challenge for a 1-based round. The result always
	// admits at least one winning input.
	Generate(round int, rng *rand.Rand) core.Challenge

	// Evaluate scores an input against a challenge. It is pure: the same
	// arguments always give the same outcome. Inputs outside the challenge's
	// domain return core.ErrInvalidInputIndex and no outcome.
	Evaluate(ch core.Challenge, in core.Input, streak int) (core.Outcome, error)

	// Solve returns an input that wins the challenge.
	Solve(ch core.Challenge) core.Input

	// Random returns a uniformly random in-domain input. Used for the
	// timeout fallback and by simulated players.
	Random(ch core.Challenge, rng *rand.Rand) core.Input

	// Timing returns the round pacing in clock ticks.
	Timing(ch core.Challenge, rt core.RuntimeConfig) Timing
}

// Timing is the pacing of one round, in clock ticks.
type Timing struct {
	Playback   int // Challenge presentation before the countdown (Signal Flow)
	Countdown  int // Delay before input opens
	Timeout    int // Input deadline; 0 waits indefinitely
	Transition int // Pause after a resolved round
}

// Mover is implemented by games whose answer is captured from a continuously
// moving marker (Lane Dash, Timing Arcs).
type Mover interface {
	NewMotion(ch core.Challenge, rt core.RuntimeConfig) Motion
}

// Motion is the per-round moving marker. Step advances it by one tick.
type Motion interface {
	Step()
	Value() float64
	// Capture converts the current value into the game's input.
	Capture() core.Input
}

// Player is implemented by games that play the challenge back before input
// opens (Signal Flow).
type Player interface {
	// Frame returns the cell lit at the given tick offset into playback, or
	// -1 while dark.
	Frame(ch core.Challenge, rt core.RuntimeConfig, offset int) int
}

// Factory creates a strategy from the game configuration.
type Factory func(cfg config.GameConfig) Strategy

var (
	factories = make(map[core.Kind]Factory)
	mu        sync.RWMutex
)

// Register adds a strategy factory to the registry.
// Typically called from a game's init() function.
// Panics if the kind is already registered or invalid.
func Register(kind core.Kind, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if !kind.Valid() {
		panic(fmt.Sprintf("registry: invalid kind %d", int(kind)))
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", kind.ID()))
	}

	factories[kind] = f
}

// List returns all registered kinds in declaration order.
func List() []core.Kind {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]core.Kind, 0, len(factories))
	for kind := range factories {
		result = append(result, kind)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i] < result[j]
	})

	return result
}

// Create instantiates the strategy for a kind.
// Returns an error wrapping core.ErrUnknownKind if nothing is registered.
func Create(kind core.Kind, cfg config.GameConfig) (Strategy, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("registry: %w: %q", core.ErrUnknownKind, kind.ID())
	}

	return f(cfg), nil
}

// Exists checks if a strategy for the kind is registered.
func Exists(kind core.Kind) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[kind]
	return ok
}
