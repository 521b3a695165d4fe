package lanedash

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/glow-routes/internal/config"
	"github.com/vovakirdan/glow-routes/internal/core"
)

func newGame() *Game {
	return New(config.DefaultGameConfig().LaneDash)
}

func TestEvaluateCenterScoresFull(t *testing.T) {
	g := newGame()
	ch := Challenge{RoundIndex: 1, Speed: 1.2, ZoneStart: 0.30, ZoneEnd: 0.50}

	out, err := g.Evaluate(ch, core.PositionInput(0.40), 0)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if !out.Success || out.Points != 100 || out.Streak != 1 || !out.Resolved {
		t.Errorf("center stop: got %+v, expected success with 100 points and streak 1", out)
	}
}

func TestEvaluateScoring(t *testing.T) {
	g := newGame()
	ch := Challenge{RoundIndex: 3, Speed: 1.6, ZoneStart: 0.30, ZoneEnd: 0.50}

	tests := []struct {
		name    string
		pos     float64
		points  int
		success bool
	}{
		{"half way to edge", 0.45, 50, true},
		{"quarter off center", 0.375, 75, true},
		{"left edge scores zero", 0.30, 0, false},
		{"right edge scores zero", 0.50, 0, false},
		{"before zone", 0.10, 0, false},
		{"after zone", 0.90, 0, false},
		{"lane start", 0, 0, false},
		{"lane end", 1, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := g.Evaluate(ch, core.PositionInput(tc.pos), 4)
			if err != nil {
				t.Fatalf("Evaluate() failed: %v", err)
			}
			if out.Points != tc.points || out.Success != tc.success {
				t.Errorf("pos %v: got %+v, expected points=%d success=%v", tc.pos, out, tc.points, tc.success)
			}
			expectedStreak := 0
			if tc.success {
				expectedStreak = 5
			}
			if out.Streak != expectedStreak {
				t.Errorf("streak = %d, expected %d", out.Streak, expectedStreak)
			}
		})
	}
}

func TestEvaluateRejectsOutOfRange(t *testing.T) {
	g := newGame()
	ch := Challenge{RoundIndex: 1, Speed: 1.2, ZoneStart: 0.3, ZoneEnd: 0.5}

	for _, pos := range []float64{-0.01, 1.01, math.NaN()} {
		if _, err := g.Evaluate(ch, core.PositionInput(pos), 0); !errors.Is(err, core.ErrInvalidInputIndex) {
			t.Errorf("pos %v: error = %v, expected ErrInvalidInputIndex", pos, err)
		}
	}
}

func TestEvaluateRejectsForeignChallenge(t *testing.T) {
	g := newGame()
	bad := Challenge{RoundIndex: 1, ZoneStart: 0.5, ZoneEnd: 0.4}
	if _, err := g.Evaluate(bad, core.PositionInput(0.45), 0); !errors.Is(err, core.ErrInvalidChallenge) {
		t.Errorf("inverted zone: error = %v, expected ErrInvalidChallenge", err)
	}
}

func TestGenerateBoundsAndWinnable(t *testing.T) {
	g := newGame()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		for r := 1; r <= core.TotalRounds; r++ {
			ch := g.Generate(r, rng).(Challenge)
			width := ch.ZoneEnd - ch.ZoneStart
			if width < 0.15-1e-9 || width > 0.25+1e-9 {
				t.Fatalf("zone width %v out of [0.15, 0.25]", width)
			}
			if ch.ZoneStart < 0.2-1e-9 || ch.ZoneStart > 0.8-width+1e-9 {
				t.Fatalf("zone start %v out of [0.2, %v]", ch.ZoneStart, 0.8-width)
			}
			if math.Abs(ch.Speed-(1.0+0.2*float64(r))) > 1e-9 {
				t.Fatalf("round %d speed = %v", r, ch.Speed)
			}

			out, err := g.Evaluate(ch, g.Solve(ch), 0)
			if err != nil || !out.Success {
				t.Fatalf("solved input should win: %+v, %v", out, err)
			}
		}
	}
}

func TestMarkerBounces(t *testing.T) {
	m := &Marker{dir: 1, step: 0.3}

	m.Step()
	m.Step()
	m.Step()
	if math.Abs(m.Value()-0.9) > 1e-9 {
		t.Fatalf("after 3 steps value = %v, expected 0.9", m.Value())
	}

	m.Step() // would reach 1.2, clamps to 1 and turns around
	if m.Value() != 1 {
		t.Errorf("marker should clamp at 1, got %v", m.Value())
	}
	m.Step()
	if math.Abs(m.Value()-0.7) > 1e-9 {
		t.Errorf("marker should move back to 0.7, got %v", m.Value())
	}

	if got := m.Capture().Position; got != m.Value() {
		t.Errorf("Capture() position = %v, expected %v", got, m.Value())
	}
}

func TestMotionUsesRoundSpeed(t *testing.T) {
	g := newGame()
	ch := Challenge{RoundIndex: 1, Speed: 1.2, ZoneStart: 0.3, ZoneEnd: 0.5}

	m := g.NewMotion(ch, core.RuntimeConfig{TickRate: 60})
	for i := 0; i < 10; i++ {
		m.Step()
	}
	// 10 ticks at 1.2 * 0.01 per tick
	if math.Abs(m.Value()-0.12) > 1e-9 {
		t.Errorf("after 10 ticks value = %v, expected 0.12", m.Value())
	}
}
