package game

import (
	"testing"

	"github.com/tomz197/metalsnake/internal/grid"
	"github.com/tomz197/metalsnake/internal/object"
)

type effectState struct {
	invincible bool
	shrink     bool
	multiplier int
	magnet     bool
	speed      float64
}

func capture(e *Effects) effectState {
	return effectState{
		invincible: e.Snake.Invincible,
		shrink:     e.Snake.ShrinkActive,
		multiplier: e.ScoreMultiplier,
		magnet:     e.MagnetActive,
		speed:      e.Speed(),
	}
}

func newTestEffects(speed float64) *Effects {
	return NewEffects(object.NewSnake(grid.Cell{Col: 5, Row: 5}, 3, grid.Right), speed)
}

func TestEffectTableCoversEveryKind(t *testing.T) {
	for _, k := range object.Kinds() {
		fx, ok := effects[k]
		if !ok {
			t.Errorf("no effect for %v", k)
			continue
		}
		if fx.apply == nil || fx.reverse == nil {
			t.Errorf("%v: incomplete effect", k)
		}
	}
	if len(effects) != len(object.Kinds()) {
		t.Errorf("effect table has %d entries, want %d", len(effects), len(object.Kinds()))
	}
}

func TestEffectApplyReverseRoundTrip(t *testing.T) {
	for _, k := range object.Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			e := newTestEffects(10)
			before := capture(e)

			e.Apply(k)
			if capture(e) == before {
				t.Fatalf("apply %v changed nothing", k)
			}
			e.Reverse(k)

			if got := capture(e); got != before {
				t.Errorf("after apply/reverse got %+v, want %+v", got, before)
			}
		})
	}
}

func TestEffectApplyIsIdempotent(t *testing.T) {
	for _, k := range object.Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			e := newTestEffects(10)
			e.Apply(k)
			once := capture(e)
			e.Apply(k)
			if got := capture(e); got != once {
				t.Errorf("second apply changed state: %+v -> %+v", once, got)
			}
		})
	}
}

func TestEffectMagnitudes(t *testing.T) {
	e := newTestEffects(10)

	e.Apply(object.SpeedBoost)
	if e.Speed() != 13 {
		t.Errorf("speed boost: %v, want 13", e.Speed())
	}
	e.Reverse(object.SpeedBoost)

	e.Apply(object.TimeSlow)
	if e.Speed() != 2.5 {
		t.Errorf("time slow: %v, want 2.5", e.Speed())
	}
	e.Reverse(object.TimeSlow)

	e.Apply(object.ScoreMultiplier)
	if e.ScoreMultiplier != 2 {
		t.Errorf("score multiplier: %d, want 2", e.ScoreMultiplier)
	}
}

// TestOverlappingSpeedEffects pins the speed after TimeSlow expires while a
// later SpeedBoost is still active: the result is the speed TimeSlow would
// never have touched.
func TestOverlappingSpeedEffects(t *testing.T) {
	e := newTestEffects(8)

	e.Apply(object.TimeSlow)
	if e.Speed() != 2 {
		t.Fatalf("after time slow: %v, want 2", e.Speed())
	}
	e.Apply(object.SpeedBoost)
	if e.Speed() != 5 {
		t.Fatalf("after speed boost: %v, want 5", e.Speed())
	}
	e.Reverse(object.TimeSlow)
	if e.Speed() != 11 {
		t.Fatalf("after time slow expiry: %v, want 11", e.Speed())
	}
	e.Reverse(object.SpeedBoost)
	if e.Speed() != 8 {
		t.Fatalf("after speed boost expiry: %v, want 8", e.Speed())
	}
}

func TestLevelSpeedKeepsModifiers(t *testing.T) {
	e := newTestEffects(10)
	e.Apply(object.SpeedBoost)
	e.SetLevelSpeed(12)
	if e.Speed() != 15 {
		t.Errorf("speed = %v, want 15", e.Speed())
	}
	if e.LevelSpeed() != 12 {
		t.Errorf("level speed = %v, want 12", e.LevelSpeed())
	}
}
