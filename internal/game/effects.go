package game

import (
	"slices"

	"github.com/tomz197/metalsnake/internal/object"
)

// Power-up magnitudes.
const (
	SpeedBoostAmount     = 3.0
	TimeSlowFactor       = 0.25
	ScoreMultiplierBonus = 2
)

// Effects is the gameplay state power-ups act on. Speed is never mutated
// directly: it is recomputed from the level speed and the active speed
// modifiers in activation order, so overlapping effects undo cleanly.
type Effects struct {
	Snake           *object.Snake
	ScoreMultiplier int
	MagnetActive    bool

	levelSpeed float64
	speed      float64
	modifiers  []object.Kind // Active speed modifiers, oldest first
}

// NewEffects returns the neutral state for snake at levelSpeed.
func NewEffects(snake *object.Snake, levelSpeed float64) *Effects {
	e := &Effects{
		Snake:           snake,
		ScoreMultiplier: 1,
		levelSpeed:      levelSpeed,
	}
	e.recomputeSpeed()
	return e
}

// Speed returns the current moves per second.
func (e *Effects) Speed() float64 {
	return e.speed
}

// LevelSpeed returns the speed before power-up modifiers.
func (e *Effects) LevelSpeed() float64 {
	return e.levelSpeed
}

// SetLevelSpeed changes the base the modifiers are applied to.
func (e *Effects) SetLevelSpeed(v float64) {
	e.levelSpeed = v
	e.recomputeSpeed()
}

func (e *Effects) addModifier(k object.Kind) {
	if !slices.Contains(e.modifiers, k) {
		e.modifiers = append(e.modifiers, k)
	}
	e.recomputeSpeed()
}

func (e *Effects) removeModifier(k object.Kind) {
	e.modifiers = slices.DeleteFunc(e.modifiers, func(m object.Kind) bool { return m == k })
	e.recomputeSpeed()
}

func (e *Effects) recomputeSpeed() {
	speed := e.levelSpeed
	for _, k := range e.modifiers {
		speed = speedModifiers[k](speed)
	}
	e.speed = speed
}

// speedModifiers are folded over the level speed in activation order.
var speedModifiers = map[object.Kind]func(float64) float64{
	object.SpeedBoost: func(s float64) float64 { return s + SpeedBoostAmount },
	object.TimeSlow:   func(s float64) float64 { return s * TimeSlowFactor },
}

// effect is the apply/reverse pair of one power-up kind. Apply must be
// idempotent and reverse must restore exactly what apply changed.
type effect struct {
	apply   func(*Effects)
	reverse func(*Effects)
}

var effects = map[object.Kind]effect{
	object.SpeedBoost: {
		apply:   func(e *Effects) { e.addModifier(object.SpeedBoost) },
		reverse: func(e *Effects) { e.removeModifier(object.SpeedBoost) },
	},
	object.Invincibility: {
		apply:   func(e *Effects) { e.Snake.Invincible = true },
		reverse: func(e *Effects) { e.Snake.Invincible = false },
	},
	object.ScoreMultiplier: {
		apply:   func(e *Effects) { e.ScoreMultiplier = ScoreMultiplierBonus },
		reverse: func(e *Effects) { e.ScoreMultiplier = 1 },
	},
	object.Magnet: {
		apply:   func(e *Effects) { e.MagnetActive = true },
		reverse: func(e *Effects) { e.MagnetActive = false },
	},
	object.Shrink: {
		apply:   func(e *Effects) { e.Snake.ShrinkActive = true },
		reverse: func(e *Effects) { e.Snake.ShrinkActive = false },
	},
	object.TimeSlow: {
		apply:   func(e *Effects) { e.addModifier(object.TimeSlow) },
		reverse: func(e *Effects) { e.removeModifier(object.TimeSlow) },
	},
}

// Apply turns on the effect of k.
func (e *Effects) Apply(k object.Kind) {
	if fx, ok := effects[k]; ok {
		fx.apply(e)
	}
}

// Reverse turns off the effect of k.
func (e *Effects) Reverse(k object.Kind) {
	if fx, ok := effects[k]; ok {
		fx.reverse(e)
	}
}
