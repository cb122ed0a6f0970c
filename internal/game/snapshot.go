package game

import (
	"slices"

	"github.com/tomz197/metalsnake/internal/grid"
	"github.com/tomz197/metalsnake/internal/object"
)

// Snapshot is a read-only copy of the round for renderers. Nothing in it
// aliases controller state.
type Snapshot struct {
	Phase  Phase
	Mode   Mode
	Player string
	Cols   int
	Rows   int

	Snake      []grid.Cell
	Direction  grid.Direction
	Invincible bool
	Shrink     bool
	Size       float64

	Food      grid.Cell
	PowerUps  []object.PowerUp
	Obstacles []grid.Cell
	Active    []ActiveEffect

	Score           int
	ScoreMultiplier int
	Combo           int
	ComboTimer      int
	ComboMultiplier float64
	MagnetActive    bool
	Level           int
	Speed           float64
	Steps           uint64
	Cause           object.DeathCause
}

// Snapshot copies the current round state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Phase:  c.phase,
		Mode:   c.mode,
		Player: c.player,
		Cols:   c.grid.Cols,
		Rows:   c.grid.Rows,

		Snake:      slices.Clone(c.snake.Body),
		Direction:  c.snake.Direction(),
		Invincible: c.snake.Invincible,
		Shrink:     c.snake.ShrinkActive,
		Size:       c.snake.Size,

		Food:      c.food,
		PowerUps:  c.powerUps.Pickups(),
		Obstacles: c.obstacles.Cells(),
		Active:    c.powerUps.Active(),

		Score:           c.score,
		ScoreMultiplier: c.effects.ScoreMultiplier,
		Combo:           c.combo.Count(),
		ComboTimer:      c.combo.Timer(),
		ComboMultiplier: c.combo.Multiplier(),
		MagnetActive:    c.effects.MagnetActive,
		Level:           c.level,
		Speed:           c.effects.Speed(),
		Steps:           c.steps,
		Cause:           c.cause,
	}
}
