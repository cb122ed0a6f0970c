package game

import "github.com/tomz197/metalsnake/internal/grid"

// MagnetStep returns the cell one step from food toward head along the axis
// with the larger distance. Ties move along the row axis. Food already on the
// head stays put.
func MagnetStep(food, head grid.Cell) grid.Cell {
	dc := head.Col - food.Col
	dr := head.Row - food.Row
	if abs(dc) > abs(dr) {
		food.Col += sign(dc)
	} else {
		food.Row += sign(dr)
	}
	return food
}

// DriftFood moves food one magnet step toward head unless the destination is
// blocked. It reports whether the food moved.
func DriftFood(food, head grid.Cell, blocked grid.Predicate) (grid.Cell, bool) {
	next := MagnetStep(food, head)
	if next == food || (blocked != nil && blocked(next)) {
		return food, false
	}
	return next, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
