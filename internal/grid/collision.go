package grid

// Predicate reports whether a cell is excluded (occupied, blocked, fatal...).
// Every "is this cell taken" question in the game is phrased as a Predicate
// so movement, food placement, power-up placement and magnet drift all
// share the same checks.
type Predicate func(Cell) bool

// Contains reports whether cells holds c. Linear scan; the collections on a
// 30x20 board are a few hundred cells at most.
func Contains(cells []Cell, c Cell) bool {
	for _, other := range cells {
		if other == c {
			return true
		}
	}
	return false
}

// Occupied returns a predicate matching any cell in cells.
// The slice is read at call time, not copied.
func Occupied(cells []Cell) Predicate {
	return func(c Cell) bool {
		return Contains(cells, c)
	}
}

// At returns a predicate matching exactly target.
func At(target Cell) Predicate {
	return func(c Cell) bool {
		return c == target
	}
}

// OutOfBounds returns a predicate matching cells off the grid.
func (g Grid) OutOfBounds() Predicate {
	return func(c Cell) bool {
		return !g.InBounds(c)
	}
}

// AnyOf combines predicates with logical OR. Nil predicates are skipped.
func AnyOf(preds ...Predicate) Predicate {
	return func(c Cell) bool {
		for _, p := range preds {
			if p != nil && p(c) {
				return true
			}
		}
		return false
	}
}
