package grid

// DefaultMaxAttempts bounds random sampling when searching for a free cell.
const DefaultMaxAttempts = 100

// Fallback is returned when no free cell was found within the attempt budget.
// Callers must tolerate it; on a nearly full board it may be occupied.
var Fallback = Cell{Col: 0, Row: 0}

// Rand is the subset of a random source the placer needs.
// *rand.Rand from golang.org/x/exp/rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Placer finds free cells by bounded uniform sampling.
type Placer struct {
	grid        Grid
	rng         Rand
	maxAttempts int
}

// NewPlacer creates a placer over g. maxAttempts <= 0 selects DefaultMaxAttempts.
func NewPlacer(g Grid, rng Rand, maxAttempts int) *Placer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Placer{
		grid:        g,
		rng:         rng,
		maxAttempts: maxAttempts,
	}
}

// Grid returns the grid the placer samples from.
func (p *Placer) Grid() Grid {
	return p.grid
}

// FindValidRandomCell samples the whole grid until a cell matches none of the
// exclusions. After maxAttempts misses it returns (Fallback, false).
func (p *Placer) FindValidRandomCell(exclusions ...Predicate) (Cell, bool) {
	return p.sample(0, p.grid.Cols-1, 0, p.grid.Rows-1, AnyOf(exclusions...))
}

// FindValidRandomCellNear is FindValidRandomCell restricted to the square of
// the given radius around center, clamped to the grid.
func (p *Placer) FindValidRandomCellNear(center Cell, radius int, exclusions ...Predicate) (Cell, bool) {
	minCol := max(center.Col-radius, 0)
	maxCol := min(center.Col+radius, p.grid.Cols-1)
	minRow := max(center.Row-radius, 0)
	maxRow := min(center.Row+radius, p.grid.Rows-1)
	return p.sample(minCol, maxCol, minRow, maxRow, AnyOf(exclusions...))
}

func (p *Placer) sample(minCol, maxCol, minRow, maxRow int, excluded Predicate) (Cell, bool) {
	if maxCol < minCol || maxRow < minRow {
		return Fallback, false
	}
	for range p.maxAttempts {
		c := Cell{
			Col: minCol + p.rng.Intn(maxCol-minCol+1),
			Row: minRow + p.rng.Intn(maxRow-minRow+1),
		}
		if !excluded(c) {
			return c, true
		}
	}
	return Fallback, false
}
