package object

import "github.com/tomz197/metalsnake/internal/grid"

// Obstacles is the immutable set of blocking cells for one round.
type Obstacles struct {
	cells []grid.Cell
	set   map[grid.Cell]struct{}
}

// NewObstacles builds an obstacle set from cells. Duplicates are dropped and
// the input slice is not retained.
func NewObstacles(cells []grid.Cell) Obstacles {
	o := Obstacles{
		cells: make([]grid.Cell, 0, len(cells)),
		set:   make(map[grid.Cell]struct{}, len(cells)),
	}
	for _, c := range cells {
		if _, dup := o.set[c]; dup {
			continue
		}
		o.set[c] = struct{}{}
		o.cells = append(o.cells, c)
	}
	return o
}

// GenerateObstacles places up to count obstacles on free cells. Cells matching
// avoid are never used. A placement that exhausts its attempts is skipped, so
// a crowded board can end up with fewer obstacles than requested.
func GenerateObstacles(p *grid.Placer, count int, avoid grid.Predicate) Obstacles {
	cells := make([]grid.Cell, 0, count)
	for range count {
		c, ok := p.FindValidRandomCell(avoid, grid.Occupied(cells))
		if !ok {
			continue
		}
		cells = append(cells, c)
	}
	return NewObstacles(cells)
}

// Contains reports whether c is blocked.
func (o Obstacles) Contains(c grid.Cell) bool {
	_, ok := o.set[c]
	return ok
}

// Len returns the number of obstacles.
func (o Obstacles) Len() int {
	return len(o.cells)
}

// Cells returns a copy of the obstacle cells in generation order.
func (o Obstacles) Cells() []grid.Cell {
	out := make([]grid.Cell, len(o.cells))
	copy(out, o.cells)
	return out
}
