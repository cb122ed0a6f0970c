// Package grid provides the discrete playfield: cells, directions, bounds and
// the collision predicates shared by every movement and placement check.
package grid

import "fmt"

// Cell is a position on the playfield. Col grows to the right, Row grows down.
type Cell struct {
	Col int
	Row int
}

// String formats the cell as (col,row).
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// Step returns the neighbouring cell one unit away in direction d.
// The result may lie outside the grid.
func (c Cell) Step(d Direction) Cell {
	dc, dr := d.Delta()
	return Cell{Col: c.Col + dc, Row: c.Row + dr}
}

// Direction is one of the four axis-aligned movement directions.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in declaration order.
var Directions = [4]Direction{Up, Down, Left, Right}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Delta returns the column and row offsets of a single step.
func (d Direction) Delta() (dc, dr int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 1, 0
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Grid describes the playfield dimensions.
type Grid struct {
	Cols int
	Rows int
}

// New returns a grid of the given size.
func New(cols, rows int) Grid {
	return Grid{Cols: cols, Rows: rows}
}

// InBounds reports whether c lies on the grid.
func (g Grid) InBounds(c Cell) bool {
	return c.Col >= 0 && c.Col < g.Cols && c.Row >= 0 && c.Row < g.Rows
}

// Wrap maps c onto the grid treating it as a torus.
func (g Grid) Wrap(c Cell) Cell {
	return Cell{Col: wrap(c.Col, g.Cols), Row: wrap(c.Row, g.Rows)}
}

// Center returns the middle cell (rounded down).
func (g Grid) Center() Cell {
	return Cell{Col: g.Cols / 2, Row: g.Rows / 2}
}

// Area returns the number of cells on the grid.
func (g Grid) Area() int {
	return g.Cols * g.Rows
}

// wrap reduces v into [0, n). Go's % keeps the sign of the dividend.
func wrap(v, n int) int {
	if n <= 0 {
		return v
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
