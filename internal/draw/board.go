package draw

import (
	"slices"
	"strings"

	"github.com/tomz197/metalsnake/internal/game"
	"github.com/tomz197/metalsnake/internal/grid"
	"github.com/tomz197/metalsnake/internal/object"
)

// Tile is what a board cell shows.
type Tile uint8

const (
	TileEmpty Tile = iota
	TileBody
	TileBodySmall
	TileHead
	TileShieldBody
	TileShieldHead
	TileFood
	TileObstacle
	tilePowerUp // first power-up tile; one per kind follows
)

var tileCount = int(tilePowerUp) + len(object.Kinds())

// PowerUpTile returns the tile for a pickup of kind k.
func PowerUpTile(k object.Kind) Tile {
	return tilePowerUp + Tile(k)
}

// Board is a cell buffer that only re-renders cells changed since the
// previous frame.
type Board struct {
	cols, rows int
	cur        []Tile
	prev       []Tile
	force      bool
}

// NewBoard creates an empty board.
func NewBoard(cols, rows int) *Board {
	return &Board{
		cols:  cols,
		rows:  rows,
		cur:   make([]Tile, cols*rows),
		prev:  make([]Tile, cols*rows),
		force: true,
	}
}

// Resize reallocates the board when the grid dimensions change.
func (b *Board) Resize(cols, rows int) {
	if cols == b.cols && rows == b.rows {
		return
	}
	*b = *NewBoard(cols, rows)
}

// Cols returns the board width in cells.
func (b *Board) Cols() int { return b.cols }

// Rows returns the board height in cells.
func (b *Board) Rows() int { return b.rows }

// Clear empties the current frame.
func (b *Board) Clear() {
	clear(b.cur)
}

// ForceRedraw makes the next Render write every cell.
func (b *Board) ForceRedraw() {
	b.force = true
}

// Set places a tile; out-of-range cells are ignored.
func (b *Board) Set(c grid.Cell, t Tile) {
	if c.Col < 0 || c.Col >= b.cols || c.Row < 0 || c.Row >= b.rows {
		return
	}
	b.cur[c.Row*b.cols+c.Col] = t
}

// At returns the tile at c in the current frame.
func (b *Board) At(c grid.Cell) Tile {
	if c.Col < 0 || c.Col >= b.cols || c.Row < 0 || c.Row >= b.rows {
		return TileEmpty
	}
	return b.cur[c.Row*b.cols+c.Col]
}

// Render writes changed cells with the board's top-left cell at terminal
// position (col, row), then remembers the frame. It returns how many cells
// were written.
func (b *Board) Render(cw *ChunkWriter, th *Theme, col, row int) int {
	written := 0
	for i, t := range b.cur {
		if !b.force && b.prev[i] == t {
			continue
		}
		cw.MoveCursor(col+(i%b.cols)*CellWidth, row+i/b.cols)
		cw.WriteString(th.Tile(t))
		written++
	}
	copy(b.prev, b.cur)
	b.force = false
	return written
}

// RenderBorder frames a board whose top-left cell sits at (col, row).
func (b *Board) RenderBorder(cw *ChunkWriter, th *Theme, col, row int) {
	br := th.border
	inner := b.cols * CellWidth
	cw.WriteAt(col-1, row-1, th.Border.Render(br.TopLeft+strings.Repeat(br.Top, inner)+br.TopRight))
	for r := 0; r < b.rows; r++ {
		cw.WriteAt(col-1, row+r, th.Border.Render(br.Left))
		cw.WriteAt(col+inner, row+r, th.Border.Render(br.Right))
	}
	cw.WriteAt(col-1, row+b.rows, th.Border.Render(br.BottomLeft+strings.Repeat(br.Bottom, inner)+br.BottomRight))
}

// DrawSnapshot paints a round onto the board.
func (b *Board) DrawSnapshot(s game.Snapshot) {
	b.Resize(s.Cols, s.Rows)
	b.Clear()

	for _, c := range s.Obstacles {
		b.Set(c, TileObstacle)
	}
	for _, p := range s.PowerUps {
		b.Set(p.Position, PowerUpTile(p.Kind))
	}
	b.Set(s.Food, TileFood)

	body, head := TileBody, TileHead
	switch {
	case s.Invincible:
		body, head = TileShieldBody, TileShieldHead
	case s.Size < (object.SizeNormal+object.SizeShrunk)/2:
		body = TileBodySmall
	}
	// Tail first so the head wins on overlap.
	for _, c := range slices.Backward(s.Snake) {
		b.Set(c, body)
	}
	if len(s.Snake) > 0 {
		b.Set(s.Snake[0], head)
	}
}
