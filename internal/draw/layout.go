package draw

import "github.com/charmbracelet/lipgloss"

// Layout places the playfield in a terminal. The playfield is a HUD line,
// the bordered board and an effects line, centered by the offsets.
// Positions are 1-based and relative to the offset.
type Layout struct {
	Width     int
	Height    int
	OffsetCol int
	OffsetRow int
	HUDRow    int
	BoardCol  int
	BoardRow  int
	StatusRow int
	TooSmall  bool
}

// Fit lays out a cols x rows board in a termW x termH terminal.
func Fit(termW, termH, cols, rows int) Layout {
	l := Layout{
		Width:    cols*CellWidth + 2,
		Height:   rows + 4,
		HUDRow:   1,
		BoardCol: 2,
		BoardRow: 3,
	}
	l.StatusRow = l.BoardRow + rows + 1
	l.TooSmall = termW < l.Width || termH < l.Height
	l.OffsetCol = max((termW-l.Width)/2, 0)
	l.OffsetRow = max((termH-l.Height)/2, 0)
	return l
}

// Center returns where block's top-left corner goes to sit in the middle of
// the playfield.
func (l Layout) Center(block string) (col, row int) {
	col = 1 + max((l.Width-lipgloss.Width(block))/2, 0)
	row = 1 + max((l.Height-lipgloss.Height(block))/2, 0)
	return col, row
}
