package draw

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/tomz197/metalsnake/internal/object"
)

// CellWidth is how many terminal columns one grid cell takes. Two columns
// make cells roughly square in most fonts.
const CellWidth = 2

// Palette, 256-colour codes so the ANSI256 profile renders them exactly.
const (
	colorSnake      = lipgloss.Color("46")
	colorInvincible = lipgloss.Color("51")
	colorFood       = lipgloss.Color("196")
	colorObstacle   = lipgloss.Color("244")
	colorBorder     = lipgloss.Color("240")
	colorTitle      = lipgloss.Color("46")
	colorAccent     = lipgloss.Color("214")
	colorSubtle     = lipgloss.Color("245")
	colorWarn       = lipgloss.Color("203")
)

var kindColors = map[object.Kind]lipgloss.Color{
	object.SpeedBoost:      "226",
	object.Invincibility:   "51",
	object.ScoreMultiplier: "201",
	object.Magnet:          "46",
	object.Shrink:          "214",
	object.TimeSlow:        "255",
}

// kindGlyphs keep pickups readable without colour.
var kindGlyphs = map[object.Kind]string{
	object.SpeedBoost:      ">>",
	object.Invincibility:   "<>",
	object.ScoreMultiplier: "x2",
	object.Magnet:          "()",
	object.Shrink:          "><",
	object.TimeSlow:        "~~",
}

// kindLabels are the short HUD names.
var kindLabels = map[object.Kind]string{
	object.SpeedBoost:      "SPEED",
	object.Invincibility:   "INVINCIBLE",
	object.ScoreMultiplier: "x2 SCORE",
	object.Magnet:          "MAGNET",
	object.Shrink:          "SHRINK",
	object.TimeSlow:        "SLOW",
}

// Theme holds the styles for one output. Styles come from the output's own
// renderer so every SSH session gets colours matching its terminal.
type Theme struct {
	r      *lipgloss.Renderer
	tiles  []string
	border lipgloss.Border

	Border lipgloss.Style
	Title  lipgloss.Style
	Text   lipgloss.Style
	Subtle lipgloss.Style
	Accent lipgloss.Style
	Warn   lipgloss.Style
	Box    lipgloss.Style
	kinds  map[object.Kind]lipgloss.Style
}

// NewTheme builds a theme on r.
func NewTheme(r *lipgloss.Renderer) *Theme {
	t := &Theme{
		r:      r,
		tiles:  make([]string, tileCount),
		border: lipgloss.RoundedBorder(),
		Border: r.NewStyle().Foreground(colorBorder),
		Title:  r.NewStyle().Foreground(colorTitle).Bold(true),
		Text:   r.NewStyle(),
		Subtle: r.NewStyle().Foreground(colorSubtle),
		Accent: r.NewStyle().Foreground(colorAccent).Bold(true),
		Warn:   r.NewStyle().Foreground(colorWarn).Bold(true),
		Box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 3).
			Align(lipgloss.Center),
		kinds: make(map[object.Kind]lipgloss.Style, len(kindColors)),
	}
	for k, c := range kindColors {
		t.kinds[k] = r.NewStyle().Foreground(c).Bold(true)
	}

	snake := r.NewStyle().Foreground(colorSnake)
	shield := r.NewStyle().Foreground(colorInvincible)
	t.tiles[TileEmpty] = "  "
	t.tiles[TileBody] = snake.Render("██")
	t.tiles[TileBodySmall] = snake.Render("▄▄")
	t.tiles[TileHead] = snake.Bold(true).Render("▓▓")
	t.tiles[TileShieldBody] = shield.Render("██")
	t.tiles[TileShieldHead] = shield.Bold(true).Render("▓▓")
	t.tiles[TileFood] = r.NewStyle().Foreground(colorFood).Bold(true).Render("●●")
	t.tiles[TileObstacle] = r.NewStyle().Foreground(colorObstacle).Render("▒▒")
	for _, k := range object.Kinds() {
		t.tiles[PowerUpTile(k)] = t.kinds[k].Render(kindGlyphs[k])
	}
	return t
}

// NewThemeFor detects the colour profile of w.
func NewThemeFor(w io.Writer, opts ...termenv.OutputOption) *Theme {
	return NewTheme(lipgloss.NewRenderer(w, opts...))
}

// PlainTheme renders without colour.
func PlainTheme() *Theme {
	return NewTheme(lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.Ascii)))
}

// Renderer returns the theme's lipgloss renderer.
func (t *Theme) Renderer() *lipgloss.Renderer {
	return t.r
}

// Tile returns the rendered glyph for tile, CellWidth columns wide.
func (t *Theme) Tile(tile Tile) string {
	if int(tile) >= len(t.tiles) {
		return t.tiles[TileEmpty]
	}
	return t.tiles[tile]
}

// Kind returns the style of a power-up kind.
func (t *Theme) Kind(k object.Kind) lipgloss.Style {
	return t.kinds[k]
}
