package draw

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/tomz197/metalsnake/internal/game"
	"github.com/tomz197/metalsnake/internal/input"
	"github.com/tomz197/metalsnake/internal/score"
)

// ASCII art titles (figlet "small" font).
var (
	titleArt = []string{
		` __  __ ___ _____ _   _       ___ _  _   _   _  _____ `,
		`|  \/  | __|_   _/_\ | |     / __| \| | /_\ | |/ / __|`,
		`| |\/| | _|  | |/ _ \| |__   \__ \ .' |/ _ \| ' <| _| `,
		`|_|  |_|___| |_/_/ \_\____|  |___/_|\_/_/ \_\_|\_\___|`,
	}
	gameOverArt = []string{
		`  ___   _   __  __ ___    _____   _____ ___ `,
		` / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \`,
		`| (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   /`,
		` \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\`,
	}
)

// HUD renders the status line shown above the board, padded to width so a
// shorter value overwrites a longer one.
func (t *Theme) HUD(s game.Snapshot, best, width int) string {
	left := fmt.Sprintf("%s  Score %-6d Lvl %-2d Spd %4.1f",
		t.Accent.Render(s.Mode.String()), s.Score, s.Level, s.Speed)
	right := fmt.Sprintf("Best %d", max(best, s.Score))
	if s.Combo > 0 {
		right = t.Accent.Render(fmt.Sprintf("Combo %d x%.1f", s.Combo, s.ComboMultiplier)) + "  " + right
	}
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return t.r.NewStyle().Width(width).MaxWidth(width).MaxHeight(1).Render(left + strings.Repeat(" ", gap) + right)
}

// Effects renders the active power-ups with a bar of remaining time.
func (t *Theme) Effects(active []game.ActiveEffect, duration, width int) string {
	const barWidth = 6
	parts := make([]string, 0, len(active))
	for _, a := range active {
		filled := 0
		if duration > 0 {
			filled = min(barWidth, (a.Remaining*barWidth+duration-1)/duration)
		}
		bar := strings.Repeat("■", filled) + strings.Repeat("·", barWidth-filled)
		parts = append(parts, t.Kind(a.Kind).Render(kindLabels[a.Kind])+" "+t.Subtle.Render(bar))
	}
	return t.r.NewStyle().Width(width).MaxWidth(width).MaxHeight(1).Render(strings.Join(parts, "  "))
}

// TitleScreen renders the start menu. controls lists the key help lines;
// nil shows the default layout.
func (t *Theme) TitleScreen(mode game.Mode, player string, best int, controls []string, blink bool) string {
	if controls == nil {
		controls = input.DefaultBindings().Help()
	}
	lines := []string{
		t.Title.Render(strings.Join(titleArt, "\n")),
		"",
		t.Subtle.Render("~ power-ups, combos and obstacles ~"),
		"",
		fmt.Sprintf("Player %s   Mode %s   Best %d", t.Accent.Render(player), t.Accent.Render(mode.String()), best),
		"",
		t.Text.Render(strings.Join(controls, "\n")),
		"",
	}
	if blink {
		lines = append(lines, t.Accent.Render(">>  Press ENTER to Start  <<"))
	} else {
		lines = append(lines, "")
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

// PausedScreen renders the pause overlay.
func (t *Theme) PausedScreen() string {
	return t.Box.Render(lipgloss.JoinVertical(lipgloss.Center,
		t.Title.Render("PAUSED"),
		"",
		t.Subtle.Render("P to resume, Q to quit"),
	))
}

// GameOverScreen renders the end-of-round summary. achievements lists the
// names unlocked during the round.
func (t *Theme) GameOverScreen(s game.Snapshot, best int, newBest bool, achievements []string, blink bool) string {
	lines := []string{
		t.Warn.Render(strings.Join(gameOverArt, "\n")),
		"",
		fmt.Sprintf("Score %d   Length %d   Level %d", s.Score, len(s.Snake), s.Level),
		t.Subtle.Render("Hit " + s.Cause.String()),
	}
	if newBest {
		lines = append(lines, "", t.Accent.Render("New high score!"))
	} else {
		lines = append(lines, "", t.Subtle.Render(fmt.Sprintf("Best %d", best)))
	}
	for _, a := range achievements {
		lines = append(lines, t.Title.Render("Achievement unlocked: "+a))
	}
	lines = append(lines, "")
	if blink {
		lines = append(lines, t.Accent.Render(">>  Press ENTER to Restart  <<"))
	} else {
		lines = append(lines, "")
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

// HighScoresScreen renders one table per mode.
func (t *Theme) HighScoresScreen(tables map[game.Mode][]score.Entry) string {
	var blocks []string
	for i, m := range game.Modes() {
		if i > 0 {
			blocks = append(blocks, "    ")
		}
		blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Center,
			t.Title.Render(strings.ToUpper(m.String())),
			t.scoreTable(tables[m]),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Top, blocks...),
		"",
		t.Subtle.Render("ESC or H to go back"),
	)
}

func (t *Theme) scoreTable(entries []score.Entry) string {
	header := t.Accent.Padding(0, 1)
	cell := t.Text.Padding(0, 1)
	tb := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(t.Border).
		Headers("#", "Name", "Score").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	if len(entries) == 0 {
		tb.Row("-", "no scores yet", "-")
	}
	for i, e := range entries {
		tb.Row(fmt.Sprint(i+1), e.Name, fmt.Sprint(e.Score))
	}
	return tb.Render()
}

// NoticeScreen renders a boxed message such as a shutdown or inactivity
// warning.
func (t *Theme) NoticeScreen(title string, lines ...string) string {
	body := make([]string, 0, len(lines)+2)
	body = append(body, t.Warn.Render(title), "")
	for _, l := range lines {
		body = append(body, t.Text.Render(l))
	}
	return t.Box.Render(lipgloss.JoinVertical(lipgloss.Center, body...))
}

// TooSmallScreen asks for a bigger terminal.
func (t *Theme) TooSmallScreen(need Layout) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		t.Warn.Render("Terminal too small"),
		t.Subtle.Render(fmt.Sprintf("need %dx%d", need.Width, need.Height)),
	)
}
