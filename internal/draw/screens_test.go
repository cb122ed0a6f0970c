package draw

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/tomz197/metalsnake/internal/game"
	"github.com/tomz197/metalsnake/internal/object"
	"github.com/tomz197/metalsnake/internal/score"
)

func TestHUDIsFixedWidth(t *testing.T) {
	th := PlainTheme()
	for _, s := range []game.Snapshot{
		{Mode: game.ModeClassic, Score: 12, Level: 1, Speed: 12},
		{Mode: game.ModeObstacles, Score: 3, Combo: 3, ComboMultiplier: 1.5, Speed: 10},
	} {
		out := th.HUD(s, 40, 62)
		if w := lipgloss.Width(out); w != 62 {
			t.Errorf("HUD width = %d, want 62: %q", w, out)
		}
		if lipgloss.Height(out) != 1 {
			t.Errorf("HUD spans %d lines", lipgloss.Height(out))
		}
		if !strings.Contains(out, s.Mode.String()) {
			t.Errorf("HUD %q missing mode", out)
		}
	}

	out := th.HUD(game.Snapshot{Score: 3, Combo: 3, ComboMultiplier: 1.5}, 40, 62)
	for _, want := range []string{"Score 3", "Combo 3 x1.5", "Best 40"} {
		if !strings.Contains(out, want) {
			t.Errorf("HUD %q missing %q", out, want)
		}
	}
}

func TestEffectsBar(t *testing.T) {
	th := PlainTheme()
	out := th.Effects([]game.ActiveEffect{
		{Kind: object.Magnet, Remaining: 250},
		{Kind: object.SpeedBoost, Remaining: 500},
	}, 500, 62)
	for _, want := range []string{"MAGNET ■■■···", "SPEED ■■■■■■"} {
		if !strings.Contains(out, want) {
			t.Errorf("effects %q missing %q", out, want)
		}
	}
	if w := lipgloss.Width(th.Effects(nil, 500, 62)); w != 62 {
		t.Errorf("empty effects width = %d", w)
	}
}

func TestScreens(t *testing.T) {
	th := PlainTheme()

	if out := th.TitleScreen(game.ModeObstacles, "ana", 7, nil, true); !strings.Contains(out, "Press ENTER") || !strings.Contains(out, "obstacles") || !strings.Contains(out, "Toggle obstacles") {
		t.Errorf("title screen missing prompt, mode or default controls:\n%s", out)
	}
	out := th.TitleScreen(game.ModeClassic, "ana", 7, []string{"Z . . Pause"}, false)
	if strings.Contains(out, "Press ENTER") {
		t.Error("prompt shown during blink-off")
	}
	if !strings.Contains(out, "Z . . Pause") {
		t.Errorf("custom controls not shown:\n%s", out)
	}

	over := th.GameOverScreen(game.Snapshot{Score: 42, Cause: object.CauseWall}, 42, true, []string{"First Bite"}, false)
	for _, want := range []string{"Score 42", "Hit wall", "New high score!", "Achievement unlocked: First Bite"} {
		if !strings.Contains(over, want) {
			t.Errorf("game over screen missing %q:\n%s", want, over)
		}
	}

	scores := th.HighScoresScreen(map[game.Mode][]score.Entry{
		game.ModeClassic: {{Name: "ana", Score: 30}, {Name: "bo", Score: 12}},
	})
	for _, want := range []string{"CLASSIC", "OBSTACLES", "ana", "30", "bo", "no scores yet"} {
		if !strings.Contains(scores, want) {
			t.Errorf("high scores missing %q:\n%s", want, scores)
		}
	}

	if out := th.NoticeScreen("SERVER SHUTTING DOWN", "bye"); !strings.Contains(out, "SERVER SHUTTING DOWN") || !strings.Contains(out, "bye") {
		t.Errorf("notice screen:\n%s", out)
	}
	if out := th.TooSmallScreen(Fit(10, 10, 30, 20)); !strings.Contains(out, "need 62x24") {
		t.Errorf("too small screen: %q", out)
	}
}
