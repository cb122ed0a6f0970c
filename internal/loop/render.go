package loop

import (
	"fmt"
	"math"

	"github.com/tomz197/metalsnake/internal/draw"
	"github.com/tomz197/metalsnake/internal/game"
	"github.com/tomz197/metalsnake/internal/score"
)

// drawFrame draws the current screen. The terminal is cleared and the board
// fully repainted only when the screen, phase, layout or inactivity overlay
// changes; otherwise only changed cells are sent.
func (s *Session) drawFrame() error {
	cfg := s.ctrl.Config()
	if w, h, err := s.termSize(); err == nil {
		s.layout = draw.Fit(w, h, cfg.Cols, cfg.Rows)
	}

	key := frameKey{screen: s.screen, phase: s.ctrl.Phase(), mode: s.ctrl.Mode(), layout: s.layout, inactive: s.inactive}
	full := key != s.drawn
	if full {
		s.cw.Clear()
		s.board.ForceRedraw()
		s.cw.SetOffset(s.layout.OffsetCol, s.layout.OffsetRow)
		s.drawn = key
		s.notice = ""
	}
	blink := s.blink()
	fresh := full || blink != s.drawnBlink
	s.drawnBlink = blink

	switch {
	case s.layout.TooSmall:
		s.drawNotice(1, 1, s.theme.TooSmallScreen(s.layout))
	case s.screen == ScreenShutdown:
		s.drawNotice(0, 0, s.theme.NoticeScreen("SERVER SHUTTING DOWN",
			"The server is restarting for maintenance.",
			"Please reconnect in a moment.",
			"",
			fmt.Sprintf("Disconnecting in %d seconds...", int(math.Ceil(s.shutdownIn.Seconds()))),
			"Press Q to disconnect now",
		))
	case s.inactive:
		left := InactivityDisconnect - s.now().Sub(s.lastInput)
		s.drawNotice(0, 0, s.theme.NoticeScreen("INACTIVITY WARNING",
			fmt.Sprintf("You will be disconnected in %d seconds.", max(int(left.Seconds()), 0)),
			"Press any key to continue",
		))
	case s.screen == ScreenTitle:
		if fresh {
			s.drawCentered(s.theme.TitleScreen(s.ctrl.Mode(), s.ctrl.Player(), s.best, s.keys.Help(), blink))
		}
	case s.screen == ScreenHighScores:
		if full {
			s.drawCentered(s.theme.HighScoresScreen(s.highScores()))
		}
	case s.screen == ScreenPlaying:
		s.drawPlaying(full, fresh, blink, cfg)
	}

	return s.cw.Flush()
}

func (s *Session) drawPlaying(full, fresh, blink bool, cfg game.Config) {
	snap := s.ctrl.Snapshot()
	l := s.layout

	s.cw.WriteAt(1, l.HUDRow, s.theme.HUD(snap, s.best, l.Width))
	if full {
		s.board.RenderBorder(s.cw, s.theme, l.BoardCol, l.BoardRow)
	}
	s.board.DrawSnapshot(snap)
	s.board.Render(s.cw, s.theme, l.BoardCol, l.BoardRow)
	s.cw.WriteAt(1, l.StatusRow, s.theme.Effects(snap.Active, cfg.PowerUpDuration, l.Width))

	switch snap.Phase {
	case game.PhasePaused:
		if full {
			s.drawCentered(s.theme.PausedScreen())
		}
	case game.PhaseEnded:
		if fresh {
			s.drawCentered(s.theme.GameOverScreen(snap, s.best, s.newBest, s.unlocked, blink))
		}
	}
}

// drawNotice writes block at (col, row), or centred when col is 0, unless
// the same block is already on screen.
func (s *Session) drawNotice(col, row int, block string) {
	if block == s.notice {
		return
	}
	s.notice = block
	if col == 0 {
		s.drawCentered(block)
		return
	}
	s.cw.WriteBlock(col, row, block)
}

func (s *Session) drawCentered(block string) {
	col, row := s.layout.Center(block)
	s.cw.WriteBlock(col, row, block)
}

func (s *Session) highScores() map[game.Mode][]score.Entry {
	out := make(map[game.Mode][]score.Entry, len(game.Modes()))
	if s.store == nil {
		return out
	}
	for _, m := range game.Modes() {
		out[m] = s.store.Top(m)
	}
	return out
}

func (s *Session) blink() bool {
	return s.now().UnixMilli()/blinkPeriod.Milliseconds()%2 == 0
}
