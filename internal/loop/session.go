// Package loop runs a snake round in a terminal: one Session per player, and
// a Hub tracking the sessions of an SSH server.
package loop

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/metalsnake/internal/draw"
	"github.com/tomz197/metalsnake/internal/game"
	"github.com/tomz197/metalsnake/internal/input"
	"github.com/tomz197/metalsnake/internal/score"
)

// Screen is what a session shows.
type Screen int

const (
	ScreenTitle Screen = iota
	ScreenPlaying
	ScreenHighScores
	ScreenShutdown
)

// Sound receives game events, plays menu feedback and can be muted.
type Sound interface {
	game.Listener
	Menu()
	ToggleMute() bool
}

// Options configures a session. Only Config is required.
type Options struct {
	Config       game.Config
	Player       string
	TermSizeFunc draw.TermSizeFunc
	Theme        *draw.Theme
	Store        *score.Store
	Sound        Sound
	Hub          *Hub
	Keys         input.Bindings // nil means input.DefaultBindings
	Logger       *log.Logger
}

// Session drives one controller from one terminal.
type Session struct {
	ctrl     *game.Controller
	tracker  *score.Tracker
	store    *score.Store
	sound    Sound
	hub      *Hub
	handle   *Handle
	theme    *draw.Theme
	board    *draw.Board
	cw       *draw.ChunkWriter
	w        io.Writer
	stream   *input.Stream
	keys     input.Bindings
	termSize draw.TermSizeFunc
	logger   *log.Logger
	now      func() time.Time

	layout     draw.Layout
	screen     Screen
	drawn      frameKey
	drawnBlink bool
	notice     string
	running    bool
	lastInput  time.Time
	inactive   bool
	shutdownIn time.Duration
	best       int
	newBest    bool
	unlocked   []string
}

// frameKey is what forces a full redraw when it changes.
type frameKey struct {
	screen   Screen
	phase    game.Phase
	mode     game.Mode
	layout   draw.Layout
	inactive bool
}

// NewSession builds a session reading keys from r and drawing to w. With a
// hub it registers there and fails when the hub refuses.
func NewSession(r io.Reader, w io.Writer, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	termSize := opts.TermSizeFunc
	if termSize == nil {
		termSize = draw.DefaultTermSizeFunc
	}
	theme := opts.Theme
	if theme == nil {
		theme = draw.NewThemeFor(w)
	}
	player := game.PlayerName(opts.Player)
	keys := opts.Keys
	if keys == nil {
		keys = input.DefaultBindings()
	}

	s := &Session{
		store:    opts.Store,
		sound:    opts.Sound,
		hub:      opts.Hub,
		theme:    theme,
		board:    draw.NewBoard(opts.Config.Cols, opts.Config.Rows),
		cw:       draw.NewChunkWriter(w, 0, 0),
		w:        w,
		termSize: termSize,
		keys:     keys,
		logger:   logger.With("player", player),
		now:      time.Now,
		running:  true,
	}

	ctrlOpts := []game.Option{game.WithLogger(s.logger), game.WithPlayer(player)}
	if s.store != nil {
		s.tracker = score.NewTracker(s.store, player, s.logger)
		ctrlOpts = append(ctrlOpts, game.WithReporter(s.store), game.WithListener(s.tracker))
	}
	if s.sound != nil {
		ctrlOpts = append(ctrlOpts, game.WithListener(s.sound))
	}
	ctrl, err := game.NewController(opts.Config, ctrlOpts...)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	s.ctrl = ctrl

	if s.hub != nil {
		handle, err := s.hub.Register(player)
		if err != nil {
			return nil, fmt.Errorf("new session: %w", err)
		}
		s.handle = handle
	}

	s.stream = input.StartStream(r, keys)
	s.lastInput = s.now()
	s.best = s.bestScore()
	return s, nil
}

// Run plays until the player quits, the input closes, the hub's shutdown
// notice runs out, or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	draw.HideCursor(s.w)
	defer draw.ShowCursor(s.w)
	draw.ClearScreen(s.w)
	defer s.close()

	lastTime := time.Now()
	for s.running && ctx.Err() == nil {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime)
		lastTime = frameStart

		s.processInput(input.ReadInput(s.stream))
		s.processNotices()
		s.update(dt)

		if err := s.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < TargetFrameTime {
			select {
			case <-ctx.Done():
				s.running = false
			case <-time.After(TargetFrameTime - elapsed):
			}
		}
	}

	draw.ClearScreen(s.w)
	return nil
}

func (s *Session) close() {
	if s.hub != nil && s.handle != nil {
		s.hub.Unregister(s.handle.ID)
	}
}

// processInput applies this frame's key presses in order.
func (s *Session) processInput(in input.Input) {
	if in.Closed {
		s.running = false
	}
	if len(in.Pressed) > 0 {
		s.lastInput = s.now()
		s.inactive = false
	}
	for _, cmd := range in.Commands {
		s.onCommand(cmd)
	}
}

func (s *Session) onCommand(cmd input.Command) {
	switch cmd {
	case input.CmdQuit:
		s.running = false
		return
	case input.CmdMute:
		if s.sound != nil {
			muted := s.sound.ToggleMute()
			s.logger.Debug("sound toggled", "muted", muted)
		}
		return
	}

	switch s.screen {
	case ScreenTitle:
		switch cmd {
		case input.CmdStart, input.CmdPause:
			s.menu()
			s.startRound()
		case input.CmdToggleObstacles:
			s.menu()
			s.ctrl.ToggleObstacles()
			s.best = s.bestScore()
		case input.CmdHighScores:
			s.menu()
			s.screen = ScreenHighScores
		}
	case ScreenHighScores:
		switch cmd {
		case input.CmdBack, input.CmdHighScores, input.CmdStart:
			s.menu()
			s.screen = ScreenTitle
		}
	case ScreenPlaying:
		s.handlePlaying(cmd)
	}
}

func (s *Session) handlePlaying(cmd input.Command) {
	if d, ok := cmd.Direction(); ok {
		s.ctrl.SetDirection(d)
		return
	}
	switch s.ctrl.Phase() {
	case game.PhaseRunning, game.PhasePaused:
		switch cmd {
		case input.CmdPause, input.CmdBack:
			s.ctrl.TogglePause()
		case input.CmdStart:
			s.ctrl.Resume()
		}
	case game.PhaseEnded:
		switch cmd {
		case input.CmdStart, input.CmdPause:
			s.menu()
			s.startRound()
		case input.CmdToggleObstacles:
			s.menu()
			s.ctrl.ToggleObstacles()
			s.best = s.bestScore()
		case input.CmdBack:
			s.menu()
			s.ctrl.Reset()
			s.screen = ScreenTitle
		case input.CmdHighScores:
			s.menu()
			s.ctrl.Reset()
			s.screen = ScreenHighScores
		}
	}
}

func (s *Session) menu() {
	if s.sound != nil {
		s.sound.Menu()
	}
}

// startRound begins a fresh round from the title or game-over screen.
func (s *Session) startRound() {
	if s.ctrl.Phase() != game.PhaseIdle {
		s.ctrl.Reset()
	}
	if s.tracker != nil {
		s.tracker.Reset()
	}
	s.best = s.bestScore()
	s.newBest = false
	s.unlocked = nil
	s.ctrl.Start()
	s.screen = ScreenPlaying
}

// processNotices handles messages from the hub.
func (s *Session) processNotices() {
	if s.handle == nil {
		return
	}
	for {
		select {
		case n := <-s.handle.Notices:
			if n == NoticeShutdown && s.screen != ScreenShutdown {
				s.ctrl.Pause()
				s.screen = ScreenShutdown
				s.shutdownIn = ShutdownDisplay
			}
		default:
			return
		}
	}
}

func (s *Session) update(dt time.Duration) {
	idle := s.now().Sub(s.lastInput)
	switch {
	case idle > InactivityDisconnect:
		s.logger.Info("disconnecting inactive player", "idle", idle.Round(time.Second))
		s.running = false
		return
	case idle > InactivityWarn:
		s.inactive = true
	}

	switch s.screen {
	case ScreenShutdown:
		s.shutdownIn -= dt
		if s.shutdownIn <= 0 {
			s.running = false
		}
	case ScreenPlaying:
		for _, e := range s.ctrl.Advance(dt) {
			if e.Kind == game.EventDeath {
				s.roundOver(e)
			}
		}
	}
}

// roundOver collects what the game-over screen shows.
func (s *Session) roundOver(e game.Event) {
	s.newBest = e.Score > 0 && e.Score > s.best
	if s.tracker != nil {
		for _, a := range s.tracker.Drain() {
			s.unlocked = append(s.unlocked, a.Name)
		}
	}
}

// bestScore is the top recorded score for the current mode.
func (s *Session) bestScore() int {
	if s.store == nil {
		return 0
	}
	if top := s.store.Top(s.ctrl.Mode()); len(top) > 0 {
		return top[0].Score
	}
	return 0
}

// Screen returns what the session currently shows.
func (s *Session) Screen() Screen { return s.screen }

// Controller returns the session's round.
func (s *Session) Controller() *game.Controller { return s.ctrl }

// Running reports whether the session loop continues.
func (s *Session) Running() bool { return s.running }
