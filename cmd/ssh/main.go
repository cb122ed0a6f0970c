package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/muesli/termenv"
	"github.com/tomz197/metalsnake/internal/config"
	"github.com/tomz197/metalsnake/internal/draw"
	"github.com/tomz197/metalsnake/internal/game"
	"github.com/tomz197/metalsnake/internal/input"
	"github.com/tomz197/metalsnake/internal/loop"
	"github.com/tomz197/metalsnake/internal/score"
	"golang.org/x/sync/errgroup"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"

	playerDrainTimeout = 15 * time.Second
	serverStopTimeout  = 5 * time.Second
)

func main() {
	logger, closeLog, err := config.NewLogger("ssh", os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "metalsnake-ssh: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		closeLog()
		os.Exit(1)
	}
}

func run(logger *log.Logger) error {
	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	maxSessions, err := config.GetEnvInt("SNAKE_MAX_SESSIONS", loop.DefaultMaxSessions)
	if err != nil {
		return err
	}
	cfg, err := game.ConfigFromEnv()
	if err != nil {
		return err
	}
	store, err := score.Open(filepath.Join(score.DefaultDir(), score.FileName), score.DefaultMaxScores, logger)
	if err != nil {
		return err
	}
	logger.Info("ssh config", "host", host, "port", port, "hostKey", hostKeyPath, "scores", store.Path(), "maxSessions", maxSessions)

	keys, err := input.BindingsFromEnv()
	if err != nil {
		return err
	}

	hub := loop.NewHub(maxSessions, logger)
	g := &gameHandler{cfg: cfg, store: store, hub: hub, keys: keys, logger: logger}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			g.middleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// TCP_NODELAY keeps key presses from being batched
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("starting ssh server", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down", "players", hub.Count())
		if !hub.Shutdown(playerDrainTimeout) {
			logger.Warn("players still connected after notice", "players", hub.Count())
		}

		stopCtx, cancel := context.WithTimeout(context.Background(), serverStopTimeout)
		defer cancel()
		return s.Shutdown(stopCtx)
	})
	return eg.Wait()
}

// gameHandler runs one session per SSH connection.
type gameHandler struct {
	cfg    game.Config
	store  *score.Store
	hub    *loop.Hub
	keys   input.Bindings
	logger *log.Logger
}

func (g *gameHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}
		logger := g.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("new game session", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		env := sshEnviron(append(sess.Environ(), "TERM="+pty.Term))
		theme := draw.NewThemeFor(sess,
			termenv.WithEnvironment(env),
			termenv.WithUnsafe(),
			termenv.WithColorCache(true),
		)

		session, err := loop.NewSession(sess, sess, loop.Options{
			Config:       g.cfg,
			Player:       sess.User(),
			TermSizeFunc: sizeTracker.getSize,
			Theme:        theme,
			Store:        g.store,
			Hub:          g.hub,
			Keys:         g.keys,
			Logger:       logger,
		})
		switch {
		case errors.Is(err, loop.ErrHubFull):
			fmt.Fprintln(sess, "The arena is full right now. Please try again in a minute.")
			logger.Warn("session refused", "err", err)
		case errors.Is(err, loop.ErrHubClosed):
			fmt.Fprintln(sess, "The server is shutting down.")
		case err != nil:
			logger.Error("session setup failed", "err", err)
		default:
			if err := session.Run(sess.Context()); err != nil {
				logger.Error("game error", "err", err)
			}
			logger.Info("session ended")
		}
		next(sess)
	}
}

// sshEnviron exposes the client's environment to termenv, which otherwise
// inspects the server process.
type sshEnviron []string

func (e sshEnviron) Environ() []string { return e }

func (e sshEnviron) Getenv(key string) string {
	for i := len(e) - 1; i >= 0; i-- {
		if v, ok := strings.CutPrefix(e[i], key+"="); ok {
			return v
		}
	}
	return ""
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
