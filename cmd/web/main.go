package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/metalsnake/internal/config"
	"github.com/tomz197/metalsnake/internal/game"
	"github.com/tomz197/metalsnake/internal/score"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(indexHTML))

func main() {
	logger, closeLog, err := config.NewLogger("web", os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "metalsnake-web: %v\n", err)
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
	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	store, err := score.Open(filepath.Join(score.DefaultDir(), score.FileName), score.DefaultMaxScores, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           newHandler(store, sshHost, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting web server", "addr", "http://"+srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// board is one mode's table on the page.
type board struct {
	Mode    string
	Entries []score.Entry
}

type pageData struct {
	SSHHost      string
	Boards       []board
	Achievements []score.Achievement
}

// newHandler serves the landing page, the score API and a health check. The
// score file is shared with the SSH server, so every request reloads it.
func newHandler(store *score.Store, sshHost string, logger *log.Logger) http.Handler {
	reload := func() {
		if err := store.Reload(); err != nil {
			logger.Warn("reloading scores", "err", err)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		reload()
		data := pageData{SSHHost: sshHost, Achievements: score.Achievements()}
		for _, m := range game.Modes() {
			data.Boards = append(data.Boards, board{Mode: m.String(), Entries: store.Top(m)})
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTmpl.Execute(w, data); err != nil {
			logger.Error("rendering index", "err", err)
		}
	})
	mux.HandleFunc("GET /api/scores", func(w http.ResponseWriter, r *http.Request) {
		reload()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(store.All()); err != nil {
			logger.Error("encoding scores", "err", err)
		}
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	return mux
}
