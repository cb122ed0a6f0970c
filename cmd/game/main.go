package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/tomz197/metalsnake/internal/audio"
	"github.com/tomz197/metalsnake/internal/config"
	"github.com/tomz197/metalsnake/internal/draw"
	"github.com/tomz197/metalsnake/internal/game"
	"github.com/tomz197/metalsnake/internal/input"
	"github.com/tomz197/metalsnake/internal/loop"
	"github.com/tomz197/metalsnake/internal/score"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "metalsnake: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	name := flag.String("name", config.GetEnv("USER", game.DefaultPlayerName), "name recorded with your scores")
	seed := flag.Uint64("seed", 0, "random seed; 0 seeds from the clock")
	mode := flag.String("mode", "", "classic or obstacles (overrides SNAKE_MODE)")
	dataDir := flag.String("data", score.DefaultDir(), "directory holding "+score.FileName)
	mute := flag.Bool("mute", false, "start with sound off")
	flag.Parse()

	// The screen belongs to the game, so logs only go to SNAKE_LOG_FILE.
	logger, closeLog, err := config.NewLogger("", io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := game.ConfigFromEnv()
	if err != nil {
		return err
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *mode != "" {
		if cfg.Mode, err = game.ParseMode(*mode); err != nil {
			return err
		}
	}

	store, err := score.Open(filepath.Join(*dataDir, score.FileName), score.DefaultMaxScores, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	keys, err := input.BindingsFromEnv()
	if err != nil {
		return err
	}

	opts := loop.Options{
		Config:       cfg,
		Player:       *name,
		TermSizeFunc: draw.DefaultTermSizeFunc,
		Theme:        draw.NewThemeFor(os.Stdout),
		Store:        store,
		Keys:         keys,
		Logger:       logger,
	}

	audioOn, err := config.GetEnvBool("SNAKE_AUDIO", true)
	if err != nil {
		return err
	}
	if audioOn {
		volume, err := config.GetEnvFloat("SNAKE_VOLUME", audio.DefaultVolume)
		if err != nil {
			return err
		}
		player := audio.NewPlayer(logger, volume)
		player.SetMuted(*mute)
		player.Start(ctx)
		defer player.Close()
		opts.Sound = player
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enabling raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	session, err := loop.NewSession(os.Stdin, os.Stdout, opts)
	if err != nil {
		return err
	}
	if err := session.Run(ctx); err != nil {
		return fmt.Errorf("game error: %w", err)
	}
	return nil
}
