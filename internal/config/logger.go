package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger builds the logger of a binary. Output goes to $SNAKE_LOG_FILE
// when set, otherwise to fallback; $SNAKE_LOG_LEVEL picks the level (info by
// default). The returned close function releases the log file.
func NewLogger(prefix string, fallback io.Writer) (*log.Logger, func() error, error) {
	level := log.InfoLevel
	if name, ok := lookup("SNAKE_LOG_LEVEL"); ok {
		l, err := log.ParseLevel(name)
		if err != nil {
			return nil, nil, fmt.Errorf("SNAKE_LOG_LEVEL: %w", err)
		}
		level = l
	}

	out := fallback
	closeFn := func() error { return nil }
	if path, ok := lookup("SNAKE_LOG_FILE"); ok {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	logger := log.NewWithOptions(out, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return logger, closeFn, nil
}
