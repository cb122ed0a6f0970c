// Package score persists high scores and achievements in a JSON file shared
// by every session of a server.
package score

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tomz197/metalsnake/internal/config"
	"github.com/tomz197/metalsnake/internal/game"
)

// Defaults for the score file.
const (
	DefaultMaxScores = 5
	FileName         = "highscores.json"
)

// Entry is one high-score line.
type Entry struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Score  int       `json:"score"`
	Length int       `json:"length,omitempty"`
	Cause  string    `json:"cause,omitempty"`
	At     time.Time `json:"at"`
}

// Unlock records when a player first earned an achievement.
type Unlock struct {
	ID     string    `json:"id"`
	Player string    `json:"player,omitempty"`
	At     time.Time `json:"at"`
}

// document is the on-disk layout.
type document struct {
	HighScores   map[string][]Entry `json:"highscores"`
	Achievements []Unlock           `json:"achievements"`
}

// Store keeps the top scores per mode. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	path   string
	max    int
	logger *log.Logger
	doc    document
}

// DefaultDir returns $SNAKE_DATA_DIR, or metalsnake under the user config
// directory, or the working directory as a last resort.
func DefaultDir() string {
	if dir := config.GetEnv("SNAKE_DATA_DIR", ""); dir != "" {
		return dir
	}
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "metalsnake")
	}
	return "."
}

// Open loads the score file at path. A missing file starts an empty table; a
// corrupt one is logged and replaced on the next write. maxScores <= 0
// selects DefaultMaxScores.
func Open(path string, maxScores int, logger *log.Logger) (*Store, error) {
	if maxScores <= 0 {
		maxScores = DefaultMaxScores
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Store{
		path:   path,
		max:    maxScores,
		logger: logger,
		doc:    emptyDocument(),
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating score directory: %w", err)
	}
	if err := s.Reload(); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr) {
			return nil, err
		}
		s.logger.Warn("ignoring unreadable score file", "path", path, "err", err)
	}
	return s, nil
}

func emptyDocument() document {
	doc := document{HighScores: make(map[string][]Entry)}
	for _, m := range game.Modes() {
		doc.HighScores[m.String()] = []Entry{}
	}
	return doc
}

// Reload re-reads the file, picking up writes from other processes.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading scores: %w", err)
	}

	doc := emptyDocument()
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding scores: %w", err)
	}
	if doc.HighScores == nil {
		doc.HighScores = emptyDocument().HighScores
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

// RecordRound adds a finished round to its mode's table and saves the file.
// Rounds that do not make the table leave the file alone.
func (s *Store) RecordRound(res game.RoundResult) error {
	entry := Entry{
		ID:     res.ID,
		Name:   game.PlayerName(res.Name),
		Score:  res.Score,
		Length: res.Length,
		Cause:  res.Cause.String(),
		At:     res.At,
	}
	mode := res.Mode.String()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.qualifiesLocked(mode, entry.Score) {
		s.logger.Debug("score below the table", "name", entry.Name, "score", entry.Score, "mode", mode)
		return nil
	}

	prev := s.doc.HighScores[mode]
	table := append(slices.Clip(prev), entry)
	// Stable so an earlier entry wins a tie
	slices.SortStableFunc(table, func(a, b Entry) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(table) > s.max {
		table = table[:s.max]
	}
	s.doc.HighScores[mode] = table

	if err := s.saveLocked(); err != nil {
		s.doc.HighScores[mode] = prev
		return err
	}
	s.logger.Info("score recorded", "name", entry.Name, "score", entry.Score, "mode", mode)
	return nil
}

// Top returns a copy of the table for mode, best first.
func (s *Store) Top(mode game.Mode) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.doc.HighScores[mode.String()])
}

// All returns a copy of every table keyed by mode name.
func (s *Store) All() map[string][]Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]Entry, len(s.doc.HighScores))
	for mode, table := range s.doc.HighScores {
		out[mode] = slices.Clone(table)
	}
	return out
}

// qualifiesLocked reports whether score would enter the table for mode.
func (s *Store) qualifiesLocked(mode string, score int) bool {
	table := s.doc.HighScores[mode]
	return len(table) < s.max || score > table[len(table)-1].Score
}

// Unlock marks achievement id as earned by player. It reports false when it
// already was. A failed save leaves the achievement locked.
func (s *Store) Unlock(player, id string, at time.Time) (bool, error) {
	player = game.PlayerName(player)
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.ContainsFunc(s.doc.Achievements, func(u Unlock) bool { return u.ID == id && u.Player == player }) {
		return false, nil
	}
	prev := s.doc.Achievements
	s.doc.Achievements = append(slices.Clip(prev), Unlock{ID: id, Player: player, At: at})
	if err := s.saveLocked(); err != nil {
		s.doc.Achievements = prev
		return false, err
	}
	return true, nil
}

// Unlocked returns the achievements player has earned, in unlock order.
func (s *Store) Unlocked(player string) []Unlock {
	player = game.PlayerName(player)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Unlock
	for _, u := range s.doc.Achievements {
		if u.Player == player {
			out = append(out, u)
		}
	}
	return out
}

// Path returns the score file location.
func (s *Store) Path() string {
	return s.path
}

// saveLocked writes the document through a temp file so readers never see a
// partial file. Callers hold s.mu.
func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding scores: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".highscores-*.json")
	if err != nil {
		return fmt.Errorf("saving scores: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("saving scores: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving scores: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("saving scores: %w", err)
	}
	return nil
}
