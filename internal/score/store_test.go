package score

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tomz197/metalsnake/internal/game"
	"github.com/tomz197/metalsnake/internal/object"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), FileName), 0, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func round(name string, score int, mode game.Mode) game.RoundResult {
	return game.RoundResult{
		ID:    uuid.New(),
		Name:  name,
		Score: score,
		Mode:  mode,
		Cause: object.CauseWall,
		At:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestRecordRoundKeepsTopFive(t *testing.T) {
	s := openTestStore(t)
	for i, sc := range []int{10, 50, 30, 70, 20, 60, 40} {
		if err := s.RecordRound(round(string(rune('a'+i)), sc, game.ModeClassic)); err != nil {
			t.Fatalf("RecordRound: %v", err)
		}
	}

	top := s.Top(game.ModeClassic)
	want := []int{70, 60, 50, 40, 30}
	if len(top) != len(want) {
		t.Fatalf("len(top) = %d, want %d", len(top), len(want))
	}
	for i := range want {
		if top[i].Score != want[i] {
			t.Errorf("top[%d] = %d, want %d", i, top[i].Score, want[i])
		}
	}
	if len(s.Top(game.ModeObstacles)) != 0 {
		t.Error("obstacle table should be empty")
	}
}

func TestRecordRoundTiesKeepEarlierEntry(t *testing.T) {
	s := openTestStore(t)
	s.RecordRound(round("first", 10, game.ModeClassic))
	s.RecordRound(round("second", 10, game.ModeClassic))

	top := s.Top(game.ModeClassic)
	if top[0].Name != "first" || top[1].Name != "second" {
		t.Errorf("order = %s, %s", top[0].Name, top[1].Name)
	}
}

func TestRecordRoundSanitizesName(t *testing.T) {
	s := openTestStore(t)
	s.RecordRound(round("   ", 3, game.ModeClassic))
	s.RecordRound(round("a-very-long-player-name", 2, game.ModeClassic))

	top := s.Top(game.ModeClassic)
	if top[0].Name != game.DefaultPlayerName {
		t.Errorf("blank name stored as %q", top[0].Name)
	}
	if len([]rune(top[1].Name)) != game.MaxNameLength {
		t.Errorf("long name stored as %q", top[1].Name)
	}
}

func TestScoresPersistAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	s, err := Open(path, 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.RecordRound(round("ada", 42, game.ModeObstacles))
	s.Unlock("ada", "first_bite", time.Now())

	reopened, err := Open(path, 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	top := reopened.Top(game.ModeObstacles)
	if len(top) != 1 || top[0].Name != "ada" || top[0].Score != 42 || top[0].Cause != "wall" {
		t.Errorf("reloaded %+v", top)
	}
	if u := reopened.Unlocked("ada"); len(u) != 1 || u[0].ID != "first_bite" || u[0].Player != "ada" {
		t.Errorf("unlocked = %+v", u)
	}

	var doc map[string]json.RawMessage
	data, _ := os.ReadFile(path)
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("file is not JSON: %v", err)
	}
	if _, ok := doc["highscores"]; !ok {
		t.Error("file has no highscores key")
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	os.WriteFile(path, []byte("{not json"), 0o644)

	s, err := Open(path, 0, nil)
	if err != nil {
		t.Fatalf("corrupt file should degrade, got %v", err)
	}
	if len(s.Top(game.ModeClassic)) != 0 {
		t.Error("expected empty table")
	}
	if err := s.RecordRound(round("bob", 1, game.ModeClassic)); err != nil {
		t.Fatalf("RecordRound: %v", err)
	}
	if err := s.Reload(); err != nil {
		t.Errorf("file should be valid after a write: %v", err)
	}
}

func TestRecordRoundBelowTableSkipsWrite(t *testing.T) {
	s := openTestStore(t)
	for _, sc := range []int{10, 20, 30, 40, 50} {
		s.RecordRound(round("p", sc, game.ModeClassic))
	}
	// Without its directory any write fails, so success means none was tried
	if err := os.RemoveAll(filepath.Dir(s.Path())); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordRound(round("late", 10, game.ModeClassic)); err != nil {
		t.Fatalf("tie with the last entry: %v", err)
	}
	if top := s.Top(game.ModeClassic); top[len(top)-1].Name == "late" {
		t.Error("tie displaced the earlier entry")
	}
}

func TestUnlockOnce(t *testing.T) {
	s := openTestStore(t)
	if isNew, err := s.Unlock("ana", "century", time.Now()); err != nil || !isNew {
		t.Fatalf("first unlock = %v, %v", isNew, err)
	}
	if isNew, _ := s.Unlock("ana", "century", time.Now()); isNew {
		t.Error("second unlock reported as new")
	}
	if isNew, err := s.Unlock("bob", "century", time.Now()); err != nil || !isNew {
		t.Errorf("another player's first unlock = %v, %v", isNew, err)
	}
	if u := s.Unlocked("bob"); len(u) != 1 || u[0].Player != "bob" {
		t.Errorf("Unlocked(bob) = %+v", u)
	}
	if u := s.Unlocked("cyd"); len(u) != 0 {
		t.Errorf("Unlocked(cyd) = %+v", u)
	}
}

func TestFailedSaveRollsBack(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scores")
	s, err := Open(filepath.Join(dir, FileName), 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	if isNew, err := s.Unlock("ana", "first_bite", time.Now()); err == nil || isNew {
		t.Fatalf("unlock without a directory = %v, %v", isNew, err)
	}
	if u := s.Unlocked("ana"); len(u) != 0 {
		t.Fatalf("failed unlock kept in memory: %+v", u)
	}
	if err := s.RecordRound(round("ana", 9, game.ModeClassic)); err == nil {
		t.Fatal("RecordRound without a directory should fail")
	}
	if top := s.Top(game.ModeClassic); len(top) != 0 {
		t.Fatalf("failed round kept in memory: %+v", top)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if isNew, err := s.Unlock("ana", "first_bite", time.Now()); err != nil || !isNew {
		t.Errorf("retry after the directory returns = %v, %v", isNew, err)
	}
	if _, err := os.Stat(s.Path()); err != nil {
		t.Errorf("retry did not write the file: %v", err)
	}
}

func TestConcurrentRecords(t *testing.T) {
	s := openTestStore(t)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.RecordRound(round("p", i, game.ModeClassic))
		}()
	}
	wg.Wait()

	top := s.Top(game.ModeClassic)
	if len(top) != DefaultMaxScores || top[0].Score != 19 {
		t.Errorf("top = %+v", top)
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("SNAKE_DATA_DIR", "/tmp/snake-data")
	if got := DefaultDir(); got != "/tmp/snake-data" {
		t.Errorf("DefaultDir() = %q", got)
	}
}
