package score

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomz197/metalsnake/internal/game"
	"github.com/tomz197/metalsnake/internal/object"
)

type memUnlocker struct {
	ids   map[string]bool
	calls int
	err   error
}

func (m *memUnlocker) Unlock(player, id string, _ time.Time) (bool, error) {
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	key := player + "/" + id
	if m.ids[key] {
		return false, nil
	}
	m.ids[key] = true
	return true, nil
}

func newMem() *memUnlocker {
	return &memUnlocker{ids: make(map[string]bool)}
}

func ids(as []Achievement) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.ID
	}
	return out
}

func TestTrackerUnlocks(t *testing.T) {
	tests := []struct {
		name   string
		events []game.Event
		want   string
	}{
		{
			name:   "first bite",
			events: []game.Event{{Kind: game.EventFoodEaten, Score: 1}},
			want:   "first_bite",
		},
		{
			name:   "combo",
			events: []game.Event{{Kind: game.EventComboIncrease, Combo: 5}},
			want:   "combo_5",
		},
		{
			name:   "century",
			events: []game.Event{{Kind: game.EventMoved, Score: 100}},
			want:   "century",
		},
		{
			name:   "survivor",
			events: []game.Event{{Kind: game.EventMoved, Score: 50, Mode: game.ModeObstacles}},
			want:   "survivor",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(newMem(), "ana", nil)
			for _, e := range tt.events {
				tr.OnEvent(e)
			}
			got := ids(tr.Drain())
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("unlocked %v, want [%s]", got, tt.want)
			}
			if more := tr.Drain(); len(more) != 0 {
				t.Errorf("second drain returned %v", ids(more))
			}
		})
	}
}

func TestTrackerCollector(t *testing.T) {
	tr := NewTracker(newMem(), "ana", nil)
	kinds := object.Kinds()
	for _, k := range kinds[:len(kinds)-1] {
		tr.OnEvent(game.Event{Kind: game.EventPowerUpCollected, PowerUp: k})
	}
	// Dying resets the round's collection
	tr.OnEvent(game.Event{Kind: game.EventDeath})
	tr.OnEvent(game.Event{Kind: game.EventPowerUpCollected, PowerUp: kinds[len(kinds)-1]})
	if got := ids(tr.Drain()); len(got) != 0 {
		t.Fatalf("unlocked %v across rounds", got)
	}

	for _, k := range kinds {
		tr.OnEvent(game.Event{Kind: game.EventPowerUpCollected, PowerUp: k})
	}
	if got := ids(tr.Drain()); len(got) != 1 || got[0] != "collector" {
		t.Errorf("unlocked %v, want [collector]", got)
	}
}

func TestTrackerSkipsKnownUnlocks(t *testing.T) {
	mem := newMem()
	tr := NewTracker(mem, "ana", nil)
	for range 10 {
		tr.OnEvent(game.Event{Kind: game.EventFoodEaten})
	}
	if mem.calls != 1 {
		t.Errorf("store asked %d times, want 1", mem.calls)
	}

	again := NewTracker(mem, "ana", nil)
	again.OnEvent(game.Event{Kind: game.EventFoodEaten})
	if got := again.Drain(); len(got) != 0 {
		t.Errorf("already earned achievement reported as new: %v", ids(got))
	}

	other := NewTracker(mem, "bob", nil)
	other.OnEvent(game.Event{Kind: game.EventFoodEaten})
	if got := ids(other.Drain()); len(got) != 1 || got[0] != "first_bite" {
		t.Errorf("another player unlocked %v, want [first_bite]", got)
	}
}

func TestTrackerStoreError(t *testing.T) {
	mem := newMem()
	mem.err = errors.New("read-only")
	tr := NewTracker(mem, "ana", nil)
	tr.OnEvent(game.Event{Kind: game.EventFoodEaten})
	if got := tr.Drain(); len(got) != 0 {
		t.Errorf("failed unlock reported: %v", ids(got))
	}

	// The next matching event retries and announces it
	mem.err = nil
	tr.OnEvent(game.Event{Kind: game.EventFoodEaten})
	if got := ids(tr.Drain()); len(got) != 1 || got[0] != "first_bite" {
		t.Errorf("retry unlocked %v, want [first_bite]", got)
	}
}

func TestTrackerRetriesAfterFailedSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scores")
	s, err := Open(filepath.Join(dir, FileName), 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	os.RemoveAll(dir)

	tr := NewTracker(s, "ana", nil)
	tr.OnEvent(game.Event{Kind: game.EventFoodEaten})
	if got := tr.Drain(); len(got) != 0 {
		t.Fatalf("unsaved unlock announced: %v", ids(got))
	}

	os.MkdirAll(dir, 0o755)
	tr.OnEvent(game.Event{Kind: game.EventFoodEaten})
	if got := ids(tr.Drain()); len(got) != 1 || got[0] != "first_bite" {
		t.Errorf("unlocked %v after the save recovered, want [first_bite]", got)
	}
	if _, err := os.Stat(s.Path()); err != nil {
		t.Errorf("unlock not on disk: %v", err)
	}
}

func TestTrackerWithStore(t *testing.T) {
	s := openTestStore(t)
	tr := NewTracker(s, "ana", nil)
	tr.OnEvent(game.Event{Kind: game.EventFoodEaten})
	if u := s.Unlocked("ana"); len(u) != 1 || u[0].ID != "first_bite" {
		t.Errorf("store unlocked = %+v", u)
	}
	if len(Achievements()) != 5 {
		t.Errorf("len(Achievements()) = %d", len(Achievements()))
	}
}
