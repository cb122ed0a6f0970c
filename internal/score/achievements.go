package score

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/metalsnake/internal/game"
	"github.com/tomz197/metalsnake/internal/object"
)

// Achievement is a one-time goal earned during play.
type Achievement struct {
	ID          string
	Name        string
	Description string
}

// roundStats accumulates what the current round has done so far.
type roundStats struct {
	collected map[object.Kind]bool
}

type rule struct {
	Achievement
	earned func(*roundStats, game.Event) bool
}

var rules = []rule{
	{
		Achievement: Achievement{ID: "first_bite", Name: "First Bite", Description: "Eat your first food"},
		earned:      func(_ *roundStats, e game.Event) bool { return e.Kind == game.EventFoodEaten },
	},
	{
		Achievement: Achievement{ID: "combo_5", Name: "Combo Artist", Description: "Reach a combo of 5"},
		earned: func(_ *roundStats, e game.Event) bool {
			return e.Kind == game.EventComboIncrease && e.Combo >= 5
		},
	},
	{
		Achievement: Achievement{ID: "collector", Name: "Collector", Description: "Collect every power-up in one round"},
		earned: func(r *roundStats, e game.Event) bool {
			return e.Kind == game.EventPowerUpCollected && len(r.collected) == len(object.Kinds())
		},
	},
	{
		Achievement: Achievement{ID: "century", Name: "Century", Description: "Score 100 points"},
		earned:      func(_ *roundStats, e game.Event) bool { return e.Score >= 100 },
	},
	{
		Achievement: Achievement{ID: "survivor", Name: "Obstacle Survivor", Description: "Score 50 points in obstacle mode"},
		earned: func(_ *roundStats, e game.Event) bool {
			return e.Mode == game.ModeObstacles && e.Score >= 50
		},
	},
}

// Achievements lists every achievement.
func Achievements() []Achievement {
	out := make([]Achievement, len(rules))
	for i, r := range rules {
		out[i] = r.Achievement
	}
	return out
}

// Unlocker persists earned achievements. *Store implements it.
type Unlocker interface {
	Unlock(player, id string, at time.Time) (bool, error)
}

// Tracker watches one player's controller events and unlocks achievements.
// It is a game.Listener and runs on the controller's goroutine.
type Tracker struct {
	store  Unlocker
	player string
	logger *log.Logger
	now    func() time.Time
	stats  roundStats
	done   map[string]bool // already earned by this player
	fresh  []Achievement
}

// NewTracker creates a tracker that persists player's unlocks through store.
func NewTracker(store Unlocker, player string, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	t := &Tracker{store: store, player: player, logger: logger, now: time.Now, done: make(map[string]bool)}
	t.Reset()
	return t
}

// Reset clears the per-round progress.
func (t *Tracker) Reset() {
	t.stats = roundStats{collected: make(map[object.Kind]bool)}
}

// OnEvent implements game.Listener.
func (t *Tracker) OnEvent(e game.Event) {
	if e.Kind == game.EventPowerUpCollected {
		t.stats.collected[e.PowerUp] = true
	}
	for _, r := range rules {
		if t.done[r.ID] || !r.earned(&t.stats, e) {
			continue
		}
		isNew, err := t.store.Unlock(t.player, r.ID, t.now())
		if err != nil {
			// Left undone so the next matching event retries
			t.logger.Error("saving achievement", "id", r.ID, "err", err)
			continue
		}
		t.done[r.ID] = true
		if isNew {
			t.logger.Info("achievement unlocked", "id", r.ID)
			t.fresh = append(t.fresh, r.Achievement)
		}
	}
	if e.Kind == game.EventDeath {
		t.Reset()
	}
}

// Drain returns the achievements unlocked since the last call.
func (t *Tracker) Drain() []Achievement {
	out := t.fresh
	t.fresh = nil
	return out
}
