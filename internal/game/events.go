package game

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/tomz197/metalsnake/internal/grid"
	"github.com/tomz197/metalsnake/internal/object"
)

// EventKind identifies something that happened during a step.
type EventKind int

const (
	EventFoodEaten EventKind = iota
	EventPowerUpSpawned
	EventPowerUpCollected
	EventPowerUpExpired
	EventComboIncrease
	EventComboLost
	EventLevelUp
	EventMoved
	EventDeath
)

func (k EventKind) String() string {
	switch k {
	case EventFoodEaten:
		return "food_eaten"
	case EventPowerUpSpawned:
		return "powerup_spawned"
	case EventPowerUpCollected:
		return "powerup_collected"
	case EventPowerUpExpired:
		return "powerup_expired"
	case EventComboIncrease:
		return "combo_increase"
	case EventComboLost:
		return "combo_lost"
	case EventLevelUp:
		return "level_up"
	case EventMoved:
		return "moved"
	case EventDeath:
		return "death"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is emitted by the controller. Only the fields relevant to Kind are set;
// Step, Score and Mode are always filled.
type Event struct {
	Kind      EventKind
	Step      uint64
	Mode      Mode
	Score     int
	Cell      grid.Cell   // Food, pickup or new head position
	PowerUp   object.Kind // Spawned, collected or expired kind
	Refreshed bool        // Collected kind was already active
	Points    int         // Points awarded by this event
	Combo     int
	Level     int
	Speed     float64
	Length    int
	Cause     object.DeathCause
}

// Listener observes controller events. OnEvent runs on the controller's
// goroutine after the step completes and must not block.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnEvent calls f(e).
func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}

// RoundResult is what a finished round hands to persistence.
type RoundResult struct {
	ID     uuid.UUID
	Name   string
	Score  int
	Mode   Mode
	Steps  uint64
	Length int
	Cause  object.DeathCause
	At     time.Time
}

// Reporter receives every finished round exactly once.
type Reporter interface {
	RecordRound(RoundResult) error
}

// Player names.
const (
	MaxNameLength     = 15
	DefaultPlayerName = "Player"
)

// PlayerName keeps the printable runes of raw, truncated to MaxNameLength.
// A blank result becomes DefaultPlayerName.
func PlayerName(raw string) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.TrimSpace(raw) {
		if n == MaxNameLength {
			break
		}
		if !unicode.IsPrint(r) {
			continue
		}
		b.WriteRune(r)
		n++
	}
	name := strings.TrimSpace(b.String())
	if name == "" {
		return DefaultPlayerName
	}
	return name
}
