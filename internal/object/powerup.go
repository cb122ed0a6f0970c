package object

import (
	"fmt"
	"strings"

	"github.com/tomz197/metalsnake/internal/grid"
)

// Kind identifies a power-up. The set is closed; kindCount must stay last.
type Kind int

const (
	SpeedBoost Kind = iota
	Invincibility
	ScoreMultiplier
	Magnet
	Shrink
	TimeSlow
	kindCount
)

var kindNames = [kindCount]string{
	SpeedBoost:      "speed_boost",
	Invincibility:   "invincibility",
	ScoreMultiplier: "score_multiplier",
	Magnet:          "magnet",
	Shrink:          "shrink",
	TimeSlow:        "time_slow",
}

// Kinds returns every power-up kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind converts a name such as "time_slow" back into a Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown power-up kind %q", name)
}

// PowerUp is an uncollected pickup lying on the field.
type PowerUp struct {
	Position grid.Cell
	Kind     Kind
}

// PowerUpCells returns the positions of pickups.
func PowerUpCells(pickups []PowerUp) []grid.Cell {
	cells := make([]grid.Cell, len(pickups))
	for i, p := range pickups {
		cells[i] = p.Position
	}
	return cells
}
