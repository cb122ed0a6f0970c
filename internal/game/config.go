// Package game is the simulation core: the round configuration, the combo and
// score engine, the power-up lifecycle and the tick controller sequencing them.
package game

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tomz197/metalsnake/internal/grid"
	"github.com/tomz197/metalsnake/internal/object"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Mode selects the ruleset of a round.
type Mode int

const (
	ModeClassic   Mode = iota // No obstacles
	ModeObstacles             // Static obstacles and a score bonus
)

func (m Mode) String() string {
	switch m {
	case ModeClassic:
		return "classic"
	case ModeObstacles:
		return "obstacles"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeClassic || m == ModeObstacles
}

// ParseMode converts "classic" or "obstacles" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classic":
		return ModeClassic, nil
	case "obstacles":
		return ModeObstacles, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Modes lists every mode.
func Modes() []Mode {
	return []Mode{ModeClassic, ModeObstacles}
}

// Config holds every tunable of a round. Durations and intervals are counted
// in controller steps (Advance calls), speeds in moves per second.
type Config struct {
	Cols          int
	Rows          int
	InitialLength int
	Mode          Mode

	BaseSpeed      float64 // Moves per second at level 0
	MaxSpeed       float64 // Cap for level-driven speed
	ScoreThreshold int     // Points per level, 0 disables levels
	SpeedIncrement float64 // Speed added per level

	ObstacleCount int
	ObstacleBonus int // Food bonus factor is 1+ObstacleBonus in obstacle mode

	PowerUpSpawnInterval int
	PowerUpDuration      int
	PowerUpCount         int // Max uncollected pickups on the field
	PowerUpBonus         int // Points per pickup before the score multiplier
	PowerUpKinds         []object.Kind

	FoodAvoidsPowerUps bool
	ComboDecayTime     int
	MagnetSpawnRadius  int

	MaxPlacementAttempts int
	Seed                 uint64 // 0 picks a seed from the clock
}

// DefaultConfig returns the standard 30x20 ruleset.
func DefaultConfig() Config {
	return Config{
		Cols:          30,
		Rows:          20,
		InitialLength: 3,
		Mode:          ModeClassic,

		BaseSpeed:      10,
		MaxSpeed:       30,
		ScoreThreshold: 50,
		SpeedIncrement: 2,

		ObstacleCount: 20,
		ObstacleBonus: 2,

		PowerUpSpawnInterval: 400,
		PowerUpDuration:      500,
		PowerUpCount:         3,
		PowerUpBonus:         5,
		PowerUpKinds:         object.Kinds(),

		FoodAvoidsPowerUps: true,
		ComboDecayTime:     120,
		MagnetSpawnRadius:  5,

		MaxPlacementAttempts: grid.DefaultMaxAttempts,
	}
}

// Clone returns a deep copy, so callers can keep mutating their value.
func (c Config) Clone() Config {
	c.PowerUpKinds = slices.Clone(c.PowerUpKinds)
	return c
}

// Grid returns the playfield described by the config.
func (c Config) Grid() grid.Grid {
	return grid.New(c.Cols, c.Rows)
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Cols > 0 && c.Rows > 0, "grid must be positive, got %dx%d", c.Cols, c.Rows)
	check(c.InitialLength >= 1, "initial length must be at least 1, got %d", c.InitialLength)
	if c.Cols > 0 && c.Rows > 0 {
		// The body trails left from the center cell
		check(c.InitialLength <= c.Cols/2+1, "initial length %d does not fit a %d column grid", c.InitialLength, c.Cols)
	}
	check(c.Mode.Valid(), "unknown mode %d", int(c.Mode))

	check(c.BaseSpeed > 0, "base speed must be positive, got %v", c.BaseSpeed)
	check(c.MaxSpeed >= c.BaseSpeed, "max speed %v below base speed %v", c.MaxSpeed, c.BaseSpeed)
	check(c.ScoreThreshold >= 0, "score threshold must not be negative, got %d", c.ScoreThreshold)
	check(c.SpeedIncrement >= 0, "speed increment must not be negative, got %v", c.SpeedIncrement)

	check(c.ObstacleCount >= 0, "obstacle count must not be negative, got %d", c.ObstacleCount)
	check(c.ObstacleBonus >= 0, "obstacle bonus must not be negative, got %d", c.ObstacleBonus)

	check(c.PowerUpSpawnInterval > 0, "power-up spawn interval must be positive, got %d", c.PowerUpSpawnInterval)
	check(c.PowerUpDuration > 0, "power-up duration must be positive, got %d", c.PowerUpDuration)
	check(c.PowerUpCount >= 0, "power-up count must not be negative, got %d", c.PowerUpCount)
	check(c.PowerUpBonus >= 0, "power-up bonus must not be negative, got %d", c.PowerUpBonus)
	check(c.PowerUpCount == 0 || len(c.PowerUpKinds) > 0, "power-ups enabled without any kinds")
	for _, k := range c.PowerUpKinds {
		check(k.Valid(), "unknown power-up kind %d", int(k))
	}

	check(c.ComboDecayTime > 0, "combo decay time must be positive, got %d", c.ComboDecayTime)
	check(c.MagnetSpawnRadius >= 0, "magnet spawn radius must not be negative, got %d", c.MagnetSpawnRadius)
	check(c.MaxPlacementAttempts >= 0, "placement attempts must not be negative, got %d", c.MaxPlacementAttempts)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
