package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomz197/metalsnake/internal/config"
	"github.com/tomz197/metalsnake/internal/object"
)

// ConfigFromEnv applies SNAKE_* environment overrides on top of DefaultConfig.
// The result is validated.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	var errs []error

	intVar := func(key string, dst *int) {
		v, err := config.GetEnvInt(key, *dst)
		if err != nil {
			errs = append(errs, err)
		}
		*dst = v
	}
	floatVar := func(key string, dst *float64) {
		v, err := config.GetEnvFloat(key, *dst)
		if err != nil {
			errs = append(errs, err)
		}
		*dst = v
	}

	intVar("SNAKE_COLS", &cfg.Cols)
	intVar("SNAKE_ROWS", &cfg.Rows)
	intVar("SNAKE_INITIAL_LENGTH", &cfg.InitialLength)
	floatVar("SNAKE_BASE_SPEED", &cfg.BaseSpeed)
	floatVar("SNAKE_MAX_SPEED", &cfg.MaxSpeed)
	intVar("SNAKE_SCORE_THRESHOLD", &cfg.ScoreThreshold)
	floatVar("SNAKE_SPEED_INCREMENT", &cfg.SpeedIncrement)
	intVar("SNAKE_OBSTACLE_COUNT", &cfg.ObstacleCount)
	intVar("SNAKE_OBSTACLE_BONUS", &cfg.ObstacleBonus)
	intVar("SNAKE_POWERUP_INTERVAL", &cfg.PowerUpSpawnInterval)
	intVar("SNAKE_POWERUP_DURATION", &cfg.PowerUpDuration)
	intVar("SNAKE_POWERUP_COUNT", &cfg.PowerUpCount)
	intVar("SNAKE_COMBO_DECAY", &cfg.ComboDecayTime)

	if avoid, err := config.GetEnvBool("SNAKE_FOOD_AVOIDS_POWERUPS", cfg.FoodAvoidsPowerUps); err != nil {
		errs = append(errs, err)
	} else {
		cfg.FoodAvoidsPowerUps = avoid
	}

	if seed, err := config.GetEnvUint64("SNAKE_SEED", cfg.Seed); err != nil {
		errs = append(errs, err)
	} else {
		cfg.Seed = seed
	}

	if name := config.GetEnv("SNAKE_MODE", ""); name != "" {
		mode, err := ParseMode(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("SNAKE_MODE: %w", err))
		} else {
			cfg.Mode = mode
		}
	}

	if list := config.GetEnv("SNAKE_POWERUP_KINDS", ""); strings.TrimSpace(list) != "" {
		kinds, err := parseKinds(list)
		if err != nil {
			errs = append(errs, fmt.Errorf("SNAKE_POWERUP_KINDS: %w", err))
		} else {
			cfg.PowerUpKinds = kinds
		}
	}

	if len(errs) > 0 {
		return cfg, fmt.Errorf("reading environment: %w", errors.Join(errs...))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// parseKinds reads a comma separated list such as "magnet,time_slow".
func parseKinds(list string) ([]object.Kind, error) {
	var kinds []object.Kind
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		k, err := object.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
