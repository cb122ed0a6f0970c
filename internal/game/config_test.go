package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/tomz197/metalsnake/internal/object"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative grid", func(c *Config) { c.Cols = -3 }, "grid must be positive"},
		{"zero speed", func(c *Config) { c.BaseSpeed = 0 }, "base speed"},
		{"max below base", func(c *Config) { c.MaxSpeed = 5 }, "max speed"},
		{"snake too long", func(c *Config) { c.InitialLength = 40 }, "does not fit"},
		{"no kinds", func(c *Config) { c.PowerUpKinds = nil }, "without any kinds"},
		{"bad kind", func(c *Config) { c.PowerUpKinds = []object.Kind{object.Kind(99)} }, "unknown power-up kind"},
		{"bad mode", func(c *Config) { c.Mode = Mode(7) }, "unknown mode"},
		{"zero decay", func(c *Config) { c.ComboDecayTime = 0 }, "combo decay"},
		{"zero interval", func(c *Config) { c.PowerUpSpawnInterval = 0 }, "spawn interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseSpeed = -1
	cfg.ComboDecayTime = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, want := range []string{"base speed", "combo decay"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("err = %q, missing %q", err, want)
		}
	}
}

func TestPowerUpsDisabledNeedNoKinds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PowerUpCount = 0
	cfg.PowerUpKinds = nil
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("survival"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SNAKE_COLS", "40")
	t.Setenv("SNAKE_BASE_SPEED", "8")
	t.Setenv("SNAKE_MODE", "obstacles")
	t.Setenv("SNAKE_POWERUP_KINDS", "magnet, time_slow")
	t.Setenv("SNAKE_SEED", "12345")
	t.Setenv("SNAKE_FOOD_AVOIDS_POWERUPS", "no")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.Cols != 40 || cfg.BaseSpeed != 8 || cfg.Mode != ModeObstacles || cfg.Seed != 12345 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.FoodAvoidsPowerUps {
		t.Error("FoodAvoidsPowerUps should be off")
	}
	if len(cfg.PowerUpKinds) != 2 || cfg.PowerUpKinds[0] != object.Magnet || cfg.PowerUpKinds[1] != object.TimeSlow {
		t.Errorf("kinds = %v", cfg.PowerUpKinds)
	}
}

func TestConfigFromEnvErrors(t *testing.T) {
	t.Setenv("SNAKE_ROWS", "many")
	t.Setenv("SNAKE_POWERUP_KINDS", "laser")

	_, err := ConfigFromEnv()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, want := range []string{"SNAKE_ROWS", "SNAKE_POWERUP_KINDS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("err = %q, missing %q", err, want)
		}
	}

	t.Setenv("SNAKE_ROWS", "0")
	t.Setenv("SNAKE_POWERUP_KINDS", "")
	if _, err := ConfigFromEnv(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}
