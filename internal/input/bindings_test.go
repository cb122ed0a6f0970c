package input

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestParseBindings(t *testing.T) {
	tests := []struct {
		name  string
		value string
		in    string
		want  []Command
	}{
		{"empty keeps defaults", "", "wp q", []Command{CmdUp, CmdPause, CmdStart, CmdQuit}},
		{"remap pause to space", "pause=space,start=enter", " \r", []Command{CmdPause, CmdStart}},
		{"old keys dropped", "up=k", "wk", []Command{CmdUp}},
		{"key taken from another command", "up=k", "sk", []Command{CmdDown, CmdUp}},
		{"several keys, either case", " left = z|X ", "zXa", []Command{CmdLeft, CmdLeft}},
		{"ctrl-c still quits", "quit=x", "q\x03x", []Command{CmdQuit, CmdQuit}},
		{"arrows are fixed", "up=z", "\x1b[A", []Command{CmdUp}},
		{"enter covers newline", "high_scores=enter", "\n", []Command{CmdHighScores}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseBindings(tt.value)
			if err != nil {
				t.Fatal(err)
			}
			got, _ := b.Parse([]byte(tt.in))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseBindingsErrors(t *testing.T) {
	for _, value := range []string{
		"jump=w",
		"up",
		"up=",
		"up=ww",
		"up=w,down=w",
		"pause=\x1b",
	} {
		if _, err := ParseBindings(value); !errors.Is(err, ErrBadBinding) {
			t.Errorf("ParseBindings(%q) err = %v, want ErrBadBinding", value, err)
		}
	}
}

func TestBindingsFromEnv(t *testing.T) {
	t.Setenv("SNAKE_KEYS", "mute=n")
	b, err := BindingsFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if b.Lookup('n') != CmdMute || b.Lookup('m') != CmdNone {
		t.Errorf("n -> %v, m -> %v", b.Lookup('n'), b.Lookup('m'))
	}

	t.Setenv("SNAKE_KEYS", "nope=1")
	if _, err := BindingsFromEnv(); err == nil || !strings.Contains(err.Error(), "SNAKE_KEYS") {
		t.Errorf("err = %v", err)
	}
}

func TestBindingsHelp(t *testing.T) {
	help := strings.Join(DefaultBindings().Help(), "\n")
	for _, want := range []string{"Arrows I/W A/J K/S D/L", "P / ESC", "Toggle obstacles", "M ", "Q "} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}

	b, _ := ParseBindings("pause=space")
	if help := strings.Join(b.Help(), "\n"); !strings.Contains(help, "Space / ESC") {
		t.Errorf("remapped help:\n%s", help)
	}
}

func TestNilBindingsUseDefaults(t *testing.T) {
	var b Bindings
	if b.Lookup('W') != CmdUp || b.Lookup('\x03') != CmdQuit {
		t.Error("nil bindings should fall back to the defaults")
	}
}
