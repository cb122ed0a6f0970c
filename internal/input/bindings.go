package input

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tomz197/metalsnake/internal/config"
)

// ErrBadBinding is wrapped by every key binding parse failure.
var ErrBadBinding = errors.New("bad key binding")

// Bindings maps single key bytes to commands. Letters are stored lower case
// and match either case. Arrow keys, Esc and Ctrl-C are fixed and never
// appear here.
type Bindings map[byte]Command

// DefaultBindings returns the stock layout: WASD and IJKL steer, Enter and
// Space start, and one letter per menu action.
func DefaultBindings() Bindings {
	return Bindings{
		'w': CmdUp, 'i': CmdUp,
		's': CmdDown, 'k': CmdDown,
		'a': CmdLeft, 'j': CmdLeft,
		'd': CmdRight, 'l': CmdRight,
		'\r': CmdStart, '\n': CmdStart, ' ': CmdStart,
		'p': CmdPause,
		'o': CmdToggleObstacles,
		'h': CmdHighScores,
		'm': CmdMute,
		'q': CmdQuit,
	}
}

// Lookup returns the command bound to b.
func (b Bindings) Lookup(k byte) Command {
	if k == '\x03' {
		return CmdQuit
	}
	if b == nil {
		b = defaultBindings
	}
	return b[lower(k)]
}

// Keys lists the keys bound to cmd, sorted.
func (b Bindings) Keys(cmd Command) []byte {
	var keys []byte
	for k, c := range b {
		if c == cmd {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// Help describes the layout for the title screen.
func (b Bindings) Help() []string {
	label := func(cmd Command) string {
		var names []string
		for _, k := range b.Keys(cmd) {
			if k == '\n' && slices.Contains(b.Keys(cmd), '\r') {
				continue
			}
			names = append(names, keyName(k))
		}
		if len(names) == 0 {
			return "-"
		}
		return strings.Join(names, "/")
	}
	move := []string{"Arrows"}
	for _, c := range []Command{CmdUp, CmdLeft, CmdDown, CmdRight} {
		if keys := b.Keys(c); len(keys) > 0 {
			move = append(move, label(c))
		}
	}
	return []string{
		fmt.Sprintf("%-22s Move", strings.Join(move, " ")),
		fmt.Sprintf("%-22s Pause", label(CmdPause)+" / ESC"),
		fmt.Sprintf("%-22s Toggle obstacles", label(CmdToggleObstacles)),
		fmt.Sprintf("%-22s High scores", label(CmdHighScores)),
		fmt.Sprintf("%-22s Mute", label(CmdMute)),
		fmt.Sprintf("%-22s Quit", label(CmdQuit)),
	}
}

var defaultBindings = DefaultBindings()

// commandNames are the names accepted by ParseBindings.
var commandNames = map[string]Command{}

func init() {
	for c := CmdUp; c <= CmdQuit; c++ {
		commandNames[c.String()] = c
	}
}

// ParseBindings applies overrides to the default layout. The format is a
// comma separated list of command=keys, keys joined by '|':
//
//	up=w|k,down=s|j,pause=space,start=enter
//
// Each listed command loses its default keys. A key bound here is taken
// away from whatever command had it before.
func ParseBindings(value string) (Bindings, error) {
	b := DefaultBindings()
	seen := make(map[byte]string)
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, keys, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not command=keys", ErrBadBinding, item)
		}
		cmd, ok := commandNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown command %q", ErrBadBinding, name)
		}

		var parsed []byte
		for _, key := range strings.Split(keys, "|") {
			k, err := parseKey(strings.TrimSpace(key))
			if err != nil {
				return nil, err
			}
			if prev, dup := seen[k]; dup {
				return nil, fmt.Errorf("%w: %s bound to both %s and %s", ErrBadBinding, keyName(k), prev, cmd)
			}
			seen[k] = cmd.String()
			parsed = append(parsed, k)
		}

		for k, c := range b {
			if c == cmd {
				delete(b, k)
			}
		}
		for _, k := range parsed {
			b[k] = cmd
			if k == '\r' {
				b['\n'] = cmd
			}
		}
	}
	return b, nil
}

// BindingsFromEnv reads overrides from $SNAKE_KEYS.
func BindingsFromEnv() (Bindings, error) {
	b, err := ParseBindings(config.GetEnv("SNAKE_KEYS", ""))
	if err != nil {
		return nil, fmt.Errorf("SNAKE_KEYS: %w", err)
	}
	return b, nil
}

func parseKey(s string) (byte, error) {
	switch strings.ToLower(s) {
	case "space":
		return ' ', nil
	case "enter", "return":
		return '\r', nil
	case "tab":
		return '\t', nil
	}
	if len(s) != 1 || s[0] <= ' ' || s[0] > '~' {
		return 0, fmt.Errorf("%w: key %q is not a printable character or space/enter/tab", ErrBadBinding, s)
	}
	return lower(s[0]), nil
}

func keyName(k byte) string {
	switch k {
	case ' ':
		return "Space"
	case '\r', '\n':
		return "Enter"
	case '\t':
		return "Tab"
	}
	return strings.ToUpper(string(k))
}

func lower(k byte) byte {
	if k >= 'A' && k <= 'Z' {
		return k + 'a' - 'A'
	}
	return k
}
