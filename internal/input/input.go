// Package input turns raw terminal bytes into game commands.
package input

import (
	"bufio"
	"io"

	"github.com/tomz197/metalsnake/internal/grid"
)

// Command is one key press mapped to an action.
type Command int

const (
	CmdNone Command = iota
	CmdUp
	CmdDown
	CmdLeft
	CmdRight
	CmdStart
	CmdPause
	CmdBack // Esc
	CmdToggleObstacles
	CmdHighScores
	CmdMute
	CmdQuit // and always Ctrl-C
)

func (c Command) String() string {
	switch c {
	case CmdUp:
		return "up"
	case CmdDown:
		return "down"
	case CmdLeft:
		return "left"
	case CmdRight:
		return "right"
	case CmdStart:
		return "start"
	case CmdPause:
		return "pause"
	case CmdBack:
		return "back"
	case CmdToggleObstacles:
		return "toggle_obstacles"
	case CmdHighScores:
		return "high_scores"
	case CmdMute:
		return "mute"
	case CmdQuit:
		return "quit"
	default:
		return "none"
	}
}

// Direction returns the heading of a movement command.
func (c Command) Direction() (grid.Direction, bool) {
	switch c {
	case CmdUp:
		return grid.Up, true
	case CmdDown:
		return grid.Down, true
	case CmdLeft:
		return grid.Left, true
	case CmdRight:
		return grid.Right, true
	}
	return 0, false
}

// Input is everything read since the previous frame, in arrival order.
type Input struct {
	Commands []Command
	Pressed  []byte
	Closed   bool // the reader hit EOF or an error
}

// Has reports whether cmd was pressed this frame.
func (in Input) Has(cmd Command) bool {
	for _, c := range in.Commands {
		if c == cmd {
			return true
		}
	}
	return false
}

// Stream delivers input bytes through a channel so frames never block on
// the reader.
type Stream struct {
	ch      chan byte
	keys    Bindings
	pending []byte
	closed  bool
}

// StartStream spawns a goroutine reading r until it fails. Key bytes are
// mapped through keys; nil means DefaultBindings.
func StartStream(r io.Reader, keys Bindings) *Stream {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	s := &Stream{ch: make(chan byte, 128), keys: keys}
	go func() {
		for {
			b, err := br.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains the bytes available right now without blocking. An
// escape sequence split across reads is held back until it completes.
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	cmds, rest := s.keys.Parse(buf)
	if s.closed {
		rest = nil
	}
	s.pending = rest
	return Input{Commands: cmds, Pressed: buf[:len(buf)-len(rest)], Closed: s.closed}
}

// Parse maps buf to commands. rest is an incomplete trailing escape
// sequence that should be prefixed to the next read.
func (b Bindings) Parse(buf []byte) (cmds []Command, rest []byte) {
	for i := 0; i < len(buf); i++ {
		if k := buf[i]; k != '\x1b' {
			if c := b.Lookup(k); c != CmdNone {
				cmds = append(cmds, c)
			}
			continue
		}

		// A lone ESC at the end of a read is the Escape key.
		if i+1 >= len(buf) {
			cmds = append(cmds, CmdBack)
			continue
		}
		if next := buf[i+1]; next != '[' && next != 'O' {
			cmds = append(cmds, CmdBack)
			continue
		}

		// CSI (ESC [) or SS3 (ESC O): parameters, then a final byte.
		j := i + 2
		for j < len(buf) && (buf[j] < 0x40 || buf[j] > 0x7e) {
			j++
		}
		if j >= len(buf) {
			return cmds, buf[i:]
		}
		switch buf[j] {
		case 'A':
			cmds = append(cmds, CmdUp)
		case 'B':
			cmds = append(cmds, CmdDown)
		case 'C':
			cmds = append(cmds, CmdRight)
		case 'D':
			cmds = append(cmds, CmdLeft)
		}
		i = j
	}
	return cmds, nil
}
