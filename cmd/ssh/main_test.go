package main

import "testing"

func TestSSHEnviron(t *testing.T) {
	env := sshEnviron{"LANG=C", "TERM=vt100", "COLORTERM=truecolor", "TERM=xterm-256color"}
	tests := []struct {
		key, want string
	}{
		{"TERM", "xterm-256color"},
		{"COLORTERM", "truecolor"},
		{"LANG", "C"},
		{"LAN", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		if got := env.Getenv(tt.key); got != tt.want {
			t.Errorf("Getenv(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
	if len(env.Environ()) != 4 {
		t.Errorf("Environ() = %v", env.Environ())
	}
}

func TestSizeTracker(t *testing.T) {
	st := newSizeTracker(80, 24)
	st.update(120, 40)
	w, h, err := st.getSize()
	if err != nil || w != 120 || h != 40 {
		t.Errorf("getSize() = %d, %d, %v", w, h, err)
	}
}
