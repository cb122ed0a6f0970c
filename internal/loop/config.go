package loop

import "time"

// Frame timing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// Inactivity
const (
	InactivityWarn       = 90 * time.Second
	InactivityDisconnect = 120 * time.Second
)

// Shutdown
const (
	ShutdownDisplay = 10 * time.Second // how long the notice shows before disconnecting
	shutdownPoll    = 200 * time.Millisecond
)

// Sessions
const (
	DefaultMaxSessions = 64
	blinkPeriod        = 600 * time.Millisecond
)
