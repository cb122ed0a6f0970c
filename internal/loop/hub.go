package loop

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Hub errors.
var (
	ErrHubFull   = errors.New("session limit reached")
	ErrHubClosed = errors.New("server shutting down")
)

// Notice is a message from the hub to a session.
type Notice int

const (
	NoticeShutdown Notice = iota
)

// Handle is a session's registration with the hub.
type Handle struct {
	ID      int
	Player  string
	Joined  time.Time
	Notices chan Notice
}

// Hub tracks the sessions of a server so it can cap them and tell them
// about shutdown. Each session runs its own round; the hub shares no game
// state.
type Hub struct {
	mu       sync.RWMutex
	sessions map[int]*Handle
	nextID   int
	max      int
	closing  bool
	logger   *log.Logger
}

// NewHub creates a hub admitting at most maxSessions sessions; zero or less
// means DefaultMaxSessions.
func NewHub(maxSessions int, logger *log.Logger) *Hub {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		sessions: make(map[int]*Handle),
		nextID:   1,
		max:      maxSessions,
		logger:   logger,
	}
}

// Register admits a session.
func (h *Hub) Register(player string) (*Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closing {
		return nil, ErrHubClosed
	}
	if len(h.sessions) >= h.max {
		return nil, ErrHubFull
	}
	handle := &Handle{
		ID:      h.nextID,
		Player:  player,
		Joined:  time.Now(),
		Notices: make(chan Notice, 4),
	}
	h.nextID++
	h.sessions[handle.ID] = handle
	h.logger.Info("session joined", "id", handle.ID, "player", player, "sessions", len(h.sessions))
	return handle, nil
}

// Unregister removes a session. Unknown IDs are ignored.
func (h *Hub) Unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle, ok := h.sessions[id]
	if !ok {
		return
	}
	delete(h.sessions, id)
	h.logger.Info("session left", "id", id, "player", handle.Player,
		"duration", time.Since(handle.Joined).Round(time.Second), "sessions", len(h.sessions))
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Shutdown stops admitting sessions, tells the live ones, and waits for them
// to leave or for timeout. It reports whether every session left.
func (h *Hub) Shutdown(timeout time.Duration) bool {
	h.mu.Lock()
	h.closing = true
	for _, handle := range h.sessions {
		select {
		case handle.Notices <- NoticeShutdown:
		default:
		}
	}
	h.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(shutdownPoll)
	defer ticker.Stop()

	for {
		if h.Count() == 0 {
			return true
		}
		select {
		case <-deadline:
			h.logger.Warn("sessions still connected at shutdown", "sessions", h.Count())
			return false
		case <-ticker.C:
		}
	}
}
