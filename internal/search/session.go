package search

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSuperseded marks a search whose session issued a newer query while it
// was still in flight. Its results must be discarded, not rendered.
var ErrSuperseded = errors.New("search superseded by a newer query")

// Sessions tracks the newest query tag per client session. In-flight
// provider calls are never cancelled when the user searches again; the
// stale response is simply dropped when its tag no longer matches.
type Sessions struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	ttl     time.Duration
	done    chan struct{}
}

type sessionEntry struct {
	tag      string
	lastSeen time.Time
}

// NewSessions creates a session tracker; entries idle past ttl are
// dropped by a background sweep.
func NewSessions(ttl time.Duration) *Sessions {
	s := &Sessions{
		entries: make(map[string]*sessionEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}

	// Start background cleanup
	go s.cleanup()

	return s
}

// Close stops the background cleanup goroutine.
func (s *Sessions) Close() {
	close(s.done)
}

// Begin registers a fresh query tag for the session and returns it. Any
// previously issued tag for the same session becomes stale.
func (s *Sessions) Begin(sessionID string) string {
	tag := uuid.New().String()

	s.mu.Lock()
	s.entries[sessionID] = &sessionEntry{tag: tag, lastSeen: time.Now()}
	s.mu.Unlock()

	return tag
}

// Current reports whether tag is still the session's newest query.
func (s *Sessions) Current(sessionID, tag string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	return ok && entry.tag == tag
}

// cleanup periodically removes idle sessions.
func (s *Sessions) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for id, entry := range s.entries {
				if now.Sub(entry.lastSeen) > s.ttl {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}
