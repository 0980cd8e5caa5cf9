package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/errors"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/i18n"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/id"
)

// Registry owns every live session.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		sessions: make(map[string]*Session),
		now:      now,
	}
}

// Create starts a session for locale.
func (r *Registry) Create(locale string) (*Session, error) {
	sid, err := id.NewSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}
	s := newSession(sid, i18n.New(locale), r.now())

	r.mu.Lock()
	r.sessions[sid] = s
	r.mu.Unlock()
	return s, nil
}

// Get returns the session and marks it active.
func (r *Registry) Get(sid string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError("session not found", sid)
	}
	s.Touch(r.now())
	return s, nil
}

// Remove tears a session down. It reports whether the session existed.
func (r *Registry) Remove(sid string) bool {
	r.mu.Lock()
	s, ok := r.sessions[sid]
	delete(r.sessions, sid)
	r.mu.Unlock()
	if ok {
		s.clear()
	}
	return ok
}

// Sweep removes sessions idle for longer than idle and returns their ids.
func (r *Registry) Sweep(idle time.Duration) []string {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var expired []*Session
	for sid, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, sid)
		}
	}
	r.mu.Unlock()

	removed := make([]string, 0, len(expired))
	for _, s := range expired {
		s.clear()
		removed = append(removed, s.ID())
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
