// Package session keeps the transient per-widget state: history cache, selected ticket and
// agent notes. Nothing here outlives the process; teardown drops everything.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/i18n"
)

// Note is an agent note kept for the life of the session only.
type Note struct {
	Text      string
	CreatedAt time.Time
}

// Session is safe for concurrent use. Tickets handed out are clones; mutation goes through
// UpdateHistory so that a background re-score and a foreground read never race.
type Session struct {
	id  string
	loc *i18n.Localizer

	mu       sync.Mutex
	history  map[string][]*ticket.Ticket
	selected string
	notes    []Note
	lastSeen time.Time
	closed   bool
}

func newSession(id string, loc *i18n.Localizer, now time.Time) *Session {
	return &Session{
		id:       id,
		loc:      loc,
		history:  make(map[string][]*ticket.Ticket),
		lastSeen: now,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Localizer() *i18n.Localizer {
	return s.loc
}

func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func cacheKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// History returns clones of the cached tickets for email.
func (s *Session) History(email string) ([]*ticket.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tickets, ok := s.history[cacheKey(email)]
	if !ok {
		return nil, false
	}
	return cloneAll(tickets), true
}

// StoreHistory caches tickets for email unless an entry already exists; the first fetch per
// email wins for the rest of the session. It returns the cached clones either way.
func (s *Session) StoreHistory(email string, tickets []*ticket.Ticket) []*ticket.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := cacheKey(email)
	if s.closed {
		return cloneAll(tickets)
	}
	if existing, ok := s.history[key]; ok {
		return cloneAll(existing)
	}
	s.history[key] = cloneAll(tickets)
	return cloneAll(s.history[key])
}

// UpdateHistory runs fn on the cached tickets of email under the session lock. It reports
// false when the session was torn down or the entry no longer exists.
func (s *Session) UpdateHistory(email string, fn func(tickets []*ticket.Ticket)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	tickets, ok := s.history[cacheKey(email)]
	if !ok {
		return false
	}
	fn(tickets)
	return true
}

// FindTicket looks a ticket up across every cached history.
func (s *Session) FindTicket(ticketID string) (*ticket.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tickets := range s.history {
		for _, t := range tickets {
			if t.ID() == ticketID {
				return t.Clone(), true
			}
		}
	}
	return nil, false
}

// Select records the selected ticket; an empty id clears the selection.
func (s *Session) Select(ticketID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ticketID
}

func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Session) AddNote(text string, now time.Time) Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := Note{Text: text, CreatedAt: now}
	if !s.closed {
		s.notes = append(s.notes, n)
	}
	return n
}

// Notes returns notes newest first.
func (s *Session) Notes() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Note, len(s.notes))
	for i, n := range s.notes {
		out[len(s.notes)-1-i] = n
	}
	return out
}

// clear drops all state and marks the session closed.
func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = make(map[string][]*ticket.Ticket)
	s.selected = ""
	s.notes = nil
	s.closed = true
}

func cloneAll(tickets []*ticket.Ticket) []*ticket.Ticket {
	out := make([]*ticket.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t != nil {
			out = append(out, t.Clone())
		}
	}
	return out
}
