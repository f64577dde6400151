package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-churnform/pkg/lifecycle"
)

// Session pairs a browser with its own form controller.
type Session struct {
	ID         string
	CSRFToken  string
	Controller *lifecycle.Controller

	lastSeen time.Time
}

// ControllerFactory builds a fresh controller for a new session.
type ControllerFactory func() (*lifecycle.Controller, error)

// SessionStore keeps sessions in memory and evicts idle ones.
type SessionStore struct {
	factory ControllerFactory
	ttl     time.Duration
	now     func() time.Time

	onOpen  func()
	onClose func()

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore creates a store whose sessions expire after ttl of
// inactivity.
func NewSessionStore(factory ControllerFactory, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionStore{
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
		onOpen:   func() {},
		onClose:  func() {},
		sessions: make(map[string]*Session),
	}
}

// Lookup returns the live session for id and refreshes its expiry.
func (s *SessionStore) Lookup(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(session.lastSeen) > s.ttl {
		s.removeLocked(id)
		return nil, false
	}
	session.lastSeen = now
	return session, true
}

// Create opens a new session seeded from the form defaults.
func (s *SessionStore) Create() (*Session, error) {
	ctrl, err := s.factory()
	if err != nil {
		return nil, err
	}
	session := &Session{
		ID:         uuid.NewString(),
		CSRFToken:  uuid.NewString(),
		Controller: ctrl,
	}

	s.mu.Lock()
	session.lastSeen = s.now()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.onOpen()
	return session, nil
}

// Len reports the number of tracked sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops every expired session that is not waiting on a prediction.
// It returns the number removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, session := range s.sessions {
		if now.Sub(session.lastSeen) <= s.ttl || session.Controller.Busy() {
			continue
		}
		s.removeLocked(id)
		removed++
	}
	return removed
}

// Janitor sweeps every interval until ctx is done.
func (s *SessionStore) Janitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = s.ttl / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *SessionStore) removeLocked(id string) {
	delete(s.sessions, id)
	s.onClose()
}
