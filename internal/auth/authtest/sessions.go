// Package authtest provides an in-memory session store for tests.
package authtest

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
)

// Sessions is an in-memory auth.SessionStore honoring expiry.
type Sessions struct {
	mu   sync.Mutex
	byID map[string]domain.Session
}

// NewSessions returns an empty store.
func NewSessions() *Sessions {
	return &Sessions{byID: make(map[string]domain.Session)}
}

var _ auth.SessionStore = (*Sessions)(nil)

func (s *Sessions) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[session.ID] = session
	return nil
}

func (s *Sessions) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.byID[id]
	if !ok || time.Now().After(session.ExpiresAt) {
		return nil, auth.ErrSessionNotFound
	}
	return &session, nil
}

func (s *Sessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

// Len reports how many sessions are stored, expired ones included.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
