package memory

import (
	"context"
	"sync"

	"trivia-settlement-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Snapshots go in and out by value, so callers never share mutable state.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.GameSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.GameSession),
	}
}

func (s *SessionStore) Get(_ context.Context, sessionID string) (domain.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.GameSession{}, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Save(_ context.Context, session domain.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *SessionStore) CompletedByPeriod(_ context.Context, periodID string) ([]domain.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.GameSession
	for _, session := range s.sessions {
		if session.PeriodID == periodID && session.Status == domain.SessionCompleted {
			out = append(out, session)
		}
	}
	return out, nil
}
