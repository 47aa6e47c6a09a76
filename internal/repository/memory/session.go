// Package memory holds in-process repositories for running the console without
// Postgres, as in tests and single-node demos. Nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paydesk/payroll-console/internal/domain/auth"
)

type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]auth.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: map[string]auth.Session{}}
}

var _ auth.SessionRepository = (*SessionRepository)(nil)

func (m *SessionRepository) Create(_ context.Context, s *auth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	m.sessions[s.ID] = *s
	return nil
}

func (m *SessionRepository) GetByID(_ context.Context, id string) (auth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	return s, nil
}

func (m *SessionRepository) SetSelectedCompany(_ context.Context, id string, companyID *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return auth.ErrSessionNotFound
	}
	s.SelectedCompanyID = companyID
	m.sessions[id] = s
	return nil
}

func (m *SessionRepository) Revoke(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return auth.ErrSessionNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	m.sessions[id] = s
	return nil
}

func (m *SessionRepository) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.ExpiresAt.Before(before) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len reports how many stored sessions are not revoked.
func (m *SessionRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sessions {
		if s.RevokedAt == nil {
			n++
		}
	}
	return n
}
