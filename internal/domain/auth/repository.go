package auth

import (
	"context"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/user"
)

// SessionRepository persists console sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (Session, error)
	SetSelectedCompany(ctx context.Context, id string, companyID *string) error
	Revoke(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Authenticator checks credentials against the payroll backend.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (BackendLogin, error)
	Profile(ctx context.Context) (user.User, error)
}
