package auth

import (
	"context"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/user"
)

// Session is one signed-in console user. It holds the backend bearer token and the
// company the user is currently working in.
type Session struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	Email             string     `json:"email"`
	Role              user.Role  `json:"role"`
	CompanyID         *string    `json:"companyId,omitempty"`
	SelectedCompanyID *string    `json:"selectedCompanyId,omitempty"`
	BackendToken      string     `json:"-"`
	UserAgent         string     `json:"-"`
	IPAddress         string     `json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
	ExpiresAt         time.Time  `json:"expiresAt"`
	RevokedAt         *time.Time `json:"-"`
}

func (s *Session) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// ActiveCompanyID is the company requests are scoped to. Company-bound roles always
// get their own company; a super admin gets the company selected for this session,
// or "" when viewing across companies.
func (s *Session) ActiveCompanyID() string {
	if s.Role == user.RoleSuperAdmin {
		if s.SelectedCompanyID != nil {
			return *s.SelectedCompanyID
		}
		return ""
	}
	if s.CompanyID != nil {
		return *s.CompanyID
	}
	return ""
}

// ResolveCompany checks a requested company against the session scope and returns
// the company to use. An empty request falls back to the active company.
func (s *Session) ResolveCompany(requested string) (string, error) {
	if requested == "" {
		if active := s.ActiveCompanyID(); active != "" {
			return active, nil
		}
		return "", user.ErrCompanyIDRequired
	}
	if s.Role == user.RoleSuperAdmin {
		return requested, nil
	}
	if s.CompanyID == nil || *s.CompanyID != requested {
		return "", user.ErrCompanyAccessDenied
	}
	return requested, nil
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFromContext(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	if !ok || s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}

// CompanyScope returns the active company of the session in ctx, "" when unscoped.
func CompanyScope(ctx context.Context) string {
	s, err := SessionFromContext(ctx)
	if err != nil {
		return ""
	}
	return s.ActiveCompanyID()
}

// EnsureCompany fails when companyID lies outside the scope of the session in ctx.
// Calls made without a session (scheduled jobs, the kiosk) run with the backend
// service token and are not checked here.
func EnsureCompany(ctx context.Context, companyID string) error {
	s, err := SessionFromContext(ctx)
	if err != nil {
		return nil
	}
	if s.Role == user.RoleSuperAdmin || companyID == "" {
		return nil
	}
	if s.CompanyID == nil || *s.CompanyID != companyID {
		return user.ErrCompanyAccessDenied
	}
	return nil
}
