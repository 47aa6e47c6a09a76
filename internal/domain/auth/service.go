package auth

import (
	"context"

	"github.com/paydesk/payroll-console/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, tracking SessionTrackingRequest) (LoginResponse, error)
	Logout(ctx context.Context) error
	Authenticate(ctx context.Context, sessionID string) (*Session, error)
	Profile(ctx context.Context) (ProfileResponse, error)
	SelectCompany(ctx context.Context, req SelectCompanyRequest) (SessionView, error)
	ClearSelectedCompany(ctx context.Context) (SessionView, error)
	IssueSSEToken(ctx context.Context) (SSETokenResponse, error)

	ListUsers(ctx context.Context) ([]user.User, error)
	CreateUser(ctx context.Context, req user.CreateUserRequest) (user.User, error)
	DeleteUser(ctx context.Context, id string, confirmed bool) error
}
