package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/company"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/pkg/authz"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
	"github.com/paydesk/payroll-console/internal/pkg/jwt"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
)

type AuthServiceImpl struct {
	auth.SessionRepository
	auth.Authenticator
	jwt.Service
	userRepo    user.UserRepository
	companyRepo company.CompanyRepository
	authorizer  *authz.Authorizer
	sessionTTL  time.Duration
	now         func() time.Time
}

func NewAuthService(
	sessionRepo auth.SessionRepository,
	authenticator auth.Authenticator,
	jwtService jwt.Service,
	userRepo user.UserRepository,
	companyRepo company.CompanyRepository,
	authorizer *authz.Authorizer,
	sessionTTL time.Duration,
) auth.AuthService {
	return &AuthServiceImpl{
		SessionRepository: sessionRepo,
		Authenticator:     authenticator,
		Service:           jwtService,
		userRepo:          userRepo,
		companyRepo:       companyRepo,
		authorizer:        authorizer,
		sessionTTL:        sessionTTL,
		now:               time.Now,
	}
}

// Login checks the credentials with the backend and opens a console session holding
// the backend token. The returned access token only names the session.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, tracking auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	login, err := a.Authenticator.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Info("login rejected", "email", req.Email, "ip", tracking.IPAddress)
		}
		return auth.LoginResponse{}, err
	}

	now := a.now()
	sess := &auth.Session{
		UserID:       login.User.ID,
		Email:        login.User.Email,
		Role:         login.User.Role,
		CompanyID:    login.User.CompanyID,
		BackendToken: login.Token,
		UserAgent:    tracking.UserAgent,
		IPAddress:    tracking.IPAddress,
		CreatedAt:    now,
		ExpiresAt:    now.Add(a.sessionTTL),
	}
	if err := a.SessionRepository.Create(ctx, sess); err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to save session: %w", err)
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(jwt.Claims{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		Role:      sess.Role,
		CompanyID: sess.CompanyID,
	})
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	if expiresAt.After(sess.ExpiresAt) {
		expiresAt = sess.ExpiresAt
	}

	slog.Info("user signed in", "user_id", sess.UserID, "role", sess.Role, "session_id", sess.ID)
	return auth.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.Unix(),
		User:        login.User,
		Session:     auth.NewSessionView(sess),
	}, nil
}

func (a *AuthServiceImpl) Logout(ctx context.Context) error {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return err
	}
	if err := a.SessionRepository.Revoke(ctx, sess.ID); err != nil && !errors.Is(err, auth.ErrSessionNotFound) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// Authenticate loads a live session. Revoked and expired sessions both end with
// ErrSessionExpired so the UI sends the user back to the login page.
func (a *AuthServiceImpl) Authenticate(ctx context.Context, sessionID string) (*auth.Session, error) {
	sess, err := a.SessionRepository.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			return nil, auth.ErrSessionExpired
		}
		return nil, err
	}
	if !sess.IsActive(a.now()) {
		return nil, auth.ErrSessionExpired
	}
	return &sess, nil
}

func (a *AuthServiceImpl) Profile(ctx context.Context) (auth.ProfileResponse, error) {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return auth.ProfileResponse{}, err
	}

	u, err := a.Authenticator.Profile(restclient.WithToken(ctx, sess.BackendToken))
	if err != nil {
		if errors.Is(err, restclient.ErrUnauthorized) {
			return auth.ProfileResponse{}, auth.ErrSessionExpired
		}
		return auth.ProfileResponse{}, err
	}

	return auth.ProfileResponse{
		User:        u,
		Session:     auth.NewSessionView(sess),
		Permissions: a.authorizer.Permissions(sess.Role),
	}, nil
}

// SelectCompany enters a company scope for the rest of the session.
func (a *AuthServiceImpl) SelectCompany(ctx context.Context, req auth.SelectCompanyRequest) (auth.SessionView, error) {
	sess, err := a.superAdminSession(ctx)
	if err != nil {
		return auth.SessionView{}, err
	}
	if err := req.Validate(); err != nil {
		return auth.SessionView{}, err
	}
	if _, err := a.companyRepo.GetByID(ctx, req.CompanyID); err != nil {
		return auth.SessionView{}, err
	}

	if err := a.SessionRepository.SetSelectedCompany(ctx, sess.ID, &req.CompanyID); err != nil {
		return auth.SessionView{}, err
	}

	selected := *sess
	selected.SelectedCompanyID = &req.CompanyID
	slog.Info("company selected", "session_id", sess.ID, "company_id", req.CompanyID)
	return auth.NewSessionView(&selected), nil
}

// ClearSelectedCompany leaves the company scope and returns to the cross-company view.
func (a *AuthServiceImpl) ClearSelectedCompany(ctx context.Context) (auth.SessionView, error) {
	sess, err := a.superAdminSession(ctx)
	if err != nil {
		return auth.SessionView{}, err
	}
	if err := a.SessionRepository.SetSelectedCompany(ctx, sess.ID, nil); err != nil {
		return auth.SessionView{}, err
	}

	cleared := *sess
	cleared.SelectedCompanyID = nil
	return auth.NewSessionView(&cleared), nil
}

func (a *AuthServiceImpl) IssueSSEToken(ctx context.Context) (auth.SSETokenResponse, error) {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return auth.SSETokenResponse{}, err
	}
	token, expiresIn, err := a.Service.GenerateSSEToken(sess.ID)
	if err != nil {
		return auth.SSETokenResponse{}, fmt.Errorf("failed to create stream token: %w", err)
	}
	return auth.SSETokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}

// ListUsers returns all users to a super admin and the own company's users to an admin.
func (a *AuthServiceImpl) ListUsers(ctx context.Context) ([]user.User, error) {
	users, err := a.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	scope := auth.CompanyScope(ctx)
	sess, err := auth.SessionFromContext(ctx)
	if err != nil || (sess.Role == user.RoleSuperAdmin && scope == "") {
		return users, nil
	}
	visible := make([]user.User, 0, len(users))
	for _, u := range users {
		if u.CompanyID != nil && *u.CompanyID == scope {
			visible = append(visible, u)
		}
	}
	return visible, nil
}

func (a *AuthServiceImpl) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	if req.Role != user.RoleSuperAdmin && req.CompanyID == nil {
		if scope := auth.CompanyScope(ctx); scope != "" {
			req.CompanyID = &scope
		}
	}
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	if sess, err := auth.SessionFromContext(ctx); err == nil && sess.Role != user.RoleSuperAdmin {
		if req.Role == user.RoleSuperAdmin {
			return user.User{}, user.ErrInsufficientPermissions
		}
		if err := auth.EnsureCompany(ctx, *req.CompanyID); err != nil {
			return user.User{}, err
		}
	}

	created, err := a.userRepo.Create(ctx, req)
	if err != nil {
		return user.User{}, err
	}
	slog.Info("user created", "user_id", created.ID, "role", created.Role)
	return created, nil
}

func (a *AuthServiceImpl) DeleteUser(ctx context.Context, id string, confirmed bool) error {
	if err := confirm.Require(confirmed); err != nil {
		return err
	}

	if sess, err := auth.SessionFromContext(ctx); err == nil {
		if sess.UserID == id {
			return user.ErrInsufficientPermissions
		}
		if sess.Role != user.RoleSuperAdmin {
			if err := a.ensureSameCompany(ctx, id); err != nil {
				return err
			}
		}
	}

	if err := a.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("user deleted", "user_id", id)
	return nil
}

func (a *AuthServiceImpl) ensureSameCompany(ctx context.Context, userID string) error {
	users, err := a.userRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID != userID {
			continue
		}
		if u.CompanyID == nil {
			return user.ErrCompanyAccessDenied
		}
		return auth.EnsureCompany(ctx, *u.CompanyID)
	}
	return user.ErrUserNotFound
}

func (a *AuthServiceImpl) superAdminSession(ctx context.Context) (*auth.Session, error) {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if sess.Role != user.RoleSuperAdmin {
		return nil, auth.ErrSelectionForbidden
	}
	return sess, nil
}
