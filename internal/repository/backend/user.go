package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
)

type userRepository struct {
	client *restclient.Client
}

func NewUserRepository(client *restclient.Client) user.UserRepository {
	return &userRepository{client: client}
}

func (r *userRepository) List(ctx context.Context) ([]user.User, error) {
	var users []user.User
	if err := get(ctx, r.client, "/auth/users", nil, "users", &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	var u user.User
	if err := call(ctx, r.client, http.MethodPost, "/auth/users", nil, req, "user", &u); err != nil {
		if errors.Is(err, restclient.ErrConflict) {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return translate(r.client.Delete(ctx, "/auth/users/"+escape(id)), user.ErrUserNotFound)
}

type authenticator struct {
	client *restclient.Client
}

func NewAuthenticator(client *restclient.Client) auth.Authenticator {
	return &authenticator{client: client}
}

// Login exchanges credentials for a backend token. Rejected credentials
// come back as 400 or 401 depending on the backend route.
func (a *authenticator) Login(ctx context.Context, email, password string) (auth.BackendLogin, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var login auth.BackendLogin
	if err := call(ctx, a.client, http.MethodPost, "/auth/login", nil, body, "", &login); err != nil {
		if errors.Is(err, restclient.ErrUnauthorized) || errors.Is(err, restclient.ErrBadRequest) {
			return auth.BackendLogin{}, auth.ErrInvalidCredentials
		}
		return auth.BackendLogin{}, fmt.Errorf("backend login: %w", err)
	}
	if login.Token == "" {
		return auth.BackendLogin{}, auth.ErrInvalidCredentials
	}
	return login, nil
}

func (a *authenticator) Profile(ctx context.Context) (user.User, error) {
	var u user.User
	if err := get(ctx, a.client, "/auth/profile", nil, "user", &u); err != nil {
		return user.User{}, fmt.Errorf("profile: %w", err)
	}
	return u, nil
}
