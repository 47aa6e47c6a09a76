package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session has expired, sign in again")
	ErrNoSession          = errors.New("no authenticated session in context")
	ErrSelectionForbidden = errors.New("only a super admin can switch the active company")
)
