package auth

import (
	"time"

	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}

	return errs.OrNil()
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

// BackendLogin is what the payroll backend answers to a successful login.
type BackendLogin struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

type LoginResponse struct {
	AccessToken string      `json:"accessToken"`
	ExpiresAt   int64       `json:"expiresAt"`
	User        user.User   `json:"user"`
	Session     SessionView `json:"session"`
}

// SessionView is the session as shown to the UI.
type SessionView struct {
	ID                string    `json:"id"`
	Role              user.Role `json:"role"`
	CompanyID         *string   `json:"companyId,omitempty"`
	SelectedCompanyID *string   `json:"selectedCompanyId,omitempty"`
	ActiveCompanyID   string    `json:"activeCompanyId,omitempty"`
	ExpiresAt         time.Time `json:"expiresAt"`
}

func NewSessionView(s *Session) SessionView {
	return SessionView{
		ID:                s.ID,
		Role:              s.Role,
		CompanyID:         s.CompanyID,
		SelectedCompanyID: s.SelectedCompanyID,
		ActiveCompanyID:   s.ActiveCompanyID(),
		ExpiresAt:         s.ExpiresAt,
	}
}

type ProfileResponse struct {
	User        user.User         `json:"user"`
	Session     SessionView       `json:"session"`
	Permissions []user.Permission `json:"permissions"`
}

type SelectCompanyRequest struct {
	CompanyID string `json:"companyId"`
}

func (r *SelectCompanyRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.CompanyID) {
		errs.Add("companyId", "companyId is required")
	}
	return errs.OrNil()
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}
