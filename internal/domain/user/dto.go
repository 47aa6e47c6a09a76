package user

import (
	"github.com/paydesk/payroll-console/internal/pkg/validator"
)

// CreateUserRequest represents request to create a new console user
type CreateUserRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Name      string  `json:"name,omitempty"`
	Role      Role    `json:"role"`
	CompanyID *string `json:"companyId,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) < 6 {
		errs.Add("password", "password must be at least 6 characters")
	}

	if !r.Role.IsValid() {
		errs.Add("role", "role must be one of SUPER_ADMIN, ADMIN, CAISSIER")
	} else if r.Role != RoleSuperAdmin && (r.CompanyID == nil || validator.IsEmpty(*r.CompanyID)) {
		errs.Add("companyId", "companyId is required for company-scoped roles")
	}

	return errs.OrNil()
}
