package user

import "time"

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN" // Platform operator, not bound to a company
	RoleAdmin      Role = "ADMIN"       // Company administrator
	RoleCashier    Role = "CAISSIER"    // Records payments for one company
)

// Roles lists every role accepted by the payroll backend.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleCashier}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      Role      `json:"role"`
	CompanyID *string   `json:"companyId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// IsSuperAdmin checks if user operates across companies
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// IsAdmin checks if user administers a single company
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
