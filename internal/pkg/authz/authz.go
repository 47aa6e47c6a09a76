// Package authz enforces role permissions with casbin. Policies are derived from
// user.RolePermissions so the console and its UI share one source of truth.
package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/paydesk/payroll-console/internal/domain/user"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer builds an in-memory enforcer loaded with every role's permissions.
func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz: load model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: create enforcer: %w", err)
	}

	for role, permissions := range user.RolePermissions {
		for _, p := range permissions {
			obj, act := Split(p)
			if _, err := enforcer.AddPolicy(Subject(role), obj, act); err != nil {
				return nil, fmt.Errorf("authz: add policy %s %s: %w", role, p, err)
			}
		}
	}

	return &Authorizer{enforcer: enforcer}, nil
}

// Subject names the casbin subject of a role.
func Subject(role user.Role) string {
	return "role:" + strings.ToLower(string(role))
}

// Split turns "payrun.approve" into ("payrun", "approve").
func Split(p user.Permission) (string, string) {
	obj, act, found := strings.Cut(string(p), ".")
	if !found {
		return obj, "*"
	}
	return obj, act
}

// Can reports whether role holds permission.
func (a *Authorizer) Can(role user.Role, permission user.Permission) (bool, error) {
	obj, act := Split(permission)
	return a.enforcer.Enforce(Subject(role), obj, act)
}

// Permissions lists what role may do, as shown to the UI.
func (a *Authorizer) Permissions(role user.Role) []user.Permission {
	policies, err := a.enforcer.GetFilteredPolicy(0, Subject(role))
	if err != nil {
		return nil
	}
	out := make([]user.Permission, 0, len(policies))
	for _, p := range policies {
		out = append(out, user.Permission(p[1]+"."+p[2]))
	}
	return out
}
