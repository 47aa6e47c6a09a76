package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleSuperAdmin, PermissionGlobalStats))
	assert.True(t, HasPermission(RoleAdmin, PermissionPayRunClose))
	assert.False(t, HasPermission(RoleAdmin, PermissionCompanyManage))
	assert.True(t, HasPermission(RoleCashier, PermissionPaymentCreate))
	assert.False(t, HasPermission(RoleCashier, PermissionPayRunApprove))
	assert.False(t, HasPermission(Role("GUEST"), PermissionPayRunView))
}

func TestCreateUserRequest_Validate(t *testing.T) {
	companyID := "c1"

	t.Run("valid cashier", func(t *testing.T) {
		req := CreateUserRequest{Email: "caisse@example.com", Password: "secret1", Role: RoleCashier, CompanyID: &companyID}
		assert.NoError(t, req.Validate())
	})

	t.Run("super admin needs no company", func(t *testing.T) {
		req := CreateUserRequest{Email: "root@example.com", Password: "secret1", Role: RoleSuperAdmin}
		assert.NoError(t, req.Validate())
	})

	t.Run("company scoped role without company", func(t *testing.T) {
		req := CreateUserRequest{Email: "admin@example.com", Password: "secret1", Role: RoleAdmin}
		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "companyId")
	})

	t.Run("unknown role and bad email", func(t *testing.T) {
		req := CreateUserRequest{Email: "nope", Password: "123", Role: "GUEST"}
		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "email")
		assert.Contains(t, err.Error(), "password")
		assert.Contains(t, err.Error(), "role")
	})
}
