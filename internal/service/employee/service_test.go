package employee

import (
	"context"
	"testing"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
	"github.com/paydesk/payroll-console/internal/pkg/validator"
	"github.com/paydesk/payroll-console/internal/repository/backend"
	"github.com/paydesk/payroll-console/internal/repository/backend/backendtest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminCtx(companyID string) context.Context {
	return auth.WithSession(context.Background(), &auth.Session{UserID: "u-admin", Role: user.RoleAdmin, CompanyID: &companyID})
}

func superCtx() context.Context {
	return auth.WithSession(context.Background(), &auth.Session{UserID: "u-root", Role: user.RoleSuperAdmin})
}

func newService(t *testing.T) (*backendtest.Server, employee.EmployeeService) {
	t.Helper()
	fake := backendtest.New(t)
	return fake, NewEmployeeService(backend.NewEmployeeRepository(fake.Client(t)), nil)
}

func TestList_ScopedToActiveCompany(t *testing.T) {
	// Arrange
	fake, svc := newService(t)
	mine := fake.AddCompany("Atelier")
	other := fake.AddCompany("Garage")
	fake.AddEmployee(mine.ID, "Awa", "Diop", employee.ContractFixed, 100000)
	fake.AddEmployee(mine.ID, "Moussa", "Fall", employee.ContractDaily, 5000)
	fake.AddEmployee(other.ID, "Ibou", "Sarr", employee.ContractFixed, 90000)

	// Act
	scoped, scopedErr := svc.List(adminCtx(mine.ID), employee.EmployeeFilter{})
	daily, dailyErr := svc.List(adminCtx(mine.ID), employee.EmployeeFilter{ContractType: employee.ContractDaily})
	_, deniedErr := svc.List(adminCtx(mine.ID), employee.EmployeeFilter{CompanyID: other.ID})
	all, allErr := svc.List(superCtx(), employee.EmployeeFilter{})

	// Assert
	require.NoError(t, scopedErr)
	require.NoError(t, dailyErr)
	require.NoError(t, allErr)
	assert.Len(t, scoped, 2)
	require.Len(t, daily, 1)
	assert.Equal(t, "Moussa", daily[0].FirstName)
	assert.ErrorIs(t, deniedErr, user.ErrCompanyAccessDenied)
	assert.Len(t, all, 3)
}

func TestCreate_DefaultsToActiveCompany(t *testing.T) {
	// Arrange
	fake, svc := newService(t)
	co := fake.AddCompany("Atelier")

	// Act
	created, err := svc.Create(adminCtx(co.ID), employee.CreateEmployeeRequest{
		FirstName:    "Fatou",
		LastName:     "Ndiaye",
		Position:     "Caissière",
		ContractType: employee.ContractFixed,
		Rate:         decimal.NewFromInt(150000),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, co.ID, created.CompanyID)
	assert.True(t, created.IsActive)
}

func TestCreate_InvalidNeverReachesBackend(t *testing.T) {
	// Arrange
	fake, svc := newService(t)
	co := fake.AddCompany("Atelier")

	// Act
	_, err := svc.Create(adminCtx(co.ID), employee.CreateEmployeeRequest{
		FirstName:    "Fatou",
		ContractType: "STAGE",
	})

	// Assert
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "contractType")
	assert.Zero(t, fake.Mutations())
}

func TestToggleStatus(t *testing.T) {
	// Arrange
	fake, svc := newService(t)
	co := fake.AddCompany("Atelier")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractFixed, 100000)

	// Act
	toggled, err := svc.ToggleStatus(adminCtx(co.ID), emp.ID)

	// Assert
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)
}

func TestDelete(t *testing.T) {
	// Arrange
	fake, svc := newService(t)
	co := fake.AddCompany("Atelier")
	other := fake.AddCompany("Garage")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractFixed, 100000)

	t.Run("needs confirmation", func(t *testing.T) {
		err := svc.Delete(adminCtx(co.ID), emp.ID, false)
		assert.ErrorIs(t, err, confirm.ErrRequired)
	})

	t.Run("other company is denied", func(t *testing.T) {
		err := svc.Delete(adminCtx(other.ID), emp.ID, true)
		assert.ErrorIs(t, err, user.ErrCompanyAccessDenied)
	})

	t.Run("confirmed", func(t *testing.T) {
		require.NoError(t, svc.Delete(adminCtx(co.ID), emp.ID, true))
		_, err := svc.GetByID(adminCtx(co.ID), emp.ID)
		assert.Error(t, err)
	})
}
