package backend_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/attendance"
	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/domain/leave"
	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/paydesk/payroll-console/internal/domain/qrcode"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
	"github.com/paydesk/payroll-console/internal/repository/backend"
	"github.com/paydesk/payroll-console/internal/repository/backend/backendtest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestPayRunRepository_ListAndGet(t *testing.T) {
	// Arrange
	fake := backendtest.New(t)
	co := fake.AddCompany("Boulangerie Diallo")
	emp := fake.AddEmployee(co.ID, "Awa", "Ndiaye", employee.ContractFixed, 150000)
	pr := fake.AddPayRun(co.ID, day("2025-03-01"), day("2025-03-31"), payroll.PayRunDraft)
	fake.AddPayslip(pr.ID, emp.ID, 150000)
	other := fake.AddCompany("Autre")
	fake.AddPayRun(other.ID, day("2025-03-01"), day("2025-03-31"), payroll.PayRunDraft)
	repo := backend.NewPayRunRepository(fake.Client(t))

	// Act
	list, err := repo.List(context.Background(), co.ID)
	require.NoError(t, err)
	got, err := repo.GetByID(context.Background(), pr.ID)
	require.NoError(t, err)

	// Assert
	require.Len(t, list, 1)
	assert.Equal(t, pr.ID, list[0].ID)
	require.Len(t, got.Payslips, 1)
	assert.True(t, got.Payslips[0].Net.Equal(decimal.NewFromInt(150000)))
	assert.Equal(t, "Awa", got.Payslips[0].Employee.FirstName)
}

func TestPayRunRepository_GetByID_NotFound(t *testing.T) {
	fake := backendtest.New(t)
	repo := backend.NewPayRunRepository(fake.Client(t))

	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, payroll.ErrPayRunNotFound)
}

func TestPayRunRepository_Approve_ConflictOnStaleStatus(t *testing.T) {
	fake := backendtest.New(t)
	co := fake.AddCompany("Acme")
	pr := fake.AddPayRun(co.ID, day("2025-03-01"), day("2025-03-31"), payroll.PayRunApproved)
	repo := backend.NewPayRunRepository(fake.Client(t))

	err := repo.Approve(context.Background(), pr.ID)

	assert.ErrorIs(t, err, restclient.ErrConflict)
	assert.Equal(t, payroll.PayRunApproved, fake.PayRunStatus(pr.ID))
}

func TestPaymentRepository_Create_FoldsPayslipStatus(t *testing.T) {
	// Arrange
	fake := backendtest.New(t)
	co := fake.AddCompany("Acme")
	emp := fake.AddEmployee(co.ID, "Moussa", "Fall", employee.ContractFixed, 120000)
	pr := fake.AddPayRun(co.ID, day("2025-03-01"), day("2025-03-31"), payroll.PayRunApproved)
	ps := fake.AddPayslip(pr.ID, emp.ID, 120000)
	repo := backend.NewPaymentRepository(fake.Client(t))

	// Act
	p, err := repo.Create(context.Background(), payroll.NewPayment{
		PayslipID: ps.ID,
		Amount:    decimal.RequireFromString("50000.50"),
		Method:    payroll.MethodMobileMoneyA,
	})

	// Assert
	require.NoError(t, err)
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("50000.5")))
	assert.Equal(t, payroll.MethodMobileMoneyA, p.Method)
	require.NotNil(t, p.Payslip)
	assert.Equal(t, payroll.PayslipPartial, p.Payslip.Status)
}

func TestAttendanceRepository_CreateBulk_RejectsDuplicates(t *testing.T) {
	fake := backendtest.New(t)
	co := fake.AddCompany("Acme")
	emp := fake.AddEmployee(co.ID, "Ibou", "Sarr", employee.ContractDaily, 5000)
	pr := fake.AddPayRun(co.ID, day("2025-03-01"), day("2025-03-31"), payroll.PayRunDraft)
	fake.AddAttendance(emp.ID, pr.ID, day("2025-03-03"), attendance.TypePresent)
	repo := backend.NewAttendanceRepository(fake.Client(t))

	_, err := repo.CreateBulk(context.Background(), []attendance.NewAttendance{
		{EmployeeID: emp.ID, PayRunID: pr.ID, Date: "2025-03-04", Type: attendance.TypePresent, IsPresent: true},
		{EmployeeID: emp.ID, PayRunID: pr.ID, Date: "2025-03-03", Type: attendance.TypePresent, IsPresent: true},
	})

	assert.ErrorIs(t, err, restclient.ErrConflict)
	assert.Len(t, fake.Attendances(), 1)
}

func TestLeaveRepository_CancelAfterApproval_Surfaced(t *testing.T) {
	fake := backendtest.New(t)
	co := fake.AddCompany("Acme")
	emp := fake.AddEmployee(co.ID, "Fatou", "Ba", employee.ContractFixed, 100000)
	l := fake.AddLeave(emp.ID, leave.TypeAnnual, day("2025-03-03"), day("2025-03-07"), leave.StatusApproved)
	repo := backend.NewLeaveRepository(fake.Client(t))

	_, err := repo.Cancel(context.Background(), l.ID)

	var apiErr *restclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, leave.StatusApproved, fake.Leave(l.ID).Status)
}

func TestQRCodeRepository_RegenerateVoidsPreviousCredential(t *testing.T) {
	// Arrange
	fake := backendtest.New(t)
	co := fake.AddCompany("Acme")
	emp := fake.AddEmployee(co.ID, "Awa", "Ndiaye", employee.ContractDaily, 5000)
	repo := backend.NewQRCodeRepository(fake.Client(t))
	ctx := context.Background()

	first, err := repo.Generate(ctx, emp.ID)
	require.NoError(t, err)

	// Act
	second, err := repo.Regenerate(ctx, emp.ID)
	require.NoError(t, err)
	oldResult, err := repo.Validate(ctx, first.Data)
	require.NoError(t, err)
	newResult, err := repo.Validate(ctx, second.Data)
	require.NoError(t, err)

	// Assert
	assert.NotEqual(t, first.Data, second.Data)
	assert.False(t, oldResult.IsValid)
	assert.True(t, newResult.IsValid)
	assert.Equal(t, emp.ID, newResult.EmployeeID)
}

func TestQRCodeRepository_Validate_ClientErrorMeansInvalid(t *testing.T) {
	fake := backendtest.New(t)
	fake.Fail(http.MethodPost, "/qrcodes/validate", http.StatusBadRequest, "QR code expiré")
	repo := backend.NewQRCodeRepository(fake.Client(t))

	v, err := repo.Validate(context.Background(), "EMP:x")

	require.NoError(t, err)
	assert.Equal(t, qrcode.Validation{IsValid: false}, v)
}

func TestAuthenticator_Login(t *testing.T) {
	fake := backendtest.New(t)
	companyID := "co-x"
	fake.AddUser("caisse@acme.sn", "secret", user.RoleCashier, &companyID, "")
	a := backend.NewAuthenticator(fake.Client(t))

	login, err := a.Login(context.Background(), "caisse@acme.sn", "secret")
	require.NoError(t, err)
	_, badErr := a.Login(context.Background(), "caisse@acme.sn", "wrong")

	assert.NotEmpty(t, login.Token)
	assert.Equal(t, user.RoleCashier, login.User.Role)
	assert.ErrorIs(t, badErr, auth.ErrInvalidCredentials)

	profile, err := a.Profile(restclient.WithToken(context.Background(), login.Token))
	require.NoError(t, err)
	assert.Equal(t, "caisse@acme.sn", profile.Email)
}

func TestBackend_ServerErrorIsUnavailable(t *testing.T) {
	fake := backendtest.New(t)
	fake.Fail(http.MethodGet, "/payments", http.StatusInternalServerError, "boom")
	repo := backend.NewPaymentRepository(fake.Client(t))

	_, err := repo.List(context.Background(), "")

	assert.ErrorIs(t, err, restclient.ErrUnavailable)
}
