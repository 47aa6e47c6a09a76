package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
	"github.com/paydesk/payroll-console/internal/pkg/document"
	"github.com/paydesk/payroll-console/internal/pkg/export"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payrollFixture struct {
	app     *testApp
	payRun  payroll.PayRun
	payslip payroll.Payslip
	admin   string
	cashier string
}

func newPayrollFixture(t *testing.T) payrollFixture {
	t.Helper()
	app := newTestApp(t)
	co := app.fake.AddCompany("Boulangerie Ndiaye")
	emp := app.fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractFixed, 120000)
	pr := app.fake.AddPayRun(co.ID, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), payroll.PayRunApproved)
	ps := app.fake.AddPayslip(pr.ID, emp.ID, 100000)
	app.fake.AddUser("admin@ndiaye.sn", "secret123", user.RoleAdmin, strPtr(co.ID), "")
	app.fake.AddUser("caisse@ndiaye.sn", "secret123", user.RoleCashier, strPtr(co.ID), "")

	return payrollFixture{
		app:     app,
		payRun:  pr,
		payslip: ps,
		admin:   app.login(t, "admin@ndiaye.sn", "secret123"),
		cashier: app.login(t, "caisse@ndiaye.sn", "secret123"),
	}
}

func TestPayRunRoutes_Permissions(t *testing.T) {
	f := newPayrollFixture(t)

	t.Run("cashier cannot close a pay run", func(t *testing.T) {
		// Act
		rr := f.app.do(t, http.MethodPost, "/api/v1/payruns/"+f.payRun.ID+"/close", f.cashier, nil, confirm.Header, "true")

		// Assert
		require.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, payroll.PayRunApproved, f.app.fake.PayRunStatus(f.payRun.ID))
	})

	t.Run("cashier can list pay runs", func(t *testing.T) {
		rr := f.app.do(t, http.MethodGet, "/api/v1/payruns", f.cashier, nil)
		assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	})
}

func TestPayRunRoutes_CloseNeedsConfirmation(t *testing.T) {
	// Arrange
	f := newPayrollFixture(t)
	before := f.app.fake.Mutations()

	// Act
	rr := f.app.do(t, http.MethodPost, "/api/v1/payruns/"+f.payRun.ID+"/close", f.admin, nil)

	// Assert
	require.Equal(t, http.StatusPreconditionRequired, rr.Code)
	assert.Equal(t, before, f.app.fake.Mutations())

	// Act
	rr = f.app.do(t, http.MethodPost, "/api/v1/payruns/"+f.payRun.ID+"/close", f.admin, nil, confirm.Header, "true")

	// Assert
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, payroll.PayRunClosed, f.app.fake.PayRunStatus(f.payRun.ID))
}

func TestSubmitPayment(t *testing.T) {
	f := newPayrollFixture(t)

	t.Run("invalid amount", func(t *testing.T) {
		before := f.app.fake.Mutations()

		// Act
		rr := f.app.do(t, http.MethodPost, "/api/v1/payments", f.cashier, map[string]any{
			"payslipId": f.payslip.ID,
			"amount":    "-10",
		})

		// Assert
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, decodeEnvelope(t, rr).Error.Details, "amount")
		assert.Equal(t, before, f.app.fake.Mutations())
	})

	t.Run("partial payment", func(t *testing.T) {
		// Act
		rr := f.app.do(t, http.MethodPost, "/api/v1/payments", f.cashier, map[string]any{
			"payslipId": f.payslip.ID,
			"amount":    40000,
			"method":    payroll.MethodMobileMoneyB,
		})

		// Assert
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var result payroll.SubmitPaymentResult
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &result))
		assert.True(t, result.Remaining.Equal(decimal.NewFromInt(60000)), result.Remaining.String())
		assert.False(t, result.Overpaid)
		require.Len(t, f.app.fake.Payments(), 1)
		assert.Equal(t, payroll.MethodMobileMoneyB, f.app.fake.Payments()[0].Method)
	})

	t.Run("unknown payslip", func(t *testing.T) {
		rr := f.app.do(t, http.MethodPost, "/api/v1/payments", f.cashier, map[string]any{
			"payslipId": "ps-missing",
			"amount":    "1000",
		})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestPayrollDocuments(t *testing.T) {
	// Arrange
	f := newPayrollFixture(t)
	f.app.fake.AddPayment(f.payslip.ID, 25000, payroll.MethodCash)

	t.Run("payslip document", func(t *testing.T) {
		// Act
		rr := f.app.do(t, http.MethodGet, "/api/v1/payslips/"+f.payslip.ID+"/document", f.admin, nil)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, document.ContentType, rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, rr.Body.String(), "Awa")
	})

	t.Run("payment export", func(t *testing.T) {
		// Act
		rr := f.app.do(t, http.MethodGet, "/api/v1/payments/export", f.admin, nil)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, export.ContentType, rr.Header().Get("Content-Type"))
		// xlsx files are zip archives
		assert.Equal(t, "PK", rr.Body.String()[:2])
	})
}
