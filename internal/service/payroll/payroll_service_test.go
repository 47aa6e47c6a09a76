package payroll

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
	"github.com/paydesk/payroll-console/internal/pkg/document"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
	"github.com/paydesk/payroll-console/internal/repository/backend"
	"github.com/paydesk/payroll-console/internal/repository/backend/backendtest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	got []dashboard.Invalidation
}

func (r *recorder) Invalidate(_ context.Context, inv dashboard.Invalidation) {
	r.got = append(r.got, inv)
}

func (r *recorder) actions() []string {
	out := make([]string, 0, len(r.got))
	for _, inv := range r.got {
		out = append(out, inv.Action)
	}
	return out
}

func adminCtx(companyID string) context.Context {
	return auth.WithSession(context.Background(), &auth.Session{UserID: "u-admin", Role: user.RoleAdmin, CompanyID: &companyID})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newServices(t *testing.T) (*backendtest.Server, payroll.PayRunService, payroll.PaymentService, *recorder) {
	t.Helper()
	fake := backendtest.New(t)
	client := fake.Client(t)
	rec := &recorder{}

	renderer, err := document.NewRenderer()
	require.NoError(t, err)

	payRunRepo := backend.NewPayRunRepository(client)
	payRuns := NewPayRunService(payRunRepo, rec)
	payments := NewPaymentService(payRunRepo, backend.NewPaymentRepository(client), renderer, rec)
	return fake, payRuns, payments, rec
}

func TestPayRunService_Lifecycle(t *testing.T) {
	// Arrange
	fake, payRuns, _, rec := newServices(t)
	co := fake.AddCompany("Boulangerie du Port")
	fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractFixed, 120000)
	fake.AddEmployee(co.ID, "Moussa", "Fall", employee.ContractFixed, 90000)
	ctx := adminCtx(co.ID)

	// Act
	created, err := payRuns.Create(ctx, payroll.CreatePayRunRequest{StartDate: "2025-01-01", EndDate: "2025-01-31"})
	require.NoError(t, err)
	generated, err := payRuns.GeneratePayslips(ctx, created.ID)
	require.NoError(t, err)
	approved, err := payRuns.Approve(ctx, created.ID)
	require.NoError(t, err)
	closed, err := payRuns.Close(ctx, created.ID, true)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, co.ID, created.CompanyID)
	assert.Equal(t, payroll.PayRunDraft, created.Status)
	assert.Contains(t, created.AllowedActions, payroll.ActionGeneratePayslips)

	assert.Equal(t, 2, generated.PayRun.PayslipCount)
	assert.NotContains(t, generated.PayRun.AllowedActions, payroll.ActionGeneratePayslips)
	require.Len(t, generated.PayRuns, 1)

	assert.Equal(t, payroll.PayRunApproved, approved.PayRun.Status)
	assert.Equal(t, []payroll.Action{payroll.ActionClose}, approved.PayRun.AllowedActions)

	assert.Equal(t, payroll.PayRunClosed, closed.PayRun.Status)
	assert.Empty(t, closed.PayRun.AllowedActions)
	assert.Equal(t, payroll.PayRunClosed, fake.PayRunStatus(created.ID))

	assert.Equal(t, []string{"payrun.create", "payrun.generate-payslips", "payrun.approve", "payrun.close"}, rec.actions())
}

// stalledList returns the list it read on entry only once release is closed.
type stalledList struct {
	payroll.PayRunRepository
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *stalledList) List(ctx context.Context, companyID string) ([]payroll.PayRun, error) {
	payRuns, err := r.PayRunRepository.List(ctx, companyID)
	stall := false
	r.once.Do(func() { stall = true })
	if stall {
		close(r.started)
		<-r.release
	}
	return payRuns, err
}

func TestPayRunService_TransitionRefetchIgnoresInFlightList(t *testing.T) {
	// Arrange
	fake := backendtest.New(t)
	repo := &stalledList{
		PayRunRepository: backend.NewPayRunRepository(fake.Client(t)),
		started:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	payRuns := NewPayRunService(repo, nil)
	co := fake.AddCompany("Atelier")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractFixed, 100000)
	pr := fake.AddPayRun(co.ID, day(2025, 3, 1), day(2025, 3, 31), payroll.PayRunDraft)
	fake.AddPayslip(pr.ID, emp.ID, 100000)
	ctx := adminCtx(co.ID)

	listed := make(chan []payroll.PayRunView, 1)
	go func() {
		views, _ := payRuns.List(ctx)
		listed <- views
	}()
	<-repo.started

	// Act
	approved := make(chan payroll.TransitionResult, 1)
	go func() {
		result, err := payRuns.Approve(ctx, pr.ID)
		assert.NoError(t, err)
		approved <- result
	}()
	var result payroll.TransitionResult
	select {
	case result = <-approved:
	case <-time.After(2 * time.Second):
		close(repo.release)
		result = <-approved
		t.Fatal("approve waited on a list started before the mutation")
	}
	close(repo.release)
	stale := <-listed

	// Assert
	require.Len(t, result.PayRuns, 1)
	assert.Equal(t, payroll.PayRunApproved, result.PayRuns[0].Status)
	assert.NotContains(t, result.PayRuns[0].AllowedActions, payroll.ActionApprove)
	require.Len(t, stale, 1)
	assert.Equal(t, payroll.PayRunDraft, stale[0].Status)
}

func TestPayRunService_GuardsRejectWithoutBackendCall(t *testing.T) {
	// Arrange
	fake, payRuns, _, _ := newServices(t)
	co := fake.AddCompany("Atelier")
	pr := fake.AddPayRun(co.ID, day(2025, 2, 1), day(2025, 2, 28), payroll.PayRunClosed)
	ctx := adminCtx(co.ID)
	before := fake.Mutations()

	// Act
	_, approveErr := payRuns.Approve(ctx, pr.ID)
	_, generateErr := payRuns.GeneratePayslips(ctx, pr.ID)
	_, closeErr := payRuns.Close(ctx, pr.ID, true)
	deleteErr := payRuns.Delete(ctx, pr.ID, true)

	// Assert
	assert.ErrorIs(t, approveErr, payroll.ErrInvalidTransition)
	assert.ErrorIs(t, generateErr, payroll.ErrInvalidTransition)
	assert.ErrorIs(t, closeErr, payroll.ErrInvalidTransition)
	assert.ErrorIs(t, deleteErr, payroll.ErrInvalidTransition)
	assert.Equal(t, before, fake.Mutations())
}

func TestPayRunService_GenerateTwice(t *testing.T) {
	// Arrange
	fake, payRuns, _, _ := newServices(t)
	co := fake.AddCompany("Atelier")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractFixed, 100000)
	pr := fake.AddPayRun(co.ID, day(2025, 3, 1), day(2025, 3, 31), payroll.PayRunDraft)
	fake.AddPayslip(pr.ID, emp.ID, 100000)

	// Act
	_, err := payRuns.GeneratePayslips(adminCtx(co.ID), pr.ID)

	// Assert
	assert.ErrorIs(t, err, payroll.ErrPayslipsAlreadyGenerated)
	assert.Zero(t, fake.CallCount("POST /payruns/"+pr.ID+"/generate-payslips"))
}

func TestPayRunService_CloseNeedsConfirmation(t *testing.T) {
	// Arrange
	fake, payRuns, _, _ := newServices(t)
	co := fake.AddCompany("Atelier")
	pr := fake.AddPayRun(co.ID, day(2025, 3, 1), day(2025, 3, 31), payroll.PayRunApproved)

	// Act
	_, err := payRuns.Close(adminCtx(co.ID), pr.ID, false)

	// Assert
	assert.ErrorIs(t, err, confirm.ErrRequired)
	assert.Equal(t, payroll.PayRunApproved, fake.PayRunStatus(pr.ID))
	assert.Zero(t, fake.Mutations())
}

func TestPayRunService_BackendConflictIsSurfaced(t *testing.T) {
	// Arrange
	fake, payRuns, _, rec := newServices(t)
	co := fake.AddCompany("Atelier")
	pr := fake.AddPayRun(co.ID, day(2025, 3, 1), day(2025, 3, 31), payroll.PayRunDraft)
	fake.Fail(http.MethodPost, "/payruns/"+pr.ID+"/approve", http.StatusConflict, "Transition de statut invalide")

	// Act
	_, err := payRuns.Approve(adminCtx(co.ID), pr.ID)

	// Assert
	assert.ErrorIs(t, err, restclient.ErrConflict)
	assert.Empty(t, rec.got)
	assert.Equal(t, payroll.PayRunDraft, fake.PayRunStatus(pr.ID))
}

func TestPayRunService_OtherCompanyIsDenied(t *testing.T) {
	// Arrange
	fake, payRuns, _, _ := newServices(t)
	mine := fake.AddCompany("Atelier")
	other := fake.AddCompany("Concurrent")
	pr := fake.AddPayRun(other.ID, day(2025, 3, 1), day(2025, 3, 31), payroll.PayRunDraft)

	// Act
	_, err := payRuns.Approve(adminCtx(mine.ID), pr.ID)

	// Assert
	assert.ErrorIs(t, err, user.ErrCompanyAccessDenied)
	assert.Equal(t, payroll.PayRunDraft, fake.PayRunStatus(pr.ID))
}

func TestPaymentService_PartialPayment(t *testing.T) {
	// Arrange
	fake, _, payments, rec := newServices(t)
	co := fake.AddCompany("Boulangerie du Port")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractFixed, 120000)
	pr := fake.AddPayRun(co.ID, day(2025, 1, 1), day(2025, 1, 31), payroll.PayRunApproved)
	ps := fake.AddPayslip(pr.ID, emp.ID, 120000)
	ctx := adminCtx(co.ID)

	// Act
	result, err := payments.Submit(ctx, payroll.SubmitPaymentRequest{PayslipID: ps.ID, Amount: "50000", Method: payroll.MethodCash})
	require.NoError(t, err)
	capture, captureErr := payments.OpenCapture(ctx, ps.ID)

	// Assert
	assert.True(t, decimal.NewFromInt(70000).Equal(result.Remaining), "remaining = %s", result.Remaining)
	assert.False(t, result.Overpaid)
	require.Len(t, result.Pending, 1)
	assert.Equal(t, payroll.PayslipPartial, result.Pending[0].Status)
	assert.True(t, decimal.NewFromInt(50000).Equal(result.Pending[0].Paid))
	assert.Equal(t, "Boulangerie du Port", result.Pending[0].Company.Name)
	require.Len(t, result.History, 1)

	require.NoError(t, captureErr)
	assert.True(t, decimal.NewFromInt(70000).Equal(capture.DefaultAmount))
	assert.Equal(t, payroll.MethodCash, capture.DefaultMethod)
	assert.Len(t, capture.Methods, 4)

	require.Len(t, rec.got, 1)
	assert.Equal(t, "payment.create", rec.got[0].Action)
	assert.Contains(t, rec.got[0].Aggregates, dashboard.AggregatePending)
	assert.Equal(t, co.ID, rec.got[0].CompanyID)
}

func TestPaymentService_SettledPayslipLeavesPending(t *testing.T) {
	// Arrange
	fake, _, payments, _ := newServices(t)
	co := fake.AddCompany("Atelier")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractFixed, 120000)
	pr := fake.AddPayRun(co.ID, day(2025, 1, 1), day(2025, 1, 31), payroll.PayRunApproved)
	ps := fake.AddPayslip(pr.ID, emp.ID, 120000)
	fake.AddPayment(ps.ID, 50000, payroll.MethodCash)

	// Act
	result, err := payments.Submit(adminCtx(co.ID), payroll.SubmitPaymentRequest{PayslipID: ps.ID, Amount: "70000", Method: payroll.MethodBankTransfer})

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Remaining.IsZero())
	assert.Empty(t, result.Pending)
	assert.Len(t, result.History, 2)
}

func TestPaymentService_OverpaymentIsFlagged(t *testing.T) {
	// Arrange
	fake, _, payments, _ := newServices(t)
	co := fake.AddCompany("Atelier")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractFixed, 100000)
	pr := fake.AddPayRun(co.ID, day(2025, 1, 1), day(2025, 1, 31), payroll.PayRunApproved)
	ps := fake.AddPayslip(pr.ID, emp.ID, 100000)

	// Act
	result, err := payments.Submit(adminCtx(co.ID), payroll.SubmitPaymentRequest{PayslipID: ps.ID, Amount: "130000"})

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Overpaid)
	assert.True(t, decimal.NewFromInt(30000).Equal(result.Overpayment))
	assert.Equal(t, payroll.MethodCash, result.Payment.Method)
}

func TestPaymentService_InvalidAmountNeverReachesBackend(t *testing.T) {
	// Arrange
	fake, _, payments, _ := newServices(t)
	co := fake.AddCompany("Atelier")

	// Act
	_, zeroErr := payments.Submit(adminCtx(co.ID), payroll.SubmitPaymentRequest{PayslipID: "ps-1", Amount: "0"})
	_, precisionErr := payments.Submit(adminCtx(co.ID), payroll.SubmitPaymentRequest{PayslipID: "ps-1", Amount: "10.123"})

	// Assert
	assert.Error(t, zeroErr)
	assert.Error(t, precisionErr)
	assert.Zero(t, fake.CallCount("POST /payments"))
}

func TestPaymentService_RemainingFollowsBackend(t *testing.T) {
	// Arrange
	fake, _, payments, _ := newServices(t)
	co := fake.AddCompany("Atelier")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractFixed, 100000)
	pr := fake.AddPayRun(co.ID, day(2025, 1, 1), day(2025, 1, 31), payroll.PayRunApproved)
	ps := fake.AddPayslip(pr.ID, emp.ID, 100000)
	ctx := adminCtx(co.ID)

	// Act
	partial, partialErr := payments.Submit(ctx, payroll.SubmitPaymentRequest{PayslipID: ps.ID, Amount: " 30000 "})
	over, overErr := payments.Submit(ctx, payroll.SubmitPaymentRequest{PayslipID: ps.ID, Amount: "90000"})

	// Assert
	require.NoError(t, partialErr)
	assert.True(t, decimal.NewFromInt(70000).Equal(partial.Remaining), "remaining = %s", partial.Remaining)

	require.NoError(t, overErr)
	assert.True(t, over.Overpaid)
	assert.True(t, decimal.NewFromInt(20000).Equal(over.Overpayment))
	assert.True(t, over.Remaining.IsZero(), "remaining = %s", over.Remaining)
	assert.Empty(t, over.Pending)
}

func TestPaymentService_UnknownPayslip(t *testing.T) {
	// Arrange
	fake, _, payments, _ := newServices(t)
	co := fake.AddCompany("Atelier")

	// Act
	_, err := payments.OpenCapture(adminCtx(co.ID), "ps-missing")

	// Assert
	assert.ErrorIs(t, err, payroll.ErrPayslipNotFound)
}

func TestPaymentService_DeleteNeedsConfirmation(t *testing.T) {
	// Arrange
	fake, _, payments, _ := newServices(t)
	co := fake.AddCompany("Atelier")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractFixed, 100000)
	pr := fake.AddPayRun(co.ID, day(2025, 1, 1), day(2025, 1, 31), payroll.PayRunApproved)
	ps := fake.AddPayslip(pr.ID, emp.ID, 100000)
	pay := fake.AddPayment(ps.ID, 40000, payroll.MethodCash)
	ctx := adminCtx(co.ID)

	// Act
	unconfirmed := payments.Delete(ctx, pay.ID, false)
	confirmed := payments.Delete(ctx, pay.ID, true)

	// Assert
	assert.ErrorIs(t, unconfirmed, confirm.ErrRequired)
	assert.NoError(t, confirmed)
	assert.Empty(t, fake.Payments())
}

func TestPaymentService_RenderDocuments(t *testing.T) {
	// Arrange
	fake, _, payments, _ := newServices(t)
	co := fake.AddCompany("Boulangerie du Port")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractFixed, 120000)
	pr := fake.AddPayRun(co.ID, day(2025, 1, 1), day(2025, 1, 31), payroll.PayRunApproved)
	ps := fake.AddPayslip(pr.ID, emp.ID, 120000)
	pay := fake.AddPayment(ps.ID, 50000, payroll.MethodCash)
	ctx := adminCtx(co.ID)

	// Act
	var slip, receipt bytes.Buffer
	slipName, slipErr := payments.RenderPayslip(ctx, ps.ID, &slip)
	receiptName, receiptErr := payments.RenderReceipt(ctx, pay.ID, &receipt)

	// Assert
	require.NoError(t, slipErr)
	assert.Contains(t, slipName, "bulletin_Awa_Diop")
	assert.Contains(t, slip.String(), "Boulangerie du Port")

	require.NoError(t, receiptErr)
	assert.Contains(t, receiptName, "recu_paiement_Awa_Diop")
	assert.Contains(t, receipt.String(), document.ReceiptNumber(pay.ID))
}

func TestPaymentService_ExportHistory(t *testing.T) {
	// Arrange
	fake, _, payments, _ := newServices(t)
	co := fake.AddCompany("Atelier")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractFixed, 100000)
	pr := fake.AddPayRun(co.ID, day(2025, 1, 1), day(2025, 1, 31), payroll.PayRunApproved)
	ps := fake.AddPayslip(pr.ID, emp.ID, 100000)
	fake.AddPayment(ps.ID, 40000, payroll.MethodCash)

	// Act
	var out bytes.Buffer
	name, err := payments.ExportHistory(adminCtx(co.ID), &out)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, name, "paiements_")
	assert.NotZero(t, out.Len())
}
