package payroll

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/company"
	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
	"github.com/paydesk/payroll-console/internal/pkg/document"
	"github.com/paydesk/payroll-console/internal/pkg/export"
	"github.com/shopspring/decimal"
)

type PaymentServiceImpl struct {
	payRunRepo  payroll.PayRunRepository
	paymentRepo payroll.PaymentRepository
	renderer    *document.Renderer
	invalidator dashboard.Invalidator
	now         func() time.Time
}

func NewPaymentService(
	payRunRepo payroll.PayRunRepository,
	paymentRepo payroll.PaymentRepository,
	renderer *document.Renderer,
	invalidator dashboard.Invalidator,
) payroll.PaymentService {
	if invalidator == nil {
		invalidator = dashboard.Nop
	}
	return &PaymentServiceImpl{
		payRunRepo:  payRunRepo,
		paymentRepo: paymentRepo,
		renderer:    renderer,
		invalidator: invalidator,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Pending lists every payslip of the cycles in scope that is not fully paid.
func (s *PaymentServiceImpl) Pending(ctx context.Context) ([]payroll.PendingPayslip, error) {
	payRuns, err := s.payRunRepo.List(ctx, auth.CompanyScope(ctx))
	if err != nil {
		return nil, err
	}

	pending := make([]payroll.PendingPayslip, 0)
	for i := range payRuns {
		for j := range payRuns[i].Payslips {
			ps := &payRuns[i].Payslips[j]
			if ps.Status == payroll.PayslipPaid {
				continue
			}
			pending = append(pending, payroll.PendingView(ps, &payRuns[i]))
		}
	}
	return pending, nil
}

func (s *PaymentServiceImpl) OpenCapture(ctx context.Context, payslipID string) (payroll.PaymentCapture, error) {
	ps, pr, err := s.findPayslip(ctx, payslipID)
	if err != nil {
		return payroll.PaymentCapture{}, err
	}

	view := payroll.PendingView(&ps, &pr)
	defaultAmount := view.Remaining
	if defaultAmount.IsNegative() {
		defaultAmount = decimal.Zero
	}

	return payroll.PaymentCapture{
		Payslip:       view,
		DefaultAmount: defaultAmount,
		DefaultMethod: payroll.MethodCash,
		Methods:       payroll.PaymentMethods,
	}, nil
}

// Submit records a payment. Amounts above the remaining balance are accepted and
// flagged; the backend stays the judge of the resulting payslip status.
func (s *PaymentServiceImpl) Submit(ctx context.Context, req payroll.SubmitPaymentRequest) (payroll.SubmitPaymentResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.SubmitPaymentResult{}, err
	}
	amount, err := req.Amount.Decimal()
	if err != nil {
		return payroll.SubmitPaymentResult{}, fmt.Errorf("parse amount: %w", err)
	}

	ps, pr, err := s.findPayslip(ctx, req.PayslipID)
	if err != nil {
		return payroll.SubmitPaymentResult{}, err
	}
	remainingBefore := ps.Remaining()

	payment, err := s.paymentRepo.Create(ctx, payroll.NewPayment{
		PayslipID: req.PayslipID,
		Amount:    amount,
		Method:    req.Method,
		Reference: req.Reference,
	})
	if err != nil {
		return payroll.SubmitPaymentResult{}, err
	}

	result := payroll.SubmitPaymentResult{
		Payment:     payment,
		Remaining:   remainingBefore.Sub(amount),
		Overpayment: decimal.Zero,
	}
	if result.Remaining.IsNegative() {
		result.Overpaid = true
		result.Overpayment = result.Remaining.Neg()
		slog.Warn("Payment exceeds remaining balance",
			"payslip_id", req.PayslipID,
			"amount", amount.String(),
			"overpayment", result.Overpayment.String(),
		)
	}
	slog.Info("Payment recorded", "payment_id", payment.ID, "payslip_id", req.PayslipID, "method", req.Method)

	if result.Pending, err = s.Pending(ctx); err != nil {
		slog.Warn("Refetch of pending payslips failed", "payslip_id", req.PayslipID, "error", err)
	} else {
		result.Remaining = remainingAfter(result.Pending, req.PayslipID)
	}
	if result.History, err = s.History(ctx); err != nil {
		slog.Warn("Refetch of payment history failed", "payslip_id", req.PayslipID, "error", err)
	}

	s.invalidate(ctx, pr.CompanyID, "payment.create", payment.ID,
		dashboard.AggregatePayments, dashboard.AggregatePending, dashboard.AggregatePayRuns, dashboard.AggregateOverview)
	return result, nil
}

func (s *PaymentServiceImpl) History(ctx context.Context) ([]payroll.Payment, error) {
	return s.paymentRepo.List(ctx, auth.CompanyScope(ctx))
}

func (s *PaymentServiceImpl) GetByID(ctx context.Context, id string) (payroll.Payment, error) {
	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.Payment{}, err
	}
	if err := auth.EnsureCompany(ctx, paymentCompany(&p)); err != nil {
		return payroll.Payment{}, err
	}
	return p, nil
}

func (s *PaymentServiceImpl) Update(ctx context.Context, req payroll.UpdatePaymentRequest) (payroll.Payment, error) {
	if err := req.Validate(); err != nil {
		return payroll.Payment{}, err
	}
	current, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.Payment{}, err
	}

	patch := payroll.PaymentPatch{ID: req.ID, Method: req.Method, Reference: req.Reference}
	if req.Amount != nil {
		amount, err := req.Amount.Decimal()
		if err != nil {
			return payroll.Payment{}, fmt.Errorf("parse amount: %w", err)
		}
		patch.Amount = &amount
	}

	updated, err := s.paymentRepo.Update(ctx, patch)
	if err != nil {
		return payroll.Payment{}, err
	}

	s.invalidate(ctx, paymentCompany(&current), "payment.update", req.ID,
		dashboard.AggregatePayments, dashboard.AggregatePending, dashboard.AggregateOverview)
	return updated, nil
}

func (s *PaymentServiceImpl) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := confirm.Require(confirmed); err != nil {
		return err
	}
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("Payment deleted", "payment_id", id, "payslip_id", current.PayslipID)
	s.invalidate(ctx, paymentCompany(&current), "payment.delete", id,
		dashboard.AggregatePayments, dashboard.AggregatePending, dashboard.AggregateOverview)
	return nil
}

func (s *PaymentServiceImpl) Stats(ctx context.Context) (payroll.PaymentStats, error) {
	return s.paymentRepo.Stats(ctx, auth.CompanyScope(ctx))
}

func (s *PaymentServiceImpl) RenderPayslip(ctx context.Context, payslipID string, w io.Writer) (string, error) {
	ps, pr, err := s.findPayslip(ctx, payslipID)
	if err != nil {
		return "", err
	}

	doc := document.Payslip{
		Company:     branding(&pr),
		Employee:    document.NewParty(ps.Employee),
		PeriodLabel: pr.PeriodLabel(),
		Gross:       ps.Gross,
		Deductions:  ps.Deductions,
		Net:         ps.Net,
		Paid:        ps.PaidTotal(),
		Remaining:   ps.Remaining(),
		Status:      ps.Status,
		IssuedAt:    s.now(),
	}

	var buf bytes.Buffer
	if err := s.renderer.RenderPayslip(&buf, doc); err != nil {
		return "", err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return "", err
	}
	return doc.Filename(), nil
}

func (s *PaymentServiceImpl) RenderReceipt(ctx context.Context, paymentID string, w io.Writer) (string, error) {
	p, err := s.GetByID(ctx, paymentID)
	if err != nil {
		return "", err
	}

	ps, pr, err := s.findPayslip(ctx, p.PayslipID)
	if err != nil {
		return "", err
	}

	doc := document.Receipt{
		Number:      document.ReceiptNumber(p.ID),
		Company:     branding(&pr),
		Employee:    document.NewParty(ps.Employee),
		PeriodLabel: pr.PeriodLabel(),
		PaidAt:      p.CreatedAt,
		Method:      p.Method,
		Amount:      p.Amount,
		Gross:       ps.Gross,
		Deductions:  ps.Deductions,
		Net:         ps.Net,
		IssuedAt:    s.now(),
	}
	if p.Reference != nil {
		doc.Reference = *p.Reference
	}

	var buf bytes.Buffer
	if err := s.renderer.RenderReceipt(&buf, doc); err != nil {
		return "", err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return "", err
	}
	return doc.Filename(), nil
}

func (s *PaymentServiceImpl) ExportHistory(ctx context.Context, w io.Writer) (string, error) {
	history, err := s.History(ctx)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := export.WritePayments(&buf, history); err != nil {
		return "", err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return "", err
	}
	return export.PaymentsFilename(s.now()), nil
}

// findPayslip locates a payslip among the cycles in scope. Payslips have no
// endpoint of their own.
func (s *PaymentServiceImpl) findPayslip(ctx context.Context, payslipID string) (payroll.Payslip, payroll.PayRun, error) {
	payRuns, err := s.payRunRepo.List(ctx, auth.CompanyScope(ctx))
	if err != nil {
		return payroll.Payslip{}, payroll.PayRun{}, err
	}
	for _, pr := range payRuns {
		for _, ps := range pr.Payslips {
			if ps.ID == payslipID {
				return ps, pr, nil
			}
		}
	}
	return payroll.Payslip{}, payroll.PayRun{}, payroll.ErrPayslipNotFound
}

func (s *PaymentServiceImpl) invalidate(ctx context.Context, companyID, action, entityID string, aggregates ...dashboard.Aggregate) {
	s.invalidator.Invalidate(ctx, dashboard.NewInvalidation(ctx, companyID, action, entityID, aggregates...))
}

func branding(pr *payroll.PayRun) company.Branding {
	if pr.Company == nil {
		return company.Branding{}
	}
	return pr.Company.Branding()
}

func paymentCompany(p *payroll.Payment) string {
	if p.Payslip != nil && p.Payslip.PayRun != nil {
		return p.Payslip.PayRun.CompanyID
	}
	return ""
}

// remainingAfter reads the balance the backend reports once the payment is in.
// A payslip missing from the pending list is settled.
func remainingAfter(pending []payroll.PendingPayslip, payslipID string) decimal.Decimal {
	for _, p := range pending {
		if p.ID == payslipID {
			if p.Remaining.IsNegative() {
				return decimal.Zero
			}
			return p.Remaining
		}
	}
	return decimal.Zero
}
