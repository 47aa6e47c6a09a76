package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
)

type paymentRepository struct {
	client *restclient.Client
}

func NewPaymentRepository(client *restclient.Client) payroll.PaymentRepository {
	return &paymentRepository{client: client}
}

// paymentBody carries amounts as JSON numbers, the backend rejects strings.
type paymentBody struct {
	PayslipID string                 `json:"payslipId,omitempty"`
	Amount    *float64               `json:"amount,omitempty"`
	Method    *payroll.PaymentMethod `json:"method,omitempty"`
	Reference *string                `json:"reference,omitempty"`
}

func (r *paymentRepository) List(ctx context.Context, companyID string) ([]payroll.Payment, error) {
	var payments []payroll.Payment
	if err := get(ctx, r.client, "/payments", companyQuery(companyID), "payments", &payments); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (payroll.Payment, error) {
	var p payroll.Payment
	if err := get(ctx, r.client, "/payments/"+escape(id), nil, "payment", &p); err != nil {
		return payroll.Payment{}, translate(err, payroll.ErrPaymentNotFound)
	}
	return p, nil
}

func (r *paymentRepository) Create(ctx context.Context, np payroll.NewPayment) (payroll.Payment, error) {
	amount := np.Amount.InexactFloat64()
	method := np.Method
	body := paymentBody{
		PayslipID: np.PayslipID,
		Amount:    &amount,
		Method:    &method,
		Reference: np.Reference,
	}

	var p payroll.Payment
	if err := call(ctx, r.client, http.MethodPost, "/payments", nil, body, "payment", &p); err != nil {
		return payroll.Payment{}, translate(err, payroll.ErrPayslipNotFound)
	}
	return p, nil
}

func (r *paymentRepository) Update(ctx context.Context, patch payroll.PaymentPatch) (payroll.Payment, error) {
	body := paymentBody{Method: patch.Method, Reference: patch.Reference}
	if patch.Amount != nil {
		amount := patch.Amount.InexactFloat64()
		body.Amount = &amount
	}

	var p payroll.Payment
	if err := call(ctx, r.client, http.MethodPut, "/payments/"+escape(patch.ID), nil, body, "payment", &p); err != nil {
		return payroll.Payment{}, translate(err, payroll.ErrPaymentNotFound)
	}
	return p, nil
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	return translate(r.client.Delete(ctx, "/payments/"+escape(id)), payroll.ErrPaymentNotFound)
}

func (r *paymentRepository) Stats(ctx context.Context, companyID string) (payroll.PaymentStats, error) {
	var stats payroll.PaymentStats
	if err := get(ctx, r.client, "/payments/stats", companyQuery(companyID), "stats", &stats); err != nil {
		return payroll.PaymentStats{}, fmt.Errorf("payment stats: %w", err)
	}
	return stats, nil
}
