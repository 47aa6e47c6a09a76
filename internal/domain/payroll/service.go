package payroll

import (
	"context"
	"io"
)

type PayRunService interface {
	List(ctx context.Context) ([]PayRunView, error)
	GetByID(ctx context.Context, id string) (PayRunView, error)
	Create(ctx context.Context, req CreatePayRunRequest) (PayRunView, error)
	Update(ctx context.Context, req UpdatePayRunRequest) (PayRunView, error)
	Delete(ctx context.Context, id string, confirmed bool) error

	GeneratePayslips(ctx context.Context, id string) (TransitionResult, error)
	Approve(ctx context.Context, id string) (TransitionResult, error)
	Close(ctx context.Context, id string, confirmed bool) (TransitionResult, error)
}

type PaymentService interface {
	Pending(ctx context.Context) ([]PendingPayslip, error)
	OpenCapture(ctx context.Context, payslipID string) (PaymentCapture, error)
	Submit(ctx context.Context, req SubmitPaymentRequest) (SubmitPaymentResult, error)

	History(ctx context.Context) ([]Payment, error)
	GetByID(ctx context.Context, id string) (Payment, error)
	Update(ctx context.Context, req UpdatePaymentRequest) (Payment, error)
	Delete(ctx context.Context, id string, confirmed bool) error
	Stats(ctx context.Context) (PaymentStats, error)

	RenderPayslip(ctx context.Context, payslipID string, w io.Writer) (filename string, err error)
	RenderReceipt(ctx context.Context, paymentID string, w io.Writer) (filename string, err error)
	ExportHistory(ctx context.Context, w io.Writer) (filename string, err error)
}
