package payroll

import "context"

type PayRunRepository interface {
	List(ctx context.Context, companyID string) ([]PayRun, error)
	GetByID(ctx context.Context, id string) (PayRun, error)
	Create(ctx context.Context, req CreatePayRunRequest) (PayRun, error)
	Update(ctx context.Context, req UpdatePayRunRequest) (PayRun, error)
	Delete(ctx context.Context, id string) error
	GeneratePayslips(ctx context.Context, id string) error
	Approve(ctx context.Context, id string) error
	Close(ctx context.Context, id string) error
}

type PaymentRepository interface {
	List(ctx context.Context, companyID string) ([]Payment, error)
	GetByID(ctx context.Context, id string) (Payment, error)
	Create(ctx context.Context, p NewPayment) (Payment, error)
	Update(ctx context.Context, p PaymentPatch) (Payment, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, companyID string) (PaymentStats, error)
}
