package qrcode

import "context"

type QRCodeRepository interface {
	Generate(ctx context.Context, employeeID string) (QRCode, error)
	Regenerate(ctx context.Context, employeeID string) (QRCode, error)
	GetByEmployee(ctx context.Context, employeeID string) (QRCode, error)
	GenerateBulk(ctx context.Context, companyID string) ([]BulkResult, error)
	Validate(ctx context.Context, qrData string) (Validation, error)
}
