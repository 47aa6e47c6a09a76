package qrcode

import "context"

type QRCodeService interface {
	Generate(ctx context.Context, employeeID string) (QRCode, error)
	Regenerate(ctx context.Context, employeeID string, confirmed bool) (QRCode, error)
	GetByEmployee(ctx context.Context, employeeID string) (QRCode, error)
	RenderPNG(ctx context.Context, employeeID string) ([]byte, error)
	GenerateBulk(ctx context.Context) ([]BulkResult, error)
	Validate(ctx context.Context, req ValidateRequest) (Validation, error)

	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResult, error)
	CheckInFromImage(ctx context.Context, payRunID string, image []byte) (CheckInResult, error)
}
