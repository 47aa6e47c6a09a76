package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/paydesk/payroll-console/internal/domain/qrcode"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
)

type qrCodeRepository struct {
	client *restclient.Client
}

func NewQRCodeRepository(client *restclient.Client) qrcode.QRCodeRepository {
	return &qrCodeRepository{client: client}
}

func (r *qrCodeRepository) Generate(ctx context.Context, employeeID string) (qrcode.QRCode, error) {
	return r.issue(ctx, employeeID, "generate")
}

func (r *qrCodeRepository) Regenerate(ctx context.Context, employeeID string) (qrcode.QRCode, error) {
	return r.issue(ctx, employeeID, "regenerate")
}

func (r *qrCodeRepository) issue(ctx context.Context, employeeID, action string) (qrcode.QRCode, error) {
	var code qrcode.QRCode
	path := "/qrcodes/employee/" + escape(employeeID) + "/" + action
	if err := call(ctx, r.client, http.MethodPost, path, nil, nil, "qrCode", &code); err != nil {
		return qrcode.QRCode{}, fmt.Errorf("%s qr code: %w", action, err)
	}
	return code, nil
}

func (r *qrCodeRepository) GetByEmployee(ctx context.Context, employeeID string) (qrcode.QRCode, error) {
	var code qrcode.QRCode
	if err := get(ctx, r.client, "/qrcodes/employee/"+escape(employeeID), nil, "qrCode", &code); err != nil {
		return qrcode.QRCode{}, translate(err, qrcode.ErrQRCodeNotFound)
	}
	return code, nil
}

func (r *qrCodeRepository) GenerateBulk(ctx context.Context, companyID string) ([]qrcode.BulkResult, error) {
	var results []qrcode.BulkResult
	path := "/qrcodes/company/" + escape(companyID) + "/generate-bulk"
	if err := call(ctx, r.client, http.MethodPost, path, nil, nil, "results", &results); err != nil {
		return nil, fmt.Errorf("bulk generate qr codes: %w", err)
	}
	return results, nil
}

// Validate treats a 4xx answer as an invalid credential rather than a failure.
func (r *qrCodeRepository) Validate(ctx context.Context, qrData string) (qrcode.Validation, error) {
	body := struct {
		QRData string `json:"qrData"`
	}{QRData: qrData}

	var v qrcode.Validation
	err := call(ctx, r.client, http.MethodPost, "/qrcodes/validate", nil, body, "", &v)
	if err != nil {
		var apiErr *restclient.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 &&
			apiErr.StatusCode != http.StatusUnauthorized {
			return qrcode.Validation{IsValid: false}, nil
		}
		return qrcode.Validation{}, fmt.Errorf("validate qr code: %w", err)
	}
	return v, nil
}
