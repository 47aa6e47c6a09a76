package qrcode

import "github.com/paydesk/payroll-console/internal/pkg/validator"

type ValidateRequest struct {
	QRData string `json:"qrData"`
}

func (r *ValidateRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.QRData) {
		errs.Add("qrData", "qrData is required")
	}
	return errs.OrNil()
}

// CheckInRequest records presence for today in the given pay run once the credential validates.
type CheckInRequest struct {
	QRData   string `json:"qrData"`
	PayRunID string `json:"payRunId"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.QRData) {
		errs.Add("qrData", "qrData is required")
	}
	if validator.IsEmpty(r.PayRunID) {
		errs.Add("payRunId", "payRunId is required")
	}
	return errs.OrNil()
}
