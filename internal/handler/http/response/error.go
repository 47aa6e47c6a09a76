package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/paydesk/payroll-console/internal/domain/attendance"
	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/company"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/domain/leave"
	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/paydesk/payroll-console/internal/domain/qrcode"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
	"github.com/paydesk/payroll-console/internal/pkg/idempotency"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
	"github.com/paydesk/payroll-console/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Destructive actions
	case errors.Is(err, confirm.ErrRequired):
		PreconditionRequired(w, err.Error())
	case errors.Is(err, idempotency.ErrInProgress):
		Conflict(w, err.Error())

	// Auth and scope
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrSessionExpired),
		errors.Is(err, auth.ErrSessionNotFound),
		errors.Is(err, auth.ErrNoSession):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrSelectionForbidden),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrCompanyAccessDenied):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrCompanyIDRequired):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, err.Error())

	// Companies and employees
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, company.ErrInvalidLogoFormat),
		errors.Is(err, company.ErrLogoTooLarge):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered in this company")

	// Pay runs and payments
	case errors.Is(err, payroll.ErrPayRunNotFound):
		NotFound(w, "Pay run not found")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrPaymentNotFound):
		NotFound(w, "Payment not found")
	case errors.Is(err, payroll.ErrInvalidTransition),
		errors.Is(err, payroll.ErrPayRunClosed),
		errors.Is(err, payroll.ErrPayslipsAlreadyGenerated):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	// Attendance
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance not found")
	case errors.Is(err, attendance.ErrPayRunClosed):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrInvalidHours):
		BadRequest(w, err.Error(), nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrInvalidDateRange),
		errors.Is(err, leave.ErrEmployeeProfileRequired):
		BadRequest(w, err.Error(), nil)

	// QR credentials
	case errors.Is(err, qrcode.ErrQRCodeNotFound):
		NotFound(w, "QR code not found")
	case errors.Is(err, qrcode.ErrInvalidCredential),
		errors.Is(err, qrcode.ErrNoCodeDetected):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, qrcode.ErrScanThrottled):
		TooManyRequests(w, err.Error())

	default:
		handleBackendError(w, err)
	}
}

// handleBackendError surfaces the payroll backend's own message when it gave one.
func handleBackendError(w http.ResponseWriter, err error) {
	var apiErr *restclient.APIError
	if !errors.As(err, &apiErr) {
		if errors.Is(err, restclient.ErrUnavailable) {
			slog.Error("payroll backend unreachable", "error", err)
			BadGateway(w, "Le serveur de paie est injoignable")
			return
		}
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	msg := apiErr.UserMessage()
	switch {
	case errors.Is(err, restclient.ErrUnauthorized):
		Unauthorized(w, msg)
	case errors.Is(err, restclient.ErrForbidden):
		Forbidden(w, msg)
	case errors.Is(err, restclient.ErrNotFound):
		NotFound(w, msg)
	case errors.Is(err, restclient.ErrConflict):
		Conflict(w, msg)
	case errors.Is(err, restclient.ErrBadRequest):
		BadRequest(w, msg, nil)
	default:
		slog.Error("payroll backend failure", "status", apiErr.StatusCode, "path", apiErr.Path, "error", err)
		BadGateway(w, msg)
	}
}
