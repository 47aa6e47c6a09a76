package qrcode

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/attendance"
	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/domain/qrcode"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
	"github.com/paydesk/payroll-console/internal/pkg/qr"
	"github.com/paydesk/payroll-console/internal/pkg/validator"
)

type QRCodeServiceImpl struct {
	qrRepo       qrcode.QRCodeRepository
	employeeRepo employee.EmployeeRepository
	attendance   attendance.AttendanceService
	invalidator  dashboard.Invalidator
	now          func() time.Time
}

func NewQRCodeService(
	qrRepo qrcode.QRCodeRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceService attendance.AttendanceService,
	invalidator dashboard.Invalidator,
) qrcode.QRCodeService {
	if invalidator == nil {
		invalidator = dashboard.Nop
	}
	return &QRCodeServiceImpl{
		qrRepo:       qrRepo,
		employeeRepo: employeeRepo,
		attendance:   attendanceService,
		invalidator:  invalidator,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Generate returns the employee's credential, issuing one when none exists.
func (s *QRCodeServiceImpl) Generate(ctx context.Context, employeeID string) (qrcode.QRCode, error) {
	emp, err := s.employee(ctx, employeeID)
	if err != nil {
		return qrcode.QRCode{}, err
	}

	code, err := s.qrRepo.Generate(ctx, employeeID)
	if err != nil {
		return qrcode.QRCode{}, err
	}

	s.invalidate(ctx, emp.CompanyID, "qrcode.generate", employeeID)
	return code, nil
}

// Regenerate voids the current credential and issues a new one.
func (s *QRCodeServiceImpl) Regenerate(ctx context.Context, employeeID string, confirmed bool) (qrcode.QRCode, error) {
	if err := confirm.Require(confirmed); err != nil {
		return qrcode.QRCode{}, err
	}
	emp, err := s.employee(ctx, employeeID)
	if err != nil {
		return qrcode.QRCode{}, err
	}

	code, err := s.qrRepo.Regenerate(ctx, employeeID)
	if err != nil {
		return qrcode.QRCode{}, err
	}

	slog.Info("QR code regenerated", "employee_id", employeeID, "qr_code_id", code.ID)
	s.invalidate(ctx, emp.CompanyID, "qrcode.regenerate", employeeID)
	return code, nil
}

func (s *QRCodeServiceImpl) GetByEmployee(ctx context.Context, employeeID string) (qrcode.QRCode, error) {
	if _, err := s.employee(ctx, employeeID); err != nil {
		return qrcode.QRCode{}, err
	}
	return s.qrRepo.GetByEmployee(ctx, employeeID)
}

func (s *QRCodeServiceImpl) RenderPNG(ctx context.Context, employeeID string) ([]byte, error) {
	code, err := s.GetByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return qr.Encode(code.Data, qr.DefaultSize)
}

func (s *QRCodeServiceImpl) GenerateBulk(ctx context.Context) ([]qrcode.BulkResult, error) {
	companyID := auth.CompanyScope(ctx)
	if companyID == "" {
		return nil, user.ErrCompanyIDRequired
	}

	results, err := s.qrRepo.GenerateBulk(ctx, companyID)
	if err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	slog.Info("QR codes generated in bulk", "company_id", companyID, "total", len(results), "failed", failed)
	s.invalidate(ctx, companyID, "qrcode.generate-bulk", "")
	return results, nil
}

// Validate checks a scanned payload. A credential of an employee outside the
// caller's company is reported invalid.
func (s *QRCodeServiceImpl) Validate(ctx context.Context, req qrcode.ValidateRequest) (qrcode.Validation, error) {
	if err := req.Validate(); err != nil {
		return qrcode.Validation{}, err
	}

	v, err := s.qrRepo.Validate(ctx, req.QRData)
	if err != nil {
		return qrcode.Validation{}, err
	}
	if v.IsValid && v.Employee != nil {
		if err := auth.EnsureCompany(ctx, v.Employee.CompanyID); err != nil {
			return qrcode.Validation{IsValid: false}, nil
		}
	}
	return v, nil
}

// CheckIn validates the credential then records the employee present today (UTC)
// in the pay run.
func (s *QRCodeServiceImpl) CheckIn(ctx context.Context, req qrcode.CheckInRequest) (qrcode.CheckInResult, error) {
	if err := req.Validate(); err != nil {
		return qrcode.CheckInResult{}, err
	}

	v, err := s.Validate(ctx, qrcode.ValidateRequest{QRData: req.QRData})
	if err != nil {
		return qrcode.CheckInResult{}, err
	}
	if !v.IsValid || v.EmployeeID == "" {
		return qrcode.CheckInResult{Message: qrcode.ErrInvalidCredential.Error()}, qrcode.ErrInvalidCredential
	}

	recorded, err := s.attendance.RecordSingle(ctx, attendance.RecordRequest{
		EmployeeID: v.EmployeeID,
		PayRunID:   req.PayRunID,
		Date:       s.now().Format(validator.DateLayout),
		Type:       attendance.TypePresent,
	})
	if err != nil {
		slog.Warn("QR check-in not recorded", "employee_id", v.EmployeeID, "pay_run_id", req.PayRunID, "error", err)
		return qrcode.CheckInResult{Employee: v.Employee, Message: err.Error()}, err
	}

	name := v.EmployeeID
	if v.Employee != nil {
		name = v.Employee.FullName()
	}
	slog.Info("QR check-in recorded", "employee_id", v.EmployeeID, "pay_run_id", req.PayRunID)
	return qrcode.CheckInResult{
		Success:    true,
		Message:    "Présence enregistrée pour " + name,
		Employee:   v.Employee,
		Attendance: &recorded.Attendance,
	}, nil
}

// CheckInFromImage reads the credential out of an uploaded camera frame.
func (s *QRCodeServiceImpl) CheckInFromImage(ctx context.Context, payRunID string, image []byte) (qrcode.CheckInResult, error) {
	payload, err := qr.DecodeBytes(image)
	if err != nil {
		slog.Debug("QR frame rejected", "pay_run_id", payRunID, "error", err)
		return qrcode.CheckInResult{Message: qrcode.ErrNoCodeDetected.Error()}, fmt.Errorf("%w: %v", qrcode.ErrNoCodeDetected, err)
	}
	return s.CheckIn(ctx, qrcode.CheckInRequest{QRData: payload, PayRunID: payRunID})
}

func (s *QRCodeServiceImpl) employee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}
	if err := auth.EnsureCompany(ctx, emp.CompanyID); err != nil {
		return employee.Employee{}, err
	}
	return emp, nil
}

func (s *QRCodeServiceImpl) invalidate(ctx context.Context, companyID, action, entityID string) {
	s.invalidator.Invalidate(ctx, dashboard.NewInvalidation(ctx, companyID, action, entityID,
		dashboard.AggregateQRCodes, dashboard.AggregateEmployees))
}
