package qrcode

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/attendance"
	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/paydesk/payroll-console/internal/domain/qrcode"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
	"github.com/paydesk/payroll-console/internal/pkg/qr"
	"github.com/paydesk/payroll-console/internal/repository/backend"
	"github.com/paydesk/payroll-console/internal/repository/backend/backendtest"
	attendancesvc "github.com/paydesk/payroll-console/internal/service/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checkInDay = time.Date(2025, time.March, 12, 8, 30, 0, 0, time.UTC)

func adminCtx(companyID string) context.Context {
	return auth.WithSession(context.Background(), &auth.Session{UserID: "u-admin", Role: user.RoleAdmin, CompanyID: &companyID})
}

func newService(t *testing.T) (*backendtest.Server, qrcode.QRCodeService) {
	t.Helper()
	fake := backendtest.New(t)
	fake.SetNow(checkInDay)
	client := fake.Client(t)
	employees := backend.NewEmployeeRepository(client)
	attendanceService := attendancesvc.NewAttendanceService(
		backend.NewAttendanceRepository(client),
		backend.NewAbsenceRepository(client),
		backend.NewPayRunRepository(client),
		employees,
		nil,
	)
	svc := NewQRCodeService(backend.NewQRCodeRepository(client), employees, attendanceService, nil)
	svc.(*QRCodeServiceImpl).now = func() time.Time { return checkInDay }
	return fake, svc
}

func TestRegenerate_VoidsPreviousCredential(t *testing.T) {
	// Arrange
	fake, svc := newService(t)
	co := fake.AddCompany("Atelier")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractDaily, 5000)
	ctx := adminCtx(co.ID)

	first, err := svc.Generate(ctx, emp.ID)
	require.NoError(t, err)

	// Act
	second, err := svc.Regenerate(ctx, emp.ID, true)
	require.NoError(t, err)
	oldResult, oldErr := svc.Validate(ctx, qrcode.ValidateRequest{QRData: first.Data})
	newResult, newErr := svc.Validate(ctx, qrcode.ValidateRequest{QRData: second.Data})

	// Assert
	require.NoError(t, oldErr)
	require.NoError(t, newErr)
	assert.NotEqual(t, first.Data, second.Data)
	assert.False(t, oldResult.IsValid)
	assert.True(t, newResult.IsValid)
	assert.Equal(t, emp.ID, newResult.EmployeeID)
	assert.Equal(t, second.Data, fake.QRCode(emp.ID))
}

func TestRegenerate_NeedsConfirmation(t *testing.T) {
	// Arrange
	fake, svc := newService(t)
	co := fake.AddCompany("Atelier")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractDaily, 5000)

	// Act
	_, err := svc.Regenerate(adminCtx(co.ID), emp.ID, false)

	// Assert
	assert.ErrorIs(t, err, confirm.ErrRequired)
	assert.Empty(t, fake.QRCode(emp.ID))
}

func TestValidate_OtherCompanyIsInvalid(t *testing.T) {
	// Arrange
	fake, svc := newService(t)
	mine := fake.AddCompany("Atelier")
	other := fake.AddCompany("Garage")
	emp := fake.AddEmployee(other.ID, "Moussa", "Fall", employee.ContractDaily, 5000)
	code, err := svc.Generate(context.Background(), emp.ID)
	require.NoError(t, err)

	// Act
	got, err := svc.Validate(adminCtx(mine.ID), qrcode.ValidateRequest{QRData: code.Data})

	// Assert
	require.NoError(t, err)
	assert.False(t, got.IsValid)
	assert.Nil(t, got.Employee)
}

func TestCheckIn_RecordsPresenceForToday(t *testing.T) {
	// Arrange
	fake, svc := newService(t)
	co := fake.AddCompany("Atelier")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractDaily, 5000)
	pr := fake.AddPayRun(co.ID, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), payroll.PayRunDraft)
	code, err := svc.Generate(context.Background(), emp.ID)
	require.NoError(t, err)

	// Act
	result, err := svc.CheckIn(context.Background(), qrcode.CheckInRequest{QRData: code.Data, PayRunID: pr.ID})

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "Awa Diop")
	require.NotNil(t, result.Attendance)
	assert.Equal(t, attendance.TypePresent, result.Attendance.Type)

	records := fake.Attendances()
	require.Len(t, records, 1)
	assert.Equal(t, emp.ID, records[0].EmployeeID)
	assert.Equal(t, "2025-03-12", attendance.DayString(records[0].Date))
}

func TestCheckIn_AfterPayRunPeriod(t *testing.T) {
	// Arrange
	fake, svc := newService(t)
	co := fake.AddCompany("Atelier")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractDaily, 5000)
	pr := fake.AddPayRun(co.ID, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), payroll.PayRunDraft)
	code, err := svc.Generate(context.Background(), emp.ID)
	require.NoError(t, err)

	// Act
	result, err := svc.CheckIn(context.Background(), qrcode.CheckInRequest{QRData: code.Data, PayRunID: pr.ID})

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Success)
	records := fake.Attendances()
	require.Len(t, records, 1)
	assert.Equal(t, "2025-03-12", attendance.DayString(records[0].Date))
}

func TestCheckIn_InvalidCredentialWritesNothing(t *testing.T) {
	// Arrange
	fake, svc := newService(t)
	co := fake.AddCompany("Atelier")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractDaily, 5000)
	pr := fake.AddPayRun(co.ID, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), payroll.PayRunDraft)
	code, err := svc.Generate(context.Background(), emp.ID)
	require.NoError(t, err)
	fake.SetEmployeeActive(emp.ID, false)

	// Act
	result, err := svc.CheckIn(context.Background(), qrcode.CheckInRequest{QRData: code.Data, PayRunID: pr.ID})

	// Assert
	assert.ErrorIs(t, err, qrcode.ErrInvalidCredential)
	assert.False(t, result.Success)
	assert.Empty(t, fake.Attendances())
}

func TestCheckInFromImage(t *testing.T) {
	// Arrange
	fake, svc := newService(t)
	co := fake.AddCompany("Atelier")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractDaily, 5000)
	pr := fake.AddPayRun(co.ID, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), payroll.PayRunDraft)
	code, err := svc.Generate(context.Background(), emp.ID)
	require.NoError(t, err)
	frame, err := qr.Encode(code.Data, qr.DefaultSize)
	require.NoError(t, err)

	// Act
	result, err := svc.CheckInFromImage(context.Background(), pr.ID, frame)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, fake.Attendances(), 1)
}

func TestCheckInFromImage_NoCodeDetected(t *testing.T) {
	// Arrange
	_, svc := newService(t)
	blank := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range blank.Pix {
		blank.Pix[i] = uint8(color.White.Y >> 8)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, blank))

	t.Run("blank frame", func(t *testing.T) {
		_, err := svc.CheckInFromImage(context.Background(), "pr-1", buf.Bytes())
		assert.ErrorIs(t, err, qrcode.ErrNoCodeDetected)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := svc.CheckInFromImage(context.Background(), "pr-1", []byte("not a frame"))
		assert.ErrorIs(t, err, qrcode.ErrNoCodeDetected)
	})
}

func TestRenderPNG(t *testing.T) {
	// Arrange
	fake, svc := newService(t)
	co := fake.AddCompany("Atelier")
	emp := fake.AddEmployee(co.ID, "Awa", "Diop", employee.ContractDaily, 5000)
	ctx := adminCtx(co.ID)
	code, err := svc.Generate(ctx, emp.ID)
	require.NoError(t, err)

	// Act
	rendered, err := svc.RenderPNG(ctx, emp.ID)

	// Assert
	require.NoError(t, err)
	decoded, err := qr.DecodeBytes(rendered)
	require.NoError(t, err)
	assert.Equal(t, code.Data, decoded)
}

func TestGenerateBulk_NeedsScope(t *testing.T) {
	// Arrange
	_, svc := newService(t)
	super := auth.WithSession(context.Background(), &auth.Session{UserID: "u-root", Role: user.RoleSuperAdmin})

	// Act
	_, err := svc.GenerateBulk(super)

	// Assert
	assert.ErrorIs(t, err, user.ErrCompanyIDRequired)
}
