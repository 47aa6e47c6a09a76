package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	"github.com/paydesk/payroll-console/internal/handler/http/middleware"
	"github.com/paydesk/payroll-console/internal/pkg/authz"
	"github.com/paydesk/payroll-console/internal/pkg/document"
	"github.com/paydesk/payroll-console/internal/pkg/jwt"
	"github.com/paydesk/payroll-console/internal/pkg/sse"
	"github.com/paydesk/payroll-console/internal/repository/backend"
	"github.com/paydesk/payroll-console/internal/repository/backend/backendtest"
	"github.com/paydesk/payroll-console/internal/repository/memory"
	attendanceService "github.com/paydesk/payroll-console/internal/service/attendance"
	serviceAuth "github.com/paydesk/payroll-console/internal/service/auth"
	serviceCompany "github.com/paydesk/payroll-console/internal/service/company"
	dashboardService "github.com/paydesk/payroll-console/internal/service/dashboard"
	employeeService "github.com/paydesk/payroll-console/internal/service/employee"
	leaveService "github.com/paydesk/payroll-console/internal/service/leave"
	payrollService "github.com/paydesk/payroll-console/internal/service/payroll"
	qrcodeService "github.com/paydesk/payroll-console/internal/service/qrcode"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

// testApp is the console wired end to end against the fake payroll backend.
type testApp struct {
	fake     *backendtest.Server
	sessions *memory.SessionRepository
	hub      *sse.Hub
	router   http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	fake := backendtest.New(t)
	client := fake.Client(t)

	authorizer, err := authz.NewAuthorizer()
	require.NoError(t, err)
	renderer, err := document.NewRenderer()
	require.NoError(t, err)

	sessions := memory.NewSessionRepository()
	activity := memory.NewActivityRepository(0)
	hub := sse.NewHub()
	invalidator := dashboard.Invalidators{hub, dashboard.Journal(activity)}

	userRepo := backend.NewUserRepository(client)
	companyRepo := backend.NewCompanyRepository(client)
	employeeRepo := backend.NewEmployeeRepository(client)
	payRunRepo := backend.NewPayRunRepository(client)
	paymentRepo := backend.NewPaymentRepository(client)

	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour)
	authSvc := serviceAuth.NewAuthService(sessions, backend.NewAuthenticator(client), jwtService, userRepo, companyRepo, authorizer, 8*time.Hour)
	attendanceSvc := attendanceService.NewAttendanceService(backend.NewAttendanceRepository(client), backend.NewAbsenceRepository(client), payRunRepo, employeeRepo, invalidator)
	scanLimiter := middleware.NewScanLimiter(2 * time.Second)

	router := NewRouter(RouterOptions{
		AllowedOrigins: []string{"http://localhost:3000"},
		JWTService:     jwtService,
		Sessions:       authSvc,
		Authorizer:     authorizer,
		ScanLimiter:    scanLimiter,
	}, Handlers{
		Auth:       NewAuthHandler(authSvc, scanLimiter),
		Company:    NewCompanyHandler(serviceCompany.NewCompanyService(companyRepo, invalidator)),
		Employee:   NewEmployeeHandler(employeeService.NewEmployeeService(employeeRepo, invalidator)),
		Payroll:    NewPayrollHandler(payrollService.NewPayRunService(payRunRepo, invalidator), payrollService.NewPaymentService(payRunRepo, paymentRepo, renderer, invalidator)),
		Attendance: NewAttendanceHandler(attendanceSvc),
		Leave:      NewLeaveHandler(leaveService.NewLeaveService(backend.NewLeaveRepository(client), employeeRepo, invalidator)),
		QRCode:     NewQRCodeHandler(qrcodeService.NewQRCodeService(backend.NewQRCodeRepository(client), employeeRepo, attendanceSvc, invalidator)),
		Dashboard:  NewDashboardHandler(dashboardService.NewDashboardService(payRunRepo, paymentRepo, employeeRepo, backend.NewStatsRepository(client), activity, nil)),
		Events:     NewEventsHandler(hub),
	})

	return &testApp{fake: fake, sessions: sessions, hub: hub, router: router}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func (a *testApp) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

// login signs in through the API and returns the console access token.
func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var data struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &data))
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func strPtr(s string) *string { return &s }
