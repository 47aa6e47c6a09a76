// Package backendtest runs an in-memory payroll backend for tests. It keeps
// just enough state to exercise the console: lifecycle guards answer 409,
// payments fold payslip status, regenerated QR codes void the previous one.
package backendtest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/paydesk/payroll-console/internal/domain/attendance"
	"github.com/paydesk/payroll-console/internal/domain/company"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/domain/leave"
	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/paydesk/payroll-console/internal/domain/qrcode"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
)

// Call is one request received by the fake.
type Call struct {
	Method string
	Path   string
	Token  string
}

func (c Call) String() string {
	return c.Method + " " + c.Path
}

type failure struct {
	status  int
	message string
}

type account struct {
	user     user.User
	password string
}

type Server struct {
	srv *httptest.Server

	mu          sync.Mutex
	seq         int
	now         func() time.Time
	calls       []Call
	failures    map[string]failure
	companies   []*company.Company
	employees   []*employee.Employee
	payRuns     []*payroll.PayRun
	payslips    []*payroll.Payslip
	payments    []*payroll.Payment
	attendances []*attendance.Attendance
	leaves      []*leave.LeaveRequest
	qrCodes     map[string]*qrcode.QRCode
	accounts    []*account
	tokens      map[string]string
	myEmployee  map[string]string
}

// New starts a fake backend stopped when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		now:        func() time.Time { return time.Now().UTC() },
		failures:   make(map[string]failure),
		qrCodes:    make(map[string]*qrcode.QRCode),
		tokens:     make(map[string]string),
		myEmployee: make(map[string]string),
	}
	s.srv = httptest.NewServer(s.routes())
	t.Cleanup(s.srv.Close)
	return s
}

func (s *Server) URL() string {
	return s.srv.URL
}

// Client returns a restclient pointed at the fake.
func (s *Server) Client(t testing.TB) *restclient.Client {
	t.Helper()
	c, err := restclient.New(s.srv.URL, 5*time.Second, "")
	if err != nil {
		t.Fatalf("backendtest client: %v", err)
	}
	return c
}

// SetNow pins the fake's clock, used for "today" in absence automation and QR expiry.
func (s *Server) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = func() time.Time { return now }
}

// Fail makes the next request matching "METHOD /path" answer status with message.
func (s *Server) Fail(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, message: message}
}

// Calls returns every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount counts the requests whose "METHOD /path" starts with prefix.
func (s *Server) CallCount(prefix string) int {
	n := 0
	for _, c := range s.Calls() {
		if strings.HasPrefix(c.String(), prefix) {
			n++
		}
	}
	return n
}

// Mutations counts non-GET requests.
func (s *Server) Mutations() int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method != http.MethodGet {
			n++
		}
	}
	return n
}

func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method: r.Method,
			Path:   r.URL.Path,
			Token:  strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
		})
		key := r.Method + " " + r.URL.Path
		f, fail := s.failures[key]
		if fail {
			delete(s.failures, key)
		}
		s.mu.Unlock()

		if fail {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Post("/auth/login", s.login)
	r.Get("/auth/profile", s.profile)
	r.Get("/auth/users", s.listUsers)
	r.Post("/auth/users", s.createUser)
	r.Delete("/auth/users/{id}", s.deleteUser)

	r.Get("/companies", s.listCompanies)
	r.Post("/companies", s.createCompany)
	r.Get("/companies/{id}", s.getCompany)
	r.Put("/companies/{id}", s.updateCompany)
	r.Delete("/companies/{id}", s.deleteCompany)

	r.Get("/employees", s.listEmployees)
	r.Post("/employees", s.createEmployee)
	r.Get("/employees/company/{companyID}", s.listEmployees)
	r.Get("/employees/filter/search", s.searchEmployees)
	r.Get("/employees/{id}", s.getEmployee)
	r.Put("/employees/{id}", s.updateEmployee)
	r.Delete("/employees/{id}", s.deleteEmployee)
	r.Patch("/employees/{id}/toggle-status", s.toggleEmployee)
	r.Get("/employees/{id}/stats", s.employeeStats)

	r.Get("/payruns", s.listPayRuns)
	r.Post("/payruns", s.createPayRun)
	r.Get("/payruns/{id}", s.getPayRun)
	r.Put("/payruns/{id}", s.updatePayRun)
	r.Delete("/payruns/{id}", s.deletePayRun)
	r.Post("/payruns/{id}/generate-payslips", s.generatePayslips)
	r.Post("/payruns/{id}/approve", s.approvePayRun)
	r.Post("/payruns/{id}/close", s.closePayRun)

	r.Get("/payments", s.listPayments)
	r.Post("/payments", s.createPayment)
	r.Get("/payments/stats", s.paymentStats)
	r.Get("/payments/{id}", s.getPayment)
	r.Put("/payments/{id}", s.updatePayment)
	r.Delete("/payments/{id}", s.deletePayment)

	r.Post("/attendances", s.createAttendance)
	r.Post("/attendances/bulk", s.bulkAttendances)
	r.Get("/attendances/payrun/{id}", s.attendancesByPayRun)
	r.Get("/attendances/employee/{id}", s.attendancesByEmployee)
	r.Get("/attendances/stats/{employeeID}/{payRunID}", s.attendanceStats)
	r.Get("/attendances/{id}", s.getAttendance)
	r.Put("/attendances/{id}", s.updateAttendance)
	r.Delete("/attendances/{id}", s.deleteAttendance)

	r.Post("/absence-automation/company/{id}/mark-automatic", s.markAutomatic)
	r.Post("/absence-automation/company/{id}/mark-for-date", s.markForDate)
	r.Get("/absence-automation/payrun/{id}/statistics", s.absenceStatistics)

	r.Post("/leaves", s.createLeave)
	r.Put("/leaves/{id}/approve", s.decideLeave)
	r.Put("/leaves/{id}/cancel", s.cancelLeave)
	r.Get("/leaves/employee/{id}", s.leavesByEmployee)
	r.Get("/leaves/my-leaves", s.myLeaves)
	r.Get("/leaves/company/{id}", s.leavesByCompany)
	r.Get("/leaves/balance/{id}", s.leaveBalance)
	r.Get("/leaves/my-balance", s.myBalance)

	r.Post("/qrcodes/employee/{id}/generate", s.generateQR)
	r.Post("/qrcodes/employee/{id}/regenerate", s.regenerateQR)
	r.Get("/qrcodes/employee/{id}", s.getQR)
	r.Post("/qrcodes/company/{id}/generate-bulk", s.bulkQR)
	r.Post("/qrcodes/validate", s.validateQR)

	r.Get("/super-admin/stats/global", s.globalStats)
	r.Get("/super-admin/stats/health", s.health)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func parseDay(s string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}

func ptr[T any](v T) *T {
	return &v
}
