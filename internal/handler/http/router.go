package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/handler/http/middleware"
	"github.com/paydesk/payroll-console/internal/pkg/authz"
	"github.com/paydesk/payroll-console/internal/pkg/idempotency"
	"github.com/paydesk/payroll-console/internal/pkg/jwt"
)

type Handlers struct {
	Auth       AuthHandler
	Company    CompanyHandler
	Employee   EmployeeHandler
	Payroll    PayrollHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	QRCode     QRCodeHandler
	Dashboard  DashboardHandler
	Events     EventsHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	JWTService     jwt.Service
	Sessions       middleware.SessionAuthenticator
	Authorizer     *authz.Authorizer
	Idempotency    *idempotency.Store
	ScanLimiter    *middleware.ScanLimiter
}

func NewRouter(opts RouterOptions, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", idempotency.Header, "X-Confirm"},
		ExposedHeaders:   []string{"Content-Disposition", "Idempotent-Replayed"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
			Skip: func(req *http.Request, respStatus int) bool {
				return req.URL.Path == "/api/v1/events/stream"
			},
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	perm := func(p user.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(opts.Authorizer, p)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Dashboard.Health)
		r.Post("/auth/login", h.Auth.Login)

		// EventSource cannot send headers; the stream authenticates by ?token=
		r.With(middleware.StreamAuth(opts.JWTService, opts.Sessions)).Get("/events/stream", h.Events.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(opts.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(opts.Sessions))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/logout", h.Auth.Logout)
				r.Get("/profile", h.Auth.Profile)
				r.Post("/sse-token", h.Auth.SSEToken)
				r.Put("/session/company", h.Auth.SelectCompany)
				r.Delete("/session/company", h.Auth.ClearSelectedCompany)
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(perm(user.PermissionUserManage))
				r.Get("/", h.Auth.ListUsers)
				r.Post("/", h.Auth.CreateUser)
				r.Delete("/{id}", h.Auth.DeleteUser)
			})

			r.Route("/companies", func(r chi.Router) {
				r.With(perm(user.PermissionCompanyView)).Get("/", h.Company.List)
				r.With(perm(user.PermissionCompanyView)).Get("/{id}", h.Company.GetByID)

				// Super admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.SuperAdminOnly)
					r.Post("/", h.Company.Create)
					r.Put("/{id}", h.Company.Update)
					r.Delete("/{id}", h.Company.Delete)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionEmployeeView))
					r.Get("/", h.Employee.ListEmployees)
					r.Get("/{id}", h.Employee.GetEmployee)
					r.Get("/{id}/stats", h.Employee.GetStats)
				})
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionEmployeeManage))
					r.Post("/", h.Employee.CreateEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Patch("/{id}/toggle-status", h.Employee.ToggleStatus)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
				})
			})

			r.Route("/payruns", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionPayRunView))
					r.Get("/", h.Payroll.ListPayRuns)
					r.Get("/{id}", h.Payroll.GetPayRun)
				})
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionPayRunManage))
					r.Post("/", h.Payroll.CreatePayRun)
					r.Put("/{id}", h.Payroll.UpdatePayRun)
					r.Delete("/{id}", h.Payroll.DeletePayRun)
				})
				r.With(perm(user.PermissionPayRunGenerate)).Post("/{id}/generate-payslips", h.Payroll.GeneratePayslips)
				r.With(perm(user.PermissionPayRunApprove)).Post("/{id}/approve", h.Payroll.ApprovePayRun)
				r.With(perm(user.PermissionPayRunClose)).Post("/{id}/close", h.Payroll.ClosePayRun)
			})

			r.Route("/payslips", func(r chi.Router) {
				r.Use(perm(user.PermissionPaymentView))
				r.Get("/pending", h.Payroll.ListPending)
				r.Get("/{id}/document", h.Payroll.PayslipDocument)
				r.With(perm(user.PermissionPaymentCreate)).Get("/{id}/capture", h.Payroll.OpenCapture)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionPaymentView))
					r.Get("/", h.Payroll.ListPayments)
					r.Get("/stats", h.Payroll.PaymentStats)
					r.Get("/export", h.Payroll.ExportPayments)
					r.Get("/{id}", h.Payroll.GetPayment)
					r.Get("/{id}/receipt", h.Payroll.ReceiptDocument)
				})
				r.With(perm(user.PermissionPaymentCreate), middleware.Idempotent(opts.Idempotency)).
					Post("/", h.Payroll.SubmitPayment)
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionPaymentManage))
					r.Put("/{id}", h.Payroll.UpdatePayment)
					r.Delete("/{id}", h.Payroll.DeletePayment)
				})
			})

			r.Route("/attendances", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionAttendanceView))
					r.Get("/cycles", h.Attendance.DailyCycles)
					r.Get("/payrun/{payRunId}", h.Attendance.ListForCycle)
					r.Get("/payrun/{payRunId}/daily", h.Attendance.DailyView)
					r.Get("/employee/{employeeId}", h.Attendance.ListByEmployee)
					r.Get("/stats/{employeeId}/{payRunId}", h.Attendance.Stats)
				})
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionAttendanceManage))
					r.Post("/", h.Attendance.Record)
					r.With(middleware.Idempotent(opts.Idempotency)).Post("/bulk", h.Attendance.BulkGenerate)
					r.Put("/{id}", h.Attendance.Update)
					r.Delete("/{id}", h.Attendance.Delete)
				})
			})

			r.Route("/absences", func(r chi.Router) {
				r.With(perm(user.PermissionAttendanceView)).Get("/payrun/{payRunId}/statistics", h.Attendance.AbsenceStatistics)
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionAttendanceManage))
					r.Post("/mark-automatic", h.Attendance.MarkAutomaticAbsences)
					r.Post("/mark-for-date", h.Attendance.MarkAbsencesForDate)
					r.Post("/company/{companyId}/mark-automatic", h.Attendance.MarkAutomaticAbsences)
					r.Post("/company/{companyId}/mark-for-date", h.Attendance.MarkAbsencesForDate)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionLeaveViewOwn))
					r.Get("/mine", h.Leave.ListMine)
					r.Get("/my-balance", h.Leave.MyBalance)
				})
				r.With(perm(user.PermissionLeaveCreate)).Post("/", h.Leave.Create)
				r.With(perm(user.PermissionLeaveCreate)).Put("/{id}/cancel", h.Leave.Cancel)
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionLeaveViewAll))
					r.With(middleware.RequireCompany).Get("/", h.Leave.ListByCompany)
					r.Get("/employee/{employeeId}", h.Leave.ListByEmployee)
					r.Get("/balance/{employeeId}", h.Leave.Balance)
				})
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionLeaveApprove))
					r.Put("/{id}/approve", h.Leave.Approve)
					r.Put("/{id}/reject", h.Leave.Reject)
				})
			})

			r.Route("/qrcodes", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionQRCodeManage))
					r.Get("/employee/{employeeId}", h.QRCode.GetByEmployee)
					r.Get("/employee/{employeeId}/image", h.QRCode.Image)
					r.Post("/employee/{employeeId}/generate", h.QRCode.Generate)
					r.Post("/employee/{employeeId}/regenerate", h.QRCode.Regenerate)
					r.With(middleware.RequireCompany).Post("/generate-bulk", h.QRCode.GenerateBulk)
				})
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionAttendanceScan))
					r.Post("/validate", h.QRCode.Validate)
					r.Post("/check-in", h.QRCode.CheckIn)
					if opts.ScanLimiter != nil {
						r.With(opts.ScanLimiter.Limit).Post("/scan", h.QRCode.Scan)
					} else {
						r.Post("/scan", h.QRCode.Scan)
					}
				})
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Use(perm(user.PermissionDashboardView))
				r.Get("/overview", h.Dashboard.Overview)
				r.Get("/activity", h.Dashboard.Activity)
			})

			r.Route("/super-admin", func(r chi.Router) {
				r.Use(middleware.SuperAdminOnly)
				r.Get("/stats/global", h.Dashboard.Global)
				r.Get("/stats/health", h.Dashboard.Health)
			})
		})
	})
	return r
}

// NewRequestLogger builds the ECS-formatted JSON logger used for request logs.
func NewRequestLogger(app, version, env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app),
		slog.String("version", version),
		slog.String("env", env),
	)
}
