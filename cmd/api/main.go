package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paydesk/payroll-console/internal/config"
	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	appHTTP "github.com/paydesk/payroll-console/internal/handler/http"
	"github.com/paydesk/payroll-console/internal/handler/http/middleware"
	"github.com/paydesk/payroll-console/internal/pkg/authz"
	"github.com/paydesk/payroll-console/internal/pkg/cron"
	"github.com/paydesk/payroll-console/internal/pkg/database"
	"github.com/paydesk/payroll-console/internal/pkg/document"
	"github.com/paydesk/payroll-console/internal/pkg/idempotency"
	"github.com/paydesk/payroll-console/internal/pkg/jwt"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
	"github.com/paydesk/payroll-console/internal/pkg/sse"
	"github.com/paydesk/payroll-console/internal/repository/backend"
	"github.com/paydesk/payroll-console/internal/repository/memory"
	"github.com/paydesk/payroll-console/internal/repository/postgresql"
	attendanceService "github.com/paydesk/payroll-console/internal/service/attendance"
	serviceAuth "github.com/paydesk/payroll-console/internal/service/auth"
	serviceCompany "github.com/paydesk/payroll-console/internal/service/company"
	dashboardService "github.com/paydesk/payroll-console/internal/service/dashboard"
	employeeService "github.com/paydesk/payroll-console/internal/service/employee"
	leaveService "github.com/paydesk/payroll-console/internal/service/leave"
	payrollService "github.com/paydesk/payroll-console/internal/service/payroll"
	qrcodeService "github.com/paydesk/payroll-console/internal/service/qrcode"
	"github.com/redis/go-redis/v9"
)

const (
	appName    = "payroll-console"
	appVersion = "v1.0.0"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	client, err := restclient.New(cfg.Backend.URL, cfg.Backend.Timeout, cfg.Backend.ServiceToken)
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}

	authorizer, err := authz.NewAuthorizer()
	if err != nil {
		return fmt.Errorf("authorizer: %w", err)
	}

	renderer, err := document.NewRenderer()
	if err != nil {
		return fmt.Errorf("document renderer: %w", err)
	}

	// Console-owned storage
	checks := map[string]dashboardService.Check{
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
	var (
		sessionRepo  auth.SessionRepository
		activityRepo dashboard.ActivityRepository
	)
	switch cfg.Session.Store {
	case config.StoreMemory:
		slog.Warn("Sessions are kept in memory and lost on restart")
		sessionRepo = memory.NewSessionRepository()
		activityRepo = memory.NewActivityRepository(0)
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		sessionRepo = postgresql.NewSessionRepository(db)
		activityRepo = postgresql.NewActivityRepository(db)
		checks["postgres"] = func(ctx context.Context) error { return db.Ping(ctx) }
	}

	// Payroll backend
	userRepo := backend.NewUserRepository(client)
	authenticator := backend.NewAuthenticator(client)
	companyRepo := backend.NewCompanyRepository(client)
	employeeRepo := backend.NewEmployeeRepository(client)
	payRunRepo := backend.NewPayRunRepository(client)
	paymentRepo := backend.NewPaymentRepository(client)
	attendanceRepo := backend.NewAttendanceRepository(client)
	absenceRepo := backend.NewAbsenceRepository(client)
	leaveRepo := backend.NewLeaveRepository(client)
	qrRepo := backend.NewQRCodeRepository(client)
	statsRepo := backend.NewStatsRepository(client)

	hub := sse.NewHub()
	invalidator := dashboard.Invalidators{hub, dashboard.Journal(activityRepo)}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authSvc := serviceAuth.NewAuthService(sessionRepo, authenticator, JWTService, userRepo, companyRepo, authorizer, cfg.Session.TTL)
	companySvc := serviceCompany.NewCompanyService(companyRepo, invalidator)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, invalidator)
	payRunSvc := payrollService.NewPayRunService(payRunRepo, invalidator)
	paymentSvc := payrollService.NewPaymentService(payRunRepo, paymentRepo, renderer, invalidator)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, absenceRepo, payRunRepo, employeeRepo, invalidator)
	leaveSvc := leaveService.NewLeaveService(leaveRepo, employeeRepo, invalidator)
	qrSvc := qrcodeService.NewQRCodeService(qrRepo, employeeRepo, attendanceSvc, invalidator)
	dashboardSvc := dashboardService.NewDashboardService(payRunRepo, paymentRepo, employeeRepo, statsRepo, activityRepo, checks)

	scheduler := cron.NewScheduler()
	cron.NewAbsenceJobs(attendanceSvc, companyRepo, sessionRepo).RegisterJobs(scheduler, cfg.Jobs.AbsenceInterval)
	scheduler.Start()
	defer scheduler.Stop()

	scanLimiter := middleware.NewScanLimiter(cfg.Kiosk.Throttle)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:         appHTTP.NewRequestLogger(appName, appVersion, cfg.App.Env, cfg.SlogLevel()),
		AllowedOrigins: cfg.App.CORSOrigins,
		JWTService:     JWTService,
		Sessions:       authSvc,
		Authorizer:     authorizer,
		Idempotency:    idempotency.NewStore(rdb, cfg.Idempotency.TTL),
		ScanLimiter:    scanLimiter,
	}, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc, scanLimiter),
		Company:    appHTTP.NewCompanyHandler(companySvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Payroll:    appHTTP.NewPayrollHandler(payRunSvc, paymentSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		QRCode:     appHTTP.NewQRCodeHandler(qrSvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
		Events:     appHTTP.NewEventsHandler(hub),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "backend", cfg.Backend.URL, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
