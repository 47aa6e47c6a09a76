// Command kiosk runs an unattended attendance kiosk: it samples a camera, decodes
// employee QR credentials and records their presence for the configured pay run.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paydesk/payroll-console/internal/config"
	"github.com/paydesk/payroll-console/internal/domain/qrcode"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
	"github.com/paydesk/payroll-console/internal/pkg/scanner"
	"github.com/paydesk/payroll-console/internal/repository/backend"
	attendanceService "github.com/paydesk/payroll-console/internal/service/attendance"
	qrcodeService "github.com/paydesk/payroll-console/internal/service/qrcode"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Kiosk stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateKiosk(); err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The kiosk has no user session; every call carries the service token.
	client, err := restclient.New(cfg.Backend.URL, cfg.Backend.Timeout, cfg.Backend.ServiceToken)
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}

	employeeRepo := backend.NewEmployeeRepository(client)
	payRunRepo := backend.NewPayRunRepository(client)
	attendanceSvc := attendanceService.NewAttendanceService(
		backend.NewAttendanceRepository(client),
		backend.NewAbsenceRepository(client),
		payRunRepo,
		employeeRepo,
		nil,
	)
	qrSvc := qrcodeService.NewQRCodeService(backend.NewQRCodeRepository(client), employeeRepo, attendanceSvc, nil)

	checkIn := func(ctx context.Context, payload string) (qrcode.CheckInResult, error) {
		return qrSvc.CheckIn(ctx, qrcode.CheckInRequest{QRData: payload, PayRunID: cfg.Kiosk.PayRunID})
	}

	session := scanner.New(
		scanner.NewSnapshotSource(cfg.Kiosk.CameraURL, 5*time.Second),
		checkIn,
		report,
		scanner.Options{Interval: cfg.Kiosk.SampleInterval, Throttle: cfg.Kiosk.Throttle},
	)

	if err := session.Start(ctx); err != nil {
		return err
	}
	slog.Info("Kiosk ready", "camera", cfg.Kiosk.CameraURL, "pay_run_id", cfg.Kiosk.PayRunID)

	<-ctx.Done()
	return session.Stop()
}

// report logs each outcome. None of them ends the session.
func report(out scanner.Outcome) {
	switch {
	case out.Err == nil:
		slog.Info(out.Result.Message, "at", out.At)
	case errors.Is(out.Err, qrcode.ErrCameraUnavailable):
		slog.Error("Camera unavailable", "error", out.Err)
	case errors.Is(out.Err, qrcode.ErrInvalidCredential):
		slog.Warn("QR code rejected", "error", out.Err)
	default:
		slog.Error("Check-in failed", "error", out.Err)
	}
}
