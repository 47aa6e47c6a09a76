package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/attendance"
	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/company"
)

// AbsenceJobs keeps attendance complete without an operator: it asks the
// backend to mark missing entries as absences and purges expired sessions.
type AbsenceJobs struct {
	attendanceSvc attendance.AttendanceService
	companyRepo   company.CompanyRepository
	sessionRepo   auth.SessionRepository
	now           func() time.Time
}

func NewAbsenceJobs(
	attendanceSvc attendance.AttendanceService,
	companyRepo company.CompanyRepository,
	sessionRepo auth.SessionRepository,
) *AbsenceJobs {
	return &AbsenceJobs{
		attendanceSvc: attendanceSvc,
		companyRepo:   companyRepo,
		sessionRepo:   sessionRepo,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (j *AbsenceJobs) RegisterJobs(scheduler *Scheduler, absenceInterval time.Duration) {
	scheduler.AddJob("mark_automatic_absences", absenceInterval, j.MarkAutomaticAbsences)
	scheduler.AddJob("purge_expired_sessions", time.Hour, j.PurgeExpiredSessions)
}

// MarkAutomaticAbsences runs the backend's absence automation for every company
// on working days. One company failing does not stop the others.
func (j *AbsenceJobs) MarkAutomaticAbsences(ctx context.Context) error {
	if !attendance.IsWorkingDay(j.now()) {
		return nil
	}

	companies, err := j.companyRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list companies: %w", err)
	}

	var errs []error
	for _, c := range companies {
		run, err := j.attendanceSvc.MarkAutomaticAbsences(ctx, c.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("company %s: %w", c.ID, err))
			continue
		}
		slog.Info("Cron: automatic absences marked",
			"company_id", c.ID,
			"date", run.Date,
			"marked", run.Marked,
			"skipped", run.Skipped,
		)
	}
	return errors.Join(errs...)
}

func (j *AbsenceJobs) PurgeExpiredSessions(ctx context.Context) error {
	n, err := j.sessionRepo.DeleteExpired(ctx, j.now())
	if err != nil {
		return fmt.Errorf("purge expired sessions: %w", err)
	}
	if n > 0 {
		slog.Info("Cron: expired sessions purged", "count", n)
	}
	return nil
}
