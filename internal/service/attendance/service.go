package attendance

import (
	"context"
	"log/slog"

	"github.com/paydesk/payroll-console/internal/domain/attendance"
	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
	"github.com/paydesk/payroll-console/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	absenceRepo  attendance.AbsenceRepository
	payRunRepo   payroll.PayRunRepository
	employeeRepo employee.EmployeeRepository
	invalidator  dashboard.Invalidator
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	absenceRepo attendance.AbsenceRepository,
	payRunRepo payroll.PayRunRepository,
	employeeRepo employee.EmployeeRepository,
	invalidator dashboard.Invalidator,
) attendance.AttendanceService {
	if invalidator == nil {
		invalidator = dashboard.Nop
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		absenceRepo:          absenceRepo,
		payRunRepo:           payRunRepo,
		employeeRepo:         employeeRepo,
		invalidator:          invalidator,
	}
}

// RecordSingle creates the employee's record for the day or updates it in place
// when one already exists in the pay run.
func (s *AttendanceServiceImpl) RecordSingle(ctx context.Context, req attendance.RecordRequest) (attendance.RecordResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResult{}, err
	}

	payRun, err := s.openPayRun(ctx, req.PayRunID)
	if err != nil {
		return attendance.RecordResult{}, err
	}
	day := req.Day()

	existing, err := s.AttendanceRepository.ListByPayRun(ctx, req.PayRunID)
	if err != nil {
		return attendance.RecordResult{}, err
	}

	var result attendance.RecordResult
	if current, found := attendance.IndexByKey(existing)[attendance.NewKey(req.EmployeeID, day)]; found {
		updated, err := s.AttendanceRepository.Update(ctx, current.ID, attendance.Patch{
			Type:      req.Type,
			Hours:     req.Hours,
			IsPresent: req.Type.IsPresence(),
			Notes:     req.Notes,
		})
		if err != nil {
			return attendance.RecordResult{}, err
		}
		result = attendance.RecordResult{Attendance: updated}
	} else {
		created, err := s.AttendanceRepository.Create(ctx, attendance.NewAttendance{
			EmployeeID: req.EmployeeID,
			PayRunID:   req.PayRunID,
			Date:       attendance.DayString(day),
			Type:       req.Type,
			Hours:      req.Hours,
			IsPresent:  req.Type.IsPresence(),
			Notes:      req.Notes,
		})
		if err != nil {
			return attendance.RecordResult{}, err
		}
		result = attendance.RecordResult{Attendance: created, Created: true}
	}

	s.invalidate(ctx, payRun.CompanyID, "attendance.record", result.Attendance.ID)
	return result, nil
}

// BulkGenerate stamps one record per active employee and working day of the range.
// Slots that already hold a record are left alone and counted as skipped.
func (s *AttendanceServiceImpl) BulkGenerate(ctx context.Context, req attendance.BulkGenerateRequest) (attendance.BulkResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.BulkResult{}, err
	}

	payRun, err := s.openPayRun(ctx, req.PayRunID)
	if err != nil {
		return attendance.BulkResult{}, err
	}
	start, end := req.Range()

	employees, err := s.employeeRepo.List(ctx, payRun.CompanyID)
	if err != nil {
		return attendance.BulkResult{}, err
	}
	existing, err := s.AttendanceRepository.ListByPayRun(ctx, req.PayRunID)
	if err != nil {
		return attendance.BulkResult{}, err
	}

	plan := attendance.PlanBulk(req.PayRunID, employees, start, end, attendance.Template{
		Type:  req.Type,
		Hours: req.Hours,
		Notes: req.Notes,
	}, attendance.KeySet(existing))

	result := attendance.BulkResult{
		Skipped:     plan.Skipped,
		WorkingDays: plan.WorkingDays,
		Employees:   plan.Employees,
	}
	if len(plan.Records) == 0 {
		return result, nil
	}

	result.Generated, err = s.AttendanceRepository.CreateBulk(ctx, plan.Records)
	if err != nil {
		return attendance.BulkResult{}, err
	}

	slog.Info("Attendance generated",
		"pay_run_id", req.PayRunID,
		"generated", result.Generated,
		"skipped", result.Skipped,
		"working_days", result.WorkingDays,
	)
	s.invalidate(ctx, payRun.CompanyID, "attendance.bulk", req.PayRunID)
	return result, nil
}

func (s *AttendanceServiceImpl) ListForCycle(ctx context.Context, payRunID string) ([]attendance.Attendance, error) {
	if _, err := s.payRun(ctx, payRunID); err != nil {
		return nil, err
	}
	return s.AttendanceRepository.ListByPayRun(ctx, payRunID)
}

// DailyView restricts the cycle to one date and to the daily roster: active
// daily or honorarium employees holding a payslip in the pay run.
func (s *AttendanceServiceImpl) DailyView(ctx context.Context, payRunID, date string) (attendance.DailyView, error) {
	day, ok := validator.IsValidDate(date)
	if !ok {
		var errs validator.ValidationErrors
		errs.Add("date", "date must be in YYYY-MM-DD format")
		return attendance.DailyView{}, errs
	}

	payRun, err := s.payRun(ctx, payRunID)
	if err != nil {
		return attendance.DailyView{}, err
	}
	if !payRun.AcceptsAttendance() {
		return attendance.DailyView{}, attendance.ErrPayRunClosed
	}

	records, err := s.AttendanceRepository.ListByPayRun(ctx, payRunID)
	if err != nil {
		return attendance.DailyView{}, err
	}
	employees, err := s.employeeRepo.List(ctx, payRun.CompanyID)
	if err != nil {
		return attendance.DailyView{}, err
	}

	holders := make(map[string]struct{}, len(payRun.Payslips))
	for _, ps := range payRun.Payslips {
		holders[ps.EmployeeID] = struct{}{}
	}

	onDay := attendance.OnDay(records, day)
	byKey := attendance.IndexByKey(onDay)
	view := attendance.DailyView{
		PayRunID: payRunID,
		Date:     attendance.DayString(day),
		Roster:   make([]attendance.RosterEntry, 0),
		Records:  onDay,
	}
	for _, emp := range attendance.DailyRoster(employees, holders) {
		entry := attendance.RosterEntry{Employee: emp}
		if a, found := byKey[attendance.NewKey(emp.ID, day)]; found {
			entry.Attendance = &a
		}
		view.Roster = append(view.Roster, entry)
	}
	return view, nil
}

// DailyCycles offers the draft and approved pay runs of the scope for daily entry.
func (s *AttendanceServiceImpl) DailyCycles(ctx context.Context) ([]attendance.CycleOption, error) {
	payRuns, err := s.payRunRepo.List(ctx, auth.CompanyScope(ctx))
	if err != nil {
		return nil, err
	}

	options := make([]attendance.CycleOption, 0, len(payRuns))
	for i := range payRuns {
		if !payRuns[i].AcceptsAttendance() {
			continue
		}
		options = append(options, attendance.CycleOption{
			ID:          payRuns[i].ID,
			PeriodLabel: payRuns[i].PeriodLabel(),
			Status:      string(payRuns[i].Status),
		})
	}
	return options, nil
}

func (s *AttendanceServiceImpl) ListByEmployee(ctx context.Context, employeeID, payRunID string) ([]attendance.Attendance, error) {
	if err := s.checkEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.AttendanceRepository.ListByEmployee(ctx, employeeID, payRunID)
}

func (s *AttendanceServiceImpl) Stats(ctx context.Context, employeeID, payRunID string) (attendance.EmployeeStats, error) {
	if err := s.checkEmployee(ctx, employeeID); err != nil {
		return attendance.EmployeeStats{}, err
	}
	return s.AttendanceRepository.Stats(ctx, employeeID, payRunID)
}

func (s *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	current, err := s.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	payRun, err := s.openPayRun(ctx, current.PayRunID)
	if err != nil {
		return attendance.Attendance{}, err
	}

	patch := attendance.Patch{Type: current.Type, Hours: current.Hours, Notes: current.Notes}
	if req.Type != nil {
		patch.Type = *req.Type
	}
	if req.Hours != nil {
		patch.Hours = req.Hours
	}
	if req.Notes != nil {
		patch.Notes = req.Notes
	}
	patch.IsPresent = patch.Type.IsPresence()

	updated, err := s.AttendanceRepository.Update(ctx, req.ID, patch)
	if err != nil {
		return attendance.Attendance{}, err
	}

	s.invalidate(ctx, payRun.CompanyID, "attendance.update", req.ID)
	return updated, nil
}

func (s *AttendanceServiceImpl) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := confirm.Require(confirmed); err != nil {
		return err
	}

	current, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	payRun, err := s.openPayRun(ctx, current.PayRunID)
	if err != nil {
		return err
	}
	if err := s.AttendanceRepository.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("Attendance deleted", "attendance_id", id, "pay_run_id", current.PayRunID)
	s.invalidate(ctx, payRun.CompanyID, "attendance.delete", id)
	return nil
}

// MarkAutomaticAbsences asks the backend to mark today's missing employees absent.
// An empty companyID falls back to the caller's scope.
func (s *AttendanceServiceImpl) MarkAutomaticAbsences(ctx context.Context, companyID string) (attendance.AbsenceRun, error) {
	companyID, err := s.resolveCompany(ctx, companyID)
	if err != nil {
		return attendance.AbsenceRun{}, err
	}

	run, err := s.absenceRepo.MarkAutomatic(ctx, companyID)
	if err != nil {
		return attendance.AbsenceRun{}, err
	}

	slog.Info("Automatic absences marked", "company_id", companyID, "marked", run.Marked, "skipped", run.Skipped)
	if run.Marked > 0 {
		s.invalidate(ctx, companyID, "absence.mark-automatic", "")
	}
	return run, nil
}

func (s *AttendanceServiceImpl) MarkAbsencesForDate(ctx context.Context, companyID string, req attendance.MarkForDateRequest) (attendance.AbsenceRun, error) {
	if err := req.Validate(); err != nil {
		return attendance.AbsenceRun{}, err
	}
	companyID, err := s.resolveCompany(ctx, companyID)
	if err != nil {
		return attendance.AbsenceRun{}, err
	}

	run, err := s.absenceRepo.MarkForDate(ctx, companyID, req.Date)
	if err != nil {
		return attendance.AbsenceRun{}, err
	}

	slog.Info("Absences marked for date", "company_id", companyID, "date", req.Date, "marked", run.Marked)
	if run.Marked > 0 {
		s.invalidate(ctx, companyID, "absence.mark-for-date", "")
	}
	return run, nil
}

func (s *AttendanceServiceImpl) AbsenceStatistics(ctx context.Context, payRunID string) (attendance.AbsenceStatistics, error) {
	if _, err := s.payRun(ctx, payRunID); err != nil {
		return attendance.AbsenceStatistics{}, err
	}
	return s.absenceRepo.Statistics(ctx, payRunID)
}

func (s *AttendanceServiceImpl) payRun(ctx context.Context, id string) (payroll.PayRun, error) {
	p, err := s.payRunRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayRun{}, err
	}
	if err := auth.EnsureCompany(ctx, p.CompanyID); err != nil {
		return payroll.PayRun{}, err
	}
	return p, nil
}

// openPayRun loads a pay run that still accepts attendance changes.
func (s *AttendanceServiceImpl) openPayRun(ctx context.Context, id string) (payroll.PayRun, error) {
	p, err := s.payRun(ctx, id)
	if err != nil {
		return payroll.PayRun{}, err
	}
	if !p.AcceptsAttendance() {
		return payroll.PayRun{}, attendance.ErrPayRunClosed
	}
	return p, nil
}

func (s *AttendanceServiceImpl) checkEmployee(ctx context.Context, employeeID string) error {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	return auth.EnsureCompany(ctx, emp.CompanyID)
}

func (s *AttendanceServiceImpl) resolveCompany(ctx context.Context, companyID string) (string, error) {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		if companyID == "" {
			return "", user.ErrCompanyIDRequired
		}
		return companyID, nil
	}
	return sess.ResolveCompany(companyID)
}

func (s *AttendanceServiceImpl) invalidate(ctx context.Context, companyID, action, entityID string) {
	s.invalidator.Invalidate(ctx, dashboard.NewInvalidation(ctx, companyID, action, entityID,
		dashboard.AggregateAttendance, dashboard.AggregateOverview))
}
