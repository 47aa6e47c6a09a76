package attendance

import "context"

type AttendanceService interface {
	RecordSingle(ctx context.Context, req RecordRequest) (RecordResult, error)
	BulkGenerate(ctx context.Context, req BulkGenerateRequest) (BulkResult, error)
	ListForCycle(ctx context.Context, payRunID string) ([]Attendance, error)
	DailyView(ctx context.Context, payRunID, date string) (DailyView, error)
	DailyCycles(ctx context.Context) ([]CycleOption, error)
	ListByEmployee(ctx context.Context, employeeID, payRunID string) ([]Attendance, error)
	Stats(ctx context.Context, employeeID, payRunID string) (EmployeeStats, error)
	Update(ctx context.Context, req UpdateAttendanceRequest) (Attendance, error)
	Delete(ctx context.Context, id string, confirmed bool) error

	MarkAutomaticAbsences(ctx context.Context, companyID string) (AbsenceRun, error)
	MarkAbsencesForDate(ctx context.Context, companyID string, req MarkForDateRequest) (AbsenceRun, error)
	AbsenceStatistics(ctx context.Context, payRunID string) (AbsenceStatistics, error)
}
