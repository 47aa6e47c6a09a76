package attendance

import "context"

type AttendanceRepository interface {
	GetByID(ctx context.Context, id string) (Attendance, error)
	ListByPayRun(ctx context.Context, payRunID string) ([]Attendance, error)
	ListByEmployee(ctx context.Context, employeeID, payRunID string) ([]Attendance, error)
	Stats(ctx context.Context, employeeID, payRunID string) (EmployeeStats, error)
	Create(ctx context.Context, a NewAttendance) (Attendance, error)
	CreateBulk(ctx context.Context, records []NewAttendance) (int, error)
	Update(ctx context.Context, id string, p Patch) (Attendance, error)
	Delete(ctx context.Context, id string) error
}

// AbsenceRepository drives the backend's automatic absence marking.
type AbsenceRepository interface {
	MarkAutomatic(ctx context.Context, companyID string) (AbsenceRun, error)
	MarkForDate(ctx context.Context, companyID, date string) (AbsenceRun, error)
	Statistics(ctx context.Context, payRunID string) (AbsenceStatistics, error)
}
