package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/paydesk/payroll-console/internal/domain/attendance"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
)

type attendanceRepository struct {
	client *restclient.Client
}

func NewAttendanceRepository(client *restclient.Client) attendance.AttendanceRepository {
	return &attendanceRepository{client: client}
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	var a attendance.Attendance
	if err := get(ctx, r.client, "/attendances/"+escape(id), nil, "attendance", &a); err != nil {
		return attendance.Attendance{}, translate(err, attendance.ErrAttendanceNotFound)
	}
	return a, nil
}

func (r *attendanceRepository) ListByPayRun(ctx context.Context, payRunID string) ([]attendance.Attendance, error) {
	var list []attendance.Attendance
	if err := get(ctx, r.client, "/attendances/payrun/"+escape(payRunID), nil, "attendances", &list); err != nil {
		return nil, fmt.Errorf("list attendances of pay run %s: %w", payRunID, err)
	}
	return list, nil
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID, payRunID string) ([]attendance.Attendance, error) {
	var query url.Values
	if payRunID != "" {
		query = url.Values{"payRunId": {payRunID}}
	}

	var list []attendance.Attendance
	if err := get(ctx, r.client, "/attendances/employee/"+escape(employeeID), query, "attendances", &list); err != nil {
		return nil, fmt.Errorf("list attendances of employee %s: %w", employeeID, err)
	}
	return list, nil
}

func (r *attendanceRepository) Stats(ctx context.Context, employeeID, payRunID string) (attendance.EmployeeStats, error) {
	var stats attendance.EmployeeStats
	path := "/attendances/stats/" + escape(employeeID) + "/" + escape(payRunID)
	if err := get(ctx, r.client, path, nil, "stats", &stats); err != nil {
		return attendance.EmployeeStats{}, fmt.Errorf("attendance stats: %w", err)
	}
	return stats, nil
}

func (r *attendanceRepository) Create(ctx context.Context, na attendance.NewAttendance) (attendance.Attendance, error) {
	var a attendance.Attendance
	if err := call(ctx, r.client, http.MethodPost, "/attendances", nil, na, "attendance", &a); err != nil {
		return attendance.Attendance{}, fmt.Errorf("create attendance: %w", err)
	}
	return a, nil
}

func (r *attendanceRepository) CreateBulk(ctx context.Context, records []attendance.NewAttendance) (int, error) {
	body := struct {
		Attendances []attendance.NewAttendance `json:"attendances"`
	}{Attendances: records}

	var resp struct {
		Count       *int                    `json:"count"`
		Attendances []attendance.Attendance `json:"attendances"`
	}
	if err := call(ctx, r.client, http.MethodPost, "/attendances/bulk", nil, body, "", &resp); err != nil {
		return 0, fmt.Errorf("bulk create attendances: %w", err)
	}
	switch {
	case resp.Count != nil:
		return *resp.Count, nil
	case resp.Attendances != nil:
		return len(resp.Attendances), nil
	}
	return len(records), nil
}

func (r *attendanceRepository) Update(ctx context.Context, id string, p attendance.Patch) (attendance.Attendance, error) {
	var a attendance.Attendance
	if err := call(ctx, r.client, http.MethodPut, "/attendances/"+escape(id), nil, p, "attendance", &a); err != nil {
		return attendance.Attendance{}, translate(err, attendance.ErrAttendanceNotFound)
	}
	return a, nil
}

func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	return translate(r.client.Delete(ctx, "/attendances/"+escape(id)), attendance.ErrAttendanceNotFound)
}

type absenceRepository struct {
	client *restclient.Client
}

func NewAbsenceRepository(client *restclient.Client) attendance.AbsenceRepository {
	return &absenceRepository{client: client}
}

func (r *absenceRepository) MarkAutomatic(ctx context.Context, companyID string) (attendance.AbsenceRun, error) {
	var run attendance.AbsenceRun
	path := "/absence-automation/company/" + escape(companyID) + "/mark-automatic"
	if err := call(ctx, r.client, http.MethodPost, path, nil, nil, "", &run); err != nil {
		return attendance.AbsenceRun{}, fmt.Errorf("mark automatic absences: %w", err)
	}
	return run, nil
}

func (r *absenceRepository) MarkForDate(ctx context.Context, companyID, date string) (attendance.AbsenceRun, error) {
	body := struct {
		Date string `json:"date"`
	}{Date: date}

	var run attendance.AbsenceRun
	path := "/absence-automation/company/" + escape(companyID) + "/mark-for-date"
	if err := call(ctx, r.client, http.MethodPost, path, nil, body, "", &run); err != nil {
		return attendance.AbsenceRun{}, fmt.Errorf("mark absences for %s: %w", date, err)
	}
	if run.Date == "" {
		run.Date = date
	}
	return run, nil
}

func (r *absenceRepository) Statistics(ctx context.Context, payRunID string) (attendance.AbsenceStatistics, error) {
	var stats attendance.AbsenceStatistics
	path := "/absence-automation/payrun/" + escape(payRunID) + "/statistics"
	if err := get(ctx, r.client, path, nil, "statistics", &stats); err != nil {
		return attendance.AbsenceStatistics{}, fmt.Errorf("absence statistics: %w", err)
	}
	if stats.PayRunID == "" {
		stats.PayRunID = payRunID
	}
	return stats, nil
}
