package attendance

import (
	"time"

	"github.com/paydesk/payroll-console/internal/domain/employee"
)

// Template is the type, hours and notes stamped onto each generated record.
type Template struct {
	Type  Type
	Hours *float64
	Notes *string
}

// Plan is the outcome of expanding a bulk request before anything is sent.
type Plan struct {
	Records     []NewAttendance
	Skipped     int
	WorkingDays int
	Employees   int
}

// PlanBulk crosses active employees with the working days of [start, end].
// Slots already present in existing are skipped so a rerun over an overlapping
// range never duplicates a record.
func PlanBulk(payRunID string, employees []employee.Employee, start, end time.Time, tmpl Template, existing map[Key]struct{}) Plan {
	days := WorkingDays(start, end)
	plan := Plan{WorkingDays: len(days)}
	if existing == nil {
		existing = make(map[Key]struct{})
	}

	for _, emp := range employees {
		if !emp.IsActive {
			continue
		}
		plan.Employees++
		for _, day := range days {
			key := NewKey(emp.ID, day)
			if _, found := existing[key]; found {
				plan.Skipped++
				continue
			}
			plan.Records = append(plan.Records, NewAttendance{
				EmployeeID: emp.ID,
				PayRunID:   payRunID,
				Date:       key.Day,
				Type:       tmpl.Type,
				Hours:      tmpl.Hours,
				IsPresent:  tmpl.Type.IsPresence(),
				Notes:      tmpl.Notes,
			})
			existing[key] = struct{}{}
		}
	}
	return plan
}

// IndexByKey maps each record to its (employee, day) slot.
func IndexByKey(records []Attendance) map[Key]Attendance {
	idx := make(map[Key]Attendance, len(records))
	for _, r := range records {
		idx[r.Key()] = r
	}
	return idx
}

// KeySet is IndexByKey without the payload.
func KeySet(records []Attendance) map[Key]struct{} {
	set := make(map[Key]struct{}, len(records))
	for _, r := range records {
		set[r.Key()] = struct{}{}
	}
	return set
}

// OnDay keeps the records dated on day (UTC calendar date).
func OnDay(records []Attendance, day time.Time) []Attendance {
	want := DayString(day)
	out := make([]Attendance, 0)
	for _, r := range records {
		if DayString(r.Date) == want {
			out = append(out, r)
		}
	}
	return out
}

// DailyRoster keeps active daily and honorarium employees that hold a payslip in the pay run.
func DailyRoster(employees []employee.Employee, payslipHolders map[string]struct{}) []employee.Employee {
	out := make([]employee.Employee, 0)
	for _, emp := range employees {
		if !emp.IsActive || !emp.ContractType.TracksDailyAttendance() {
			continue
		}
		if _, ok := payslipHolders[emp.ID]; !ok {
			continue
		}
		out = append(out, emp)
	}
	return out
}
