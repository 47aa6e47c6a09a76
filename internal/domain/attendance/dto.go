package attendance

import (
	"time"

	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/pkg/validator"
)

// RecordRequest upserts one employee's attendance for one day of a pay run.
type RecordRequest struct {
	EmployeeID string   `json:"employeeId"`
	PayRunID   string   `json:"payRunId"`
	Date       string   `json:"date"`
	Type       Type     `json:"type"`
	Hours      *float64 `json:"hours,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
}

func (r *RecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employeeId", "employeeId is required")
	}
	if validator.IsEmpty(r.PayRunID) {
		errs.Add("payRunId", "payRunId is required")
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	validateEntry(&errs, r.Type, r.Hours)

	return errs.OrNil()
}

// Day returns the parsed date; call after Validate.
func (r *RecordRequest) Day() time.Time {
	d, _ := validator.IsValidDate(r.Date)
	return d
}

type BulkGenerateRequest struct {
	PayRunID  string   `json:"payRunId"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Type      Type     `json:"type"`
	Hours     *float64 `json:"hours,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

func (r *BulkGenerateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PayRunID) {
		errs.Add("payRunId", "payRunId is required")
	}
	start, startOK := validator.IsValidDate(r.StartDate)
	end, endOK := validator.IsValidDate(r.EndDate)
	if !startOK {
		errs.Add("startDate", "startDate must be in YYYY-MM-DD format")
	}
	if !endOK {
		errs.Add("endDate", "endDate must be in YYYY-MM-DD format")
	}
	if startOK && endOK && start.After(end) {
		errs.Add("endDate", "endDate must not be before startDate")
	}
	validateEntry(&errs, r.Type, r.Hours)

	return errs.OrNil()
}

// Range returns the parsed bounds; call after Validate.
func (r *BulkGenerateRequest) Range() (time.Time, time.Time) {
	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	return start, end
}

type UpdateAttendanceRequest struct {
	ID    string   `json:"-"`
	Type  *Type    `json:"type,omitempty"`
	Hours *float64 `json:"hours,omitempty"`
	Notes *string  `json:"notes,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "attendance id is required")
	}
	if r.Type != nil && !r.Type.IsValid() {
		errs.Add("type", "type must be one of PRESENCE, ABSENCE_JUSTIFIEE, ABSENCE_INJUSTIFIEE, CONGE, MALADIE")
	}
	if r.Hours != nil && !validator.IsHalfHourStep(*r.Hours) {
		errs.Add("hours", ErrInvalidHours.Error())
	}

	return errs.OrNil()
}

type MarkForDateRequest struct {
	Date string `json:"date"`
}

func (r *MarkForDateRequest) Validate() error {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	return errs.OrNil()
}

func validateEntry(errs *validator.ValidationErrors, t Type, hours *float64) {
	if !t.IsValid() {
		errs.Add("type", "type must be one of PRESENCE, ABSENCE_JUSTIFIEE, ABSENCE_INJUSTIFIEE, CONGE, MALADIE")
	}
	if hours != nil && !validator.IsHalfHourStep(*hours) {
		errs.Add("hours", ErrInvalidHours.Error())
	}
}

// NewAttendance is the backend payload for one record.
type NewAttendance struct {
	EmployeeID string   `json:"employeeId"`
	PayRunID   string   `json:"payRunId"`
	Date       string   `json:"date"`
	Type       Type     `json:"type"`
	Hours      *float64 `json:"hours,omitempty"`
	IsPresent  bool     `json:"isPresent"`
	Notes      *string  `json:"notes,omitempty"`
}

// Patch is the backend payload for an in-place update.
type Patch struct {
	Type      Type     `json:"type"`
	Hours     *float64 `json:"hours,omitempty"`
	IsPresent bool     `json:"isPresent"`
	Notes     *string  `json:"notes,omitempty"`
}

type RecordResult struct {
	Attendance Attendance `json:"attendance"`
	Created    bool       `json:"created"`
}

type BulkResult struct {
	Generated   int `json:"generated"`
	Skipped     int `json:"skipped"`
	WorkingDays int `json:"workingDays"`
	Employees   int `json:"employees"`
}

// RosterEntry pairs an employee of the daily roster with the day's record, if any.
type RosterEntry struct {
	Employee   employee.Employee `json:"employee"`
	Attendance *Attendance       `json:"attendance,omitempty"`
}

type DailyView struct {
	PayRunID string        `json:"payRunId"`
	Date     string        `json:"date"`
	Roster   []RosterEntry `json:"roster"`
	Records  []Attendance  `json:"records"`
}

// CycleOption is a pay run offered for daily entry.
type CycleOption struct {
	ID          string `json:"id"`
	PeriodLabel string `json:"periodLabel"`
	Status      string `json:"status"`
}
