package attendance

import (
	"time"

	"github.com/paydesk/payroll-console/internal/domain/employee"
)

type Type string

const (
	TypePresent          Type = "PRESENCE"
	TypeExcusedAbsence   Type = "ABSENCE_JUSTIFIEE"
	TypeUnexcusedAbsence Type = "ABSENCE_INJUSTIFIEE"
	TypeLeave            Type = "CONGE"
	TypeSick             Type = "MALADIE"
)

var Types = []Type{TypePresent, TypeExcusedAbsence, TypeUnexcusedAbsence, TypeLeave, TypeSick}

func (t Type) IsValid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// IsPresence derives the presence flag stored alongside the type.
func (t Type) IsPresence() bool {
	return t == TypePresent
}

type Attendance struct {
	ID         string             `json:"id"`
	EmployeeID string             `json:"employeeId"`
	Employee   *employee.Employee `json:"employee,omitempty"`
	PayRunID   string             `json:"payRunId"`
	Date       time.Time          `json:"date"`
	Type       Type               `json:"type"`
	Hours      *float64           `json:"hours,omitempty"`
	IsPresent  bool               `json:"isPresent"`
	Notes      *string            `json:"notes,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// Key identifies the single attendance slot of an employee on a calendar day.
type Key struct {
	EmployeeID string
	Day        string
}

func NewKey(employeeID string, day time.Time) Key {
	return Key{EmployeeID: employeeID, Day: DayString(day)}
}

func (a *Attendance) Key() Key {
	return NewKey(a.EmployeeID, a.Date)
}

// DayString formats the UTC calendar day of t as YYYY-MM-DD.
func DayString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// EmployeeStats summarises one employee's attendance over a pay run.
type EmployeeStats struct {
	TotalDays         int     `json:"totalDays"`
	PresentDays       int     `json:"presentDays"`
	ExcusedAbsences   int     `json:"excusedAbsences"`
	UnexcusedAbsences int     `json:"unexcusedAbsences"`
	LeaveDays         int     `json:"leaveDays"`
	SickDays          int     `json:"sickDays"`
	TotalHours        float64 `json:"totalHours"`
}

// AbsenceRun reports an automatic absence marking pass.
type AbsenceRun struct {
	Date    string `json:"date,omitempty"`
	Marked  int    `json:"marked"`
	Skipped int    `json:"skipped"`
	Message string `json:"message,omitempty"`
}

type AbsenceStatistics struct {
	PayRunID          string       `json:"payRunId"`
	TotalAbsences     int          `json:"totalAbsences"`
	AutomaticAbsences int          `json:"automaticAbsences"`
	ByType            map[Type]int `json:"byType"`
}
