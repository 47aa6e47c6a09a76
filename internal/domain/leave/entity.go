package leave

import (
	"time"

	"github.com/paydesk/payroll-console/internal/domain/attendance"
	"github.com/paydesk/payroll-console/internal/domain/employee"
)

type LeaveType string

const (
	TypeAnnual      LeaveType = "ANNUEL"
	TypeSick        LeaveType = "MALADIE"
	TypeExceptional LeaveType = "EXCEPTIONNEL"
	TypeMaternity   LeaveType = "MATERNITE"
	TypePaternity   LeaveType = "PATERNITE"
	TypeUnpaid      LeaveType = "SANS_SOLDE"
)

var LeaveTypes = []LeaveType{TypeAnnual, TypeSick, TypeExceptional, TypeMaternity, TypePaternity, TypeUnpaid}

func (t LeaveType) IsValid() bool {
	for _, known := range LeaveTypes {
		if t == known {
			return true
		}
	}
	return false
}

type LeaveStatus string

const (
	StatusPending   LeaveStatus = "EN_ATTENTE"
	StatusApproved  LeaveStatus = "APPROUVEE"
	StatusRejected  LeaveStatus = "REFUSEE"
	StatusCancelled LeaveStatus = "ANNULEE"
)

func (s LeaveStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition exists from s.
func (s LeaveStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

type LeaveRequest struct {
	ID              string             `json:"id"`
	EmployeeID      string             `json:"employeeId"`
	Employee        *employee.Employee `json:"employee,omitempty"`
	Type            LeaveType          `json:"type"`
	StartDate       time.Time          `json:"startDate"`
	EndDate         time.Time          `json:"endDate"`
	Reason          *string            `json:"reason,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
	Status          LeaveStatus        `json:"status"`
	RejectionReason *string            `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// WorkingDays counts the Monday-Friday days covered by the request.
func (l *LeaveRequest) WorkingDays() int {
	return attendance.CountWorkingDays(l.StartDate, l.EndDate)
}

// Balance is computed by the backend and displayed as is.
type Balance struct {
	Total     float64 `json:"total"`
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
}
