package leave

import (
	"github.com/paydesk/payroll-console/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	EmployeeID *string   `json:"employeeId,omitempty"`
	Type       LeaveType `json:"type"`
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	Reason     *string   `json:"reason,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Type.IsValid() {
		errs.Add("type", "type must be one of ANNUEL, MALADIE, EXCEPTIONNEL, MATERNITE, PATERNITE, SANS_SOLDE")
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
		errs.Add("endDate", ErrInvalidDateRange.Error())
	}

	return errs.OrNil()
}

// Decision is the body of the backend's approve endpoint, used for both outcomes.
type Decision struct {
	Status          LeaveStatus `json:"status"`
	RejectionReason *string     `json:"rejectionReason,omitempty"`
}

type RejectRequest struct {
	ID     string  `json:"-"`
	Reason *string `json:"reason,omitempty"`
}

// LeaveRow is a leave request as listed, carrying its working-day count.
type LeaveRow struct {
	LeaveRequest
	WorkingDays int `json:"workingDays"`
}

func NewLeaveRows(requests []LeaveRequest) []LeaveRow {
	rows := make([]LeaveRow, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, LeaveRow{LeaveRequest: r, WorkingDays: r.WorkingDays()})
	}
	return rows
}

// Counters backs the admin view's per-status tabs.
type Counters struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

func CountByStatus(requests []LeaveRequest) Counters {
	c := Counters{Total: len(requests)}
	for _, r := range requests {
		switch r.Status {
		case StatusPending:
			c.Pending++
		case StatusApproved:
			c.Approved++
		case StatusRejected:
			c.Rejected++
		}
	}
	return c
}

type CompanyLeaves struct {
	Leaves   []LeaveRow `json:"leaves"`
	Counters Counters   `json:"counters"`
}
