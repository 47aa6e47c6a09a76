package qrcode

import (
	"time"

	"github.com/paydesk/payroll-console/internal/domain/attendance"
	"github.com/paydesk/payroll-console/internal/domain/employee"
)

// QRCode is an employee's current check-in credential. Data is opaque to the console.
type QRCode struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Data       string    `json:"data"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BulkResult is the outcome of bulk generation for one employee.
type BulkResult struct {
	EmployeeID string `json:"employeeId"`
	Success    bool   `json:"success"`
	QRCodeID   string `json:"qrCodeId,omitempty"`
	Error      string `json:"error,omitempty"`
}

type Validation struct {
	IsValid    bool               `json:"isValid"`
	EmployeeID string             `json:"employeeId,omitempty"`
	Employee   *employee.Employee `json:"employee,omitempty"`
}

type CheckInResult struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Employee   *employee.Employee     `json:"employee,omitempty"`
	Attendance *attendance.Attendance `json:"attendance,omitempty"`
}
