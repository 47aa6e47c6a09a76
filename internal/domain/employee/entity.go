package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type ContractType string

const (
	ContractFixed      ContractType = "FIXE"       // Monthly salary
	ContractDaily      ContractType = "JOURNALIER" // Paid per day worked
	ContractHonorarium ContractType = "HONORAIRE"  // Paid per hour worked
)

var ContractTypes = []ContractType{ContractFixed, ContractDaily, ContractHonorarium}

func (c ContractType) IsValid() bool {
	for _, known := range ContractTypes {
		if c == known {
			return true
		}
	}
	return false
}

// TracksDailyAttendance reports whether pay for this contract depends on daily attendance entries.
func (c ContractType) TracksDailyAttendance() bool {
	return c == ContractDaily || c == ContractHonorarium
}

type Employee struct {
	ID           string          `json:"id"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Email        *string         `json:"email,omitempty"`
	Phone        *string         `json:"phone,omitempty"`
	Position     string          `json:"position"`
	ContractType ContractType    `json:"contractType"`
	Rate         decimal.Decimal `json:"rate"`
	BankDetails  *string         `json:"bankDetails,omitempty"`
	IsActive     bool            `json:"isActive"`
	QRCodeID     *string         `json:"qrCodeId,omitempty"`
	CompanyID    string          `json:"companyId"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// PayslipSummary is one line of an employee's payslip history
type PayslipSummary struct {
	ID         string          `json:"id"`
	PayRunID   string          `json:"payRunId"`
	PayRunName string          `json:"payRunName,omitempty"`
	Gross      decimal.Decimal `json:"gross"`
	Deductions decimal.Decimal `json:"deductions"`
	Net        decimal.Decimal `json:"net"`
	Status     string          `json:"status"`
}

type Stats struct {
	Employee      Employee         `json:"employee"`
	TotalPayslips int              `json:"totalPayslips"`
	TotalPaid     decimal.Decimal  `json:"totalPaid"`
	TotalPending  decimal.Decimal  `json:"totalPending"`
	Payslips      []PayslipSummary `json:"payslips"`
}
