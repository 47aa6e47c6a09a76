package payroll

import (
	"time"

	"github.com/paydesk/payroll-console/internal/domain/company"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/shopspring/decimal"
)

type PayRunStatus string

const (
	PayRunDraft    PayRunStatus = "BROUILLON"
	PayRunApproved PayRunStatus = "APPROUVE"
	PayRunClosed   PayRunStatus = "CLOTURE"
)

// Rank orders statuses along the one-way lifecycle; unknown statuses rank -1.
func (s PayRunStatus) Rank() int {
	switch s {
	case PayRunDraft:
		return 0
	case PayRunApproved:
		return 1
	case PayRunClosed:
		return 2
	}
	return -1
}

type PayslipStatus string

const (
	PayslipPending PayslipStatus = "EN_ATTENTE"
	PayslipPartial PayslipStatus = "PARTIEL"
	PayslipPaid    PayslipStatus = "PAYE"
)

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "ESPECES"
	MethodBankTransfer PaymentMethod = "VIREMENT"
	MethodMobileMoneyA PaymentMethod = "ORANGE_MONEY"
	MethodMobileMoneyB PaymentMethod = "WAVE"
)

var PaymentMethods = []PaymentMethod{MethodCash, MethodBankTransfer, MethodMobileMoneyA, MethodMobileMoneyB}

func (m PaymentMethod) IsValid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// Label is the French wording printed on receipts.
func (m PaymentMethod) Label() string {
	switch m {
	case MethodCash:
		return "Espèces"
	case MethodBankTransfer:
		return "Virement bancaire"
	case MethodMobileMoneyA:
		return "Orange Money"
	case MethodMobileMoneyB:
		return "Wave"
	}
	return string(m)
}

type PayRun struct {
	ID        string           `json:"id"`
	Name      *string          `json:"name,omitempty"`
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
	Status    PayRunStatus     `json:"status"`
	CompanyID string           `json:"companyId"`
	Company   *company.Company `json:"company,omitempty"`
	Payslips  []Payslip        `json:"payslips,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type Payslip struct {
	ID          string             `json:"id"`
	PayRunID    string             `json:"payRunId"`
	EmployeeID  string             `json:"employeeId"`
	Employee    *employee.Employee `json:"employee,omitempty"`
	PayRun      *PayRun            `json:"payRun,omitempty"`
	Gross       decimal.Decimal    `json:"gross"`
	Deductions  decimal.Decimal    `json:"deductions"`
	Net         decimal.Decimal    `json:"net"`
	DaysWorked  *decimal.Decimal   `json:"daysWorked,omitempty"`
	HoursWorked *decimal.Decimal   `json:"hoursWorked,omitempty"`
	Status      PayslipStatus      `json:"status"`
	Payments    []Payment          `json:"payments,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// Payment is an append-only ledger entry against one payslip
type Payment struct {
	ID        string          `json:"id"`
	PayslipID string          `json:"payslipId"`
	Amount    decimal.Decimal `json:"amount"`
	Method    PaymentMethod   `json:"method"`
	Reference *string         `json:"reference,omitempty"`
	Payslip   *Payslip        `json:"payslip,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
