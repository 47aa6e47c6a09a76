package payroll

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/company"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreatePayRunRequest struct {
	Name      *string `json:"name,omitempty"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	CompanyID string  `json:"companyId"`
}

func (r *CreatePayRunRequest) Validate() error {
	var errs validator.ValidationErrors

	validatePeriod(&errs, r.StartDate, r.EndDate)
	if validator.IsEmpty(r.CompanyID) {
		errs.Add("companyId", "companyId is required")
	}
	if r.Name != nil && len(*r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}

	return errs.OrNil()
}

type UpdatePayRunRequest struct {
	ID        string  `json:"-"`
	Name      *string `json:"name,omitempty"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
}

func (r *UpdatePayRunRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "pay run id is required")
	}
	validatePeriod(&errs, r.StartDate, r.EndDate)

	return errs.OrNil()
}

// validatePeriod enforces start <= end with both dates inside [2000-01-01, 2100-12-31].
func validatePeriod(errs *validator.ValidationErrors, startStr, endStr string) {
	start, startOK := validator.IsValidDate(startStr)
	end, endOK := validator.IsValidDate(endStr)

	if !startOK {
		errs.Add("startDate", "startDate must be a date in YYYY-MM-DD format")
	} else if !validator.IsWithinCycleBounds(start) {
		errs.Add("startDate", "startDate must be between 2000-01-01 and 2100-12-31")
	}
	if !endOK {
		errs.Add("endDate", "endDate must be a date in YYYY-MM-DD format")
	} else if !validator.IsWithinCycleBounds(end) {
		errs.Add("endDate", "endDate must be between 2000-01-01 and 2100-12-31")
	}
	if startOK && endOK && start.After(end) {
		errs.Add("endDate", "endDate must not be before startDate")
	}
}

// PayRunView is a pay run together with the actions the operator may take next.
type PayRunView struct {
	PayRun
	PeriodLabel    string   `json:"periodLabel"`
	PayslipCount   int      `json:"payslipCount"`
	AllowedActions []Action `json:"allowedActions"`
}

func NewPayRunView(p PayRun) PayRunView {
	return PayRunView{
		PayRun:         p,
		PeriodLabel:    p.PeriodLabel(),
		PayslipCount:   len(p.Payslips),
		AllowedActions: p.AllowedActions(),
	}
}

// TransitionResult is returned by every lifecycle command: the refetched pay run
// and the refreshed collection for the company scope.
type TransitionResult struct {
	PayRun  PayRunView   `json:"payRun"`
	PayRuns []PayRunView `json:"payRuns"`
}

// Amount is a monetary input kept as typed by the operator so it can be checked
// against the two-decimals rule before conversion. JSON strings and numbers are accepted.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a number: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) Valid() bool {
	return validator.IsValidAmount(string(a))
}

func (a Amount) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(string(a)))
}

type SubmitPaymentRequest struct {
	PayslipID string        `json:"payslipId"`
	Amount    Amount        `json:"amount"`
	Method    PaymentMethod `json:"method"`
	Reference *string       `json:"reference,omitempty"`
}

func (r *SubmitPaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PayslipID) {
		errs.Add("payslipId", "payslipId is required")
	}
	if !r.Amount.Valid() {
		errs.Add("amount", "amount must be a positive number with at most 2 decimals")
	}
	if r.Method == "" {
		r.Method = MethodCash
	}
	if !r.Method.IsValid() {
		errs.Add("method", "method must be one of ESPECES, VIREMENT, ORANGE_MONEY, WAVE")
	}

	return errs.OrNil()
}

type UpdatePaymentRequest struct {
	ID        string         `json:"-"`
	Amount    *Amount        `json:"amount,omitempty"`
	Method    *PaymentMethod `json:"method,omitempty"`
	Reference *string        `json:"reference,omitempty"`
}

func (r *UpdatePaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "payment id is required")
	}
	if r.Amount != nil && !r.Amount.Valid() {
		errs.Add("amount", "amount must be a positive number with at most 2 decimals")
	}
	if r.Method != nil && !r.Method.IsValid() {
		errs.Add("method", "method must be one of ESPECES, VIREMENT, ORANGE_MONEY, WAVE")
	}

	return errs.OrNil()
}

// NewPayment is the payload sent to the backend once the input has been validated.
type NewPayment struct {
	PayslipID string
	Amount    decimal.Decimal
	Method    PaymentMethod
	Reference *string
}

// PaymentPatch is the validated form of UpdatePaymentRequest.
type PaymentPatch struct {
	ID        string
	Amount    *decimal.Decimal
	Method    *PaymentMethod
	Reference *string
}

// PendingPayslip is a payslip still owed money, denormalized for the ledger view.
type PendingPayslip struct {
	ID          string             `json:"id"`
	PayRunID    string             `json:"payRunId"`
	PayRunState PayRunStatus       `json:"payRunStatus"`
	PeriodLabel string             `json:"periodLabel"`
	Employee    *employee.Employee `json:"employee,omitempty"`
	Company     company.Branding   `json:"company"`
	Net         decimal.Decimal    `json:"net"`
	Paid        decimal.Decimal    `json:"paid"`
	Remaining   decimal.Decimal    `json:"remaining"`
	Status      PayslipStatus      `json:"status"`
}

// PaymentCapture pre-fills the payment form for one payslip.
type PaymentCapture struct {
	Payslip       PendingPayslip  `json:"payslip"`
	DefaultAmount decimal.Decimal `json:"defaultAmount"`
	DefaultMethod PaymentMethod   `json:"defaultMethod"`
	Methods       []PaymentMethod `json:"methods"`
}

type SubmitPaymentResult struct {
	Payment     Payment          `json:"payment"`
	Remaining   decimal.Decimal  `json:"remaining"`
	Overpaid    bool             `json:"overpaid"`
	Overpayment decimal.Decimal  `json:"overpayment"`
	Pending     []PendingPayslip `json:"pending"`
	History     []Payment        `json:"history"`
}

type MonthlyAmount struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

type PaymentStats struct {
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	MonthlyPayments []MonthlyAmount `json:"monthlyPayments"`
}

// LastMonths returns the trailing n months of the evolution series ending at now,
// filling months without payments with zero.
func (s PaymentStats) LastMonths(now time.Time, n int) []MonthlyAmount {
	byMonth := make(map[string]decimal.Decimal, len(s.MonthlyPayments))
	for _, m := range s.MonthlyPayments {
		byMonth[m.Month] = byMonth[m.Month].Add(m.Amount)
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]MonthlyAmount, 0, n)
	for i := n - 1; i >= 0; i-- {
		key := first.AddDate(0, -i, 0).Format("2006-01")
		out = append(out, MonthlyAmount{Month: key, Amount: byMonth[key]})
	}
	return out
}
