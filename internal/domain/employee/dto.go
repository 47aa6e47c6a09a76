package employee

import (
	"net/url"
	"strconv"

	"github.com/paydesk/payroll-console/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Email        *string         `json:"email,omitempty"`
	Phone        *string         `json:"phone,omitempty"`
	Position     string          `json:"position"`
	ContractType ContractType    `json:"contractType"`
	Rate         decimal.Decimal `json:"rate"`
	BankDetails  *string         `json:"bankDetails,omitempty"`
	CompanyID    string          `json:"companyId"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FirstName) {
		errs.Add("firstName", "firstName is required")
	}
	if validator.IsEmpty(r.LastName) {
		errs.Add("lastName", "lastName is required")
	}
	if validator.IsEmpty(r.Position) {
		errs.Add("position", "position is required")
	}
	if !r.ContractType.IsValid() {
		errs.Add("contractType", "contractType must be one of FIXE, JOURNALIER, HONORAIRE")
	}
	if !r.Rate.IsPositive() {
		errs.Add("rate", "rate must be greater than zero")
	}
	if r.Email != nil && *r.Email != "" && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "invalid email format")
	}
	if validator.IsEmpty(r.CompanyID) {
		errs.Add("companyId", "companyId is required")
	}

	return errs.OrNil()
}

type UpdateEmployeeRequest struct {
	ID           string           `json:"-"`
	FirstName    *string          `json:"firstName,omitempty"`
	LastName     *string          `json:"lastName,omitempty"`
	Email        *string          `json:"email,omitempty"`
	Phone        *string          `json:"phone,omitempty"`
	Position     *string          `json:"position,omitempty"`
	ContractType *ContractType    `json:"contractType,omitempty"`
	Rate         *decimal.Decimal `json:"rate,omitempty"`
	BankDetails  *string          `json:"bankDetails,omitempty"`
	IsActive     *bool            `json:"isActive,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "employee id is required")
	}
	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs.Add("firstName", "firstName must not be empty")
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs.Add("lastName", "lastName must not be empty")
	}
	if r.ContractType != nil && !r.ContractType.IsValid() {
		errs.Add("contractType", "contractType must be one of FIXE, JOURNALIER, HONORAIRE")
	}
	if r.Rate != nil && !r.Rate.IsPositive() {
		errs.Add("rate", "rate must be greater than zero")
	}
	if r.Email != nil && *r.Email != "" && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "invalid email format")
	}

	return errs.OrNil()
}

// EmployeeFilter narrows employee listings; empty fields are ignored.
type EmployeeFilter struct {
	CompanyID    string
	ContractType ContractType
	Position     string
	Search       string
	IsActive     *bool
}

func (f EmployeeFilter) Query() url.Values {
	q := url.Values{}
	if f.CompanyID != "" {
		q.Set("companyId", f.CompanyID)
	}
	if f.ContractType != "" {
		q.Set("contractType", string(f.ContractType))
	}
	if f.Position != "" {
		q.Set("position", f.Position)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.IsActive != nil {
		q.Set("isActive", strconv.FormatBool(*f.IsActive))
	}
	return q
}
