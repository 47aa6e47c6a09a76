package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
	"github.com/shopspring/decimal"
)

type employeeRepository struct {
	client *restclient.Client
}

func NewEmployeeRepository(client *restclient.Client) employee.EmployeeRepository {
	return &employeeRepository{client: client}
}

// employeeBody mirrors the create/update requests with the rate as a JSON number.
type employeeBody struct {
	FirstName    *string                `json:"firstName,omitempty"`
	LastName     *string                `json:"lastName,omitempty"`
	Email        *string                `json:"email,omitempty"`
	Phone        *string                `json:"phone,omitempty"`
	Position     *string                `json:"position,omitempty"`
	ContractType *employee.ContractType `json:"contractType,omitempty"`
	Rate         *float64               `json:"rate,omitempty"`
	BankDetails  *string                `json:"bankDetails,omitempty"`
	IsActive     *bool                  `json:"isActive,omitempty"`
	CompanyID    *string                `json:"companyId,omitempty"`
}

func rateNumber(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

func (r *employeeRepository) List(ctx context.Context, companyID string) ([]employee.Employee, error) {
	path := "/employees"
	if companyID != "" {
		path = "/employees/company/" + escape(companyID)
	}
	var employees []employee.Employee
	if err := get(ctx, r.client, path, nil, "employees", &employees); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

func (r *employeeRepository) Search(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	var employees []employee.Employee
	if err := get(ctx, r.client, "/employees/filter/search", filter.Query(), "employees", &employees); err != nil {
		return nil, fmt.Errorf("search employees: %w", err)
	}
	return employees, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var e employee.Employee
	if err := get(ctx, r.client, "/employees/"+escape(id), nil, "employee", &e); err != nil {
		return employee.Employee{}, translate(err, employee.ErrEmployeeNotFound)
	}
	return e, nil
}

func (r *employeeRepository) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	contract := req.ContractType
	body := employeeBody{
		FirstName:    &req.FirstName,
		LastName:     &req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Position:     &req.Position,
		ContractType: &contract,
		Rate:         rateNumber(&req.Rate),
		BankDetails:  req.BankDetails,
		CompanyID:    &req.CompanyID,
	}

	var e employee.Employee
	if err := call(ctx, r.client, http.MethodPost, "/employees", nil, body, "employee", &e); err != nil {
		return employee.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	return e, nil
}

func (r *employeeRepository) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	body := employeeBody{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Position:     req.Position,
		ContractType: req.ContractType,
		Rate:         rateNumber(req.Rate),
		BankDetails:  req.BankDetails,
		IsActive:     req.IsActive,
	}

	var e employee.Employee
	if err := call(ctx, r.client, http.MethodPut, "/employees/"+escape(req.ID), nil, body, "employee", &e); err != nil {
		return employee.Employee{}, translate(err, employee.ErrEmployeeNotFound)
	}
	return e, nil
}

func (r *employeeRepository) ToggleStatus(ctx context.Context, id string) (employee.Employee, error) {
	var e employee.Employee
	path := "/employees/" + escape(id) + "/toggle-status"
	if err := call(ctx, r.client, http.MethodPatch, path, nil, nil, "employee", &e); err != nil {
		return employee.Employee{}, translate(err, employee.ErrEmployeeNotFound)
	}
	return e, nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	return translate(r.client.Delete(ctx, "/employees/"+escape(id)), employee.ErrEmployeeNotFound)
}

func (r *employeeRepository) Stats(ctx context.Context, id string) (employee.Stats, error) {
	var stats employee.Stats
	if err := get(ctx, r.client, "/employees/"+escape(id)+"/stats", nil, "stats", &stats); err != nil {
		return employee.Stats{}, translate(err, employee.ErrEmployeeNotFound)
	}
	return stats, nil
}
