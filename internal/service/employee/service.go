package employee

import (
	"context"
	"log/slog"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
)

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
	invalidator dashboard.Invalidator
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, invalidator dashboard.Invalidator) employee.EmployeeService {
	if invalidator == nil {
		invalidator = dashboard.Nop
	}
	return &EmployeeServiceImpl{
		EmployeeRepository: employeeRepo,
		invalidator:        invalidator,
	}
}

// List returns the employees of the caller's active company. A super admin
// without an active company sees every company unless the filter names one.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	if scope := auth.CompanyScope(ctx); scope != "" {
		if filter.CompanyID == "" {
			filter.CompanyID = scope
		}
		if err := auth.EnsureCompany(ctx, filter.CompanyID); err != nil {
			return nil, err
		}
	}

	if filter == (employee.EmployeeFilter{CompanyID: filter.CompanyID}) {
		return s.EmployeeRepository.List(ctx, filter.CompanyID)
	}
	return s.EmployeeRepository.Search(ctx, filter)
}

func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}
	if err := auth.EnsureCompany(ctx, emp.CompanyID); err != nil {
		return employee.Employee{}, err
	}
	return emp, nil
}

func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	if req.CompanyID == "" {
		req.CompanyID = auth.CompanyScope(ctx)
	}
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}
	if err := auth.EnsureCompany(ctx, req.CompanyID); err != nil {
		return employee.Employee{}, err
	}

	created, err := s.EmployeeRepository.Create(ctx, req)
	if err != nil {
		slog.Error("failed to create employee", "company_id", req.CompanyID, "error", err)
		return employee.Employee{}, err
	}

	s.invalidate(ctx, created.CompanyID, "employee.create", created.ID)
	return created, nil
}

func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}
	if _, err := s.GetByID(ctx, req.ID); err != nil {
		return employee.Employee{}, err
	}

	updated, err := s.EmployeeRepository.Update(ctx, req)
	if err != nil {
		return employee.Employee{}, err
	}

	s.invalidate(ctx, updated.CompanyID, "employee.update", updated.ID)
	return updated, nil
}

// ToggleStatus flips the active flag. Inactive employees drop out of bulk
// generation, daily rosters and QR check-in.
func (s *EmployeeServiceImpl) ToggleStatus(ctx context.Context, id string) (employee.Employee, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return employee.Employee{}, err
	}

	toggled, err := s.EmployeeRepository.ToggleStatus(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}

	slog.Info("employee status toggled", "employee_id", id, "is_active", toggled.IsActive)
	s.invalidate(ctx, toggled.CompanyID, "employee.toggle", id)
	return toggled, nil
}

func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := confirm.Require(confirmed); err != nil {
		return err
	}
	emp, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.EmployeeRepository.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("employee deleted", "employee_id", id, "company_id", emp.CompanyID)
	s.invalidate(ctx, emp.CompanyID, "employee.delete", id)
	return nil
}

func (s *EmployeeServiceImpl) Stats(ctx context.Context, id string) (employee.Stats, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return employee.Stats{}, err
	}
	return s.EmployeeRepository.Stats(ctx, id)
}

func (s *EmployeeServiceImpl) invalidate(ctx context.Context, companyID, action, entityID string) {
	s.invalidator.Invalidate(ctx, dashboard.NewInvalidation(ctx, companyID, action, entityID,
		dashboard.AggregateEmployees, dashboard.AggregateOverview))
}
