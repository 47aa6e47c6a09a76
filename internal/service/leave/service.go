package leave

import (
	"context"
	"log/slog"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/domain/leave"
	"github.com/paydesk/payroll-console/internal/domain/user"
)

type LeaveServiceImpl struct {
	leave.LeaveRepository
	employeeRepo employee.EmployeeRepository
	invalidator  dashboard.Invalidator
}

func NewLeaveService(
	leaveRepo leave.LeaveRepository,
	employeeRepo employee.EmployeeRepository,
	invalidator dashboard.Invalidator,
) leave.LeaveService {
	if invalidator == nil {
		invalidator = dashboard.Nop
	}
	return &LeaveServiceImpl{
		LeaveRepository: leaveRepo,
		employeeRepo:    employeeRepo,
		invalidator:     invalidator,
	}
}

// Create files a request. Without an explicit employee the backend resolves the
// caller's own profile; a super admin has none.
func (s *LeaveServiceImpl) Create(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveRow, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRow{}, err
	}

	if req.EmployeeID != nil {
		if err := s.checkEmployee(ctx, *req.EmployeeID); err != nil {
			return leave.LeaveRow{}, err
		}
	} else if sess, err := auth.SessionFromContext(ctx); err == nil && sess.Role == user.RoleSuperAdmin {
		return leave.LeaveRow{}, leave.ErrEmployeeProfileRequired
	}

	l, err := s.LeaveRepository.Create(ctx, req)
	if err != nil {
		return leave.LeaveRow{}, err
	}

	slog.Info("Leave request created", "leave_id", l.ID, "employee_id", l.EmployeeID, "type", l.Type)
	s.invalidate(ctx, "leave.create", l.ID)
	return row(l), nil
}

func (s *LeaveServiceImpl) Approve(ctx context.Context, id string) (leave.LeaveRow, error) {
	return s.decide(ctx, id, leave.Decision{Status: leave.StatusApproved}, "leave.approve")
}

func (s *LeaveServiceImpl) Reject(ctx context.Context, req leave.RejectRequest) (leave.LeaveRow, error) {
	return s.decide(ctx, req.ID, leave.Decision{Status: leave.StatusRejected, RejectionReason: req.Reason}, "leave.reject")
}

// decide forwards the admin's decision. The backend refuses requests that are no
// longer pending and that refusal is returned unchanged.
func (s *LeaveServiceImpl) decide(ctx context.Context, id string, d leave.Decision, action string) (leave.LeaveRow, error) {
	l, err := s.LeaveRepository.Decide(ctx, id, d)
	if err != nil {
		slog.Warn("Leave decision refused", "leave_id", id, "status", d.Status, "error", err)
		return leave.LeaveRow{}, err
	}

	slog.Info("Leave request decided", "leave_id", id, "status", l.Status)
	s.invalidate(ctx, action, id)
	return row(l), nil
}

// Cancel withdraws a pending request; any other status is refused by the backend.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, id string) (leave.LeaveRow, error) {
	l, err := s.LeaveRepository.Cancel(ctx, id)
	if err != nil {
		slog.Warn("Leave cancellation refused", "leave_id", id, "error", err)
		return leave.LeaveRow{}, err
	}

	s.invalidate(ctx, "leave.cancel", id)
	return row(l), nil
}

func (s *LeaveServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRow, error) {
	if err := s.checkEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	list, err := s.LeaveRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return leave.NewLeaveRows(list), nil
}

func (s *LeaveServiceImpl) ListMine(ctx context.Context) ([]leave.LeaveRow, error) {
	list, err := s.LeaveRepository.ListMine(ctx)
	if err != nil {
		return nil, err
	}
	return leave.NewLeaveRows(list), nil
}

// ListByCompany returns the company's requests filtered by status. Counters are
// computed over every status so the admin tabs stay accurate under a filter.
func (s *LeaveServiceImpl) ListByCompany(ctx context.Context, status leave.LeaveStatus) (leave.CompanyLeaves, error) {
	companyID := auth.CompanyScope(ctx)
	if companyID == "" {
		return leave.CompanyLeaves{}, user.ErrCompanyIDRequired
	}

	all, err := s.LeaveRepository.ListByCompany(ctx, companyID, "")
	if err != nil {
		return leave.CompanyLeaves{}, err
	}

	filtered := all
	if status != "" {
		filtered = make([]leave.LeaveRequest, 0, len(all))
		for _, l := range all {
			if l.Status == status {
				filtered = append(filtered, l)
			}
		}
	}
	return leave.CompanyLeaves{
		Leaves:   leave.NewLeaveRows(filtered),
		Counters: leave.CountByStatus(all),
	}, nil
}

func (s *LeaveServiceImpl) Balance(ctx context.Context, employeeID string) (leave.Balance, error) {
	if err := s.checkEmployee(ctx, employeeID); err != nil {
		return leave.Balance{}, err
	}
	return s.LeaveRepository.Balance(ctx, employeeID)
}

func (s *LeaveServiceImpl) MyBalance(ctx context.Context) (leave.Balance, error) {
	return s.LeaveRepository.MyBalance(ctx)
}

func (s *LeaveServiceImpl) checkEmployee(ctx context.Context, employeeID string) error {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	return auth.EnsureCompany(ctx, emp.CompanyID)
}

func (s *LeaveServiceImpl) invalidate(ctx context.Context, action, id string) {
	s.invalidator.Invalidate(ctx, dashboard.NewInvalidation(ctx, "", action, id,
		dashboard.AggregateLeaves, dashboard.AggregateOverview))
}

func row(l leave.LeaveRequest) leave.LeaveRow {
	return leave.LeaveRow{LeaveRequest: l, WorkingDays: l.WorkingDays()}
}
