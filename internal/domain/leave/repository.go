package leave

import "context"

type LeaveRepository interface {
	Create(ctx context.Context, req CreateLeaveRequest) (LeaveRequest, error)
	Decide(ctx context.Context, id string, d Decision) (LeaveRequest, error)
	Cancel(ctx context.Context, id string) (LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	ListMine(ctx context.Context) ([]LeaveRequest, error)
	ListByCompany(ctx context.Context, companyID string, status LeaveStatus) ([]LeaveRequest, error)
	Balance(ctx context.Context, employeeID string) (Balance, error)
	MyBalance(ctx context.Context) (Balance, error)
}
