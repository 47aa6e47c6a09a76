package leave

import "context"

type LeaveService interface {
	Create(ctx context.Context, req CreateLeaveRequest) (LeaveRow, error)
	Approve(ctx context.Context, id string) (LeaveRow, error)
	Reject(ctx context.Context, req RejectRequest) (LeaveRow, error)
	Cancel(ctx context.Context, id string) (LeaveRow, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRow, error)
	ListMine(ctx context.Context) ([]LeaveRow, error)
	ListByCompany(ctx context.Context, status LeaveStatus) (CompanyLeaves, error)
	Balance(ctx context.Context, employeeID string) (Balance, error)
	MyBalance(ctx context.Context) (Balance, error)
}
