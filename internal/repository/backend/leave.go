package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/paydesk/payroll-console/internal/domain/leave"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
)

type leaveRepository struct {
	client *restclient.Client
}

func NewLeaveRepository(client *restclient.Client) leave.LeaveRepository {
	return &leaveRepository{client: client}
}

func (r *leaveRepository) Create(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveRequest, error) {
	var l leave.LeaveRequest
	if err := call(ctx, r.client, http.MethodPost, "/leaves", nil, req, "leave", &l); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("create leave request: %w", err)
	}
	return l, nil
}

func (r *leaveRepository) Decide(ctx context.Context, id string, d leave.Decision) (leave.LeaveRequest, error) {
	var l leave.LeaveRequest
	if err := call(ctx, r.client, http.MethodPut, "/leaves/"+escape(id)+"/approve", nil, d, "leave", &l); err != nil {
		return leave.LeaveRequest{}, translate(err, leave.ErrLeaveRequestNotFound)
	}
	return l, nil
}

func (r *leaveRepository) Cancel(ctx context.Context, id string) (leave.LeaveRequest, error) {
	var l leave.LeaveRequest
	if err := call(ctx, r.client, http.MethodPut, "/leaves/"+escape(id)+"/cancel", nil, nil, "leave", &l); err != nil {
		return leave.LeaveRequest{}, translate(err, leave.ErrLeaveRequestNotFound)
	}
	return l, nil
}

func (r *leaveRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	return r.list(ctx, "/leaves/employee/"+escape(employeeID), nil)
}

func (r *leaveRepository) ListMine(ctx context.Context) ([]leave.LeaveRequest, error) {
	return r.list(ctx, "/leaves/my-leaves", nil)
}

func (r *leaveRepository) ListByCompany(ctx context.Context, companyID string, status leave.LeaveStatus) ([]leave.LeaveRequest, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {string(status)}}
	}
	return r.list(ctx, "/leaves/company/"+escape(companyID), query)
}

func (r *leaveRepository) list(ctx context.Context, path string, query url.Values) ([]leave.LeaveRequest, error) {
	var leaves []leave.LeaveRequest
	if err := get(ctx, r.client, path, query, "leaves", &leaves); err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	return leaves, nil
}

func (r *leaveRepository) Balance(ctx context.Context, employeeID string) (leave.Balance, error) {
	return r.balance(ctx, "/leaves/balance/"+escape(employeeID))
}

func (r *leaveRepository) MyBalance(ctx context.Context) (leave.Balance, error) {
	return r.balance(ctx, "/leaves/my-balance")
}

func (r *leaveRepository) balance(ctx context.Context, path string) (leave.Balance, error) {
	var b leave.Balance
	if err := get(ctx, r.client, path, nil, "balance", &b); err != nil {
		return leave.Balance{}, fmt.Errorf("leave balance: %w", err)
	}
	return b, nil
}
