package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
)

type payRunRepository struct {
	client *restclient.Client
}

func NewPayRunRepository(client *restclient.Client) payroll.PayRunRepository {
	return &payRunRepository{client: client}
}

func (r *payRunRepository) List(ctx context.Context, companyID string) ([]payroll.PayRun, error) {
	var payRuns []payroll.PayRun
	if err := get(ctx, r.client, "/payruns", companyQuery(companyID), "payRuns", &payRuns); err != nil {
		return nil, fmt.Errorf("list pay runs: %w", err)
	}
	return payRuns, nil
}

func (r *payRunRepository) GetByID(ctx context.Context, id string) (payroll.PayRun, error) {
	var p payroll.PayRun
	if err := get(ctx, r.client, "/payruns/"+escape(id), nil, "payRun", &p); err != nil {
		return payroll.PayRun{}, translate(err, payroll.ErrPayRunNotFound)
	}
	return p, nil
}

func (r *payRunRepository) Create(ctx context.Context, req payroll.CreatePayRunRequest) (payroll.PayRun, error) {
	var p payroll.PayRun
	if err := call(ctx, r.client, http.MethodPost, "/payruns", nil, req, "payRun", &p); err != nil {
		return payroll.PayRun{}, fmt.Errorf("create pay run: %w", err)
	}
	return p, nil
}

func (r *payRunRepository) Update(ctx context.Context, req payroll.UpdatePayRunRequest) (payroll.PayRun, error) {
	var p payroll.PayRun
	if err := call(ctx, r.client, http.MethodPut, "/payruns/"+escape(req.ID), nil, req, "payRun", &p); err != nil {
		return payroll.PayRun{}, translate(err, payroll.ErrPayRunNotFound)
	}
	return p, nil
}

func (r *payRunRepository) Delete(ctx context.Context, id string) error {
	return translate(r.client.Delete(ctx, "/payruns/"+escape(id)), payroll.ErrPayRunNotFound)
}

func (r *payRunRepository) GeneratePayslips(ctx context.Context, id string) error {
	return r.command(ctx, id, "generate-payslips")
}

func (r *payRunRepository) Approve(ctx context.Context, id string) error {
	return r.command(ctx, id, "approve")
}

func (r *payRunRepository) Close(ctx context.Context, id string) error {
	return r.command(ctx, id, "close")
}

// command posts a lifecycle action; the caller refetches, so the answer is discarded.
func (r *payRunRepository) command(ctx context.Context, id, action string) error {
	err := r.client.Post(ctx, "/payruns/"+escape(id)+"/"+action, nil, nil)
	return translate(err, payroll.ErrPayRunNotFound)
}
