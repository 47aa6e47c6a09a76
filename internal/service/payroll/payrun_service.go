package payroll

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
	"golang.org/x/sync/singleflight"
)

type PayRunServiceImpl struct {
	payRunRepo  payroll.PayRunRepository
	invalidator dashboard.Invalidator
	refetch     singleflight.Group
}

func NewPayRunService(
	payRunRepo payroll.PayRunRepository,
	invalidator dashboard.Invalidator,
) payroll.PayRunService {
	if invalidator == nil {
		invalidator = dashboard.Nop
	}
	return &PayRunServiceImpl{
		payRunRepo:  payRunRepo,
		invalidator: invalidator,
	}
}

func (s *PayRunServiceImpl) List(ctx context.Context) ([]payroll.PayRunView, error) {
	payRuns, err := s.list(ctx, auth.CompanyScope(ctx))
	if err != nil {
		return nil, err
	}
	return views(payRuns), nil
}

// list collapses concurrent reads of the same company scope and backend token into
// one backend call. The shared call is detached from the first caller's cancellation.
func (s *PayRunServiceImpl) list(ctx context.Context, companyID string) ([]payroll.PayRun, error) {
	key := "payruns:" + companyID + ":" + restclient.TokenFromContext(ctx)
	v, err, _ := s.refetch.Do(key, func() (any, error) {
		return s.payRunRepo.List(context.WithoutCancel(ctx), companyID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]payroll.PayRun), nil
}

func (s *PayRunServiceImpl) GetByID(ctx context.Context, id string) (payroll.PayRunView, error) {
	p, err := s.fetch(ctx, id)
	if err != nil {
		return payroll.PayRunView{}, err
	}
	return payroll.NewPayRunView(p), nil
}

func (s *PayRunServiceImpl) Create(ctx context.Context, req payroll.CreatePayRunRequest) (payroll.PayRunView, error) {
	if req.CompanyID == "" {
		req.CompanyID = auth.CompanyScope(ctx)
	}
	if err := req.Validate(); err != nil {
		return payroll.PayRunView{}, err
	}
	if err := auth.EnsureCompany(ctx, req.CompanyID); err != nil {
		return payroll.PayRunView{}, err
	}

	p, err := s.payRunRepo.Create(ctx, req)
	if err != nil {
		return payroll.PayRunView{}, err
	}

	slog.Info("Pay run created", "pay_run_id", p.ID, "company_id", p.CompanyID)
	s.invalidate(ctx, p.CompanyID, "payrun.create", p.ID, dashboard.AggregatePayRuns, dashboard.AggregateOverview)
	return payroll.NewPayRunView(p), nil
}

func (s *PayRunServiceImpl) Update(ctx context.Context, req payroll.UpdatePayRunRequest) (payroll.PayRunView, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayRunView{}, err
	}

	current, err := s.fetch(ctx, req.ID)
	if err != nil {
		return payroll.PayRunView{}, err
	}
	if err := current.CanEdit(); err != nil {
		return payroll.PayRunView{}, err
	}

	p, err := s.payRunRepo.Update(ctx, req)
	if err != nil {
		return payroll.PayRunView{}, err
	}

	s.invalidate(ctx, current.CompanyID, "payrun.update", p.ID, dashboard.AggregatePayRuns)
	return payroll.NewPayRunView(p), nil
}

func (s *PayRunServiceImpl) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := confirm.Require(confirmed); err != nil {
		return err
	}

	current, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := current.CanEdit(); err != nil {
		return err
	}
	if err := s.payRunRepo.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("Pay run deleted", "pay_run_id", id, "company_id", current.CompanyID)
	s.invalidate(ctx, current.CompanyID, "payrun.delete", id, dashboard.AggregatePayRuns, dashboard.AggregateOverview)
	return nil
}

func (s *PayRunServiceImpl) GeneratePayslips(ctx context.Context, id string) (payroll.TransitionResult, error) {
	return s.transition(ctx, id, payroll.ActionGeneratePayslips,
		(*payroll.PayRun).CanGeneratePayslips,
		s.payRunRepo.GeneratePayslips,
		dashboard.AggregatePayRuns, dashboard.AggregatePending, dashboard.AggregatePayments, dashboard.AggregateOverview,
	)
}

func (s *PayRunServiceImpl) Approve(ctx context.Context, id string) (payroll.TransitionResult, error) {
	return s.transition(ctx, id, payroll.ActionApprove,
		(*payroll.PayRun).CanApprove,
		s.payRunRepo.Approve,
		dashboard.AggregatePayRuns, dashboard.AggregatePayments, dashboard.AggregateOverview,
	)
}

// Close is irreversible and needs the operator's confirmation.
func (s *PayRunServiceImpl) Close(ctx context.Context, id string, confirmed bool) (payroll.TransitionResult, error) {
	if err := confirm.Require(confirmed); err != nil {
		return payroll.TransitionResult{}, err
	}
	return s.transition(ctx, id, payroll.ActionClose,
		(*payroll.PayRun).CanClose,
		s.payRunRepo.Close,
		dashboard.AggregatePayRuns, dashboard.AggregatePayments, dashboard.AggregateAttendance, dashboard.AggregateOverview,
	)
}

// transition runs fetch, guard, mutate, refetch, invalidate. The guard runs on a
// fresh copy; a backend 409 is returned as is so the caller can refetch and retry.
func (s *PayRunServiceImpl) transition(
	ctx context.Context,
	id string,
	action payroll.Action,
	guard func(*payroll.PayRun) error,
	mutate func(context.Context, string) error,
	aggregates ...dashboard.Aggregate,
) (payroll.TransitionResult, error) {
	current, err := s.fetch(ctx, id)
	if err != nil {
		return payroll.TransitionResult{}, err
	}
	if err := guard(&current); err != nil {
		return payroll.TransitionResult{}, err
	}

	if err := mutate(ctx, id); err != nil {
		slog.Warn("Pay run transition failed", "pay_run_id", id, "action", action, "error", err)
		return payroll.TransitionResult{}, fmt.Errorf("%s pay run: %w", action, err)
	}
	slog.Info("Pay run transition", "pay_run_id", id, "action", action, "from", current.Status)

	result := payroll.TransitionResult{PayRun: payroll.NewPayRunView(current)}
	if refreshed, err := s.payRunRepo.GetByID(ctx, id); err != nil {
		slog.Warn("Refetch after pay run transition failed", "pay_run_id", id, "error", err)
	} else {
		result.PayRun = payroll.NewPayRunView(refreshed)
	}
	// Bypasses the shared flight: a list started before the mutation would be stale.
	if payRuns, err := s.payRunRepo.List(ctx, auth.CompanyScope(ctx)); err != nil {
		slog.Warn("Refetch of pay runs failed", "pay_run_id", id, "error", err)
	} else {
		result.PayRuns = views(payRuns)
	}

	s.invalidate(ctx, current.CompanyID, "payrun."+string(action), id, aggregates...)
	return result, nil
}

// fetch loads a pay run and checks it belongs to the caller's company.
func (s *PayRunServiceImpl) fetch(ctx context.Context, id string) (payroll.PayRun, error) {
	p, err := s.payRunRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayRun{}, err
	}
	if err := auth.EnsureCompany(ctx, p.CompanyID); err != nil {
		return payroll.PayRun{}, err
	}
	return p, nil
}

func (s *PayRunServiceImpl) invalidate(ctx context.Context, companyID, action, entityID string, aggregates ...dashboard.Aggregate) {
	s.invalidator.Invalidate(ctx, dashboard.NewInvalidation(ctx, companyID, action, entityID, aggregates...))
}

func views(payRuns []payroll.PayRun) []payroll.PayRunView {
	out := make([]payroll.PayRunView, 0, len(payRuns))
	for _, p := range payRuns {
		out = append(out, payroll.NewPayRunView(p))
	}
	return out
}
