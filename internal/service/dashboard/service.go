package dashboard

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	"github.com/paydesk/payroll-console/internal/domain/employee"
	"github.com/paydesk/payroll-console/internal/domain/payroll"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	upcomingLimit   = 5
	recentLimit     = 5
	activityLimit   = 10
	evolutionMonths = 6
)

// Check probes one dependency of the console for the health report.
type Check func(ctx context.Context) error

type DashboardServiceImpl struct {
	payRunRepo   payroll.PayRunRepository
	paymentRepo  payroll.PaymentRepository
	employeeRepo employee.EmployeeRepository
	statsRepo    dashboard.StatsRepository
	activityRepo dashboard.ActivityRepository
	checks       map[string]Check
	overviews    singleflight.Group
	now          func() time.Time
}

// NewDashboardService builds the dashboard. activityRepo may be nil when the
// console runs without a database.
func NewDashboardService(
	payRunRepo payroll.PayRunRepository,
	paymentRepo payroll.PaymentRepository,
	employeeRepo employee.EmployeeRepository,
	statsRepo dashboard.StatsRepository,
	activityRepo dashboard.ActivityRepository,
	checks map[string]Check,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		payRunRepo:   payRunRepo,
		paymentRepo:  paymentRepo,
		employeeRepo: employeeRepo,
		statsRepo:    statsRepo,
		activityRepo: activityRepo,
		checks:       checks,
		now:          time.Now,
	}
}

// Overview returns the dashboard of the caller's active company. Concurrent calls
// for the same company, as after a refresh broadcast, share one fetch.
func (s *DashboardServiceImpl) Overview(ctx context.Context) (dashboard.Overview, error) {
	companyID := auth.CompanyScope(ctx)
	v, err, shared := s.overviews.Do("overview:"+companyID, func() (interface{}, error) {
		return s.overview(ctx, companyID)
	})
	if err != nil {
		return dashboard.Overview{}, err
	}
	if shared {
		slog.Debug("dashboard overview shared", "company_id", companyID)
	}
	return v.(dashboard.Overview), nil
}

func (s *DashboardServiceImpl) overview(ctx context.Context, companyID string) (dashboard.Overview, error) {
	var (
		employees []employee.Employee
		payRuns   []payroll.PayRun
		payments  []payroll.Payment
		stats     payroll.PaymentStats
		activity  []dashboard.Invalidation
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		employees, err = s.employeeRepo.List(gCtx, companyID)
		return err
	})

	g.Go(func() error {
		var err error
		payRuns, err = s.payRunRepo.List(gCtx, companyID)
		return err
	})

	g.Go(func() error {
		var err error
		payments, err = s.paymentRepo.List(gCtx, companyID)
		return err
	})

	g.Go(func() error {
		var err error
		stats, err = s.paymentRepo.Stats(gCtx, companyID)
		return err
	})

	// The journal is optional; its failure never hides the dashboard.
	if s.activityRepo != nil {
		g.Go(func() error {
			recent, err := s.activityRepo.Recent(gCtx, companyID, activityLimit)
			if err != nil {
				slog.Warn("failed to load recent activity", "company_id", companyID, "error", err)
				return nil
			}
			activity = recent
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return dashboard.Overview{}, err
	}

	now := s.now()
	out := dashboard.Overview{
		CompanyID:        companyID,
		TotalSalary:      decimal.Zero,
		PaidAmount:       decimal.Zero,
		PendingAmount:    decimal.Zero,
		PayRunsByStatus:  map[payroll.PayRunStatus]int{},
		UpcomingPayments: []payroll.PendingPayslip{},
		SalaryEvolution:  stats.LastMonths(now, evolutionMonths),
		RecentPayments:   recentPayments(payments, recentLimit),
		RecentActivity:   activity,
		GeneratedAt:      now.UTC(),
	}
	if out.RecentActivity == nil {
		out.RecentActivity = []dashboard.Invalidation{}
	}

	for _, e := range employees {
		if e.IsActive {
			out.ActiveEmployees++
		}
	}

	sort.SliceStable(payRuns, func(i, j int) bool { return payRuns[i].EndDate.Before(payRuns[j].EndDate) })
	for i := range payRuns {
		pr := &payRuns[i]
		out.PayRunsByStatus[pr.Status]++
		for j := range pr.Payslips {
			ps := &pr.Payslips[j]
			paid := ps.PaidTotal()
			out.TotalSalary = out.TotalSalary.Add(ps.Net)
			out.PaidAmount = out.PaidAmount.Add(paid)
			if remaining := ps.Remaining(); remaining.IsPositive() {
				out.PendingAmount = out.PendingAmount.Add(remaining)
				if len(out.UpcomingPayments) < upcomingLimit {
					out.UpcomingPayments = append(out.UpcomingPayments, payroll.PendingView(ps, pr))
				}
			}
		}
	}

	return out, nil
}

func recentPayments(payments []payroll.Payment, limit int) []payroll.Payment {
	sorted := append([]payroll.Payment(nil), payments...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func (s *DashboardServiceImpl) Activity(ctx context.Context, limit int) ([]dashboard.Invalidation, error) {
	if s.activityRepo == nil {
		return []dashboard.Invalidation{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = activityLimit
	}
	return s.activityRepo.Recent(ctx, auth.CompanyScope(ctx), limit)
}

func (s *DashboardServiceImpl) Global(ctx context.Context) (dashboard.GlobalStats, error) {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return dashboard.GlobalStats{}, err
	}
	if sess.Role != user.RoleSuperAdmin {
		return dashboard.GlobalStats{}, user.ErrInsufficientPermissions
	}
	return s.statsRepo.Global(ctx)
}

// Health never fails: each probe reports its own status.
func (s *DashboardServiceImpl) Health(ctx context.Context) dashboard.Health {
	h := dashboard.Health{Status: "ok", Components: []dashboard.ComponentHealth{}}

	backendHealth, err := s.statsRepo.Health(ctx)
	backendComponent := dashboard.ComponentHealth{Name: "backend", Status: "ok"}
	if err != nil {
		backendComponent.Status = "down"
		backendComponent.Error = err.Error()
		h.Status = "degraded"
	} else {
		h.Backend = &backendHealth
	}
	h.Components = append(h.Components, backendComponent)

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]dashboard.ComponentHealth, len(names))
	g, gCtx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			results[i] = dashboard.ComponentHealth{Name: name, Status: "ok"}
			if err := s.checks[name](gCtx); err != nil {
				results[i].Status = "down"
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, c := range results {
		if c.Status != "ok" {
			h.Status = "degraded"
		}
		h.Components = append(h.Components, c)
	}
	return h
}
