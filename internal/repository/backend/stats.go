package backend

import (
	"context"
	"fmt"

	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
)

type statsRepository struct {
	client *restclient.Client
}

func NewStatsRepository(client *restclient.Client) dashboard.StatsRepository {
	return &statsRepository{client: client}
}

func (r *statsRepository) Global(ctx context.Context) (dashboard.GlobalStats, error) {
	var stats dashboard.GlobalStats
	if err := get(ctx, r.client, "/super-admin/stats/global", nil, "stats", &stats); err != nil {
		return dashboard.GlobalStats{}, fmt.Errorf("global stats: %w", err)
	}
	return stats, nil
}

func (r *statsRepository) Health(ctx context.Context) (dashboard.BackendHealth, error) {
	var health dashboard.BackendHealth
	if err := get(ctx, r.client, "/super-admin/stats/health", nil, "health", &health); err != nil {
		return dashboard.BackendHealth{}, fmt.Errorf("backend health: %w", err)
	}
	return health, nil
}
