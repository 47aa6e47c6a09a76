package dashboard

import "context"

type DashboardService interface {
	Overview(ctx context.Context) (Overview, error)
	Activity(ctx context.Context, limit int) ([]Invalidation, error)
	Global(ctx context.Context) (GlobalStats, error)
	Health(ctx context.Context) Health
}
