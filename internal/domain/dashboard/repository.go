package dashboard

import "context"

// StatsRepository serves the backend's super admin statistics.
type StatsRepository interface {
	Global(ctx context.Context) (GlobalStats, error)
	Health(ctx context.Context) (BackendHealth, error)
}

// ActivityRepository journals mutations made through the console.
type ActivityRepository interface {
	Record(ctx context.Context, inv Invalidation) error
	Recent(ctx context.Context, companyID string, limit int) ([]Invalidation, error)
}
