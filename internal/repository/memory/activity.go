package memory

import (
	"context"
	"sync"

	"github.com/paydesk/payroll-console/internal/domain/dashboard"
)

// ActivityRepository keeps the most recent invalidations, newest first.
type ActivityRepository struct {
	mu      sync.Mutex
	limit   int
	entries []dashboard.Invalidation
}

func NewActivityRepository(limit int) *ActivityRepository {
	if limit <= 0 {
		limit = 500
	}
	return &ActivityRepository{limit: limit}
}

var _ dashboard.ActivityRepository = (*ActivityRepository)(nil)

func (m *ActivityRepository) Record(_ context.Context, inv dashboard.Invalidation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]dashboard.Invalidation{inv}, m.entries...)
	if len(m.entries) > m.limit {
		m.entries = m.entries[:m.limit]
	}
	return nil
}

// Recent returns up to limit entries of companyID, or of every company when companyID is "".
func (m *ActivityRepository) Recent(_ context.Context, companyID string, limit int) ([]dashboard.Invalidation, error) {
	if limit <= 0 {
		limit = 20
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]dashboard.Invalidation, 0, limit)
	for _, inv := range m.entries {
		if len(out) == limit {
			break
		}
		if companyID == "" || inv.CompanyID == companyID {
			out = append(out, inv)
		}
	}
	return out, nil
}
