package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	"github.com/paydesk/payroll-console/internal/pkg/database"
)

// activityRetention bounds how far back the journal is kept.
const activityRetention = 90 * 24 * time.Hour

type activityRepositoryImpl struct {
	db *database.DB
}

func NewActivityRepository(db *database.DB) dashboard.ActivityRepository {
	return &activityRepositoryImpl{db: db}
}

// Record appends inv and prunes entries past the retention window in the same transaction.
func (r *activityRepositoryImpl) Record(ctx context.Context, inv dashboard.Invalidation) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		if err := r.insert(ctx, inv); err != nil {
			return err
		}
		return r.prune(ctx, inv.At.Add(-activityRetention))
	})
}

func (r *activityRepositoryImpl) insert(ctx context.Context, inv dashboard.Invalidation) error {
	q := GetQuerier(ctx, r.db)

	aggregates := make([]string, 0, len(inv.Aggregates))
	for _, a := range inv.Aggregates {
		aggregates = append(aggregates, string(a))
	}

	query := `
		INSERT INTO console_activity (id, company_id, user_id, action, entity_id, aggregates, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.Exec(ctx, query, uuid.New(), inv.CompanyID, inv.UserID, inv.Action, inv.EntityID, aggregates, inv.At)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

func (r *activityRepositoryImpl) prune(ctx context.Context, before time.Time) error {
	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, `DELETE FROM console_activity WHERE created_at < $1`, before); err != nil {
		return fmt.Errorf("failed to prune activity: %w", err)
	}
	return nil
}

// Recent lists the latest activity, newest first. An empty companyID lists every company.
func (r *activityRepositoryImpl) Recent(ctx context.Context, companyID string, limit int) ([]dashboard.Invalidation, error) {
	q := GetQuerier(ctx, r.db)

	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT company_id, user_id, action, entity_id, aggregates, created_at
		FROM console_activity
		WHERE ($1 = '' OR company_id = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := q.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var out []dashboard.Invalidation
	for rows.Next() {
		var inv dashboard.Invalidation
		var aggregates []string
		if err := rows.Scan(&inv.CompanyID, &inv.UserID, &inv.Action, &inv.EntityID, &aggregates, &inv.At); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		for _, a := range aggregates {
			inv.Aggregates = append(inv.Aggregates, dashboard.Aggregate(a))
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity: %w", err)
	}
	return out, nil
}
