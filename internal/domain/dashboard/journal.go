package dashboard

import (
	"context"
	"log/slog"
)

// Journal records every invalidation in the activity log. A write failure is
// logged and never fails the mutation that caused it.
func Journal(repo ActivityRepository) Invalidator {
	return InvalidatorFunc(func(ctx context.Context, inv Invalidation) {
		if err := repo.Record(context.WithoutCancel(ctx), inv); err != nil {
			slog.Warn("Failed to journal activity", "action", inv.Action, "company_id", inv.CompanyID, "error", err)
		}
	})
}
