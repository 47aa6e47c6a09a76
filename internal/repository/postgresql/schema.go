package postgresql

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/paydesk/payroll-console/internal/pkg/database"
)

//go:embed schema.sql
var schema string

// EnsureSchema creates the console's own tables when they are missing.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
