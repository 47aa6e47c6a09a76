package postgresql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	ctx := context.Background()

	setup, err := NewTestDatabase(ctx)
	if errors.Is(err, ErrNoTestDatabase) {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL repository tests")
	}
	require.NoError(t, err)
	require.NoError(t, setup.TruncateAllTables(ctx))

	t.Cleanup(func() {
		_ = setup.TruncateAllTables(context.Background())
		setup.Close()
	})
	return setup
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	// Arrange
	setup := setupTestDB(t)
	repo := postgresql.NewSessionRepository(setup.DB)
	ctx := context.Background()
	companyID := "co-1"
	s := &auth.Session{
		UserID:       "usr-1",
		Email:        "admin@acme.sn",
		Role:         user.RoleAdmin,
		CompanyID:    &companyID,
		BackendToken: "backend-token",
		UserAgent:    "test",
		IPAddress:    "127.0.0.1",
		ExpiresAt:    time.Now().Add(time.Hour).UTC(),
	}

	// Act
	require.NoError(t, repo.Create(ctx, s))
	got, err := repo.GetByID(ctx, s.ID)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "usr-1", got.UserID)
	assert.Equal(t, user.RoleAdmin, got.Role)
	require.NotNil(t, got.CompanyID)
	assert.Equal(t, "co-1", *got.CompanyID)
	assert.Nil(t, got.SelectedCompanyID)
	assert.Equal(t, "backend-token", got.BackendToken)
	assert.True(t, got.IsActive(time.Now()))
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	setup := setupTestDB(t)
	repo := postgresql.NewSessionRepository(setup.DB)

	_, err := repo.GetByID(context.Background(), "0b0c2f5e-6a55-4d7e-9f50-4a1f7f9e2f11")
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)

	_, err = repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestSessionRepository_SelectedCompanyAndRevoke(t *testing.T) {
	// Arrange
	setup := setupTestDB(t)
	repo := postgresql.NewSessionRepository(setup.DB)
	ctx := context.Background()
	s := &auth.Session{
		UserID:       "usr-root",
		Email:        "root@paydesk.io",
		Role:         user.RoleSuperAdmin,
		BackendToken: "t",
		ExpiresAt:    time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, repo.Create(ctx, s))

	// Act
	selected := "co-9"
	require.NoError(t, repo.SetSelectedCompany(ctx, s.ID, &selected))
	withSelection, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)

	require.NoError(t, repo.SetSelectedCompany(ctx, s.ID, nil))
	cleared, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Revoke(ctx, s.ID))
	revoked, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "co-9", withSelection.ActiveCompanyID())
	assert.Equal(t, "", cleared.ActiveCompanyID())
	assert.False(t, revoked.IsActive(time.Now()))
	assert.ErrorIs(t, repo.SetSelectedCompany(ctx, s.ID, &selected), auth.ErrSessionNotFound)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	setup := setupTestDB(t)
	repo := postgresql.NewSessionRepository(setup.DB)
	ctx := context.Background()
	expired := &auth.Session{UserID: "u1", Email: "a@b.cd", Role: user.RoleCashier, BackendToken: "t", ExpiresAt: time.Now().Add(-time.Hour).UTC()}
	live := &auth.Session{UserID: "u2", Email: "c@d.ef", Role: user.RoleCashier, BackendToken: "t", ExpiresAt: time.Now().Add(time.Hour).UTC()}
	require.NoError(t, repo.Create(ctx, expired))
	require.NoError(t, repo.Create(ctx, live))

	n, err := repo.DeleteExpired(ctx, time.Now())

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = repo.GetByID(ctx, live.ID)
	assert.NoError(t, err)
}

func TestActivityRepository_RecordAndRecent(t *testing.T) {
	// Arrange
	setup := setupTestDB(t)
	repo := postgresql.NewActivityRepository(setup.DB)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	// Act
	require.NoError(t, repo.Record(ctx, dashboard.Invalidation{
		CompanyID: "co-1", Action: "payrun.approve", EntityID: "pr-1",
		Aggregates: []dashboard.Aggregate{dashboard.AggregatePayRuns}, At: base,
	}))
	require.NoError(t, repo.Record(ctx, dashboard.Invalidation{
		CompanyID: "co-1", Action: "payment.create", EntityID: "pay-1",
		Aggregates: []dashboard.Aggregate{dashboard.AggregatePayments, dashboard.AggregatePending}, At: base.Add(time.Minute),
	}))
	require.NoError(t, repo.Record(ctx, dashboard.Invalidation{CompanyID: "co-2", Action: "leave.approve", At: base}))

	recent, err := repo.Recent(ctx, "co-1", 10)

	// Assert
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "payment.create", recent[0].Action)
	assert.Equal(t, []dashboard.Aggregate{dashboard.AggregatePayments, dashboard.AggregatePending}, recent[0].Aggregates)

	all, err := repo.Recent(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestActivityRepository_PrunesOldEntries(t *testing.T) {
	setup := setupTestDB(t)
	repo := postgresql.NewActivityRepository(setup.DB)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.Record(ctx, dashboard.Invalidation{CompanyID: "co-1", Action: "payment.create", At: now.AddDate(0, -6, 0)}))
	require.NoError(t, repo.Record(ctx, dashboard.Invalidation{CompanyID: "co-1", Action: "payment.update", At: now}))

	recent, err := repo.Recent(ctx, "co-1", 10)

	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "payment.update", recent[0].Action)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	setup := setupTestDB(t)
	repo := postgresql.NewSessionRepository(setup.DB)
	ctx := context.Background()
	s := &auth.Session{UserID: "u1", Email: "a@b.cd", Role: user.RoleAdmin, BackendToken: "t", ExpiresAt: time.Now().Add(time.Hour).UTC()}
	boom := errors.New("boom")

	err := postgresql.WithTransaction(ctx, setup.DB, func(txCtx context.Context) error {
		require.NoError(t, repo.Create(txCtx, s))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	_, err = repo.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}
