package dashboard

import (
	"context"
	"testing"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/stretchr/testify/assert"
)

func TestNewInvalidation_UsesSessionScope(t *testing.T) {
	companyID := "c1"
	ctx := auth.WithSession(context.Background(), &auth.Session{UserID: "u1", Role: user.RoleAdmin, CompanyID: &companyID})

	inv := NewInvalidation(ctx, "", "payrun.approve", "p1", AggregatePayRuns, AggregateOverview)

	assert.Equal(t, "c1", inv.CompanyID)
	assert.Equal(t, "u1", inv.UserID)
	assert.Equal(t, []Aggregate{AggregatePayRuns, AggregateOverview}, inv.Aggregates)
	assert.False(t, inv.At.IsZero())
}

func TestInvalidators_FanOut(t *testing.T) {
	var got []string
	a := InvalidatorFunc(func(_ context.Context, inv Invalidation) { got = append(got, "a:"+inv.Action) })
	b := InvalidatorFunc(func(_ context.Context, inv Invalidation) { got = append(got, "b:"+inv.Action) })

	Invalidators{a, nil, b}.Invalidate(context.Background(), Invalidation{Action: "payment.create"})

	assert.Equal(t, []string{"a:payment.create", "b:payment.create"}, got)
}
