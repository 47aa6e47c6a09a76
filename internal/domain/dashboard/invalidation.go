package dashboard

import (
	"context"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/auth"
)

// Aggregate names a collection a view has to refetch after a mutation.
type Aggregate string

const (
	AggregatePayRuns    Aggregate = "payruns"
	AggregatePending    Aggregate = "pending-payslips"
	AggregatePayments   Aggregate = "payments"
	AggregateAttendance Aggregate = "attendance"
	AggregateLeaves     Aggregate = "leaves"
	AggregateEmployees  Aggregate = "employees"
	AggregateQRCodes    Aggregate = "qrcodes"
	AggregateCompanies  Aggregate = "companies"
	AggregateUsers      Aggregate = "users"
	AggregateOverview   Aggregate = "dashboard"
)

// Invalidation describes one successful mutation and the aggregates it made stale.
type Invalidation struct {
	CompanyID  string      `json:"companyId"`
	Action     string      `json:"action"`
	EntityID   string      `json:"entityId,omitempty"`
	Aggregates []Aggregate `json:"aggregates"`
	UserID     string      `json:"userId,omitempty"`
	At         time.Time   `json:"at"`
}

// NewInvalidation stamps the mutation with the caller's session scope.
func NewInvalidation(ctx context.Context, companyID, action, entityID string, aggregates ...Aggregate) Invalidation {
	inv := Invalidation{
		CompanyID:  companyID,
		Action:     action,
		EntityID:   entityID,
		Aggregates: aggregates,
		At:         time.Now().UTC(),
	}
	if s, err := auth.SessionFromContext(ctx); err == nil {
		inv.UserID = s.UserID
		if inv.CompanyID == "" {
			inv.CompanyID = s.ActiveCompanyID()
		}
	}
	return inv
}

// Invalidator is notified after every successful mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, inv Invalidation)
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func(ctx context.Context, inv Invalidation)

func (f InvalidatorFunc) Invalidate(ctx context.Context, inv Invalidation) {
	f(ctx, inv)
}

// Invalidators fans one invalidation out to several observers in order.
type Invalidators []Invalidator

func (list Invalidators) Invalidate(ctx context.Context, inv Invalidation) {
	for _, i := range list {
		if i != nil {
			i.Invalidate(ctx, inv)
		}
	}
}

// Nop drops invalidations.
var Nop Invalidator = InvalidatorFunc(func(context.Context, Invalidation) {})
