package sse

import (
	"context"
	"testing"

	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicOnly(t *testing.T) {
	// Arrange
	hub := NewHub()
	acme, cleanupAcme := hub.Subscribe(CompanyTopic("acme"))
	defer cleanupAcme()
	other, cleanupOther := hub.Subscribe(CompanyTopic("other"))
	defer cleanupOther()

	// Act
	hub.Publish(CompanyTopic("acme"), Event{Event: "ping"})

	// Assert
	require.Len(t, acme, 1)
	got := <-acme
	assert.Equal(t, "ping", got.Event)
	assert.Equal(t, "company:acme", got.Topic)
	assert.Len(t, other, 0)
}

func TestHub_PublishDoesNotBlockOnFullBuffer(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe(GlobalTopic)
	defer cleanup()

	for i := 0; i < 25; i++ {
		hub.Publish(GlobalTopic, Event{Event: "tick"})
	}

	assert.Len(t, ch, 10)
}

func TestHub_CleanupUnsubscribes(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("t")
	assert.Equal(t, 1, hub.SubscriberCount("t"))

	cleanup()
	cleanup()

	assert.Equal(t, 0, hub.SubscriberCount("t"))
	assert.Equal(t, 0, hub.TotalSubscribers())
}

func TestHub_InvalidateFansOutToCompanyAndGlobal(t *testing.T) {
	hub := NewHub()
	company, cleanupCompany := hub.Subscribe(CompanyTopic("c1"))
	defer cleanupCompany()
	global, cleanupGlobal := hub.Subscribe(GlobalTopic)
	defer cleanupGlobal()

	hub.Invalidate(context.Background(), dashboard.Invalidation{
		CompanyID:  "c1",
		Action:     "payment.create",
		Aggregates: []dashboard.Aggregate{dashboard.AggregatePayments},
	})

	require.Len(t, company, 1)
	require.Len(t, global, 1)
	ev := <-company
	assert.Equal(t, InvalidateEvent, ev.Event)
	inv, ok := ev.Data.(dashboard.Invalidation)
	require.True(t, ok)
	assert.Equal(t, "payment.create", inv.Action)
}
