package sse

import (
	"context"

	"github.com/paydesk/payroll-console/internal/domain/dashboard"
)

// InvalidateEvent is the event name of refresh signals.
const InvalidateEvent = "invalidate"

// Invalidate publishes a refresh signal to the company's streams. Super admin
// streams follow the global topic as well, so they see every company's changes.
func (h *Hub) Invalidate(_ context.Context, inv dashboard.Invalidation) {
	event := Event{Event: InvalidateEvent, Data: inv}
	topics := []string{CompanyTopic(inv.CompanyID)}
	if inv.CompanyID != "" {
		topics = append(topics, GlobalTopic)
	}
	h.PublishToMany(topics, event)
}

var _ dashboard.Invalidator = (*Hub)(nil)
