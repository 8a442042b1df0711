// Package bus delivers row change events for the orders and rider_locations
// tables to interested listeners. Delivery is at-least-once with per-row
// commit ordering; listeners that miss events reconcile via re-fetch.
package bus

import (
	"context"

	"github.com/google/uuid"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
)

// Filter narrows a subscription to rows visible to one party. The zero
// Filter matches every row of the table (staff consoles).
type Filter struct {
	CustomerID uuid.UUID
	RiderID    uuid.UUID
}

// Matches reports whether the event falls inside the filter's scope.
func (f Filter) Matches(ev domain.ChangeEvent) bool {
	if f.CustomerID != uuid.Nil && ev.CustomerID != f.CustomerID {
		return false
	}
	if f.RiderID != uuid.Nil && ev.RiderID != f.RiderID {
		return false
	}
	return true
}

// Subscription is a live event stream. Close releases the subscription and
// closes the Events channel.
type Subscription interface {
	Events() <-chan domain.ChangeEvent
	Close()
}

// Bus is the change-notification mechanism connecting the stores to the
// role-specific views.
type Bus interface {
	// Publish emits a committed change event. It must be called only after
	// the corresponding write has durably committed.
	Publish(ctx context.Context, ev domain.ChangeEvent) error
	// Subscribe registers a listener for one table, scoped by the filter.
	Subscribe(ctx context.Context, table string, f Filter) (Subscription, error)
	Close() error
}
