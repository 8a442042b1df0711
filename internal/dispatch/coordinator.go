// Package dispatch binds riders to ready orders and advances them to
// out_for_delivery in a single atomic update, so an order is never out for
// delivery without a rider, nor carries a rider while still ready.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/bus"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/logger"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/metrics"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/notify"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/store"
)

// DeliveryBuffer is the fixed travel allowance added on top of the longest
// preparation time when an order is placed.
const DeliveryBuffer = 30 * time.Minute

type Coordinator struct {
	orders   store.Orders
	profiles store.Profiles
	notifier *notify.Dispatcher
	bus      bus.Bus
	log      logger.Logger
	metrics  *metrics.Sink
}

func NewCoordinator(orders store.Orders, profiles store.Profiles, notifier *notify.Dispatcher, b bus.Bus, log logger.Logger, m *metrics.Sink) *Coordinator {
	return &Coordinator{orders: orders, profiles: profiles, notifier: notifier, bus: b, log: log, metrics: m}
}

// AssignRider dispatches a ready order to riderID. Staff only. Both the
// rider binding and the status advance land in one conditional update.
func (c *Coordinator) AssignRider(ctx context.Context, orderID, riderID uuid.UUID, actor domain.Actor) (domain.Order, error) {
	if !actor.Role.Staff() {
		return domain.Order{}, domain.ErrNotAuthorized
	}
	p, err := c.profiles.Get(ctx, riderID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return domain.Order{}, fmt.Errorf("rider %s: %w", riderID, domain.ErrUnknownRider)
		}
		return domain.Order{}, err
	}
	if p.Role != domain.RoleRider {
		return domain.Order{}, fmt.Errorf("profile %s has role %s: %w", riderID, p.Role, domain.ErrUnknownRider)
	}

	o, err := c.orders.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if o.Status != domain.StatusReady {
		return domain.Order{}, fmt.Errorf("order %s is %s, want %s: %w", orderID, o.Status, domain.StatusReady, domain.ErrInvalidState)
	}

	now := time.Now().UTC()
	target := domain.StatusOutForDelivery
	updated, err := c.orders.UpdateWhereStatus(ctx, orderID, domain.StatusReady, store.OrderPatch{
		Status:          &target,
		AssignedRiderID: &riderID,
		UpdatedAt:       now,
	})
	if err != nil {
		return domain.Order{}, err
	}
	if !updated {
		return domain.Order{}, fmt.Errorf("order %s left ready: %w", orderID, domain.ErrInvalidState)
	}

	o.Status = target
	o.AssignedRiderID = &riderID
	o.UpdatedAt = now
	c.metrics.RecordDispatch()
	c.log.Infow("rider_assigned", map[string]any{
		"order_id": orderID.String(), "rider_id": riderID.String(), "rider": p.FullName,
	})
	c.notifier.BestEffort(ctx, o.CustomerID, o.ID, "Your order is out for delivery!")
	if err := c.bus.Publish(ctx, domain.OrderChange(domain.OpUpdate, o)); err != nil {
		c.log.Errorf("change event dropped for order %s: %v", o.ID, err)
	}
	return o, nil
}

// ListRiders resolves the rider profiles staff pick from when dispatching.
func (c *Coordinator) ListRiders(ctx context.Context) ([]domain.Profile, error) {
	return c.profiles.ListByRole(ctx, domain.RoleRider)
}

// EstimateDelivery computes the ETA recorded at order placement: the
// longest line preparation time plus the fixed delivery buffer. It is never
// recomputed afterward.
func EstimateDelivery(now time.Time, prepMinutes []int) time.Time {
	maxPrep := 0
	for _, m := range prepMinutes {
		if m > maxPrep {
			maxPrep = m
		}
	}
	return now.Add(time.Duration(maxPrep)*time.Minute + DeliveryBuffer)
}
