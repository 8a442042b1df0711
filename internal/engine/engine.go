// Package engine validates and applies order status transitions. The order
// row is the unit of mutual exclusion: every transition is a conditional
// update on the previously read status, so concurrent mutually exclusive
// requests cannot both commit.
package engine

import (
	"context"
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

type Engine struct {
	orders   store.Orders
	notifier *notify.Dispatcher
	bus      bus.Bus
	log      logger.Logger
	metrics  *metrics.Sink
}

func New(orders store.Orders, notifier *notify.Dispatcher, b bus.Bus, log logger.Logger, m *metrics.Sink) *Engine {
	return &Engine{orders: orders, notifier: notifier, bus: b, log: log, metrics: m}
}

// Transition moves the order to target on behalf of actor. The write is a
// compare-and-set on the status read here; when the row moved underneath
// us the caller gets ErrConflict and decides whether to retry. Notification
// and change event are emitted only after the update committed.
func (e *Engine) Transition(ctx context.Context, orderID uuid.UUID, target domain.Status, actor domain.Actor) (domain.Order, error) {
	o, err := e.orders.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if o.Status.Terminal() {
		return domain.Order{}, fmt.Errorf("order %s is %s: %w", orderID, o.Status, domain.ErrAlreadyTerminal)
	}
	if !o.Status.CanTransition(target) {
		return domain.Order{}, fmt.Errorf("%s -> %s: %w", o.Status, target, domain.ErrInvalidTransition)
	}
	if err := authorize(actor, o, target); err != nil {
		return domain.Order{}, err
	}

	now := time.Now().UTC()
	updated, err := e.orders.UpdateWhereStatus(ctx, orderID, o.Status, store.OrderPatch{
		Status:    &target,
		UpdatedAt: now,
	})
	if err != nil {
		return domain.Order{}, err
	}
	if !updated {
		// The row changed between read and write. The caller re-reads and
		// re-validates before retrying.
		return domain.Order{}, fmt.Errorf("order %s: %w", orderID, domain.ErrConflict)
	}

	from := o.Status
	o.Status = target
	o.UpdatedAt = now
	e.metrics.RecordTransition(string(from), string(target))
	e.log.Infow("order_transition", map[string]any{
		"order_id": orderID.String(), "from": string(from), "to": string(target), "actor_role": string(actor.Role),
	})
	e.emit(ctx, o)
	return o, nil
}

// emit fans out the side effects of a committed transition. Both are
// best-effort; the state change is already durable.
func (e *Engine) emit(ctx context.Context, o domain.Order) {
	e.notifier.BestEffort(ctx, o.CustomerID, o.ID, "Your order is now "+o.Status.Human())
	if err := e.bus.Publish(ctx, domain.OrderChange(domain.OpUpdate, o)); err != nil {
		e.log.Errorf("change event dropped for order %s: %v", o.ID, err)
	}
}
