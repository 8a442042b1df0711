// Package notify appends per-user messages as a side effect of order
// events. Delivery is best-effort: the triggering state change is already
// committed, so callers log failures and move on instead of rolling back.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/logger"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/metrics"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/store"
)

type Dispatcher struct {
	store   store.Notifications
	log     logger.Logger
	metrics *metrics.Sink
}

func NewDispatcher(s store.Notifications, log logger.Logger, m *metrics.Sink) *Dispatcher {
	return &Dispatcher{store: s, log: log, metrics: m}
}

// Notify inserts one notification row. It never fails silently: the typed
// error is returned for the caller to log.
func (d *Dispatcher) Notify(ctx context.Context, userID, orderID uuid.UUID, message string) error {
	n := domain.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		OrderID:   orderID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.store.Insert(ctx, n); err != nil {
		d.metrics.RecordNotification("error")
		return fmt.Errorf("notify user %s: %w", userID, err)
	}
	d.metrics.RecordNotification("ok")
	return nil
}

// BestEffort runs Notify and downgrades a failure to a log line. Used after
// a transition has already committed.
func (d *Dispatcher) BestEffort(ctx context.Context, userID, orderID uuid.UUID, message string) {
	if err := d.Notify(ctx, userID, orderID, message); err != nil {
		d.log.Errorf("notification dropped: %v", err)
	}
}

// List returns the recipient's notifications, newest first.
func (d *Dispatcher) List(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	return d.store.ListByUser(ctx, userID)
}

// MarkRead flips the read flag on the recipient's own notification.
func (d *Dispatcher) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	return d.store.MarkRead(ctx, id, userID)
}
