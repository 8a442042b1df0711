// Package tracker ingests rider position reports and republishes them
// against the rider's active order. The tracker is synchronous
// request/response; the sampling loop lives on the rider's device, and a
// failed report simply surfaces to be retried on the next tick.
package tracker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/bus"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/logger"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/metrics"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/store"
)

type Tracker struct {
	locations store.Locations
	bus       bus.Bus
	log       logger.Logger
	metrics   *metrics.Sink
}

func New(locations store.Locations, b bus.Bus, log logger.Logger, m *metrics.Sink) *Tracker {
	return &Tracker{locations: locations, bus: b, log: log, metrics: m}
}

// ReportPosition upserts the rider's single live pin. Replaying the same
// report is idempotent: one row, latest values. activeOrderID may be nil
// when the rider is idle; with multiple concurrent deliveries the caller
// picks which one to track (most recently assigned).
func (t *Tracker) ReportPosition(ctx context.Context, riderID uuid.UUID, lat, lon float64, activeOrderID *uuid.UUID) (domain.RiderLocation, error) {
	l := domain.RiderLocation{
		RiderID:   riderID,
		OrderID:   activeOrderID,
		Latitude:  lat,
		Longitude: lon,
		UpdatedAt: time.Now().UTC(),
	}
	if err := t.locations.Upsert(ctx, l); err != nil {
		return domain.RiderLocation{}, err
	}
	t.metrics.RecordLocationReport()
	if err := t.bus.Publish(ctx, domain.LocationChange(domain.OpUpdate, l)); err != nil {
		t.log.Errorf("location change event dropped for rider %s: %v", riderID, err)
	}
	return l, nil
}

// ForOrder returns the live pin of the rider carrying the order.
func (t *Tracker) ForOrder(ctx context.Context, orderID uuid.UUID) (domain.RiderLocation, error) {
	return t.locations.ByOrder(ctx, orderID)
}

// MostRecentAssignment picks the order a rider's reports should track when
// they hold several deliveries at once: the one assigned last.
func MostRecentAssignment(orders []domain.Order) *uuid.UUID {
	var pick *domain.Order
	for i := range orders {
		o := &orders[i]
		if o.Status != domain.StatusOutForDelivery {
			continue
		}
		if pick == nil || o.UpdatedAt.After(pick.UpdatedAt) {
			pick = o
		}
	}
	if pick == nil {
		return nil
	}
	id := pick.ID
	return &id
}
