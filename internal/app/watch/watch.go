// Package watch tails the change feed and prints every event, one line per
// row mutation. Staff run it as an ops console next to the API service.
package watch

import (
	"context"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/bus"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/logger"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
)

// Run subscribes unfiltered to both tables and logs until ctx is canceled.
func Run(ctx context.Context, b bus.Bus, log logger.Logger) error {
	orders, err := b.Subscribe(ctx, domain.TableOrders, bus.Filter{})
	if err != nil {
		return err
	}
	defer orders.Close()
	locations, err := b.Subscribe(ctx, domain.TableRiderLocations, bus.Filter{})
	if err != nil {
		return err
	}
	defer locations.Close()

	log.Infof("watching change feed")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-orders.Events():
			if !ok {
				return nil
			}
			logEvent(log, ev)
		case ev, ok := <-locations.Events():
			if !ok {
				return nil
			}
			logEvent(log, ev)
		}
	}
}

func logEvent(log logger.Logger, ev domain.ChangeEvent) {
	log.Infow("change_event", map[string]any{
		"table":        ev.Table,
		"op":           string(ev.Op),
		"key":          ev.Key.String(),
		"committed_at": ev.CommittedAt,
		"row":          string(ev.NewRow),
	})
}
