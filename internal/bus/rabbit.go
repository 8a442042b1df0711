package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/logger"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/mq"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
)

// Rabbit is the production Bus backed by a RabbitMQ topic exchange. Routing
// keys are "<table>.<customer>.<rider>" with "-" for an empty scope, so
// filtered subscribers bind with a wildcard pattern. All publishes go
// through one channel, which keeps per-row ordering aligned with commit
// order.
type Rabbit struct {
	client *mq.Client
	log    logger.Logger
}

func NewRabbit(client *mq.Client, log logger.Logger) (*Rabbit, error) {
	if err := client.DeclareAll(); err != nil {
		return nil, fmt.Errorf("declare topology: %w", err)
	}
	return &Rabbit{client: client, log: log}, nil
}

func (r *Rabbit) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	return r.client.PublishPersistent(ctx, mq.ChangesExchange, routingKey(ev), body)
}

// subscribePrefetch bounds unacked deliveries per subscription; it matches
// the event channel's buffer.
const subscribePrefetch = 16

func (r *Rabbit) Subscribe(ctx context.Context, table string, f Filter) (Subscription, error) {
	// Server-named exclusive queue: the feed carries no history, a new
	// subscriber starts from its subscription point and reconciles by
	// re-fetching.
	ch, deliveries, err := r.client.Subscribe(bindingPattern(table, f), subscribePrefetch)
	if err != nil {
		return nil, err
	}
	s := &rabbitSub{ch: ch, events: make(chan domain.ChangeEvent, subscribePrefetch), done: make(chan struct{})}
	go s.run(ctx, deliveries, r.log)
	return s, nil
}

func (r *Rabbit) Close() error {
	r.client.Close()
	return nil
}

type rabbitSub struct {
	ch     *amqp.Channel
	events chan domain.ChangeEvent
	done   chan struct{}
}

func (s *rabbitSub) run(ctx context.Context, deliveries <-chan amqp.Delivery, log logger.Logger) {
	defer close(s.events)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			var ev domain.ChangeEvent
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				log.Errorf("drop malformed change event: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			select {
			case s.events <- ev:
				_ = d.Ack(false)
			case <-ctx.Done():
				_ = d.Nack(false, true)
				return
			case <-s.done:
				_ = d.Nack(false, true)
				return
			}
		}
	}
}

func (s *rabbitSub) Events() <-chan domain.ChangeEvent { return s.events }

func (s *rabbitSub) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	_ = s.ch.Close()
}

func routingKey(ev domain.ChangeEvent) string {
	return fmt.Sprintf("%s.%s.%s", ev.Table, scopeSegment(ev.CustomerID), scopeSegment(ev.RiderID))
}

// bindingPattern builds the topic pattern for a filtered subscription.
// Routing keys always have three segments, so "*" stands for "any scope".
func bindingPattern(table string, f Filter) string {
	return fmt.Sprintf("%s.%s.%s", table, patternSegment(f.CustomerID), patternSegment(f.RiderID))
}

func scopeSegment(id uuid.UUID) string {
	if id == uuid.Nil {
		return "-"
	}
	return id.String()
}

func patternSegment(id uuid.UUID) string {
	if id == uuid.Nil {
		return "*"
	}
	return id.String()
}
