package bus

import (
	"context"
	"sync"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
)

// Memory is an in-process Bus using fan-out channels. It backs tests and
// single-process deployments; production uses the RabbitMQ bus.
type Memory struct {
	mu     sync.RWMutex
	subs   []*memorySub
	closed bool
}

type memorySub struct {
	bus    *Memory
	table  string
	filter Filter
	ch     chan domain.ChangeEvent
}

func NewMemory() *Memory { return &Memory{} }

// Publish sends the event to all matching subscribers. Delivery is
// non-blocking: a subscriber that stopped draining its channel drops events
// and must reconcile by re-fetching.
func (b *Memory) Publish(_ context.Context, ev domain.ChangeEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for _, s := range b.subs {
		if s.table != ev.Table || !s.filter.Matches(ev) {
			continue
		}
		select {
		case s.ch <- ev:
		default:
		}
	}
	return nil
}

func (b *Memory) Subscribe(_ context.Context, table string, f Filter) (Subscription, error) {
	s := &memorySub{bus: b, table: table, filter: f, ch: make(chan domain.ChangeEvent, 16)}
	b.mu.Lock()
	if b.closed {
		close(s.ch)
	} else {
		b.subs = append(b.subs, s)
	}
	b.mu.Unlock()
	return s, nil
}

func (b *Memory) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, s := range b.subs {
		close(s.ch)
	}
	b.subs = nil
	return nil
}

func (s *memorySub) Events() <-chan domain.ChangeEvent { return s.ch }

func (s *memorySub) Close() {
	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub == s {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(s.ch)
			}
			return
		}
	}
}
