package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/bus"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/logger"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/metrics"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/notify"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/store"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/store/memory"
)

var (
	staff = domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}
)

func newEngine(t *testing.T, orders store.Orders, mem *memory.Memory, b bus.Bus) *Engine {
	t.Helper()
	sink, err := metrics.NewSink(prometheus.NewRegistry())
	require.NoError(t, err)
	notifier := notify.NewDispatcher(mem.Store().Notifications, logger.NopLogger{}, sink)
	return New(orders, notifier, b, logger.NopLogger{}, sink)
}

func seedOrder(mem *memory.Memory, status domain.Status) domain.Order {
	o := domain.Order{
		ID:          uuid.New(),
		CustomerID:  uuid.New(),
		TotalAmount: decimal.RequireFromString("65.00"),
		Status:      status,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	_ = mem.Store().Orders.Insert(context.Background(), o, nil)
	return o
}

func TestTransitionForwardChain(t *testing.T) {
	mem := memory.New()
	e := newEngine(t, mem.Store().Orders, mem, bus.NewMemory())
	o := seedOrder(mem, domain.StatusPending)

	for _, target := range []domain.Status{domain.StatusConfirmed, domain.StatusPreparing, domain.StatusReady} {
		got, err := e.Transition(context.Background(), o.ID, target, staff)
		require.NoError(t, err, "to %s", target)
		assert.Equal(t, target, got.Status)
	}
	stored, err := mem.Store().Orders.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, stored.Status)
	assert.Nil(t, stored.AssignedRiderID, "rider must never be set while ready")
}

func TestTransitionSkipRejected(t *testing.T) {
	mem := memory.New()
	e := newEngine(t, mem.Store().Orders, mem, bus.NewMemory())
	o := seedOrder(mem, domain.StatusPending)

	_, err := e.Transition(context.Background(), o.ID, domain.StatusReady, staff)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, _ := mem.Store().Orders.Get(context.Background(), o.ID)
	assert.Equal(t, domain.StatusPending, stored.Status, "rejected transition must not touch the row")
}

func TestTransitionTerminal(t *testing.T) {
	mem := memory.New()
	e := newEngine(t, mem.Store().Orders, mem, bus.NewMemory())
	for _, terminal := range []domain.Status{domain.StatusDelivered, domain.StatusCancelled} {
		o := seedOrder(mem, terminal)
		_, err := e.Transition(context.Background(), o.ID, domain.StatusCancelled, staff)
		assert.ErrorIs(t, err, domain.ErrAlreadyTerminal, "from %s", terminal)
	}
}

func TestTransitionUnknownOrder(t *testing.T) {
	mem := memory.New()
	e := newEngine(t, mem.Store().Orders, mem, bus.NewMemory())
	_, err := e.Transition(context.Background(), uuid.New(), domain.StatusConfirmed, staff)
	assert.ErrorIs(t, err, domain.ErrUnknownOrder)
}

func TestTransitionRoleChecks(t *testing.T) {
	mem := memory.New()
	e := newEngine(t, mem.Store().Orders, mem, bus.NewMemory())

	customer := domain.Actor{ID: uuid.New(), Role: domain.RoleCustomer}
	o := seedOrder(mem, domain.StatusPending)
	_, err := e.Transition(context.Background(), o.ID, domain.StatusConfirmed, customer)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	_, err = e.Transition(context.Background(), o.ID, domain.StatusCancelled, customer)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized, "cancellation is staff-only")

	manager := domain.Actor{ID: uuid.New(), Role: domain.RoleManager}
	_, err = e.Transition(context.Background(), o.ID, domain.StatusConfirmed, manager)
	assert.NoError(t, err)
}

func TestDispatchEdgeClosedToStatusRequests(t *testing.T) {
	mem := memory.New()
	e := newEngine(t, mem.Store().Orders, mem, bus.NewMemory())
	o := seedOrder(mem, domain.StatusReady)

	// ready -> out_for_delivery must bind a rider atomically, which only
	// the dispatch coordinator does. A plain status request, even by
	// staff, is refused.
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleCustomer, domain.RoleRider} {
		actor := domain.Actor{ID: uuid.New(), Role: role}
		_, err := e.Transition(context.Background(), o.ID, domain.StatusOutForDelivery, actor)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized, "role %s", role)
	}

	stored, err := mem.Store().Orders.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, stored.Status)
	assert.Nil(t, stored.AssignedRiderID)
}

func TestDeliveredOnlyByAssignedRider(t *testing.T) {
	mem := memory.New()
	e := newEngine(t, mem.Store().Orders, mem, bus.NewMemory())

	riderA := domain.Actor{ID: uuid.New(), Role: domain.RoleRider}
	riderB := domain.Actor{ID: uuid.New(), Role: domain.RoleRider}
	o := seedOrder(mem, domain.StatusOutForDelivery)
	rid := riderA.ID
	_, err := mem.Store().Orders.UpdateWhereStatus(context.Background(), o.ID, domain.StatusOutForDelivery, store.OrderPatch{
		AssignedRiderID: &rid, UpdatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	_, err = e.Transition(context.Background(), o.ID, domain.StatusDelivered, riderB)
	assert.ErrorIs(t, err, domain.ErrNotAssigned)

	got, err := e.Transition(context.Background(), o.ID, domain.StatusDelivered, riderA)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, got.Status)
	require.NotNil(t, got.AssignedRiderID)
	assert.Equal(t, riderA.ID, *got.AssignedRiderID)
}

func TestTransitionEmitsNotificationAndEvent(t *testing.T) {
	mem := memory.New()
	b := bus.NewMemory()
	e := newEngine(t, mem.Store().Orders, mem, b)
	o := seedOrder(mem, domain.StatusPending)

	sub, err := b.Subscribe(context.Background(), domain.TableOrders, bus.Filter{CustomerID: o.CustomerID})
	require.NoError(t, err)

	_, err = e.Transition(context.Background(), o.ID, domain.StatusConfirmed, staff)
	require.NoError(t, err)

	ev := <-sub.Events()
	assert.Equal(t, domain.OpUpdate, ev.Op)
	assert.Equal(t, o.ID, ev.Key)

	notes, err := mem.Store().Notifications.ListByUser(context.Background(), o.CustomerID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Your order is now confirmed", notes[0].Message)
	assert.Equal(t, o.ID, notes[0].OrderID)
}

// gatedOrders delays the first two status reads until both racers arrived,
// forcing them to observe the same starting state.
type gatedOrders struct {
	store.Orders
	mu      sync.Mutex
	arrived int
	gate    chan struct{}
}

func (g *gatedOrders) Get(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	g.mu.Lock()
	g.arrived++
	wait := g.arrived <= 2
	if g.arrived == 2 {
		close(g.gate)
	}
	g.mu.Unlock()
	if wait {
		<-g.gate
	}
	return g.Orders.Get(ctx, id)
}

func TestConcurrentTransitionsExactlyOneWins(t *testing.T) {
	mem := memory.New()
	gated := &gatedOrders{Orders: mem.Store().Orders, gate: make(chan struct{})}
	e := newEngine(t, gated, mem, bus.NewMemory())
	o := seedOrder(mem, domain.StatusPending)

	results := make(chan error, 2)
	go func() {
		_, err := e.Transition(context.Background(), o.ID, domain.StatusConfirmed, staff)
		results <- err
	}()
	go func() {
		_, err := e.Transition(context.Background(), o.ID, domain.StatusCancelled, staff)
		results <- err
	}()

	var wins, conflicts int
	for i := 0; i < 2; i++ {
		err := <-results
		switch {
		case err == nil:
			wins++
		default:
			assert.ErrorIs(t, err, domain.ErrConflict)
			conflicts++
		}
	}
	assert.Equal(t, 1, wins, "exactly one transition commits")
	assert.Equal(t, 1, conflicts, "the loser reports the lost race")
}
