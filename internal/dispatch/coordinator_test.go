package dispatch

import (
	"context"
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
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/store/memory"
)

type fixture struct {
	mem   *memory.Memory
	coord *Coordinator
	rider domain.Profile
	order domain.Order
}

func newFixture(t *testing.T, status domain.Status) fixture {
	t.Helper()
	mem := memory.New()
	sink, err := metrics.NewSink(prometheus.NewRegistry())
	require.NoError(t, err)
	s := mem.Store()
	notifier := notify.NewDispatcher(s.Notifications, logger.NopLogger{}, sink)
	coord := NewCoordinator(s.Orders, s.Profiles, notifier, bus.NewMemory(), logger.NopLogger{}, sink)

	rider := domain.Profile{ID: uuid.New(), FullName: "Kofi Mensah", Role: domain.RoleRider}
	mem.AddProfile(rider)

	order := domain.Order{
		ID:          uuid.New(),
		CustomerID:  uuid.New(),
		TotalAmount: decimal.RequireFromString("40.00"),
		Status:      status,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.Orders.Insert(context.Background(), order, nil))
	return fixture{mem: mem, coord: coord, rider: rider, order: order}
}

func TestAssignRider(t *testing.T) {
	f := newFixture(t, domain.StatusReady)
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleManager}

	got, err := f.coord.AssignRider(context.Background(), f.order.ID, f.rider.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOutForDelivery, got.Status)
	require.NotNil(t, got.AssignedRiderID)
	assert.Equal(t, f.rider.ID, *got.AssignedRiderID)

	stored, err := f.mem.Store().Orders.Get(context.Background(), f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOutForDelivery, stored.Status)
	require.NotNil(t, stored.AssignedRiderID, "rider and status must land together")

	notes, err := f.mem.Store().Notifications.ListByUser(context.Background(), f.order.CustomerID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Your order is out for delivery!", notes[0].Message)
}

func TestAssignRiderRequiresStaff(t *testing.T) {
	f := newFixture(t, domain.StatusReady)
	for _, role := range []domain.Role{domain.RoleCustomer, domain.RoleRider} {
		actor := domain.Actor{ID: uuid.New(), Role: role}
		_, err := f.coord.AssignRider(context.Background(), f.order.ID, f.rider.ID, actor)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized, "role %s", role)
	}
}

func TestAssignRiderNotReady(t *testing.T) {
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}
	for _, status := range []domain.Status{domain.StatusPending, domain.StatusPreparing, domain.StatusOutForDelivery, domain.StatusDelivered} {
		f := newFixture(t, status)
		_, err := f.coord.AssignRider(context.Background(), f.order.ID, f.rider.ID, actor)
		assert.ErrorIs(t, err, domain.ErrInvalidState, "from %s", status)
	}
}

func TestAssignRiderUnknownProfile(t *testing.T) {
	f := newFixture(t, domain.StatusReady)
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}

	_, err := f.coord.AssignRider(context.Background(), f.order.ID, uuid.New(), actor)
	assert.ErrorIs(t, err, domain.ErrUnknownRider)

	// A real profile with the wrong role is just as unknown to dispatch.
	clerk := domain.Profile{ID: uuid.New(), FullName: "Ama Owusu", Role: domain.RoleManager}
	f.mem.AddProfile(clerk)
	_, err = f.coord.AssignRider(context.Background(), f.order.ID, clerk.ID, actor)
	assert.ErrorIs(t, err, domain.ErrUnknownRider)

	stored, _ := f.mem.Store().Orders.Get(context.Background(), f.order.ID)
	assert.Equal(t, domain.StatusReady, stored.Status, "failed dispatch leaves the order ready")
	assert.Nil(t, stored.AssignedRiderID)
}

func TestListRiders(t *testing.T) {
	f := newFixture(t, domain.StatusReady)
	f.mem.AddProfile(domain.Profile{ID: uuid.New(), FullName: "Yaw Boateng", Role: domain.RoleRider})
	f.mem.AddProfile(domain.Profile{ID: uuid.New(), FullName: "Esi Asante", Role: domain.RoleCustomer})

	riders, err := f.coord.ListRiders(context.Background())
	require.NoError(t, err)
	require.Len(t, riders, 2)
	for _, r := range riders {
		assert.Equal(t, domain.RoleRider, r.Role)
	}
}

func TestEstimateDelivery(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(55*time.Minute), EstimateDelivery(now, []int{10, 25, 15}))
	assert.Equal(t, now.Add(DeliveryBuffer), EstimateDelivery(now, nil), "no lines still gets the travel buffer")
}
