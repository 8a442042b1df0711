package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/bus"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/logger"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/metrics"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/store"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/store/memory"
)

func newTracker(t *testing.T) (*Tracker, *memory.Memory, *bus.Memory) {
	t.Helper()
	mem := memory.New()
	b := bus.NewMemory()
	sink, err := metrics.NewSink(prometheus.NewRegistry())
	require.NoError(t, err)
	return New(mem.Store().Locations, b, logger.NopLogger{}, sink), mem, b
}

func TestReportPositionIdempotent(t *testing.T) {
	tr, mem, _ := newTracker(t)
	riderID := uuid.New()
	orderID := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := tr.ReportPosition(context.Background(), riderID, 5.6037, -0.1870, &orderID)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, mem.LocationCount(), "one rider keeps one live pin")

	l, err := mem.Store().Locations.ByRider(context.Background(), riderID)
	require.NoError(t, err)
	assert.Equal(t, 5.6037, l.Latitude)
	assert.Equal(t, -0.1870, l.Longitude)
}

func TestReportPositionRepointsOrder(t *testing.T) {
	tr, mem, _ := newTracker(t)
	riderID := uuid.New()
	first := uuid.New()
	second := uuid.New()

	_, err := tr.ReportPosition(context.Background(), riderID, 5.60, -0.18, &first)
	require.NoError(t, err)
	_, err = tr.ReportPosition(context.Background(), riderID, 5.61, -0.19, &second)
	require.NoError(t, err)

	_, err = mem.Store().Locations.ByOrder(context.Background(), first)
	assert.ErrorIs(t, err, store.ErrLocationNotFound, "old order loses the pin")

	l, err := tr.ForOrder(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, 5.61, l.Latitude)
}

func TestReportPositionIdleRider(t *testing.T) {
	tr, mem, _ := newTracker(t)
	riderID := uuid.New()

	l, err := tr.ReportPosition(context.Background(), riderID, 5.55, -0.20, nil)
	require.NoError(t, err)
	assert.Nil(t, l.OrderID)
	assert.Equal(t, 1, mem.LocationCount())
}

func TestReportPositionPublishes(t *testing.T) {
	tr, _, b := newTracker(t)
	riderID := uuid.New()

	sub, err := b.Subscribe(context.Background(), domain.TableRiderLocations, bus.Filter{RiderID: riderID})
	require.NoError(t, err)
	defer sub.Close()

	_, err = tr.ReportPosition(context.Background(), riderID, 5.62, -0.17, nil)
	require.NoError(t, err)

	select {
	case ev := <-sub.Events():
		assert.Equal(t, domain.TableRiderLocations, ev.Table)
		assert.Equal(t, riderID, ev.Key)
		assert.Equal(t, riderID, ev.RiderID)
	case <-time.After(time.Second):
		t.Fatal("no change event for the position report")
	}
}

func TestMostRecentAssignment(t *testing.T) {
	base := time.Now().UTC()
	older := domain.Order{ID: uuid.New(), Status: domain.StatusOutForDelivery, UpdatedAt: base.Add(-10 * time.Minute)}
	newer := domain.Order{ID: uuid.New(), Status: domain.StatusOutForDelivery, UpdatedAt: base}
	done := domain.Order{ID: uuid.New(), Status: domain.StatusDelivered, UpdatedAt: base.Add(time.Minute)}

	got := MostRecentAssignment([]domain.Order{older, done, newer})
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, *got)

	assert.Nil(t, MostRecentAssignment([]domain.Order{done}), "no active delivery means nothing to track")
	assert.Nil(t, MostRecentAssignment(nil))
}
