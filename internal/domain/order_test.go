package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusChain(t *testing.T) {
	chain := []Status{
		StatusPending, StatusConfirmed, StatusPreparing,
		StatusReady, StatusOutForDelivery, StatusDelivered,
	}
	for i := 0; i < len(chain)-1; i++ {
		assert.True(t, chain[i].CanTransition(chain[i+1]), "%s -> %s", chain[i], chain[i+1])
	}
	// Skipping a step is never legal.
	for i := 0; i < len(chain)-2; i++ {
		for j := i + 2; j < len(chain); j++ {
			assert.False(t, chain[i].CanTransition(chain[j]), "%s -> %s", chain[i], chain[j])
		}
	}
	// No edge goes backwards.
	assert.False(t, StatusReady.CanTransition(StatusPreparing))
	assert.False(t, StatusDelivered.CanTransition(StatusOutForDelivery))
}

func TestStatusCancellation(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusOutForDelivery} {
		assert.True(t, s.CanTransition(StatusCancelled), "cancel from %s", s)
	}
	assert.False(t, StatusDelivered.CanTransition(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransition(StatusCancelled))
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusOutForDelivery.Terminal())
	assert.False(t, StatusDelivered.CanTransition(StatusPending))
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("out_for_delivery")
	require.True(t, ok)
	assert.Equal(t, StatusOutForDelivery, s)
	_, ok = ParseStatus("cooking")
	assert.False(t, ok)
}

func TestStatusHuman(t *testing.T) {
	assert.Equal(t, "out for delivery", StatusOutForDelivery.Human())
	assert.Equal(t, "ready", StatusReady.Human())
}

func TestLineTotal(t *testing.T) {
	orderID := uuid.New()
	lines := []OrderLine{
		{OrderID: orderID, MenuItemID: uuid.New(), Quantity: 1, UnitPrice: decimal.RequireFromString("45.00")},
		{OrderID: orderID, MenuItemID: uuid.New(), Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
	}
	assert.True(t, LineTotal(lines).Equal(decimal.RequireFromString("65.00")))
}
