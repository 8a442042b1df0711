package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Tables carried on the change feed.
const (
	TableOrders         = "orders"
	TableRiderLocations = "rider_locations"
)

type ChangeOp string

const (
	OpInsert ChangeOp = "insert"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// ChangeEvent describes one committed row mutation. Events are published
// after the write commits, so a subscriber that re-queries on receipt
// observes at least the state the event describes. Delivery is
// at-least-once; per-row events arrive in commit order, and a subscriber
// that missed events must reconcile by re-fetching.
type ChangeEvent struct {
	Table       string          `json:"table"`
	Op          ChangeOp        `json:"op"`
	Key         uuid.UUID       `json:"key"`
	CustomerID  uuid.UUID       `json:"customer_id,omitempty"`
	RiderID     uuid.UUID       `json:"rider_id,omitempty"`
	NewRow      json.RawMessage `json:"new_row,omitempty"`
	CommittedAt time.Time       `json:"committed_at"`
}

// OrderChange builds the change event for an order row.
func OrderChange(op ChangeOp, o Order) ChangeEvent {
	row, _ := json.Marshal(o)
	ev := ChangeEvent{
		Table:       TableOrders,
		Op:          op,
		Key:         o.ID,
		CustomerID:  o.CustomerID,
		NewRow:      row,
		CommittedAt: time.Now().UTC(),
	}
	if o.AssignedRiderID != nil {
		ev.RiderID = *o.AssignedRiderID
	}
	return ev
}

// LocationChange builds the change event for a rider location upsert.
func LocationChange(op ChangeOp, l RiderLocation) ChangeEvent {
	row, _ := json.Marshal(l)
	return ChangeEvent{
		Table:       TableRiderLocations,
		Op:          op,
		Key:         l.RiderID,
		RiderID:     l.RiderID,
		NewRow:      row,
		CommittedAt: time.Now().UTC(),
	}
}
