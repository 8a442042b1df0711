package domain

import (
	"time"

	"github.com/google/uuid"
)

// RiderLocation is the single live position pin of a rider. One row per
// rider, overwritten on every report; OrderID points at the delivery the
// rider is currently carrying, or is nil when idle.
type RiderLocation struct {
	RiderID   uuid.UUID  `json:"rider_id"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	UpdatedAt time.Time  `json:"updated_at"`
}
