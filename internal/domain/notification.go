package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a per-user message appended as a side effect of an order
// event. The core only ever inserts; the recipient flips IsRead.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	OrderID   uuid.UUID `json:"order_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
