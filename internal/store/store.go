// Package store persists orders, rider locations, notifications and
// profiles. The Postgres implementation is the source of truth; the memory
// implementation under store/memory backs tests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
)

// ErrProfileNotFound is returned by Profiles.Get for a missing id. Callers
// translate it into the role-specific referential error.
var ErrProfileNotFound = errors.New("profile not found")

// ErrLocationNotFound is returned when a rider has not reported a position
// yet, or no pin points at the requested order.
var ErrLocationNotFound = errors.New("rider location not found")

// OrderPatch is the set of fields a conditional order update may change.
// Nil fields are left untouched.
type OrderPatch struct {
	Status          *domain.Status
	AssignedRiderID *uuid.UUID
	UpdatedAt       time.Time
}

// Stats is the manager console roll-up.
type Stats struct {
	TotalOrders   int             `json:"total_orders"`
	PendingOrders int             `json:"pending_orders"`
	PaidRevenue   decimal.Decimal `json:"paid_revenue"`
}

type Orders interface {
	// Insert writes the order and its lines in one transaction; either all
	// rows commit or none do.
	Insert(ctx context.Context, o domain.Order, lines []domain.OrderLine) error
	Get(ctx context.Context, id uuid.UUID) (domain.Order, error)
	Lines(ctx context.Context, orderID uuid.UUID) ([]domain.OrderLine, error)
	// UpdateWhereStatus applies the patch only if the row still has the
	// expected status. It reports false when the condition did not hold,
	// which callers treat as a lost compare-and-set race.
	UpdateWhereStatus(ctx context.Context, id uuid.UUID, expected domain.Status, patch OrderPatch) (bool, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error)
	ListByRiderAndStatus(ctx context.Context, riderID uuid.UUID, status domain.Status) ([]domain.Order, error)
	// ListActive returns non-terminal orders, newest first.
	ListActive(ctx context.Context) ([]domain.Order, error)
	Stats(ctx context.Context) (Stats, error)
}

type Locations interface {
	// Upsert overwrites the rider's single live pin, keyed by rider id.
	Upsert(ctx context.Context, l domain.RiderLocation) error
	ByRider(ctx context.Context, riderID uuid.UUID) (domain.RiderLocation, error)
	ByOrder(ctx context.Context, orderID uuid.UUID) (domain.RiderLocation, error)
}

type Notifications interface {
	Insert(ctx context.Context, n domain.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	// MarkRead flips is_read for the recipient's own notification and
	// reports whether a row matched.
	MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type Profiles interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Profile, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.Profile, error)
}

// Store bundles the four tables behind one handle.
type Store struct {
	Orders        Orders
	Locations     Locations
	Notifications Notifications
	Profiles      Profiles
}
