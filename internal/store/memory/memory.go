// Package memory holds an in-process Store implementation with the same
// contracts as the Postgres one, including the conditional-update semantics
// the transition engine races on. Tests and local single-binary runs use it.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/store"
)

type Memory struct {
	mu            sync.Mutex
	orders        map[uuid.UUID]domain.Order
	lines         map[uuid.UUID][]domain.OrderLine
	locations     map[uuid.UUID]domain.RiderLocation
	notifications []domain.Notification
	profiles      map[uuid.UUID]domain.Profile
}

func New() *Memory {
	return &Memory{
		orders:    make(map[uuid.UUID]domain.Order),
		lines:     make(map[uuid.UUID][]domain.OrderLine),
		locations: make(map[uuid.UUID]domain.RiderLocation),
		profiles:  make(map[uuid.UUID]domain.Profile),
	}
}

// Store exposes the memory instance through the store.Store handle.
func (m *Memory) Store() store.Store {
	return store.Store{
		Orders:        ordersMem{m},
		Locations:     locationsMem{m},
		Notifications: notificationsMem{m},
		Profiles:      profilesMem{m},
	}
}

// AddProfile seeds a profile row (the auth service owns these in production).
func (m *Memory) AddProfile(p domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
}

// LocationCount reports the number of live pins; tests assert upsert
// idempotency with it.
func (m *Memory) LocationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locations)
}

type ordersMem struct{ m *Memory }

func (r ordersMem) Insert(_ context.Context, o domain.Order, lines []domain.OrderLine) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.orders[o.ID] = o
	r.m.lines[o.ID] = append([]domain.OrderLine(nil), lines...)
	return nil
}

func (r ordersMem) Get(_ context.Context, id uuid.UUID) (domain.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrUnknownOrder
	}
	return o, nil
}

func (r ordersMem) Lines(_ context.Context, orderID uuid.UUID) ([]domain.OrderLine, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return append([]domain.OrderLine(nil), r.m.lines[orderID]...), nil
}

func (r ordersMem) UpdateWhereStatus(_ context.Context, id uuid.UUID, expected domain.Status, patch store.OrderPatch) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.orders[id]
	if !ok || o.Status != expected {
		return false, nil
	}
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	if patch.AssignedRiderID != nil {
		rid := *patch.AssignedRiderID
		o.AssignedRiderID = &rid
	}
	o.UpdatedAt = patch.UpdatedAt
	r.m.orders[id] = o
	return true, nil
}

func (r ordersMem) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return o.CustomerID == customerID }), nil
}

func (r ordersMem) ListByRiderAndStatus(_ context.Context, riderID uuid.UUID, status domain.Status) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool {
		return o.AssignedRiderID != nil && *o.AssignedRiderID == riderID && o.Status == status
	}), nil
}

func (r ordersMem) ListActive(_ context.Context) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return !o.Status.Terminal() }), nil
}

func (r ordersMem) Stats(_ context.Context) (store.Stats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s := store.Stats{PaidRevenue: decimal.Zero}
	for _, o := range r.m.orders {
		s.TotalOrders++
		if !o.Status.Terminal() {
			s.PendingOrders++
		}
		if o.PaymentStatus == domain.PaymentPaid {
			s.PaidRevenue = s.PaidRevenue.Add(o.TotalAmount)
		}
	}
	return s, nil
}

func (r ordersMem) filter(keep func(domain.Order) bool) []domain.Order {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []domain.Order
	for _, o := range r.m.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

type locationsMem struct{ m *Memory }

func (r locationsMem) Upsert(_ context.Context, l domain.RiderLocation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.locations[l.RiderID] = l
	return nil
}

func (r locationsMem) ByRider(_ context.Context, riderID uuid.UUID) (domain.RiderLocation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	l, ok := r.m.locations[riderID]
	if !ok {
		return domain.RiderLocation{}, store.ErrLocationNotFound
	}
	return l, nil
}

func (r locationsMem) ByOrder(_ context.Context, orderID uuid.UUID) (domain.RiderLocation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, l := range r.m.locations {
		if l.OrderID != nil && *l.OrderID == orderID {
			return l, nil
		}
	}
	return domain.RiderLocation{}, store.ErrLocationNotFound
}

type notificationsMem struct{ m *Memory }

func (r notificationsMem) Insert(_ context.Context, n domain.Notification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.notifications = append(r.m.notifications, n)
	return nil
}

func (r notificationsMem) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r notificationsMem) MarkRead(_ context.Context, id, userID uuid.UUID) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i, n := range r.m.notifications {
		if n.ID == id && n.UserID == userID {
			r.m.notifications[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

type profilesMem struct{ m *Memory }

func (r profilesMem) Get(_ context.Context, id uuid.UUID) (domain.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.profiles[id]
	if !ok {
		return domain.Profile{}, store.ErrProfileNotFound
	}
	return p, nil
}

func (r profilesMem) ListByRole(_ context.Context, role domain.Role) ([]domain.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []domain.Profile
	for _, p := range r.m.profiles {
		if p.Role == role {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}
