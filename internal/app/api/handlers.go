package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/dispatch"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/tracker"
)

type placeOrderLine struct {
	MenuItemID  uuid.UUID       `json:"menu_item_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	PrepMinutes int             `json:"prep_minutes"`
	Notes       string          `json:"notes"`
}

type placeOrderRequest struct {
	DeliveryAddress string           `json:"delivery_address"`
	DeliveryPhone   string           `json:"delivery_phone"`
	PaymentMethod   string           `json:"payment_method"`
	Items           []placeOrderLine `json:"items"`
}

// handlePlaceOrder creates the order and its lines atomically. The total is
// the sum of unit_price x quantity captured now; later menu price changes
// never touch it. Card payments are flagged paid immediately, cash stays
// pending until collected.
func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	if actor.Role != domain.RoleCustomer {
		writeError(w, http.StatusForbidden, "only customers place orders")
		return
	}
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.DeliveryAddress == "" || req.DeliveryPhone == "" {
		writeError(w, http.StatusBadRequest, "delivery address and phone are required")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "at least one item is required")
		return
	}

	orderID := uuid.New()
	now := time.Now().UTC()
	lines := make([]domain.OrderLine, 0, len(req.Items))
	prep := make([]int, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "invalid quantity for item "+it.MenuItemID.String())
			return
		}
		if it.UnitPrice.IsNegative() || it.UnitPrice.IsZero() {
			writeError(w, http.StatusBadRequest, "invalid price for item "+it.MenuItemID.String())
			return
		}
		lines = append(lines, domain.OrderLine{
			OrderID:    orderID,
			MenuItemID: it.MenuItemID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Notes:      it.Notes,
		})
		prep = append(prep, it.PrepMinutes)
	}

	eta := dispatch.EstimateDelivery(now, prep)
	payment := domain.PaymentPending
	if req.PaymentMethod == "card" {
		payment = domain.PaymentPaid
	}
	o := domain.Order{
		ID:                orderID,
		CustomerID:        actor.ID,
		DeliveryAddress:   req.DeliveryAddress,
		DeliveryPhone:     req.DeliveryPhone,
		TotalAmount:       domain.LineTotal(lines),
		Status:            domain.StatusPending,
		PaymentStatus:     payment,
		PaymentMethod:     req.PaymentMethod,
		EstimatedDelivery: &eta,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.Orders.Insert(r.Context(), o, lines); err != nil {
		writeDomainError(w, err)
		return
	}
	s.notifier.BestEffort(r.Context(), o.CustomerID, o.ID, "Order received! We'll confirm it shortly.")
	if err := s.bus.Publish(r.Context(), domain.OrderChange(domain.OpInsert, o)); err != nil {
		s.log.Errorf("change event dropped for order %s: %v", o.ID, err)
	}
	writeJSON(w, http.StatusCreated, o)
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	target, ok := domain.ParseStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown status "+req.Status)
		return
	}
	o, err := s.engine.Transition(r.Context(), orderID, target, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type assignRequest struct {
	RiderID uuid.UUID `json:"rider_id"`
}

func (s *Server) handleAssignRider(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	o, err := s.coordinator.AssignRider(r.Context(), orderID, req.RiderID, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleMarkDelivered(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	o, err := s.engine.Transition(r.Context(), orderID, domain.StatusDelivered, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type orderWithLines struct {
	domain.Order
	Items []domain.OrderLine `json:"items"`
}

func (s *Server) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	orders, err := s.store.Orders.ListByCustomer(r.Context(), actor.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out, err := s.withLines(r, orders)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleActiveOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	if !actor.Role.Staff() {
		writeError(w, http.StatusForbidden, "staff only")
		return
	}
	orders, err := s.store.Orders.ListActive(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out, err := s.withLines(r, orders)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleActiveDeliveries(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	if actor.Role != domain.RoleRider {
		writeError(w, http.StatusForbidden, "riders only")
		return
	}
	orders, err := s.store.Orders.ListByRiderAndStatus(r.Context(), actor.ID, domain.StatusOutForDelivery)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out, err := s.withLines(r, orders)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) withLines(r *http.Request, orders []domain.Order) ([]orderWithLines, error) {
	out := make([]orderWithLines, 0, len(orders))
	for _, o := range orders {
		lines, err := s.store.Orders.Lines(r.Context(), o.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, orderWithLines{Order: o, Items: lines})
	}
	return out, nil
}

type reportPositionRequest struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
}

// handleReportPosition accepts one sample from the rider's device loop.
// When the request carries no order id, the pin is re-pointed at the
// rider's most recently assigned active delivery.
func (s *Server) handleReportPosition(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	if actor.Role != domain.RoleRider {
		writeError(w, http.StatusForbidden, "riders only")
		return
	}
	var req reportPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	active := req.OrderID
	if active == nil {
		orders, err := s.store.Orders.ListByRiderAndStatus(r.Context(), actor.ID, domain.StatusOutForDelivery)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		active = tracker.MostRecentAssignment(orders)
	}
	l, err := s.tracker.ReportPosition(r.Context(), actor.ID, req.Latitude, req.Longitude, active)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleOrderLocation(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	o, err := s.store.Orders.Get(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !actor.Role.Staff() && o.CustomerID != actor.ID {
		writeError(w, http.StatusForbidden, "not your order")
		return
	}
	l, err := s.tracker.ForOrder(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleListRiders(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	if !actor.Role.Staff() {
		writeError(w, http.StatusForbidden, "staff only")
		return
	}
	riders, err := s.coordinator.ListRiders(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, riders)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	list, err := s.notifier.List(r.Context(), actor.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	ok, err := s.notifier.MarkRead(r.Context(), id, actor.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())
	if !actor.Role.Staff() {
		writeError(w, http.StatusForbidden, "staff only")
		return
	}
	stats, err := s.store.Orders.Stats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
