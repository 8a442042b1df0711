// Package api exposes the client-facing commands over HTTP. Every
// successful mutation implicitly publishes a change event; the role-specific
// views subscribe to the feed and re-fetch through the read endpoints here.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/bus"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/httpx"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/logger"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/common/metrics"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/dispatch"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/engine"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/notify"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/store"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/tracker"
)

type Server struct {
	store       store.Store
	engine      *engine.Engine
	coordinator *dispatch.Coordinator
	tracker     *tracker.Tracker
	notifier    *notify.Dispatcher
	bus         bus.Bus
	auth        *Auth
	log         logger.Logger
	mux         *http.ServeMux
}

// New wires the core components behind the HTTP surface.
func New(st store.Store, b bus.Bus, auth *Auth, log logger.Logger, sink *metrics.Sink) *Server {
	notifier := notify.NewDispatcher(st.Notifications, log, sink)
	s := &Server{
		store:       st,
		engine:      engine.New(st.Orders, notifier, b, log, sink),
		coordinator: dispatch.NewCoordinator(st.Orders, st.Profiles, notifier, b, log, sink),
		tracker:     tracker.New(st.Locations, b, log, sink),
		notifier:    notifier,
		bus:         b,
		auth:        auth,
		log:         log,
		mux:         http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	authed := s.auth.Middleware

	s.mux.Handle("POST /orders", authed(http.HandlerFunc(s.handlePlaceOrder)))
	s.mux.Handle("POST /orders/{id}/status", authed(http.HandlerFunc(s.handleTransition)))
	s.mux.Handle("POST /orders/{id}/assign", authed(http.HandlerFunc(s.handleAssignRider)))
	s.mux.Handle("POST /orders/{id}/delivered", authed(http.HandlerFunc(s.handleMarkDelivered)))
	s.mux.Handle("GET /orders/mine", authed(http.HandlerFunc(s.handleMyOrders)))
	s.mux.Handle("GET /orders/active", authed(http.HandlerFunc(s.handleActiveOrders)))
	s.mux.Handle("GET /orders/{id}/location", authed(http.HandlerFunc(s.handleOrderLocation)))
	s.mux.Handle("POST /riders/location", authed(http.HandlerFunc(s.handleReportPosition)))
	s.mux.Handle("GET /riders", authed(http.HandlerFunc(s.handleListRiders)))
	s.mux.Handle("GET /deliveries/active", authed(http.HandlerFunc(s.handleActiveDeliveries)))
	s.mux.Handle("GET /notifications", authed(http.HandlerFunc(s.handleNotifications)))
	s.mux.Handle("POST /notifications/{id}/read", authed(http.HandlerFunc(s.handleMarkNotificationRead)))
	s.mux.Handle("GET /stats", authed(http.HandlerFunc(s.handleStats)))

	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func (s *Server) Handler() http.Handler { return s.mux }

// Run serves until ctx is canceled.
func (s *Server) Run(ctx context.Context, port int) error {
	s.log.Infow("service_started", map[string]any{"service": "api", "port": port})
	srv := httpx.New(":"+strconv.Itoa(port), s.mux)
	return srv.Run(ctx)
}
