package metrics

import "github.com/prometheus/client_golang/prometheus"

// Sink records order lifecycle events in Prometheus metrics.
type Sink struct {
	transitions   *prometheus.CounterVec
	dispatches    prometheus.Counter
	locations     prometheus.Counter
	notifications *prometheus.CounterVec
}

// NewSink registers the lifecycle collectors on reg. If reg is nil, the
// default registerer is used. Already-registered collectors are reused.
func NewSink(reg prometheus.Registerer) (*Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Total number of committed order status transitions",
	}, []string{"from", "to"})
	dispatches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rider_dispatches_total",
		Help: "Total number of rider assignments",
	})
	locations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rider_location_reports_total",
		Help: "Total number of accepted rider position reports",
	})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Total number of notification inserts by result",
	}, []string{"result"})

	s := &Sink{transitions: transitions, dispatches: dispatches, locations: locations, notifications: notifications}
	for _, c := range []prometheus.Collector{transitions, dispatches, locations, notifications} {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch existing := are.ExistingCollector.(type) {
			case *prometheus.CounterVec:
				if c == transitions {
					s.transitions = existing
				} else {
					s.notifications = existing
				}
			case prometheus.Counter:
				if c == dispatches {
					s.dispatches = existing
				} else {
					s.locations = existing
				}
			}
		}
	}
	return s, nil
}

func (s *Sink) RecordTransition(from, to string) {
	if s == nil {
		return
	}
	s.transitions.WithLabelValues(from, to).Inc()
}

func (s *Sink) RecordDispatch() {
	if s == nil {
		return
	}
	s.dispatches.Inc()
}

func (s *Sink) RecordLocationReport() {
	if s == nil {
		return
	}
	s.locations.Inc()
}

func (s *Sink) RecordNotification(result string) {
	if s == nil {
		return
	}
	s.notifications.WithLabelValues(result).Inc()
}
