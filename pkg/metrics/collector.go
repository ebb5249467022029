// Package metrics exposes simulation counters to Prometheus.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimCollector bundles the scene's Prometheus metrics. A nil *SimCollector
// is valid and records nothing.
type SimCollector struct {
	gatherer prometheus.Gatherer

	Ticks            prometheus.Counter
	TickDuration     prometheus.Histogram
	OrbitTransitions *prometheus.CounterVec
	Dockings         prometheus.Counter
	Handoffs         prometheus.Counter
	Waypoints        prometheus.Counter
	ShipsByPhase     *prometheus.GaugeVec
}

// NewSimCollector registers the metrics against reg, defaulting to the
// global registry when nil. Registering twice on the same registry reuses
// the existing collectors.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orbiter_ticks_total",
		Help: "Scene updates processed.",
	}), "orbiter_ticks_total")
	if err != nil {
		return nil, err
	}
	tickDuration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orbiter_tick_duration_seconds",
		Help:    "Wall time spent in one scene update.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
	}), "orbiter_tick_duration_seconds")
	if err != nil {
		return nil, err
	}
	transitions, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orbiter_orbit_transitions_total",
		Help: "Orbit state transitions, labeled by transition and ship role.",
	}, []string{"transition", "role"}), "orbiter_orbit_transitions_total")
	if err != nil {
		return nil, err
	}
	dockings, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orbiter_dockings_total",
		Help: "Times the active ship docked.",
	}), "orbiter_dockings_total")
	if err != nil {
		return nil, err
	}
	handoffs, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orbiter_handoffs_total",
		Help: "Control hand-offs between ships.",
	}), "orbiter_handoffs_total")
	if err != nil {
		return nil, err
	}
	waypoints, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orbiter_waypoints_reached_total",
		Help: "Waypoints reached by the active ship.",
	}), "orbiter_waypoints_reached_total")
	if err != nil {
		return nil, err
	}
	phases, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "orbiter_ships",
		Help: "Simulated ships by orbit phase.",
	}, []string{"phase"}), "orbiter_ships")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:         gatherer,
		Ticks:            ticks,
		TickDuration:     tickDuration,
		OrbitTransitions: transitions,
		Dockings:         dockings,
		Handoffs:         handoffs,
		Waypoints:        waypoints,
		ShipsByPhase:     phases,
	}, nil
}

// register adds c to reg, returning the already registered collector of the
// same type when there is one.
func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}

// ObserveTick records one scene update.
func (c *SimCollector) ObserveTick(d time.Duration) {
	if c == nil {
		return
	}
	c.Ticks.Inc()
	c.TickDuration.Observe(d.Seconds())
}

// ObserveTransition counts an orbit transition for the active ship or a
// fleet ship.
func (c *SimCollector) ObserveTransition(transition string, active bool) {
	if c == nil {
		return
	}
	role := "fleet"
	if active {
		role = "active"
	}
	c.OrbitTransitions.WithLabelValues(transition, role).Inc()
}

func (c *SimCollector) ObserveDock() {
	if c == nil {
		return
	}
	c.Dockings.Inc()
}

func (c *SimCollector) ObserveHandoff() {
	if c == nil {
		return
	}
	c.Handoffs.Inc()
}

func (c *SimCollector) ObserveWaypoint() {
	if c == nil {
		return
	}
	c.Waypoints.Inc()
}

// SetPhaseCounts publishes how many ships are in each orbit phase.
func (c *SimCollector) SetPhaseCounts(counts map[string]int) {
	if c == nil {
		return
	}
	for phase, n := range counts {
		c.ShipsByPhase.WithLabelValues(phase).Set(float64(n))
	}
}

// Handler serves the registry in the Prometheus text format.
func (c *SimCollector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
