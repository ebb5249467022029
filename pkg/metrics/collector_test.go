package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSimCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}

	c.ObserveTick(2 * time.Millisecond)
	c.ObserveTick(time.Millisecond)
	c.ObserveTransition("locked", true)
	c.ObserveTransition("locked", false)
	c.ObserveTransition("locked", false)
	c.ObserveDock()
	c.ObserveHandoff()
	c.ObserveWaypoint()
	c.SetPhaseCounts(map[string]int{"free": 3, "locked": 2})

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"ticks", testutil.ToFloat64(c.Ticks), 2},
		{"locked_active", testutil.ToFloat64(c.OrbitTransitions.WithLabelValues("locked", "active")), 1},
		{"locked_fleet", testutil.ToFloat64(c.OrbitTransitions.WithLabelValues("locked", "fleet")), 2},
		{"dockings", testutil.ToFloat64(c.Dockings), 1},
		{"handoffs", testutil.ToFloat64(c.Handoffs), 1},
		{"waypoints", testutil.ToFloat64(c.Waypoints), 1},
		{"free_ships", testutil.ToFloat64(c.ShipsByPhase.WithLabelValues("free")), 3},
		{"locked_ships", testutil.ToFloat64(c.ShipsByPhase.WithLabelValues("locked")), 2},
	}
	for _, tt := range checks {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestSimCollector_RegisterTwiceReuses(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("first NewSimCollector: %v", err)
	}
	b, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("second NewSimCollector: %v", err)
	}
	a.ObserveDock()
	if got := testutil.ToFloat64(b.Dockings); got != 1 {
		t.Errorf("shared dockings counter = %v, want 1", got)
	}
}

func TestSimCollector_NilSafe(t *testing.T) {
	var c *SimCollector
	c.ObserveTick(time.Millisecond)
	c.ObserveTransition("exited", true)
	c.ObserveDock()
	c.ObserveHandoff()
	c.ObserveWaypoint()
	c.SetPhaseCounts(map[string]int{"free": 1})
	if c.Handler() == nil {
		t.Error("nil collector returned nil handler")
	}
}

func TestSimCollector_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}
	c.ObserveTransition("captured", false)

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"orbiter_orbit_transitions_total",
		`transition="captured"`,
		"orbiter_tick_duration_seconds",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
