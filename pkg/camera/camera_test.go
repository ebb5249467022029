// pkg/camera/camera_test.go
package camera

import (
	"math"
	"testing"

	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/physics"
)

type positions map[entity.ID]physics.Vector2D

func (p positions) Position(id entity.ID) (physics.Vector2D, bool) {
	v, ok := p[id]
	return v, ok
}

func near(a, b physics.Vector2D) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

var world = physics.Bounds{Width: 10000, Height: 8000}

func TestNew(t *testing.T) {
	c := New(DefaultSettings(world), positions{})
	if !near(c.Position(), physics.Vector2D{X: 5000, Y: 4000}) {
		t.Errorf("Position() = %v, want world center", c.Position())
	}
	if c.Zoom() != 1 || c.TargetZoom() != 1 {
		t.Errorf("zoom = %v/%v, want 1", c.Zoom(), c.TargetZoom())
	}
}

func TestCamera_FollowRecentersImmediately(t *testing.T) {
	ships := positions{1: {X: 100, Y: 100}, 2: {X: 9000, Y: 7000}}
	c := New(DefaultSettings(world), ships)

	c.Follow(1)
	if !near(c.Position(), ships[1]) {
		t.Fatalf("Follow(1) position = %v", c.Position())
	}
	c.Follow(2)
	if !near(c.Position(), ships[2]) {
		t.Errorf("Follow(2) position = %v, want jump to %v", c.Position(), ships[2])
	}
	if c.Target() != 2 {
		t.Errorf("Target() = %d, want 2", c.Target())
	}
}

func TestCamera_UpdateSmoothing(t *testing.T) {
	ships := positions{1: {X: 1000, Y: 1000}}
	s := DefaultSettings(world)
	s.FollowSmoothing = 0.5
	c := New(s, ships)
	c.Follow(1)

	ships[1] = physics.Vector2D{X: 1100, Y: 1000}
	c.Update(1)
	if !near(c.Position(), physics.Vector2D{X: 1050, Y: 1000}) {
		t.Errorf("after one tick Position() = %v, want 1050,1000", c.Position())
	}
}

func TestCamera_UpdateFrameRateIndependent(t *testing.T) {
	ships := positions{1: {X: 1000, Y: 1000}}
	a := New(DefaultSettings(world), ships)
	b := New(DefaultSettings(world), ships)
	a.Follow(1)
	b.Follow(1)
	ships[1] = physics.Vector2D{X: 2000, Y: 1500}

	a.Update(2)
	b.Update(1)
	b.Update(1)
	if !near(a.Position(), b.Position()) {
		t.Errorf("Update(2) = %v, 2×Update(1) = %v", a.Position(), b.Position())
	}
}

func TestCamera_MissingTargetHoldsPosition(t *testing.T) {
	ships := positions{1: {X: 1000, Y: 1000}}
	c := New(DefaultSettings(world), ships)
	c.Follow(1)
	delete(ships, 1)

	c.Update(1)
	if !near(c.Position(), physics.Vector2D{X: 1000, Y: 1000}) {
		t.Errorf("Position() = %v after target vanished", c.Position())
	}
}

func TestCamera_Zoom(t *testing.T) {
	tests := []struct {
		name  string
		apply func(c *Camera)
		want  float64
	}{
		{name: "zoom_in", apply: func(c *Camera) { c.ZoomIn() }, want: 1.1},
		{name: "zoom_out", apply: func(c *Camera) { c.ZoomOut() }, want: 0.9},
		{name: "clamp_max", apply: func(c *Camera) { c.ZoomBy(50) }, want: 2.0},
		{name: "clamp_min", apply: func(c *Camera) { c.SetTargetZoom(-3) }, want: 0.1},
		{name: "orbit_view", apply: func(c *Camera) { c.OrbitView() }, want: 0.4},
		{name: "default_view", apply: func(c *Camera) { c.OrbitView(); c.DefaultView() }, want: 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(DefaultSettings(world), nil)
			tt.apply(c)
			if math.Abs(c.TargetZoom()-tt.want) > 1e-9 {
				t.Errorf("TargetZoom() = %v, want %v", c.TargetZoom(), tt.want)
			}
		})
	}
}

func TestCamera_ZoomEases(t *testing.T) {
	c := New(DefaultSettings(world), nil)
	c.SetTargetZoom(2)
	c.Update(1)
	if z := c.Zoom(); z <= 1 || z >= 2 {
		t.Errorf("Zoom() after one tick = %v, want between 1 and 2", z)
	}
	for i := 0; i < 1000; i++ {
		c.Update(1)
	}
	if math.Abs(c.Zoom()-2) > 1e-6 {
		t.Errorf("Zoom() converged to %v, want 2", c.Zoom())
	}
}

func TestCamera_Clamped(t *testing.T) {
	tests := []struct {
		name   string
		target physics.Vector2D
		want   physics.Vector2D
	}{
		{name: "interior", target: physics.Vector2D{X: 5000, Y: 4000}, want: physics.Vector2D{X: 5000, Y: 4000}},
		{name: "top_left", target: physics.Vector2D{X: 10, Y: 10}, want: physics.Vector2D{X: 400, Y: 300}},
		{name: "bottom_right", target: physics.Vector2D{X: 9990, Y: 7990}, want: physics.Vector2D{X: 9600, Y: 7700}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(DefaultSettings(world), positions{1: tt.target})
			c.Follow(1)
			if got := c.Clamped(); !near(got, tt.want) {
				t.Errorf("Clamped() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCamera_ClampedViewLargerThanWorld(t *testing.T) {
	s := DefaultSettings(physics.Bounds{Width: 500, Height: 400})
	c := New(s, positions{1: {X: 10, Y: 10}})
	c.Follow(1)
	if got := c.Clamped(); !near(got, physics.Vector2D{X: 250, Y: 200}) {
		t.Errorf("Clamped() = %v, want world center", got)
	}
}

func TestCamera_WorldScreenRoundTrip(t *testing.T) {
	c := New(DefaultSettings(world), positions{1: {X: 3000, Y: 2000}})
	c.Follow(1)
	c.SetTargetZoom(0.5)
	for i := 0; i < 2000; i++ {
		c.Update(1)
	}

	center := c.WorldToScreen(physics.Vector2D{X: 3000, Y: 2000})
	if !near(center, physics.Vector2D{X: 400, Y: 300}) {
		t.Errorf("followed ship maps to %v, want viewport center", center)
	}

	for _, p := range []physics.Vector2D{{X: 0, Y: 0}, {X: 3100, Y: 1900}, {X: 9999, Y: 1}} {
		back := c.ScreenToWorld(c.WorldToScreen(p))
		if math.Abs(back.X-p.X) > 1e-6 || math.Abs(back.Y-p.Y) > 1e-6 {
			t.Errorf("round trip of %v = %v", p, back)
		}
	}
}

func TestCamera_Visible(t *testing.T) {
	c := New(DefaultSettings(world), positions{1: {X: 5000, Y: 4000}})
	c.Follow(1)
	if !c.Visible(physics.Vector2D{X: 5000, Y: 4000}, 1) {
		t.Error("center not visible")
	}
	if c.Visible(physics.Vector2D{X: 100, Y: 100}, 10) {
		t.Error("far corner reported visible")
	}
	if !c.Visible(physics.Vector2D{X: 5000, Y: 3650}, 60) {
		t.Error("circle overlapping the top edge not visible")
	}
}
