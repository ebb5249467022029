// pkg/entity/entity_test.go
package entity

import (
	"testing"

	"github.com/opd-ai/go-orbiter/pkg/physics"
)

func TestBaseEntity_GetCollider(t *testing.T) {
	tests := []struct {
		name     string
		position physics.Vector2D
		radius   float64
	}{
		{name: "origin", position: physics.Vector2D{}, radius: 10},
		{name: "offset", position: physics.Vector2D{X: 100, Y: -50}, radius: 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &BaseEntity{
				Position: tt.position,
				Collider: physics.Circle{Radius: tt.radius},
			}
			c := e.GetCollider()
			if c.Center != tt.position {
				t.Errorf("GetCollider().Center = %v, want %v", c.Center, tt.position)
			}
			if c.Radius != tt.radius {
				t.Errorf("GetCollider().Radius = %v, want %v", c.Radius, tt.radius)
			}
		})
	}
}

func TestIDSource(t *testing.T) {
	src := NewIDSource(0)
	if got := src.Next(); got != 1 {
		t.Fatalf("first Next() = %d, want 1", got)
	}
	if got := src.Next(); got != 2 {
		t.Fatalf("second Next() = %d, want 2", got)
	}

	src.Reserve(10)
	if got := src.Next(); got != 11 {
		t.Errorf("Next() after Reserve(10) = %d, want 11", got)
	}

	src.Reserve(3)
	if got := src.Next(); got != 12 {
		t.Errorf("Reserve of a lower id changed the sequence: got %d", got)
	}
}

type recordingRenderer struct {
	ships, planets, docks int
}

func (r *recordingRenderer) RenderShip(*Ship)     { r.ships++ }
func (r *recordingRenderer) RenderPlanet(*Planet) { r.planets++ }
func (r *recordingRenderer) RenderDock(*Dock)     { r.docks++ }
func (r *recordingRenderer) Clear()               {}
func (r *recordingRenderer) Present()             {}

func TestEntity_RenderDispatch(t *testing.T) {
	r := &recordingRenderer{}
	entities := []Entity{
		NewShip(1, ShipType{ID: "scout", Width: 20, Height: 10}, physics.Vector2D{}),
		NewPlanet(2, "Tellus", "terran", physics.Vector2D{X: 500}, 100),
		NewDock(3, "Home", "station", physics.Vector2D{X: 50}, 40, 40),
	}
	for _, e := range entities {
		e.Render(r)
	}
	if r.ships != 1 || r.planets != 1 || r.docks != 1 {
		t.Errorf("render calls = %+v, want one of each", *r)
	}
}
