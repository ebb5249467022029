// pkg/entity/entity.go
package entity

import (
	"github.com/opd-ai/go-orbiter/pkg/physics"
)

// ID is a unique identifier for an entity. Zero means "no entity" and is
// used by non-owning references such as an orbit's planet.
type ID uint64

// Entity is the base interface for all game objects
type Entity interface {
	GetID() ID
	GetPosition() physics.Vector2D
	GetCollider() physics.Circle
	Render(r Renderer)
}

// BaseEntity contains common functionality for all entities
type BaseEntity struct {
	ID       ID
	Position physics.Vector2D
	Velocity physics.Vector2D
	Rotation float64
	Collider physics.Circle
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ID {
	return e.ID
}

// GetPosition returns the entity's position
func (e *BaseEntity) GetPosition() physics.Vector2D {
	return e.Position
}

// GetCollider returns the entity's collision shape centred on its position
func (e *BaseEntity) GetCollider() physics.Circle {
	return physics.Circle{
		Center: e.Position,
		Radius: e.Collider.Radius,
	}
}

// IDSource hands out sequential identifiers. Each world or scene owns one;
// there is no package-level counter.
type IDSource struct {
	next ID
}

// NewIDSource returns a source whose first identifier is start (or 1 when
// start is zero).
func NewIDSource(start ID) *IDSource {
	if start == 0 {
		start = 1
	}
	return &IDSource{next: start}
}

// Next returns a fresh identifier
func (s *IDSource) Next() ID {
	id := s.next
	s.next++
	return id
}

// Reserve makes sure future identifiers are greater than id.
func (s *IDSource) Reserve(id ID) {
	if id >= s.next {
		s.next = id + 1
	}
}

func (s *Ship) Render(r Renderer) {
	r.RenderShip(s)
}

func (p *Planet) Render(r Renderer) {
	r.RenderPlanet(p)
}

func (d *Dock) Render(r Renderer) {
	r.RenderDock(d)
}
