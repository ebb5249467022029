// pkg/entity/planet.go
package entity

import (
	"github.com/opd-ai/go-orbiter/pkg/physics"
)

// Planet is a static celestial body ships can orbit. Planets are immutable
// once the world has been generated.
type Planet struct {
	BaseEntity
	Name   string
	Type   string
	Radius float64
	Mass   float64
	Image  string
}

// NewPlanet creates a new planet
func NewPlanet(id ID, name, planetType string, position physics.Vector2D, radius float64) *Planet {
	return &Planet{
		BaseEntity: BaseEntity{
			ID:       id,
			Position: position,
			Collider: physics.Circle{
				Center: position,
				Radius: radius,
			},
		},
		Name:   name,
		Type:   planetType,
		Radius: radius,
		Mass:   radius * radius,
	}
}

// Distance returns the centre distance from the planet to p.
func (p *Planet) Distance(point physics.Vector2D) float64 {
	return p.Position.Distance(point)
}
