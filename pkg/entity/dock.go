package entity

import "github.com/opd-ai/go-orbiter/pkg/physics"

// Dock is a static station ships can dock at.
type Dock struct {
	BaseEntity
	Name   string
	Type   string
	Bounds physics.Rect
}

// NewDock creates a dock centred on position
func NewDock(id ID, name, dockType string, position physics.Vector2D, width, height float64) *Dock {
	return &Dock{
		BaseEntity: BaseEntity{
			ID:       id,
			Position: position,
			Collider: physics.Circle{
				Center: position,
				Radius: width / 2,
			},
		},
		Name:   name,
		Type:   dockType,
		Bounds: physics.Rect{Center: position, Width: width, Height: height},
	}
}
