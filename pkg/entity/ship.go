// pkg/entity/ship.go
package entity

import (
	"math"

	"github.com/opd-ai/go-orbiter/pkg/physics"
)

// ShipStats contains the flight tuning for a ship type
type ShipStats struct {
	ThrustPower   float64
	RotationSpeed float64
	MaxSpeed      float64 // structural limit, zero means unlimited
	MaxHealth     float64
}

// ShipType is a catalogue entry ships are built from.
type ShipType struct {
	ID     string
	Name   string
	Width  float64
	Height float64
	Image  string
	Stats  ShipStats
}

// Ship is a kinematic body: the player's active ship or one of the fleet.
type Ship struct {
	BaseEntity
	TypeID string
	Name   string
	Image  string

	AngularRate float64
	Width       float64
	Height      float64
	Stats       ShipStats
	Controls    Controls

	// Controllable is true only for the active ship.
	Controllable bool
	Docked       bool
	DockID       ID

	Health      float64
	Consumables map[string]float64

	Orbit OrbitState
}

// NewShip creates a free-flying ship of the given type
func NewShip(id ID, shipType ShipType, position physics.Vector2D) *Ship {
	return &Ship{
		BaseEntity: BaseEntity{
			ID:       id,
			Position: position,
			Collider: physics.Circle{
				Center: position,
				Radius: math.Max(shipType.Width, shipType.Height) / 2,
			},
		},
		TypeID:      shipType.ID,
		Name:        shipType.Name,
		Image:       shipType.Image,
		Width:       shipType.Width,
		Height:      shipType.Height,
		Stats:       shipType.Stats,
		Health:      shipType.Stats.MaxHealth,
		Consumables: make(map[string]float64),
	}
}

// Speed returns the magnitude of the ship's velocity
func (s *Ship) Speed() float64 {
	return s.Velocity.Length()
}

// SetControl records a press or release of a movement action. Any movement
// press while docked undocks the ship; the return value reports that.
func (s *Ship) SetControl(action Action, active bool) (undocked bool) {
	s.Controls.set(action, active)
	if active && action.IsMovement() && s.Docked {
		s.Docked = false
		return true
	}
	return false
}

// ClearControls releases every control flag.
func (s *Ship) ClearControls() {
	s.Controls = Controls{}
	s.AngularRate = 0
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// ApplyControls turns the control flags into rotation and acceleration for
// steps base ticks. Only the controllable ship responds; space has no drag.
func (s *Ship) ApplyControls(steps float64) {
	if !s.Controllable {
		s.AngularRate = 0
		return
	}
	c := s.Controls

	s.AngularRate = (boolToFloat(c.RotateRight) - boolToFloat(c.RotateLeft)) * s.Stats.RotationSpeed
	s.Rotation = physics.NormalizeAngle(s.Rotation + s.AngularRate*steps)

	forward := boolToFloat(c.Thrust) - boolToFloat(c.Reverse)
	// strafe left is heading-π/2, strafe right heading+π/2
	lateral := boolToFloat(c.StrafeRight) - boolToFloat(c.StrafeLeft)
	if forward == 0 && lateral == 0 {
		return
	}

	impulse := s.Stats.ThrustPower * steps
	heading := physics.FromAngle(s.Rotation, 1)
	s.Velocity = s.Velocity.
		Add(heading.Scale(forward * impulse)).
		Add(heading.Perp().Scale(lateral * impulse))

	if s.Stats.MaxSpeed > 0 && s.Velocity.Length() > s.Stats.MaxSpeed {
		s.Velocity = s.Velocity.Normalize().Scale(s.Stats.MaxSpeed)
	}
}

// Integrate advances the position by the current velocity.
func (s *Ship) Integrate(steps float64) {
	s.Position = s.Position.Add(s.Velocity.Scale(steps))
	s.Collider.Center = s.Position
}

// ClampToBounds keeps the ship inside the world box. The velocity component
// that hit the edge is zeroed for the controllable ship and halved for fleet
// ships. It reports whether the ship touched an edge.
func (s *Ship) ClampToBounds(bounds physics.Bounds) bool {
	clamped, hitX, hitY := bounds.Clamp(s.Position)
	if !hitX && !hitY {
		return false
	}
	s.Position = clamped
	s.Collider.Center = clamped

	factor := 0.5
	if s.Controllable {
		factor = 0
	}
	if hitX {
		s.Velocity.X *= factor
	}
	if hitY {
		s.Velocity.Y *= factor
	}
	return true
}
