// pkg/engine/snapshot.go
package engine

import (
	"math"

	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/physics"
)

// ShipState is a read-only view of one ship for HUDs and mission logic.
type ShipState struct {
	ID          uint64
	Name        string
	TypeID      string
	Active      bool
	Phase       entity.OrbitPhase
	Docked      bool
	OrbitLocked bool
	Speed       float64
	Position    physics.Vector2D
	Rotation    float64
	Health      float64

	// Planet names the orbited or approached planet.
	Planet string
	// NearestTarget names the closest planet, dock or pending waypoint;
	// empty when the world has none. Planet distances are to the surface.
	NearestTarget  string
	TargetDistance float64
}

// Snapshot returns the state of the active ship followed by every simulated
// fleet ship. It is empty when the scene is not entered.
func (s *SpaceScene) Snapshot() []ShipState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.entered {
		return nil
	}
	out := make([]ShipState, 0, 1+len(s.fleet))
	out = append(out, s.state(s.active))
	for _, ship := range s.fleet {
		out = append(out, s.state(ship))
	}
	return out
}

func (s *SpaceScene) state(ship *entity.Ship) ShipState {
	st := ShipState{
		ID:          uint64(ship.ID),
		Name:        ship.Name,
		TypeID:      ship.TypeID,
		Active:      ship.Controllable,
		Phase:       ship.Orbit.Phase,
		Docked:      ship.Docked,
		OrbitLocked: ship.Orbit.IsLocked(),
		Speed:       ship.Speed(),
		Position:    ship.Position,
		Rotation:    ship.Rotation,
		Health:      ship.Health,
	}
	if ship.Orbit.Phase != entity.OrbitFree {
		if p, ok := s.game.Registry.Planet(ship.Orbit.Planet); ok {
			st.Planet = p.Name
		}
	}
	st.NearestTarget, st.TargetDistance = s.nearestTarget(ship.Position)
	return st
}

func (s *SpaceScene) nearestTarget(pos physics.Vector2D) (string, float64) {
	name, best := "", math.Inf(1)
	if p, d, ok := s.game.Registry.NearestPlanet(pos); ok && d < best {
		name, best = p.Name, d
	}
	if dock, d, ok := s.game.Registry.NearestDock(pos); ok && d < best {
		name, best = dock.Name, d
	}
	for _, w := range s.waypoints {
		if w.reached {
			continue
		}
		if d := pos.Distance(w.Position); d < best {
			name, best = w.Name, d
		}
	}
	if name == "" {
		return "", 0
	}
	return name, best
}
