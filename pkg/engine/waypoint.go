// pkg/engine/waypoint.go
package engine

import (
	"context"

	"github.com/opd-ai/go-orbiter/pkg/config"
	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/logging"
	"github.com/opd-ai/go-orbiter/pkg/physics"
	"github.com/opd-ai/go-orbiter/pkg/world"
)

// Waypoint is a navigation target for the active ship. A waypoint with a
// PlanetOrbit is reached by locking into orbit around that planet; any
// other waypoint is reached by flying within Radius of Position.
type Waypoint struct {
	Name        string
	Position    physics.Vector2D
	Radius      float64
	PlanetOrbit entity.ID

	reached bool
}

// Reached reports whether the waypoint has fired.
func (w *Waypoint) Reached() bool {
	return w.reached
}

// arrived checks ship against the waypoint without changing it.
func (w *Waypoint) arrived(ship *entity.Ship) bool {
	if ship.Docked {
		return false
	}
	if w.PlanetOrbit != 0 {
		return ship.Orbit.IsLocked() && ship.Orbit.Planet == w.PlanetOrbit
	}
	return ship.Position.Distance(w.Position) <= w.Radius
}

// buildWaypoints resolves configured waypoints against the world. Waypoints
// naming a planet that was not generated are dropped with a warning.
func buildWaypoints(ctx context.Context, cfgs []config.WaypointConfig, reg *world.Registry, logger *logging.Logger) []*Waypoint {
	out := make([]*Waypoint, 0, len(cfgs))
	for _, c := range cfgs {
		w := &Waypoint{
			Name:     c.Name,
			Position: physics.Vector2D{X: c.X, Y: c.Y},
			Radius:   c.Radius,
		}
		if c.Planet != "" {
			p, ok := reg.PlanetByName(c.Planet)
			if !ok {
				logger.Warn(ctx, "waypoint planet not in world, skipping", "waypoint", c.Name, "planet", c.Planet)
				continue
			}
			w.Position = p.Position
			w.PlanetOrbit = p.ID
		}
		out = append(out, w)
	}
	return out
}
