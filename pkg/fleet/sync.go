// Package fleet converts between simulated ships and their persisted
// records and keeps the records in the save store.
package fleet

import (
	"context"
	"maps"
	"math"

	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/logging"
	"github.com/opd-ai/go-orbiter/pkg/orbit"
	"github.com/opd-ai/go-orbiter/pkg/physics"
	"github.com/opd-ai/go-orbiter/pkg/save"
	"github.com/opd-ai/go-orbiter/pkg/validation"
	"github.com/opd-ai/go-orbiter/pkg/world"
)

// Syncer maps ships onto save locations and back against one world.
type Syncer struct {
	world  *world.Registry
	orbits *orbit.Controller
	logger *logging.Logger
}

// NewSyncer creates a syncer. A nil logger discards warnings.
func NewSyncer(reg *world.Registry, ctl *orbit.Controller, logger *logging.Logger) *Syncer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Syncer{world: reg, orbits: ctl, logger: logger.Component("fleet")}
}

// ToLocation captures where a ship is. A ship still approaching an orbit is
// saved in free flight with its approach velocity.
func (s *Syncer) ToLocation(ship *entity.Ship) save.Location {
	if ship.Docked {
		if d, ok := s.world.Dock(ship.DockID); ok {
			return save.Docked{Dock: d.Name, Angle: ship.Rotation}
		}
	}
	if ship.Orbit.IsLocked() {
		if p, ok := s.world.Planet(ship.Orbit.Planet); ok {
			return save.InOrbit{
				Planet:      p.Name,
				Radius:      ship.Orbit.Radius,
				Angle:       ship.Orbit.Angle,
				LockedSpeed: ship.Orbit.LockedSpeed,
				Direction:   ship.Orbit.Direction,
			}
		}
	}
	v := ship.Velocity
	if ship.Orbit.Phase == entity.OrbitApproaching {
		v = ship.Orbit.ApproachVelocity
	}
	return save.InSpace{
		X: ship.Position.X, Y: ship.Position.Y,
		VX: v.X, VY: v.Y,
		Angle: ship.Rotation,
	}
}

// ApplyLocation places a ship according to a persisted location. Stale
// references and out-of-range values are corrected in place and logged;
// the ship always ends up somewhere valid.
func (s *Syncer) ApplyLocation(ctx context.Context, ship *entity.Ship, loc save.Location) {
	ship.Orbit = entity.OrbitState{}
	ship.Docked = false
	ship.Velocity = physics.Vector2D{}

	switch l := loc.(type) {
	case save.Docked:
		d, ok := s.world.DockByName(l.Dock)
		if !ok {
			s.logger.Warn(ctx, "saved dock missing, using spawn point", "ship", ship.ID, "dock", l.Dock)
			s.place(ship, s.world.SpawnPoint(), 0)
			return
		}
		s.place(ship, d.Position, l.Angle)
		ship.Docked = true
		ship.DockID = d.ID

	case save.InSpace:
		pos := physics.Vector2D{X: l.X, Y: l.Y}
		vel := physics.Vector2D{X: l.VX, Y: l.VY}
		if !pos.IsFinite() || !vel.IsFinite() {
			s.logger.Warn(ctx, "saved position invalid, using spawn point", "ship", ship.ID)
			s.place(ship, s.world.SpawnPoint(), 0)
			return
		}
		if clamped, hitX, hitY := s.world.Bounds().Clamp(pos); hitX || hitY {
			s.logger.Warn(ctx, "saved position outside world, clamping", "ship", ship.ID, "x", l.X, "y", l.Y)
			pos = clamped
		}
		s.place(ship, pos, l.Angle)
		ship.Velocity = vel

	case save.InOrbit:
		p, ok := s.world.PlanetByName(l.Planet)
		if !ok {
			s.logger.Warn(ctx, "saved orbit planet missing, using spawn point", "ship", ship.ID, "planet", l.Planet)
			s.place(ship, s.world.SpawnPoint(), 0)
			return
		}
		if s.orbits.Restore(ship, p, l.Radius, l.Angle, l.LockedSpeed, l.Direction) {
			s.logger.Warn(ctx, "saved orbit radius out of range, using default",
				"ship", ship.ID, "planet", p.Name, "radius", l.Radius, "restored_radius", ship.Orbit.Radius)
		}

	default:
		s.logger.Warn(ctx, "ship has no saved location, using spawn point", "ship", ship.ID)
		s.place(ship, s.world.SpawnPoint(), 0)
	}
}

func (s *Syncer) place(ship *entity.Ship, pos physics.Vector2D, angle float64) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		angle = 0
	}
	ship.Position = pos
	ship.Collider.Center = pos
	ship.Rotation = angle
}

// Record builds the persisted record for a ship.
func (s *Syncer) Record(ship *entity.Ship) save.ShipRecord {
	return save.ShipRecord{
		ID:          uint64(ship.ID),
		TypeID:      ship.TypeID,
		Name:        ship.Name,
		Health:      ship.Health,
		Consumables: maps.Clone(ship.Consumables),
		Location:    s.ToLocation(ship),
	}
}

// BuildShip creates a ship of the given type carrying the record's identity
// and condition. Its location is applied separately.
func BuildShip(rec save.ShipRecord, shipType entity.ShipType) *entity.Ship {
	ship := entity.NewShip(entity.ID(rec.ID), shipType, physics.Vector2D{})
	ship.Name = validation.ShipNameOr(rec.Name, ship.Name)
	ship.Health = rec.Health
	if rec.Consumables != nil {
		ship.Consumables = maps.Clone(rec.Consumables)
	}
	return ship
}
