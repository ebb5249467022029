// pkg/world/registry.go
package world

import (
	"math"

	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/physics"
)

// Registry holds the planets and docks of one session. It is read-only once
// built and may be shared by every ship's orbit evaluation.
type Registry struct {
	bounds  physics.Bounds
	planets []*entity.Planet
	docks   []*entity.Dock

	planetByID   map[entity.ID]*entity.Planet
	planetByName map[string]*entity.Planet
	dockByID     map[entity.ID]*entity.Dock
	dockByName   map[string]*entity.Dock
}

// NewRegistry indexes the given bodies.
func NewRegistry(bounds physics.Bounds, planets []*entity.Planet, docks []*entity.Dock) *Registry {
	r := &Registry{
		bounds:       bounds,
		planets:      planets,
		docks:        docks,
		planetByID:   make(map[entity.ID]*entity.Planet, len(planets)),
		planetByName: make(map[string]*entity.Planet, len(planets)),
		dockByID:     make(map[entity.ID]*entity.Dock, len(docks)),
		dockByName:   make(map[string]*entity.Dock, len(docks)),
	}
	for _, p := range planets {
		r.planetByID[p.ID] = p
		r.planetByName[p.Name] = p
	}
	for _, d := range docks {
		r.dockByID[d.ID] = d
		r.dockByName[d.Name] = d
	}
	return r
}

// Bounds returns the world box.
func (r *Registry) Bounds() physics.Bounds {
	return r.bounds
}

// Planets returns every planet. Callers must not modify the slice.
func (r *Registry) Planets() []*entity.Planet {
	return r.planets
}

// Docks returns every dock. Callers must not modify the slice.
func (r *Registry) Docks() []*entity.Dock {
	return r.docks
}

func (r *Registry) Planet(id entity.ID) (*entity.Planet, bool) {
	p, ok := r.planetByID[id]
	return p, ok
}

// PlanetByName looks a planet up by the name saves refer to it by.
func (r *Registry) PlanetByName(name string) (*entity.Planet, bool) {
	p, ok := r.planetByName[name]
	return p, ok
}

func (r *Registry) Dock(id entity.ID) (*entity.Dock, bool) {
	d, ok := r.dockByID[id]
	return d, ok
}

func (r *Registry) DockByName(name string) (*entity.Dock, bool) {
	d, ok := r.dockByName[name]
	return d, ok
}

// NearestPlanet returns the planet whose surface is closest to point and
// the distance to that surface.
func (r *Registry) NearestPlanet(point physics.Vector2D) (*entity.Planet, float64, bool) {
	var (
		best     *entity.Planet
		bestDist = math.Inf(1)
	)
	for _, p := range r.planets {
		if d := p.Distance(point) - p.Radius; d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, bestDist, best != nil
}

// NearestDock returns the dock whose centre is closest to point.
func (r *Registry) NearestDock(point physics.Vector2D) (*entity.Dock, float64, bool) {
	var (
		best     *entity.Dock
		bestDist = math.Inf(1)
	)
	for _, d := range r.docks {
		if dist := d.Position.Distance(point); dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best, bestDist, best != nil
}

// SpawnPoint is where ships without a usable location appear: just below
// the first dock, or the world centre when there are no docks.
func (r *Registry) SpawnPoint() physics.Vector2D {
	if len(r.docks) == 0 {
		return r.bounds.Center()
	}
	d := r.docks[0]
	p := d.Position.Add(physics.Vector2D{Y: d.Bounds.Height})
	clamped, _, _ := r.bounds.Clamp(p)
	return clamped
}
