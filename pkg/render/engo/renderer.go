// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-orbiter/pkg/camera"
	"github.com/opd-ai/go-orbiter/pkg/engine"
	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/physics"
)

// Draw layers, lowest first.
const (
	layerPlanet float32 = iota
	layerDock
	layerParticle
	layerFleet
	layerActive
	layerHUD
)

var (
	activeColor   = color.NRGBA{120, 240, 255, 255}
	fleetColor    = color.NRGBA{190, 190, 190, 255}
	dockedColor   = color.NRGBA{120, 120, 120, 255}
	dockColor     = color.NRGBA{255, 170, 60, 255}
	particleColor = color.NRGBA{255, 200, 120, 255}
)

// SpriteSystem is the part of common.RenderSystem the renderer feeds.
type SpriteSystem interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

type spriteKind int

const (
	kindShip spriteKind = iota
	kindPlanet
	kindDock
)

// Ship ids and world ids are separate namespaces, so keys carry the kind.
type spriteKey struct {
	kind spriteKind
	id   entity.ID
}

type sprite struct {
	basic  ecs.BasicEntity
	render common.RenderComponent
	space  common.SpaceComponent
	seen   bool
}

// EngoRenderer implements render.FrameRenderer by keeping one engo entity
// per drawn body. Bodies not drawn in a frame are hidden at Present and
// removed once they have been hidden for a while.
type EngoRenderer struct {
	sink   SpriteSystem
	assets *AssetManager
	cam    *camera.Camera
	hud    *HUDSystem

	sprites   map[spriteKey]*sprite
	idle      map[spriteKey]int
	particles []*sprite
	used      int
	frames    int
}

// idleFrames is how long a hidden sprite is kept before it is removed.
const idleFrames = 300

// NewEngoRenderer creates a renderer drawing into sink through cam. hud may
// be nil.
func NewEngoRenderer(sink SpriteSystem, assets *AssetManager, cam *camera.Camera, hud *HUDSystem) *EngoRenderer {
	return &EngoRenderer{
		sink:    sink,
		assets:  assets,
		cam:     cam,
		hud:     hud,
		sprites: make(map[spriteKey]*sprite),
		idle:    make(map[spriteKey]int),
	}
}

func (r *EngoRenderer) spriteFor(key spriteKey, layer float32, image, fallback string) *sprite {
	if s, ok := r.sprites[key]; ok {
		return s
	}
	s := &sprite{basic: ecs.NewBasic()}
	s.render.Drawable = r.assets.Drawable(image, fallback)
	s.render.SetZIndex(layer)
	r.sink.Add(&s.basic, &s.render, &s.space)
	r.sprites[key] = s
	return s
}

// place centres s on a world position at the given world size, scaling the
// texture by the camera zoom. Rotation is in radians.
func (r *EngoRenderer) place(s *sprite, pos physics.Vector2D, w, h, rotation float64, image, fallback string) {
	zoom := r.cam.Zoom()
	screen := r.cam.WorldToScreen(pos)
	tw, th := r.assets.Size(image, fallback)

	s.space.Width = float32(w * zoom)
	s.space.Height = float32(h * zoom)
	s.space.Rotation = float32(rotation * 180 / math.Pi)
	s.space.Position = engo.Point{
		X: float32(screen.X - w*zoom/2),
		Y: float32(screen.Y - h*zoom/2),
	}
	s.render.Scale = engo.Point{X: float32(w * zoom / tw), Y: float32(h * zoom / th)}
	s.render.Hidden = false
	s.seen = true
}

// Clear starts a frame.
func (r *EngoRenderer) Clear() {
	for _, s := range r.sprites {
		s.seen = false
	}
	r.used = 0
}

// Present hides whatever was not drawn this frame.
func (r *EngoRenderer) Present() {
	for key, s := range r.sprites {
		if s.seen {
			delete(r.idle, key)
			continue
		}
		s.render.Hidden = true
		r.idle[key]++
		if r.idle[key] > idleFrames {
			r.sink.Remove(s.basic)
			delete(r.sprites, key)
			delete(r.idle, key)
		}
	}
	for _, s := range r.particles[r.used:] {
		s.render.Hidden = true
	}
	r.frames++
}

// Frames returns the number of presented frames.
func (r *EngoRenderer) Frames() int {
	return r.frames
}

func (r *EngoRenderer) RenderShip(ship *entity.Ship) {
	if ship == nil {
		return
	}
	layer := layerFleet
	if ship.Controllable {
		layer = layerActive
	}
	s := r.spriteFor(spriteKey{kindShip, ship.ID}, layer, ship.Image, shipFallback)
	r.place(s, ship.Position, ship.Width, ship.Height, ship.Rotation, ship.Image, shipFallback)
	s.render.Color = ShipColor(ship)
}

// ShipColor tints the active ship apart from the fleet, and docked ships
// darker still.
func ShipColor(ship *entity.Ship) color.Color {
	switch {
	case ship.Controllable:
		return activeColor
	case ship.Docked:
		return dockedColor
	}
	return fleetColor
}

func (r *EngoRenderer) RenderPlanet(planet *entity.Planet) {
	if planet == nil {
		return
	}
	key := planet.Image
	if key == "" {
		key = planet.Type
	}
	s := r.spriteFor(spriteKey{kindPlanet, planet.ID}, layerPlanet, key, planetFallback)
	d := planet.Radius * 2
	r.place(s, planet.Position, d, d, 0, key, planetFallback)
}

func (r *EngoRenderer) RenderDock(dock *entity.Dock) {
	if dock == nil {
		return
	}
	s := r.spriteFor(spriteKey{kindDock, dock.ID}, layerDock, dockSprite, dockSprite)
	r.place(s, dock.Position, dock.Bounds.Width, dock.Bounds.Height, 0, dockSprite, dockSprite)
	s.render.Color = dockColor
}

// RenderParticle draws a thruster particle from a reusable pool.
func (r *EngoRenderer) RenderParticle(p engine.Particle) {
	if r.used == len(r.particles) {
		s := &sprite{basic: ecs.NewBasic()}
		s.render.Drawable = r.assets.Drawable(particleSprite, particleSprite)
		s.render.SetZIndex(layerParticle)
		r.sink.Add(&s.basic, &s.render, &s.space)
		r.particles = append(r.particles, s)
	}
	s := r.particles[r.used]
	r.used++

	size := float64(particleTextureSize) / math.Max(r.cam.Zoom(), 0.01)
	r.place(s, p.Position, size, size, 0, particleSprite, particleSprite)
	c := particleColor
	c.A = uint8(255 * p.Alpha())
	s.render.Color = c
}

// RenderHUD forwards the status lines to the HUD system.
func (r *EngoRenderer) RenderHUD(lines []string) {
	if r.hud != nil {
		r.hud.SetLines(lines)
	}
}
