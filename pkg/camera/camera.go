// pkg/camera/camera.go
package camera

import (
	"math"

	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/physics"
)

// Settings configures smoothing, zoom limits and the viewport.
type Settings struct {
	FollowSmoothing float64 // fraction of the gap closed per base tick
	ZoomSmoothing   float64
	MinZoom         float64
	MaxZoom         float64
	DefaultZoom     float64
	OrbitZoom       float64
	ZoomStep        float64
	ViewportWidth   float64
	ViewportHeight  float64
	World           physics.Bounds
}

// DefaultSettings returns settings for an 800x600 viewport.
func DefaultSettings(world physics.Bounds) Settings {
	return Settings{
		FollowSmoothing: 0.1,
		ZoomSmoothing:   0.05,
		MinZoom:         0.1,
		MaxZoom:         2.0,
		DefaultZoom:     1.0,
		OrbitZoom:       0.4,
		ZoomStep:        0.1,
		ViewportWidth:   800,
		ViewportHeight:  600,
		World:           world,
	}
}

// Resolver looks up the current position of a followed entity. The camera
// only stores the target's ID, so a removed or swapped ship simply stops
// resolving.
type Resolver interface {
	Position(id entity.ID) (physics.Vector2D, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(id entity.ID) (physics.Vector2D, bool)

func (f ResolverFunc) Position(id entity.ID) (physics.Vector2D, bool) {
	return f(id)
}

// Camera holds a smoothed position and zoom that chase a target.
type Camera struct {
	settings Settings
	resolver Resolver

	target     entity.ID
	position   physics.Vector2D
	zoom       float64
	targetZoom float64
}

// New creates a camera centred on the world at the default zoom
func New(settings Settings, resolver Resolver) *Camera {
	c := &Camera{
		settings: settings,
		resolver: resolver,
		position: settings.World.Center(),
	}
	c.targetZoom = c.clampZoom(settings.DefaultZoom)
	c.zoom = c.targetZoom
	return c
}

// Settings returns the camera settings.
func (c *Camera) Settings() Settings {
	return c.settings
}

// SetResolver replaces the position lookup, for cameras created before the
// scene that owns the ships.
func (c *Camera) SetResolver(r Resolver) {
	c.resolver = r
}

// Follow retargets the camera and jumps straight to the new target.
func (c *Camera) Follow(id entity.ID) {
	c.target = id
	if pos, ok := c.resolve(); ok {
		c.position = pos
	}
}

// Target returns the followed entity, zero when none.
func (c *Camera) Target() entity.ID {
	return c.target
}

func (c *Camera) resolve() (physics.Vector2D, bool) {
	if c.target == 0 || c.resolver == nil {
		return physics.Vector2D{}, false
	}
	return c.resolver.Position(c.target)
}

// smoothing converts a per-tick factor into the factor for steps ticks.
func smoothing(factor, steps float64) float64 {
	factor = math.Min(math.Max(factor, 0), 1)
	return 1 - math.Pow(1-factor, steps)
}

// Update moves position and zoom toward their targets. A target that no
// longer resolves leaves the camera where it is.
func (c *Camera) Update(steps float64) {
	if pos, ok := c.resolve(); ok {
		a := smoothing(c.settings.FollowSmoothing, steps)
		c.position = c.position.Add(pos.Sub(c.position).Scale(a))
	}
	a := smoothing(c.settings.ZoomSmoothing, steps)
	c.zoom += (c.targetZoom - c.zoom) * a
}

func (c *Camera) clampZoom(z float64) float64 {
	return math.Min(math.Max(z, c.settings.MinZoom), c.settings.MaxZoom)
}

// SetTargetZoom sets the zoom the camera eases toward.
func (c *Camera) SetTargetZoom(z float64) {
	c.targetZoom = c.clampZoom(z)
}

// ZoomBy nudges the target zoom.
func (c *Camera) ZoomBy(delta float64) {
	c.SetTargetZoom(c.targetZoom + delta)
}

// ZoomIn and ZoomOut step the target zoom by the configured ZoomStep.
func (c *Camera) ZoomIn()  { c.ZoomBy(c.settings.ZoomStep) }
func (c *Camera) ZoomOut() { c.ZoomBy(-c.settings.ZoomStep) }

// OrbitView and DefaultView switch to the cinematic orbit zoom and back.
func (c *Camera) OrbitView()   { c.SetTargetZoom(c.settings.OrbitZoom) }
func (c *Camera) DefaultView() { c.SetTargetZoom(c.settings.DefaultZoom) }

func (c *Camera) Zoom() float64              { return c.zoom }
func (c *Camera) TargetZoom() float64        { return c.targetZoom }
func (c *Camera) Position() physics.Vector2D { return c.position }

// SetViewport updates the screen size in pixels.
func (c *Camera) SetViewport(width, height float64) {
	c.settings.ViewportWidth = width
	c.settings.ViewportHeight = height
}

// Viewport returns the screen size in pixels.
func (c *Camera) Viewport() (width, height float64) {
	return c.settings.ViewportWidth, c.settings.ViewportHeight
}

// Clamped returns the camera position restricted so the visible area stays
// inside the world. On an axis where the view is larger than the world the
// camera centres on it.
func (c *Camera) Clamped() physics.Vector2D {
	halfW := c.settings.ViewportWidth / (2 * c.zoom)
	halfH := c.settings.ViewportHeight / (2 * c.zoom)
	return physics.Vector2D{
		X: clampAxis(c.position.X, halfW, c.settings.World.Width),
		Y: clampAxis(c.position.Y, halfH, c.settings.World.Height),
	}
}

func clampAxis(v, half, size float64) float64 {
	lo, hi := half, size-half
	if lo > hi {
		return size / 2
	}
	return math.Min(math.Max(v, lo), hi)
}

// WorldToScreen maps a world point to pixel coordinates.
func (c *Camera) WorldToScreen(p physics.Vector2D) physics.Vector2D {
	center := c.Clamped()
	return physics.Vector2D{
		X: (p.X-center.X)*c.zoom + c.settings.ViewportWidth/2,
		Y: (p.Y-center.Y)*c.zoom + c.settings.ViewportHeight/2,
	}
}

// ScreenToWorld is the inverse of WorldToScreen.
func (c *Camera) ScreenToWorld(s physics.Vector2D) physics.Vector2D {
	center := c.Clamped()
	return physics.Vector2D{
		X: (s.X-c.settings.ViewportWidth/2)/c.zoom + center.X,
		Y: (s.Y-c.settings.ViewportHeight/2)/c.zoom + center.Y,
	}
}

// Visible reports whether a circle of the given world radius around p
// overlaps the screen.
func (c *Camera) Visible(p physics.Vector2D, radius float64) bool {
	s := c.WorldToScreen(p)
	r := radius * c.zoom
	return s.X+r >= 0 && s.X-r <= c.settings.ViewportWidth &&
		s.Y+r >= 0 && s.Y-r <= c.settings.ViewportHeight
}
