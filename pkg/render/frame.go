package render

import (
	"github.com/opd-ai/go-orbiter/pkg/engine"
)

// DrawFrame draws one frame of scene through r: planets, docks, particles,
// fleet ships, the active ship last, then the HUD. Bodies outside the
// camera view are culled. Docked fleet ships are not drawn.
func DrawFrame(r FrameRenderer, scene *engine.SpaceScene) {
	game := scene.Context()
	cam := game.Camera

	r.Clear()
	for _, p := range game.Registry.Planets() {
		if cam.Visible(p.Position, p.Radius) {
			p.Render(r)
		}
	}
	for _, d := range game.Registry.Docks() {
		if cam.Visible(d.Position, d.Collider.Radius) {
			d.Render(r)
		}
	}
	for _, p := range scene.Particles() {
		if cam.Visible(p.Position, 0) {
			r.RenderParticle(p)
		}
	}

	ships := scene.Ships()
	for i := len(ships) - 1; i >= 0; i-- {
		ship := ships[i]
		if ship.Docked && !ship.Controllable {
			continue
		}
		if cam.Visible(ship.Position, ship.Collider.Radius) {
			ship.Render(r)
		}
	}

	if snap := scene.Snapshot(); len(snap) > 0 {
		r.RenderHUD(HUDLines(snap[0], cam.Zoom()))
	}
	r.Present()
}
