// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-orbiter/pkg/engine"
	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/logging"
)

// FrameRenderer is an entity renderer that can also draw the scene's
// cosmetic layers.
type FrameRenderer interface {
	entity.Renderer
	RenderParticle(p engine.Particle)
	RenderHUD(lines []string)
}

// NullRenderer draws nothing. It counts calls and logs them at debug level,
// which is all the headless simulator needs.
type NullRenderer struct {
	logger *logging.Logger

	Ships     int
	Planets   int
	Docks     int
	Particles int
	Frames    int
}

// NewNullRenderer creates a NullRenderer. A nil logger discards output.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &NullRenderer{logger: logger.Component("render")}
}

// Clear resets the per-frame counters.
func (d *NullRenderer) Clear() {
	d.Ships, d.Planets, d.Docks, d.Particles = 0, 0, 0, 0
}

func (d *NullRenderer) Present() {
	d.Frames++
	d.logger.Debug(context.Background(), "frame presented",
		"frame", d.Frames,
		"ships", d.Ships,
		"planets", d.Planets,
		"docks", d.Docks)
}

func (d *NullRenderer) RenderShip(ship *entity.Ship) {
	if ship != nil {
		d.Ships++
	}
}

func (d *NullRenderer) RenderPlanet(planet *entity.Planet) {
	if planet != nil {
		d.Planets++
	}
}

func (d *NullRenderer) RenderDock(dock *entity.Dock) {
	if dock != nil {
		d.Docks++
	}
}

func (d *NullRenderer) RenderParticle(engine.Particle) {
	d.Particles++
}

func (d *NullRenderer) RenderHUD([]string) {}
