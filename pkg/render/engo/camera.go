// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-orbiter/pkg/camera"
)

// CameraSystem keeps the scene camera's viewport matched to the window and
// turns mouse wheel movement into zoom steps. Following and smoothing are
// done by the scene itself.
type CameraSystem struct {
	cam *camera.Camera

	// size and scroll are read from engo unless replaced.
	size   func() (float64, float64)
	scroll func() float64
}

// NewCameraSystem creates a camera system for cam.
func NewCameraSystem(cam *camera.Camera) *CameraSystem {
	return &CameraSystem{
		cam: cam,
		size: func() (float64, float64) {
			return float64(engo.GameWidth()), float64(engo.GameHeight())
		},
		scroll: func() float64 {
			return float64(engo.Input.Mouse.ScrollY)
		},
	}
}

// Priority runs the camera system before input and the simulation.
func (cs *CameraSystem) Priority() int { return 20 }

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(ecs.BasicEntity) {}

// Update syncs the viewport and applies scrolling.
func (cs *CameraSystem) Update(float32) {
	if w, h := cs.size(); w > 0 && h > 0 {
		if vw, vh := cs.cam.Viewport(); vw != w || vh != h {
			cs.cam.SetViewport(w, h)
		}
	}
	if steps := ScrollSteps(cs.scroll()); steps != 0 {
		cs.cam.ZoomBy(steps * cs.cam.Settings().ZoomStep)
	}
}

// ScrollSteps converts a wheel delta to whole zoom steps, positive zooming
// in. Partial notches from touchpads round towards zero.
func ScrollSteps(delta float64) float64 {
	switch {
	case delta >= 1:
		return float64(int(delta))
	case delta <= -1:
		return -float64(int(-delta))
	}
	return 0
}
