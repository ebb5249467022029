// pkg/render/engo/input.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-orbiter/pkg/camera"
	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/logging"
	"github.com/opd-ai/go-orbiter/pkg/physics"
)

// ButtonNextShip hands control to the next fleet ship.
const ButtonNextShip = "nextShip"

// DefaultBindings maps each action to its keys. Actions register as engo
// buttons under their binding names.
var DefaultBindings = map[entity.Action][]engo.Key{
	entity.ActionThrust:      {engo.KeyW, engo.KeyArrowUp},
	entity.ActionReverse:     {engo.KeyS, engo.KeyArrowDown},
	entity.ActionRotateLeft:  {engo.KeyA, engo.KeyArrowLeft},
	entity.ActionRotateRight: {engo.KeyD, engo.KeyArrowRight},
	entity.ActionStrafeLeft:  {engo.KeyQ},
	entity.ActionStrafeRight: {engo.KeyE},
	entity.ActionZoomIn:      {engo.KeyEquals},
	entity.ActionZoomOut:     {engo.KeyDash},
	entity.ActionBreakOrbit:  {engo.KeyB},
}

// Controller is what the input system drives. *engine.SpaceScene
// implements it.
type Controller interface {
	SetControl(action entity.Action, active bool)
	ShipAt(point physics.Vector2D) (*entity.Ship, bool)
	HandOff(ctx context.Context, id uint64) error
	CycleActive(ctx context.Context) (uint64, error)
}

// ButtonEdges reports whether a named button went down or up this frame.
type ButtonEdges func(name string) (pressed, released bool)

// Click is a left mouse press in screen pixels.
type Click struct {
	X, Y    float64
	Pressed bool
}

// InputSystem turns engo button edges into control presses and releases.
// Clicking a fleet ship or pressing Tab hands control over.
type InputSystem struct {
	ctx    context.Context
	ctl    Controller
	cam    *camera.Camera
	logger *logging.Logger

	edges ButtonEdges
	click func() Click
}

// NewInputSystem creates an input system reading engo.Input.
func NewInputSystem(ctx context.Context, ctl Controller, cam *camera.Camera, logger *logging.Logger) *InputSystem {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &InputSystem{
		ctx:    ctx,
		ctl:    ctl,
		cam:    cam,
		logger: logger.Component("input"),
		edges: func(name string) (bool, bool) {
			b := engo.Input.Button(name)
			return b.JustPressed(), b.JustReleased()
		},
		click: func() Click {
			m := engo.Input.Mouse
			return Click{
				X:       float64(m.X),
				Y:       float64(m.Y),
				Pressed: m.Action == engo.Press && m.Button == engo.MouseButtonLeft,
			}
		},
	}
}

// RegisterBindings registers the action buttons with engo.
func RegisterBindings(bindings map[entity.Action][]engo.Key) {
	if bindings == nil {
		bindings = DefaultBindings
	}
	for action, keys := range bindings {
		engo.Input.RegisterButton(action.String(), keys...)
	}
	engo.Input.RegisterButton(ButtonNextShip, engo.KeyTab)
}

// Priority runs input before the simulation.
func (is *InputSystem) Priority() int { return 10 }

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(ecs.BasicEntity) {}

// Update polls the buttons and the mouse.
func (is *InputSystem) Update(float32) {
	is.poll()
	if c := is.click(); c.Pressed {
		is.Select(physics.Vector2D{X: c.X, Y: c.Y})
	}
}

func (is *InputSystem) poll() {
	for _, action := range entity.Actions() {
		pressed, released := is.edges(action.String())
		if pressed {
			is.ctl.SetControl(action, true)
		}
		if released {
			is.ctl.SetControl(action, false)
		}
	}
	if pressed, _ := is.edges(ButtonNextShip); pressed {
		id, err := is.ctl.CycleActive(is.ctx)
		if err != nil {
			is.logger.Warn(is.ctx, "cycle active ship failed", "error", err)
			return
		}
		is.logger.Debug(is.ctx, "active ship cycled", "ship_id", id)
	}
}

// Select hands control to the fleet ship under a screen position, if any.
func (is *InputSystem) Select(screen physics.Vector2D) bool {
	ship, ok := is.ctl.ShipAt(is.cam.ScreenToWorld(screen))
	if !ok || ship.Controllable {
		return false
	}
	if err := is.ctl.HandOff(is.ctx, uint64(ship.ID)); err != nil {
		is.logger.Warn(is.ctx, "hand off failed", "ship_id", ship.ID, "error", err)
		return false
	}
	return true
}
