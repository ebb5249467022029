package render

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-orbiter/pkg/engine"
	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/logging"
)

// TerminalClient plays a scene on a tcell screen. Keys map to actions
// through a KeyHold; Tab cycles the active ship, a left click hands control
// to the ship under the cursor and Escape, Ctrl-C or x quit.
type TerminalClient struct {
	scene    *engine.SpaceScene
	screen   tcell.Screen
	renderer *TerminalRenderer
	keys     *KeyHold
	logger   *logging.Logger
	now      func() time.Time
}

// NewTerminalClient creates a client for an initialised screen.
func NewTerminalClient(screen tcell.Screen, scene *engine.SpaceScene, logger *logging.Logger) *TerminalClient {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &TerminalClient{
		scene:    scene,
		screen:   screen,
		renderer: NewTerminalRenderer(screen, scene.Context().Camera),
		keys:     NewKeyHold(nil, DefaultHoldWindow),
		logger:   logger.Component("terminal"),
		now:      time.Now,
	}
}

// HandleEvent applies one terminal event and reports whether the client
// should quit.
func (c *TerminalClient) HandleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return c.handleKey(ctx, ev)
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			c.selectAt(ctx, x, y)
		}
	case *tcell.EventResize:
		c.screen.Sync()
	}
	return false
}

func (c *TerminalClient) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyTab:
		if _, err := c.scene.CycleActive(ctx); err != nil {
			c.logger.Warn(ctx, "cycle active ship failed", "error", err)
		}
		return false
	case tcell.KeyRune:
		if ev.Rune() == 'x' {
			return true
		}
	}

	action, pressed, ok := c.keys.Press(ev, c.now())
	if !ok {
		return false
	}
	// Zoom steps on every press and repeat; movement only on the first.
	if pressed || !action.IsMovement() {
		c.scene.SetControl(action, true)
	}
	return false
}

func (c *TerminalClient) selectAt(ctx context.Context, x, y int) {
	ship, ok := c.scene.ShipAt(c.renderer.ScreenToWorld(x, y))
	if !ok || ship.Controllable {
		return
	}
	if err := c.scene.HandOff(ctx, uint64(ship.ID)); err != nil {
		c.logger.Warn(ctx, "hand off failed", "ship_id", ship.ID, "error", err)
	}
}

// Frame releases expired keys, advances the scene by dt seconds and draws.
func (c *TerminalClient) Frame(dt float64) {
	for _, action := range c.keys.Expire(c.now()) {
		if action.IsMovement() {
			c.scene.SetControl(action, false)
		}
	}
	c.scene.Update(dt)
	DrawFrame(c.renderer, c.scene)
}

// Run processes events and draws at tickRate frames per second until the
// user quits or ctx is done.
func (c *TerminalClient) Run(ctx context.Context, tickRate int) {
	if tickRate <= 0 {
		tickRate = 60
	}
	c.screen.EnableMouse()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go c.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()
	last := c.now()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok || c.HandleEvent(ctx, ev) {
				return
			}
		case <-ticker.C:
			now := c.now()
			c.Frame(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Held reports whether a terminal key is holding action down.
func (c *TerminalClient) Held(action entity.Action) bool {
	return c.keys.Held(action)
}
