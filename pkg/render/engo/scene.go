// pkg/render/engo/scene.go
package engo

import (
	"bytes"
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/opd-ai/go-orbiter/pkg/engine"
	"github.com/opd-ai/go-orbiter/pkg/logging"
	"github.com/opd-ai/go-orbiter/pkg/render"
)

// hudFontURL is the virtual file the HUD font is loaded under.
const hudFontURL = "fonts/gomono.ttf"

// GameScene runs a SpaceScene inside an engo window.
type GameScene struct {
	ctx    context.Context
	scene  *engine.SpaceScene
	logger *logging.Logger

	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem
}

// NewGameScene creates the engo scene for scene. The space scene is entered
// in Setup if the caller has not already done so, and exited with the
// window.
func NewGameScene(ctx context.Context, scene *engine.SpaceScene) *GameScene {
	logger := scene.Context().Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GameScene{
		ctx:    ctx,
		scene:  scene,
		logger: logger.Component("engo"),
	}
}

// Type returns the scene type (required by Engo)
func (gs *GameScene) Type() string {
	return "OrbiterScene"
}

// Preload registers the HUD font (required by Engo)
func (gs *GameScene) Preload() {
	if err := engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(gomono.TTF)); err != nil {
		gs.logger.Error(gs.ctx, "load HUD font", err)
	}
}

// Setup wires the systems into the engo world (required by Engo)
func (gs *GameScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	game := gs.scene.Context()

	if !gs.scene.Entered() {
		if err := gs.scene.Enter(gs.ctx); err != nil {
			gs.logger.Error(gs.ctx, "enter scene", err)
			engo.Exit()
			return
		}
	}

	rs := &common.RenderSystem{}
	world.AddSystem(rs)

	assets := NewAssetManager(game.Config.Catalogue(), game.Registry.Planets())
	if err := assets.Load(); err != nil {
		gs.logger.Error(gs.ctx, "load assets", err)
	}

	font, err := NewHUDFont(hudFontURL)
	if err != nil {
		gs.logger.Warn(gs.ctx, "HUD font unavailable", "error", err)
	}
	gs.hud = NewHUDSystem(rs, font)
	gs.renderer = NewEngoRenderer(rs, assets, game.Camera, gs.hud)

	gs.camera = NewCameraSystem(game.Camera)
	world.AddSystem(gs.camera)

	RegisterBindings(nil)
	gs.input = NewInputSystem(gs.ctx, gs.scene, game.Camera, gs.logger)
	world.AddSystem(gs.input)

	world.AddSystem(&frameSystem{scene: gs.scene, renderer: gs.renderer})
}

// Exit saves the fleet when the window closes.
func (gs *GameScene) Exit() {
	if err := gs.scene.Exit(gs.ctx); err != nil {
		gs.logger.Error(gs.ctx, "exit scene", err)
	}
}

// frameSystem advances the simulation and draws the frame.
type frameSystem struct {
	scene    *engine.SpaceScene
	renderer render.FrameRenderer
}

func (fs *frameSystem) Remove(ecs.BasicEntity) {}

func (fs *frameSystem) Update(dt float32) {
	fs.scene.Update(float64(dt))
	render.DrawFrame(fs.renderer, fs.scene)
}

// Run opens a window and runs scene until it closes.
func Run(ctx context.Context, scene *engine.SpaceScene, opts engo.RunOptions) {
	engo.Run(opts, NewGameScene(ctx, scene))
}
