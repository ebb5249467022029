package engo

import (
	"context"
	"image/color"
	"os"
	"slices"
	"testing"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-orbiter/pkg/camera"
	"github.com/opd-ai/go-orbiter/pkg/config"
	"github.com/opd-ai/go-orbiter/pkg/engine"
	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/event"
	"github.com/opd-ai/go-orbiter/pkg/fleet"
	"github.com/opd-ai/go-orbiter/pkg/physics"
	"github.com/opd-ai/go-orbiter/pkg/render"
	"github.com/opd-ai/go-orbiter/pkg/save"
	"github.com/opd-ai/go-orbiter/pkg/world"
)

func TestMain(m *testing.M) {
	// Z-index and shader changes post to the mailbox, which engo.Run
	// normally sets up.
	if engo.Mailbox == nil {
		engo.Mailbox = &engo.MessageManager{}
	}
	os.Exit(m.Run())
}

// fakeSink records what would have been handed to common.RenderSystem.
type fakeSink struct {
	added   []*common.RenderComponent
	removed []uint64
}

func (f *fakeSink) Add(_ *ecs.BasicEntity, r *common.RenderComponent, _ *common.SpaceComponent) {
	f.added = append(f.added, r)
}

func (f *fakeSink) Remove(b ecs.BasicEntity) {
	f.removed = append(f.removed, b.ID())
}

// testScene builds an entered scene: the active courier with a planet and a
// dock in view, a second planet far away and one docked hauler parked.
func testScene(t *testing.T) *engine.SpaceScene {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.World.Width, cfg.World.Height = 20000, 20000
	cfg.Camera.ViewportWidth, cfg.Camera.ViewportHeight = 800, 600
	cfg.Camera.DefaultZoom = 1

	reg := world.NewRegistry(
		physics.Bounds{Width: 20000, Height: 20000},
		[]*entity.Planet{
			entity.NewPlanet(10, "Gaia", "Terran", physics.Vector2D{X: 5300, Y: 5000}, 100),
			entity.NewPlanet(11, "Far", "Ice", physics.Vector2D{X: 18000, Y: 18000}, 100),
		},
		[]*entity.Dock{entity.NewDock(1, "Haven", "station", physics.Vector2D{X: 4800, Y: 5000}, 40, 20)},
	)
	store := save.NewMemoryStore()
	repo := fleet.NewRepository(store)
	ctx := context.Background()
	recs := []save.ShipRecord{
		{ID: 1, TypeID: "courier", Name: "Kestrel", Location: save.InSpace{X: 5000, Y: 5000}},
		{ID: 2, TypeID: "hauler", Location: save.InSpace{X: 5100, Y: 5050}},
		{ID: 3, TypeID: "hauler", Location: save.Docked{Dock: "Haven"}},
	}
	if err := repo.SaveAll(ctx, recs); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetActiveShipID(ctx, 1); err != nil {
		t.Fatal(err)
	}

	game := &engine.GameContext{
		Config:   cfg,
		Registry: reg,
		Camera:   camera.New(cfg.CameraSettings(), nil),
		Store:    store,
		Events:   event.NewEventBus(),
	}
	scene := engine.NewSpaceScene(game)
	if err := scene.Enter(ctx); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}
	return scene
}

func newTestRenderer(scene *engine.SpaceScene) (*EngoRenderer, *fakeSink, *HUDSystem) {
	game := scene.Context()
	sink := &fakeSink{}
	hud := NewHUDSystem(sink, nil)
	assets := NewAssetManager(game.Config.Catalogue(), game.Registry.Planets())
	return NewEngoRenderer(sink, assets, game.Camera, hud), sink, hud
}

func TestEngoRendererDrawFrame(t *testing.T) {
	scene := testScene(t)
	scene.SetControl(entity.ActionThrust, true)
	scene.Update(engine.BaseTick)

	r, sink, hud := newTestRenderer(scene)
	render.DrawFrame(r, scene)

	// Gaia, Haven and two ships; Far is culled and ship 3 is parked.
	if got := len(r.sprites); got != 4 {
		t.Errorf("sprites = %d, want 4", got)
	}
	if got := len(r.particles); got != 1 {
		t.Errorf("particles = %d, want 1", got)
	}
	if r.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", r.Frames())
	}

	want := render.HUDLines(scene.Snapshot()[0], scene.Context().Camera.Zoom())
	if got := hud.Lines(); !slices.Equal(got, want) {
		t.Errorf("HUD lines = %q, want %q", got, want)
	}
	if got := len(sink.added); got != 5+len(want) {
		t.Errorf("entities added = %d, want %d", got, 5+len(want))
	}

	// A second frame reuses every entity.
	render.DrawFrame(r, scene)
	if got := len(sink.added); got != 5+len(want) {
		t.Errorf("entities added after second frame = %d", got)
	}
}

func TestEngoRendererPlacesPlanet(t *testing.T) {
	scene := testScene(t)
	r, _, _ := newTestRenderer(scene)
	cam := scene.Context().Camera
	planet, _ := scene.Context().Registry.Planet(10)

	r.Clear()
	r.RenderPlanet(planet)
	r.Present()

	s := r.sprites[spriteKey{kindPlanet, 10}]
	if s == nil {
		t.Fatal("no sprite for planet 10")
	}
	screen := cam.WorldToScreen(planet.Position)
	zoom := cam.Zoom()
	want := engo.Point{X: float32(screen.X - 100*zoom), Y: float32(screen.Y - 100*zoom)}
	if s.space.Position != want {
		t.Errorf("position = %v, want %v", s.space.Position, want)
	}
	if s.space.Width != float32(200*zoom) || s.space.Height != float32(200*zoom) {
		t.Errorf("size = %vx%v, want %v", s.space.Width, s.space.Height, 200*zoom)
	}
	wantScale := float32(200 * zoom / planetTextureSize)
	if s.render.Scale.X != wantScale || s.render.Scale.Y != wantScale {
		t.Errorf("scale = %v, want %v", s.render.Scale, wantScale)
	}
	if s.render.Hidden {
		t.Error("drawn planet is hidden")
	}
}

func TestEngoRendererHidesThenRemovesUndrawn(t *testing.T) {
	scene := testScene(t)
	r, sink, _ := newTestRenderer(scene)
	render.DrawFrame(r, scene)

	r.Clear()
	r.Present()
	for key, s := range r.sprites {
		if !s.render.Hidden {
			t.Errorf("sprite %v still visible after an empty frame", key)
		}
	}

	for i := 0; i < idleFrames; i++ {
		r.Clear()
		r.Present()
	}
	if len(r.sprites) != 0 {
		t.Errorf("sprites = %d after %d idle frames, want 0", len(r.sprites), idleFrames+1)
	}
	if len(sink.removed) != 4 {
		t.Errorf("removed = %d, want 4", len(sink.removed))
	}
}

func TestEngoRendererShipAndPlanetKeysDoNotCollide(t *testing.T) {
	scene := testScene(t)
	r, _, _ := newTestRenderer(scene)
	planet, _ := scene.Context().Registry.Planet(10)

	ship := entity.NewShip(10, entity.ShipType{ID: "courier", Width: 32, Height: 20}, physics.Vector2D{X: 5000, Y: 5000})
	r.Clear()
	r.RenderPlanet(planet)
	r.RenderShip(ship)
	r.Present()
	if len(r.sprites) != 2 {
		t.Errorf("sprites = %d, want 2", len(r.sprites))
	}
}

func TestEngoRendererParticleAlpha(t *testing.T) {
	scene := testScene(t)
	r, _, _ := newTestRenderer(scene)

	r.Clear()
	r.RenderParticle(engine.Particle{Position: physics.Vector2D{X: 5000, Y: 5000}, Age: 0.5, Lifetime: 1})
	r.Present()

	c, ok := r.particles[0].render.Color.(color.NRGBA)
	if !ok || c.A != 127 {
		t.Errorf("particle colour = %v, want alpha 127", r.particles[0].render.Color)
	}

	r.Clear()
	r.Present()
	if !r.particles[0].render.Hidden {
		t.Error("unused particle sprite not hidden")
	}
}

func TestEngoRendererIgnoresNil(t *testing.T) {
	scene := testScene(t)
	r, sink, _ := newTestRenderer(scene)
	r.RenderShip(nil)
	r.RenderPlanet(nil)
	r.RenderDock(nil)
	if len(sink.added) != 0 {
		t.Errorf("nil entities added %d sprites", len(sink.added))
	}
}

func TestShipColor(t *testing.T) {
	tests := []struct {
		name string
		ship entity.Ship
		want color.Color
	}{
		{"active", entity.Ship{Controllable: true}, activeColor},
		{"active docked", entity.Ship{Controllable: true, Docked: true}, activeColor},
		{"docked", entity.Ship{Docked: true}, dockedColor},
		{"fleet", entity.Ship{}, fleetColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShipColor(&tt.ship); got != tt.want {
				t.Errorf("ShipColor() = %v, want %v", got, tt.want)
			}
		})
	}
}
