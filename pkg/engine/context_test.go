package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/opd-ai/go-orbiter/pkg/config"
	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/save"
)

func TestNewGameContextIsDeterministic(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seed = 99

	a, err := NewGameContext(context.Background(), cfg, save.NewMemoryStore(), nil, nil, nil)
	if err != nil {
		t.Fatalf("NewGameContext() error = %v", err)
	}
	b, err := NewGameContext(context.Background(), cfg, save.NewMemoryStore(), nil, nil, nil)
	if err != nil {
		t.Fatalf("NewGameContext() error = %v", err)
	}

	pa, pb := a.Registry.Planets(), b.Registry.Planets()
	if len(pa) == 0 || len(pa) != len(pb) {
		t.Fatalf("planet counts %d and %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i].Name != pb[i].Name || pa[i].Position != pb[i].Position || pa[i].Radius != pb[i].Radius {
			t.Errorf("planet %d differs: %+v vs %+v", i, pa[i], pb[i])
		}
	}
	if a.Events == nil || a.Logger == nil || a.Camera == nil {
		t.Error("defaults not filled in")
	}
	if _, ok := a.Registry.DockByName("Haven Station"); !ok {
		t.Error("configured dock missing")
	}
}

func TestNewGameContextErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := NewGameContext(ctx, nil, save.NewMemoryStore(), nil, nil, nil); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("nil config error = %v", err)
	}
	if _, err := NewGameContext(ctx, config.DefaultConfig(), nil, nil, nil, nil); err == nil {
		t.Error("expected error for nil store")
	}
	cfg := config.DefaultConfig()
	cfg.World.Width = 0
	if _, err := NewGameContext(ctx, cfg, save.NewMemoryStore(), nil, nil, nil); err == nil {
		t.Error("expected error for empty world")
	}
}

func TestGeneratedWorldSceneRuns(t *testing.T) {
	cfg := config.DefaultConfig()
	game, err := NewGameContext(context.Background(), cfg, save.NewMemoryStore(), nil, nil, nil)
	if err != nil {
		t.Fatalf("NewGameContext() error = %v", err)
	}
	scene := NewSpaceScene(game)
	if err := scene.Enter(context.Background()); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}
	scene.SetControl(entity.ActionThrust, true)
	for i := 0; i < 600; i++ {
		scene.Update(BaseTick)
	}
	for _, st := range scene.Snapshot() {
		if !st.Position.IsFinite() {
			t.Errorf("ship %d position not finite: %v", st.ID, st.Position)
		}
		if !game.Registry.Bounds().Contains(st.Position) && !st.OrbitLocked {
			t.Errorf("ship %d left the world: %v", st.ID, st.Position)
		}
	}
	if err := scene.Exit(context.Background()); err != nil {
		t.Fatalf("Exit() error = %v", err)
	}
}
