// pkg/engine/context.go
package engine

import (
	"context"
	"fmt"

	"github.com/opd-ai/go-orbiter/pkg/camera"
	"github.com/opd-ai/go-orbiter/pkg/config"
	"github.com/opd-ai/go-orbiter/pkg/event"
	"github.com/opd-ai/go-orbiter/pkg/logging"
	"github.com/opd-ai/go-orbiter/pkg/metrics"
	"github.com/opd-ai/go-orbiter/pkg/save"
	"github.com/opd-ai/go-orbiter/pkg/world"
)

// GameContext holds the collaborators a scene works against. It replaces
// process-wide singletons: everything the scene touches is reachable from
// here and nothing else.
type GameContext struct {
	Config   *config.GameConfig
	Registry *world.Registry
	Camera   *camera.Camera
	Store    save.Store
	Logger   *logging.Logger
	Metrics  *metrics.SimCollector // may be nil
	Events   *event.Bus
}

// NewGameContext generates the world for cfg.Seed and wires a camera over
// it. A nil logger discards output, a nil bus gets a fresh one.
func NewGameContext(ctx context.Context, cfg *config.GameConfig, store save.Store, logger *logging.Logger, collector *metrics.SimCollector, bus *event.Bus) (*GameContext, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalidConfig)
	}
	if store == nil {
		return nil, fmt.Errorf("game context: nil save store")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if bus == nil {
		bus = event.NewEventBus()
	}

	registry, err := world.Generate(ctx, cfg.World, world.NewRand(cfg.Seed), logger.Component("world"))
	if err != nil {
		return nil, logging.WrapError(err, "generate world")
	}

	return &GameContext{
		Config:   cfg,
		Registry: registry,
		Camera:   camera.New(cfg.CameraSettings(), nil),
		Store:    store,
		Logger:   logger,
		Metrics:  collector,
		Events:   bus,
	}, nil
}
