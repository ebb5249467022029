// cmd/orbiter/main.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/EngoEngine/engo"
	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-orbiter/pkg/config"
	"github.com/opd-ai/go-orbiter/pkg/engine"
	"github.com/opd-ai/go-orbiter/pkg/event"
	"github.com/opd-ai/go-orbiter/pkg/logging"
	"github.com/opd-ai/go-orbiter/pkg/render"
	engorender "github.com/opd-ai/go-orbiter/pkg/render/engo"
	"github.com/opd-ai/go-orbiter/pkg/save"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	renderer := flag.String("renderer", "", "Renderer type: 'engo' or 'terminal' (overrides config)")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode (Engo only)")
	width := flag.Int("width", 0, "Window width (Engo only, defaults to the camera viewport)")
	height := flag.Int("height", 0, "Window height (Engo only, defaults to the camera viewport)")
	logPath := flag.String("log", "orbiter.log", "Log file (the terminal renderer owns stdout)")
	flag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logging.NewLogger().Error(context.Background(), "Failed to open log file", err, "log_path", *logPath)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := logging.NewLoggerWithWriter(logFile, logging.LevelFromEnv())
	ctx := logging.WithCorrelationID(context.Background(), logging.GenerateCorrelationID())

	// Load configuration
	var gameConfig *config.GameConfig
	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", *configPath,
		)
		gameConfig = config.DefaultConfig()
	} else {
		gameConfig, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
			os.Exit(1)
		}
	}
	if err := config.ApplyEnvironmentOverrides(gameConfig); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}
	if err := gameConfig.Validate(); err != nil {
		logger.Error(ctx, "Invalid configuration", err)
		os.Exit(1)
	}
	if *renderer != "" {
		gameConfig.Runtime.Renderer = *renderer
	}

	fileStore, err := save.NewFileStore(gameConfig.Runtime.SaveDir)
	if err != nil {
		logger.Error(ctx, "Failed to open save directory", err, "save_dir", gameConfig.Runtime.SaveDir)
		os.Exit(1)
	}
	store := save.NewBreakerStore(fileStore, gameConfig.BreakerSettings(), logger)

	bus := event.NewEventBus()
	bus.Subscribe(event.All, func(e event.Event) {
		logger.Info(ctx, "Scene event", "type", string(e.GetType()))
	})

	game, err := engine.NewGameContext(ctx, gameConfig, store, logger, nil, bus)
	if err != nil {
		logger.Error(ctx, "Failed to build game context", err)
		os.Exit(1)
	}
	scene := engine.NewSpaceScene(game)
	if err := scene.Enter(ctx); err != nil {
		logger.Error(ctx, "Failed to enter scene", err, "save_dir", fileStore.Dir())
		os.Exit(1)
	}

	switch gameConfig.Runtime.Renderer {
	case "terminal":
		startTerminalRenderer(ctx, logger, scene, gameConfig.TickRate)
	case "engo":
		fallthrough
	default:
		startEngoRenderer(ctx, scene, gameConfig, *width, *height, *fullscreen)
	}
}

// startEngoRenderer opens the window; the engo scene saves the fleet when
// the window closes.
func startEngoRenderer(ctx context.Context, scene *engine.SpaceScene, cfg *config.GameConfig, width, height int, fullscreen bool) {
	if width <= 0 {
		width = int(cfg.Camera.ViewportWidth)
	}
	if height <= 0 {
		height = int(cfg.Camera.ViewportHeight)
	}
	engorender.Run(ctx, scene, engo.RunOptions{
		Title:      "Go Orbiter",
		Width:      width,
		Height:     height,
		Fullscreen: fullscreen,
		VSync:      true,
	})
}

// startTerminalRenderer runs the tcell client until the user quits or the
// process is signalled, then saves the fleet.
func startTerminalRenderer(ctx context.Context, logger *logging.Logger, scene *engine.SpaceScene, tickRate int) {
	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Error(ctx, "Failed to create terminal screen", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		logger.Error(ctx, "Failed to initialise terminal screen", err)
		os.Exit(1)
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	render.NewTerminalClient(screen, scene, logger).Run(sigCtx, tickRate)
	stop()
	screen.Fini()

	if err := scene.Exit(ctx); err != nil {
		logger.Error(ctx, "Failed to save fleet", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Fleet saved")
}
