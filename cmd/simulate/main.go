// cmd/simulate/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/opd-ai/go-orbiter/pkg/config"
	"github.com/opd-ai/go-orbiter/pkg/engine"
	"github.com/opd-ai/go-orbiter/pkg/event"
	"github.com/opd-ai/go-orbiter/pkg/health"
	"github.com/opd-ai/go-orbiter/pkg/logging"
	"github.com/opd-ai/go-orbiter/pkg/metrics"
	"github.com/opd-ai/go-orbiter/pkg/render"
	"github.com/opd-ai/go-orbiter/pkg/save"
)

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithCorrelationID(context.Background(), logging.GenerateCorrelationID())

	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	ticks := flag.Uint64("ticks", 0, "Run this many ticks as fast as possible and exit (0 runs in real time until interrupted)")
	stall := flag.Duration("stall", 5*time.Second, "Report not ready when the scene has not ticked for this long")
	memLimit := flag.Int64("mem-limit", 500, "Heap limit in MB for the readiness check")
	flag.Parse()

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	gameConfig, err := loadConfig(ctx, logger, *configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
		)
		os.Exit(1)
	}

	fileStore, err := save.NewFileStore(gameConfig.Runtime.SaveDir)
	if err != nil {
		logger.Error(ctx, "Failed to open save directory", err,
			"save_dir", gameConfig.Runtime.SaveDir,
		)
		os.Exit(1)
	}
	store := save.NewBreakerStore(fileStore, gameConfig.BreakerSettings(), logger)

	registry := prometheus.NewRegistry()
	collector, err := metrics.NewSimCollector(registry)
	if err != nil {
		logger.Error(ctx, "Failed to register metrics", err)
		os.Exit(1)
	}

	bus := event.NewEventBus()
	bus.Subscribe(event.All, func(e event.Event) {
		logger.Info(ctx, "Scene event", "type", string(e.GetType()))
	})

	game, err := engine.NewGameContext(ctx, gameConfig, store, logger, collector, bus)
	if err != nil {
		logger.Error(ctx, "Failed to build game context", err)
		os.Exit(1)
	}
	scene := engine.NewSpaceScene(game)
	if err := scene.Enter(ctx); err != nil {
		logger.Error(ctx, "Failed to enter scene", err,
			"save_dir", fileStore.Dir(),
		)
		os.Exit(1)
	}

	if *ticks > 0 {
		runBatch(ctx, logger, scene, *ticks)
		exitScene(ctx, logger, scene)
		return
	}

	healthChecker := health.NewHealthChecker()
	healthChecker.AddCheck(health.NewSceneHealthCheck(scene.Entered, scene.Tick, *stall))
	healthChecker.AddCheck(health.NewStoreHealthCheck(store))
	healthChecker.AddCheck(health.NewMemoryHealthCheck(*memLimit, nil))

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("/health/live", healthChecker.LivenessHandler)
	mux.HandleFunc("/health/ready", healthChecker.ReadinessHandler)

	httpServer := &http.Server{
		Addr:         gameConfig.Runtime.MetricsAddr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info(ctx, "Starting metrics and health server",
			"address", httpServer.Addr,
			"checks", healthChecker.Names(),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "Metrics server failed", err)
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	runRealtime(sigCtx, logger, scene, gameConfig.TickRate)

	logger.Info(ctx, "Shutting down simulator")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Metrics server shutdown failed", err)
	}
	exitScene(ctx, logger, scene)
}

func loadConfig(ctx context.Context, logger *logging.Logger, path string) (*config.GameConfig, error) {
	var gameConfig *config.GameConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		gameConfig = config.DefaultConfig()
	} else {
		gameConfig, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}
	if err := config.ApplyEnvironmentOverrides(gameConfig); err != nil {
		return nil, err
	}
	return gameConfig, gameConfig.Validate()
}

// runBatch steps the scene n base ticks without waiting.
func runBatch(ctx context.Context, logger *logging.Logger, scene *engine.SpaceScene, n uint64) {
	nullRenderer := render.NewNullRenderer(logger)
	start := time.Now()
	for i := uint64(0); i < n; i++ {
		scene.Update(engine.BaseTick)
		render.DrawFrame(nullRenderer, scene)
	}
	logger.Info(ctx, "Batch run finished",
		"ticks", n,
		"elapsed", time.Since(start).String(),
	)
	logSnapshot(ctx, logger, scene)
}

// runRealtime steps the scene at tickRate until ctx is done.
func runRealtime(ctx context.Context, logger *logging.Logger, scene *engine.SpaceScene, tickRate int) {
	if tickRate <= 0 {
		tickRate = 60
	}
	nullRenderer := render.NewNullRenderer(logger)
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	status := time.NewTicker(10 * time.Second)
	defer status.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			scene.Update(now.Sub(last).Seconds())
			render.DrawFrame(nullRenderer, scene)
			last = now
		case <-status.C:
			logSnapshot(ctx, logger, scene)
		}
	}
}

func logSnapshot(ctx context.Context, logger *logging.Logger, scene *engine.SpaceScene) {
	for _, st := range scene.Snapshot() {
		logger.Info(ctx, "Ship state",
			"tick", scene.Tick(),
			"ship_id", st.ID,
			"name", st.Name,
			"active", st.Active,
			"phase", st.Phase.String(),
			"docked", st.Docked,
			"speed", st.Speed,
			"x", st.Position.X,
			"y", st.Position.Y,
		)
	}
}

func exitScene(ctx context.Context, logger *logging.Logger, scene *engine.SpaceScene) {
	if err := scene.Exit(ctx); err != nil {
		logger.Error(ctx, "Failed to save fleet", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Fleet saved")
}
