package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables that override file configuration.
const (
	EnvSeed        = "ORBITER_SEED"
	EnvSaveDir     = "ORBITER_SAVE_DIR"
	EnvMetricsAddr = "ORBITER_METRICS_ADDR"
	EnvRenderer    = "ORBITER_RENDERER"
	EnvTickRate    = "ORBITER_TICK_RATE"
)

// ApplyEnvironmentOverrides applies ORBITER_* variables on top of config.
// A malformed seed is an error rather than silently ignored, since it would
// change the generated world.
func ApplyEnvironmentOverrides(config *GameConfig) error {
	if v, ok := os.LookupEnv(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvSeed, v, err)
		}
		config.Seed = seed
	}
	config.Runtime.SaveDir = getEnvOrDefault(EnvSaveDir, config.Runtime.SaveDir)
	config.Runtime.MetricsAddr = getEnvOrDefault(EnvMetricsAddr, config.Runtime.MetricsAddr)
	config.Runtime.Renderer = getEnvOrDefault(EnvRenderer, config.Runtime.Renderer)
	config.TickRate = getEnvAsIntOrDefault(EnvTickRate, config.TickRate)
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
