package config

import (
	"errors"
	"testing"
)

func TestApplyEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvSeed, "12345")
	t.Setenv(EnvSaveDir, "/tmp/orbiter-saves")
	t.Setenv(EnvMetricsAddr, "127.0.0.1:9999")
	t.Setenv(EnvRenderer, "terminal")
	t.Setenv(EnvTickRate, "30")

	cfg := DefaultConfig()
	if err := ApplyEnvironmentOverrides(cfg); err != nil {
		t.Fatalf("ApplyEnvironmentOverrides failed: %v", err)
	}

	if cfg.Seed != 12345 {
		t.Errorf("Seed = %d, want 12345", cfg.Seed)
	}
	if cfg.Runtime.SaveDir != "/tmp/orbiter-saves" {
		t.Errorf("SaveDir = %q", cfg.Runtime.SaveDir)
	}
	if cfg.Runtime.MetricsAddr != "127.0.0.1:9999" {
		t.Errorf("MetricsAddr = %q", cfg.Runtime.MetricsAddr)
	}
	if cfg.Runtime.Renderer != "terminal" {
		t.Errorf("Renderer = %q", cfg.Runtime.Renderer)
	}
	if cfg.TickRate != 30 {
		t.Errorf("TickRate = %d, want 30", cfg.TickRate)
	}
}

func TestApplyEnvironmentOverridesKeepsValuesWhenUnset(t *testing.T) {
	t.Setenv(EnvSeed, "")
	t.Setenv(EnvSaveDir, "")
	t.Setenv(EnvTickRate, "not-a-number")

	cfg := DefaultConfig()
	want := *DefaultConfig()
	if err := ApplyEnvironmentOverrides(cfg); err != nil {
		t.Fatalf("ApplyEnvironmentOverrides failed: %v", err)
	}
	if cfg.Seed != want.Seed || cfg.Runtime.SaveDir != want.Runtime.SaveDir || cfg.TickRate != want.TickRate {
		t.Errorf("values changed: seed=%d saveDir=%q tickRate=%d", cfg.Seed, cfg.Runtime.SaveDir, cfg.TickRate)
	}
}

func TestApplyEnvironmentOverridesBadSeed(t *testing.T) {
	t.Setenv(EnvSeed, "-3")
	cfg := DefaultConfig()
	if err := ApplyEnvironmentOverrides(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("ORBITER_TEST_STRING", "value")
	t.Setenv("ORBITER_TEST_INT", "17")
	t.Setenv("ORBITER_TEST_BAD_INT", "x")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string set", getEnvOrDefault("ORBITER_TEST_STRING", "def"), "value"},
		{"string unset", getEnvOrDefault("ORBITER_TEST_MISSING", "def"), "def"},
		{"int set", getEnvAsIntOrDefault("ORBITER_TEST_INT", 1), 17},
		{"int malformed", getEnvAsIntOrDefault("ORBITER_TEST_BAD_INT", 1), 1},
		{"int unset", getEnvAsIntOrDefault("ORBITER_TEST_MISSING", 5), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}
