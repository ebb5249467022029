// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/opd-ai/go-orbiter/pkg/camera"
	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/orbit"
	"github.com/opd-ai/go-orbiter/pkg/physics"
	"github.com/opd-ai/go-orbiter/pkg/save"
	"github.com/opd-ai/go-orbiter/pkg/validation"
	"github.com/opd-ai/go-orbiter/pkg/world"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// GameConfig contains everything needed to build a space scene
type GameConfig struct {
	Seed         uint64                 `json:"seed"`
	TickRate     int                    `json:"tickRate"`
	World        world.GenerationConfig `json:"world"`
	Orbit        orbit.Tuning           `json:"orbit"`
	Docking      DockingConfig          `json:"docking"`
	Camera       CameraConfig           `json:"camera"`
	Particles    ParticleConfig         `json:"particles"`
	Ships        []ShipConfig           `json:"ships"`
	StarterFleet []StarterShip          `json:"starterFleet"`
	Waypoints    []WaypointConfig       `json:"waypoints"`
	Runtime      RuntimeConfig          `json:"runtime"`
}

// DockingConfig gates when the active ship docks
type DockingConfig struct {
	MinSpeed float64 `json:"minSpeed"`
	MaxSpeed float64 `json:"maxSpeed"`
	Radius   float64 `json:"radius"`
}

// CameraConfig contains camera smoothing and zoom limits
type CameraConfig struct {
	FollowSmoothing float64 `json:"followSmoothing"`
	ZoomSmoothing   float64 `json:"zoomSmoothing"`
	MinZoom         float64 `json:"minZoom"`
	MaxZoom         float64 `json:"maxZoom"`
	DefaultZoom     float64 `json:"defaultZoom"`
	OrbitZoom       float64 `json:"orbitZoom"`
	ZoomStep        float64 `json:"zoomStep"`
	ViewportWidth   float64 `json:"viewportWidth"`
	ViewportHeight  float64 `json:"viewportHeight"`
}

// ParticleConfig bounds the thruster particle pool
type ParticleConfig struct {
	MaxParticles int     `json:"maxParticles"`
	Lifetime     float64 `json:"lifetime"` // seconds
	Speed        float64 `json:"speed"`
}

// ShipConfig is one entry of the ship catalogue
type ShipConfig struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Image         string  `json:"image,omitempty"`
	ThrustPower   float64 `json:"thrustPower"`
	RotationSpeed float64 `json:"rotationSpeed"`
	MaxSpeed      float64 `json:"maxSpeed"`
	MaxHealth     float64 `json:"maxHealth"`
}

// StarterShip seeds an empty save with a ship docked at a named dock
type StarterShip struct {
	ID     uint64 `json:"id"`
	Type   string `json:"type"`
	Name   string `json:"name"`
	Dock   string `json:"dock"`
	Active bool   `json:"active"`
}

// WaypointConfig is a navigation target. A waypoint with a planet name is
// reached by locking into orbit around that planet.
type WaypointConfig struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Planet string  `json:"planet,omitempty"`
}

// RuntimeConfig selects where the binaries keep state and serve metrics
type RuntimeConfig struct {
	SaveDir     string      `json:"saveDir"`
	MetricsAddr string      `json:"metricsAddr"`
	Renderer    string      `json:"renderer"`
	Store       StoreConfig `json:"store"`
}

// StoreConfig tunes the circuit breaker in front of the save directory.
type StoreConfig struct {
	MaxConsecutiveFails uint32 `json:"maxConsecutiveFails"`
	OpenSeconds         int    `json:"openSeconds"`
	Retries             int    `json:"retries"`
	RetryDelayMillis    int    `json:"retryDelayMillis"`
}

// ShipType converts a catalogue entry.
func (s ShipConfig) ShipType() entity.ShipType {
	return entity.ShipType{
		ID:     s.ID,
		Name:   s.Name,
		Width:  s.Width,
		Height: s.Height,
		Image:  s.Image,
		Stats: entity.ShipStats{
			ThrustPower:   s.ThrustPower,
			RotationSpeed: s.RotationSpeed,
			MaxSpeed:      s.MaxSpeed,
			MaxHealth:     s.MaxHealth,
		},
	}
}

// Catalogue indexes the ship catalogue by type id.
func (c *GameConfig) Catalogue() map[string]entity.ShipType {
	out := make(map[string]entity.ShipType, len(c.Ships))
	for _, s := range c.Ships {
		out[s.ID] = s.ShipType()
	}
	return out
}

// Bounds returns the world box.
func (c *GameConfig) Bounds() physics.Bounds {
	return physics.Bounds{Width: c.World.Width, Height: c.World.Height}
}

// CameraSettings builds camera settings for the configured world.
func (c *GameConfig) CameraSettings() camera.Settings {
	cc := c.Camera
	return camera.Settings{
		FollowSmoothing: cc.FollowSmoothing,
		ZoomSmoothing:   cc.ZoomSmoothing,
		MinZoom:         cc.MinZoom,
		MaxZoom:         cc.MaxZoom,
		DefaultZoom:     cc.DefaultZoom,
		OrbitZoom:       cc.OrbitZoom,
		ZoomStep:        cc.ZoomStep,
		ViewportWidth:   cc.ViewportWidth,
		ViewportHeight:  cc.ViewportHeight,
		World:           c.Bounds(),
	}
}

// BreakerSettings converts the store section for save.NewBreakerStore.
func (c *GameConfig) BreakerSettings() save.BreakerSettings {
	sc := c.Runtime.Store
	return save.BreakerSettings{
		MaxConsecutiveFails: sc.MaxConsecutiveFails,
		OpenTimeout:         time.Duration(sc.OpenSeconds) * time.Second,
		Retries:             sc.Retries,
		RetryDelay:          time.Duration(sc.RetryDelayMillis) * time.Millisecond,
	}
}

// LoadConfig loads a configuration from a file. Fields missing from the
// file keep their DefaultConfig values.
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	if config == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns a default game configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Seed:     1,
		TickRate: 60,
		World: world.GenerationConfig{
			Width:       60000,
			Height:      60000,
			PlanetCount: 12,
			TypeCatalogue: []world.PlanetType{
				{Name: "Terran", MinRadius: 900, MaxRadius: 1600, Images: []string{"planet_terran"}},
				{Name: "Desert", MinRadius: 700, MaxRadius: 1300, Images: []string{"planet_desert"}},
				{Name: "Ice", MinRadius: 600, MaxRadius: 1100, Images: []string{"planet_ice"}},
				{Name: "Gas Giant", MinRadius: 1800, MaxRadius: 2600, Images: []string{"planet_gas"}},
			},
			MinSpacing:       1500,
			DockSafeDistance: 4000,
			MaxAttempts:      200,
			Docks: []world.DockSpec{
				{Name: "Haven Station", Type: "station", X: 30000, Y: 30000, Width: 240, Height: 160},
			},
		},
		Orbit: orbit.DefaultTuning(),
		Docking: DockingConfig{
			MinSpeed: 0.1,
			MaxSpeed: 1.0,
			Radius:   150,
		},
		Camera: CameraConfig{
			FollowSmoothing: 0.1,
			ZoomSmoothing:   0.05,
			MinZoom:         0.05,
			MaxZoom:         2.0,
			DefaultZoom:     1.0,
			OrbitZoom:       0.25,
			ZoomStep:        0.1,
			ViewportWidth:   1280,
			ViewportHeight:  720,
		},
		Particles: ParticleConfig{
			MaxParticles: 256,
			Lifetime:     0.75,
			Speed:        2,
		},
		Ships: []ShipConfig{
			{ID: "courier", Name: "Courier", Width: 32, Height: 20, Image: "ship_courier",
				ThrustPower: 0.05, RotationSpeed: 0.06, MaxSpeed: 12, MaxHealth: 100},
			{ID: "hauler", Name: "Hauler", Width: 56, Height: 34, Image: "ship_hauler",
				ThrustPower: 0.03, RotationSpeed: 0.035, MaxSpeed: 8, MaxHealth: 250},
		},
		StarterFleet: []StarterShip{
			{ID: 1, Type: "courier", Name: "Kestrel", Dock: "Haven Station", Active: true},
			{ID: 2, Type: "hauler", Name: "Mule", Dock: "Haven Station"},
		},
		Runtime: RuntimeConfig{
			SaveDir:     "saves",
			MetricsAddr: ":9100",
			Renderer:    "engo",
			Store: StoreConfig{
				MaxConsecutiveFails: 5,
				OpenSeconds:         30,
				Retries:             3,
				RetryDelayMillis:    200,
			},
		},
	}
}

// Validate checks the configuration for values the simulation cannot run
// with. All problems are reported together.
func (c *GameConfig) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.TickRate <= 0 {
		bad("tickRate must be positive, got %d", c.TickRate)
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		bad("world size must be positive, got %gx%g", c.World.Width, c.World.Height)
	}
	if c.World.PlanetCount < 0 {
		bad("planetCount must not be negative")
	}
	if c.World.PlanetCount > 0 && len(c.World.TypeCatalogue) == 0 {
		bad("typeCatalogue is empty")
	}

	o := c.Orbit
	if o.MinOrbitSpeed <= 0 || o.MaxOrbitSpeed <= o.MinOrbitSpeed {
		bad("orbit speeds must satisfy 0 < min < max, got %g, %g", o.MinOrbitSpeed, o.MaxOrbitSpeed)
	}
	if o.MinMultiplier <= 1 || o.DefaultMultiplier < o.MinMultiplier || o.MaxMultiplier < o.DefaultMultiplier {
		bad("orbit multipliers must satisfy 1 < min <= default <= max, got %g, %g, %g",
			o.MinMultiplier, o.DefaultMultiplier, o.MaxMultiplier)
	}
	if o.AbsoluteMaxRadius > 0 && o.AbsoluteMaxRadius < o.AbsoluteMinRadius {
		bad("orbit absolute radius bounds inverted")
	}
	if o.CaptureTolerance <= 0 || o.SpeedStep <= 0 || o.TransitionStep <= 0 {
		bad("orbit captureTolerance, speedStep and transitionStep must be positive")
	}

	if c.Docking.MinSpeed < 0 || c.Docking.MaxSpeed <= c.Docking.MinSpeed || c.Docking.Radius <= 0 {
		bad("docking must satisfy 0 <= minSpeed < maxSpeed and radius > 0")
	}

	cc := c.Camera
	if cc.MinZoom <= 0 || cc.MaxZoom < cc.MinZoom ||
		cc.DefaultZoom < cc.MinZoom || cc.DefaultZoom > cc.MaxZoom {
		bad("camera zoom must satisfy 0 < minZoom <= defaultZoom <= maxZoom")
	}
	if cc.FollowSmoothing <= 0 || cc.FollowSmoothing > 1 || cc.ZoomSmoothing <= 0 || cc.ZoomSmoothing > 1 {
		bad("camera smoothing factors must be in (0, 1]")
	}

	types := make(map[string]bool, len(c.Ships))
	for _, s := range c.Ships {
		if s.ID == "" {
			bad("ship type without id")
			continue
		}
		if types[s.ID] {
			bad("duplicate ship type %q", s.ID)
		}
		types[s.ID] = true
		if s.ThrustPower <= 0 || s.MaxSpeed <= 0 || s.MaxHealth <= 0 {
			bad("ship type %q needs positive thrustPower, maxSpeed and maxHealth", s.ID)
		}
	}

	docks := make(map[string]bool, len(c.World.Docks))
	for _, d := range c.World.Docks {
		docks[d.Name] = true
	}
	active := 0
	ids := make(map[uint64]bool)
	for _, s := range c.StarterFleet {
		if s.ID == 0 || ids[s.ID] {
			bad("starter ship ids must be unique and non-zero, got %d", s.ID)
		}
		ids[s.ID] = true
		if !types[s.Type] {
			bad("starter ship %d has unknown type %q", s.ID, s.Type)
		}
		if !docks[s.Dock] {
			bad("starter ship %d docks at unknown dock %q", s.ID, s.Dock)
		}
		if s.Name != "" {
			if _, err := validation.ValidateShipName(s.Name); err != nil {
				bad("starter ship %d: %v", s.ID, err)
			}
		}
		if s.Active {
			active++
		}
	}
	if len(c.StarterFleet) > 0 && active != 1 {
		bad("starter fleet needs exactly one active ship, got %d", active)
	}

	st := c.Runtime.Store
	if st.MaxConsecutiveFails == 0 || st.OpenSeconds <= 0 || st.Retries < 1 || st.RetryDelayMillis < 0 {
		bad("store breaker needs maxConsecutiveFails, openSeconds and retries of at least 1")
	}

	for _, w := range c.Waypoints {
		if w.Name == "" || (w.Planet == "" && w.Radius <= 0) {
			bad("waypoint %q needs a name and either a planet or a positive radius", w.Name)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
