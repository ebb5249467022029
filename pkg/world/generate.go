// pkg/world/generate.go
package world

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/logging"
	"github.com/opd-ai/go-orbiter/pkg/physics"
)

// PlanetType is one entry of the planet catalogue.
type PlanetType struct {
	Name      string   `json:"name"`
	MinRadius float64  `json:"minRadius"`
	MaxRadius float64  `json:"maxRadius"`
	Images    []string `json:"images,omitempty"`
}

// DockSpec places a dock at a fixed world position.
type DockSpec struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// GenerationConfig controls world generation.
type GenerationConfig struct {
	Width            float64      `json:"worldWidth"`
	Height           float64      `json:"worldHeight"`
	PlanetCount      int          `json:"planetCount"`
	TypeCatalogue    []PlanetType `json:"typeCatalogue"`
	MinSpacing       float64      `json:"minSpacing"`
	DockSafeDistance float64      `json:"dockSafeDistance"`
	MaxAttempts      int          `json:"maxAttempts"`
	Docks            []DockSpec   `json:"docks"`
}

// ErrInvalidGeneration is returned for configurations that cannot produce a
// world at all. A short planet count is not an error.
var ErrInvalidGeneration = errors.New("invalid world generation config")

// NewRand returns the deterministic generator used for world generation.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (c GenerationConfig) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: world size %gx%g", ErrInvalidGeneration, c.Width, c.Height)
	}
	if c.PlanetCount > 0 && len(c.TypeCatalogue) == 0 {
		return fmt.Errorf("%w: empty planet type catalogue", ErrInvalidGeneration)
	}
	for _, t := range c.TypeCatalogue {
		if t.MinRadius <= 0 || t.MaxRadius < t.MinRadius {
			return fmt.Errorf("%w: planet type %q radius band [%g, %g]",
				ErrInvalidGeneration, t.Name, t.MinRadius, t.MaxRadius)
		}
	}
	return nil
}

// Generate builds a registry: docks are placed from their specs, then
// planets are scattered by rejection sampling. A candidate is rejected when
// it overlaps another planet's safe zone (r1 + r2 + MinSpacing) or comes
// within DockSafeDistance + r of a dock. Each planet gets MaxAttempts tries;
// whatever could not be placed is reported with a warning.
func Generate(ctx context.Context, cfg GenerationConfig, rng *rand.Rand, logger *logging.Logger) (*Registry, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	ids := entity.NewIDSource(1)
	bounds := physics.Bounds{Width: cfg.Width, Height: cfg.Height}

	docks := make([]*entity.Dock, 0, len(cfg.Docks))
	for _, dc := range cfg.Docks {
		pos, _, _ := bounds.Clamp(physics.Vector2D{X: dc.X, Y: dc.Y})
		docks = append(docks, entity.NewDock(ids.Next(), dc.Name, dc.Type, pos, dc.Width, dc.Height))
	}

	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 100
	}

	planets := make([]*entity.Planet, 0, cfg.PlanetCount)
	counts := make(map[string]int)
	for i := 0; i < cfg.PlanetCount; i++ {
		pt := cfg.TypeCatalogue[rng.IntN(len(cfg.TypeCatalogue))]
		placed := false
		for a := 0; a < attempts && !placed; a++ {
			radius := pt.MinRadius + rng.Float64()*(pt.MaxRadius-pt.MinRadius)
			if 2*radius >= cfg.Width || 2*radius >= cfg.Height {
				continue
			}
			pos := physics.Vector2D{
				X: radius + rng.Float64()*(cfg.Width-2*radius),
				Y: radius + rng.Float64()*(cfg.Height-2*radius),
			}
			if !clearOf(pos, radius, planets, docks, cfg) {
				continue
			}

			counts[pt.Name]++
			name := fmt.Sprintf("%s %d", pt.Name, counts[pt.Name])
			p := entity.NewPlanet(ids.Next(), name, pt.Name, pos, radius)
			if len(pt.Images) > 0 {
				p.Image = pt.Images[rng.IntN(len(pt.Images))]
			}
			planets = append(planets, p)
			placed = true
		}
	}

	if len(planets) < cfg.PlanetCount {
		logger.Warn(ctx, "world generation placed fewer planets than requested",
			"requested", cfg.PlanetCount,
			"placed", len(planets),
			"max_attempts", attempts)
	} else {
		logger.Debug(ctx, "world generated", "planets", len(planets), "docks", len(docks))
	}

	return NewRegistry(bounds, planets, docks), nil
}

func clearOf(pos physics.Vector2D, radius float64, planets []*entity.Planet, docks []*entity.Dock, cfg GenerationConfig) bool {
	for _, p := range planets {
		if pos.Distance(p.Position) < p.Radius+radius+cfg.MinSpacing {
			return false
		}
	}
	for _, d := range docks {
		if pos.Distance(d.Position) < cfg.DockSafeDistance+radius {
			return false
		}
	}
	return true
}
