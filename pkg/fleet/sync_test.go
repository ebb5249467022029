package fleet

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/logging"
	"github.com/opd-ai/go-orbiter/pkg/orbit"
	"github.com/opd-ai/go-orbiter/pkg/physics"
	"github.com/opd-ai/go-orbiter/pkg/save"
	"github.com/opd-ai/go-orbiter/pkg/world"
)

const tol = 1e-9

var courier = entity.ShipType{
	ID: "courier", Name: "Courier", Width: 30, Height: 20,
	Stats: entity.ShipStats{ThrustPower: 0.1, RotationSpeed: 0.05, MaxSpeed: 12, MaxHealth: 100},
}

func testWorld() *world.Registry {
	return world.NewRegistry(
		physics.Bounds{Width: 20000, Height: 20000},
		[]*entity.Planet{entity.NewPlanet(2, "Gaia", "terran", physics.Vector2D{X: 10000, Y: 10000}, 2000)},
		[]*entity.Dock{entity.NewDock(1, "Haven", "station", physics.Vector2D{X: 3000, Y: 3000}, 200, 100)},
	)
}

func closeTo(a, b float64) bool { return math.Abs(a-b) <= tol }

func vecClose(a, b physics.Vector2D) bool {
	return math.Abs(a.X-b.X) <= 1e-6 && math.Abs(a.Y-b.Y) <= 1e-6
}

func roundTrip(t *testing.T, syncer *Syncer, ship *entity.Ship) *entity.Ship {
	t.Helper()
	ctx := context.Background()
	repo := NewRepository(save.NewMemoryStore())
	if err := repo.SaveShip(ctx, syncer.Record(ship)); err != nil {
		t.Fatalf("SaveShip() error = %v", err)
	}
	rec, err := repo.LoadShip(ctx, uint64(ship.ID))
	if err != nil {
		t.Fatalf("LoadShip() error = %v", err)
	}
	restored := BuildShip(rec, courier)
	syncer.ApplyLocation(ctx, restored, rec.Location)
	return restored
}

func TestRoundTrip_Docked(t *testing.T) {
	reg := testWorld()
	syncer := NewSyncer(reg, orbit.NewController(orbit.DefaultTuning()), nil)

	ship := entity.NewShip(5, courier, physics.Vector2D{X: 3000, Y: 3000})
	ship.Docked, ship.DockID, ship.Rotation = true, 1, 0.75

	got := roundTrip(t, syncer, ship)
	if !got.Docked || got.DockID != 1 {
		t.Errorf("Docked=%v DockID=%d, want docked at 1", got.Docked, got.DockID)
	}
	if got.Position != ship.Position || got.Velocity != (physics.Vector2D{}) || !closeTo(got.Rotation, 0.75) {
		t.Errorf("restored pos=%v vel=%v rot=%v", got.Position, got.Velocity, got.Rotation)
	}
}

func TestRoundTrip_InSpace(t *testing.T) {
	reg := testWorld()
	syncer := NewSyncer(reg, orbit.NewController(orbit.DefaultTuning()), nil)

	ship := entity.NewShip(6, courier, physics.Vector2D{X: 1234.5, Y: 876.25})
	ship.Velocity = physics.Vector2D{X: 1.5, Y: -0.25}
	ship.Rotation = -2.5
	ship.Health = 42
	ship.Consumables["fuel"] = 0.5

	got := roundTrip(t, syncer, ship)
	if got.Position != ship.Position || got.Velocity != ship.Velocity || got.Rotation != ship.Rotation {
		t.Errorf("restored pos=%v vel=%v rot=%v, want %v %v %v",
			got.Position, got.Velocity, got.Rotation, ship.Position, ship.Velocity, ship.Rotation)
	}
	if got.Docked || got.Orbit.Phase != entity.OrbitFree {
		t.Errorf("restored docked=%v phase=%s", got.Docked, got.Orbit.Phase)
	}
	if got.Health != 42 || got.Consumables["fuel"] != 0.5 {
		t.Errorf("restored health=%v consumables=%v", got.Health, got.Consumables)
	}
}

func TestRoundTrip_InOrbit(t *testing.T) {
	reg := testWorld()
	ctl := orbit.NewController(orbit.DefaultTuning())
	syncer := NewSyncer(reg, ctl, nil)
	planet, _ := reg.PlanetByName("Gaia")

	ship := entity.NewShip(7, courier, physics.Vector2D{})
	ctl.Restore(ship, planet, 2450, 0.3, 3.5, entity.Clockwise)
	for i := 0; i < 37; i++ {
		ctl.Step(ship, reg, 1)
	}

	got := roundTrip(t, syncer, ship)
	if !got.Orbit.IsLocked() || got.Orbit.Planet != planet.ID {
		t.Fatalf("restored phase=%s planet=%d", got.Orbit.Phase, got.Orbit.Planet)
	}
	if !closeTo(got.Orbit.Radius, ship.Orbit.Radius) || !closeTo(got.Orbit.Angle, ship.Orbit.Angle) ||
		!closeTo(got.Orbit.LockedSpeed, ship.Orbit.LockedSpeed) || got.Orbit.Direction != ship.Orbit.Direction {
		t.Errorf("restored orbit %+v, want %+v", got.Orbit, ship.Orbit)
	}
	if !vecClose(got.Position, ship.Position) || !vecClose(got.Velocity, ship.Velocity) || !closeTo(got.Rotation, ship.Rotation) {
		t.Errorf("restored pos=%v vel=%v rot=%v, want %v %v %v",
			got.Position, got.Velocity, got.Rotation, ship.Position, ship.Velocity, ship.Rotation)
	}
	if got.Orbit.Progress != 1 {
		t.Errorf("Progress = %v, want 1", got.Orbit.Progress)
	}
}

func TestToLocation_Approaching(t *testing.T) {
	reg := testWorld()
	ctl := orbit.NewController(orbit.DefaultTuning())
	syncer := NewSyncer(reg, ctl, nil)

	ship := entity.NewShip(8, courier, physics.Vector2D{X: 12600, Y: 10000})
	ship.Velocity = physics.Vector2D{X: -3.5}
	if tr := ctl.Step(ship, reg, 1); tr != orbit.Captured {
		t.Fatalf("Step() = %s, want captured", tr)
	}

	loc, ok := syncer.ToLocation(ship).(save.InSpace)
	if !ok {
		t.Fatalf("ToLocation() = %T, want InSpace", syncer.ToLocation(ship))
	}
	if loc.VX != -3.5 || loc.VY != 0 {
		t.Errorf("saved velocity = %v,%v, want approach velocity", loc.VX, loc.VY)
	}
}

func TestApplyLocation_StaleState(t *testing.T) {
	tests := []struct {
		name       string
		loc        save.Location
		wantWarn   string
		wantPos    physics.Vector2D
		wantLocked bool
		wantRadius float64
	}{
		{
			name:     "missing_planet",
			loc:      save.InOrbit{Planet: "Atlantis", Radius: 100, Direction: 1, LockedSpeed: 3},
			wantWarn: "planet missing",
			wantPos:  physics.Vector2D{X: 3000, Y: 3100},
		},
		{
			name:     "missing_dock",
			loc:      save.Docked{Dock: "Gone"},
			wantWarn: "dock missing",
			wantPos:  physics.Vector2D{X: 3000, Y: 3100},
		},
		{
			name:     "outside_world",
			loc:      save.InSpace{X: 25000, Y: 50},
			wantWarn: "outside world",
			wantPos:  physics.Vector2D{X: 20000, Y: 50},
		},
		{
			name:     "nan_position",
			loc:      save.InSpace{X: math.NaN(), Y: 50},
			wantWarn: "position invalid",
			wantPos:  physics.Vector2D{X: 3000, Y: 3100},
		},
		{
			name:       "radius_out_of_band",
			loc:        save.InOrbit{Planet: "Gaia", Radius: 99999, Angle: 0, LockedSpeed: 3, Direction: 1},
			wantWarn:   "radius out of range",
			wantPos:    physics.Vector2D{X: 12400, Y: 10000},
			wantLocked: true,
			wantRadius: 2400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logging.NewLoggerWithWriter(&buf, slog.LevelDebug)
			syncer := NewSyncer(testWorld(), orbit.NewController(orbit.DefaultTuning()), logger)

			ship := entity.NewShip(9, courier, physics.Vector2D{})
			syncer.ApplyLocation(context.Background(), ship, tt.loc)

			if !strings.Contains(buf.String(), tt.wantWarn) || !strings.Contains(buf.String(), `"level":"WARN"`) {
				t.Errorf("log %q does not warn about %q", buf.String(), tt.wantWarn)
			}
			if !vecClose(ship.Position, tt.wantPos) {
				t.Errorf("Position = %v, want %v", ship.Position, tt.wantPos)
			}
			if ship.Orbit.IsLocked() != tt.wantLocked {
				t.Errorf("locked = %v, want %v", ship.Orbit.IsLocked(), tt.wantLocked)
			}
			if tt.wantLocked && !closeTo(ship.Orbit.Radius, tt.wantRadius) {
				t.Errorf("Radius = %v, want %v", ship.Orbit.Radius, tt.wantRadius)
			}
			if err := ship.Orbit.Valid(); err != nil {
				t.Errorf("orbit state invalid: %v", err)
			}
		})
	}
}

func TestBuildShipName(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   string
	}{
		{"stored name", "Kestrel", "Kestrel"},
		{"trimmed", "  Kestrel ", "Kestrel"},
		{"missing falls back to type", "", courier.Name},
		{"corrupt falls back to type", "Kes\x1btrel", courier.Name},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ship := BuildShip(save.ShipRecord{ID: 9, TypeID: courier.ID, Name: tt.stored, Health: 10}, courier)
			if ship.Name != tt.want {
				t.Errorf("Name = %q, want %q", ship.Name, tt.want)
			}
		})
	}
}
