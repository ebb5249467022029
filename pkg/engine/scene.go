// pkg/engine/scene.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/opd-ai/go-orbiter/pkg/camera"
	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/event"
	"github.com/opd-ai/go-orbiter/pkg/fleet"
	"github.com/opd-ai/go-orbiter/pkg/logging"
	"github.com/opd-ai/go-orbiter/pkg/orbit"
	"github.com/opd-ai/go-orbiter/pkg/physics"
	"github.com/opd-ai/go-orbiter/pkg/save"
)

// BaseTick is the frame duration all per-tick tuning constants assume.
const BaseTick = 1.0 / 60.0

// maxDelta caps a single update so a stalled frame cannot tunnel ships.
const maxDelta = 0.1

var (
	// ErrUnknownShipType is returned by Enter when a saved ship's type is not
	// in the catalogue. The scene is not entered.
	ErrUnknownShipType = errors.New("unknown ship type")
	// ErrUnknownShip is returned when a ship id does not exist in the scene.
	ErrUnknownShip = errors.New("unknown ship")
	// ErrSceneNotActive is returned by operations that need an entered scene.
	ErrSceneNotActive = errors.New("scene not active")
)

// Steps converts an elapsed time in seconds into base ticks.
func Steps(dt float64) float64 {
	if math.IsNaN(dt) || dt <= 0 {
		return 0
	}
	return math.Min(dt, maxDelta) / BaseTick
}

// SpaceScene runs the active ship and the fleet through one shared world.
// Update order per frame: fleet ships, the active ship, docking, particles
// and camera, waypoints. Events raised during an update are published after
// the scene lock is released, so handlers may query the scene.
type SpaceScene struct {
	game      *GameContext
	orbits    *orbit.Controller
	syncer    *fleet.Syncer
	repo      *fleet.Repository
	catalogue map[string]entity.ShipType
	logger    *logging.Logger

	mu        sync.RWMutex
	entered   bool
	active    *entity.Ship
	fleet     []*entity.Ship
	parked    map[uint64]save.ShipRecord
	waypoints []*Waypoint
	particles *particlePool
	tick      uint64
}

// NewSpaceScene creates a scene over game. The scene drives game.Camera and
// becomes its position resolver.
func NewSpaceScene(game *GameContext) *SpaceScene {
	logger := game.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	ctl := orbit.NewController(game.Config.Orbit)
	s := &SpaceScene{
		game:      game,
		orbits:    ctl,
		syncer:    fleet.NewSyncer(game.Registry, ctl, logger),
		repo:      fleet.NewRepository(game.Store),
		catalogue: game.Config.Catalogue(),
		logger:    logger.Component("scene"),
		parked:    make(map[uint64]save.ShipRecord),
	}
	// Camera calls happen with s.mu held, so it gets the unlocked lookup.
	game.Camera.SetResolver(camera.ResolverFunc(s.lookup))
	return s
}

// Entered reports whether the scene is running.
func (s *SpaceScene) Entered() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entered
}

// Enter loads the fleet from the save store and starts simulating it. An
// empty store is seeded with the configured starter fleet. Entering an
// entered scene does nothing.
func (s *SpaceScene) Enter(ctx context.Context) error {
	s.mu.Lock()
	if s.entered {
		s.mu.Unlock()
		return nil
	}

	records, err := s.repo.LoadFleet(ctx)
	if err != nil {
		s.mu.Unlock()
		return logging.WrapError(err, "enter scene")
	}
	seeded := false
	if len(records) == 0 {
		records = s.starterRecords()
		seeded = len(records) > 0
	}
	if len(records) == 0 {
		s.mu.Unlock()
		return fmt.Errorf("enter scene: %w: fleet is empty", ErrUnknownShip)
	}
	slices.SortFunc(records, func(a, b save.ShipRecord) int {
		return cmpID(a.ID, b.ID)
	})
	for _, rec := range records {
		if _, ok := s.catalogue[rec.TypeID]; !ok {
			s.mu.Unlock()
			return fmt.Errorf("enter scene: %w %q for ship %d", ErrUnknownShipType, rec.TypeID, rec.ID)
		}
	}

	activeID, err := s.activeID(ctx, records, seeded)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if seeded {
		if err := s.repo.SaveAll(ctx, records); err != nil {
			s.mu.Unlock()
			return logging.WrapError(err, "seed starter fleet")
		}
		if err := s.repo.SetActiveShipID(ctx, activeID); err != nil {
			s.mu.Unlock()
			return logging.WrapError(err, "seed starter fleet")
		}
		s.logger.Info(ctx, "seeded starter fleet", "ships", len(records), "active_ship", activeID)
	}

	s.fleet = s.fleet[:0]
	clear(s.parked)
	for _, rec := range records {
		if rec.ID != activeID {
			if _, docked := rec.Location.(save.Docked); docked {
				s.parked[rec.ID] = rec
				continue
			}
		}
		ship := s.spawn(ctx, rec)
		if rec.ID == activeID {
			ship.Controllable = true
			s.active = ship
		} else {
			s.fleet = append(s.fleet, ship)
		}
	}

	s.waypoints = buildWaypoints(ctx, s.game.Config.Waypoints, s.game.Registry, s.logger)
	pc := s.game.Config.Particles
	s.particles = newParticlePool(pc.MaxParticles, pc.Lifetime, pc.Speed)
	s.tick = 0
	s.entered = true
	s.follow(s.active)

	activeShip := uint64(s.active.ID)
	simulated := 1 + len(s.fleet)
	s.logger.Info(ctx, "entered space scene",
		"active_ship", activeShip,
		"fleet_ships", len(s.fleet),
		"parked_ships", len(s.parked),
		"waypoints", len(s.waypoints))
	s.mu.Unlock()

	s.game.Events.Publish(event.NewSceneEvent(event.SceneEntered, s, activeShip, simulated))
	return nil
}

func cmpID(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// starterRecords builds the records for a fresh save.
func (s *SpaceScene) starterRecords() []save.ShipRecord {
	starters := s.game.Config.StarterFleet
	records := make([]save.ShipRecord, 0, len(starters))
	for _, st := range starters {
		rec := save.ShipRecord{
			ID:       st.ID,
			TypeID:   st.Type,
			Name:     st.Name,
			Location: save.Docked{Dock: st.Dock},
		}
		if t, ok := s.catalogue[st.Type]; ok {
			rec.Health = t.Stats.MaxHealth
		}
		records = append(records, rec)
	}
	return records
}

// activeID picks the active ship: the stored pointer when it names a
// record, else the starter flagged active, else the lowest id.
func (s *SpaceScene) activeID(ctx context.Context, records []save.ShipRecord, seeded bool) (uint64, error) {
	has := func(id uint64) bool {
		return slices.ContainsFunc(records, func(r save.ShipRecord) bool { return r.ID == id })
	}
	if seeded {
		for _, st := range s.game.Config.StarterFleet {
			if st.Active && has(st.ID) {
				return st.ID, nil
			}
		}
		return records[0].ID, nil
	}

	id, err := s.repo.ActiveShipID(ctx)
	switch {
	case errors.Is(err, save.ErrNotFound):
		return records[0].ID, nil
	case err != nil:
		return 0, logging.WrapError(err, "enter scene")
	case !has(id):
		s.logger.Warn(ctx, "active ship has no record, using lowest id", "active_ship", id, "fallback", records[0].ID)
		return records[0].ID, nil
	}
	return id, nil
}

func (s *SpaceScene) spawn(ctx context.Context, rec save.ShipRecord) *entity.Ship {
	ship := fleet.BuildShip(rec, s.catalogue[rec.TypeID])
	s.syncer.ApplyLocation(ctx, ship, rec.Location)
	return ship
}

// follow points the camera at ship and picks the zoom for its orbit phase.
func (s *SpaceScene) follow(ship *entity.Ship) {
	cam := s.game.Camera
	cam.Follow(ship.ID)
	if ship.Orbit.IsLocked() {
		cam.OrbitView()
	} else {
		cam.DefaultView()
	}
}

// Exit writes every simulated ship back to the save store and stops the
// scene. Docked fleet ships were never loaded and keep their records. On a
// store error the scene stays entered so Exit can be retried.
func (s *SpaceScene) Exit(ctx context.Context) error {
	s.mu.Lock()
	if !s.entered {
		s.mu.Unlock()
		return nil
	}

	records := make([]save.ShipRecord, 0, 1+len(s.fleet))
	records = append(records, s.syncer.Record(s.active))
	for _, ship := range s.fleet {
		records = append(records, s.syncer.Record(ship))
	}
	if err := s.repo.SaveAll(ctx, records); err != nil {
		s.mu.Unlock()
		return logging.WrapError(err, "exit scene")
	}
	activeID := uint64(s.active.ID)
	if err := s.repo.SetActiveShipID(ctx, activeID); err != nil {
		s.mu.Unlock()
		return logging.WrapError(err, "exit scene")
	}

	s.entered = false
	s.active = nil
	s.fleet = nil
	clear(s.parked)
	s.logger.Info(ctx, "left space scene", "active_ship", activeID, "saved_ships", len(records))
	s.mu.Unlock()

	s.game.Events.Publish(event.NewSceneEvent(event.SceneExited, s, activeID, len(records)))
	return nil
}

// Update advances the scene by dt seconds.
func (s *SpaceScene) Update(dt float64) {
	start := time.Now()
	s.mu.Lock()
	if !s.entered {
		s.mu.Unlock()
		return
	}
	steps := Steps(dt)
	var pending []event.Event

	for _, ship := range s.fleet {
		pending = s.advance(ship, steps, pending)
	}
	pending = s.advance(s.active, steps, pending)

	if e := s.resolveDocking(); e != nil {
		pending = append(pending, e)
	}

	if s.active.Controls.Thrust && !s.active.Docked && !s.active.Orbit.Controlled() {
		s.particles.exhaust(s.active)
	}
	s.particles.update(steps)
	s.game.Camera.Update(steps)

	for _, w := range s.waypoints {
		if !w.reached && w.arrived(s.active) {
			w.reached = true
			s.game.Metrics.ObserveWaypoint()
			pending = append(pending, event.NewWaypointEvent(s, uint64(s.active.ID), w.Name))
		}
	}

	s.tick++
	counts := s.phaseCounts()
	s.mu.Unlock()

	s.game.Metrics.ObserveTick(time.Since(start))
	s.game.Metrics.SetPhaseCounts(counts)
	for _, e := range pending {
		s.game.Events.Publish(e)
	}
}

// advance runs one ship through the orbit controller and, when the
// controller does not own it this tick, free flight and the world clamp.
func (s *SpaceScene) advance(ship *entity.Ship, steps float64, pending []event.Event) []event.Event {
	if ship.Docked {
		ship.Velocity = physics.Vector2D{}
		return pending
	}
	if !ship.Orbit.Controlled() {
		ship.ApplyControls(steps)
	}

	prev := ship.Orbit.Planet
	tr := s.orbits.Step(ship, s.game.Registry, steps)

	if !ship.Orbit.Controlled() {
		ship.Integrate(steps)
		ship.ClampToBounds(s.game.Registry.Bounds())
	}

	if tr == orbit.None {
		return pending
	}
	return append(pending, s.transition(ship, tr, prev))
}

var transitionEvents = map[orbit.Transition]event.Type{
	orbit.Captured: event.OrbitCaptured,
	orbit.Locked:   event.OrbitLocked,
	orbit.Exited:   event.OrbitExited,
	orbit.Aborted:  event.OrbitAborted,
}

func (s *SpaceScene) transition(ship *entity.Ship, tr orbit.Transition, prev entity.ID) event.Event {
	planetID := ship.Orbit.Planet
	if tr == orbit.Exited || tr == orbit.Aborted {
		planetID = prev
	}
	var name string
	if p, ok := s.game.Registry.Planet(planetID); ok {
		name = p.Name
	}

	ev := event.NewOrbitEvent(transitionEvents[tr], s, uint64(ship.ID), ship.Controllable, uint64(planetID), name)
	switch tr {
	case orbit.Captured:
		ev.Radius = ship.Orbit.TargetRadius
	case orbit.Locked:
		ev.Radius = ship.Orbit.Radius
		ev.Direction = ship.Orbit.Direction
	}

	s.game.Metrics.ObserveTransition(tr.String(), ship.Controllable)
	if ship.Controllable {
		switch tr {
		case orbit.Locked:
			s.game.Camera.OrbitView()
		case orbit.Exited:
			s.game.Camera.DefaultView()
		}
	}
	s.logger.Debug(context.Background(), "orbit transition",
		"ship", ship.ID, "transition", tr.String(), "planet", name, "tick", s.tick)
	return ev
}

// resolveDocking docks the active ship when it drifts slowly near a dock
// with no movement input. Docking is skipped while any orbit phase is
// active. A docked ship sits on the dock's position, so the dock alone
// describes where it is.
func (s *SpaceScene) resolveDocking() event.Event {
	ship := s.active
	if ship.Docked || ship.Orbit.Phase != entity.OrbitFree || ship.Controls.Moving() {
		return nil
	}
	cfg := s.game.Config.Docking
	dock, dist, ok := s.game.Registry.NearestDock(ship.Position)
	if !ok || dist >= cfg.Radius {
		return nil
	}
	speed := ship.Speed()
	if speed <= cfg.MinSpeed || speed >= cfg.MaxSpeed {
		return nil
	}

	ship.Docked = true
	ship.DockID = dock.ID
	ship.Position = dock.Position
	ship.Collider.Center = dock.Position
	ship.Velocity = physics.Vector2D{}
	ship.AngularRate = 0
	s.game.Metrics.ObserveDock()
	return event.NewDockEvent(s, uint64(ship.ID), uint64(dock.ID), dock.Name)
}

func (s *SpaceScene) phaseCounts() map[string]int {
	counts := map[string]int{
		entity.OrbitFree.String():        0,
		entity.OrbitApproaching.String(): 0,
		entity.OrbitLocked.String():      0,
		"docked":                         len(s.parked),
	}
	count := func(ship *entity.Ship) {
		if ship.Docked {
			counts["docked"]++
			return
		}
		counts[ship.Orbit.Phase.String()]++
	}
	count(s.active)
	for _, ship := range s.fleet {
		count(ship)
	}
	return counts
}

// SetControl forwards an input press or release. Zoom actions drive the
// camera; everything else sets the active ship's control flags, and a
// movement press while docked undocks it.
func (s *SpaceScene) SetControl(action entity.Action, active bool) {
	s.mu.Lock()
	if !s.entered {
		s.mu.Unlock()
		return
	}
	var ev event.Event
	switch action {
	case entity.ActionZoomIn:
		if active {
			s.game.Camera.ZoomIn()
		}
	case entity.ActionZoomOut:
		if active {
			s.game.Camera.ZoomOut()
		}
	default:
		if s.active.SetControl(action, active) {
			ev = event.NewShipEvent(event.ShipUndocked, s, uint64(s.active.ID))
		}
	}
	s.mu.Unlock()

	if ev != nil {
		s.game.Events.Publish(ev)
	}
}

// HandOff makes ship id the active ship. Nothing about either ship's motion
// changes: the old active ship loses its control flags and joins the fleet,
// the camera jumps to the new one and the active pointer is persisted. A
// docked fleet ship is brought into the scene at its dock.
//
// The hand-off takes effect before the pointer is written. An error from
// the store means only that the new active id was not persisted; the scene
// has already switched ships and published control_handoff.
func (s *SpaceScene) HandOff(ctx context.Context, id uint64) error {
	s.mu.Lock()
	if !s.entered {
		s.mu.Unlock()
		return ErrSceneNotActive
	}
	from := uint64(s.active.ID)
	if id == from {
		s.mu.Unlock()
		return nil
	}

	var next *entity.Ship
	if i := slices.IndexFunc(s.fleet, func(sh *entity.Ship) bool { return uint64(sh.ID) == id }); i >= 0 {
		next = s.fleet[i]
		s.fleet = slices.Delete(s.fleet, i, i+1)
	} else if rec, ok := s.parked[id]; ok {
		next = s.spawn(ctx, rec)
		delete(s.parked, id)
	} else {
		s.mu.Unlock()
		return fmt.Errorf("hand off: %w %d", ErrUnknownShip, id)
	}

	prev := s.active
	prev.ClearControls()
	prev.Controllable = false
	s.fleet = append(s.fleet, prev)
	slices.SortFunc(s.fleet, func(a, b *entity.Ship) int { return cmpID(uint64(a.ID), uint64(b.ID)) })

	next.ClearControls()
	next.Controllable = true
	s.active = next
	s.follow(next)
	s.mu.Unlock()

	s.game.Metrics.ObserveHandoff()
	s.game.Events.Publish(event.NewHandoffEvent(s, from, id))
	if err := s.repo.SetActiveShipID(ctx, id); err != nil {
		return logging.WrapError(err, "hand off")
	}
	return nil
}

// CycleActive hands control to the fleet ship with the next higher id,
// wrapping to the lowest. Parked ships take part. It returns the new active
// id, which is unchanged when the fleet is empty.
func (s *SpaceScene) CycleActive(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	if !s.entered {
		s.mu.RUnlock()
		return 0, ErrSceneNotActive
	}
	current := uint64(s.active.ID)
	ids := make([]uint64, 0, 1+len(s.fleet)+len(s.parked))
	ids = append(ids, current)
	for _, ship := range s.fleet {
		ids = append(ids, uint64(ship.ID))
	}
	for id := range s.parked {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	slices.Sort(ids)
	i := slices.Index(ids, current)
	next := ids[(i+1)%len(ids)]
	if err := s.HandOff(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}

// lookup resolves a simulated ship's position without locking.
func (s *SpaceScene) lookup(id entity.ID) (physics.Vector2D, bool) {
	if ship := s.find(id); ship != nil {
		return ship.Position, true
	}
	return physics.Vector2D{}, false
}

func (s *SpaceScene) find(id entity.ID) *entity.Ship {
	if s.active != nil && s.active.ID == id {
		return s.active
	}
	for _, ship := range s.fleet {
		if ship.ID == id {
			return ship
		}
	}
	return nil
}

// Position returns a simulated ship's position.
func (s *SpaceScene) Position(id entity.ID) (physics.Vector2D, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(id)
}

// ActiveShip returns the active ship, nil when the scene is not entered.
// The pointer is live; callers must not mutate it outside the scene.
func (s *SpaceScene) ActiveShip() *entity.Ship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Ships returns the simulated ships, active ship first.
func (s *SpaceScene) Ships() []*entity.Ship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.entered {
		return nil
	}
	out := make([]*entity.Ship, 0, 1+len(s.fleet))
	out = append(out, s.active)
	return append(out, s.fleet...)
}

// ShipAt returns the simulated ship under a world position, preferring the
// closest when colliders overlap.
func (s *SpaceScene) ShipAt(point physics.Vector2D) (*entity.Ship, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.entered {
		return nil, false
	}
	var (
		best     *entity.Ship
		bestDist = math.Inf(1)
	)
	check := func(ship *entity.Ship) {
		if !ship.GetCollider().Contains(point) {
			return
		}
		if d := ship.Position.Distance(point); d < bestDist {
			best, bestDist = ship, d
		}
	}
	check(s.active)
	for _, ship := range s.fleet {
		check(ship)
	}
	return best, best != nil
}

// ParkedShips returns the ids of docked fleet ships kept out of the
// simulation, in ascending order.
func (s *SpaceScene) ParkedShips() []uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uint64, 0, len(s.parked))
	for id := range s.parked {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Waypoints returns a copy of the scene's waypoints.
func (s *SpaceScene) Waypoints() []Waypoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Waypoint, len(s.waypoints))
	for i, w := range s.waypoints {
		out[i] = *w
	}
	return out
}

// Particles returns a copy of the live thruster particles.
func (s *SpaceScene) Particles() []Particle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.particles == nil {
		return nil
	}
	return s.particles.snapshot()
}

// Tick returns the number of updates since the scene was entered.
func (s *SpaceScene) Tick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// Context returns the scene's game context.
func (s *SpaceScene) Context() *GameContext {
	return s.game
}
