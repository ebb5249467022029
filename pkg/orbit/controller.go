// pkg/orbit/controller.go
package orbit

import (
	"math"

	"github.com/opd-ai/go-orbiter/pkg/entity"
	"github.com/opd-ai/go-orbiter/pkg/physics"
)

// Transition reports what happened to a ship's orbit during one Step.
type Transition int

const (
	None Transition = iota
	Captured
	Locked
	Exited
	Aborted
)

func (t Transition) String() string {
	switch t {
	case None:
		return "none"
	case Captured:
		return "captured"
	case Locked:
		return "locked"
	case Exited:
		return "exited"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Planets is the read-only planet lookup the controller needs. The world
// registry satisfies it.
type Planets interface {
	Planet(id entity.ID) (*entity.Planet, bool)
	Planets() []*entity.Planet
}

// Controller runs the FREE → APPROACHING → LOCKED → FREE state machine. It
// holds no per-ship state and may be shared by every ship in a scene.
type Controller struct {
	tuning Tuning
}

// NewController creates a controller with the given tuning
func NewController(tuning Tuning) *Controller {
	return &Controller{tuning: tuning}
}

// Tuning returns the controller's constants.
func (c *Controller) Tuning() Tuning {
	return c.tuning
}

// Step advances one ship's orbit state by steps base ticks. While the ship
// is approaching or locked the controller owns its position and the caller
// must skip free-flight integration for this tick (see OrbitState.Controlled).
//
// Besides the three-phase cycle, an approaching ship drops back to FREE
// (Aborted) when it flies out past the capture ring, breaks orbit or loses
// its planet, so a ship with locked input never drifts off unclamped. A ship
// that has just exited is not recaptured by the same planet until it has
// left that planet's capture ring (OrbitState.Departed).
func (c *Controller) Step(ship *entity.Ship, planets Planets, steps float64) Transition {
	switch ship.Orbit.Phase {
	case entity.OrbitApproaching:
		return c.approach(ship, planets, steps)
	case entity.OrbitLocked:
		return c.locked(ship, planets, steps)
	default:
		return c.capture(ship, planets)
	}
}

func (c *Controller) capture(ship *entity.Ship, planets Planets) Transition {
	o := &ship.Orbit
	if o.Departed != 0 {
		p, ok := planets.Planet(o.Departed)
		if !ok || p.Distance(ship.Position) > c.tuning.CaptureDistance(p.Radius) {
			o.Departed = 0
		}
	}

	speed := ship.Speed()
	if !c.tuning.SpeedInBand(speed) {
		return None
	}

	var (
		best     *entity.Planet
		bestDist = math.Inf(1)
	)
	for _, p := range planets.Planets() {
		if p.ID == o.Departed {
			continue
		}
		d := p.Distance(ship.Position)
		if d > p.Radius && d <= c.tuning.CaptureDistance(p.Radius) && d < bestDist {
			best, bestDist = p, d
		}
	}
	if best == nil {
		return None
	}

	offset := ship.Position.Sub(best.Position)
	*o = entity.OrbitState{
		Phase:            entity.OrbitApproaching,
		Planet:           best.ID,
		Angle:            math.Atan2(offset.Y, offset.X) + math.Pi,
		LockedSpeed:      speed,
		TargetRadius:     c.tuning.RadiusForSpeed(best.Radius, speed),
		ApproachVelocity: ship.Velocity,
	}
	return Captured
}

func (c *Controller) approach(ship *entity.Ship, planets Planets, steps float64) Transition {
	o := &ship.Orbit
	p, ok := planets.Planet(o.Planet)
	if !ok {
		ship.Velocity = o.ApproachVelocity
		o.Release()
		return Aborted
	}

	if ship.Controllable && ship.Controls.BreakOrbit {
		ship.Controls.BreakOrbit = false
		ship.Velocity = o.ApproachVelocity
		o.Release()
		return Aborted
	}

	ship.Velocity = o.ApproachVelocity
	ship.Position = ship.Position.Add(o.ApproachVelocity.Scale(steps))
	ship.Collider.Center = ship.Position

	d := p.Distance(ship.Position)
	tolerance := p.Radius * c.tuning.CaptureTolerance
	if math.Abs(d-o.TargetRadius) <= tolerance {
		o.Phase = entity.OrbitLocked
		o.Radius = o.TargetRadius
		o.Progress = 0
		o.InitialHeading = ship.Rotation
		if ship.Position.Sub(p.Position).Cross(o.ApproachVelocity) > 0 {
			o.Direction = entity.CounterClockwise
		} else {
			o.Direction = entity.Clockwise
		}
		return Locked
	}

	// Flew back out of the capture ring without converging.
	if d > c.tuning.CaptureDistance(p.Radius)+tolerance {
		o.Release()
		return Aborted
	}
	return None
}

func (c *Controller) locked(ship *entity.Ship, planets Planets, steps float64) Transition {
	o := &ship.Orbit
	p, ok := planets.Planet(o.Planet)
	if !ok {
		o.Release()
		return Aborted
	}

	if ship.Controllable {
		switch {
		case ship.Controls.BreakOrbit:
			ship.Controls.BreakOrbit = false
			o.LockedSpeed = c.tuning.MaxOrbitSpeed
		case ship.Controls.Thrust && !ship.Controls.Reverse:
			o.LockedSpeed = math.Min(o.LockedSpeed+c.tuning.SpeedStep*steps, c.tuning.MaxOrbitSpeed)
		case ship.Controls.Reverse && !ship.Controls.Thrust:
			o.LockedSpeed = math.Max(o.LockedSpeed-c.tuning.SpeedStep*steps, c.tuning.MinOrbitSpeed)
		}
	}

	if o.LockedSpeed >= c.tuning.MaxOrbitSpeed {
		ship.Velocity = physics.FromAngle(o.Angle+math.Pi/2, o.LockedSpeed)
		o.Release()
		return Exited
	}

	o.Radius = c.tuning.RadiusForSpeed(p.Radius, o.LockedSpeed)
	dir := float64(o.Direction)
	o.Angle = physics.NormalizeAngle(o.Angle + (o.LockedSpeed/o.Radius)*dir*steps)

	ship.Position = p.Position.Add(physics.FromAngle(o.Angle, o.Radius))
	ship.Collider.Center = ship.Position

	tangent := o.Angle + dir*math.Pi/2
	ship.Velocity = physics.FromAngle(tangent, o.LockedSpeed)
	ship.AngularRate = 0

	if o.Progress < 1 {
		o.Progress = math.Min(o.Progress+c.tuning.TransitionStep*steps, 1)
		ship.Rotation = physics.NormalizeAngle(physics.LerpAngle(o.InitialHeading, tangent, o.Progress))
	} else {
		ship.Rotation = physics.NormalizeAngle(tangent)
	}
	return None
}

// Restore puts a ship straight into a locked orbit around planet, skipping
// the approach and the heading blend. Out-of-band values are corrected; the
// return value reports whether the radius had to be replaced with the
// default multiplier so the caller can warn about a stale save.
func (c *Controller) Restore(ship *entity.Ship, planet *entity.Planet, radius, angle, lockedSpeed float64, direction int) (adjusted bool) {
	lo, hi := c.tuning.RadiusBand(planet.Radius)
	if math.IsNaN(radius) || radius < lo || radius > hi {
		radius = planet.Radius * c.tuning.DefaultMultiplier
		adjusted = true
	}
	if direction != entity.Clockwise {
		direction = entity.CounterClockwise
	}
	if math.IsNaN(lockedSpeed) {
		lockedSpeed = c.tuning.MinOrbitSpeed
	}
	lockedSpeed = c.tuning.ClampSpeed(lockedSpeed)
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		angle = 0
	}

	tangent := angle + float64(direction)*math.Pi/2
	ship.Orbit = entity.OrbitState{
		Phase:          entity.OrbitLocked,
		Planet:         planet.ID,
		Radius:         radius,
		Angle:          angle,
		Direction:      direction,
		LockedSpeed:    lockedSpeed,
		Progress:       1,
		InitialHeading: tangent,
		TargetRadius:   radius,
	}
	ship.Position = planet.Position.Add(physics.FromAngle(angle, radius))
	ship.Collider.Center = ship.Position
	ship.Velocity = physics.FromAngle(tangent, lockedSpeed)
	ship.Rotation = physics.NormalizeAngle(tangent)
	return adjusted
}
