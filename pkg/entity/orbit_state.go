package entity

import (
	"errors"
	"fmt"

	"github.com/opd-ai/go-orbiter/pkg/physics"
)

// OrbitPhase is the flight phase of a ship with respect to orbit control.
type OrbitPhase int

const (
	OrbitFree OrbitPhase = iota
	OrbitApproaching
	OrbitLocked
)

func (p OrbitPhase) String() string {
	switch p {
	case OrbitFree:
		return "free"
	case OrbitApproaching:
		return "approaching"
	case OrbitLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Orbit directions. Counter-clockwise is positive angular motion.
const (
	CounterClockwise = 1
	Clockwise        = -1
)

// OrbitState is the orbit bookkeeping attached to every ship. The planet is
// referenced by ID and resolved through the world registry; the state never
// owns it.
type OrbitState struct {
	Phase  OrbitPhase
	Planet ID

	Radius      float64
	Angle       float64
	Direction   int
	LockedSpeed float64

	// Progress runs 0→1 while the heading blends from InitialHeading to the
	// orbital tangent after lock-in.
	Progress       float64
	InitialHeading float64

	TargetRadius     float64
	ApproachVelocity physics.Vector2D

	// Departed is the planet most recently exited. It is ignored by the
	// capture check until the ship leaves its capture ring.
	Departed ID
}

// IsLocked reports whether the ship is locked in orbit
func (o OrbitState) IsLocked() bool {
	return o.Phase == OrbitLocked
}

// Controlled reports whether the orbit controller owns the ship's motion.
func (o OrbitState) Controlled() bool {
	return o.Phase == OrbitApproaching || o.Phase == OrbitLocked
}

// Release returns the state to free flight and remembers the planet it left.
func (o *OrbitState) Release() {
	departed := o.Planet
	*o = OrbitState{Phase: OrbitFree, Departed: departed}
}

// ErrOrbitInvariant is wrapped by Valid when the state is inconsistent.
var ErrOrbitInvariant = errors.New("orbit invariant violated")

// Valid checks the structural invariants of the state.
func (o OrbitState) Valid() error {
	switch o.Phase {
	case OrbitFree:
		if o.Planet != 0 {
			return fmt.Errorf("%w: free ship references planet %d", ErrOrbitInvariant, o.Planet)
		}
	case OrbitApproaching, OrbitLocked:
		if o.Planet == 0 {
			return fmt.Errorf("%w: %s ship has no planet", ErrOrbitInvariant, o.Phase)
		}
		if o.Phase == OrbitLocked && o.Direction != CounterClockwise && o.Direction != Clockwise {
			return fmt.Errorf("%w: direction %d", ErrOrbitInvariant, o.Direction)
		}
	default:
		return fmt.Errorf("%w: unknown phase %d", ErrOrbitInvariant, o.Phase)
	}
	return nil
}
