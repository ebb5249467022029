// pkg/orbit/tuning.go
package orbit

import "math"

// Tuning holds the adjustable constants of the orbit model. Speeds are in
// world units per base tick; multipliers are relative to planet radius.
type Tuning struct {
	MinOrbitSpeed float64 `json:"minOrbitSpeed"`
	MaxOrbitSpeed float64 `json:"maxOrbitSpeed"`

	MinMultiplier     float64 `json:"minMultiplier"`
	DefaultMultiplier float64 `json:"defaultMultiplier"`
	MaxMultiplier     float64 `json:"maxMultiplier"`

	// Absolute radius bounds, zero disables. The multiplier band always wins
	// where the two disagree.
	AbsoluteMinRadius float64 `json:"absoluteMinRadius"`
	AbsoluteMaxRadius float64 `json:"absoluteMaxRadius"`

	// CaptureTolerance is the lock-in window as a fraction of planet radius.
	CaptureTolerance float64 `json:"captureTolerance"`
	// SpeedStep is the locked-speed change per tick of thrust or reverse.
	SpeedStep float64 `json:"speedStep"`
	// TransitionStep is the heading blend progress per tick after lock-in.
	TransitionStep float64 `json:"transitionStep"`
}

// DefaultTuning returns the stock flight model.
func DefaultTuning() Tuning {
	return Tuning{
		MinOrbitSpeed:     2.0,
		MaxOrbitSpeed:     5.0,
		MinMultiplier:     1.1,
		DefaultMultiplier: 1.2,
		MaxMultiplier:     1.35,
		AbsoluteMinRadius: 100,
		AbsoluteMaxRadius: 20000,
		CaptureTolerance:  0.05,
		SpeedStep:         0.02,
		TransitionStep:    0.01,
	}
}

// SpeedInBand reports whether speed qualifies for orbit capture.
func (t Tuning) SpeedInBand(speed float64) bool {
	return speed >= t.MinOrbitSpeed && speed <= t.MaxOrbitSpeed
}

// ClampSpeed limits speed to the orbit speed band.
func (t Tuning) ClampSpeed(speed float64) float64 {
	return math.Min(math.Max(speed, t.MinOrbitSpeed), t.MaxOrbitSpeed)
}

// CaptureDistance is the outer edge of a planet's capture ring.
func (t Tuning) CaptureDistance(planetRadius float64) float64 {
	return planetRadius * t.MaxMultiplier
}

// RadiusBand returns the legal orbit radii for a planet.
func (t Tuning) RadiusBand(planetRadius float64) (lo, hi float64) {
	return planetRadius * t.MinMultiplier, planetRadius * t.MaxMultiplier
}

// RadiusForSpeed maps a locked speed linearly onto the planet's radius band:
// MinOrbitSpeed lands on MinMultiplier and MaxOrbitSpeed on MaxMultiplier.
func (t Tuning) RadiusForSpeed(planetRadius, speed float64) float64 {
	frac := 0.0
	if span := t.MaxOrbitSpeed - t.MinOrbitSpeed; span > 0 {
		frac = (speed - t.MinOrbitSpeed) / span
	}
	frac = math.Min(math.Max(frac, 0), 1)

	radius := planetRadius * (t.MinMultiplier + frac*(t.MaxMultiplier-t.MinMultiplier))
	if t.AbsoluteMinRadius > 0 {
		radius = math.Max(radius, t.AbsoluteMinRadius)
	}
	if t.AbsoluteMaxRadius > 0 {
		radius = math.Min(radius, t.AbsoluteMaxRadius)
	}

	lo, hi := t.RadiusBand(planetRadius)
	return math.Min(math.Max(radius, lo), hi)
}
