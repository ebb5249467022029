package physics

import "math"

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// NormalizeAngle wraps an angle into [-π, π].
func NormalizeAngle(angle float64) float64 {
	angle = math.Mod(angle+math.Pi, TwoPi)
	if angle < 0 {
		angle += TwoPi
	}
	return angle - math.Pi
}

// AngleDelta returns the signed shortest rotation from one angle to another.
func AngleDelta(from, to float64) float64 {
	return NormalizeAngle(to - from)
}

// LerpAngle interpolates between two headings along the shortest arc.
// t is not clamped; callers clamp progress themselves.
func LerpAngle(from, to, t float64) float64 {
	return from + AngleDelta(from, to)*t
}
