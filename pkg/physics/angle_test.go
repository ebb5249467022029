package physics

import (
	"math"
	"testing"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		name     string
		angle    float64
		expected float64
	}{
		{"already_normal", 1, 1},
		{"full_turn", TwoPi + 0.5, 0.5},
		{"negative_wrap", -TwoPi - 0.5, -0.5},
		{"three_half_pi", 3 * math.Pi / 2, -math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAngle(tt.angle); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("NormalizeAngle(%f) = %f, expected %f", tt.angle, got, tt.expected)
			}
		})
	}
}

func TestLerpAngle_ShortestArc(t *testing.T) {
	// From just below +π to just above -π the short way crosses the seam.
	from := math.Pi - 0.1
	to := -math.Pi + 0.1

	half := LerpAngle(from, to, 0.5)
	if math.Abs(NormalizeAngle(half)-(-math.Pi)) > 1e-9 && math.Abs(NormalizeAngle(half)-math.Pi) > 1e-9 {
		t.Errorf("LerpAngle midpoint = %f, expected ±π", half)
	}

	end := LerpAngle(from, to, 1)
	if math.Abs(AngleDelta(end, to)) > 1e-9 {
		t.Errorf("LerpAngle at t=1 = %f, expected heading %f", end, to)
	}

	if start := LerpAngle(from, to, 0); start != from {
		t.Errorf("LerpAngle at t=0 = %f, expected %f", start, from)
	}
}
