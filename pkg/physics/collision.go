// pkg/physics/collision.go
package physics

import "math"

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles are overlapping
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) < c.Radius+other.Radius
}

// Contains reports whether the point lies inside the circle
func (c Circle) Contains(point Vector2D) bool {
	return c.Center.Distance(point) <= c.Radius
}

// Rect represents a rectangular area
type Rect struct {
	Center Vector2D
	Width  float64
	Height float64
}

// Min returns the top-left corner.
func (r Rect) Min() Vector2D {
	return Vector2D{X: r.Center.X - r.Width/2, Y: r.Center.Y - r.Height/2}
}

// Max returns the bottom-right corner.
func (r Rect) Max() Vector2D {
	return Vector2D{X: r.Center.X + r.Width/2, Y: r.Center.Y + r.Height/2}
}

func (r Rect) Contains(point Vector2D) bool {
	lo, hi := r.Min(), r.Max()
	return point.X >= lo.X && point.X < hi.X &&
		point.Y >= lo.Y && point.Y < hi.Y
}

// Intersects reports whether two rectangles overlap
func (r Rect) Intersects(other Rect) bool {
	lo, hi := r.Min(), r.Max()
	olo, ohi := other.Min(), other.Max()
	return !(olo.X > hi.X || ohi.X < lo.X || olo.Y > hi.Y || ohi.Y < lo.Y)
}

// DistanceTo returns the distance from point to the closest point of the
// rectangle, zero when the point is inside.
func (r Rect) DistanceTo(point Vector2D) float64 {
	lo, hi := r.Min(), r.Max()
	dx := math.Max(math.Max(lo.X-point.X, 0), point.X-hi.X)
	dy := math.Max(math.Max(lo.Y-point.Y, 0), point.Y-hi.Y)
	return math.Hypot(dx, dy)
}

// Bounds is the playable world box [0, Width] × [0, Height].
type Bounds struct {
	Width  float64
	Height float64
}

// Contains reports whether point is inside the world box, edges included.
func (b Bounds) Contains(point Vector2D) bool {
	return point.X >= 0 && point.X <= b.Width && point.Y >= 0 && point.Y <= b.Height
}

// Clamp pulls point back inside the world box. The returned flags say which
// axis was clamped so callers can react on that velocity component.
func (b Bounds) Clamp(point Vector2D) (clamped Vector2D, hitX, hitY bool) {
	clamped = point
	switch {
	case point.X < 0:
		clamped.X, hitX = 0, true
	case point.X > b.Width:
		clamped.X, hitX = b.Width, true
	}
	switch {
	case point.Y < 0:
		clamped.Y, hitY = 0, true
	case point.Y > b.Height:
		clamped.Y, hitY = b.Height, true
	}
	return clamped, hitX, hitY
}

// Center returns the middle of the world box.
func (b Bounds) Center() Vector2D {
	return Vector2D{X: b.Width / 2, Y: b.Height / 2}
}
