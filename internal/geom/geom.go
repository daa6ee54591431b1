// Package geom provides the 2D vector and angle primitives used by the
// growth kernel. Headings are plane angles in radians, kept in (-pi, pi].
package geom

import "math"

// Vec2 is a point or direction in the simulation plane.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Angle returns the heading of v, or 0 for the zero vector.
func (v Vec2) Angle() float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Atan2(v.Y, v.X)
}

// FromAngle returns the unit vector pointing along theta.
func FromAngle(theta float64) Vec2 {
	return Vec2{math.Cos(theta), math.Sin(theta)}
}

// NormalizeAngle wraps a into (-pi, pi].
func NormalizeAngle(a float64) float64 {
	r := math.Mod(a, 2*math.Pi)
	if r > math.Pi {
		r -= 2 * math.Pi
	} else if r <= -math.Pi {
		r += 2 * math.Pi
	}
	return r
}

// AngleDelta returns the signed shortest arc from one heading to another,
// in (-pi, pi].
func AngleDelta(from, to float64) float64 {
	return NormalizeAngle(to - from)
}

// RotateToward rotates heading a by frac of the shortest arc toward target.
// frac of 0 leaves the heading unchanged; frac of 1 reaches the target.
func RotateToward(a, target, frac float64) float64 {
	return NormalizeAngle(a + frac*AngleDelta(a, target))
}

// Degrees converts a heading in radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
