// Package core provides fundamental types and utilities shared by the lander
// simulation. It has no external dependencies so the physics, terrain and
// classification packages stay pure and testable.
package core

import "math"

// Vec2 is a 2D vector in level coordinates.
// X grows to the right, Y grows downward (screen convention).
type Vec2 struct {
	X, Y float64
}

// V creates a vector.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * k.
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Rotate rotates v by deg degrees using the inverted-Y convention of the
// simulation: (x·cosθ + y·sinθ, −x·sinθ + y·cosθ). A positive angle turns
// counter-clockwise on screen.
func (v Vec2) Rotate(deg float64) Vec2 {
	s, c := math.Sincos(Radians(deg))
	return Vec2{
		X: v.X*c + v.Y*s,
		Y: -v.X*s + v.Y*c,
	}
}

// AABB is an axis-aligned bounding box with float coordinates.
type AABB struct {
	Min, Max Vec2
}

// BoundsOf returns the bounding box of the given points.
// An empty slice yields the zero box.
func BoundsOf(pts []Vec2) AABB {
	if len(pts) == 0 {
		return AABB{}
	}
	b := AABB{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

// Width returns the horizontal extent of the box.
func (b AABB) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the vertical extent of the box.
func (b AABB) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// OutsideRect reports whether the box lies entirely outside the rectangle
// [0,w]x[0,h] on at least one axis.
func (b AABB) OutsideRect(w, h float64) bool {
	return b.Max.X < 0 || b.Min.X > w || b.Max.Y < 0 || b.Min.Y > h
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Sign returns -1, 0, or 1.
func Sign(x float64) float64 {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
