// Package geometry computes where relationship lines meet entity rectangles
// and the crow's-foot glyphs drawn at their ends.
package geometry

import "math"

// Point is a position in world coordinates.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// IsHorizontal returns true if the displacement from a to b is at least as
// horizontal as it is vertical. Ties count as horizontal.
func IsHorizontal(a, b Point) bool {
	return math.Abs(b.X-a.X) >= math.Abs(b.Y-a.Y)
}

// Angle returns the direction from a to b in radians.
func Angle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// Along returns the point at distance d from p in direction theta.
func Along(p Point, theta, d float64) Point {
	return Point{X: p.X + d*math.Cos(theta), Y: p.Y + d*math.Sin(theta)}
}

// NearlyEqual compares two points with an absolute tolerance.
func NearlyEqual(a, b Point, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}
