// Package view holds the pan/zoom transform between screen and world
// coordinates. It borrows diagram.Point but never reads the model.
package view

import "erd/diagram"

// Limits bounds and steps the zoom scale.
type Limits struct {
	MinZoom  float64
	MaxZoom  float64
	Step     float64 // ZoomIn multiplies, ZoomOut divides
	WheelIn  float64
	WheelOut float64
}

// DefaultLimits returns the stock zoom range [0.1, 3.0].
func DefaultLimits() Limits {
	return Limits{
		MinZoom:  0.1,
		MaxZoom:  3.0,
		Step:     1.2,
		WheelIn:  1.1,
		WheelOut: 0.9,
	}
}

// Transform maps world coordinates to the screen: screen = world*zoom + pan.
type Transform struct {
	pan    diagram.Point
	zoom   float64
	limits Limits
}

// NewTransform returns an identity transform with the given limits.
func NewTransform(limits Limits) *Transform {
	return &Transform{zoom: 1, limits: limits}
}

// Pan returns the current pan offset in screen units.
func (t *Transform) Pan() diagram.Point {
	return t.pan
}

// Zoom returns the current zoom scale.
func (t *Transform) Zoom() float64 {
	return t.zoom
}

// Limits returns the configured zoom limits.
func (t *Transform) Limits() Limits {
	return t.limits
}

func (t *Transform) clamp(z float64) float64 {
	if z < t.limits.MinZoom {
		return t.limits.MinZoom
	}
	if z > t.limits.MaxZoom {
		return t.limits.MaxZoom
	}
	return z
}

// SetZoom sets the zoom scale, clamped to the limits.
func (t *Transform) SetZoom(z float64) {
	t.zoom = t.clamp(z)
}

// ZoomIn multiplies the scale by the step factor.
func (t *Transform) ZoomIn() {
	t.SetZoom(t.zoom * t.limits.Step)
}

// ZoomOut divides the scale by the step factor.
func (t *Transform) ZoomOut() {
	t.SetZoom(t.zoom / t.limits.Step)
}

// WheelZoom zooms out for positive deltaY and in for negative deltaY.
func (t *Transform) WheelZoom(deltaY float64) {
	switch {
	case deltaY > 0:
		t.SetZoom(t.zoom * t.limits.WheelOut)
	case deltaY < 0:
		t.SetZoom(t.zoom * t.limits.WheelIn)
	}
}

// ZoomAt scales by factor while keeping the world point under screen fixed.
func (t *Transform) ZoomAt(screen diagram.Point, factor float64) {
	anchor := t.ScreenToWorld(screen)
	t.SetZoom(t.zoom * factor)
	t.pan = diagram.Point{
		X: screen.X - anchor.X*t.zoom,
		Y: screen.Y - anchor.Y*t.zoom,
	}
}

// PanBy shifts the pan offset by delta screen units.
func (t *Transform) PanBy(delta diagram.Point) {
	t.pan = t.pan.Add(delta)
}

// Reset restores pan (0,0) and zoom 1.
func (t *Transform) Reset() {
	t.pan = diagram.Point{}
	t.zoom = t.clamp(1)
}

// ScreenToWorld converts a pointer position into world coordinates.
func (t *Transform) ScreenToWorld(p diagram.Point) diagram.Point {
	return diagram.Point{
		X: (p.X - t.pan.X) / t.zoom,
		Y: (p.Y - t.pan.Y) / t.zoom,
	}
}

// WorldToScreen is the inverse of ScreenToWorld.
func (t *Transform) WorldToScreen(p diagram.Point) diagram.Point {
	return diagram.Point{
		X: p.X*t.zoom + t.pan.X,
		Y: p.Y*t.zoom + t.pan.Y,
	}
}
