package view

import (
	"math/rand"
	"testing"

	"erd/diagram"

	"github.com/stretchr/testify/assert"
)

func TestScreenWorldRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := NewTransform(DefaultLimits())

	for i := 0; i < 500; i++ {
		tr.Reset()
		tr.PanBy(diagram.Point{X: rng.Float64()*2000 - 1000, Y: rng.Float64()*2000 - 1000})
		tr.SetZoom(0.1 + rng.Float64()*2.9)

		p := diagram.Point{X: rng.Float64()*5000 - 2500, Y: rng.Float64()*5000 - 2500}
		got := tr.ScreenToWorld(tr.WorldToScreen(p))
		assert.InDelta(t, p.X, got.X, 1e-6)
		assert.InDelta(t, p.Y, got.Y, 1e-6)
	}
}

func TestScreenToWorld(t *testing.T) {
	tr := NewTransform(DefaultLimits())
	tr.PanBy(diagram.Point{X: 100, Y: 50})
	tr.SetZoom(2)

	assert.Equal(t, diagram.Point{X: 50, Y: 25}, tr.ScreenToWorld(diagram.Point{X: 200, Y: 100}))
}

func TestZoomStaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := NewTransform(DefaultLimits())

	for i := 0; i < 2000; i++ {
		switch rng.Intn(3) {
		case 0:
			tr.ZoomIn()
		case 1:
			tr.ZoomOut()
		case 2:
			tr.WheelZoom(rng.Float64()*200 - 100)
		}
		assert.GreaterOrEqual(t, tr.Zoom(), 0.1)
		assert.LessOrEqual(t, tr.Zoom(), 3.0)
	}
}

func TestZoomSteps(t *testing.T) {
	tr := NewTransform(DefaultLimits())

	tr.ZoomIn()
	assert.InDelta(t, 1.2, tr.Zoom(), 1e-9)
	tr.ZoomOut()
	assert.InDelta(t, 1.0, tr.Zoom(), 1e-9)

	tr.WheelZoom(120)
	assert.InDelta(t, 0.9, tr.Zoom(), 1e-9)
	tr.Reset()
	tr.WheelZoom(-120)
	assert.InDelta(t, 1.1, tr.Zoom(), 1e-9)
	tr.WheelZoom(0)
	assert.InDelta(t, 1.1, tr.Zoom(), 1e-9)

	for i := 0; i < 50; i++ {
		tr.ZoomIn()
	}
	assert.Equal(t, 3.0, tr.Zoom())
	for i := 0; i < 50; i++ {
		tr.ZoomOut()
	}
	assert.Equal(t, 0.1, tr.Zoom())
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	tr := NewTransform(DefaultLimits())
	tr.PanBy(diagram.Point{X: 30, Y: -10})
	cursor := diagram.Point{X: 400, Y: 300}
	before := tr.ScreenToWorld(cursor)

	tr.ZoomAt(cursor, 1.5)

	after := tr.ScreenToWorld(cursor)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
	assert.InDelta(t, 1.5, tr.Zoom(), 1e-9)
}

func TestPanBy(t *testing.T) {
	tr := NewTransform(DefaultLimits())
	tr.PanBy(diagram.Point{X: 5, Y: 5})
	tr.PanBy(diagram.Point{X: -2, Y: 10})
	assert.Equal(t, diagram.Point{X: 3, Y: 15}, tr.Pan())
}
