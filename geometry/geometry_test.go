package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestConnectionPoint(t *testing.T) {
	from := Rect{X: 0, Y: 0, W: 100, H: 50}

	tests := []struct {
		name string
		to   Rect
		want Point
	}{
		{"directly right", Rect{X: 300, Y: 0, W: 100, H: 50}, Point{X: 100, Y: 25}},
		{"directly left", Rect{X: -300, Y: 0, W: 100, H: 50}, Point{X: 0, Y: 25}},
		{"below", Rect{X: 0, Y: 300, W: 100, H: 50}, Point{X: 50, Y: 50}},
		{"above", Rect{X: 0, Y: -300, W: 100, H: 50}, Point{X: 50, Y: 0}},
		{"mostly right", Rect{X: 300, Y: 100, W: 100, H: 50}, Point{X: 100, Y: 25}},
		{"mostly below", Rect{X: 100, Y: 300, W: 100, H: 50}, Point{X: 50, Y: 50}},
		{"diagonal tie favours horizontal", Rect{X: 200, Y: 200, W: 100, H: 50}, Point{X: 100, Y: 25}},
		{"diagonal tie to the left", Rect{X: -200, Y: -200, W: 100, H: 50}, Point{X: 0, Y: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConnectionPoint(from, tt.to)
			assert.True(t, NearlyEqual(tt.want, got, eps), "want %v got %v", tt.want, got)
		})
	}
}

func TestEndpointsAreIndependent(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 50}
	b := Rect{X: 300, Y: 0, W: 100, H: 50}

	start, end := Endpoints(a, b)
	assert.Equal(t, Point{X: 100, Y: 25}, start)
	assert.Equal(t, Point{X: 300, Y: 25}, end)
}

func TestMarkersLayout(t *testing.T) {
	tests := []struct {
		code  string
		kinds []GlyphKind
		offs  []float64
	}{
		{"1", []GlyphKind{GlyphTick}, []float64{0}},
		{"0", []GlyphKind{GlyphCircle}, []float64{0}},
		{"M", []GlyphKind{GlyphCrowsFoot}, []float64{12}},
		{"1..M", []GlyphKind{GlyphTick, GlyphCrowsFoot}, []float64{0, 12}},
		{"0..M", []GlyphKind{GlyphCircle, GlyphCrowsFoot}, []float64{0, 12}},
		{"0..1", []GlyphKind{GlyphCircle, GlyphTick}, []float64{0, 12}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			markers := Markers(tt.code, Point{}, 0)
			require.Len(t, markers, len(tt.kinds))
			for i, m := range markers {
				assert.Equal(t, tt.kinds[i], m.Kind)
				assert.Equal(t, tt.offs[i], m.Offset)
			}
		})
	}

	assert.Nil(t, Markers("2..3", Point{}, 0))
}

func TestTickIsPerpendicularAndCentered(t *testing.T) {
	// Line heading right from the origin: the tick is vertical.
	m := Markers("1", Point{X: 10, Y: 20}, 0)[0]
	require.Len(t, m.Segments, 1)
	seg := m.Segments[0]

	assert.InDelta(t, 10, seg.A.X, eps)
	assert.InDelta(t, 10, seg.B.X, eps)
	assert.InDelta(t, TickLength, math.Abs(seg.B.Y-seg.A.Y), eps)
	assert.InDelta(t, 20, (seg.A.Y+seg.B.Y)/2, eps)
}

func TestStackedTickOffsetAlongLine(t *testing.T) {
	// Line heading down: the second glyph of 0..1 sits 12 units below.
	markers := Markers("0..1", Point{X: 0, Y: 0}, math.Pi/2)
	require.Len(t, markers, 2)

	assert.True(t, NearlyEqual(Point{}, markers[0].Circle.Center, eps))
	assert.Equal(t, CircleRadius, markers[0].Circle.Radius)

	seg := markers[1].Segments[0]
	assert.InDelta(t, 12, seg.A.Y, eps)
	assert.InDelta(t, 12, seg.B.Y, eps)
}

func TestCrowsFootGeometry(t *testing.T) {
	endpoint := Point{X: 100, Y: 25}
	m := Markers("M", endpoint, 0)[0]
	require.Len(t, m.Segments, 3)

	apex := Point{X: 112, Y: 25}
	for _, s := range m.Segments {
		assert.True(t, NearlyEqual(apex, s.A, eps), "prongs share the apex")
		assert.InDelta(t, 100, s.B.X, eps, "prong tips touch the endpoint's perpendicular")
	}

	// The center prong ends exactly at the endpoint.
	assert.True(t, NearlyEqual(endpoint, m.Segments[1].B, eps))

	spread := 12 * math.Tan(CrowsFootSpread)
	lo := math.Min(m.Segments[0].B.Y, m.Segments[2].B.Y)
	hi := math.Max(m.Segments[0].B.Y, m.Segments[2].B.Y)
	assert.InDelta(t, 25-spread, lo, eps)
	assert.InDelta(t, 25+spread, hi, eps)
}

func TestEdge(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 50}
	b := Rect{X: 300, Y: 0, W: 100, H: 50}

	e := Edge(a, b, "1", "1..M")
	assert.Equal(t, Point{X: 100, Y: 25}, e.Start)
	assert.Equal(t, Point{X: 300, Y: 25}, e.End)
	require.Len(t, e.SourceMarkers, 1)
	require.Len(t, e.TargetMarkers, 2)

	// Target crow's foot points back toward the source.
	apex := e.TargetMarkers[1].Segments[0].A
	assert.InDelta(t, 288, apex.X, eps)
}
