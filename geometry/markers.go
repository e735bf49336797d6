package geometry

import "math"

// Crow's-foot glyph dimensions in world units.
const (
	TickLength      = 8.0
	CircleRadius    = 4.0
	CrowsFootOffset = 12.0
	CrowsFootSpread = 0.4 // half-angle of the outer prongs, radians
	StackOffset     = 12.0
)

// GlyphKind names the primitive shapes of crow's-foot notation.
type GlyphKind int

const (
	GlyphTick GlyphKind = iota
	GlyphCircle
	GlyphCrowsFoot
)

// String returns the string representation of a GlyphKind.
func (g GlyphKind) String() string {
	switch g {
	case GlyphTick:
		return "tick"
	case GlyphCircle:
		return "circle"
	case GlyphCrowsFoot:
		return "crows-foot"
	default:
		return "unknown"
	}
}

// Segment is a straight stroke.
type Segment struct {
	A, B Point
}

// Circle is an unfilled circle.
type Circle struct {
	Center Point
	Radius float64
}

// Marker is one glyph placed at a relationship end. Offset is measured from
// the endpoint toward the opposite node.
type Marker struct {
	Kind     GlyphKind
	Offset   float64
	Segments []Segment // tick and crow's foot
	Circle   *Circle   // circle only
}

type glyphAt struct {
	kind   GlyphKind
	offset float64
}

var layouts = map[string][]glyphAt{
	"1":    {{GlyphTick, 0}},
	"0":    {{GlyphCircle, 0}},
	"M":    {{GlyphCrowsFoot, CrowsFootOffset}},
	"1..M": {{GlyphTick, 0}, {GlyphCrowsFoot, CrowsFootOffset}},
	"0..M": {{GlyphCircle, 0}, {GlyphCrowsFoot, CrowsFootOffset}},
	"0..1": {{GlyphCircle, 0}, {GlyphTick, StackOffset}},
}

// Markers returns the glyphs for a cardinality code drawn at endpoint, where
// theta is the direction from endpoint toward the far end of the line.
// Unknown codes yield no markers.
func Markers(code string, endpoint Point, theta float64) []Marker {
	layout, ok := layouts[code]
	if !ok {
		return nil
	}

	markers := make([]Marker, 0, len(layout))
	for _, g := range layout {
		switch g.kind {
		case GlyphTick:
			markers = append(markers, tick(endpoint, theta, g.offset))
		case GlyphCircle:
			markers = append(markers, circle(endpoint, theta, g.offset))
		case GlyphCrowsFoot:
			markers = append(markers, crowsFoot(endpoint, theta, g.offset))
		}
	}
	return markers
}

func tick(endpoint Point, theta, offset float64) Marker {
	c := Along(endpoint, theta, offset)
	perp := theta + math.Pi/2
	return Marker{
		Kind:   GlyphTick,
		Offset: offset,
		Segments: []Segment{{
			A: Along(c, perp, -TickLength/2),
			B: Along(c, perp, TickLength/2),
		}},
	}
}

func circle(endpoint Point, theta, offset float64) Marker {
	return Marker{
		Kind:   GlyphCircle,
		Offset: offset,
		Circle: &Circle{Center: Along(endpoint, theta, offset), Radius: CircleRadius},
	}
}

// crowsFoot fans three prongs from an apex offset back along the line. The
// prong tips land on the perpendicular through the endpoint.
func crowsFoot(endpoint Point, theta, offset float64) Marker {
	apex := Along(endpoint, theta, offset)
	back := theta + math.Pi

	segs := make([]Segment, 0, 3)
	for _, spread := range []float64{-CrowsFootSpread, 0, CrowsFootSpread} {
		length := offset / math.Cos(spread)
		segs = append(segs, Segment{A: apex, B: Along(apex, back+spread, length)})
	}
	return Marker{Kind: GlyphCrowsFoot, Offset: offset, Segments: segs}
}

// EdgeGlyphs is everything needed to draw one relationship line.
type EdgeGlyphs struct {
	Start, End    Point
	SourceMarkers []Marker
	TargetMarkers []Marker
}

// Edge computes the line and both marker sets for a relationship.
func Edge(source, target Rect, sourceCode, targetCode string) EdgeGlyphs {
	start, end := Endpoints(source, target)
	return EdgeGlyphs{
		Start:         start,
		End:           end,
		SourceMarkers: Markers(sourceCode, start, Angle(start, end)),
		TargetMarkers: Markers(targetCode, end, Angle(end, start)),
	}
}
