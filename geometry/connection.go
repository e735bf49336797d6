package geometry

// ConnectionPoint returns the edge midpoint of from that faces to. The
// dominant axis of the center-to-center displacement picks the side; equal
// displacement favours the left/right edges.
func ConnectionPoint(from, to Rect) Point {
	fc, tc := from.Center(), to.Center()

	if IsHorizontal(fc, tc) {
		if tc.X > fc.X {
			return Point{X: from.X + from.W, Y: fc.Y}
		}
		return Point{X: from.X, Y: fc.Y}
	}
	if tc.Y > fc.Y {
		return Point{X: fc.X, Y: from.Y + from.H}
	}
	return Point{X: fc.X, Y: from.Y}
}

// Endpoints returns the straight line drawn for a relationship between
// source and target.
func Endpoints(source, target Rect) (start, end Point) {
	return ConnectionPoint(source, target), ConnectionPoint(target, source)
}
