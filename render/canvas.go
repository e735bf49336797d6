// Package render rasterises diagram snapshots into a character grid.
package render

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Attr tags a cell so front-ends can colour it.
type Attr uint8

const (
	AttrNone Attr = iota
	AttrEntity
	AttrAnnotation
	AttrHeader
	AttrKey
	AttrRelationship
	AttrMarker
	AttrLabel
	AttrSelected
	AttrPending
)

// continuation fills the cell after a double-width rune.
const continuation = '\x00'

// Canvas is a rune matrix with a parallel attribute matrix. Drawing outside
// the bounds is clipped silently, so callers can draw shapes that are only
// partly on screen.
//
// Coordinate System:
//   - Origin (0,0) is top-left
//   - X increases rightward
//   - Y increases downward
//   - All coordinates are in character cells
type Canvas struct {
	cells  [][]rune
	attrs  [][]Attr
	width  int
	height int
}

// NewCanvas creates a blank canvas. Non-positive sizes yield an empty canvas.
func NewCanvas(width, height int) *Canvas {
	width, height = max(width, 0), max(height, 0)
	c := &Canvas{
		cells:  make([][]rune, height),
		attrs:  make([][]Attr, height),
		width:  width,
		height: height,
	}
	for y := 0; y < height; y++ {
		c.cells[y] = make([]rune, width)
		c.attrs[y] = make([]Attr, width)
	}
	c.Clear()
	return c
}

// Size returns the width and height of the canvas.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Get returns the rune and attribute at a cell, or a blank outside bounds.
func (c *Canvas) Get(x, y int) (rune, Attr) {
	if !c.inBounds(x, y) {
		return ' ', AttrNone
	}
	return c.cells[y][x], c.attrs[y][x]
}

// Set places a rune. Out-of-bounds writes are dropped.
func (c *Canvas) Set(x, y int, r rune, attr Attr) {
	if !c.inBounds(x, y) {
		return
	}
	c.cells[y][x] = r
	c.attrs[y][x] = attr
}

// Clear resets the canvas to all spaces.
func (c *Canvas) Clear() {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.cells[y][x] = ' '
			c.attrs[y][x] = AttrNone
		}
	}
}

// Fill paints a rectangle with r, clipped to the canvas.
func (c *Canvas) Fill(x, y, width, height int, r rune, attr Attr) {
	for j := max(y, 0); j < min(y+height, c.height); j++ {
		for i := max(x, 0); i < min(x+width, c.width); i++ {
			c.cells[j][i] = r
			c.attrs[j][i] = attr
		}
	}
}

// DrawBox draws a rectangle outline. Boxes narrower or shorter than two
// cells collapse to a single corner rune.
func (c *Canvas) DrawBox(x, y, width, height int, style BoxStyle, attr Attr) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == 1 || height == 1 {
		c.Set(x, y, style.TopLeft, attr)
		return
	}
	right, bottom := x+width-1, y+height-1

	for i := max(x+1, 0); i < min(right, c.width); i++ {
		c.Set(i, y, style.Horizontal, attr)
		c.Set(i, bottom, style.Horizontal, attr)
	}
	for j := max(y+1, 0); j < min(bottom, c.height); j++ {
		c.Set(x, j, style.Vertical, attr)
		c.Set(right, j, style.Vertical, attr)
	}
	c.Set(x, y, style.TopLeft, attr)
	c.Set(right, y, style.TopRight, attr)
	c.Set(x, bottom, style.BottomLeft, attr)
	c.Set(right, bottom, style.BottomRight, attr)
}

// DrawHorizontalLine draws a horizontal run between x1 and x2 inclusive.
func (c *Canvas) DrawHorizontalLine(x1, y, x2 int, r rune, attr Attr) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := max(x1, 0); x <= min(x2, c.width-1); x++ {
		c.Set(x, y, r, attr)
	}
}

// DrawLine draws a line between two cells, stepping one cell at a time
// along the major axis. The segment is clipped to the canvas before
// stepping, so the cost depends on the canvas size and not on how far away
// the endpoints are. When dashed, every other cell counted from (x1, y1) is
// skipped.
func (c *Canvas) DrawLine(x1, y1, x2, y2 int, r rune, attr Attr, dashed bool) {
	dx, dy := x2-x1, y2-y1
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		c.Set(x1, y1, r, attr)
		return
	}

	lo, hi, ok := clipSteps(x1, dx, steps, c.width, 0, steps)
	if ok {
		lo, hi, ok = clipSteps(y1, dy, steps, c.height, lo, hi)
	}
	if !ok {
		return
	}

	for i := lo; i <= hi; i++ {
		if dashed && i%2 == 1 {
			continue
		}
		c.Set(x1+lineOffset(dx, i, steps), y1+lineOffset(dy, i, steps), r, attr)
	}
}

// lineOffset is delta*i/steps rounded to the nearest cell. The major axis
// (|delta| == steps) is exact.
func lineOffset(delta, i, steps int) int {
	switch delta {
	case steps:
		return i
	case -steps:
		return -i
	}
	return int(math.Round(float64(delta) * float64(i) / float64(steps)))
}

// clipSteps narrows the step range [lo, hi] to the steps where
// start + delta*i/steps can fall inside [0, size). One cell of slack on each
// side absorbs rounding of the minor axis.
func clipSteps(start, delta, steps, size, lo, hi int) (int, int, bool) {
	if delta == 0 {
		return lo, hi, start >= 0 && start < size
	}
	a := float64(-1-start) * float64(steps) / float64(delta)
	b := float64(size-start) * float64(steps) / float64(delta)
	if a > b {
		a, b = b, a
	}
	if a > float64(hi) || b < float64(lo) {
		return 0, 0, false
	}
	lo = max(lo, int(math.Floor(a)))
	hi = min(hi, int(math.Ceil(b)))
	return lo, hi, lo <= hi
}

// DrawText writes text starting at (x, y), stopping after maxWidth cells
// (maxWidth <= 0 means up to the canvas edge). It returns the number of
// cells used.
func (c *Canvas) DrawText(x, y int, text string, maxWidth int, attr Attr) int {
	if maxWidth <= 0 {
		maxWidth = c.width - x
	}
	used := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > maxWidth {
			break
		}
		c.Set(x+used, y, r, attr)
		if w == 2 {
			c.Set(x+used+1, y, continuation, attr)
		}
		used += w
	}
	return used
}

// Lines returns the canvas rows as strings.
func (c *Canvas) Lines() []string {
	lines := make([]string, c.height)
	var sb strings.Builder
	for y := 0; y < c.height; y++ {
		sb.Reset()
		for _, r := range c.cells[y] {
			if r == continuation {
				continue
			}
			sb.WriteRune(r)
		}
		lines[y] = sb.String()
	}
	return lines
}

// String returns the canvas as newline-separated rows.
func (c *Canvas) String() string {
	return strings.Join(c.Lines(), "\n")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
