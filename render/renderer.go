package render

import (
	"math"
	"strings"

	"erd/diagram"
	"erd/geometry"
	"erd/view"
)

// Options configures a Renderer.
type Options struct {
	// World units per character cell at zoom 1. Terminal cells are roughly
	// twice as tall as they are wide.
	CellWidth  float64
	CellHeight float64
	Theme      Theme
	// HideAttributes draws entities as name-only boxes.
	HideAttributes bool
}

// DefaultOptions returns a 10x20 cell scale with the unicode theme.
func DefaultOptions() Options {
	return Options{CellWidth: 10, CellHeight: 20, Theme: ThemeByName("unicode")}
}

// State is the interaction state drawn on top of the diagram.
type State struct {
	Selection     diagram.Selection
	PendingSource string
}

// Renderer draws diagram snapshots onto a Canvas through a view transform.
// It never touches the live model.
type Renderer struct {
	opts Options
}

// New creates a renderer, filling in zero options from DefaultOptions.
func New(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.CellWidth <= 0 {
		opts.CellWidth = def.CellWidth
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = def.CellHeight
	}
	if opts.Theme.Name == "" {
		opts.Theme = def.Theme
	}
	return &Renderer{opts: opts}
}

// Options returns the renderer settings.
func (r *Renderer) Options() Options {
	return r.opts
}

// CellToScreen returns the screen point at the centre of a cell.
func (r *Renderer) CellToScreen(x, y int) diagram.Point {
	return diagram.Point{
		X: (float64(x) + 0.5) * r.opts.CellWidth,
		Y: (float64(y) + 0.5) * r.opts.CellHeight,
	}
}

// ScreenToCell returns the cell containing a screen point.
func (r *Renderer) ScreenToCell(p diagram.Point) (x, y int) {
	return toCell(p.X / r.opts.CellWidth), toCell(p.Y / r.opts.CellHeight)
}

// maxCell bounds cell coordinates so far-off points stay representable and
// differences between them cannot overflow.
const maxCell = 1 << 40

func toCell(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v > maxCell:
		return maxCell
	case v < -maxCell:
		return -maxCell
	}
	return int(math.Floor(v))
}

func (r *Renderer) worldToCell(t *view.Transform, p diagram.Point) (x, y int) {
	return r.ScreenToCell(t.WorldToScreen(p))
}

// cellRect is a node's footprint in cells.
type cellRect struct {
	x, y, w, h int
}

func (r *Renderer) nodeCells(t *view.Transform, n diagram.Node) cellRect {
	x0, y0 := r.worldToCell(t, n.Position)
	x1, y1 := r.worldToCell(t, n.Position.Add(diagram.Point{X: n.Size.Width, Y: n.Size.Height}))
	return cellRect{x: x0, y: y0, w: max(x1-x0, 1), h: max(y1-y0, 1)}
}

// Render clears c and draws d. Relationships go first so node bodies
// cover line ends, then markers and labels go on top.
func (r *Renderer) Render(c *Canvas, d *diagram.Diagram, t *view.Transform, st State) {
	c.Clear()
	if d == nil {
		return
	}

	edges := make([]*geometry.EdgeGlyphs, len(d.Relationships))
	for i, rel := range d.Relationships {
		src, okS := d.Node(rel.SourceNodeID)
		tgt, okT := d.Node(rel.TargetNodeID)
		if !okS || !okT {
			continue
		}
		e := geometry.Edge(rectOf(src), rectOf(tgt), string(rel.SourceCardinality), string(rel.TargetCardinality))
		edges[i] = &e
		r.drawLine(c, t, rel, e, st.Selection.RelationshipID == rel.ID)
	}

	for _, n := range d.Nodes {
		r.drawNode(c, t, n, st)
	}

	for i, rel := range d.Relationships {
		e := edges[i]
		if e == nil {
			continue
		}
		r.drawMarkers(c, t, e.Start, e.End, e.SourceMarkers)
		r.drawMarkers(c, t, e.End, e.Start, e.TargetMarkers)
		if rel.Name != "" {
			r.drawLabel(c, t, *e, rel.Name)
		}
	}
}

func rectOf(n diagram.Node) geometry.Rect {
	return geometry.Rect{X: n.Position.X, Y: n.Position.Y, W: n.Size.Width, H: n.Size.Height}
}

func toDiagram(p geometry.Point) diagram.Point {
	return diagram.Point{X: p.X, Y: p.Y}
}

func (r *Renderer) drawLine(c *Canvas, t *view.Transform, rel diagram.Relationship, e geometry.EdgeGlyphs, selected bool) {
	x1, y1 := r.worldToCell(t, toDiagram(e.Start))
	x2, y2 := r.worldToCell(t, toDiagram(e.End))

	ls := r.opts.Theme.Lines
	horizontal := abs(x2-x1) >= abs(y2-y1)
	ch, attr := ls.Vertical, AttrRelationship
	switch {
	case horizontal && selected:
		ch, attr = ls.HeavyHorizontal, AttrSelected
	case selected:
		ch, attr = ls.HeavyVertical, AttrSelected
	case horizontal:
		ch = ls.Horizontal
	}
	c.DrawLine(x1, y1, x2, y2, ch, attr, rel.Optional)
}

// drawMarkers places one rune per glyph, stepping away from the node along
// the line. Glyphs closer together than a cell are spread one cell apart.
func (r *Renderer) drawMarkers(c *Canvas, t *view.Transform, at, far geometry.Point, markers []geometry.Marker) {
	if len(markers) == 0 {
		return
	}
	ax, ay := r.worldToCell(t, toDiagram(at))
	fx, fy := r.worldToCell(t, toDiagram(far))
	horizontal := abs(fx-ax) >= abs(fy-ay)
	sx, sy := sign(fx-ax), sign(fy-ay)
	if horizontal {
		sy = 0
	} else {
		sx = 0
	}
	if sx == 0 && sy == 0 {
		return
	}

	ls := r.opts.Theme.Lines
	zoom := t.Zoom()
	prev := 0
	for _, m := range markers {
		scale := r.opts.CellHeight
		if horizontal {
			scale = r.opts.CellWidth
		}
		step := max(int(math.Round(m.Offset*zoom/scale)), prev+1)
		prev = step

		var ch rune
		switch m.Kind {
		case geometry.GlyphTick:
			ch = ls.TickAcrossVertical
			if horizontal {
				ch = ls.TickAcrossHorizontal
			}
		case geometry.GlyphCircle:
			ch = ls.Circle
		case geometry.GlyphCrowsFoot:
			switch {
			case sx > 0:
				ch = ls.FootLeft
			case sx < 0:
				ch = ls.FootRight
			case sy > 0:
				ch = ls.FootUp
			default:
				ch = ls.FootDown
			}
		}
		c.Set(ax+sx*step, ay+sy*step, ch, AttrMarker)
	}
}

func (r *Renderer) drawLabel(c *Canvas, t *view.Transform, e geometry.EdgeGlyphs, name string) {
	mid := diagram.Point{X: (e.Start.X + e.End.X) / 2, Y: (e.Start.Y + e.End.Y) / 2}
	x, y := r.worldToCell(t, mid)
	label := Truncate(name, 24)
	c.DrawText(x-Width(label)/2, y-1, label, 0, AttrLabel)
}

func (r *Renderer) drawNode(c *Canvas, t *view.Transform, n diagram.Node, st State) {
	cr := r.nodeCells(t, n)
	theme := r.opts.Theme

	style, attr := theme.Entity, AttrEntity
	if n.Kind == diagram.KindAnnotation {
		style, attr = theme.Annotation, AttrAnnotation
	}
	switch n.ID {
	case st.Selection.NodeID:
		style, attr = theme.Selected, AttrSelected
	case st.PendingSource:
		attr = AttrPending
	}

	c.Fill(cr.x, cr.y, cr.w, cr.h, ' ', AttrNone)
	c.DrawBox(cr.x, cr.y, cr.w, cr.h, style, attr)

	inner := cr.w - 2
	bottom := cr.y + cr.h - 1
	if inner <= 0 || cr.h < 3 {
		return
	}

	row := cr.y + 1
	name := Truncate(n.Name, inner)
	c.DrawText(cr.x+1+Center(name, inner), row, name, inner, AttrHeader)
	row++

	if n.Kind == diagram.KindAnnotation {
		for _, line := range WrapText(n.Text, inner) {
			if row >= bottom {
				break
			}
			c.DrawText(cr.x+1, row, line, inner, AttrAnnotation)
			row++
		}
		return
	}

	if r.opts.HideAttributes || row >= bottom {
		return
	}
	c.DrawHorizontalLine(cr.x+1, row, cr.x+cr.w-2, theme.Lines.Separator, attr)
	row++
	for _, a := range n.Attributes {
		if row >= bottom {
			break
		}
		rowAttr := AttrEntity
		if a.PrimaryKey {
			rowAttr = AttrKey
		}
		c.DrawText(cr.x+1, row, Truncate(FormatAttribute(a), inner), inner, rowAttr)
		row++
	}
}

// FormatAttribute renders one column as "PK id INT *".
func FormatAttribute(a diagram.Attribute) string {
	var flags string
	switch {
	case a.PrimaryKey && a.ForeignKey:
		flags = "PF"
	case a.PrimaryKey:
		flags = "PK"
	case a.ForeignKey:
		flags = "FK"
	default:
		flags = "  "
	}

	parts := []string{flags, a.Name}
	if a.Type != "" {
		parts = append(parts, a.Type)
	}
	if a.Required && !a.PrimaryKey {
		parts = append(parts, "*")
	}
	if a.Unique && !a.PrimaryKey {
		parts = append(parts, "UQ")
	}
	return strings.Join(parts, " ")
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
