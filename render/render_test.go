package render

import (
	"strings"
	"testing"
	"time"

	"erd/diagram"
	"erd/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasDrawBox(t *testing.T) {
	c := NewCanvas(5, 3)
	c.DrawBox(0, 0, 5, 3, ASCIIBoxStyle, AttrEntity)

	assert.Equal(t, "+---+\n|   |\n+---+", c.String())
	_, attr := c.Get(0, 0)
	assert.Equal(t, AttrEntity, attr)
}

func TestCanvasClipsPartialBox(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawBox(-2, -1, 5, 3, ASCIIBoxStyle, AttrEntity)

	lines := c.Lines()
	assert.Equal(t, "  | ", lines[0])
	assert.Equal(t, "--+ ", lines[1])
}

func TestCanvasGetOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	r, attr := c.Get(5, -1)
	assert.Equal(t, ' ', r)
	assert.Equal(t, AttrNone, attr)
}

func TestCanvasDrawLine(t *testing.T) {
	tests := []struct {
		name   string
		dashed bool
		want   string
	}{
		{"solid", false, "-------"},
		{"dashed", true, "- - - -"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(7, 1)
			c.DrawLine(0, 0, 6, 0, '-', AttrRelationship, tt.dashed)
			assert.Equal(t, tt.want, c.String())
		})
	}
}

func TestCanvasDrawDiagonalLine(t *testing.T) {
	c := NewCanvas(4, 4)
	c.DrawLine(3, 3, 0, 0, '*', AttrNone, false)
	assert.Equal(t, "*   \n *  \n  * \n   *", c.String())
}

func TestCanvasDrawLineClipsFarEndpoints(t *testing.T) {
	c := NewCanvas(10, 3)
	c.DrawLine(-1_000_000_000_000, 1, 1_000_000_000_000, 1, '-', AttrRelationship, false)
	assert.Equal(t, "          \n----------\n          ", c.String())

	c = NewCanvas(10, 3)
	c.DrawLine(2, 0, 2, 1<<40, '|', AttrRelationship, false)
	for y := 0; y < 3; y++ {
		assert.Equal(t, '|', runeAt(c, 2, y))
	}

	c = NewCanvas(10, 3)
	c.DrawLine(-5000, -5000, -10, -7, '*', AttrNone, false)
	assert.Equal(t, strings.Repeat(" ", 10), c.Lines()[0])
}

func TestCanvasDrawLineKeepsDashPhaseWhenClipped(t *testing.T) {
	c := NewCanvas(6, 1)
	c.DrawLine(-3, 0, 5, 0, '-', AttrRelationship, true)
	// Steps from x=-3 are even at x=-3,-1,1,3,5.
	assert.Equal(t, " - - -", c.String())
}

func TestCanvasDrawBoxClipsHugeBox(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawBox(-1<<40, 1, 1<<41, 1<<40, ASCIIBoxStyle, AttrEntity)
	assert.Equal(t, "    \n----", c.String())
}

func TestCanvasDrawTextWide(t *testing.T) {
	c := NewCanvas(4, 1)
	used := c.DrawText(0, 0, "日本", 3, AttrLabel)

	assert.Equal(t, 2, used)
	assert.Equal(t, "日  ", c.String())
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{"the quick", "brown fox"}, WrapText("the quick brown fox", 10))
	assert.Equal(t, []string{"one", "", "two"}, WrapText("one\n\ntwo", 10))
	assert.Equal(t, []string{"abcd"}, WrapText("abcdefgh", 4))
	assert.Nil(t, WrapText("x", 0))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "long…", Truncate("longer text", 5))
	assert.Equal(t, "", Truncate("x", 0))
}

func TestFormatAttribute(t *testing.T) {
	tests := []struct {
		attr diagram.Attribute
		want string
	}{
		{diagram.Attribute{Name: "id", Type: "INT", PrimaryKey: true, Required: true}, "PK id INT"},
		{diagram.Attribute{Name: "customer_id", Type: "INT", ForeignKey: true, Required: true}, "FK customer_id INT *"},
		{diagram.Attribute{Name: "email", Unique: true}, "   email UQ"},
		{diagram.Attribute{Name: "order_id", PrimaryKey: true, ForeignKey: true}, "PF order_id"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAttribute(tt.attr))
	}
}

// twoTables lays out A at (0,0) and B at (400,0), both 220x180, which at
// the default 10x20 cell scale are 22x9 cell boxes in columns 0-21 and 40-61.
func twoTables(optional bool) *diagram.Diagram {
	return &diagram.Diagram{
		Nodes: []diagram.Node{
			{ID: "a", Kind: diagram.KindEntity, Name: "A", Size: diagram.Size{Width: 220, Height: 180},
				Attributes: []diagram.Attribute{{Name: "id", Type: "INT", PrimaryKey: true}}},
			{ID: "b", Kind: diagram.KindEntity, Name: "B", Position: diagram.Point{X: 400}, Size: diagram.Size{Width: 220, Height: 180}},
		},
		Relationships: []diagram.Relationship{{
			ID: "r", SourceNodeID: "a", TargetNodeID: "b",
			SourceCardinality: diagram.CardOne, TargetCardinality: diagram.CardOneOrMany,
			Optional: optional,
		}},
	}
}

func renderDiagram(t *testing.T, d *diagram.Diagram, st State) *Canvas {
	t.Helper()
	c := NewCanvas(70, 12)
	New(DefaultOptions()).Render(c, d, view.NewTransform(view.DefaultLimits()), st)
	return c
}

func runeAt(c *Canvas, x, y int) rune {
	r, _ := c.Get(x, y)
	return r
}

func TestRenderEntities(t *testing.T) {
	c := renderDiagram(t, twoTables(false), State{})

	assert.Equal(t, '╭', runeAt(c, 0, 0))
	assert.Equal(t, '╮', runeAt(c, 21, 0))
	assert.Equal(t, '╰', runeAt(c, 0, 8))
	assert.Equal(t, '╭', runeAt(c, 40, 0))

	assert.Equal(t, 'A', runeAt(c, 10, 1), "name is centred on the first row")
	r, attr := c.Get(10, 1)
	assert.Equal(t, 'A', r)
	assert.Equal(t, AttrHeader, attr)

	assert.Equal(t, '─', runeAt(c, 5, 2), "separator under the name")
	lines := c.Lines()
	assert.True(t, strings.HasPrefix(lines[3], "│PK id INT"), lines[3])
	_, attr = c.Get(1, 3)
	assert.Equal(t, AttrKey, attr)
}

func TestRenderRelationshipMarkers(t *testing.T) {
	c := renderDiagram(t, twoTables(false), State{})

	// Line runs along row 4 from A's right edge (col 22) to B's left edge (col 40).
	assert.Equal(t, '─', runeAt(c, 22, 4))
	assert.Equal(t, '─', runeAt(c, 30, 4))

	assert.Equal(t, '┼', runeAt(c, 23, 4), "source tick for 1")
	assert.Equal(t, '┼', runeAt(c, 39, 4), "target tick for 1..M")
	assert.Equal(t, '<', runeAt(c, 38, 4), "target crow's foot opens toward B")

	_, attr := c.Get(38, 4)
	assert.Equal(t, AttrMarker, attr)
}

func TestRenderOptionalRelationshipDashed(t *testing.T) {
	c := renderDiagram(t, twoTables(true), State{})

	assert.Equal(t, '─', runeAt(c, 24, 4))
	assert.Equal(t, ' ', runeAt(c, 25, 4))
	assert.Equal(t, '─', runeAt(c, 26, 4))
}

func TestRenderSelection(t *testing.T) {
	c := renderDiagram(t, twoTables(false), State{Selection: diagram.Selection{NodeID: "b"}, PendingSource: "a"})

	r, attr := c.Get(40, 0)
	assert.Equal(t, '╔', r)
	assert.Equal(t, AttrSelected, attr)

	_, attr = c.Get(0, 0)
	assert.Equal(t, AttrPending, attr)

	c = renderDiagram(t, twoTables(false), State{Selection: diagram.Selection{RelationshipID: "r"}})
	r, attr = c.Get(30, 4)
	assert.Equal(t, '━', r)
	assert.Equal(t, AttrSelected, attr)
}

func TestRenderAnnotation(t *testing.T) {
	d := &diagram.Diagram{Nodes: []diagram.Node{{
		ID: "n", Kind: diagram.KindAnnotation, Name: "Note",
		Size: diagram.Size{Width: 120, Height: 100}, Text: "remember the index",
	}}}
	c := renderDiagram(t, d, State{})

	assert.Equal(t, '┌', runeAt(c, 0, 0))
	lines := c.Lines()
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, lines[1], "Note")
	assert.Contains(t, lines[2], "remember")
	assert.Contains(t, lines[3], "the index")
}

func TestRenderFollowsTransform(t *testing.T) {
	tr := view.NewTransform(view.DefaultLimits())
	tr.PanBy(diagram.Point{X: 100, Y: 40})

	c := NewCanvas(40, 12)
	New(DefaultOptions()).Render(c, twoTables(false), tr, State{})

	assert.Equal(t, '╭', runeAt(c, 10, 2))
	assert.Equal(t, ' ', runeAt(c, 0, 0))
}

func TestRenderFarAwayNodeIsFast(t *testing.T) {
	d := twoTables(false)
	d.Nodes[1].Position = diagram.Point{X: 1e11}

	start := time.Now()
	c := NewCanvas(80, 24)
	New(DefaultOptions()).Render(c, d, view.NewTransform(view.DefaultLimits()), State{})
	assert.Less(t, time.Since(start), time.Second)

	assert.Equal(t, '─', runeAt(c, 50, 4), "line still runs off the right edge")
	assert.Equal(t, '─', runeAt(c, 79, 4))
}

func TestRenderExtremeCoordinatesDoNotPanic(t *testing.T) {
	d := twoTables(false)
	d.Nodes[1].Position = diagram.Point{X: 1e300, Y: -1e300}
	assert.NotPanics(t, func() { renderDiagram(t, d, State{}) })
}

func TestRenderSkipsDanglingRelationship(t *testing.T) {
	d := twoTables(false)
	d.Nodes = d.Nodes[:1]
	assert.NotPanics(t, func() { renderDiagram(t, d, State{}) })
}

func TestCellConversion(t *testing.T) {
	r := New(Options{})
	assert.Equal(t, diagram.Point{X: 35, Y: 50}, r.CellToScreen(3, 2))

	x, y := r.ScreenToCell(diagram.Point{X: 35, Y: 50})
	assert.Equal(t, 3, x)
	assert.Equal(t, 2, y)
}
