package render

// BoxStyle defines the characters used to draw a box.
type BoxStyle struct {
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
	Horizontal  rune
	Vertical    rune
}

// Predefined box styles
var (
	// EntityBoxStyle uses rounded corners
	EntityBoxStyle = BoxStyle{
		TopLeft:     '╭',
		TopRight:    '╮',
		BottomLeft:  '╰',
		BottomRight: '╯',
		Horizontal:  '─',
		Vertical:    '│',
	}

	// AnnotationBoxStyle uses dashed edges
	AnnotationBoxStyle = BoxStyle{
		TopLeft:     '┌',
		TopRight:    '┐',
		BottomLeft:  '└',
		BottomRight: '┘',
		Horizontal:  '╌',
		Vertical:    '┆',
	}

	// SelectedBoxStyle uses double-line characters
	SelectedBoxStyle = BoxStyle{
		TopLeft:     '╔',
		TopRight:    '╗',
		BottomLeft:  '╚',
		BottomRight: '╝',
		Horizontal:  '═',
		Vertical:    '║',
	}

	// ASCIIBoxStyle uses ASCII characters
	ASCIIBoxStyle = BoxStyle{
		TopLeft:     '+',
		TopRight:    '+',
		BottomLeft:  '+',
		BottomRight: '+',
		Horizontal:  '-',
		Vertical:    '|',
	}
)

// LineStyle holds the runes for relationship lines and their end markers.
type LineStyle struct {
	Horizontal rune
	Vertical   rune
	// Selected lines
	HeavyHorizontal rune
	HeavyVertical   rune
	// Markers
	TickAcrossHorizontal rune // tick on a mostly horizontal line
	TickAcrossVertical   rune
	Circle               rune
	FootLeft             rune // crow's foot opening to the left
	FootRight            rune
	FootUp               rune
	FootDown             rune
	// Entity body
	Separator rune
}

// DefaultLineStyle uses Unicode box-drawing characters
var DefaultLineStyle = LineStyle{
	Horizontal:           '─',
	Vertical:             '│',
	HeavyHorizontal:      '━',
	HeavyVertical:        '┃',
	TickAcrossHorizontal: '┼',
	TickAcrossVertical:   '┼',
	Circle:               'o',
	FootLeft:             '>',
	FootRight:            '<',
	FootUp:               'V',
	FootDown:             'Λ',
	Separator:            '─',
}

// ASCIILineStyle renders with plain ASCII
var ASCIILineStyle = LineStyle{
	Horizontal:           '-',
	Vertical:             '|',
	HeavyHorizontal:      '=',
	HeavyVertical:        '#',
	TickAcrossHorizontal: '|',
	TickAcrossVertical:   '-',
	Circle:               'o',
	FootLeft:             '>',
	FootRight:            '<',
	FootUp:               'V',
	FootDown:             '^',
	Separator:            '-',
}

// Theme bundles box and line styles.
type Theme struct {
	Name       string
	Entity     BoxStyle
	Annotation BoxStyle
	Selected   BoxStyle
	Lines      LineStyle
}

// Themes by name.
var Themes = map[string]Theme{
	"unicode": {Name: "unicode", Entity: EntityBoxStyle, Annotation: AnnotationBoxStyle, Selected: SelectedBoxStyle, Lines: DefaultLineStyle},
	"ascii":   {Name: "ascii", Entity: ASCIIBoxStyle, Annotation: ASCIIBoxStyle, Selected: ASCIIBoxStyle, Lines: ASCIILineStyle},
}

// ThemeByName returns the named theme, falling back to "unicode".
func ThemeByName(name string) Theme {
	if t, ok := Themes[name]; ok {
		return t
	}
	return Themes["unicode"]
}
