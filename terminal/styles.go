package terminal

import (
	"erd/render"

	"github.com/gdamore/tcell/v2"
)

var (
	statusStyle = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	helpStyle   = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
)

var attrStyles = map[render.Attr]tcell.Style{
	render.AttrEntity:       tcell.StyleDefault.Foreground(tcell.ColorSilver),
	render.AttrAnnotation:   tcell.StyleDefault.Foreground(tcell.ColorKhaki),
	render.AttrHeader:       tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true),
	render.AttrKey:          tcell.StyleDefault.Foreground(tcell.ColorGold),
	render.AttrRelationship: tcell.StyleDefault.Foreground(tcell.ColorTeal),
	render.AttrMarker:       tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true),
	render.AttrLabel:        tcell.StyleDefault.Foreground(tcell.ColorGray).Italic(true),
	render.AttrSelected:     tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
	render.AttrPending:      tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true),
}

// styleFor maps a canvas attribute to a screen style.
func styleFor(attr render.Attr) tcell.Style {
	if s, ok := attrStyles[attr]; ok {
		return s
	}
	return tcell.StyleDefault
}
