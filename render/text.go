package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// WrapText wraps text to fit within maxWidth cells using word boundaries.
// Explicit newlines start a new line. Words longer than maxWidth are cut.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var line strings.Builder
		width := 0
		for _, word := range words {
			ww := runewidth.StringWidth(word)
			if ww > maxWidth {
				word = runewidth.Truncate(word, maxWidth, "")
				ww = runewidth.StringWidth(word)
			}
			if width > 0 && width+1+ww > maxWidth {
				lines = append(lines, line.String())
				line.Reset()
				width = 0
			}
			if width > 0 {
				line.WriteByte(' ')
				width++
			}
			line.WriteString(word)
			width += ww
		}
		lines = append(lines, line.String())
	}
	return lines
}

// Truncate shortens s to maxWidth cells, ending with "…" when cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// Center returns the x offset that centres s within width cells.
func Center(s string, width int) int {
	return max((width-runewidth.StringWidth(s))/2, 0)
}

// Width returns the display width of s in cells.
func Width(s string) int {
	return runewidth.StringWidth(s)
}
