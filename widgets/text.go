// Package widgets provides small widgets bound to state stores.
package widgets

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-model/runtime"
)

// Alignment controls horizontal text placement.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// truncateString truncates a string to fit within maxWidth cells.
// Adds "..." if truncated.
func truncateString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// alignOffset returns the column where text of the given width starts.
func alignOffset(align Alignment, textWidth, width int) int {
	switch align {
	case AlignCenter:
		return (width - textWidth) / 2
	case AlignRight:
		return width - textWidth
	default:
		return 0
	}
}

// drawString writes s on one row starting at x, advancing by each rune's
// cell width. Runes past maxX are dropped.
func drawString(screen tcell.Screen, x, y, maxX int, s string, style tcell.Style) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > maxX {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x += w
	}
}

// fillRow paints bounds' row y with spaces.
func fillRow(screen tcell.Screen, bounds runtime.Rect, y int, style tcell.Style) {
	for x := bounds.X; x < bounds.X+bounds.Width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
}
