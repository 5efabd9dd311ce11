package widgets

import (
	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/furry-model/runtime"
)

// Column stacks children top to bottom. Each child gets one row unless it
// implements runtime.Sizer.
type Column struct {
	children []runtime.Widget
	gap      int
}

// NewColumn creates a column of children.
func NewColumn(children ...runtime.Widget) *Column {
	return &Column{children: children}
}

// SetGap sets the number of blank rows between children.
func (c *Column) SetGap(gap int) {
	if gap < 0 {
		gap = 0
	}
	c.gap = gap
}

// Add appends a child. Add children before the column is mounted.
func (c *Column) Add(child runtime.Widget) {
	if child != nil {
		c.children = append(c.children, child)
	}
}

// ChildWidgets returns the children for lifecycle walks.
func (c *Column) ChildWidgets() []runtime.Widget {
	return c.children
}

// Rows returns the total height of the column.
func (c *Column) Rows(width int) int {
	total := 0
	for i, child := range c.children {
		if i > 0 {
			total += c.gap
		}
		total += rowsOf(child, width)
	}
	return total
}

// Draw lays children out in order until bounds runs out of rows.
func (c *Column) Draw(screen tcell.Screen, bounds runtime.Rect) {
	y := bounds.Y
	maxY := bounds.Y + bounds.Height
	for i, child := range c.children {
		if i > 0 {
			y += c.gap
		}
		if y >= maxY {
			return
		}
		h := min(rowsOf(child, bounds.Width), maxY-y)
		child.Draw(screen, runtime.Rect{X: bounds.X, Y: y, Width: bounds.Width, Height: h})
		y += h
	}
}

func rowsOf(w runtime.Widget, width int) int {
	if sizer, ok := w.(runtime.Sizer); ok {
		return max(sizer.Rows(width), 0)
	}
	return 1
}
