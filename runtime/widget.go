package runtime

import "github.com/gdamore/tcell/v2"

// Rect is a region of the screen in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Row returns the single-row region at offset y inside r.
func (r Rect) Row(y int) Rect {
	if y < 0 || y >= r.Height {
		return Rect{}
	}
	return Rect{X: r.X, Y: r.Y + y, Width: r.Width, Height: 1}
}

// Widget draws itself into a region of a screen.
type Widget interface {
	Draw(screen tcell.Screen, bounds Rect)
}

// Sizer is implemented by widgets that need more than one row.
type Sizer interface {
	Rows(width int) int
}

// ChildProvider exposes child widgets for tree walks.
type ChildProvider interface {
	ChildWidgets() []Widget
}
