package widgets

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-model/runtime"
	"github.com/odvcencio/furry-model/state"
)

// Label is a one-row text widget bound to a readable string, usually a
// Selector over a store. It subscribes in Mount and drops the subscription in
// Unmount; updates arrive through the scheduler it was given or the one the
// loop binds.
type Label struct {
	source    state.Readable[string]
	subs      state.Subscriptions
	invalid   func()
	style     tcell.Style
	alignment Alignment

	mu      sync.Mutex
	text    string
	mounted bool
}

// NewLabel creates a label bound to source. A nil scheduler waits for the
// loop's scheduler at Bind, or runs updates synchronously if never bound.
func NewLabel(source state.Readable[string], scheduler state.Scheduler) *Label {
	label := &Label{
		source:    source,
		style:     tcell.StyleDefault,
		alignment: AlignLeft,
	}
	label.subs.SetScheduler(scheduler)
	if source != nil {
		label.text = source.Current()
	}
	return label
}

// Text returns the current label text.
func (l *Label) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

// SetStyle sets the label style.
func (l *Label) SetStyle(style tcell.Style) {
	l.style = style
}

// SetAlignment sets text alignment.
func (l *Label) SetAlignment(align Alignment) {
	l.alignment = align
}

// Bind takes the loop scheduler unless one was given at construction, and
// uses the loop to request redraws.
func (l *Label) Bind(services runtime.Services) {
	if l.subs.Scheduler() == nil {
		l.subs.SetScheduler(services.Scheduler())
	}
	l.invalid = services.Invalidate
}

// Unbind forgets the loop.
func (l *Label) Unbind() {
	l.invalid = nil
}

// Mount subscribes to the source and refreshes the text.
func (l *Label) Mount() {
	l.mu.Lock()
	l.mounted = true
	l.mu.Unlock()
	l.subs.Clear()
	if l.source == nil {
		l.setText("")
		return
	}
	l.setText(l.source.Current())
	state.Observe(&l.subs, l.source, l.onChange)
}

// Unmount drops the subscription. The last text is kept.
func (l *Label) Unmount() {
	l.mu.Lock()
	l.mounted = false
	l.mu.Unlock()
	l.subs.Clear()
}

// Width returns the display width of the text in cells.
func (l *Label) Width() int {
	return runewidth.StringWidth(l.Text())
}

// Draw writes the text on the first row of bounds, truncated and aligned.
func (l *Label) Draw(screen tcell.Screen, bounds runtime.Rect) {
	if screen == nil || bounds.Empty() {
		return
	}
	text := truncateString(l.Text(), bounds.Width)
	x := bounds.X + alignOffset(l.alignment, runewidth.StringWidth(text), bounds.Width)
	fillRow(screen, bounds, bounds.Y, l.style)
	drawString(screen, x, bounds.Y, bounds.X+bounds.Width, text, l.style)
}

func (l *Label) onChange(text string) {
	l.mu.Lock()
	mounted := l.mounted
	l.mu.Unlock()
	if !mounted {
		return
	}
	l.setText(text)
	if l.invalid != nil {
		l.invalid()
	}
}

func (l *Label) setText(text string) {
	l.mu.Lock()
	l.text = text
	l.mu.Unlock()
}
