package runtime

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// Message represents an event flowing into the loop.
// Messages come from terminal input, timers, or background goroutines.
type Message interface {
	isMessage()
}

// KeyMsg represents a keyboard input event.
type KeyMsg struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

func (KeyMsg) isMessage() {}

// Ctrl reports whether the control modifier was held.
func (m KeyMsg) Ctrl() bool {
	return m.Mod&tcell.ModCtrl != 0
}

// ResizeMsg indicates the terminal size changed.
type ResizeMsg struct {
	Width  int
	Height int
}

func (ResizeMsg) isMessage() {}

// TickMsg is sent on each frame tick.
type TickMsg struct {
	Time time.Time
}

func (TickMsg) isMessage() {}

// QueueFlushMsg triggers a state queue flush in the loop.
type QueueFlushMsg struct{}

func (QueueFlushMsg) isMessage() {}

// InvalidateMsg requests a render pass.
type InvalidateMsg struct{}

func (InvalidateMsg) isMessage() {}

// CallMsg runs Fn on the loop goroutine.
type CallMsg struct {
	Fn func()
}

func (CallMsg) isMessage() {}

// QuitMsg stops the loop.
type QuitMsg struct{}

func (QuitMsg) isMessage() {}

func keyMsg(ev *tcell.EventKey) KeyMsg {
	msg := KeyMsg{Key: ev.Key(), Mod: ev.Modifiers()}
	if msg.Key == tcell.KeyRune {
		msg.Rune = ev.Rune()
	}
	return msg
}
