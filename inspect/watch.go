package inspect

import (
	"fmt"
	"io"
	"sync"

	"github.com/odvcencio/furry-model/state"
)

// Watch writes the changes of every snapshot src publishes to w, in Text
// form. It returns the unsubscribe func.
func Watch[S any](src state.Readable[S], w io.Writer) func() {
	if src == nil || w == nil {
		return func() {}
	}
	var mu sync.Mutex
	prev := src.Current()
	return src.Subscribe(func(next S) {
		mu.Lock()
		defer mu.Unlock()
		changes, err := Diff(prev, next)
		prev = next
		if err != nil {
			fmt.Fprintf(w, "! %v\n", err)
			return
		}
		_, _ = io.WriteString(w, Text(changes))
	})
}
