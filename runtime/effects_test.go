package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/odvcencio/furry-model/state"
)

func TestAfter_PostsCallWithoutDelay(t *testing.T) {
	store := state.New(0)
	effect := After(0, CallMsg{Fn: func() {
		_ = store.Update(state.Func[int](func(n *int) { *n++ }))
	}})
	if effect.Name != "after" {
		t.Fatalf("expected effect name after, got %q", effect.Name)
	}

	var posted []Message
	effect.Run(context.Background(), func(msg Message) bool {
		posted = append(posted, msg)
		return true
	})
	if len(posted) != 1 {
		t.Fatalf("expected one post, got %d", len(posted))
	}
	if store.Current() != 0 {
		t.Fatalf("expected effect to leave the store alone, got %d", store.Current())
	}
	posted[0].(CallMsg).Fn()
	if store.Current() != 1 {
		t.Fatalf("expected posted call to update the store, got %d", store.Current())
	}
}

func TestAfter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	After(time.Hour, TickMsg{}).Run(ctx, func(Message) bool {
		calls++
		return true
	})
	if calls != 0 {
		t.Fatalf("expected no post after cancel, got %d", calls)
	}
}

func TestEvery_SkipsNilMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticks := 0
	posts := 0
	effect := Every(time.Millisecond, func(time.Time) Message {
		ticks++
		if ticks%2 == 1 {
			return nil
		}
		return InvalidateMsg{}
	})
	effect.Run(ctx, func(Message) bool {
		posts++
		if posts == 2 {
			cancel()
		}
		return true
	})
	if posts < 2 || ticks < 2*posts {
		t.Fatalf("expected every other tick to post, got %d posts and %d ticks", posts, ticks)
	}
}

func TestEvery_Invalid(t *testing.T) {
	for _, effect := range []Effect{
		Every(0, func(time.Time) Message { return InvalidateMsg{} }),
		Every(time.Millisecond, nil),
	} {
		calls := 0
		effect.Run(context.Background(), func(Message) bool {
			calls++
			return true
		})
		if calls != 0 {
			t.Fatalf("expected no posts for invalid effect, got %d", calls)
		}
	}
}
