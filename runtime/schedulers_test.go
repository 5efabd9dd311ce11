package runtime

import (
	"testing"

	"github.com/odvcencio/furry-model/state"
)

func countPosts[M Message](count *int, accept bool) PostFunc {
	return func(msg Message) bool {
		if _, ok := msg.(M); ok {
			*count++
		}
		return accept
	}
}

func TestQueueScheduler_CoalescesPosts(t *testing.T) {
	queue := state.NewQueue()
	posted := 0
	scheduler := NewQueueScheduler(queue, countPosts[QueueFlushMsg](&posted, true))

	scheduler.Schedule(func() {})
	scheduler.Schedule(func() {})
	if posted != 1 {
		t.Fatalf("expected 1 flush post, got %d", posted)
	}
	if queue.Len() != 2 {
		t.Fatalf("expected 2 queued callbacks, got %d", queue.Len())
	}

	scheduler.resetPending()
	scheduler.Schedule(func() {})
	if posted != 2 {
		t.Fatalf("expected 2 flush posts after reset, got %d", posted)
	}
}

func TestQueueScheduler_RepostsOnFailedSend(t *testing.T) {
	attempts := 0
	scheduler := NewQueueScheduler(nil, countPosts[QueueFlushMsg](&attempts, false))

	scheduler.Schedule(func() {})
	scheduler.Schedule(func() {})
	if attempts != 2 {
		t.Fatalf("expected 2 post attempts, got %d", attempts)
	}
	if scheduler.Queue().Len() != 2 {
		t.Fatalf("expected callbacks to stay queued, got %d", scheduler.Queue().Len())
	}
}

func TestInvalidator_CoalescesPosts(t *testing.T) {
	posted := 0
	invalidator := NewInvalidator(countPosts[InvalidateMsg](&posted, true))

	invalidator.Invalidate()
	invalidator.Invalidate()
	if posted != 1 {
		t.Fatalf("expected 1 invalidate post, got %d", posted)
	}

	invalidator.resetPending()
	invalidator.Invalidate()
	if posted != 2 {
		t.Fatalf("expected 2 invalidate posts after reset, got %d", posted)
	}
}

func TestInvalidator_Schedule(t *testing.T) {
	posted := 0
	calls := 0
	invalidator := NewInvalidator(countPosts[InvalidateMsg](&posted, true))

	invalidator.Schedule(func() { calls++ })
	if calls != 1 {
		t.Fatalf("expected schedule to run callback, got %d", calls)
	}
	if posted != 1 {
		t.Fatalf("expected invalidate post after schedule, got %d", posted)
	}
}

func TestInvalidator_StoreSubscriber(t *testing.T) {
	posted := 0
	invalidator := NewInvalidator(countPosts[InvalidateMsg](&posted, true))
	store := state.New(0)
	got := 0
	store.SubscribeWithScheduler(invalidator, func(v int) { got = v })

	if err := store.Update(state.Func[int](func(v *int) { *v = 7 })); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got != 7 || posted != 1 {
		t.Fatalf("expected immediate callback and one invalidate, got value=%d posts=%d", got, posted)
	}
}
