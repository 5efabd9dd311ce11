package state_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/furry-model/state"
)

type person struct {
	Name string
	Age  int
}

func setAge(age int) state.Func[person] {
	return func(p *person) { p.Age = age }
}

func TestStore_UpdateWithMutator(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	initial := store.Current()

	require.NoError(t, store.Update(setAge(31)))

	assert.Equal(t, person{Name: "Jason", Age: 30}, initial)
	assert.Equal(t, person{Name: "Jason", Age: 31}, store.Current())
}

func TestStore_UpdateWithPatch(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	initial := store.Current()

	require.NoError(t, store.Update(state.Patch[person]{"age": 31}))

	assert.Equal(t, person{Name: "Jason", Age: 30}, initial)
	assert.Equal(t, person{Name: "Jason", Age: 31}, store.Current())

	require.NoError(t, store.Patch(map[string]any{"Name": "Oriana"}))
	assert.Equal(t, person{Name: "Oriana", Age: 31}, store.Current())
}

func TestStore_PatchErrorRollsBack(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	calls := 0
	store.Subscribe(func(person) { calls++ })

	err := store.Update(state.Patch[person]{"age": 31, "height": 180})

	require.Error(t, err)
	assert.Equal(t, 30, store.Current().Age)
	assert.Zero(t, calls)
	assert.False(t, store.Updating())
}

func TestStore_NestedUpdatesCommitOnce(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	var calls []person
	store.Subscribe(func(p person) {
		calls = append(calls, p)
	})

	err := store.Update(state.Mutator[person](func(p *person) error {
		if err := store.Update(setAge(31)); err != nil {
			return err
		}
		p.Name = "Oriana"
		return nil
	}))

	require.NoError(t, err)
	assert.Equal(t, []person{{Name: "Oriana", Age: 31}}, calls)
	assert.Equal(t, person{Name: "Oriana", Age: 31}, store.Current())
}

func TestStore_NestedErrorRollsBackOuter(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	boom := errors.New("boom")

	err := store.Update(state.Mutator[person](func(p *person) error {
		p.Name = "Oriana"
		return store.Update(state.Mutator[person](func(p *person) error {
			p.Age = 31
			return boom
		}))
	}))

	assert.Same(t, boom, err)
	assert.Equal(t, person{Name: "Jason", Age: 30}, store.Current())
	assert.False(t, store.Updating())
}

func TestStore_NotifiesSubscriber(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	var calls []person
	store.Subscribe(func(p person) {
		calls = append(calls, p)
	})

	assert.Empty(t, calls)

	require.NoError(t, store.Update(setAge(31)))
	assert.Equal(t, []person{{Name: "Jason", Age: 31}}, calls)
}

func TestStore_NotifiesInRegistrationOrder(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	var order []string
	store.Subscribe(func(person) { order = append(order, "first") })
	store.Subscribe(func(person) { order = append(order, "second") })
	store.Subscribe(func(person) { order = append(order, "third") })

	require.NoError(t, store.Update(setAge(31)))
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestStore_ConsistentStateDuringNotify(t *testing.T) {
	store := state.New(&person{Name: "Jason", Age: 30})
	seen := 0
	store.Subscribe(func(p *person) {
		seen++
		assert.Same(t, store.Current(), p)
		assert.False(t, store.Updating())
	})

	require.NoError(t, store.Update(state.Func[*person](func(p **person) {
		(*p).Age = 31
	})))
	assert.Equal(t, 1, seen)
}

func TestStore_Unsubscribe(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	calls := 0
	unsubscribe := store.Subscribe(func(person) { calls++ })

	require.NoError(t, store.Update(setAge(31)))
	assert.Equal(t, 1, calls)

	unsubscribe()
	unsubscribe()
	require.NoError(t, store.Update(setAge(32)))
	assert.Equal(t, 1, calls)
	assert.Zero(t, store.Subscribers())
}

func TestStore_DuplicateSubscriptionsAreIndependent(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	calls := 0
	listener := func(person) { calls++ }

	first := store.Subscribe(listener)
	store.Subscribe(listener)

	require.NoError(t, store.Update(setAge(31)))
	assert.Equal(t, 2, calls)

	first()
	require.NoError(t, store.Update(setAge(32)))
	assert.Equal(t, 3, calls)
}

func TestStore_UnsubscribeDuringNotification(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	secondCalls := 0
	var unsubscribeSecond func()
	store.Subscribe(func(person) {
		unsubscribeSecond()
	})
	unsubscribeSecond = store.Subscribe(func(person) { secondCalls++ })

	require.NoError(t, store.Update(setAge(31)))
	assert.Equal(t, 1, secondCalls)

	require.NoError(t, store.Update(setAge(32)))
	assert.Equal(t, 1, secondCalls)
}

func TestStore_RollbackOnError(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	calls := 0
	store.Subscribe(func(person) { calls++ })
	boom := errors.New("boom")

	err := store.Update(state.Mutator[person](func(p *person) error {
		p.Age = 31
		return boom
	}))

	assert.Same(t, boom, err)
	assert.Equal(t, 30, store.Current().Age)
	assert.False(t, store.Updating())
	assert.Zero(t, calls)
}

func TestStore_RollbackOnPanic(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	calls := 0
	store.Subscribe(func(person) { calls++ })

	assert.PanicsWithValue(t, "boom", func() {
		_ = store.Update(state.Func[person](func(p *person) {
			p.Age = 31
			panic("boom")
		}))
	})

	assert.Equal(t, 30, store.Current().Age)
	assert.False(t, store.Updating())
	assert.Zero(t, calls)

	require.NoError(t, store.Update(setAge(32)))
	assert.Equal(t, 32, store.Current().Age)
	assert.Equal(t, 1, calls)
}

func TestStore_NoopKeepsSnapshot(t *testing.T) {
	store := state.New(&person{Name: "Jason", Age: 30})
	before := store.Current()
	calls := 0
	store.Subscribe(func(*person) { calls++ })

	require.NoError(t, store.Update(state.Func[*person](func(p **person) {
		(*p).Age = 30
	})))
	require.NoError(t, store.Update(state.Func[*person](func(**person) {})))

	assert.Same(t, before, store.Current())
	assert.Zero(t, calls)
}

func TestStore_SnapshotNotMutatedByLaterUpdates(t *testing.T) {
	store := state.New(map[string]any{
		"name": "Jason",
		"tags": []any{"a", "b"},
		"home": map[string]any{"city": "Oslo"},
	})
	before := store.Current()

	require.NoError(t, store.Update(state.Func[map[string]any](func(m *map[string]any) {
		(*m)["home"].(map[string]any)["city"] = "Bergen"
		(*m)["tags"] = append((*m)["tags"].([]any), "c")
		(*m)["name"] = "Oriana"
	})))

	assert.Equal(t, map[string]any{
		"name": "Jason",
		"tags": []any{"a", "b"},
		"home": map[string]any{"city": "Oslo"},
	}, before)
	assert.Equal(t, "Bergen", store.Current()["home"].(map[string]any)["city"])
}

func TestStore_AcceptsObjectsAndArrays(t *testing.T) {
	objects := state.New(map[string]any{"obj": true})
	assert.Equal(t, map[string]any{"obj": true}, objects.Current())

	input := []int{1, 2, 3}
	arrays := state.New(input)
	input[0] = 9
	assert.Equal(t, []int{1, 2, 3}, arrays.Current())

	require.NoError(t, arrays.Update(state.Func[[]int](func(s *[]int) {
		*s = append(*s, 4)
	})))
	assert.Equal(t, []int{1, 2, 3, 4}, arrays.Current())
}

func TestStore_ExplicitStateType(t *testing.T) {
	type profile struct {
		Name string
		Age  int
	}
	store := state.New[profile](profile{Name: "Jason", Age: 30})

	require.NoError(t, store.Update(state.Func[profile](func(p *profile) {
		p.Name = "Oriana"
	})))
	assert.Equal(t, profile{Name: "Oriana", Age: 30}, store.Current())
}

func TestStore_ReadsInsideTransaction(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	assert.False(t, store.Updating())

	require.NoError(t, store.Update(state.Func[person](func(p *person) {
		p.Age = 31
		assert.True(t, store.Updating())
		assert.Equal(t, 30, store.Current().Age)
		assert.Equal(t, 31, p.Age)
	})))

	assert.False(t, store.Updating())
}

func TestStore_UpdateFromSubscriberStartsNewTransaction(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	var calls []int
	store.Subscribe(func(p person) {
		calls = append(calls, p.Age)
		if p.Age == 31 {
			require.NoError(t, store.Update(setAge(32)))
		}
	})

	require.NoError(t, store.Update(setAge(31)))

	assert.Equal(t, []int{31, 32}, calls)
	assert.Equal(t, 32, store.Current().Age)
	assert.False(t, store.Updating())
}

func TestStore_LaterSubscribersSeeNewestSnapshot(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	store.Subscribe(func(p person) {
		if p.Age == 31 {
			require.NoError(t, store.Update(setAge(32)))
		}
	})
	var seen []int
	store.Subscribe(func(p person) {
		seen = append(seen, p.Age)
		assert.Equal(t, store.Current(), p)
	})

	require.NoError(t, store.Update(setAge(31)))

	assert.Equal(t, 32, store.Current().Age)
	require.NotEmpty(t, seen)
	assert.Equal(t, 32, seen[len(seen)-1])
	assert.NotContains(t, seen, 31)
}

func TestStore_QueuedSubscriberSeesSnapshotAtFlush(t *testing.T) {
	queue := state.NewQueue()
	store := state.New(person{Name: "Jason", Age: 30}, state.WithScheduler(queue))
	var seen []int
	store.Subscribe(func(p person) {
		seen = append(seen, p.Age)
		assert.Equal(t, store.Current(), p)
	})

	require.NoError(t, store.Update(setAge(31)))
	require.NoError(t, store.Update(setAge(32)))
	assert.Equal(t, 2, queue.Flush())
	assert.Equal(t, []int{32, 32}, seen)
}

func TestStore_SubscribeDuringNotificationWaitsForNextCommit(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	var late []int
	added := false
	store.Subscribe(func(person) {
		if added {
			return
		}
		added = true
		store.Subscribe(func(p person) { late = append(late, p.Age) })
	})

	require.NoError(t, store.Update(setAge(31)))
	assert.Empty(t, late)
	assert.Equal(t, 2, store.Subscribers())

	require.NoError(t, store.Update(setAge(32)))
	assert.Equal(t, []int{32}, late)
}

func TestStore_SubscriberPanicAbortsNotification(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	later := 0
	store.Subscribe(func(person) { panic("subscriber failed") })
	store.Subscribe(func(person) { later++ })

	assert.PanicsWithValue(t, "subscriber failed", func() {
		_ = store.Update(setAge(31))
	})

	assert.Equal(t, 31, store.Current().Age)
	assert.False(t, store.Updating())
	assert.Zero(t, later)
}

func TestStore_AsyncChangeRollsBack(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	calls := 0
	store.Subscribe(func(person) { calls++ })

	err := store.Apply(func(p *person) <-chan struct{} {
		p.Age = 31
		return make(chan struct{})
	})

	assert.ErrorIs(t, err, state.ErrAsyncUpdate)
	assert.Equal(t, 30, store.Current().Age)
	assert.False(t, store.Updating())
	assert.Zero(t, calls)
}

func TestStore_ScheduledSubscriber(t *testing.T) {
	queue := state.NewQueue()
	store := state.New(person{Name: "Jason", Age: 30}, state.WithScheduler(queue))
	var got []int
	store.Subscribe(func(p person) { got = append(got, p.Age) })

	require.NoError(t, store.Update(setAge(31)))
	assert.Empty(t, got)
	assert.Equal(t, 1, queue.Len())

	assert.Equal(t, 1, queue.Flush())
	assert.Equal(t, []int{31}, got)
}

func TestStore_Hooks(t *testing.T) {
	var commits []state.Commit
	noops := 0
	var rollbacks []error
	store := state.New(person{Name: "Jason", Age: 30}, state.WithHooks(state.Hooks{
		OnCommit:   func(c state.Commit) { commits = append(commits, c) },
		OnNoop:     func() { noops++ },
		OnRollback: func(err error) { rollbacks = append(rollbacks, err) },
	}))
	store.Subscribe(func(person) {})
	boom := errors.New("boom")

	require.NoError(t, store.Update(setAge(31)))
	require.NoError(t, store.Update(setAge(31)))
	require.Error(t, store.Update(state.Mutator[person](func(*person) error { return boom })))
	assert.Panics(t, func() {
		_ = store.Update(state.Func[person](func(*person) { panic("x") }))
	})

	require.Len(t, commits, 1)
	assert.False(t, commits[0].ID.IsZero())
	assert.Equal(t, 1, commits[0].Subscribers)
	assert.Equal(t, 1, noops)
	assert.Equal(t, []error{boom, nil}, rollbacks)
}

func TestStore_NilChangeAndNilStore(t *testing.T) {
	store := state.New(person{Name: "Jason"})
	assert.NoError(t, store.Update(nil))
	assert.NoError(t, store.Apply(nil))

	var missing *state.Store[person]
	assert.NoError(t, missing.Update(setAge(1)))
	assert.Equal(t, person{}, missing.Current())
	assert.False(t, missing.Updating())
	assert.NotPanics(t, func() { missing.Subscribe(func(person) {})() })
}
