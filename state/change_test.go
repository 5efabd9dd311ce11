package state_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/furry-model/state"
)

type future struct{}

func (future) Wait() error { return nil }

func TestChangeOf_Forms(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want int
	}{
		{"func", func(p *person) { p.Age = 31 }, 31},
		{"mutator", func(p *person) error { p.Age = 32; return nil }, 32},
		{"patch", map[string]any{"Age": 33}, 33},
		{"change", state.Func[person](func(p *person) { p.Age = 34 }), 34},
		{"ignored result", func(p *person) int { p.Age = 35; return 1 }, 35},
		{"nil any result", func(p *person) any { p.Age = 36; return nil }, 36},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := state.New(person{Name: "Jason", Age: 30})
			require.NoError(t, store.Apply(tc.in))
			assert.Equal(t, tc.want, store.Current().Age)
		})
	}
}

func TestChangeOf_Nil(t *testing.T) {
	change, err := state.ChangeOf[person](nil)
	assert.NoError(t, err)
	assert.Nil(t, change)

	var fn func(*person) string
	change, err = state.ChangeOf[person](fn)
	assert.NoError(t, err)
	assert.Nil(t, change)
}

func TestChangeOf_Unsupported(t *testing.T) {
	for _, in := range []any{42, "age", func(person) {}, func(*person, int) {}} {
		_, err := state.ChangeOf[person](in)
		assert.ErrorIs(t, err, state.ErrUnsupportedChange)
	}
}

func TestChangeOf_DeferredResult(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})

	err := store.Apply(func(p *person) future {
		p.Age = 31
		return future{}
	})
	assert.ErrorIs(t, err, state.ErrAsyncUpdate)

	err = store.Apply(func(p *person) any {
		p.Age = 32
		return make(chan error, 1)
	})
	assert.ErrorIs(t, err, state.ErrAsyncUpdate)
	assert.Equal(t, 30, store.Current().Age)
}

func TestChangeOf_ErrorResult(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})
	boom := errors.New("boom")

	err := store.Apply(func(p *person) any {
		p.Age = 31
		return boom
	})
	assert.Same(t, boom, err)
	assert.Equal(t, 30, store.Current().Age)
}

func TestStore_AsyncNestedUpdateFailsOuter(t *testing.T) {
	store := state.New(person{Name: "Jason", Age: 30})

	err := store.Update(state.Mutator[person](func(p *person) error {
		p.Name = "Oriana"
		return store.Apply(func(p *person) future {
			p.Age = 31
			return future{}
		})
	}))

	assert.ErrorIs(t, err, state.ErrAsyncUpdate)
	assert.Equal(t, person{Name: "Jason", Age: 30}, store.Current())
	assert.False(t, store.Updating())
}
