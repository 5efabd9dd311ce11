package state

import (
	"fmt"
	"reflect"

	"github.com/odvcencio/furry-model/draft"
)

// Change is a unit of work applied to a draft inside a transaction.
// It is implemented by Mutator, Func and Patch.
type Change[S any] interface {
	apply(engine draft.Engine[S], d *draft.Draft[S]) error
}

// Mutator edits the draft in place. A non-nil error rolls the transaction back.
type Mutator[S any] func(draft *S) error

func (m Mutator[S]) apply(_ draft.Engine[S], d *draft.Draft[S]) error {
	if m == nil {
		return nil
	}
	target := d.Value()
	if target == nil {
		return draft.ErrRevoked
	}
	return m(target)
}

// Func edits the draft in place and cannot fail.
type Func[S any] func(draft *S)

func (f Func[S]) apply(_ draft.Engine[S], d *draft.Draft[S]) error {
	if f == nil {
		return nil
	}
	target := d.Value()
	if target == nil {
		return draft.ErrRevoked
	}
	f(target)
	return nil
}

// Patch assigns its top-level keys onto the draft. Keys match struct fields
// case-insensitively or by `mapstructure` tag; map state takes keys as-is.
// Values replace whole fields: nested values are never merged.
type Patch[S any] map[string]any

func (p Patch[S]) apply(engine draft.Engine[S], d *draft.Draft[S]) error {
	return engine.Patch(d, p)
}

// Deferred is implemented by results that complete after the call returns,
// such as futures. Changes must not produce them.
type Deferred interface {
	Wait() error
}

var (
	deferredType = reflect.TypeOf((*Deferred)(nil)).Elem()
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

// ChangeOf normalizes a loosely typed value into a Change.
//
// It accepts a Change, func(*S), func(*S) error, a map[string]any patch, or any
// func(*S) R. Results of the last form are inspected after the call: a channel
// or a Deferred fails the transaction with ErrAsyncUpdate, a non-nil error is
// returned as is, anything else is ignored. A nil value yields a nil Change.
func ChangeOf[S any](v any) (Change[S], error) {
	switch c := v.(type) {
	case nil:
		return nil, nil
	case Change[S]:
		return c, nil
	case func(*S):
		return Func[S](c), nil
	case func(*S) error:
		return Mutator[S](c), nil
	case map[string]any:
		return Patch[S](c), nil
	}

	fn := reflect.ValueOf(v)
	t := fn.Type()
	if t.Kind() == reflect.Func && !t.IsVariadic() && t.NumIn() == 1 &&
		t.In(0) == reflect.TypeOf((**S)(nil)).Elem() && t.NumOut() <= 1 {
		if fn.IsNil() {
			return nil, nil
		}
		return reflectChange[S]{fn: fn}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedChange, v)
}

type reflectChange[S any] struct {
	fn reflect.Value
}

func (c reflectChange[S]) apply(_ draft.Engine[S], d *draft.Draft[S]) error {
	target := d.Value()
	if target == nil {
		return draft.ErrRevoked
	}
	out := c.fn.Call([]reflect.Value{reflect.ValueOf(target)})
	if len(out) == 0 {
		return nil
	}
	return checkResult(out[0])
}

func checkResult(result reflect.Value) error {
	for result.Kind() == reflect.Interface {
		if result.IsNil() {
			return nil
		}
		result = result.Elem()
	}
	if result.Kind() == reflect.Chan || result.Type().Implements(deferredType) {
		return ErrAsyncUpdate
	}
	if result.Type().Implements(errorType) {
		if isNilable(result) && result.IsNil() {
			return nil
		}
		return result.Interface().(error)
	}
	return nil
}

func isNilable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return true
	}
	return false
}
