package draft

import (
	"reflect"

	"github.com/mohae/deepcopy"
)

// Reflect returns the default engine.
//
// Drafts are deep copies made with github.com/mohae/deepcopy, so only exported
// struct fields survive a copy unless the type implements deepcopy.Interface.
// State types should hold plain data: func and chan fields compare by identity.
func Reflect[S any]() Engine[S] {
	return reflectEngine[S]{}
}

type reflectEngine[S any] struct{}

func (reflectEngine[S]) Produce(value S) S {
	return clone(value)
}

func (reflectEngine[S]) CreateDraft(base S) *Draft[S] {
	return New(base, clone(base))
}

func (reflectEngine[S]) FinishDraft(d *Draft[S]) (S, bool) {
	if d == nil {
		var zero S
		return zero, false
	}
	base := d.base
	if d.revoked {
		return base, false
	}
	next := d.Revoke()
	if share(reflect.ValueOf(&base).Elem(), reflect.ValueOf(&next).Elem()) {
		return base, false
	}
	return next, true
}

func (reflectEngine[S]) Patch(d *Draft[S], fields map[string]any) error {
	target := d.Value()
	if target == nil {
		return ErrRevoked
	}
	if len(fields) == 0 {
		return nil
	}
	return assign(reflect.ValueOf(target).Elem(), fields)
}

func clone[S any](value S) S {
	out, ok := deepcopy.Copy(value).(S)
	if !ok {
		var zero S
		return zero
	}
	return out
}
