package draft

import "reflect"

// share rewires next so that every subtree equal to its counterpart in base
// points at base's memory, and reports whether next equals base as a whole.
// next must be settable; base is only read.
func share(base, next reflect.Value) bool {
	if !base.IsValid() || !next.IsValid() {
		return base.IsValid() == next.IsValid()
	}
	if base.Type() != next.Type() {
		return false
	}

	switch next.Kind() {
	case reflect.Pointer:
		if base.IsNil() || next.IsNil() {
			return base.IsNil() && next.IsNil()
		}
		if base.Pointer() == next.Pointer() {
			return true
		}
		if share(base.Elem(), next.Elem()) {
			next.Set(base)
			return true
		}
		return false

	case reflect.Map:
		return shareMap(base, next)

	case reflect.Slice:
		if base.IsNil() || next.IsNil() {
			return base.IsNil() && next.IsNil()
		}
		if base.Pointer() == next.Pointer() && base.Len() == next.Len() {
			return true
		}
		same := base.Len() == next.Len()
		n := min(base.Len(), next.Len())
		for i := 0; i < n; i++ {
			if !share(base.Index(i), next.Index(i)) {
				same = false
			}
		}
		if same {
			next.Set(base)
		}
		return same

	case reflect.Array:
		same := true
		for i := 0; i < next.Len(); i++ {
			if !share(base.Index(i), next.Index(i)) {
				same = false
			}
		}
		return same

	case reflect.Struct:
		if hasHiddenFields(next.Type()) {
			return reflect.DeepEqual(base.Interface(), next.Interface())
		}
		same := true
		for i := 0; i < next.NumField(); i++ {
			if !share(base.Field(i), next.Field(i)) {
				same = false
			}
		}
		return same

	case reflect.Interface:
		if base.IsNil() || next.IsNil() {
			return base.IsNil() && next.IsNil()
		}
		inner := next.Elem()
		if base.Elem().Type() != inner.Type() {
			return false
		}
		tmp := reflect.New(inner.Type()).Elem()
		tmp.Set(inner)
		if share(base.Elem(), tmp) {
			next.Set(base)
			return true
		}
		next.Set(tmp)
		return false

	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return base.Pointer() == next.Pointer()

	default:
		return base.Equal(next)
	}
}

func shareMap(base, next reflect.Value) bool {
	if base.IsNil() || next.IsNil() {
		return base.IsNil() && next.IsNil()
	}
	if base.Pointer() == next.Pointer() {
		return true
	}
	same := base.Len() == next.Len()
	elem := next.Type().Elem()
	for _, key := range next.MapKeys() {
		prev := base.MapIndex(key)
		if !prev.IsValid() {
			same = false
			continue
		}
		tmp := reflect.New(elem).Elem()
		tmp.Set(next.MapIndex(key))
		if share(prev, tmp) {
			next.SetMapIndex(key, prev)
			continue
		}
		next.SetMapIndex(key, tmp)
		same = false
	}
	if same {
		next.Set(base)
	}
	return same
}

// hasHiddenFields reports whether t carries unexported fields, which cannot be
// rewired and are compared as a whole instead.
func hasHiddenFields(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			return true
		}
	}
	return false
}
