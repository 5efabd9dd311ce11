package draft

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/mohae/deepcopy"
)

const fieldTag = "mapstructure"

// assign copies each entry of fields onto dst, replacing whole top-level values.
// Nested structs, maps and slices are replaced, never merged.
func assign(dst reflect.Value, fields map[string]any) error {
	for dst.Kind() == reflect.Pointer {
		if dst.IsNil() {
			if !dst.CanSet() {
				return fmt.Errorf("%w: nil %s", ErrPatchTarget, dst.Type())
			}
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		dst = dst.Elem()
	}

	switch dst.Kind() {
	case reflect.Struct:
		return assignStruct(dst, fields)
	case reflect.Map:
		return assignMap(dst, fields)
	case reflect.Interface:
		if dst.IsNil() {
			return fmt.Errorf("%w: nil %s", ErrPatchTarget, dst.Type())
		}
		if inner := dst.Elem(); inner.Kind() == reflect.Map {
			return assignMap(inner, fields)
		}
	}
	return fmt.Errorf("%w: %s", ErrPatchTarget, dst.Type())
}

func assignStruct(dst reflect.Value, fields map[string]any) error {
	fresh := reflect.New(dst.Type())
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     fresh.Interface(),
		Metadata:   &md,
		ZeroFields: true,
		TagName:    fieldTag,
	})
	if err != nil {
		return fmt.Errorf("patch decoder: %w", err)
	}
	if err := decoder.Decode(fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		return fmt.Errorf("%w: %s", ErrUnknownField, strings.Join(md.Unused, ", "))
	}

	decoded := make(map[string]bool, len(md.Keys))
	for _, key := range md.Keys {
		if !strings.ContainsAny(key, ".[") {
			decoded[key] = true
		}
	}

	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || !decoded[fieldKey(field)] {
			continue
		}
		dst.Field(i).Set(fresh.Elem().Field(i))
	}
	return nil
}

func assignMap(dst reflect.Value, fields map[string]any) error {
	t := dst.Type()
	if t.Key().Kind() != reflect.String {
		return fmt.Errorf("%w: %s", ErrPatchTarget, t)
	}
	if dst.IsNil() {
		if !dst.CanSet() {
			return fmt.Errorf("%w: nil %s", ErrPatchTarget, t)
		}
		dst.Set(reflect.MakeMapWithSize(t, len(fields)))
	}

	elem := t.Elem()
	for key, raw := range fields {
		value := reflect.New(elem).Elem()
		switch {
		case raw == nil:
		case reflect.TypeOf(raw).AssignableTo(elem):
			value.Set(reflect.ValueOf(deepcopy.Copy(raw)))
		default:
			if err := mapstructure.Decode(raw, value.Addr().Interface()); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidPatch, key, err)
			}
		}
		dst.SetMapIndex(reflect.ValueOf(key).Convert(t.Key()), value)
	}
	return nil
}

func fieldKey(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get(fieldTag), ",")
	if name == "" {
		return field.Name
	}
	return name
}
