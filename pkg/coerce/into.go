package coerce

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

// CoerceInto coerces v to the type ptr points to and stores the result.
// Slices, arrays, maps and pointers are filled element by element, so
// []int, map[string]float64 or [2]string targets receive typed Go values.
func (e *Engine) CoerceInto(v any, ptr any) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("coerce: CoerceInto needs a non-nil pointer, got %T", ptr)
	}
	dst := rv.Elem()
	out, err := e.Coerce(v, dst.Type())
	if err != nil {
		return err
	}
	if err := assign(dst, out); err != nil {
		return newError(ErrUnsupportedCast, v, nil, err, "cannot store %T in %s", out, dst.Type())
	}
	return nil
}

// Into coerces v to T.
func Into[T any](e *Engine, v any) (T, error) {
	var out T
	err := e.CoerceInto(v, &out)
	return out, err
}

var errShape = errors.New("shape mismatch")

// assign stores a coerced value in dst, converting containers element-wise.
func assign(dst reflect.Value, src any) error {
	if src == nil {
		dst.SetZero()
		return nil
	}
	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(dst.Type()) {
		dst.Set(sv)
		return nil
	}

	switch dst.Kind() {
	case reflect.Pointer:
		p := reflect.New(dst.Type().Elem())
		if err := assign(p.Elem(), src); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	case reflect.Slice:
		items, ok := value.Elements(src)
		if !ok {
			break
		}
		s := reflect.MakeSlice(dst.Type(), len(items), len(items))
		for i, item := range items {
			if err := assign(s.Index(i), item); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		dst.Set(s)
		return nil
	case reflect.Array:
		items, ok := value.Elements(src)
		if !ok || len(items) != dst.Len() {
			break
		}
		for i, item := range items {
			if err := assign(dst.Index(i), item); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		return nil
	case reflect.Map:
		m, ok := value.AsMap(src)
		if !ok {
			break
		}
		out := reflect.MakeMapWithSize(dst.Type(), m.Len())
		for p := m.Oldest(); p != nil; p = p.Next() {
			key := reflect.New(dst.Type().Key()).Elem()
			if err := assign(key, p.Key); err != nil {
				return fmt.Errorf("key %v: %w", p.Key, err)
			}
			val := reflect.New(dst.Type().Elem()).Elem()
			if err := assign(val, p.Value); err != nil {
				return fmt.Errorf("key %v: %w", p.Key, err)
			}
			out.SetMapIndex(key, val)
		}
		dst.Set(out)
		return nil
	}

	// int to string conversions would yield a rune, not digits.
	if sv.CanConvert(dst.Type()) && (dst.Kind() != reflect.String || sv.Kind() == reflect.String) {
		dst.Set(sv.Convert(dst.Type()))
		return nil
	}
	return fmt.Errorf("%w: %T into %s", errShape, src, dst.Type())
}
