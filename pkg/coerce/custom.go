package coerce

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/zacharyburnett/TypePigeon/pkg/descriptor"
	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	decoderType         = reflect.TypeFor[value.Decoder]()
)

// toCustom builds a user-defined type. Text goes through UnmarshalText when
// the type has one, anything else through DecodeValue. Types with neither
// coerce to their underlying Go shape and convert. Errors from UnmarshalText
// and DecodeValue are returned as is.
func (e *Engine) toCustom(v any, t descriptor.Type) (any, error) {
	rt := t.Go
	elem := rt
	if rt.Kind() == reflect.Pointer {
		elem = rt.Elem()
	}
	ptr := reflect.New(elem)
	result := func() any {
		if rt.Kind() == reflect.Pointer {
			return ptr.Interface()
		}
		return ptr.Elem().Interface()
	}

	if sv := reflect.ValueOf(v); sv.Type() == elem {
		ptr.Elem().Set(sv)
		return result(), nil
	}
	if text, ok := isText(v); ok && ptr.Type().Implements(textUnmarshalerType) {
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
			return nil, err
		}
		return result(), nil
	}
	if ptr.Type().Implements(decoderType) {
		if err := ptr.Interface().(value.Decoder).DecodeValue(v); err != nil {
			return nil, err
		}
		return result(), nil
	}

	if elem.Kind() == reflect.Struct {
		if !value.IsMap(v) {
			return nil, unsupported(v, t)
		}
		data, err := json.Marshal(jsonReady(v))
		if err != nil {
			return nil, malformed(v, t, err)
		}
		if err := json.Unmarshal(data, ptr.Interface()); err != nil {
			return nil, malformed(v, t, err)
		}
		return result(), nil
	}

	shape, ok := unnamed(elem)
	if !ok {
		return nil, unsupported(v, t)
	}
	d, err := e.normalizer.Normalize(shape)
	if err != nil {
		return nil, newError(err, v, t, nil, "cannot describe %s", shape)
	}
	out, err := e.coerce(v, d)
	if err != nil {
		return nil, err
	}
	if err := assign(ptr.Elem(), out); err != nil {
		return nil, newError(ErrUnsupportedCast, v, t, err, "cannot store %T in %s", out, elem)
	}
	return result(), nil
}

// unnamed returns the predeclared or composite type sharing t's shape.
func unnamed(t reflect.Type) (reflect.Type, bool) {
	switch t.Kind() {
	case reflect.String:
		return reflect.TypeFor[string](), true
	case reflect.Bool:
		return reflect.TypeFor[bool](), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.TypeFor[int](), true
	case reflect.Float32, reflect.Float64:
		return reflect.TypeFor[float64](), true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return reflect.TypeFor[[]byte](), true
		}
		return reflect.SliceOf(t.Elem()), true
	case reflect.Array:
		return reflect.ArrayOf(t.Len(), t.Elem()), true
	case reflect.Map:
		return reflect.MapOf(t.Key(), t.Elem()), true
	}
	return nil, false
}

// jsonReady turns mappings into string-keyed maps for encoding/json.
func jsonReady(v any) any {
	if m, ok := value.AsMap(v); ok {
		out := make(map[string]any, m.Len())
		for p := m.Oldest(); p != nil; p = p.Next() {
			key, ok := p.Key.(string)
			if !ok {
				key = fmt.Sprint(p.Key)
			}
			out[key] = jsonReady(p.Value)
		}
		return out
	}
	switch v.(type) {
	case string, []byte:
		return v
	}
	if items, ok := value.Elements(v); ok {
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = jsonReady(item)
		}
		return out
	}
	return v
}
