// Package jsonshape reduces arbitrary values to the shapes JSON can carry:
// nil, numbers, booleans, text, lists and mappings.
package jsonshape

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"golang.org/x/text/unicode/norm"

	"github.com/zacharyburnett/TypePigeon/pkg/coerce"
	"github.com/zacharyburnett/TypePigeon/pkg/descriptor"
	"github.com/zacharyburnett/TypePigeon/pkg/geo"
	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

// ErrUnhashableKey is returned when a mapping key reduces to a list or mapping.
var ErrUnhashableKey = errors.New("jsonshape: mapping key reduces to an unhashable value")

// fallbacks are tried in order for values with no JSON shape of their own.
var fallbacks = []descriptor.Type{descriptor.Float, descriptor.Int, descriptor.Bool, descriptor.String}

// Reducer turns values into their JSON shape.
type Reducer struct {
	engine *coerce.Engine
	nfc    bool
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithNFC normalizes every string in the output to Unicode NFC.
func WithNFC() Option {
	return func(r *Reducer) { r.nfc = true }
}

// NewReducer creates a reducer that converts leftover values through engine.
// A nil engine means coerce.NewEngine().
func NewReducer(engine *coerce.Engine, opts ...Option) *Reducer {
	if engine == nil {
		engine = coerce.NewEngine()
	}
	r := &Reducer{engine: engine}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reduce returns the JSON shape of v. Mapping keys are reduced too and are
// not restricted to text, so an integer key stays an integer. Mappings come
// back as *value.Map, lists and other iterables as []any.
func (r *Reducer) Reduce(v any) (any, error) {
	switch x := v.(type) {
	case value.Path:
		v = x.AsPosix()
	case value.Member:
		v = x.MemberName()
	}

	switch x := v.(type) {
	case nil, bool, int, float64:
		return x, nil
	case string:
		return r.text(x), nil
	case orb.Geometry, *geo.CRS, uuid.UUID, *semver.Version:
		return r.fallback(v, descriptor.String)
	}
	if p, ok := primitive(v); ok {
		return p, nil
	}

	if m, ok := value.AsMap(v); ok {
		return r.reduceMap(m)
	}
	if items, ok := value.Elements(v); ok {
		out := make([]any, len(items))
		for i, item := range items {
			reduced, err := r.Reduce(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = reduced
		}
		return out, nil
	}
	if isStruct(v) {
		if out, err := r.fallback(v, descriptor.Float, descriptor.Int); err == nil {
			return out, nil
		}
		return r.viaJSON(v)
	}
	return r.fallback(v, fallbacks...)
}

// viaJSON reduces a struct through its encoding/json form.
func (r *Reducer) viaJSON(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("jsonshape: %T: %w", v, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("jsonshape: %T: %w", v, err)
	}
	return r.Reduce(plain(doc))
}

// plain replaces json.Number with int or float64.
func plain(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n)
		}
		f, _ := x.Float64()
		return f
	case map[string]any:
		for k, item := range x {
			x[k] = plain(item)
		}
	case []any:
		for i, item := range x {
			x[i] = plain(item)
		}
	}
	return v
}

// isStruct reports whether v is a struct, or pointer to one, without a
// textual form of its own.
func isStruct(v any) bool {
	switch v.(type) {
	case fmt.Stringer, encoding.TextMarshaler:
		return false
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func (r *Reducer) reduceMap(m *value.Map) (*value.Map, error) {
	out := value.NewMap()
	for p := m.Oldest(); p != nil; p = p.Next() {
		key, err := r.Reduce(p.Key)
		if err != nil {
			return nil, fmt.Errorf("key %v: %w", p.Key, err)
		}
		if !value.IsHashable(key) {
			return nil, fmt.Errorf("%w: %v", ErrUnhashableKey, p.Key)
		}
		val, err := r.Reduce(p.Value)
		if err != nil {
			return nil, fmt.Errorf("key %v: %w", p.Key, err)
		}
		out.Set(key, val)
	}
	return out, nil
}

// fallback returns the first successful conversion of v to one of targets.
func (r *Reducer) fallback(v any, targets ...descriptor.Type) (any, error) {
	var errs []error
	for _, t := range targets {
		out, err := r.engine.Coerce(v, t)
		if err == nil {
			if s, ok := out.(string); ok {
				return r.text(s), nil
			}
			return out, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("jsonshape: %T has no JSON shape: %w", v, errors.Join(errs...))
}

func (r *Reducer) text(s string) string {
	if r.nfc {
		return norm.NFC.String(s)
	}
	return s
}

// primitive widens the unnamed Go integer and float kinds to int and float64.
func primitive(v any) (any, bool) {
	switch x := v.(type) {
	case int8:
		return int(x), true
	case int16:
		return int(x), true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case uint8:
		return int(x), true
	case uint16:
		return int(x), true
	case uint32:
		return unsigned(uint64(x)), true
	case uint:
		return unsigned(uint64(x)), true
	case uint64:
		return unsigned(x), true
	case float32:
		return float64(x), true
	}
	return nil, false
}

// unsigned keeps values beyond the int range as float64.
func unsigned(u uint64) any {
	if u > math.MaxInt {
		return float64(u)
	}
	return int(u)
}

// kindOf names the JSON type of a reduced value.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case *value.Map:
		return "object"
	}
	return reflect.TypeOf(v).String()
}
