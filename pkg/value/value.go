// Package value defines the runtime value shapes exchanged with the coercion
// engine: positional tuples, insertion-ordered mappings, slash paths and
// enumeration members.
package value

import (
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Tuple is a fixed, positional sequence. It is the tuple-like counterpart of
// a plain []any list.
type Tuple []any

// Map is an insertion-ordered mapping with arbitrary comparable keys.
type Map = orderedmap.OrderedMap[any, any]

// Pair is a single mapping entry.
type Pair struct {
	Key   any
	Value any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return orderedmap.New[any, any]()
}

// MapOf builds a Map from alternating key and value arguments.
func MapOf(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("value: MapOf expects an even number of arguments")
	}
	m := orderedmap.New[any, any](len(kv) / 2)
	for i := 0; i < len(kv); i += 2 {
		m.Set(kv[i], kv[i+1])
	}
	return m
}

// Pairs returns the entries of m in insertion order.
func Pairs(m *Map) []Pair {
	if m == nil {
		return nil
	}
	out := make([]Pair, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		out = append(out, Pair{Key: p.Key, Value: p.Value})
	}
	return out
}

// ToGoMap copies m into a built-in map. Entry order is lost.
func ToGoMap(m *Map) map[any]any {
	out := make(map[any]any, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		out[p.Key] = p.Value
	}
	return out
}

// Member is implemented by enumeration constants.
type Member interface {
	MemberName() string
	MemberValue() any
}

// Decoder is implemented by pointers to custom types that can be built from
// an arbitrary input value.
type Decoder interface {
	DecodeValue(v any) error
}

// Path is a filesystem path.
type Path string

// AsPosix returns the path with forward slashes.
func (p Path) AsPosix() string {
	return filepath.ToSlash(string(p))
}

func (p Path) String() string { return string(p) }

// IsHashable reports whether v may be used as a Map key.
func IsHashable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).Comparable()
}

// AsMap returns the entries of any mapping-like value as a Map. Built-in Go
// maps are visited in sorted key order so the result is deterministic.
func AsMap(v any) (*Map, bool) {
	switch m := v.(type) {
	case *Map:
		return m, m != nil
	case *orderedmap.OrderedMap[string, any]:
		if m == nil {
			return nil, false
		}
		out := orderedmap.New[any, any](m.Len())
		for p := m.Oldest(); p != nil; p = p.Next() {
			out.Set(p.Key, p.Value)
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.IsNil() {
		return nil, false
	}
	keys := rv.MapKeys()
	sort.SliceStable(keys, func(i, j int) bool {
		return lessKey(keys[i].Interface(), keys[j].Interface())
	})
	out := orderedmap.New[any, any](len(keys))
	for _, k := range keys {
		out.Set(k.Interface(), rv.MapIndex(k).Interface())
	}
	return out, true
}

// IsMap reports whether v is mapping-like.
func IsMap(v any) bool {
	switch m := v.(type) {
	case *Map:
		return m != nil
	case *orderedmap.OrderedMap[string, any]:
		return m != nil
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Map && !rv.IsNil()
}

// Elements returns the members of an iterable value: slices, arrays, tuples
// and the keys of mappings. Text, values with their own textual form
// (fmt.Stringer or encoding.TextMarshaler) and nil are not iterable.
func Elements(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil, string:
		return nil, false
	case []any:
		return s, true
	case Tuple:
		return []any(s), true
	case fmt.Stringer:
		return nil, false
	case interface{ MarshalText() ([]byte, error) }:
		return nil, false
	}

	if m, ok := AsMap(v); ok {
		out := make([]any, 0, m.Len())
		for p := m.Oldest(); p != nil; p = p.Next() {
			out = append(out, p.Key)
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

// lessKey orders mapping keys: numbers numerically, strings lexically, then
// everything else by type name and rendering.
func lessKey(a, b any) bool {
	af, aNum := number(a)
	bf, bNum := number(b)
	if aNum && bNum {
		return af < bf
	}
	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr {
		return as < bs
	}
	at, bt := fmt.Sprintf("%T", a), fmt.Sprintf("%T", b)
	if at != bt {
		return at < bt
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b)) < 0
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
