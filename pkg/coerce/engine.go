// Package coerce converts runtime values to match a type descriptor, parsing
// textual encodings along the way.
//
// An Engine is immutable after construction and safe for concurrent use. It
// performs no I/O and never logs; optional families (geometry, coordinate
// reference systems) are gated by the capabilities.Probe it was built with.
package coerce

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/zacharyburnett/TypePigeon/pkg/capabilities"
	"github.com/zacharyburnett/TypePigeon/pkg/descriptor"
	"github.com/zacharyburnett/TypePigeon/pkg/geo"
	"github.com/zacharyburnett/TypePigeon/pkg/literal"
	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

// Engine coerces values against descriptors.
type Engine struct {
	caps       capabilities.Probe
	normalizer descriptor.Normalizer
	dayFirst   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithCapabilities sets the capability probe. The default is
// capabilities.Default().
func WithCapabilities(p capabilities.Probe) Option {
	return func(e *Engine) {
		if p != nil {
			e.caps = p
		}
	}
}

// WithMaxDepth bounds descriptor nesting.
func WithMaxDepth(n int) Option {
	return func(e *Engine) { e.normalizer.MaxDepth = n }
}

// WithRegistry sets the registry used to resolve named custom types and
// enumerations.
func WithRegistry(r *descriptor.Registry) Option {
	return func(e *Engine) { e.normalizer.Registry = r }
}

// WithDayFirst reads ambiguous numeric dates such as 01/02/2021 as day first.
func WithDayFirst(dayFirst bool) Option {
	return func(e *Engine) { e.dayFirst = dayFirst }
}

// NewEngine builds an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{caps: capabilities.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Capabilities returns the probe the engine was built with.
func (e *Engine) Capabilities() capabilities.Probe {
	return e.caps
}

// Normalize normalizes target with the engine's registry and depth limit.
func (e *Engine) Normalize(target any) (descriptor.Descriptor, error) {
	return e.normalizer.Normalize(target)
}

// Coerce converts v to match target, which may be any authoring form
// accepted by descriptor.Normalize.
func (e *Engine) Coerce(v any, target any) (any, error) {
	d, err := e.normalizer.Normalize(target)
	if err != nil {
		return nil, newError(err, v, nil, nil, "cannot use %v as a target", target)
	}
	return e.coerce(v, d)
}

func (e *Engine) coerce(v any, d descriptor.Descriptor) (any, error) {
	if t, ok := d.(descriptor.Type); ok && t.Kind == descriptor.KindCustom && t.Go == reflect.TypeOf(v) {
		return v, nil
	}
	if m, ok := v.(value.Member); ok {
		v = m.MemberName()
	}

	switch t := d.(type) {
	case descriptor.Type:
		switch t.Kind {
		case descriptor.KindNone:
			return nil, nil
		case descriptor.KindAny:
			return v, nil
		}
		if v == nil {
			return nil, nil
		}
		return e.scalar(v, t)
	case descriptor.Sequence:
		out, err := e.sequence(v, t, t.Elems)
		if err != nil {
			return nil, err
		}
		return out, nil
	case descriptor.Tuple:
		out, err := e.sequence(v, t, t.Elems)
		if err != nil {
			return nil, err
		}
		return value.Tuple(out), nil
	case descriptor.Mapping:
		if v == nil {
			return nil, nil
		}
		return e.mapping(v, t)
	case *descriptor.Enum:
		if v == nil {
			return nil, nil
		}
		return e.enum(v, t)
	}
	return nil, newError(descriptor.ErrUnsupportedDescriptor, v, d, nil, "no conversion for %T", d)
}

// sequence coerces v element-wise. One element descriptor broadcasts across
// the input; otherwise lengths must match.
func (e *Engine) sequence(v any, d descriptor.Descriptor, elems []descriptor.Descriptor) ([]any, error) {
	if v == nil {
		return []any{}, nil
	}
	items := e.items(v)
	if len(elems) != 1 && len(elems) != len(items) {
		return nil, newError(ErrArityMismatch, v, d, nil,
			"unable to convert list of values of length %d to list of types of length %d: %s -/> %s",
			len(items), len(elems), literal.Repr(items), d)
	}
	out := make([]any, len(items))
	for i, item := range items {
		elem := elems[0]
		if len(elems) > 1 {
			elem = elems[i]
		}
		c, err := e.coerce(item, elem)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// items reads the members of a sequence input. Text is parsed as a literal
// collection first, then split on newlines or commas.
func (e *Engine) items(v any) []any {
	switch x := v.(type) {
	case string:
		return splitText(x)
	case []byte:
		return byteInts(x)
	}
	if items, ok := value.Elements(v); ok {
		return items
	}
	return []any{v}
}

func splitText(s string) []any {
	if parsed, err := literal.Parse(s); err == nil {
		switch p := parsed.(type) {
		case []any:
			return p
		case value.Tuple:
			return []any(p)
		case *value.Map:
			items, _ := value.Elements(p)
			return items
		case string:
			return chars(p)
		case []byte:
			return byteInts(p)
		}
	}

	var entries []string
	switch {
	case strings.Contains(s, "\n"):
		entries = splitLines(s)
	case strings.Contains(s, ","):
		entries = strings.Split(s, ",")
	default:
		entries = []string{s}
	}
	out := make([]any, len(entries))
	for i, entry := range entries {
		out[i] = strings.TrimSpace(entry)
	}
	return out
}

func chars(s string) []any {
	out := make([]any, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func byteInts(b []byte) []any {
	out := make([]any, len(b))
	for i, c := range b {
		out[i] = int(c)
	}
	return out
}

// mapping coerces every key and value of a mapping input. Text is decoded as
// a JSON object, tolerating single quotes.
func (e *Engine) mapping(v any, d descriptor.Mapping) (any, error) {
	src := v
	if s, ok := isText(v); ok {
		decoded, err := decodeJSONObject(strings.ReplaceAll(s, "'", `"`))
		if err != nil {
			return nil, malformed(v, d, err)
		}
		src = decoded
	} else if x, ok := v.(*geo.CRS); ok {
		if err := e.require(capabilities.CRS, v, d); err != nil {
			return nil, err
		}
		src = x.ToJSONDict()
	}

	m, ok := value.AsMap(src)
	if !ok {
		return nil, newError(ErrMalformedInput, v, d, nil, "expected a mapping, got %T", v)
	}
	out := value.NewMap()
	for p := m.Oldest(); p != nil; p = p.Next() {
		key, val := p.Key, p.Value
		if !d.IsEmpty() {
			var err error
			if key, err = e.coerce(key, d.Key); err != nil {
				return nil, err
			}
			if !value.IsHashable(key) {
				return nil, newError(ErrMalformedInput, v, d, nil, "key %s is not hashable", literal.Repr(key))
			}
			if val, err = e.coerce(val, d.Value); err != nil {
				return nil, err
			}
		}
		out.Set(key, val)
	}
	return out, nil
}

// enum looks members up by name, then by value.
func (e *Engine) enum(v any, d *descriptor.Enum) (any, error) {
	if name, ok := v.(string); ok {
		if m, ok := d.ByName(name); ok {
			return m, nil
		}
	}
	if m, ok := d.ByValue(v); ok {
		return m, nil
	}
	return nil, newError(ErrInvalidMember, v, d, nil,
		"unrecognized entry %q; must be one of %s", literal.Format(v), literal.Repr(namesOf(d)))
}

func namesOf(d *descriptor.Enum) []any {
	names := d.Names()
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}

func (e *Engine) require(name string, v any, d descriptor.Descriptor) error {
	if e.caps.Has(name) {
		return nil
	}
	return newError(ErrCapabilityUnavailable, v, d, nil, "%s support is not enabled", name)
}

// isText reports whether v is text or bytes and returns it as a string.
func isText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	}
	return "", false
}

// splitLines splits s at line boundaries: \n, \r, \r\n, \v, \f, the
// file, group and record separators, NEL, U+2028 and U+2029. A final
// boundary does not start an empty line.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		switch r {
		case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		default:
			continue
		}
		if r == '\n' && i > 0 && s[i-1] == '\r' {
			start = i + 1
			continue
		}
		lines = append(lines, s[start:i])
		start = i + utf8.RuneLen(r)
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
