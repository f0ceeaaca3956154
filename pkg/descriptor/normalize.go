package descriptor

import (
	"reflect"

	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

// DefaultMaxDepth bounds descriptor nesting when a Normalizer sets none.
const DefaultMaxDepth = 64

// Normalizer turns authoring forms into Descriptors. The zero value uses
// DefaultRegistry and DefaultMaxDepth.
type Normalizer struct {
	Registry *Registry
	MaxDepth int
}

// Normalize normalizes target with the zero Normalizer.
func Normalize(target any) (Descriptor, error) {
	return (&Normalizer{}).Normalize(target)
}

// Normalize accepts:
//   - nil, meaning None
//   - a Descriptor, re-normalized so the call is idempotent
//   - type names and annotation text ("str", "List[int]", "{str: float}")
//   - Annotation values
//   - reflect.Type
//   - literal containers: []any (sequence), value.Tuple (tuple), and
//     single-entry maps (mapping)
//
// Alternations fail with ErrUnsupportedDescriptor.
func (n *Normalizer) Normalize(target any) (Descriptor, error) {
	return n.normalize(target, 0)
}

func (n *Normalizer) registry() *Registry {
	if n.Registry != nil {
		return n.Registry
	}
	return DefaultRegistry
}

func (n *Normalizer) maxDepth() int {
	if n.MaxDepth > 0 {
		return n.MaxDepth
	}
	return DefaultMaxDepth
}

func (n *Normalizer) normalize(target any, depth int) (Descriptor, error) {
	if depth > n.maxDepth() {
		return nil, newError(target, ErrDescriptorDepth, "deeper than %d", n.maxDepth())
	}

	switch x := target.(type) {
	case nil:
		return None, nil
	case Type:
		if x.Kind == KindCustom && x.Go == nil {
			return nil, newError(target, ErrMalformedDescriptor, "custom type without a Go type")
		}
		return x, nil
	case Sequence:
		elems, err := n.all(toAny(x.Elems), depth)
		return Sequence{Elems: elems}, err
	case Tuple:
		elems, err := n.all(toAny(x.Elems), depth)
		return Tuple{Elems: elems}, err
	case Mapping:
		if x.IsEmpty() {
			return Mapping{}, nil
		}
		return n.mapping(x.Key, x.Value, depth)
	case *Enum:
		if x == nil || len(x.Members) == 0 {
			return nil, newError(target, ErrMalformedDescriptor, "enum without members")
		}
		return x, nil
	case string:
		return n.parseText(x, depth)
	case Annotation:
		return n.annotation(x, depth)
	case reflect.Type:
		return n.fromReflect(x, depth)
	case []any:
		elems, err := n.all(x, depth)
		return Sequence{Elems: elems}, err
	case []Descriptor:
		elems, err := n.all(toAny(x), depth)
		return Sequence{Elems: elems}, err
	case value.Tuple:
		elems, err := n.all(x, depth)
		return Tuple{Elems: elems}, err
	}

	if m, ok := value.AsMap(target); ok {
		switch m.Len() {
		case 0:
			return Mapping{}, nil
		case 1:
			entry := m.Oldest()
			return n.mapping(entry.Key, entry.Value, depth)
		}
		return nil, newError(target, ErrMalformedDescriptor, "a mapping descriptor has exactly one entry, got %d", m.Len())
	}
	return nil, newError(target, ErrMalformedDescriptor, "%T is not a descriptor", target)
}

func (n *Normalizer) all(items []any, depth int) ([]Descriptor, error) {
	var out []Descriptor
	for _, it := range items {
		d, err := n.normalize(it, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (n *Normalizer) mapping(key, val any, depth int) (Descriptor, error) {
	k, err := n.normalize(key, depth+1)
	if err != nil {
		return nil, err
	}
	v, err := n.normalize(val, depth+1)
	if err != nil {
		return nil, err
	}
	return Mapping{Key: k, Value: v}, nil
}

func (n *Normalizer) annotation(a Annotation, depth int) (Descriptor, error) {
	if a.Origin == OriginUnion || a.Origin == OriginOptional {
		return nil, newError(a, ErrUnsupportedDescriptor, "alternation of types")
	}
	args, err := n.all(a.Args, depth)
	if err != nil {
		return nil, err
	}
	return fromOrigin(a, a.Origin, args)
}

// fromReflect maps a Go type onto a descriptor. Registered and built-in types
// win; unnamed slices, arrays and maps become containers; empty interfaces
// mean Any; everything else is a custom scalar.
func (n *Normalizer) fromReflect(t reflect.Type, depth int) (Descriptor, error) {
	if depth > n.maxDepth() {
		return nil, newError(t, ErrDescriptorDepth, "deeper than %d", n.maxDepth())
	}
	if d, ok := n.registry().LookupType(t); ok {
		return d, nil
	}
	if b, ok := builtinGoTypes[t]; ok {
		return b, nil
	}

	switch t.Kind() {
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return Any, nil
		}
		return nil, newError(t, ErrUnsupportedDescriptor, "interface types are alternations")
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return nil, newError(t, ErrMalformedDescriptor, "%s values cannot be coerced", t.Kind())
	}

	if t.Name() != "" {
		return TypeOf(t), nil
	}
	switch t.Kind() {
	case reflect.Slice:
		elem, err := n.fromReflect(t.Elem(), depth+1)
		if err != nil {
			return nil, err
		}
		return Sequence{Elems: []Descriptor{elem}}, nil
	case reflect.Array:
		if t.Len() == 0 {
			return Tuple{}, nil
		}
		elem, err := n.fromReflect(t.Elem(), depth+1)
		if err != nil {
			return nil, err
		}
		elems := make([]Descriptor, t.Len())
		for i := range elems {
			elems[i] = elem
		}
		return Tuple{Elems: elems}, nil
	case reflect.Map:
		key, err := n.fromReflect(t.Key(), depth+1)
		if err != nil {
			return nil, err
		}
		val, err := n.fromReflect(t.Elem(), depth+1)
		if err != nil {
			return nil, err
		}
		return Mapping{Key: key, Value: val}, nil
	}
	return TypeOf(t), nil
}

func toAny(ds []Descriptor) []any {
	out := make([]any, len(ds))
	for i, d := range ds {
		out[i] = d
	}
	return out
}
