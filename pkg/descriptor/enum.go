package descriptor

import (
	"reflect"

	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

// Enum is a closed set of named members. Coercion looks members up by name,
// then by value; it never converts structurally.
type Enum struct {
	Name    string
	Members []value.Member
	// Go is the member type, used to resolve reflect.Type descriptors.
	Go reflect.Type
}

// NewEnum builds an Enum from typed members.
func NewEnum[M value.Member](name string, members ...M) *Enum {
	e := &Enum{Name: name, Go: reflect.TypeFor[M]()}
	for _, m := range members {
		e.Members = append(e.Members, m)
	}
	return e
}

func (e *Enum) String() string { return e.Name }
func (*Enum) descriptor()      {}

// ByName returns the member called name.
func (e *Enum) ByName(name string) (value.Member, bool) {
	for _, m := range e.Members {
		if m.MemberName() == name {
			return m, true
		}
	}
	return nil, false
}

// ByValue returns the first member whose value equals v. Numbers compare by
// magnitude across Go numeric kinds.
func (e *Enum) ByValue(v any) (value.Member, bool) {
	for _, m := range e.Members {
		if sameValue(m.MemberValue(), v) {
			return m, true
		}
	}
	return nil, false
}

// Names lists member names in declaration order.
func (e *Enum) Names() []string {
	names := make([]string, len(e.Members))
	for i, m := range e.Members {
		names[i] = m.MemberName()
	}
	return names
}

func sameValue(a, b any) bool {
	if af, ok := numeric(a); ok {
		bf, ok := numeric(b)
		return ok && af == bf
	}
	if value.IsHashable(a) && value.IsHashable(b) {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func numeric(v any) (float64, bool) {
	if _, ok := v.(bool); ok {
		return 0, false
	}
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
