// Package capabilities reports which optional conversion families a process
// enables. Engines receive a Probe at construction and never look capabilities
// up mid-call.
package capabilities

import (
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
)

// Known capability names.
const (
	// Geometry enables the geometry kinds.
	Geometry = "geometry"
	// CRS enables coordinate reference systems.
	CRS = "crs"
)

// Known lists every capability this build can provide.
var Known = []string{CRS, Geometry}

// EnvVar selects the default capability set, as a comma- or
// semicolon-separated list, "all" or "none".
const EnvVar = "TYPEPIGEON_CAPABILITIES"

// Probe reports whether a named capability is available.
type Probe interface {
	Has(name string) bool
}

// Set is an immutable Probe over a fixed set of names.
type Set struct {
	names map[string]struct{}
}

// NewSet returns a Set holding names. Unknown names are kept so that callers
// can gate their own extensions.
func NewSet(names ...string) Set {
	s := Set{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			s.names[n] = struct{}{}
		}
	}
	return s
}

// All returns a Set with every known capability.
func All() Set { return NewSet(Known...) }

// None returns an empty Set.
func None() Set { return NewSet() }

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s.names[strings.ToLower(name)]
	return ok
}

// Names returns the members, sorted.
func (s Set) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Parse reads a capability list: "all", "none", or names separated by commas
// or semicolons. An empty list means all.
func Parse(list string) Set {
	list = strings.TrimSpace(list)
	switch strings.ToLower(list) {
	case "", "all":
		return All()
	case "none":
		return None()
	}
	return NewSet(strings.FieldsFunc(list, func(r rune) bool { return r == ',' || r == ';' })...)
}

var defaultSet = sync.OnceValue(func() Set {
	s := Parse(os.Getenv(EnvVar))
	slog.Debug("capabilities: resolved default set", "capabilities", s.Names())
	return s
})

// Default returns the process-wide capability set, resolved once from the
// environment on first use.
func Default() Set {
	return defaultSet()
}
