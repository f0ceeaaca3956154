package literal

import (
	"errors"
	"strings"
	"testing"
)

// FuzzParse checks that Parse never panics, always classifies its failures
// and that formatted results parse back to an equal rendering.
// Run: go test -fuzz=FuzzParse -fuzztime=30s ./pkg/literal/
func FuzzParse(f *testing.F) {
	f.Add("[1, 2, 3]")
	f.Add("(0, 1)")
	f.Add("{'a': [1, {'b': None}]}")
	f.Add("1, 2, 3")
	f.Add("test 1, test 2")
	f.Add(`b'\x00\xff'`)
	f.Add("'''multi\nline'''")
	f.Add("-1.5e-300")

	f.Fuzz(func(t *testing.T, input string) {
		v, err := Parse(input)
		if err != nil {
			if !errors.Is(err, ErrSyntax) && !errors.Is(err, ErrNotLiteral) {
				t.Errorf("unclassified error for %q: %v", input, err)
			}
			return
		}

		text := Repr(v)
		again, err := Parse(text)
		if err != nil {
			// Overflowing floats render as inf, which is a name and not a literal.
			if errors.Is(err, ErrNotLiteral) && strings.Contains(text, "inf") {
				return
			}
			t.Errorf("re-parse of %q failed: %v", text, err)
			return
		}
		if Repr(again) != text {
			t.Errorf("rendering not stable: %s != %s", Repr(again), text)
		}
	})
}
