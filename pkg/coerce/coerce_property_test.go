//go:build property

package coerce_test

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/zacharyburnett/TypePigeon/pkg/capabilities"
	"github.com/zacharyburnett/TypePigeon/pkg/coerce"
)

// TestTextRoundTrip verifies that scalars survive a trip through text.
func TestTextRoundTrip(t *testing.T) {
	e := coerce.NewEngine(coerce.WithCapabilities(capabilities.None()))
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 500
	properties := gopter.NewProperties(params)

	roundTrip := func(v any, target string) (any, bool) {
		s, err := e.Coerce(v, "str")
		if err != nil {
			return nil, false
		}
		out, err := e.Coerce(s, target)
		return out, err == nil
	}

	properties.Property("int", prop.ForAll(
		func(n int) bool {
			out, ok := roundTrip(n, "int")
			return ok && out == n
		},
		gen.Int(),
	))

	properties.Property("float", prop.ForAll(
		func(f float64) bool {
			out, ok := roundTrip(f, "float")
			return ok && out == f
		},
		gen.Float64().SuchThat(func(f float64) bool { return !math.IsNaN(f) }),
	))

	properties.Property("whole-second duration", prop.ForAll(
		func(secs int64) bool {
			d := time.Duration(secs) * time.Second
			out, ok := roundTrip(d, "timedelta")
			return ok && out == d
		},
		gen.Int64Range(-1_000_000, 1_000_000),
	))

	properties.TestingRun(t)
}
