package coerce

import (
	"encoding/hex"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zacharyburnett/TypePigeon/pkg/capabilities"
	"github.com/zacharyburnett/TypePigeon/pkg/geo"
	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

func TestCoerce_Geometry(t *testing.T) {
	e := newTestEngine()
	square := []any{[]any{0, 0}, []any{1, 1}, []any{1, 0}}

	tests := []struct {
		name   string
		in     any
		target string
		want   orb.Geometry
	}{
		{"point from text", "[0, 1]", "Point", orb.Point{0, 1}},
		{"point from tuple", value.Tuple{0, 1}, "Point", orb.Point{0, 1}},
		{"multipoint", square, "MultiPoint", orb.MultiPoint{{0, 0}, {1, 1}, {1, 0}}},
		{"linestring", square, "LineString", orb.LineString{{0, 0}, {1, 1}, {1, 0}}},
		{"polygon closes its ring", square, "Polygon", orb.Polygon{{{0, 0}, {1, 1}, {1, 0}, {0, 0}}}},
		{"wkt", "POINT (2 3)", "Point", orb.Point{2, 3}},
		{"wkt to any geometry", "LINESTRING (0 0, 1 1)", "Geometry", orb.LineString{{0, 0}, {1, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceOK(t, e, tt.in, tt.target))
		})
	}

	t.Run("geojson mapping", func(t *testing.T) {
		m := value.MapOf("type", "Point", "coordinates", []any{4, 5})
		assert.Equal(t, orb.Point{4, 5}, coerceOK(t, e, m, "Geometry"))
		assert.Equal(t, orb.Point{4, 5}, coerceOK(t, e, m, "Point"))
	})

	t.Run("hex and raw wkb", func(t *testing.T) {
		data, err := geo.ToWKB(orb.Point{7, 8})
		require.NoError(t, err)
		assert.Equal(t, orb.Point{7, 8}, coerceOK(t, e, hex.EncodeToString(data), "Point"))
		assert.Equal(t, orb.Point{7, 8}, coerceOK(t, e, data, "Geometry"))
	})

	t.Run("geometry to text and bytes", func(t *testing.T) {
		assert.Contains(t, coerceOK(t, e, orb.Point{0, 1}, "str"), "POINT")
		data := coerceOK(t, e, orb.Point{0, 1}, "bytes").([]byte)
		g, err := geo.FromWKB(data)
		require.NoError(t, err)
		assert.Equal(t, orb.Point{0, 1}, g)
	})

	t.Run("no casting between kinds", func(t *testing.T) {
		_, err := e.Coerce(orb.Point{0, 1}, "MultiPoint")
		requireKind(t, err, KindUnsupported, ErrUnsupportedCast)
		assert.Contains(t, err.Error(), "casting between geometric types is not implemented")
	})

	t.Run("unreadable input", func(t *testing.T) {
		_, err := e.Coerce("not a shape (", "Point")
		requireKind(t, err, KindMalformed, ErrMalformedInput)
		_, err = e.Coerce("[0, 1]", "Geometry")
		assert.ErrorIs(t, err, ErrMalformedInput)
	})
}

func TestCoerce_CRS(t *testing.T) {
	e := newTestEngine()
	wgs84, err := geo.FromEPSG(4326)
	require.NoError(t, err)

	t.Run("to text", func(t *testing.T) {
		assert.Equal(t, wgs84.ToWKT(), coerceOK(t, e, wgs84, "str"))
	})

	t.Run("to int", func(t *testing.T) {
		assert.Equal(t, 4326, coerceOK(t, e, wgs84, "int"))
	})

	t.Run("to dict", func(t *testing.T) {
		for _, target := range []any{"dict", map[any]any{}} {
			out := coerceOK(t, e, wgs84, target)
			m, ok := out.(*value.Map)
			require.True(t, ok, "%T", out)
			name, _ := m.Get("name")
			assert.Equal(t, "WGS 84", name)
		}
	})

	t.Run("from codes and text", func(t *testing.T) {
		for _, in := range []any{4326, "EPSG:4326", wgs84.ToWKT(), wgs84.ToJSONDict()} {
			c, ok := coerceOK(t, e, in, "CRS").(*geo.CRS)
			require.True(t, ok)
			assert.True(t, wgs84.Equal(c), "%v", in)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := e.Coerce(1, "CRS")
		requireKind(t, err, KindMalformed, ErrMalformedInput)
		assert.ErrorIs(t, err, geo.ErrUnknownCRS)
	})
}

func TestCoerce_CapabilitiesGate(t *testing.T) {
	e := NewEngine(WithCapabilities(capabilities.None()))

	for _, tc := range []struct {
		in     any
		target string
	}{
		{"[0, 1]", "Point"},
		{orb.Point{0, 1}, "str"},
		{4326, "CRS"},
	} {
		_, err := e.Coerce(tc.in, tc.target)
		requireKind(t, err, KindUnsupported, ErrCapabilityUnavailable)
	}

	assert.Equal(t, 5, coerceOK(t, e, "5", "int"))
}
