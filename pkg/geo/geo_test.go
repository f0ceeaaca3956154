package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

func TestFromCoordinates(t *testing.T) {
	t.Run("point from tuple", func(t *testing.T) {
		g, err := FromCoordinates(KindPoint, value.Tuple{0, 1})
		require.NoError(t, err)
		assert.Equal(t, orb.Point{0, 1}, g)
	})

	t.Run("point rejects nested lists", func(t *testing.T) {
		_, err := FromCoordinates(KindPoint, []any{[]any{0, 1}})
		assert.ErrorIs(t, err, ErrInvalidGeometry)
	})

	t.Run("multipoint", func(t *testing.T) {
		g, err := FromCoordinates(KindMultiPoint, []any{[]any{0, 1}, []any{1, 2}})
		require.NoError(t, err)
		assert.Equal(t, orb.MultiPoint{{0, 1}, {1, 2}}, g)
	})

	t.Run("linestring", func(t *testing.T) {
		g, err := FromCoordinates(KindLineString, []any{[]any{0, 1}, []any{1, 2}, []any{2.5, 3}})
		require.NoError(t, err)
		assert.Equal(t, orb.LineString{{0, 1}, {1, 2}, {2.5, 3}}, g)
	})

	t.Run("polygon ring is closed", func(t *testing.T) {
		g, err := FromCoordinates(KindPolygon, []any{[]any{0, 0}, []any{1, 0}, []any{1, 1}})
		require.NoError(t, err)
		assert.Equal(t, orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, g)
	})

	t.Run("polygon with hole", func(t *testing.T) {
		shell := []any{[]any{0, 0}, []any{4, 0}, []any{4, 4}, []any{0, 4}, []any{0, 0}}
		hole := []any{[]any{1, 1}, []any{2, 1}, []any{2, 2}}
		g, err := FromCoordinates(KindPolygon, []any{shell, hole})
		require.NoError(t, err)
		poly := g.(orb.Polygon)
		require.Len(t, poly, 2)
		assert.True(t, poly[1].Closed())
	})

	t.Run("multipolygon", func(t *testing.T) {
		shell := []any{[]any{0, 0}, []any{1, 0}, []any{1, 1}}
		g, err := FromCoordinates(KindMultiPolygon, []any{shell, shell})
		require.NoError(t, err)
		assert.Len(t, g.(orb.MultiPolygon), 2)
	})

	t.Run("non-numeric coordinate", func(t *testing.T) {
		_, err := FromCoordinates(KindPoint, []any{"a", 1})
		assert.ErrorIs(t, err, ErrInvalidGeometry)
	})
}

func TestEncodings(t *testing.T) {
	pt := orb.Point{0, 1}

	t.Run("wkt round trip", func(t *testing.T) {
		g, err := FromWKT(ToWKT(pt))
		require.NoError(t, err)
		assert.True(t, orb.Equal(pt, g))
	})

	t.Run("wkb round trip", func(t *testing.T) {
		data, err := ToWKB(pt)
		require.NoError(t, err)
		g, err := FromWKB(data)
		require.NoError(t, err)
		assert.True(t, orb.Equal(pt, g))
	})

	t.Run("hex wkb", func(t *testing.T) {
		g, err := FromHexWKB("0101000000000000000000F03F0000000000000040")
		require.NoError(t, err)
		assert.True(t, orb.Equal(orb.Point{1, 2}, g))
	})

	t.Run("invalid wkt", func(t *testing.T) {
		_, err := FromWKT("[0, 1]")
		assert.ErrorIs(t, err, ErrInvalidGeometry)
	})

	t.Run("geojson mapping", func(t *testing.T) {
		g, err := FromGeoJSON(value.MapOf("type", "LineString", "coordinates", []any{value.Tuple{0, 1}, []any{1, 2}}))
		require.NoError(t, err)
		assert.True(t, orb.Equal(orb.LineString{{0, 1}, {1, 2}}, g))
		assert.Equal(t, KindLineString, KindOf(g))
	})

	t.Run("geojson rendering", func(t *testing.T) {
		m, err := ToGeoJSON(pt)
		require.NoError(t, err)
		assert.Equal(t, "Point", m["type"])
		assert.Equal(t, []any{0.0, 1.0}, m["coordinates"])
	})
}

func TestCRS(t *testing.T) {
	t.Run("from EPSG", func(t *testing.T) {
		c, err := FromEPSG(4326)
		require.NoError(t, err)
		assert.Equal(t, "WGS 84", c.Name)
		assert.Equal(t, "EPSG:4326", c.String())
		code, ok := c.ToEPSG()
		assert.True(t, ok)
		assert.Equal(t, 4326, code)
		assert.Contains(t, c.ToWKT(), `ID["EPSG",4326]]`)
	})

	t.Run("from string forms", func(t *testing.T) {
		for _, s := range []string{"EPSG:4326", "epsg:4326", "4326", "urn:ogc:def:crs:EPSG::4326", "WGS 84"} {
			c, err := FromString(s)
			require.NoError(t, err, s)
			assert.Equal(t, 4326, c.Code, s)
		}
	})

	t.Run("utm zones", func(t *testing.T) {
		c, err := FromEPSG(32618)
		require.NoError(t, err)
		assert.Equal(t, "WGS 84 / UTM zone 18N", c.Name)
		assert.True(t, c.Projected)

		again, err := FromString(c.ToWKT())
		require.NoError(t, err)
		assert.True(t, c.Equal(again))
	})

	t.Run("projjson round trip", func(t *testing.T) {
		c, err := FromEPSG(3857)
		require.NoError(t, err)
		d := c.ToJSONDict()
		typ, _ := d.Get("type")
		assert.Equal(t, "ProjectedCRS", typ)

		again, err := FromJSONDict(d)
		require.NoError(t, err)
		assert.True(t, c.Equal(again))
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := FromEPSG(1)
		assert.ErrorIs(t, err, ErrUnknownCRS)
		_, err = FromString("not a crs")
		assert.ErrorIs(t, err, ErrUnknownCRS)
		_, err = FromJSONDict(map[string]any{"type": "GeographicCRS"})
		assert.ErrorIs(t, err, ErrUnknownCRS)
	})
}
