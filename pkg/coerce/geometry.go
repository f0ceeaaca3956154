package coerce

import (
	"errors"
	"reflect"

	"github.com/paulmach/orb"

	"github.com/zacharyburnett/TypePigeon/pkg/capabilities"
	"github.com/zacharyburnett/TypePigeon/pkg/descriptor"
	"github.com/zacharyburnett/TypePigeon/pkg/geo"
	"github.com/zacharyburnett/TypePigeon/pkg/literal"
	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

// toGeometry tries hex WKB, WKT and raw WKB, then reads text as a literal
// and builds the geometry from a GeoJSON-like mapping or coordinates.
func (e *Engine) toGeometry(v any, t descriptor.Type) (any, error) {
	if err := e.require(capabilities.Geometry, v, t); err != nil {
		return nil, err
	}

	g, err := e.readGeometry(v, t)
	if err != nil {
		if errors.Is(err, geo.ErrInvalidGeometry) {
			return nil, malformed(v, t, err)
		}
		return nil, err
	}
	g = widen(g)
	if t.Kind == descriptor.KindGeometry {
		return g, nil
	}
	if reflect.TypeOf(g) != t.Go {
		return nil, newError(ErrUnsupportedCast, v, t, nil,
			"casting between geometric types is not implemented: %s -/> %s", geo.KindOf(g), t)
	}
	return g, nil
}

func (e *Engine) readGeometry(v any, t descriptor.Type) (orb.Geometry, error) {
	switch x := v.(type) {
	case orb.Geometry:
		return x, nil
	case string:
		if g, err := geo.FromHexWKB(x); err == nil {
			return g, nil
		}
		if g, err := geo.FromWKT(x); err == nil {
			return g, nil
		}
		parsed, err := literal.Parse(x)
		if err != nil {
			return nil, errors.Join(geo.ErrInvalidGeometry, err)
		}
		v = parsed
	case []byte:
		if g, err := geo.FromHexWKB(string(x)); err == nil {
			return g, nil
		}
		if g, err := geo.FromWKT(string(x)); err == nil {
			return g, nil
		}
		return geo.FromWKB(x)
	}

	if value.IsMap(v) {
		return geo.FromGeoJSON(v)
	}
	if t.Kind == descriptor.KindGeometry {
		return nil, errors.Join(geo.ErrInvalidGeometry,
			errors.New("coordinates need a concrete geometry kind"))
	}
	return geo.FromCoordinates(t.Name, v)
}

// widen turns the orb helper shapes into the geometry kinds they describe.
func widen(g orb.Geometry) orb.Geometry {
	switch x := g.(type) {
	case orb.Ring:
		return orb.Polygon{x}
	case orb.Bound:
		return x.ToPolygon()
	}
	return g
}

// toCRS reads EPSG codes, identifier text, WKT and PROJJSON mappings.
func (e *Engine) toCRS(v any, t descriptor.Type) (any, error) {
	if err := e.require(capabilities.CRS, v, t); err != nil {
		return nil, err
	}

	var (
		c   *geo.CRS
		err error
	)
	switch x := v.(type) {
	case string, []byte:
		s, _ := isText(x)
		c, err = geo.FromString(s)
	default:
		if code, _, isInt, ok := number(v); ok && isInt {
			c, err = geo.FromEPSG(int(code))
		} else if value.IsMap(v) {
			c, err = geo.FromJSONDict(v)
		} else {
			return nil, unsupported(v, t)
		}
	}
	if err != nil {
		return nil, malformed(v, t, err)
	}
	return c, nil
}
