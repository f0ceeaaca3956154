// Package geo decodes geometries and coordinate reference systems from the
// encodings coercion inputs arrive in: hex and raw well-known binary,
// well-known text, GeoJSON-like mappings and bare coordinate lists.
package geo

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"

	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

// Geometry kind names, as reported by orb.Geometry.GeoJSONType.
const (
	KindPoint              = "Point"
	KindMultiPoint         = "MultiPoint"
	KindLineString         = "LineString"
	KindMultiLineString    = "MultiLineString"
	KindPolygon            = "Polygon"
	KindMultiPolygon       = "MultiPolygon"
	KindGeometryCollection = "GeometryCollection"
)

// ErrInvalidGeometry is returned when an input cannot be read as a geometry.
var ErrInvalidGeometry = errors.New("geo: invalid geometry")

// KindOf returns the kind name of g.
func KindOf(g orb.Geometry) string {
	if g == nil {
		return ""
	}
	return g.GeoJSONType()
}

// FromHexWKB decodes hex-encoded well-known binary.
func FromHexWKB(s string) (orb.Geometry, error) {
	data, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: hex wkb: %w", ErrInvalidGeometry, err)
	}
	return FromWKB(data)
}

// FromWKB decodes raw well-known binary.
func FromWKB(data []byte) (orb.Geometry, error) {
	g, err := wkb.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: wkb: %w", ErrInvalidGeometry, err)
	}
	return g, nil
}

// FromWKT decodes well-known text.
func FromWKT(s string) (orb.Geometry, error) {
	g, err := wkt.Unmarshal(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: wkt: %w", ErrInvalidGeometry, err)
	}
	return g, nil
}

// ToWKT renders g as well-known text.
func ToWKT(g orb.Geometry) string {
	return wkt.MarshalString(g)
}

// ToWKB renders g as little-endian well-known binary.
func ToWKB(g orb.Geometry) ([]byte, error) {
	return wkb.Marshal(g)
}

// FromGeoJSON reads a GeoJSON-like geometry mapping ({"type": "Point",
// "coordinates": [0, 1]}).
func FromGeoJSON(v any) (orb.Geometry, error) {
	m, ok := value.AsMap(v)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a mapping", ErrInvalidGeometry, v)
	}
	obj, err := jsonObject(m)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: geojson: %w", ErrInvalidGeometry, err)
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("%w: geojson: %w", ErrInvalidGeometry, err)
	}
	return g.Geometry(), nil
}

// ToGeoJSON renders g as a GeoJSON geometry mapping.
func ToGeoJSON(g orb.Geometry) (map[string]any, error) {
	data, err := geojson.NewGeometry(g).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("geo: geojson: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("geo: geojson: %w", err)
	}
	return out, nil
}

func jsonObject(m *value.Map) (map[string]any, error) {
	out := make(map[string]any, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		k, ok := p.Key.(string)
		if !ok {
			return nil, fmt.Errorf("%w: geojson key %v is not text", ErrInvalidGeometry, p.Key)
		}
		if inner, ok := value.AsMap(p.Value); ok {
			sub, err := jsonObject(inner)
			if err != nil {
				return nil, err
			}
			out[k] = sub
			continue
		}
		out[k] = jsonArray(p.Value)
	}
	return out, nil
}

func jsonArray(v any) any {
	switch v.(type) {
	case string, []byte:
		return v
	}
	elems, ok := value.Elements(v)
	if !ok {
		return v
	}
	out := make([]any, len(elems))
	for i, e := range elems {
		out[i] = jsonArray(e)
	}
	return out
}

// FromCoordinates builds a geometry of the named kind from nested coordinate
// lists, the way geometry constructors accept them: a Point from (x, y), a
// MultiPoint or LineString from a list of points, a Polygon from one ring
// (or a list of rings), and so on. Polygon rings are closed.
func FromCoordinates(kind string, v any) (orb.Geometry, error) {
	switch kind {
	case KindPoint:
		return point(v)
	case KindMultiPoint:
		pts, err := points(v)
		return orb.MultiPoint(pts), err
	case KindLineString:
		pts, err := points(v)
		if err == nil && len(pts) == 1 {
			err = fmt.Errorf("%w: a linestring needs at least 2 points", ErrInvalidGeometry)
		}
		return orb.LineString(pts), err
	case KindMultiLineString:
		lines, err := nested(v, func(e any) (orb.LineString, error) {
			pts, err := points(e)
			return orb.LineString(pts), err
		})
		return orb.MultiLineString(lines), err
	case KindPolygon:
		return polygon(v)
	case KindMultiPolygon:
		polys, err := nested(v, polygon)
		return orb.MultiPolygon(polys), err
	case KindGeometryCollection:
		if g, ok := v.(orb.Geometry); ok {
			return orb.Collection{g}, nil
		}
		items, ok := value.Elements(v)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not a geometry list", ErrInvalidGeometry, v)
		}
		var coll orb.Collection
		for _, it := range items {
			g, ok := it.(orb.Geometry)
			if !ok {
				return nil, fmt.Errorf("%w: %T is not a geometry", ErrInvalidGeometry, it)
			}
			coll = append(coll, g)
		}
		return coll, nil
	}
	return nil, fmt.Errorf("%w: cannot build %s from coordinates", ErrInvalidGeometry, kind)
}

func point(v any) (orb.Point, error) {
	if p, ok := v.(orb.Point); ok {
		return p, nil
	}
	elems, ok := value.Elements(v)
	if !ok || len(elems) < 2 || len(elems) > 3 {
		return orb.Point{}, fmt.Errorf("%w: %v is not a coordinate pair", ErrInvalidGeometry, v)
	}
	var p orb.Point
	for i := 0; i < 2; i++ {
		f, ok := toFloat(elems[i])
		if !ok {
			return orb.Point{}, fmt.Errorf("%w: coordinate %v is not a number", ErrInvalidGeometry, elems[i])
		}
		p[i] = f
	}
	return p, nil
}

func points(v any) ([]orb.Point, error) {
	return nested(v, point)
}

func ring(v any) (orb.Ring, error) {
	pts, err := points(v)
	if err != nil {
		return nil, err
	}
	if len(pts) < 3 {
		return nil, fmt.Errorf("%w: a ring needs at least 3 points", ErrInvalidGeometry)
	}
	r := orb.Ring(pts)
	if !r.Closed() {
		r = append(r, r[0])
	}
	return r, nil
}

// polygon accepts a single shell ring or a list of rings.
func polygon(v any) (orb.Polygon, error) {
	if p, ok := v.(orb.Polygon); ok {
		return p, nil
	}
	elems, ok := value.Elements(v)
	if !ok || len(elems) == 0 {
		return nil, fmt.Errorf("%w: %v is not a ring list", ErrInvalidGeometry, v)
	}
	if _, err := point(elems[0]); err == nil {
		r, err := ring(v)
		if err != nil {
			return nil, err
		}
		return orb.Polygon{r}, nil
	}
	return nested(v, ring)
}

func nested[T any](v any, each func(any) (T, error)) ([]T, error) {
	elems, ok := value.Elements(v)
	if !ok {
		return nil, fmt.Errorf("%w: %v is not a coordinate list", ErrInvalidGeometry, v)
	}
	out := make([]T, 0, len(elems))
	for _, e := range elems {
		item, err := each(e)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
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
