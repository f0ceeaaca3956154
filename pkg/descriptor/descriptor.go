// Package descriptor models coercion targets as data.
//
// A Descriptor is one of five variants: a scalar Type, a homogeneous or
// positional Sequence, a positional Tuple, a single-entry Mapping, or an Enum.
// Normalize turns the authoring forms callers write (type names, annotation
// text, Annotation values, reflect.Type, literal containers) into these
// variants.
package descriptor

import (
	"reflect"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/apd/v2"
	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/zacharyburnett/TypePigeon/pkg/geo"
	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

// Descriptor is a normalized coercion target.
type Descriptor interface {
	// String renders the descriptor in annotation syntax, e.g. "[int]",
	// "(int, str)" or "{str: float}".
	String() string
	descriptor()
}

// ScalarKind identifies the family of a scalar Type.
type ScalarKind int

const (
	KindNone ScalarKind = iota
	KindAny
	KindString
	KindInt
	KindFloat
	KindBool
	KindBytes
	KindList
	KindTuple
	KindDict
	KindDate
	KindDateTime
	KindDuration
	KindDecimal
	KindUUID
	KindVersion
	KindPath
	KindGeometry
	KindPoint
	KindMultiPoint
	KindLineString
	KindMultiLineString
	KindPolygon
	KindMultiPolygon
	KindGeometryCollection
	KindCRS
	KindCustom
)

var kindNames = [...]string{
	KindNone:               "none",
	KindAny:                "any",
	KindString:             "string",
	KindInt:                "int",
	KindFloat:              "float",
	KindBool:               "bool",
	KindBytes:              "bytes",
	KindList:               "list",
	KindTuple:              "tuple",
	KindDict:               "dict",
	KindDate:               "date",
	KindDateTime:           "datetime",
	KindDuration:           "duration",
	KindDecimal:            "decimal",
	KindUUID:               "uuid",
	KindVersion:            "version",
	KindPath:               "path",
	KindGeometry:           "geometry",
	KindPoint:              "point",
	KindMultiPoint:         "multipoint",
	KindLineString:         "linestring",
	KindMultiLineString:    "multilinestring",
	KindPolygon:            "polygon",
	KindMultiPolygon:       "multipolygon",
	KindGeometryCollection: "geometrycollection",
	KindCRS:                "crs",
	KindCustom:             "custom",
}

func (k ScalarKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsGeometry reports whether k is one of the geometry kinds.
func (k ScalarKind) IsGeometry() bool {
	return k >= KindGeometry && k <= KindGeometryCollection
}

// Type is a scalar target. Go is the Go type produced by coercion; it is nil
// for None and Any.
type Type struct {
	Kind ScalarKind
	Name string
	Go   reflect.Type
}

func (t Type) String() string { return t.Name }
func (Type) descriptor()      {}

// Built-in scalar types.
var (
	None     = Type{Kind: KindNone, Name: "None"}
	Any      = Type{Kind: KindAny, Name: "Any"}
	String   = Type{Kind: KindString, Name: "str", Go: reflect.TypeFor[string]()}
	Int      = Type{Kind: KindInt, Name: "int", Go: reflect.TypeFor[int]()}
	Float    = Type{Kind: KindFloat, Name: "float", Go: reflect.TypeFor[float64]()}
	Bool     = Type{Kind: KindBool, Name: "bool", Go: reflect.TypeFor[bool]()}
	Bytes    = Type{Kind: KindBytes, Name: "bytes", Go: reflect.TypeFor[[]byte]()}
	ListType = Type{Kind: KindList, Name: "list", Go: reflect.TypeFor[[]any]()}
	// TupleType is the scalar tuple constructor, not a positional descriptor.
	TupleType = Type{Kind: KindTuple, Name: "tuple", Go: reflect.TypeFor[value.Tuple]()}
	DictType  = Type{Kind: KindDict, Name: "dict", Go: reflect.TypeFor[*value.Map]()}
	Date      = Type{Kind: KindDate, Name: "date", Go: reflect.TypeFor[civil.Date]()}
	DateTime  = Type{Kind: KindDateTime, Name: "datetime", Go: reflect.TypeFor[time.Time]()}
	Duration  = Type{Kind: KindDuration, Name: "timedelta", Go: reflect.TypeFor[time.Duration]()}
	Decimal   = Type{Kind: KindDecimal, Name: "Decimal", Go: reflect.TypeFor[*apd.Decimal]()}
	UUID      = Type{Kind: KindUUID, Name: "UUID", Go: reflect.TypeFor[uuid.UUID]()}
	Version   = Type{Kind: KindVersion, Name: "Version", Go: reflect.TypeFor[*semver.Version]()}
	Path      = Type{Kind: KindPath, Name: "Path", Go: reflect.TypeFor[value.Path]()}

	Geometry           = Type{Kind: KindGeometry, Name: "Geometry", Go: reflect.TypeFor[orb.Geometry]()}
	Point              = Type{Kind: KindPoint, Name: "Point", Go: reflect.TypeFor[orb.Point]()}
	MultiPoint         = Type{Kind: KindMultiPoint, Name: "MultiPoint", Go: reflect.TypeFor[orb.MultiPoint]()}
	LineString         = Type{Kind: KindLineString, Name: "LineString", Go: reflect.TypeFor[orb.LineString]()}
	MultiLineString    = Type{Kind: KindMultiLineString, Name: "MultiLineString", Go: reflect.TypeFor[orb.MultiLineString]()}
	Polygon            = Type{Kind: KindPolygon, Name: "Polygon", Go: reflect.TypeFor[orb.Polygon]()}
	MultiPolygon       = Type{Kind: KindMultiPolygon, Name: "MultiPolygon", Go: reflect.TypeFor[orb.MultiPolygon]()}
	GeometryCollection = Type{Kind: KindGeometryCollection, Name: "GeometryCollection", Go: reflect.TypeFor[orb.Collection]()}

	CRS = Type{Kind: KindCRS, Name: "CRS", Go: reflect.TypeFor[*geo.CRS]()}
)

var builtins = []Type{
	None, Any, String, Int, Float, Bool, Bytes, ListType, TupleType, DictType,
	Date, DateTime, Duration, Decimal, UUID, Version, Path,
	Geometry, Point, MultiPoint, LineString, MultiLineString, Polygon, MultiPolygon, GeometryCollection,
	CRS,
}

// builtinNames resolves type names the way a lookup in Python's builtins
// (plus the well-known library types) would, with a few Go spellings.
var builtinNames = func() map[string]Type {
	m := make(map[string]Type, len(builtins)+16)
	for _, t := range builtins {
		m[t.Name] = t
	}
	for alias, t := range map[string]Type{
		"NoneType":      None,
		"typing.Any":    Any,
		"any":           Any,
		"string":        String,
		"float64":       Float,
		"time.Time":     DateTime,
		"time.Duration": Duration,
		"civil.Date":    Date,
		"BaseGeometry":  Geometry,
		"PosixPath":     Path,

		"datetime.date":      Date,
		"datetime.datetime":  DateTime,
		"datetime.timedelta": Duration,
		"decimal.Decimal":    Decimal,
		"uuid.UUID":          UUID,
		"pathlib.Path":       Path,
		"pyproj.CRS":         CRS,
	} {
		m[alias] = t
	}
	return m
}()

// builtinGoTypes maps Go types that have a built-in scalar kind.
var builtinGoTypes = func() map[reflect.Type]Type {
	m := make(map[reflect.Type]Type, len(builtins))
	for _, t := range builtins {
		if t.Go != nil {
			m[t.Go] = t
		}
	}
	m[reflect.TypeFor[apd.Decimal]()] = Decimal
	m[reflect.TypeFor[semver.Version]()] = Version
	return m
}()

// Builtin returns the built-in scalar type registered under name.
func Builtin(name string) (Type, bool) {
	t, ok := builtinNames[name]
	return t, ok
}

// TypeOf returns the scalar descriptor for a Go type. Types without a
// built-in kind become custom types.
func TypeOf(t reflect.Type) Type {
	if b, ok := builtinGoTypes[t]; ok {
		return b
	}
	return Type{Kind: KindCustom, Name: t.String(), Go: t}
}

// TypeFor is the generic form of TypeOf.
func TypeFor[T any]() Type {
	return TypeOf(reflect.TypeFor[T]())
}

// Sequence is a list-like target. One element means "every element coerces to
// this descriptor"; N elements pair positionally with the input.
type Sequence struct {
	Elems []Descriptor
}

// SequenceOf builds a Sequence.
func SequenceOf(elems ...Descriptor) Sequence {
	return Sequence{Elems: elems}
}

func (s Sequence) String() string { return "[" + join(s.Elems) + "]" }
func (Sequence) descriptor()      {}

// Tuple is a tuple-like target with the same arity rules as Sequence; the
// result is a value.Tuple.
type Tuple struct {
	Elems []Descriptor
}

// TupleOf builds a Tuple.
func TupleOf(elems ...Descriptor) Tuple {
	return Tuple{Elems: elems}
}

func (t Tuple) String() string {
	if len(t.Elems) == 1 {
		return "(" + t.Elems[0].String() + ",)"
	}
	return "(" + join(t.Elems) + ")"
}
func (Tuple) descriptor() {}

// Mapping is a homogeneous mapping target. The zero Mapping leaves keys and
// values unchanged.
type Mapping struct {
	Key   Descriptor
	Value Descriptor
}

// MappingOf builds a Mapping.
func MappingOf(key, val Descriptor) Mapping {
	return Mapping{Key: key, Value: val}
}

// IsEmpty reports whether m carries no key or value descriptor.
func (m Mapping) IsEmpty() bool { return m.Key == nil && m.Value == nil }

func (m Mapping) String() string {
	if m.IsEmpty() {
		return "{}"
	}
	return "{" + str(m.Key) + ": " + str(m.Value) + "}"
}
func (Mapping) descriptor() {}

func join(ds []Descriptor) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = str(d)
	}
	return strings.Join(parts, ", ")
}

func str(d Descriptor) string {
	if d == nil {
		return "Any"
	}
	return d.String()
}

// Equal reports whether a and b describe the same target.
func Equal(a, b Descriptor) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Type:
		y, ok := b.(Type)
		return ok && x == y
	case Sequence:
		y, ok := b.(Sequence)
		return ok && equalAll(x.Elems, y.Elems)
	case Tuple:
		y, ok := b.(Tuple)
		return ok && equalAll(x.Elems, y.Elems)
	case Mapping:
		y, ok := b.(Mapping)
		return ok && Equal(x.Key, y.Key) && Equal(x.Value, y.Value)
	case *Enum:
		y, ok := b.(*Enum)
		return ok && x == y
	}
	return false
}

func equalAll(a, b []Descriptor) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
