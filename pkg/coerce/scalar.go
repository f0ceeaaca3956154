package coerce

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/apd/v2"
	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/zacharyburnett/TypePigeon/pkg/capabilities"
	"github.com/zacharyburnett/TypePigeon/pkg/descriptor"
	"github.com/zacharyburnett/TypePigeon/pkg/geo"
	"github.com/zacharyburnett/TypePigeon/pkg/literal"
	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

// scalar converts a non-nil input to a scalar target.
func (e *Engine) scalar(v any, t descriptor.Type) (any, error) {
	if t.Go != nil && reflect.TypeOf(v) == t.Go {
		return v, nil
	}

	switch x := v.(type) {
	case *geo.CRS:
		if err := e.require(capabilities.CRS, v, t); err != nil {
			return nil, err
		}
		switch t.Kind {
		case descriptor.KindString:
			return x.ToWKT(), nil
		case descriptor.KindDict:
			return x.ToJSONDict(), nil
		case descriptor.KindInt:
			if code, ok := x.ToEPSG(); ok {
				return code, nil
			}
			return nil, newError(ErrMalformedInput, v, t, nil, "%s has no EPSG code", x.Name)
		}
	case orb.Geometry:
		if err := e.require(capabilities.Geometry, v, t); err != nil {
			return nil, err
		}
	case time.Duration:
		if t.Kind == descriptor.KindString {
			return formatDuration(x), nil
		}
		v = x.Seconds()
	}

	switch t.Kind {
	case descriptor.KindString:
		return toString(v)
	case descriptor.KindInt:
		return toInt(v, t)
	case descriptor.KindFloat:
		return toFloat(v, t)
	case descriptor.KindBool:
		return toBool(v, t)
	case descriptor.KindBytes:
		return toBytes(v, t)
	case descriptor.KindList:
		return toList(v, t)
	case descriptor.KindTuple:
		items, err := toList(v, t)
		if err != nil {
			return nil, err
		}
		return value.Tuple(items), nil
	case descriptor.KindDict:
		return toDict(v, t)
	case descriptor.KindDate, descriptor.KindDateTime:
		return e.toTime(v, t)
	case descriptor.KindDuration:
		return toDuration(v, t)
	case descriptor.KindDecimal:
		return toDecimal(v, t)
	case descriptor.KindUUID:
		return toUUID(v, t)
	case descriptor.KindVersion:
		return toVersion(v, t)
	case descriptor.KindPath:
		if s, ok := isText(v); ok {
			return value.Path(s), nil
		}
	case descriptor.KindCRS:
		return e.toCRS(v, t)
	case descriptor.KindCustom:
		return e.toCustom(v, t)
	}
	if t.Kind.IsGeometry() {
		return e.toGeometry(v, t)
	}
	return nil, unsupported(v, t)
}

func toString(v any) (any, error) {
	switch x := v.(type) {
	case []byte:
		return string(x), nil
	case orb.Geometry:
		return geo.ToWKT(x), nil
	}
	if _, ok := v.(fmt.Stringer); !ok {
		if tm, ok := v.(encoding.TextMarshaler); ok {
			text, err := tm.MarshalText()
			if err != nil {
				return nil, err
			}
			return string(text), nil
		}
	}
	return literal.Format(v), nil
}

// formatDuration renders total hours, minutes and seconds, the seconds to
// three significant digits.
func formatDuration(d time.Duration) string {
	hours := d / time.Hour
	if d%time.Hour < 0 {
		hours--
	}
	rem := d - hours*time.Hour
	minutes := rem / time.Minute
	rem -= minutes * time.Minute

	secs := strconv.FormatFloat(rem.Seconds(), 'g', 3, 64)
	if !strings.ContainsAny(secs, ".e") {
		secs += ".0"
	}
	if len(secs) < 4 {
		secs = strings.Repeat("0", 4-len(secs)) + secs
	}
	return fmt.Sprintf("%02d:%02d:%s", int64(hours), int64(minutes), secs)
}

// number reads any Go numeric kind. isInt is false for floats and for
// unsigned values beyond the int64 range.
func number(v any) (i int64, f float64, isInt bool, ok bool) {
	if _, isBool := v.(bool); isBool {
		return 0, 0, false, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), float64(rv.Int()), true, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, float64(u), false, true
		}
		return int64(u), float64(u), true, true
	case reflect.Float32, reflect.Float64:
		return 0, rv.Float(), false, true
	}
	return 0, 0, false, false
}

func toInt(v any, t descriptor.Type) (any, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string, []byte:
		s, _ := isText(x)
		n, err := parseInt(s)
		if err != nil {
			return nil, malformed(v, t, err)
		}
		return n, nil
	}
	if i, f, isInt, ok := number(v); ok {
		if isInt {
			if i > math.MaxInt || i < math.MinInt {
				return nil, newError(ErrMalformedInput, v, t, nil, "%d overflows int", i)
			}
			return int(i), nil
		}
		return truncate(v, f, t)
	}
	if n, ok := v.(interface{ Int64() (int64, error) }); ok {
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
	}
	if n, ok := v.(interface{ Float64() (float64, error) }); ok {
		f, err := n.Float64()
		if err != nil {
			return nil, malformed(v, t, err)
		}
		return truncate(v, f, t)
	}
	return nil, unsupported(v, t)
}

func truncate(v any, f float64, t descriptor.Type) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, newError(ErrMalformedInput, v, t, nil, "cannot convert %s to integer", literal.FormatFloat(f))
	}
	f = math.Trunc(f)
	if f >= math.MaxInt || f < math.MinInt {
		return nil, newError(ErrMalformedInput, v, t, nil, "%s overflows int", literal.FormatFloat(f))
	}
	return int(f), nil
}

// parseInt reads base-10 integer text; surrounding whitespace and single
// underscores between digits are allowed.
func parseInt(s string) (int, error) {
	s, err := digits(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}

func parseFloat(s string) (float64, error) {
	s, err := digits(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if strings.Contains(strings.ToLower(s), "0x") {
		return 0, fmt.Errorf("invalid literal for float: %q", s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return f, nil
}

func digits(s string) (string, error) {
	if !strings.Contains(s, "_") {
		return s, nil
	}
	if strings.Contains(s, "__") || strings.HasPrefix(s, "_") || strings.HasSuffix(s, "_") {
		return "", fmt.Errorf("invalid underscores in %q", s)
	}
	return strings.ReplaceAll(s, "_", ""), nil
}

func toFloat(v any, t descriptor.Type) (any, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1.0, nil
		}
		return 0.0, nil
	case string, []byte:
		s, _ := isText(x)
		f, err := parseFloat(s)
		if err != nil {
			return nil, malformed(v, t, err)
		}
		return f, nil
	}
	if _, f, _, ok := number(v); ok {
		return f, nil
	}
	if n, ok := v.(interface{ Float64() (float64, error) }); ok {
		f, err := n.Float64()
		if err != nil {
			return nil, malformed(v, t, err)
		}
		return f, nil
	}
	return nil, unsupported(v, t)
}

// toBool evaluates the rendered input as a literal. Text that names nothing
// literal falls back to truthiness; text that does not parse is malformed.
func toBool(v any, t descriptor.Type) (any, error) {
	parsed, err := literal.Parse(literal.Format(v))
	switch {
	case errors.Is(err, literal.ErrNotLiteral):
		return truthy(v), nil
	case err != nil:
		return nil, malformed(v, t, err)
	}
	return truthy(parsed), nil
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case []byte:
		return len(x) > 0
	case time.Duration:
		return x != 0
	case *apd.Decimal:
		return !x.IsZero()
	}
	if _, f, _, ok := number(v); ok {
		return f != 0
	}
	if m, ok := value.AsMap(v); ok {
		return m.Len() > 0
	}
	if items, ok := value.Elements(v); ok {
		return len(items) > 0
	}
	return true
}

func toBytes(v any, t descriptor.Type) (any, error) {
	switch x := v.(type) {
	case string:
		return []byte(x), nil
	case orb.Geometry:
		return geo.ToWKB(x)
	}
	items, ok := value.Elements(v)
	if !ok {
		return nil, unsupported(v, t)
	}
	out := make([]byte, len(items))
	for i, item := range items {
		n, _, isInt, ok := number(item)
		if !ok || !isInt || n < 0 || n > 255 {
			return nil, newError(ErrMalformedInput, v, t, nil, "bytes must be in range(0, 256), got %s", literal.Repr(item))
		}
		out[i] = byte(n)
	}
	return out, nil
}

func toList(v any, t descriptor.Type) ([]any, error) {
	switch x := v.(type) {
	case string:
		return chars(x), nil
	case []byte:
		return byteInts(x), nil
	}
	items, ok := value.Elements(v)
	if !ok {
		return nil, unsupported(v, t)
	}
	return append([]any{}, items...), nil
}

func toDict(v any, t descriptor.Type) (any, error) {
	if m, ok := value.AsMap(v); ok {
		out := value.NewMap()
		for p := m.Oldest(); p != nil; p = p.Next() {
			out.Set(p.Key, p.Value)
		}
		return out, nil
	}
	items, ok := value.Elements(v)
	if !ok {
		if _, text := isText(v); text {
			return nil, newError(ErrMalformedInput, v, t, nil, "text is not a sequence of pairs")
		}
		return nil, unsupported(v, t)
	}
	out := value.NewMap()
	for i, item := range items {
		pair, ok := value.Elements(item)
		if !ok || len(pair) != 2 {
			return nil, newError(ErrMalformedInput, v, t, nil, "element #%d is not a key/value pair", i)
		}
		if !value.IsHashable(pair[0]) {
			return nil, newError(ErrMalformedInput, v, t, nil, "key %s is not hashable", literal.Repr(pair[0]))
		}
		out.Set(pair[0], pair[1])
	}
	return out, nil
}

func toDecimal(v any, t descriptor.Type) (any, error) {
	switch x := v.(type) {
	case apd.Decimal:
		return new(apd.Decimal).Set(&x), nil
	case bool:
		if x {
			return apd.New(1, 0), nil
		}
		return apd.New(0, 0), nil
	case string, []byte:
		s, _ := isText(x)
		d, _, err := apd.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return nil, malformed(v, t, err)
		}
		return d, nil
	}
	if i, f, isInt, ok := number(v); ok {
		if isInt {
			return apd.New(i, 0), nil
		}
		d, err := new(apd.Decimal).SetFloat64(f)
		if err != nil {
			return nil, malformed(v, t, err)
		}
		return d, nil
	}
	if n, ok := v.(interface{ Int64() (int64, error) }); ok {
		if i, err := n.Int64(); err == nil {
			return apd.New(i, 0), nil
		}
	}
	return nil, unsupported(v, t)
}

func toUUID(v any, t descriptor.Type) (any, error) {
	switch x := v.(type) {
	case string:
		id, err := uuid.Parse(strings.TrimSpace(x))
		if err != nil {
			return nil, malformed(v, t, err)
		}
		return id, nil
	case []byte:
		var id uuid.UUID
		var err error
		if len(x) == 16 {
			id, err = uuid.FromBytes(x)
		} else {
			id, err = uuid.ParseBytes(x)
		}
		if err != nil {
			return nil, malformed(v, t, err)
		}
		return id, nil
	case [16]byte:
		return uuid.UUID(x), nil
	}
	return nil, unsupported(v, t)
}

func toVersion(v any, t descriptor.Type) (any, error) {
	var text string
	switch x := v.(type) {
	case semver.Version:
		return &x, nil
	case string, []byte:
		text, _ = isText(x)
	default:
		if _, _, _, ok := number(v); !ok {
			return nil, unsupported(v, t)
		}
		text = literal.Format(v)
	}
	ver, err := semver.NewVersion(strings.TrimSpace(text))
	if err != nil {
		return nil, malformed(v, t, err)
	}
	return ver, nil
}
