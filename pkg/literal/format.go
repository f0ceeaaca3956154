package literal

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"cloud.google.com/go/civil"

	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

// Format renders v the way Python's str() renders the equivalent value.
// Strings render bare; container elements render with Repr.
func Format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return formatDateTime(x)
	case civil.Date:
		return x.String()
	case time.Duration:
		return formatTimedelta(x)
	case value.Path:
		return string(x)
	}
	return Repr(v)
}

// Repr renders v the way Python's repr() renders the equivalent value.
func Repr(v any) string {
	var sb strings.Builder
	writeRepr(&sb, v)
	return sb.String()
}

func writeRepr(sb *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		sb.WriteString("None")
	case bool:
		if x {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case string:
		sb.WriteString(quote(x))
	case []byte:
		sb.WriteString(quoteBytes(x))
	case float64:
		sb.WriteString(FormatFloat(x))
	case float32:
		sb.WriteString(FormatFloat(float64(x)))
	case []any:
		writeSeq(sb, "[", "]", x, false)
	case value.Tuple:
		writeSeq(sb, "(", ")", x, true)
	case *value.Map:
		writeMap(sb, x)
	case time.Time:
		sb.WriteString(reprDateTime(x))
	case civil.Date:
		fmt.Fprintf(sb, "datetime.date(%d, %d, %d)", x.Year, int(x.Month), x.Day)
	case time.Duration:
		sb.WriteString(reprTimedelta(x))
	case value.Path:
		sb.WriteString("PosixPath(" + quote(x.AsPosix()) + ")")
	case value.Member:
		if s, ok := v.(fmt.Stringer); ok {
			sb.WriteString(s.String())
		} else {
			sb.WriteString(x.MemberName())
		}
	case fmt.Stringer:
		sb.WriteString(x.String())
	case error:
		sb.WriteString(x.Error())
	default:
		writeReflect(sb, v)
	}
}

func writeReflect(sb *strings.Builder, v any) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sb.WriteString(strconv.FormatInt(rv.Int(), 10))
		return
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		sb.WriteString(strconv.FormatUint(rv.Uint(), 10))
		return
	case reflect.Float32, reflect.Float64:
		sb.WriteString(FormatFloat(rv.Float()))
		return
	case reflect.Bool:
		writeRepr(sb, rv.Bool())
		return
	case reflect.String:
		sb.WriteString(quote(rv.String()))
		return
	case reflect.Map:
		if m, ok := value.AsMap(v); ok {
			writeMap(sb, m)
			return
		}
	case reflect.Slice, reflect.Array:
		if elems, ok := value.Elements(v); ok {
			writeSeq(sb, "[", "]", elems, false)
			return
		}
	case reflect.Pointer:
		if !rv.IsNil() {
			writeRepr(sb, rv.Elem().Interface())
			return
		}
		sb.WriteString("None")
		return
	}
	fmt.Fprint(sb, v)
}

func writeSeq(sb *strings.Builder, open, closer string, items []any, tuple bool) {
	sb.WriteString(open)
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeRepr(sb, it)
	}
	if tuple && len(items) == 1 {
		sb.WriteByte(',')
	}
	sb.WriteString(closer)
}

func writeMap(sb *strings.Builder, m *value.Map) {
	sb.WriteByte('{')
	i := 0
	for p := m.Oldest(); p != nil; p = p.Next() {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeRepr(sb, p.Key)
		sb.WriteString(": ")
		writeRepr(sb, p.Value)
		i++
	}
	sb.WriteByte('}')
}

// FormatFloat renders f with the shortest round-tripping digits, switching to
// exponent notation outside [1e-4, 1e16) and always showing a fractional part.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	e := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return e
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

func quote(s string) string {
	q := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		q = '"'
	}
	var sb strings.Builder
	sb.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case unicode.IsPrint(r):
			sb.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			fmt.Fprintf(&sb, `\U%08x`, r)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}

func quoteBytes(b []byte) string {
	q := byte('\'')
	if strings.IndexByte(string(b), '\'') >= 0 && strings.IndexByte(string(b), '"') < 0 {
		q = '"'
	}
	var sb strings.Builder
	sb.WriteString("b")
	sb.WriteByte(q)
	for _, c := range b {
		switch {
		case c == q || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}

// formatDateTime renders "YYYY-MM-DD HH:MM:SS[.ffffff][+HH:MM]". Times in UTC
// carry no zone and render without an offset.
func formatDateTime(t time.Time) string {
	layout := "2006-01-02 15:04:05"
	if t.Nanosecond()/1000 != 0 {
		layout += ".000000"
	}
	if t.Location() != time.UTC {
		layout += "-07:00"
	}
	return t.Format(layout)
}

func reprDateTime(t time.Time) string {
	parts := []int{t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond() / 1000}
	n := len(parts)
	for n > 5 && parts[n-1] == 0 {
		n--
	}
	strs := make([]string, n)
	for i, p := range parts[:n] {
		strs[i] = strconv.Itoa(p)
	}
	return "datetime.datetime(" + strings.Join(strs, ", ") + ")"
}

// formatTimedelta renders "[-]D day[s], H:MM:SS[.ffffff]" with days floored
// so the clock part is never negative.
func formatTimedelta(d time.Duration) string {
	us := d.Microseconds()
	const usPerDay = int64(24 * time.Hour / time.Microsecond)
	days := us / usPerDay
	rem := us % usPerDay
	if rem < 0 {
		days--
		rem += usPerDay
	}
	secs := rem / 1e6
	frac := rem % 1e6
	clock := fmt.Sprintf("%d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
	if frac != 0 {
		clock += fmt.Sprintf(".%06d", frac)
	}
	if days == 0 {
		return clock
	}
	unit := "days"
	if days == 1 || days == -1 {
		unit = "day"
	}
	return fmt.Sprintf("%d %s, %s", days, unit, clock)
}

func reprTimedelta(d time.Duration) string {
	if d == 0 {
		return "datetime.timedelta(0)"
	}
	return fmt.Sprintf("datetime.timedelta(seconds=%s)", FormatFloat(d.Seconds()))
}
