package coerce

import (
	"fmt"
	"math"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/araddon/dateparse"

	"github.com/zacharyburnett/TypePigeon/pkg/descriptor"
)

// dateLayouts are tried before free-form parsing. A value without an offset
// is read as UTC.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	time.RFC3339Nano,
	"20060102T150405",
	"20060102T1504",
	"20060102",
}

// toTime converts to a date or date-time. Date targets drop the time of day;
// date-time targets built from a date start at midnight.
func (e *Engine) toTime(v any, t descriptor.Type) (any, error) {
	var ts time.Time
	switch x := v.(type) {
	case time.Time:
		ts = x
	case civil.Date:
		ts = x.In(time.UTC)
	case civil.DateTime:
		ts = x.In(time.UTC)
	case string, []byte:
		s, _ := isText(x)
		parsed, err := e.parseDate(s)
		if err != nil {
			return nil, malformed(v, t, err)
		}
		ts = parsed
	default:
		return nil, unsupported(v, t)
	}
	if t.Kind == descriptor.KindDate {
		return civil.DateOf(ts), nil
	}
	return ts, nil
}

func (e *Engine) parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return dateparse.ParseIn(s, time.UTC, dateparse.PreferMonthFirst(!e.dayFirst))
}

// toDuration reads "[[D:]H:]M:S" text or a count of seconds.
func toDuration(v any, t descriptor.Type) (any, error) {
	var secs float64
	switch x := v.(type) {
	case string, []byte:
		s, _ := isText(x)
		var err error
		if strings.Contains(s, ":") {
			secs, err = clockSeconds(s)
		} else {
			secs, err = parseFloat(s)
		}
		if err != nil {
			return nil, malformed(v, t, err)
		}
	case bool:
		if x {
			secs = 1
		}
	default:
		_, f, _, ok := number(v)
		if !ok {
			return nil, unsupported(v, t)
		}
		secs = f
	}
	d, err := seconds(secs)
	if err != nil {
		return nil, malformed(v, t, err)
	}
	return d, nil
}

func clockSeconds(s string) (float64, error) {
	fields := strings.Split(s, ":")
	if len(fields) > 4 {
		return 0, fmt.Errorf("unable to parse timedelta from input %q", s)
	}
	parts := make([]float64, len(fields))
	for i, f := range fields {
		p, err := parseFloat(f)
		if err != nil {
			return 0, err
		}
		parts[i] = p
	}

	var total float64
	if len(parts) > 3 {
		total += parts[0] * 86400
		parts = parts[1:]
	}
	if len(parts) > 2 {
		total += parts[0] * 3600
		parts = parts[1:]
	}
	return total + parts[0]*60 + parts[1], nil
}

// seconds converts a second count to a Duration at microsecond resolution.
func seconds(f float64) (time.Duration, error) {
	us := math.RoundToEven(f * 1e6)
	if math.IsNaN(us) || us >= math.MaxInt64/1000 || us <= math.MinInt64/1000 {
		return 0, fmt.Errorf("%v seconds is out of range", f)
	}
	return time.Duration(us) * time.Microsecond, nil
}
