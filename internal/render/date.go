package render

import (
	"math"
	"time"

	"github.com/a1s/tgrid/internal/dao"
)

// DateLayout renders dates as DD-Mon-YY.
const DateLayout = "02-Jan-06"

// FormatDate renders t with the local calendar fields. The zero time renders
// as InvalidDate.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return InvalidDate
	}
	return t.Local().Format(DateLayout)
}

// ParseDate converts a date-like string.
func ParseDate(s string) (time.Time, bool) {
	return dao.ParseTime(s)
}

// DateValue converts a date-like value: a time, epoch milliseconds or a
// parseable string. Anything else yields the zero time.
func DateValue(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x
	case *time.Time:
		if x == nil {
			return time.Time{}
		}
		return *x
	case int:
		return time.UnixMilli(int64(x))
	case int64:
		return time.UnixMilli(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return time.Time{}
		}
		return time.UnixMilli(int64(x))
	case string:
		t, ok := ParseDate(x)
		if !ok {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}
