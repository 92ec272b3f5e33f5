package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNotFilterable indicates a filter on a column without a filter kind.
var ErrNotFilterable = errors.New("column is not filterable")

// dayLayout renders date-only filter bounds.
const dayLayout = "2006-01-02"

// ParseFilter converts a filter expression into the column's filter value.
// An empty expression clears the filter and yields nil.
//
//	text          substring
//	multi-select  a, b, c
//	date-range    2023-01-01..2023-06-30 (either bound may be omitted)
//	range-slider  20..80 (either bound may be omitted, clamped to the column range)
func ParseFilter(c Column, expr string) (any, error) {
	expr = strings.TrimSpace(expr)
	if !c.Filterable() {
		return nil, fmt.Errorf("%s: %w", c.Label, ErrNotFilterable)
	}
	if expr == "" {
		return nil, nil
	}

	switch c.Filter {
	case FilterText:
		return expr, nil

	case FilterMultiSelect:
		var vv []string
		for _, v := range strings.Split(expr, ListSep) {
			if v = strings.TrimSpace(v); v != "" {
				vv = append(vv, v)
			}
		}
		if len(vv) == 0 {
			return nil, nil
		}
		return vv, nil

	case FilterDateRange:
		lo, hi := splitRange(expr)
		from, err := parseDateBound(lo)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Label, err)
		}
		to, err := parseDateBound(hi)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Label, err)
		}
		if from == nil && to == nil {
			return nil, nil
		}
		if from != nil && to != nil {
			a, _ := ParseDate(from.(string))
			b, _ := ParseDate(to.(string))
			if a.After(b) {
				return nil, fmt.Errorf("%s: start %s is after end %s", c.Label, from, to)
			}
		}
		return []any{from, to}, nil

	case FilterRangeSlider:
		lo, hi := splitRange(expr)
		if !strings.Contains(expr, RangeSep) {
			hi = lo
		}
		a, err := parseNumberBound(c, lo)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Label, err)
		}
		b, err := parseNumberBound(c, hi)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Label, err)
		}
		if a == nil && b == nil {
			return nil, nil
		}
		if a != nil && b != nil && a.(float64) > b.(float64) {
			return nil, fmt.Errorf("%s: min %v is greater than max %v", c.Label, a, b)
		}
		return []any{a, b}, nil
	}

	return nil, fmt.Errorf("%s: unsupported filter kind %s", c.Label, c.Filter)
}

// FormatFilter renders a filter value back into an expression.
func FormatFilter(c Column, v any) string {
	switch x := v.(type) {
	case nil:
		return Blank
	case string:
		return x
	case []string:
		return strings.Join(x, ListSep+" ")
	case []any:
		if c.Filter == FilterMultiSelect {
			ss := make([]string, 0, len(x))
			for _, e := range x {
				ss = append(ss, boundString(e))
			}
			return strings.Join(ss, ListSep+" ")
		}
		if len(x) == 2 {
			return boundString(x[0]) + RangeSep + boundString(x[1])
		}
	}
	return fmt.Sprint(v)
}

func boundString(v any) string {
	switch x := v.(type) {
	case nil:
		return Blank
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func splitRange(expr string) (string, string) {
	lo, hi, _ := strings.Cut(expr, RangeSep)
	return strings.TrimSpace(lo), strings.TrimSpace(hi)
}

func parseDateBound(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	t, ok := ParseDate(s)
	if !ok {
		return nil, fmt.Errorf("invalid date %q", s)
	}
	h, m, sec := t.Clock()
	if h == 0 && m == 0 && sec == 0 && t.Nanosecond() == 0 {
		return t.Format(dayLayout), nil
	}
	return t.Format(time.RFC3339), nil
}

func parseNumberBound(c Column, s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	if c.Range != nil {
		f = c.Range.Clamp(f)
	}
	return f, nil
}
