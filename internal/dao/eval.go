package dao

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/fvbommel/sortorder"
)

// ParseTime parses a date-like string in the local zone.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Evaluate applies a snapshot to an in-memory record set: column filters,
// global filter, sorting and paging. value supplies typed column values.
func Evaluate(records []Record, snap QuerySnapshot, value ValueFunc) (*ResultPage, error) {
	if value == nil {
		value = RawValue
	}
	for _, f := range snap.ColumnFilters {
		if _, ok := value(Record{}, f.ID); !ok {
			return nil, fmt.Errorf("filter %q: %w", f.ID, ErrUnknownColumn)
		}
	}
	for _, s := range snap.Sorting {
		if _, ok := value(Record{}, s.ID); !ok {
			return nil, fmt.Errorf("sort %q: %w", s.ID, ErrUnknownColumn)
		}
	}

	global := strings.ToLower(strings.TrimSpace(snap.GlobalFilter))
	matched := make([]Record, 0, len(records))
	for _, r := range records {
		ok, err := matchRecord(r, snap.ColumnFilters, global, value)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, r)
		}
	}

	if len(snap.Sorting) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			return lessRecords(matched[i], matched[j], snap.Sorting, value)
		})
	}

	return pageOf(matched, snap.Pagination), nil
}

// Facets returns the distinct values of column in natural order.
func Facets(records []Record, column string) ([]string, error) {
	if _, ok := (Record{}).Field(column); !ok {
		return nil, fmt.Errorf("facets %q: %w", column, ErrUnknownColumn)
	}
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0, 16)
	for _, r := range records {
		v, _ := r.Field(column)
		s := formatValue(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return sortorder.NaturalLess(out[i], out[j])
	})
	return out, nil
}

func pageOf(rows []Record, p Pagination) *ResultPage {
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	start := max(p.PageIndex, 0) * size
	page := &ResultPage{TotalRowCount: len(rows), Rows: []Record{}}
	if start >= len(rows) {
		return page
	}
	end := min(start+size, len(rows))
	page.Rows = append(page.Rows, rows[start:end]...)
	return page
}

func matchRecord(r Record, filters []ColumnFilter, global string, value ValueFunc) (bool, error) {
	for _, f := range filters {
		v, _ := value(r, f.ID)
		ok, err := matchValue(v, f.Value)
		if err != nil {
			return false, fmt.Errorf("filter %q: %w", f.ID, err)
		}
		if !ok {
			return false, nil
		}
	}
	if global == "" {
		return true, nil
	}
	for _, key := range Fields {
		raw, _ := r.Field(key)
		if strings.Contains(strings.ToLower(formatValue(raw)), global) {
			return true, nil
		}
	}
	return false, nil
}

func matchValue(v, filter any) (bool, error) {
	if isEmptyFilter(filter) {
		return true, nil
	}

	switch x := v.(type) {
	case string:
		if s, ok := filter.(string); ok {
			return strings.Contains(strings.ToLower(x), strings.ToLower(s)), nil
		}
		set, ok := toStrings(filter)
		if !ok {
			return false, fmt.Errorf("unsupported text filter %T", filter)
		}
		for _, s := range set {
			if s == x {
				return true, nil
			}
		}
		return false, nil

	case float64:
		if lo, hi, ok := toNumberRange(filter); ok {
			return NewRange(lo, hi).Contains(x), nil
		}
		if n, ok := toNumber(filter); ok {
			return x == n, nil
		}
		return false, fmt.Errorf("unsupported numeric filter %T", filter)

	case time.Time:
		lo, hi, ok := toTimeRange(filter)
		if !ok {
			return false, fmt.Errorf("unsupported date filter %T", filter)
		}
		if x.IsZero() {
			return false, nil
		}
		if lo != nil && x.Before(*lo) {
			return false, nil
		}
		if hi != nil && x.After(*hi) {
			return false, nil
		}
		return true, nil

	default:
		s, ok := filter.(string)
		if !ok {
			return false, nil
		}
		return strings.Contains(strings.ToLower(formatValue(v)), strings.ToLower(s)), nil
	}
}

func isEmptyFilter(filter any) bool {
	switch f := filter.(type) {
	case nil:
		return true
	case string:
		return f == ""
	case []string:
		return len(f) == 0
	case []any:
		if len(f) == 0 {
			return true
		}
		for _, e := range f {
			if !isEmptyFilter(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func toStrings(filter any) ([]string, bool) {
	switch f := filter.(type) {
	case []string:
		return f, true
	case []any:
		out := make([]string, 0, len(f))
		for _, e := range f {
			out = append(out, formatValue(e))
		}
		return out, true
	default:
		return nil, false
	}
}

func toBounds(filter any) ([2]any, bool) {
	var b [2]any
	switch f := filter.(type) {
	case []any:
		if len(f) != 2 {
			return b, false
		}
		b[0], b[1] = f[0], f[1]
	case []string:
		if len(f) != 2 {
			return b, false
		}
		b[0], b[1] = f[0], f[1]
	case []float64:
		if len(f) != 2 {
			return b, false
		}
		b[0], b[1] = f[0], f[1]
	case []*float64:
		if len(f) != 2 {
			return b, false
		}
		for i, p := range f {
			if p != nil {
				b[i] = *p
			}
		}
	default:
		return b, false
	}
	return b, true
}

func toNumberRange(filter any) (lo, hi *float64, ok bool) {
	b, ok := toBounds(filter)
	if !ok {
		return nil, nil, false
	}
	var out [2]*float64
	for i, e := range b {
		if isEmptyFilter(e) {
			continue
		}
		n, ok := toNumber(e)
		if !ok {
			return nil, nil, false
		}
		out[i] = &n
	}
	return out[0], out[1], true
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toTimeRange(filter any) (lo, hi *time.Time, ok bool) {
	b, ok := toBounds(filter)
	if !ok {
		return nil, nil, false
	}
	var out [2]*time.Time
	for i, e := range b {
		if isEmptyFilter(e) {
			continue
		}
		var t time.Time
		switch x := e.(type) {
		case time.Time:
			t = x
		case string:
			var ok bool
			if t, ok = ParseTime(x); !ok {
				return nil, nil, false
			}
		default:
			return nil, nil, false
		}
		if i == 1 && isMidnight(t) {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		out[i] = &t
	}
	return out[0], out[1], true
}

func isMidnight(t time.Time) bool {
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}

func lessRecords(a, b Record, sorting []SortDirective, value ValueFunc) bool {
	for _, s := range sorting {
		va, _ := value(a, s.ID)
		vb, _ := value(b, s.ID)
		c := compareValues(va, vb)
		if c == 0 {
			continue
		}
		if s.Desc {
			return c > 0
		}
		return c < 0
	}
	return a.ID < b.ID
}

func compareValues(a, b any) int {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			break
		}
		switch {
		case x == y:
			return 0
		case sortorder.NaturalLess(x, y):
			return -1
		default:
			return 1
		}
	case float64:
		y, ok := b.(float64)
		if !ok {
			break
		}
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			break
		}
		return x.Compare(y)
	}

	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return strings.Compare(formatValue(a), formatValue(b))
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
