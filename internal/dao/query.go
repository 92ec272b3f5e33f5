package dao

import (
	"encoding/json"
	"fmt"
	"math"
)

// DefaultPageSize is the initial grid page size.
const DefaultPageSize = 10

// ColumnFilter filters a single column. Value is a string (text), a list of
// strings (multi-select) or a two element [min, max] / [from, to] range where
// either bound may be nil.
type ColumnFilter struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

// SortDirective orders rows by a column. Slice order is precedence.
type SortDirective struct {
	ID   string `json:"id"`
	Desc bool   `json:"desc"`
}

// Pagination is the page cursor.
type Pagination struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

// Offset returns the row offset of the page.
func (p Pagination) Offset() int {
	return p.PageIndex * p.PageSize
}

// PageCount returns the number of pages needed for total rows.
func (p Pagination) PageCount(total int) int {
	if p.PageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + p.PageSize - 1) / p.PageSize
}

// QuerySnapshot captures filter, sort and page state at one instant.
// It is the cache key for fetched pages.
type QuerySnapshot struct {
	ColumnFilters []ColumnFilter  `json:"columnFilters"`
	GlobalFilter  string          `json:"globalFilter"`
	Sorting       []SortDirective `json:"sorting"`
	Pagination    Pagination      `json:"pagination"`
}

// NewQuerySnapshot returns the initial snapshot: no filters, no sort, first page.
func NewQuerySnapshot() QuerySnapshot {
	return QuerySnapshot{
		ColumnFilters: []ColumnFilter{},
		Sorting:       []SortDirective{},
		Pagination:    Pagination{PageIndex: 0, PageSize: DefaultPageSize},
	}
}

// Key returns the canonical cache key. Filter and sort order are significant.
func (q QuerySnapshot) Key() string {
	raw, err := json.Marshal(q.normalized())
	if err != nil {
		// Values that cannot be encoded cannot be sent either; fall back to
		// a printed form so distinct snapshots still get distinct keys.
		return fmt.Sprintf("%#v", q)
	}
	return string(raw)
}

// Equal reports whether both snapshots produce the same key.
func (q QuerySnapshot) Equal(o QuerySnapshot) bool {
	return q.Key() == o.Key()
}

// Clone returns a deep copy of the snapshot slices.
func (q QuerySnapshot) Clone() QuerySnapshot {
	out := q
	out.ColumnFilters = make([]ColumnFilter, len(q.ColumnFilters))
	copy(out.ColumnFilters, q.ColumnFilters)
	out.Sorting = make([]SortDirective, len(q.Sorting))
	copy(out.Sorting, q.Sorting)
	return out
}

// Filter returns the filter set on column id.
func (q QuerySnapshot) Filter(id string) (ColumnFilter, bool) {
	for _, f := range q.ColumnFilters {
		if f.ID == id {
			return f, true
		}
	}
	return ColumnFilter{}, false
}

// SortOf returns the sort directive for column id and its precedence.
func (q QuerySnapshot) SortOf(id string) (SortDirective, int, bool) {
	for i, s := range q.Sorting {
		if s.ID == id {
			return s, i, true
		}
	}
	return SortDirective{}, -1, false
}

// normalized treats nil and empty slices alike so they hash to one key.
func (q QuerySnapshot) normalized() QuerySnapshot {
	if q.ColumnFilters == nil {
		q.ColumnFilters = []ColumnFilter{}
	}
	if q.Sorting == nil {
		q.Sorting = []SortDirective{}
	}
	return q
}

// Range is a numeric interval, inclusive on both ends.
type Range struct {
	Min, Max float64
}

// NewRange returns the range between lo and hi. A nil bound is open.
func NewRange(lo, hi *float64) Range {
	r := Range{Min: math.Inf(-1), Max: math.Inf(1)}
	if lo != nil {
		r.Min = *lo
	}
	if hi != nil {
		r.Max = *hi
	}
	return r
}

// Contains is the between-inclusive predicate.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp pulls v into the range.
func (r Range) Clamp(v float64) float64 {
	return min(max(v, r.Min), r.Max)
}

// ResultPage is one page of records plus the size of the full filtered set.
type ResultPage struct {
	Rows          []Record `json:"data"`
	TotalRowCount int      `json:"totalRowCount"`
}

// Empty returns true if the page holds no rows.
func (p *ResultPage) Empty() bool {
	return p == nil || len(p.Rows) == 0
}
