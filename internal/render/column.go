package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/a1s/tgrid/internal/dao"
	"github.com/a1s/tgrid/internal/model1"
	"github.com/derailed/tview"
)

// FilterKind selects how a column is filtered.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterText
	FilterMultiSelect
	FilterDateRange
	FilterRangeSlider
)

func (k FilterKind) String() string {
	switch k {
	case FilterText:
		return "text"
	case FilterMultiSelect:
		return "multi-select"
	case FilterDateRange:
		return "date-range"
	case FilterRangeSlider:
		return "range-slider"
	default:
		return "none"
	}
}

// ValueFunc maps a raw field to a comparison-ready value.
type ValueFunc func(raw any) any

// DisplayFunc maps a comparison-ready value to display text.
type DisplayFunc func(v any) string

// Column describes one displayed field.
type Column struct {
	Key     string
	Label   string
	Filter  FilterKind
	Value   ValueFunc
	Display DisplayFunc
	Range   *dao.Range
}

// Filterable returns true if the column accepts a filter.
func (c Column) Filterable() bool {
	return c.Filter != FilterNone
}

// Numeric returns true if the column compares as a number.
func (c Column) Numeric() bool {
	return c.Filter == FilterRangeSlider || c.Key == dao.FieldID
}

// ValueOf applies the value transform to a raw field.
func (c Column) ValueOf(raw any) any {
	if i, ok := raw.(int); ok {
		raw = float64(i)
	}
	if c.Value == nil {
		return raw
	}
	return c.Value(raw)
}

// DisplayOf applies the display transform to a comparison-ready value.
func (c Column) DisplayOf(v any) string {
	if c.Display != nil {
		return c.Display(v)
	}
	return DisplayValue(v)
}

// Schema is an ordered set of columns.
type Schema []Column

// GridColumns is the record grid schema.
var GridColumns = Schema{
	{Key: dao.FieldID, Label: "ID"},
	{Key: dao.FieldName, Label: "Name", Filter: FilterText},
	{Key: dao.FieldCategory, Label: "Category", Filter: FilterMultiSelect},
	{Key: dao.FieldSubcategory, Label: "Subcategory", Filter: FilterMultiSelect},
	{
		Key:     dao.FieldCreatedAt,
		Label:   "CreatedAt",
		Filter:  FilterDateRange,
		Value:   dateValue,
		Display: dateDisplay,
	},
	{
		Key:     dao.FieldUpdatedAt,
		Label:   "UpdatedAt",
		Filter:  FilterDateRange,
		Value:   dateValue,
		Display: dateDisplay,
	},
	{Key: dao.FieldPrice, Label: "Price", Filter: FilterRangeSlider, Range: &dao.Range{Min: 11, Max: 200}},
	{Key: dao.FieldSalePrice, Label: "Sale price", Filter: FilterRangeSlider, Range: &dao.Range{Min: 0, Max: 100}},
}

func dateValue(raw any) any {
	return DateValue(raw)
}

func dateDisplay(v any) string {
	t, _ := v.(time.Time)
	return FormatDate(t)
}

// Column returns the column reading key.
func (s Schema) Column(key string) (Column, bool) {
	for _, c := range s {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Index returns the position of the column reading key.
func (s Schema) Index(key string) int {
	for i, c := range s {
		if c.Key == key {
			return i
		}
	}
	return -1
}

// Value returns the comparison-ready value of a record field.
// It satisfies dao.ValueFunc.
func (s Schema) Value(r dao.Record, key string) (any, bool) {
	c, ok := s.Column(key)
	if !ok {
		return nil, false
	}
	raw, ok := r.Field(key)
	if !ok {
		return nil, false
	}
	return c.ValueOf(raw), true
}

// Display returns the display text of a record field.
func (s Schema) Display(r dao.Record, key string) string {
	c, ok := s.Column(key)
	if !ok {
		return NAValue
	}
	raw, ok := r.Field(key)
	if !ok {
		return NAValue
	}
	return c.DisplayOf(c.ValueOf(raw))
}

// Header returns the table header for the schema.
func (s Schema) Header() model1.Header {
	h := make(model1.Header, 0, len(s))
	for _, c := range s {
		col := model1.HeaderColumn{
			Name: strings.ToUpper(c.Label),
			Key:  c.Key,
			Attrs: model1.Attrs{
				Numeric: c.Numeric(),
				Date:    c.Filter == FilterDateRange,
			},
		}
		if col.Numeric {
			col.Align = tview.AlignRight
		}
		h = append(h, col)
	}
	return h
}

// DisplayValue renders a plain value.
func DisplayValue(v any) string {
	switch x := v.(type) {
	case nil:
		return Blank
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		return FormatDate(x)
	default:
		return NAValue
	}
}
