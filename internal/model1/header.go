package model1

import (
	"fmt"
	"reflect"
)

// Attrs represents column attributes.
type Attrs struct {
	Align     int  // tview alignment
	Numeric   bool // right aligned, compared as numbers
	Date      bool // rendered through the date formatter
	Hide      bool // never displayed
	Decorator DecoratorFunc
}

// Merge fills unset attributes from b.
func (a Attrs) Merge(b Attrs) Attrs {
	if a.Align == 0 {
		a.Align = b.Align
	}
	if !a.Hide {
		a.Hide = b.Hide
	}
	if !a.Numeric {
		a.Numeric = b.Numeric
	}
	if !a.Date {
		a.Date = b.Date
	}
	if a.Decorator == nil {
		a.Decorator = b.Decorator
	}
	return a
}

// HeaderColumn represents a table header column.
type HeaderColumn struct {
	Name string
	Key  string
	Attrs
}

func (h HeaderColumn) String() string {
	return fmt.Sprintf("%s(%s) [%d::%t::%t]", h.Name, h.Key, h.Align, h.Numeric, h.Date)
}

// Header represents a table header.
type Header []HeaderColumn

// Clone returns a copy of the header.
func (h Header) Clone() Header {
	he := make(Header, len(h))
	copy(he, h)
	return he
}

// Diff returns true if the headers differ.
func (h Header) Diff(header Header) bool {
	if len(h) != len(header) {
		return true
	}
	for i := range h {
		if h[i].Name != header[i].Name || h[i].Key != header[i].Key {
			return true
		}
		a, b := h[i].Attrs, header[i].Attrs
		a.Decorator, b.Decorator = nil, nil
		if !reflect.DeepEqual(a, b) {
			return true
		}
	}
	return false
}

// IndexOf returns the position of the named column.
func (h Header) IndexOf(colName string) (int, bool) {
	for i, c := range h {
		if c.Name == colName {
			return i, true
		}
	}
	return -1, false
}

// IndexOfKey returns the position of the column reading key.
func (h Header) IndexOfKey(key string) (int, bool) {
	for i, c := range h {
		if c.Key == key {
			return i, true
		}
	}
	return -1, false
}

// IsNumericCol returns true if col holds numbers.
func (h Header) IsNumericCol(col int) bool {
	if col < 0 || col >= len(h) {
		return false
	}
	return h[col].Numeric
}

// IsDateCol returns true if col holds dates.
func (h Header) IsDateCol(col int) bool {
	if col < 0 || col >= len(h) {
		return false
	}
	return h[col].Date
}

// Visible returns the indices of the displayed columns.
func (h Header) Visible() []int {
	cols := make([]int, 0, len(h))
	for i, c := range h {
		if c.Hide {
			continue
		}
		cols = append(cols, i)
	}
	return cols
}

// ColumnNames returns the displayed column names.
func (h Header) ColumnNames() []string {
	if len(h) == 0 {
		return nil
	}
	cc := make([]string, 0, len(h))
	for _, c := range h {
		if c.Hide {
			continue
		}
		cc = append(cc, c.Name)
	}
	return cc
}
