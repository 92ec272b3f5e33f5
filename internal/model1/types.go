package model1

import (
	"github.com/gdamore/tcell/v2"
)

// Placeholders for values a record does not carry.
const (
	NAValue = "n/a"
	Blank   = ""
)

// ResEvent represents a row event type.
type ResEvent int

const (
	EventUnchanged ResEvent = 1 << iota
	EventAdd
	EventUpdate
	EventDelete
	EventClear
)

// DecoratorFunc decorates a string.
type DecoratorFunc func(string) string

// ColorerFunc represents a row colorer.
type ColorerFunc func(h Header, re *RowEvent) tcell.Color

// Renderer turns records into table rows.
type Renderer interface {
	// Header returns the table header.
	Header() Header

	// Render fills row from o.
	Render(o any, row *Row) error

	// ColorerFunc returns the row colorer.
	ColorerFunc() ColorerFunc
}
