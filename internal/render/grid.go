package render

import (
	"fmt"

	"github.com/a1s/tgrid/internal/dao"
	"github.com/a1s/tgrid/internal/model1"
)

// Grid renders records through a column schema.
type Grid struct {
	Base

	schema Schema
}

// NewGrid returns a renderer for schema.
func NewGrid(s Schema) *Grid {
	return &Grid{schema: s}
}

// Schema returns the column schema.
func (g *Grid) Schema() Schema {
	return g.schema
}

// Header returns the grid header.
func (g *Grid) Header() model1.Header {
	return g.schema.Header()
}

// Render renders a record to a row.
func (g *Grid) Render(o any, row *model1.Row) error {
	rec, ok := o.(dao.Record)
	if !ok {
		return fmt.Errorf("expected dao.Record, got %T", o)
	}

	row.ID = rec.RowID()
	row.Fields = make(model1.Fields, 0, len(g.schema))
	for _, c := range g.schema {
		row.Fields = append(row.Fields, g.schema.Display(rec, c.Key))
	}

	return nil
}
