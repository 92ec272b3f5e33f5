package render

import (
	"github.com/a1s/tgrid/internal/model1"
)

// Base provides a base renderer implementation.
type Base struct{}

// ColorerFunc returns the default colorer.
func (*Base) ColorerFunc() model1.ColorerFunc {
	return model1.DefaultColorer
}
