package model1

import "github.com/gdamore/tcell/v2"

var (
	// ModColor row modified color.
	ModColor tcell.Color = tcell.ColorYellow

	// AddColor row added color.
	AddColor tcell.Color = tcell.ColorBlue

	// PendingColor row color while a fetch is in flight.
	PendingColor tcell.Color = tcell.ColorDarkCyan

	// ErrColor row error color.
	ErrColor tcell.Color = tcell.ColorRed

	// StdColor row default color.
	StdColor tcell.Color = tcell.ColorWhite

	// HighlightColor matched filter color.
	HighlightColor tcell.Color = tcell.ColorAqua

	// KillColor row deleted color.
	KillColor tcell.Color = tcell.ColorGray
)

// DefaultColorer set the default table row colors.
func DefaultColorer(_ Header, re *RowEvent) tcell.Color {
	switch re.Kind {
	case EventAdd:
		return AddColor
	case EventUpdate:
		return ModColor
	case EventDelete:
		return KillColor
	default:
		return StdColor
	}
}
