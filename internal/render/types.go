package render

const (
	// Display values
	MissingValue = "<none>"
	NAValue      = "n/a"
	Blank        = ""

	// InvalidDate renders a date that could not be parsed.
	InvalidDate = "Invalid Date"

	// RangeSep separates range bounds in filter expressions.
	RangeSep = ".."

	// ListSep separates multi-select values in filter expressions.
	ListSep = ","
)

// Missing returns MissingValue if string is empty.
func Missing(s string) string {
	if s == "" {
		return MissingValue
	}
	return s
}
