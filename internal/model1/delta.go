package model1

// DeltaRow holds the previous value of each changed cell.
type DeltaRow []string

// NewDeltaRow compares the old and new renditions of a row.
func NewDeltaRow(o, n Row) DeltaRow {
	deltas := make(DeltaRow, len(o.Fields))
	for i, old := range o.Fields {
		if i >= len(n.Fields) {
			continue
		}
		if old != n.Fields[i] {
			deltas[i] = old
		}
	}
	return deltas
}

// IsBlank returns true if no cell changed.
func (d DeltaRow) IsBlank() bool {
	for _, v := range d {
		if v != "" {
			return false
		}
	}
	return true
}

// Clone returns a copy of the deltas.
func (d DeltaRow) Clone() DeltaRow {
	res := make(DeltaRow, len(d))
	copy(res, d)
	return res
}
