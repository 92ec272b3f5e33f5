package model1

// Fields represents the cells of a row.
type Fields []string

// Diff returns true if the fields differ.
func (f Fields) Diff(ff Fields) bool {
	if len(f) != len(ff) {
		return true
	}
	for i := range f {
		if f[i] != ff[i] {
			return true
		}
	}
	return false
}

// Clone returns a copy of the fields.
func (f Fields) Clone() Fields {
	cp := make(Fields, len(f))
	copy(cp, f)
	return cp
}
