package data

// MaxViewPageSize caps a persisted page size.
const MaxViewPageSize = 1000

// ViewSort is a persisted sort directive.
type ViewSort struct {
	Column string `yaml:"column"`
	Desc   bool   `yaml:"desc,omitempty"`
}

// ViewFilter is a persisted column filter in its command line form,
// e.g. "Shoes, Bags" or "20..80".
type ViewFilter struct {
	Column string `yaml:"column"`
	Expr   string `yaml:"expr"`
}

// View is the grid state remembered across sessions for one source.
type View struct {
	PageSize int          `yaml:"pageSize"`
	Filters  []ViewFilter `yaml:"filters,omitempty"`
	Sorting  []ViewSort   `yaml:"sorting,omitempty"`
}

// NewView creates a View with default settings
func NewView(pageSize int) *View {
	return &View{
		PageSize: pageSize,
	}
}

// Validate drops invalid entries, falling back to pageSize.
func (v *View) Validate(pageSize int) {
	if v.PageSize <= 0 || v.PageSize > MaxViewPageSize {
		v.PageSize = pageSize
	}

	seen := make(map[string]struct{}, len(v.Filters))
	ff := v.Filters[:0]
	for _, f := range v.Filters {
		if f.Column == "" || f.Expr == "" {
			continue
		}
		if _, ok := seen[f.Column]; ok {
			continue
		}
		seen[f.Column] = struct{}{}
		ff = append(ff, f)
	}
	v.Filters = ff

	seen = make(map[string]struct{}, len(v.Sorting))
	ss := v.Sorting[:0]
	for _, s := range v.Sorting {
		if s.Column == "" {
			continue
		}
		if _, ok := seen[s.Column]; ok {
			continue
		}
		seen[s.Column] = struct{}{}
		ss = append(ss, s)
	}
	v.Sorting = ss
}
