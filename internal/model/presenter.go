package model

import (
	"context"

	"github.com/a1s/tgrid/internal/dao"
	"github.com/a1s/tgrid/internal/model1"
	"github.com/a1s/tgrid/internal/render"
)

// AlertBanner is shown while the current snapshot failed to load.
const AlertBanner = "Error loading data"

// GridConfig is everything the table view needs to draw one frame.
type GridConfig struct {
	Columns   render.Schema
	Data      *model1.TableData
	Rows      []dao.Record
	RowCount  int
	PageCount int
	State     dao.QuerySnapshot

	OnColumnFiltersChange func([]dao.ColumnFilter)
	OnGlobalFilterChange  func(string)
	OnSortingChange       func([]dao.SortDirective)
	OnPaginationChange    func(dao.Pagination)
	Refetch               func()

	IsLoading        bool
	IsRefetching     bool
	IsError          bool
	ShowAlertBanner  bool
	AlertBanner      string
	ShowProgressBars bool
	Err              error
}

// HasNextPage returns true if a page follows the current one.
func (c GridConfig) HasNextPage() bool {
	return c.State.Pagination.PageIndex+1 < c.PageCount
}

// HasPrevPage returns true if a page precedes the current one.
func (c GridConfig) HasPrevPage() bool {
	return c.State.Pagination.PageIndex > 0
}

// Presenter binds the query state, the grid model and the column schema.
type Presenter struct {
	grid   *GridData
	query  *QueryState
	schema render.Schema
}

// NewPresenter returns a presenter over grid.
func NewPresenter(grid *GridData, schema render.Schema) *Presenter {
	return &Presenter{grid: grid, query: grid.Query(), schema: schema}
}

// Grid returns the grid model.
func (p *Presenter) Grid() *GridData {
	return p.grid
}

// Query returns the query state.
func (p *Presenter) Query() *QueryState {
	return p.query
}

// Schema returns the column schema.
func (p *Presenter) Schema() render.Schema {
	return p.schema
}

// Config derives the current render configuration.
func (p *Presenter) Config() GridConfig {
	snap := p.query.Snapshot()
	st := p.grid.Status()
	page := p.grid.Page()

	cfg := GridConfig{
		Columns: p.schema,
		Data:    p.grid.Peek(),
		Rows:    []dao.Record{},
		State:   snap,

		OnColumnFiltersChange: p.query.SetColumnFilters,
		OnGlobalFilterChange:  p.query.SetGlobalFilter,
		OnSortingChange:       p.query.SetSorting,
		OnPaginationChange:    p.query.SetPagination,
		Refetch:               p.grid.Refetch,

		IsLoading:        st.Loading,
		IsRefetching:     st.Refetching,
		IsError:          st.Error,
		ShowAlertBanner:  st.Error,
		ShowProgressBars: st.Refetching,
		Err:              st.Err,
	}
	if st.Error {
		cfg.AlertBanner = AlertBanner
	}
	if page != nil {
		cfg.Rows = page.Rows
		cfg.RowCount = page.TotalRowCount
		cfg.PageCount = snap.Pagination.PageCount(page.TotalRowCount)
	}

	return cfg
}

// Facets returns the distinct values of a multi-select column.
func (p *Presenter) Facets(ctx context.Context, key string) ([]string, error) {
	c, ok := p.schema.Column(key)
	if !ok || c.Filter != render.FilterMultiSelect {
		return nil, nil
	}
	return p.grid.Facets(ctx, key)
}

// NextPage advances one page if there is one.
func (p *Presenter) NextPage() bool {
	cfg := p.Config()
	if !cfg.HasNextPage() {
		return false
	}
	p.query.SetPageIndex(cfg.State.Pagination.PageIndex + 1)
	return true
}

// PrevPage goes back one page if there is one.
func (p *Presenter) PrevPage() bool {
	snap := p.query.Snapshot()
	if snap.Pagination.PageIndex == 0 {
		return false
	}
	p.query.SetPageIndex(snap.Pagination.PageIndex - 1)
	return true
}

// FirstPage returns to the first page.
func (p *Presenter) FirstPage() {
	p.query.SetPageIndex(0)
}

// LastPage jumps to the last known page.
func (p *Presenter) LastPage() {
	cfg := p.Config()
	if cfg.PageCount == 0 {
		return
	}
	p.query.SetPageIndex(cfg.PageCount - 1)
}

// ApplyFilter parses expr for column key and returns to the first page.
func (p *Presenter) ApplyFilter(key, expr string) error {
	c, ok := p.schema.Column(key)
	if !ok {
		return dao.ErrUnknownColumn
	}
	v, err := render.ParseFilter(c, expr)
	if err != nil {
		return err
	}
	p.query.Update(func(s *dao.QuerySnapshot) {
		setFilter(s, key, v)
		s.Pagination.PageIndex = 0
	})
	return nil
}

// ApplyGlobalFilter sets the global filter and returns to the first page.
func (p *Presenter) ApplyGlobalFilter(text string) {
	p.query.Update(func(s *dao.QuerySnapshot) {
		s.GlobalFilter = text
		s.Pagination.PageIndex = 0
	})
}

// FilterExpr renders the active filter of column key.
func (p *Presenter) FilterExpr(key string) string {
	c, ok := p.schema.Column(key)
	if !ok {
		return ""
	}
	f, ok := p.query.Snapshot().Filter(key)
	if !ok {
		return ""
	}
	return render.FormatFilter(c, f.Value)
}

// setFilter upserts the filter on column id in place. A nil value removes it.
func setFilter(s *dao.QuerySnapshot, id string, v any) {
	for i, f := range s.ColumnFilters {
		if f.ID != id {
			continue
		}
		if v == nil {
			s.ColumnFilters = append(s.ColumnFilters[:i], s.ColumnFilters[i+1:]...)
		} else {
			s.ColumnFilters[i].Value = v
		}
		return
	}
	if v != nil {
		s.ColumnFilters = append(s.ColumnFilters, dao.ColumnFilter{ID: id, Value: v})
	}
}
