package model

import (
	"context"
	"testing"

	"github.com/a1s/tgrid/internal/dao"
	"github.com/a1s/tgrid/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPresenter(t *testing.T, src dao.Source) *Presenter {
	t.Helper()

	g, _ := newTestGrid(t, src)
	g.Start()
	g.Wait()

	return NewPresenter(g, render.GridColumns)
}

func TestPresenterConfig(t *testing.T) {
	t.Parallel()

	p := newTestPresenter(t, newTestSource(t))
	cfg := p.Config()

	assert.Len(t, cfg.Rows, 10)
	assert.Equal(t, 25, cfg.RowCount)
	assert.Equal(t, 3, cfg.PageCount)
	assert.Equal(t, 10, cfg.Data.RowCount())
	assert.Len(t, cfg.Columns, len(render.GridColumns))
	assert.False(t, cfg.IsLoading)
	assert.False(t, cfg.IsError)
	assert.False(t, cfg.ShowAlertBanner)
	assert.Empty(t, cfg.AlertBanner)
	assert.True(t, cfg.HasNextPage())
	assert.False(t, cfg.HasPrevPage())
}

func TestPresenterConfigLoading(t *testing.T) {
	t.Parallel()

	src := newTestSource(t)
	src.gate(0)
	g, _ := newTestGrid(t, src)
	g.Start()

	cfg := NewPresenter(g, render.GridColumns).Config()
	assert.True(t, cfg.IsLoading)
	assert.False(t, cfg.ShowProgressBars)
	assert.NotNil(t, cfg.Rows)
	assert.Empty(t, cfg.Rows)
	assert.Zero(t, cfg.PageCount)

	src.ungate(0)
	g.Wait()
}

func TestPresenterConfigRefetchAndError(t *testing.T) {
	t.Parallel()

	src := newTestSource(t)
	p := newTestPresenter(t, src)

	src.gate(0)
	cfg := p.Config()
	cfg.Refetch()
	cfg = p.Config()
	assert.True(t, cfg.IsRefetching)
	assert.True(t, cfg.ShowProgressBars)
	assert.Len(t, cfg.Rows, 10)

	src.setErr(&dao.DataFetchError{Op: "fetch page", Status: 503})
	src.ungate(0)
	p.Grid().Wait()

	cfg = p.Config()
	assert.True(t, cfg.IsError)
	assert.True(t, cfg.ShowAlertBanner)
	assert.Equal(t, AlertBanner, cfg.AlertBanner)
	assert.False(t, cfg.ShowProgressBars)
	assert.Len(t, cfg.Rows, 10)
	assert.Error(t, cfg.Err)
}

func TestPresenterCallbacks(t *testing.T) {
	t.Parallel()

	p := newTestPresenter(t, newTestSource(t))
	cfg := p.Config()

	cfg.OnColumnFiltersChange([]dao.ColumnFilter{{ID: dao.FieldCategory, Value: []string{"Shoes"}}})
	p.Grid().Wait()
	cfg = p.Config()
	assert.Equal(t, 7, cfg.RowCount)
	assert.Equal(t, 1, cfg.PageCount)

	cfg.OnSortingChange([]dao.SortDirective{{ID: dao.FieldPrice, Desc: true}})
	p.Grid().Wait()
	assert.Equal(t, 5, p.Config().Rows[0].ID)

	cfg.OnGlobalFilterChange("zzz")
	p.Grid().Wait()
	assert.Zero(t, p.Config().RowCount)

	cfg.OnPaginationChange(dao.Pagination{PageIndex: 0, PageSize: 5})
	assert.Equal(t, 5, p.Query().Snapshot().Pagination.PageSize)
	p.Grid().Wait()
}

func TestPresenterPaging(t *testing.T) {
	t.Parallel()

	p := newTestPresenter(t, newTestSource(t))

	assert.False(t, p.PrevPage())
	assert.True(t, p.NextPage())
	p.Grid().Wait()
	assert.Equal(t, 11, p.Config().Rows[0].ID)

	p.LastPage()
	p.Grid().Wait()
	cfg := p.Config()
	assert.Equal(t, 2, cfg.State.Pagination.PageIndex)
	assert.Len(t, cfg.Rows, 5)
	assert.False(t, p.NextPage())

	assert.True(t, p.PrevPage())
	p.Grid().Wait()
	p.FirstPage()
	p.Grid().Wait()
	assert.Equal(t, 0, p.Query().Snapshot().Pagination.PageIndex)
}

func TestPresenterApplyFilter(t *testing.T) {
	t.Parallel()

	p := newTestPresenter(t, newTestSource(t))
	p.Query().SetPageIndex(2)
	p.Grid().Wait()

	require.NoError(t, p.ApplyFilter(dao.FieldPrice, "50..100"))
	p.Grid().Wait()
	cfg := p.Config()
	assert.Equal(t, 0, cfg.State.Pagination.PageIndex)
	assert.Equal(t, 7, cfg.RowCount)
	assert.Equal(t, "50..100", p.FilterExpr(dao.FieldPrice))

	require.NoError(t, p.ApplyFilter(dao.FieldPrice, ""))
	p.Grid().Wait()
	assert.Empty(t, p.Query().Snapshot().ColumnFilters)
	assert.Empty(t, p.FilterExpr(dao.FieldPrice))

	assert.ErrorIs(t, p.ApplyFilter("bozo", "x"), dao.ErrUnknownColumn)
	assert.ErrorIs(t, p.ApplyFilter(dao.FieldID, "x"), render.ErrNotFilterable)
	assert.Error(t, p.ApplyFilter(dao.FieldPrice, "90..10"))

	p.ApplyGlobalFilter(" jacket ")
	p.Grid().Wait()
	assert.Equal(t, 3, p.Config().RowCount)
}

func TestPresenterFacets(t *testing.T) {
	t.Parallel()

	rr, err := dao.DecodeRecords(dao.SampleData())
	require.NoError(t, err)
	p := newTestPresenter(t, dao.NewRecordSource(rr, render.GridColumns.Value))

	ff, err := p.Facets(context.Background(), dao.FieldCategory)
	require.NoError(t, err)
	assert.Len(t, ff, 4)

	ff, err = p.Facets(context.Background(), dao.FieldName)
	require.NoError(t, err)
	assert.Nil(t, ff)
}
