package view

import (
	"testing"

	"github.com/a1s/tgrid/internal/config/data"
	"github.com/a1s/tgrid/internal/dao"
	"github.com/a1s/tgrid/internal/model"
	"github.com/a1s/tgrid/internal/render"
	"github.com/stretchr/testify/assert"
)

func TestRestoreView(t *testing.T) {
	t.Parallel()

	q := model.NewQueryState(10)
	restoreView(q, &data.View{
		PageSize: 25,
		Filters: []data.ViewFilter{
			{Column: dao.FieldCategory, Expr: "Shoes, Bags"},
			{Column: dao.FieldPrice, Expr: "20..80"},
			{Column: "color", Expr: "red"},
			{Column: dao.FieldSalePrice, Expr: "90..10"},
		},
		Sorting: []data.ViewSort{
			{Column: dao.FieldPrice, Desc: true},
			{Column: "color"},
			{Column: dao.FieldName},
		},
	}, render.GridColumns)

	s := q.Snapshot()
	assert.Equal(t, 25, s.Pagination.PageSize)
	assert.Equal(t, []dao.ColumnFilter{
		{ID: dao.FieldCategory, Value: []string{"Shoes", "Bags"}},
		{ID: dao.FieldPrice, Value: []any{20.0, 80.0}},
	}, s.ColumnFilters)
	assert.Equal(t, []dao.SortDirective{
		{ID: dao.FieldPrice, Desc: true},
		{ID: dao.FieldName},
	}, s.Sorting)

	v := captureView(s, render.GridColumns)
	assert.Equal(t, 25, v.PageSize)
	assert.Equal(t, []data.ViewFilter{
		{Column: dao.FieldCategory, Expr: "Shoes, Bags"},
		{Column: dao.FieldPrice, Expr: "20..80"},
	}, v.Filters)
	assert.Equal(t, []data.ViewSort{
		{Column: dao.FieldPrice, Desc: true},
		{Column: dao.FieldName},
	}, v.Sorting)
}

func TestCompleteList(t *testing.T) {
	t.Parallel()

	vv := []string{"Shoes", "Shirts", "Bags", "Accessories"}
	uu := map[string]struct {
		text string
		e    []string
	}{
		"first":    {text: "sh", e: []string{"Shirts", "Shoes"}},
		"next":     {text: "Shoes, b", e: []string{"Shoes, Bags"}},
		"complete": {text: "Shoes", e: nil},
		"empty":    {text: "", e: nil},
		"trailing": {text: "Shoes,", e: nil},
		"none":     {text: "z", e: nil},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, u.e, completeList(u.text, vv))
		})
	}
}
