package render

import (
	"testing"
	"time"

	"github.com/a1s/tgrid/internal/dao"
	"github.com/a1s/tgrid/internal/model1"
	"github.com/derailed/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() dao.Record {
	return dao.Record{
		ID:          7,
		Name:        "Diver Watch",
		Category:    "Accessories",
		Subcategory: "Watches",
		CreatedAt:   "2023-07-23T21:17:00Z",
		UpdatedAt:   "garbage",
		Price:       11,
		SalePrice:   0.5,
	}
}

func TestSchemaValue(t *testing.T) {
	t.Parallel()

	r := testRecord()

	v, ok := GridColumns.Value(r, dao.FieldID)
	require.True(t, ok)
	assert.Equal(t, 7.0, v)

	v, ok = GridColumns.Value(r, dao.FieldCreatedAt)
	require.True(t, ok)
	assert.IsType(t, time.Time{}, v)
	assert.Equal(t, 2023, v.(time.Time).Year())

	v, ok = GridColumns.Value(r, dao.FieldUpdatedAt)
	require.True(t, ok)
	assert.True(t, v.(time.Time).IsZero())

	_, ok = GridColumns.Value(r, "bozo")
	assert.False(t, ok)
}

func TestSchemaDisplay(t *testing.T) {
	t.Parallel()

	r := testRecord()

	uu := map[string]string{
		dao.FieldID:          "7",
		dao.FieldName:        "Diver Watch",
		dao.FieldCategory:    "Accessories",
		dao.FieldUpdatedAt:   InvalidDate,
		dao.FieldPrice:       "11",
		dao.FieldSalePrice:   "0.5",
		"bozo":               NAValue,
		dao.FieldSubcategory: "Watches",
	}

	for k, e := range uu {
		assert.Equal(t, e, GridColumns.Display(r, k), k)
	}
	assert.Len(t, GridColumns.Display(r, dao.FieldCreatedAt), len(DateLayout))
}

func TestSchemaHeader(t *testing.T) {
	t.Parallel()

	h := GridColumns.Header()
	require.Len(t, h, len(GridColumns))
	assert.Equal(t, []string{"ID", "NAME", "CATEGORY", "SUBCATEGORY", "CREATEDAT", "UPDATEDAT", "PRICE", "SALE PRICE"}, h.ColumnNames())

	i, ok := h.IndexOfKey(dao.FieldPrice)
	require.True(t, ok)
	assert.True(t, h.IsNumericCol(i))
	assert.Equal(t, tview.AlignRight, h[i].Align)

	i, ok = h.IndexOfKey(dao.FieldCreatedAt)
	require.True(t, ok)
	assert.True(t, h.IsDateCol(i))
}

func TestSchemaMatchesRecordFields(t *testing.T) {
	t.Parallel()

	for _, f := range dao.Fields {
		_, ok := GridColumns.Column(f)
		assert.True(t, ok, f)
	}
	assert.Equal(t, 6, GridColumns.Index(dao.FieldPrice))
	assert.Equal(t, -1, GridColumns.Index("bozo"))
}

func TestGridRender(t *testing.T) {
	t.Parallel()

	g := NewGrid(GridColumns)
	var row model1.Row
	require.NoError(t, g.Render(testRecord(), &row))

	assert.Equal(t, "7", row.ID)
	assert.Len(t, row.Fields, len(GridColumns))
	assert.Equal(t, "Diver Watch", row.Fields[1])
	assert.Equal(t, InvalidDate, row.Fields[5])

	assert.Error(t, g.Render("nope", &row))
	assert.NotNil(t, g.ColorerFunc())
}

func TestGridColumnsEvaluate(t *testing.T) {
	t.Parallel()

	rr, err := dao.DecodeRecords(dao.SampleData())
	require.NoError(t, err)

	p, err := dao.Evaluate(rr, dao.QuerySnapshot{
		ColumnFilters: []dao.ColumnFilter{{ID: dao.FieldCreatedAt, Value: []any{"2023-03-01", "2023-05-31"}}},
		Pagination:    dao.Pagination{PageSize: 10},
	}, GridColumns.Value)
	require.NoError(t, err)
	assert.Equal(t, 6, p.TotalRowCount)
}
