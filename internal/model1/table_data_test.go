package model1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHeader() Header {
	return Header{
		{Name: "ID", Key: "id", Attrs: Attrs{Numeric: true}},
		{Name: "NAME", Key: "name"},
		{Name: "SECRET", Key: "secret", Attrs: Attrs{Hide: true}},
	}
}

func TestTableDataReconcile(t *testing.T) {
	t.Parallel()

	td := NewTableData(testHeader())
	td.Reconcile(Rows{
		{ID: "1", Fields: Fields{"1", "a", "x"}},
		{ID: "2", Fields: Fields{"2", "b", "y"}},
	}, nil, false)
	require.Equal(t, 2, td.RowCount())

	td.RowEvents().Range(func(_ int, re RowEvent) bool {
		assert.Equal(t, EventUnchanged, re.Kind)
		return true
	})

	td.Reconcile(Rows{
		{ID: "1", Fields: Fields{"1", "a", "x"}},
		{ID: "2", Fields: Fields{"2", "bb", "y"}},
		{ID: "3", Fields: Fields{"3", "c", "z"}},
	}, map[string]bool{"2": true}, true)

	uu := map[string]struct {
		kind  ResEvent
		delta DeltaRow
	}{
		"1": {kind: EventUnchanged},
		"2": {kind: EventUpdate, delta: DeltaRow{"", "b", ""}},
		"3": {kind: EventAdd},
	}
	for id, u := range uu {
		re, ok := td.RowEvents().Get(id)
		require.True(t, ok, id)
		assert.Equal(t, u.kind, re.Kind, id)
		assert.Equal(t, u.delta, re.Deltas, id)
	}
}

func TestTableDataError(t *testing.T) {
	t.Parallel()

	td := NewTableData(testHeader())
	assert.False(t, td.HasError())
	td.SetError("Error loading data")
	assert.True(t, td.HasError())

	c := td.Clone()
	assert.Equal(t, "Error loading data", c.Error())
	assert.True(t, c.Empty())
}

func TestHeader(t *testing.T) {
	t.Parallel()

	h := testHeader()
	assert.Equal(t, []string{"ID", "NAME"}, h.ColumnNames())
	assert.Equal(t, []int{0, 1}, h.Visible())

	i, ok := h.IndexOfKey("name")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = h.IndexOf("bozo")
	assert.False(t, ok)

	assert.True(t, h.IsNumericCol(0))
	assert.False(t, h.IsNumericCol(5))
	assert.False(t, h.Diff(h.Clone()))

	h2 := h.Clone()
	h2[1].Date = true
	assert.True(t, h.Diff(h2))
}

func TestDefaultColorer(t *testing.T) {
	t.Parallel()

	h := testHeader()
	assert.Equal(t, AddColor, DefaultColorer(h, &RowEvent{Kind: EventAdd}))
	assert.Equal(t, ModColor, DefaultColorer(h, &RowEvent{Kind: EventUpdate}))
	assert.Equal(t, StdColor, DefaultColorer(h, &RowEvent{Kind: EventUnchanged}))
}
