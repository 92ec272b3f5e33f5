package model

import (
	"sync"
	"testing"

	"github.com/a1s/tgrid/internal/dao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queryListener struct {
	snaps []dao.QuerySnapshot
	mx    sync.Mutex
}

func (l *queryListener) QueryChanged(s dao.QuerySnapshot) {
	l.mx.Lock()
	defer l.mx.Unlock()

	l.snaps = append(l.snaps, s)
}

func (l *queryListener) count() int {
	l.mx.Lock()
	defer l.mx.Unlock()

	return len(l.snaps)
}

func TestQueryStateInitial(t *testing.T) {
	t.Parallel()

	q := NewQueryState(0)
	s := q.Snapshot()
	assert.Empty(t, s.ColumnFilters)
	assert.Empty(t, s.Sorting)
	assert.Empty(t, s.GlobalFilter)
	assert.Equal(t, dao.Pagination{PageSize: dao.DefaultPageSize}, s.Pagination)
	assert.True(t, s.Equal(dao.NewQuerySnapshot()))
}

func TestQueryStateNotifiesOnChangeOnly(t *testing.T) {
	t.Parallel()

	q := NewQueryState(10)
	var l queryListener
	q.AddListener(&l)

	q.SetGlobalFilter("jacket")
	q.SetGlobalFilter("jacket")
	q.SetPageIndex(0)
	q.SetSorting(nil)
	assert.Equal(t, 1, l.count())

	q.SetPageIndex(2)
	require.Equal(t, 2, l.count())
	assert.Equal(t, "jacket", l.snaps[1].GlobalFilter)
	assert.Equal(t, 2, l.snaps[1].Pagination.PageIndex)

	q.RemoveListener(&l)
	q.SetPageIndex(3)
	assert.Equal(t, 2, l.count())
}

func TestQueryStateSettersAreIndependent(t *testing.T) {
	t.Parallel()

	q := NewQueryState(10)
	q.SetColumnFilter(dao.FieldCategory, []string{"Shoes"})
	q.SetSorting([]dao.SortDirective{{ID: dao.FieldPrice, Desc: true}})
	q.SetPagination(dao.Pagination{PageIndex: 1, PageSize: 5})
	q.SetGlobalFilter("red")

	s := q.Snapshot()
	assert.Equal(t, []dao.ColumnFilter{{ID: dao.FieldCategory, Value: []string{"Shoes"}}}, s.ColumnFilters)
	assert.Equal(t, []dao.SortDirective{{ID: dao.FieldPrice, Desc: true}}, s.Sorting)
	assert.Equal(t, dao.Pagination{PageIndex: 1, PageSize: 5}, s.Pagination)
	assert.Equal(t, "red", s.GlobalFilter)
}

func TestQueryStateSetColumnFilter(t *testing.T) {
	t.Parallel()

	q := NewQueryState(10)
	q.SetColumnFilter(dao.FieldName, "ch")
	q.SetColumnFilter(dao.FieldPrice, []any{10.0, nil})
	q.SetColumnFilter(dao.FieldName, "sh")

	s := q.Snapshot()
	require.Len(t, s.ColumnFilters, 2)
	assert.Equal(t, dao.ColumnFilter{ID: dao.FieldName, Value: "sh"}, s.ColumnFilters[0])
	assert.Equal(t, dao.FieldPrice, s.ColumnFilters[1].ID)

	q.SetColumnFilter(dao.FieldName, nil)
	s = q.Snapshot()
	require.Len(t, s.ColumnFilters, 1)
	assert.Equal(t, dao.FieldPrice, s.ColumnFilters[0].ID)

	q.SetColumnFilter("bozo", nil)
	assert.Len(t, q.Snapshot().ColumnFilters, 1)
}

func TestQueryStateToggleSort(t *testing.T) {
	t.Parallel()

	uu := map[string]struct {
		multi bool
		steps []string
		e     []dao.SortDirective
	}{
		"asc": {
			steps: []string{dao.FieldPrice},
			e:     []dao.SortDirective{{ID: dao.FieldPrice}},
		},
		"desc": {
			steps: []string{dao.FieldPrice, dao.FieldPrice},
			e:     []dao.SortDirective{{ID: dao.FieldPrice, Desc: true}},
		},
		"cleared": {
			steps: []string{dao.FieldPrice, dao.FieldPrice, dao.FieldPrice},
			e:     []dao.SortDirective{},
		},
		"replace": {
			steps: []string{dao.FieldPrice, dao.FieldName},
			e:     []dao.SortDirective{{ID: dao.FieldName}},
		},
		"multi": {
			multi: true,
			steps: []string{dao.FieldCategory, dao.FieldPrice, dao.FieldPrice},
			e:     []dao.SortDirective{{ID: dao.FieldCategory}, {ID: dao.FieldPrice, Desc: true}},
		},
		"multi-drop": {
			multi: true,
			steps: []string{dao.FieldCategory, dao.FieldPrice, dao.FieldCategory, dao.FieldCategory},
			e:     []dao.SortDirective{{ID: dao.FieldPrice}},
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			t.Parallel()
			q := NewQueryState(10)
			for _, id := range u.steps {
				q.ToggleSort(id, u.multi)
			}
			assert.Equal(t, u.e, q.Snapshot().Sorting)
		})
	}
}

func TestQueryStateNormalize(t *testing.T) {
	t.Parallel()

	q := NewQueryState(25)
	q.SetPagination(dao.Pagination{PageIndex: -3, PageSize: 0})
	assert.Equal(t, dao.Pagination{PageSize: 25}, q.Snapshot().Pagination)

	q.SetColumnFilters(nil)
	assert.NotNil(t, q.Snapshot().ColumnFilters)

	q.SetPageSize(50)
	assert.Equal(t, 50, q.Snapshot().Pagination.PageSize)
}

func TestQueryStateReset(t *testing.T) {
	t.Parallel()

	q := NewQueryState(20)
	q.SetGlobalFilter("x")
	q.ToggleSort(dao.FieldName, false)
	q.SetPageIndex(4)
	q.Reset()

	s := q.Snapshot()
	assert.Empty(t, s.GlobalFilter)
	assert.Empty(t, s.Sorting)
	assert.Equal(t, dao.Pagination{PageSize: 20}, s.Pagination)
}

func TestQueryStateSnapshotIsolation(t *testing.T) {
	t.Parallel()

	q := NewQueryState(10)
	q.SetSorting([]dao.SortDirective{{ID: dao.FieldName}})

	s := q.Snapshot()
	s.Sorting[0].Desc = true
	assert.False(t, q.Snapshot().Sorting[0].Desc)
}

func TestQueryStateConcurrentUpdatesInOrder(t *testing.T) {
	t.Parallel()

	q := NewQueryState(10)
	var l queryListener
	q.AddListener(&l)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q.SetPageIndex(i)
		}(i)
	}
	wg.Wait()

	l.mx.Lock()
	defer l.mx.Unlock()
	require.NotEmpty(t, l.snaps)
	assert.Equal(t, q.Snapshot().Key(), l.snaps[len(l.snaps)-1].Key())
}
