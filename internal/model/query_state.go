package model

import (
	"sync"

	"github.com/a1s/tgrid/internal/dao"
)

// QueryState holds the grid's filter, sort and page state. Each setter
// replaces one part of the snapshot and leaves the rest untouched; listeners
// hear about a change only when the snapshot key differs.
// Notifications are delivered in update order. Listeners must not update the
// state from QueryChanged.
type QueryState struct {
	snap      dao.QuerySnapshot
	pageSize  int
	listeners []QueryListener
	mx        sync.RWMutex
	notifyMx  sync.Mutex
}

// NewQueryState returns the initial state with the given page size.
func NewQueryState(pageSize int) *QueryState {
	if pageSize < 1 {
		pageSize = dao.DefaultPageSize
	}
	snap := dao.NewQuerySnapshot()
	snap.Pagination.PageSize = pageSize

	return &QueryState{snap: snap, pageSize: pageSize}
}

// Snapshot returns a copy of the current snapshot.
func (q *QueryState) Snapshot() dao.QuerySnapshot {
	q.mx.RLock()
	defer q.mx.RUnlock()

	return q.snap.Clone()
}

// AddListener registers a listener.
func (q *QueryState) AddListener(l QueryListener) {
	q.mx.Lock()
	defer q.mx.Unlock()

	q.listeners = append(q.listeners, l)
}

// RemoveListener unregisters a listener.
func (q *QueryState) RemoveListener(l QueryListener) {
	q.mx.Lock()
	defer q.mx.Unlock()

	for i, lis := range q.listeners {
		if lis == l {
			q.listeners = append(q.listeners[:i], q.listeners[i+1:]...)
			return
		}
	}
}

// SetColumnFilters replaces all column filters.
func (q *QueryState) SetColumnFilters(ff []dao.ColumnFilter) {
	q.Update(func(s *dao.QuerySnapshot) {
		s.ColumnFilters = append([]dao.ColumnFilter{}, ff...)
	})
}

// SetColumnFilter sets the filter on column id, keeping its position.
// A nil value removes the filter.
func (q *QueryState) SetColumnFilter(id string, v any) {
	q.Update(func(s *dao.QuerySnapshot) {
		setFilter(s, id, v)
	})
}

// SetGlobalFilter replaces the global filter text.
func (q *QueryState) SetGlobalFilter(text string) {
	q.Update(func(s *dao.QuerySnapshot) {
		s.GlobalFilter = text
	})
}

// SetSorting replaces the sort directives.
func (q *QueryState) SetSorting(ss []dao.SortDirective) {
	q.Update(func(s *dao.QuerySnapshot) {
		s.Sorting = append([]dao.SortDirective{}, ss...)
	})
}

// ToggleSort cycles column id through ascending, descending and unsorted.
// Without multi the column becomes the only sort key.
func (q *QueryState) ToggleSort(id string, multi bool) {
	q.Update(func(s *dao.QuerySnapshot) {
		cur, i, ok := s.SortOf(id)
		if !multi {
			switch {
			case !ok:
				s.Sorting = []dao.SortDirective{{ID: id}}
			case !cur.Desc:
				s.Sorting = []dao.SortDirective{{ID: id, Desc: true}}
			default:
				s.Sorting = []dao.SortDirective{}
			}
			return
		}
		switch {
		case !ok:
			s.Sorting = append(s.Sorting, dao.SortDirective{ID: id})
		case !cur.Desc:
			s.Sorting[i].Desc = true
		default:
			s.Sorting = append(s.Sorting[:i], s.Sorting[i+1:]...)
		}
	})
}

// SetPagination replaces the page cursor.
func (q *QueryState) SetPagination(p dao.Pagination) {
	q.Update(func(s *dao.QuerySnapshot) {
		s.Pagination = p
	})
}

// SetPageIndex moves to page i.
func (q *QueryState) SetPageIndex(i int) {
	q.Update(func(s *dao.QuerySnapshot) {
		s.Pagination.PageIndex = i
	})
}

// SetPageSize changes the page size.
func (q *QueryState) SetPageSize(n int) {
	q.Update(func(s *dao.QuerySnapshot) {
		s.Pagination.PageSize = n
	})
}

// Reset clears filters and sorting and returns to the first page.
func (q *QueryState) Reset() {
	q.Update(func(s *dao.QuerySnapshot) {
		size := s.Pagination.PageSize
		*s = dao.NewQuerySnapshot()
		s.Pagination.PageSize = size
	})
}

// Update applies fn to a copy of the snapshot and publishes the result if
// its key changed.
func (q *QueryState) Update(fn func(*dao.QuerySnapshot)) {
	q.notifyMx.Lock()
	defer q.notifyMx.Unlock()

	q.mx.Lock()
	next := q.snap.Clone()
	fn(&next)
	q.normalize(&next)
	if next.Key() == q.snap.Key() {
		q.mx.Unlock()
		return
	}
	q.snap = next
	ll := make([]QueryListener, len(q.listeners))
	copy(ll, q.listeners)
	q.mx.Unlock()

	for _, l := range ll {
		l.QueryChanged(next.Clone())
	}
}

// normalize fixes shape only. The page index is not clamped against the
// row count.
func (q *QueryState) normalize(s *dao.QuerySnapshot) {
	if s.ColumnFilters == nil {
		s.ColumnFilters = []dao.ColumnFilter{}
	}
	if s.Sorting == nil {
		s.Sorting = []dao.SortDirective{}
	}
	if s.Pagination.PageIndex < 0 {
		s.Pagination.PageIndex = 0
	}
	if s.Pagination.PageSize < 1 {
		s.Pagination.PageSize = q.pageSize
	}
}
