package model

import (
	"github.com/a1s/tgrid/internal/dao"
	"github.com/a1s/tgrid/internal/model1"
)

// Status reports the fetch state of the grid.
type Status struct {
	// Loading is set while the first page is fetched and nothing is displayed.
	Loading bool

	// Refetching is set while a fetch runs over an already displayed page.
	Refetching bool

	// Error is set when the last fetch for the current snapshot failed.
	Error bool

	// Err holds the failure behind Error.
	Err error
}

// Busy returns true if a fetch is in flight.
func (s Status) Busy() bool {
	return s.Loading || s.Refetching
}

// TableListener represents a grid model listener.
type TableListener interface {
	// TableNoData notifies listener no data was found.
	TableNoData(*model1.TableData)

	// TableDataChanged notifies the model data changed.
	TableDataChanged(*model1.TableData)

	// TableLoadFailed notifies the load failed.
	TableLoadFailed(error)

	// TableStatusChanged notifies the fetch status changed.
	TableStatusChanged(Status)
}

// QueryListener is notified when the query snapshot changes.
type QueryListener interface {
	QueryChanged(dao.QuerySnapshot)
}

// GridModel represents a paged, filterable grid.
type GridModel interface {
	// Header returns the table header.
	Header() model1.Header

	// Peek returns a copy of the displayed table.
	Peek() *model1.TableData

	// Page returns the displayed result page.
	Page() *dao.ResultPage

	// Status returns the fetch status.
	Status() Status

	// Refetch re-issues the current query, bypassing the cache.
	Refetch()

	// AddListener registers a table listener.
	AddListener(TableListener)

	// RemoveListener unregisters a table listener.
	RemoveListener(TableListener)
}
