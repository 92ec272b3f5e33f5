package model1

import "sync"

// TableData tracks rendered rows for tabular display.
type TableData struct {
	header    Header
	rowEvents *RowEvents
	errMsg    string
	mx        sync.RWMutex
}

// NewTableData returns a new table.
func NewTableData(h Header) *TableData {
	return &TableData{
		header:    h,
		rowEvents: NewRowEvents(10),
	}
}

// Header returns the table header.
func (t *TableData) Header() Header {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.header
}

// SetHeader sets the table header.
func (t *TableData) SetHeader(h Header) {
	t.mx.Lock()
	defer t.mx.Unlock()

	t.header = h
}

// RowEvents returns the row events.
func (t *TableData) RowEvents() *RowEvents {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.rowEvents
}

// Reconcile replaces the rows. Rows whose id appears in changed are marked
// updated against their previous rendition; ids never seen before are marked
// added when track is set. Without track every row is unchanged.
func (t *TableData) Reconcile(rows Rows, changed map[string]bool, track bool) {
	t.mx.Lock()
	defer t.mx.Unlock()

	prev := t.rowEvents
	next := NewRowEvents(len(rows))
	for _, row := range rows {
		if !track {
			next.Add(NewRowEvent(EventUnchanged, row))
			continue
		}
		old, ok := prev.Get(row.ID)
		switch {
		case !ok:
			next.Add(NewRowEvent(EventAdd, row))
		case changed[row.ID]:
			next.Add(NewRowEventWithDeltas(row, NewDeltaRow(old.Row, row)))
		default:
			next.Add(NewRowEvent(EventUnchanged, row))
		}
	}
	t.rowEvents = next
}

// Empty returns true if no data is available.
func (t *TableData) Empty() bool {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.rowEvents.Empty()
}

// RowCount returns the number of rows.
func (t *TableData) RowCount() int {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.rowEvents.Len()
}

// Clone returns a deep copy of the table data.
func (t *TableData) Clone() *TableData {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return &TableData{
		header:    t.header.Clone(),
		rowEvents: t.rowEvents.Clone(),
		errMsg:    t.errMsg,
	}
}

// SetError sets an error message shown above the data.
func (t *TableData) SetError(msg string) {
	t.mx.Lock()
	defer t.mx.Unlock()

	t.errMsg = msg
}

// Error returns the error message, if any.
func (t *TableData) Error() string {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.errMsg
}

// HasError returns true if there's an error message.
func (t *TableData) HasError() bool {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.errMsg != ""
}
