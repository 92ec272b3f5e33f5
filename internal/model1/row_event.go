package model1

// RowEvent tracks a row and how it changed since the previous display.
type RowEvent struct {
	Kind   ResEvent
	Row    Row
	Deltas DeltaRow
}

// NewRowEvent returns an event without deltas.
func NewRowEvent(kind ResEvent, row Row) RowEvent {
	return RowEvent{
		Kind: kind,
		Row:  row,
	}
}

// NewRowEventWithDeltas returns an update event.
func NewRowEventWithDeltas(row Row, delta DeltaRow) RowEvent {
	return RowEvent{
		Kind:   EventUpdate,
		Row:    row,
		Deltas: delta,
	}
}

// Clone returns a copy of the event.
func (r RowEvent) Clone() RowEvent {
	return RowEvent{
		Kind:   r.Kind,
		Row:    r.Row.Clone(),
		Deltas: r.Deltas.Clone(),
	}
}

// RowEvents is an ordered, id indexed collection of row events.
type RowEvents struct {
	events []RowEvent
	index  map[string]int
}

// NewRowEvents returns an empty collection.
func NewRowEvents(size int) *RowEvents {
	return &RowEvents{
		events: make([]RowEvent, 0, size),
		index:  make(map[string]int, size),
	}
}

// At returns the event at position i.
func (r *RowEvents) At(i int) (RowEvent, bool) {
	if i < 0 || i >= len(r.events) {
		return RowEvent{}, false
	}
	return r.events[i], true
}

// Add appends an event.
func (r *RowEvents) Add(re RowEvent) {
	r.events = append(r.events, re)
	r.index[re.Row.ID] = len(r.events) - 1
}

// Len returns the number of events.
func (r *RowEvents) Len() int {
	return len(r.events)
}

// Empty returns true if there are no events.
func (r *RowEvents) Empty() bool {
	return len(r.events) == 0
}

// Clear removes all events.
func (r *RowEvents) Clear() {
	r.events = r.events[:0]
	clear(r.index)
}

// Get returns the event for row id.
func (r *RowEvents) Get(id string) (RowEvent, bool) {
	i, ok := r.index[id]
	if !ok {
		return RowEvent{}, false
	}
	return r.At(i)
}

// Clone returns a deep copy.
func (r *RowEvents) Clone() *RowEvents {
	out := NewRowEvents(len(r.events))
	for _, e := range r.events {
		out.Add(e.Clone())
	}
	return out
}

// Range calls f for each event until f returns false.
func (r *RowEvents) Range(f func(int, RowEvent) bool) {
	for i, e := range r.events {
		if !f(i, e) {
			return
		}
	}
}
