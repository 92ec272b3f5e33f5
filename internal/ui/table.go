// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/a1s/tgrid/internal/model"
	"github.com/a1s/tgrid/internal/model1"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	// TitleFmt formats the table title with source, row count and page.
	TitleFmt = " [aqua::b]%s[white::-][[green::b]%d[white::-]] <page %d/%d> "

	filterMark = "*"
	noDataMsg  = "No results"
	loadingMsg = "Loading..."
)

// Table renders a grid frame.
type Table struct {
	*tview.Table

	name    string
	actions *KeyActions
	config  model.GridConfig
	header  model1.Header
	colorer model1.ColorerFunc
	column  int
	mx      sync.RWMutex
}

// NewTable returns a new table named after its source.
func NewTable(name string) *Table {
	return &Table{
		Table:   tview.NewTable(),
		name:    name,
		actions: NewKeyActions(),
		colorer: model1.DefaultColorer,
	}
}

// Init styles the table.
func (t *Table) Init() {
	t.SetFixed(1, 0)
	t.SetBorder(true)
	t.SetBorderAttributes(tcell.AttrBold)
	t.SetBorderPadding(0, 0, 1, 1)
	t.SetSelectable(true, false)
	t.SetBackgroundColor(tcell.ColorDefault)
	t.SetBorderColor(tcell.ColorDodgerBlue)
	t.SetTitle(fmt.Sprintf(" [aqua::b]%s ", t.name))
	t.SetInputCapture(t.keyboard)
	t.showMessage(loadingMsg, tcell.ColorGray)
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Actions returns the key actions.
func (t *Table) Actions() *KeyActions {
	return t.actions
}

// Hints returns menu hints for key bindings.
func (t *Table) Hints() MenuHints {
	return t.actions.Hints()
}

// SetColorerFn overrides the row colorer.
func (t *Table) SetColorerFn(f model1.ColorerFunc) {
	t.mx.Lock()
	defer t.mx.Unlock()

	t.colorer = f
}

// SelectedColumn returns the index of the column under the cursor.
func (t *Table) SelectedColumn() int {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.column
}

// SelectedColumnKey returns the key of the column under the cursor.
func (t *Table) SelectedColumnKey() string {
	t.mx.RLock()
	defer t.mx.RUnlock()

	if t.column < 0 || t.column >= len(t.header) {
		return ""
	}
	return t.header[t.column].Key
}

// MoveColumn shifts the column cursor by step, wrapping around.
func (t *Table) MoveColumn(step int) {
	t.mx.Lock()
	if n := len(t.header); n > 0 {
		t.column = (t.column + step + n) % n
	}
	cfg := t.config
	t.mx.Unlock()

	t.buildHeader(cfg)
}

// SelectedRowID returns the id of the row under the cursor.
func (t *Table) SelectedRowID() string {
	row, _ := t.GetSelection()
	if row < 1 {
		return ""
	}
	c := t.GetCell(row, 0)
	if c == nil {
		return ""
	}
	id, _ := c.GetReference().(string)
	return id
}

func (t *Table) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, _ := t.GetSelection()
	rows := t.GetRowCount()

	switch AsKey(evt) {
	case KeyJ:
		if row < rows-1 {
			t.Select(row+1, 0)
		}
		return nil
	case KeyK:
		if row > 1 {
			t.Select(row-1, 0)
		}
		return nil
	case KeyG:
		if rows > 1 {
			t.Select(1, 0)
		}
		return nil
	case KeyShiftG:
		if rows > 1 {
			t.Select(rows-1, 0)
		}
		return nil
	case KeyH, tcell.KeyLeft:
		t.MoveColumn(-1)
		return nil
	case KeyL, tcell.KeyRight:
		t.MoveColumn(1)
		return nil
	}

	if a, ok := t.actions.Get(AsKey(evt)); ok {
		return a.Action(evt)
	}

	return evt
}

// Update redraws the table from a grid frame.
func (t *Table) Update(cfg model.GridConfig) {
	t.mx.Lock()
	t.config = cfg
	if cfg.Data != nil {
		t.header = cfg.Data.Header()
	}
	if t.column >= len(t.header) {
		t.column = 0
	}
	colorer := t.colorer
	t.mx.Unlock()

	t.SetTitle(TitleText(t.name, cfg))
	t.SetBorderColor(BorderColor(cfg))

	if cfg.Data == nil || cfg.Data.Empty() {
		switch {
		case cfg.IsLoading:
			t.showMessage(loadingMsg, tcell.ColorGray)
		case cfg.ShowAlertBanner:
			t.showMessage(cfg.AlertBanner, tcell.ColorRed)
		default:
			t.showMessage(noDataMsg, tcell.ColorGray)
		}
		return
	}

	row, _ := t.GetSelection()
	t.Clear()
	t.buildHeader(cfg)
	h := cfg.Data.Header()
	cfg.Data.RowEvents().Range(func(i int, re model1.RowEvent) bool {
		t.buildRow(i+1, re, h, tcell.Color(colorer(h, &re)))
		return true
	})
	if row < 1 || row >= t.GetRowCount() {
		row = 1
	}
	t.Select(row, 0)
}

func (t *Table) showMessage(msg string, c tcell.Color) {
	t.Clear()
	cell := tview.NewTableCell(msg)
	cell.SetTextColor(c)
	cell.SetAlign(tview.AlignCenter)
	cell.SetSelectable(false)
	cell.SetExpansion(1)
	t.SetCell(0, 0, cell)
}

func (t *Table) buildHeader(cfg model.GridConfig) {
	t.mx.RLock()
	h, sel := t.header, t.column
	t.mx.RUnlock()

	for col, hc := range h {
		if hc.Hide {
			continue
		}
		cell := tview.NewTableCell(HeaderText(hc, cfg))
		cell.SetTextColor(tcell.ColorYellow)
		cell.SetBackgroundColor(tcell.ColorDefault)
		cell.SetAlign(hc.Align)
		cell.SetExpansion(1)
		cell.SetSelectable(false)
		if col == sel {
			cell.SetAttributes(tcell.AttrBold | tcell.AttrUnderline)
		}
		t.SetCell(0, col, cell)
	}
}

func (t *Table) buildRow(r int, re model1.RowEvent, h model1.Header, fg tcell.Color) {
	for col, field := range re.Row.Fields {
		if col >= len(h) {
			break
		}
		if h[col].Hide {
			continue
		}
		if h[col].Decorator != nil {
			field = h[col].Decorator(field)
		}
		cell := tview.NewTableCell(field)
		cell.SetTextColor(fg)
		cell.SetBackgroundColor(tcell.ColorDefault)
		cell.SetAlign(h[col].Align)
		cell.SetExpansion(1)
		if col < len(re.Deltas) && re.Deltas[col] != "" {
			cell.SetAttributes(tcell.AttrBold)
		}
		if col == 0 {
			cell.SetReference(re.Row.ID)
		}
		t.SetCell(r, col, cell)
	}
}

// TitleText renders the table title for a frame.
func TitleText(name string, cfg model.GridConfig) string {
	title := fmt.Sprintf(TitleFmt, name, cfg.RowCount, cfg.State.Pagination.PageIndex+1, max(cfg.PageCount, 1))
	if cfg.ShowProgressBars {
		title += progressBar + " "
	}
	return title
}

// HeaderText decorates a column name with its sort and filter state.
func HeaderText(hc model1.HeaderColumn, cfg model.GridConfig) string {
	s := hc.Name
	if d, i, ok := cfg.State.SortOf(hc.Key); ok {
		s += SortSign(d.Desc)
		if len(cfg.State.Sorting) > 1 {
			s += strconv.Itoa(i + 1)
		}
	}
	if _, ok := cfg.State.Filter(hc.Key); ok {
		s += filterMark
	}
	return s
}

// BorderColor reflects the fetch status on the table border.
func BorderColor(cfg model.GridConfig) tcell.Color {
	switch {
	case cfg.ShowAlertBanner:
		return tcell.ColorRed
	case cfg.ShowProgressBars, cfg.IsLoading:
		return tcell.ColorAqua
	default:
		return tcell.ColorDodgerBlue
	}
}
