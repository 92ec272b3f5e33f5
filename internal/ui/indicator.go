// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"fmt"
	"strings"

	"github.com/a1s/tgrid/internal/dao"
	"github.com/a1s/tgrid/internal/model"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// IndicatorMode represents the current input mode.
type IndicatorMode int

const (
	// ModeNormal is the default navigation mode.
	ModeNormal IndicatorMode = iota
	// ModeCommand is for entering commands (: prefix).
	ModeCommand
	// ModeFilter is for the global filter (/ prefix).
	ModeFilter
	// ModeColumnFilter is for filtering the selected column.
	ModeColumnFilter
)

// Mode indicators.
const (
	IndicatorNormal  = "🐵"
	IndicatorCommand = "🐵"
	IndicatorFilter  = "🔍"
	IndicatorColumn  = "🔎"
)

const (
	progressBar  = "[black:aqua] ▮▮▮ [-:-:-]"
	errorBadge   = "[white:red:b] %s [-:-:-]"
	sortAscSign  = "↑"
	sortDescSign = "↓"
)

// StatusIndicator shows the fetch status, the pager and the active query.
type StatusIndicator struct {
	*tview.TextView
}

// NewStatusIndicator returns a new status line.
func NewStatusIndicator() *StatusIndicator {
	s := StatusIndicator{TextView: tview.NewTextView()}
	s.SetDynamicColors(true)
	s.SetTextAlign(tview.AlignLeft)
	s.SetBackgroundColor(tcell.ColorDefault)
	s.SetBorderPadding(0, 0, 1, 1)

	return &s
}

// Update redraws the status line from cfg.
func (s *StatusIndicator) Update(cfg model.GridConfig) {
	s.SetText(StatusLine(cfg))
}

// StatusLine renders the status of a grid frame.
func StatusLine(cfg model.GridConfig) string {
	parts := make([]string, 0, 5)
	switch {
	case cfg.ShowAlertBanner:
		msg := cfg.AlertBanner
		if cfg.Err != nil {
			msg += ": " + cfg.Err.Error()
		}
		parts = append(parts, fmt.Sprintf(errorBadge, tview.Escape(msg)))
	case cfg.IsLoading:
		parts = append(parts, "[yellow::b]Loading...[-::-]")
	case cfg.ShowProgressBars:
		parts = append(parts, progressBar)
	}
	parts = append(parts, PagerText(cfg))
	if s := SortText(cfg.State.Sorting); s != "" {
		parts = append(parts, "sort: "+s)
	}
	if n := len(cfg.State.ColumnFilters); n > 0 {
		parts = append(parts, fmt.Sprintf("filters: %d", n))
	}
	if cfg.State.GlobalFilter != "" {
		parts = append(parts, fmt.Sprintf("search: %q", cfg.State.GlobalFilter))
	}

	return strings.Join(parts, " [gray::]|[-::] ")
}

// PagerText renders the page position.
func PagerText(cfg model.GridConfig) string {
	page := cfg.State.Pagination.PageIndex + 1
	if cfg.PageCount == 0 {
		return fmt.Sprintf("Page %d of ? | %d rows", page, cfg.RowCount)
	}
	return fmt.Sprintf("Page %d of %d | %d rows", page, cfg.PageCount, cfg.RowCount)
}

// SortText renders the sort directives in precedence order.
func SortText(ss []dao.SortDirective) string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, s.ID+SortSign(s.Desc))
	}
	return strings.Join(out, ", ")
}

// SortSign returns the arrow for a sort direction.
func SortSign(desc bool) string {
	if desc {
		return sortDescSign
	}
	return sortAscSign
}
