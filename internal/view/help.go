// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package view

import (
	"github.com/a1s/tgrid/internal/config"
	"github.com/a1s/tgrid/internal/ui"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const helpColWidth = 3

// HelpBind represents a single keybinding.
type HelpBind struct {
	Key  string
	Desc string
}

// HelpSection is one titled column of the help screen.
type HelpSection struct {
	Title string
	Binds []HelpBind
}

var (
	commandHelp = HelpSection{Title: "COMMANDS", Binds: []HelpBind{
		{":filter <col> <expr>", "Column Filter"},
		{":sort <col> [desc]", "Sort"},
		{":page <n|next|prev|first|last>", "Go To Page"},
		{":size <n>", "Page Size"},
		{":search <text>", "Search"},
		{":reset", "Reset"},
		{":refetch", "Refetch"},
	}}

	generalHelp = HelpSection{Title: "GENERAL", Binds: []HelpBind{
		{"<:>", "Command"},
		{"</>", "Search"},
		{"<?>", "Help"},
		{"<esc>", "Back"},
		{"<q>", "Quit"},
	}}

	navigationHelp = HelpSection{Title: "NAVIGATION", Binds: []HelpBind{
		{"<j>", "Down"},
		{"<k>", "Up"},
		{"<h>", "Column Left"},
		{"<l>", "Column Right"},
		{"<g>", "Top"},
		{"<G>", "Bottom"},
	}}
)

// Help displays a full-screen help view with keybindings (k9s style).
type Help struct {
	*tview.Table
	closeFn  func()
	sections []HelpSection
}

// NewHelp creates a new help view.
func NewHelp() *Help {
	h := &Help{
		Table:    tview.NewTable(),
		sections: helpSections(nil, nil),
	}
	h.build()
	return h
}

// SetCloseFn sets the callback when help is closed.
func (h *Help) SetCloseFn(fn func()) {
	h.closeFn = fn
}

// Sections returns the columns currently shown.
func (h *Help) Sections() []HelpSection {
	return h.sections
}

// SetBindings lists the grid key bindings and user hotkeys.
func (h *Help) SetBindings(grid ui.MenuHints, hotkeys []config.Binding) {
	h.sections = helpSections(grid, hotkeys)
	h.Clear()
	h.populate()
}

// helpSections builds the columns. Grid hints bound by a hotkey show up
// under HOTKEYS only, and repeated mnemonics are listed once.
func helpSections(grid ui.MenuHints, hotkeys []config.Binding) []HelpSection {
	ss := []HelpSection{commandHelp, generalHelp, navigationHelp}

	hk := HelpSection{Title: "HOTKEYS"}
	taken := make(map[string]struct{}, len(hotkeys))
	for _, b := range hotkeys {
		key, err := ui.ParseKey(b.ShortCut)
		if err != nil {
			continue
		}
		taken[ui.KeyName(key)] = struct{}{}
		hk.Binds = append(hk.Binds, HelpBind{Key: "<" + b.ShortCut + ">", Desc: b.Label()})
	}

	gs := HelpSection{Title: "GRID"}
	for _, m := range grid {
		if _, ok := taken[m.Mnemonic]; ok {
			continue
		}
		taken[m.Mnemonic] = struct{}{}
		gs.Binds = append(gs.Binds, HelpBind{Key: "<" + m.Mnemonic + ">", Desc: m.Description})
	}
	if len(gs.Binds) > 0 {
		ss = append(ss, gs)
	}
	if len(hk.Binds) > 0 {
		ss = append(ss, hk)
	}

	return ss
}

// build constructs the help UI.
func (h *Help) build() {
	h.SetBorder(true)
	h.SetTitle(" Help ")
	h.SetTitleAlign(tview.AlignCenter)
	h.SetBorderColor(tcell.ColorYellow)
	h.SetBackgroundColor(tcell.ColorDefault)
	h.SetSelectable(false, false)

	h.populate()

	h.SetInputCapture(func(evt *tcell.EventKey) *tcell.EventKey {
		switch ui.AsKey(evt) {
		case tcell.KeyEsc, tcell.KeyEnter, ui.KeyQuestion, ui.KeyQ:
			if h.closeFn != nil {
				h.closeFn()
			}
			return nil
		}
		return evt
	})
}

// populate lays sections out side by side: key, description and a spacer each.
func (h *Help) populate() {
	rows := 0
	for _, s := range h.sections {
		rows = max(rows, len(s.Binds))
	}

	for i, s := range h.sections {
		col := i * helpColWidth
		h.SetCell(0, col, tview.NewTableCell(s.Title).
			SetTextColor(tcell.ColorAqua).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))

		for r, b := range s.Binds {
			h.SetCell(r+1, col, tview.NewTableCell(b.Key).
				SetTextColor(tcell.ColorYellow).
				SetSelectable(false))
			h.SetCell(r+1, col+1, tview.NewTableCell(b.Desc).
				SetTextColor(tcell.ColorWhite).
				SetSelectable(false).
				SetExpansion(1))
		}

		if i == len(h.sections)-1 {
			continue
		}
		for r := 0; r <= rows; r++ {
			h.SetCell(r, col+2, tview.NewTableCell("").
				SetSelectable(false).
				SetExpansion(1))
		}
	}

	h.SetCell(rows+2, 0, tview.NewTableCell("<esc> to close").
		SetTextColor(tcell.ColorGray).
		SetSelectable(false))
}
