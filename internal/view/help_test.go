package view

import (
	"testing"

	"github.com/a1s/tgrid/internal/config"
	"github.com/a1s/tgrid/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sectionTitles(ss []HelpSection) []string {
	tt := make([]string, 0, len(ss))
	for _, s := range ss {
		tt = append(tt, s.Title)
	}
	return tt
}

func TestHelpSections(t *testing.T) {
	t.Parallel()

	grid := ui.MenuHints{
		{Mnemonic: "Ctrl-R", Description: "Refetch", Visible: true},
		{Mnemonic: "f", Description: "Filter Column", Visible: true},
		{Mnemonic: "Ctrl-S", Description: "Shoes only", Visible: true},
		{Mnemonic: "f", Description: "Filter Column", Visible: false},
	}
	hk := []config.Binding{
		{Name: "shoes", HotKey: config.HotKey{ShortCut: "Ctrl-S", Command: "filter category Shoes", Description: "Shoes only"}},
		{Name: "bad", HotKey: config.HotKey{ShortCut: "Hyper-Q", Command: "reset"}},
	}

	uu := map[string]struct {
		grid   ui.MenuHints
		hk     []config.Binding
		titles []string
	}{
		"static": {
			titles: []string{"COMMANDS", "GENERAL", "NAVIGATION"},
		},
		"grid": {
			grid:   grid,
			titles: []string{"COMMANDS", "GENERAL", "NAVIGATION", "GRID"},
		},
		"hotkeys": {
			grid:   grid,
			hk:     hk,
			titles: []string{"COMMANDS", "GENERAL", "NAVIGATION", "GRID", "HOTKEYS"},
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, u.titles, sectionTitles(helpSections(u.grid, u.hk)))
		})
	}

	ss := helpSections(grid, hk)
	require.Len(t, ss, 5)
	assert.Equal(t, []HelpBind{
		{Key: "<Ctrl-R>", Desc: "Refetch"},
		{Key: "<f>", Desc: "Filter Column"},
	}, ss[3].Binds)
	assert.Equal(t, []HelpBind{{Key: "<Ctrl-S>", Desc: "Shoes only"}}, ss[4].Binds)
}

func TestHelpSetBindings(t *testing.T) {
	t.Parallel()

	h := NewHelp()
	assert.Len(t, h.Sections(), 3)

	h.SetBindings(ui.MenuHints{{Mnemonic: "n", Description: "Next Page"}}, nil)
	require.Len(t, h.Sections(), 4)
	assert.Equal(t, "GRID", h.GetCell(0, 3*helpColWidth).Text)
	assert.Equal(t, "<n>", h.GetCell(1, 3*helpColWidth).Text)
}
