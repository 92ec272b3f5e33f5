// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package view

import (
	"sort"
	"strings"
	"sync"

	"github.com/a1s/tgrid/internal/dao"
	"github.com/a1s/tgrid/internal/model"
	"github.com/a1s/tgrid/internal/model1"
	"github.com/a1s/tgrid/internal/render"
	"github.com/a1s/tgrid/internal/ui"
	"github.com/derailed/tcell/v2"
)

// Grid is the paged record table.
type Grid struct {
	*ui.Table

	app       *App
	presenter *model.Presenter
	facets    *facetCache
	started   sync.Once
	closed    sync.Once
}

// NewGrid returns a grid view named after its source.
func NewGrid(app *App, p *model.Presenter, name string) *Grid {
	g := Grid{
		Table:     ui.NewTable(name),
		app:       app,
		presenter: p,
	}
	g.facets = newFacetCache(p.Facets, g.facetsLoaded, app.log)

	return &g
}

// Init styles the table and binds keys.
func (g *Grid) Init() error {
	g.Table.Init()
	g.bindKeys()
	g.bindHotKeys()
	g.presenter.Grid().AddListener(g)

	return nil
}

// Presenter returns the grid presenter.
func (g *Grid) Presenter() *model.Presenter {
	return g.presenter
}

// Start loads the first page and redraws.
func (g *Grid) Start() {
	g.started.Do(g.presenter.Grid().Start)
	g.refresh()
}

// Stop is a no-op. The grid keeps loading while covered.
func (g *Grid) Stop() {}

// Close cancels in-flight fetches.
func (g *Grid) Close() {
	g.closed.Do(func() {
		g.presenter.Grid().RemoveListener(g)
		g.presenter.Grid().Stop()
	})
}

// TableNoData notifies the page is empty.
func (g *Grid) TableNoData(*model1.TableData) {
	g.app.QueueUpdateDraw(g.refresh)
}

// TableDataChanged notifies a new page is displayed.
func (g *Grid) TableDataChanged(*model1.TableData) {
	g.app.QueueUpdateDraw(g.refresh)
}

// TableStatusChanged notifies a fetch started or settled.
func (g *Grid) TableStatusChanged(model.Status) {
	g.app.QueueUpdateDraw(g.refresh)
}

// TableLoadFailed reports a failed fetch. With nothing on screen the
// error dialog offers a retry.
func (g *Grid) TableLoadFailed(err error) {
	g.app.Flash().Err(err)
	if g.presenter.Grid().Peek().Empty() {
		g.app.QueueUpdateDraw(func() {
			g.app.ShowError(err, g.presenter.Grid().Refetch)
		})
	}
}

func (g *Grid) refresh() {
	cfg := g.presenter.Config()
	g.Update(cfg)
	g.app.status.Update(cfg)
}

func (g *Grid) bindKeys() {
	g.Actions().Bulk(ui.KeyMap{
		tcell.KeyEnter: ui.NewKeyAction("View", g.detailCmd, true),
		tcell.KeyCtrlR: ui.NewKeyAction("Refetch", g.refetchCmd, true),
		ui.KeyF:        ui.NewKeyAction("Filter Column", g.filterCmd, true),
		ui.KeyC:        ui.NewKeyAction("Clear Filter", g.clearFilterCmd, true),
		ui.KeyS:        ui.NewKeyAction("Sort", g.sortCmd(false), true),
		ui.KeyShiftS:   ui.NewKeyAction("Sort More", g.sortCmd(true), true),
		ui.KeyN:        ui.NewKeyAction("Next Page", g.nextCmd, true),
		ui.KeyRightBr:  ui.NewKeyAction("Next Page", g.nextCmd, false),
		ui.KeyP:        ui.NewKeyAction("Prev Page", g.prevCmd, true),
		ui.KeyLeftBr:   ui.NewKeyAction("Prev Page", g.prevCmd, false),
		ui.KeyLt:       ui.NewKeyAction("First Page", g.firstCmd, false),
		ui.KeyGt:       ui.NewKeyAction("Last Page", g.lastCmd, false),
		ui.KeyE:        ui.NewKeyAction("Error", g.errorCmd, false),
		tcell.KeyPgDn:  ui.NewKeyAction("Next Page", g.nextCmd, false),
		tcell.KeyPgUp:  ui.NewKeyAction("Prev Page", g.prevCmd, false),
	})
}

// bindHotKeys binds user shortcuts to commands.
func (g *Grid) bindHotKeys() {
	for _, hk := range g.app.hotkeys.Bindings() {
		key, err := ui.ParseKey(hk.ShortCut)
		if err != nil {
			g.app.log.Warn("hotkey skipped", "name", hk.Name, "error", err)
			continue
		}
		if _, ok := g.Actions().Get(key); ok && !hk.Override {
			g.app.log.Warn("hotkey shadows a binding", "name", hk.Name, "key", hk.ShortCut)
			continue
		}
		cmd := hk.Command
		g.Actions().Add(key, ui.NewKeyAction(hk.Label(), func(*tcell.EventKey) *tcell.EventKey {
			if err := g.app.command.Run(cmd); err != nil {
				g.app.Flash().Err(err)
			}
			return nil
		}, true))
	}
}

func (g *Grid) detailCmd(evt *tcell.EventKey) *tcell.EventKey {
	id := g.SelectedRowID()
	if id == "" {
		return evt
	}
	r, ok := selectedRecord(g.presenter.Config().Rows, id)
	if !ok {
		return evt
	}
	d := NewDetail(r, g.presenter.Schema())
	d.Init()
	g.app.Push(d)

	return nil
}

func (g *Grid) refetchCmd(*tcell.EventKey) *tcell.EventKey {
	g.facets.Reset()

	g.app.Flash().Info("Refetching...")
	g.presenter.Grid().Refetch()

	return nil
}

func (g *Grid) filterCmd(*tcell.EventKey) *tcell.EventKey {
	key := g.SelectedColumnKey()
	c, ok := g.presenter.Schema().Column(key)
	if !ok || !c.Filterable() {
		g.app.Flash().Warnf("%s is not filterable", key)
		return nil
	}
	g.facets.Get(key)
	g.app.cmdBar.ActivateColumn(key, g.presenter.FilterExpr(key))

	return nil
}

func (g *Grid) clearFilterCmd(*tcell.EventKey) *tcell.EventKey {
	key := g.SelectedColumnKey()
	if c, ok := g.presenter.Schema().Column(key); ok && c.Filterable() {
		if err := g.presenter.ApplyFilter(key, ""); err != nil {
			g.app.Flash().Err(err)
		}
	}

	return nil
}

func (g *Grid) sortCmd(multi bool) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		if key := g.SelectedColumnKey(); key != "" {
			g.presenter.Query().ToggleSort(key, multi)
		}
		return nil
	}
}

func (g *Grid) nextCmd(*tcell.EventKey) *tcell.EventKey {
	g.presenter.NextPage()
	return nil
}

func (g *Grid) prevCmd(*tcell.EventKey) *tcell.EventKey {
	g.presenter.PrevPage()
	return nil
}

func (g *Grid) firstCmd(*tcell.EventKey) *tcell.EventKey {
	g.presenter.FirstPage()
	return nil
}

func (g *Grid) lastCmd(*tcell.EventKey) *tcell.EventKey {
	g.presenter.LastPage()
	return nil
}

func (g *Grid) errorCmd(*tcell.EventKey) *tcell.EventKey {
	if st := g.presenter.Grid().Status(); st.Error {
		g.app.ShowError(st.Err, g.presenter.Grid().Refetch)
	}
	return nil
}

// suggest completes column filter values or command arguments.
func (g *Grid) suggest(text string) []string {
	if g.app.cmdBar.Mode() == ui.ModeColumnFilter {
		return completeList(text, g.facetsOf(g.SelectedColumnKey()))
	}

	name, args := parseCommand(text)
	switch g.app.aliases.Get(name) {
	case "filter", "sort":
	default:
		return nil
	}
	if len(args) != 1 || strings.HasSuffix(text, " ") {
		return nil
	}
	prefix := strings.TrimSuffix(text, args[0])
	keys := make([]string, 0, len(g.presenter.Schema()))
	for _, c := range g.presenter.Schema() {
		keys = append(keys, c.Key)
	}
	ss := completeList(args[0], keys)
	for i := range ss {
		ss[i] = prefix + ss[i]
	}

	return ss
}

func (g *Grid) facetsOf(key string) []string {
	ff, _ := g.facets.Get(key)
	return ff
}

// facetsLoaded refreshes the column filter hints once values arrive.
func (g *Grid) facetsLoaded(key string) {
	g.app.QueueUpdateDraw(func() {
		if g.app.cmdBar.Mode() == ui.ModeColumnFilter && g.app.cmdBar.Column() == key {
			g.app.cmdBar.Refresh()
		}
	})
}

// completeList completes the last entry of a comma separated list.
func completeList(text string, values []string) []string {
	head, last := "", text
	if i := strings.LastIndex(text, render.ListSep); i >= 0 {
		head, last = text[:i+1]+" ", strings.TrimSpace(text[i+1:])
	}
	if last == "" {
		return nil
	}

	var ss []string
	for _, v := range values {
		if len(v) > len(last) && strings.EqualFold(v[:len(last)], last) {
			ss = append(ss, head+v)
		}
	}
	sort.Strings(ss)

	return ss
}

// selectedRecord returns the record under the cursor.
func selectedRecord(rows []dao.Record, id string) (dao.Record, bool) {
	for _, r := range rows {
		if r.RowID() == id {
			return r, true
		}
	}
	return dao.Record{}, false
}
