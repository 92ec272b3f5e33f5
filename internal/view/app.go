// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2024 a1s Contributors

package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/a1s/tgrid/internal/config"
	"github.com/a1s/tgrid/internal/config/data"
	"github.com/a1s/tgrid/internal/dao"
	"github.com/a1s/tgrid/internal/model"
	"github.com/a1s/tgrid/internal/render"
	"github.com/a1s/tgrid/internal/ui"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	// FlashDelay sets the flash auto-clear delay.
	FlashDelay = 5 * time.Second
)

// FlashLevel represents flash message severity.
type FlashLevel int

const (
	// FlashInfo represents an info message.
	FlashInfo FlashLevel = iota
	// FlashWarn represents a warning message.
	FlashWarn
	// FlashErr represents an error message.
	FlashErr
)

// Flash handles flash messages in the application.
type Flash struct {
	*tview.TextView
	app    *App
	cancel context.CancelFunc
	mx     sync.RWMutex
}

// NewFlash creates a new Flash instance.
func NewFlash(app *App) *Flash {
	f := &Flash{
		TextView: tview.NewTextView(),
		app:      app,
	}
	f.SetDynamicColors(true)
	f.SetTextAlign(tview.AlignLeft)
	f.SetBorderPadding(0, 0, 1, 1)
	return f
}

// Info displays an informational message.
func (f *Flash) Info(msg string) {
	f.setMessage(FlashInfo, msg)
}

// Infof displays a formatted informational message.
func (f *Flash) Infof(format string, args ...any) {
	f.Info(fmt.Sprintf(format, args...))
}

// Warn displays a warning message.
func (f *Flash) Warn(msg string) {
	f.setMessage(FlashWarn, msg)
}

// Warnf displays a formatted warning message.
func (f *Flash) Warnf(format string, args ...any) {
	f.Warn(fmt.Sprintf(format, args...))
}

// Err displays an error message.
func (f *Flash) Err(err error) {
	if err != nil {
		f.setMessage(FlashErr, err.Error())
	}
}

// Errf displays a formatted error message.
func (f *Flash) Errf(format string, args ...any) {
	f.setMessage(FlashErr, fmt.Sprintf(format, args...))
}

// Clear clears the flash message.
func (f *Flash) Clear() {
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mx.Unlock()

	if f.app != nil {
		f.app.QueueUpdateDraw(func() {
			f.TextView.Clear()
		})
	} else {
		f.TextView.Clear()
	}
}

func (f *Flash) setMessage(level FlashLevel, msg string) {
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mx.Unlock()

	if msg == "" {
		f.Clear()
		return
	}

	updateFn := func() {
		f.TextView.Clear()
		f.SetTextColor(flashColor(level))
		fmt.Fprintf(f.TextView, "%s %s", flashPrefix(level), msg)
	}

	if f.app != nil {
		f.app.QueueUpdateDraw(updateFn)
	} else {
		updateFn()
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.mx.Lock()
	f.cancel = cancel
	f.mx.Unlock()

	go f.autoClear(ctx)
}

func (f *Flash) autoClear(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(FlashDelay):
		f.Clear()
	}
}

func flashColor(level FlashLevel) tcell.Color {
	switch level {
	case FlashWarn:
		return tcell.ColorYellow
	case FlashErr:
		return tcell.ColorRed
	default:
		return tcell.ColorGreen
	}
}

func flashPrefix(level FlashLevel) string {
	switch level {
	case FlashWarn:
		return "[WARN]"
	case FlashErr:
		return "[ERROR]"
	default:
		return "[INFO]"
	}
}

const (
	mainPage = "main"
	helpPage = "help"
)

// App represents the main application container.
type App struct {
	*tview.Application

	version string
	Main    *tview.Pages
	Content *ui.Pages
	config  *config.Config
	command *Command
	aliases *config.Aliases
	hotkeys *config.HotKeys
	cmdBar  *ui.CmdBar
	status  *ui.StatusIndicator
	menu    *ui.Menu
	flash   *Flash
	help    *Help
	grid    *Grid
	log     *slog.Logger
	running bool
	mx      sync.RWMutex
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, version string, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	app := &App{
		Application: tview.NewApplication(),
		version:     version,
		Main:        tview.NewPages(),
		Content:     ui.NewPages(),
		config:      cfg,
		aliases:     config.NewAliases(),
		hotkeys:     config.NewHotKeys(),
		log:         log,
	}

	app.flash = NewFlash(app)
	app.menu = ui.NewMenu()
	app.status = ui.NewStatusIndicator()
	app.cmdBar = ui.NewCmdBar()
	app.help = NewHelp()
	app.Content.AddListener(app.menu)

	app.Application.SetInputCapture(app.keyboard)
	app.EnableMouse(cfg.TGrid.UI.EnableMouse)

	app.cmdBar.SetActiveFn(func(active bool) {
		if active {
			app.SetFocus(app.cmdBar)
		} else {
			app.SetFocus(app.Content)
		}
	})

	app.cmdBar.SetCommandFn(func(cmd string) {
		if err := app.command.Run(cmd); err != nil {
			app.flash.Errf("Command error: %v", err)
		}
		if app.grid != nil {
			app.cmdBar.SetFilterText(app.grid.Presenter().Query().Snapshot().GlobalFilter)
		}
	})

	app.cmdBar.SetFilterFn(app.applyFilter)

	app.cmdBar.SetColumnFilterFn(func(column, expr string) {
		if app.grid == nil {
			return
		}
		if err := app.grid.Presenter().ApplyFilter(column, expr); err != nil {
			app.flash.Err(err)
		}
	})

	return app
}

// Init loads user settings and builds the grid over source.
func (a *App) Init(source dao.Source) error {
	if err := a.aliases.Load(); err != nil {
		a.log.Warn("aliases not loaded", "error", err)
	}
	if err := a.hotkeys.Load(); err != nil {
		a.log.Warn("hotkeys not loaded", "error", err)
	}

	cfg := a.config.TGrid
	stale, err := cfg.GetStaleTime()
	if err != nil {
		return err
	}
	query := model.NewQueryState(cfg.PageSize)
	if v, err := a.config.LoadView(); err != nil {
		a.log.Warn("view state not loaded", "error", err)
	} else {
		restoreView(query, v, render.GridColumns)
	}

	grid := model.NewGridData(
		source,
		dao.NewQueryCache(cfg.Cache.Size, stale),
		query,
		render.NewGrid(render.GridColumns),
		a.log,
	)
	a.grid = NewGrid(a, model.NewPresenter(grid, render.GridColumns), cfg.SourceName())
	if err := a.grid.Init(); err != nil {
		return fmt.Errorf("failed to initialize grid: %w", err)
	}

	a.command = NewCommand(a, a.aliases)
	a.cmdBar.AddCommands(a.aliases.Names())
	a.cmdBar.SetSuggestFn(a.grid.suggest)

	a.Main.AddPage(mainPage, a.buildLayout(), true, true)
	a.SetRoot(a.Main, true)

	return nil
}

// Run starts the application.
func (a *App) Run() error {
	a.mx.Lock()
	a.running = true
	a.mx.Unlock()

	if a.grid == nil {
		return errors.New("app is not initialized")
	}
	a.Content.Push(a.grid)
	a.SetFocus(a.Content)

	return a.Application.Run()
}

// Stop saves the view state and stops the application.
func (a *App) Stop() {
	a.mx.Lock()
	defer a.mx.Unlock()

	if !a.running {
		return
	}
	a.running = false
	if a.grid != nil {
		if err := a.config.SaveView(captureView(a.grid.Presenter().Query().Snapshot(), a.grid.Presenter().Schema())); err != nil {
			a.log.Warn("view state not saved", "error", err)
		}
		a.grid.Close()
	}
	a.Application.Stop()
}

// Quit stops the application.
func (a *App) Quit() {
	a.Stop()
}

// IsRunning returns whether the application is currently running.
func (a *App) IsRunning() bool {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return a.running
}

// Flash returns the flash message handler.
func (a *App) Flash() *Flash {
	return a.flash
}

// Presenter returns the grid presenter.
func (a *App) Presenter() *model.Presenter {
	return a.grid.Presenter()
}

// QueueUpdateDraw queues a function to be executed on the UI thread.
func (a *App) QueueUpdateDraw(fn func()) {
	go a.Application.QueueUpdateDraw(fn)
}

// ShowError offers to retry a failed load.
func (a *App) ShowError(err error, retry func()) {
	msg := model.AlertBanner
	if err != nil {
		msg += "\n\n" + err.Error()
	}
	ui.ErrorDialog(a.Main, msg, retry, func() {
		a.SetFocus(a.Content)
	}).Show()
}

// Push shows a component over the grid.
func (a *App) Push(c ui.Component) {
	a.Content.Push(c)
	a.SetFocus(c)
}

// buildLayout creates the main UI layout.
func (a *App) buildLayout() *tview.Flex {
	bottomBar := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.status, 1, 0, false).
		AddItem(a.flash, 1, 0, false)
	rows := 2
	if !a.config.TGrid.UI.Menuless {
		bottomBar.AddItem(a.menu, 2, 0, false)
		rows += 2
	}

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.cmdBar, 3, 0, false).
		AddItem(a.Content, 0, 1, true).
		AddItem(bottomBar, rows, 0, false)
}

// keyboard handles global keyboard events.
func (a *App) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if name, _ := a.Content.GetFrontPage(); name == helpPage {
		return evt
	}
	if name, _ := a.Main.GetFrontPage(); name != mainPage {
		return evt
	}
	if a.cmdBar.IsActive() {
		return evt
	}

	switch ui.AsKey(evt) {
	case ui.KeyColon:
		a.cmdBar.Activate(ui.ModeCommand)
		return nil
	case ui.KeySlash:
		a.cmdBar.Activate(ui.ModeFilter)
		return nil
	case ui.KeyQuestion:
		a.ShowHelp()
		return nil
	case ui.KeyQ, tcell.KeyCtrlC:
		a.Stop()
		return nil
	case tcell.KeyEsc:
		if a.Content.IsLast() && a.cmdBar.GetFilterText() != "" {
			a.cmdBar.ClearFilter()
			return nil
		}
		if !a.Content.IsLast() {
			a.Content.Pop()
			a.SetFocus(a.Content)
			return nil
		}
	}

	return evt
}

// applyFilter applies the global filter to the grid.
func (a *App) applyFilter(text string) {
	if a.grid == nil {
		return
	}
	a.grid.Presenter().ApplyGlobalFilter(text)
}

// ShowHelp displays the help screen in the content area.
func (a *App) ShowHelp() {
	a.help.SetCloseFn(func() {
		a.Content.RemovePage(helpPage)
		a.SetFocus(a.Content)
	})
	var hints ui.MenuHints
	if a.grid != nil {
		hints = a.grid.Hints()
	}
	a.help.SetBindings(hints, a.hotkeys.Bindings())
	a.Content.AddPage(helpPage, a.help, true, true)
	a.SetFocus(a.help)
}

// restoreView applies saved filters, sorting and page size to a fresh query.
// Entries for unknown columns or with bad expressions are skipped.
func restoreView(q *model.QueryState, v *data.View, schema render.Schema) {
	q.Update(func(s *dao.QuerySnapshot) {
		s.Pagination.PageSize = v.PageSize
		s.ColumnFilters = s.ColumnFilters[:0]
		for _, vf := range v.Filters {
			c, ok := schema.Column(vf.Column)
			if !ok {
				continue
			}
			val, err := render.ParseFilter(c, vf.Expr)
			if err != nil || val == nil {
				continue
			}
			s.ColumnFilters = append(s.ColumnFilters, dao.ColumnFilter{ID: vf.Column, Value: val})
		}
		s.Sorting = s.Sorting[:0]
		for _, vs := range v.Sorting {
			if _, ok := schema.Column(vs.Column); !ok {
				continue
			}
			s.Sorting = append(s.Sorting, dao.SortDirective{ID: vs.Column, Desc: vs.Desc})
		}
	})
}

// captureView extracts the state worth remembering from a snapshot.
func captureView(s dao.QuerySnapshot, schema render.Schema) *data.View {
	v := data.NewView(s.Pagination.PageSize)
	for _, f := range s.ColumnFilters {
		c, ok := schema.Column(f.ID)
		if !ok {
			continue
		}
		if expr := render.FormatFilter(c, f.Value); expr != "" {
			v.Filters = append(v.Filters, data.ViewFilter{Column: f.ID, Expr: expr})
		}
	}
	for _, d := range s.Sorting {
		v.Sorting = append(v.Sorting, data.ViewSort{Column: d.ID, Desc: d.Desc})
	}
	return v
}
