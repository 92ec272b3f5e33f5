// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// Grid commands offered as completions.
var defaultCommands = []string{
	"filter",
	"sort",
	"page",
	"size",
	"search",
	"reset",
	"refetch",
	"help",
	"quit",
}

// SuggestFunc returns completions for the text typed so far.
type SuggestFunc func(text string) []string

// CmdBar is a bordered command and filter input bar at the top of the app.
// Suggestions are shown as ghost text.
type CmdBar struct {
	*tview.TextView

	mode              IndicatorMode
	column            string
	cmdFn             func(string)
	filterFn          func(string)
	columnFn          func(column, expr string)
	suggestFn         SuggestFunc
	cancelFn          func()
	activeFn          func(bool)
	isActive          bool
	filterText        string
	text              []rune
	suggestions       []string
	suggestionIdx     int
	currentSuggestion string
	commands          []string
	mx                sync.RWMutex
}

// NewCmdBar creates a new command bar.
func NewCmdBar() *CmdBar {
	c := &CmdBar{
		TextView:      tview.NewTextView(),
		mode:          ModeNormal,
		commands:      append([]string{}, defaultCommands...),
		suggestionIdx: -1,
		text:          make([]rune, 0),
	}
	sort.Strings(c.commands)

	c.SetBorder(true)
	c.SetBorderColor(tcell.ColorDarkCyan)
	c.SetBackgroundColor(tcell.ColorDefault)
	c.SetTextColor(tcell.ColorWhite)
	c.SetDynamicColors(true)
	c.SetWrap(false)
	c.SetInputCapture(c.keyboard)
	c.render()

	return c
}

func (c *CmdBar) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if !c.IsActive() {
		return evt
	}

	switch evt.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		c.mx.Lock()
		if len(c.text) > 0 {
			c.text = c.text[:len(c.text)-1]
		}
		c.mx.Unlock()
		c.changed()
		return nil

	case tcell.KeyEnter:
		c.execute()
		return nil

	case tcell.KeyEsc:
		c.cancel()
		return nil

	case tcell.KeyTab, tcell.KeyRight:
		c.mx.Lock()
		if c.currentSuggestion != "" {
			c.text = []rune(c.currentSuggestion)
		}
		c.mx.Unlock()
		c.clearSuggestions()
		c.render()
		return nil

	case tcell.KeyUp:
		c.cycle(-1)
		return nil

	case tcell.KeyDown:
		c.cycle(1)
		return nil

	case tcell.KeyCtrlU, tcell.KeyCtrlW:
		c.mx.Lock()
		c.text = c.text[:0]
		c.mx.Unlock()
		c.changed()
		return nil

	case tcell.KeyRune:
		c.mx.Lock()
		c.text = append(c.text, evt.Rune())
		c.mx.Unlock()
		c.changed()
		return nil
	}

	return evt
}

// changed refreshes suggestions and fires the live global filter.
func (c *CmdBar) changed() {
	c.updateSuggestions()
	c.render()
	if c.Mode() == ModeFilter && c.filterFn != nil {
		c.filterFn(c.GetText())
	}
}

func (c *CmdBar) cycle(step int) {
	c.mx.Lock()
	if n := len(c.suggestions); n > 0 {
		c.suggestionIdx = (c.suggestionIdx + step + n) % n
		c.currentSuggestion = c.suggestions[c.suggestionIdx]
	}
	c.mx.Unlock()
	c.render()
}

func (c *CmdBar) render() {
	c.mx.RLock()
	text := string(c.text)
	suggestion := c.currentSuggestion
	mode, column := c.mode, c.column
	c.mx.RUnlock()

	var icon, prefix string
	switch mode {
	case ModeCommand:
		icon, prefix = IndicatorCommand, ":"
	case ModeFilter:
		icon, prefix = IndicatorFilter, "/"
	case ModeColumnFilter:
		icon, prefix = IndicatorColumn, column+"="
	default:
		icon, prefix = IndicatorNormal, ">"
	}

	c.Clear()
	if suggestion != "" && strings.HasPrefix(suggestion, text) && len(suggestion) > len(text) {
		ghost := tview.Escape(suggestion[len(text):])
		fmt.Fprintf(c.TextView, "%s%s [::b]%s[gray::]%s[-::]", icon, prefix, tview.Escape(text), ghost)
		return
	}
	fmt.Fprintf(c.TextView, "%s%s [::b]%s", icon, prefix, tview.Escape(text))
}

// Suggestions returns command completions for text.
func (c *CmdBar) Suggestions(text string) []string {
	if text == "" {
		return nil
	}
	c.mx.RLock()
	mode, fn := c.mode, c.suggestFn
	cmds := c.commands
	c.mx.RUnlock()

	if mode == ModeColumnFilter {
		if fn == nil {
			return nil
		}
		return fn(text)
	}

	var matches []string
	lower := strings.ToLower(text)
	for _, cmd := range cmds {
		if strings.HasPrefix(cmd, lower) && cmd != lower {
			matches = append(matches, cmd)
		}
	}
	if len(matches) == 0 && fn != nil {
		return fn(text)
	}

	return matches
}

func (c *CmdBar) updateSuggestions() {
	text := c.GetText()
	var ss []string
	if m := c.Mode(); m == ModeCommand || m == ModeColumnFilter {
		ss = c.Suggestions(text)
	}

	c.mx.Lock()
	defer c.mx.Unlock()

	c.suggestions, c.suggestionIdx, c.currentSuggestion = ss, -1, ""
	if len(ss) > 0 {
		c.suggestionIdx, c.currentSuggestion = 0, ss[0]
	}
}

func (c *CmdBar) clearSuggestions() {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.suggestions = nil
	c.suggestionIdx = -1
	c.currentSuggestion = ""
}

// AddCommands adds completions.
func (c *CmdBar) AddCommands(cmds []string) {
	c.mx.Lock()
	defer c.mx.Unlock()

	for _, cmd := range cmds {
		i := sort.SearchStrings(c.commands, cmd)
		if i < len(c.commands) && c.commands[i] == cmd {
			continue
		}
		c.commands = append(c.commands, cmd)
		sort.Strings(c.commands)
	}
}

// GetText returns the current input text.
func (c *CmdBar) GetText() string {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return string(c.text)
}

// SetText sets the input text.
func (c *CmdBar) SetText(s string) {
	c.mx.Lock()
	c.text = []rune(s)
	c.mx.Unlock()
	c.render()
}

// Refresh recomputes suggestions for the current text.
func (c *CmdBar) Refresh() {
	c.updateSuggestions()
	c.render()
}

// Column returns the column being filtered, if any.
func (c *CmdBar) Column() string {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return c.column
}

// Activate enters command or global filter mode.
func (c *CmdBar) Activate(mode IndicatorMode) {
	c.activate(mode, "", "")
}

// ActivateColumn enters filter mode for column, prefilled with expr.
func (c *CmdBar) ActivateColumn(column, expr string) {
	c.activate(ModeColumnFilter, column, expr)
}

func (c *CmdBar) activate(mode IndicatorMode, column, text string) {
	c.mx.Lock()
	c.mode, c.column, c.isActive = mode, column, true
	c.text = []rune(text)
	if mode == ModeFilter {
		c.text = []rune(c.filterText)
	}
	c.mx.Unlock()
	c.clearSuggestions()
	c.render()

	if c.activeFn != nil {
		c.activeFn(true)
	}
}

// Deactivate exits input mode and returns to normal.
func (c *CmdBar) Deactivate() {
	c.mx.Lock()
	c.isActive = false
	c.mode, c.column = ModeNormal, ""
	c.text = c.text[:0]
	c.mx.Unlock()
	c.clearSuggestions()
	c.render()

	if c.activeFn != nil {
		c.activeFn(false)
	}
}

func (c *CmdBar) execute() {
	text := c.GetText()
	c.mx.RLock()
	mode, column := c.mode, c.column
	c.mx.RUnlock()

	c.Deactivate()
	switch mode {
	case ModeCommand:
		if c.cmdFn != nil && text != "" {
			c.cmdFn(text)
		}
	case ModeFilter:
		c.mx.Lock()
		c.filterText = text
		c.mx.Unlock()
	case ModeColumnFilter:
		if c.columnFn != nil {
			c.columnFn(column, text)
		}
	}
}

func (c *CmdBar) cancel() {
	if c.Mode() == ModeFilter && c.filterFn != nil {
		c.filterFn(c.GetFilterText())
	}
	if c.cancelFn != nil {
		c.cancelFn()
	}
	c.Deactivate()
}

// IsActive returns whether the command bar is accepting input.
func (c *CmdBar) IsActive() bool {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return c.isActive
}

// Mode returns the current mode.
func (c *CmdBar) Mode() IndicatorMode {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return c.mode
}

// SetCommandFn sets the callback for command execution.
func (c *CmdBar) SetCommandFn(fn func(string)) {
	c.cmdFn = fn
}

// SetFilterFn sets the callback for global filter changes.
func (c *CmdBar) SetFilterFn(fn func(string)) {
	c.filterFn = fn
}

// SetColumnFilterFn sets the callback for a confirmed column filter.
func (c *CmdBar) SetColumnFilterFn(fn func(column, expr string)) {
	c.columnFn = fn
}

// SetSuggestFn sets the completion provider.
func (c *CmdBar) SetSuggestFn(fn SuggestFunc) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.suggestFn = fn
}

// SetCancelFn sets the callback for when input is cancelled.
func (c *CmdBar) SetCancelFn(fn func()) {
	c.cancelFn = fn
}

// SetActiveFn sets the callback for when active state changes.
func (c *CmdBar) SetActiveFn(fn func(bool)) {
	c.activeFn = fn
}

// GetFilterText returns the confirmed global filter.
func (c *CmdBar) GetFilterText() string {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return c.filterText
}

// SetFilterText records a global filter set elsewhere.
func (c *CmdBar) SetFilterText(s string) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.filterText = s
}

// ClearFilter clears the global filter.
func (c *CmdBar) ClearFilter() {
	c.SetFilterText("")
	if c.filterFn != nil {
		c.filterFn("")
	}
}
