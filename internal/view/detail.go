// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package view

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/a1s/tgrid/internal/dao"
	"github.com/a1s/tgrid/internal/render"
	"github.com/a1s/tgrid/internal/ui"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"gopkg.in/yaml.v3"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// Detail displays one record.
type Detail struct {
	*tview.TextView

	record  dao.Record
	schema  render.Schema
	format  string
	actions *ui.KeyActions
	wrapOn  bool
}

// NewDetail creates a new record detail view.
func NewDetail(r dao.Record, schema render.Schema) *Detail {
	d := &Detail{
		TextView: tview.NewTextView(),
		record:   r,
		schema:   schema,
		format:   formatYAML,
		actions:  ui.NewKeyActions(),
	}

	d.SetDynamicColors(true)
	d.SetWrap(false)
	d.SetWordWrap(false)
	d.SetScrollable(true)
	d.SetBorder(true)
	d.SetBorderPadding(0, 0, 1, 1)
	d.SetBorderColor(tcell.ColorAqua)
	d.SetBackgroundColor(tcell.ColorDefault)

	return d
}

// Init binds keys.
func (d *Detail) Init() {
	d.actions.Bulk(ui.KeyMap{
		ui.KeyY:      ui.NewKeyAction("YAML", d.formatCmd(formatYAML), true),
		ui.KeyShiftJ: ui.NewKeyAction("JSON", d.formatCmd(formatJSON), true),
		ui.KeyW:      ui.NewKeyAction("Wrap", d.toggleWrap, true),
		tcell.KeyEsc: ui.NewKeyAction("Back", nil, true),
	})
	d.SetInputCapture(d.keyboard)
}

// Start renders the record.
func (d *Detail) Start() {
	d.refresh()
}

// Stop clears the view.
func (d *Detail) Stop() {
	d.Clear()
}

// Name returns the view name.
func (d *Detail) Name() string {
	return "detail-" + d.record.RowID()
}

// Hints returns the menu hints for this view.
func (d *Detail) Hints() ui.MenuHints {
	return d.actions.Hints()
}

func (d *Detail) refresh() {
	var (
		out string
		err error
	)
	switch d.format {
	case formatJSON:
		out, err = RecordJSON(d.record)
		out = tview.Escape(out)
	default:
		out, err = RecordYAML(d.record, d.schema)
		out = highlightYAML(out)
	}
	if err != nil {
		out = fmt.Sprintf("[red::]Error rendering record: %v[-::]", err)
	}

	d.SetTitle(fmt.Sprintf(" [aqua::b]%s[white::-] #%d [%s] ", d.record.Name, d.record.ID, strings.ToUpper(d.format)))
	d.SetText(out)
	d.ScrollToBeginning()
}

func (d *Detail) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, _ := d.GetScrollOffset()
	switch ui.AsKey(evt) {
	case ui.KeyJ, tcell.KeyDown:
		d.ScrollTo(row+1, 0)
		return nil
	case ui.KeyK, tcell.KeyUp:
		if row > 0 {
			d.ScrollTo(row-1, 0)
		}
		return nil
	case ui.KeyG:
		d.ScrollToBeginning()
		return nil
	case ui.KeyShiftG:
		d.ScrollToEnd()
		return nil
	}

	if a, ok := d.actions.Get(ui.AsKey(evt)); ok && a.Action != nil {
		return a.Action(evt)
	}

	return evt
}

func (d *Detail) formatCmd(format string) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		d.format = format
		d.refresh()
		return nil
	}
}

func (d *Detail) toggleWrap(*tcell.EventKey) *tcell.EventKey {
	d.wrapOn = !d.wrapOn
	d.SetWrap(d.wrapOn)
	d.SetWordWrap(d.wrapOn)
	return nil
}

// RecordYAML renders the display values of a record in column order.
func RecordYAML(r dao.Record, schema render.Schema) (string, error) {
	doc := yaml.Node{Kind: yaml.MappingNode}
	for _, c := range schema {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: c.Key},
			scalarNode(c, schema.Display(r, c.Key)),
		)
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}

	return string(out), nil
}

// RecordJSON renders the raw record.
func RecordJSON(r dao.Record) (string, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}

	return string(out), nil
}

func scalarNode(c render.Column, v string) *yaml.Node {
	n := yaml.Node{Kind: yaml.ScalarNode, Value: v, Tag: "!!str"}
	if c.Numeric() {
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			n.Tag = ""
		}
	}
	return &n
}

// highlightYAML colors keys of a flat YAML document.
func highlightYAML(content string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			b.WriteString(tview.Escape(line) + "\n")
			continue
		}
		fmt.Fprintf(&b, "[aqua::]%s:[-::]%s\n", tview.Escape(key), colorizeValue(value))
	}

	return b.String()
}

// colorizeValue colors numbers and missing values.
func colorizeValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return "[fuchsia::]" + tview.Escape(value) + "[-::]"
	}
	if t := strings.Trim(trimmed, `"'`); t == render.NAValue || t == render.Blank {
		return "[gray::]" + tview.Escape(value) + "[-::]"
	}
	return tview.Escape(value)
}
