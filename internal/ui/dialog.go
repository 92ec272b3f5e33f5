// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	errorDialogID = "error-dialog"

	// RetryLabel is the retry button of the error dialog.
	RetryLabel = "Retry"

	// DismissLabel is the dismiss button of the error dialog.
	DismissLabel = "Dismiss"
)

// Dialog represents a modal shown over the app pages.
type Dialog struct {
	*tview.Modal

	pages  *tview.Pages
	pageID string
	onDone func(label string)
}

// NewDialog creates a dialog with the given buttons.
func NewDialog(pages *tview.Pages, pageID, msg string, buttons ...string) *Dialog {
	d := Dialog{
		Modal:  tview.NewModal(),
		pages:  pages,
		pageID: pageID,
	}
	d.SetBackgroundColor(tcell.ColorDefault)
	d.SetTextColor(tcell.ColorWhite)
	d.SetText(msg)
	d.AddButtons(buttons)
	d.SetDoneFunc(func(_ int, label string) {
		d.Dismiss()
		if d.onDone != nil {
			d.onDone(label)
		}
	})

	return &d
}

// SetDoneFn sets the callback receiving the pressed button label.
func (d *Dialog) SetDoneFn(fn func(label string)) *Dialog {
	d.onDone = fn
	return d
}

// Show displays the dialog as an overlay.
func (d *Dialog) Show() {
	d.pages.AddPage(d.pageID, d, true, true)
}

// Dismiss removes the dialog.
func (d *Dialog) Dismiss() {
	d.pages.RemovePage(d.pageID)
}

// ErrorDialog shows a load failure and offers to retry.
func ErrorDialog(pages *tview.Pages, msg string, retry func(), done func()) *Dialog {
	d := NewDialog(pages, errorDialogID, msg, RetryLabel, DismissLabel)
	d.SetTextColor(tcell.ColorRed)
	d.SetButtonBackgroundColor(tcell.ColorRed)
	d.SetButtonTextColor(tcell.ColorWhite)
	d.SetDoneFn(func(label string) {
		if label == RetryLabel && retry != nil {
			retry()
		}
		if done != nil {
			done()
		}
	})

	return d
}
