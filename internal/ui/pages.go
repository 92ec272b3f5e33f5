package ui

import (
	"github.com/a1s/tgrid/internal/model"
	"github.com/derailed/tview"
)

// Pages shows the top of a component stack.
type Pages struct {
	*tview.Pages
	*model.Stack
}

// NewPages returns a new pages manager listening to its own stack.
func NewPages() *Pages {
	p := &Pages{
		Pages: tview.NewPages(),
		Stack: model.NewStack(),
	}
	p.Stack.AddListener(p)

	return p
}

// Current returns the top component.
func (p *Pages) Current() Component {
	c, _ := p.Top().(Component)
	return c
}

// StackPushed adds a page for c.
func (p *Pages) StackPushed(c model.Component) {
	if prim, ok := c.(tview.Primitive); ok {
		p.AddPage(c.Name(), prim, true, true)
	}
}

// StackPopped removes the page of the old component.
func (p *Pages) StackPopped(old, _ model.Component) {
	p.RemovePage(old.Name())
}

// StackTop brings c to the front.
func (p *Pages) StackTop(c model.Component) {
	if c == nil {
		return
	}
	p.SwitchToPage(c.Name())
}
