// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/a1s/tgrid/internal/config"
	"github.com/a1s/tgrid/internal/dao"
	"github.com/a1s/tgrid/internal/model"
	"github.com/a1s/tgrid/internal/render"
)

// ErrUnknownCommand indicates a command that is neither built in nor aliased.
var ErrUnknownCommand = errors.New("unknown command")

// commandTarget is what commands act upon.
type commandTarget interface {
	Presenter() *model.Presenter
	ShowHelp()
	Quit()
}

// Command handles user command interpretation and execution.
type Command struct {
	target  commandTarget
	aliases *config.Aliases
}

// NewCommand creates a new command interpreter.
func NewCommand(target commandTarget, aliases *config.Aliases) *Command {
	if aliases == nil {
		aliases = config.NewAliases()
	}
	return &Command{
		target:  target,
		aliases: aliases,
	}
}

// Run parses and executes a command.
func (c *Command) Run(cmd string) error {
	cmd = strings.TrimSpace(strings.TrimPrefix(cmd, ":"))
	name, args := parseCommand(cmd)
	if name == "" {
		return nil
	}
	name = c.aliases.Get(name)
	p := c.target.Presenter()

	switch name {
	case "filter":
		return c.filterCmd(p, args)
	case "sort":
		return c.sortCmd(p, args)
	case "page":
		return c.pageCmd(p, args)
	case "size":
		return c.sizeCmd(p, args)
	case "search":
		p.ApplyGlobalFilter(strings.Join(args, " "))
	case "reset":
		p.Query().Reset()
	case "refetch":
		p.Grid().Refetch()
	case "help":
		c.target.ShowHelp()
	case "quit":
		c.target.Quit()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	return nil
}

// filterCmd sets or clears a column filter: filter <column> [expr].
func (c *Command) filterCmd(p *model.Presenter, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: filter <column> [expression]")
	}
	col, err := resolveColumn(p.Schema(), args[0])
	if err != nil {
		return err
	}

	return p.ApplyFilter(col.Key, strings.Join(args[1:], " "))
}

// sortCmd replaces the sorting: sort [column [asc|desc]]...
// A bare sort clears it.
func (c *Command) sortCmd(p *model.Presenter, args []string) error {
	ss, err := parseSorting(p.Schema(), args)
	if err != nil {
		return err
	}
	p.Query().SetSorting(ss)

	return nil
}

// pageCmd moves the page cursor: page <n|next|prev|first|last>.
func (c *Command) pageCmd(p *model.Presenter, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: page <n|next|prev|first|last>")
	}

	switch strings.ToLower(args[0]) {
	case "next", "n":
		if !p.NextPage() {
			return errors.New("already on the last page")
		}
	case "prev", "p":
		if !p.PrevPage() {
			return errors.New("already on the first page")
		}
	case "first":
		p.FirstPage()
	case "last":
		p.LastPage()
	default:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid page %q", args[0])
		}
		p.Query().SetPageIndex(n - 1)
	}

	return nil
}

// sizeCmd changes the page size and returns to the first page.
func (c *Command) sizeCmd(p *model.Presenter, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: size <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > config.MaxPageSize {
		return fmt.Errorf("invalid page size %q", args[0])
	}
	p.Query().Update(func(s *dao.QuerySnapshot) {
		s.Pagination = dao.Pagination{PageIndex: 0, PageSize: n}
	})

	return nil
}

// parseCommand parses a command string into command name and arguments.
func parseCommand(cmd string) (string, []string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return "", nil
	}

	return strings.ToLower(parts[0]), parts[1:]
}

// parseSorting reads column names, each optionally followed by asc or desc.
// A column:desc suffix is accepted too.
func parseSorting(schema render.Schema, args []string) ([]dao.SortDirective, error) {
	ss := make([]dao.SortDirective, 0, len(args))
	for _, a := range args {
		switch strings.ToLower(a) {
		case "asc", "desc":
			if len(ss) == 0 {
				return nil, fmt.Errorf("sort direction %q needs a column", a)
			}
			ss[len(ss)-1].Desc = strings.EqualFold(a, "desc")
			continue
		}

		name, dir, _ := strings.Cut(a, ":")
		col, err := resolveColumn(schema, name)
		if err != nil {
			return nil, err
		}
		d := dao.SortDirective{ID: col.Key}
		switch strings.ToLower(dir) {
		case "", "asc":
		case "desc":
			d.Desc = true
		default:
			return nil, fmt.Errorf("invalid sort direction %q", dir)
		}
		ss = append(ss, d)
	}

	return ss, nil
}

// resolveColumn finds a column by key or label, ignoring case.
// Underscores and spaces are interchangeable.
func resolveColumn(schema render.Schema, name string) (render.Column, error) {
	norm := func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, " ", "_"))
	}
	n := norm(name)
	for _, c := range schema {
		if norm(c.Key) == n || norm(c.Label) == n {
			return c, nil
		}
	}

	return render.Column{}, fmt.Errorf("%w: %s", dao.ErrUnknownColumn, name)
}
