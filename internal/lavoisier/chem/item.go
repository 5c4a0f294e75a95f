// ============================================================================
// Lavoisier - Chemical Equation Balancer
// ============================================================================
//
// Package:     chem
// Description: Components and groups, the two kinds of term items
// Author:      Mike Stoffels
// Created:     2025-12-08
// License:     MIT
// ============================================================================

package chem

import (
	"errors"
)

// ErrInvalidCount is returned when a count below 1 is assigned
var ErrInvalidCount = errors.New("count must be at least 1")

// Item is a member of a term or group: a *Component or a *Group
type Item interface {
	ID() ID
	Count() int
	SetCount(n int) error
	Accept(v Visitor)
	Composition() Composition
	String() string

	item()
}

// Visitor handles each kind of Item
type Visitor interface {
	VisitComponent(c *Component)
	VisitGroup(g *Group)
}

// Component is one element symbol with its repeat count, e.g. "O2"
type Component struct {
	id     ID
	symbol string
	count  int
}

// NewComponent creates a component with count 1
func NewComponent(id ID, symbol string) *Component {
	return &Component{id: id, symbol: symbol, count: 1}
}

// ID returns the node ID
func (c *Component) ID() ID { return c.id }

// Symbol returns the element symbol
func (c *Component) Symbol() string { return c.symbol }

// Count returns the repeat count
func (c *Component) Count() int { return c.count }

// SetCount sets the repeat count
func (c *Component) SetCount(n int) error {
	if n < 1 {
		return ErrInvalidCount
	}
	c.count = n
	return nil
}

// Accept calls v.VisitComponent
func (c *Component) Accept(v Visitor) { v.VisitComponent(c) }

// String renders the component, omitting a count of 1
func (c *Component) String() string {
	return c.Format(FormatOptions{})
}

// Format renders the component with the given options
func (c *Component) Format(opts FormatOptions) string {
	p := newPrinter(opts)
	c.Accept(p)
	return p.String()
}

func (c *Component) item() {}

// Bracket is the delimiter pair a group was written with
type Bracket int

const (
	// BracketRound is "(" ... ")"
	BracketRound Bracket = iota
	// BracketSquare is "[" ... "]"
	BracketSquare
)

// Open returns the opening delimiter
func (b Bracket) Open() string {
	if b == BracketSquare {
		return "["
	}
	return "("
}

// Close returns the closing delimiter
func (b Bracket) Close() string {
	if b == BracketSquare {
		return "]"
	}
	return ")"
}

// Group is a bracketed sub-formula whose count multiplies its contents,
// e.g. "(OH)2"
type Group struct {
	id      ID
	bracket Bracket
	items   []Item
	count   int
}

// NewGroup creates a group with count 1. The items are copied.
func NewGroup(id ID, bracket Bracket, items []Item) *Group {
	return &Group{
		id:      id,
		bracket: bracket,
		items:   append([]Item(nil), items...),
		count:   1,
	}
}

// ID returns the node ID
func (g *Group) ID() ID { return g.id }

// Bracket returns the delimiter pair
func (g *Group) Bracket() Bracket { return g.bracket }

// Items returns a copy of the group's children
func (g *Group) Items() []Item {
	return append([]Item(nil), g.items...)
}

// Len returns the number of children
func (g *Group) Len() int { return len(g.items) }

// Count returns the repeat count
func (g *Group) Count() int { return g.count }

// SetCount sets the repeat count
func (g *Group) SetCount(n int) error {
	if n < 1 {
		return ErrInvalidCount
	}
	g.count = n
	return nil
}

// Accept calls v.VisitGroup
func (g *Group) Accept(v Visitor) { v.VisitGroup(g) }

// String renders the group, omitting a count of 1
func (g *Group) String() string {
	return g.Format(FormatOptions{})
}

// Format renders the group with the given options
func (g *Group) Format(opts FormatOptions) string {
	p := newPrinter(opts)
	g.Accept(p)
	return p.String()
}

func (g *Group) item() {}
