package chem

import (
	"errors"
	"fmt"
	"sort"

	"github.com/msto63/lavoisier/foundation/utils/mathx"
)

// ErrOverflow is returned when an atom count does not fit in an int
var ErrOverflow = errors.New("atom count overflows")

// Composition maps element symbols to total atom counts
type Composition map[string]int

// Get returns the count for symbol, 0 if absent
func (c Composition) Get(symbol string) int {
	return c[symbol]
}

// Scale returns a new composition with every count multiplied by n
func (c Composition) Scale(n int) Composition {
	out := make(Composition, len(c))
	for sym, v := range c {
		out[sym] = v * n
	}
	return out
}

// Merge adds every count of other to c in place
func (c Composition) Merge(other Composition) {
	for sym, v := range other {
		c[sym] += v
	}
}

// Equal reports whether both compositions hold the same non-zero counts
func (c Composition) Equal(other Composition) bool {
	for sym, v := range c {
		if other[sym] != v {
			return false
		}
	}
	for sym, v := range other {
		if c[sym] != v {
			return false
		}
	}
	return true
}

// Symbols returns the element symbols in sorted order
func (c Composition) Symbols() []string {
	syms := make([]string, 0, len(c))
	for sym := range c {
		syms = append(syms, sym)
	}
	sort.Strings(syms)
	return syms
}

// Composer is any node with an element composition
type Composer interface {
	Composition() Composition
}

// CompositionOf returns the element composition of a component, group,
// term or equation
func CompositionOf(n Composer) Composition {
	return n.Composition()
}

// composer folds item counts into acc, scaled by factor. The first
// overflow is kept in err and stops further accumulation.
type composer struct {
	acc    Composition
	factor int
	err    error
}

func (v *composer) VisitComponent(c *Component) {
	if v.err != nil {
		return
	}
	n, ok := mathx.MulChecked(c.count, v.factor)
	if ok {
		n, ok = mathx.AddChecked(v.acc[c.symbol], n)
	}
	if !ok {
		v.err = fmt.Errorf("%w: %s", ErrOverflow, c.symbol)
		return
	}
	v.acc[c.symbol] = n
}

func (v *composer) VisitGroup(g *Group) {
	if v.err != nil {
		return
	}
	factor, ok := mathx.MulChecked(v.factor, g.count)
	if !ok {
		v.err = fmt.Errorf("%w: group %s", ErrOverflow, g)
		return
	}
	inner := &composer{acc: v.acc, factor: factor}
	for _, it := range g.items {
		it.Accept(inner)
	}
	v.err = inner.err
}

func composeItems(acc Composition, items []Item) error {
	v := &composer{acc: acc, factor: 1}
	for _, it := range items {
		it.Accept(v)
	}
	return v.err
}

// Composition returns {symbol: count}
func (c *Component) Composition() Composition {
	out := make(Composition, 1)
	_ = composeItems(out, []Item{c})
	return out
}

// Composition returns the children's totals multiplied by the group count.
// Totals are undefined if CheckedComposition would fail.
func (g *Group) Composition() Composition {
	out := make(Composition)
	_ = composeItems(out, []Item{g})
	return out
}

// Composition returns the sum over the term's children. Totals are
// undefined if CheckedComposition would fail.
func (t *Term) Composition() Composition {
	c, _ := t.CheckedComposition()
	return c
}

// CheckedComposition is Composition failing with ErrOverflow when a total
// does not fit in an int
func (t *Term) CheckedComposition() (Composition, error) {
	out := make(Composition)
	err := composeItems(out, t.items)
	return out, err
}

// Composition returns the sum over every term of both sides
func (e *Equation) Composition() Composition {
	out := make(Composition)
	for _, t := range e.Terms() {
		if err := composeItems(out, t.items); err != nil {
			break
		}
	}
	return out
}

// TermCompositions returns one composition per term, reactants first. It
// fails with ErrOverflow if any total does not fit in an int.
func TermCompositions(eq *Equation) ([]Composition, error) {
	terms := eq.Terms()
	out := make([]Composition, len(terms))
	for i, t := range terms {
		c, err := t.CheckedComposition()
		if err != nil {
			return nil, fmt.Errorf("term %d: %w", i+1, err)
		}
		out[i] = c
	}
	return out, nil
}

// symbolCollector records symbols in order of first appearance
type symbolCollector struct {
	seen    map[string]bool
	symbols []string
}

func (v *symbolCollector) VisitComponent(c *Component) {
	if !v.seen[c.symbol] {
		v.seen[c.symbol] = true
		v.symbols = append(v.symbols, c.symbol)
	}
}

func (v *symbolCollector) VisitGroup(g *Group) {
	for _, it := range g.items {
		it.Accept(v)
	}
}

// Elements returns the distinct element symbols of eq in order of first
// appearance, reading reactants then products left to right
func Elements(eq *Equation) []string {
	v := &symbolCollector{seen: make(map[string]bool)}
	for _, t := range eq.Terms() {
		for _, it := range t.items {
			it.Accept(v)
		}
	}
	return v.symbols
}
