package chem

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultArrow separates the two sides in rendered equations
const DefaultArrow = "->"

// FormatOptions controls how nodes are rendered.
//
// The zero value gives the canonical form, which omits counts of 1 and
// parses back to an equal tree. ExplicitOnes prints every count, including
// 1; such output is for display only because the grammar rejects a written 1.
type FormatOptions struct {
	ExplicitOnes bool
	Arrow        string
}

func (o FormatOptions) arrow() string {
	if o.Arrow == "" {
		return DefaultArrow
	}
	return o.Arrow
}

// printer renders items through the Visitor interface
type printer struct {
	opts FormatOptions
	sb   strings.Builder
}

func newPrinter(opts FormatOptions) *printer {
	return &printer{opts: opts}
}

func (p *printer) VisitComponent(c *Component) {
	p.sb.WriteString(c.symbol)
	p.writeCount(c.count)
}

func (p *printer) VisitGroup(g *Group) {
	p.sb.WriteString(g.bracket.Open())
	for _, it := range g.items {
		it.Accept(p)
	}
	p.sb.WriteString(g.bracket.Close())
	p.writeCount(g.count)
}

func (p *printer) writeCount(n int) {
	if n != 1 || p.opts.ExplicitOnes {
		p.sb.WriteString(strconv.Itoa(n))
	}
}

func (p *printer) String() string {
	return p.sb.String()
}

// FormatBalanced renders eq with a coefficient in front of each term.
// Coefficients of 1 are omitted unless opts.ExplicitOnes is set.
func FormatBalanced(eq *Equation, coefs []int, opts FormatOptions) (string, error) {
	if len(coefs) != eq.NumTerms() {
		return "", fmt.Errorf("chem: %d coefficients for %d terms", len(coefs), eq.NumTerms())
	}
	return joinSides(eq.left, eq.right, coefs, opts), nil
}

func joinSides(left, right []*Term, coefs []int, opts FormatOptions) string {
	var sb strings.Builder
	i := 0
	writeSide := func(terms []*Term) {
		for j, t := range terms {
			if j > 0 {
				sb.WriteString(" + ")
			}
			if coefs != nil && (coefs[i] != 1 || opts.ExplicitOnes) {
				sb.WriteString(strconv.Itoa(coefs[i]))
			}
			sb.WriteString(t.Format(opts))
			i++
		}
	}

	writeSide(left)
	if len(right) > 0 {
		sb.WriteString(" " + opts.arrow() + " ")
		writeSide(right)
	}
	return sb.String()
}
