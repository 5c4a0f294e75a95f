package chem

// Term is one side member of an equation, e.g. "Mg(OH)2". Terms carry no
// count; coefficients are computed by the solver.
type Term struct {
	id    ID
	items []Item
}

// NewTerm creates a term. The items are copied.
func NewTerm(id ID, items []Item) *Term {
	return &Term{id: id, items: append([]Item(nil), items...)}
}

// ID returns the node ID
func (t *Term) ID() ID { return t.id }

// Items returns a copy of the term's children
func (t *Term) Items() []Item {
	return append([]Item(nil), t.items...)
}

// Len returns the number of children
func (t *Term) Len() int { return len(t.items) }

// String renders the term, omitting counts of 1
func (t *Term) String() string {
	return t.Format(FormatOptions{})
}

// Format renders the term with the given options
func (t *Term) Format(opts FormatOptions) string {
	p := newPrinter(opts)
	for _, it := range t.items {
		it.Accept(p)
	}
	return p.String()
}

// Equation is an ordered list of reactant terms and product terms
type Equation struct {
	id    ID
	left  []*Term
	right []*Term
}

// NewEquation creates an empty equation
func NewEquation(id ID) *Equation {
	return &Equation{id: id}
}

// ID returns the node ID
func (e *Equation) ID() ID { return e.id }

// AppendLeft adds a reactant term
func (e *Equation) AppendLeft(t *Term) { e.left = append(e.left, t) }

// AppendRight adds a product term
func (e *Equation) AppendRight(t *Term) { e.right = append(e.right, t) }

// Left returns the reactant terms
func (e *Equation) Left() []*Term {
	return append([]*Term(nil), e.left...)
}

// Right returns the product terms
func (e *Equation) Right() []*Term {
	return append([]*Term(nil), e.right...)
}

// Terms returns the reactant terms followed by the product terms. This is
// the column order of the balancing matrix and of the coefficient vector.
func (e *Equation) Terms() []*Term {
	terms := make([]*Term, 0, len(e.left)+len(e.right))
	terms = append(terms, e.left...)
	return append(terms, e.right...)
}

// NumTerms returns the number of terms on both sides
func (e *Equation) NumTerms() int {
	return len(e.left) + len(e.right)
}

// String renders the equation as "A + B -> C + D"
func (e *Equation) String() string {
	return e.Format(FormatOptions{})
}

// Format renders the equation with the given options
func (e *Equation) Format(opts FormatOptions) string {
	return joinSides(e.left, e.right, nil, opts)
}
