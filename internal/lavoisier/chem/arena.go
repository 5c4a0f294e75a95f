package chem

// ID identifies one node of a parsed equation. IDs distinguish nodes with
// equal content and are never compared for anything else.
type ID int

// Arena issues node IDs for one parse. It is not safe for concurrent use;
// each parse owns its own Arena.
type Arena struct {
	last ID
}

// NewArena returns an arena whose first ID is 1
func NewArena() *Arena {
	return &Arena{}
}

// Next returns a fresh ID
func (a *Arena) Next() ID {
	a.last++
	return a.last
}

// Issued returns the number of IDs handed out so far
func (a *Arena) Issued() int {
	return int(a.last)
}
