package chem

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// hydroxide builds Mg(OH)2 by hand
func hydroxide(a *Arena) *Term {
	oh := NewGroup(a.Next(), BracketRound, []Item{
		NewComponent(a.Next(), "O"),
		NewComponent(a.Next(), "H"),
	})
	oh.SetCount(2)
	return NewTerm(a.Next(), []Item{NewComponent(a.Next(), "Mg"), oh})
}

func component(a *Arena, symbol string, count int) *Component {
	c := NewComponent(a.Next(), symbol)
	c.SetCount(count)
	return c
}

func TestArena(t *testing.T) {
	a := NewArena()
	if got := a.Next(); got != 1 {
		t.Errorf("first ID = %d, want 1", got)
	}
	if got := a.Next(); got != 2 {
		t.Errorf("second ID = %d, want 2", got)
	}
	if a.Issued() != 2 {
		t.Errorf("Issued() = %d, want 2", a.Issued())
	}
}

func TestSetCount(t *testing.T) {
	a := NewArena()
	items := []Item{
		NewComponent(a.Next(), "H"),
		NewGroup(a.Next(), BracketRound, []Item{NewComponent(a.Next(), "O")}),
	}

	for _, it := range items {
		for _, n := range []int{0, -1} {
			if err := it.SetCount(n); !errors.Is(err, ErrInvalidCount) {
				t.Errorf("%s.SetCount(%d) error = %v, want ErrInvalidCount", it, n, err)
			}
		}
		if it.Count() != 1 {
			t.Errorf("count changed after rejected SetCount: %d", it.Count())
		}
		if err := it.SetCount(3); err != nil || it.Count() != 3 {
			t.Errorf("SetCount(3) = %v, count %d", err, it.Count())
		}
	}
}

func TestGroup_ItemsIsCopy(t *testing.T) {
	a := NewArena()
	g := NewGroup(a.Next(), BracketRound, []Item{NewComponent(a.Next(), "O")})
	items := g.Items()
	items[0] = NewComponent(a.Next(), "N")

	if g.Items()[0].(*Component).Symbol() != "O" {
		t.Error("Items() exposed the internal slice")
	}
}

func TestString(t *testing.T) {
	a := NewArena()
	eq := NewEquation(a.Next())
	eq.AppendLeft(NewTerm(a.Next(), []Item{component(a, "Ag", 1), component(a, "Br", 1)}))

	s2o3 := NewGroup(a.Next(), BracketRound, []Item{component(a, "S", 2), component(a, "O", 3)})
	s2o3.SetCount(2)
	complexIon := NewGroup(a.Next(), BracketSquare, []Item{component(a, "Ag", 1), s2o3})
	eq.AppendRight(NewTerm(a.Next(), []Item{component(a, "Na", 3), complexIon}))

	if got, want := eq.String(), "AgBr -> Na3[Ag(S2O3)2]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	got := eq.Format(FormatOptions{ExplicitOnes: true, Arrow: "="})
	if want := "Ag1Br1 = Na3[Ag1(S2O3)2]1"; got != want {
		t.Errorf("Format(ExplicitOnes) = %q, want %q", got, want)
	}
}

func TestEquation_StringWithoutProducts(t *testing.T) {
	a := NewArena()
	eq := NewEquation(a.Next())
	eq.AppendLeft(NewTerm(a.Next(), []Item{component(a, "H", 2)}))
	eq.AppendLeft(NewTerm(a.Next(), []Item{component(a, "O", 2)}))

	if got := eq.String(); got != "H2 + O2" {
		t.Errorf("String() = %q, want %q", got, "H2 + O2")
	}
}

func TestFormatBalanced(t *testing.T) {
	a := NewArena()
	eq := NewEquation(a.Next())
	eq.AppendLeft(NewTerm(a.Next(), []Item{component(a, "H", 2)}))
	eq.AppendLeft(NewTerm(a.Next(), []Item{component(a, "O", 2)}))
	eq.AppendRight(NewTerm(a.Next(), []Item{component(a, "H", 2), component(a, "O", 1)}))

	got, err := FormatBalanced(eq, []int{2, 1, 2}, FormatOptions{})
	if err != nil {
		t.Fatalf("FormatBalanced() error = %v", err)
	}
	if want := "2H2 + O2 -> 2H2O"; got != want {
		t.Errorf("FormatBalanced() = %q, want %q", got, want)
	}

	got, _ = FormatBalanced(eq, []int{2, 1, 2}, FormatOptions{ExplicitOnes: true})
	if want := "2H2 + 1O2 -> 2H2O1"; got != want {
		t.Errorf("FormatBalanced(ExplicitOnes) = %q, want %q", got, want)
	}

	if _, err := FormatBalanced(eq, []int{1, 2}, FormatOptions{}); err == nil {
		t.Error("FormatBalanced() should reject a coefficient count mismatch")
	}
}

func TestCompositionOf(t *testing.T) {
	a := NewArena()
	term := hydroxide(a)

	tests := []struct {
		name string
		node Composer
		want Composition
	}{
		{"component", component(a, "O", 3), Composition{"O": 3}},
		{"group", term.Items()[1], Composition{"O": 2, "H": 2}},
		{"term", term, Composition{"Mg": 1, "O": 2, "H": 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, CompositionOf(tt.node)); diff != "" {
				t.Errorf("CompositionOf() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompositionOf_NestedGroups(t *testing.T) {
	// (NH4)2[Fe(CN)6]3 style nesting: counts multiply through every level
	a := NewArena()
	cn := NewGroup(a.Next(), BracketRound, []Item{component(a, "C", 1), component(a, "N", 1)})
	cn.SetCount(6)
	outer := NewGroup(a.Next(), BracketSquare, []Item{component(a, "Fe", 1), cn})
	outer.SetCount(3)

	want := Composition{"Fe": 3, "C": 18, "N": 18}
	if diff := cmp.Diff(want, outer.Composition()); diff != "" {
		t.Errorf("Composition() mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupComposition_Multiplicative(t *testing.T) {
	for n := 1; n <= 7; n++ {
		a := NewArena()
		children := []Item{component(a, "S", 2), component(a, "O", 3)}
		g := NewGroup(a.Next(), BracketRound, children)
		g.SetCount(n)

		inner := NewTerm(a.Next(), children).Composition()
		if diff := cmp.Diff(inner.Scale(n), g.Composition()); diff != "" {
			t.Errorf("count %d: group composition is not the child composition scaled (-want +got):\n%s", n, diff)
		}
	}
}

func TestCheckedComposition_Overflow(t *testing.T) {
	tests := []struct {
		name  string
		build func(a *Arena) *Term
	}{
		{
			// (O3037000500)3037000500 exceeds the int range
			name: "group product",
			build: func(a *Arena) *Term {
				g := NewGroup(a.Next(), BracketRound, []Item{component(a, "O", 3037000500)})
				g.SetCount(3037000500)
				return NewTerm(a.Next(), []Item{g})
			},
		},
		{
			// (H4611686018427387904)4 would wrap to 0
			name: "wraps to zero",
			build: func(a *Arena) *Term {
				g := NewGroup(a.Next(), BracketRound, []Item{component(a, "H", 4611686018427387904)})
				g.SetCount(4)
				return NewTerm(a.Next(), []Item{g})
			},
		},
		{
			name: "sum of components",
			build: func(a *Arena) *Term {
				return NewTerm(a.Next(), []Item{component(a, "C", math.MaxInt), component(a, "C", 1)})
			},
		},
		{
			name: "nested group factor",
			build: func(a *Arena) *Term {
				inner := NewGroup(a.Next(), BracketRound, []Item{component(a, "N", 1)})
				inner.SetCount(math.MaxInt / 2)
				outer := NewGroup(a.Next(), BracketSquare, []Item{inner})
				outer.SetCount(3)
				return NewTerm(a.Next(), []Item{outer})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArena()
			term := tt.build(a)
			if _, err := term.CheckedComposition(); !errors.Is(err, ErrOverflow) {
				t.Errorf("CheckedComposition() error = %v, want ErrOverflow", err)
			}

			eq := NewEquation(a.Next())
			eq.AppendLeft(term)
			if _, err := TermCompositions(eq); !errors.Is(err, ErrOverflow) {
				t.Errorf("TermCompositions() error = %v, want ErrOverflow", err)
			}
		})
	}
}

func TestEquationCompositions(t *testing.T) {
	a := NewArena()
	eq := NewEquation(a.Next())
	eq.AppendLeft(hydroxide(a))
	eq.AppendRight(NewTerm(a.Next(), []Item{component(a, "Mg", 1), component(a, "O", 1)}))
	eq.AppendRight(NewTerm(a.Next(), []Item{component(a, "H", 2), component(a, "O", 1)}))

	wantTerms := []Composition{
		{"Mg": 1, "O": 2, "H": 2},
		{"Mg": 1, "O": 1},
		{"H": 2, "O": 1},
	}
	gotTerms, err := TermCompositions(eq)
	if err != nil {
		t.Fatalf("TermCompositions() error = %v", err)
	}
	if diff := cmp.Diff(wantTerms, gotTerms); diff != "" {
		t.Errorf("TermCompositions() mismatch (-want +got):\n%s", diff)
	}

	wantTotal := Composition{"Mg": 2, "O": 4, "H": 4}
	if diff := cmp.Diff(wantTotal, CompositionOf(eq)); diff != "" {
		t.Errorf("CompositionOf(eq) mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"Mg", "O", "H"}, Elements(eq)); diff != "" {
		t.Errorf("Elements() mismatch (-want +got):\n%s", diff)
	}
}

func TestComposition_Equal(t *testing.T) {
	if !(Composition{"H": 2, "O": 0}).Equal(Composition{"H": 2}) {
		t.Error("zero counts should not affect equality")
	}
	if (Composition{"H": 2}).Equal(Composition{"H": 3}) {
		t.Error("different counts reported equal")
	}
	if diff := cmp.Diff([]string{"H", "Na", "O"}, Composition{"O": 1, "Na": 1, "H": 1}.Symbols()); diff != "" {
		t.Errorf("Symbols() mismatch (-want +got):\n%s", diff)
	}
}

func TestTerms_Order(t *testing.T) {
	a := NewArena()
	eq := NewEquation(a.Next())
	l1 := NewTerm(a.Next(), nil)
	r1 := NewTerm(a.Next(), nil)
	l2 := NewTerm(a.Next(), nil)
	eq.AppendLeft(l1)
	eq.AppendRight(r1)
	eq.AppendLeft(l2)

	terms := eq.Terms()
	if len(terms) != 3 || terms[0] != l1 || terms[1] != l2 || terms[2] != r1 {
		t.Errorf("Terms() order wrong: %v", terms)
	}
	if eq.NumTerms() != 3 {
		t.Errorf("NumTerms() = %d, want 3", eq.NumTerms())
	}
}
