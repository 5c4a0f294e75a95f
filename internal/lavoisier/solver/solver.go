// ============================================================================
// Lavoisier - Chemical Equation Balancer
// ============================================================================
//
// Package:     solver
// Description: Builds the balancing system of an equation and extracts the
//              integer coefficient vector
// Author:      Mike Stoffels
// Created:     2025-12-09
// License:     MIT
// ============================================================================

package solver

import (
	"fmt"

	"github.com/msto63/lavoisier/foundation/utils/mathx"
	"github.com/msto63/lavoisier/internal/lavoisier/chem"
	"github.com/msto63/lavoisier/internal/lavoisier/matrix"
)

// BuildMatrix returns the (elements+1) x (terms+1) balancing matrix of eq
// and the element symbol of each row. Cell (e, t) holds the atom count of
// element e in term t, negated for products. The last row is left zero for
// Solve to pin a free unknown; the last column is the right-hand side.
func BuildMatrix(eq *chem.Equation) (*matrix.Matrix, []string, error) {
	elements := chem.Elements(eq)
	comps, err := chem.TermCompositions(eq)
	if err != nil {
		return nil, nil, asOverflow(err)
	}
	numLeft := len(eq.Left())

	m, err := matrix.New(len(elements)+1, len(comps)+1)
	if err != nil {
		return nil, nil, err
	}
	for row, sym := range elements {
		for col, comp := range comps {
			v := comp.Get(sym)
			if col >= numLeft {
				v = -v
			}
			if err := m.Set(row, col, v); err != nil {
				return nil, nil, err
			}
		}
	}
	return m, elements, nil
}

// Solve reduces m, pins the first free unknown to 1 and reduces again.
// It fails with KindAllZero when no row of the reduced homogeneous system
// relates two unknowns, and with ErrOverflow when an intermediate entry
// does not fit in an int.
func Solve(m *matrix.Matrix) error {
	if err := m.GaussJordanEliminate(); err != nil {
		return asOverflow(err)
	}

	last := m.Rows() - 1
	free := -1
	for i := 0; i < last; i++ {
		n, err := m.CountNonzero(i)
		if err != nil {
			return err
		}
		if n > 1 {
			free = i
			break
		}
	}
	if free < 0 {
		return allZero("every unknown is forced to zero")
	}

	if err := m.Set(last, free, 1); err != nil {
		return err
	}
	if err := m.Set(last, m.Cols()-1, 1); err != nil {
		return err
	}
	return asOverflow(m.GaussJordanEliminate())
}

// ExtractCoefficients reads the coefficient vector from a matrix reduced by
// Solve. The diagonal must hold a nonzero pivot for every unknown.
func ExtractCoefficients(m *matrix.Matrix) ([]int, error) {
	rows, cols := m.Rows(), m.Cols()
	unknowns := cols - 1
	if unknowns < 1 {
		return nil, allZero("equation has no terms")
	}
	if unknowns > rows {
		return nil, multipleSolutions("%d unknowns but only %d equations", unknowns, rows)
	}

	pivots := make([]int, unknowns)
	lcm := 1
	for i := 0; i < unknowns; i++ {
		p, err := m.Get(i, i)
		if err != nil {
			return nil, err
		}
		if p == 0 {
			return nil, multipleSolutions("no pivot for term %d", i+1)
		}
		pivots[i] = p
		next, ok := mathx.LCMChecked(lcm, p)
		if !ok {
			return nil, fmt.Errorf("%w: lcm of pivots %d and %d", ErrOverflow, lcm, p)
		}
		lcm = next
	}

	coefs := make([]int, unknowns)
	zero := true
	for i, p := range pivots {
		rhs, err := m.Get(i, cols-1)
		if err != nil {
			return nil, err
		}
		c, ok := mathx.MulChecked(lcm/p, rhs)
		if !ok {
			return nil, fmt.Errorf("%w: coefficient of term %d", ErrOverflow, i+1)
		}
		coefs[i] = c
		if coefs[i] != 0 {
			zero = false
		}
	}
	if zero {
		return nil, allZero("every coefficient is zero")
	}
	return coefs, nil
}

// Balance returns one coefficient per term of eq, reactants first
func Balance(eq *chem.Equation) ([]int, error) {
	m, _, err := BuildMatrix(eq)
	if err != nil {
		return nil, err
	}
	if err := Solve(m); err != nil {
		return nil, err
	}
	return ExtractCoefficients(m)
}

// Verify checks that coefs equalize every element's atom total on both
// sides of eq. Totals that do not fit in an int fail with ErrOverflow.
func Verify(eq *chem.Equation, coefs []int) error {
	if len(coefs) != eq.NumTerms() {
		return fmt.Errorf("%w: %d coefficients for %d terms", ErrUnbalanced, len(coefs), eq.NumTerms())
	}
	comps, err := chem.TermCompositions(eq)
	if err != nil {
		return asOverflow(err)
	}

	left := make(chem.Composition)
	right := make(chem.Composition)
	numLeft := len(eq.Left())
	for i, comp := range comps {
		side := left
		if i >= numLeft {
			side = right
		}
		for sym, n := range comp {
			scaled, ok := mathx.MulChecked(n, coefs[i])
			if ok {
				scaled, ok = mathx.AddChecked(side[sym], scaled)
			}
			if !ok {
				return fmt.Errorf("%w: %s total of term %d", ErrOverflow, sym, i+1)
			}
			side[sym] = scaled
		}
	}

	for _, sym := range chem.Elements(eq) {
		if left[sym] != right[sym] {
			return fmt.Errorf("%w: %s has %d atoms on the left and %d on the right",
				ErrUnbalanced, sym, left[sym], right[sym])
		}
	}
	return nil
}
