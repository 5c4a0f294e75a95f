// ============================================================================
// Lavoisier - Chemical Equation Balancer
// ============================================================================
//
// Package:     matrix
// Description: Dense integer matrix and exact Gauss-Jordan elimination
// Author:      Mike Stoffels
// Created:     2025-12-09
// License:     MIT
// ============================================================================

package matrix

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrOutOfRange is returned for a row or column index outside the matrix
	ErrOutOfRange = errors.New("matrix index out of range")
	// ErrInvalidSize is returned for negative dimensions or ragged rows
	ErrInvalidSize = errors.New("invalid matrix size")
	// ErrOverflow is returned when an entry no longer fits in an int
	ErrOverflow = errors.New("integer overflow")
)

// Matrix is a dense rows x cols integer matrix
type Matrix struct {
	rows  int
	cols  int
	cells [][]int
}

// New creates a zero matrix
func New(rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}
	cells := make([][]int, rows)
	for i := range cells {
		cells[i] = make([]int, cols)
	}
	return &Matrix{rows: rows, cols: cols, cells: cells}, nil
}

// FromRows creates a matrix from a copy of rows, which must all have the
// same length
func FromRows(rows [][]int) (*Matrix, error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	m, err := New(len(rows), cols)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidSize, i, len(row), cols)
		}
		copy(m.cells[i], row)
	}
	return m, nil
}

// Rows returns the number of rows
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns
func (m *Matrix) Cols() int { return m.cols }

// Get returns the cell at (r, c)
func (m *Matrix) Get(r, c int) (int, error) {
	if err := m.check(r, c); err != nil {
		return 0, err
	}
	return m.cells[r][c], nil
}

// Set assigns the cell at (r, c)
func (m *Matrix) Set(r, c, v int) error {
	if err := m.check(r, c); err != nil {
		return err
	}
	m.cells[r][c] = v
	return nil
}

// Row returns a copy of row r
func (m *Matrix) Row(r int) ([]int, error) {
	if r < 0 || r >= m.rows {
		return nil, fmt.Errorf("%w: row %d of %d", ErrOutOfRange, r, m.rows)
	}
	return append([]int(nil), m.cells[r]...), nil
}

// SetRow replaces row r with a copy of values
func (m *Matrix) SetRow(r int, values []int) error {
	if r < 0 || r >= m.rows {
		return fmt.Errorf("%w: row %d of %d", ErrOutOfRange, r, m.rows)
	}
	if len(values) != m.cols {
		return fmt.Errorf("%w: %d values for %d columns", ErrInvalidSize, len(values), m.cols)
	}
	copy(m.cells[r], values)
	return nil
}

// SwapRows exchanges rows i and j
func (m *Matrix) SwapRows(i, j int) error {
	if i < 0 || i >= m.rows || j < 0 || j >= m.rows {
		return fmt.Errorf("%w: swap %d and %d of %d rows", ErrOutOfRange, i, j, m.rows)
	}
	m.cells[i], m.cells[j] = m.cells[j], m.cells[i]
	return nil
}

// CountNonzero returns the number of nonzero cells in row r
func (m *Matrix) CountNonzero(r int) (int, error) {
	if r < 0 || r >= m.rows {
		return 0, fmt.Errorf("%w: row %d of %d", ErrOutOfRange, r, m.rows)
	}
	n := 0
	for _, v := range m.cells[r] {
		if v != 0 {
			n++
		}
	}
	return n, nil
}

// Clone returns a deep copy
func (m *Matrix) Clone() *Matrix {
	clone := &Matrix{rows: m.rows, cols: m.cols, cells: make([][]int, m.rows)}
	for i, row := range m.cells {
		clone.cells[i] = append([]int(nil), row...)
	}
	return clone
}

// Equal reports whether both matrices have the same size and cells
func (m *Matrix) Equal(other *Matrix) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i := range m.cells {
		for j := range m.cells[i] {
			if m.cells[i][j] != other.cells[i][j] {
				return false
			}
		}
	}
	return true
}

// String renders the matrix as "[[1, 0, -1], [0, 2, -1]]"
func (m *Matrix) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, row := range m.cells {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('[')
		for j, v := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Itoa(v))
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
	return sb.String()
}

// GaussJordanEliminate reduces the matrix in place to reduced row echelon
// form without introducing fractions. Pivots are not normalized to 1; every
// row is left simplified. On ErrOverflow the matrix is left partially
// reduced.
func (m *Matrix) GaussJordanEliminate() error {
	for i := range m.cells {
		m.cells[i] = SimplifyRow(m.cells[i])
	}

	// Forward pass: row echelon form
	numPivots := 0
	for c := 0; c < m.cols; c++ {
		pivotRow := numPivots
		for pivotRow < m.rows && m.cells[pivotRow][c] == 0 {
			pivotRow++
		}
		if pivotRow == m.rows {
			continue
		}
		m.cells[numPivots], m.cells[pivotRow] = m.cells[pivotRow], m.cells[numPivots]
		pivot := m.cells[numPivots]
		numPivots++

		for j := numPivots; j < m.rows; j++ {
			row, err := eliminate(m.cells[j], pivot, c)
			if err != nil {
				return err
			}
			m.cells[j] = row
		}
	}

	// Backward pass: clear every column above its pivot
	for i := m.rows - 1; i >= 0; i-- {
		pivotCol := FirstNonzero(m.cells[i])
		if pivotCol < 0 {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			row, err := eliminate(m.cells[j], m.cells[i], pivotCol)
			if err != nil {
				return err
			}
			m.cells[j] = row
		}
	}
	return nil
}

func (m *Matrix) check(r, c int) error {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfRange, r, c, m.rows, m.cols)
	}
	return nil
}
