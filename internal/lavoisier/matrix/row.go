package matrix

import (
	"fmt"

	"github.com/msto63/lavoisier/foundation/utils/mathx"
)

// AddRows returns the element-wise sum of a and b, which must have equal
// length. It fails with ErrOverflow if an entry does not fit in an int.
func AddRows(a, b []int) ([]int, error) {
	out := make([]int, len(a))
	for i := range a {
		v, ok := mathx.AddChecked(a[i], b[i])
		if !ok {
			return nil, fmt.Errorf("%w: %d + %d in column %d", ErrOverflow, a[i], b[i], i)
		}
		out[i] = v
	}
	return out, nil
}

// MultiplyRow returns row scaled by k, or ErrOverflow
func MultiplyRow(row []int, k int) ([]int, error) {
	out := make([]int, len(row))
	for i, v := range row {
		p, ok := mathx.MulChecked(v, k)
		if !ok {
			return nil, fmt.Errorf("%w: %d * %d in column %d", ErrOverflow, v, k, i)
		}
		out[i] = p
	}
	return out, nil
}

// GCDRow returns the GCD of all entries, 0 for an all-zero row
func GCDRow(row []int) int {
	return mathx.GCDAll(row...)
}

// SimplifyRow returns row divided by its GCD, negated if needed so the
// first nonzero entry is positive. An all-zero row is returned as a copy.
//
//	SimplifyRow([]int{0, -2, 2, 4}) == []int{0, 1, -1, -2}
func SimplifyRow(row []int) []int {
	lead := FirstNonzero(row)
	if lead < 0 {
		return make([]int, len(row))
	}
	g := GCDRow(row) * mathx.Sign(row[lead])
	out := make([]int, len(row))
	for i, v := range row {
		out[i] = v / g
	}
	return out
}

// FirstNonzero returns the index of the first nonzero entry, or -1
func FirstNonzero(row []int) int {
	for i, v := range row {
		if v != 0 {
			return i
		}
	}
	return -1
}

// eliminate clears row[col] using pivotRow by cross multiplication:
// simplify(row*(p/g) - pivotRow*(q/g)) with p = pivotRow[col],
// q = row[col], g = gcd(p, q)
func eliminate(row, pivotRow []int, col int) ([]int, error) {
	q := row[col]
	if q == 0 {
		return row, nil
	}
	p := pivotRow[col]
	g := mathx.GCD(p, q)
	a, err := MultiplyRow(row, p/g)
	if err != nil {
		return nil, err
	}
	b, err := MultiplyRow(pivotRow, -q/g)
	if err != nil {
		return nil, err
	}
	sum, err := AddRows(a, b)
	if err != nil {
		return nil, err
	}
	return SimplifyRow(sum), nil
}
