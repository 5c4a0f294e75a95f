// Package matrix implements a dense integer matrix with fraction-free
// Gauss-Jordan elimination.
//
// Elimination never divides except by exact row GCDs, so every cell stays
// an integer. The reduced form has zeros above and below every pivot, but
// pivots are not scaled to 1; each row is instead kept in its simplest form
// (entries coprime, first nonzero entry positive).
package matrix
