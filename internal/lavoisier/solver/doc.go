// Package solver balances chemical equations.
//
// Each distinct element becomes one row of a homogeneous linear system and
// each term one column (reactants positive, products negated). The system
// is reduced with matrix.GaussJordanEliminate, one free unknown is pinned
// to 1 through an extra row, and the reduced system is read back as the
// smallest integer coefficient vector.
//
// Balancing fails with a *SolveError of kind KindAllZero when only the
// trivial solution exists and KindMultipleSolutions when the solution is
// not unique up to scaling.
package solver
