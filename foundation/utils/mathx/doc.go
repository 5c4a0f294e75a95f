// Package mathx provides exact integer helpers shared by the matrix and
// solver packages. All functions work on int and never allocate.
package mathx
