// Package error provides the structured error type used across Lavoisier.
//
// Errors carry a Code that classifies the failure (for example CodeSyntax for
// a malformed equation or CodeAllZero when only the trivial solution exists),
// a Severity derived from the code, the failing operation and arbitrary
// details such as the byte offset of a syntax error:
//
//	err := mdwerror.Wrap(cause, "balance failed").
//		WithCode(mdwerror.CodeSyntax).
//		WithOperation("service.Balance").
//		WithDetail("position", 4)
//
// Wrapped errors keep the cause chain, so errors.Is and errors.As see through
// them.
package error
