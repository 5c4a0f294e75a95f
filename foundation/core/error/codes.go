// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across Lavoisier so that parser,
//              solver, storage and transport failures can be classified and
//              mapped to API responses without string matching.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-12-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2025-12-14 v0.2.0: Balancing codes (syntax, all-zero, multiple solutions)

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Equation balancing
	CodeSyntax            Code = "SYNTAX"
	CodeAllZero           Code = "ALL_ZERO"
	CodeMultipleSolutions Code = "MULTIPLE_SOLUTIONS"
	CodeUnbalanced        Code = "UNBALANCED"

	// Storage
	CodeStorage Code = "STORAGE"

	// Service and configuration
	CodeServiceUnavailable    Code = "SERVICE_UNAVAILABLE"
	CodeServiceInitialization Code = "SERVICE_INITIALIZATION"
	CodeConfigError           Code = "CONFIG_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout,
		CodeSyntax, CodeAllZero, CodeMultipleSolutions, CodeUnbalanced,
		CodeStorage,
		CodeServiceUnavailable, CodeServiceInitialization, CodeConfigError:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeSyntax:
		return "syntax"
	case CodeAllZero, CodeMultipleSolutions, CodeUnbalanced:
		return "solver"
	case CodeStorage:
		return "storage"
	case CodeServiceUnavailable, CodeServiceInitialization:
		return "service"
	case CodeConfigError:
		return "configuration"
	default:
		return "generic"
	}
}

// IsUserError reports whether the code describes a problem with the
// submitted equation rather than with the system.
func (c Code) IsUserError() bool {
	switch c {
	case CodeInvalidInput, CodeSyntax, CodeAllZero, CodeMultipleSolutions:
		return true
	default:
		return false
	}
}
