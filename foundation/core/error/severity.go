// File: severity.go
// Title: Error Severity Levels
// Description: Severity levels used to pick the log level of an error and to
//              decide whether an error should be surfaced as a user mistake or
//              as a system fault.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-12-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2025-12-14 v0.2.0: Severity mapping for balancing codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow is a rejected user input
	SeverityLow Severity = iota

	// SeverityMedium is the default for unclassified errors
	SeverityMedium

	// SeverityHigh is a failing dependency (storage, transport)
	SeverityHigh

	// SeverityCritical means results can no longer be trusted
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeUnbalanced:
		return SeverityCritical
	case CodeStorage, CodeServiceUnavailable, CodeServiceInitialization, CodeConfigError, CodeInternal:
		return SeverityHigh
	case CodeInvalidInput, CodeSyntax, CodeAllZero, CodeMultipleSolutions, CodeNotFound:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
