package solver

import (
	"errors"
	"fmt"

	"github.com/msto63/lavoisier/internal/lavoisier/chem"
	"github.com/msto63/lavoisier/internal/lavoisier/matrix"
)

// Kind classifies a balancing failure
type Kind int

const (
	// KindAllZero means the equation admits only the all-zero solution
	KindAllZero Kind = iota + 1
	// KindMultipleSolutions means the solution is ambiguous
	KindMultipleSolutions
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindAllZero:
		return "ALL_ZERO"
	case KindMultipleSolutions:
		return "MULTIPLE_SOLUTIONS"
	default:
		return "UNKNOWN"
	}
}

var (
	// ErrAllZero matches every SolveError of kind KindAllZero
	ErrAllZero = errors.New("all-zero solution")
	// ErrMultipleSolutions matches every SolveError of kind KindMultipleSolutions
	ErrMultipleSolutions = errors.New("multiple independent solutions")
	// ErrUnbalanced is returned by Verify when atom totals differ
	ErrUnbalanced = errors.New("coefficients do not balance the equation")
	// ErrOverflow is returned when an intermediate value does not fit in
	// an int
	ErrOverflow = errors.New("integer overflow while balancing")
)

// asOverflow wraps chem and matrix overflow errors so they also match
// ErrOverflow. Other errors are returned unchanged.
func asOverflow(err error) error {
	if errors.Is(err, chem.ErrOverflow) || errors.Is(err, matrix.ErrOverflow) {
		return fmt.Errorf("%w: %w", ErrOverflow, err)
	}
	return err
}

// SolveError reports why an equation could not be balanced
type SolveError struct {
	Kind   Kind
	Detail string
}

func (e *SolveError) Error() string {
	msg := e.sentinel().Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns ErrAllZero or ErrMultipleSolutions
func (e *SolveError) Unwrap() error {
	return e.sentinel()
}

func (e *SolveError) sentinel() error {
	if e.Kind == KindMultipleSolutions {
		return ErrMultipleSolutions
	}
	return ErrAllZero
}

func allZero(format string, args ...interface{}) *SolveError {
	return &SolveError{Kind: KindAllZero, Detail: fmt.Sprintf(format, args...)}
}

func multipleSolutions(format string, args ...interface{}) *SolveError {
	return &SolveError{Kind: KindMultipleSolutions, Detail: fmt.Sprintf(format, args...)}
}
