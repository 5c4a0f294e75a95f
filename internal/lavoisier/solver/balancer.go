package solver

import (
	mdwlog "github.com/msto63/lavoisier/foundation/core/log"
	"github.com/msto63/lavoisier/internal/lavoisier/chem"
	"github.com/msto63/lavoisier/internal/lavoisier/matrix"
)

// Options configures a Solver
type Options struct {
	Logger *mdwlog.Logger
}

// Solver runs Balance with debug logging of the intermediate matrices
type Solver struct {
	logger *mdwlog.Logger
}

// Result is a successful balancing
type Result struct {
	Coefficients []int          // One per term, reactants first
	Elements     []string       // Row order of the system
	Reduced      *matrix.Matrix // System after the final elimination
}

// New creates a solver
func New(opts Options) *Solver {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	return &Solver{logger: opts.Logger.WithField("component", "solver")}
}

// Solve balances eq and returns the coefficients with the reduced system
func (s *Solver) Solve(eq *chem.Equation) (*Result, error) {
	m, elements, err := BuildMatrix(eq)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Balancing system built", mdwlog.Fields{
		"equation": eq.String(),
		"elements": elements,
		"matrix":   m.String(),
	})

	if err := Solve(m); err != nil {
		s.logger.Debug("Balancing failed", mdwlog.Fields{
			"equation": eq.String(),
			"matrix":   m.String(),
			"error":    err.Error(),
		})
		return nil, err
	}

	coefs, err := ExtractCoefficients(m)
	if err != nil {
		s.logger.Debug("Coefficient extraction failed", mdwlog.Fields{
			"equation": eq.String(),
			"matrix":   m.String(),
			"error":    err.Error(),
		})
		return nil, err
	}

	s.logger.Debug("Equation balanced", mdwlog.Fields{
		"equation":     eq.String(),
		"matrix":       m.String(),
		"coefficients": coefs,
	})
	return &Result{Coefficients: coefs, Elements: elements, Reduced: m}, nil
}

// Balance returns one coefficient per term of eq, reactants first
func (s *Solver) Balance(eq *chem.Equation) ([]int, error) {
	res, err := s.Solve(eq)
	if err != nil {
		return nil, err
	}
	return res.Coefficients, nil
}
