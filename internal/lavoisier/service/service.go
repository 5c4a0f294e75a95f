// ============================================================================
// Lavoisier - Chemical Equation Balancer
// ============================================================================
//
// Package:     service
// Description: Balancing service shared by CLI, TUI, gRPC and HTTP frontends
// Author:      Mike Stoffels
// Created:     2025-12-10
// License:     MIT
// ============================================================================

package service

import (
	"context"
	"strings"
	"time"

	mdwerror "github.com/msto63/lavoisier/foundation/core/error"
	mdwlog "github.com/msto63/lavoisier/foundation/core/log"
	"github.com/msto63/lavoisier/internal/lavoisier/catalog"
	"github.com/msto63/lavoisier/internal/lavoisier/chem"
	"github.com/msto63/lavoisier/internal/lavoisier/parser"
	"github.com/msto63/lavoisier/internal/lavoisier/solver"
	"github.com/msto63/lavoisier/internal/lavoisier/store"
	"github.com/msto63/lavoisier/pkg/core/cache"
	"github.com/msto63/lavoisier/pkg/core/logging"
)

// Config holds service configuration. Nil Cache or History disables them.
type Config struct {
	Logger         *logging.Logger
	MaxInputLength int
	Format         chem.FormatOptions
	SkipVerify     bool
	Cache          *cache.ResultCache
	History        store.HistoryStore
	Catalog        *catalog.Catalog
}

// Service is the Lavoisier balancing service
type Service struct {
	logger  *logging.Logger
	parser  *parser.Parser
	solver  *solver.Solver
	format  chem.FormatOptions
	verify  bool
	cache   *cache.ResultCache
	history store.HistoryStore
	catalog *catalog.Catalog
}

// BalanceRequest is one balancing call
type BalanceRequest struct {
	Equation  string
	Source    string // cli, repl, tui, grpc, http, ws
	RequestID string
}

// BalanceResult is a successful balancing
type BalanceResult struct {
	Equation     string        `json:"equation" yaml:"equation"`
	Balanced     string        `json:"balanced" yaml:"balanced"`
	Coefficients []int         `json:"coefficients" yaml:"coefficients"`
	Elements     []string      `json:"elements" yaml:"elements"`
	Terms        []Term        `json:"terms" yaml:"terms"`
	Warnings     []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Cached       bool          `json:"cached" yaml:"cached"`
	HistoryID    string        `json:"history_id,omitempty" yaml:"history_id,omitempty"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
}

// Term is one term of a balanced equation
type Term struct {
	Formula     string         `json:"formula" yaml:"formula"`
	Side        string         `json:"side" yaml:"side"` // reactant or product
	Coefficient int            `json:"coefficient" yaml:"coefficient"`
	Atoms       map[string]int `json:"atoms" yaml:"atoms"`
}

// NewService creates a new Lavoisier service
func NewService(cfg Config) (*Service, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("lavoisier")
	}

	cat := cfg.Catalog
	if cat == nil {
		var err error
		cat, err = catalog.Default()
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to load example catalog").
				WithCode(mdwerror.CodeServiceInitialization).
				WithOperation("service.NewService")
		}
	}

	return &Service{
		logger: logger,
		parser: parser.New(parser.Options{
			Logger:         logger.Foundation(),
			MaxInputLength: cfg.MaxInputLength,
		}),
		solver:  solver.New(solver.Options{Logger: logger.Foundation()}),
		format:  cfg.Format,
		verify:  !cfg.SkipVerify,
		cache:   cfg.Cache,
		history: cfg.History,
		catalog: cat,
	}, nil
}

// Balance parses and balances one equation. Every attempt is recorded in
// the history when one is configured.
func (s *Service) Balance(ctx context.Context, req BalanceRequest) (*BalanceResult, error) {
	start := time.Now()
	input := strings.TrimSpace(req.Equation)
	logger := s.logger
	if req.RequestID != "" {
		logger = logger.WithRequestID(req.RequestID)
	}

	result, err := s.balance(ctx, input)
	if err != nil {
		err = classify(err, "service.Balance")
	}
	duration := time.Since(start)

	historyID := s.record(ctx, req, input, result, err, duration)

	if err != nil {
		logger.Foundation().LogError(err)
		return nil, err
	}

	result.Duration = duration
	result.HistoryID = historyID
	logger.Info("Equation balanced",
		"equation", result.Equation,
		"balanced", result.Balanced,
		"cached", result.Cached,
		"duration_ms", duration.Milliseconds(),
	)
	return result, nil
}

func (s *Service) balance(ctx context.Context, input string) (*BalanceResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input == "" {
		return nil, errEmptyInput
	}

	if s.cache != nil {
		if hit, ok := s.cache.Get(input); ok {
			return s.fromCache(input, hit)
		}
	}

	eq, err := s.parser.Parse(input)
	if err != nil {
		return nil, err
	}
	res, err := s.solver.Solve(eq)
	if err != nil {
		return nil, err
	}
	if s.verify {
		if err := solver.Verify(eq, res.Coefficients); err != nil {
			return nil, err
		}
	}

	result, err := s.buildResult(eq, res.Coefficients, res.Elements)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(input, &cache.Balanced{
			Equation:     result.Equation,
			Balanced:     result.Balanced,
			Coefficients: result.Coefficients,
			Elements:     result.Elements,
		})
	}
	return result, nil
}

// fromCache rebuilds the per-term view from a cached result. Parsing is
// deterministic, so the cached coefficients line up with the terms.
func (s *Service) fromCache(input string, hit *cache.Balanced) (*BalanceResult, error) {
	eq, err := s.parser.Parse(input)
	if err != nil {
		return nil, err
	}
	result, err := s.buildResult(eq, hit.Coefficients, hit.Elements)
	if err != nil {
		return nil, err
	}
	result.Cached = true
	return result, nil
}

func (s *Service) buildResult(eq *chem.Equation, coefs []int, elements []string) (*BalanceResult, error) {
	balanced, err := chem.FormatBalanced(eq, coefs, s.format)
	if err != nil {
		return nil, err
	}

	result := &BalanceResult{
		Equation:     eq.Format(chem.FormatOptions{Arrow: s.format.Arrow}),
		Balanced:     balanced,
		Coefficients: append([]int(nil), coefs...),
		Elements:     append([]string(nil), elements...),
		Warnings:     warnings(eq, coefs),
	}

	numLeft := len(eq.Left())
	for i, t := range eq.Terms() {
		side := "reactant"
		if i >= numLeft {
			side = "product"
		}
		result.Terms = append(result.Terms, Term{
			Formula:     t.String(),
			Side:        side,
			Coefficient: coefs[i],
			Atoms:       t.Composition(),
		})
	}
	return result, nil
}

// warnings flags coefficients that are not positive. Such results balance
// the atoms but do not describe a forward reaction.
func warnings(eq *chem.Equation, coefs []int) []string {
	var out []string
	for i, t := range eq.Terms() {
		switch {
		case coefs[i] == 0:
			out = append(out, "coefficient of "+t.String()+" is 0; the term takes no part in the reaction")
		case coefs[i] < 0:
			out = append(out, "coefficient of "+t.String()+" is negative; it belongs on the other side")
		}
	}
	return out
}

func (s *Service) record(ctx context.Context, req BalanceRequest, input string, result *BalanceResult, err error, duration time.Duration) string {
	if s.history == nil || input == "" {
		return ""
	}

	rec := &store.Record{
		Equation:  input,
		Source:    req.Source,
		RequestID: req.RequestID,
		Duration:  duration,
	}
	if err != nil {
		rec.Status = store.StatusFailed
		rec.ErrorCode = mdwerror.GetCode(err).String()
		rec.ErrorMessage = err.Error()
	} else {
		rec.Status = store.StatusBalanced
		rec.Balanced = result.Balanced
		rec.Coefficients = result.Coefficients
	}

	// The caller's context may already be done; history is written anyway.
	if werr := s.history.Record(context.WithoutCancel(ctx), rec); werr != nil {
		s.logger.Warn("Failed to record history", "error", werr, "equation", input)
		return ""
	}
	return rec.ID
}

// Close releases the cache and the history store
func (s *Service) Close() error {
	if s.cache != nil {
		s.cache.Close()
	}
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}

// SelfTest balances a fixed equation, used by health checks
func (s *Service) SelfTest(ctx context.Context) error {
	eq, err := s.parser.Parse("H2 + O2 -> H2O")
	if err != nil {
		return err
	}
	coefs, err := solver.Balance(eq)
	if err != nil {
		return err
	}
	return solver.Verify(eq, coefs)
}

// Ping checks the history store, if any
func (s *Service) Ping(ctx context.Context) error {
	if s.history == nil {
		return nil
	}
	return s.history.Ping(ctx)
}

// HistoryEnabled reports whether attempts are recorded
func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}

// CacheStats returns result cache counters, zero without a cache
func (s *Service) CacheStats() (size int, hits, misses int64) {
	if s.cache == nil {
		return 0, 0, 0
	}
	hits, misses, _ = s.cache.Stats()
	return s.cache.Size(), hits, misses
}

func logFields(eq *chem.Equation) mdwlog.Fields {
	return mdwlog.Fields{"equation": eq.String(), "terms": eq.NumTerms()}
}
