package service

import (
	"context"
	"strconv"
	"strings"

	mdwerror "github.com/msto63/lavoisier/foundation/core/error"
	"github.com/msto63/lavoisier/internal/lavoisier/catalog"
	"github.com/msto63/lavoisier/internal/lavoisier/chem"
	"github.com/msto63/lavoisier/internal/lavoisier/parser"
	"github.com/msto63/lavoisier/internal/lavoisier/store"
)

// ParseResult describes a parsed equation without balancing it
type ParseResult struct {
	Equation  string   `json:"equation" yaml:"equation"`
	Reactants []Term   `json:"reactants" yaml:"reactants"`
	Products  []Term   `json:"products" yaml:"products"`
	Elements  []string `json:"elements" yaml:"elements"`
	Tree      string   `json:"tree" yaml:"tree"`
}

// Parse parses input and reports its structure
func (s *Service) Parse(ctx context.Context, input string) (*ParseResult, error) {
	input = strings.TrimSpace(input)
	if err := ctx.Err(); err != nil {
		return nil, classify(err, "service.Parse")
	}
	if input == "" {
		return nil, classify(errEmptyInput, "service.Parse")
	}

	eq, err := s.parser.Parse(input)
	if err != nil {
		return nil, classify(err, "service.Parse")
	}
	s.logger.Foundation().Debug("Equation parsed", logFields(eq))

	result := &ParseResult{
		Equation: eq.Format(chem.FormatOptions{Arrow: s.format.Arrow}),
		Elements: chem.Elements(eq),
		Tree:     Tree(eq),
	}
	for _, t := range eq.Left() {
		result.Reactants = append(result.Reactants, Term{Formula: t.String(), Side: "reactant", Atoms: t.Composition()})
	}
	for _, t := range eq.Right() {
		result.Products = append(result.Products, Term{Formula: t.String(), Side: "product", Atoms: t.Composition()})
	}
	return result, nil
}

// Tokenize returns the token stream of input. On a lexing error the tokens
// read so far are returned with the error.
func (s *Service) Tokenize(ctx context.Context, input string) ([]parser.Token, error) {
	input = strings.TrimSpace(input)
	if err := ctx.Err(); err != nil {
		return nil, classify(err, "service.Tokenize")
	}
	if input == "" {
		return nil, classify(errEmptyInput, "service.Tokenize")
	}

	tokens, err := parser.Tokenize(input)
	if err != nil {
		return tokens, classify(err, "service.Tokenize")
	}
	return tokens, nil
}

// Examples returns the sample equations
func (s *Service) Examples() []catalog.Example {
	return append([]catalog.Example(nil), s.catalog.Examples...)
}

// Example returns one sample equation by name
func (s *Service) Example(name string) (catalog.Example, error) {
	ex, ok := s.catalog.Lookup(name)
	if !ok {
		return catalog.Example{}, mdwerror.Newf("unknown example %q", name).
			WithCode(mdwerror.CodeNotFound).
			WithOperation("service.Example")
	}
	return ex, nil
}

// History lists recorded attempts, newest first
func (s *Service) History(ctx context.Context, filter store.Filter) ([]*store.Record, error) {
	if s.history == nil {
		return nil, errHistoryDisabled()
	}
	records, err := s.history.List(ctx, filter)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to list history").
			WithCode(mdwerror.CodeStorage).
			WithOperation("service.History")
	}
	return records, nil
}

// HistoryRecord returns one recorded attempt
func (s *Service) HistoryRecord(ctx context.Context, id string) (*store.Record, error) {
	if s.history == nil {
		return nil, errHistoryDisabled()
	}
	rec, err := s.history.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "service.HistoryRecord")
	}
	return rec, nil
}

// HistoryStats summarizes recorded attempts
func (s *Service) HistoryStats(ctx context.Context) (*store.Stats, error) {
	if s.history == nil {
		return nil, errHistoryDisabled()
	}
	stats, err := s.history.Stats(ctx)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to read history stats").
			WithCode(mdwerror.CodeStorage).
			WithOperation("service.HistoryStats")
	}
	return stats, nil
}

func errHistoryDisabled() error {
	return mdwerror.New("history is disabled").
		WithCode(mdwerror.CodeServiceUnavailable).
		WithOperation("service.History")
}

// Tree renders the item structure of eq, one node per line
func Tree(eq *chem.Equation) string {
	var sb strings.Builder
	sides := []struct {
		name  string
		terms []*chem.Term
	}{{"reactants", eq.Left()}, {"products", eq.Right()}}

	for _, side := range sides {
		sb.WriteString(side.name)
		sb.WriteByte('\n')
		for _, t := range side.terms {
			sb.WriteString("  term ")
			sb.WriteString(t.String())
			sb.WriteByte('\n')
			tp := &treePrinter{sb: &sb, depth: 2}
			for _, it := range t.Items() {
				it.Accept(tp)
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

type treePrinter struct {
	sb    *strings.Builder
	depth int
}

func (p *treePrinter) VisitComponent(c *chem.Component) {
	p.line("element " + c.Symbol() + count(c.Count()))
}

func (p *treePrinter) VisitGroup(g *chem.Group) {
	p.line("group " + g.Bracket().Open() + g.Bracket().Close() + count(g.Count()))
	p.depth++
	for _, it := range g.Items() {
		it.Accept(p)
	}
	p.depth--
}

func (p *treePrinter) line(s string) {
	p.sb.WriteString(strings.Repeat("  ", p.depth))
	p.sb.WriteString(s)
	p.sb.WriteByte('\n')
}

func count(n int) string {
	if n == 1 {
		return ""
	}
	return " x" + strconv.Itoa(n)
}
