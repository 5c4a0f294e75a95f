// File: parser.go
// Title: Equation Parser
// Description: Builds a chem.Equation from the lexer's token stream using a
//              stack of open terms and groups. All failures abort the parse;
//              no partial equation is returned.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-12-08
//
// Change History:
// - 2025-01-25 v0.1.0: Initial parser implementation
// - 2025-12-08 v0.2.0: Stack builder for equations

package parser

import (
	"strconv"

	mdwlog "github.com/msto63/lavoisier/foundation/core/log"
	"github.com/msto63/lavoisier/internal/lavoisier/chem"
)

// DefaultMaxInputLength is used when Options.MaxInputLength is 0
const DefaultMaxInputLength = 4096

// Parser turns equation text into a chem.Equation. A Parser holds no
// per-parse state and may be shared between goroutines.
type Parser struct {
	logger  *mdwlog.Logger
	options Options
}

// Options configures parser behavior
type Options struct {
	Logger         *mdwlog.Logger
	MaxInputLength int
}

// New creates a parser with the given options
func New(opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.MaxInputLength == 0 {
		opts.MaxInputLength = DefaultMaxInputLength
	}

	return &Parser{
		logger:  opts.Logger.WithField("component", "parser"),
		options: opts,
	}
}

// Parse parses input with default options
func Parse(input string) (*chem.Equation, error) {
	return New(Options{}).Parse(input)
}

// Parse parses one equation
func (p *Parser) Parse(input string) (*chem.Equation, error) {
	if p.options.MaxInputLength > 0 && len(input) > p.options.MaxInputLength {
		return nil, &SyntaxError{
			Reason:   ErrInputTooLong,
			Position: p.options.MaxInputLength,
			Line:     1,
			Column:   1,
		}
	}

	p.logger.Debug("Starting equation parsing", mdwlog.Fields{
		"input":  input,
		"length": len(input),
	})

	b := newBuilder()
	lexer := NewLexer(input)
	for {
		tok, err := lexer.NextToken()
		if err == nil {
			err = b.consume(tok)
		}
		if err != nil {
			p.logger.Debug("Equation parsing failed", mdwlog.Fields{
				"input": input,
				"error": err.Error(),
			})
			return nil, err
		}
		if tok.Type == TokenEOF {
			break
		}
	}

	p.logger.Debug("Equation parsing completed", mdwlog.Fields{
		"equation": b.eq.String(),
		"terms":    b.eq.NumTerms(),
		"nodes":    b.arena.Issued(),
	})
	return b.eq, nil
}

// frame is an open term or group on the builder stack
type frame struct {
	id      chem.ID
	group   bool
	bracket chem.Bracket
	items   []chem.Item
	start   Token
}

// builder holds the state of one parse
type builder struct {
	arena     *chem.Arena
	eq        *chem.Equation
	stack     []*frame
	rightSide bool
}

func newBuilder() *builder {
	arena := chem.NewArena()
	return &builder{
		arena: arena,
		eq:    chem.NewEquation(arena.Next()),
	}
}

func (b *builder) consume(tok Token) error {
	switch tok.Type {
	case TokenSymbol:
		top := b.topOrPushTerm(tok)
		top.items = append(top.items, chem.NewComponent(b.arena.Next(), tok.Value))

	case TokenCount:
		top := b.top()
		if top == nil || len(top.items) == 0 {
			return tokenError(ErrDanglingCount, tok)
		}
		n, err := strconv.Atoi(tok.Value)
		if err != nil {
			return tokenError(ErrInvalidCount, tok)
		}
		if err := top.items[len(top.items)-1].SetCount(n); err != nil {
			return tokenError(ErrInvalidCount, tok)
		}

	case TokenGroupStart:
		b.stack = append(b.stack, &frame{
			id:      b.arena.Next(),
			group:   true,
			bracket: bracketOf(tok.Value),
			start:   tok,
		})

	case TokenGroupEnd:
		top := b.pop()
		if top == nil || !top.group || top.bracket != bracketOf(tok.Value) {
			return tokenError(ErrUnmatchedClose, tok)
		}
		group := chem.NewGroup(top.id, top.bracket, top.items)
		// a term opened by a group starts at its opening bracket
		parent := b.topOrPushTerm(top.start)
		parent.items = append(parent.items, group)

	case TokenSpace, TokenConjunction:
		return b.finishTerm(tok)

	case TokenArrow:
		if b.rightSide {
			return tokenError(ErrSecondArrow, tok)
		}
		if err := b.finishTerm(tok); err != nil {
			return err
		}
		b.rightSide = true

	case TokenEOF:
		if err := b.finishTerm(tok); err != nil {
			return err
		}
		if b.eq.NumTerms() == 0 {
			return tokenError(ErrUnexpectedEnd, tok)
		}
	}
	return nil
}

// finishTerm closes the term on top of the stack and appends it to the
// current side. An empty stack is not an error. A term whose atom totals
// do not fit in an int is rejected.
func (b *builder) finishTerm(tok Token) error {
	top := b.pop()
	if top == nil {
		return nil
	}
	if top.group {
		return tokenError(ErrUnclosedGroup, top.start)
	}

	term := chem.NewTerm(top.id, top.items)
	if _, err := term.CheckedComposition(); err != nil {
		return tokenError(ErrCountTooLarge, top.start)
	}
	if b.rightSide {
		b.eq.AppendRight(term)
	} else {
		b.eq.AppendLeft(term)
	}
	return nil
}

func (b *builder) top() *frame {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

// topOrPushTerm returns the innermost open frame, opening a term if there
// is none
func (b *builder) topOrPushTerm(tok Token) *frame {
	if top := b.top(); top != nil {
		return top
	}
	f := &frame{id: b.arena.Next(), start: tok}
	b.stack = append(b.stack, f)
	return f
}

func (b *builder) pop() *frame {
	top := b.top()
	if top != nil {
		b.stack = b.stack[:len(b.stack)-1]
	}
	return top
}

func bracketOf(delim string) chem.Bracket {
	if delim == "[" || delim == "]" {
		return chem.BracketSquare
	}
	return chem.BracketRound
}

func tokenError(reason error, tok Token) *SyntaxError {
	return &SyntaxError{
		Reason:   reason,
		Token:    tok,
		Position: tok.Position,
		Line:     tok.Line,
		Column:   tok.Column,
		State:    tok.State,
	}
}
