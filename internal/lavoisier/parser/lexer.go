// File: lexer.go
// Title: Equation Lexical Analyzer (Tokenizer)
// Description: Converts equation text into a stream of tokens. The set of
//              legal tokens at each point is taken from the transition
//              table; the lexer only knows how to read each kind of token.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-12-08
//
// Change History:
// - 2025-01-25 v0.1.0: Initial lexer implementation
// - 2025-12-08 v0.2.0: Table-driven states for equation syntax

package parser

import (
	"errors"
	"strconv"
	"unicode"
	"unicode/utf8"
)

const arrowRune = '→'

// Lexer performs lexical analysis of equation input
type Lexer struct {
	input  string // Input string
	pos    int    // Byte offset of the next unread rune
	line   int    // Line of the next unread rune (1-based)
	column int    // Column of the next unread rune (1-based)
	state  State  // Current grammar state
	done   bool   // EOF token emitted
	err    error  // Sticky scan failure
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		line:   1,
		column: 1,
		state:  StateTermStart,
	}
}

// State returns the current grammar state
func (l *Lexer) State() State {
	return l.state
}

// NextToken returns the next token. After the EOF token every call returns
// EOF again; after a failure every call returns the same error.
func (l *Lexer) NextToken() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}

	tok := Token{Position: l.pos, Line: l.line, Column: l.column, State: l.state}
	if l.done {
		tok.Type = TokenEOF
		return tok, nil
	}

	r, class := l.peek()
	action, ok := Transition(l.state, class)
	if !ok {
		if class == ClassEnd {
			return Token{}, l.fail(ErrUnexpectedEnd, 0)
		}
		return Token{}, l.fail(ErrUnexpectedChar, r)
	}
	tok.Type = action.Token

	switch action.Token {
	case TokenEOF:
		l.done = true
	case TokenSymbol:
		l.advance()
		for l.pos < len(l.input) && isLower(l.input[l.pos]) {
			l.advance()
		}
	case TokenCount:
		if err := l.readCount(tok); err != nil {
			return Token{}, err
		}
	case TokenSpace:
		for {
			if _, class := l.peek(); class != ClassSpace {
				break
			}
			l.advance()
		}
	case TokenArrow:
		if err := l.readArrow(); err != nil {
			return Token{}, err
		}
	default:
		l.advance()
	}

	tok.Value = l.input[tok.Position:l.pos]
	l.state = action.Next
	return tok, nil
}

// Tokenize returns all tokens of input up to and including EOF. On failure
// the tokens scanned so far are returned with the error.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// readCount reads a decimal count of at least 2 without leading zeros
func (l *Lexer) readCount(tok Token) error {
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.advance()
	}
	tok.Type = TokenCount
	tok.Value = l.input[tok.Position:l.pos]

	n, err := strconv.Atoi(tok.Value)
	if err != nil || n < 2 || tok.Value[0] == '0' {
		reason := ErrInvalidCount
		if errors.Is(err, strconv.ErrRange) && tok.Value[0] != '0' {
			reason = ErrCountTooLarge
		}
		l.err = &SyntaxError{
			Reason:   reason,
			Token:    tok,
			Position: tok.Position,
			Line:     tok.Line,
			Column:   tok.Column,
			State:    tok.State,
		}
		return l.err
	}
	return nil
}

// readArrow reads "→", "-+>" or "=+>?"
func (l *Lexer) readArrow() error {
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	switch r {
	case arrowRune:
		l.advance()
		return nil
	case '-':
		for l.pos < len(l.input) && l.input[l.pos] == '-' {
			l.advance()
		}
		r, class := l.peek()
		switch {
		case r == '>':
			l.advance()
			return nil
		case class == ClassEnd:
			return l.fail(ErrUnexpectedEnd, 0)
		default:
			return l.fail(ErrUnexpectedChar, r)
		}
	default:
		for l.pos < len(l.input) && l.input[l.pos] == '=' {
			l.advance()
		}
		if l.pos < len(l.input) && l.input[l.pos] == '>' {
			l.advance()
		}
		return nil
	}
}

// peek classifies the next rune without consuming it
func (l *Lexer) peek() (rune, InputClass) {
	if l.pos >= len(l.input) {
		return 0, ClassEnd
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r, classify(r)
}

// advance consumes one rune and updates line and column tracking
func (l *Lexer) advance() {
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// fail records a scan failure at the current position
func (l *Lexer) fail(reason error, r rune) error {
	l.err = &SyntaxError{
		Reason:   reason,
		Char:     r,
		Position: l.pos,
		Line:     l.line,
		Column:   l.column,
		State:    l.state,
	}
	return l.err
}

// classify maps a rune to its input class
func classify(r rune) InputClass {
	switch {
	case r >= 'A' && r <= 'Z':
		return ClassUpper
	case r >= '0' && r <= '9':
		return ClassDigit
	case r == '(' || r == '[':
		return ClassGroupStart
	case r == ')' || r == ']':
		return ClassGroupEnd
	case r == '+':
		return ClassPlus
	case r == '-' || r == '=' || r == arrowRune:
		return ClassArrow
	case unicode.IsSpace(r):
		return ClassSpace
	default:
		return ClassOther
	}
}

func isLower(ch byte) bool {
	return 'a' <= ch && ch <= 'z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
