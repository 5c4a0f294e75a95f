// File: token.go
// Title: Equation Tokens
// Description: Token types and the Token value produced by the lexer.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-12-08
//
// Change History:
// - 2025-01-25 v0.1.0: Initial token definitions
// - 2025-12-08 v0.2.0: Equation token set

package parser

import "fmt"

// TokenType represents the type of a lexical token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota

	TokenSymbol      // H, Na, Mg
	TokenCount       // 2, 12
	TokenGroupStart  // ( [
	TokenGroupEnd    // ) ]
	TokenSpace       // one or more white-space runes
	TokenConjunction // +
	TokenArrow       // -> --> = => →
)

// String returns a string representation of the token type
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "EOF"
	case TokenSymbol:
		return "SYMBOL"
	case TokenCount:
		return "COUNT"
	case TokenGroupStart:
		return "GROUP_START"
	case TokenGroupEnd:
		return "GROUP_END"
	case TokenSpace:
		return "SPACE"
	case TokenConjunction:
		return "CONJUNCTION"
	case TokenArrow:
		return "ARROW"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token with position information
type Token struct {
	Type     TokenType // Token type
	Value    string    // Token text
	Position int       // Byte position in input
	Line     int       // Line number (1-based)
	Column   int       // Column number in runes (1-based)
	State    State     // Lexer state the token was scanned in
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Value)
}
