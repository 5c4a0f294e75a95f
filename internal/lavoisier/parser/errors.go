package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Reasons carried by SyntaxError
var (
	ErrUnexpectedChar = errors.New("unexpected character")
	ErrUnexpectedEnd  = errors.New("unexpected end of input")
	ErrInvalidCount   = errors.New("count must be an integer of at least 2 without leading zeros")
	ErrDanglingCount  = errors.New("count has nothing to apply to")
	ErrUnmatchedClose = errors.New("unmatched group end")
	ErrUnclosedGroup  = errors.New("group is not closed")
	ErrSecondArrow    = errors.New("equation has more than one arrow")
	ErrInputTooLong   = errors.New("input exceeds maximum length")
	ErrCountTooLarge  = errors.New("atom count is too large")
)

// SyntaxError represents a lexing or parsing error with position information
type SyntaxError struct {
	Reason   error // One of the Err* values above
	Token    Token // Offending token, zero for lexer errors
	Char     rune  // Offending rune for lexer errors, 0 at end of input
	Position int   // Byte position in input
	Line     int   // Line number (1-based)
	Column   int   // Column number in runes (1-based)
	State    State // Lexer state active when the error occurred
}

func (e *SyntaxError) Error() string {
	var near string
	switch {
	case e.Char != 0:
		near = fmt.Sprintf(" (near %q)", e.Char)
	case e.Token.Value != "":
		near = fmt.Sprintf(" (near %q)", e.Token.Value)
	}
	msg := fmt.Sprintf("syntax error at line %d, column %d: %s%s", e.Line, e.Column, e.Reason, near)
	if e.State != 0 && (errors.Is(e.Reason, ErrUnexpectedChar) || errors.Is(e.Reason, ErrUnexpectedEnd)) {
		msg += fmt.Sprintf("; expected %s", describeExpected(e.State))
	}
	return msg
}

// Unwrap returns the reason so errors.Is works with the Err* values
func (e *SyntaxError) Unwrap() error {
	return e.Reason
}

func describeExpected(state State) string {
	types := Expected(state)
	names := make([]string, 0, len(types))
	for _, t := range types {
		if t == TokenEOF {
			names = append(names, "end of input")
			continue
		}
		names = append(names, strings.ToLower(t.String()))
	}
	if len(names) == 0 {
		return "nothing"
	}
	return strings.Join(names, ", ")
}
