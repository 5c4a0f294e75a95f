// File: table.go
// Title: Lexer Transition Table
// Description: Static grammar of the equation lexer. Each entry maps a lexer
//              state and the class of the next input rune to the token that
//              is scanned and the state that follows it.
// Author: msto63
// Version: v0.2.0
// Created: 2025-12-08
// Modified: 2025-12-08
//
// Change History:
// - 2025-12-08 v0.2.0: Initial transition table

package parser

// State is a lexer state
type State int

const (
	// StateTermStart expects the first symbol or group of a term
	StateTermStart State = iota + 1
	// StateAfterSymbol follows a symbol or a group end
	StateAfterSymbol
	// StateGroupOpen follows a group start; groups cannot be empty
	StateGroupOpen
	// StateAfterCount follows a count; a second count is illegal
	StateAfterCount
	// StateBeforeOperator follows white space after a term; only an
	// operator may come next
	StateBeforeOperator
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateTermStart:
		return "term-start"
	case StateAfterSymbol:
		return "after-symbol"
	case StateGroupOpen:
		return "group-open"
	case StateAfterCount:
		return "after-count"
	case StateBeforeOperator:
		return "before-operator"
	default:
		return "unknown"
	}
}

// InputClass classifies the rune at the current input position
type InputClass int

const (
	ClassUpper      InputClass = iota // A-Z
	ClassDigit                        // 0-9
	ClassGroupStart                   // ( [
	ClassGroupEnd                     // ) ]
	ClassSpace                        // unicode.IsSpace
	ClassPlus                         // +
	ClassArrow                        // - = →
	ClassEnd                          // end of input
	ClassOther                        // anything else
)

// String returns the class name
func (c InputClass) String() string {
	switch c {
	case ClassUpper:
		return "upper"
	case ClassDigit:
		return "digit"
	case ClassGroupStart:
		return "group-start"
	case ClassGroupEnd:
		return "group-end"
	case ClassSpace:
		return "space"
	case ClassPlus:
		return "plus"
	case ClassArrow:
		return "arrow"
	case ClassEnd:
		return "end"
	default:
		return "other"
	}
}

// Action is the outcome of a transition
type Action struct {
	Token TokenType
	Next  State
}

type transitionKey struct {
	state State
	class InputClass
}

// transitions is the complete grammar. A (state, class) pair that is
// missing is a syntax error.
var transitions = map[transitionKey]Action{
	{StateTermStart, ClassUpper}:      {TokenSymbol, StateAfterSymbol},
	{StateTermStart, ClassGroupStart}: {TokenGroupStart, StateGroupOpen},
	{StateTermStart, ClassSpace}:      {TokenSpace, StateTermStart},

	{StateAfterSymbol, ClassUpper}:      {TokenSymbol, StateAfterSymbol},
	{StateAfterSymbol, ClassGroupStart}: {TokenGroupStart, StateGroupOpen},
	{StateAfterSymbol, ClassGroupEnd}:   {TokenGroupEnd, StateAfterSymbol},
	{StateAfterSymbol, ClassDigit}:      {TokenCount, StateAfterCount},
	{StateAfterSymbol, ClassSpace}:      {TokenSpace, StateBeforeOperator},
	{StateAfterSymbol, ClassPlus}:       {TokenConjunction, StateTermStart},
	{StateAfterSymbol, ClassArrow}:      {TokenArrow, StateTermStart},
	{StateAfterSymbol, ClassEnd}:        {TokenEOF, StateAfterSymbol},

	{StateGroupOpen, ClassUpper}:      {TokenSymbol, StateAfterSymbol},
	{StateGroupOpen, ClassGroupStart}: {TokenGroupStart, StateGroupOpen},

	{StateAfterCount, ClassUpper}:      {TokenSymbol, StateAfterSymbol},
	{StateAfterCount, ClassGroupStart}: {TokenGroupStart, StateGroupOpen},
	{StateAfterCount, ClassGroupEnd}:   {TokenGroupEnd, StateAfterSymbol},
	{StateAfterCount, ClassSpace}:      {TokenSpace, StateBeforeOperator},
	{StateAfterCount, ClassPlus}:       {TokenConjunction, StateTermStart},
	{StateAfterCount, ClassArrow}:      {TokenArrow, StateTermStart},
	{StateAfterCount, ClassEnd}:        {TokenEOF, StateAfterCount},

	{StateBeforeOperator, ClassSpace}: {TokenSpace, StateBeforeOperator},
	{StateBeforeOperator, ClassPlus}:  {TokenConjunction, StateTermStart},
	{StateBeforeOperator, ClassArrow}: {TokenArrow, StateTermStart},
}

// Transition looks up the grammar table
func Transition(state State, class InputClass) (Action, bool) {
	a, ok := transitions[transitionKey{state, class}]
	return a, ok
}

// Expected lists the token types legal in state, in table order
func Expected(state State) []TokenType {
	var out []TokenType
	for class := ClassUpper; class <= ClassOther; class++ {
		if a, ok := Transition(state, class); ok {
			out = append(out, a.Token)
		}
	}
	return out
}
