package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		state State
		class InputClass
		want  Action
		ok    bool
	}{
		{StateTermStart, ClassUpper, Action{TokenSymbol, StateAfterSymbol}, true},
		{StateTermStart, ClassSpace, Action{TokenSpace, StateTermStart}, true},
		{StateTermStart, ClassDigit, Action{}, false},
		{StateTermStart, ClassEnd, Action{}, false},
		{StateAfterSymbol, ClassDigit, Action{TokenCount, StateAfterCount}, true},
		{StateAfterSymbol, ClassSpace, Action{TokenSpace, StateBeforeOperator}, true},
		{StateAfterSymbol, ClassEnd, Action{TokenEOF, StateAfterSymbol}, true},
		{StateGroupOpen, ClassGroupEnd, Action{}, false},
		{StateGroupOpen, ClassDigit, Action{}, false},
		{StateAfterCount, ClassDigit, Action{}, false},
		{StateAfterCount, ClassGroupEnd, Action{TokenGroupEnd, StateAfterSymbol}, true},
		{StateBeforeOperator, ClassUpper, Action{}, false},
		{StateBeforeOperator, ClassArrow, Action{TokenArrow, StateTermStart}, true},
		{StateBeforeOperator, ClassEnd, Action{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String()+"/"+tt.class.String(), func(t *testing.T) {
			got, ok := Transition(tt.state, tt.class)
			if ok != tt.ok {
				t.Fatalf("Transition() ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Transition() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTransition_NothingAcceptsOther(t *testing.T) {
	for s := StateTermStart; s <= StateBeforeOperator; s++ {
		if _, ok := Transition(s, ClassOther); ok {
			t.Errorf("state %s accepts ClassOther", s)
		}
	}
}

func TestExpected(t *testing.T) {
	tests := []struct {
		state State
		want  []TokenType
	}{
		{StateTermStart, []TokenType{TokenSymbol, TokenGroupStart, TokenSpace}},
		{StateGroupOpen, []TokenType{TokenSymbol, TokenGroupStart}},
		{StateBeforeOperator, []TokenType{TokenSpace, TokenConjunction, TokenArrow}},
		{StateAfterCount, []TokenType{TokenSymbol, TokenGroupStart, TokenGroupEnd, TokenSpace, TokenConjunction, TokenArrow, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Expected(tt.state)); diff != "" {
				t.Errorf("Expected() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
