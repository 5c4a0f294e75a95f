package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type tokSpec struct {
	Type  TokenType
	Value string
}

func specs(tokens []Token) []tokSpec {
	out := make([]tokSpec, len(tokens))
	for i, t := range tokens {
		out[i] = tokSpec{t.Type, t.Value}
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tokSpec
	}{
		{
			name:  "simple equation",
			input: "H2 + O2 -> H2O",
			want: []tokSpec{
				{TokenSymbol, "H"}, {TokenCount, "2"}, {TokenSpace, " "},
				{TokenConjunction, "+"}, {TokenSpace, " "},
				{TokenSymbol, "O"}, {TokenCount, "2"}, {TokenSpace, " "},
				{TokenArrow, "->"}, {TokenSpace, " "},
				{TokenSymbol, "H"}, {TokenCount, "2"}, {TokenSymbol, "O"},
				{TokenEOF, ""},
			},
		},
		{
			name:  "groups and multi-digit count",
			input: "Na3[Ag(S2O3)2]=C12",
			want: []tokSpec{
				{TokenSymbol, "Na"}, {TokenCount, "3"}, {TokenGroupStart, "["},
				{TokenSymbol, "Ag"}, {TokenGroupStart, "("}, {TokenSymbol, "S"},
				{TokenCount, "2"}, {TokenSymbol, "O"}, {TokenCount, "3"},
				{TokenGroupEnd, ")"}, {TokenCount, "2"}, {TokenGroupEnd, "]"},
				{TokenArrow, "="}, {TokenSymbol, "C"}, {TokenCount, "12"},
				{TokenEOF, ""},
			},
		},
		{
			name:  "greedy count",
			input: "H23",
			want:  []tokSpec{{TokenSymbol, "H"}, {TokenCount, "23"}, {TokenEOF, ""}},
		},
		{
			name:  "leading space and unicode arrow",
			input: " \tCa→Ca",
			want: []tokSpec{
				{TokenSpace, " \t"}, {TokenSymbol, "Ca"}, {TokenArrow, "→"},
				{TokenSymbol, "Ca"}, {TokenEOF, ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, specs(tokens)); diff != "" {
				t.Errorf("Tokenize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenize_Arrows(t *testing.T) {
	for _, arrow := range []string{"->", "--->", "=", "==", "=>", "===>", "→"} {
		t.Run(arrow, func(t *testing.T) {
			tokens, err := Tokenize("H" + arrow + "H")
			if err != nil {
				t.Fatalf("Tokenize() error = %v", err)
			}
			if tokens[1].Type != TokenArrow || tokens[1].Value != arrow {
				t.Errorf("token = %v, want ARROW(%q)", tokens[1], arrow)
			}
		})
	}
}

func TestTokenize_Positions(t *testing.T) {
	tokens, err := Tokenize("H2 +\n  O→Na")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	var o, na Token
	for _, tok := range tokens {
		switch tok.Value {
		case "O":
			o = tok
		case "Na":
			na = tok
		}
	}
	if o.Line != 2 || o.Column != 3 || o.Position != 7 {
		t.Errorf("O at line %d col %d pos %d, want 2/3/7", o.Line, o.Column, o.Position)
	}
	// "→" is three bytes but one column
	if na.Line != 2 || na.Column != 5 || na.Position != 11 {
		t.Errorf("Na at line %d col %d pos %d, want 2/5/11", na.Line, na.Column, na.Position)
	}
	if o.State != StateTermStart || na.State != StateTermStart {
		t.Errorf("states = %s, %s; want term-start", o.State, na.State)
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason error
		pos    int
		state  State
		char   rune
	}{
		{"empty input", "", ErrUnexpectedEnd, 0, StateTermStart, 0},
		{"trailing conjunction", "H2 + ", ErrUnexpectedEnd, 5, StateTermStart, 0},
		{"trailing space", "H2 ", ErrUnexpectedEnd, 3, StateBeforeOperator, 0},
		{"lowercase start", "h2", ErrUnexpectedChar, 0, StateTermStart, 'h'},
		{"count at term start", "2H", ErrUnexpectedChar, 0, StateTermStart, '2'},
		{"explicit one", "H1", ErrInvalidCount, 1, StateAfterSymbol, 0},
		{"leading zero", "H02", ErrInvalidCount, 1, StateAfterSymbol, 0},
		{"zero", "H0", ErrInvalidCount, 1, StateAfterSymbol, 0},
		{"count beyond int range", "H9223372036854775808", ErrCountTooLarge, 1, StateAfterSymbol, 0},
		{"zero padded beyond int range", "H09223372036854775808", ErrInvalidCount, 1, StateAfterSymbol, 0},
		{"empty group", "()", ErrUnexpectedChar, 1, StateGroupOpen, ')'},
		{"count after group open", "(2H)", ErrUnexpectedChar, 1, StateGroupOpen, '2'},
		{"juxtaposed terms", "H2 O2", ErrUnexpectedChar, 3, StateBeforeOperator, 'O'},
		{"broken arrow", "H - O", ErrUnexpectedChar, 3, StateBeforeOperator, ' '},
		{"arrow at end", "H --", ErrUnexpectedEnd, 4, StateBeforeOperator, 0},
		{"unknown rune", "H2 + O2 * 3", ErrUnexpectedChar, 8, StateBeforeOperator, '*'},
		{"end after group open", "Mg(", ErrUnexpectedEnd, 3, StateGroupOpen, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if !errors.Is(err, tt.reason) {
				t.Fatalf("Tokenize(%q) error = %v, want %v", tt.input, err, tt.reason)
			}
			var serr *SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("error is %T, want *SyntaxError", err)
			}
			if serr.Position != tt.pos {
				t.Errorf("Position = %d, want %d", serr.Position, tt.pos)
			}
			if serr.State != tt.state {
				t.Errorf("State = %s, want %s", serr.State, tt.state)
			}
			if serr.Char != tt.char {
				t.Errorf("Char = %q, want %q", serr.Char, tt.char)
			}
		})
	}
}

func TestLexer_StickyStates(t *testing.T) {
	l := NewLexer("H")
	for i := 0; i < 2; i++ {
		l.NextToken()
	}
	if tok, err := l.NextToken(); err != nil || tok.Type != TokenEOF {
		t.Errorf("NextToken() after EOF = %v, %v", tok, err)
	}

	l = NewLexer("?")
	_, first := l.NextToken()
	_, second := l.NextToken()
	if first == nil || first != second {
		t.Errorf("errors not sticky: %v, %v", first, second)
	}
}

func TestLexer_State(t *testing.T) {
	l := NewLexer("H2 +")
	want := []State{StateAfterSymbol, StateAfterCount, StateBeforeOperator, StateTermStart}
	for i, s := range want {
		if _, err := l.NextToken(); err != nil {
			t.Fatalf("token %d: %v", i, err)
		}
		if l.State() != s {
			t.Errorf("after token %d State() = %s, want %s", i, l.State(), s)
		}
	}
}
