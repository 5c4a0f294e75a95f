// Package parser turns equation text such as "Mg(OH)2 -> MgO + H2O" into a
// chem.Equation.
//
// Scanning is driven by a static transition table (see Transition): the
// tokens legal at any point depend on the lexer state, so malformed input
// like a count at the start of a term or two terms separated only by
// whitespace is rejected while scanning. The Parser consumes the token
// stream with a stack of open terms and groups.
//
// Basic usage:
//
//	eq, err := parser.Parse("H2 + O2 -> H2O")
//	if err != nil {
//		var serr *parser.SyntaxError
//		if errors.As(err, &serr) {
//			fmt.Println(serr.Line, serr.Column, serr.State)
//		}
//	}
package parser
