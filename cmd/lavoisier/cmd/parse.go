package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <equation>",
	Short: "Show the structure of an equation without balancing it",
	Example: `  lavoisier parse "Ca(OH)2 + H3PO4 -> Ca3(PO4)2 + H2O"
  lavoisier parse -o yaml "K4[Fe(CN)6] -> KCN + Fe + N2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var tokensCmd = &cobra.Command{
	Use:     "tokens <equation>",
	Short:   "Show the lexer tokens of an equation",
	Example: `  lavoisier tokens "O2 -> O3"`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runTokens,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(tokensCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	equation := strings.Join(args, " ")

	b, err := openBackend("cli")
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, cancel := commandContext()
	defer cancel()

	w := cmd.OutOrStdout()
	res, err := b.Parse(ctx, equation)
	if err != nil {
		if output == "text" {
			printFailure(w, equation, err)
			return errUnbalanced
		}
		return err
	}
	if ok, err := printStructured(w, res); ok {
		return err
	}

	fmt.Fprintln(w, headColor.Sprint(res.Equation))
	fmt.Fprintf(w, "%s %s\n\n", dimColor.Sprint("elements:"), strings.Join(res.Elements, " "))
	fmt.Fprint(w, res.Tree)
	if !strings.HasSuffix(res.Tree, "\n") {
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
	for _, t := range res.Reactants {
		printAtoms(w, "reactant", t.Formula, t.Atoms)
	}
	for _, t := range res.Products {
		printAtoms(w, "product", t.Formula, t.Atoms)
	}
	return nil
}

func printAtoms(w io.Writer, side, formula string, atoms map[string]int) {
	symbols := make([]string, 0, len(atoms))
	for s := range atoms {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	parts := make([]string, 0, len(symbols))
	for _, s := range symbols {
		parts = append(parts, fmt.Sprintf("%s=%d", s, atoms[s]))
	}
	fmt.Fprintf(w, "  %-8s %-16s %s\n", side, formula, dimColor.Sprint(strings.Join(parts, " ")))
}

func runTokens(cmd *cobra.Command, args []string) error {
	equation := strings.Join(args, " ")

	b, err := openBackend("cli")
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, cancel := commandContext()
	defer cancel()

	w := cmd.OutOrStdout()
	tokens, err := b.Tokens(ctx, equation)
	if err != nil {
		if output == "text" {
			printFailure(w, equation, err)
			return errUnbalanced
		}
		return err
	}
	if ok, err := printStructured(w, tokens); ok {
		return err
	}

	fmt.Fprintf(w, "%s\n", headColor.Sprintf("%-4s %-7s %-6s %-12s %s", "COL", "STATE", "POS", "TYPE", "VALUE"))
	for _, t := range tokens {
		fmt.Fprintf(w, "%-4d %-7d %-6d %-12s %q\n", t.Column, t.State, t.Position, t.Type, t.Value)
	}
	return nil
}
