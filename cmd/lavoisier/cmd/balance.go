package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [equation...]",
	Short: "Balance chemical equations",
	Long: `Balance one or more chemical equations.

Each argument is one equation. Without arguments equations are read from
standard input, one per line; blank lines and lines starting with # are
skipped. The exit code is 2 if any equation could not be balanced.`,
	Example: `  lavoisier balance "H2 + O2 -> H2O"
  lavoisier balance "Fe + O2 = Fe2O3" "C3H8 + O2 -> CO2 + H2O"
  lavoisier balance -o json < equations.txt`,
	RunE: runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) error {
	equations := args
	if len(equations) == 0 {
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			return fmt.Errorf("no equation given; pass one as an argument or pipe them in")
		}
		var err error
		if equations, err = readEquations(in); err != nil {
			return err
		}
	}
	if len(equations) == 0 {
		return fmt.Errorf("no equation given")
	}

	b, err := openBackend("cli")
	if err != nil {
		return err
	}
	defer b.Close()

	return balanceAll(cmd.OutOrStdout(), b, equations)
}

// balanceAll balances each equation in turn and reports errUnbalanced if
// any of them failed
func balanceAll(w io.Writer, b backend, equations []string) error {
	var outcomes []interface{}
	failed := 0
	for _, eq := range equations {
		ctx, cancel := commandContext()
		res, err := b.Balance(ctx, eq)
		cancel()

		if err != nil {
			failed++
			outcomes = append(outcomes, newFailure(eq, err))
		} else {
			outcomes = append(outcomes, res)
		}

		if output != "text" {
			continue
		}
		if len(equations) > 1 {
			fmt.Fprintln(w, headColor.Sprint(strings.TrimSpace(eq)))
		}
		if err != nil {
			printFailure(w, eq, err)
		} else {
			printResult(w, res)
		}
	}

	if output != "text" {
		var v interface{} = outcomes
		if len(outcomes) == 1 {
			v = outcomes[0]
		}
		if _, err := printStructured(w, v); err != nil {
			return err
		}
	}
	if failed > 0 {
		return errUnbalanced
	}
	return nil
}

func readEquations(r io.Reader) ([]string, error) {
	var equations []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		equations = append(equations, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read standard input: %w", err)
	}
	return equations, nil
}
