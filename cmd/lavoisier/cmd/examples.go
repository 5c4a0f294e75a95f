package cmd

import (
	"fmt"
	"io"
	"strings"

	mdwerror "github.com/msto63/lavoisier/foundation/core/error"
	"github.com/msto63/lavoisier/internal/lavoisier/catalog"
	"github.com/spf13/cobra"
)

var (
	examplesVerify bool
	examplesTag    string
)

var examplesCmd = &cobra.Command{
	Use:   "examples [name]",
	Short: "List the sample equations or balance one of them",
	Long: `List the sample equations of the example catalog. With a name the
example is balanced. --verify balances every example and compares the
outcome with the expected coefficients or error code.`,
	Example: `  lavoisier examples
  lavoisier examples silver-thiosulfate
  lavoisier examples --verify`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExamples,
}

func init() {
	examplesCmd.Flags().BoolVar(&examplesVerify, "verify", false, "balance every example and check the expected outcome")
	examplesCmd.Flags().StringVar(&examplesTag, "tag", "", "only examples with this tag")
	rootCmd.AddCommand(examplesCmd)
}

func runExamples(cmd *cobra.Command, args []string) error {
	b, err := openBackend("cli")
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, cancel := commandContext()
	defer cancel()
	w := cmd.OutOrStdout()

	if len(args) == 1 {
		ex, err := b.Example(ctx, args[0])
		if err != nil {
			return err
		}
		if output == "text" {
			fmt.Fprintf(w, "%s  %s\n", headColor.Sprint(ex.Name), dimColor.Sprint(strings.Join(ex.Tags, ", ")))
		}
		return balanceAll(w, b, []string{ex.Equation})
	}

	examples, err := b.Examples(ctx)
	if err != nil {
		return err
	}
	examples = filterByTag(examples, examplesTag)

	if examplesVerify {
		return verifyExamples(w, b, examples)
	}
	if ok, err := printStructured(w, examples); ok {
		return err
	}
	for _, ex := range examples {
		expect := fmt.Sprint(ex.Coefficients)
		if !ex.Balanceable() {
			expect = ex.Error
		}
		fmt.Fprintf(w, "%-22s %-48s %s\n", headColor.Sprint(ex.Name), ex.Equation, dimColor.Sprint(expect))
	}
	return nil
}

func filterByTag(examples []catalog.Example, tag string) []catalog.Example {
	if tag == "" {
		return examples
	}
	var out []catalog.Example
	for _, ex := range examples {
		for _, t := range ex.Tags {
			if t == tag {
				out = append(out, ex)
				break
			}
		}
	}
	return out
}

// verification is the outcome of checking one example
type verification struct {
	Name     string `json:"name" yaml:"name"`
	Equation string `json:"equation" yaml:"equation"`
	Expected string `json:"expected" yaml:"expected"`
	Got      string `json:"got" yaml:"got"`
	OK       bool   `json:"ok" yaml:"ok"`
}

func verifyExamples(w io.Writer, b backend, examples []catalog.Example) error {
	results := make([]verification, 0, len(examples))
	failed := 0
	for _, ex := range examples {
		v := verifyExample(b, ex)
		if !v.OK {
			failed++
		}
		results = append(results, v)
	}

	if ok, err := printStructured(w, results); ok {
		if err != nil {
			return err
		}
	} else {
		for _, v := range results {
			mark := successColor.Sprint("ok  ")
			if !v.OK {
				mark = failColor.Sprint("FAIL")
			}
			fmt.Fprintf(w, "%s %-22s expected %-16s got %s\n", mark, v.Name, v.Expected, v.Got)
		}
		fmt.Fprintf(w, "\n%d examples, %d failed\n", len(results), failed)
	}

	if failed > 0 {
		return errUnbalanced
	}
	return nil
}

func verifyExample(b backend, ex catalog.Example) verification {
	v := verification{Name: ex.Name, Equation: ex.Equation}
	if ex.Balanceable() {
		v.Expected = fmt.Sprint(ex.Coefficients)
	} else {
		v.Expected = ex.Error
	}

	ctx, cancel := commandContext()
	defer cancel()
	res, err := b.Balance(ctx, ex.Equation)
	if err != nil {
		v.Got = string(mdwerror.GetCode(err))
	} else {
		v.Got = fmt.Sprint(res.Coefficients)
	}
	v.OK = v.Got == v.Expected
	return v
}
