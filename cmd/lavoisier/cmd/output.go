package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	mdwerror "github.com/msto63/lavoisier/foundation/core/error"
	"github.com/msto63/lavoisier/internal/lavoisier/service"
	"gopkg.in/yaml.v3"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
	headColor    = color.New(color.FgCyan, color.Bold)
)

// printStructured writes v as JSON or YAML. It reports false for text
// output so callers can render their own form.
func printStructured(w io.Writer, v interface{}) (bool, error) {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return true, enc.Encode(v)
	default:
		return false, nil
	}
}

// failure is the structured form of a balancing error
type failure struct {
	Equation string                 `json:"equation" yaml:"equation"`
	Error    string                 `json:"error" yaml:"error"`
	Code     string                 `json:"code" yaml:"code"`
	Details  map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

func newFailure(equation string, err error) failure {
	f := failure{Equation: equation, Error: err.Error(), Code: string(mdwerror.GetCode(err))}
	var e *mdwerror.Error
	if errors.As(err, &e) {
		f.Details = e.Details()
	}
	return f
}

func printResult(w io.Writer, res *service.BalanceResult) {
	fmt.Fprintln(w, successColor.Sprint(res.Balanced))
	if verbose {
		fmt.Fprintf(w, "  %s %s\n", dimColor.Sprint("elements:"), strings.Join(res.Elements, " "))
		fmt.Fprintf(w, "  %s %v\n", dimColor.Sprint("coefficients:"), res.Coefficients)
		if res.Cached {
			fmt.Fprintf(w, "  %s\n", dimColor.Sprint("(cached)"))
		}
	}
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "  %s %s\n", warnColor.Sprint("warning:"), warning)
	}
}

// printFailure shows the error. Syntax errors get the trimmed input with a
// caret under the offending column.
func printFailure(w io.Writer, equation string, err error) {
	equation = strings.TrimSpace(equation)
	fmt.Fprintf(w, "%s %s\n", failColor.Sprintf("[%s]", mdwerror.GetCode(err)), err)
	var e *mdwerror.Error
	if !errors.As(err, &e) {
		return
	}
	if col, ok := columnDetail(e); ok && equation != "" {
		fmt.Fprintf(w, "  %s\n  %s%s\n", equation, strings.Repeat(" ", col-1), failColor.Sprint("^"))
	}
}

// columnDetail reads the 1-based column of a syntax error. Remote errors
// may carry it as a float after a JSON round trip.
func columnDetail(e *mdwerror.Error) (int, bool) {
	v, ok := e.Detail("column")
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, n > 0
	case float64:
		return int(n), n > 0
	default:
		return 0, false
	}
}
