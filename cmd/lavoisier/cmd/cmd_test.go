package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/msto63/lavoisier/internal/lavoisier/service"
	"github.com/msto63/lavoisier/internal/lavoisier/store"
)

// useConfig points LAVOISIER_CONFIG at a fresh file. withHistory enables
// a history database in the test directory.
func useConfig(t *testing.T, withHistory bool) {
	t.Helper()
	dir := t.TempDir()
	content := "[cache]\nenabled = true\n"
	if withHistory {
		content += fmt.Sprintf("[history]\nenabled = true\npath = %q\n", filepath.Join(dir, "history.db"))
	}
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LAVOISIER_CONFIG", path)
}

func resetFlags() {
	cfgFile, verbose, output, remote, noColor, noHistory = "", false, "text", "", false, false
	examplesVerify, examplesTag = false, ""
	historyStatus, historySource, historyLimit, historySince = "", "", 0, 0
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--no-color"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestBalance_Text(t *testing.T) {
	useConfig(t, false)
	out, err := execute(t, "", "balance", "C3H8 + O2 -> CO2 + H2O")
	if err != nil {
		t.Fatalf("balance error = %v", err)
	}
	if got := strings.TrimSpace(out); got != "C3H8 + 5O2 -> 3CO2 + 4H2O" {
		t.Errorf("output = %q", got)
	}
}

func TestBalance_JSON(t *testing.T) {
	useConfig(t, false)
	out, err := execute(t, "", "-o", "json", "balance", "H2 + O2 = H2O")
	if err != nil {
		t.Fatalf("balance error = %v", err)
	}
	var res service.BalanceResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if diff := cmp.Diff([]int{2, 1, 2}, res.Coefficients); diff != "" {
		t.Errorf("coefficients mismatch (-want +got):\n%s", diff)
	}
	if res.Balanced != "2H2 + O2 -> 2H2O" {
		t.Errorf("balanced = %q", res.Balanced)
	}
}

func TestBalance_StdinWithFailures(t *testing.T) {
	useConfig(t, false)
	stdin := "# sample batch\nFe + O2 -> Fe2O3\n\nC + O2 -> CO + CO2\n"
	out, err := execute(t, stdin, "-o", "yaml", "balance")
	if !errors.Is(err, errUnbalanced) {
		t.Fatalf("error = %v, want errUnbalanced", err)
	}

	var outcomes []map[string]interface{}
	if err := yaml.Unmarshal([]byte(out), &outcomes); err != nil {
		t.Fatalf("invalid YAML %q: %v", out, err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	if outcomes[0]["balanced"] != "4Fe + 3O2 -> 2Fe2O3" {
		t.Errorf("first outcome = %v", outcomes[0])
	}
	if outcomes[1]["code"] != "MULTIPLE_SOLUTIONS" {
		t.Errorf("second outcome = %v", outcomes[1])
	}
}

func TestBalance_SyntaxErrorCaret(t *testing.T) {
	useConfig(t, false)
	out, err := execute(t, "", "balance", "  H2 + o2 -> H2O")
	if !errors.Is(err, errUnbalanced) {
		t.Fatalf("error = %v, want errUnbalanced", err)
	}
	if !strings.Contains(out, "[SYNTAX]") {
		t.Errorf("output misses the code:\n%s", out)
	}
	// Input is trimmed, the caret sits under the "o" in column 6
	if !strings.Contains(out, "  H2 + o2 -> H2O\n       ^") {
		t.Errorf("output misses the caret:\n%s", out)
	}
}

func TestParseAndTokens(t *testing.T) {
	useConfig(t, false)

	out, err := execute(t, "", "parse", "Mg(OH)2 = MgO + H2O")
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	for _, want := range []string{"elements: Mg O H", "reactant", "H=2 Mg=1 O=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("parse output misses %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "", "-o", "json", "tokens", "O2 = O3")
	if err != nil {
		t.Fatalf("tokens error = %v", err)
	}
	var tokens []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &tokens); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(tokens) != 8 {
		t.Errorf("got %d tokens, want 8", len(tokens))
	}
}

func TestExamples(t *testing.T) {
	useConfig(t, false)

	out, err := execute(t, "", "examples", "--tag", "unsolvable")
	if err != nil {
		t.Fatalf("examples error = %v", err)
	}
	if !strings.Contains(out, "no-common-element") || strings.Contains(out, "water") {
		t.Errorf("tag filter output:\n%s", out)
	}

	out, err = execute(t, "", "examples", "rust")
	if err != nil {
		t.Fatalf("examples rust error = %v", err)
	}
	if !strings.Contains(out, "4Fe + 3O2 -> 2Fe2O3") {
		t.Errorf("examples rust output:\n%s", out)
	}

	out, err = execute(t, "", "examples", "--verify")
	if err != nil {
		t.Fatalf("examples --verify error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "0 failed") {
		t.Errorf("verify output:\n%s", out)
	}
}

func TestHistory(t *testing.T) {
	useConfig(t, true)

	if _, err := execute(t, "H2 + O2 -> H2O\nH2 -> O2\n", "balance"); !errors.Is(err, errUnbalanced) {
		t.Fatalf("balance error = %v", err)
	}

	out, err := execute(t, "", "-o", "json", "history", "--status", "failed")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	var records []store.Record
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(records) != 1 || records[0].ErrorCode != "ALL_ZERO" || records[0].Source != "cli" {
		t.Errorf("records = %+v", records)
	}

	out, err = execute(t, "", "-o", "json", "history", "stats")
	if err != nil {
		t.Fatalf("history stats error = %v", err)
	}
	var stats store.Stats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if stats.Total != 2 || stats.Balanced != 1 || stats.Failed != 1 {
		t.Errorf("stats = %+v", stats)
	}

	out, err = execute(t, "", "history", "prune", "--older-than", "1ns")
	if err != nil {
		t.Fatalf("history prune error = %v", err)
	}
	if !strings.Contains(out, "deleted 2 records") {
		t.Errorf("prune output = %q", out)
	}

	if _, err := execute(t, "", "history", "--status", "maybe"); err == nil {
		t.Error("unknown status accepted")
	}
}

func TestReplLine(t *testing.T) {
	useConfig(t, false)
	resetFlags()
	noColor = true
	if err := setup(rootCmd, nil); err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	b, err := openBackend("repl")
	if err != nil {
		t.Fatalf("openBackend() error = %v", err)
	}
	defer b.Close()

	tests := []struct {
		line string
		want string
		quit bool
	}{
		{line: "O2 -> O3", want: "3O2 -> 2O3"},
		{line: ":example water", want: "2H2 + O2 -> 2H2O"},
		{line: ":examples", want: "carbon-oxides"},
		{line: ":parse H2O", want: "H"},
		{line: ":help", want: ":tokens <equation>"},
		{line: ":nope", want: "unknown command"},
		{line: ":quit", quit: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var out bytes.Buffer
			if quit := replLine(&out, b, tt.line); quit != tt.quit {
				t.Errorf("quit = %v, want %v", quit, tt.quit)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output misses %q:\n%s", tt.want, out.String())
			}
		})
	}

	t.Run("history with bad status", func(t *testing.T) {
		historyStatus = "maybe"
		defer func() { historyStatus = "" }()

		var out bytes.Buffer
		replLine(&out, b, ":history")
		if !strings.Contains(out.String(), "[INVALID_INPUT]") || !strings.Contains(out.String(), `unknown status "maybe"`) {
			t.Errorf("output = %q", out.String())
		}
	})
}

func TestUnknownOutputFormat(t *testing.T) {
	useConfig(t, false)
	if _, err := execute(t, "", "-o", "xml", "version"); err == nil {
		t.Error("unknown output format accepted")
	}
}

func TestVersion(t *testing.T) {
	useConfig(t, false)
	out, err := execute(t, "", "-o", "yaml", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "api: v1") {
		t.Errorf("version output:\n%s", out)
	}
}
