package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	replPrompt      = "⚗ "
	replHistoryFile = ".config/lavoisier/repl_history"

	replHelp = `Read equations line by line and balance each one.

Commands:
  :parse <equation>    show the structure of an equation
  :tokens <equation>   show the lexer tokens
  :example <name>      balance a sample equation
  :examples            list the sample equations
  :history             show the last attempts
  :help                show this help
  :quit                exit (Ctrl+D works too)`
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Balance equations interactively",
	Long:  replHelp,
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

var replCommands = []string{":parse ", ":tokens ", ":example ", ":examples", ":history", ":help", ":quit"}

func runRepl(cmd *cobra.Command, args []string) error {
	b, err := openBackend("repl")
	if err != nil {
		return err
	}
	defer b.Close()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		var out []string
		for _, c := range replCommands {
			if strings.HasPrefix(c, line) {
				out = append(out, c)
			}
		}
		return out
	})

	if home, err := os.UserHomeDir(); err == nil {
		histPath := filepath.Join(home, replHistoryFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if err := os.MkdirAll(filepath.Dir(histPath), 0755); err != nil {
				return
			}
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, headColor.Sprint("Lavoisier")+dimColor.Sprint("  type an equation, :help or :quit"))

	for {
		line, err := ln.Prompt(replPrompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(w)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if quit := replLine(w, b, line); quit {
			return nil
		}
	}
}

// replLine handles one input line and reports whether to exit
func replLine(w io.Writer, b backend, line string) bool {
	if !strings.HasPrefix(line, ":") {
		_ = balanceAll(w, b, []string{line})
		return false
	}

	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	ctx, cancel := commandContext()
	defer cancel()

	switch strings.ToLower(name) {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprintln(w, replHelp)
	case ":parse":
		res, err := b.Parse(ctx, rest)
		if err != nil {
			printFailure(w, rest, err)
			break
		}
		fmt.Fprint(w, res.Tree)
	case ":tokens":
		tokens, err := b.Tokens(ctx, rest)
		if err != nil {
			printFailure(w, rest, err)
			break
		}
		for _, t := range tokens {
			fmt.Fprintf(w, "  %-3d %-12s %q\n", t.Column, t.Type, t.Value)
		}
	case ":examples":
		examples, err := b.Examples(ctx)
		if err != nil {
			printFailure(w, "", err)
			break
		}
		for _, ex := range examples {
			fmt.Fprintf(w, "  %-22s %s\n", headColor.Sprint(ex.Name), ex.Equation)
		}
	case ":example":
		ex, err := b.Example(ctx, rest)
		if err != nil {
			printFailure(w, "", err)
			break
		}
		fmt.Fprintln(w, dimColor.Sprint(ex.Equation))
		_ = balanceAll(w, b, []string{ex.Equation})
	case ":history":
		filter, err := historyFilter()
		if err != nil {
			printFailure(w, "", err)
			break
		}
		filter.Limit = 10
		records, err := b.History(ctx, filter)
		if err != nil {
			printFailure(w, "", err)
			break
		}
		for _, r := range records {
			printRecord(w, r)
		}
	default:
		fmt.Fprintf(w, "unknown command %s, type :help\n", name)
	}
	return false
}
