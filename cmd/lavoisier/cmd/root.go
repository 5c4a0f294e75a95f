package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	mdwerror "github.com/msto63/lavoisier/foundation/core/error"
	"github.com/msto63/lavoisier/pkg/core/config"
	"github.com/msto63/lavoisier/pkg/core/logging"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	exitOK         = 0
	exitError      = 1 // system or usage error
	exitUnbalanced = 2 // at least one equation could not be balanced
)

var (
	cfgFile   string
	verbose   bool
	output    string
	remote    string
	noColor   bool
	noHistory bool

	appConfig *config.Config
)

// errUnbalanced reports that some inputs failed after their errors were
// already printed
var errUnbalanced = errors.New("some equations could not be balanced")

var rootCmd = &cobra.Command{
	Use:   "lavoisier",
	Short: "Lavoisier - chemical equation balancer",
	Long: `Lavoisier balances chemical equations such as

  H2 + O2 -> H2O        =>  2H2 + O2 -> 2H2O
  Ca(OH)2 + H3PO4 = Ca3(PO4)2 + H2O

Element symbols start with an upper-case letter, counts of 2 or more follow
a symbol or a group, groups use () or []. Terms are joined by +, the sides
by ->, -->, =, => or →.

Commands run in process unless --remote names a running "lavoisier serve".`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	err := rootCmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUnbalanced):
		return exitUnbalanced
	default:
		printError(err)
		return exitError
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $LAVOISIER_CONFIG, ./configs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	rootCmd.PersistentFlags().StringVar(&remote, "remote", "", "gRPC address of a Lavoisier server, e.g. localhost:9310")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not record balancing attempts")
}

// setup loads the configuration and configures logging and colors
func setup(cmd *cobra.Command, args []string) error {
	switch output {
	case "text", "json", "yaml":
	default:
		return mdwerror.Newf("unknown output format %q", output).
			WithCode(mdwerror.CodeInvalidInput)
	}

	var err error
	if cfgFile != "" {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadFromEnv()
	}
	if err != nil {
		return mdwerror.Wrap(err, "failed to load configuration").
			WithCode(mdwerror.CodeConfigError)
	}
	if noHistory {
		appConfig.History.Enabled = false
	}

	level := appConfig.General.LogLevel
	if verbose {
		level = "debug"
	}
	logging.Configure(logging.LoggerConfig{
		ServiceName: "lavoisier",
		Level:       level,
		Format:      appConfig.General.LogFormat,
	})

	if noColor || os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	return nil
}

func printError(err error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	var e *mdwerror.Error
	if errors.As(err, &e) && e.Code() != mdwerror.CodeUnknown {
		fmt.Fprintf(os.Stderr, "%s [%s] %v\n", red("error:"), e.Code(), err)
		return
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), err)
}
