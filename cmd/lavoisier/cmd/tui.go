package cmd

import (
	"github.com/msto63/lavoisier/internal/lavoisier/client"
	"github.com/msto63/lavoisier/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive terminal UI",
	Long: `Start the Lavoisier terminal user interface.

Navigation:
  Enter     - Balance the equation
  Up/Down   - Previous inputs
  Ctrl+E    - Insert the next sample equation
  Tab       - Switch between balance and history view
  r         - Reload the history view
  Ctrl+L    - Clear the results
  Esc       - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg := tui.Config{
		Settings:     tui.NewSettingsStore(tui.DefaultSettingsPath()),
		HistoryLimit: appConfig.History.Limit,
		Title:        "local",
	}

	if remote != "" {
		c, err := client.Dial(remote)
		if err != nil {
			return err
		}
		defer c.Close()
		cfg.Backend = c
		cfg.Title = remote
	} else {
		svc, err := buildService(appConfig)
		if err != nil {
			return err
		}
		defer svc.Close()
		cfg.Backend = tui.LocalBackend{Service: svc}
	}

	return tui.Run(cfg)
}
