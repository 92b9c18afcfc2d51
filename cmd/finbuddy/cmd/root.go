// Package cmd provides the finbuddy command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"finbuddy/internal/cli"
	"finbuddy/internal/config"
	applog "finbuddy/internal/log"
)

var (
	debug  bool
	cfg    *config.Config
	logger *applog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "finbuddy",
	Short: "Personal finance buddy: budget, expenses, charts and calculators",
	Long: `finbuddy tracks a monthly budget and a list of expenses, draws
spend-by-date and spend-by-category charts, and bundles a few demo tools
(SIP and tax calculators, CSV preview, a canned chat assistant).

Run "finbuddy serve" for the web UI, or use the subcommands directly:
  finbuddy budget 20000
  finbuddy add --name Coffee --amount 150 --category Food
  finbuddy status`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		l, err := cli.SetupLogger(cfg.LogLevel, debug)
		logger = l
		if err != nil {
			slog.Warn("Falling back to info logging", "error", err)
		}
		return nil
	},
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, workerCmd)
	rootCmd.AddCommand(statusCmd, budgetCmd, addCmd, listCmd, rmCmd, resetCmd, chartsCmd)
	rootCmd.AddCommand(sipCmd, taxCmd, previewCmd, chatCmd)
}

// validConfig returns the loaded configuration once it passes validation.
func validConfig() (*config.Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
