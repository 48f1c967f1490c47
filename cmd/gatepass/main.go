package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/gatepass/internal/cli"
	"github.com/example/gatepass/internal/logger"
	"github.com/example/gatepass/internal/version"
	"github.com/example/gatepass/internal/wire"
)

func main() {
	var overrides wire.Overrides
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "gatepass",
		Short:   "gatepass - single-use access codes for visitors and contractors",
		Version: version.String(),
		Long: `gatepass issues, validates, and tracks single-use access codes.
Codes are kept in a plain text store; run without a subcommand for the interactive menu.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(slog.LevelDebug)
			}
			wire.Configure(overrides)
		},
		RunE: cli.MenuCmd().RunE,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&overrides.StorePath, "store", "s", "", "Path to the code store (default from config, data/codes.txt)")
	flags.StringVar(&overrides.Operator, "operator", "", "Operator name recorded in the usage ledger")
	flags.IntVar(&overrides.BatchSize, "batch-size", 0, "Codes generated when a type runs out (default from config, 5)")
	flags.BoolVar(&overrides.NoLedger, "no-ledger", false, "Do not record usage history")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Code commands
	rootCmd.AddCommand(cli.MenuCmd())
	rootCmd.AddCommand(cli.IssueCmd())
	rootCmd.AddCommand(cli.ListCmd())
	rootCmd.AddCommand(cli.GenerateCmd())
	rootCmd.AddCommand(cli.ValidateCmd())
	rootCmd.AddCommand(cli.HistoryCmd())

	// Configuration
	rootCmd.AddCommand(cli.ConfigCmd())

	err := rootCmd.Execute()
	if cerr := wire.Close(); cerr != nil {
		logger.Warn("failed to close ledger", "error", cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
