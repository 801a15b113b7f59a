package commands

import (
	"github.com/spf13/cobra"

	"github.com/trackstars/trackstars/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "trackstars",
		Short:   "Multi-bank, multi-currency spending and budget tracker",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "data directory")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default <dir>/trackstars.yaml)")

	rootCmd.AddCommand(
		newInitCommand(),
		newBankCommand(opts),
		newDepositCommand(opts),
		newWithdrawCommand(opts),
		newTxCommand(opts),
		newBudgetCommand(opts),
		newSummaryCommand(opts),
		newImportCommand(opts),
		newHistoryCommand(opts),
		newShellCommand(opts),
	)

	return rootCmd
}
