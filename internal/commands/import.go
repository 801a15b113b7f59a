package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/trackstars/trackstars/internal/importer"
	"github.com/trackstars/trackstars/internal/model"
	"github.com/trackstars/trackstars/internal/tracker"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var bank int
	var format, category string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a bank statement CSV",
		Long: `Import a statement into a bank. Expense rows become transactions and
credit rows become deposits. Rows the bank cannot take are skipped.

Without a file, every CSV waiting in <dir>/import/ is imported and then
moved to <dir>/import/processed/.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fallback, err := model.ParseCategory(category)
			if err != nil {
				return err
			}
			return withSession(cmd, opts, bank, func(s *session) error {
				out := cmd.OutOrStdout()
				if len(args) == 1 {
					res, err := s.tr.Import(cmd.Context(), args[0], format, fallback)
					if err != nil {
						return err
					}
					printImport(out, res)
					return nil
				}
				results, err := s.tr.ImportPending(cmd.Context(), format, fallback)
				for _, res := range results {
					printImport(out, res)
				}
				if err != nil {
					return err
				}
				if len(results) == 0 {
					fmt.Fprintln(out, "No statements waiting in import/.")
				}
				return nil
			})
		},
	}

	addBankFlag(cmd, &bank, true)
	cmd.Flags().StringVar(&format, "format", importer.NativeFormat, "statement format")
	cmd.Flags().StringVar(&category, "category", string(tracker.DefaultImportCategory), "category for rows that carry none")
	return cmd
}

func printImport(w io.Writer, res tracker.ImportResult) {
	fmt.Fprintf(w, "Imported %s: %d transactions, %d deposits, %d skipped\n", res.File, res.Added, res.Deposits, res.Skipped)
}
