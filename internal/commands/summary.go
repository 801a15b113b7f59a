package commands

import (
	"github.com/spf13/cobra"

	"github.com/trackstars/trackstars/internal/currency"
	"github.com/trackstars/trackstars/internal/model"
	"github.com/trackstars/trackstars/internal/report"
)

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	var bank int
	var code string

	cmd := &cobra.Command{
		Use:   "summary <month>",
		Short: "Spending against budget for a month",
		Long: `Summarize one month's spending per category against its budget.

With --bank the report covers that bank in its own currency. With
--currency it covers every bank in that currency. Otherwise all banks
are converted to the configured display currency.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := model.ParseMonth(args[0])
			if err != nil {
				return err
			}
			var selected *currency.Code
			if code != "" {
				c, err := currency.Parse(code)
				if err != nil {
					return err
				}
				selected = &c
			}
			return withSession(cmd, opts, bank, func(s *session) error {
				return report.Summary(cmd.OutOrStdout(), s.tr.Summary(month, selected))
			})
		},
	}

	addBankFlag(cmd, &bank, false)
	cmd.Flags().StringVar(&code, "currency", "", "only banks held in this currency")
	cmd.MarkFlagsMutuallyExclusive("bank", "currency")
	return cmd
}
