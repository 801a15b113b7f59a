package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trackstars/trackstars/internal/model"
	"github.com/trackstars/trackstars/internal/report"
)

func newBudgetCommand(opts *rootOptions) *cobra.Command {
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly category budgets",
	}
	budgetCmd.AddCommand(newBudgetSetCommand(opts), newBudgetListCommand(opts))
	return budgetCmd
}

func newBudgetSetCommand(opts *rootOptions) *cobra.Command {
	var bank int

	cmd := &cobra.Command{
		Use:   "set <category> <amount> <month>",
		Short: "Set a budget; without --bank it is a global SGD budget",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := model.ParseCategory(args[0])
			if err != nil {
				return err
			}
			amount, err := model.ParseAmount(args[1])
			if err != nil {
				return err
			}
			month, err := model.ParseMonth(args[2])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, bank, func(s *session) error {
				bgt, err := s.tr.SetBudget(cmd.Context(), category, amount, month)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", bgt)
				return nil
			})
		},
	}

	addBankFlag(cmd, &bank, false)
	return cmd
}

func newBudgetListCommand(opts *rootOptions) *cobra.Command {
	var bank int

	cmd := &cobra.Command{
		Use:   "list <month>",
		Short: "List budgets for a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := model.ParseMonth(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, bank, func(s *session) error {
				return report.Budgets(cmd.OutOrStdout(), month, s.tr.Budgets(month))
			})
		},
	}

	addBankFlag(cmd, &bank, false)
	return cmd
}
