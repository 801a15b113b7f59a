package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trackstars/trackstars/internal/currency"
	"github.com/trackstars/trackstars/internal/model"
	"github.com/trackstars/trackstars/internal/report"
)

func newBankCommand(opts *rootOptions) *cobra.Command {
	bankCmd := &cobra.Command{
		Use:   "bank",
		Short: "Manage bank accounts",
	}
	bankCmd.AddCommand(newBankAddCommand(opts), newBankListCommand(opts))
	return bankCmd
}

func newBankAddCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <currency> <balance>",
		Short: "Open a bank account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := currency.Parse(args[0])
			if err != nil {
				return err
			}
			balance, err := model.ParseAmount(args[1])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, noBank, func(s *session) error {
				b, err := s.tr.AddBank(cmd.Context(), code, balance)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", b)
				return nil
			})
		},
	}
}

func newBankListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bank accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, noBank, func(s *session) error {
				return report.Banks(cmd.OutOrStdout(), s.tr.Banks(), nil)
			})
		},
	}
}

func newDepositCommand(opts *rootOptions) *cobra.Command {
	return newMoneyCommand(opts, "deposit", "Add money to a bank")
}

func newWithdrawCommand(opts *rootOptions) *cobra.Command {
	return newMoneyCommand(opts, "withdraw", "Take money from a bank")
}

func newMoneyCommand(opts *rootOptions, name, short string) *cobra.Command {
	var bank int

	cmd := &cobra.Command{
		Use:   name + " <amount>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := model.ParsePositiveAmount(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, bank, func(s *session) error {
				op := s.tr.Deposit
				if name == "withdraw" {
					op = s.tr.Withdraw
				}
				b, err := op(cmd.Context(), amount)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "New balance: %s\n", currency.Format(b.Currency, b.Balance()))
				return nil
			})
		},
	}

	addBankFlag(cmd, &bank, true)
	return cmd
}
