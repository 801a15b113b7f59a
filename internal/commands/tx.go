package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/trackstars/trackstars/internal/model"
	"github.com/trackstars/trackstars/internal/registry"
	"github.com/trackstars/trackstars/internal/report"
)

func newTxCommand(opts *rootOptions) *cobra.Command {
	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Record and query transactions",
	}
	txCmd.AddCommand(
		newTxAddCommand(opts),
		newTxDeleteCommand(opts),
		newTxListCommand(opts),
		newTxSearchCommand(opts),
		newTxFilterCommand(opts),
	)
	return txCmd
}

func newTxAddCommand(opts *rootOptions) *cobra.Command {
	var bank int

	cmd := &cobra.Command{
		Use:   "add [tag] <category> <amount> <dd/mm/yyyy>",
		Short: "Record a spending transaction",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := ""
			if len(args) == 4 {
				tag, args = args[0], args[1:]
			}
			category, err := model.ParseCategory(args[0])
			if err != nil {
				return err
			}
			amount, err := model.ParsePositiveAmount(args[1])
			if err != nil {
				return err
			}
			date, err := model.ParseDate(args[2])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, bank, func(s *session) error {
				tx, err := s.tr.AddTransaction(cmd.Context(), tag, category, amount, date)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added transaction: %s\n", tx)
				return nil
			})
		},
	}

	addBankFlag(cmd, &bank, true)
	return cmd
}

func newTxDeleteCommand(opts *rootOptions) *cobra.Command {
	var bank int

	cmd := &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete a transaction by its 1-based position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("index must be a number, got %q", args[0])
			}
			return withSession(cmd, opts, bank, func(s *session) error {
				tx, err := s.tr.DeleteTransaction(cmd.Context(), index)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction: %s\n", tx)
				return nil
			})
		},
	}

	addBankFlag(cmd, &bank, true)
	return cmd
}

func newTxListCommand(opts *rootOptions) *cobra.Command {
	var bank, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative, got %d", limit)
			}
			return withSession(cmd, opts, bank, func(s *session) error {
				return report.Transactions(cmd.OutOrStdout(), "Recent Transactions:", s.tr.Recent(limit))
			})
		},
	}

	addBankFlag(cmd, &bank, false)
	cmd.Flags().IntVar(&limit, "limit", 0, "number of transactions to show (default from config)")
	return cmd
}

func newTxSearchCommand(opts *rootOptions) *cobra.Command {
	var bank int

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Find transactions whose description contains keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts, bank, fmt.Sprintf("Transactions matching %q:", args[0]), func(s *session) ([]registry.Entry, error) {
				return s.tr.Search(args[0])
			})
		},
	}

	addBankFlag(cmd, &bank, true)
	return cmd
}

func newTxFilterCommand(opts *rootOptions) *cobra.Command {
	var bank int

	filterCmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter the current bank's transactions",
	}
	filterCmd.PersistentFlags().IntVar(&bank, "bank", noBank, "bank id to act on")
	_ = filterCmd.MarkPersistentFlagRequired("bank")

	filterCmd.AddCommand(&cobra.Command{
		Use:   "category <category>",
		Short: "Transactions in one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := model.ParseCategory(args[0])
			if err != nil {
				return err
			}
			return runQuery(cmd, opts, bank, fmt.Sprintf("Transactions in %s:", category), func(s *session) ([]registry.Entry, error) {
				return s.tr.FilterCategory(category)
			})
		},
	})

	filterCmd.AddCommand(&cobra.Command{
		Use:   "cost <min> <max>",
		Short: "Transactions whose value lies in [min, max]",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lo, err := model.ParseAmount(args[0])
			if err != nil {
				return err
			}
			hi, err := model.ParseAmount(args[1])
			if err != nil {
				return err
			}
			title := fmt.Sprintf("Transactions costing %s to %s:", lo.StringFixed(2), hi.StringFixed(2))
			return runQuery(cmd, opts, bank, title, func(s *session) ([]registry.Entry, error) {
				return s.tr.FilterCost(lo, hi)
			})
		},
	})

	filterCmd.AddCommand(&cobra.Command{
		Use:   "date <from> <to>",
		Short: "Transactions dated within [from, to]",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := model.ParseDate(args[0])
			if err != nil {
				return err
			}
			to, err := model.ParseDate(args[1])
			if err != nil {
				return err
			}
			title := fmt.Sprintf("Transactions from %s to %s:", from.Short(), to.Short())
			return runQuery(cmd, opts, bank, title, func(s *session) ([]registry.Entry, error) {
				return s.tr.FilterDate(from, to)
			})
		},
	})

	return filterCmd
}

func runQuery(cmd *cobra.Command, opts *rootOptions, bank int, title string, query func(*session) ([]registry.Entry, error)) error {
	return withSession(cmd, opts, bank, func(s *session) error {
		entries, err := query(s)
		if err != nil {
			return err
		}
		return report.Transactions(cmd.OutOrStdout(), title, entries)
	})
}
