package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trackstars/trackstars/internal/report"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative, got %d", limit)
			}
			return withSession(cmd, opts, noBank, func(s *session) error {
				entries, err := s.tr.History(limit)
				if err != nil {
					return err
				}
				return report.History(cmd.OutOrStdout(), entries)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries to show (0 for all)")
	return cmd
}
