package commands

import (
	"github.com/spf13/cobra"

	"github.com/trackstars/trackstars/internal/shell"
)

func newShellCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, noBank, func(s *session) error {
				return shell.New(s.tr, cmd.OutOrStdout(), s.log).Run(cmd.Context(), cmd.InOrStdin())
			})
		},
	}
}
