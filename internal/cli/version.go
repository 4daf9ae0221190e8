package cli

import (
	"github.com/spf13/cobra"

	"github.com/macropower/shelf/pkg/version"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeLine(cmd.OutOrStdout(), version.GetInfo().String())
		},
	}
}
