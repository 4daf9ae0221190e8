package cli

import (
	"github.com/spf13/cobra"

	"github.com/macropower/shelf/pkg/fsys"
	"github.com/macropower/shelf/pkg/organize"
)

func NewListCmd(rootArgs *RootArgs) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:               "list <root>",
		Aliases:           []string{"ls"},
		Short:             "List the folders directly inside root",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: dirCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			org := organize.New(fsys.NewOS())

			return rootArgs.render(cmd, org.ListSubfolders(cmd.Context(), args[0], filter))
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only list names that fuzzy-match this text, best first")

	return cmd
}
