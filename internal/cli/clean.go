package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/macropower/shelf/pkg/fsys"
	"github.com/macropower/shelf/pkg/oplog"
	"github.com/macropower/shelf/pkg/organize"
	"github.com/macropower/shelf/pkg/plan"
)

type CleanArgs struct {
	*ApplyArgs

	Keyword   string
	Recursive bool
	Cascade   bool
}

func NewCleanArgs(rootArgs *RootArgs) *CleanArgs {
	return &CleanArgs{ApplyArgs: NewApplyArgs(rootArgs)}
}

func (ca *CleanArgs) AddFlags(cmd *cobra.Command) {
	ca.ApplyArgs.AddFlags(cmd)

	cmd.Flags().StringVarP(&ca.Keyword, "keyword", "k", "", "Select folders whose name contains this text (case-sensitive)")
	cmd.Flags().BoolVarP(&ca.Recursive, "recursive", "r", false, "Select keyword folders at any depth")
	cmd.Flags().BoolVar(&ca.Cascade, "cascade", true, "Also delete folders that only contain deletable keyword folders")
}

func NewCleanCmd(rootArgs *RootArgs) *cobra.Command {
	ca := NewCleanArgs(rootArgs)

	cmd := &cobra.Command{
		Use:     "clean <root>",
		Aliases: []string{"delete-empty"},
		Short:   "Delete empty keyword folders",
		Long: `Delete keyword folders under root that have no entries. Folders with
content are skipped, never forced. Recursive runs work bottom-up.`,
		Example: `  # Preview deleting empty "Sample" folders at any depth:
  shelf clean ./Downloads -k Sample -r`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: dirCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ca.LoadConfig()
			if err != nil {
				return err
			}

			opts := organize.CleanOptions{
				Root:      args[0],
				Keyword:   ca.Keyword,
				Recursive: boolSetting(cmd, "recursive", ca.Recursive, cfg.Clean.Recursive),
				Cascade:   boolSetting(cmd, "cascade", ca.Cascade, cfg.Clean.Cascade),
			}

			org := organize.New(fsys.NewOS())

			return ca.run(cmd, func(ctx context.Context, mode plan.Mode) *oplog.Log {
				return org.Clean(ctx, opts, mode)
			})
		},
	}

	ca.AddFlags(cmd)

	return cmd
}
