package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/macropower/shelf/pkg/fsys"
	"github.com/macropower/shelf/pkg/oplog"
	"github.com/macropower/shelf/pkg/organize"
	"github.com/macropower/shelf/pkg/plan"
)

type MoveArgs struct {
	*ApplyArgs

	Keyword      string
	Target       string
	CreateTarget bool
	Recursive    bool
}

func NewMoveArgs(rootArgs *RootArgs) *MoveArgs {
	return &MoveArgs{ApplyArgs: NewApplyArgs(rootArgs)}
}

func (ma *MoveArgs) AddFlags(cmd *cobra.Command) {
	ma.ApplyArgs.AddFlags(cmd)

	cmd.Flags().StringVarP(&ma.Keyword, "keyword", "k", "", "Select folders whose name contains this text (case-sensitive)")
	cmd.Flags().StringVarP(&ma.Target, "target", "t", "", "Folder that receives the files")
	cmd.Flags().BoolVar(&ma.CreateTarget, "create-target", true, "Create the target folder if it does not exist")
	cmd.Flags().BoolVarP(&ma.Recursive, "recursive", "r", false, "Select keyword folders at any depth")

	err := cmd.MarkFlagRequired("target")
	if err != nil {
		panic(err)
	}

	err = cmd.MarkFlagDirname("target")
	if err != nil {
		panic(err)
	}
}

func NewMoveCmd(rootArgs *RootArgs) *cobra.Command {
	ma := NewMoveArgs(rootArgs)

	cmd := &cobra.Command{
		Use:   "move <root>",
		Short: "Move the files inside keyword folders into one target folder",
		Long: `Move every regular file directly inside each keyword folder under root
into a single target folder. Existing files in the target are never
overwritten.`,
		Example: `  # Preview:
  shelf move ./Downloads -k Subs -t ./Subtitles

  # Include nested keyword folders and apply:
  shelf move ./Downloads -k Subs -t ./Subtitles -r --apply`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: dirCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ma.LoadConfig()
			if err != nil {
				return err
			}

			opts := organize.MoveOptions{
				Root:         args[0],
				Keyword:      ma.Keyword,
				Target:       ma.Target,
				CreateTarget: boolSetting(cmd, "create-target", ma.CreateTarget, cfg.Move.CreateTarget),
				Recursive:    boolSetting(cmd, "recursive", ma.Recursive, cfg.Move.Recursive),
			}

			org := organize.New(fsys.NewOS())

			return ma.run(cmd, func(ctx context.Context, mode plan.Mode) *oplog.Log {
				return org.Move(ctx, opts, mode)
			})
		},
	}

	ma.AddFlags(cmd)

	return cmd
}

func dirCompletion(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveFilterDirs
	}

	return nil, cobra.ShellCompDirectiveNoFileComp
}
