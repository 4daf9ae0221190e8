package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/shelf/pkg/fsys"
	"github.com/macropower/shelf/pkg/oplog"
	"github.com/macropower/shelf/pkg/organize"
	"github.com/macropower/shelf/pkg/plan"
	"github.com/macropower/shelf/pkg/watch"
)

type RenameArgs struct {
	*ApplyArgs

	Prefix  string
	Pattern string
	Diff    bool
	Watch   bool
}

func NewRenameArgs(rootArgs *RootArgs) *RenameArgs {
	return &RenameArgs{ApplyArgs: NewApplyArgs(rootArgs)}
}

func (ra *RenameArgs) AddFlags(cmd *cobra.Command) {
	ra.ApplyArgs.AddFlags(cmd)

	cmd.Flags().StringVarP(&ra.Prefix, "prefix", "p", "", "Text placed before the extracted number")
	cmd.Flags().StringVar(&ra.Pattern, "pattern", "",
		"Regular expression tried before all other rules; its first capture group becomes the number")
	cmd.Flags().BoolVar(&ra.Diff, "diff", false, "Show the preview as a diff of the folder listing")
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Preview again whenever the folder changes")

	cmd.MarkFlagsMutuallyExclusive("apply", "diff")
	cmd.MarkFlagsMutuallyExclusive("apply", "watch")
}

func NewRenameCmd(rootArgs *RootArgs) *cobra.Command {
	ra := NewRenameArgs(rootArgs)

	cmd := &cobra.Command{
		Use:   "rename <folder>",
		Short: "Rename files to prefix + number + extension",
		Long: `Rename every regular file directly inside folder to prefix + number +
extension. The number comes from the first matching rule: --pattern, then the
rules from the config file, then the digits after "EP", then the first run of
digits. Files that match no rule are skipped.`,
		Example: `  # Preview:
  shelf rename ./Show -p "Show - "

  # Take the episode number from SxxEyy names:
  shelf rename ./Show -p E --pattern 'S\d+E(\d+)' --apply`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: dirCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ra.LoadConfig()
			if err != nil {
				return err
			}

			rules, err := cfg.RuleSet()
			if err != nil {
				return fmt.Errorf("config rules: %w", err)
			}

			opts := organize.RenameOptions{
				Folder:  args[0],
				Prefix:  ra.Prefix,
				Pattern: ra.Pattern,
				Rules:   rules,
			}

			org := organize.New(fsys.NewOS())

			var preview func(ctx context.Context) error

			if ra.Diff {
				preview = func(ctx context.Context) error {
					return ra.renderDiff(ctx, cmd, org, opts)
				}
			} else {
				preview = func(ctx context.Context) error {
					return ra.render(cmd, org.Rename(ctx, opts, plan.Preview))
				}
			}

			if ra.Watch {
				return watchFolder(cmd.Context(), opts.Folder, preview)
			}
			if ra.Diff {
				return preview(cmd.Context())
			}

			return ra.run(cmd, func(ctx context.Context, mode plan.Mode) *oplog.Log {
				return org.Rename(ctx, opts, mode)
			})
		},
	}

	ra.AddFlags(cmd)

	return cmd
}

// renderDiff writes the rename preview as a unified diff. Planning errors and
// empty diffs fall back to the regular log.
func (ra *RenameArgs) renderDiff(
	ctx context.Context,
	cmd *cobra.Command,
	org *organize.Organizer,
	opts organize.RenameOptions,
) error {
	p, err := org.PlanRename(ctx, opts)
	if err != nil {
		return ra.render(cmd, org.Rename(ctx, opts, plan.Preview))
	}

	names, err := fsys.Files(org.FS(), opts.Folder)
	if err != nil {
		return fmt.Errorf("list %s: %w", opts.Folder, err)
	}

	diff := organize.ListingDiff(opts.Folder, names, p)
	if diff == "" {
		return ra.render(cmd, org.Rename(ctx, opts, plan.Preview))
	}

	w := cmd.OutOrStdout()
	if isTerminal(w) {
		return highlight(w, diff, "diff")
	}

	_, err = fmt.Fprint(w, diff)
	if err != nil {
		return fmt.Errorf("write diff: %w", err)
	}

	return nil
}

// watchFolder runs preview now and after every change to folder until ctx is
// canceled.
func watchFolder(ctx context.Context, folder string, preview func(context.Context) error) error {
	w, err := watch.New(folder)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	defer func() {
		err := w.Close()
		if err != nil {
			slog.Error("close watcher", slog.Any("error", err))
		}
	}()

	slog.InfoContext(ctx, "watching for changes", slog.String("path", folder))

	err = w.Run(ctx, func(ctx context.Context) {
		err := preview(ctx)
		if err != nil && !errors.Is(err, ErrOperationFailed) {
			slog.ErrorContext(ctx, "preview", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	return nil
}
