package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/shelf/pkg/oplog"
	"github.com/macropower/shelf/pkg/plan"
)

var (
	ErrOperationFailed = errors.New("operation did not complete")
	ErrNotConfirmed    = errors.New("not confirmed, nothing changed")
)

// OpFunc runs an operation in the given mode.
type OpFunc func(ctx context.Context, mode plan.Mode) *oplog.Log

// ApplyArgs holds the flags shared by operations that change the filesystem.
type ApplyArgs struct {
	*RootArgs

	Apply bool
	Yes   bool
}

func NewApplyArgs(rootArgs *RootArgs) *ApplyArgs {
	return &ApplyArgs{RootArgs: rootArgs}
}

func (aa *ApplyArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&aa.Apply, "apply", false, "Change the filesystem instead of previewing")
	cmd.Flags().BoolVarP(&aa.Yes, "yes", "y", false, "Do not ask for confirmation before applying")
}

// run previews or applies op. Interactive applies show the preview first and
// ask for confirmation unless --yes is set.
func (aa *ApplyArgs) run(cmd *cobra.Command, op OpFunc) error {
	ctx := cmd.Context()

	if !aa.Apply {
		return aa.render(cmd, op(ctx, plan.Preview))
	}

	if !aa.Yes && isTerminal(os.Stdin) {
		preview := op(ctx, plan.Preview)

		err := aa.render(cmd, preview)
		if err != nil {
			return err
		}

		if preview.Count(oplog.KindPreview) == 0 {
			return nil
		}

		ok, err := confirm(ctx, "Apply these changes?")
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotConfirmed
		}
	}

	return aa.render(cmd, op(ctx, plan.Apply))
}

// render writes l to stdout in the selected output format. It returns
// [ErrOperationFailed] when the operation aborted or any item failed.
func (ra *RootArgs) render(cmd *cobra.Command, l *oplog.Log) error {
	format, err := oplog.GetFormat(ra.Output)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}

	w := cmd.OutOrStdout()

	var opts []oplog.RendererOpt
	if format == oplog.FormatText && isTerminal(w) {
		opts = append(opts, oplog.WithStyles(oplog.DefaultStyles()))
	}

	err = oplog.NewRenderer(format, opts...).Render(w, l)
	if err != nil {
		return fmt.Errorf("render output: %w", err)
	}

	if l.Aborted() {
		return ErrOperationFailed
	}
	if n := l.Count(oplog.KindFailed); n > 0 {
		return fmt.Errorf("%w: %d failed", ErrOperationFailed, n)
	}

	return nil
}

func confirm(ctx context.Context, title string) (bool, error) {
	var ok bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Apply").
				Negative("Cancel").
				Value(&ok),
		),
	).WithShowHelp(false)

	err := form.RunWithContext(ctx)
	if err != nil {
		return false, fmt.Errorf("run confirm prompt: %w", err)
	}

	return ok, nil
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// boolSetting returns the flag value when it was set on the command line or
// through the environment, and fallback otherwise.
func boolSetting(cmd *cobra.Command, name string, value, fallback bool) bool {
	if cmd.Flags().Changed(name) {
		return value
	}

	return fallback
}

func writeLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
