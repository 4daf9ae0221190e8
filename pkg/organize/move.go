package organize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/macropower/shelf/pkg/fsys"
	"github.com/macropower/shelf/pkg/log"
	"github.com/macropower/shelf/pkg/oplog"
	"github.com/macropower/shelf/pkg/plan"
	"github.com/macropower/shelf/pkg/scan"
)

var (
	ErrNoTarget      = errors.New("target folder is required")
	ErrTargetMissing = errors.New("target folder does not exist")
	ErrTargetNotDir  = errors.New("target is not a folder")
)

// MoveOptions configures moving files out of keyword folders.
type MoveOptions struct {
	// Root is searched for keyword folders.
	Root string
	// Keyword selects folders whose name contains it.
	Keyword string
	// Target receives every moved file.
	Target string
	// CreateTarget creates Target on apply when it does not exist.
	CreateTarget bool
	// Recursive selects keyword folders at any depth below Root.
	Recursive bool
}

// PlanMove selects keyword folders under opts.Root and plans moving each
// regular file directly inside them into opts.Target. The target folder is
// never selected as a source. Files whose name already exists in the target,
// or was already planned by an earlier folder, are skipped.
func (o *Organizer) PlanMove(ctx context.Context, opts MoveOptions) (*plan.Plan, error) {
	logger := log.WithContext(ctx).With(
		slog.String("root", opts.Root),
		slog.String("keyword", opts.Keyword),
	)

	p := plan.New("move")

	if opts.Target == "" {
		return p, ErrNoTarget
	}

	target := filepath.Clean(opts.Target)

	info, err := o.fs.Stat(target)
	switch {
	case err == nil && !info.IsDir():
		return p, fmt.Errorf("%w: %s", ErrTargetNotDir, target)
	case err != nil && !opts.CreateTarget:
		return p, fmt.Errorf("%w: %s (enable create target)", ErrTargetMissing, target)
	case err != nil:
		p.AddSetup(plan.Action{
			Op:     plan.OpMkdir,
			Source: target,
			Label:  "create target folder " + target,
		})
	}

	folders, err := scan.Select(o.fs, opts.Root, scan.Options{
		Keyword:   opts.Keyword,
		Recursive: opts.Recursive,
		Exclude:   []string{target},
		OnError: func(path string, err error) {
			p.Notes.Errorf("cannot read %s: %v", path, err)
		},
	})
	if err != nil {
		return p, err //nolint:wrapcheck // Already includes the root.
	}

	taken := map[string]bool{}
	if len(p.Setup) == 0 {
		existing, err := o.fs.ReadDir(target)
		if err != nil {
			return p, fmt.Errorf("read target %s: %w", target, err)
		}

		for _, e := range existing {
			taken[e.Name()] = true
		}
	}

	for _, folder := range folders {
		files, err := fsys.Files(o.fs, folder)
		if err != nil {
			p.Notes.Errorf("cannot read %s: %v", folder, err)

			continue
		}

		for _, name := range files {
			src := filepath.Join(folder, name)
			dst := filepath.Join(target, name)

			if taken[name] {
				p.Notes.Skipf("%s -> %s: target already exists", src, dst)

				continue
			}

			taken[name] = true

			var size int64
			if info, err := o.fs.Stat(src); err == nil {
				size = info.Size()
			}

			p.Add(plan.Action{Op: plan.OpMove, Source: src, Target: dst, Size: size})
		}
	}

	p.Notes.Infof("%d keyword folders, %d files (%s) to move into %s",
		len(folders), p.Len(), humanize.Bytes(uint64(max(p.Size(), 0))), target)

	logger.DebugContext(ctx, "planned move",
		slog.Int("folders", len(folders)),
		slog.Int("files", p.Len()),
	)

	return p, nil
}

// Move plans and then previews or applies moving files out of keyword
// folders.
func (o *Organizer) Move(ctx context.Context, opts MoveOptions, mode plan.Mode) *oplog.Log {
	ctx = log.NewContext(ctx, "move")
	p, err := o.PlanMove(ctx, opts)

	return o.run(ctx, p, err, mode)
}
