package organize

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/macropower/shelf/pkg/log"
	"github.com/macropower/shelf/pkg/oplog"
	"github.com/macropower/shelf/pkg/plan"
	"github.com/macropower/shelf/pkg/scan"
)

// CleanOptions configures deleting empty keyword folders.
type CleanOptions struct {
	// Root is searched for keyword folders.
	Root string
	// Keyword selects folders whose name contains it.
	Keyword string
	// Recursive selects keyword folders at any depth below Root.
	Recursive bool
	// Cascade treats a folder as empty when it only contains folders that
	// are themselves planned for deletion. Without it, each folder's
	// emptiness is judged once from the initial snapshot.
	Cascade bool
}

// PlanClean selects keyword folders under opts.Root, innermost first, and
// plans removing each empty one. Folders with content are recorded as
// skipped and never removed.
func (o *Organizer) PlanClean(ctx context.Context, opts CleanOptions) (*plan.Plan, error) {
	logger := log.WithContext(ctx).With(
		slog.String("root", opts.Root),
		slog.String("keyword", opts.Keyword),
	)

	p := plan.New("delete")

	folders, err := scan.Select(o.fs, opts.Root, scan.Options{
		Keyword:   opts.Keyword,
		Recursive: opts.Recursive,
		Order:     scan.BottomUp,
		OnError: func(path string, err error) {
			p.Notes.Errorf("cannot read %s: %v", path, err)
		},
	})
	if err != nil {
		return p, err //nolint:wrapcheck // Already includes the root.
	}

	removed := make(map[string]bool, len(folders))

	for _, folder := range folders {
		entries, err := o.fs.ReadDir(folder)
		if err != nil {
			p.Notes.Errorf("cannot read %s: %v", folder, err)

			continue
		}

		remaining := 0
		for _, e := range entries {
			if opts.Cascade && e.IsDir() && removed[filepath.Join(folder, e.Name())] {
				continue
			}

			remaining++
		}

		if remaining > 0 {
			p.Notes.Skipf("not empty: %s", folder)

			continue
		}

		removed[folder] = true

		p.Add(plan.Action{Op: plan.OpRemove, Source: folder})
	}

	logger.DebugContext(ctx, "planned clean",
		slog.Int("folders", len(folders)),
		slog.Int("empty", p.Len()),
	)

	return p, nil
}

// Clean plans and then previews or applies deleting empty keyword folders.
func (o *Organizer) Clean(ctx context.Context, opts CleanOptions, mode plan.Mode) *oplog.Log {
	ctx = log.NewContext(ctx, "clean")
	p, err := o.PlanClean(ctx, opts)

	return o.run(ctx, p, err, mode)
}
