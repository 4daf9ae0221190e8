package organize

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sahilm/fuzzy"

	"github.com/macropower/shelf/pkg/fsys"
	"github.com/macropower/shelf/pkg/log"
	"github.com/macropower/shelf/pkg/oplog"
	"github.com/macropower/shelf/pkg/scan"
)

// Subfolders returns the names of the folders directly inside root, sorted by
// name. With a non-empty filter, only names that fuzzy-match it are returned,
// best match first.
func (o *Organizer) Subfolders(root, filter string) ([]string, error) {
	if !fsys.IsDir(o.fs, root) {
		return nil, fmt.Errorf("%w: %s", scan.ErrInvalidRoot, root)
	}

	names, err := fsys.Dirs(o.fs, root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", root, err)
	}

	if filter == "" {
		return names, nil
	}

	matches := fuzzy.Find(filter, names)

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}

	return out, nil
}

// ListSubfolders logs the folders directly inside root.
func (o *Organizer) ListSubfolders(ctx context.Context, root, filter string) *oplog.Log {
	out := oplog.New()

	names, err := o.Subfolders(root, filter)
	if err != nil {
		log.WithContext(ctx).DebugContext(ctx, "list subfolders", slog.Any("error", err))
		out.Errorf("%v", err)

		return out
	}

	out.Infof("%d subfolders in %s", len(names), root)

	for _, n := range names {
		out.Item(n)
	}

	return out
}
