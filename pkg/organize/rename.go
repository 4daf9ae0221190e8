package organize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/macropower/shelf/pkg/fsys"
	"github.com/macropower/shelf/pkg/log"
	"github.com/macropower/shelf/pkg/oplog"
	"github.com/macropower/shelf/pkg/plan"
	"github.com/macropower/shelf/pkg/rule"
	"github.com/macropower/shelf/pkg/scan"
)

// RenameOptions configures a batch rename.
type RenameOptions struct {
	// Folder holds the files to rename. Subfolders are not visited.
	Folder string
	// Prefix is prepended to each derived suffix.
	Prefix string
	// Pattern is an optional custom rule, tried before all others.
	Pattern string
	// Rules are tried after Pattern and before the built-in rules.
	Rules []*rule.Rule
}

// PlanRename matches every regular file in opts.Folder, in name order, and
// plans renaming it to prefix + suffix + extension. Files that match no rule,
// already have their new name, or would collide are recorded as skipped.
func (o *Organizer) PlanRename(ctx context.Context, opts RenameOptions) (*plan.Plan, error) {
	logger := log.WithContext(ctx).With(slog.String("folder", opts.Folder))

	p := plan.New("rename")

	rules, err := rule.Build(opts.Pattern, opts.Rules...)
	if err != nil {
		p.Notes.Errorf("custom pattern ignored: %v", err)
		logger.WarnContext(ctx, "custom pattern ignored", slog.Any("error", err))
	}

	if !fsys.IsDir(o.fs, opts.Folder) {
		return p, fmt.Errorf("%w: %s", scan.ErrInvalidRoot, opts.Folder)
	}

	entries, err := o.fs.ReadDir(opts.Folder)
	if err != nil {
		return p, fmt.Errorf("read %s: %w", opts.Folder, err)
	}

	files, err := fsys.Files(o.fs, opts.Folder)
	if err != nil {
		return p, fmt.Errorf("read %s: %w", opts.Folder, err)
	}

	if len(files) == 0 {
		p.Notes.Infof("no files in %s", opts.Folder)

		return p, nil
	}

	taken := make(map[string]bool, len(entries))
	for _, e := range entries {
		taken[e.Name()] = true
	}

	for _, name := range files {
		res, err := rules.Match(name)
		if errors.Is(err, rule.ErrNoMatch) {
			p.Notes.Skipf("no rule matched: %s", name)

			continue
		} else if err != nil {
			p.Notes.Skipf("%s: %v", name, err)

			continue
		}

		newName := opts.Prefix + res.Suffix + extension(name)
		label := name + " -> " + newName

		switch {
		case newName == name:
			p.Notes.Skipf("already named: %s", name)

			continue
		case strings.ContainsAny(newName, `/\`):
			p.Notes.Skipf("%s: new name contains a path separator", label)

			continue
		case taken[newName]:
			p.Notes.Skipf("%s: target already exists", label)

			continue
		}

		taken[newName] = true

		p.Add(plan.Action{
			Op:     plan.OpRename,
			Source: filepath.Join(opts.Folder, name),
			Target: filepath.Join(opts.Folder, newName),
			Label:  label,
		})
	}

	logger.DebugContext(ctx, "planned rename",
		slog.Int("files", len(files)),
		slog.Int("renames", p.Len()),
		slog.Any("rules", rules.Names()),
	)

	return p, nil
}

// Rename plans and then previews or applies a batch rename.
func (o *Organizer) Rename(ctx context.Context, opts RenameOptions, mode plan.Mode) *oplog.Log {
	ctx = log.NewContext(ctx, "rename")
	p, err := o.PlanRename(ctx, opts)

	return o.run(ctx, p, err, mode)
}

// extension returns the extension of name, treating a leading dot as part of
// the stem (".profile" has no extension).
func extension(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}

	return ext
}
