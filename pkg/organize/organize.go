// Package organize implements shelf's folder maintenance operations: batch
// rename, move out of keyword folders, delete empty keyword folders, and
// subfolder listing.
//
// Every operation builds a [plan.Plan] first and then previews or applies it,
// so both modes see the same candidates in the same order. Operations never
// return errors; all failures are recorded in the returned [oplog.Log].
package organize

import (
	"context"

	"github.com/macropower/shelf/pkg/fsys"
	"github.com/macropower/shelf/pkg/oplog"
	"github.com/macropower/shelf/pkg/plan"
)

// Organizer runs operations against an [fsys.FS].
type Organizer struct {
	fs   fsys.FS
	exec *plan.Executor
}

// New creates a new [Organizer].
func New(fs fsys.FS) *Organizer {
	return &Organizer{
		fs:   fs,
		exec: plan.NewExecutor(fs),
	}
}

// FS returns the filesystem the [Organizer] operates on.
//
//nolint:ireturn // Returns the injected interface.
func (o *Organizer) FS() fsys.FS {
	return o.fs
}

// run executes p, or reports err as the only log entry when planning failed.
func (o *Organizer) run(ctx context.Context, p *plan.Plan, err error, mode plan.Mode) *oplog.Log {
	if err != nil {
		out := oplog.New()
		if p != nil {
			out.Append(p.Notes)
		}

		out.Errorf("%v", err)

		return out
	}

	return o.exec.Execute(ctx, p, mode)
}
