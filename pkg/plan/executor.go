package plan

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/shelf/pkg/fsys"
	"github.com/macropower/shelf/pkg/log"
	"github.com/macropower/shelf/pkg/oplog"
)

// Executor previews or applies a [Plan] against an [fsys.FS].
type Executor struct {
	tracer trace.Tracer
	fs     fsys.FS
}

// NewExecutor creates a new [Executor].
func NewExecutor(fs fsys.FS) *Executor {
	return &Executor{
		tracer: otel.Tracer("executor"),
		fs:     fs,
	}
}

// Execute reports or carries out p and returns the resulting log, which
// starts with the plan's notes. Apply runs every action even when earlier
// ones fail, unless a setup action fails.
func (e *Executor) Execute(ctx context.Context, p *Plan, mode Mode) *oplog.Log {
	ctx, span := e.tracer.Start(ctx, "execute", trace.WithAttributes(
		attribute.String("plan", p.Name),
		attribute.String("mode", string(mode)),
		attribute.Int("actions", len(p.Actions)),
	))
	defer span.End()

	out := oplog.New()
	out.Append(p.Notes)

	if mode != Apply {
		e.preview(p, out)

		return out
	}

	logger := log.WithContext(ctx).With(slog.String("plan", p.Name))

	for _, a := range p.Setup {
		err := e.run(ctx, a)
		if err != nil {
			out.Errorf("%s: %v", a, err)
			out.Infof("%s aborted, nothing changed", p.Name)
			span.SetStatus(codes.Error, "setup failed")
			logger.ErrorContext(ctx, "setup failed", slog.Any("error", err))

			return out
		}

		out.Done(a.String(), a.Source, a.Target)
	}

	failed := 0
	for _, a := range p.Actions {
		err := e.run(ctx, a)
		if err != nil {
			failed++

			out.Failed(fmt.Sprintf("%s: %v", a, err), a.Source, a.Target)
			logger.WarnContext(ctx, "action failed",
				slog.String("action", a.String()),
				slog.Any("error", err),
			)

			continue
		}

		out.Done(a.String(), a.Source, a.Target)
	}

	span.SetAttributes(attribute.Int("failed", failed))
	if failed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d actions failed", failed))
	}

	out.Infof("%s: %d done, %d failed", p.Name, len(p.Actions)-failed, failed)
	logger.DebugContext(ctx, "plan applied",
		slog.Int("done", len(p.Actions)-failed),
		slog.Int("failed", failed),
	)

	return out
}

func (e *Executor) preview(p *Plan, out *oplog.Log) {
	for _, a := range p.Setup {
		out.Preview(a.String(), a.Source, a.Target)
	}

	for _, a := range p.Actions {
		out.Preview(a.String(), a.Source, a.Target)
	}

	out.Infof("preview only: %d %s pending, nothing changed", len(p.Actions), p.Name)
}

func (e *Executor) run(ctx context.Context, a Action) error {
	_, span := e.tracer.Start(ctx, string(a.Op), trace.WithAttributes(
		attribute.String("source", a.Source),
		attribute.String("target", a.Target),
	))
	defer span.End()

	var err error

	switch a.Op {
	case OpMkdir:
		err = e.fs.MkdirAll(a.Source)
	case OpMove, OpRename:
		err = e.fs.Rename(a.Source, a.Target)
	case OpRemove:
		err = e.fs.Remove(a.Source)
	default:
		err = fmt.Errorf("unknown op %q", a.Op)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}
