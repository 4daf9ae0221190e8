package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/shelf/pkg/log"
)

// ErrCommandExecution is returned when a command exits unsuccessfully.
var ErrCommandExecution = errors.New("run")

// Result holds the output of a command.
type Result struct {
	Stdout string
	Stderr string
}

// Command is a program and its arguments.
type Command struct {
	Command string
	Args    []string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Command
	}

	return fmt.Sprintf("%s %s", c.Command, strings.Join(c.Args, " "))
}

// Executor runs commands with the caller's environment.
type Executor struct {
	tracer trace.Tracer
	env    []string
}

// NewExecutor creates a new [Executor].
func NewExecutor() *Executor {
	return &Executor{
		tracer: otel.Tracer("remote"),
		env:    os.Environ(),
	}
}

// Exec runs cmd and returns its output. Output is returned alongside the error
// when the command ran but failed.
func (e *Executor) Exec(ctx context.Context, cmd Command) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "exec", trace.WithAttributes(
		attribute.String("command", cmd.String()),
	))
	defer span.End()

	if cmd.Command == "" {
		return nil, ErrEmptyCommand
	}

	logger := log.WithContext(ctx).With(slog.String("command", cmd.String()))

	start := time.Now()

	//nolint:gosec // G204: Subprocess launched with a potential tainted input or cmd arguments.
	c := exec.CommandContext(ctx, cmd.Command, cmd.Args...)
	c.Env = e.env

	var stdout, stderr bytes.Buffer

	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.DebugContext(ctx, "command failed",
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)

		return result, fmt.Errorf("%w: %w", ErrCommandExecution, err)
	}

	logger.DebugContext(ctx, "command executed successfully",
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}
