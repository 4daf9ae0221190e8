// Package log builds the diagnostic [slog.Handler] for shelf and carries
// per-operation logger attributes through a [context.Context].
//
// Diagnostic logs are separate from the operation log in package oplog: they
// describe what the program is doing, not what happened to the files.
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.opentelemetry.io/otel/trace"

	charmlog "github.com/charmbracelet/log"
)

type (
	Format string
	Level  string

	operationKey struct{}
)

const (
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
	FormatText   Format = "text"

	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"

	traceIDLength = 8
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrUnknownLogFormat = errors.New("unknown log format")

	AllFormats = []string{
		string(FormatJSON),
		string(FormatLogfmt),
		string(FormatText),
	}
	AllLevels = []string{
		string(LevelError),
		string(LevelWarn),
		string(LevelInfo),
		string(LevelDebug),
	}

	levels = map[Level]slog.Level{
		LevelError: slog.LevelError,
		LevelWarn:  slog.LevelWarn,
		"warning":  slog.LevelWarn,
		LevelInfo:  slog.LevelInfo,
		LevelDebug: slog.LevelDebug,
	}
)

// CreateHandlerWithStrings creates a [slog.Handler] from flag values.
func CreateHandlerWithStrings(w io.Writer, logLevel, logFormat string) (slog.Handler, error) {
	lvl, err := GetLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	f, err := GetFormat(logFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return CreateHandler(w, lvl, f), nil
}

// CreateHandler creates a [slog.Handler] writing to w. Source locations and
// timestamps on the text handler are only reported at debug level.
func CreateHandler(w io.Writer, lvl slog.Level, f Format) slog.Handler {
	debug := lvl <= slog.LevelDebug

	switch f {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{AddSource: debug, Level: lvl})
	case FormatLogfmt:
		return slog.NewTextHandler(w, &slog.HandlerOptions{AddSource: debug, Level: lvl})
	case FormatText:
	}

	//nolint:gosec // G115: slog levels fit in int32.
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(int32(lvl)),
		Formatter:       charmlog.TextFormatter,
		ReportTimestamp: debug,
		ReportCaller:    debug,
		TimeFormat:      time.TimeOnly,
	})
	logger.SetColorProfile(termenv.NewOutput(w).ColorProfile())

	return logger
}

func GetLevel(level string) (slog.Level, error) {
	lvl, ok := levels[Level(strings.ToLower(level))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
	}

	return lvl, nil
}

func GetFormat(format string) (Format, error) {
	f := Format(strings.ToLower(format))
	if !slices.Contains([]Format{FormatJSON, FormatLogfmt, FormatText}, f) {
		return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
	}

	return f, nil
}

// NewContext returns a copy of ctx tagged with an operation name. Loggers
// from [WithContext] carry it as the "op" attribute.
func NewContext(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationKey{}, operation)
}

// WithContext returns the default logger with the operation name from
// [NewContext] and the active span's trace ID, when present.
func WithContext(ctx context.Context) *slog.Logger {
	var attrs []any

	if op, ok := ctx.Value(operationKey{}).(string); ok {
		attrs = append(attrs, slog.String("op", op))
	}

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		attrs = append(attrs, slog.String("trace_id", sc.TraceID().String()[:traceIDLength]))
	}

	if len(attrs) == 0 {
		return slog.Default()
	}

	return slog.Default().With(attrs...)
}
