package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/shelf/pkg/log"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		"error":        {input: "error", want: slog.LevelError},
		"warn":         {input: "warn", want: slog.LevelWarn},
		"warning":      {input: "WARNING", want: slog.LevelWarn},
		"info":         {input: "Info", want: slog.LevelInfo},
		"debug":        {input: "debug", want: slog.LevelDebug},
		"unknown name": {input: "trace", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.GetLevel(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	t.Run("json handler writes records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		h, err := log.CreateHandlerWithStrings(&buf, "info", "json")
		require.NoError(t, err)

		slog.New(h).Info("hello", slog.String("k", "v"))
		assert.Contains(t, buf.String(), `"msg":"hello"`)
		assert.Contains(t, buf.String(), `"k":"v"`)
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()

		_, err := log.CreateHandlerWithStrings(&bytes.Buffer{}, "info", "xml")
		require.ErrorIs(t, err, log.ErrInvalidArgument)
		require.ErrorIs(t, err, log.ErrUnknownLogFormat)
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()

		_, err := log.CreateHandlerWithStrings(&bytes.Buffer{}, "loud", "text")
		require.ErrorIs(t, err, log.ErrUnknownLogLevel)
	})
}

func TestNewContext(t *testing.T) {
	t.Parallel()

	assert.Same(t, slog.Default(), log.WithContext(context.Background()))
	assert.NotSame(t, slog.Default(), log.WithContext(log.NewContext(context.Background(), "rename")))
}

// Not parallel: replaces the default logger.
func TestWithContext_Operation(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer

	h, err := log.CreateHandlerWithStrings(&buf, "info", "logfmt")
	require.NoError(t, err)
	slog.SetDefault(slog.New(h))

	ctx := log.NewContext(context.Background(), "rename")
	log.WithContext(ctx).Info("hello")

	assert.Contains(t, buf.String(), "op=rename")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestCreateHandler_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(log.CreateHandler(&buf, slog.LevelWarn, log.FormatText))
	logger.Info("hidden")
	logger.Warn("shown", slog.String("path", "/data"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "path=/data")
}
