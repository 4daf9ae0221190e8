package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/macropower/shelf/pkg/config"
	"github.com/macropower/shelf/pkg/log"
	"github.com/macropower/shelf/pkg/oplog"
)

const (
	cmdName = "shelf"
	cmdDesc = `Rule-based batch renaming and keyword folder cleanup for media libraries.`

	cmdExamples = `  # Preview renaming every file in a folder to Ep_<number>.<ext>:
  shelf rename ./Show --prefix Ep_

  # Apply it:
  shelf rename ./Show --prefix Ep_ --apply

  # Move the files out of every "Subs" folder into one place:
  shelf move ./Downloads --keyword Subs --target ./Subtitles --apply

  # Delete empty "Sample" folders at any depth:
  shelf clean ./Downloads --keyword Sample --recursive --apply`
)

type RootArgs struct {
	tracerProvider *sdktrace.TracerProvider

	LogLevel      string
	LogFormat     string
	ConfigPath    string
	Output        string
	TraceEndpoint string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the shelf configuration file")
	cmd.PersistentFlags().
		StringVarP(&ra.Output, "output", "o", "text", fmt.Sprintf("Output format, one of: %s", oplog.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.TraceEndpoint, "trace-endpoint", "", "OTLP gRPC endpoint to export traces to")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(oplog.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

// GetConfigPath returns the --config value, or the default path.
func (ra *RootArgs) GetConfigPath() string {
	if ra.ConfigPath != "" {
		return ra.ConfigPath
	}

	return config.GetPath()
}

// LoadConfig loads the configuration. A missing file yields the defaults.
func (ra *RootArgs) LoadConfig() (*config.Config, error) {
	path := ra.GetConfigPath()

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	slog.Debug("loaded configuration", slog.String("path", path))

	return cfg, nil
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:                cmdName,
		Short:              cmdDesc,
		Example:            cmdExamples,
		SilenceUsage:       true,
		PersistentPreRunE:  setup(args),
		PersistentPostRunE: teardown(args),
	}

	args.AddFlags(cmd)

	cmd.AddCommand(
		NewMoveCmd(args),
		NewRenameCmd(args),
		NewCleanCmd(args),
		NewListCmd(args),
		NewFixPermsCmd(args),
		NewServeMCPCmd(args),
		NewConfigCmd(args),
		NewVersionCmd(),
	)

	bindEnvVars(cmd)

	return cmd
}

func setup(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		_, err = oplog.GetFormat(ra.Output)
		if err != nil {
			return fmt.Errorf("invalid argument %q for \"--output\" flag: %w", ra.Output, err)
		}

		if ra.TraceEndpoint != "" {
			tp, err := setupTracing(cmd.Context(), ra.TraceEndpoint)
			if err != nil {
				return fmt.Errorf("setup tracing: %w", err)
			}

			ra.tracerProvider = tp
		}

		return nil
	}
}

func teardown(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if ra.tracerProvider == nil {
			return nil
		}

		ctx := context.WithoutCancel(cmd.Context())

		err := ra.tracerProvider.Shutdown(ctx)
		if err != nil {
			return fmt.Errorf("shutdown tracing: %w", err)
		}

		return nil
	}
}
