package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/shelf/pkg/config"
)

func NewConfigCmd(rootArgs *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the shelf configuration file",
	}

	cmd.AddCommand(
		newConfigWriteCmd(rootArgs),
		newConfigShowCmd(rootArgs),
		newConfigSchemaCmd(),
	)

	return cmd
}

func newConfigWriteCmd(rootArgs *RootArgs) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write the default configuration and its JSON schema",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := rootArgs.GetConfigPath()

			err := config.WriteDefaultConfig(path, force)
			if err != nil {
				return fmt.Errorf("write config %q: %w", path, err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing file, keeping a backup")

	return cmd
}

func newConfigShowCmd(rootArgs *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := rootArgs.LoadConfig()
			if err != nil {
				return err
			}

			slog.Info("active configuration", slog.String("path", rootArgs.GetConfigPath()))

			b, err := cfg.ToYAML()
			if err != nil {
				return fmt.Errorf("marshal config yaml: %w", err)
			}

			w := cmd.OutOrStdout()
			if isTerminal(w) {
				return highlight(w, string(b), "yaml")
			}

			_, err = w.Write(b)
			if err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			return nil
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeLine(cmd.OutOrStdout(), string(config.SchemaJSON))
		},
	}
}
