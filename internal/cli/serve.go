package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/shelf/pkg/fsys"
	"github.com/macropower/shelf/pkg/mcp"
	"github.com/macropower/shelf/pkg/organize"
)

func NewServeMCPCmd(rootArgs *RootArgs) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve the shelf operations as MCP tools",
		Long: `Serve list_subfolders, move_files, rename_files and delete_empty_folders
as Model Context Protocol tools. Tools preview unless called with apply=true.
Uses stdio unless --addr is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := rootArgs.LoadConfig()
			if err != nil {
				return err
			}

			rules, err := cfg.RuleSet()
			if err != nil {
				return fmt.Errorf("config rules: %w", err)
			}

			s := mcp.NewServer(addr, organize.New(fsys.NewOS()),
				mcp.WithRules(rules...),
				mcp.WithDefaults(mcp.Defaults{
					CreateTarget: cfg.Move.CreateTarget,
					Cascade:      cfg.Clean.Cascade,
				}),
			)

			err = s.Serve(cmd.Context())
			if err != nil {
				return fmt.Errorf("MCP server: %w", err)
			}

			slog.InfoContext(cmd.Context(), "MCP server stopped")

			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Serve streamable HTTP at this address instead of stdio")

	return cmd
}
