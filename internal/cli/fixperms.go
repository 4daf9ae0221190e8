package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/macropower/shelf/pkg/oplog"
	"github.com/macropower/shelf/pkg/plan"
	"github.com/macropower/shelf/pkg/remote"
)

func NewFixPermsCmd(rootArgs *RootArgs) *cobra.Command {
	aa := NewApplyArgs(rootArgs)

	var host, user string

	cmd := &cobra.Command{
		Use:   "fixperms <path>",
		Short: "Open up permissions on a path on the remote host",
		Long: `Run the configured remote command for path, by default:

  ssh -p {port} {user}@{host} sudo chmod -R 777 {qpath}

Placeholders: {host}, {port}, {user}, {path}, and {qpath} (shell-quoted path).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := aa.LoadConfig()
			if err != nil {
				return err
			}

			rc := *cfg.Remote
			if host != "" {
				rc.Host = host
			}
			if user != "" {
				rc.User = user
			}

			fixer := remote.NewFixer(&rc)

			return aa.run(cmd, func(ctx context.Context, mode plan.Mode) *oplog.Log {
				return fixer.FixPermissions(ctx, args[0], mode)
			})
		},
	}

	aa.AddFlags(cmd)
	cmd.Flags().StringVar(&host, "host", "", "Remote host, overrides the config file")
	cmd.Flags().StringVar(&user, "user", "", "Remote user, overrides the config file")

	return cmd
}
