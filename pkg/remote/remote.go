// Package remote fixes permissions on a path on a remote host by running a
// configurable command, ssh by default.
package remote

import (
	"context"
	"strings"

	"github.com/macropower/shelf/pkg/log"
	"github.com/macropower/shelf/pkg/oplog"
	"github.com/macropower/shelf/pkg/plan"
)

// Fixer runs the permission fix command.
type Fixer struct {
	cfg  *Config
	exec *Executor
}

// NewFixer creates a new [Fixer]. A nil cfg uses [DefaultConfig].
func NewFixer(cfg *Config) *Fixer {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return &Fixer{cfg: cfg, exec: NewExecutor()}
}

// FixPermissions previews or runs the command for path. Command output is
// recorded line by line.
func (f *Fixer) FixPermissions(ctx context.Context, path string, mode plan.Mode) *oplog.Log {
	ctx = log.NewContext(ctx, "fixperms")
	out := oplog.New()

	cmd, err := f.cfg.Build(path)
	if err != nil {
		out.Errorf("%v", err)

		return out
	}

	if mode != plan.Apply {
		out.Preview(cmd.String(), path, "")
		out.Infof("preview only: command not run")

		return out
	}

	out.Infof("run: %s", cmd)

	res, err := f.exec.Exec(ctx, cmd)
	if res != nil {
		addLines(out, "stdout", res.Stdout)
		addLines(out, "stderr", res.Stderr)
	}

	if err != nil {
		out.Failed("fix permissions on "+path+": "+err.Error(), path, "")

		return out
	}

	out.Done("fixed permissions on "+path, path, "")

	return out
}

func addLines(out *oplog.Log, stream, s string) {
	for line := range strings.Lines(strings.TrimSpace(s)) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}

		out.Infof("%s: %s", stream, line)
	}
}
