package commands

import (
	"context"
	"flag"
	"io"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/output"
	"todoctl/internal/service"
)

func init() {
	Register(&ProgressCmd{})
}

// ProgressCmd prints the completion summary.
type ProgressCmd struct{}

func (c *ProgressCmd) Name() string       { return "progress" }
func (c *ProgressCmd) Aliases() []string  { return nil }
func (c *ProgressCmd) Synopsis() string   { return "Show completion progress" }
func (c *ProgressCmd) Usage() string      { return "todoctl progress" }
func (c *ProgressCmd) NeedsService() bool { return true }

func (c *ProgressCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProgressCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	store, code := loadStore(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	output.FormatProgress(out, store.Progress())
	return exitcode.Success
}
