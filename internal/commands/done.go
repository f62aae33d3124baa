package commands

import (
	"context"
	"flag"
	"io"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
	"todoctl/internal/tasks"
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoneCmd{})
	Register(&ToggleCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string   { return "Mark a task completed" }
func (c *DoneCmd) Usage() string      { return "todoctl done <ref>" }
func (c *DoneCmd) NeedsService() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, svc, args, out, errOut, func(s *tasks.Store, id string) error {
		return s.SetCompleted(ctx, id, true)
	})
}

// UndoneCmd implements the undone command.
type UndoneCmd struct{}

func (c *UndoneCmd) Name() string       { return "undone" }
func (c *UndoneCmd) Aliases() []string  { return []string{"reopen"} }
func (c *UndoneCmd) Synopsis() string   { return "Mark a task not completed" }
func (c *UndoneCmd) Usage() string      { return "todoctl undone <ref>" }
func (c *UndoneCmd) NeedsService() bool { return true }

func (c *UndoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UndoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, svc, args, out, errOut, func(s *tasks.Store, id string) error {
		return s.SetCompleted(ctx, id, false)
	})
}

// ToggleCmd flips a task's completion, like clicking its checkbox.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string       { return "toggle" }
func (c *ToggleCmd) Aliases() []string  { return nil }
func (c *ToggleCmd) Synopsis() string   { return "Flip a task's completion" }
func (c *ToggleCmd) Usage() string      { return "todoctl toggle <ref>" }
func (c *ToggleCmd) NeedsService() bool { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, svc, args, out, errOut, func(s *tasks.Store, id string) error {
		return s.Toggle(ctx, id)
	})
}

// runSetCompleted is the shared implementation for done, undone and toggle.
func runSetCompleted(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer, apply func(*tasks.Store, string) error) int {
	store, code := loadStore(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}

	task, code := resolveTask(store, args, errOut)
	if code != exitcode.Success {
		return code
	}

	return finish(cfg, out, errOut, apply(store, task.ID))
}
