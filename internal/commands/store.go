package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/logging"
	"todoctl/internal/service"
	"todoctl/internal/tasks"
)

// loadStore builds a Store over svc and fetches the list.
func loadStore(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) (*tasks.Store, int) {
	store := tasks.NewStore(svc, logging.ForCLI(errOut, cfg))
	if err := store.Refresh(ctx); err != nil {
		if errors.Is(err, service.ErrAuth) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return nil, exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return nil, exitcode.BackendError
	}
	return store, exitcode.Success
}

// resolveTask parses args[0] as a task reference and looks it up in store.
func resolveTask(store *tasks.Store, args []string, errOut io.Writer) (service.Task, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		if errors.Is(err, ErrTaskRefRequired) {
			fmt.Fprintln(errOut, "error: task reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return service.Task{}, exitcode.UserError
	}

	task, err := ResolveTaskRef(store, ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError
	}
	return task, exitcode.Success
}

// finish reports the outcome of a store mutation and returns the exit code.
func finish(cfg *config.Config, out, errOut io.Writer, err error) int {
	switch {
	case err == nil:
		if !cfg.Quiet {
			fmt.Fprintln(out, "ok")
		}
		return exitcode.Success
	case errors.Is(err, tasks.ErrEmptyTitle):
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	case errors.Is(err, tasks.ErrTaskNotFound), errors.Is(err, service.ErrNotFound):
		fmt.Fprintln(errOut, "error: task not found")
		return exitcode.UserError
	case errors.Is(err, service.ErrAuth):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}
