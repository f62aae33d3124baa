package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"todoctl/internal/cli"
	"todoctl/internal/commands"
	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
	"todoctl/internal/testutil"
)

// isolate points the config directory at an empty temp dir and clears the
// environment overrides.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvBackend, "")
}

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

func run(t *testing.T, factory cli.ServiceFactory, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	isolate(t)
	return runIsolated(t, factory, args...)
}

// runIsolated runs the dispatcher without resetting the environment, for
// tests that set it up themselves after isolate.
func runIsolated(t *testing.T, factory cli.ServiceFactory, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var outBuf, errBuf bytes.Buffer
	code = dispatcher.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	stdout, stderr, code := run(t, nil, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !bytes.Contains([]byte(stdout), []byte("Usage:")) {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	stdout, stderr, code := run(t, nil, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todoctl 0.1.0 (rest backend)\n" {
		t.Errorf("unexpected version output %q", stdout)
	}
}

func TestDispatcher_BackendFlag(t *testing.T) {
	stdout, _, code := run(t, nil, "version", "--backend", "Google")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "todoctl 0.1.0 (google backend)\n" {
		t.Errorf("unexpected version output %q", stdout)
	}
}

func TestDispatcher_InvalidBackend(t *testing.T) {
	_, stderr, code := run(t, nil, "version", "--backend", "nope")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: unknown backend: nope\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, nil, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "list", "--filter")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -filter\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "Buy milk", false)
	svc.AddTask("t2", "Walk dog", true)

	stdout, stderr, code := run(t, testFactory(svc))

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	expected := "   1  [ ] Buy milk\n   2  [x] Walk dog\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestDispatcher_CommandFlags(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "Buy milk", false)
	svc.AddTask("t2", "Walk dog", true)

	stdout, _, code := run(t, testFactory(svc), "ls", "--filter", "done")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "   2  [x] Walk dog\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestDispatcher_QuietAdd(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := run(t, testFactory(svc), "add", "--quiet", "Read", "book")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "" {
		t.Errorf("expected no stdout with --quiet, got %q", stdout)
	}
	if got := svc.Snapshot(); len(got) != 1 || got[0].Title != "Read book" {
		t.Errorf("unexpected backend state %+v", got)
	}
}

func TestDispatcher_FactoryReceivesOverrides(t *testing.T) {
	var got *config.Config
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		got = cfg
		return testutil.NewFakeService(), nil
	}

	_, _, code := run(t, factory, "list", "--url", "http://example.test/items/", "--debug")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got == nil {
		t.Fatal("factory was not called")
	}
	if got.APIURL != "http://example.test/items/" {
		t.Errorf("APIURL = %q", got.APIURL)
	}
	if !got.Debug {
		t.Error("Debug not set")
	}
}

func TestDispatcher_FactoryNotCalledForLocalCommands(t *testing.T) {
	called := false
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		called = true
		return nil, errors.New("unreachable")
	}

	for _, name := range []string{"help", "version", "logout"} {
		if _, stderr, code := run(t, factory, name); code != exitcode.Success {
			t.Errorf("%s: exit code %d, stderr %q", name, code, stderr)
		}
	}
	if called {
		t.Error("factory should not be called for commands without a backend")
	}
}

func TestDispatcher_FactoryErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{
			name:     "auth",
			err:      fmt.Errorf("%w: not logged in: failed to read token.json (run: todoctl login)", service.ErrAuth),
			wantCode: exitcode.AuthError,
			wantErr:  "error: auth error: not logged in: failed to read token.json (run: todoctl login)\n",
		},
		{
			name:     "backend",
			err:      errors.New("invalid api url: ftp://x"),
			wantCode: exitcode.BackendError,
			wantErr:  "error: backend error: invalid api url: ftp://x\n",
		},
		{
			// Words like "auth" or "token" in a message do not make it an
			// auth error.
			name:     "backend mentioning auth",
			err:      errors.New("invalid api url: http://auth.example/token"),
			wantCode: exitcode.BackendError,
			wantErr:  "error: backend error: invalid api url: http://auth.example/token\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
				return nil, tt.err
			}
			_, stderr, code := run(t, factory, "list")
			if code != tt.wantCode {
				t.Errorf("expected exit code %d, got %d", tt.wantCode, code)
			}
			if stderr != tt.wantErr {
				t.Errorf("expected %q, got %q", tt.wantErr, stderr)
			}
		})
	}
}

func TestDispatcher_BackendFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errors.New("connection refused")

	_, stderr, code := run(t, testFactory(svc), "list")

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: connection refused\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// A bad backend from the environment or config.toml is replaced by the flag
// before anything checks it.
func TestDispatcher_BackendFlagOverridesBadSettings(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "Buy milk", false)

	t.Run("env", func(t *testing.T) {
		isolate(t)
		t.Setenv(config.EnvBackend, "bogus")

		stdout, stderr, code := runIsolated(t, testFactory(svc), "list", "--backend", "rest")
		if code != exitcode.Success {
			t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
		}
		if stdout != "   1  [ ] Buy milk\n" {
			t.Errorf("unexpected output %q", stdout)
		}
	})

	t.Run("config file", func(t *testing.T) {
		isolate(t)
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("backend = \"ftp\"\n"), 0644); err != nil {
			t.Fatal(err)
		}

		_, stderr, code := runIsolated(t, testFactory(svc), "list", "--config", dir, "--backend", "rest")
		if code != exitcode.Success {
			t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
		}
	})
}

func TestDispatcher_BadEnvBackend(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvBackend, "bogus")

	// help does not depend on the backend.
	stdout, stderr, code := runIsolated(t, nil, "help")
	if code != exitcode.Success {
		t.Errorf("help: expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if !bytes.Contains([]byte(stdout), []byte("Usage:")) {
		t.Error("help: expected usage output")
	}

	// Commands that reach the backend still reject it.
	_, stderr, code = runIsolated(t, testFactory(testutil.NewFakeService()), "list")
	if code != exitcode.AuthError {
		t.Errorf("list: expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: unknown backend: bogus\n" {
		t.Errorf("list: unexpected stderr %q", stderr)
	}
}
