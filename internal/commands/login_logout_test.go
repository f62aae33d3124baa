package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todoctl/internal/commands"
	"todoctl/internal/config"
	"todoctl/internal/exitcode"
)

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

// googleDir returns a config dir holding the given oauth_client.json and
// token.json contents; empty strings skip the file.
func googleDir(t *testing.T, oauthClient, token string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		config.OAuthClientFile: oauthClient,
		config.TokenFile:       token,
	}
	for name, body := range files {
		if body == "" {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func runIn(t *testing.T, ctx context.Context, cmd commands.Command, dir string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: dir, Backend: config.BackendGoogle, Quiet: quiet}
	code = cmd.Run(ctx, cfg, nil, nil, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestLoginCommand_NoOAuthClient(t *testing.T) {
	dir := googleDir(t, "", "")
	stdout, stderr, code := runIn(t, context.Background(), &commands.LoginCmd{}, dir, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.HasPrefix(stderr, "error: oauth_client.json not found in "+dir) {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if !strings.Contains(stderr, filepath.Join(dir, config.OAuthClientFile)) {
		t.Error("setup help should name the expected oauth_client.json path")
	}
}

func TestLoginCommand_InvalidOAuthClient(t *testing.T) {
	dir := googleDir(t, `{"web":`, "")
	_, stderr, code := runIn(t, context.Background(), &commands.LoginCmd{}, dir, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr, "error: auth error: invalid oauth_client.json") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// A stored token that cannot be used must start a fresh login rather than
// report "already logged in".
func TestLoginCommand_UnusableToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"corrupt", `{"access_token":`},
		{"no refresh token", `{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := googleDir(t, testOAuthClient, tt.token)

			// Cancelled up front so the flow stops before waiting on the browser.
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			stdout, stderr, code := runIn(t, ctx, &commands.LoginCmd{}, dir, false)

			if stdout == "already logged in\n" {
				t.Fatal("should not report an existing login")
			}
			if code != exitcode.AuthError {
				t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
			}
			if !strings.HasSuffix(stderr, "error: cancelled\n") && !strings.Contains(stderr, "local port") {
				t.Errorf("unexpected stderr %q", stderr)
			}
		})
	}
}

func TestLogoutCommand_OnlyRemovesToken(t *testing.T) {
	dir := googleDir(t, testOAuthClient, `{"access_token":"test","refresh_token":"test"}`)

	stdout, stderr, code := runIn(t, context.Background(), &commands.LogoutCmd{}, dir, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, config.TokenFile)); !os.IsNotExist(err) {
		t.Error("token.json should have been deleted")
	}
	if _, err := os.Stat(filepath.Join(dir, config.OAuthClientFile)); err != nil {
		t.Error("oauth_client.json should NOT have been deleted")
	}
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	tests := []struct {
		quiet bool
		want  string
	}{
		{false, "not logged in\n"},
		{true, ""},
	}

	for _, tt := range tests {
		stdout, stderr, code := runIn(t, context.Background(), &commands.LogoutCmd{}, t.TempDir(), tt.quiet)

		if code != exitcode.Success {
			t.Errorf("quiet=%v: expected exit code %d, got %d", tt.quiet, exitcode.Success, code)
		}
		if stderr != "" {
			t.Errorf("quiet=%v: expected no stderr, got %q", tt.quiet, stderr)
		}
		if stdout != tt.want {
			t.Errorf("quiet=%v: expected %q, got %q", tt.quiet, tt.want, stdout)
		}
	}
}
