package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/iksnae/captain-session/internal"
	"github.com/iksnae/captain-session/internal/api"
	"github.com/iksnae/captain-session/testutil"
	"github.com/spf13/cobra"
)

// testEnv points the CLI at a fake backend and a private state database
type testEnv struct {
	backend *testutil.FakeBackend
	state   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := testutil.CreateTempDir(t)
	t.Setenv("HOME", home)
	t.Setenv("CAPTAIN_BASE_URL", "")
	t.Setenv("CAPTAIN_STATE_PATH", "")
	return &testEnv{
		backend: testutil.NewFakeBackend(t),
		state:   filepath.Join(home, "state.db"),
	}
}

// run executes the CLI once, resetting command flags first
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.runContext(t, context.Background(), args...)
}

// runContext is run with the command context set to ctx
func (e *testEnv) runContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	setContext(rootCmd, ctx)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(append([]string{"--api", e.backend.URL(), "--state", e.state}, args...))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	err := rootCmd.ExecuteContext(ctx)
	return stdout.String(), err
}

// setContext replaces the context cobra kept on every command from an
// earlier execution
func setContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, sub := range cmd.Commands() {
		setContext(sub, ctx)
	}
}

func resetFlags() {
	configPath = ""
	limit = 0
	category = internal.DefaultCategory
	loginName = ""
	loginEmail = ""
	bill = api.BillRequest{}
	format = "jsonl"
	outputDir = "./exports"
	exportAll = false
	healthcheckVerbose = false
}
