package cli_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"ltask/internal/cli"
	"ltask/internal/commands"
	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/storage"
	"ltask/internal/tasks"
	"ltask/internal/testutil"
)

func init() {
	color.NoColor = true
}

// testFactory creates a backend factory that always returns be.
func testFactory(be storage.Backend) cli.BackendFactory {
	return func(cfg *config.Config) (storage.Backend, error) {
		return be, nil
	}
}

func newDispatcher(be storage.Backend) *cli.Dispatcher {
	return cli.NewDispatcher(commands.DefaultRegistry, testFactory(be), testutil.NewSeqIDs(1))
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	// Point every run at a throwaway config dir unless the test picked one.
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		args = append([]string{args[0], "--config", t.TempDir()}, args[1:]...)
	}
	code = d.Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := newDispatcher(testutil.NewFakeBackend())

	_, stderr, code := run(t, d, "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	d := newDispatcher(testutil.NewFakeBackend())

	_, stderr, code := run(t, d, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	d := newDispatcher(testutil.NewFakeBackend())

	_, stderr, code := run(t, d, "list", "--bogus")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -bogus\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	d := newDispatcher(testutil.NewFakeBackend())

	var out, errOut bytes.Buffer
	code := d.Run(context.Background(), []string{"list", "--config"}, &out, &errOut)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -config\n"
	if errOut.String() != expected {
		t.Errorf("expected %q, got %q", expected, errOut.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	d := newDispatcher(nil)

	stdout, stderr, code := run(t, d, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
	if !strings.Contains(stdout, "ltask theme [dark|light|toggle]") {
		t.Error("expected help output to list the theme command")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	d := newDispatcher(nil)

	stdout, _, code := run(t, d, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ltask 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestDispatcher_NoArgsListsActive(t *testing.T) {
	be := testutil.NewFakeBackend()
	be.SetRaw("tasks", `[{"id":1,"text":"Buy milk"}]`)
	d := newDispatcher(be)

	var out, errOut bytes.Buffer
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	code := d.Run(context.Background(), nil, &out, &errOut)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (%s)", exitcode.Success, code, errOut.String())
	}
	if !strings.Contains(out.String(), "   1  [ ]  Buy milk\n") {
		t.Errorf("expected the active task, got %q", out.String())
	}
}

func TestDispatcher_Scenario(t *testing.T) {
	be := testutil.NewFakeBackend()
	d := newDispatcher(be)

	if _, stderr, code := run(t, d, "add", "Buy", "milk"); code != exitcode.Success {
		t.Fatalf("add: exit %d: %s", code, stderr)
	}
	if _, stderr, code := run(t, d, "done", "1"); code != exitcode.Success {
		t.Fatalf("done: exit %d: %s", code, stderr)
	}
	if _, stderr, code := run(t, d, "theme", "dark"); code != exitcode.Success {
		t.Fatalf("theme: exit %d: %s", code, stderr)
	}

	// Every run builds a fresh manager from the backend, so these read the
	// persisted state.
	stdout, _, _ := run(t, d, "list")
	if stdout != "no tasks found\n" {
		t.Errorf("expected empty active list, got %q", stdout)
	}
	stdout, _, _ = run(t, d, "list", "--completed")
	if !strings.Contains(stdout, "   1  [x]  Buy milk\n") {
		t.Errorf("expected completed task, got %q", stdout)
	}
	stdout, _, _ = run(t, d, "theme")
	if stdout != "dark\n" {
		t.Errorf("expected dark theme, got %q", stdout)
	}

	raw, _ := be.Raw("completedTasks")
	if raw != `[{"id":1,"text":"Buy milk"}]` {
		t.Errorf("unexpected stored completed tasks %s", raw)
	}
}

func TestDispatcher_StorageOpenError(t *testing.T) {
	factory := func(cfg *config.Config) (storage.Backend, error) {
		return nil, errors.New("disk on fire")
	}
	d := cli.NewDispatcher(commands.DefaultRegistry, factory, testutil.NewSeqIDs(1))

	_, stderr, code := run(t, d, "list")

	if code != exitcode.StorageError {
		t.Errorf("expected exit code %d, got %d", exitcode.StorageError, code)
	}
	expected := "error: storage error: disk on fire\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_InvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("backend = ["), 0o600); err != nil {
		t.Fatal(err)
	}
	d := newDispatcher(testutil.NewFakeBackend())

	var out, errOut bytes.Buffer
	code := d.Run(context.Background(), []string{"list", "--config", dir}, &out, &errOut)

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.HasPrefix(errOut.String(), "error: invalid config.toml") {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
}

func TestDispatcher_UnknownBackendFlag(t *testing.T) {
	d := newDispatcher(testutil.NewFakeBackend())

	_, stderr, code := run(t, d, "list", "--backend", "redis")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown backend: redis\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestOpenBackend_FileAndSQLite(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg, err := config.New(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			cfg.Backend = backend

			d := cli.NewDispatcher(commands.DefaultRegistry, cli.OpenBackend, testutil.NewSeqIDs(1))
			var out, errOut bytes.Buffer
			args := []string{"add", "--config", cfg.Dir, "--backend", backend, "persisted"}
			if code := d.Run(context.Background(), args, &out, &errOut); code != exitcode.Success {
				t.Fatalf("add: exit %d: %s", code, errOut.String())
			}

			out.Reset()
			args = []string{"list", "--config", cfg.Dir, "--backend", backend}
			if code := d.Run(context.Background(), args, &out, &errOut); code != exitcode.Success {
				t.Fatalf("list: exit %d: %s", code, errOut.String())
			}
			if !strings.Contains(out.String(), "persisted") {
				t.Errorf("expected persisted task, got %q", out.String())
			}
			if _, err := os.Stat(cfg.StorePath()); err != nil {
				t.Errorf("expected store at %s: %v", cfg.StorePath(), err)
			}
		})
	}
}

// sessionCmd is an interactive command that runs fn while it holds the store.
type sessionCmd struct {
	fn func(mgr *tasks.Manager)
}

func (c *sessionCmd) Name() string                   { return "session" }
func (c *sessionCmd) Aliases() []string              { return nil }
func (c *sessionCmd) Synopsis() string               { return "" }
func (c *sessionCmd) Usage() string                  { return "" }
func (c *sessionCmd) NeedsStore() bool               { return true }
func (c *sessionCmd) Interactive() bool              { return true }
func (c *sessionCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *sessionCmd) Run(ctx context.Context, cfg *config.Config, mgr *tasks.Manager, args []string, out, errOut io.Writer) int {
	c.fn(mgr)
	return exitcode.Success
}

func TestDispatcher_SessionHoldsStore(t *testing.T) {
	defer cli.SetLockWait(100 * time.Millisecond)()

	dir := t.TempDir()
	oneShot := cli.NewDispatcher(commands.DefaultRegistry, cli.OpenBackend, testutil.NewSeqIDs(100))
	runOneShot := func(args ...string) (string, string, int) {
		var out, errOut bytes.Buffer
		args = append([]string{args[0], "--config", dir}, args[1:]...)
		code := oneShot.Run(context.Background(), args, &out, &errOut)
		return out.String(), errOut.String(), code
	}

	var addCode, sessionCode int
	var addErr, sessionErr string
	session := &sessionCmd{}
	reg := commands.NewRegistry()
	if err := reg.Register(session); err != nil {
		t.Fatal(err)
	}
	d := cli.NewDispatcher(reg, cli.OpenBackend, testutil.NewSeqIDs(1))

	session.fn = func(mgr *tasks.Manager) {
		mgr.AddTask("from the session")
		_, addErr, addCode = runOneShot("add", "from the cli")

		// A second interactive session fails at once.
		var out, errOut bytes.Buffer
		session.fn = func(*tasks.Manager) { t.Error("second session must not run") }
		sessionCode = d.Run(context.Background(), []string{"session", "--config", dir}, &out, &errOut)
		sessionErr = errOut.String()

		mgr.AddTask("after the cli")
	}

	var out, errOut bytes.Buffer
	if code := d.Run(context.Background(), []string{"session", "--config", dir}, &out, &errOut); code != exitcode.Success {
		t.Fatalf("session: exit %d: %s", code, errOut.String())
	}

	busy := "error: storage error: " + cli.ErrStoreBusy.Error() + "\n"
	if addCode != exitcode.StorageError || addErr != busy {
		t.Errorf("add during session: exit %d, stderr %q", addCode, addErr)
	}
	if sessionCode != exitcode.StorageError || sessionErr != busy {
		t.Errorf("second session: exit %d, stderr %q", sessionCode, sessionErr)
	}

	// Once the session ends the one-shot command goes through and nothing
	// written by the session is lost.
	if _, stderr, code := runOneShot("add", "from the cli"); code != exitcode.Success {
		t.Fatalf("add after session: exit %d: %s", code, stderr)
	}
	stdout, _, _ := runOneShot("list")
	for _, want := range []string{"from the session", "after the cli", "from the cli"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in list, got %q", want, stdout)
		}
	}
}
