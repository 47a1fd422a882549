package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"ltask/internal/commands"
	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/logging"
	"ltask/internal/storage"
	"ltask/internal/tasks"
)

// BackendFactory opens the storage backend selected by cfg.
// Used to inject the backend during dispatch.
type BackendFactory func(cfg *config.Config) (storage.Backend, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  BackendFactory
	ids      tasks.IDSource
}

// NewDispatcher creates a new dispatcher with the given registry, backend
// factory and ID source.
func NewDispatcher(registry *commands.Registry, factory BackendFactory, ids tasks.IDSource) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		ids:      ids,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir, backend string
	var quiet, debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&backend, "backend", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	// Create config
	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	if backend != "" {
		if backend != config.BackendFile && backend != config.BackendSQLite {
			fmt.Fprintf(errOut, "error: unknown backend: %s\n", backend)
			return exitcode.UserError
		}
		cfg.Backend = backend
	}

	if !cmd.NeedsStore() {
		return cmd.Run(ctx, cfg, nil, positionalArgs, out, errOut)
	}

	log, closeLog := d.logger(cmd, cfg, errOut)
	defer closeLog()

	lock, err := lockStore(ctx, cfg, isInteractive(cmd))
	if err != nil {
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.StorageError
	}
	defer func() { _ = lock.Unlock() }()

	be, err := d.factory(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.StorageError
	}
	defer func() {
		if err := be.Close(); err != nil {
			log.WithError(err).Warn("close store")
		}
	}()

	log.WithFields(logrus.Fields{
		"command": cmd.Name(),
		"backend": cfg.Backend,
		"path":    cfg.StorePath(),
	}).Debug("store opened")

	mgr := tasks.New(storage.NewAdapter(be, log), d.ids, tasks.WithLogger(log))
	return cmd.Run(ctx, cfg, mgr, positionalArgs, out, errOut)
}

// logger picks stderr logging for one-shot commands and the rotating log
// file for commands that own the terminal.
func (d *Dispatcher) logger(cmd commands.Command, cfg *config.Config, errOut io.Writer) (*logrus.Logger, func()) {
	if isInteractive(cmd) {
		if err := cfg.EnsureDir(); err == nil {
			log, w := logging.NewFile(cfg)
			return log, func() { _ = w.Close() }
		}
	}
	return logging.NewStderr(errOut, cfg.Debug), func() {}
}

func isInteractive(cmd commands.Command) bool {
	ic, ok := cmd.(commands.Interactive)
	return ok && ic.Interactive()
}

// flagError rewrites flag package errors into the CLI's message style.
func flagError(err error) string {
	errStr := err.Error()

	// Missing flag value
	if strings.HasPrefix(errStr, "flag needs an argument:") {
		return errStr
	}

	// Unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimPrefix(errStr, "flag provided but not defined: ")
	}

	return errStr
}
