package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/tasks"
	"ltask/internal/tui"
)

func init() {
	Register(&UICmd{run: tui.Run})
}

// UICmd starts the interactive terminal view.
type UICmd struct {
	completed bool
	run       func(ctx context.Context, mgr *tasks.Manager, opts tui.Options) error
}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return []string{"tui"} }
func (c *UICmd) Synopsis() string  { return "Open the interactive task view" }
func (c *UICmd) Usage() string     { return "ltask ui [--completed]" }
func (c *UICmd) NeedsStore() bool  { return true }
func (c *UICmd) Interactive() bool { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.completed, "completed", false, "")
	fs.BoolVar(&c.completed, "c", false, "")
}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, mgr *tasks.Manager, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	opts := tui.Options{ShowCompleted: c.completed, Output: out}
	if err := c.run(ctx, mgr, opts); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
