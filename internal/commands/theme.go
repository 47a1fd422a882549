package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/output"
	"ltask/internal/tasks"
)

func init() {
	Register(&ThemeCmd{})
}

// ThemeCmd prints or changes the theme flag.
type ThemeCmd struct{}

func (c *ThemeCmd) Name() string      { return "theme" }
func (c *ThemeCmd) Aliases() []string { return nil }
func (c *ThemeCmd) Synopsis() string  { return "Print or set the theme" }
func (c *ThemeCmd) Usage() string     { return "ltask theme [dark|light|toggle]" }
func (c *ThemeCmd) NeedsStore() bool  { return true }

func (c *ThemeCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ThemeCmd) Run(ctx context.Context, cfg *config.Config, mgr *tasks.Manager, args []string, out, errOut io.Writer) int {
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}

	// No argument: report the current theme even in quiet mode.
	if len(args) == 0 {
		fmt.Fprintln(out, output.ThemeName(mgr.DarkMode()))
		return exitcode.Success
	}

	switch args[0] {
	case "dark":
		mgr.SetTheme(true)
	case "light":
		mgr.SetTheme(false)
	case "toggle":
		mgr.ToggleTheme()
	default:
		fmt.Fprintf(errOut, "error: invalid theme: %s\n", args[0])
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, output.ThemeName(mgr.DarkMode()))
	}
	return exitcode.Success
}
