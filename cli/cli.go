// Package cli provides the command-line interface for ui-shell.
// It exports Run() and RunWithHooks() to allow extension by wrapper projects.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version is the shell version (set via -ldflags).
var Version = "0.1.0"

// Hooks allows extending the CLI with additional commands.
type Hooks struct {
	// BeforeDispatch is called before command dispatch.
	// Return (handled=true, exitCode) to skip normal dispatch.
	BeforeDispatch func(command string, args []string) (handled bool, exitCode int)

	// Commands are added to the root command.
	Commands []*cobra.Command

	// CustomHelp returns additional help text to append.
	CustomHelp func() string

	// CustomVersion returns version info to append (optional).
	CustomVersion func() string
}

// ExitError carries a non-zero exit code out of a RunE handler.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Run executes the CLI with the given arguments.
// Returns exit code (0 = success, non-zero = error).
func Run(args []string) int {
	return RunWithHooks(args, nil)
}

// RunWithHooks executes CLI with extension hooks.
func RunWithHooks(args []string, hooks *Hooks) int {
	return run(args, hooks, os.Stdout, os.Stderr)
}

func run(args []string, hooks *Hooks, stdout, stderr io.Writer) int {
	if len(args) > 0 && hooks != nil && hooks.BeforeDispatch != nil {
		if handled, code := hooks.BeforeDispatch(args[0], args[1:]); handled {
			return code
		}
	}

	root := newRootCmd(hooks)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+err.Error())
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}

func newRootCmd(hooks *Hooks) *cobra.Command {
	long := TitleStyle.Render("ui-shell") + SubtitleStyle.Render(" - application shell for pluggable feature modules") + `

Feature modules declare a drawer entry and routes; the shell folds them into
one route table and one navigation drawer and serves both over HTTP,
WebSocket and MCP.

` + SubtitleStyle.Render("Examples:") + `
  ui-shell serve --port 8080 --modules modules/ --watch
  ui-shell inspect
  ui-shell resolve /nfc
  ui-shell validate modules/extra.hcl`
	if hooks != nil && hooks.CustomHelp != nil {
		long += "\n\n" + hooks.CustomHelp()
	}

	root := &cobra.Command{
		Use:           "ui-shell",
		Short:         "Application shell for pluggable feature modules",
		Long:          long,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// With no subcommand the root serves, as "serve" does.
	flags := bindConfigFlags(root)
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, flags)
	}

	root.AddCommand(
		newServeCmd(),
		newInspectCmd(),
		newResolveCmd(),
		newValidateCmd(),
		newMCPCmd(),
		newVersionCmd(hooks),
	)
	if hooks != nil {
		root.AddCommand(hooks.Commands...)
	}
	return root
}

func newVersionCmd(hooks *Hooks) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ui-shell v"+Version)
			if hooks != nil && hooks.CustomVersion != nil {
				fmt.Fprintln(cmd.OutOrStdout(), hooks.CustomVersion())
			}
		},
	}
}
