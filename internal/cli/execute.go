package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
)

// Exit codes returned by Execute.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitClientError = 2
	ExitInterrupted = 130
)

// Execute runs the blockify command line with args and returns the process
// exit code. Errors are reported on stderr, without their code unless the
// log level is debug.
func Execute(ctx context.Context, args []string, stderr io.Writer) int {
	c := New(stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(stderr)
	root.SilenceErrors = true

	var verbose, quiet bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log errors only")

	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := resolveLevel(verbose, quiet, os.Getenv(logLevelEnv))
		if err != nil {
			return err
		}
		c.SetLogLevel(level)
		return loadConfig(cmd, args)
	}

	err := root.ExecuteContext(ctx)
	if err != nil && !stderrors.Is(err, context.Canceled) {
		msg := errors.UserMessage(err)
		if c.Logger.GetLevel() <= LogDebug {
			msg = err.Error()
		}
		fmt.Fprintf(stderr, "%s: %s\n", appName, msg)
	}
	return exitCode(err)
}

// exitCode maps err to a process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.IsClientError(err):
		return ExitClientError
	default:
		return ExitFailure
	}
}
