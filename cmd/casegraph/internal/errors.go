package internal

import (
	"context"
	"errors"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/graph"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// Process exit codes.
const (
	ExitSuccess          = 0
	ExitError            = 1
	ExitConfigError      = 2
	ExitStoreUnavailable = 3
	ExitTimeout          = 4
)

// CLIError is an error that already knows its exit code and the message to
// show the user. Cause is printed only with --verbose.
type CLIError struct {
	Code    int
	Message string
	Cause   error
}

func NewCLIError(code int, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

func WrapError(code int, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Cause: err}
}

func (e *CLIError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *CLIError) Unwrap() error { return e.Cause }

// HandleError prints err and returns the exit code for it. Store and
// generator details are only printed with --verbose.
func HandleError(cmd *cobra.Command, err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.Canceled):
		cmd.PrintErrln("Operation cancelled")
		return ExitError
	}

	code := ExitCode(err)
	cmd.PrintErrln("Error:", userFacing(err, code))

	if isVerboseFlag(cmd) && errors.Unwrap(err) != nil {
		cmd.PrintErrln("Cause:", errors.Unwrap(err))
	}
	return code
}

// ExitCode maps an error to the CLI exit code.
func ExitCode(err error) int {
	var cliErr *CLIError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cliErr):
		return cliErr.Code
	case graphrag.IsStoreUnavailable(err), graph.IsConnectionError(err):
		return ExitStoreUnavailable
	case errors.Is(err, context.DeadlineExceeded), graph.IsTimeout(err):
		return ExitTimeout
	case types.HasCode(err, types.CONFIG_LOAD_FAILED),
		types.HasCode(err, types.CONFIG_PARSE_FAILED),
		types.HasCode(err, types.CONFIG_VALIDATION_FAILED),
		types.HasCode(err, types.CONFIG_NOT_FOUND):
		return ExitConfigError
	default:
		return ExitError
	}
}

func userFacing(err error, code int) string {
	var cliErr *CLIError
	switch {
	case errors.As(err, &cliErr):
		return cliErr.Message
	case code == ExitStoreUnavailable, code == ExitTimeout:
		return graphrag.UserMessage(err)
	default:
		return err.Error()
	}
}

func isVerboseFlag(cmd *cobra.Command) bool {
	f := cmd.Flag("verbose")
	return f != nil && f.Changed
}

// IsVerbose reports verbose mode from CASEGRAPH_VERBOSE or the raw
// arguments. Panic recovery uses it before flags are parsed.
func IsVerbose() bool {
	return os.Getenv("CASEGRAPH_VERBOSE") != "" ||
		slices.Contains(os.Args[1:], "-v") ||
		slices.Contains(os.Args[1:], "--verbose")
}
