// Package exit carries process termination state between the CLI layers.
package exit

import (
	"fmt"
	"io"
	"os"
)

// Exit codes reported by the jp binary.
const (
	CodeOK           = 0 // evaluation succeeded, even with no matches
	CodeError        = 1 // usage or document errors
	CodeInvalidQuery = 2 // the query string could not be parsed
	CodeEngineError  = 3 // unexpected internal fault during evaluation
)

// Result holds the output destination and exit code for program termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the result message to the configured output destination.
func (r *Result) Print() {
	fmt.Fprint(r.Output, r.Message)
}

// Success creates a successful exit result that outputs to stdout.
func Success(message string) *Result {
	return &Result{
		Output:   os.Stdout,
		ExitCode: CodeOK,
		Message:  message,
	}
}

// Error creates an error exit result that outputs to stderr.
func Error(message string) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: CodeError,
		Message:  message,
	}
}

// Errorf creates an error exit result with formatted message.
func Errorf(format string, a ...any) *Result {
	return Error(fmt.Sprintf(format, a...))
}
