// Package config parses command-line arguments for the jp binary.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/jp/internal/exit"
	"github.com/jacoelho/jp/internal/library"
)

var (
	ErrNoArguments      = errors.New("no arguments provided")
	ErrNoQuery          = errors.New("no query provided, use -q or -l with -s")
	ErrQueryConflict    = errors.New("-q and -s are mutually exclusive")
	ErrSavedWithoutFile = errors.New("-s requires a library file (-l)")
	ErrInvalidOutput    = errors.New("output must be \"json\" or \"text\"")
	ErrTooManyFiles     = errors.New("at most one document file may be given")
	ErrWatchNeedsFile   = errors.New("-w requires a document file (stdin cannot be watched)")
)

// Config represents the complete configuration for the jp tool.
type Config struct {
	// Query selection
	Query       string // inline query expression
	LibraryFile string // saved-query library path
	SavedTitle  string // title of the saved query to run

	// Output
	Output string // "json", "text", or "" for the saved query's choice
	Debug  bool

	// Document
	DocumentFile string // empty means stdin

	// Watch mode
	Watch     bool
	RateLimit float64 // re-evaluations per second (0 = unlimited)
}

// AsJSON resolves the output format, deferring to the saved query when no
// explicit -o flag was given.
func (c *Config) AsJSON(saved library.Query) bool {
	switch c.Output {
	case library.OutputText:
		return false
	case library.OutputJSON:
		return true
	default:
		return saved.AsJSON()
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Query == "" && c.SavedTitle == "" {
		return ErrNoQuery
	}
	if c.Query != "" && c.SavedTitle != "" {
		return ErrQueryConflict
	}
	if c.SavedTitle != "" && c.LibraryFile == "" {
		return ErrSavedWithoutFile
	}

	switch c.Output {
	case "", library.OutputJSON, library.OutputText:
	default:
		return fmt.Errorf("%w, got %q", ErrInvalidOutput, c.Output)
	}

	if c.LibraryFile != "" {
		if _, err := os.Stat(c.LibraryFile); err != nil {
			return fmt.Errorf("library file %s not found: %w", c.LibraryFile, err)
		}
	}

	if c.Watch && c.DocumentFile == "" {
		return ErrWatchNeedsFile
	}
	if c.DocumentFile != "" {
		if _, err := os.Stat(c.DocumentFile); err != nil {
			return fmt.Errorf("document file %s not found: %w", c.DocumentFile, err)
		}
	}

	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage and error output since we handle both ourselves
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		queryExpr   = fs.String("q", "", "JSONPath query expression to evaluate")
		libraryFile = fs.String("l", "", "Path to a YAML saved-query library")
		savedTitle  = fs.String("s", "", "Title of the saved query to run (requires -l)")
		output      = fs.String("o", "", "Output format: json or text (default json, or the saved query's choice)")
		watch       = fs.Bool("w", false, "Re-evaluate whenever the document file changes")
		rateLimit   = fs.Float64("rate", 0, "Maximum re-evaluations per second in watch mode (0 for unlimited)")
		debug       = fs.Bool("debug", false, "Print the resolved query and match count to stderr")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	files := fs.Args()
	if len(files) > 1 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrTooManyFiles, Usage())
	}

	cfg := &Config{
		Query:       *queryExpr,
		LibraryFile: *libraryFile,
		SavedTitle:  *savedTitle,
		Output:      *output,
		Watch:       *watch,
		RateLimit:   *rateLimit,
		Debug:       *debug,
	}
	if len(files) == 1 {
		cfg.DocumentFile = files[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return cfg, nil
}

// Usage returns the command-line usage text.
func Usage() string {
	return `jp - evaluate JSONPath queries against JSON documents

Usage:
  jp -q <query> [options] [document.json]
  jp -l <library.yaml> -s <title> [options] [document.json]

The document is read from stdin when no file is given.

Options:
  -q <query>    JSONPath query expression, e.g. '$.items[?(@.price > 10)]'
  -l <file>     YAML saved-query library
  -s <title>    run the saved query with this title (requires -l)
  -o <format>   output format: json (indented array) or text (one match per line)
  -w            watch the document file and re-evaluate on change
  -rate <n>     maximum re-evaluations per second in watch mode
  -debug        print the resolved query and match count to stderr
  -h            show this help

Exit codes:
  0  success (including queries that match nothing)
  1  usage or document error
  2  invalid query
  3  internal evaluation error
`
}
