// Package run wires configuration, document loading, evaluation and
// formatting into the jp command.
package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jacoelho/jp/internal/config"
	"github.com/jacoelho/jp/internal/document"
	"github.com/jacoelho/jp/internal/exit"
	"github.com/jacoelho/jp/internal/format"
	"github.com/jacoelho/jp/internal/library"
	"github.com/jacoelho/jp/internal/query"
	"github.com/jacoelho/jp/internal/ratelimit"
	"github.com/jacoelho/jp/internal/template"
	"github.com/jacoelho/jp/internal/watch"
)

// Runner executes one resolved query against a document source.
type Runner struct {
	cfg    *config.Config
	expr   string
	asJSON bool
	stdout io.Writer
	stderr io.Writer
}

// New resolves the query to run (inline or saved) and its output format.
func New(cfg *config.Config) (*Runner, *exit.Result) {
	saved := library.Query{Query: cfg.Query}

	if cfg.SavedTitle != "" {
		entries, err := library.LoadFile(cfg.LibraryFile)
		if err != nil {
			return nil, exit.Errorf("Error: %v\n", err)
		}

		entry, ok := library.Find(entries, cfg.SavedTitle)
		if !ok {
			return nil, exit.Errorf("Error: saved query %q not found in %s\n", cfg.SavedTitle, cfg.LibraryFile)
		}
		saved = entry
	}

	expr, err := template.Expand(saved.Query)
	if err != nil {
		return nil, exit.Errorf("Error: %v\n", err)
	}

	return &Runner{
		cfg:    cfg,
		expr:   expr,
		asJSON: cfg.AsJSON(saved),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}, nil
}

// Run evaluates once, then keeps re-evaluating on document changes when
// watch mode is enabled. It returns the process exit code.
func (r *Runner) Run(ctx context.Context) int {
	code := r.evaluateOnce()

	if !r.cfg.Watch {
		return code
	}

	limiter := ratelimit.New(r.cfg.RateLimit)
	err := watch.Watch(ctx, r.cfg.DocumentFile, limiter, func() error {
		r.evaluateOnce()
		return nil // diagnostics already printed, keep watching
	})
	if err != nil {
		fmt.Fprintf(r.stderr, "Error: %v\n", err)
		return exit.CodeError
	}

	return exit.CodeOK
}

func (r *Runner) evaluateOnce() int {
	start := time.Now()

	doc, err := document.Load(r.cfg.DocumentFile)
	if err != nil {
		fmt.Fprintf(r.stderr, "Error: %v\n", err)
		return exit.CodeError
	}

	result := query.Evaluate(r.expr, doc)
	switch result.Status {
	case query.StatusInvalidQuery:
		fmt.Fprintf(r.stderr, "Invalid query: %s\n", result.Diagnostic)
		return exit.CodeInvalidQuery
	case query.StatusEngineError:
		fmt.Fprintf(r.stderr, "Evaluation failed: %s\n", result.Diagnostic)
		return exit.CodeEngineError
	}

	if r.cfg.Debug {
		fmt.Fprintf(r.stderr, "query %s matched %d node(s) in %s\n",
			r.expr, len(result.Matches), time.Since(start).Round(time.Microsecond))
	}

	out := format.Format(result.Matches, r.asJSON)
	if out != "" || r.asJSON {
		fmt.Fprintln(r.stdout, out)
	}

	return exit.CodeOK
}
