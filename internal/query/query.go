// Package query is the entry point into the evaluation engine. It turns a
// query string and a document into a classified result so callers can tell
// a syntax problem apart from a query that simply found nothing.
package query

import (
	"fmt"

	"github.com/jacoelho/jp/internal/jsonpath"
	"github.com/jacoelho/jp/internal/jsonvalue"
)

// Status classifies the outcome of an evaluation.
type Status int

const (
	// StatusSuccess means the query parsed and evaluated; Matches may be empty.
	StatusSuccess Status = iota
	// StatusInvalidQuery means the query string could not be parsed.
	StatusInvalidQuery
	// StatusEngineError means evaluation hit an unexpected internal fault.
	StatusEngineError
)

// String returns the status name for diagnostics.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusInvalidQuery:
		return "invalid query"
	case StatusEngineError:
		return "engine error"
	default:
		return "unknown"
	}
}

// Result is the classified outcome of one evaluation.
type Result struct {
	Status     Status
	Matches    []*jsonvalue.Value // populated on StatusSuccess, in discovery order
	Diagnostic string             // parse error or internal fault description
}

// Evaluate compiles expr and evaluates it against doc. It never panics:
// parse failures are reported as StatusInvalidQuery and any internal fault
// is recovered into StatusEngineError.
func Evaluate(expr string, doc *jsonvalue.Value) Result {
	path, err := jsonpath.Compile(expr)
	if err != nil {
		return Result{Status: StatusInvalidQuery, Diagnostic: err.Error()}
	}

	return evaluatePath(path, doc)
}

func evaluatePath(path *jsonpath.Path, doc *jsonvalue.Value) Result {
	matches, err := selectRecovering(path, doc)
	if err != nil {
		return Result{Status: StatusEngineError, Diagnostic: err.Error()}
	}

	return Result{Status: StatusSuccess, Matches: matches}
}

// selectRecovering shields callers from engine faults: a panic during
// traversal becomes an error instead of crossing the package boundary.
func selectRecovering(path *jsonpath.Path, doc *jsonvalue.Value) (matches []*jsonvalue.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches = nil
			err = fmt.Errorf("internal error during evaluation: %v", r)
		}
	}()

	return path.Select(doc), nil
}
