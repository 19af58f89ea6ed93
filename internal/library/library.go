// Package library reads saved-query records. A library is a YAML sequence
// of {title, query, output} entries; storage beyond reading a file is not
// this package's concern.
package library

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

const (
	OutputJSON = "json"
	OutputText = "text"
)

var (
	ErrEmptyTitle    = errors.New("library: entry title cannot be empty")
	ErrEmptyQuery    = errors.New("library: entry query cannot be empty")
	ErrUnknownOutput = errors.New("library: output must be \"json\" or \"text\"")
)

// Query is one saved query record.
type Query struct {
	Title  string `yaml:"title"`
	Query  string `yaml:"query"`
	Output string `yaml:"output,omitempty"` // defaults to "json" when empty
}

// AsJSON reports whether this entry renders results as JSON.
func (q Query) AsJSON() bool {
	return q.Output != OutputText
}

// Load decodes and validates a saved-query library.
func Load(r io.Reader) ([]Query, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read library: %w", err)
	}

	var entries []Query
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode library YAML: %w", err)
	}

	seen := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		if err := validate(entry); err != nil {
			return nil, fmt.Errorf("library entry %d: %w", i+1, err)
		}
		if _, ok := seen[entry.Title]; ok {
			return nil, fmt.Errorf("library: duplicate title %q", entry.Title)
		}
		seen[entry.Title] = struct{}{}
	}

	return entries, nil
}

// LoadFile reads a saved-query library from disk.
func LoadFile(path string) ([]Query, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Find returns the entry with the given title.
func Find(entries []Query, title string) (Query, bool) {
	for _, entry := range entries {
		if entry.Title == title {
			return entry, true
		}
	}
	return Query{}, false
}

func validate(q Query) error {
	if q.Title == "" {
		return ErrEmptyTitle
	}
	if q.Query == "" {
		return ErrEmptyQuery
	}
	switch q.Output {
	case "", OutputJSON, OutputText:
		return nil
	default:
		return fmt.Errorf("%w, got %q", ErrUnknownOutput, q.Output)
	}
}
