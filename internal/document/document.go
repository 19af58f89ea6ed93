// Package document loads the JSON document a query runs against.
// Decode failures here are caller errors, never engine statuses.
package document

import (
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/jp/internal/jsonvalue"
)

// Read decodes a document from a reader.
func Read(r io.Reader) (*jsonvalue.Value, error) {
	doc, err := jsonvalue.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	return doc, nil
}

// Load decodes a document from a file, or from stdin when path is empty.
func Load(path string) (*jsonvalue.Value, error) {
	if path == "" {
		return Read(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	defer f.Close()

	doc, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, path)
	}
	return doc, nil
}
