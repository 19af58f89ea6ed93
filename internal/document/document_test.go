package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jacoelho/jp/internal/jsonvalue"
)

func TestRead(t *testing.T) {
	doc, err := Read(strings.NewReader(`{"a":[1,2]}`))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if doc.Kind != jsonvalue.KindObject {
		t.Errorf("Kind = %v, want object", doc.Kind)
	}
}

func TestReadInvalidJSON(t *testing.T) {
	if _, err := Read(strings.NewReader(`{"a":`)); err == nil {
		t.Error("Read of truncated JSON succeeded")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(`[1,2,3]`), 0o644); err != nil {
		t.Fatalf("writing document: %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Len() != 3 {
		t.Errorf("Len = %d, want 3", doc.Len())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}

func TestLoadBadFileMentionsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{`), 0o644); err != nil {
		t.Fatalf("writing document: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load of malformed JSON succeeded")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not mention the file path", err)
	}
}
