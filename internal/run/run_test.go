package run

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jacoelho/jp/internal/config"
	"github.com/jacoelho/jp/internal/exit"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func newTestRunner(cfg *config.Config, expr string, asJSON bool) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	r := &Runner{
		cfg:    cfg,
		expr:   expr,
		asJSON: asJSON,
		stdout: &stdout,
		stderr: &stderr,
	}
	return r, &stdout, &stderr
}

func TestEvaluateOnceJSON(t *testing.T) {
	doc := writeTempFile(t, "doc.json", `{"items":[{"price":5},{"price":15}]}`)

	r, stdout, stderr := newTestRunner(&config.Config{DocumentFile: doc}, "$.items[?(@.price > 10)]", true)
	if code := r.evaluateOnce(); code != exit.CodeOK {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}

	expect := "[\n  {\n    \"price\": 15\n  }\n]\n"
	if stdout.String() != expect {
		t.Errorf("stdout = %q, want %q", stdout.String(), expect)
	}
}

func TestEvaluateOnceText(t *testing.T) {
	doc := writeTempFile(t, "doc.json", `{"names":["ana","bo"]}`)

	r, stdout, _ := newTestRunner(&config.Config{DocumentFile: doc}, "$.names[*]", false)
	if code := r.evaluateOnce(); code != exit.CodeOK {
		t.Fatalf("exit code = %d", code)
	}

	if stdout.String() != "ana\nbo\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestEvaluateOnceNoMatchesText(t *testing.T) {
	doc := writeTempFile(t, "doc.json", `{}`)

	r, stdout, _ := newTestRunner(&config.Config{DocumentFile: doc}, "$.missing", false)
	if code := r.evaluateOnce(); code != exit.CodeOK {
		t.Fatalf("exit code = %d, want success for empty match set", code)
	}

	if stdout.String() != "" {
		t.Errorf("stdout = %q, want no output in text mode", stdout.String())
	}
}

func TestEvaluateOnceNoMatchesJSON(t *testing.T) {
	doc := writeTempFile(t, "doc.json", `{}`)

	r, stdout, _ := newTestRunner(&config.Config{DocumentFile: doc}, "$.missing", true)
	if code := r.evaluateOnce(); code != exit.CodeOK {
		t.Fatalf("exit code = %d", code)
	}

	if stdout.String() != "[]\n" {
		t.Errorf("stdout = %q, want empty JSON array", stdout.String())
	}
}

func TestEvaluateOnceInvalidQuery(t *testing.T) {
	doc := writeTempFile(t, "doc.json", `{}`)

	r, _, stderr := newTestRunner(&config.Config{DocumentFile: doc}, "$[", true)
	if code := r.evaluateOnce(); code != exit.CodeInvalidQuery {
		t.Fatalf("exit code = %d, want %d", code, exit.CodeInvalidQuery)
	}

	if !bytes.Contains(stderr.Bytes(), []byte("Invalid query")) {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestEvaluateOnceBadDocument(t *testing.T) {
	doc := writeTempFile(t, "doc.json", `{"a":`)

	r, _, stderr := newTestRunner(&config.Config{DocumentFile: doc}, "$", true)
	if code := r.evaluateOnce(); code != exit.CodeError {
		t.Fatalf("exit code = %d, want %d", code, exit.CodeError)
	}

	if stderr.Len() == 0 {
		t.Error("expected a document error on stderr")
	}
}

func TestNewResolvesSavedQuery(t *testing.T) {
	lib := writeTempFile(t, "lib.yaml", "- title: names\n  query: \"$.names[*]\"\n  output: text\n")

	cfg := &config.Config{LibraryFile: lib, SavedTitle: "names"}
	r, exitResult := New(cfg)
	if exitResult != nil {
		t.Fatalf("New failed: %s", exitResult.Message)
	}

	if r.expr != "$.names[*]" {
		t.Errorf("expr = %q", r.expr)
	}
	if r.asJSON {
		t.Error("saved text output ignored")
	}
}

func TestNewSavedQueryNotFound(t *testing.T) {
	lib := writeTempFile(t, "lib.yaml", "- title: names\n  query: $.a\n")

	_, exitResult := New(&config.Config{LibraryFile: lib, SavedTitle: "other"})
	if exitResult == nil {
		t.Fatal("New succeeded for a missing saved query")
	}
	if exitResult.ExitCode != exit.CodeError {
		t.Errorf("ExitCode = %d, want %d", exitResult.ExitCode, exit.CodeError)
	}
}

func TestNewExpandsTemplate(t *testing.T) {
	cfg := &config.Config{Query: `$.{{lower "NAMES"}}`}

	r, exitResult := New(cfg)
	if exitResult != nil {
		t.Fatalf("New failed: %s", exitResult.Message)
	}
	if r.expr != "$.names" {
		t.Errorf("expr = %q, want expanded template", r.expr)
	}
}
