package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jacoelho/jp/internal/ratelimit"
)

func TestWatchTriggersRun(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(file, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("writing document: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int64
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, file, ratelimit.New(0), func() error {
			runs.Add(1)
			return nil
		})
	}()

	// Give the watcher time to register before changing the file.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(file, []byte(`{"changed":true}`), 0o644); err != nil {
		t.Fatalf("rewriting document: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("watch never triggered a re-run")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(file, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("writing document: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int64
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, file, ratelimit.New(0), func() error {
			runs.Add(1)
			return nil
		})
	}()

	time.Sleep(200 * time.Millisecond)
	other := filepath.Join(dir, "other.json")
	if err := os.WriteFile(other, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("writing other file: %v", err)
	}

	time.Sleep(500 * time.Millisecond)
	if got := runs.Load(); got != 0 {
		t.Errorf("runs = %d, want 0 for unrelated file changes", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	ctx := context.Background()

	err := Watch(ctx, filepath.Join(t.TempDir(), "missing", "doc.json"), ratelimit.New(0), func() error {
		return nil
	})
	if err == nil {
		t.Error("Watch of a missing directory succeeded")
	}
}
