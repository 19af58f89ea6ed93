// Package watch re-runs a query whenever the document file changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/jacoelho/jp/internal/ratelimit"
)

// Watch blocks until ctx is cancelled, invoking run after every write or
// create event on path. Re-runs are throttled by limiter; run errors are
// reported on stderr but do not stop watching.
//
// The parent directory is watched rather than the file itself: editors
// typically replace files atomically, which would otherwise drop the watch.
func Watch(ctx context.Context, path string, limiter *ratelimit.Limiter, run func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !matchesFile(event, absPath) {
				continue
			}
			if err := limiter.Wait(ctx); err != nil {
				return nil // context cancelled while throttled
			}
			if err := run(); err != nil {
				fmt.Fprintf(os.Stderr, "re-evaluation failed: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watcher error: %v\n", err)
		}
	}
}

func matchesFile(event fsnotify.Event, absPath string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}

	eventPath, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return eventPath == absPath
}
