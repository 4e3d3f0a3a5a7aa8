package artifact

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	log "github.com/go-pkgz/lgr"
)

// Watch reports changes of the artifact file until ctx is canceled.
// The directory is watched instead of the file itself to catch atomic replacements (write + rename)
// and creation of an initially missing artifact. Watch never reloads the artifact, loaded Handle stays as is.
func Watch(ctx context.Context, path string, onChange func(op fsnotify.Op)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("can't get absolute path for %s: %w", path, err)
	}
	if err = watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to add %s to watcher: %w", filepath.Dir(absPath), err)
	}
	log.Printf("[DEBUG] watching artifact %s", absPath)

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] stopping artifact watcher for %s, %v", path, ctx.Err())
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath || event.Op&relevant == 0 {
				continue
			}
			onChange(event.Op)
		case e, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] artifact watcher error: %v", e)
		}
	}
}
