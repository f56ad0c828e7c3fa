package fs

import (
	"context"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

const (
	// DebounceInterval coalesces bursts of events for the same document.
	DebounceInterval = 100 * time.Millisecond
	// ownWriteWindow is how long events caused by our own writes are ignored.
	ownWriteWindow = 2 * time.Second
)

// Watch emits the id of every document whose file changes, debounced.
// Backups, temp files, the manifest and the repository's own writes are
// ignored. The channel is closed when ctx is done.
func (r *Repository) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := r.addDirs(watcher); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	out := make(chan string)
	r.setWatcherActive(true)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer r.setWatcherActive(false)
		defer watcher.Close()
		return r.watchLoop(ctx, watcher, out)
	}, lifecycle.WithErrorHandler(func(err error) {
		r.handleError(fmt.Errorf("watcher: %w", err))
	}))
	return out, nil
}

func (r *Repository) addDirs(watcher *fsnotify.Watcher) error {
	if !r.config.Recursive {
		return watcher.Add(r.Path)
	}
	return filepath.WalkDir(r.Path, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != r.Path && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// watchLoop owns the pending set; ids are sent once they have been quiet for
// DebounceInterval.
func (r *Repository) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, out chan<- string) error {
	ticker := time.NewTicker(DebounceInterval / 2)
	defer ticker.Stop()

	pending := map[string]time.Time{}
	var order []string

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if r.config.Recursive && event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
					continue
				}
			}
			id, ok := r.resolveEvent(event)
			if !ok {
				continue
			}
			r.config.Logger.Debug("document changed", "id", id, "path", event.Name, "op", event.Op.String())
			if _, queued := pending[id]; !queued {
				order = append(order, id)
			}
			pending[id] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			r.handleError(err)

		case now := <-ticker.C:
			var rest []string
			for _, id := range order {
				if now.Sub(pending[id]) < DebounceInterval {
					rest = append(rest, id)
					continue
				}
				delete(pending, id)
				select {
				case out <- id:
				case <-ctx.Done():
					return nil
				}
			}
			order = rest
		}
	}
}

// resolveEvent maps a filesystem event to a document id.
func (r *Repository) resolveEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	if isScratch(event.Name) || r.ownWrite(event.Name, ownWriteWindow) {
		return "", false
	}
	rel, err := filepath.Rel(r.Path, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if r.isManifest(rel) {
		return "", false
	}

	if c, ok := r.format.serializer.(Companion); ok && c.IsCompanion(filepath.Base(rel)) {
		stem := strings.TrimSuffix(rel, filepath.Ext(rel))
		main := stem[:strings.LastIndexByte(stem, '.')]
		if _, err := os.Stat(filepath.Join(r.Path, filepath.FromSlash(main)+filepath.Ext(rel))); err == nil {
			return main, true
		}
	}
	if !r.candidate(rel) {
		return "", false
	}
	return strings.TrimSuffix(rel, filepath.Ext(rel)), true
}

func (r *Repository) handleError(err error) {
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
		return
	}
	r.config.Logger.Error("watch error", "error", err)
}
