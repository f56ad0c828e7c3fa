package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path           string     `json:"path"`
	Format         string     `json:"format"`
	Extensions     []string   `json:"extensions"`
	Manifest       string     `json:"manifest"`
	ManageManifest bool       `json:"manage_manifest"`
	Recursive      bool       `json:"recursive"`
	ReadOnly       bool       `json:"read_only"`
	WatcherActive  bool       `json:"watcher_active"`
	Writes         int        `json:"writes"`
	Backups        int        `json:"backups"`
	LastWrite      *time.Time `json:"last_write,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Path:           r.Path,
		Format:         r.config.Format,
		Extensions:     append([]string(nil), r.format.extensions...),
		Manifest:       r.manifestName(),
		ManageManifest: r.config.ManageManifest,
		Recursive:      r.config.Recursive,
		ReadOnly:       r.config.ReadOnly,
		WatcherActive:  r.watcherActive,
		Writes:         r.writes,
		Backups:        r.backups,
		LastWrite:      r.lastWrite,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}
