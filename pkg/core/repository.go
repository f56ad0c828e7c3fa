package core

import "context"

// Entry is a candidate document file found by a directory scan.
// ID is derived from the file name and is only a lookup key until the file
// is parsed.
type Entry struct {
	ID   string
	Path string
}

// SaveOptions controls a single Save.
type SaveOptions struct {
	// Backup copies the current file to "<path>.backup" before writing,
	// overwriting any earlier backup.
	Backup bool
}

// Repository defines the contract for loading and storing lesson documents.
// Adhering to this interface keeps the pipeline independent of the on-disk
// format (object literal source files, Markdown with frontmatter, ...).
type Repository interface {
	// List returns every candidate document, excluding the manifest.
	List(ctx context.Context) ([]Entry, error)

	// Get loads a document by ID. Unparseable files yield a *ParseError.
	Get(ctx context.Context, id string) (Document, error)

	// Save persists a document and re-validates what was written.
	// Validation findings are reported in WriteReport, not as errors.
	Save(ctx context.Context, doc Document, opts SaveOptions) (WriteReport, error)

	// Preview serializes and validates a document without touching storage.
	Preview(ctx context.Context, doc Document) (WriteReport, error)
}

// Watchable defines an interface for repositories that can report changes.
type Watchable interface {
	// Watch emits the IDs of documents whose files changed until ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
