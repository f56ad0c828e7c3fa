package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/lessonkit/pkg/core"
)

// Repository implements core.Repository on a directory of lesson files.
type Repository struct {
	Path   string
	config Config
	format format

	mu            sync.RWMutex
	watcherActive bool
	writes        int
	backups       int
	lastWrite     *time.Time
	ownWrites     map[string]time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path string
	// Format is FormatLiteral (default) or FormatMarkdown.
	Format string
	// Extension overrides the extension used for new files (e.g. ".js").
	Extension string
	// Recursive walks subdirectories.
	Recursive bool
	// Include is an optional doublestar pattern, relative to Path, that
	// candidate files must match (e.g. "lessons/**/*.ts").
	Include string
	// Manifest overrides the manifest file name excluded from scans.
	Manifest string
	// ManageManifest rewrites the manifest after every save.
	ManageManifest bool
	// SecondaryLocale is the secondary locale tag (default "ko").
	SecondaryLocale string
	ReadOnly        bool
	MustExist       bool
	Logger          *slog.Logger
	ErrorHandler    func(error)
}

// NewRepository creates a filesystem repository.
func NewRepository(config Config) (*Repository, error) {
	f, err := lookupFormat(config.Format, config.SecondaryLocale)
	if err != nil {
		return nil, err
	}
	if config.Format == "" {
		config.Format = FormatLiteral
	}
	if config.Extension != "" {
		ext := config.Extension
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !slices.Contains(f.extensions, ext) {
			return nil, fmt.Errorf("extension %s is not supported by the %s format", ext, config.Format)
		}
		f.extensions = append([]string{ext}, slices.DeleteFunc(slices.Clone(f.extensions), func(e string) bool { return e == ext })...)
	}
	if config.Manifest != "" {
		f.manifest = config.Manifest
	}
	if config.Include != "" && !doublestar.ValidatePattern(config.Include) {
		return nil, fmt.Errorf("invalid include pattern %q", config.Include)
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		Path:      config.Path,
		config:    config,
		format:    f,
		ownWrites: make(map[string]time.Time),
	}, nil
}

// Initialize checks (or creates) the lesson directory.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("lesson path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("lesson path is not a directory: %s", r.Path)
		}
		return nil
	}
	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create lesson directory: %w", err)
	}
	return nil
}

// Serializer returns the serializer of the configured format.
func (r *Repository) Serializer() Serializer {
	return r.format.serializer
}

// manifestName is the manifest file for this format and extension.
func (r *Repository) manifestName() string {
	if filepath.Ext(r.format.manifest) != "" {
		return r.format.manifest
	}
	return r.format.manifest + r.format.extensions[0]
}

// isManifest reports whether rel (slash separated, relative to Path) is a
// manifest. Literal manifests are excluded under every supported extension.
func (r *Repository) isManifest(rel string) bool {
	base := filepath.Base(rel)
	if base == r.manifestName() {
		return true
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Ext(r.format.manifest) == "" && stem == r.format.manifest
}

// candidate reports whether rel is a document file.
func (r *Repository) candidate(rel string) bool {
	base := filepath.Base(rel)
	if !slices.Contains(r.format.extensions, filepath.Ext(base)) || isScratch(base) || r.isManifest(rel) {
		return false
	}
	if strings.HasSuffix(base, ".d.ts") || strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
		return false
	}
	if c, ok := r.format.serializer.(Companion); ok && c.IsCompanion(base) {
		// Only a sibling of an existing document is a companion.
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		main := stem[:strings.LastIndexByte(stem, '.')] + filepath.Ext(base)
		if _, err := os.Stat(filepath.Join(r.Path, filepath.Dir(rel), main)); err == nil {
			return false
		}
	}
	if r.config.Include != "" {
		ok, err := doublestar.Match(r.config.Include, rel)
		return err == nil && ok
	}
	return true
}

// List scans the directory for candidate documents, sorted by path.
//
// Excluded: the manifest, backups, temp files, companions and, unless
// Recursive is set, subdirectories.
func (r *Repository) List(ctx context.Context) ([]core.Entry, error) {
	var entries []core.Entry
	err := filepath.WalkDir(r.Path, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path == r.Path {
				return nil
			}
			name := d.Name()
			if !r.config.Recursive || strings.HasPrefix(name, ".") || name == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(r.Path, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !r.candidate(rel) {
			return nil
		}
		entries = append(entries, core.Entry{
			ID:   strings.TrimSuffix(rel, filepath.Ext(rel)),
			Path: path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", r.Path, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// Get loads the document with the given id. It first tries "<id><ext>" and
// then falls back to matching the id field of every listed document.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	for _, ext := range r.format.extensions {
		path, ok := r.resolve(id, ext)
		if !ok {
			return core.Document{}, fmt.Errorf("%w: %s is outside %s", core.ErrNotFound, id, r.Path)
		}
		if _, err := os.Stat(path); err == nil {
			return r.load(path)
		}
	}

	entries, err := r.List(ctx)
	if err != nil {
		return core.Document{}, err
	}
	for _, e := range entries {
		doc, err := r.load(e.Path)
		if err != nil {
			continue
		}
		if doc.ID == id {
			return doc, nil
		}
	}
	return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
}

// load reads and parses one document file, merging its companion if any.
func (r *Repository) load(path string) (core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Document{}, core.NewParseError(path, "cannot read file", err)
	}
	doc, err := r.format.serializer.Parse(path, data)
	if err != nil {
		return core.Document{}, err
	}
	doc.Source = path

	if c, ok := r.format.serializer.(Companion); ok {
		cpath := filepath.Join(filepath.Dir(path), c.CompanionName(filepath.Base(path)))
		cdata, err := os.ReadFile(cpath)
		switch {
		case err == nil:
			if err := c.ParseCompanion(&doc, cdata); err != nil {
				return core.Document{}, core.NewParseError(cpath, "invalid companion", err)
			}
		case !errors.Is(err, iofs.ErrNotExist):
			return core.Document{}, core.NewParseError(cpath, "cannot read companion", err)
		}
	}
	return doc, nil
}

// resolve maps an id to "<Path>/<id><ext>". It reports false when the id is
// absolute or climbs out of Path.
func (r *Repository) resolve(id, ext string) (string, bool) {
	if id == "" || filepath.IsAbs(id) {
		return "", false
	}
	p := filepath.Join(r.Path, filepath.FromSlash(id)+ext)
	rel, err := filepath.Rel(r.Path, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return p, true
}

// pathFor returns where doc is stored: its Source when it was loaded from this
// repository, "<Path>/<id><ext>" otherwise.
func (r *Repository) pathFor(doc core.Document) (string, error) {
	if doc.Source != "" {
		return doc.Source, nil
	}
	p, ok := r.resolve(doc.ID, r.format.extensions[0])
	if !ok {
		return "", fmt.Errorf("%w: id %q is outside %s", core.ErrInvalidDocument, doc.ID, r.Path)
	}
	return p, nil
}

// Save writes doc to disk.
//
// Workflow:
//  1. Copy the current file to "<path>.backup" when opts.Backup is set.
//  2. Serialize and write atomically (temp file + rename).
//  3. Write the secondary-locale companion, for formats that have one.
//  4. Re-read the written file and report missing markers. Missing markers are
//     warnings: the backup is the recovery path.
//  5. Rewrite the manifest when ManageManifest is set.
func (r *Repository) Save(ctx context.Context, doc core.Document, opts core.SaveOptions) (core.WriteReport, error) {
	if r.config.ReadOnly {
		return core.WriteReport{}, core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return core.WriteReport{}, err
	}

	path, err := r.pathFor(doc)
	if err != nil {
		return core.WriteReport{}, err
	}
	report := core.WriteReport{Path: path}

	data, err := r.format.serializer.Serialize(doc)
	if err != nil {
		return report, fmt.Errorf("failed to serialize %s: %w", doc.ID, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return report, fmt.Errorf("failed to create directories: %w", err)
	}

	if opts.Backup {
		backup, err := backupFile(path)
		if err != nil {
			return report, err
		}
		report.BackupPath = backup
	}

	r.markOwnWrite(path)
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return report, fmt.Errorf("failed to write file: %w", err)
	}
	report.Bytes = len(data)

	if c, ok := r.format.serializer.(Companion); ok {
		cdata, err := c.SerializeCompanion(doc)
		if err != nil {
			return report, fmt.Errorf("failed to serialize companion of %s: %w", doc.ID, err)
		}
		if cdata != nil {
			cpath := filepath.Join(filepath.Dir(path), c.CompanionName(filepath.Base(path)))
			if opts.Backup {
				if _, err := backupFile(cpath); err != nil {
					return report, err
				}
			}
			r.markOwnWrite(cpath)
			if err := writeFileAtomic(cpath, cdata, 0644); err != nil {
				return report, fmt.Errorf("failed to write companion: %w", err)
			}
			report.CompanionPath = cpath
			report.Bytes += len(cdata)
		}
	}

	written, err := os.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("failed to re-read %s: %w", path, err)
	}
	report.Missing = r.format.serializer.Validate(written)
	report.Valid = len(report.Missing) == 0
	r.recordWrite(report.BackupPath != "")

	if !report.Valid {
		r.config.Logger.Warn("written file is missing markers", "path", path, "missing", report.Missing)
	}

	if r.config.ManageManifest {
		if err := r.writeManifest(ctx); err != nil {
			r.config.Logger.Warn("failed to update manifest", "path", r.Path, "error", err)
		}
	}
	return report, nil
}

// Preview serializes and validates doc without touching the filesystem.
func (r *Repository) Preview(ctx context.Context, doc core.Document) (core.WriteReport, error) {
	if err := ctx.Err(); err != nil {
		return core.WriteReport{}, err
	}
	path, err := r.pathFor(doc)
	if err != nil {
		return core.WriteReport{}, err
	}
	report := core.WriteReport{Path: path, DryRun: true}
	data, err := r.format.serializer.Serialize(doc)
	if err != nil {
		return report, fmt.Errorf("failed to serialize %s: %w", doc.ID, err)
	}
	report.Bytes = len(data)
	if c, ok := r.format.serializer.(Companion); ok {
		cdata, err := c.SerializeCompanion(doc)
		if err != nil {
			return report, fmt.Errorf("failed to serialize companion of %s: %w", doc.ID, err)
		}
		if cdata != nil {
			report.CompanionPath = filepath.Join(filepath.Dir(report.Path), c.CompanionName(filepath.Base(report.Path)))
			report.Bytes += len(cdata)
		}
	}
	report.Missing = r.format.serializer.Validate(data)
	report.Valid = len(report.Missing) == 0
	return report, nil
}

func (r *Repository) markOwnWrite(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ownWrites[path] = time.Now()
}

// ownWrite reports whether path was written by this repository within window.
func (r *Repository) ownWrite(path string, window time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	at, ok := r.ownWrites[path]
	if !ok {
		return false
	}
	if time.Since(at) > window {
		delete(r.ownWrites, path)
		return false
	}
	return true
}

func (r *Repository) recordWrite(backedUp bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastWrite = &now
	r.writes++
	if backedUp {
		r.backups++
	}
}

var (
	_ core.Repository = (*Repository)(nil)
	_ core.Watchable  = (*Repository)(nil)
)
