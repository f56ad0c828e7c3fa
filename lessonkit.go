package lessonkit

import (
	"log/slog"

	"github.com/aretw0/lessonkit/internal/platform"
	"github.com/aretw0/lessonkit/pkg/core"
	"github.com/aretw0/lessonkit/pkg/knowledge"
	"github.com/aretw0/lessonkit/pkg/pipeline"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Document is a public alias for the lesson document.
type Document = core.Document

// Driver is a public alias for the pipeline driver.
type Driver = pipeline.Driver

// RunOptions is a public alias for the per-run options.
type RunOptions = pipeline.Options

// Report is a public alias for the aggregate run report.
type Report = pipeline.Report

// --- Configuration ---

// Option defines a functional option for configuring the pipeline.
type Option = platform.Option

// WithLogger sets the logger for the repository and the driver.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter allows specifying the storage adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithFormat selects the document format: "literal" or "markdown".
func WithFormat(format string) Option {
	return platform.WithFormat(format)
}

// WithExtension sets the extension used for new files.
func WithExtension(ext string) Option {
	return platform.WithExtension(ext)
}

// WithRecursive scans subdirectories for documents.
func WithRecursive(recursive bool) Option {
	return platform.WithRecursive(recursive)
}

// WithInclude restricts the scan to files matching a doublestar pattern.
func WithInclude(pattern string) Option {
	return platform.WithInclude(pattern)
}

// WithManifest overrides the manifest file name.
func WithManifest(name string) Option {
	return platform.WithManifest(name)
}

// WithManageManifest rewrites the manifest after every save.
func WithManageManifest(enabled bool) Option {
	return platform.WithManageManifest(enabled)
}

// WithMustExist ensures the lesson directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithWatcherErrorHandler registers a callback for watch loop errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithLocale sets the secondary locale.
func WithLocale(locale string) Option {
	return platform.WithLocale(locale)
}

// WithKnowledgeBase injects an already loaded knowledge base.
func WithKnowledgeBase(kb *knowledge.KnowledgeBase) Option {
	return platform.WithKnowledgeBase(kb)
}

// WithKnowledgeBaseFile loads the knowledge base from a JSON file.
func WithKnowledgeBaseFile(path string) Option {
	return platform.WithKnowledgeBaseFile(path)
}

// WithBestPractices sets how many best-practice entries are rendered.
func WithBestPractices(n int) Option {
	return platform.WithBestPractices(n)
}

// WithCommonMistakes sets how many common-mistake entries are rendered.
func WithCommonMistakes(n int) Option {
	return platform.WithCommonMistakes(n)
}

// --- Factory ---

// New creates a pipeline driver over the lesson directory at path.
func New(path string, opts ...Option) (*pipeline.Driver, error) {
	return platform.New(path, opts...)
}

// Init opens the lesson repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// LoadKnowledge returns the knowledge base selected by opts.
func LoadKnowledge(opts ...Option) (*knowledge.KnowledgeBase, error) {
	return platform.LoadKnowledge(opts...)
}

// --- Utilities ---

// FindRoot looks upwards from startDir for a lessonkit.yaml or .git.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// FindConfig returns the lessonkit.yaml governing startDir.
func FindConfig(startDir string) string {
	return platform.FindConfig(startDir)
}
