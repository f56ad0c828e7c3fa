package platform

import (
	"log/slog"

	"github.com/aretw0/lessonkit/pkg/analyzer"
	"github.com/aretw0/lessonkit/pkg/core"
	"github.com/aretw0/lessonkit/pkg/knowledge"
)

// options holds the internal configuration for the pipeline.
type options struct {
	repository     core.Repository
	logger         *slog.Logger
	adapter        string
	knowledgeBase  *knowledge.KnowledgeBase
	knowledgePath  string
	locale         string
	bestPractices  int
	commonMistakes int
	rubric         analyzer.Rubric
	config         map[string]interface{}
}

// Option defines a functional option for configuring the pipeline.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]interface{}),
	}
}

// WithLogger sets the logger for the repository and the driver.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. a mock).
// If provided, the filesystem adapter is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name. Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithFormat selects the document format: "literal" (default) or "markdown".
func WithFormat(format string) Option {
	return func(o *options) {
		o.config["format"] = format
	}
}

// WithExtension sets the extension used for new files (".ts" or ".js").
func WithExtension(ext string) Option {
	return func(o *options) {
		o.config["extension"] = ext
	}
}

// WithRecursive scans subdirectories for documents.
func WithRecursive(recursive bool) Option {
	return func(o *options) {
		o.config["recursive"] = recursive
	}
}

// WithInclude restricts the scan to files matching a doublestar pattern.
func WithInclude(pattern string) Option {
	return func(o *options) {
		o.config["include"] = pattern
	}
}

// WithManifest overrides the manifest file name.
func WithManifest(name string) Option {
	return func(o *options) {
		o.config["manifest"] = name
	}
}

// WithManageManifest rewrites the manifest after every save.
func WithManageManifest(enabled bool) Option {
	return func(o *options) {
		o.config["manage_manifest"] = enabled
	}
}

// WithMustExist ensures the lesson directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly enables read-only mode: saves return core.ErrReadOnly and the
// directory is never created.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the
// watch loop, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithLocale sets the secondary locale (BCP 47, e.g. "ko" or "pt-BR").
func WithLocale(locale string) Option {
	return func(o *options) {
		o.locale = locale
	}
}

// WithKnowledgeBase injects an already loaded knowledge base.
func WithKnowledgeBase(kb *knowledge.KnowledgeBase) Option {
	return func(o *options) {
		o.knowledgeBase = kb
	}
}

// WithKnowledgeBaseFile loads the knowledge base from a JSON file instead of
// the embedded default.
func WithKnowledgeBaseFile(path string) Option {
	return func(o *options) {
		o.knowledgePath = path
	}
}

// WithBestPractices sets how many best-practice entries are rendered.
// Zero keeps the generator default.
func WithBestPractices(n int) Option {
	return func(o *options) {
		o.bestPractices = n
	}
}

// WithCommonMistakes sets how many common-mistake entries are rendered.
// Zero keeps the generator default.
func WithCommonMistakes(n int) Option {
	return func(o *options) {
		o.commonMistakes = n
	}
}

// WithRubric replaces the section rubric. The analyzer scores against it and
// the generator classifies authored sections with it.
func WithRubric(r analyzer.Rubric) Option {
	return func(o *options) {
		o.rubric = r
	}
}
