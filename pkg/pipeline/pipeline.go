// Package pipeline drives lesson documents through parse, analyze, generate,
// bilingual and write stages, one document at a time, and collects the
// per-document results into a Report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/lessonkit/pkg/analyzer"
	"github.com/aretw0/lessonkit/pkg/bilingual"
	"github.com/aretw0/lessonkit/pkg/core"
	"github.com/aretw0/lessonkit/pkg/generator"
	"github.com/aretw0/lessonkit/pkg/knowledge"
)

// Options controls a single run.
type Options struct {
	// DryRun runs every stage but renders the write in memory only.
	DryRun bool
	// Lesson restricts the run to one document ID.
	Lesson string
	// Backup copies each file to "<path>.backup" before rewriting it.
	Backup bool
}

// Driver runs documents through the pipeline stages.
type Driver struct {
	service   *core.Service
	analyzer  *analyzer.Analyzer
	generator *generator.Generator
	bilingual *bilingual.Manager
	logger    *slog.Logger

	mu        sync.RWMutex
	runs      int
	lastRunID string
	current   string
	processed int
	failed    int
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger used for the progress trace.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithAnalyzer replaces the default analyzer.
func WithAnalyzer(a *analyzer.Analyzer) Option {
	return func(d *Driver) {
		d.analyzer = a
	}
}

// WithGenerator replaces the generator built from the knowledge base.
func WithGenerator(g *generator.Generator) Option {
	return func(d *Driver) {
		d.generator = g
	}
}

// WithBilingual sets the secondary-locale manager.
func WithBilingual(m *bilingual.Manager) Option {
	return func(d *Driver) {
		d.bilingual = m
	}
}

// New creates a Driver over repo using kb for generation.
func New(repo core.Repository, kb *knowledge.KnowledgeBase, opts ...Option) (*Driver, error) {
	if repo == nil {
		return nil, errors.New("pipeline requires a repository")
	}
	if kb == nil {
		return nil, errors.New("pipeline requires a knowledge base")
	}
	d := &Driver{service: core.NewService(repo)}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	if d.analyzer == nil {
		d.analyzer = analyzer.New()
	}
	if d.generator == nil {
		d.generator = generator.New(kb, generator.WithRubric(d.analyzer.Rubric))
	}
	if d.bilingual == nil {
		m, err := bilingual.New(bilingual.DefaultLocale)
		if err != nil {
			return nil, err
		}
		d.bilingual = m
	}
	return d, nil
}

// Service returns the document service the driver reads and writes through.
func (d *Driver) Service() *core.Service {
	return d.service
}

// Run processes the selected documents sequentially. Per-document failures
// are recorded in the report; the returned error is only set when the
// document list cannot be built or ctx is cancelled between documents.
func (d *Driver) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{
		RunID:   uuid.NewString(),
		DryRun:  opts.DryRun,
		Started: time.Now(),
	}
	logger := d.logger.With("run", report.RunID)

	d.mu.Lock()
	d.runs++
	d.lastRunID = report.RunID
	d.mu.Unlock()

	targets, err := d.targets(ctx, opts.Lesson)
	if err != nil {
		return report, err
	}
	logger.Info("run started", "documents", len(targets), "dry_run", opts.DryRun)

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			report.finish()
			return report, fmt.Errorf("run cancelled after %d documents: %w", len(report.Results), err)
		}
		report.Results = append(report.Results, d.process(ctx, logger, t, opts))
	}

	report.finish()
	logger.Info("run finished", "total", report.Total, "succeeded", report.Succeeded, "failed", report.Failed)
	return report, nil
}

// Process runs a single document by ID.
func (d *Driver) Process(ctx context.Context, id string, opts Options) Result {
	return d.process(ctx, d.logger, core.Entry{ID: id}, opts)
}

func (d *Driver) targets(ctx context.Context, lesson string) ([]core.Entry, error) {
	if lesson != "" {
		return []core.Entry{{ID: lesson}}, nil
	}
	entries, err := d.service.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return entries, nil
}

func (d *Driver) process(ctx context.Context, logger *slog.Logger, entry core.Entry, opts Options) Result {
	d.setCurrent(entry.ID)
	defer d.setCurrent("")

	start := time.Now()
	res := Result{ID: entry.ID, Path: entry.Path}
	fail := func(stage string, err error) Result {
		res.Status = StatusFailed
		res.Stage = stage
		res.Error = err.Error()
		var pe *core.ParseError
		if errors.As(err, &pe) && pe.Path != "" {
			res.Path = pe.Path
		}
		res.Duration = time.Since(start)
		d.count(false)
		logger.Error("document failed", "id", entry.ID, "path", res.Path, "stage", stage, "error", err)
		return res
	}

	doc, err := d.service.LoadDocument(ctx, entry.ID)
	if err != nil {
		return fail(StageParse, err)
	}
	res.ID = doc.ID
	res.Title = doc.Title
	res.Path = doc.Source
	logger.Debug("parsed", "id", doc.ID, "path", doc.Source)

	analysis := d.analyzer.Analyze(doc.ContentPrimary)
	res.Analysis = analysis
	res.TimeBefore = doc.EstimatedTime
	res.CodeBefore = analysis.CodeExampleCount
	res.Completeness = analysis.Completeness
	logger.Info("analyzed", "id", doc.ID,
		"completeness", analysis.Completeness,
		"code_examples", analysis.CodeExampleCount,
		"missing", len(analysis.MissingSections),
		"gaps", len(analysis.Gaps),
		"depth", analysis.Depth)

	enhanced := d.generator.Generate(doc.ContentPrimary, doc.ID, doc.EstimatedTime)
	res.TimeAfter = enhanced.EstimatedTime
	res.CodeAfter = enhanced.CodeExampleCount
	res.AddedSections = enhanced.AddedSections
	res.Exemplar = enhanced.Exemplar
	res.CompletenessAfter = d.analyzer.Analyze(enhanced.FullText).Completeness
	logger.Info("generated", "id", doc.ID,
		"sections", len(enhanced.Sections),
		"added", len(enhanced.AddedSections),
		"estimated_time", enhanced.EstimatedTime,
		"exemplar", enhanced.Exemplar)

	secondary := d.bilingual.GenerateSecondary(enhanced.FullText, doc.ID)
	secondaryText := bilingual.PreserveIntro(secondary.Markdown, doc.ContentSecondary)
	parity := d.bilingual.CheckContent(enhanced.FullText, secondaryText)
	parity.UnmappedHeadings = secondary.Unmapped
	res.Parity = parity.IsValid
	res.Warnings = append(res.Warnings, parity.Warnings()...)
	logger.Info("bilingual", "id", doc.ID, "locale", d.bilingual.Locale().String(), "parity", parity.IsValid)

	updated := doc
	updated.EstimatedTime = enhanced.EstimatedTime
	updated.ContentPrimary = enhanced.FullText
	updated.ContentSecondary = secondaryText
	if updated.TitleSecondary == "" {
		updated.TitleSecondary = d.bilingual.TranslateTitle(doc.Title)
	}

	var write core.WriteReport
	if opts.DryRun {
		write, err = d.service.PreviewDocument(ctx, updated)
	} else {
		write, err = d.service.SaveDocument(ctx, updated, core.SaveOptions{Backup: opts.Backup})
	}
	if err != nil {
		return fail(StageWrite, err)
	}
	res.Write = &write
	for _, m := range write.Missing {
		res.Warnings = append(res.Warnings, "missing after write: "+m)
	}
	logger.Info("written", "id", doc.ID, "path", write.Path, "valid", write.Valid, "dry_run", write.DryRun, "backup", write.BackupPath)

	res.Status = StatusSucceeded
	res.Duration = time.Since(start)
	d.count(true)
	return res
}

func (d *Driver) setCurrent(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = id
}

func (d *Driver) count(ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.processed++
	if !ok {
		d.failed++
	}
}
