package pipeline

import (
	"time"

	"github.com/aretw0/lessonkit/pkg/core"
)

// Status is the outcome of one document.
type Status string

const (
	StatusSucceeded Status = "success"
	StatusFailed    Status = "failed"
)

// Stages at which a document can fail.
const (
	StageParse = "parse"
	StageWrite = "write"
)

// Result is the record of one document's pass through the pipeline.
type Result struct {
	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Path   string `json:"path,omitempty"`
	Status Status `json:"status"`
	Stage  string `json:"stage,omitempty"`
	Error  string `json:"error,omitempty"`

	TimeBefore        string   `json:"time_before,omitempty"`
	TimeAfter         string   `json:"time_after,omitempty"`
	CodeBefore        int      `json:"code_before"`
	CodeAfter         int      `json:"code_after"`
	Completeness      int      `json:"completeness"`
	CompletenessAfter int      `json:"completeness_after"`
	Parity            bool     `json:"parity"`
	AddedSections     []string `json:"added_sections,omitempty"`
	Exemplar          string   `json:"exemplar,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`

	Analysis core.AnalysisReport `json:"analysis"`
	Write    *core.WriteReport   `json:"write,omitempty"`
	Duration time.Duration       `json:"duration_ns"`
}

// Succeeded reports whether the document went through every stage.
func (r Result) Succeeded() bool {
	return r.Status == StatusSucceeded
}

// Report aggregates a run.
type Report struct {
	RunID     string        `json:"run_id"`
	DryRun    bool          `json:"dry_run"`
	Started   time.Time     `json:"started"`
	Duration  time.Duration `json:"duration_ns"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Results   []Result      `json:"results"`
}

func (r *Report) finish() {
	r.Duration = time.Since(r.Started)
	r.Total = len(r.Results)
	r.Succeeded, r.Failed = 0, 0
	for _, res := range r.Results {
		if res.Succeeded() {
			r.Succeeded++
		} else {
			r.Failed++
		}
	}
}

// Failures returns the failed results in run order.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Succeeded() {
			out = append(out, res)
		}
	}
	return out
}
