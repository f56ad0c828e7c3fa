// Package analyzer scores lesson content against a completeness rubric.
// Analysis is a pure function of the text: no I/O, no state.
package analyzer

import (
	"math"

	"github.com/aretw0/lessonkit/pkg/core"
	"github.com/aretw0/lessonkit/pkg/markdown"
)

// Analyzer scores content with a Policy and a Rubric.
type Analyzer struct {
	Policy Policy
	Rubric Rubric
}

// New returns an Analyzer with the default policy and rubric.
func New() *Analyzer {
	return &Analyzer{Policy: DefaultPolicy(), Rubric: DefaultRubric()}
}

// Analyze scores content with the default policy and rubric.
func Analyze(content string) core.AnalysisReport {
	return New().Analyze(content)
}

// probe is one independent gap check.
type probe struct {
	gap core.Gap
	ok  bool
}

// Analyze scores content.
func (a *Analyzer) Analyze(content string) core.AnalysisReport {
	headings := markdown.Headings(content)
	codeCount := markdown.CountCodeBlocks(content)

	present := 0
	missing := []string{}
	for _, entry := range a.Rubric {
		if a.covered(entry, headings) {
			present++
		} else {
			missing = append(missing, entry.Name)
		}
	}

	probes := a.probes(content, headings, codeCount)
	gaps := []core.Gap{}
	satisfied := 0
	for _, p := range probes {
		if p.ok {
			satisfied++
			continue
		}
		gaps = append(gaps, p.gap)
	}

	return core.AnalysisReport{
		CurrentSections:  headings,
		MissingSections:  missing,
		CodeExampleCount: codeCount,
		Completeness:     a.score(present, codeCount, len(gaps)),
		Gaps:             gaps,
		Depth:            a.depth(satisfied),
	}
}

func (a *Analyzer) covered(entry RubricEntry, headings []string) bool {
	for _, h := range headings {
		if entry.Matches(h) {
			return true
		}
	}
	return false
}

func (a *Analyzer) hasSection(name string, headings []string) bool {
	entry, ok := a.Rubric.Lookup(name)
	if !ok {
		entry, _ = DefaultRubric().Lookup(name)
	}
	return a.covered(entry, headings)
}

func (a *Analyzer) probes(content string, headings []string, codeCount int) []probe {
	return []probe{
		{
			ok:  markdown.HasStructureBlock(content),
			gap: core.Gap{Category: "structure", Description: "no file or project structure example", Priority: core.PriorityHigh},
		},
		{
			ok:  codeCount >= a.Policy.MinExamples,
			gap: core.Gap{Category: "examples", Description: "fewer code examples than recommended", Priority: core.PriorityHigh},
		},
		{
			ok:  a.hasSection(SectionBestPractices, headings),
			gap: core.Gap{Category: "best-practices", Description: "no best practices section", Priority: core.PriorityMedium},
		},
		{
			ok:  a.hasSection(SectionCommonMistakes, headings),
			gap: core.Gap{Category: "common-mistakes", Description: "no common mistakes section", Priority: core.PriorityMedium},
		},
		{
			ok:  a.hasSection(SectionAdvanced, headings),
			gap: core.Gap{Category: "advanced", Description: "no advanced topics section", Priority: core.PriorityLow},
		},
	}
}

func (a *Analyzer) score(present, codeCount, gapCount int) int {
	total := len(a.Rubric)
	sectionScore := 0.0
	if total > 0 {
		sectionScore = float64(present) / float64(total) * a.Policy.SectionWeight
	}
	codeScore := 0.0
	if a.Policy.CodeTarget > 0 {
		codeScore = math.Min(float64(codeCount)/float64(a.Policy.CodeTarget), 1) * a.Policy.CodeWeight
	}
	raw := sectionScore + codeScore - float64(a.Policy.GapPenalty*gapCount)
	return int(math.Max(0, math.Min(100, math.Round(raw))))
}

func (a *Analyzer) depth(satisfied int) core.Depth {
	switch {
	case satisfied >= a.Policy.ComprehensiveAt:
		return core.DepthComprehensive
	case satisfied >= a.Policy.ModerateAt:
		return core.DepthModerate
	default:
		return core.DepthShallow
	}
}
