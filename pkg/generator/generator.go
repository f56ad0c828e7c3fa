// Package generator synthesizes enhanced lesson content from an original
// document and a knowledge base. Output always carries the same ordered
// section skeleton, so regenerating an enhanced document is stable.
package generator

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/lessonkit/pkg/analyzer"
	"github.com/aretw0/lessonkit/pkg/core"
	"github.com/aretw0/lessonkit/pkg/knowledge"
	"github.com/aretw0/lessonkit/pkg/markdown"
)

const (
	wordsPerMinute  = 200
	minutesPerBlock = 2
	growthFactor    = 1.5
	defaultLanguage = "javascript"
)

// Generator renders the section skeleton from a knowledge base.
type Generator struct {
	kb             *knowledge.KnowledgeBase
	rubric         analyzer.Rubric
	bestPractices  int
	commonMistakes int
}

// Option configures a Generator.
type Option func(*Generator)

// WithBestPractices limits how many best-practice entries are rendered.
func WithBestPractices(n int) Option {
	return func(g *Generator) { g.bestPractices = n }
}

// WithCommonMistakes limits how many common-mistake entries are rendered.
func WithCommonMistakes(n int) Option {
	return func(g *Generator) { g.commonMistakes = n }
}

// WithRubric sets the rubric used to classify original sections.
func WithRubric(r analyzer.Rubric) Option {
	return func(g *Generator) { g.rubric = r }
}

// New creates a Generator backed by kb.
func New(kb *knowledge.KnowledgeBase, opts ...Option) *Generator {
	g := &Generator{
		kb:             kb,
		rubric:         analyzer.DefaultRubric(),
		bestPractices:  5,
		commonMistakes: 5,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds the enhanced content for original. topicKey selects the
// knowledge base material and previousEstimate is the document's current
// estimated time ("<N> min").
func (g *Generator) Generate(original, topicKey, previousEstimate string) core.EnhancedContent {
	original = strings.ReplaceAll(original, "\r\n", "\n")
	preamble := markdown.Preamble(original)
	rest := ""
	if strings.HasPrefix(original, preamble) {
		rest = original[len(preamble):]
	}

	existing := markdown.ExtractSections(rest)
	exemplarName, exemplar := g.kb.SelectExemplar(topicKey)
	topic := g.kb.Topic(topicKey)
	lang := g.language()
	display := knowledge.DisplayName(topicKey)

	sections := make([]core.ContentSection, 0, len(skeleton))
	for _, s := range skeleton {
		var body string
		switch s.heading {
		case HeadingStructure:
			body = structureBody(exemplar)
		case HeadingCoreConcepts:
			body = g.conceptsBody(existing, topic, display)
		case HeadingTips:
			body = bullets(fmt.Sprintf("Practical tips for working with %s:", display), topic.Tips)
		case HeadingBestPractices:
			body = g.bestPracticesBody(topicKey, lang)
		case HeadingCommonMistakes:
			body = g.mistakesBody(topicKey, lang)
		case HeadingAdvanced:
			body = bullets(fmt.Sprintf("Once the basics of %s are solid, explore:", display), topic.Advanced)
		case HeadingTesting:
			body = testingBody(topic, display, lang)
		case HeadingPerformance:
			body = bullets("", topic.Performance)
		case HeadingSecurity:
			body = bullets("", topic.Security)
		case HeadingRelated:
			body = bullets("", topic.Related)
		}
		body = strings.Trim(body, "\n")
		sections = append(sections, core.ContentSection{
			Heading:        s.heading,
			Level:          markdown.SectionLevel,
			Body:           body,
			CodeBlockCount: markdown.CountCodeBlocks(body),
		})
	}

	full := render(preamble, sections)
	codeCount := markdown.CountCodeBlocks(full)
	return core.EnhancedContent{
		Sections:         sections,
		FullText:         full,
		EstimatedTime:    core.FormatMinutes(EstimateMinutes(full, codeCount, previousEstimate)),
		CodeExampleCount: codeCount,
		AddedSections:    g.added(existing),
		Exemplar:         exemplarName,
	}
}

// EstimateMinutes recomputes the reading time. The result is never below
// 1.5 times the previous estimate.
func EstimateMinutes(content string, codeBlocks int, previousEstimate string) int {
	words := markdown.WordCount(content)
	base := int(math.Ceil(float64(words)/wordsPerMinute + float64(codeBlocks*minutesPerBlock)))
	floor := int(math.Ceil(float64(core.ParseMinutes(previousEstimate)) * growthFactor))
	return max(base, floor)
}

func render(preamble string, sections []core.ContentSection) string {
	var b strings.Builder
	if p := strings.TrimRight(preamble, "\n"); strings.TrimSpace(p) != "" {
		b.WriteString(p)
		b.WriteString("\n\n")
	}
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.Repeat("#", markdown.SectionLevel) + " " + s.Heading + "\n\n")
		if s.Body != "" {
			b.WriteString(s.Body + "\n")
		}
	}
	return b.String()
}

func (g *Generator) language() string {
	if g.kb.Language != "" {
		return g.kb.Language
	}
	return defaultLanguage
}

// classify reports which rubric entry a heading stands for, if any. A heading
// equal to a skeleton heading maps to its slot; otherwise a keyword must match
// on word boundaries, so "Multiple Route Handlers" is not a tips section.
func (g *Generator) classify(heading string) (string, bool) {
	h := markdown.NormalizeHeading(heading)
	for _, s := range skeleton {
		if strings.EqualFold(h, s.heading) {
			return s.rubric, true
		}
	}
	for _, e := range g.rubric {
		if e.MatchesWords(h) {
			return e.Name, true
		}
	}
	return "", false
}

// conceptsBody keeps an authored Core Concepts section verbatim. Sections the
// rubric does not know are folded in as subsections so nothing is lost.
func (g *Generator) conceptsBody(existing []core.ContentSection, topic knowledge.Topic, display string) string {
	var (
		authored string
		found    bool
		folded   []string
	)
	for _, s := range existing {
		name, ok := g.classify(s.Heading)
		switch {
		case ok && name == analyzer.SectionCoreConcepts && !found:
			authored = strings.Trim(s.Body, "\n")
			found = true
		case ok && name != analyzer.SectionCoreConcepts:
			// regenerated below
		default:
			sub := "### " + s.Heading
			if b := strings.Trim(markdown.ShiftHeadings(s.Body, 1), "\n"); b != "" {
				sub += "\n\n" + b
			}
			folded = append(folded, sub)
		}
	}

	parts := make([]string, 0, len(folded)+1)
	if found {
		if authored != "" {
			parts = append(parts, authored)
		}
	} else {
		parts = append(parts, bullets(fmt.Sprintf("The key ideas behind %s:", display), topic.Concepts))
	}
	parts = append(parts, folded...)
	return strings.Join(parts, "\n\n")
}

func (g *Generator) added(existing []core.ContentSection) []string {
	covered := map[string]bool{}
	for _, s := range existing {
		if name, ok := g.classify(s.Heading); ok {
			covered[name] = true
		}
	}
	var out []string
	for _, s := range skeleton {
		if !covered[s.rubric] {
			out = append(out, s.heading)
		}
	}
	return out
}

func structureBody(ex knowledge.Exemplar) string {
	var b strings.Builder
	if ex.Title != "" {
		fmt.Fprintf(&b, "A typical layout (%s):\n\n", ex.Title)
	}
	b.WriteString("```text\n")
	b.WriteString(strings.TrimRight(ex.Tree, "\n"))
	b.WriteString("\n```\n")
	if len(ex.Paths) > 0 {
		b.WriteString("\n")
		for _, p := range ex.Paths {
			fmt.Fprintf(&b, "- `%s`: %s\n", p.Path, p.Description)
		}
	}
	return b.String()
}

func (g *Generator) bestPracticesBody(topicKey, lang string) string {
	entries := g.kb.BestPracticesFor(topicKey, g.bestPractices)
	out := make([]string, 0, len(entries))
	for i, bp := range entries {
		out = append(out, execute(bestPracticeTmpl, struct {
			knowledge.BestPractice
			N    int
			Lang string
		}{bp, i + 1, lang}))
	}
	return strings.Join(out, "\n")
}

func (g *Generator) mistakesBody(topicKey, lang string) string {
	entries := g.kb.CommonMistakesFor(topicKey, g.commonMistakes)
	out := make([]string, 0, len(entries))
	for i, m := range entries {
		out = append(out, execute(mistakeTmpl, struct {
			knowledge.CommonMistake
			N    int
			Lang string
		}{m, i + 1, lang}))
	}
	return strings.Join(out, "\n")
}

func testingBody(topic knowledge.Topic, display, lang string) string {
	var b strings.Builder
	b.WriteString(bullets("", topic.Testing))
	b.WriteString("\n")
	b.WriteString(execute(testingTmpl, struct {
		Topic string
		Lang  string
		JS    bool
	}{display, lang, isJS(lang)}))
	return b.String()
}

func bullets(lead string, items []string) string {
	var b strings.Builder
	if lead != "" {
		b.WriteString(lead + "\n\n")
	}
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	return b.String()
}
