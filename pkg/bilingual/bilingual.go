// Package bilingual derives the secondary-locale version of a lesson and checks
// that both locales stay structurally parallel. Translation is table driven:
// headings and fixed phrases are looked up, code is copied verbatim, and
// anything unknown passes through and is flagged for manual follow-up.
package bilingual

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/aretw0/lessonkit/pkg/core"
	"github.com/aretw0/lessonkit/pkg/knowledge"
	"github.com/aretw0/lessonkit/pkg/markdown"
)

// DefaultLocale is the secondary locale used when none is configured.
const DefaultLocale = "ko"

// Accepted range of secondary/primary body length, in runes. Scripts differ in
// density so the band is wide.
const (
	MinLengthRatio = 0.3
	MaxLengthRatio = 3.0
)

// minRatioRunes is the body size below which the length ratio is not checked.
const minRatioRunes = 40

// Result is a generated secondary document.
type Result struct {
	Markdown string
	// Unmapped lists section headings with no table entry. They were copied
	// untranslated.
	Unmapped []string
}

// Manager translates and checks one secondary locale.
type Manager struct {
	table    Table
	headings map[string]string
}

// New returns a Manager for locale (a BCP 47 tag such as "ko" or "pt-BR").
func New(locale string) (*Manager, error) {
	if strings.TrimSpace(locale) == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	tables := Tables()
	tags := make([]language.Tag, 0, len(tables))
	for _, t := range tables {
		tags = append(tags, t.Tag)
	}
	_, idx, conf := language.NewMatcher(tags).Match(tag)
	if conf == language.No {
		return nil, fmt.Errorf("unsupported locale %q", locale)
	}
	return NewWithTable(tables[idx]), nil
}

// NewWithTable returns a Manager using a custom table.
func NewWithTable(t Table) *Manager {
	headings := make(map[string]string, len(t.Headings))
	for k, v := range t.Headings {
		headings[strings.ToLower(k)] = v
	}
	return &Manager{table: t, headings: headings}
}

// Locale returns the secondary locale tag.
func (m *Manager) Locale() language.Tag {
	return m.table.Tag
}

// LocaleSuffix is the camel-case suffix used for locale specific fields,
// e.g. "Ko" for contentKo or "PtBR" for contentPtBR.
func (m *Manager) LocaleSuffix() string {
	return LocaleSuffix(m.table.Tag)
}

// LocaleSuffix renders tag as a field suffix.
func LocaleSuffix(tag language.Tag) string {
	var b strings.Builder
	for _, part := range strings.Split(tag.String(), "-") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		if len(part) > 2 {
			b.WriteString(strings.ToLower(part[1:]))
		} else {
			b.WriteString(part[1:])
		}
	}
	return b.String()
}

// TranslateHeading returns the locale heading and whether the table knows it.
func (m *Manager) TranslateHeading(heading string) (string, bool) {
	h, ok := m.headings[strings.ToLower(markdown.NormalizeHeading(heading))]
	if !ok {
		return heading, false
	}
	return h, true
}

// TopicName translates a topic key word by word through the glossary.
// Unknown words keep their English title case.
func (m *Manager) TopicName(topicKey string) string {
	words := knowledge.TopicWords(topicKey)
	if len(words) == 0 {
		return knowledge.DisplayName(topicKey)
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		if t, ok := m.table.Glossary[w]; ok {
			out = append(out, t)
			continue
		}
		out = append(out, knowledge.DisplayName(w))
	}
	return strings.Join(out, m.table.JoinWords)
}

// TranslateTitle substitutes glossary terms in a document title.
func (m *Manager) TranslateTitle(title string) string {
	fields := strings.Fields(title)
	changed := false
	for i, f := range fields {
		if t, ok := m.table.Glossary[strings.ToLower(f)]; ok {
			fields[i] = t
			changed = true
		}
	}
	if !changed {
		return title
	}
	return strings.Join(fields, m.table.JoinWords)
}

// GenerateSecondary derives the secondary-locale markdown from primary.
// Section order and fenced code are kept so the result passes CheckParity.
func (m *Manager) GenerateSecondary(primary, topicKey string) Result {
	primary = strings.ReplaceAll(primary, "\r\n", "\n")
	replacer := m.replacer(topicKey)

	preamble := markdown.Preamble(primary)
	rest := ""
	if strings.HasPrefix(primary, preamble) {
		rest = primary[len(preamble):]
	}

	var (
		b        strings.Builder
		unmapped []string
	)
	if p := strings.TrimRight(preamble, "\n"); strings.TrimSpace(p) != "" {
		b.WriteString(m.translateProse(p, replacer))
		b.WriteString("\n\n")
	}
	for i, s := range markdown.ExtractSections(rest) {
		heading, ok := m.TranslateHeading(s.Heading)
		if !ok {
			unmapped = append(unmapped, s.Heading)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		level := s.Level
		if level <= 0 {
			level = markdown.SectionLevel
		}
		b.WriteString(strings.Repeat("#", level) + " " + heading + "\n\n")
		if body := strings.Trim(m.translateProse(s.Body, replacer), "\n"); body != "" {
			b.WriteString(body + "\n")
		}
	}
	return Result{Markdown: b.String(), Unmapped: unmapped}
}

// translateProse applies the phrase table and subsection heading table to
// everything outside fenced code.
func (m *Manager) translateProse(content string, r *strings.Replacer) string {
	var b strings.Builder
	for _, seg := range markdown.Segments(content) {
		if seg.Code {
			b.WriteString(seg.Text)
			continue
		}
		for _, line := range strings.SplitAfter(seg.Text, "\n") {
			b.WriteString(m.translateLine(line, r))
		}
	}
	return b.String()
}

func (m *Manager) translateLine(line string, r *strings.Replacer) string {
	trimmed := strings.TrimRight(line, "\n")
	if strings.HasPrefix(trimmed, "#") {
		level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
		text := strings.TrimSpace(trimmed[level:])
		if h, ok := m.TranslateHeading(text); ok && level <= 6 {
			return strings.Repeat("#", level) + " " + h + line[len(trimmed):]
		}
	}
	return r.Replace(line)
}

func (m *Manager) replacer(topicKey string) *strings.Replacer {
	display := knowledge.DisplayName(topicKey)
	local := m.TopicName(topicKey)

	phrases := make([]Phrase, len(m.table.Phrases))
	copy(phrases, m.table.Phrases)
	sort.SliceStable(phrases, func(i, j int) bool {
		return len(phrases[i].From) > len(phrases[j].From)
	})
	pairs := make([]string, 0, 2*len(phrases))
	for _, p := range phrases {
		pairs = append(pairs,
			strings.ReplaceAll(p.From, topicPlaceholder, display),
			strings.ReplaceAll(p.To, topicPlaceholder, local))
	}
	return strings.NewReplacer(pairs...)
}

// CheckParity compares the sections of both locales. Findings are reported,
// never corrected.
func (m *Manager) CheckParity(primary, secondary []core.ContentSection) core.ValidationResult {
	var res core.ValidationResult

	present := make(map[string]bool, len(secondary))
	for _, s := range secondary {
		present[strings.ToLower(markdown.NormalizeHeading(s.Heading))] = true
	}
	for _, p := range primary {
		want, _ := m.TranslateHeading(p.Heading)
		if !present[strings.ToLower(markdown.NormalizeHeading(want))] &&
			!present[strings.ToLower(markdown.NormalizeHeading(p.Heading))] {
			res.MissingInSecondary = append(res.MissingInSecondary, p.Heading)
		}
	}

	if len(primary) != len(secondary) {
		res.StructureMismatches = append(res.StructureMismatches,
			fmt.Sprintf("section count differs: primary %d, secondary %d", len(primary), len(secondary)))
	}
	for i := 0; i < min(len(primary), len(secondary)); i++ {
		p, s := primary[i], secondary[i]
		if p.CodeBlockCount != s.CodeBlockCount {
			res.StructureMismatches = append(res.StructureMismatches,
				fmt.Sprintf("section %d (%s): code blocks differ: primary %d, secondary %d",
					i+1, p.Heading, p.CodeBlockCount, s.CodeBlockCount))
		}
		if msg, ok := lengthMismatch(p.Body, s.Body); ok {
			res.StructureMismatches = append(res.StructureMismatches,
				fmt.Sprintf("section %d (%s): %s", i+1, p.Heading, msg))
		}
	}

	res.IsValid = len(res.MissingInSecondary) == 0 && len(res.StructureMismatches) == 0
	return res
}

// CheckContent extracts the sections of both documents and compares them.
func (m *Manager) CheckContent(primary, secondary string) core.ValidationResult {
	return m.CheckParity(bodySections(primary), bodySections(secondary))
}

// bodySections returns the sections after the preamble, so a leading
// "# Title" does not count as a section.
func bodySections(content string) []core.ContentSection {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	pre := markdown.Preamble(content)
	if strings.HasPrefix(content, pre) {
		content = content[len(pre):]
	}
	return markdown.ExtractSections(content)
}

func lengthMismatch(primary, secondary string) (string, bool) {
	p := utf8.RuneCountInString(strings.TrimSpace(primary))
	s := utf8.RuneCountInString(strings.TrimSpace(secondary))
	if p < minRatioRunes && s < minRatioRunes {
		return "", false
	}
	if p == 0 || s == 0 {
		return fmt.Sprintf("body empty in one locale: primary %d runes, secondary %d", p, s), true
	}
	ratio := float64(s) / float64(p)
	if ratio < MinLengthRatio || ratio > MaxLengthRatio {
		return fmt.Sprintf("body length ratio %.2f outside [%.1f, %.1f]", ratio, MinLengthRatio, MaxLengthRatio), true
	}
	return "", false
}

// PreserveIntro keeps the authored introduction of existing in place of the
// generated one. Sections always come from generated.
func PreserveIntro(generated, existing string) string {
	existing = strings.ReplaceAll(existing, "\r\n", "\n")
	intro := strings.TrimRight(markdown.Preamble(existing), "\n")
	if strings.TrimSpace(intro) == "" {
		return generated
	}
	pre := markdown.Preamble(generated)
	body := generated
	if strings.HasPrefix(generated, pre) {
		body = generated[len(pre):]
	}
	if body == "" {
		return intro + "\n"
	}
	return intro + "\n\n" + body
}
