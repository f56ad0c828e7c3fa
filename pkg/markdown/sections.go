// Package markdown splits lesson content into heading-delimited sections and
// inspects fenced code. Section logic is shared by the analyzer, the generator
// and the bilingual manager so every stage sees the same structure.
package markdown

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/aretw0/lessonkit/pkg/core"
)

// SectionLevel is the deepest heading level that starts a new section.
// "# Title" and "## Section" split; "###" and below stay inside a body.
const SectionLevel = 2

// numbering matches leading ordinals such as "1)", "2.", "3.1", "4 -", "IV.".
var numbering = regexp.MustCompile(`^(?:\d+(?:\.\d+)*[.)]?|[IVXLC]+[.)])(?:\s*[-:])?\s+`)

// heading is a parsed ATX heading line.
type heading struct {
	level int
	text  string
}

// parseHeading reports whether line is an ATX heading and returns it.
func parseHeading(line string) (heading, bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || !strings.HasPrefix(trimmed, "#") {
		return heading{}, false
	}
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level > 6 {
		return heading{}, false
	}
	rest := trimmed[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return heading{}, false
	}
	text := strings.TrimSpace(rest)
	text = strings.TrimSpace(strings.TrimRight(text, "#"))
	return heading{level: level, text: text}, true
}

// fence tracks whether a line scanner is inside a fenced code block.
type fence struct {
	marker byte
	width  int
}

func (f *fence) open() bool { return f.width > 0 }

// step consumes one line and reports whether it belongs to code, fences included.
func (f *fence) step(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return f.open()
	}
	if !f.open() {
		if m, w := fenceRun(trimmed); w >= 3 {
			if m == '`' && strings.ContainsRune(trimmed[w:], '`') {
				return false
			}
			f.marker, f.width = m, w
			return true
		}
		return false
	}
	if m, w := fenceRun(trimmed); m == f.marker && w >= f.width && strings.TrimSpace(trimmed[w:]) == "" {
		f.marker, f.width = 0, 0
	}
	return true
}

func fenceRun(s string) (byte, int) {
	if s == "" || (s[0] != '`' && s[0] != '~') {
		return 0, 0
	}
	n := 0
	for n < len(s) && s[n] == s[0] {
		n++
	}
	return s[0], n
}

// NormalizeHeading strips numbering prefixes and inline emphasis from a heading
// so it can be matched against a rubric.
func NormalizeHeading(text string) string {
	s := strings.TrimSpace(text)
	s = strings.Trim(s, "*_`")
	s = strings.TrimSpace(s)
	s = numbering.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ExtractSections splits content on section headings (level <= SectionLevel)
// that are outside fenced code. Text before the first heading is not a section;
// see Intro.
func ExtractSections(content string) []core.ContentSection {
	var (
		sections []core.ContentSection
		current  *core.ContentSection
		body     strings.Builder
		code     fence
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Body = body.String()
		current.CodeBlockCount = CountCodeBlocks(current.Body)
		sections = append(sections, *current)
		body.Reset()
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if code.step(line) {
			if current != nil {
				body.WriteString(line + "\n")
			}
			continue
		}
		if h, ok := parseHeading(line); ok && h.level <= SectionLevel {
			flush()
			current = &core.ContentSection{Heading: NormalizeHeading(h.text), Level: h.level}
			continue
		}
		if current != nil {
			body.WriteString(line + "\n")
		}
	}
	flush()
	return sections
}

// Headings returns the normalized headings of content's sections, in order.
func Headings(content string) []string {
	sections := ExtractSections(content)
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.Heading)
	}
	return out
}

// Intro returns everything before the first section heading.
func Intro(content string) string {
	var (
		b    strings.Builder
		code fence
	)
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !code.step(line) {
			if h, ok := parseHeading(line); ok && h.level <= SectionLevel {
				break
			}
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// ShiftHeadings demotes (delta > 0) or promotes headings outside fenced code.
// Levels are clamped to 1..6.
func ShiftHeadings(body string, delta int) string {
	var (
		b    strings.Builder
		code fence
	)
	lines := strings.SplitAfter(body, "\n")
	for _, raw := range lines {
		line := strings.TrimSuffix(raw, "\n")
		if code.step(line) {
			b.WriteString(raw)
			continue
		}
		h, ok := parseHeading(line)
		if !ok {
			b.WriteString(raw)
			continue
		}
		level := min(max(h.level+delta, 1), 6)
		b.WriteString(strings.Repeat("#", level) + " " + h.text)
		if strings.HasSuffix(raw, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Render writes a section back as markdown.
func Render(s core.ContentSection) string {
	level := s.Level
	if level <= 0 {
		level = SectionLevel
	}
	body := s.Body
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return strings.Repeat("#", level) + " " + s.Heading + "\n" + body
}

// WordCount counts whitespace separated words, code included.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// Preamble returns everything before the first heading at SectionLevel.
// Unlike Intro it keeps a leading "# Title" and its text.
func Preamble(content string) string {
	var (
		b    strings.Builder
		code fence
	)
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !code.step(line) {
			if h, ok := parseHeading(line); ok && h.level == SectionLevel {
				break
			}
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// Segment is a run of either prose or fenced code lines.
type Segment struct {
	Code bool
	Text string
}

// Segments splits content into alternating prose and fenced code runs.
// Concatenating the Text of every segment yields content unchanged.
func Segments(content string) []Segment {
	var (
		out  []Segment
		cur  strings.Builder
		code fence
		in   bool
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, Segment{Code: in, Text: cur.String()})
			cur.Reset()
		}
	}
	for _, raw := range strings.SplitAfter(content, "\n") {
		if raw == "" {
			continue
		}
		isCode := code.step(strings.TrimSuffix(raw, "\n"))
		if isCode != in {
			flush()
			in = isCode
		}
		cur.WriteString(raw)
	}
	flush()
	return out
}
