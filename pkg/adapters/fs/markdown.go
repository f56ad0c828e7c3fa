package fs

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/lessonkit/pkg/core"
)

const frontmatterDelimiter = "---"

// frontmatter is the metadata block of a markdown lesson.
type frontmatter struct {
	ID               string         `yaml:"id"`
	Title            string         `yaml:"title"`
	TitleSecondary   string         `yaml:"title_secondary,omitempty"`
	Difficulty       string         `yaml:"difficulty,omitempty"`
	EstimatedTime    string         `yaml:"estimated_time,omitempty"`
	HasVisualization bool           `yaml:"has_visualization"`
	HasExercise      bool           `yaml:"has_exercise"`
	Extra            map[string]any `yaml:",inline"`
}

// companionMatter is the metadata block of a secondary-locale sibling.
type companionMatter struct {
	ID     string `yaml:"id"`
	Locale string `yaml:"locale"`
	Title  string `yaml:"title,omitempty"`
}

// MarkdownSerializer stores a lesson as markdown with YAML frontmatter and its
// secondary locale in "<name>.<locale>.md".
type MarkdownSerializer struct {
	Locale string
}

// NewMarkdownSerializer creates a markdown serializer for the given secondary
// locale.
func NewMarkdownSerializer(locale string) *MarkdownSerializer {
	return &MarkdownSerializer{Locale: locale}
}

// splitFrontmatter separates the YAML block from the body. ok is false when
// data does not start with a frontmatter block.
func splitFrontmatter(data []byte) (meta, body []byte, ok bool) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte(frontmatterDelimiter+"\n")) {
		return nil, data, false
	}
	rest := data[len(frontmatterDelimiter)+1:]
	if bytes.HasPrefix(rest, []byte(frontmatterDelimiter+"\n")) {
		return nil, rest[len(frontmatterDelimiter)+1:], true
	}
	end := bytes.Index(rest, []byte("\n"+frontmatterDelimiter+"\n"))
	if end < 0 {
		if bytes.HasSuffix(rest, []byte("\n"+frontmatterDelimiter)) {
			return rest[:len(rest)-len(frontmatterDelimiter)-1], nil, true
		}
		return nil, data, false
	}
	return rest[:end+1], rest[end+len(frontmatterDelimiter)+2:], true
}

func (s *MarkdownSerializer) Parse(name string, data []byte) (core.Document, error) {
	meta, body, ok := splitFrontmatter(data)
	if !ok {
		return core.Document{}, core.NewParseError(name, "missing frontmatter", nil)
	}
	var fm frontmatter
	if err := yaml.Unmarshal(meta, &fm); err != nil {
		return core.Document{}, core.NewParseError(name, "invalid frontmatter", err)
	}

	doc := core.Document{
		ID:               fm.ID,
		Title:            fm.Title,
		TitleSecondary:   fm.TitleSecondary,
		Difficulty:       core.Difficulty(fm.Difficulty),
		EstimatedTime:    fm.EstimatedTime,
		ContentPrimary:   strings.TrimPrefix(string(body), "\n"),
		HasVisualization: fm.HasVisualization,
		HasExercise:      fm.HasExercise,
		Source:           name,
	}
	if len(fm.Extra) > 0 {
		doc.Extra = fm.Extra
	}
	if strings.TrimSpace(doc.ID) == "" {
		return core.Document{}, core.NewParseError(name, "missing id", nil)
	}
	if strings.TrimSpace(doc.ContentPrimary) == "" {
		return core.Document{}, core.NewParseError(name, "missing content", nil)
	}
	return doc, nil
}

func (s *MarkdownSerializer) Serialize(doc core.Document) ([]byte, error) {
	if strings.TrimSpace(doc.ID) == "" {
		return nil, fmt.Errorf("%w: id is empty", core.ErrInvalidDocument)
	}
	difficulty := string(doc.Difficulty)
	if difficulty == "" {
		difficulty = string(core.DifficultyMedium)
	}
	fm := frontmatter{
		ID:               doc.ID,
		Title:            doc.Title,
		TitleSecondary:   doc.TitleSecondary,
		Difficulty:       difficulty,
		EstimatedTime:    doc.EstimatedTime,
		HasVisualization: doc.HasVisualization,
		HasExercise:      doc.HasExercise,
		Extra:            plainExtra(doc.Extra),
	}
	return withFrontmatter(fm, doc.ContentPrimary)
}

func withFrontmatter(meta any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(frontmatterDelimiter + "\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(meta); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	buf.WriteString(frontmatterDelimiter + "\n")
	buf.WriteString(body)
	if body != "" && !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// plainExtra converts raw expressions to strings so YAML can hold them.
func plainExtra(extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return nil
	}
	out := make(map[string]any, len(extra))
	for k, v := range extra {
		if raw, ok := v.(core.RawExpr); ok {
			v = string(raw)
		}
		out[k] = v
	}
	return out
}

func (s *MarkdownSerializer) Validate(data []byte) []string {
	meta, body, ok := splitFrontmatter(data)
	if !ok {
		return []string{MarkerFrontmatter, MarkerID, MarkerTitle, MarkerContent}
	}
	var fm frontmatter
	var missing []string
	if err := yaml.Unmarshal(meta, &fm); err != nil {
		missing = append(missing, MarkerFrontmatter)
	}
	if strings.TrimSpace(fm.ID) == "" {
		missing = append(missing, MarkerID)
	}
	if strings.TrimSpace(fm.Title) == "" {
		missing = append(missing, MarkerTitle)
	}
	if strings.TrimSpace(string(body)) == "" {
		missing = append(missing, MarkerContent)
	}
	return missing
}

func (s *MarkdownSerializer) locale() string {
	if s.Locale == "" {
		return "ko"
	}
	return s.Locale
}

func (s *MarkdownSerializer) CompanionName(name string) string {
	return strings.TrimSuffix(name, ".md") + "." + s.locale() + ".md"
}

// IsCompanion reports whether name looks like "<stem>.<locale tag>.md".
func (s *MarkdownSerializer) IsCompanion(name string) bool {
	stem := strings.TrimSuffix(name, ".md")
	if stem == name {
		return false
	}
	dot := strings.LastIndexByte(stem, '.')
	if dot <= 0 {
		return false
	}
	tag := stem[dot+1:]
	if len(tag) < 2 || len(tag) > 8 && !strings.Contains(tag, "-") {
		return false
	}
	_, err := language.Parse(tag)
	return err == nil
}

func (s *MarkdownSerializer) ParseCompanion(doc *core.Document, data []byte) error {
	meta, body, ok := splitFrontmatter(data)
	if ok {
		var cm companionMatter
		if err := yaml.Unmarshal(meta, &cm); err != nil {
			return fmt.Errorf("invalid companion frontmatter: %w", err)
		}
		if cm.ID != "" && cm.ID != doc.ID {
			return fmt.Errorf("companion belongs to %q, not %q", cm.ID, doc.ID)
		}
		if cm.Title != "" {
			doc.TitleSecondary = cm.Title
		}
	}
	doc.ContentSecondary = strings.TrimPrefix(string(body), "\n")
	return nil
}

func (s *MarkdownSerializer) SerializeCompanion(doc core.Document) ([]byte, error) {
	if strings.TrimSpace(doc.ContentSecondary) == "" {
		return nil, nil
	}
	return withFrontmatter(companionMatter{
		ID:     doc.ID,
		Locale: s.locale(),
		Title:  doc.TitleSecondary,
	}, doc.ContentSecondary)
}
