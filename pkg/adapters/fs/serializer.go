package fs

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"

	"github.com/aretw0/lessonkit/pkg/bilingual"
	"github.com/aretw0/lessonkit/pkg/core"
)

// Supported storage formats.
const (
	FormatLiteral  = "literal"
	FormatMarkdown = "markdown"
)

// Serializer defines how to read and write one lesson file format.
type Serializer interface {
	// Parse reads a Document from the contents of the file called name.
	Parse(name string, data []byte) (core.Document, error)
	// Serialize converts the Document to the file contents.
	Serialize(doc core.Document) ([]byte, error)
	// Validate returns the names of required markers missing from data.
	Validate(data []byte) []string
}

// Companion is implemented by serializers that keep the secondary locale in a
// sibling file.
type Companion interface {
	// CompanionName returns the sibling file name for a document file name.
	CompanionName(name string) string
	// IsCompanion reports whether name is a sibling file rather than a document.
	IsCompanion(name string) bool
	// ParseCompanion merges a sibling file into doc.
	ParseCompanion(doc *core.Document, data []byte) error
	// SerializeCompanion renders the sibling file. It returns nil when the
	// document has no secondary content.
	SerializeCompanion(doc core.Document) ([]byte, error)
}

// format describes one supported storage format.
type format struct {
	extensions []string // first one is used for new files
	manifest   string
	serializer Serializer
}

// DefaultFormats returns the supported formats. locale is the secondary locale
// tag ("ko", "pt-BR").
func DefaultFormats(locale string) map[string]format {
	return map[string]format{
		FormatLiteral: {
			extensions: []string{".ts", ".js"},
			manifest:   "index",
			serializer: NewLiteralSerializer(localeSuffix(locale)),
		},
		FormatMarkdown: {
			extensions: []string{".md"},
			manifest:   "manifest.yaml",
			serializer: NewMarkdownSerializer(locale),
		},
	}
}

// Formats lists the supported format names.
func Formats() []string {
	names := make([]string, 0, 2)
	for name := range DefaultFormats("") {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupFormat(name, locale string) (format, error) {
	if name == "" {
		name = FormatLiteral
	}
	f, ok := DefaultFormats(locale)[name]
	if !ok {
		return format{}, fmt.Errorf("unknown format %q (supported: %v)", name, Formats())
	}
	return f, nil
}

// localeSuffix turns a locale tag into the key suffix of the literal format:
// "ko" gives "Ko", "pt-BR" gives "PtBR".
func localeSuffix(locale string) string {
	if locale == "" {
		locale = bilingual.DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}
	return bilingual.LocaleSuffix(tag)
}
