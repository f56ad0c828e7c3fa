package markdown_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lessonkit/pkg/markdown"
)

const lesson = "# Routing\n\nIntro paragraph.\n\n## 1) Core Concepts\nRoutes map paths.\n\n```bash\n# not a heading\nnpm start\n```\n\n### Detail\nmore\n\n## 2. Best Practices\n```js\napp.get('/', h)\n```\n"

func TestExtractSections(t *testing.T) {
	sections := markdown.ExtractSections(lesson)
	require.Len(t, sections, 3)

	assert.Equal(t, "Routing", sections[0].Heading)
	assert.Equal(t, 1, sections[0].Level)

	assert.Equal(t, "Core Concepts", sections[1].Heading)
	assert.Equal(t, 2, sections[1].Level)
	assert.Equal(t, 1, sections[1].CodeBlockCount)
	assert.Contains(t, sections[1].Body, "# not a heading")
	assert.Contains(t, sections[1].Body, "### Detail")

	assert.Equal(t, "Best Practices", sections[2].Heading)
	assert.Equal(t, 1, sections[2].CodeBlockCount)
}

func TestIntro(t *testing.T) {
	content := "Welcome to the lesson.\n\n```\n## inside code\n```\n\n## First\nbody\n"
	assert.Equal(t, "Welcome to the lesson.\n\n```\n## inside code\n```\n\n", markdown.Intro(content))
	assert.Equal(t, "", markdown.Intro("## Only\nbody\n"))
}

func TestNormalizeHeading(t *testing.T) {
	cases := map[string]string{
		"1) Core Concepts":    "Core Concepts",
		"2. Best Practices":   "Best Practices",
		"3.1 Testing":         "Testing",
		"4 - Security":        "Security",
		"IV. Advanced Topics": "Advanced Topics",
		"**Tips**":            "Tips",
		"3D Rendering":        "3D Rendering",
		"C Programming":       "C Programming",
	}
	for in, want := range cases {
		assert.Equal(t, want, markdown.NormalizeHeading(in), in)
	}
}

func TestShiftHeadings(t *testing.T) {
	body := "### Sub\ntext\n```sh\n# comment\n```\n###### Deep\n"
	got := markdown.ShiftHeadings(body, 1)
	assert.Equal(t, "#### Sub\ntext\n```sh\n# comment\n```\n###### Deep\n", got)
}

func TestCodeBlocks(t *testing.T) {
	content := "text\n\n```go\nfunc main() {}\n```\n\n- item\n\n  ```\n  nested\n  ```\n\n~~~tree\nsrc/\n~~~\n"
	blocks := markdown.CodeBlocks(content)
	require.Len(t, blocks, 3)
	assert.Equal(t, "go", blocks[0].Language)
	assert.Equal(t, "func main() {}\n", blocks[0].Content)
	assert.Equal(t, 3, markdown.CountCodeBlocks(content))
	assert.Equal(t, 0, markdown.CountCodeBlocks("no code here"))
}

func TestHasStructureBlock(t *testing.T) {
	tree := "```\nproject/\n├── cmd/\n│   └── main.go\n└── go.mod\n```\n"
	assert.True(t, markdown.HasStructureBlock(tree))
	assert.True(t, markdown.HasStructureBlock("```tree\nanything\n```\n"))
	assert.False(t, markdown.HasStructureBlock("```js\nconsole.log(1)\n```\n"))
}

func TestRenderRoundTrip(t *testing.T) {
	sections := markdown.ExtractSections("## A\nbody a\n## B\nbody b\n")
	require.Len(t, sections, 2)
	assert.Equal(t, "## A\nbody a\n", markdown.Render(sections[0]))
	assert.Equal(t, 3, markdown.WordCount("one two\nthree"))
}

func TestPreamble(t *testing.T) {
	content := "# Title\n\nWelcome.\n\n## First\nbody\n"
	assert.Equal(t, "# Title\n\nWelcome.\n\n", markdown.Preamble(content))
	assert.Equal(t, "", markdown.Intro(content))
}

func TestSegments(t *testing.T) {
	content := "Intro text\n```js\n## not a heading\n```\nAfter\n"
	segs := markdown.Segments(content)
	assert.Equal(t, []markdown.Segment{
		{Code: false, Text: "Intro text\n"},
		{Code: true, Text: "```js\n## not a heading\n```\n"},
		{Code: false, Text: "After\n"},
	}, segs)

	var joined strings.Builder
	for _, s := range segs {
		joined.WriteString(s.Text)
	}
	assert.Equal(t, content, joined.String())
}
