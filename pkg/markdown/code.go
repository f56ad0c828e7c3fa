package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CodeBlock is one fenced code block.
type CodeBlock struct {
	Language string
	Content  string
}

// treeLine matches directory-listing lines such as "src/" or "├── main.go".
var treeLine = regexp.MustCompile(`^\s*(?:[│|]\s*)*(?:[├└]──|\+--|\|--)\s*\S|^\s*[\w.@-]+/\s*$`)

// CodeBlocks parses content with goldmark and returns every fenced code block,
// including those nested in lists or block quotes.
func CodeBlocks(content string) []CodeBlock {
	src := []byte(content)
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []CodeBlock
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		fenced, ok := n.(*gmast.FencedCodeBlock)
		if !ok {
			return gmast.WalkContinue, nil
		}
		var buf bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		blocks = append(blocks, CodeBlock{
			Language: string(fenced.Language(src)),
			Content:  buf.String(),
		})
		return gmast.WalkSkipChildren, nil
	})
	return blocks
}

// CountCodeBlocks returns the number of fenced code blocks in content.
func CountCodeBlocks(content string) int {
	if !strings.Contains(content, "```") && !strings.Contains(content, "~~~") {
		return 0
	}
	return len(CodeBlocks(content))
}

// IsStructureBlock reports whether a code block looks like a file tree.
func IsStructureBlock(b CodeBlock) bool {
	switch strings.ToLower(b.Language) {
	case "tree", "structure":
		return true
	}
	hits := 0
	for _, line := range strings.Split(b.Content, "\n") {
		if treeLine.MatchString(line) {
			hits++
		}
	}
	return hits >= 2
}

// HasStructureBlock reports whether any fenced block in content is a file tree.
func HasStructureBlock(content string) bool {
	for _, b := range CodeBlocks(content) {
		if IsStructureBlock(b) {
			return true
		}
	}
	return false
}
