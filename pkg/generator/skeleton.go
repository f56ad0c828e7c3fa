package generator

import "github.com/aretw0/lessonkit/pkg/analyzer"

// Skeleton section headings, in the order they are emitted.
const (
	HeadingStructure      = "Project Structure"
	HeadingCoreConcepts   = "Core Concepts"
	HeadingTips           = "Tips & Tricks"
	HeadingBestPractices  = "Best Practices"
	HeadingCommonMistakes = "Common Mistakes"
	HeadingAdvanced       = "Advanced Topics"
	HeadingTesting        = "Testing Strategies"
	HeadingPerformance    = "Performance Considerations"
	HeadingSecurity       = "Security Considerations"
	HeadingRelated        = "Related Topics"
)

// slot ties a skeleton heading to the rubric entry it satisfies.
type slot struct {
	heading string
	rubric  string
}

var skeleton = []slot{
	{HeadingStructure, analyzer.SectionStructure},
	{HeadingCoreConcepts, analyzer.SectionCoreConcepts},
	{HeadingTips, analyzer.SectionTips},
	{HeadingBestPractices, analyzer.SectionBestPractices},
	{HeadingCommonMistakes, analyzer.SectionCommonMistakes},
	{HeadingAdvanced, analyzer.SectionAdvanced},
	{HeadingTesting, analyzer.SectionTesting},
	{HeadingPerformance, analyzer.SectionPerformance},
	{HeadingSecurity, analyzer.SectionSecurity},
	{HeadingRelated, analyzer.SectionRelated},
}

// Skeleton returns the fixed section headings in emission order.
func Skeleton() []string {
	out := make([]string, 0, len(skeleton))
	for _, s := range skeleton {
		out = append(out, s.heading)
	}
	return out
}
