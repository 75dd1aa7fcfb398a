package corpus

import (
	"strings"

	"github.com/goliatone/go-refdocs/corpus"
)

// Quality markers checked by the review pass. These are exact substrings
// over the raw page content; the scaffold emits pages that satisfy them.
const (
	complexityTableMarker = "| Operation | Time | Space |"
	exampleMarker         = "```python"
	bestPracticeDoMarker  = "✅ DO"
	bestPracticeDontMark  = "❌ DON'T"
)

// Analyze derives the review summary for a single page.
func Analyze(page *corpus.Page) corpus.ReviewSummary {
	if page == nil {
		return corpus.ReviewSummary{}
	}

	content := string(page.Raw)

	return corpus.ReviewSummary{
		Path:               page.Path,
		HasComplexityTable: strings.Contains(content, complexityTableMarker),
		HasExamples:        strings.Contains(content, exampleMarker),
		HasBestPractices:   strings.Contains(content, bestPracticeDoMarker) || strings.Contains(content, bestPracticeDontMark),
		Size:               page.Size,
	}
}
