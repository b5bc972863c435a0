// Package review turns rendered document sets into structured review
// records. The synthesis engine knows nothing about reviewers; it only
// produces the filename → content map this package consumes.
package review

import (
	"fmt"
	"sort"

	"github.com/cloudist-io/cloudist/internal/emit"
	"github.com/cloudist-io/cloudist/internal/ir"
)

// Report is the structured result of reviewing a document set.
type Report struct {
	Score           int // 0..100
	Issues          []string
	Recommendations []string
}

// Reviewer reviews a rendered filename → content map.
type Reviewer interface {
	Review(docs map[string]string) (*Report, error)
}

// StaticReviewer scores a document set from the emit verifier's findings and
// the connection validator's suggestions. It never fails; a broken document
// set just scores low.
type StaticReviewer struct {
	output      *ir.SynthesisOutput
	suggestions []string
}

// NewStaticReviewer builds a reviewer for one synthesis output. Suggestions
// are passed through as recommendations.
func NewStaticReviewer(output *ir.SynthesisOutput, suggestions []string) *StaticReviewer {
	return &StaticReviewer{output: output, suggestions: suggestions}
}

// Review implements Reviewer.
func (r *StaticReviewer) Review(docs map[string]string) (*Report, error) {
	result := emit.Verify(r.output, docs)

	score := 100
	var issues []string
	for _, issue := range result.Issues {
		switch issue.Severity {
		case emit.SeverityError:
			score -= 10
		default:
			score -= 5
		}
		issues = append(issues, fmt.Sprintf("%s: %s", issue.Document, issue.Summary))
	}
	if len(r.output.Declarations) == 0 {
		score -= 25
		issues = append(issues, "synthesis produced no declarations")
	}
	for _, d := range r.output.Diagnostics {
		score -= 2
		issues = append(issues, d)
	}
	if score < 0 {
		score = 0
	}
	sort.Strings(issues)

	recs := append([]string(nil), r.suggestions...)
	return &Report{
		Score:           score,
		Issues:          issues,
		Recommendations: recs,
	}, nil
}
