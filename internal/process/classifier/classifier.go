// Package classifier decides which comments on a page are spam.
//
// Three independent signals are evaluated for every comment:
//   - repeated: the normalized text occurs RepeatThreshold or more times on the page
//   - pattern: a 4-word phrase repeats inside the raw comment text
//   - deleted: the normalized text is the board's deletion placeholder
//
// Special-content comments (stickers, images) are exempt from all of them.
package classifier

import (
	"github.com/lueurxax/dc-comment-filter/internal/core/domain"
	"github.com/lueurxax/dc-comment-filter/internal/process/dedup"
	"github.com/lueurxax/dc-comment-filter/internal/process/filters"
)

// Verdict holds the signals computed for one comment.
type Verdict struct {
	Repeated    bool
	PatternSpam bool
	Deleted     bool
	Exempt      bool
}

// IsSpam reports whether the comment should be hidden.
func (v Verdict) IsSpam() bool {
	return (v.Repeated || v.PatternSpam || v.Deleted) && !v.Exempt
}

// Reasons lists the reason codes behind a spam verdict, or nil if the comment is not spam.
func (v Verdict) Reasons() []string {
	if !v.IsSpam() {
		return nil
	}

	var reasons []string

	if v.Repeated {
		reasons = append(reasons, filters.ReasonRepeated)
	}

	if v.PatternSpam {
		reasons = append(reasons, filters.ReasonPattern)
	}

	if v.Deleted {
		reasons = append(reasons, filters.ReasonDeleted)
	}

	return reasons
}

// Result is the classification of one page. Verdicts follow the input order;
// Hidden holds the indexes of spam comments in ascending order.
type Result struct {
	Verdicts    []Verdict
	Hidden      []int
	Frequencies dedup.FrequencyTable
}

// Found reports whether at least one comment was classified as spam.
func (r Result) Found() bool {
	return len(r.Hidden) > 0
}

// ReasonCounts counts reason codes across hidden comments.
func (r Result) ReasonCounts() map[string]int {
	counts := make(map[string]int)

	for _, idx := range r.Hidden {
		for _, reason := range r.Verdicts[idx].Reasons() {
			counts[reason]++
		}
	}

	return counts
}

// Classify runs every detector over the comments of one page.
func Classify(comments []domain.Comment) Result {
	normalized := make([]string, len(comments))
	for i, c := range comments {
		normalized[i] = filters.Normalize(c.Text)
	}

	table := dedup.CountNormalized(normalized)

	result := Result{
		Verdicts:    make([]Verdict, len(comments)),
		Frequencies: table,
	}

	for i, c := range comments {
		v := Verdict{
			Repeated:    table.IsRepeated(normalized[i]),
			PatternSpam: c.Text != "" && filters.HasPatternRepeat(c.Text),
			Deleted:     filters.IsDeletedPlaceholder(normalized[i]),
			Exempt:      c.IsSpecialContent,
		}

		result.Verdicts[i] = v

		if v.IsSpam() {
			result.Hidden = append(result.Hidden, i)
		}
	}

	return result
}

// ClassifySource classifies the comments yielded by src.
func ClassifySource(src domain.CommentSource) Result {
	return Classify(src.Comments())
}
