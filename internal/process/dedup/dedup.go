// Package dedup counts exact duplicate comments on a single page.
//
// Comments are compared by their normalized text. A comment posted
// RepeatThreshold or more times on the same page is treated as organized
// duplicate posting; two coincidental matches are not.
package dedup

import (
	"sort"

	"github.com/rs/zerolog"
)

// RepeatThreshold is the number of identical comments at which all of them are repeated.
const RepeatThreshold = 3

// Log key constants for deduplication.
const (
	logKeyText  = "text"
	logKeyCount = "count"
)

// FrequencyTable maps normalized comment text to its occurrence count on a page.
// Empty text is never counted.
type FrequencyTable map[string]int

// CountNormalized builds a FrequencyTable from the normalized texts of every comment on a page.
func CountNormalized(normalized []string) FrequencyTable {
	table := make(FrequencyTable, len(normalized))

	for _, text := range normalized {
		if text == "" {
			continue
		}

		table[text]++
	}

	return table
}

// Count returns how many comments share the normalized text.
func (t FrequencyTable) Count(normalized string) int {
	return t[normalized]
}

// IsRepeated reports whether the normalized text is non-empty and reaches RepeatThreshold.
func (t FrequencyTable) IsRepeated(normalized string) bool {
	return normalized != "" && t[normalized] >= RepeatThreshold
}

// Repeated returns the texts that reach RepeatThreshold, most frequent first.
func (t FrequencyTable) Repeated() []string {
	var texts []string

	for text, count := range t {
		if count >= RepeatThreshold {
			texts = append(texts, text)
		}
	}

	sort.Slice(texts, func(i, j int) bool {
		if t[texts[i]] != t[texts[j]] {
			return t[texts[i]] > t[texts[j]]
		}

		return texts[i] < texts[j]
	})

	return texts
}

// LogRepeated writes one debug line per repeated text.
func (t FrequencyTable) LogRepeated(logger *zerolog.Logger) {
	if logger == nil {
		return
	}

	for _, text := range t.Repeated() {
		logger.Debug().
			Str(logKeyText, text).
			Int(logKeyCount, t[text]).
			Msg("Repeated comment text")
	}
}
