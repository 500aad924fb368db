package filters

import (
	"strings"
	"unicode/utf8"
)

const (
	// PatternWindowSize is the number of consecutive words forming one phrase key.
	PatternWindowSize = 4
	// PatternMinKeyLength skips short phrases such as "ㅋ ㅋ ㅋ ㅋ" that repeat in normal chatter.
	PatternMinKeyLength = 10
	// PatternRepeatThreshold is the occurrence count at which a phrase marks the comment as spam.
	PatternRepeatThreshold = 5
)

// HasPatternRepeat reports whether any 4-word phrase occurs at least
// PatternRepeatThreshold times inside text. The scan stops at the first hit.
func HasPatternRepeat(text string) bool {
	words := splitWords(Normalize(text))
	if len(words) < PatternWindowSize {
		return false
	}

	counts := make(map[string]int)

	for i := 0; i <= len(words)-PatternWindowSize; i++ {
		key := strings.Join(words[i:i+PatternWindowSize], " ")
		if utf8.RuneCountInString(key) < PatternMinKeyLength {
			continue
		}

		counts[key]++
		if counts[key] >= PatternRepeatThreshold {
			return true
		}
	}

	return false
}

func splitWords(normalized string) []string {
	parts := strings.Split(normalized, " ")
	words := parts[:0]

	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}

	return words
}
