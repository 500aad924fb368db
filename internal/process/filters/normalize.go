package filters

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// hangul covers compatibility jamo consonants (ㄱ-ㅎ), vowels (ㅏ-ㅣ) and precomposed syllables (가-힣).
var hangul = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3131, Hi: 0x314E, Stride: 1},
		{Lo: 0x314F, Hi: 0x3163, Stride: 1},
		{Lo: 0xAC00, Hi: 0xD7A3, Stride: 1},
	},
}

// Normalize reduces comment text to a comparable form.
// It drops every rune that is not an ASCII word character, whitespace, Hangul, or one of ". ? !",
// then collapses whitespace runs to a single space and trims the ends.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	kept := strings.Map(func(r rune) rune {
		if keepRune(r) {
			return r
		}

		return -1
	}, text)

	return strings.Join(strings.FieldsFunc(kept, isSpace), " ")
}

func keepRune(r rune) bool {
	if isSpace(r) {
		return true
	}

	if r < utf8.RuneSelf {
		return isWordByte(byte(r)) || r == '.' || r == '?' || r == '!'
	}

	return unicode.Is(hangul, r)
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z') ||
		('0' <= b && b <= '9')
}

// isSpace matches the whitespace class of browser regular expressions.
// It differs from unicode.IsSpace: U+0085 is not whitespace here, U+FEFF is.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}

	return '\u2000' <= r && r <= '\u200a'
}
