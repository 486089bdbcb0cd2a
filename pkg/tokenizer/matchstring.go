package tokenizer

import (
	"unicode/utf8"
)

// QuotedStringMatcher matches a single-line string literal at offset. The
// opening quote may be ", ', ` or «, the closing quote must match it, and a
// backslash escapes the character after it. A string that reaches a line
// break or the end of text before closing does not match, so its opening
// quote is reported as unmatched. Triple quotes are left alone: they open a
// multi-line construct that belongs to another rule.
func QuotedStringMatcher(text string, offset int) (int, bool) {
	r, size := utf8.DecodeRuneInString(text[offset:])
	if !isOpeningQuoteChar(r) {
		return 0, false
	}
	if isTripleQuote(text[offset:], r) {
		return 0, false
	}
	quote := getMatchingCloseQuote(r)

	pos := offset + size
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		pos += size
		switch {
		case r == quote:
			return pos - offset, true
		case r == '\\':
			if pos >= len(text) {
				return 0, false
			}
			next, nextSize := utf8.DecodeRuneInString(text[pos:])
			if next == '\n' || next == '\r' {
				return 0, false
			}
			pos += nextSize
		case r == '\n' || r == '\r':
			return 0, false
		}
	}
	return 0, false
}

func isTripleQuote(text string, quote rune) bool {
	count := 0
	for _, r := range text {
		if r != quote {
			break
		}
		count++
		if count == 3 {
			return true
		}
	}
	return false
}

func isOpeningQuoteChar(r rune) bool {
	return r == '\'' || r == '"' || r == '`' || r == '«'
}

func getMatchingCloseQuote(openingQuote rune) rune {
	if openingQuote == '«' {
		return '»'
	}
	return openingQuote
}
