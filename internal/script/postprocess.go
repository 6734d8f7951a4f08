package script

import (
	"strings"
	"unicode/utf8"
)

const (
	// minViableLength is the shortest remote response treated as usable.
	minViableLength = 20
	// maxLength caps the published script length.
	maxLength = 500
	// maxSentences caps the number of sentences kept from an over-generation.
	maxSentences = 3
)

// boilerplatePrefixes are model framing artifacts stripped case-insensitively
// from the start of a response.
var boilerplatePrefixes = []string{
	"commentary:",
	"script:",
	"here's",
	"here is",
	"sure,",
}

// sanitize normalizes a remote model response: strips known boilerplate
// prefixes, unwraps a single layer of quotes, and truncates over-generation
// to at most three sentences and 500 characters, restoring a trailing period
// if truncation removed it.
func sanitize(raw string) string {
	s := strings.TrimSpace(raw)

	// Stacked framing ("Sure, here's ...") needs repeated passes.
	for stripped := true; stripped; {
		stripped = false
		for _, prefix := range boilerplatePrefixes {
			if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
				s = strings.TrimSpace(s[len(prefix):])
				stripped = true
			}
		}
	}

	s = unwrapQuotes(s)
	s = truncateSentences(s, maxSentences)

	if len(s) > maxLength {
		// Back off to a rune boundary so the cut never splits a multibyte
		// character.
		cut := maxLength
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = strings.TrimSpace(s[:cut])
		if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "!") && !strings.HasSuffix(s, "?") {
			s += "."
		}
	}

	return s
}

// unwrapQuotes strips one layer of matching wrapping quote characters.
func unwrapQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'' || first == '`') {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// truncateSentences keeps at most n sentences, splitting on terminal
// punctuation. Text without terminal punctuation is returned whole.
func truncateSentences(s string, n int) string {
	count := 0
	for i, r := range s {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count == n {
				return strings.TrimSpace(s[:i+1])
			}
		}
	}
	return s
}
