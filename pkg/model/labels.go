package model

import (
	"strings"
	"unicode"
)

// acronyms render fully upper-cased inside generated labels.
var acronyms = map[string]struct{}{
	"id":  {},
	"zip": {},
	"url": {},
}

// DefaultLabeler converts a field name such as "repFirstName" or "start_year"
// into a label ("Rep First Name", "Start Year"). Known acronyms are
// upper-cased so "zip" becomes "ZIP".
func DefaultLabeler(name string) string {
	words := splitWords(name)
	for i, word := range words {
		lower := strings.ToLower(word)
		if _, ok := acronyms[lower]; ok {
			words[i] = strings.ToUpper(lower)
			continue
		}
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}

func splitWords(name string) []string {
	var (
		words   []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	runes := []rune(strings.TrimSpace(name))
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case i > 0 && isBoundary(runes[i-1], r):
			flush()
		}
		current = append(current, r)
	}
	flush()
	return words
}

func isBoundary(prev, r rune) bool {
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(r):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(r):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(r):
		return true
	}
	return false
}
