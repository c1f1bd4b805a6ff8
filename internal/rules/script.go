package rules

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// placeholderSubstrings are markers left behind by failed generation or
// earlier repair attempts. Matched case-insensitively.
var placeholderSubstrings = []string{
	"incorrect",
	"invalid",
	"option",
	"選項",
	"null",
	"undefined",
	"invalid_fix",
	"fix_me",
}

// errToken matches the "err1".."errN" tokens written when generation
// failed at ingestion time.
var errToken = regexp.MustCompile(`^err\d+$`)

// Normalize folds a candidate for comparison: NFKC (so half-width kana
// compare equal to full-width), trimmed, lower-cased.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}

// ContainsHan reports whether s contains a logographic (Han) character.
func ContainsHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// ContainsLatin reports whether s contains an ASCII letter.
func ContainsLatin(s string) bool {
	for _, r := range s {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			return true
		}
	}
	return false
}

// IsPlaceholder reports whether s carries a placeholder or error token.
// A blank entry is a placeholder too.
func IsPlaceholder(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "" {
		return true
	}
	for _, sub := range placeholderSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return errToken.MatchString(lower)
}
