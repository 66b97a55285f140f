package helper

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonAlnum    = regexp.MustCompile(`[^a-z0-9]+`)
	reUnderscores = regexp.MustCompile(`_+`)
)

// Slugify lowercases s, strips diacritics (é → e) and keeps [a-z0-9_].
// Used to derive a user_name from a display name. Falls back to "eleve".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 50
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = string(buf)

	s = reNonAlnum.ReplaceAllString(s, "_")
	s = reUnderscores.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")

	if utf8.RuneCountInString(s) > maxLen {
		s = strings.Trim(string([]rune(s)[:maxLen]), "_")
	}
	if len(s) < 3 {
		s = "eleve"
	}
	return s
}

// WithSuffix appends "_<suffix>" while keeping the result within maxLen.
func WithSuffix(base, suffix string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 50
	}
	keep := maxLen - len(suffix) - 1
	if keep < 1 {
		keep = 1
	}
	rs := []rune(base)
	if len(rs) > keep {
		rs = rs[:keep]
	}
	return strings.Trim(string(rs), "_") + "_" + suffix
}
