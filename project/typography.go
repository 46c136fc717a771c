package project

import "regexp"

var (
	numericRange = regexp.MustCompile(`(\d)\s*-\s*(\d)`)
	shortWord    = regexp.MustCompile(`(\s|^)([а-яА-ЯёЁ]{1,2})\s`)
	percent      = regexp.MustCompile(`\s%`)
	kmPlus       = regexp.MustCompile(`(\d)\s*\+\s*(\d)`)
)

// FixTypography applies the report's typesetting rules: en dashes in
// numeric ranges, non-breaking spaces after one- and two-letter Cyrillic
// words and before percent signs, and tight plus signs in kilometer
// markers.
func FixTypography(s string) string {
	s = numericRange.ReplaceAllString(s, "${1}\u2013${2}")
	s = shortWord.ReplaceAllString(s, "${1}${2}\u00a0")
	s = percent.ReplaceAllString(s, "\u00a0%")
	return kmPlus.ReplaceAllString(s, "${1}+${2}")
}
