package naming

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// yearSuffixPattern matches a parenthesized year at the end of a title.
var yearSuffixPattern = regexp.MustCompile(`\s*\((\d{4})\)\s*$`)

var titleCaser = cases.Title(language.English)

// NormalizeTitle converts a title to a normalized form for matching.
// "For All Mankind (2019)" -> "forallmankind"
// "M*A*S*H" -> "mash"
func NormalizeTitle(title string) string {
	// Remove year suffix like "(2024)"
	title = yearSuffixPattern.ReplaceAllString(title, "")

	title = strings.ToLower(title)

	replacements := []string{
		" ", "", ".", "", "-", "", "_", "",
		"'", "", ":", "", "&", "", "*", "",
		",", "", "!", "", "?", "",
		"(", "", ")", "",
		"[", "", "]", "",
	}

	replacer := strings.NewReplacer(replacements...)
	return replacer.Replace(title)
}

// DisplayTitle converts an all-caps or all-lower title to display casing.
// Mixed-case titles are returned unchanged since they were likely cased
// intentionally ("iZombie", "M*A*S*H").
func DisplayTitle(title string) string {
	if title == strings.ToUpper(title) || title == strings.ToLower(title) {
		return titleCaser.String(strings.ToLower(title))
	}
	return title
}
