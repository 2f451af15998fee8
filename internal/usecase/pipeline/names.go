package pipeline

import (
	"regexp"
	"strings"
)

var (
	labeledNameRegex = regexp.MustCompile(`(?m)^(?:Full )?Name:\s*(.+?)\s*$`)
	capitalRunRegex  = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2}\b`)
)

// Capitalized words that start sentences or label form fields, never names.
var nonNameWords = map[string]struct{}{
	"What": {}, "Who": {}, "The": {}, "This": {}, "Please": {},
	"Client": {}, "Information": {}, "Know": {}, "Your": {}, "Form": {},
	"Risk": {}, "Score": {}, "Level": {}, "Rating": {}, "Check": {},
	"Passport": {}, "Bank": {}, "Statement": {}, "United": {}, "Kingdom": {},
}

// extractPersonName finds a client name in free text: a labeled "Full Name:"
// form field wins, otherwise the first run of capitalized words that does not
// contain a known non-name word. Returns "" when nothing plausible matches.
func extractPersonName(text string) string {
	if m := labeledNameRegex.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	for _, run := range capitalRunRegex.FindAllString(text, -1) {
		if plausibleName(run) {
			return run
		}
	}
	return ""
}

func plausibleName(run string) bool {
	for _, word := range strings.Fields(run) {
		if _, blocked := nonNameWords[word]; blocked {
			return false
		}
	}
	return true
}
