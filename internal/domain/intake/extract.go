package intake

import (
	"regexp"
	"strings"
)

// dateRule pairs a named pattern with its place in the precedence order.
type dateRule struct {
	name    string
	pattern *regexp.Regexp
}

// dateRules are tried in order against the lower-cased text; the first rule
// that matches anywhere wins, even if a later rule would also match.
var dateRules = []dateRule{
	{name: "next-weekday", pattern: regexp.MustCompile(`next\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)`)},
	{name: "tomorrow", pattern: regexp.MustCompile(`tomorrow`)},
	{name: "today", pattern: regexp.MustCompile(`today`)},
	{name: "numeric", pattern: regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)},
	{name: "month-day", pattern: regexp.MustCompile(`(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}`)},
}

// timePattern runs against the text as written, not lower-cased.
var timePattern = regexp.MustCompile(`\d{1,2}(?::\d{2})?\s*(?i:am|pm)?`)

// departments is ordered; the first keyword contained in the text wins.
var departments = []string{"dentist", "cardiology", "orthopedic", "pediatric", "general"}

// MatchDatePhrase returns the first date expression found in text and the
// name of the rule that found it.
func MatchDatePhrase(text string) (phrase, rule string, ok bool) {
	lower := strings.ToLower(text)
	for _, r := range dateRules {
		if m := r.pattern.FindString(lower); m != "" {
			return m, r.name, true
		}
	}
	return "", "", false
}

// MatchTimePhrase returns the first hour[:minute][am|pm] run in text.
func MatchTimePhrase(text string) (string, bool) {
	m := strings.TrimSpace(timePattern.FindString(text))
	if m == "" {
		return "", false
	}
	return m, true
}

// MatchDepartment returns the first known department keyword contained in
// text, ignoring case.
func MatchDepartment(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, d := range departments {
		if strings.Contains(lower, d) {
			return d, true
		}
	}
	return "", false
}

// Extract locates a date phrase, a time phrase and a department keyword in
// text. A missing entity yields a *ClarificationError; a partial triple is
// never returned.
func Extract(text string) (ExtractResult, error) {
	date, _, okDate := MatchDatePhrase(text)
	tm, okTime := MatchTimePhrase(text)
	dept, okDept := MatchDepartment(text)
	if !okDate || !okTime || !okDept {
		return ExtractResult{}, needsClarification(MsgAmbiguousEntities)
	}
	return ExtractResult{
		Entities: Entities{
			DatePhrase: date,
			TimePhrase: tm,
			Department: dept,
		},
		Confidence: EntitiesConfidence,
	}, nil
}
