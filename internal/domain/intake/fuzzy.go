package intake

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	dps "github.com/markusmobius/go-dateparser"
)

var errNoDate = errors.New("no date found in phrase")

const monthAlternation = `january|february|march|april|may|june|july|august|september|october|november|december|` +
	`jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec`

var (
	reISODate     = regexp.MustCompile(`\b(\d{4})[/-](\d{1,2})[/-](\d{1,2})\b`)
	reNumericDate = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\b`)
	reMonthDay    = regexp.MustCompile(`\b(` + monthAlternation + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+(\d{4})\b)?`)
	reDayMonth    = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthAlternation + `)\b\.?(?:,?\s+(\d{4})\b)?`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseFuzzyDate finds a single calendar date inside free text, ignoring
// surrounding words. Explicit numeric and month-name dates are checked
// against the calendar, so "february 30" fails instead of rolling over.
// Numeric dates are read month-first unless the first number cannot be a
// month, and a month name without a year takes the year from now. Anything
// else ("friday", "the 5th", "december") goes to the general parser,
// relative to now and preferring future dates.
func ParseFuzzyDate(phrase string, now time.Time, loc *time.Location) (time.Time, error) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return time.Time{}, errNoDate
	}

	if m := reISODate.FindStringSubmatch(phrase); m != nil {
		return calendarDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), loc)
	}

	if m := reNumericDate.FindStringSubmatch(phrase); m != nil {
		return parseNumericDate(m[1], m[2], m[3], loc)
	}

	if m := reMonthDay.FindStringSubmatch(phrase); m != nil {
		return monthNameDate(m[1], m[2], m[3], now, loc)
	}

	if m := reDayMonth.FindStringSubmatch(phrase); m != nil {
		return monthNameDate(m[2], m[1], m[3], now, loc)
	}

	return searchDate(phrase, now, loc)
}

// searchDate parses the whole phrase first and, failing that, takes the
// first date found anywhere in it.
func searchDate(phrase string, now time.Time, loc *time.Location) (time.Time, error) {
	cfg := &dps.Configuration{
		Languages:           []string{"en"},
		CurrentTime:         now.In(loc),
		DefaultTimezone:     loc,
		PreferredDateSource: dps.Future,
	}

	if dt, err := dps.Parse(cfg, phrase); err == nil && !dt.Time.IsZero() {
		return startOfDay(dt.Time, loc), nil
	}

	_, found, err := dps.Search(cfg, phrase)
	if err != nil {
		return time.Time{}, fmt.Errorf("search date: %w", err)
	}
	for _, r := range found {
		if !r.Date.Time.IsZero() {
			return startOfDay(r.Date.Time, loc), nil
		}
	}
	return time.Time{}, errNoDate
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func parseNumericDate(first, second, year string, loc *time.Location) (time.Time, error) {
	if len(year) == 3 {
		return time.Time{}, fmt.Errorf("ambiguous year %q", year)
	}
	month, day := atoi(first), atoi(second)
	if month > 12 && day <= 12 {
		month, day = day, month
	}
	t, err := dateparse.ParseIn(fmt.Sprintf("%d/%d/%s", month, day, year), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse numeric date: %w", err)
	}
	return t, nil
}

func monthNameDate(name, day, year string, now time.Time, loc *time.Location) (time.Time, error) {
	month, ok := monthsByPrefix[name[:3]]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month %q", name)
	}
	y := now.Year()
	if year != "" {
		y = atoi(year)
	}
	return calendarDate(y, int(month), atoi(day), loc)
}

// calendarDate rejects dates that time.Date would silently roll over.
func calendarDate(year, month, day int, loc *time.Location) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range", month)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("day %d out of range for %s %d", day, time.Month(month), year)
	}
	return t, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
