package intake

import (
	"strings"
	"time"
)

// weekdayNames are indexed Monday=0 .. Sunday=6.
var weekdayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// relativeRule resolves a date phrase containing keyword against now.
type relativeRule struct {
	keyword string
	resolve func(phrase string, now time.Time) (time.Time, bool)
}

// relativeRules are evaluated in order; the first keyword contained in the
// phrase decides the branch, including when that branch then fails.
var relativeRules = []relativeRule{
	{keyword: "tomorrow", resolve: func(_ string, now time.Time) (time.Time, bool) {
		return now.AddDate(0, 0, 1), true
	}},
	{keyword: "today", resolve: func(_ string, now time.Time) (time.Time, bool) {
		return now, true
	}},
	{keyword: "next", resolve: resolveNextWeekday},
}

// mondayIndex converts time.Weekday (Sunday=0) to a Monday=0 index.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// resolveNextWeekday returns the first occurrence of the named weekday
// strictly after now. Today never counts, even when it is that weekday.
func resolveNextWeekday(phrase string, now time.Time) (time.Time, bool) {
	for i, name := range weekdayNames {
		if !strings.Contains(phrase, name) {
			continue
		}
		daysAhead := i - mondayIndex(now.Weekday())
		if daysAhead <= 0 {
			daysAhead += 7
		}
		return now.AddDate(0, 0, daysAhead), true
	}
	return time.Time{}, false
}

// ResolveDate turns a date phrase into a calendar date in loc. Relative
// phrases are resolved against now; anything else goes through the fuzzy
// parser. An unresolvable phrase yields a *ClarificationError.
func ResolveDate(phrase string, now time.Time, loc *time.Location) (time.Time, error) {
	phrase = strings.ToLower(phrase)
	now = now.In(loc)

	for _, r := range relativeRules {
		if !strings.Contains(phrase, r.keyword) {
			continue
		}
		t, ok := r.resolve(phrase, now)
		if !ok {
			return time.Time{}, needsClarification(MsgUnparsableDate)
		}
		return t, nil
	}

	t, err := ParseFuzzyDate(phrase, now, loc)
	if err != nil {
		return time.Time{}, needsClarification(MsgUnparsableDate)
	}
	return t, nil
}
