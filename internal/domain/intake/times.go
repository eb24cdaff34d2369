package intake

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// HourPolicy decides how a bare hour with no am/pm marker maps onto the
// 24-hour clock.
type HourPolicy string

const (
	// HourPolicyAssumePM reads 1..11 as afternoon/evening hours.
	HourPolicyAssumePM HourPolicy = "assume-pm"
	// HourPolicyBusinessHours reads 7..11 as morning and 1..6 as afternoon.
	HourPolicyBusinessHours HourPolicy = "business-hours"
	// HourPolicyLiteral takes the hour as already being 24-hour.
	HourPolicyLiteral HourPolicy = "literal"
)

const DefaultHourPolicy = HourPolicyAssumePM

// ParseHourPolicy validates a policy name. An empty name selects the
// default.
func ParseHourPolicy(s string) (HourPolicy, error) {
	switch p := HourPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DefaultHourPolicy, nil
	case HourPolicyAssumePM, HourPolicyBusinessHours, HourPolicyLiteral:
		return p, nil
	default:
		return "", fmt.Errorf("unknown ambiguous hour policy %q", s)
	}
}

// Resolve maps a bare hour to a 24-hour value.
func (p HourPolicy) Resolve(h int) int {
	switch p {
	case HourPolicyLiteral:
		return h
	case HourPolicyBusinessHours:
		if h >= 1 && h < 7 {
			return h + 12
		}
		return h
	default:
		if h >= 1 && h < 12 {
			return h + 12
		}
		return h
	}
}

var (
	reMeridiemTime = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*([ap])\.?m\b`)
	reBareHour     = regexp.MustCompile(`\d{1,2}`)
)

// ResolveTime converts a time phrase to 24-hour HH:MM. Phrases carrying an
// am/pm marker use standard 12-hour conversion. Otherwise the first one or
// two digit run is an hour, mapped through policy, and minutes are dropped.
func ResolveTime(phrase string, policy HourPolicy) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(phrase))

	if strings.Contains(lower, "am") || strings.Contains(lower, "pm") {
		t, err := parseMeridiem(lower)
		if err != nil {
			return "", needsClarification(MsgUnparsableTime)
		}
		return t.Format("15:04"), nil
	}

	digits := reBareHour.FindString(lower)
	if digits == "" {
		return "", needsClarification(MsgUnparsableTime)
	}
	h := policy.Resolve(atoi(digits))
	if h < 0 || h > 23 {
		return "", needsClarification(MsgUnparsableTime)
	}
	return fmt.Sprintf("%02d:00", h), nil
}

// parseMeridiem finds an h[:mm] am|pm run in s and parses it as a
// 12-hour clock time.
func parseMeridiem(s string) (time.Time, error) {
	m := reMeridiemTime.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("no 12-hour time in %q", s)
	}
	value, layout := m[1]+m[3]+"m", "3pm"
	if m[2] != "" {
		value, layout = m[1]+":"+m[2]+m[3]+"m", "3:04pm"
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", value, err)
	}
	return t, nil
}
