package intake

import (
	"fmt"
	"time"

	// The fixed zone must resolve on hosts without a zoneinfo database.
	_ "time/tzdata"
)

// DefaultTimezone is Indian Standard Time, the only zone the pipeline
// reasons in unless configured otherwise.
const DefaultTimezone = "Asia/Kolkata"

// defaultLocation is used whenever no zone is given. tzdata is embedded,
// so the fixed +05:30 fallback only guards a broken build.
var defaultLocation = func() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.FixedZone(DefaultTimezone, 5*60*60+30*60)
	}
	return loc
}()

// Clock supplies "now" to date resolution.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	return ClockFunc(func() time.Time {
		return time.Now().In(loc)
	})
}

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time {
		return t
	})
}

// LoadLocation resolves a zone name, falling back to DefaultTimezone when
// name is empty.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}
