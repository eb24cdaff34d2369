package intake

import (
	"time"
)

// NormalizeOptions fixes the zone and the bare-hour policy used by
// Normalize.
type NormalizeOptions struct {
	Location   *time.Location
	HourPolicy HourPolicy
}

// Normalize resolves extracted phrases to a concrete date and 24-hour time
// in opts.Location. now is only read by the relative date branches. Any
// unparsable phrase yields a *ClarificationError; partial results are never
// returned.
func Normalize(e Entities, now time.Time, opts NormalizeOptions) (NormalizeResult, error) {
	loc := opts.Location
	if loc == nil {
		loc = defaultLocation
	}
	policy := opts.HourPolicy
	if policy == "" {
		policy = DefaultHourPolicy
	}

	date, err := ResolveDate(e.DatePhrase, now, loc)
	if err != nil {
		return NormalizeResult{}, err
	}
	clock, err := ResolveTime(e.TimePhrase, policy)
	if err != nil {
		return NormalizeResult{}, err
	}

	return NormalizeResult{
		Normalized: NormalizedDateTime{
			Date: date.Format("2006-01-02"),
			Time: clock,
			TZ:   loc.String(),
		},
		Confidence: NormalizationConfidence,
	}, nil
}
