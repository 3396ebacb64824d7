/*
calendar.go - Local-calendar helpers shared by the classification engine

PURPOSE:
  Day-of-week bucketing and zone-aware day arithmetic. All classification
  in this package works on local wall-clock days, so everything here takes
  an explicit *time.Location and never falls back to UTC.

DAY BUCKETS:
  Weekday bucket: Monday - Thursday
  Weekend bucket: Friday, Saturday, Sunday
  The partition is a fixed domain constant. Friday counts as weekend
  because a Friday on-call evening runs into the weekend proper.

DST SAFETY:
  NextLocalDay steps by one logical calendar day via time.Date, not by a
  fixed 24h offset. On spring-forward/fall-back days the step still lands
  on the next local midnight.

SEE ALSO:
  - period.go: The day-walk over these helpers
  - errors.go: ZoneError returned by LoadZone
*/
package oncall

import "time"

// =============================================================================
// DAY BUCKETS
// =============================================================================

// DayBucket classifies a calendar day as weekday or weekend for payment
// purposes.
type DayBucket int

const (
	BucketWeekday DayBucket = iota // Monday - Thursday
	BucketWeekend                  // Friday, Saturday, Sunday
)

func (b DayBucket) String() string {
	if b == BucketWeekend {
		return "weekend"
	}
	return "weekday"
}

// BucketOf returns the payment bucket for a day of the week.
func BucketOf(d time.Weekday) DayBucket {
	switch d {
	case time.Friday, time.Saturday, time.Sunday:
		return BucketWeekend
	default:
		return BucketWeekday
	}
}

// =============================================================================
// ZONE-AWARE DAY ARITHMETIC
// =============================================================================

// LoadZone resolves an IANA zone identifier. An unknown or empty zone is a
// hard error: classification is zone-sensitive and a silent UTC fallback
// would misclassify shifts.
func LoadZone(zone string) (*time.Location, error) {
	if zone == "" {
		return nil, &ZoneError{Zone: zone}
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, &ZoneError{Zone: zone, Cause: err}
	}
	return loc, nil
}

// StartOfLocalDay returns local midnight of the day containing t, in loc.
func StartOfLocalDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// NextLocalDay returns local midnight of the calendar day after t.
// Steps one logical day, so DST transitions neither skip nor double-count.
func NextLocalDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day()+1, 0, 0, 0, 0, loc)
}

// sameLocalDate reports whether a and b fall on the same local calendar day.
func sameLocalDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
