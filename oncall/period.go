/*
Package oncall is the on-call compensation engine: it classifies rostered
shifts as in- or out-of-hours, attributes qualifying calendar days to
weekday/weekend buckets, and converts day counts into money.

KEY CONCEPTS:
  - Period: one contiguous on-call shift with its IANA time zone
  - User:   an identity owning an ordered collection of periods
  - Calculator: configured day rates applied to aggregated users

OUT-OF-HOURS RULE:
  A period is out-of-hours (OOH) if ANY of:
    1. it spans a local day boundary (start and end on different local
       calendar days), or
    2. its local end time is later than 17:30, or
    3. it lasts longer than 6 hours.
  Day-boundary and end-time checks use the period's own zone; the duration
  check compares absolute instants and is zone-independent.

DAY ATTRIBUTION:
  An OOH period contributes one day to a bucket for every local calendar
  day it touches, from its start day through its end day inclusive. The
  weekday count plus the weekend count always equals the inclusive local
  day span. A non-OOH period contributes nothing.

All values in this package are immutable after construction; every
computation is a pure function over them.
*/
package oncall

import (
	"fmt"
	"time"
)

// Working-hours boundaries for the OOH rule.
const (
	// endOfWorkingDay is 17:30 expressed in decimal hours.
	endOfWorkingDay = 17.5

	// minOohDuration is the duration above which a shift is OOH regardless
	// of when it ends.
	minOohDuration = 6 * time.Hour
)

// =============================================================================
// PERIOD - A single on-call shift
// =============================================================================

// Period is one contiguous on-call shift. Start and end are absolute
// instants; the zone is used only for local-calendar computations, never
// for instant comparisons.
type Period struct {
	start time.Time
	end   time.Time
	zone  string
	loc   *time.Location
}

// NewPeriod validates and constructs a shift period. The end must be
// strictly after the start, and zone must resolve as an IANA identifier.
func NewPeriod(start, end time.Time, zone string) (*Period, error) {
	if !end.After(start) {
		return nil, &PeriodBoundsError{Start: start, End: end}
	}
	loc, err := LoadZone(zone)
	if err != nil {
		return nil, err
	}
	return &Period{start: start, end: end, zone: zone, loc: loc}, nil
}

func (p *Period) Start() time.Time { return p.start }
func (p *Period) End() time.Time   { return p.end }
func (p *Period) Timezone() string { return p.zone }

// IsOutOfHours reports whether this shift qualifies as out-of-hours work.
// Any single condition of the OOH rule is sufficient.
func (p *Period) IsOutOfHours() bool {
	localStart := p.start.In(p.loc)
	localEnd := p.end.In(p.loc)

	// Spans a local day boundary, including immediately after midnight.
	if !sameLocalDate(localStart, localEnd) {
		return true
	}

	// Ends after the working day.
	endHour := float64(localEnd.Hour()) + float64(localEnd.Minute())/60
	if endHour > endOfWorkingDay {
		return true
	}

	// Longer than the minimum OOH duration.
	return p.end.Sub(p.start) > minOohDuration
}

// OohWeekdayCount returns how many local calendar days this period touches
// that fall in the weekday bucket (Monday-Thursday). Zero when not OOH.
func (p *Period) OohWeekdayCount() int {
	return p.oohDayCount(BucketWeekday)
}

// OohWeekendCount returns how many local calendar days this period touches
// that fall in the weekend bucket (Friday-Sunday). Zero when not OOH.
func (p *Period) OohWeekendCount() int {
	return p.oohDayCount(BucketWeekend)
}

// oohDayCount walks each local calendar day from the start day through the
// end day inclusive and counts the days in the given bucket.
func (p *Period) oohDayCount(bucket DayBucket) int {
	if !p.IsOutOfHours() {
		return 0
	}

	localEnd := p.end.In(p.loc)
	count := 0
	for cur := StartOfLocalDay(p.start, p.loc); !cur.After(localEnd); cur = NextLocalDay(cur, p.loc) {
		if BucketOf(cur.Weekday()) == bucket {
			count++
		}
	}
	return count
}

// DurationHours returns the shift length in fractional hours. This is an
// instant difference and does not depend on the zone.
func (p *Period) DurationHours() float64 {
	return p.end.Sub(p.start).Hours()
}

// String renders the shift in its own zone. Diagnostics only; no
// calculation consumes this.
func (p *Period) String() string {
	const layout = "Jan 02 15:04"
	return fmt.Sprintf("%s - %s (%s)",
		p.start.In(p.loc).Format(layout),
		p.end.In(p.loc).Format(layout),
		p.zone)
}
