/*
errors.go - Typed failures for period and rate construction

PURPOSE:
  All validation failures in this package are synchronous and local: a
  malformed value is rejected where it is first constructed. Callers match
  with errors.Is against the sentinels; the structured types carry enough
  context for a UI or API layer to present a precise message.

ERROR CATEGORIES:
  1. Period bounds  - end instant not after start
  2. Rate config    - non-positive weekday or weekend rate
  3. Time zone      - unknown or missing IANA zone identifier

None of these are transient; nothing here is retryable.

SEE ALSO:
  - period.go: Returns PeriodBoundsError and ZoneError
  - payment.go: Returns RateError
*/
package oncall

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidBounds is returned when a period's end is not after its start.
	ErrInvalidBounds = errors.New("invalid period: end not after start")

	// ErrInvalidRate is returned when a payment rate is zero or negative.
	ErrInvalidRate = errors.New("invalid rate: must be positive")

	// ErrUnknownZone is returned when a period carries an unrecognized or
	// empty IANA time zone identifier.
	ErrUnknownZone = errors.New("unknown time zone")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PeriodBoundsError reports a period whose end instant does not follow its
// start instant.
type PeriodBoundsError struct {
	Start time.Time
	End   time.Time
}

func (e *PeriodBoundsError) Error() string {
	return fmt.Sprintf("invalid period bounds: end %s not after start %s",
		e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}

func (e *PeriodBoundsError) Unwrap() error { return ErrInvalidBounds }

// RateError reports a non-positive payment rate.
type RateError struct {
	Bucket DayBucket
	Rate   string
}

func (e *RateError) Error() string {
	return fmt.Sprintf("invalid %s rate %s: must be positive", e.Bucket, e.Rate)
}

func (e *RateError) Unwrap() error { return ErrInvalidRate }

// ZoneError reports an unresolvable time zone identifier.
type ZoneError struct {
	Zone  string
	Cause error
}

func (e *ZoneError) Error() string {
	if e.Zone == "" {
		return "missing time zone identifier"
	}
	return fmt.Sprintf("unknown time zone %q", e.Zone)
}

func (e *ZoneError) Unwrap() error { return ErrUnknownZone }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidBounds) ||
		errors.Is(err, ErrInvalidRate) ||
		errors.Is(err, ErrUnknownZone)
}
