/*
user.go - A user identity with its owned on-call periods

PURPOSE:
  Aggregates per-period classification into per-user totals. All
  aggregates are associative sums over independently classified periods;
  there is no cross-period interaction, and period ordering is preserved
  only for reporting.

SEE ALSO:
  - period.go: Per-period classification
  - payment.go: Consumes the day totals
*/
package oncall

import "time"

// User is an immutable identity owning an ordered collection of periods.
// The periods are owned exclusively: they are never shared between users
// or mutated after construction.
type User struct {
	id      string
	name    string
	email   string
	periods []*Period
}

// NewUser constructs a user. Email may be empty. The period slice is
// copied so later mutation of the caller's slice cannot reach the user.
func NewUser(id, name, email string, periods []*Period) *User {
	owned := make([]*Period, len(periods))
	copy(owned, periods)
	return &User{id: id, name: name, email: email, periods: owned}
}

func (u *User) ID() string    { return u.id }
func (u *User) Name() string  { return u.name }
func (u *User) Email() string { return u.email }

// Periods returns all periods in input order.
func (u *User) Periods() []*Period { return u.periods }

// TotalOohWeekdays sums the weekday-bucket day counts across all periods.
func (u *User) TotalOohWeekdays() int {
	total := 0
	for _, p := range u.periods {
		total += p.OohWeekdayCount()
	}
	return total
}

// TotalOohWeekends sums the weekend-bucket day counts across all periods.
func (u *User) TotalOohWeekends() int {
	total := 0
	for _, p := range u.periods {
		total += p.OohWeekendCount()
	}
	return total
}

// OohPeriods returns only the out-of-hours periods, preserving input order.
func (u *User) OohPeriods() []*Period {
	var ooh []*Period
	for _, p := range u.periods {
		if p.IsOutOfHours() {
			ooh = append(ooh, p)
		}
	}
	return ooh
}

// TotalDurationHours sums the duration of every period, OOH or not.
func (u *User) TotalDurationHours() float64 {
	total := 0.0
	for _, p := range u.periods {
		total += p.DurationHours()
	}
	return total
}

// =============================================================================
// SERIALIZATION VIEW
// =============================================================================

// UserSummary is the reporting view of a user: identity, day totals, and
// per-period detail. Consumed by external reporting, not by the payment
// calculator.
type UserSummary struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Email            string          `json:"email,omitempty"`
	TotalOohWeekdays int             `json:"total_ooh_weekdays"`
	TotalOohWeekends int             `json:"total_ooh_weekends"`
	Periods          []PeriodSummary `json:"periods"`
}

// PeriodSummary is the reporting view of a single period.
type PeriodSummary struct {
	Start        string `json:"start"` // RFC 3339 instant
	End          string `json:"end"`   // RFC 3339 instant
	Timezone     string `json:"timezone"`
	IsOoh        bool   `json:"is_ooh"`
	WeekdayCount int    `json:"weekday_count"`
	WeekendCount int    `json:"weekend_count"`
}

// Summary builds the reporting view.
func (u *User) Summary() UserSummary {
	periods := make([]PeriodSummary, len(u.periods))
	for i, p := range u.periods {
		periods[i] = p.summary()
	}
	return UserSummary{
		ID:               u.id,
		Name:             u.name,
		Email:            u.email,
		TotalOohWeekdays: u.TotalOohWeekdays(),
		TotalOohWeekends: u.TotalOohWeekends(),
		Periods:          periods,
	}
}

func (p *Period) summary() PeriodSummary {
	return PeriodSummary{
		Start:        p.start.UTC().Format(time.RFC3339),
		End:          p.end.UTC().Format(time.RFC3339),
		Timezone:     p.zone,
		IsOoh:        p.IsOutOfHours(),
		WeekdayCount: p.OohWeekdayCount(),
		WeekendCount: p.OohWeekendCount(),
	}
}
