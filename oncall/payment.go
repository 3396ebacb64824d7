/*
payment.go - Converts OOH day counts into compensation

PURPOSE:
  Applies configured per-day rates to aggregated users. Every operation is
  a deterministic, side-effect-free arithmetic reduction over already
  validated in-memory data: no hidden state, no retries, no partial
  failure.

MONEY:
  Rates and compensation figures use decimal.Decimal to avoid
  floating-point drift in currency arithmetic.

BATCH SEMANTICS:
  Batch operations apply the single-user calculation independently to each
  user. There is no normalization or cross-user redistribution. When two
  users in a batch share an id, the keyed batch result keeps the last one
  (map semantics); callers needing accumulation must pre-merge. The
  ordered detail variant keeps every entry.

SEE ALSO:
  - user.go: Supplies the day totals
  - errors.go: RateError for non-positive rates
*/
package oncall

import "github.com/shopspring/decimal"

// Default payment configuration, applied when callers supply no rates.
const (
	defaultWeekdayRate = 50
	defaultWeekendRate = 75
	defaultCurrency    = "GBP"
	defaultSymbol      = "£"
)

// =============================================================================
// RATES
// =============================================================================

// Rates is the payment configuration: currency units per qualifying day
// for each bucket, plus display labels. Immutable for the duration of a
// calculation run.
type Rates struct {
	Weekday  decimal.Decimal `json:"weekday"`
	Weekend  decimal.Decimal `json:"weekend"`
	Currency string          `json:"currency"`
	Symbol   string          `json:"symbol"`
}

// DefaultRates returns the standard configuration: 50/day weekday,
// 75/day weekend, GBP.
func DefaultRates() Rates {
	return Rates{
		Weekday:  decimal.NewFromInt(defaultWeekdayRate),
		Weekend:  decimal.NewFromInt(defaultWeekendRate),
		Currency: defaultCurrency,
		Symbol:   defaultSymbol,
	}
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator applies a fixed rate configuration to users. Construct with
// NewCalculator; the rates never change afterwards.
type Calculator struct {
	rates Rates
}

// NewCalculator validates the rate configuration. Both rates must be
// strictly positive; currency and symbol default to GBP when empty.
func NewCalculator(rates Rates) (*Calculator, error) {
	if !rates.Weekday.IsPositive() {
		return nil, &RateError{Bucket: BucketWeekday, Rate: rates.Weekday.String()}
	}
	if !rates.Weekend.IsPositive() {
		return nil, &RateError{Bucket: BucketWeekend, Rate: rates.Weekend.String()}
	}
	if rates.Currency == "" {
		rates.Currency = defaultCurrency
		rates.Symbol = defaultSymbol
	}
	return &Calculator{rates: rates}, nil
}

// Rates returns the configured payment rates.
func (c *Calculator) Rates() Rates { return c.rates }

// Compensation returns the total compensation for one user:
// weekdayDays * weekdayRate + weekendDays * weekendRate.
func (c *Calculator) Compensation(u *User) decimal.Decimal {
	weekdays := decimal.NewFromInt(int64(u.TotalOohWeekdays()))
	weekends := decimal.NewFromInt(int64(u.TotalOohWeekends()))
	return weekdays.Mul(c.rates.Weekday).Add(weekends.Mul(c.rates.Weekend))
}

// Compensation is the reporting breakdown for a single user's pay.
type Compensation struct {
	User        UserSummary     `json:"user"`
	WeekdayDays int             `json:"weekday_days"`
	WeekendDays int             `json:"weekend_days"`
	Total       decimal.Decimal `json:"total_compensation"`
}

// CompensationDetails returns the single-user calculation together with
// its day-count breakdown and per-period detail.
func (c *Calculator) CompensationDetails(u *User) Compensation {
	return Compensation{
		User:        u.Summary(),
		WeekdayDays: u.TotalOohWeekdays(),
		WeekendDays: u.TotalOohWeekends(),
		Total:       c.Compensation(u),
	}
}

// BatchCompensation computes each user's compensation independently and
// keys the results by user id. Duplicate ids overwrite: last write wins.
func (c *Calculator) BatchCompensation(users []*User) map[string]decimal.Decimal {
	results := make(map[string]decimal.Decimal, len(users))
	for _, u := range users {
		results[u.ID()] = c.Compensation(u)
	}
	return results
}

// BatchCompensationDetails returns per-user breakdowns in input order,
// one entry per user even when ids repeat.
func (c *Calculator) BatchCompensationDetails(users []*User) []Compensation {
	details := make([]Compensation, len(users))
	for i, u := range users {
		details[i] = c.CompensationDetails(u)
	}
	return details
}

// TotalCompensation sums the single-user calculation over all users.
// Zero for an empty collection.
func (c *Calculator) TotalCompensation(users []*User) decimal.Decimal {
	total := decimal.Zero
	for _, u := range users {
		total = total.Add(c.Compensation(u))
	}
	return total
}
