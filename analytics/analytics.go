/*
Package analytics builds reporting views directly from raw shift records.

PURPOSE:
  Three transforms feed reporting dashboards:
  - Frequency matrix: a dense 7x24 day-of-week/hour grid of on-call hours
  - Burden distribution: per-user share of total on-call time
  - Interruption correlation: per-user interruption proxy vs. pay

These transforms consume raw shifts in a side channel: they share the
calendar-bucketing vocabulary with the payment path but never feed it.
The interruption transform's weekend test (start day-of-week only) is a
deliberately simpler rule than the full out-of-hours classification and
must stay independent of it; unifying the two would silently change
reported numbers.
*/
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eakan-codes/caloohpay-web/oncall"
)

// Shift is one raw on-call record as supplied by a roster source.
type Shift struct {
	UserID    string
	UserName  string
	UserEmail string
	Start     time.Time
	End       time.Time
	Timezone  string
}

// =============================================================================
// FREQUENCY MATRIX
// =============================================================================

// MatrixCell is one cell of the 7x24 frequency grid. DayOfWeek follows the
// Sunday=0 convention.
type MatrixCell struct {
	DayOfWeek int `json:"day_of_week"`
	Hour      int `json:"hour"`
	Count     int `json:"count"`
}

// BuildFrequencyMatrix counts on-call hours per (day-of-week, hour) cell.
// Each shift is stepped hour by hour in UTC from its start instant while
// before its end, so the end hour boundary is exclusive. A non-empty
// userID restricts counting to that user's shifts. The result is always a
// dense grid of 168 cells, zero-filled, ordered day 0-6 then hour 0-23.
func BuildFrequencyMatrix(shifts []Shift, userID string) []MatrixCell {
	var counts [7][24]int

	for _, s := range shifts {
		if userID != "" && s.UserID != userID {
			continue
		}
		for cur := s.Start.UTC(); cur.Before(s.End); cur = cur.Add(time.Hour) {
			counts[int(cur.Weekday())][cur.Hour()]++
		}
	}

	cells := make([]MatrixCell, 0, 7*24)
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			cells = append(cells, MatrixCell{DayOfWeek: day, Hour: hour, Count: counts[day][hour]})
		}
	}
	return cells
}

// =============================================================================
// BURDEN DISTRIBUTION
// =============================================================================

// UserBurden is one user's share of the total on-call load.
type UserBurden struct {
	UserID     string  `json:"user_id"`
	UserName   string  `json:"user_name"`
	TotalHours float64 `json:"total_on_call_hours"`
	Percentage float64 `json:"percentage"`
}

// BurdenDistribution totals on-call hours per user and derives each
// user's percentage of the grand total. Hours and percentages are rounded
// to 2 decimal places; every percentage is 0 when the total is 0. The
// result is sorted descending by hours, ties keeping first-seen order.
func BurdenDistribution(shifts []Shift) []UserBurden {
	type acc struct {
		name  string
		hours float64
	}
	var order []string
	totals := make(map[string]*acc)
	totalHours := 0.0

	for _, s := range shifts {
		hours := s.End.Sub(s.Start).Hours()
		if a, ok := totals[s.UserID]; ok {
			a.hours += hours
		} else {
			totals[s.UserID] = &acc{name: s.UserName, hours: hours}
			order = append(order, s.UserID)
		}
		totalHours += hours
	}

	distribution := make([]UserBurden, 0, len(order))
	for _, id := range order {
		a := totals[id]
		pct := 0.0
		if totalHours > 0 {
			pct = round2(a.hours / totalHours * 100)
		}
		distribution = append(distribution, UserBurden{
			UserID:     id,
			UserName:   a.name,
			TotalHours: round2(a.hours),
			Percentage: pct,
		})
	}

	sort.SliceStable(distribution, func(i, j int) bool {
		return distribution[i].TotalHours > distribution[j].TotalHours
	})
	return distribution
}

// =============================================================================
// INTERRUPTION CORRELATION
// =============================================================================

// UserInterruptions correlates a user's interruption load with their pay.
// Interruptions are currently a proxy: rounded total on-call hours, not a
// true interruption count.
type UserInterruptions struct {
	UserID        string          `json:"user_id"`
	UserName      string          `json:"user_name"`
	Interruptions int             `json:"total_interruptions"`
	TotalPay      decimal.Decimal `json:"total_pay"`
}

// InterruptionCorrelation builds per-user interruption/pay rows. Pay per
// shift is hours times the weekend rate when the shift's local start day
// is Friday, Saturday or Sunday, and the weekday rate otherwise. This
// start-day rule is intentionally simpler than the out-of-hours
// classification and is used only for correlation reporting, not payroll.
// Rows keep first-seen user order. Fails on an unresolvable shift zone;
// shifts without a zone are evaluated in UTC.
func InterruptionCorrelation(shifts []Shift, weekdayRate, weekendRate decimal.Decimal) ([]UserInterruptions, error) {
	type acc struct {
		name  string
		hours float64
		pay   decimal.Decimal
	}
	var order []string
	totals := make(map[string]*acc)

	for _, s := range shifts {
		loc := time.UTC
		if s.Timezone != "" {
			var err error
			if loc, err = oncall.LoadZone(s.Timezone); err != nil {
				return nil, err
			}
		}

		hours := s.End.Sub(s.Start).Hours()
		rate := weekdayRate
		if oncall.BucketOf(s.Start.In(loc).Weekday()) == oncall.BucketWeekend {
			rate = weekendRate
		}
		pay := decimal.NewFromFloat(hours).Mul(rate)

		if a, ok := totals[s.UserID]; ok {
			a.hours += hours
			a.pay = a.pay.Add(pay)
		} else {
			totals[s.UserID] = &acc{name: s.UserName, hours: hours, pay: pay}
			order = append(order, s.UserID)
		}
	}

	rows := make([]UserInterruptions, 0, len(order))
	for _, id := range order {
		a := totals[id]
		rows = append(rows, UserInterruptions{
			UserID:        id,
			UserName:      a.name,
			Interruptions: int(math.Round(a.hours)),
			TotalPay:      a.pay.Round(2),
		})
	}
	return rows, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
