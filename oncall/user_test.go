package oncall_test

import (
	"math"
	"testing"
	"time"

	"github.com/eakan-codes/caloohpay-web/oncall"
)

// weekOfShifts returns one OOH weekday block (Mon-Thu), one OOH weekend
// block (Fri-Sun), and one short in-hours Monday shift.
func weekOfShifts(t *testing.T) []*oncall.Period {
	t.Helper()
	return []*oncall.Period{
		mustPeriod(t, utc(15, 0, 0), time.Date(2024, time.January, 18, 23, 59, 59, 0, time.UTC), "UTC"),
		mustPeriod(t, utc(19, 0, 0), time.Date(2024, time.January, 21, 23, 59, 59, 0, time.UTC), "UTC"),
		mustPeriod(t, utc(22, 9, 0), utc(22, 10, 0), "UTC"),
	}
}

func TestUser_TotalsAreSumsOverPeriods(t *testing.T) {
	// GIVEN: A user with a Mon-Thu block, a Fri-Sun block and one
	// in-hours shift
	// THEN: 4 weekday days, 3 weekend days; the in-hours shift adds none

	u := oncall.NewUser("u1", "Ada Lovelace", "ada@example.com", weekOfShifts(t))

	if got := u.TotalOohWeekdays(); got != 4 {
		t.Errorf("expected 4 weekday days, got %d", got)
	}
	if got := u.TotalOohWeekends(); got != 3 {
		t.Errorf("expected 3 weekend days, got %d", got)
	}
}

func TestUser_TotalDurationIncludesNonOohPeriods(t *testing.T) {
	// GIVEN: The same user
	// THEN: Total duration counts every period, OOH or not

	u := oncall.NewUser("u1", "Ada Lovelace", "", weekOfShifts(t))

	// Two blocks just shy of 96h and 72h, plus 1 in-hours hour.
	want := (96 - 1.0/3600) + (72 - 1.0/3600) + 1
	if got := u.TotalDurationHours(); math.Abs(got-want) > 1e-6 {
		t.Errorf("expected %v total hours, got %v", want, got)
	}
}

func TestUser_OohPeriodsFilterPreservesOrder(t *testing.T) {
	// GIVEN: Periods in a fixed order with one non-OOH in the middle
	// WHEN: Filtering to OOH periods
	// THEN: Only OOH periods remain, in input order

	short := mustPeriod(t, utc(16, 9, 0), utc(16, 10, 0), "UTC")
	first := mustPeriod(t, utc(15, 22, 0), utc(16, 2, 0), "UTC")
	last := mustPeriod(t, utc(18, 9, 0), utc(18, 18, 0), "UTC")

	u := oncall.NewUser("u1", "Ada Lovelace", "", []*oncall.Period{first, short, last})

	ooh := u.OohPeriods()
	if len(ooh) != 2 {
		t.Fatalf("expected 2 OOH periods, got %d", len(ooh))
	}
	if ooh[0] != first || ooh[1] != last {
		t.Error("OOH filter did not preserve input order")
	}
}

func TestUser_EmptyPeriods_ZeroAggregates(t *testing.T) {
	u := oncall.NewUser("u1", "Ada Lovelace", "", nil)

	if u.TotalOohWeekdays() != 0 || u.TotalOohWeekends() != 0 {
		t.Error("empty user must have zero day totals")
	}
	if u.TotalDurationHours() != 0 {
		t.Error("empty user must have zero duration")
	}
	if len(u.OohPeriods()) != 0 {
		t.Error("empty user must have no OOH periods")
	}
}

func TestUser_SummaryCarriesPerPeriodDetail(t *testing.T) {
	// GIVEN: A user with one OOH and one in-hours period
	// WHEN: Building the serialization view
	// THEN: Identity, totals and per-period flags/counts are present

	overnight := mustPeriod(t, utc(15, 22, 0), utc(16, 2, 0), "UTC")
	short := mustPeriod(t, utc(17, 9, 0), utc(17, 10, 0), "UTC")
	u := oncall.NewUser("u1", "Ada Lovelace", "ada@example.com", []*oncall.Period{overnight, short})

	s := u.Summary()

	if s.ID != "u1" || s.Name != "Ada Lovelace" || s.Email != "ada@example.com" {
		t.Errorf("summary identity mismatch: %+v", s)
	}
	if s.TotalOohWeekdays != 2 || s.TotalOohWeekends != 0 {
		t.Errorf("summary totals mismatch: %+v", s)
	}
	if len(s.Periods) != 2 {
		t.Fatalf("expected 2 period summaries, got %d", len(s.Periods))
	}
	if !s.Periods[0].IsOoh || s.Periods[0].WeekdayCount != 2 {
		t.Errorf("overnight period summary mismatch: %+v", s.Periods[0])
	}
	if s.Periods[1].IsOoh || s.Periods[1].WeekdayCount != 0 {
		t.Errorf("in-hours period summary mismatch: %+v", s.Periods[1])
	}
	if s.Periods[0].Start != "2024-01-15T22:00:00Z" {
		t.Errorf("expected RFC 3339 start, got %q", s.Periods[0].Start)
	}
}

func TestNewUser_CopiesPeriodSlice(t *testing.T) {
	// GIVEN: A caller-owned period slice
	// WHEN: Mutating the caller's slice after construction
	// THEN: The user's periods are unaffected

	periods := []*oncall.Period{mustPeriod(t, utc(15, 22, 0), utc(16, 2, 0), "UTC")}
	u := oncall.NewUser("u1", "Ada Lovelace", "", periods)

	periods[0] = nil

	if u.Periods()[0] == nil {
		t.Error("user must own a copy of the period slice")
	}
}
