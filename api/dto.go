/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in handlers and domain constructors, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/eakan-codes/caloohpay-web/analytics"
	"github.com/eakan-codes/caloohpay-web/oncall"
	"github.com/eakan-codes/caloohpay-web/roster"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ShiftDTO is one raw shift as supplied by the caller. Start and end are
// RFC 3339 instants.
type ShiftDTO struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email,omitempty"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Timezone  string `json:"timezone,omitempty"`
}

// RatesDTO carries a rate override. Currency defaults to GBP when empty.
type RatesDTO struct {
	Weekday  float64 `json:"weekday"`
	Weekend  float64 `json:"weekend"`
	Currency string  `json:"currency,omitempty"`
	Symbol   string  `json:"symbol,omitempty"`
}

// CompensationRequest is the body of POST /api/compensation.
type CompensationRequest struct {
	Rates           *RatesDTO  `json:"rates,omitempty"`
	DefaultTimezone string     `json:"default_timezone,omitempty"`
	Shifts          []ShiftDTO `json:"shifts"`
}

// AnalyticsRequest is the body of the analytics endpoints.
type AnalyticsRequest struct {
	Rates  *RatesDTO  `json:"rates,omitempty"`
	Shifts []ShiftDTO `json:"shifts"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// CompensationResponse is the result of a calculation run.
type CompensationResponse struct {
	RunID string                `json:"run_id"`
	Rates oncall.Rates          `json:"rates"`
	Users []oncall.Compensation `json:"users"`
	Total string                `json:"total_compensation"`
}

// RunSummaryDTO is one archived run in a listing.
type RunSummaryDTO struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Currency  string `json:"currency"`
	Total     string `json:"total_compensation"`
	UserCount int    `json:"user_count"`
}

// RunDetailDTO is one archived run with its per-user lines.
type RunDetailDTO struct {
	ID          string           `json:"id"`
	CreatedAt   string           `json:"created_at"`
	WeekdayRate string           `json:"weekday_rate"`
	WeekendRate string           `json:"weekend_rate"`
	Currency    string           `json:"currency"`
	Symbol      string           `json:"symbol"`
	Total       string           `json:"total_compensation"`
	Users       []RunUserLineDTO `json:"users"`
}

// RunUserLineDTO is one user's line in an archived run.
type RunUserLineDTO struct {
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name"`
	UserEmail    string `json:"user_email,omitempty"`
	WeekdayDays  int    `json:"weekday_days"`
	WeekendDays  int    `json:"weekend_days"`
	Compensation string `json:"compensation"`
}

// FrequencyMatrixResponse wraps the 7x24 grid.
type FrequencyMatrixResponse struct {
	Cells []analytics.MatrixCell `json:"cells"`
}

// BurdenResponse wraps the burden distribution rows.
type BurdenResponse struct {
	Distribution []analytics.UserBurden `json:"distribution"`
}

// InterruptionsResponse wraps the interruption correlation rows.
type InterruptionsResponse struct {
	Correlation []analytics.UserInterruptions `json:"correlation"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// toRosterEntries parses shift DTOs into roster entries.
func toRosterEntries(shifts []ShiftDTO) ([]roster.Entry, error) {
	entries := make([]roster.Entry, len(shifts))
	for i, s := range shifts {
		start, end, err := parseShiftBounds(s)
		if err != nil {
			return nil, err
		}
		entries[i] = roster.Entry{
			UserID:    s.UserID,
			UserName:  s.UserName,
			UserEmail: s.UserEmail,
			Start:     start,
			End:       end,
			Timezone:  s.Timezone,
		}
	}
	return entries, nil
}

// toAnalyticsShifts parses shift DTOs into analytics records.
func toAnalyticsShifts(shifts []ShiftDTO) ([]analytics.Shift, error) {
	out := make([]analytics.Shift, len(shifts))
	for i, s := range shifts {
		start, end, err := parseShiftBounds(s)
		if err != nil {
			return nil, err
		}
		out[i] = analytics.Shift{
			UserID:    s.UserID,
			UserName:  s.UserName,
			UserEmail: s.UserEmail,
			Start:     start,
			End:       end,
			Timezone:  s.Timezone,
		}
	}
	return out, nil
}

func parseShiftBounds(s ShiftDTO) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, s.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(time.RFC3339, s.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
