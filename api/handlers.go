/*
handlers.go - HTTP API handlers for the compensation engine

PURPOSE:
  Exposes the on-call compensation engine via REST API. Handlers parse
  and validate HTTP input, delegate to the pure calculation packages, and
  serialize results. Shift data arrives in request bodies; this service
  never fetches rosters itself.

ENDPOINTS:
  Compensation:
    POST   /api/compensation            Calculate and archive a run
    GET    /api/rates                   Default payment rates

  Runs:
    GET    /api/runs                    List archived runs
    GET    /api/runs/{id}               One archived run with detail

  Analytics:
    POST   /api/analytics/frequency     7x24 frequency matrix
    POST   /api/analytics/burden        Burden distribution
    POST   /api/analytics/interruptions Interruption correlation

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed JSON, bad instants, bad bounds, bad zones, bad rates
  - 404: Unknown run id
  - 500: Archive failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eakan-codes/caloohpay-web/analytics"
	"github.com/eakan-codes/caloohpay-web/oncall"
	"github.com/eakan-codes/caloohpay-web/roster"
	"github.com/eakan-codes/caloohpay-web/store/sqlite"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store
}

// NewHandler creates a new handler backed by the given run archive.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store}
}

// =============================================================================
// COMPENSATION HANDLERS
// =============================================================================

// CalculateCompensation runs the full pipeline for one roster: group
// shifts into users, classify and aggregate, apply rates, archive the
// run, and return the per-user breakdowns.
// POST /api/compensation
func (h *Handler) CalculateCompensation(w http.ResponseWriter, r *http.Request) {
	var req CompensationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Shifts) == 0 {
		writeError(w, http.StatusBadRequest, "No shifts supplied", nil)
		return
	}

	calc, err := calculatorFor(req.Rates)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rate configuration", err)
		return
	}

	entries, err := toRosterEntries(req.Shifts)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift timestamps", err)
		return
	}

	users, err := roster.BuildUsers(entries, req.DefaultTimezone)
	if err != nil {
		status := http.StatusInternalServerError
		if oncall.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Invalid shift data", err)
		return
	}

	details := calc.BatchCompensationDetails(users)
	total := calc.TotalCompensation(users)

	runID := uuid.NewString()
	if err := h.archiveRun(r, runID, calc.Rates(), details, total); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to archive run", err)
		return
	}

	writeJSON(w, http.StatusOK, CompensationResponse{
		RunID: runID,
		Rates: calc.Rates(),
		Users: details,
		Total: total.String(),
	})
}

// GetRates returns the default payment rates.
// GET /api/rates
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, oncall.DefaultRates())
}

// archiveRun persists one calculation run to the archive.
func (h *Handler) archiveRun(r *http.Request, runID string, rates oncall.Rates, details []oncall.Compensation, total decimal.Decimal) error {
	record := sqlite.RunRecord{
		ID:          runID,
		CreatedAt:   time.Now().UTC(),
		WeekdayRate: rates.Weekday,
		WeekendRate: rates.Weekend,
		Currency:    rates.Currency,
		Symbol:      rates.Symbol,
		Total:       total,
	}
	for _, d := range details {
		periodsJSON, err := json.Marshal(d.User.Periods)
		if err != nil {
			return err
		}
		record.Users = append(record.Users, sqlite.RunUserRecord{
			UserID:       d.User.ID,
			UserName:     d.User.Name,
			UserEmail:    d.User.Email,
			WeekdayDays:  d.WeekdayDays,
			WeekendDays:  d.WeekendDays,
			Compensation: d.Total,
			PeriodsJSON:  string(periodsJSON),
		})
	}
	return h.Store.SaveRun(r.Context(), record)
}

// =============================================================================
// RUN HANDLERS
// =============================================================================

// ListRuns returns archived run summaries, newest first.
// GET /api/runs
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunSummaryDTO, len(runs))
	for i, run := range runs {
		dtos[i] = RunSummaryDTO{
			ID:        run.ID,
			CreatedAt: run.CreatedAt.Format(time.RFC3339),
			Currency:  run.Currency,
			Total:     run.Total.String(),
			UserCount: run.UserCount,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRun returns one archived run with its per-user lines.
// GET /api/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.Store.GetRun(r.Context(), id)
	if errors.Is(err, sqlite.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "Run not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load run", err)
		return
	}

	dto := RunDetailDTO{
		ID:          run.ID,
		CreatedAt:   run.CreatedAt.Format(time.RFC3339),
		WeekdayRate: run.WeekdayRate.String(),
		WeekendRate: run.WeekendRate.String(),
		Currency:    run.Currency,
		Symbol:      run.Symbol,
		Total:       run.Total.String(),
		Users:       make([]RunUserLineDTO, len(run.Users)),
	}
	for i, u := range run.Users {
		dto.Users[i] = RunUserLineDTO{
			UserID:       u.UserID,
			UserName:     u.UserName,
			UserEmail:    u.UserEmail,
			WeekdayDays:  u.WeekdayDays,
			WeekendDays:  u.WeekendDays,
			Compensation: u.Compensation.String(),
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// ANALYTICS HANDLERS
// =============================================================================

// FrequencyMatrix returns the 7x24 on-call frequency grid. An optional
// user_id query parameter restricts counting to one user's shifts.
// POST /api/analytics/frequency
func (h *Handler) FrequencyMatrix(w http.ResponseWriter, r *http.Request) {
	shifts, ok := decodeAnalyticsShifts(w, r)
	if !ok {
		return
	}

	cells := analytics.BuildFrequencyMatrix(shifts, r.URL.Query().Get("user_id"))
	writeJSON(w, http.StatusOK, FrequencyMatrixResponse{Cells: cells})
}

// BurdenDistribution returns each user's share of total on-call hours.
// POST /api/analytics/burden
func (h *Handler) BurdenDistribution(w http.ResponseWriter, r *http.Request) {
	shifts, ok := decodeAnalyticsShifts(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, BurdenResponse{Distribution: analytics.BurdenDistribution(shifts)})
}

// InterruptionCorrelation returns per-user interruption/pay rows.
// POST /api/analytics/interruptions
func (h *Handler) InterruptionCorrelation(w http.ResponseWriter, r *http.Request) {
	var req AnalyticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	calc, err := calculatorFor(req.Rates)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rate configuration", err)
		return
	}

	shifts, err := toAnalyticsShifts(req.Shifts)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift timestamps", err)
		return
	}

	rates := calc.Rates()
	rows, err := analytics.InterruptionCorrelation(shifts, rates.Weekday, rates.Weekend)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift data", err)
		return
	}
	writeJSON(w, http.StatusOK, InterruptionsResponse{Correlation: rows})
}

// decodeAnalyticsShifts parses an analytics request body, writing the
// error response itself when parsing fails.
func decodeAnalyticsShifts(w http.ResponseWriter, r *http.Request) ([]analytics.Shift, bool) {
	var req AnalyticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}

	shifts, err := toAnalyticsShifts(req.Shifts)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift timestamps", err)
		return nil, false
	}
	return shifts, true
}

// =============================================================================
// HELPERS
// =============================================================================

// calculatorFor builds a calculator from an optional rate override.
func calculatorFor(dto *RatesDTO) (*oncall.Calculator, error) {
	if dto == nil {
		return oncall.NewCalculator(oncall.DefaultRates())
	}
	return oncall.NewCalculator(oncall.Rates{
		Weekday:  decimal.NewFromFloat(dto.Weekday),
		Weekend:  decimal.NewFromFloat(dto.Weekend),
		Currency: dto.Currency,
		Symbol:   dto.Symbol,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
