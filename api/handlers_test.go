/*
handlers_test.go - HTTP handler tests

Tests drive the full router against an in-memory run archive, covering:
- Compensation runs (happy path, validation failures, archiving)
- Rate defaults
- Analytics endpoints
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eakan-codes/caloohpay-web/api"
	"github.com/eakan-codes/caloohpay-web/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	server := httptest.NewServer(api.NewRouter(api.NewHandler(store)))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

// fourThreeRoster is a roster whose single user accrues 4 OOH weekday
// days and 3 OOH weekend days: 425 at default rates.
func fourThreeRoster() []api.ShiftDTO {
	return []api.ShiftDTO{
		{
			UserID:   "u1",
			UserName: "Ada Lovelace",
			Start:    "2024-01-15T00:00:00Z", // Monday
			End:      "2024-01-18T23:59:59Z", // Thursday
			Timezone: "UTC",
		},
		{
			UserID:   "u1",
			UserName: "Ada Lovelace",
			Start:    "2024-01-19T00:00:00Z", // Friday
			End:      "2024-01-21T23:59:59Z", // Sunday
			Timezone: "UTC",
		},
	}
}

// =============================================================================
// COMPENSATION
// =============================================================================

func TestCalculateCompensation_DefaultRates(t *testing.T) {
	// GIVEN: A roster worth 4 weekday + 3 weekend days, no rate override
	// WHEN: POSTing a compensation run
	// THEN: 200 with total 425 and a run id

	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/compensation",
		api.CompensationRequest{Shifts: fourThreeRoster()})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result api.CompensationResponse
	decodeBody(t, resp, &result)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "425", result.Total)
	require.Len(t, result.Users, 1)
	assert.Equal(t, 4, result.Users[0].WeekdayDays)
	assert.Equal(t, 3, result.Users[0].WeekendDays)
	assert.Equal(t, "GBP", result.Rates.Currency)
}

func TestCalculateCompensation_RateOverride(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/compensation", api.CompensationRequest{
		Rates:  &api.RatesDTO{Weekday: 100, Weekend: 150},
		Shifts: fourThreeRoster(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result api.CompensationResponse
	decodeBody(t, resp, &result)
	assert.Equal(t, "850", result.Total)
}

func TestCalculateCompensation_ArchivesRun(t *testing.T) {
	// GIVEN: A completed compensation run
	// WHEN: Listing runs and fetching the returned id
	// THEN: The archive serves the same totals back

	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/compensation",
		api.CompensationRequest{Shifts: fourThreeRoster()})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result api.CompensationResponse
	decodeBody(t, resp, &result)

	listResp, err := http.Get(server.URL + "/api/runs")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var runs []api.RunSummaryDTO
	decodeBody(t, listResp, &runs)
	require.Len(t, runs, 1)
	assert.Equal(t, result.RunID, runs[0].ID)
	assert.Equal(t, "425", runs[0].Total)
	assert.Equal(t, 1, runs[0].UserCount)

	detailResp, err := http.Get(fmt.Sprintf("%s/api/runs/%s", server.URL, result.RunID))
	require.NoError(t, err)
	defer detailResp.Body.Close()
	require.Equal(t, http.StatusOK, detailResp.StatusCode)

	var detail api.RunDetailDTO
	decodeBody(t, detailResp, &detail)
	assert.Equal(t, "425", detail.Total)
	require.Len(t, detail.Users, 1)
	assert.Equal(t, "u1", detail.Users[0].UserID)
	assert.Equal(t, 4, detail.Users[0].WeekdayDays)
}

func TestCalculateCompensation_ValidationFailures(t *testing.T) {
	server := newTestServer(t)

	cases := []struct {
		name string
		req  api.CompensationRequest
	}{
		{
			"no shifts",
			api.CompensationRequest{},
		},
		{
			"non-positive rate",
			api.CompensationRequest{
				Rates:  &api.RatesDTO{Weekday: 0, Weekend: 75},
				Shifts: fourThreeRoster(),
			},
		},
		{
			"unknown zone",
			api.CompensationRequest{
				Shifts: []api.ShiftDTO{{
					UserID: "u1", UserName: "Ada Lovelace",
					Start: "2024-01-15T00:00:00Z", End: "2024-01-16T00:00:00Z",
					Timezone: "Atlantis/Lost",
				}},
			},
		},
		{
			"end before start",
			api.CompensationRequest{
				Shifts: []api.ShiftDTO{{
					UserID: "u1", UserName: "Ada Lovelace",
					Start: "2024-01-16T00:00:00Z", End: "2024-01-15T00:00:00Z",
					Timezone: "UTC",
				}},
			},
		},
		{
			"unparseable instant",
			api.CompensationRequest{
				Shifts: []api.ShiftDTO{{
					UserID: "u1", UserName: "Ada Lovelace",
					Start: "yesterday", End: "2024-01-16T00:00:00Z",
					Timezone: "UTC",
				}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, server.URL+"/api/compensation", tc.req)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var errResp api.ErrorResponse
			decodeBody(t, resp, &errResp)
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestGetRun_Unknown_NotFound(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/runs/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetRates_Defaults(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/rates")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rates map[string]any
	decodeBody(t, resp, &rates)
	assert.Equal(t, "50", rates["weekday"])
	assert.Equal(t, "75", rates["weekend"])
	assert.Equal(t, "GBP", rates["currency"])
}

// =============================================================================
// ANALYTICS
// =============================================================================

func TestFrequencyMatrix_Endpoint(t *testing.T) {
	server := newTestServer(t)

	req := api.AnalyticsRequest{Shifts: []api.ShiftDTO{{
		UserID: "u1", UserName: "Ada Lovelace",
		Start: "2024-01-15T09:00:00Z", End: "2024-01-15T12:00:00Z",
		Timezone: "UTC",
	}}}

	resp := postJSON(t, server.URL+"/api/analytics/frequency", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result api.FrequencyMatrixResponse
	decodeBody(t, resp, &result)

	require.Len(t, result.Cells, 168)
	total := 0
	for _, c := range result.Cells {
		total += c.Count
	}
	assert.Equal(t, 3, total)
}

func TestBurdenDistribution_Endpoint(t *testing.T) {
	server := newTestServer(t)

	req := api.AnalyticsRequest{Shifts: []api.ShiftDTO{
		{
			UserID: "u1", UserName: "Ada Lovelace",
			Start: "2024-01-15T09:00:00Z", End: "2024-01-15T15:00:00Z",
			Timezone: "UTC",
		},
		{
			UserID: "u2", UserName: "Grace Hopper",
			Start: "2024-01-15T09:00:00Z", End: "2024-01-15T11:00:00Z",
			Timezone: "UTC",
		},
	}}

	resp := postJSON(t, server.URL+"/api/analytics/burden", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result api.BurdenResponse
	decodeBody(t, resp, &result)

	require.Len(t, result.Distribution, 2)
	assert.Equal(t, "u1", result.Distribution[0].UserID)
	assert.Equal(t, 75.0, result.Distribution[0].Percentage)
}

func TestInterruptionCorrelation_Endpoint(t *testing.T) {
	server := newTestServer(t)

	req := api.AnalyticsRequest{Shifts: []api.ShiftDTO{{
		UserID: "u1", UserName: "Ada Lovelace",
		Start: "2024-01-19T10:00:00Z", End: "2024-01-19T14:00:00Z", // Friday
		Timezone: "UTC",
	}}}

	resp := postJSON(t, server.URL+"/api/analytics/interruptions", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result api.InterruptionsResponse
	decodeBody(t, resp, &result)

	require.Len(t, result.Correlation, 1)
	assert.Equal(t, 4, result.Correlation[0].Interruptions)
	assert.True(t, result.Correlation[0].TotalPay.Equal(decimal.NewFromInt(300)))
}
