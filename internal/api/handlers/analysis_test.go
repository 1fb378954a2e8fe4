package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"md-shaving/internal/api/models"
	"md-shaving/internal/cache"
	"md-shaving/internal/data"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func newTestRouter(t *testing.T) (*gin.Engine, cache.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	results := cache.NewMemoryCache()
	h := NewAnalysisHandler(data.WeihengTianwuCurve(), data.DefaultBatteryDatabase(), results, zerolog.Nop())

	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.POST("/analyze", h.Analyze)
	v1.GET("/analysis/:id/ledger", h.GetLedger)
	return r, results
}

func postAnalyze(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const analyzeBody = `{
	"events": [
		{"start": "2025-01-06T14:00:00Z", "end": "2025-01-06T15:30:00Z",
		 "peak_load_kw": 480, "excess_kw": 80, "duration_min": 90,
		 "energy_to_shave_kwh": 120, "md_cost_impact_rm": 2400},
		{"start": "2025-01-13T11:00:00Z", "end": "2025-01-13T11:45:00Z",
		 "peak_load_kw": 455, "excess_kw": 55, "duration_min": 45,
		 "energy_to_shave_kwh": 41.25, "md_cost_impact_rm": 1650}
	],
	"battery": {
		"database_id": "TIANWU-100-233-0.5C",
		"cost_per_kwh_rm": 800,
		"installation_pct": 20
	},
	"finance": {"data_period_days": 30}
}`

func TestAnalyze_HappyPath(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postAnalyze(t, r, analyzeBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Status != "completed" {
		t.Errorf("expected status completed, got %q", resp.Status)
	}
	if resp.ID == "" {
		t.Error("expected a non-empty analysis id")
	}
	if resp.Events.Count != 2 {
		t.Errorf("expected 2 events, got %d", resp.Events.Count)
	}

	// Worst event is 120 kWh; one TIANWU unit holds 233*0.6048 kWh at
	// year 20, so a single unit suffices.
	if resp.Sizing.UnitCount != 1 {
		t.Errorf("expected 1 unit, got %d", resp.Sizing.UnitCount)
	}
	if resp.Sizing.RequiredKWh != 120 {
		t.Errorf("expected required 120 kWh, got %.2f", resp.Sizing.RequiredKWh)
	}
	if resp.Sizing.BindingEvent.EnergyToShaveKWh != 120 {
		t.Errorf("unexpected binding event: %+v", resp.Sizing.BindingEvent)
	}

	// cost_per_kwh 800 * 233 kWh, plus 20% installation.
	wantUpfront := 800.0*233 + 800.0*233*20/100
	if math.Abs(resp.Financial.UpfrontCostRM-wantUpfront) > 1e-6 {
		t.Errorf("expected upfront %.0f, got %.0f", wantUpfront, resp.Financial.UpfrontCostRM)
	}
	// (2400+1650) RM over 30 days, annualized.
	wantAnnual := (2400.0 + 1650.0) * (365.0 / 30.0)
	if math.Abs(resp.Financial.AnnualCostAvoidedRM-wantAnnual) > 1e-6 {
		t.Errorf("expected annual %.2f, got %.2f", wantAnnual, resp.Financial.AnnualCostAvoidedRM)
	}

	// Ledger is withheld unless include_ledger is set.
	if resp.Ledger != nil {
		t.Errorf("expected no inline ledger, got %d rows", len(resp.Ledger))
	}
}

func TestAnalyze_LedgerRoundTrip(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postAnalyze(t, r, analyzeBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/analysis/%s/ledger", resp.ID), nil)
	lw := httptest.NewRecorder()
	r.ServeHTTP(lw, req)
	if lw.Code != http.StatusOK {
		t.Fatalf("expected 200 from ledger fetch, got %d: %s", lw.Code, lw.Body.String())
	}

	var ledgerResp struct {
		ID     string             `json:"id"`
		Ledger []models.LedgerRow `json:"ledger"`
	}
	if err := json.Unmarshal(lw.Body.Bytes(), &ledgerResp); err != nil {
		t.Fatalf("unmarshal ledger response: %v", err)
	}
	if ledgerResp.ID != resp.ID {
		t.Errorf("expected id %q, got %q", resp.ID, ledgerResp.ID)
	}
	// Years 0..20 inclusive.
	if len(ledgerResp.Ledger) != 21 {
		t.Fatalf("expected 21 ledger rows, got %d", len(ledgerResp.Ledger))
	}
	if ledgerResp.Ledger[0].Year != 0 || ledgerResp.Ledger[0].CashFlowRM >= 0 {
		t.Errorf("expected year 0 to book the upfront cost, got %+v", ledgerResp.Ledger[0])
	}
}

func TestGetLedger_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/deadbeef/ledger", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var errResp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if errResp.Error.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %q", errResp.Error.Code)
	}
}

func TestAnalyze_EmptyDataset(t *testing.T) {
	r, _ := newTestRouter(t)

	// Every row is invalid (end before start), so nothing survives.
	body := `{
		"events": [
			{"start": "2025-01-06T15:30:00Z", "end": "2025-01-06T14:00:00Z",
			 "excess_kw": 80, "duration_min": 90,
			 "energy_to_shave_kwh": 120, "md_cost_impact_rm": 2400}
		],
		"battery": {"database_id": "TIANWU-100-233-0.5C", "cost_per_kwh_rm": 800},
		"finance": {"data_period_days": 30}
	}`
	w := postAnalyze(t, r, body)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	var errResp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if errResp.Error.Code != "EMPTY_DATASET" {
		t.Errorf("expected EMPTY_DATASET, got %q", errResp.Error.Code)
	}
}

func TestAnalyze_UnknownBattery(t *testing.T) {
	r, _ := newTestRouter(t)

	body := `{
		"events": [
			{"start": "2025-01-06T14:00:00Z", "end": "2025-01-06T15:30:00Z",
			 "excess_kw": 80, "duration_min": 90,
			 "energy_to_shave_kwh": 120, "md_cost_impact_rm": 2400}
		],
		"battery": {"database_id": "NO-SUCH-MODEL"},
		"finance": {"data_period_days": 30}
	}`
	w := postAnalyze(t, r, body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	var errResp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if errResp.Error.Code != "INVALID_BATTERY" {
		t.Errorf("expected INVALID_BATTERY, got %q", errResp.Error.Code)
	}
}
