package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"md-shaving/internal/analysis"
	"md-shaving/internal/api/models"
	"md-shaving/internal/cache"
	"md-shaving/internal/config"
	"md-shaving/internal/data"
	"md-shaving/internal/finance"
	"md-shaving/internal/model"
	"md-shaving/internal/sizing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AnalysisHandler runs the degradation-aware sizing and financial
// projection over uploaded peak events.
type AnalysisHandler struct {
	curve   *model.DegradationCurve
	db      data.BatteryDatabase
	results cache.Repository
	log     zerolog.Logger
}

func NewAnalysisHandler(curve *model.DegradationCurve, db data.BatteryDatabase, results cache.Repository, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{curve: curve, db: db, results: results, log: log}
}

// Analyze handles POST /api/v1/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	if req.Finance.DataPeriodDays < 1 || req.Finance.DataPeriodDays > 365 {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST",
			"finance.data_period_days must be in 1..365", nil)
		return
	}

	spec, err := h.resolveSpec(req.Battery)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_BATTERY", err.Error(), nil)
		return
	}

	rows := make([]model.PeakEvent, len(req.Events))
	for i, r := range req.Events {
		rows[i] = model.PeakEvent{
			Start:                r.Start,
			End:                  r.End,
			PeakLoadKW:           r.PeakLoadKW,
			ExcessKW:             r.ExcessKW,
			DurationMinutes:      r.DurationMinutes,
			EnergyToShaveKWh:     r.EnergyToShaveKWh,
			EnergyToShavePeakKWh: r.EnergyToShavePeakKWh,
			MDCostImpactRM:       r.MDCostImpactRM,
		}
	}

	events, rowErrs, err := model.NewPeakEventSet(rows)
	if err != nil {
		writeError(c, http.StatusUnprocessableEntity, "EMPTY_DATASET",
			"no valid peak events remain after validation",
			map[string]interface{}{"invalid_rows": len(rowErrs)})
		return
	}

	szg, err := sizing.Size(events, spec, h.curve, sizing.Options{
		HorizonYears: req.Options.HorizonYears,
		MaxUnits:     req.Options.MaxUnits,
	})
	if err != nil {
		var infeasible *sizing.InfeasibleSizingError
		if errors.As(err, &infeasible) {
			writeError(c, http.StatusUnprocessableEntity, "INFEASIBLE_SIZING", err.Error(),
				map[string]interface{}{
					"required_kwh":   infeasible.RequiredKWh,
					"soh_at_horizon": infeasible.SOHAtHorizon,
					"max_units":      infeasible.MaxUnits,
					"binding_event":  bindingEvent(infeasible.BindingEvent),
				})
			return
		}
		writeError(c, http.StatusBadRequest, "SIZING_ERROR", err.Error(), nil)
		return
	}

	annual := events.AnnualCostImpact(365.0 / float64(req.Finance.DataPeriodDays))
	proj, err := finance.Project(szg, spec, h.curve, annual, szg.HorizonYears)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "PROJECTION_ERROR", err.Error(), nil)
		return
	}

	resp := buildResponse(events, rowErrs, szg, proj)

	// The cached copy always carries the ledger so it can be fetched later
	// by id regardless of include_ledger.
	if raw, err := json.Marshal(req); err == nil {
		resp.ID = cache.Key(raw)
		if cached, err := json.Marshal(resp); err == nil {
			if err := h.results.Set(resp.ID, string(cached)); err != nil {
				h.log.Warn().Err(err).Str("id", resp.ID).Msg("failed to cache analysis result")
			}
		}
	}

	if !req.Options.IncludeLedger {
		resp.Ledger = nil
	}
	c.JSON(http.StatusOK, resp)
}

// GetLedger handles GET /api/v1/analysis/:id/ledger
func (h *AnalysisHandler) GetLedger(c *gin.Context) {
	id := c.Param("id")
	raw, ok := h.results.Get(id)
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND",
			fmt.Sprintf("no analysis result with id %q", id), nil)
		return
	}

	var resp models.AnalyzeResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR",
			"cached result is unreadable", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "ledger": resp.Ledger})
}

// resolveSpec layers request overrides onto a vendor database entry.
func (h *AnalysisHandler) resolveSpec(b models.BatteryConfig) (model.BatteryUnitSpec, error) {
	base := config.BatteryConfig{}
	if b.DatabaseID != "" {
		entry, ok := h.db[b.DatabaseID]
		if !ok {
			return model.BatteryUnitSpec{}, fmt.Errorf("unknown battery database id %q", b.DatabaseID)
		}
		base = config.BatteryConfig{
			Name:          b.DatabaseID,
			EnergyKWh:     entry.EnergyKWh,
			PowerKW:       entry.PowerKW,
			DegradationID: b.DatabaseID,
		}
	}
	merged := config.MergeBattery(base, config.BatteryConfig{
		Name:          b.Name,
		EnergyKWh:     b.EnergyKWh,
		PowerKW:       b.PowerKW,
		UnitCostRM:    b.UnitCostRM,
		InstallCostRM: b.InstallCostRM,
		CostPerKWhRM:  b.CostPerKWhRM,
		InstallPct:    b.InstallPct,
	})
	spec := merged.ToUnitSpec()
	if err := spec.Validate(); err != nil {
		return model.BatteryUnitSpec{}, err
	}
	return spec, nil
}

func buildResponse(events *model.PeakEventSet, rowErrs []model.RowError, szg *sizing.Result, proj *finance.Projection) models.AnalyzeResponse {
	stats := analysis.Summarize(events)

	invalid := make([]models.InvalidRow, 0, len(rowErrs))
	for _, re := range rowErrs {
		invalid = append(invalid, models.InvalidRow{Row: re.Row, Reason: re.Reason})
	}

	ledger := make([]models.LedgerRow, len(proj.Ledger))
	for i, r := range proj.Ledger {
		ledger[i] = models.LedgerRow{
			Year:          r.Year,
			SOH:           r.SOH,
			UsableKWh:     r.UsableKWh,
			ShavingRatio:  r.ShavingRatio,
			CostAvoidedRM: r.CostAvoidedRM,
			CashFlowRM:    r.CashFlowRM,
			CumulativeRM:  r.CumulativeRM,
			PostEndOfLife: r.PostEndOfLife,
		}
	}

	return models.AnalyzeResponse{
		Status: "completed",
		Events: models.EventSummary{
			Count:             stats.Count,
			WindowStart:       stats.WindowStart,
			WindowEnd:         stats.WindowEnd,
			TotalEnergyKWh:    stats.TotalEnergyKWh,
			MeanEnergyKWh:     stats.MeanEnergyKWh,
			P95EnergyKWh:      stats.P95EnergyKWh,
			MaxEnergyKWh:      stats.MaxEnergyKWh,
			MaxExcessKW:       stats.MaxExcessKW,
			TotalCostImpactRM: stats.TotalCostImpactRM,
		},
		Sizing: models.SizingSummary{
			UnitCount:          szg.UnitCount,
			UnitsForPower:      szg.UnitsForPower,
			RecommendedUnits:   szg.RecommendedUnits,
			HorizonYears:       szg.HorizonYears,
			NameplateKWh:       szg.NameplateKWh,
			UsableKWhYear0:     szg.UsableKWhYear0,
			UsableKWhAtHorizon: szg.UsableKWhAtHorizon,
			RequiredKWh:        szg.RequiredKWh,
			BindingEvent:       bindingEvent(szg.BindingEvent),
		},
		Financial: models.FinancialSummary{
			UpfrontCostRM:       proj.UpfrontCostRM,
			AnnualCostAvoidedRM: proj.AnnualCostAvoidedRM,
			CumulativeRM:        proj.Ledger[len(proj.Ledger)-1].CumulativeRM,
			PaybackYear:         proj.PaybackYear,
			ROI:                 proj.ROI,
			EndOfLifeYear:       proj.EndOfLifeYear,
		},
		InvalidRows: invalid,
		Ledger:      ledger,
	}
}

func bindingEvent(e model.PeakEvent) models.BindingEvent {
	return models.BindingEvent{
		Start:            e.Start,
		End:              e.End,
		EnergyToShaveKWh: e.EnergyToShaveKWh,
		ExcessKW:         e.ExcessKW,
	}
}

func writeError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
