package models

import "time"

// AnalyzeRequest is the request body for running an MD shaving analysis.
// Events arrive already typed; CSV parsing happens client-side or through
// the CLI.
type AnalyzeRequest struct {
	Events  []EventRow     `json:"events" binding:"required"`
	Battery BatteryConfig  `json:"battery,omitempty"`
	Finance FinanceConfig  `json:"finance" binding:"required"`
	Options AnalyzeOptions `json:"options,omitempty"`
}

// EventRow mirrors one row of the peak-event schema.
type EventRow struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`

	PeakLoadKW      float64 `json:"peak_load_kw"`
	ExcessKW        float64 `json:"excess_kw"`
	DurationMinutes float64 `json:"duration_min"`

	EnergyToShaveKWh     float64 `json:"energy_to_shave_kwh"`
	EnergyToShavePeakKWh float64 `json:"energy_to_shave_peak_kwh,omitempty"`

	MDCostImpactRM float64 `json:"md_cost_impact_rm"`
}

// BatteryConfig selects and prices the battery unit. DatabaseID picks a
// model from the vendor database; explicit fields override its ratings.
type BatteryConfig struct {
	DatabaseID string `json:"database_id,omitempty"`

	Name      string  `json:"name,omitempty"`
	EnergyKWh float64 `json:"energy_capacity_kwh,omitempty"`
	PowerKW   float64 `json:"power_capacity_kw,omitempty"`

	UnitCostRM    float64 `json:"unit_cost_rm,omitempty"`
	InstallCostRM float64 `json:"installation_cost_rm,omitempty"`
	CostPerKWhRM  float64 `json:"cost_per_kwh_rm,omitempty"`
	InstallPct    float64 `json:"installation_pct,omitempty"`
}

// FinanceConfig carries the annualization inputs.
type FinanceConfig struct {
	// DataPeriodDays is how many days the events cover; the engine never
	// infers this from the data.
	DataPeriodDays int `json:"data_period_days" binding:"required"`
}

// AnalyzeOptions contains optional analysis parameters.
type AnalyzeOptions struct {
	HorizonYears  int  `json:"horizon_years,omitempty"` // default: 20
	MaxUnits      int  `json:"max_units,omitempty"`     // default: 1000
	IncludeLedger bool `json:"include_ledger,omitempty"`
}
