package models

import "time"

// AnalyzeResponse is the result of one analysis run.
type AnalyzeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`

	Events    EventSummary     `json:"events"`
	Sizing    SizingSummary    `json:"sizing"`
	Financial FinancialSummary `json:"financial"`

	InvalidRows []InvalidRow `json:"invalid_rows,omitempty"`
	Ledger      []LedgerRow  `json:"ledger,omitempty"`
}

// InvalidRow reports one excluded input row.
type InvalidRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// EventSummary aggregates the validated peak events.
type EventSummary struct {
	Count       int       `json:"count"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	TotalEnergyKWh float64 `json:"total_energy_kwh"`
	MeanEnergyKWh  float64 `json:"mean_energy_kwh"`
	P95EnergyKWh   float64 `json:"p95_energy_kwh"`
	MaxEnergyKWh   float64 `json:"max_energy_kwh"`

	MaxExcessKW       float64 `json:"max_excess_kw"`
	TotalCostImpactRM float64 `json:"total_cost_impact_rm"`
}

// SizingSummary describes the sized fleet and what bound it.
type SizingSummary struct {
	UnitCount        int `json:"unit_count"`
	UnitsForPower    int `json:"units_for_power"`
	RecommendedUnits int `json:"recommended_units"`

	HorizonYears       int     `json:"horizon_years"`
	NameplateKWh       float64 `json:"nameplate_kwh"`
	UsableKWhYear0     float64 `json:"usable_kwh_year0"`
	UsableKWhAtHorizon float64 `json:"usable_kwh_at_horizon"`

	RequiredKWh  float64      `json:"required_kwh"`
	BindingEvent BindingEvent `json:"binding_event"`
}

// BindingEvent identifies the single event that determined the fleet size.
type BindingEvent struct {
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	EnergyToShaveKWh float64   `json:"energy_to_shave_kwh"`
	ExcessKW         float64   `json:"excess_kw"`
}

// FinancialSummary is the headline investment outcome.
type FinancialSummary struct {
	UpfrontCostRM       float64 `json:"upfront_cost_rm"`
	AnnualCostAvoidedRM float64 `json:"annual_cost_avoided_rm"`
	CumulativeRM        float64 `json:"cumulative_rm"`

	PaybackYear   *int    `json:"payback_year"` // null when not reached
	ROI           float64 `json:"roi"`
	EndOfLifeYear *int    `json:"end_of_life_year"` // null when not reached
}

// LedgerRow is one year of the projection ledger.
type LedgerRow struct {
	Year          int     `json:"year"`
	SOH           float64 `json:"soh"`
	UsableKWh     float64 `json:"usable_kwh"`
	ShavingRatio  float64 `json:"shaving_ratio"`
	CostAvoidedRM float64 `json:"cost_avoided_rm"`
	CashFlowRM    float64 `json:"cash_flow_rm"`
	CumulativeRM  float64 `json:"cumulative_rm"`
	PostEndOfLife bool    `json:"post_end_of_life"`
}

// BatteryInfo describes one vendor database entry.
type BatteryInfo struct {
	ID      string  `json:"id"`
	Company string  `json:"company"`
	Model   string  `json:"model"`

	EnergyKWh      float64 `json:"energy_kwh"`
	PowerKW        float64 `json:"power_kw"`
	CRate          float64 `json:"c_rate"`
	LifespanYears  int     `json:"lifespan_years"`
	EOLCapacityPct float64 `json:"eol_capacity_pct"`
}

// CurveResponse exposes the degradation curve reference data.
type CurveResponse struct {
	Points        []CurvePoint `json:"points"`
	EndOfLifeSOH  float64      `json:"end_of_life_soh"`
	EndOfLifeYear *int         `json:"end_of_life_year"`
	Yearly        []CurvePoint `json:"yearly,omitempty"`
}

// CurvePoint is one (age, SOH) sample.
type CurvePoint struct {
	AgeYears float64 `json:"age_years"`
	SOH      float64 `json:"soh"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
