package finance

// YearRow is one year of the projection ledger.
// This is the primary artifact for "what the investment does" over the
// battery's life.
type YearRow struct {
	Year int

	SOH       float64
	UsableKWh float64

	// ShavingRatio is min(1, usable / binding requirement): the fraction of
	// the worst-case event the degraded fleet can still cover.
	ShavingRatio float64

	CostAvoidedRM float64
	CashFlowRM    float64 // net flow booked this year
	CumulativeRM  float64

	PostEndOfLife bool
}
