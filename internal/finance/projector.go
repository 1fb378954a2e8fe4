package finance

import (
	"errors"
	"fmt"

	"md-shaving/internal/model"
	"md-shaving/internal/sizing"
)

// Projection is the year-by-year financial outcome for a sized fleet.
type Projection struct {
	Ledger []YearRow

	HorizonYears        int
	UpfrontCostRM       float64
	AnnualCostAvoidedRM float64

	// PaybackYear is the first year cumulative cash flow reaches zero, nil
	// if not reached within the horizon.
	PaybackYear *int
	// ROI is cumulative cash flow at the horizon divided by upfront cost.
	ROI float64

	// EndOfLifeYear is the first year SOH is at or below the end-of-life
	// threshold, nil if not reached within the horizon.
	EndOfLifeYear *int
}

// Project builds the ledger for years 0..horizonYears.
//
// Year 0 books the upfront cost only; savings start in year 1. When usable
// capacity falls below the binding requirement, cost avoided is scaled by
// the shaving ratio instead of held constant, so savings degrade the way
// capacity does. Rows at and after end of life keep accruing (the fleet may
// still partially function) but carry the PostEndOfLife flag.
//
// Pure function over immutable inputs: identical inputs produce identical
// ledgers.
func Project(szg *sizing.Result, spec model.BatteryUnitSpec, curve *model.DegradationCurve, annualCostAvoidedRM float64, horizonYears int) (*Projection, error) {
	if szg == nil || szg.UnitCount < 1 {
		return nil, errors.New("sizing result with at least one unit is required")
	}
	if curve == nil {
		return nil, fmt.Errorf("%w: curve is nil", model.ErrInvalidCurveData)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("battery spec invalid: %w", err)
	}
	if annualCostAvoidedRM < 0 {
		return nil, errors.New("annual cost avoided must be >= 0")
	}
	if horizonYears <= 0 {
		horizonYears = sizing.DefaultHorizonYears
	}

	upfront := spec.UpfrontCostRM(szg.UnitCount)
	ledger := make([]YearRow, 0, horizonYears+1)
	cum := 0.0
	eol := false
	var paybackYear, eolYear *int

	for y := 0; y <= horizonYears; y++ {
		soh := curve.SOHAt(float64(y))
		usable := float64(szg.UnitCount) * spec.RatedEnergyKWh * soh

		ratio := 1.0
		if szg.RequiredKWh > 0 && usable < szg.RequiredKWh {
			ratio = usable / szg.RequiredKWh
		}

		if !eol && curve.IsEndOfLife(float64(y)) {
			eol = true
			yy := y
			eolYear = &yy
		}

		var avoided, flow float64
		if y == 0 {
			flow = -upfront
		} else {
			avoided = annualCostAvoidedRM * ratio
			flow = avoided
		}
		cum += flow

		if paybackYear == nil && cum >= 0 {
			yy := y
			paybackYear = &yy
		}

		ledger = append(ledger, YearRow{
			Year:          y,
			SOH:           soh,
			UsableKWh:     usable,
			ShavingRatio:  ratio,
			CostAvoidedRM: avoided,
			CashFlowRM:    flow,
			CumulativeRM:  cum,
			PostEndOfLife: eol,
		})
	}

	p := &Projection{
		Ledger:              ledger,
		HorizonYears:        horizonYears,
		UpfrontCostRM:       upfront,
		AnnualCostAvoidedRM: annualCostAvoidedRM,
		PaybackYear:         paybackYear,
		EndOfLifeYear:       eolYear,
	}
	if upfront > 0 {
		p.ROI = cum / upfront
	}
	return p, nil
}
