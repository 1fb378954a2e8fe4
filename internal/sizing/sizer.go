package sizing

import (
	"fmt"
	"math"

	"md-shaving/internal/model"
)

// DefaultHorizonYears matches the measured span of the degradation data.
const DefaultHorizonYears = 20

// DefaultMaxUnits bounds the unit-count search.
const DefaultMaxUnits = 1000

type Options struct {
	HorizonYears int
	MaxUnits     int
}

func (o Options) withDefaults() Options {
	if o.HorizonYears <= 0 {
		o.HorizonYears = DefaultHorizonYears
	}
	if o.MaxUnits <= 0 {
		o.MaxUnits = DefaultMaxUnits
	}
	return o
}

// InfeasibleSizingError reports that no unit count within bounds covers the
// worst-case shaving demand at end-of-horizon state of health.
type InfeasibleSizingError struct {
	RequiredKWh  float64
	HorizonYears int
	SOHAtHorizon float64
	MaxUnits     int
	BindingEvent model.PeakEvent
}

func (e *InfeasibleSizingError) Error() string {
	return fmt.Sprintf("infeasible sizing: no unit count <= %d covers %.1f kWh at year %d SOH %.4f",
		e.MaxUnits, e.RequiredKWh, e.HorizonYears, e.SOHAtHorizon)
}

// Result is the sized fleet. UnitCount alone satisfies the end-of-horizon
// energy requirement; the power-side counts are advisory.
type Result struct {
	UnitCount int

	// UnitsForPower is how many units the largest observed excess power
	// would need at rated discharge; RecommendedUnits is the larger of the
	// two counts.
	UnitsForPower    int
	RecommendedUnits int

	HorizonYears       int
	NameplateKWh       float64
	UsableKWhYear0     float64
	UsableKWhAtHorizon float64

	RequiredKWh  float64
	BindingEvent model.PeakEvent
}

// Size determines the minimum unit count whose de-rated capacity at end of
// horizon still covers the worst single peak event. Sizing against the
// worst SOH over the horizon (rather than day-0 capacity) keeps the fleet
// able to shave in later years instead of under-provisioning.
func Size(events *model.PeakEventSet, spec model.BatteryUnitSpec, curve *model.DegradationCurve, opts Options) (*Result, error) {
	if events == nil || events.Len() == 0 {
		return nil, model.ErrEmptyDataset
	}
	if curve == nil {
		return nil, fmt.Errorf("%w: curve is nil", model.ErrInvalidCurveData)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("battery spec invalid: %w", err)
	}
	opts = opts.withDefaults()

	required, binding := events.WorstCaseEnergyToShave()
	sohHorizon := curve.SOHAt(float64(opts.HorizonYears))

	perUnitKWh := spec.RatedEnergyKWh * sohHorizon
	if perUnitKWh <= 0 {
		return nil, &InfeasibleSizingError{
			RequiredKWh:  required,
			HorizonYears: opts.HorizonYears,
			SOHAtHorizon: sohHorizon,
			MaxUnits:     opts.MaxUnits,
			BindingEvent: binding,
		}
	}

	n := int(math.Ceil(required / perUnitKWh))
	if n < 1 {
		n = 1
	}
	// Guard against float noise pushing an exact multiple up one unit.
	if n > 1 && float64(n-1)*perUnitKWh >= required {
		n--
	}
	if n > opts.MaxUnits {
		return nil, &InfeasibleSizingError{
			RequiredKWh:  required,
			HorizonYears: opts.HorizonYears,
			SOHAtHorizon: sohHorizon,
			MaxUnits:     opts.MaxUnits,
			BindingEvent: binding,
		}
	}

	unitsForPower := int(math.Ceil(events.MaxExcessKW() / spec.RatedPowerKW))
	if unitsForPower < 1 {
		unitsForPower = 1
	}
	recommended := n
	if unitsForPower > recommended {
		recommended = unitsForPower
	}

	return &Result{
		UnitCount:          n,
		UnitsForPower:      unitsForPower,
		RecommendedUnits:   recommended,
		HorizonYears:       opts.HorizonYears,
		NameplateKWh:       float64(n) * spec.RatedEnergyKWh,
		UsableKWhYear0:     float64(n) * spec.RatedEnergyKWh * curve.SOHAt(0),
		UsableKWhAtHorizon: float64(n) * perUnitKWh,
		RequiredKWh:        required,
		BindingEvent:       binding,
	}, nil
}
