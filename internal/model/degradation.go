package model

import (
	"errors"
	"fmt"
)

// EndOfLifeSOH is the state-of-health fraction at which a battery is
// considered unfit for continued MD shaving service.
const EndOfLifeSOH = 0.80

// ErrInvalidCurveData reports a malformed degradation dataset.
var ErrInvalidCurveData = errors.New("invalid degradation curve data")

// DegradationPoint is one laboratory measurement on a battery ageing curve.
// Units:
// - AgeYears: years since commissioning
// - SOH: fraction of original rated capacity, (0, 1]
type DegradationPoint struct {
	AgeYears float64 `json:"age_years"`
	SOH      float64 `json:"soh"`
}

// DegradationCurve reconstructs SOH at any age from sparse, non-uniform
// measurements. The measured trend is non-linear (points are sampled
// densely where decay is steepest); between points the reconstruction is
// piecewise linear, and queries outside the measured range clamp to the
// nearest endpoint rather than extrapolate.
//
// Immutable after construction: built once from the laboratory dataset and
// passed explicitly into every component that needs it.
type DegradationCurve struct {
	points []DegradationPoint
	eolSOH float64
}

// NewDegradationCurve validates and freezes a measured dataset.
func NewDegradationCurve(points []DegradationPoint) (*DegradationCurve, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidCurveData, len(points))
	}
	for i, p := range points {
		if p.AgeYears < 0 {
			return nil, fmt.Errorf("%w: point %d has negative age %.3f", ErrInvalidCurveData, i, p.AgeYears)
		}
		if p.SOH <= 0 || p.SOH > 1 {
			return nil, fmt.Errorf("%w: point %d SOH %.4f outside (0, 1]", ErrInvalidCurveData, i, p.SOH)
		}
		if i > 0 {
			if p.AgeYears <= points[i-1].AgeYears {
				return nil, fmt.Errorf("%w: ages not strictly increasing at point %d", ErrInvalidCurveData, i)
			}
			if p.SOH > points[i-1].SOH {
				return nil, fmt.Errorf("%w: SOH increases at point %d", ErrInvalidCurveData, i)
			}
		}
	}

	cp := make([]DegradationPoint, len(points))
	copy(cp, points)
	return &DegradationCurve{points: cp, eolSOH: EndOfLifeSOH}, nil
}

// SOHAt returns the state of health at ageYears.
// Below the first measurement it returns the first SOH; beyond the last it
// returns the last SOH. The flat clamp avoids spurious negative-capacity
// predictions past the measured domain.
func (c *DegradationCurve) SOHAt(ageYears float64) float64 {
	if ageYears <= c.points[0].AgeYears {
		return c.points[0].SOH
	}
	last := c.points[len(c.points)-1]
	if ageYears >= last.AgeYears {
		return last.SOH
	}
	for i := 1; i < len(c.points); i++ {
		hi := c.points[i]
		if ageYears > hi.AgeYears {
			continue
		}
		lo := c.points[i-1]
		frac := (ageYears - lo.AgeYears) / (hi.AgeYears - lo.AgeYears)
		return lo.SOH + frac*(hi.SOH-lo.SOH)
	}
	return last.SOH
}

// IsEndOfLife reports whether the battery has degraded to or below the
// end-of-life threshold at ageYears.
func (c *DegradationCurve) IsEndOfLife(ageYears float64) bool {
	return c.SOHAt(ageYears) <= c.eolSOH
}

// EndOfLifeYear returns the first whole year in [0, horizonYears] at which
// end of life is reached, and false if it is not reached within the horizon.
func (c *DegradationCurve) EndOfLifeYear(horizonYears int) (int, bool) {
	for y := 0; y <= horizonYears; y++ {
		if c.IsEndOfLife(float64(y)) {
			return y, true
		}
	}
	return 0, false
}

// Points returns a copy of the measured points.
func (c *DegradationCurve) Points() []DegradationPoint {
	out := make([]DegradationPoint, len(c.points))
	copy(out, c.points)
	return out
}
