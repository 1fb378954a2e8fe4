package analysis

import (
	"math"
	"sort"
	"time"

	"md-shaving/internal/model"
)

// EventStats is a site-level summary of a peak event set, used for
// reporting alongside sizing and financial results.
type EventStats struct {
	Count int

	WindowStart time.Time
	WindowEnd   time.Time

	TotalEnergyKWh float64
	MeanEnergyKWh  float64
	P95EnergyKWh   float64
	MaxEnergyKWh   float64

	MaxExcessKW       float64
	TotalCostImpactRM float64

	BindingEvent model.PeakEvent
}

func Summarize(events *model.PeakEventSet) EventStats {
	s := EventStats{}
	if events == nil || events.Len() == 0 {
		return s
	}
	s.Count = events.Len()
	s.WindowStart, s.WindowEnd = events.Window()
	s.TotalEnergyKWh = events.TotalEnergyToShave()
	s.MeanEnergyKWh = s.TotalEnergyKWh / float64(s.Count)
	s.MaxExcessKW = events.MaxExcessKW()
	s.TotalCostImpactRM = events.TotalCostImpact()
	s.MaxEnergyKWh, s.BindingEvent = events.WorstCaseEnergyToShave()

	vals := make([]float64, 0, s.Count)
	for _, e := range events.Events() {
		vals = append(vals, e.EnergyToShaveKWh)
	}
	sort.Float64s(vals)
	s.P95EnergyKWh = percentileSorted(vals, 0.95)
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
