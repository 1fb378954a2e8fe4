package model

import (
	"errors"
	"fmt"
	"time"
)

// PeakEvent is one observed maximum-demand peak requiring shaving.
// Timestamps and currency values arrive already typed; parsing of dates and
// formatting happens upstream of the engine.
type PeakEvent struct {
	Start time.Time
	End   time.Time

	PeakLoadKW      float64
	ExcessKW        float64
	DurationMinutes float64

	// Energy the storage must deliver to shave the event, total and during
	// the billed peak period only.
	EnergyToShaveKWh     float64
	EnergyToShavePeakKWh float64

	// MD charge avoided if the event is fully shaved.
	MDCostImpactRM float64
}

func (e PeakEvent) Duration() time.Duration { return e.End.Sub(e.Start) }

// Validate reports why the event is unusable, or nil.
func (e PeakEvent) Validate() error {
	if e.Start.IsZero() || e.End.IsZero() {
		return errors.New("missing start or end timestamp")
	}
	if !e.End.After(e.Start) {
		return errors.New("end must be after start")
	}
	if e.DurationMinutes < 0 {
		return errors.New("duration must be >= 0")
	}
	if e.EnergyToShaveKWh < 0 || e.EnergyToShavePeakKWh < 0 {
		return errors.New("energy to shave must be >= 0")
	}
	return nil
}

// RowError records why one input row was excluded from a PeakEventSet.
// Row defects are recoverable: the offending row is dropped and reported,
// never silently zeroed.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

func (r RowError) Error() string { return fmt.Sprintf("row %d: %s", r.Row, r.Reason) }

// ErrEmptyDataset is returned when no valid peak events remain after
// validation.
var ErrEmptyDataset = errors.New("no valid peak events")

// PeakEventSet is a validated, read-only collection of peak events. It lives
// for a single analysis run.
type PeakEventSet struct {
	events []PeakEvent
}

// NewPeakEventSet validates rows in input order. Invalid rows are excluded
// and reported in the returned RowError slice; the set itself fails only
// when nothing valid remains.
func NewPeakEventSet(rows []PeakEvent) (*PeakEventSet, []RowError, error) {
	events := make([]PeakEvent, 0, len(rows))
	var rowErrs []RowError
	for i, r := range rows {
		if err := r.Validate(); err != nil {
			rowErrs = append(rowErrs, RowError{Row: i, Reason: err.Error()})
			continue
		}
		events = append(events, r)
	}
	if len(events) == 0 {
		return nil, rowErrs, ErrEmptyDataset
	}
	return &PeakEventSet{events: events}, rowErrs, nil
}

func (s *PeakEventSet) Len() int { return len(s.events) }

// Events returns a copy of the validated events in input order.
func (s *PeakEventSet) Events() []PeakEvent {
	out := make([]PeakEvent, len(s.events))
	copy(out, s.events)
	return out
}

// WorstCaseEnergyToShave returns the largest single-event shaving demand and
// the event that set it (the binding event for sizing).
func (s *PeakEventSet) WorstCaseEnergyToShave() (float64, PeakEvent) {
	worst := s.events[0]
	for _, e := range s.events[1:] {
		if e.EnergyToShaveKWh > worst.EnergyToShaveKWh {
			worst = e
		}
	}
	return worst.EnergyToShaveKWh, worst
}

// TotalCostImpact sums MD cost impact over the sample window.
func (s *PeakEventSet) TotalCostImpact() float64 {
	sum := 0.0
	for _, e := range s.events {
		sum += e.MDCostImpactRM
	}
	return sum
}

// AnnualCostImpact scales the sample-window cost impact to a yearly
// estimate. The caller supplies the annualization factor (e.g. 365 divided
// by the days the sample covers); the engine never infers it.
func (s *PeakEventSet) AnnualCostImpact(annualizationFactor float64) float64 {
	return s.TotalCostImpact() * annualizationFactor
}

// TotalEnergyToShave sums shaving energy across all events.
func (s *PeakEventSet) TotalEnergyToShave() float64 {
	sum := 0.0
	for _, e := range s.events {
		sum += e.EnergyToShaveKWh
	}
	return sum
}

// MaxExcessKW returns the largest excess-over-threshold power observed.
func (s *PeakEventSet) MaxExcessKW() float64 {
	max := 0.0
	for _, e := range s.events {
		if e.ExcessKW > max {
			max = e.ExcessKW
		}
	}
	return max
}

// Window returns the earliest start and latest end across events.
func (s *PeakEventSet) Window() (time.Time, time.Time) {
	start, end := s.events[0].Start, s.events[0].End
	for _, e := range s.events[1:] {
		if e.Start.Before(start) {
			start = e.Start
		}
		if e.End.After(end) {
			end = e.End
		}
	}
	return start, end
}
