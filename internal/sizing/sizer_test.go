package sizing

import (
	"errors"
	"testing"
	"time"

	"md-shaving/internal/model"
)

func testCurve(t *testing.T) *model.DegradationCurve {
	t.Helper()
	c, err := model.NewDegradationCurve([]model.DegradationPoint{
		{AgeYears: 0, SOH: 1.0},
		{AgeYears: 10, SOH: 0.90},
		{AgeYears: 20, SOH: 0.80},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func testSpec() model.BatteryUnitSpec {
	return model.BatteryUnitSpec{
		ID:                 "test-100",
		RatedEnergyKWh:     100,
		RatedPowerKW:       100,
		UnitCostRM:         80000,
		InstallationCostRM: 16000,
	}
}

func eventSet(t *testing.T, energies []float64, excessKW float64) *model.PeakEventSet {
	t.Helper()
	start := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)
	rows := make([]model.PeakEvent, len(energies))
	for i, e := range energies {
		rows[i] = model.PeakEvent{
			Start:            start.Add(time.Duration(i) * 24 * time.Hour),
			End:              start.Add(time.Duration(i)*24*time.Hour + 30*time.Minute),
			ExcessKW:         excessKW,
			DurationMinutes:  30,
			EnergyToShaveKWh: e,
			MDCostImpactRM:   1000,
		}
	}
	set, _, err := model.NewPeakEventSet(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return set
}

func TestSize_WorstSOHOverHorizon(t *testing.T) {
	// 150 kWh worst case: one unit gives 100*0.80 = 80 kWh at year 20,
	// two give 160 kWh.
	set := eventSet(t, []float64{75, 150, 40}, 90)

	res, err := Size(set, testSpec(), testCurve(t), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.UnitCount != 2 {
		t.Errorf("expected 2 units, got %d", res.UnitCount)
	}
	if res.UsableKWhAtHorizon < res.RequiredKWh {
		t.Errorf("fleet must cover %.1f kWh at horizon, has %.1f", res.RequiredKWh, res.UsableKWhAtHorizon)
	}
	// Minimality: one fewer unit must fail the end-of-horizon requirement.
	perUnit := res.UsableKWhAtHorizon / float64(res.UnitCount)
	if float64(res.UnitCount-1)*perUnit >= res.RequiredKWh {
		t.Errorf("%d units already cover the requirement, count is not minimal", res.UnitCount-1)
	}

	if res.BindingEvent.EnergyToShaveKWh != 150 {
		t.Errorf("expected the 150 kWh event to bind, got %.1f", res.BindingEvent.EnergyToShaveKWh)
	}
	if res.NameplateKWh != 200 {
		t.Errorf("expected 200 kWh nameplate, got %.1f", res.NameplateKWh)
	}
	if res.UsableKWhYear0 != 200 {
		t.Errorf("expected 200 kWh usable at year 0, got %.1f", res.UsableKWhYear0)
	}
}

func TestSize_ExactMultiple(t *testing.T) {
	// Exactly 2 * 100 * 0.80: must not round up to 3.
	set := eventSet(t, []float64{160}, 90)

	res, err := Size(set, testSpec(), testCurve(t), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.UnitCount != 2 {
		t.Errorf("expected 2 units for an exact multiple, got %d", res.UnitCount)
	}
}

func TestSize_PowerAdvisory(t *testing.T) {
	// 250 kW excess at 100 kW rated power needs 3 units on the power side,
	// while 150 kWh only needs 2 on the energy side.
	set := eventSet(t, []float64{150}, 250)

	res, err := Size(set, testSpec(), testCurve(t), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.UnitCount != 2 {
		t.Errorf("energy-based count must stay 2, got %d", res.UnitCount)
	}
	if res.UnitsForPower != 3 {
		t.Errorf("expected 3 units for power, got %d", res.UnitsForPower)
	}
	if res.RecommendedUnits != 3 {
		t.Errorf("expected 3 recommended units, got %d", res.RecommendedUnits)
	}
}

func TestSize_Infeasible(t *testing.T) {
	set := eventSet(t, []float64{150000}, 90)

	_, err := Size(set, testSpec(), testCurve(t), Options{MaxUnits: 10})
	var infeasible *InfeasibleSizingError
	if !errors.As(err, &infeasible) {
		t.Fatalf("expected InfeasibleSizingError, got %v", err)
	}
	if infeasible.RequiredKWh != 150000 {
		t.Errorf("expected required 150000 kWh in error, got %.1f", infeasible.RequiredKWh)
	}
	if infeasible.MaxUnits != 10 {
		t.Errorf("expected max units 10 in error, got %d", infeasible.MaxUnits)
	}
	if infeasible.BindingEvent.EnergyToShaveKWh != 150000 {
		t.Errorf("expected binding event in error, got %.1f", infeasible.BindingEvent.EnergyToShaveKWh)
	}
}

func TestSize_NilEvents(t *testing.T) {
	_, err := Size(nil, testSpec(), testCurve(t), Options{})
	if !errors.Is(err, model.ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestSize_InvalidSpec(t *testing.T) {
	set := eventSet(t, []float64{150}, 90)
	spec := testSpec()
	spec.RatedEnergyKWh = 0

	if _, err := Size(set, spec, testCurve(t), Options{}); err == nil {
		t.Error("expected error for invalid battery spec")
	}
}
