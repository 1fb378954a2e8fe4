package main

import (
	"flag"
	"fmt"
	"time"

	"md-shaving/internal/data"
	"md-shaving/internal/finance"
	"md-shaving/internal/model"
	"md-shaving/internal/sizing"
)

// Demo:
// - Build a small synthetic month of peak events
// - Size a TIANWU fleet against them using the measured degradation curve
// - Project 20 years of costs and savings to show how the pieces fit
func main() {
	periodDays := flag.Int("period-days", 30, "Days the synthetic events represent")
	flag.Parse()

	curve := data.WeihengTianwuCurve()
	tianwu := data.DefaultBatteryDatabase()["TIANWU-100-233-0.5C"]

	spec := model.BatteryUnitSpec{
		ID:             "TIANWU-100-233-0.5C",
		RatedEnergyKWh: tianwu.EnergyKWh,
		RatedPowerKW:   tianwu.PowerKW,
		// RM 800/kWh plus 20% installation, per unit.
		UnitCostRM:         800 * tianwu.EnergyKWh,
		InstallationCostRM: 0.20 * 800 * tianwu.EnergyKWh,
		CurveID:            "TIANWU-100-233-0.5C",
	}

	day := func(d int, h int, m int) time.Time {
		return time.Date(2024, 1, d, h, m, 0, 0, time.UTC)
	}
	rows := []model.PeakEvent{
		{Start: day(15, 14, 30), End: day(15, 15, 0), PeakLoadKW: 850, ExcessKW: 150, DurationMinutes: 30, EnergyToShaveKWh: 75, EnergyToShavePeakKWh: 75, MDCostImpactRM: 1245},
		{Start: day(16, 9, 15), End: day(16, 9, 45), PeakLoadKW: 920, ExcessKW: 220, DurationMinutes: 30, EnergyToShaveKWh: 110, EnergyToShavePeakKWh: 110, MDCostImpactRM: 1680},
		{Start: day(17, 16, 45), End: day(17, 17, 15), PeakLoadKW: 780, ExcessKW: 80, DurationMinutes: 30, EnergyToShaveKWh: 40, EnergyToShavePeakKWh: 40, MDCostImpactRM: 890},
	}

	events, rowErrs, err := model.NewPeakEventSet(rows)
	if err != nil {
		panic(err)
	}
	if len(rowErrs) > 0 {
		fmt.Printf("excluded %d invalid rows\n", len(rowErrs))
	}

	szg, err := sizing.Size(events, spec, curve, sizing.Options{})
	if err != nil {
		panic(err)
	}
	fmt.Printf("worst case %.1f kWh -> %d units (%.0f kWh nameplate, %.0f kWh usable at year %d)\n",
		szg.RequiredKWh, szg.UnitCount, szg.NameplateKWh, szg.UsableKWhAtHorizon, szg.HorizonYears)

	annual := events.AnnualCostImpact(365.0 / float64(*periodDays))
	proj, err := finance.Project(szg, spec, curve, annual, szg.HorizonYears)
	if err != nil {
		panic(err)
	}

	fmt.Printf("upfront RM %.0f, annual savings RM %.0f\n\n", proj.UpfrontCostRM, proj.AnnualCostAvoidedRM)
	fmt.Printf("%-5s %-8s %-12s %-14s %-14s %s\n", "year", "soh", "usable kWh", "avoided RM", "cumulative RM", "eol")
	for _, r := range proj.Ledger {
		eol := ""
		if r.PostEndOfLife {
			eol = "*"
		}
		fmt.Printf("%-5d %-8.4f %-12.1f %-14.0f %-14.0f %s\n",
			r.Year, r.SOH, r.UsableKWh, r.CostAvoidedRM, r.CumulativeRM, eol)
	}
	if proj.PaybackYear != nil {
		fmt.Printf("\npayback in year %d, ROI %.2f\n", *proj.PaybackYear, proj.ROI)
	} else {
		fmt.Printf("\npayback not reached, ROI %.2f\n", proj.ROI)
	}
}
