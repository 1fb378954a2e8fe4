package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"md-shaving/internal/analysis"
	"md-shaving/internal/config"
	"md-shaving/internal/data"
	"md-shaving/internal/finance"
	"md-shaving/internal/model"
	"md-shaving/internal/sizing"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "analyze":
		cmdAnalyze(os.Args[2:])
	case "batteries":
		cmdBatteries(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli analyze --events peak_events.csv --config examples/config.yaml --out results/ledger.csv")
	fmt.Println("  cli batteries [--db data/vendor_battery_database.json]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - analyze sizes the fleet against the worst peak event at end-of-horizon SOH")
	fmt.Println("  - the ledger CSV has one row per year: SOH, usable kWh, cost avoided, cumulative cash flow")
}

func cmdAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	eventsPath := fs.String("events", "peak_events.csv", "Path to peak events CSV")
	cfgPath := fs.String("config", "", "Path to YAML config")
	outPath := fs.String("out", "results/ledger.csv", "Output ledger CSV path")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err)
	}

	curve := data.WeihengTianwuCurve()
	if cfg.DegradationFile != "" {
		curve, err = data.LoadCurveJSON(cfg.DegradationFile)
		if err != nil {
			fatal(err)
		}
	}

	rows, parseErrs, err := data.ReadEventsCSV(*eventsPath)
	if err != nil {
		fatal(err)
	}
	events, rowErrs, err := model.NewPeakEventSet(rows)
	if err != nil {
		fatal(err)
	}
	for _, re := range parseErrs {
		fmt.Printf("skipped unparseable %v\n", re)
	}
	for _, re := range rowErrs {
		fmt.Printf("excluded invalid %v\n", re)
	}

	spec := cfg.Battery.ToUnitSpec()
	szg, err := sizing.Size(events, spec, curve, sizing.Options{
		HorizonYears: cfg.Sizing.HorizonYears,
		MaxUnits:     cfg.Sizing.MaxUnits,
	})
	if err != nil {
		fatal(err)
	}

	annual := events.AnnualCostImpact(cfg.AnnualizationFactor())
	proj, err := finance.Project(szg, spec, curve, annual, szg.HorizonYears)
	if err != nil {
		fatal(err)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		fatal(err)
	}
	if err := finance.WriteLedgerCSV(*outPath, proj.Ledger); err != nil {
		fatal(err)
	}

	stats := analysis.Summarize(events)
	fmt.Printf("Wrote %d rows to %s\n", len(proj.Ledger), *outPath)
	fmt.Printf("Events: %d valid (%d excluded), worst case %.1f kWh, max excess %.1f kW\n",
		stats.Count, len(rowErrs), stats.MaxEnergyKWh, stats.MaxExcessKW)
	fmt.Printf("Fleet: %d units (%d for power, %d recommended), %.0f kWh nameplate, %.0f kWh usable at year %d\n",
		szg.UnitCount, szg.UnitsForPower, szg.RecommendedUnits,
		szg.NameplateKWh, szg.UsableKWhAtHorizon, szg.HorizonYears)
	fmt.Printf("Upfront RM %.0f, annual savings RM %.0f, ROI %.2f\n",
		proj.UpfrontCostRM, proj.AnnualCostAvoidedRM, proj.ROI)
	if proj.PaybackYear != nil {
		fmt.Printf("Payback in year %d\n", *proj.PaybackYear)
	} else {
		fmt.Println("Payback not reached within the horizon")
	}
	if proj.EndOfLifeYear != nil {
		fmt.Printf("End of life (%.0f%% SOH) reached in year %d\n", model.EndOfLifeSOH*100, *proj.EndOfLifeYear)
	}
}

func cmdBatteries(args []string) {
	fs := flag.NewFlagSet("batteries", flag.ExitOnError)
	dbPath := fs.String("db", data.GetDefaultDatabasePath(), "Path to vendor battery database JSON")
	_ = fs.Parse(args)

	db := data.OpenBatteryDatabase(*dbPath)
	fmt.Printf("%-22s %-20s %-8s %-10s %-8s\n", "id", "model", "kW", "kWh", "c-rate")
	for _, id := range db.IDs() {
		m := db[id]
		fmt.Printf("%-22s %-20s %-8.0f %-10.0f %-8.2f\n", id, m.Model, m.PowerKW, m.EnergyKWh, m.CRate)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
