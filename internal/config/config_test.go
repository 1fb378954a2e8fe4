package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_ExpandsPerKWhCosts(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
battery:
  name: tianwu-100
  energy_capacity_kwh: 233
  power_capacity_kw: 100
  cost_per_kwh_rm: 800
  installation_pct: 20
finance:
  data_period_days: 30
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spec := cfg.Battery.ToUnitSpec()
	if spec.UnitCostRM != 800*233 {
		t.Errorf("expected unit cost %d, got %.0f", 800*233, spec.UnitCostRM)
	}
	if math.Abs(spec.InstallationCostRM-0.20*800*233) > 1e-6 {
		t.Errorf("expected installation cost %.0f, got %.0f", 0.20*800*233, spec.InstallationCostRM)
	}

	// Defaults are applied.
	if cfg.Sizing.HorizonYears != 20 || cfg.Sizing.MaxUnits != 1000 {
		t.Errorf("unexpected sizing defaults: %+v", cfg.Sizing)
	}
	if math.Abs(cfg.AnnualizationFactor()-365.0/30.0) > 1e-9 {
		t.Errorf("unexpected annualization factor %.4f", cfg.AnnualizationFactor())
	}
}

func TestLoad_BatteryFileMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tianwu.yaml", `
battery:
  name: tianwu-250
  energy_capacity_kwh: 233
  power_capacity_kw: 250
  cost_per_kwh_rm: 800
`)
	path := writeFile(t, dir, "config.yaml", `
battery_file: tianwu.yaml
battery:
  cost_per_kwh_rm: 650
finance:
  data_period_days: 60
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Battery.Name != "tianwu-250" {
		t.Errorf("expected preset name to survive, got %q", cfg.Battery.Name)
	}
	if cfg.Battery.PowerKW != 250 {
		t.Errorf("expected preset power 250, got %.0f", cfg.Battery.PowerKW)
	}
	if cfg.Battery.CostPerKWhRM != 650 {
		t.Errorf("expected override cost 650, got %.0f", cfg.Battery.CostPerKWhRM)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	noEnergy := writeFile(t, dir, "no_energy.yaml", `
battery:
  power_capacity_kw: 100
finance:
  data_period_days: 30
`)
	if _, err := Load(noEnergy); err == nil {
		t.Error("expected error for missing battery energy capacity")
	}

	badPeriod := writeFile(t, dir, "bad_period.yaml", `
battery:
  energy_capacity_kwh: 233
  power_capacity_kw: 100
finance:
  data_period_days: 500
`)
	if _, err := Load(badPeriod); err == nil {
		t.Error("expected error for data period above a year")
	}
}
