package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"md-shaving/internal/model"
	"md-shaving/internal/sizing"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load battery parameters from a separate YAML (e.g.
	// examples/batteries/*.yaml). If both BatteryFile and Battery are
	// provided, Battery overrides BatteryFile.
	BatteryFile string        `yaml:"battery_file"`
	Battery     BatteryConfig `yaml:"battery"`

	// Optional path to a degradation curve JSON; the built-in WEIHENG
	// TIANWU dataset is used when empty.
	DegradationFile string `yaml:"degradation_file"`

	Sizing  SizingConfig  `yaml:"sizing"`
	Finance FinanceConfig `yaml:"finance"`
}

type BatteryConfig struct {
	Name          string  `yaml:"name"`
	EnergyKWh     float64 `yaml:"energy_capacity_kwh"`
	PowerKW       float64 `yaml:"power_capacity_kw"`
	DegradationID string  `yaml:"degradation_curve"`
	UnitCostRM    float64 `yaml:"unit_cost_rm"`
	InstallCostRM float64 `yaml:"installation_cost_rm"`
	CostPerKWhRM  float64 `yaml:"cost_per_kwh_rm"`
	InstallPct    float64 `yaml:"installation_pct"`
}

type SizingConfig struct {
	HorizonYears int `yaml:"horizon_years"`
	MaxUnits     int `yaml:"max_units"`
}

type FinanceConfig struct {
	// DataPeriodDays is how many days the uploaded peak events cover; the
	// annualization factor is 365 / DataPeriodDays.
	DataPeriodDays int `yaml:"data_period_days"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.BatteryFile != "" {
		batteryPath := c.BatteryFile
		if !filepath.IsAbs(batteryPath) {
			// Prefer paths relative to the config file directory, falling
			// back to the path as given (relative to cwd).
			cand := filepath.Join(filepath.Dir(path), batteryPath)
			if _, err := os.Stat(cand); err == nil {
				batteryPath = cand
			}
		}
		loaded, err := LoadBatteryFile(batteryPath)
		if err != nil {
			return nil, err
		}
		c.Battery = MergeBattery(loaded, c.Battery)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Sizing.HorizonYears == 0 {
		c.Sizing.HorizonYears = sizing.DefaultHorizonYears
	}
	if c.Sizing.MaxUnits == 0 {
		c.Sizing.MaxUnits = sizing.DefaultMaxUnits
	}
	if c.Finance.DataPeriodDays == 0 {
		c.Finance.DataPeriodDays = 30
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Battery.ToUnitSpec().Validate(); err != nil {
		return fmt.Errorf("battery config invalid: %w", err)
	}
	if c.Finance.DataPeriodDays < 1 || c.Finance.DataPeriodDays > 365 {
		return errors.New("finance.data_period_days must be in 1..365")
	}
	if c.Sizing.HorizonYears < 1 {
		return errors.New("sizing.horizon_years must be >= 1")
	}
	return nil
}

// AnnualizationFactor converts sample-window cost figures to yearly ones.
func (c *Config) AnnualizationFactor() float64 {
	return 365.0 / float64(c.Finance.DataPeriodDays)
}

// ToUnitSpec resolves the cost model into a per-unit spec. Explicit unit
// costs win; otherwise the per-kWh price and installation percentage are
// expanded against the unit's nameplate energy.
func (b BatteryConfig) ToUnitSpec() model.BatteryUnitSpec {
	unitCost := b.UnitCostRM
	if unitCost == 0 && b.CostPerKWhRM > 0 {
		unitCost = b.CostPerKWhRM * b.EnergyKWh
	}
	installCost := b.InstallCostRM
	if installCost == 0 && b.InstallPct > 0 {
		installCost = unitCost * b.InstallPct / 100
	}
	return model.BatteryUnitSpec{
		ID:                 b.Name,
		RatedEnergyKWh:     b.EnergyKWh,
		RatedPowerKW:       b.PowerKW,
		UnitCostRM:         unitCost,
		InstallationCostRM: installCost,
		CurveID:            b.DegradationID,
	}
}

type batteryFileWrapper struct {
	Battery BatteryConfig `yaml:"battery"`
}

// LoadBatteryFile reads a battery preset YAML of the shape
// battery: {name: ..., energy_capacity_kwh: ..., ...}.
func LoadBatteryFile(path string) (BatteryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BatteryConfig{}, err
	}
	var w batteryFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return BatteryConfig{}, err
	}
	return w.Battery, nil
}

// MergeBattery overlays non-zero fields from override onto base.
// Used when loading a battery preset and then applying request overrides.
func MergeBattery(base, override BatteryConfig) BatteryConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.EnergyKWh != 0 {
		out.EnergyKWh = override.EnergyKWh
	}
	if override.PowerKW != 0 {
		out.PowerKW = override.PowerKW
	}
	if override.DegradationID != "" {
		out.DegradationID = override.DegradationID
	}
	if override.UnitCostRM != 0 {
		out.UnitCostRM = override.UnitCostRM
	}
	if override.InstallCostRM != 0 {
		out.InstallCostRM = override.InstallCostRM
	}
	if override.CostPerKWhRM != 0 {
		out.CostPerKWhRM = override.CostPerKWhRM
	}
	if override.InstallPct != 0 {
		out.InstallPct = override.InstallPct
	}
	return out
}
