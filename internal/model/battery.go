package model

import "errors"

// BatteryUnitSpec defines one storage unit of a vendor product line.
// Units:
// - RatedEnergyKWh: kWh nameplate
// - RatedPowerKW: kW continuous discharge
// - UnitCostRM / InstallationCostRM: RM per unit installed
type BatteryUnitSpec struct {
	ID             string
	RatedEnergyKWh float64
	RatedPowerKW   float64

	UnitCostRM         float64
	InstallationCostRM float64

	// CurveID ties the spec to the degradation curve measured for this
	// product line.
	CurveID string
}

func (s BatteryUnitSpec) Validate() error {
	if s.RatedEnergyKWh <= 0 {
		return errors.New("RatedEnergyKWh must be > 0")
	}
	if s.RatedPowerKW <= 0 {
		return errors.New("RatedPowerKW must be > 0")
	}
	if s.UnitCostRM < 0 || s.InstallationCostRM < 0 {
		return errors.New("unit and installation costs must be >= 0")
	}
	return nil
}

// UpfrontCostRM is the installed cost of a fleet of n units.
func (s BatteryUnitSpec) UpfrontCostRM(units int) float64 {
	return float64(units) * (s.UnitCostRM + s.InstallationCostRM)
}
