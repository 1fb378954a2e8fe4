package data

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// BatteryModel describes one vendor product in the battery database.
type BatteryModel struct {
	Company        string  `json:"company"`
	Model          string  `json:"model"`
	CRate          float64 `json:"c_rate"`
	PowerKW        float64 `json:"power_kW"`
	EnergyKWh      float64 `json:"energy_kWh"`
	VoltageV       float64 `json:"voltage_V"`
	LifespanYears  int     `json:"lifespan_years"`
	EOLCapacityPct float64 `json:"eol_capacity_pct"`
	CyclesPerDay   float64 `json:"cycles_per_day"`
	Cooling        string  `json:"cooling"`
	WeightKg       float64 `json:"weight_kg"`
}

// BatteryDatabase maps product IDs to models.
type BatteryDatabase map[string]BatteryModel

// IDs returns the product IDs in stable order.
func (db BatteryDatabase) IDs() []string {
	ids := make([]string, 0, len(db))
	for id := range db {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadBatteryDatabase loads a vendor battery database from a JSON file.
func LoadBatteryDatabase(path string) (BatteryDatabase, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read battery database: %w", err)
	}
	var db BatteryDatabase
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf("failed to parse battery database: %w", err)
	}
	return db, nil
}

// DefaultBatteryDatabase is the built-in fallback used when no database
// file is available: the WEIHENG TIANWU product line the default
// degradation curve was measured on.
func DefaultBatteryDatabase() BatteryDatabase {
	return BatteryDatabase{
		"TIANWU-50-233-0.25C": {
			Company:        "WEIHENG",
			Model:          "WH-TIANWU-50-233B",
			CRate:          0.25,
			PowerKW:        50,
			EnergyKWh:      233,
			VoltageV:       832,
			LifespanYears:  15,
			EOLCapacityPct: 80,
			CyclesPerDay:   1.0,
			Cooling:        "Liquid (Battery), Air (PCS)",
			WeightKg:       2700,
		},
		"TIANWU-100-233-0.5C": {
			Company:        "WEIHENG",
			Model:          "WH-TIANWU-100-233B",
			CRate:          0.5,
			PowerKW:        100,
			EnergyKWh:      233,
			VoltageV:       832,
			LifespanYears:  15,
			EOLCapacityPct: 80,
			CyclesPerDay:   1.0,
			Cooling:        "Liquid (Battery + PCS)",
			WeightKg:       2700,
		},
		"TIANWU-250-233-1C": {
			Company:        "WEIHENG",
			Model:          "WH-TIANWU-250-A",
			CRate:          1.0,
			PowerKW:        250,
			EnergyKWh:      233,
			VoltageV:       832,
			LifespanYears:  15,
			EOLCapacityPct: 80,
			CyclesPerDay:   1.0,
			Cooling:        "Liquid (Battery), Air (PCS)",
			WeightKg:       2600,
		},
	}
}

// GetDefaultDatabasePath returns the battery database location.
func GetDefaultDatabasePath() string {
	if path := os.Getenv("BATTERY_DB"); path != "" {
		return path
	}
	return "./data/vendor_battery_database.json"
}

// OpenBatteryDatabase loads the database at path, falling back to the
// built-in one when the file is missing or malformed.
func OpenBatteryDatabase(path string) BatteryDatabase {
	db, err := LoadBatteryDatabase(path)
	if err != nil {
		return DefaultBatteryDatabase()
	}
	return db
}
