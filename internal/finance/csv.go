package finance

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteLedgerCSV exports a projection ledger for spreadsheets and reports.
func WriteLedgerCSV(path string, ledger []YearRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"year",
		"soh",
		"usable_kwh",
		"shaving_ratio",
		"cost_avoided_rm",
		"cash_flow_rm",
		"cumulative_rm",
		"post_end_of_life",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Year),
			fmtFloat(r.SOH),
			fmtFloat(r.UsableKWh),
			fmtFloat(r.ShavingRatio),
			fmtFloat(r.CostAvoidedRM),
			fmtFloat(r.CashFlowRM),
			fmtFloat(r.CumulativeRM),
			strconv.FormatBool(r.PostEndOfLife),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 4, 64)
}
