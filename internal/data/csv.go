package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"md-shaving/internal/model"
)

// Expected peak-event CSV columns, as exported by the MD shaving analysis
// upstream of this engine.
const (
	colStartDate     = "Start Date"
	colStartTime     = "Start Time"
	colEndDate       = "End Date"
	colEndTime       = "End Time"
	colPeakLoad      = "Peak Load (kW)"
	colExcess        = "Excess (kW)"
	colDuration      = "Duration (min)"
	colEnergy        = "Energy to Shave (kWh)"
	colEnergyPeak    = "Energy to Shave (Peak Period Only)"
	colMDCostImpact  = "MD Cost Impact (RM)"
	timestampDateFmt = "2006-01-02"
	timestampTimeFmt = "15:04"
)

// ReadEventsCSV parses a peak-event CSV into typed rows. Rows that fail to
// parse are reported in the RowError slice and skipped; only a missing
// header or unreadable file is fatal. Row indices are zero-based over data
// rows (header excluded), matching PeakEventSet validation indices.
func ReadEventsCSV(path string) ([]model.PeakEvent, []model.RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open events file: %w", err)
	}
	defer f.Close()
	return ParseEventsCSV(f)
}

// ParseEventsCSV is ReadEventsCSV over an already-open reader.
func ParseEventsCSV(r io.Reader) ([]model.PeakEvent, []model.RowError, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	required := []string{
		colStartDate, colStartTime, colEndDate, colEndTime,
		colExcess, colDuration, colEnergy, colMDCostImpact,
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var (
		events  []model.PeakEvent
		rowErrs []model.RowError
	)
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, model.RowError{Row: row, Reason: err.Error()})
			continue
		}

		ev, err := parseEventRecord(rec, idx)
		if err != nil {
			rowErrs = append(rowErrs, model.RowError{Row: row, Reason: err.Error()})
			continue
		}
		events = append(events, ev)
	}
	return events, rowErrs, nil
}

func parseEventRecord(rec []string, idx map[string]int) (model.PeakEvent, error) {
	start, err := parseTimestamp(field(rec, idx, colStartDate), field(rec, idx, colStartTime))
	if err != nil {
		return model.PeakEvent{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseTimestamp(field(rec, idx, colEndDate), field(rec, idx, colEndTime))
	if err != nil {
		return model.PeakEvent{}, fmt.Errorf("end: %w", err)
	}

	ev := model.PeakEvent{Start: start, End: end}
	for _, f := range []struct {
		col      string
		dst      *float64
		optional bool
	}{
		{colPeakLoad, &ev.PeakLoadKW, true},
		{colExcess, &ev.ExcessKW, false},
		{colDuration, &ev.DurationMinutes, false},
		{colEnergy, &ev.EnergyToShaveKWh, false},
		{colEnergyPeak, &ev.EnergyToShavePeakKWh, true},
		{colMDCostImpact, &ev.MDCostImpactRM, false},
	} {
		raw := field(rec, idx, f.col)
		if raw == "" {
			if f.optional {
				continue
			}
			return model.PeakEvent{}, fmt.Errorf("missing %s", f.col)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.PeakEvent{}, fmt.Errorf("invalid %s %q", f.col, raw)
		}
		*f.dst = v
	}
	// The peak-period figure defaults to the full figure when the exporter
	// omits the column.
	if _, ok := idx[colEnergyPeak]; !ok {
		ev.EnergyToShavePeakKWh = ev.EnergyToShaveKWh
	}
	return ev, nil
}

func field(rec []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseTimestamp(date, clock string) (time.Time, error) {
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("missing date or time")
	}
	for _, fmtStr := range []string{
		timestampDateFmt + " " + timestampTimeFmt,
		timestampDateFmt + " 15:04:05",
	} {
		if t, err := time.Parse(fmtStr, date+" "+clock); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q %q", date, clock)
}
