package pipeline

import (
	"sort"
	"time"

	"grid-mix/internal/model"
)

// PivotFuelInst turns FUELINST readings into one row per timestamp with one column
// per fuel type. Readings for the same timestamp and fuel type (the 5-minute
// values within a settlement period) are averaged. A fuel type seen anywhere in
// rows but not at a given timestamp is 0 there.
func PivotFuelInst(rows []model.FuelInstRow) *model.WideTable {
	type acc struct {
		sum   float64
		count int
	}
	groups := map[time.Time]map[string]*acc{}
	fuels := map[string]struct{}{}

	for _, r := range rows {
		ts := r.Timestamp.UTC()
		fuel := string(r.FuelType)
		fuels[fuel] = struct{}{}

		byFuel, ok := groups[ts]
		if !ok {
			byFuel = map[string]*acc{}
			groups[ts] = byFuel
		}
		a, ok := byFuel[fuel]
		if !ok {
			a = &acc{}
			byFuel[fuel] = a
		}
		a.sum += r.Generation
		a.count++
	}

	out := &model.WideTable{
		Timestamps: make([]time.Time, 0, len(groups)),
		Columns:    make([]string, 0, len(fuels)),
		Cells:      make(map[time.Time]map[string]float64, len(groups)),
	}
	for f := range fuels {
		out.Columns = append(out.Columns, f)
	}
	sort.Strings(out.Columns)

	for ts, byFuel := range groups {
		out.Timestamps = append(out.Timestamps, ts)
		cells := make(map[string]float64, len(out.Columns))
		for _, f := range out.Columns {
			if a, ok := byFuel[f]; ok {
				cells[f] = a.sum / float64(a.count)
			} else {
				cells[f] = 0
			}
		}
		out.Cells[ts] = cells
	}
	sort.Slice(out.Timestamps, func(i, j int) bool {
		return out.Timestamps[i].Before(out.Timestamps[j])
	})
	return out
}

// Unpivot turns a wide table back into one reading per timestamp and fuel type.
// Pivoting the result reproduces the table.
func Unpivot(t *model.WideTable) []model.FuelInstRow {
	if t == nil {
		return nil
	}
	out := make([]model.FuelInstRow, 0, len(t.Timestamps)*len(t.Columns))
	for _, ts := range t.Timestamps {
		for _, f := range t.Columns {
			out = append(out, model.FuelInstRow{
				FuelType:   model.FuelType(f),
				Generation: t.Cells[ts][f],
				Timestamp:  ts,
			})
		}
	}
	return out
}
