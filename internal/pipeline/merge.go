package pipeline

import (
	"log"
	"time"

	"grid-mix/internal/model"
)

// MergeOnTimestamp inner-joins the pivoted FUELINST table with the NESO rows on
// timestamp. Timestamps present in only one source are dropped. Output rows follow
// the pivoted table's (ascending) order; columns are the fuel types followed by the
// two embedded generation columns. When several demand rows share a timestamp the
// last one is used.
func MergeOnTimestamp(pivoted *model.WideTable, demand []model.DemandRow) (*model.MixTable, error) {
	byTS, dupes := indexDemand(demand)
	if dupes > 0 {
		log.Printf("[NESO] Dropped %d duplicate settlement periods (last row kept)", dupes)
	}

	out := &model.MixTable{}
	if pivoted != nil {
		out.Columns = append(out.Columns, pivoted.Columns...)
	}
	out.Columns = append(out.Columns, model.EmbeddedColumns...)

	for _, ts := range timestampsOf(pivoted) {
		d, ok := byTS[ts]
		if !ok {
			continue
		}
		values := make(map[string]float64, len(out.Columns))
		for _, f := range pivoted.Columns {
			values[f] = pivoted.Cells[ts][f]
		}
		values[model.ColumnEmbeddedWind] = d.EmbeddedWindGeneration
		values[model.ColumnEmbeddedSolar] = d.EmbeddedSolarGeneration
		out.Rows = append(out.Rows, model.MixRow{Timestamp: ts, Values: values})
	}

	if len(out.Rows) == 0 {
		return nil, &EmptyJoinError{FuelInstRows: pivoted.Len(), DemandRows: len(demand)}
	}
	return out, nil
}

func timestampsOf(t *model.WideTable) []time.Time {
	if t == nil {
		return nil
	}
	return t.Timestamps
}

// indexDemand keys rows by UTC timestamp and counts rows replaced by a later one.
func indexDemand(demand []model.DemandRow) (map[time.Time]model.DemandRow, int) {
	byTS := make(map[time.Time]model.DemandRow, len(demand))
	dupes := 0
	for _, d := range demand {
		ts := d.Timestamp.UTC()
		if _, ok := byTS[ts]; ok {
			dupes++
		}
		byTS[ts] = d
	}
	return byTS, dupes
}
