package analysis

import (
	"math"
	"sort"
	"time"

	"grid-mix/internal/model"
)

// ColumnStats summarises one numeric column of a mix table.
type ColumnStats struct {
	Column string  `json:"column"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	P05    float64 `json:"p05"`
	P95    float64 `json:"p95"`
}

// Summary is a window-level overview of an aggregated mix table.
type Summary struct {
	Count    int       `json:"count"`
	StartUTC time.Time `json:"start_utc"`
	EndUTC   time.Time `json:"end_utc"`

	// Totals holds stats for each aggregate column present in the table.
	Totals []ColumnStats `json:"totals"`

	// LowCarbonShare is the mean over periods of
	// TOTAL_LOW_CARBON / (TOTAL_LOW_CARBON + TOTAL_FOSSIL_FUELS).
	// Periods where both are zero are skipped.
	LowCarbonShare float64 `json:"low_carbon_share"`
}

// Summarize computes a Summary over the rows of t.
func Summarize(t *model.MixTable) Summary {
	s := Summary{}
	if t.Len() == 0 {
		return s
	}
	s.Count = t.Len()
	s.StartUTC = t.Rows[0].Timestamp
	s.EndUTC = t.Rows[0].Timestamp
	for _, r := range t.Rows {
		if r.Timestamp.Before(s.StartUTC) {
			s.StartUTC = r.Timestamp
		}
		if r.Timestamp.After(s.EndUTC) {
			s.EndUTC = r.Timestamp
		}
	}

	for _, c := range model.AggregateColumns {
		if t.HasColumn(c) {
			s.Totals = append(s.Totals, ComputeColumnStats(c, t.Column(c)))
		}
	}

	if t.HasColumn(model.ColumnTotalLowCarbon) && t.HasColumn(model.ColumnTotalFossilFuels) {
		sum, n := 0.0, 0
		for _, r := range t.Rows {
			low := r.Values[model.ColumnTotalLowCarbon]
			denom := low + r.Values[model.ColumnTotalFossilFuels]
			if denom == 0 {
				continue
			}
			sum += low / denom
			n++
		}
		if n > 0 {
			s.LowCarbonShare = sum / float64(n)
		}
	}
	return s
}

// ComputeColumnStats returns min/max/mean and the 5th/95th percentiles of vals.
func ComputeColumnStats(column string, vals []float64) ColumnStats {
	st := ColumnStats{Column: column}
	if len(vals) == 0 {
		return st
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	st.Min = sorted[0]
	st.Max = sorted[len(sorted)-1]
	st.Mean = sum / float64(len(sorted))
	st.P05 = percentileSorted(sorted, 0.05)
	st.P95 = percentileSorted(sorted, 0.95)
	return st
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
