package model

import "time"

// WideTable is the pivoted FUELINST data: one row per timestamp, one column per
// fuel type. Cells holds timestamp -> fuel type -> mean generation (MW).
type WideTable struct {
	// Timestamps in ascending order.
	Timestamps []time.Time
	// Columns are the observed fuel types, sorted.
	Columns []string
	Cells   map[time.Time]map[string]float64
}

// Len returns the number of rows.
func (t *WideTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Timestamps)
}

// Value returns the cell for ts/column, or 0 if absent.
func (t *WideTable) Value(ts time.Time, column string) float64 {
	if t == nil {
		return 0
	}
	return t.Cells[ts.UTC()][column]
}

// MixRow is one settlement period of the merged (and later aggregated) table.
type MixRow struct {
	Timestamp time.Time
	Values    map[string]float64
}

// MixTable is the merged BMRS + NESO table. Columns lists the numeric columns in
// output order; the timestamp column is implicit and always first.
type MixTable struct {
	Columns []string
	Rows    []MixRow
}

// Len returns the number of rows.
func (t *MixTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether name is one of the table's numeric columns.
func (t *MixTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends name to the column list if it is not already present.
func (t *MixTable) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Header returns the full output header, timestamp first.
func (t *MixTable) Header() []string {
	out := make([]string, 0, len(t.Columns)+1)
	out = append(out, ColumnTimestamp)
	return append(out, t.Columns...)
}

// Column returns the values of one column in row order.
func (t *MixTable) Column(name string) []float64 {
	out := make([]float64, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, r.Values[name])
	}
	return out
}
