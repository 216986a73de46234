package analysis

import (
	"testing"
	"time"

	"grid-mix/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeColumnStats(t *testing.T) {
	vals := []float64{5, 1, 3, 2, 4}
	st := ComputeColumnStats("X", vals)
	assert.Equal(t, 1.0, st.Min)
	assert.Equal(t, 5.0, st.Max)
	assert.Equal(t, 3.0, st.Mean)
	assert.InDelta(t, 1.2, st.P05, 1e-9)
	assert.InDelta(t, 4.8, st.P95, 1e-9)
	assert.Equal(t, []float64{5, 1, 3, 2, 4}, vals, "input must not be reordered")
}

func TestSummarize(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	table := &model.MixTable{
		Columns: []string{model.ColumnTotalFossilFuels, model.ColumnTotalLowCarbon},
		Rows: []model.MixRow{
			{Timestamp: ts.Add(30 * time.Minute), Values: map[string]float64{model.ColumnTotalFossilFuels: 100, model.ColumnTotalLowCarbon: 300}},
			{Timestamp: ts, Values: map[string]float64{model.ColumnTotalFossilFuels: 50, model.ColumnTotalLowCarbon: 50}},
			{Timestamp: ts.Add(time.Hour), Values: map[string]float64{model.ColumnTotalFossilFuels: 0, model.ColumnTotalLowCarbon: 0}},
		},
	}

	s := Summarize(table)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, ts, s.StartUTC)
	assert.Equal(t, ts.Add(time.Hour), s.EndUTC)
	require.Len(t, s.Totals, 2)
	assert.Equal(t, model.ColumnTotalFossilFuels, s.Totals[0].Column)
	assert.Equal(t, 50.0, s.Totals[0].Mean)
	assert.InDelta(t, (0.75+0.5)/2, s.LowCarbonShare, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(&model.MixTable{})
	assert.Equal(t, 0, s.Count)
	assert.Empty(t, s.Totals)
}
