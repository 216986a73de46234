package pipeline

import (
	"math"

	"grid-mix/internal/model"

	"github.com/shopspring/decimal"
)

// OutputDecimals is the number of decimal places every numeric output is rounded to.
const OutputDecimals = 2

// ComputeAggregates adds the five energy-mix totals to every row of the merged
// table, then rounds all numeric cells to OutputDecimals places. The table is
// modified in place. No row is touched if a required column is missing.
func ComputeAggregates(t *model.MixTable) error {
	var missing []string
	for _, c := range model.RequiredColumns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnError{Columns: missing}
	}

	for _, c := range model.AggregateColumns {
		t.AddColumn(c)
	}

	for i := range t.Rows {
		v := t.Rows[i].Values

		// TOTAL_WIND and TOTAL_GAS feed the renewable and fossil totals, which in
		// turn feed TOTAL_LOW_CARBON.
		v[model.ColumnTotalWind] = v[string(model.FuelWind)] + v[model.ColumnEmbeddedWind]
		v[model.ColumnTotalGas] = v[string(model.FuelCCGT)] + v[string(model.FuelOCGT)]
		v[model.ColumnTotalRenewable] = v[model.ColumnTotalWind] + v[model.ColumnEmbeddedSolar] + v[string(model.FuelNPSHYD)]
		v[model.ColumnTotalFossilFuels] = v[model.ColumnTotalGas] + v[string(model.FuelCoal)] + v[string(model.FuelOil)]
		v[model.ColumnTotalLowCarbon] = v[model.ColumnTotalRenewable] + v[string(model.FuelBiomass)] + v[string(model.FuelNuclear)]
	}

	RoundTable(t, OutputDecimals)
	return nil
}

// RoundTable rounds every numeric cell of t to places decimal places.
func RoundTable(t *model.MixTable, places int32) {
	for i := range t.Rows {
		for k, x := range t.Rows[i].Values {
			t.Rows[i].Values[k] = Round(x, places)
		}
	}
}

// Round rounds x half-to-even at the given number of decimal places, applied to
// the shortest decimal representation of x. So 2.675 rounds to 2.68 even though
// its binary value is slightly below the half. NaN and infinities are returned unchanged.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).RoundBank(places).InexactFloat64()
}
