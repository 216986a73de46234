package pipeline

import (
	"math/rand"
	"testing"

	"grid-mix/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPivotAveragesFiveMinuteReadings(t *testing.T) {
	var rows []model.FuelInstRow
	for _, mw := range []float64{100, 110, 120, 130, 140, 150} {
		rows = append(rows, fuelRow(slot(0), model.FuelWind, mw))
	}
	rows = append(rows, fuelRow(slot(0), model.FuelCCGT, 2000))

	wide := PivotFuelInst(rows)
	require.Equal(t, 1, wide.Len())
	assert.Equal(t, []string{"CCGT", "WIND"}, wide.Columns)
	assert.Equal(t, 125.0, wide.Value(slot(0), "WIND"))
	assert.Equal(t, 2000.0, wide.Value(slot(0), "CCGT"))
}

func TestPivotFillsAbsentFuelWithZero(t *testing.T) {
	rows := []model.FuelInstRow{
		fuelRow(slot(0), model.FuelWind, 100),
		fuelRow(slot(0), model.FuelOil, 7),
		fuelRow(slot(1), model.FuelWind, 120),
	}

	wide := PivotFuelInst(rows)
	require.Equal(t, 2, wide.Len())

	cell, ok := wide.Cells[slot(1)]["OIL"]
	assert.True(t, ok, "OIL must be present as a zero cell, not absent")
	assert.Equal(t, 0.0, cell)
}

func TestPivotOrdersTimestampsAndColumns(t *testing.T) {
	rows := []model.FuelInstRow{
		fuelRow(slot(2), model.FuelNuclear, 1),
		fuelRow(slot(0), model.FuelWind, 1),
		fuelRow(slot(1), model.FuelBiomass, 1),
	}

	wide := PivotFuelInst(rows)
	assert.Equal(t, []string{"BIOMASS", "NUCLEAR", "WIND"}, wide.Columns)
	require.Len(t, wide.Timestamps, 3)
	for i := range wide.Timestamps {
		assert.Equal(t, slot(i), wide.Timestamps[i])
	}
}

func TestPivotIsIdempotent(t *testing.T) {
	rows := append(scenarioFuel(slot(0)), scenarioFuel(slot(1))...)
	rows = append(rows, fuelRow(slot(0), model.FuelWind, 300))
	rows = append(rows, fuelRow(slot(2), "INTFR", 1500))

	once := PivotFuelInst(rows)
	twice := PivotFuelInst(Unpivot(once))
	assert.Equal(t, once, twice)
}

func TestPivotIgnoresInputOrder(t *testing.T) {
	rows := append(scenarioFuel(slot(0)), scenarioFuel(slot(1))...)
	rows = append(rows, fuelRow(slot(1), model.FuelWind, 50))

	want := PivotFuelInst(rows)

	shuffled := append([]model.FuelInstRow(nil), rows...)
	rng := rand.New(rand.NewSource(7))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	assert.Equal(t, want, PivotFuelInst(shuffled))
}

func TestPivotEmpty(t *testing.T) {
	wide := PivotFuelInst(nil)
	assert.Equal(t, 0, wide.Len())
	assert.Empty(t, wide.Columns)
}
