package pipeline

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"grid-mix/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeDropsNonOverlappingTimestamps(t *testing.T) {
	fuel := []model.FuelInstRow{
		fuelRow(slot(1), model.FuelWind, 1),
		fuelRow(slot(2), model.FuelWind, 2),
		fuelRow(slot(3), model.FuelWind, 3),
	}
	demand := []model.DemandRow{
		demandRow(slot(2), 20, 1),
		demandRow(slot(3), 30, 2),
		demandRow(slot(4), 40, 3),
	}

	merged, err := MergeOnTimestamp(PivotFuelInst(fuel), demand)
	require.NoError(t, err)
	require.Equal(t, 2, merged.Len())
	assert.Equal(t, slot(2), merged.Rows[0].Timestamp)
	assert.Equal(t, slot(3), merged.Rows[1].Timestamp)

	assert.Equal(t, []string{"WIND", model.ColumnEmbeddedWind, model.ColumnEmbeddedSolar}, merged.Columns)
	assert.Equal(t, 2.0, merged.Rows[0].Values["WIND"])
	assert.Equal(t, 20.0, merged.Rows[0].Values[model.ColumnEmbeddedWind])
	assert.Equal(t, 2.0, merged.Rows[1].Values[model.ColumnEmbeddedSolar])
}

func TestMergeMatchesSameInstantAcrossLocations(t *testing.T) {
	bst := time.FixedZone("BST", 60*60)

	fuel := []model.FuelInstRow{fuelRow(slot(0), model.FuelWind, 1)}
	demand := []model.DemandRow{demandRow(slot(0).In(bst), 5, 6)}

	merged, err := MergeOnTimestamp(PivotFuelInst(fuel), demand)
	require.NoError(t, err)
	assert.Equal(t, 1, merged.Len())
}

func TestMergeNoOverlapIsEmptyJoinError(t *testing.T) {
	fuel := []model.FuelInstRow{fuelRow(slot(0), model.FuelWind, 1)}
	demand := []model.DemandRow{demandRow(slot(5), 5, 6)}

	_, err := MergeOnTimestamp(PivotFuelInst(fuel), demand)

	var ej *EmptyJoinError
	require.True(t, errors.As(err, &ej))
	assert.Equal(t, 1, ej.FuelInstRows)
	assert.Equal(t, 1, ej.DemandRows)
}

func TestMergeEmptyInputs(t *testing.T) {
	_, err := MergeOnTimestamp(PivotFuelInst(nil), nil)

	var ej *EmptyJoinError
	assert.True(t, errors.As(err, &ej))
}

func TestMergeDuplicateDemandLastWinsAndIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	demand := []model.DemandRow{
		demandRow(slot(0), 1, 1),
		demandRow(slot(0), 2, 2),
		demandRow(slot(0).In(time.FixedZone("BST", 3600)), 3, 3),
		demandRow(slot(1), 4, 4),
	}
	merged, err := MergeOnTimestamp(PivotFuelInst(append(scenarioFuel(slot(0)), scenarioFuel(slot(1))...)), demand)
	require.NoError(t, err)
	require.Equal(t, 2, merged.Len())
	assert.Equal(t, 3.0, merged.Rows[0].Values[model.ColumnEmbeddedWind])
	assert.Equal(t, 4.0, merged.Rows[1].Values[model.ColumnEmbeddedWind])
	assert.Contains(t, buf.String(), "[NESO] Dropped 2 duplicate settlement periods")
}

func TestMergeUniqueDemandLogsNothing(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	_, err := MergeOnTimestamp(PivotFuelInst(scenarioFuel(slot(0))), []model.DemandRow{demandRow(slot(0), 1, 1)})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
