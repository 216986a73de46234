package pipeline

import (
	"time"

	"grid-mix/internal/model"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func slot(n int) time.Time {
	return t0.Add(time.Duration(n) * model.PeriodLength)
}

func fuelRow(ts time.Time, fuel model.FuelType, mw float64) model.FuelInstRow {
	return model.FuelInstRow{FuelType: fuel, Generation: mw, Timestamp: ts}
}

func demandRow(ts time.Time, wind, solar float64) model.DemandRow {
	return model.DemandRow{EmbeddedWindGeneration: wind, EmbeddedSolarGeneration: solar, Timestamp: ts}
}

// scenarioFuel is one settlement period with every required fuel type.
func scenarioFuel(ts time.Time) []model.FuelInstRow {
	return []model.FuelInstRow{
		fuelRow(ts, model.FuelWind, 100),
		fuelRow(ts, model.FuelCCGT, 200),
		fuelRow(ts, model.FuelOCGT, 50),
		fuelRow(ts, model.FuelCoal, 10),
		fuelRow(ts, model.FuelOil, 5),
		fuelRow(ts, model.FuelNPSHYD, 2),
		fuelRow(ts, model.FuelBiomass, 3),
		fuelRow(ts, model.FuelNuclear, 400),
	}
}
