package model

// FuelType is a BMRS generation category. The set is open: upstream adds
// interconnectors and new categories over time, and every observed type becomes
// its own column. Keep the names stable; they are CSV column headers.
type FuelType string

const (
	FuelWind    FuelType = "WIND"
	FuelCCGT    FuelType = "CCGT"
	FuelOCGT    FuelType = "OCGT"
	FuelCoal    FuelType = "COAL"
	FuelOil     FuelType = "OIL"
	FuelNPSHYD  FuelType = "NPSHYD"
	FuelBiomass FuelType = "BIOMASS"
	FuelNuclear FuelType = "NUCLEAR"
)

// Column names used by the merged and aggregated tables.
const (
	ColumnTimestamp = "timestamp"

	ColumnEmbeddedWind  = "EMBEDDED_WIND_GENERATION"
	ColumnEmbeddedSolar = "EMBEDDED_SOLAR_GENERATION"

	ColumnTotalWind        = "TOTAL_WIND"
	ColumnTotalGas         = "TOTAL_GAS"
	ColumnTotalRenewable   = "TOTAL_RENEWABLE"
	ColumnTotalFossilFuels = "TOTAL_FOSSIL_FUELS"
	ColumnTotalLowCarbon   = "TOTAL_LOW_CARBON"
)

// EmbeddedColumns are the NESO columns carried into the merged table, in output order.
var EmbeddedColumns = []string{ColumnEmbeddedWind, ColumnEmbeddedSolar}

// AggregateColumns are the derived columns, in the order they are computed.
var AggregateColumns = []string{
	ColumnTotalWind,
	ColumnTotalGas,
	ColumnTotalRenewable,
	ColumnTotalFossilFuels,
	ColumnTotalLowCarbon,
}

// RequiredColumns must be present in a merged table before aggregates can be derived.
var RequiredColumns = []string{
	string(FuelWind),
	string(FuelCCGT),
	string(FuelOCGT),
	string(FuelCoal),
	string(FuelOil),
	string(FuelNPSHYD),
	string(FuelBiomass),
	string(FuelNuclear),
	ColumnEmbeddedWind,
	ColumnEmbeddedSolar,
}
