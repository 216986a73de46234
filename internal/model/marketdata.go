package model

import "time"

// FuelInstRecord matches one element of the BMRS FUELINST stream response.
//
// Example element:
//
//	{"dataset":"FUELINST","publishTime":"2024-05-01T10:05:00Z",
//	 "settlementDate":"2024-05-01","settlementPeriod":21,
//	 "fuelType":"WIND","generation":8123}
type FuelInstRecord struct {
	Dataset          string  `json:"dataset,omitempty"`
	PublishTime      string  `json:"publishTime,omitempty"`
	StartTime        string  `json:"startTime,omitempty"`
	SettlementDate   string  `json:"settlementDate"`
	SettlementPeriod int     `json:"settlementPeriod"`
	FuelType         string  `json:"fuelType"`
	Generation       float64 `json:"generation"`
}

// FuelInstRow is one 5-minute generation reading for a fuel type, placed on the
// settlement-period timeline.
// There are usually six rows per fuel type per settlement period.
type FuelInstRow struct {
	SettlementDate   time.Time
	SettlementPeriod int
	FuelType         FuelType
	// Generation in MW.
	Generation float64
	// Timestamp is SettlementDate + (SettlementPeriod-1)*30m, in UTC.
	Timestamp time.Time
}

// DemandRow is one settlement period of the NESO embedded generation estimate.
// Values are MW averaged over the 30 minute period.
type DemandRow struct {
	SettlementDate          time.Time
	SettlementPeriod        int
	EmbeddedWindGeneration  float64
	EmbeddedSolarGeneration float64
	Timestamp               time.Time
}
