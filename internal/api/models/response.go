package models

import (
	"time"

	"grid-mix/internal/analysis"
)

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes what went wrong
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// TimeWindow represents a time range
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// RunResponse represents the result of a pipeline run
type RunResponse struct {
	Status       string           `json:"status"`
	Window       TimeWindow       `json:"window"`
	FuelInstRows int              `json:"fuelinst_rows"`
	DemandRows   int              `json:"demand_rows"`
	RowsWritten  int              `json:"rows_written"`
	CSVPath      string           `json:"csv_path"`
	XLSXPath     string           `json:"xlsx_path,omitempty"`
	Summary      analysis.Summary `json:"summary"`
}

// MixResponse is the latest combined table
type MixResponse struct {
	Columns []string `json:"columns"`
	Count   int      `json:"count"`
	Rows    []MixRow `json:"rows"`
}

// MixRow is one settlement period of the combined table
type MixRow struct {
	Timestamp time.Time          `json:"timestamp"`
	Values    map[string]float64 `json:"values"`
}
