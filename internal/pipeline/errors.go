package pipeline

import (
	"fmt"
	"strings"
)

// MissingColumnError is returned when the merged table lacks a column an aggregate
// depends on, typically a fuel type not observed in the lookback window.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("merged data is missing required columns: %s", strings.Join(e.Columns, ", "))
}

// EmptyJoinError is returned when joining the two sources on timestamp produces
// no rows.
type EmptyJoinError struct {
	FuelInstRows int
	DemandRows   int
}

func (e *EmptyJoinError) Error() string {
	return fmt.Sprintf("no overlapping settlement periods (fuelinst=%d timestamps, demand=%d rows)", e.FuelInstRows, e.DemandRows)
}
