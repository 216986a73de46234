package data

import (
	"context"
	"fmt"
	"os"

	"grid-mix/internal/model"
)

// FuelInstFile replays a saved FUELINST stream response (a JSON array) from disk.
type FuelInstFile struct {
	Path string
}

// FetchFuelInst reads the file and returns the rows within w.
func (f FuelInstFile) FetchFuelInst(_ context.Context, w model.Window) ([]model.FuelInstRow, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, &FetchError{Source: SourceBMRS, Code: CodeRequestFailed, Message: fmt.Sprintf("read %s", f.Path), Err: err}
	}
	rows, err := DecodeFuelInst(raw)
	if err != nil {
		return nil, err
	}
	return FilterFuelInst(rows, w), nil
}

// DemandFile replays a saved NESO demand CSV from disk.
type DemandFile struct {
	Path string
}

// FetchDemand reads the file and returns the rows within w.
func (f DemandFile) FetchDemand(_ context.Context, w model.Window) ([]model.DemandRow, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, &FetchError{Source: SourceNESO, Code: CodeRequestFailed, Message: fmt.Sprintf("open %s", f.Path), Err: err}
	}
	defer fh.Close()

	rows, err := ParseDemandCSV(fh)
	if err != nil {
		return nil, err
	}
	return FilterDemand(rows, w), nil
}
