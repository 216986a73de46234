package data

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"grid-mix/internal/model"

	"github.com/go-resty/resty/v2"
)

// DefaultFuelInstURL is the BMRS FUELINST streaming endpoint.
const DefaultFuelInstURL = "https://data.elexon.co.uk/bmrs/api/v1/datasets/FUELINST/stream"

// publishTimeLayout is the query parameter format the stream endpoint expects.
const publishTimeLayout = "2006-01-02T15:04:05Z"

// BMRSClient fetches generation by fuel type from the Elexon BMRS API.
type BMRSClient struct {
	URL    string
	Client *resty.Client
	// Cache is optional and only meant for local development.
	Cache *ResponseCache
}

// NewBMRSClient creates a new BMRS client.
// If url is empty, defaults to DefaultFuelInstURL.
func NewBMRSClient(url string, timeout time.Duration) *BMRSClient {
	if url == "" {
		url = DefaultFuelInstURL
	}
	return &BMRSClient{
		URL:    url,
		Client: newRestyClient(timeout),
	}
}

// FetchFuelInst fetches FUELINST rows published within w and returns the rows whose
// settlement timestamp falls inside w.
//
// The endpoint filters on publish time, which can include readings for periods
// outside the window, so rows are filtered again by settlement timestamp.
func (c *BMRSClient) FetchFuelInst(ctx context.Context, w model.Window) ([]model.FuelInstRow, error) {
	if w.IsEmpty() {
		log.Printf("[BMRS] Empty window %s, skipping request", w)
		return []model.FuelInstRow{}, nil
	}

	params := map[string]string{
		"publishDateTimeFrom": w.Start.UTC().Format(publishTimeLayout),
		"publishDateTimeTo":   w.End.UTC().Format(publishTimeLayout),
	}
	body, err := fetchBody(ctx, c.Client, c.Cache, SourceBMRS, c.URL, params, "application/json")
	if err != nil {
		return nil, err
	}

	rows, err := DecodeFuelInst(body)
	if err != nil {
		log.Printf("[BMRS] Error decoding response: %v", err)
		return nil, err
	}
	kept := FilterFuelInst(rows, w)
	log.Printf("[BMRS] Success: received %d rows, %d within window %s", len(rows), len(kept), w)
	return kept, nil
}

// DecodeFuelInst parses a FUELINST JSON array and places each reading on the
// settlement timeline.
func DecodeFuelInst(body []byte) ([]model.FuelInstRow, error) {
	var records []model.FuelInstRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &FetchError{
			Source:  SourceBMRS,
			Code:    CodeDecodeFailed,
			Message: "failed to decode FUELINST response",
			Err:     err,
		}
	}

	rows := make([]model.FuelInstRow, 0, len(records))
	for i, rec := range records {
		if rec.FuelType == "" {
			return nil, &FetchError{
				Source:  SourceBMRS,
				Code:    CodeBadValue,
				Message: fmt.Sprintf("record %d has no fuelType", i),
			}
		}
		date, err := model.ParseSettlementDate(rec.SettlementDate)
		if err != nil {
			return nil, &FetchError{
				Source:  SourceBMRS,
				Code:    CodeBadValue,
				Message: fmt.Sprintf("record %d", i),
				Err:     err,
			}
		}
		ts, err := model.SettlementTime(date, rec.SettlementPeriod)
		if err != nil {
			return nil, &FetchError{
				Source:  SourceBMRS,
				Code:    CodeBadValue,
				Message: fmt.Sprintf("record %d", i),
				Err:     err,
			}
		}
		rows = append(rows, model.FuelInstRow{
			SettlementDate:   date,
			SettlementPeriod: rec.SettlementPeriod,
			FuelType:         model.FuelType(rec.FuelType),
			Generation:       rec.Generation,
			Timestamp:        ts,
		})
	}
	return rows, nil
}

// FilterFuelInst keeps the rows whose timestamp lies within w.
func FilterFuelInst(rows []model.FuelInstRow, w model.Window) []model.FuelInstRow {
	out := make([]model.FuelInstRow, 0, len(rows))
	for _, r := range rows {
		if w.Contains(r.Timestamp) {
			out = append(out, r)
		}
	}
	return out
}
