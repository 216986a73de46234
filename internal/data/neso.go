package data

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"grid-mix/internal/model"

	"github.com/go-resty/resty/v2"
)

// DefaultDemandURL is the NESO demand data update CSV. It always returns the full
// history; there is no server-side time filter.
const DefaultDemandURL = "https://api.neso.energy/dataset/7a12172a-939c-404c-b581-a6128b74f588/" +
	"resource/177f6fa4-ae49-4182-81ea-0c6b35f26ca6/download/demanddataupdate.csv"

// NESO CSV headers consumed by the pipeline.
const (
	headerSettlementDate   = "SETTLEMENT_DATE"
	headerSettlementPeriod = "SETTLEMENT_PERIOD"
)

var demandHeaders = []string{
	headerSettlementDate,
	headerSettlementPeriod,
	model.ColumnEmbeddedWind,
	model.ColumnEmbeddedSolar,
}

// NESOClient downloads the NESO embedded generation estimates.
type NESOClient struct {
	URL    string
	Client *resty.Client
	Cache  *ResponseCache
}

// NewNESOClient creates a new NESO client.
// If url is empty, defaults to DefaultDemandURL.
func NewNESOClient(url string, timeout time.Duration) *NESOClient {
	if url == "" {
		url = DefaultDemandURL
	}
	return &NESOClient{
		URL:    url,
		Client: newRestyClient(timeout),
	}
}

// FetchDemand downloads the full CSV and returns the rows whose settlement
// timestamp falls inside w.
func (c *NESOClient) FetchDemand(ctx context.Context, w model.Window) ([]model.DemandRow, error) {
	if w.IsEmpty() {
		log.Printf("[NESO] Empty window %s, skipping download", w)
		return []model.DemandRow{}, nil
	}

	body, err := fetchBody(ctx, c.Client, c.Cache, SourceNESO, c.URL, nil, "text/csv")
	if err != nil {
		return nil, err
	}

	rows, err := ParseDemandCSV(bytes.NewReader(body))
	if err != nil {
		log.Printf("[NESO] Error parsing CSV: %v", err)
		return nil, err
	}
	kept := FilterDemand(rows, w)
	log.Printf("[NESO] Success: parsed %d rows, %d within window %s", len(rows), len(kept), w)
	return kept, nil
}

// ParseDemandCSV reads the NESO demand CSV, selecting the settlement date/period and
// the two embedded generation columns by header name. Rows with blank embedded
// values are skipped.
func ParseDemandCSV(r io.Reader) ([]model.DemandRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &FetchError{Source: SourceNESO, Code: CodeDecodeFailed, Message: "empty CSV"}
		}
		return nil, &FetchError{Source: SourceNESO, Code: CodeDecodeFailed, Message: "failed to read CSV header", Err: err}
	}

	idx := map[string]int{}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		idx[strings.ToUpper(h)] = i
	}
	var missing []string
	for _, h := range demandHeaders {
		if _, ok := idx[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, &FetchError{
			Source:  SourceNESO,
			Code:    CodeMissingColumn,
			Message: fmt.Sprintf("CSV is missing columns %s", strings.Join(missing, ", ")),
		}
	}

	var rows []model.DemandRow
	skipped := 0
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &FetchError{Source: SourceNESO, Code: CodeDecodeFailed, Message: fmt.Sprintf("line %d", line), Err: err}
		}

		field := func(name string) string {
			i := idx[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		windRaw := field(model.ColumnEmbeddedWind)
		solarRaw := field(model.ColumnEmbeddedSolar)
		if windRaw == "" || solarRaw == "" {
			skipped++
			continue
		}

		date, err := model.ParseSettlementDate(field(headerSettlementDate))
		if err != nil {
			return nil, badValue(line, err)
		}
		period, err := parsePeriod(field(headerSettlementPeriod))
		if err != nil {
			return nil, badValue(line, err)
		}
		ts, err := model.SettlementTime(date, period)
		if err != nil {
			return nil, badValue(line, err)
		}
		wind, err := strconv.ParseFloat(windRaw, 64)
		if err != nil {
			return nil, badValue(line, fmt.Errorf("%s: %w", model.ColumnEmbeddedWind, err))
		}
		solar, err := strconv.ParseFloat(solarRaw, 64)
		if err != nil {
			return nil, badValue(line, fmt.Errorf("%s: %w", model.ColumnEmbeddedSolar, err))
		}

		if !finite(wind) || !finite(solar) {
			return nil, badValue(line, fmt.Errorf("non-finite embedded generation"))
		}

		rows = append(rows, model.DemandRow{
			SettlementDate:          date,
			SettlementPeriod:        period,
			EmbeddedWindGeneration:  wind,
			EmbeddedSolarGeneration: solar,
			Timestamp:               ts,
		})
	}
	if skipped > 0 {
		log.Printf("[NESO] Skipped %d rows with blank embedded generation", skipped)
	}
	return rows, nil
}

// FilterDemand keeps the rows whose timestamp lies within w.
func FilterDemand(rows []model.DemandRow, w model.Window) []model.DemandRow {
	out := make([]model.DemandRow, 0, len(rows))
	for _, r := range rows {
		if w.Contains(r.Timestamp) {
			out = append(out, r)
		}
	}
	return out
}

// parsePeriod accepts "7" as well as "7.0", which some exports of the file use.
func parsePeriod(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid settlement period %q", s)
	}
	return int(f), nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func badValue(line int, err error) *FetchError {
	return &FetchError{
		Source:  SourceNESO,
		Code:    CodeBadValue,
		Message: fmt.Sprintf("line %d", line),
		Err:     err,
	}
}
