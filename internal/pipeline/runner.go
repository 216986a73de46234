package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"grid-mix/internal/data"
	"grid-mix/internal/model"
	"grid-mix/internal/observability/metrics"
	"grid-mix/internal/output"
)

// FuelInstSource provides BMRS FUELINST rows for a window.
type FuelInstSource interface {
	FetchFuelInst(ctx context.Context, w model.Window) ([]model.FuelInstRow, error)
}

// DemandSource provides NESO embedded generation rows for a window.
type DemandSource interface {
	FetchDemand(ctx context.Context, w model.Window) ([]model.DemandRow, error)
}

// DefaultHours is the lookback window used when none is given.
const DefaultHours = 24

// Options controls a single run.
type Options struct {
	Hours   int
	CSVPath string
	// XLSXPath is optional; when set the table is also written as a workbook.
	XLSXPath string
}

// Result describes a completed run.
type Result struct {
	Window       model.Window
	FuelInstRows int
	DemandRows   int
	RowsWritten  int
	CSVPath      string
	XLSXPath     string
	Table        *model.MixTable
}

// Runner executes fetch -> fetch -> merge -> aggregate -> write.
type Runner struct {
	FuelInst FuelInstSource
	Demand   DemandSource
	Now      func() time.Time
	Logger   *log.Logger
}

// NewRunner creates a runner with the system clock and a discarding logger.
func NewRunner(fuel FuelInstSource, demand DemandSource, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Runner{
		FuelInst: fuel,
		Demand:   demand,
		Now:      time.Now,
		Logger:   logger,
	}
}

// Run executes one pass of the pipeline. Any error aborts the run before the output
// is written, so a failed run leaves the previous output untouched.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	res, err := r.run(ctx, opts)
	result, kind := metrics.ResultSuccess, ""
	rows := 0
	if err != nil {
		result, kind = metrics.ResultError, ErrorKind(err)
	} else {
		rows = res.RowsWritten
	}
	metrics.ObserveRun(result, kind, rows, time.Since(start), r.now())
	return res, err
}

func (r *Runner) run(ctx context.Context, opts Options) (*Result, error) {
	if r.FuelInst == nil {
		return nil, errors.New("fuelinst source is nil")
	}
	if r.Demand == nil {
		return nil, errors.New("demand source is nil")
	}
	if opts.Hours < 0 {
		return nil, fmt.Errorf("hours must be >= 0, got %d", opts.Hours)
	}
	if opts.CSVPath == "" {
		opts.CSVPath = output.DefaultCSVPath
	}

	window := model.LookbackWindow(r.now(), opts.Hours)
	res := &Result{Window: window}

	r.logf("Fetching BMRS data...")
	fuel, err := timedFetch(data.SourceBMRS, func() ([]model.FuelInstRow, error) {
		return r.FuelInst.FetchFuelInst(ctx, window)
	})
	if err != nil {
		return nil, err
	}
	res.FuelInstRows = len(fuel)

	r.logf("Fetching NESO data...")
	demand, err := timedFetch(data.SourceNESO, func() ([]model.DemandRow, error) {
		return r.Demand.FetchDemand(ctx, window)
	})
	if err != nil {
		return nil, err
	}
	res.DemandRows = len(demand)

	r.logf("Merging datasets...")
	merged, err := MergeOnTimestamp(PivotFuelInst(fuel), demand)
	if err != nil {
		return nil, err
	}

	r.logf("Processing data...")
	if err := ComputeAggregates(merged); err != nil {
		return nil, err
	}
	res.Table = merged

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n, err := output.WriteMix(opts.CSVPath, opts.XLSXPath, merged)
	if err != nil {
		return nil, err
	}
	res.RowsWritten = n
	res.CSVPath = opts.CSVPath
	r.logf("Saved combined data with %d rows → %s", n, opts.CSVPath)
	if opts.XLSXPath != "" {
		res.XLSXPath = opts.XLSXPath
		r.logf("Saved workbook → %s", opts.XLSXPath)
	}
	return res, nil
}

// ErrorKind classifies a run error for metrics and API responses.
func ErrorKind(err error) string {
	var fe *data.FetchError
	var mc *MissingColumnError
	var ej *EmptyJoinError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fe):
		return "fetch"
	case errors.As(err, &mc):
		return "missing_column"
	case errors.As(err, &ej):
		return "empty_join"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}

func timedFetch[T any](source string, fetch func() ([]T, error)) ([]T, error) {
	start := time.Now()
	rows, err := fetch()
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.ObserveFetch(source, result, len(rows), time.Since(start))
	return rows, err
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logger == nil {
		return
	}
	r.Logger.Printf("[Pipeline] "+format, args...)
}
