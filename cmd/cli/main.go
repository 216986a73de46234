package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grid-mix/internal/analysis"
	"grid-mix/internal/config"
	"grid-mix/internal/data"
	"grid-mix/internal/output"
	"grid-mix/internal/pipeline"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "summary":
		cmdSummary(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli run [--config config.yaml] [--hours 24] [--out data_pipeline/Data/combined_energy_data.csv] [--xlsx mix.xlsx]")
	fmt.Println("  cli run --fuel-file fuelinst.json --demand-file demand.csv --at 2024-05-01T12:00:00Z")
	fmt.Println("  cli summary [--in data_pipeline/Data/combined_energy_data.csv]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - run fetches BMRS FUELINST and NESO embedded generation, joins them per settlement period and writes the combined CSV")
	fmt.Println("  - --fuel-file/--demand-file replay saved responses instead of calling the upstream APIs")
	fmt.Println("  - summary prints min/mean/max of the aggregate columns in a combined CSV")
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Optional path to YAML config")
	hours := fs.Int("hours", -1, "Lookback window in hours (default from config)")
	outPath := fs.String("out", "", "Output CSV path (default from config)")
	xlsxPath := fs.String("xlsx", "", "Optional workbook output path")
	fuelFile := fs.String("fuel-file", "", "Read FUELINST JSON from a file instead of BMRS")
	demandFile := fs.String("demand-file", "", "Read the demand CSV from a file instead of NESO")
	at := fs.String("at", "", "Reference time for the window, RFC3339 (default now)")
	_ = fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if *hours >= 0 {
		cfg.LookbackHours = *hours
	}
	if *outPath != "" {
		cfg.Output.CSVPath = *outPath
	}
	if *xlsxPath != "" {
		cfg.Output.XLSXPath = *xlsxPath
	}

	bmrs, neso, _ := cfg.NewClients()
	var fuel pipeline.FuelInstSource = bmrs
	var demand pipeline.DemandSource = neso
	if *fuelFile != "" {
		fuel = data.FuelInstFile{Path: *fuelFile}
	}
	if *demandFile != "" {
		demand = data.DemandFile{Path: *demandFile}
	}

	runner := pipeline.NewRunner(fuel, demand, log.New(os.Stdout, "", log.LstdFlags))
	if *at != "" {
		ref, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			fmt.Fprintf(os.Stderr, "--at: %v\n", err)
			os.Exit(2)
		}
		runner.Now = func() time.Time { return ref }
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := runner.Run(ctx, pipeline.Options{
		Hours:    cfg.LookbackHours,
		CSVPath:  cfg.Output.CSVPath,
		XLSXPath: cfg.Output.XLSXPath,
	})
	if err != nil {
		var fe *data.FetchError
		if errors.As(err, &fe) {
			fmt.Fprintf(os.Stderr, "fetch failed (%s, %s): %v\n", fe.Source, fe.Code, err)
		} else {
			fmt.Fprintf(os.Stderr, "run failed (%s): %v\n", pipeline.ErrorKind(err), err)
		}
		os.Exit(1)
	}

	fmt.Printf("Wrote %d rows to %s\n", res.RowsWritten, res.CSVPath)
	fmt.Printf("Window %s (fuelinst rows=%d, demand rows=%d)\n", res.Window, res.FuelInstRows, res.DemandRows)
}

func cmdSummary(args []string) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	inPath := fs.String("in", output.DefaultCSVPath, "Combined CSV to summarise")
	_ = fs.Parse(args)

	table, err := output.ReadMixCSV(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *inPath, err)
		os.Exit(1)
	}

	s := analysis.Summarize(table)
	fmt.Printf("%d periods %s .. %s\n", s.Count,
		s.StartUTC.Format(time.RFC3339), s.EndUTC.Format(time.RFC3339))
	fmt.Printf("%-20s %-10s %-10s %-10s %-10s %-10s\n", "column", "min", "p05", "mean", "p95", "max")
	for _, c := range s.Totals {
		fmt.Printf("%-20s %-10.2f %-10.2f %-10.2f %-10.2f %-10.2f\n", c.Column, c.Min, c.P05, c.Mean, c.P95, c.Max)
	}
	fmt.Printf("low carbon share: %.1f%%\n", s.LowCarbonShare*100)
}
