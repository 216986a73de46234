package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"grid-mix/internal/model"
)

// DefaultCSVPath is where a run writes the combined table unless configured otherwise.
const DefaultCSVPath = "data_pipeline/Data/combined_energy_data.csv"

// TimestampLayout is the textual form of the timestamp column.
const TimestampLayout = time.RFC3339

// WriteMixCSV writes the table to path with a header row, replacing any existing
// file. It returns the number of data rows written.
func WriteMixCSV(path string, t *model.MixTable) (int, error) {
	if t == nil {
		return 0, errors.New("table is nil")
	}
	if err := writeAtomic(path, mixCSVWriter(t)); err != nil {
		return 0, err
	}
	return len(t.Rows), nil
}

// WriteMix writes the CSV and, when xlsxPath is set, the workbook. Both files are
// staged first and only renamed into place once both are complete, so an error
// leaves the previous outputs untouched.
func WriteMix(csvPath, xlsxPath string, t *model.MixTable) (int, error) {
	if t == nil {
		return 0, errors.New("table is nil")
	}

	var book []byte
	if xlsxPath != "" {
		raw, err := BuildMixXLSX(t)
		if err != nil {
			return 0, fmt.Errorf("build xlsx: %w", err)
		}
		book = raw
	}

	csvFile, err := stage(csvPath, mixCSVWriter(t))
	if err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	if xlsxPath == "" {
		if err := csvFile.commit(); err != nil {
			return 0, fmt.Errorf("write csv: %w", err)
		}
		return len(t.Rows), nil
	}

	xlsxFile, err := stage(xlsxPath, func(w io.Writer) error {
		_, err := w.Write(book)
		return err
	})
	if err != nil {
		csvFile.discard()
		return 0, fmt.Errorf("write xlsx: %w", err)
	}
	if err := csvFile.commit(); err != nil {
		xlsxFile.discard()
		return 0, fmt.Errorf("write csv: %w", err)
	}
	if err := xlsxFile.commit(); err != nil {
		return 0, fmt.Errorf("write xlsx: %w", err)
	}
	return len(t.Rows), nil
}

func mixCSVWriter(t *model.MixTable) func(out io.Writer) error {
	return func(out io.Writer) error {
		w := csv.NewWriter(out)
		if err := w.Write(t.Header()); err != nil {
			return err
		}

		row := make([]string, 0, len(t.Columns)+1)
		for _, r := range t.Rows {
			row = row[:0]
			row = append(row, fmtTime(r.Timestamp))
			for _, c := range t.Columns {
				row = append(row, fmtFloat(r.Values[c]))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	}
}

// ReadMixCSV loads a table previously written by WriteMixCSV.
func ReadMixCSV(path string) (*model.MixTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 0 || header[0] != model.ColumnTimestamp {
		return nil, fmt.Errorf("first column must be %q", model.ColumnTimestamp)
	}

	t := &model.MixTable{Columns: append([]string(nil), header[1:]...)}
	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ts, err := time.Parse(TimestampLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		values := make(map[string]float64, len(t.Columns))
		for i, c := range t.Columns {
			x, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, c, err)
			}
			values[c] = x
		}
		t.Rows = append(t.Rows, model.MixRow{Timestamp: ts.UTC(), Values: values})
	}
	return t, nil
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
