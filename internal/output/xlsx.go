package output

import (
	"bytes"
	"errors"

	"grid-mix/internal/model"

	"github.com/xuri/excelize/v2"
)

// MixSheet is the worksheet name used for the exported table.
const MixSheet = "energy_mix"

// BuildMixXLSX renders the table as a single-sheet workbook.
func BuildMixXLSX(t *model.MixTable) ([]byte, error) {
	if t == nil {
		return nil, errors.New("table is nil")
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", MixSheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, 0, len(t.Columns)+1)
	for _, h := range t.Header() {
		header = append(header, h)
	}
	if err := f.SetSheetRow(MixSheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, r := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := make([]interface{}, 0, len(t.Columns)+1)
		row = append(row, fmtTime(r.Timestamp))
		for _, c := range t.Columns {
			row = append(row, r.Values[c])
		}
		if err := f.SetSheetRow(MixSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
