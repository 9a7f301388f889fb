package report

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes one worksheet per sheet, header row first, in report order.
func WriteXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "Failed to create header style")
	}

	for i, sheet := range r.Sheets {
		if i == 0 {
			err = f.SetSheetName("Sheet1", sheet.Name)
		} else {
			_, err = f.NewSheet(sheet.Name)
		}
		if err != nil {
			return errors.Wrapf(err, "Failed to add sheet %q", sheet.Name)
		}

		sw, err := f.NewStreamWriter(sheet.Name)
		if err != nil {
			return errors.Wrapf(err, "Failed to open sheet %q", sheet.Name)
		}

		cells := make([]interface{}, len(sheet.Columns))
		for j, c := range sheet.Columns {
			cells[j] = excelize.Cell{StyleID: header, Value: c.Name}
		}
		if err := sw.SetRow("A1", cells); err != nil {
			return errors.Wrapf(err, "Failed to write header of %q", sheet.Name)
		}

		for j, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return err
			}
			if err := sw.SetRow(cell, cellValues(row)); err != nil {
				return errors.Wrapf(err, "Failed to write row %d of %q", j+1, sheet.Name)
			}
		}
		if err := sw.Flush(); err != nil {
			return errors.Wrapf(err, "Failed to flush sheet %q", sheet.Name)
		}
	}

	f.SetActiveSheet(0)
	_, err = f.WriteTo(w)
	return errors.Wrap(err, "Failed to write workbook")
}

// cellValues clips text to the per-cell character limit of the format.
func cellValues(row []interface{}) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		if s, ok := v.(string); ok {
			if runes := []rune(s); len(runes) > excelize.TotalCellChars {
				v = string(runes[:excelize.TotalCellChars])
			}
		}
		out[i] = v
	}
	return out
}
