// Package spreadsheet reads and writes the tabular files used for sales
// import and export (XLSX through excelize, plain CSV).
package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Table is a header row plus data rows ready to be rendered.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]any
}

// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .csv.
var ErrUnsupportedFormat = errors.New("unsupported file format: expected .xlsx or .csv")

// ReadRows returns every row of the first sheet (xlsx) or of the file (csv).
// The format is chosen from the file name extension.
func ReadRows(filename string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "open workbook")
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, errors.Wrapf(err, "read sheet %q", sheets[0])
		}
		return rows, nil
	case ".csv":
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, errors.Wrap(err, "read csv")
		}
		return rows, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// WriteXLSX renders the table as a single-sheet workbook with bold, centered
// headers and columns sized to their widest value.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return errors.Wrap(err, "create header style")
	}

	widths := make([]int, len(t.Headers))
	for col, header := range t.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return errors.Wrap(err, "write header")
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return errors.Wrap(err, "style header")
		}
		widths[col] = len(header)
	}

	for i, row := range t.Rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return errors.Wrapf(err, "write cell %s", cell)
			}
			if col < len(widths) {
				if n := len(fmt.Sprint(value)); n > widths[col] {
					widths[col] = n
				}
			}
		}
	}

	for col, width := range widths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(sheet, name, name, float64(width+2)); err != nil {
			return errors.Wrap(err, "set column width")
		}
	}

	return errors.Wrap(f.Write(w), "write workbook")
}

// WriteCSV renders the table as comma separated values. Floats are written
// with two decimals.
func WriteCSV(w io.Writer, t Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Headers); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	record := make([]string, 0, len(t.Headers))
	for _, row := range t.Rows {
		record = record[:0]
		for _, value := range row {
			record = append(record, formatCell(value))
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "flush csv")
}

func formatCell(value any) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
