package service

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sangkips/salesledger/pkg/money"
	"github.com/sangkips/salesledger/pkg/spreadsheet"
	"github.com/shopspring/decimal"
)

// importDateLayouts are tried in order
var importDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02/01/2006 15:04",
}

var maxImportQuantity = decimal.NewFromInt(math.MaxInt32)

// Import file columns, in order
const (
	colDate = iota
	colCustomer
	colProduct
	colQuantity
	colPrice
	colSeller
	importColumns
)

// ParseImportFile reads an .xlsx or .csv upload into import rows. The first
// row is a header. Fully blank rows are dropped but keep their numbering.
func ParseImportFile(filename string, r io.Reader) ([]ImportRow, error) {
	records, err := spreadsheet.ReadRows(filename, r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("import file is empty")
	}

	rows := make([]ImportRow, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		cells := make([]string, importColumns)
		copy(cells, record)
		rows = append(rows, ImportRow{
			Row:          i + 2,
			Date:         strings.TrimSpace(cells[colDate]),
			CustomerName: strings.TrimSpace(cells[colCustomer]),
			ProductName:  strings.TrimSpace(cells[colProduct]),
			Quantity:     strings.TrimSpace(cells[colQuantity]),
			Price:        strings.TrimSpace(cells[colPrice]),
			SellerName:   strings.TrimSpace(cells[colSeller]),
		})
	}
	return rows, nil
}

// ParseImportDate accepts the supported date layouts, interpreted as UTC
func ParseImportDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized date %q", s)
}

// parseImportQuantity accepts whole numbers, including spreadsheet renderings like "3.0"
func parseImportQuantity(s string) (int, error) {
	d, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(s), ",", ".", 1))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid quantity %q", s)
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, errors.Errorf("quantity %q is not a whole number", s)
	}
	if d.Abs().GreaterThan(maxImportQuantity) {
		return 0, errors.Errorf("quantity %q is out of range", s)
	}
	return int(d.IntPart()), nil
}

func parseImportPrice(s string) (int64, error) {
	return money.Parse(s)
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
