package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Sheet:   "Sales Report",
		Headers: []string{"Sale ID", "Customer", "Total"},
		Rows: [][]any{
			{"a1", "Maria", 51.0},
			{"b2", "Jose", 90.5},
		},
	}
}

func TestWriteXLSX_ReadRowsBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleTable()))

	rows, err := ReadRows("report.xlsx", &buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Sale ID", "Customer", "Total"}, rows[0])
	assert.Equal(t, "Maria", rows[1][1])
	assert.Equal(t, "90.5", rows[2][2])
}

func TestWriteCSV_FormatsFloatsWithTwoDecimals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Sale ID,Customer,Total", lines[0])
	assert.Equal(t, "a1,Maria,51.00", lines[1])
}

func TestReadRows_CSVAllowsRaggedRows(t *testing.T) {
	input := "date,customer\n2024-01-02,Ana,extra\n"
	rows, err := ReadRows("rows.CSV", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[1], 3)
}

func TestReadRows_RejectsUnknownExtension(t *testing.T) {
	_, err := ReadRows("rows.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
