package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheetContract_Order(t *testing.T) {
	want := []string{
		"Blended Pivot USE",
		"AR Ivc & Customer Summary USE",
		"Codate Filtered Data",
		"Codate Pivot",
		"IVRV Data",
		"AR Invoice & Ship Data",
		"Totals",
	}

	var got []string
	for _, s := range SheetContract() {
		got = append(got, s.Name)
	}
	assert.Equal(t, want, got)
}

func TestResult_Sheets(t *testing.T) {
	res, err := Run(context.Background(), sampleInputs(), rulesAt(2024, 6, 1), nil)
	require.NoError(t, err)

	sheets := res.Sheets()
	contract := SheetContract()
	require.Len(t, sheets, len(contract))
	for i, s := range sheets {
		assert.Equal(t, contract[i].Name, s.Name)
		if contract[i].Columns != nil {
			assert.Equal(t, contract[i].Columns, s.Columns, s.Name)
		}
		for _, row := range s.Rows {
			assert.Len(t, row, len(s.Columns), s.Name)
		}
	}

	blended := sheets[0]
	assert.Equal(t, []any{"BOSCHH", 40.0}, blended.Rows[0])
	assert.Equal(t, []any{"HFCUSD", 175.0}, blended.Rows[1])

	codate := sheets[2]
	assert.Equal(t, codateCols, codate.Columns)
	require.Len(t, codate.Rows, 2)
	assert.Equal(t, date(2024, 1, 1), codate.Rows[0][1], "PromShip exported as a date")
	assert.Equal(t, 2.0, codate.Rows[0][2], "LS exported as a number")
	assert.Equal(t, 100.0, codate.Rows[0][3])
	assert.Equal(t, "P-1", codate.Rows[0][4])

	totals := sheets[6]
	assert.Equal(t, []any{MetricBlended, 215.0}, totals.Rows[3])
}

func TestDatasetSheet_CellTyping(t *testing.T) {
	d := Dataset{
		Columns:        []string{"CustomerID", "Code", "IvcDate", "ExtPrice", "Qty"},
		CustomerColumn: "CustomerID",
		PriceColumn:    "ExtPrice",
		DateColumn:     "IvcDate",
		Records: []Record{
			{CustomerID: "00042", PriceValid: false, Cells: []string{"00042", "007", "pending", "n/a", "3"}},
		},
	}

	row := d.Sheet("x").Rows[0]
	assert.Equal(t, "00042", row[0], "customer IDs stay text")
	assert.Equal(t, "007", row[1], "leading zeros stay text")
	assert.Equal(t, "pending", row[2], "unparsed dates stay as written")
	assert.Equal(t, "n/a", row[3])
	assert.Equal(t, 3.0, row[4])
}

func TestDatasetSheet_FormulaWrappedHeaders(t *testing.T) {
	tbl := newTable([]string{`="CustID"`, `="PromShip"`, "LS", `="Ext Price"`},
		[]string{"HFCUSD", "2024-03-01", "3", "1,234.50"},
		[]string{"HFCUSD", "2024-03-02", "3", "abc"},
	)

	res, err := TransformCodate(tbl, rulesAt(2024, 6, 1), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.InvalidPrices)

	rows := res.Filtered.Sheet(SheetCodateFiltered).Rows
	require.Len(t, rows, 2)
	assert.Equal(t, 1234.5, rows[0][3], "price typed as a number")
	assert.Equal(t, date(2024, 3, 1), rows[0][1], "date typed as a date")

	projected := res.Filtered.Project()
	assert.Equal(t, []string{"HFCUSD", "1,234.50"}, projected.Records[0].Cells)
}

func TestCellValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"12", 12.0},
		{"0", 0.0},
		{"0.5", 0.5},
		{"-3", -3.0},
		{"0123", "0123"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cellValue(tt.in), "cellValue(%q)", tt.in)
	}
}
