package workbook

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/extblend/internal/core"
)

func openExport(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestExport_RoundTrip(t *testing.T) {
	sheets := []core.Sheet{
		{
			Name:    core.SheetBlendedPivot,
			Columns: []string{"CustID", "ExtPrice"},
			Rows:    [][]any{{"HFCUSD", 12.5}, {"00123", 7.0}},
		},
		{
			Name:    core.SheetARData,
			Columns: []string{"CustomerID", "IvcDate"},
			Rows:    [][]any{{"BRUEN", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}},
		},
		{Name: core.SheetTotals, Columns: []string{core.ColMetric, core.ColValue}},
	}

	data, err := ExportBytes(sheets)
	require.NoError(t, err)

	f := openExport(t, data)
	assert.Equal(t, []string{core.SheetBlendedPivot, core.SheetARData, core.SheetTotals}, f.GetSheetList())
	assert.Equal(t, 0, f.GetActiveSheetIndex())

	rows, err := f.GetRows(core.SheetBlendedPivot, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"CustID", "ExtPrice"}, {"HFCUSD", "12.5"}, {"00123", "7"}}, rows)

	typ, err := f.GetCellType(core.SheetBlendedPivot, "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ, "prices are numeric cells")
	assert.NotEqual(t, excelize.CellTypeInlineString, typ, "prices are numeric cells")

	styleID, err := f.GetCellStyle(core.SheetBlendedPivot, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	raw, err := f.GetCellValue(core.SheetARData, "B2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	d, ok := core.ParseDate(raw, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, ok, "date cell %q", raw)
	assert.Equal(t, "2024-01-15", d.Format("2006-01-02"))

	dateStyle, err := f.GetCellStyle(core.SheetARData, "B2")
	require.NoError(t, err)
	ds, err := f.GetStyle(dateStyle)
	require.NoError(t, err)
	assert.Equal(t, numFmtShortDate, ds.NumFmt)

	totals, err := f.GetRows(core.SheetTotals)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{core.ColMetric, core.ColValue}}, totals)
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name   string
		sheets []core.Sheet
		want   string
	}{
		{name: "no sheets", sheets: nil, want: "no sheets"},
		{name: "duplicate name", sheets: []core.Sheet{{Name: "A"}, {Name: "A"}}, want: "duplicate sheet name"},
		{name: "blank name", sheets: []core.Sheet{{Name: ""}}, want: "invalid name"},
		{name: "name too long", sheets: []core.Sheet{{Name: "This sheet name is well over the limit"}}, want: "invalid name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExportBytes(tt.sheets)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExport_ReloadsAsInput(t *testing.T) {
	data, err := ExportBytes([]core.Sheet{{
		Name:    "IVRV Data",
		Columns: []string{"CustID", "ExtPrice"},
		Rows:    [][]any{{"HFCUSD", 75.0}},
	}})
	require.NoError(t, err)

	tbl, err := Load("roundtrip.xlsx", data, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"CustID", "ExtPrice"}, tbl.Columns)
	assert.Equal(t, [][]string{{"HFCUSD", "75"}}, tbl.Rows)
}
