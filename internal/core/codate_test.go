package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rulesAt returns default rules with the clock pinned to the given date.
func rulesAt(y int, m time.Month, d int) Rules {
	now := time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
	rules := DefaultRules()
	rules.Now = func() time.Time { return now }
	return rules
}

func newTable(cols []string, rows ...[]string) *Table {
	return &Table{Name: "test", Columns: cols, Rows: rows}
}

var codateCols = []string{"CustID", "PromShip", "LS", "Ext Price", "Part"}

func codateRow(cust, promShip, ls, price string) []string {
	return []string{cust, promShip, ls, price, "P-1"}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertSummary(t *testing.T, want map[string]string, got Summary) {
	t.Helper()
	require.Equal(t, len(want), got.Len(), "summary entries: %v", got.Map())
	for id, total := range want {
		v, ok := got.Lookup(id)
		require.True(t, ok, "missing customer %s", id)
		assert.True(t, dec(total).Equal(v), "%s total = %s, want %s", id, v, total)
	}
}

func TestTransformCodate_ForecastWithinHorizonKept(t *testing.T) {
	tbl := newTable(codateCols, codateRow("HFCUSD", "2024-01-01", "2", "100"))

	res, err := TransformCodate(tbl, rulesAt(2024, 6, 1), nil)
	require.NoError(t, err)

	assertSummary(t, map[string]string{"HFCUSD": "100"}, res.Summary)
	assert.Equal(t, 1, res.Filtered.Len())
	assert.True(t, dec("100").Equal(res.TotalBeforeCustomers))
}

func TestTransformCodate_ForecastBeyondHorizonDropped(t *testing.T) {
	tbl := newTable(codateCols, codateRow("HFCUSD", "2025-06-01", "2", "100"))

	res, err := TransformCodate(tbl, rulesAt(2024, 6, 1), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Summary.Len())
	assert.Equal(t, 0, res.Filtered.Len())
	assert.Equal(t, 1, res.Stats.Dropped[DropHorizon])
}

func TestTransformCodate_TwoDigitYearUsesReferenceClock(t *testing.T) {
	tbl := newTable(codateCols, codateRow("HFCUSD", "1/1/45", "2", "100"))

	res, err := TransformCodate(tbl, rulesAt(2024, 6, 1), nil)
	require.NoError(t, err)

	require.Equal(t, 1, res.Filtered.Len())
	assert.Equal(t, 1945, res.Filtered.Records[0].Date.Year())
	assertSummary(t, map[string]string{"HFCUSD": "100"}, res.Summary)
	assert.Zero(t, res.Stats.Dropped[DropHorizon])
}

func TestTransformCodate_HorizonBoundary(t *testing.T) {
	// 2024-06-01 + 182 days = 2024-11-30.
	tbl := newTable(codateCols,
		codateRow("HFCUSD", "2024-11-30", "2", "10"),
		codateRow("HFCUSD", "2024-12-01", "2", "20"),
		codateRow("HFCUSD", "2024-11-30 08:00:00", "2", "40"),
	)

	res, err := TransformCodate(tbl, rulesAt(2024, 6, 1), nil)
	require.NoError(t, err)

	assertSummary(t, map[string]string{"HFCUSD": "10"}, res.Summary)
	assert.Equal(t, 2, res.Stats.Dropped[DropHorizon])
}

func TestTransformCodate_RegularOrdersIgnoreHorizon(t *testing.T) {
	tbl := newTable(codateCols,
		codateRow("HFINC", "2030-01-01", "3", "5"),
		codateRow("HFINC", "2049-12-31", "4", "7"),
		codateRow("HFINC", "2030-01-01", "2", "11"),
	)

	res, err := TransformCodate(tbl, rulesAt(2024, 6, 1), nil)
	require.NoError(t, err)

	assertSummary(t, map[string]string{"HFINC": "12"}, res.Summary)
	assert.Equal(t, 1, res.Stats.Dropped[DropHorizon])
	for _, rec := range res.Filtered.Records {
		assert.NotEqual(t, OrderClassForecast, rec.OrderClass)
	}
}

func TestTransformCodate_DropStages(t *testing.T) {
	tbl := newTable(codateCols,
		codateRow("HFCUSD", "not a date", "3", "1"),
		codateRow("HFCUSD", "", "3", "2"),
		codateRow("HFCUSD", "2050-01-01", "3", "4"),
		codateRow("HFCUSD", "2024-03-01", "5", "8"),
		codateRow("HFCUSD", "2024-03-01", "", "16"),
		codateRow("OTHER", "2024-03-01", "3", "32"),
		codateRow("BRUEN", "2024-03-01", "4", "64"),
	)

	log := &ProcessingLog{}
	res, err := TransformCodate(tbl, rulesAt(2024, 6, 1), log)
	require.NoError(t, err)

	assert.Equal(t, 7, res.Stats.InputRows)
	assert.Equal(t, 1, res.Stats.OutputRows)
	assert.Equal(t, 2, res.Stats.Dropped[DropUnparseableDate])
	assert.Equal(t, 1, res.Stats.Dropped[DropYearCutoff])
	assert.Equal(t, 2, res.Stats.Dropped[DropOrderClass])
	assert.Equal(t, 1, res.Stats.Dropped[DropCustomer])

	assert.True(t, dec("96").Equal(res.TotalBeforeCustomers), "total before customers = %s", res.TotalBeforeCustomers)
	assertSummary(t, map[string]string{"BRUEN": "64"}, res.Summary)

	assert.Contains(t, messages(log), "Codate rows split by 'LS': 0 forecast, 2 regular, 2 dropped with other values")
	assert.Empty(t, log.Errors())
}

func TestTransformCodate_UnparseableDateAbsentDownstream(t *testing.T) {
	tbl := newTable(codateCols,
		codateRow("HFCUSD", "31/31/2024", "3", "100"),
		codateRow("HFCUSD", "2024-03-01", "3", "1"),
	)

	res, err := TransformCodate(tbl, rulesAt(2024, 6, 1), nil)
	require.NoError(t, err)

	for _, rec := range res.Filtered.Records {
		assert.NotEqual(t, "31/31/2024", rec.Cells[1])
	}
	assertSummary(t, map[string]string{"HFCUSD": "1"}, res.Summary)
}

func TestTransformCodate_InvalidPriceCountsAsZero(t *testing.T) {
	tbl := newTable(codateCols,
		codateRow("HFCUSD", "2024-03-01", "3", "abc"),
		codateRow("HFCUSD", "2024-03-01", "3", ""),
		codateRow("HFCUSD", "2024-03-01", "3", "£1,000.50"),
	)

	res, err := TransformCodate(tbl, rulesAt(2024, 6, 1), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Filtered.Len())
	assert.Equal(t, 1, res.Stats.InvalidPrices)
	assertSummary(t, map[string]string{"HFCUSD": "1000.5"}, res.Summary)
}

func TestTransformCodate_SumProperty(t *testing.T) {
	tests := []struct {
		name      string
		rows      [][]string
		wantEqual bool
	}{
		{
			name: "all customers in set",
			rows: [][]string{
				codateRow("HFCUSD", "2024-03-01", "3", "10"),
				codateRow("REXRO", "2024-03-01", "4", "20"),
			},
			wantEqual: true,
		},
		{
			name: "some customers outside set",
			rows: [][]string{
				codateRow("HFCUSD", "2024-03-01", "3", "10"),
				codateRow("ACME", "2024-03-01", "4", "20"),
			},
			wantEqual: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := TransformCodate(newTable(codateCols, tt.rows...), rulesAt(2024, 6, 1), nil)
			require.NoError(t, err)

			sum := res.Summary.Total()
			assert.True(t, res.TotalBeforeCustomers.GreaterThanOrEqual(sum))
			assert.Equal(t, tt.wantEqual, res.TotalBeforeCustomers.Equal(sum))
		})
	}
}

func TestTransformCodate_Idempotent(t *testing.T) {
	tbl := newTable(codateCols,
		codateRow("HFCUSD", "2024-01-01", "2", "100"),
		codateRow("BOSOIL", "2024-09-01", "3", "50"),
		codateRow("ACME", "2024-09-01", "3", "25"),
	)
	rules := rulesAt(2024, 6, 1)

	first, err := TransformCodate(tbl, rules, nil)
	require.NoError(t, err)
	second, err := TransformCodate(tbl, rules, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Filtered, second.Filtered)
	assert.True(t, first.TotalBeforeCustomers.Equal(second.TotalBeforeCustomers))
}

func TestTransformCodate_CustomerSetInjected(t *testing.T) {
	tbl := newTable(codateCols,
		codateRow("HFCUSD", "2024-03-01", "3", "10"),
		codateRow("ACME", "2024-03-01", "3", "20"),
	)
	rules := rulesAt(2024, 6, 1)
	rules.Customers = NewCustomerSet("ACME")

	res, err := TransformCodate(tbl, rules, nil)
	require.NoError(t, err)

	assertSummary(t, map[string]string{"ACME": "20"}, res.Summary)
}

func TestTransformCodate_EmptyInput(t *testing.T) {
	res, err := TransformCodate(newTable(codateCols), rulesAt(2024, 6, 1), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Summary.Len())
	assert.True(t, res.TotalBeforeCustomers.IsZero())
}

func TestTransformCodate_MissingColumns(t *testing.T) {
	tbl := newTable([]string{"CustID", "Ext Price"}, []string{"HFCUSD", "1"})
	log := &ProcessingLog{}

	res, err := TransformCodate(tbl, rulesAt(2024, 6, 1), log)

	assert.Nil(t, res)
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"PromShip", "LS"}, se.Missing)
	require.Len(t, log.Errors(), 1)
	assert.Equal(t, "Error: Codate file missing required columns: PromShip, LS", log.Errors()[0].Message)
}

func messages(log *ProcessingLog) []string {
	out := make([]string, len(log.Entries))
	for i, e := range log.Entries {
		out[i] = e.Message
	}
	return out
}
