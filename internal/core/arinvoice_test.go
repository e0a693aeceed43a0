package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var arCols = []string{"CustomerID", "Invoice", "IvcDate", "ExtPrice"}

func TestTransformARInvoice_UnknownCustomer(t *testing.T) {
	tbl := newTable(arCols,
		[]string{"UNKNOWN", "I-1", "2024-01-01", "50"},
		[]string{"HFCUSD", "I-2", "2024-01-02", "25"},
	)

	res, err := TransformARInvoice(tbl, DefaultRules(), nil)
	require.NoError(t, err)

	assert.True(t, dec("75").Equal(res.InitialTotal), "initial total includes UNKNOWN")
	assert.True(t, dec("25").Equal(res.FilteredTotal), "filtered total excludes UNKNOWN")
	assertSummary(t, map[string]string{"HFCUSD": "25"}, res.Summary)
	for _, rec := range res.Filtered.Records {
		assert.NotEqual(t, "UNKNOWN", rec.CustomerID)
	}
	assert.Equal(t, 1, res.Stats.Dropped[DropCustomer])
}

func TestTransformARInvoice_BlankInvoiceDate(t *testing.T) {
	tbl := newTable(arCols,
		[]string{"HFCUSD", "I-1", "", "10"},
		[]string{"HFCUSD", "I-2", "   ", "20"},
		[]string{"HFCUSD", "I-3", "pending", "40"},
		[]string{"HFCUSD", "I-4", "45292", "80"},
		[]string{"HFCUSD", "I-5"},
	)

	log := &ProcessingLog{}
	res, err := TransformARInvoice(tbl, DefaultRules(), log)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Stats.Dropped[DropBlankInvoiceDate])
	assert.Equal(t, 2, res.Filtered.Len(), "non-blank dates are kept even if unparseable")
	assert.True(t, dec("120").Equal(res.FilteredTotal))
	assert.True(t, dec("150").Equal(res.InitialTotal))
	assert.Contains(t, messages(log), "AR rows before removing blank 'IvcDate': 5, after: 2 (Removed: 3 rows).")
}

func TestTransformARInvoice_TotalTable(t *testing.T) {
	tbl := newTable(arCols,
		[]string{"BREXSA", "I-1", "2024-01-01", "1,250.25"},
	)

	res, err := TransformARInvoice(tbl, DefaultRules(), nil)
	require.NoError(t, err)

	total := res.TotalTable()
	assert.Equal(t, []string{"Total Ext Price"}, total.Columns)
	assert.Equal(t, [][]any{{1250.25}}, total.Rows)
}

func TestTransformARInvoice_SummaryByCustomer(t *testing.T) {
	tbl := newTable(arCols,
		[]string{"REXRO", "I-1", "2024-01-01", "1"},
		[]string{"BOSOIL", "I-2", "2024-01-01", "2"},
		[]string{"REXRO", "I-3", "2024-01-01", "3"},
	)

	res, err := TransformARInvoice(tbl, DefaultRules(), nil)
	require.NoError(t, err)

	require.Equal(t, 2, res.Summary.Len())
	assert.Equal(t, "BOSOIL", res.Summary.Entries[0].CustomerID, "sorted by customer")
	assert.Equal(t, "CustomerID", res.Summary.KeyColumn)
	assert.Equal(t, "ExtPrice", res.Summary.ValueColumn)
	assertSummary(t, map[string]string{"REXRO": "4", "BOSOIL": "2"}, res.Summary)
}

func TestTransformARInvoice_MissingColumns(t *testing.T) {
	res, err := TransformARInvoice(newTable([]string{"CustID", "ExtPrice"}), DefaultRules(), nil)

	assert.Nil(t, res)
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindARInvoice, se.Kind)
	assert.Equal(t, []string{"CustomerID", "IvcDate"}, se.Missing)
}
