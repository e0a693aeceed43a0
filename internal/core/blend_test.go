package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlend_SumsBothSources(t *testing.T) {
	rules := rulesAt(2024, 6, 1)

	codate, err := TransformCodate(newTable(codateCols,
		codateRow("HFCUSD", "2024-03-01", "3", "100"),
		codateRow("HFCUSD", "2024-03-01", "3", "100"),
		codateRow("BRUEN", "2024-03-01", "4", "5"),
	), rules, nil)
	require.NoError(t, err)

	ivrv, err := TransformIVRV(newTable([]string{"CustID", "Ext Price"},
		[]string{"HFCUSD", "50"},
		[]string{"ACME", "999"},
		[]string{"HFKOREA", "7"},
	), rules, nil)
	require.NoError(t, err)

	blended, rows := Blend(codate.Filtered, ivrv.Normalized, rules.Customers)
	assert.Equal(t, 5, rows)

	assert.Equal(t, "CustID", blended.KeyColumn)
	assert.Equal(t, "ExtPrice", blended.ValueColumn)
	assertSummary(t, map[string]string{
		"BRUEN":   "5",
		"HFCUSD":  "250",
		"HFKOREA": "7",
	}, blended)
}

func TestBlend_TotalInvariant(t *testing.T) {
	customers := NewCustomerSet("A", "B")

	codate := projected(
		rec("A", "1.10"), rec("B", "2.20"), rec("C", "4.40"), rec("A", "8.80"),
	)
	ivrv := projected(
		rec("C", "16"), rec("B", "32"), rec("D", "64"), rec("B", "bad"),
	)

	blended, rows := Blend(codate, ivrv, customers)
	assert.Equal(t, 5, rows)

	// Filter each source first, then blend: same totals.
	codateIn, _ := keep(codate.Records, inCustomerSet(customers))
	ivrvIn, _ := keep(ivrv.Records, inCustomerSet(customers))
	want := sumPrices(codateIn).Add(sumPrices(ivrvIn))

	assert.True(t, want.Equal(blended.Total()), "blended %s, want %s", blended.Total(), want)
	assert.True(t, dec("44.1").Equal(blended.Total()))

	// Order of the inputs does not matter.
	swapped, _ := Blend(ivrv, codate, customers)
	require.Equal(t, blended.Len(), swapped.Len())
	for id, total := range blended.Map() {
		other, ok := swapped.Lookup(id)
		assert.True(t, ok && total.Equal(other), "customer %s: %s vs %s", id, total, other)
	}
}

func TestBlend_Empty(t *testing.T) {
	blended, rows := Blend(projected(), projected(), DefaultCustomers())
	assert.Zero(t, rows)
	assert.Equal(t, 0, blended.Len())
	assert.True(t, blended.Total().IsZero())
}

func rec(id, price string) Record {
	p, ok := ParseDecimal(price)
	return Record{CustomerID: id, Price: p, PriceValid: ok, Cells: []string{id, price}}
}

func projected(records ...Record) Dataset {
	return Dataset{
		Columns:        []string{ColCustID, ColExtPrice},
		Records:        records,
		CustomerColumn: ColCustID,
		PriceColumn:    ColExtPrice,
	}
}
