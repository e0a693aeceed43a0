package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// keep returns the records matching pred and how many were removed.
// The input slice is not modified.
func keep(records []Record, pred func(Record) bool) ([]Record, int) {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out, len(records) - len(out)
}

// inCustomerSet is the customer filter shared by every transform.
func inCustomerSet(customers CustomerSet) func(Record) bool {
	return func(r Record) bool {
		return customers.Contains(r.CustomerID)
	}
}

// sumPrices adds every valid price. Blank or non-numeric prices count as zero.
func sumPrices(records []Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.PriceValid {
			total = total.Add(r.Price)
		}
	}
	return total
}

// summarize groups records by customer and sums prices.
// Aggregating zero records yields an empty summary.
func summarize(records []Record, keyCol, valueCol string) Summary {
	totals := make(map[string]decimal.Decimal)
	for _, r := range records {
		sum, ok := totals[r.CustomerID]
		if !ok {
			sum = decimal.Zero
		}
		if r.PriceValid {
			sum = sum.Add(r.Price)
		}
		totals[r.CustomerID] = sum
	}

	entries := make([]SummaryEntry, 0, len(totals))
	for id, total := range totals {
		entries = append(entries, SummaryEntry{CustomerID: id, Total: total})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CustomerID < entries[j].CustomerID
	})

	return Summary{KeyColumn: keyCol, ValueColumn: valueCol, Entries: entries}
}

// countInvalidPrices counts non-blank price cells that could not be parsed.
func countInvalidPrices(records []Record, priceIdx int) int {
	n := 0
	for _, r := range records {
		if r.PriceValid || priceIdx < 0 || priceIdx >= len(r.Cells) {
			continue
		}
		if CleanCell(r.Cells[priceIdx]) != "" {
			n++
		}
	}
	return n
}
