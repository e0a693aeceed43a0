package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ColTotalExtPrice is the single column of the AR total table.
const ColTotalExtPrice = "Total Ext Price"

// ARInvoiceResult is the output of TransformARInvoice.
type ARInvoiceResult struct {
	// Filtered holds in-set rows with a non-blank IvcDate.
	Filtered Dataset
	Summary  Summary
	// InitialTotal is the ExtPrice sum over the whole upload.
	InitialTotal decimal.Decimal
	// FilteredTotal is the ExtPrice sum over Filtered.
	FilteredTotal decimal.Decimal
	Stats         Stats
}

// TotalTable returns FilteredTotal as a one-row, one-column sheet.
func (r *ARInvoiceResult) TotalTable() Sheet {
	return Sheet{
		Name:    ColTotalExtPrice,
		Columns: []string{ColTotalExtPrice},
		Rows:    [][]any{{r.FilteredTotal.InexactFloat64()}},
	}
}

// TransformARInvoice filters and aggregates the AR Invoice/Ship export.
//
// InitialTotal is taken before any filtering. Rows outside the customer set
// are then dropped, followed by rows whose IvcDate is blank. A non-blank
// IvcDate is kept even when it cannot be read as a date.
func TransformARInvoice(t *Table, rules Rules, rep Reporter) (*ARInvoiceResult, error) {
	rep = orNop(rep)
	rules = rules.withDefaults()

	if err := validate(t, KindARInvoice, rep); err != nil {
		return nil, err
	}

	rep.Info("Starting AR Invoice/Ship data processing...")
	stats := newStats(KindARInvoice, t.Len())

	records := parseARInvoice(t, rules.Today())
	stats.InvalidPrices = countInvalidPrices(records, t.Index().position(ColExtPrice))
	if stats.InvalidPrices > 0 {
		rep.Info(fmt.Sprintf("AR rows with a non-numeric 'ExtPrice' counted as zero: %d", stats.InvalidPrices))
	}

	initial := sumPrices(records)
	rep.Info(fmt.Sprintf("Initial Total 'ExtPrice' in AR data: %s", rules.Money(initial)))

	before := len(records)
	records, n := keep(records, inCustomerSet(rules.Customers))
	stats.drop(DropCustomer, n)
	rep.Info(fmt.Sprintf("AR rows before customer filter: %d, after: %d (Removed: %d rows).",
		before, len(records), n))

	before = len(records)
	records, n = keep(records, hasInvoiceDate(t.Index().position(ColIvcDate)))
	stats.drop(DropBlankInvoiceDate, n)
	rep.Info(fmt.Sprintf("AR rows before removing blank 'IvcDate': %d, after: %d (Removed: %d rows).",
		before, len(records), n))

	filteredTotal := sumPrices(records)
	rep.Info(fmt.Sprintf("Total 'ExtPrice' in AR data after filters: %s", rules.Money(filteredTotal)))

	stats.OutputRows = len(records)
	summary := summarize(records, ColCustomerID, ColExtPrice)

	rep.Success("AR Invoice/Ship data processing complete.")
	return &ARInvoiceResult{
		Filtered: Dataset{
			Columns:        t.Columns,
			Records:        records,
			CustomerColumn: ColCustomerID,
			PriceColumn:    ColExtPrice,
			DateColumn:     ColIvcDate,
		},
		Summary:       summary,
		InitialTotal:  initial,
		FilteredTotal: filteredTotal,
		Stats:         stats,
	}, nil
}

func parseARInvoice(t *Table, today time.Time) []Record {
	idx := t.Index()
	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := Record{
			CustomerID: getCell(row, idx, ColCustomerID),
			Cells:      row,
		}
		rec.Date, rec.HasDate = ParseDate(getCell(row, idx, ColIvcDate), today)
		rec.Price, rec.PriceValid = ParseDecimal(getCell(row, idx, ColExtPrice))
		records = append(records, rec)
	}
	return records
}

// hasInvoiceDate keeps any row whose IvcDate cell is non-blank,
// whether or not it parses.
func hasInvoiceDate(dateIdx int) func(Record) bool {
	return func(r Record) bool {
		if r.HasDate {
			return true
		}
		return dateIdx >= 0 && dateIdx < len(r.Cells) && CleanCell(r.Cells[dateIdx]) != ""
	}
}
