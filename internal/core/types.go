package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column headers the pipeline relies on. Names must match the uploaded files exactly.
const (
	ColCustID      = "CustID"
	ColCustomerID  = "CustomerID"
	ColPromShip    = "PromShip"
	ColLS          = "LS"
	ColExtPrice    = "ExtPrice"
	ColExtPriceAlt = "Ext Price"
	ColIvcDate     = "IvcDate"
)

// FieldType represents the expected data type for a column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldDate
	FieldNumeric
	FieldInteger
)

// HeaderIndex maps column names to their position in a row.
// Names are trimmed but otherwise kept exactly as uploaded.
type HeaderIndex map[string]int

// Table is a raw tabular dataset as decoded from an uploaded file.
// Header and footer offsets have already been applied by the loader.
type Table struct {
	Name    string     // Source file name, informational only
	Columns []string   // Header row
	Rows    [][]string // Data rows, cells trimmed
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index builds a HeaderIndex for the table's columns.
// When a header repeats, the first occurrence wins.
func (t *Table) Index() HeaderIndex {
	return MakeHeaderIndex(t.Columns)
}

// HasColumn reports whether the table has a column with exactly this name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Index()[name]
	return ok
}

// Record is one parsed row. Cells keeps the original row so filtered
// datasets can be exported with every source column.
type Record struct {
	CustomerID string
	Date       time.Time // PromShip for Codate, IvcDate for AR
	HasDate    bool
	OrderClass int // LS, Codate only; 0 when absent or unparseable
	Price      decimal.Decimal
	PriceValid bool // false when the price cell was blank or not a number
	Cells      []string
}

// Dataset is a filtered set of records together with the header they came from.
type Dataset struct {
	Columns        []string
	Records        []Record
	CustomerColumn string
	PriceColumn    string
	DateColumn     string // empty when the dataset has no typed date column
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// Total returns the sum of prices over every record.
func (d Dataset) Total() decimal.Decimal {
	return sumPrices(d.Records)
}

// Project aligns the dataset to the two-column (CustID, ExtPrice) shape used for blending.
func (d Dataset) Project() Dataset {
	out := Dataset{
		Columns:        []string{ColCustID, ColExtPrice},
		Records:        make([]Record, len(d.Records)),
		CustomerColumn: ColCustID,
		PriceColumn:    ColExtPrice,
	}
	priceIdx := MakeHeaderIndex(d.Columns).position(d.PriceColumn)
	for i, rec := range d.Records {
		raw := ""
		if priceIdx >= 0 && priceIdx < len(rec.Cells) {
			raw = rec.Cells[priceIdx]
		}
		out.Records[i] = Record{
			CustomerID: rec.CustomerID,
			Price:      rec.Price,
			PriceValid: rec.PriceValid,
			Cells:      []string{rec.CustomerID, raw},
		}
	}
	return out
}

// SummaryEntry is one customer's aggregated total.
type SummaryEntry struct {
	CustomerID string
	Total      decimal.Decimal
}

// Summary maps customers to the sum of their prices, sorted by customer ID.
type Summary struct {
	KeyColumn   string
	ValueColumn string
	Entries     []SummaryEntry
}

// Len returns the number of distinct customers.
func (s Summary) Len() int {
	return len(s.Entries)
}

// Total returns the sum over all customers.
func (s Summary) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Entries {
		total = total.Add(e.Total)
	}
	return total
}

// Lookup returns the total for a customer.
func (s Summary) Lookup(customerID string) (decimal.Decimal, bool) {
	for _, e := range s.Entries {
		if e.CustomerID == customerID {
			return e.Total, true
		}
	}
	return decimal.Zero, false
}

// Map returns the summary as a map, mostly useful in tests and JSON responses.
func (s Summary) Map() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(s.Entries))
	for _, e := range s.Entries {
		m[e.CustomerID] = e.Total
	}
	return m
}

// Sheet is a named table handed to the exporter.
// Values are string, float64, int, or time.Time.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// DropReason names the filter stage that removed a row.
type DropReason string

const (
	DropUnparseableDate  DropReason = "unparseable_date"
	DropYearCutoff       DropReason = "year_cutoff"
	DropOrderClass       DropReason = "order_class"
	DropHorizon          DropReason = "horizon"
	DropCustomer         DropReason = "customer"
	DropBlankInvoiceDate DropReason = "blank_invoice_date"
)

// Stats counts rows through one transform.
type Stats struct {
	Dataset       DatasetKind        `json:"dataset"`
	InputRows     int                `json:"inputRows"`
	OutputRows    int                `json:"outputRows"`
	Dropped       map[DropReason]int `json:"dropped"`
	InvalidPrices int                `json:"invalidPrices"`
}

func newStats(kind DatasetKind, input int) Stats {
	return Stats{
		Dataset:   kind,
		InputRows: input,
		Dropped:   make(map[DropReason]int),
	}
}

func (s *Stats) drop(reason DropReason, n int) {
	if n > 0 {
		s.Dropped[reason] += n
	}
}

// position returns the column of name in idx, or -1 when absent.
func (idx HeaderIndex) position(name string) int {
	if name == "" {
		return -1
	}
	if i, ok := idx[name]; ok {
		return i
	}
	return -1
}
