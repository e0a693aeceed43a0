package core

// sheets.go defines the exported workbook layout.
//
// Sheet names and their order are a contract with whoever consumes the
// downloaded file. Add new sheets at the end; never rename existing ones.

import (
	"strings"
)

// DefaultOutputName is the suggested file name for the exported workbook.
const DefaultOutputName = "Blended_AR_Results.xlsx"

// Sheet names, in workbook order.
const (
	SheetBlendedPivot   = "Blended Pivot USE"
	SheetARSummary      = "AR Ivc & Customer Summary USE"
	SheetCodateFiltered = "Codate Filtered Data"
	SheetCodatePivot    = "Codate Pivot"
	SheetIVRV           = "IVRV Data"
	SheetARData         = "AR Invoice & Ship Data"
	SheetTotals         = "Totals"
)

// Columns of the Totals sheet.
const (
	ColMetric = "Metric"
	ColValue  = "Value"
)

// SheetInfo documents one sheet of the exported workbook.
type SheetInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Columns     []string `json:"columns,omitempty"` // nil when the source header is copied through
}

// SheetContract returns the workbook layout in order.
func SheetContract() []SheetInfo {
	return []SheetInfo{
		{Name: SheetBlendedPivot, Description: "Codate and IVRV Ext Price blended by customer", Columns: []string{ColCustID, ColExtPrice}},
		{Name: SheetARSummary, Description: "AR Invoice/Ship Ext Price by customer", Columns: []string{ColCustomerID, ColExtPrice}},
		{Name: SheetCodateFiltered, Description: "Codate rows after date, LS, horizon and customer filters"},
		{Name: SheetCodatePivot, Description: "Codate Ext Price by customer", Columns: []string{ColCustID, ColExtPriceAlt}},
		{Name: SheetIVRV, Description: "IVRV rows normalized to CustID and ExtPrice", Columns: []string{ColCustID, ColExtPrice}},
		{Name: SheetARData, Description: "AR Invoice/Ship rows after customer and IvcDate filters"},
		{Name: SheetTotals, Description: "Scalar totals", Columns: []string{ColMetric, ColValue}},
	}
}

// Sheets returns the run's tables in SheetContract order.
func (r *Result) Sheets() []Sheet {
	totals := make([][]any, 0, 4)
	for _, t := range r.Totals() {
		totals = append(totals, []any{t.Metric, t.Value.InexactFloat64()})
	}

	return []Sheet{
		r.Blended.Sheet(SheetBlendedPivot),
		r.ARInvoice.Summary.Sheet(SheetARSummary),
		r.Codate.Filtered.Sheet(SheetCodateFiltered),
		r.Codate.Summary.Sheet(SheetCodatePivot),
		r.IVRV.Normalized.Sheet(SheetIVRV),
		r.ARInvoice.Filtered.Sheet(SheetARData),
		{Name: SheetTotals, Columns: []string{ColMetric, ColValue}, Rows: totals},
	}
}

// Sheet renders the summary as a two-column sheet.
func (s Summary) Sheet(name string) Sheet {
	rows := make([][]any, len(s.Entries))
	for i, e := range s.Entries {
		rows[i] = []any{e.CustomerID, e.Total.InexactFloat64()}
	}
	return Sheet{Name: name, Columns: []string{s.KeyColumn, s.ValueColumn}, Rows: rows}
}

// Sheet renders the dataset with typed cells: parsed prices as numbers,
// parsed dates as time.Time, the customer column as text, and any other
// plain number as a float.
func (d Dataset) Sheet(name string) Sheet {
	idx := MakeHeaderIndex(d.Columns)
	priceIdx := idx.position(d.PriceColumn)
	dateIdx := idx.position(d.DateColumn)
	custIdx := idx.position(d.CustomerColumn)

	rows := make([][]any, len(d.Records))
	for i, rec := range d.Records {
		row := make([]any, len(d.Columns))
		for j := range d.Columns {
			cell := ""
			if j < len(rec.Cells) {
				cell = CleanCell(rec.Cells[j])
			}
			switch {
			case j == custIdx:
				row[j] = rec.CustomerID
			case j == priceIdx && rec.PriceValid:
				row[j] = rec.Price.InexactFloat64()
			case j == dateIdx && rec.HasDate:
				row[j] = rec.Date
			default:
				row[j] = cellValue(cell)
			}
		}
		rows[i] = row
	}
	return Sheet{Name: name, Columns: d.Columns, Rows: rows}
}

// cellValue returns s as a float when it is a plain number, otherwise as text.
// Values with a leading zero ("00123") stay text so codes keep their digits.
func cellValue(s string) any {
	if !numericRegex.MatchString(s) {
		return s
	}
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && digits[1] != '.' {
		return s
	}
	d, ok := ParseDecimal(s)
	if !ok {
		return s
	}
	return d.InexactFloat64()
}
