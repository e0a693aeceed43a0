package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order classes found in the Codate LS column.
const (
	OrderClassForecast = 2
	OrderClassRegular  = 3
	OrderClassBacklog  = 4
)

// CodateResult is the output of TransformCodate.
type CodateResult struct {
	// Filtered holds rows that passed every stage, including the customer filter.
	Filtered Dataset
	Summary  Summary
	// TotalBeforeCustomers is the Ext Price sum after the date and LS stages
	// but before the customer filter.
	TotalBeforeCustomers decimal.Decimal
	Stats                Stats
}

// TransformCodate filters and aggregates the Codate export.
//
// Stages, in order:
//  1. PromShip parsed to a date; unparseable rows dropped
//  2. rows dated in rules.YearCutoff or later dropped
//  3. split by LS: 2 is forecast, 3 and 4 are regular, anything else dropped
//  4. forecast rows past the horizon cutoff dropped; regular rows untouched
//  5. forecast and regular rows recombined
//  6. TotalBeforeCustomers taken
//  7. rows outside the customer set dropped
//  8. summary by CustID
//
// Returns a *SchemaError if required columns are missing.
func TransformCodate(t *Table, rules Rules, rep Reporter) (*CodateResult, error) {
	rep = orNop(rep)
	rules = rules.withDefaults()

	if err := validate(t, KindCodate, rep); err != nil {
		return nil, err
	}

	rep.Info("Starting Codate data processing...")
	stats := newStats(KindCodate, t.Len())

	records := parseCodate(t, rules.Today())
	priceIdx := t.Index().position(ColExtPriceAlt)
	stats.InvalidPrices = countInvalidPrices(records, priceIdx)
	if stats.InvalidPrices > 0 {
		rep.Info(fmt.Sprintf("Codate rows with a non-numeric 'Ext Price' counted as zero: %d", stats.InvalidPrices))
	}

	records, n := keep(records, hasDate)
	stats.drop(DropUnparseableDate, n)
	rep.Info(fmt.Sprintf("Codate rows dropped for missing or invalid 'PromShip': %d", n))

	records, n = keep(records, datedBeforeYear(rules.YearCutoff))
	stats.drop(DropYearCutoff, n)
	rep.Info(fmt.Sprintf("Codate rows dropped with 'PromShip' in %d or later: %d", rules.YearCutoff, n))

	forecast, _ := keep(records, inOrderClass(OrderClassForecast))
	regular, _ := keep(records, inOrderClass(OrderClassRegular, OrderClassBacklog))
	n = len(records) - len(forecast) - len(regular)
	stats.drop(DropOrderClass, n)
	rep.Info(fmt.Sprintf("Codate rows split by 'LS': %d forecast, %d regular, %d dropped with other values",
		len(forecast), len(regular), n))

	cutoff := rules.HorizonCutoff()
	forecast, n = keep(forecast, promisedBy(cutoff))
	stats.drop(DropHorizon, n)
	rep.Info(fmt.Sprintf("Codate forecast rows dropped past %s: %d", cutoff.Format("2006-01-02"), n))

	combined := make([]Record, 0, len(forecast)+len(regular))
	combined = append(combined, forecast...)
	combined = append(combined, regular...)

	totalBefore := sumPrices(combined)
	rep.Info(fmt.Sprintf("Total 'Ext Price' in Codate data before customer filter: %s", rules.Money(totalBefore)))

	filtered, n := keep(combined, inCustomerSet(rules.Customers))
	stats.drop(DropCustomer, n)
	rep.Info(fmt.Sprintf("Codate rows after customer filter: %d (Removed: %d rows).", len(filtered), n))

	stats.OutputRows = len(filtered)
	summary := summarize(filtered, ColCustID, ColExtPriceAlt)

	rep.Success("Codate data processing complete.")
	return &CodateResult{
		Filtered: Dataset{
			Columns:        t.Columns,
			Records:        filtered,
			CustomerColumn: ColCustID,
			PriceColumn:    ColExtPriceAlt,
			DateColumn:     ColPromShip,
		},
		Summary:              summary,
		TotalBeforeCustomers: totalBefore,
		Stats:                stats,
	}, nil
}

// parseCodate converts every row; rows are not filtered here.
func parseCodate(t *Table, today time.Time) []Record {
	idx := t.Index()
	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := Record{
			CustomerID: getCell(row, idx, ColCustID),
			Cells:      row,
		}
		rec.Date, rec.HasDate = ParseDate(getCell(row, idx, ColPromShip), today)
		rec.OrderClass, _ = ParseOrderClass(getCell(row, idx, ColLS))
		rec.Price, rec.PriceValid = ParseDecimal(getCell(row, idx, ColExtPriceAlt))
		records = append(records, rec)
	}
	return records
}

func hasDate(r Record) bool {
	return r.HasDate
}

func datedBeforeYear(year int) func(Record) bool {
	return func(r Record) bool {
		return r.Date.Year() < year
	}
}

func inOrderClass(classes ...int) func(Record) bool {
	return func(r Record) bool {
		for _, c := range classes {
			if r.OrderClass == c {
				return true
			}
		}
		return false
	}
}

func promisedBy(cutoff time.Time) func(Record) bool {
	return func(r Record) bool {
		return !r.Date.After(cutoff)
	}
}
