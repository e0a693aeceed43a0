package config

import (
	"github.com/JonMunkholm/extblend/internal/core"
	"github.com/JonMunkholm/extblend/internal/workbook"
)

// Rules converts the pipeline settings into core rules using the wall clock.
func (p PipelineConfig) Rules() core.Rules {
	rules := core.DefaultRules()
	if p.HorizonDays > 0 {
		rules.HorizonDays = p.HorizonDays
	}
	if p.YearCutoff > 0 {
		rules.YearCutoff = p.YearCutoff
	}
	if len(p.CustomerIDs) > 0 {
		rules.Customers = core.NewCustomerSet(p.CustomerIDs...)
	}
	if p.CurrencySymbol != "" {
		rules.CurrencySymbol = p.CurrencySymbol
	}
	return rules
}

// Options returns the load offsets for one dataset.
func (l LoaderConfig) Options(kind core.DatasetKind) workbook.LoadOptions {
	switch kind {
	case core.KindCodate:
		return workbook.LoadOptions{HeaderRow: l.CodateHeaderRow}
	case core.KindIVRV:
		return workbook.LoadOptions{HeaderRow: l.IVRVHeaderRow}
	case core.KindARInvoice:
		return workbook.LoadOptions{HeaderRow: l.ARInvoiceHeaderRow, SkipFooter: l.ARInvoiceSkipFoot}
	default:
		return workbook.DefaultOptions(kind)
	}
}
