package core

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Defaults for the business rules.
const (
	DefaultHorizonDays    = 182
	DefaultYearCutoff     = 2050
	DefaultCurrencySymbol = "£"
)

// Rules carries the configuration every transform needs.
// The zero value is usable: empty fields fall back to the defaults above,
// the default customer set, and the wall clock.
type Rules struct {
	Customers      CustomerSet
	Now            func() time.Time // Reference clock for the forecast horizon
	HorizonDays    int              // Forecast rows further out than this are dropped
	YearCutoff     int              // Rows dated in this year or later are dropped
	CurrencySymbol string           // Prefix for amounts in report messages
}

// DefaultRules returns rules with every default applied.
func DefaultRules() Rules {
	return Rules{
		Customers:      DefaultCustomers(),
		Now:            time.Now,
		HorizonDays:    DefaultHorizonDays,
		YearCutoff:     DefaultYearCutoff,
		CurrencySymbol: DefaultCurrencySymbol,
	}
}

// withDefaults fills unset fields.
func (r Rules) withDefaults() Rules {
	if r.Customers.ids == nil {
		r.Customers = DefaultCustomers()
	}
	if r.Now == nil {
		r.Now = time.Now
	}
	if r.HorizonDays <= 0 {
		r.HorizonDays = DefaultHorizonDays
	}
	if r.YearCutoff <= 0 {
		r.YearCutoff = DefaultYearCutoff
	}
	if r.CurrencySymbol == "" {
		r.CurrencySymbol = DefaultCurrencySymbol
	}
	return r
}

// Today returns the reference date at midnight UTC.
// Parsed cell dates carry no zone, so both sides compare as UTC wall-clock.
func (r Rules) Today() time.Time {
	now := r.withDefaults().Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// HorizonCutoff is the last instant a forecast row may be promised for.
func (r Rules) HorizonCutoff() time.Time {
	r = r.withDefaults()
	return r.Today().AddDate(0, 0, r.HorizonDays)
}

var amountPrinter = message.NewPrinter(language.BritishEnglish)

// Money formats an amount with grouping, e.g. "£1,234.50".
func (r Rules) Money(d decimal.Decimal) string {
	sym := r.CurrencySymbol
	if sym == "" {
		sym = DefaultCurrencySymbol
	}
	return amountPrinter.Sprintf("%s%.2f", sym, d.InexactFloat64())
}
