package core

// pipeline.go runs the three transforms and the blend as one unit.
//
// A run either produces a complete Result or an error; nothing partial is
// returned. Missing inputs halt the run before any transform starts. Schema
// failures are collected across all three transforms so the caller sees
// every problem at once.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrMissingInput is returned when a required file was not supplied.
var ErrMissingInput = errors.New("no file provided")

// ProcessingError wraps an unexpected failure recovered inside a run.
type ProcessingError struct {
	Stage  string
	Detail string
}

func (e *ProcessingError) Error() string {
	if e.Stage == "" {
		return "unexpected processing error: " + e.Detail
	}
	return fmt.Sprintf("unexpected processing error during %s: %s", e.Stage, e.Detail)
}

// Inputs are the decoded uploads for one run. A nil table means the file
// was not supplied.
type Inputs struct {
	Codate    *Table
	IVRV      *Table
	ARInvoice *Table
}

// Table returns the input for kind, or nil.
func (in Inputs) Table(kind DatasetKind) *Table {
	switch kind {
	case KindCodate:
		return in.Codate
	case KindIVRV:
		return in.IVRV
	case KindARInvoice:
		return in.ARInvoice
	}
	return nil
}

// Set stores t as the input for kind. Unknown kinds are ignored.
func (in *Inputs) Set(kind DatasetKind, t *Table) {
	switch kind {
	case KindCodate:
		in.Codate = t
	case KindIVRV:
		in.IVRV = t
	case KindARInvoice:
		in.ARInvoice = t
	}
}

// Missing lists the kinds with no table, in processing order.
func (in Inputs) Missing() []DatasetKind {
	var out []DatasetKind
	for _, kind := range Kinds() {
		if in.Table(kind) == nil {
			out = append(out, kind)
		}
	}
	return out
}

// Result is every output of a successful run.
type Result struct {
	RunID     uuid.UUID
	Today     time.Time // Reference date the horizon was computed from
	Codate    *CodateResult
	IVRV      *IVRVResult
	ARInvoice *ARInvoiceResult
	// Blended is the Codate + IVRV summary by CustID.
	Blended     Summary
	BlendedRows int // In-set rows that fed Blended
}

// Total is one named scalar total.
type Total struct {
	Metric string
	Value  decimal.Decimal
}

// Metric names for the scalar totals.
const (
	MetricCodateBeforeCustomers = "Total Ext Price (Codate before customer filter)"
	MetricARInitial             = "Initial Total Ext Price (AR Invoice/Ship - Before Filters)"
	MetricARFiltered            = "Total Ext Price (AR Invoice/Ship - After Filters)"
	MetricBlended               = "Total Ext Price (Blended)"
)

// Totals returns the four scalar totals in display order.
func (r *Result) Totals() []Total {
	return []Total{
		{Metric: MetricCodateBeforeCustomers, Value: r.Codate.TotalBeforeCustomers},
		{Metric: MetricARInitial, Value: r.ARInvoice.InitialTotal},
		{Metric: MetricARFiltered, Value: r.ARInvoice.FilteredTotal},
		{Metric: MetricBlended, Value: r.Blended.Total()},
	}
}

// Stats returns the per-transform row counts in processing order.
func (r *Result) Stats() []Stats {
	return []Stats{r.Codate.Stats, r.IVRV.Stats, r.ARInvoice.Stats}
}

// cancelled reports and returns ctx.Err() once ctx is done.
func cancelled(ctx context.Context, rep Reporter) error {
	err := ctx.Err()
	if err != nil {
		rep.ErrorDetail("Processing cancelled.", err)
	}
	return err
}

// Run validates and transforms the three inputs and blends Codate with IVRV.
//
// The clock in rules is read once, so every stage sees the same "today".
// ctx is checked between stages. A panic inside a transform is recovered
// and returned as a *ProcessingError.
func Run(ctx context.Context, in Inputs, rules Rules, rep Reporter) (res *Result, err error) {
	rep = orNop(rep)
	stage := "setup"
	defer func() {
		if r := recover(); r != nil {
			pe := &ProcessingError{Stage: stage, Detail: fmt.Sprint(r)}
			rep.ErrorDetail("An error occurred during processing.", pe)
			res, err = nil, pe
		}
	}()

	rules = rules.withDefaults()
	now := rules.Now()
	rules.Now = func() time.Time { return now }

	if missing := in.Missing(); len(missing) > 0 {
		errs := make([]error, 0, len(missing))
		for _, kind := range missing {
			rep.Error(fmt.Sprintf("Error: Please upload the %s file.", kind.Label()))
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingInput, kind.Label()))
		}
		return nil, errors.Join(errs...)
	}

	res = &Result{RunID: uuid.New(), Today: rules.Today()}
	var failures []error

	stage = "Codate"
	if err := cancelled(ctx, rep); err != nil {
		return nil, err
	}
	if res.Codate, err = TransformCodate(in.Codate, rules, rep); err != nil {
		failures = append(failures, err)
	}

	stage = "IVRV"
	if err := cancelled(ctx, rep); err != nil {
		return nil, err
	}
	if res.IVRV, err = TransformIVRV(in.IVRV, rules, rep); err != nil {
		failures = append(failures, err)
	}

	stage = "AR Invoice/Ship"
	if err := cancelled(ctx, rep); err != nil {
		return nil, err
	}
	if res.ARInvoice, err = TransformARInvoice(in.ARInvoice, rules, rep); err != nil {
		failures = append(failures, err)
	}

	if len(failures) > 0 {
		rep.Error("Processing stopped: one or more files failed validation.")
		return nil, errors.Join(failures...)
	}

	stage = "blend"
	if err := cancelled(ctx, rep); err != nil {
		return nil, err
	}
	rep.Info("Blending Codate and IVRV data...")
	rep.Info(fmt.Sprintf("Total rows after blending Codate + IVRV: %d",
		res.Codate.Filtered.Len()+res.IVRV.Normalized.Len()))
	res.Blended, res.BlendedRows = Blend(res.Codate.Filtered, res.IVRV.Normalized, rules.Customers)
	rep.Info(fmt.Sprintf("Blended rows after customer filter: %d", res.BlendedRows))
	rep.Info(fmt.Sprintf("Blended pivot table created with %d unique customers, total %s.",
		res.Blended.Len(), rules.Money(res.Blended.Total())))

	rep.Success("Data blending and pivot complete.")
	return res, nil
}
