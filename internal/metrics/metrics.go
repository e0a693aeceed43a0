// Package metrics exposes Prometheus counters for pipeline runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/extblend/internal/core"
)

// Run outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected" // missing input or failed validation
	OutcomeBusy     = "busy"     // run limiter refused a slot
	OutcomeError    = "error"
)

type Registry struct {
	reg           *prometheus.Registry
	Runs          *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	RowsIn        *prometheus.CounterVec
	RowsDropped   *prometheus.CounterVec
	InvalidPrices *prometheus.CounterVec
	BlendedRows   prometheus.Gauge
	ActiveRuns    prometheus.GaugeFunc
	WaitingRuns   prometheus.GaugeFunc
}

// NewRegistry builds a private registry. limiter may be nil; its gauges
// are registered only when present.
func NewRegistry(limiter *core.RunLimiter) *Registry {
	r := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "extblend_runs_total",
		Help: "Pipeline runs by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "extblend_run_duration_seconds",
		Help:    "Wall time of a pipeline run, including workbook load and export.",
		Buckets: prometheus.DefBuckets,
	})
	rowsIn := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "extblend_rows_in_total",
		Help: "Rows read per dataset.",
	}, []string{"dataset"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "extblend_rows_dropped_total",
		Help: "Rows removed per dataset and filter.",
	}, []string{"dataset", "reason"})
	invalid := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "extblend_invalid_prices_total",
		Help: "Unparseable prices counted as zero.",
	}, []string{"dataset"})
	blended := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "extblend_last_blended_rows",
		Help: "Blended rows after the customer filter in the last successful run.",
	})

	r.MustRegister(runs, duration, rowsIn, dropped, invalid, blended)

	m := &Registry{
		reg:           r,
		Runs:          runs,
		RunDuration:   duration,
		RowsIn:        rowsIn,
		RowsDropped:   dropped,
		InvalidPrices: invalid,
		BlendedRows:   blended,
	}

	if limiter != nil {
		m.ActiveRuns = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "extblend_active_runs",
			Help: "Runs holding a limiter slot.",
		}, func() float64 { return float64(limiter.ActiveCount()) })
		m.WaitingRuns = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "extblend_waiting_runs",
			Help: "Runs waiting for a limiter slot.",
		}, func() float64 { return float64(limiter.Status().Waiting) })
		r.MustRegister(m.ActiveRuns, m.WaitingRuns)
	}

	return m
}

// ObserveRun records one finished run. res may be nil on failure.
func (r *Registry) ObserveRun(outcome string, elapsed time.Duration, res *core.Result) {
	r.Runs.WithLabelValues(outcome).Inc()
	r.RunDuration.Observe(elapsed.Seconds())
	if res == nil {
		return
	}

	for _, s := range res.Stats() {
		ds := string(s.Dataset)
		r.RowsIn.WithLabelValues(ds).Add(float64(s.InputRows))
		for reason, n := range s.Dropped {
			r.RowsDropped.WithLabelValues(ds, string(reason)).Add(float64(n))
		}
		r.InvalidPrices.WithLabelValues(ds).Add(float64(s.InvalidPrices))
	}
	r.BlendedRows.Set(float64(res.BlendedRows))
}

// Gatherer exposes the registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
