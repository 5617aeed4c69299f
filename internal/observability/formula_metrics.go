package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Evaluation outcomes used as the "outcome" label.
const (
	OutcomeOK               = "ok"
	OutcomeInvalidArguments = "invalid_arguments"
	OutcomeDomainError      = "domain_error"
	OutcomeError            = "error"
)

// FormulaCollector exposes per-formula evaluation metrics.
type FormulaCollector struct {
	gatherer prometheus.Gatherer

	Evaluations    *prometheus.CounterVec
	Durations      *prometheus.HistogramVec
	LastRadarRange prometheus.Gauge
}

// NewFormulaCollector registers formula metrics against reg.
func NewFormulaCollector(reg prometheus.Registerer) (*FormulaCollector, error) {
	reg, gatherer := gathererFor(reg)

	evaluations, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rfcalc_evaluations_total",
		Help: "Formula evaluations, labeled by formula and outcome.",
	}, []string{"formula", "outcome"}), "rfcalc_evaluations_total")
	if err != nil {
		return nil, err
	}

	durations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rfcalc_evaluation_duration_seconds",
		Help:    "Time spent evaluating a formula, including argument resolution.",
		Buckets: []float64{1e-7, 1e-6, 1e-5, 1e-4, 1e-3, 1e-2},
	}, []string{"formula"}), "rfcalc_evaluation_duration_seconds")
	if err != nil {
		return nil, err
	}

	lastRange, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rfcalc_last_radar_range_meters",
		Help: "Most recent successful maximum radar range result in metres.",
	}), "rfcalc_last_radar_range_meters")
	if err != nil {
		return nil, err
	}

	return &FormulaCollector{
		gatherer:       gatherer,
		Evaluations:    evaluations,
		Durations:      durations,
		LastRadarRange: lastRange,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *FormulaCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveEvaluation records one formula evaluation.
func (c *FormulaCollector) ObserveEvaluation(formula, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	if c.Evaluations != nil {
		c.Evaluations.WithLabelValues(formula, outcome).Inc()
	}
	if c.Durations != nil {
		c.Durations.WithLabelValues(formula).Observe(d.Seconds())
	}
}

// SetLastRadarRange updates the radar range gauge.
func (c *FormulaCollector) SetLastRadarRange(meters float64) {
	if c == nil || c.LastRadarRange == nil {
		return
	}
	c.LastRadarRange.Set(meters)
}
