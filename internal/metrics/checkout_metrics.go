package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
)

// CheckoutMetrics collects till-side checkout metrics. A nil *CheckoutMetrics
// is valid and records nothing.
type CheckoutMetrics struct {
	submissionsStarted prometheus.Counter
	submissions        *prometheus.CounterVec
	failures           *prometheus.CounterVec
	submissionDuration prometheus.Histogram
	stepDuration       *prometheus.HistogramVec
	banners            *prometheus.CounterVec
	openSessions       prometheus.Gauge
	receiptFailures    prometheus.Counter
}

// NewCheckoutMetrics registers the collectors on the default registry.
func NewCheckoutMetrics() *CheckoutMetrics {
	return NewCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewCheckoutMetricsWithRegisterer registers on r, reusing collectors that are
// already registered under the same name.
func NewCheckoutMetricsWithRegisterer(r prometheus.Registerer) *CheckoutMetrics {
	if r == nil {
		r = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		submissionsStarted: register(r, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_checkout_submissions_started_total",
			Help: "Total number of sale submissions started",
		})),
		submissions: register(r, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_checkout_submissions_total",
			Help: "Total number of sale submissions by outcome",
		}, []string{"outcome"})),
		failures: register(r, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_checkout_failures_total",
			Help: "Total number of checkout failures by kind",
		}, []string{"kind"})),
		submissionDuration: register(r, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pos_checkout_submission_duration_seconds",
			Help:    "Duration of sale submissions in seconds",
			Buckets: prometheus.DefBuckets,
		})),
		stepDuration: register(r, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pos_checkout_step_duration_seconds",
			Help:    "Duration of individual submission steps in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"step"})),
		banners: register(r, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_checkout_banners_total",
			Help: "Total number of banners shown to cashiers by kind",
		}, []string{"kind"})),
		openSessions: register(r, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pos_checkout_open_sessions",
			Help: "Number of open checkout sessions",
		})),
		receiptFailures: register(r, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_checkout_receipt_print_failures_total",
			Help: "Total number of receipt print attempts that failed",
		})),
	}
}

func register[T prometheus.Collector](r prometheus.Registerer, collector T) T {
	if err := r.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			existing, ok := already.ExistingCollector.(T)
			if !ok {
				panic(fmt.Sprintf("collector already registered with unexpected type %T", already.ExistingCollector))
			}
			return existing
		}
		panic(fmt.Sprintf("register collector: %v", err))
	}
	return collector
}

func (m *CheckoutMetrics) RecordSubmissionStarted() {
	if m == nil {
		return
	}
	m.submissionsStarted.Inc()
}

// RecordSubmission records the outcome and total duration of one submission.
func (m *CheckoutMetrics) RecordSubmission(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
	m.submissionDuration.Observe(duration.Seconds())
}

func (m *CheckoutMetrics) RecordFailure(kind string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(kind).Inc()
}

func (m *CheckoutMetrics) RecordStepDuration(step string, duration time.Duration) {
	if m == nil {
		return
	}
	m.stepDuration.WithLabelValues(step).Observe(duration.Seconds())
}

func (m *CheckoutMetrics) RecordBanner(kind string) {
	if m == nil {
		return
	}
	m.banners.WithLabelValues(kind).Inc()
}

func (m *CheckoutMetrics) SessionOpened() {
	if m == nil {
		return
	}
	m.openSessions.Inc()
}

func (m *CheckoutMetrics) SessionClosed() {
	if m == nil {
		return
	}
	m.openSessions.Dec()
}

func (m *CheckoutMetrics) RecordReceiptFailure() {
	if m == nil {
		return
	}
	m.receiptFailures.Inc()
}
