package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BusinessSubsystem prefixes every business metric.
const BusinessSubsystem = "courseshop"

var (
	bpDur            *prometheus.HistogramVec
	reconcileOutcome *prometheus.CounterVec
	planAdmin        *prometheus.CounterVec
)

var businessMetrics = []*Metric{
	MetricsBusinessProcess,
	MetricsReconcileOutcome,
	MetricsPlanAdmin,
}

func init() {
	// Collectors exist from process start so services can record before
	// (or without) registration; RegisterBusinessMetrics only exposes them.
	bpDur = NewMetric(MetricsBusinessProcess, BusinessSubsystem).(*prometheus.HistogramVec)
	MetricsBusinessProcess.MetricCollector = bpDur

	reconcileOutcome = NewMetric(MetricsReconcileOutcome, BusinessSubsystem).(*prometheus.CounterVec)
	MetricsReconcileOutcome.MetricCollector = reconcileOutcome

	planAdmin = NewMetric(MetricsPlanAdmin, BusinessSubsystem).(*prometheus.CounterVec)
	MetricsPlanAdmin.MetricCollector = planAdmin
}

// RegisterBusinessMetrics registers the business collectors. Collectors that
// are already registered are not treated as errors.
func RegisterBusinessMetrics(reg prometheus.Registerer) error {
	for _, m := range businessMetrics {
		if err := reg.Register(m.MetricCollector); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveBusinessProcess records the latency of a business step since start.
func ObserveBusinessProcess(typ, subtype string, start time.Time) {
	bpDur.WithLabelValues(typ, subtype).Observe(MillisecondsSince(start))
}

// IncReconcile counts one reconciliation outcome.
func IncReconcile(outcome string) {
	reconcileOutcome.WithLabelValues(outcome).Inc()
}

// IncPlanAdmin counts one admin operation result.
func IncPlanAdmin(op, result string) {
	planAdmin.WithLabelValues(op, result).Inc()
}

// MillisecondsSince returns the elapsed time in milliseconds.
func MillisecondsSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
