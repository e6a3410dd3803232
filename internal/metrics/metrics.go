// Package metrics provides Prometheus metrics for scans and probes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsNamespace is the namespace for all boardwatch metrics.
const MetricsNamespace = "boardwatch"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	ScansTotal         prometheus.Counter
	BoardsScannedTotal prometheus.Counter
	FindingsTotal      *prometheus.CounterVec
	ProbesTotal        *prometheus.CounterVec
	ProbeRateLimited   prometheus.Counter
}

// New creates and registers the service metrics.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		ScansTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "scans_total",
			Help:      "Total number of scan runs",
		}),
		BoardsScannedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "boards_scanned_total",
			Help:      "Total number of boards scored",
		}),
		FindingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "findings_total",
			Help:      "Total findings by check",
		}, []string{"check"}),
		ProbesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "probes_total",
			Help:      "Total probed URLs by verdict",
		}, []string{"status"}),
		ProbeRateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "probe_rate_limited_total",
			Help:      "Total probe submissions rejected by the per-IP rate limit",
		}),
	}
}
