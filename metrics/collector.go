// Package metrics bridges tool invocation outcomes into Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Collector implements tools.Observer and exports invocation counters and
// latency histograms. Register it with a prometheus.Registerer owned by the
// host process.
type Collector struct {
	invocationsTotal *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	cacheHitsTotal   *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector creates a collector and registers its metrics with reg.
// Passing nil uses prometheus.DefaultRegisterer.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Collector{
		invocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_invocations_total",
				Help:      "Total number of tool invocations",
			},
			[]string{"tool", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_execution_duration_seconds",
				Help:      "Tool execution duration in seconds (cache hits excluded)",
				Buckets:   []float64{.005, .01, .05, .1, .5, 1, 5, 15, 30},
			},
			[]string{"tool"},
		),
		cacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_cache_hits_total",
				Help:      "Total number of tool result cache hits",
			},
			[]string{"tool"},
		),
		logger: logger.With(zap.String("component", "metrics")),
	}

	for _, collector := range []prometheus.Collector{c.invocationsTotal, c.duration, c.cacheHitsTotal} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveExecution records one completed (non-cached) tool execution.
func (c *Collector) ObserveExecution(tool string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	c.invocationsTotal.WithLabelValues(tool, status).Inc()
	c.duration.WithLabelValues(tool).Observe(d.Seconds())
}

// ObserveCacheHit records one cache-served invocation.
func (c *Collector) ObserveCacheHit(tool string) {
	c.cacheHitsTotal.WithLabelValues(tool).Inc()
}
