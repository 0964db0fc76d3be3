package tools

import (
	"sync/atomic"
	"time"
)

// Metrics accumulates per-tool execution counters. All updates are atomic
// increments, so concurrent invocations of the same tool instance never lose
// a record.
type Metrics struct {
	executions    atomic.Int64
	failures      atomic.Int64
	cacheHits     atomic.Int64
	durationNanos atomic.Int64
}

// MetricsSnapshot is an immutable view of the counters at read time.
// AverageExecutionTime is derived on read and never stored.
type MetricsSnapshot struct {
	ExecutionCount       int64         `json:"execution_count"`
	FailureCount         int64         `json:"failure_count"`
	CacheHits            int64         `json:"cache_hits"`
	TotalExecutionTime   time.Duration `json:"total_execution_time"`
	AverageExecutionTime time.Duration `json:"average_execution_time"`
}

// Record counts one execution. Cache hits are not executions and must go
// through RecordHit instead.
func (m *Metrics) Record(d time.Duration, success bool) {
	m.executions.Add(1)
	m.durationNanos.Add(int64(d))
	if !success {
		m.failures.Add(1)
	}
}

// RecordHit counts one cache hit.
func (m *Metrics) RecordHit() {
	m.cacheHits.Add(1)
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	count := m.executions.Load()
	total := time.Duration(m.durationNanos.Load())

	var avg time.Duration
	if count > 0 {
		avg = total / time.Duration(count)
	}
	return MetricsSnapshot{
		ExecutionCount:       count,
		FailureCount:         m.failures.Load(),
		CacheHits:            m.cacheHits.Load(),
		TotalExecutionTime:   total,
		AverageExecutionTime: avg,
	}
}

// Reset zeroes all counters.
func (m *Metrics) Reset() {
	m.executions.Store(0)
	m.failures.Store(0)
	m.cacheHits.Store(0)
	m.durationNanos.Store(0)
}
