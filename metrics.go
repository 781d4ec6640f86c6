package kdgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordBuild is called after each build operation.
	// count is the number of points indexed, duration the total time taken,
	// err is nil if successful.
	RecordBuild(count int, duration time.Duration, err error)

	// RecordSearch is called after each search operation.
	// kind names the operation ("nn", "knn", "range"), k is the number of
	// neighbors requested (0 for nn/range), duration is the time taken.
	RecordSearch(kind string, k int, duration time.Duration, err error)

	// RecordBatchSearch is called after each batch search operation.
	// count is the number of queries attempted, failed the number that failed.
	RecordBatchSearch(count, failed int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, error)          {}
func (NoopMetricsCollector) RecordSearch(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordBatchSearch(int, int, time.Duration)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildPoints      atomic.Int64
	BuildTotalNanos  atomic.Int64
	SearchCount      atomic.Int64
	SearchErrors     atomic.Int64
	SearchTotalNanos atomic.Int64
	BatchSearchCount atomic.Int64
	BatchSearchItems atomic.Int64
	BatchSearchFails atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(count int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildPoints.Add(int64(count))
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(kind string, k int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// RecordBatchSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchSearch(count, failed int, duration time.Duration) {
	b.BatchSearchCount.Add(1)
	b.BatchSearchItems.Add(int64(count))
	b.BatchSearchFails.Add(int64(failed))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:       b.BuildCount.Load(),
		BuildErrors:      b.BuildErrors.Load(),
		BuildPoints:      b.BuildPoints.Load(),
		BuildAvgNanos:    avgNanos(b.BuildTotalNanos.Load(), b.BuildCount.Load()),
		SearchCount:      b.SearchCount.Load(),
		SearchErrors:     b.SearchErrors.Load(),
		SearchAvgNanos:   avgNanos(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
		BatchSearchCount: b.BatchSearchCount.Load(),
		BatchSearchItems: b.BatchSearchItems.Load(),
		BatchSearchFails: b.BatchSearchFails.Load(),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount       int64
	BuildErrors      int64
	BuildPoints      int64
	BuildAvgNanos    int64
	SearchCount      int64
	SearchErrors     int64
	SearchAvgNanos   int64
	BatchSearchCount int64
	BatchSearchItems int64
	BatchSearchFails int64
}
