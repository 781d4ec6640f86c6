package kdgo

import (
	"log/slog"

	"github.com/hupe1980/kdgo/filter"
	"github.com/hupe1980/kdgo/index"
	"github.com/hupe1980/kdgo/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	controller       *resource.Controller
	batchParallelism int
}

// Option configures KDTree constructor behavior.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &kdgo.BasicMetricsCollector{}
//	t, _ := kdgo.New(3, kdgo.WithMetricsCollector(metrics))
//	// ... use t ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := kdgo.NewJSONLogger(slog.LevelInfo)
//	t, _ := kdgo.New(3, kdgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController bounds search concurrency and admission rate.
// Pass nil to disable resource control.
func WithResourceController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithBatchParallelism limits the number of goroutines used by
// BatchKNNSearch. If not set, GOMAXPROCS is used.
func WithBatchParallelism(n int) Option {
	return func(o *options) {
		o.batchParallelism = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// SearchOption configures a single search call.
type SearchOption func(*index.SearchOptions)

// WithFilter restricts a search to IDs contained in the given set.
// A nil set admits every point.
func WithFilter(s *filter.Set) SearchOption {
	return func(o *index.SearchOptions) {
		o.Filter = s.Predicate()
	}
}

// WithFilterFunc restricts a search to IDs for which fn returns true.
func WithFilterFunc(fn func(id uint32) bool) SearchOption {
	return func(o *index.SearchOptions) {
		o.Filter = fn
	}
}

func applySearchOptions(optFns []SearchOption) *index.SearchOptions {
	if len(optFns) == 0 {
		return nil
	}
	o := &index.SearchOptions{}
	for _, fn := range optFns {
		if fn != nil {
			fn(o)
		}
	}
	return o
}
