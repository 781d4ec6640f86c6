package kdgo

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/kdgo/index"
	"github.com/hupe1980/kdgo/index/kdtree"
	"github.com/hupe1980/kdgo/snapshot"
)

// KDTree is the user-facing handle over a KD-tree index.
// It adds logging, metrics, and resource control around the index and
// translates internal errors into the package-level error types.
type KDTree struct {
	idx  *kdtree.KDTree
	opts options
}

// New creates an empty KD-tree for points of the given dimensionality.
// The tree answers queries only after Build.
func New(dimension int, optFns ...Option) (*KDTree, error) {
	idx, err := kdtree.New(kdtree.WithDimension(dimension))
	if err != nil {
		return nil, translateError(err)
	}

	return &KDTree{
		idx:  idx,
		opts: applyOptions(optFns),
	}, nil
}

// Load restores a tree from a snapshot file written by Save.
func Load(path string, optFns ...Option) (*KDTree, error) {
	o := applyOptions(optFns)

	idx, err := snapshot.Load(path)
	if err != nil {
		o.logger.LogSnapshot(context.Background(), path, err)
		return nil, err
	}

	return &KDTree{idx: idx, opts: o}, nil
}

// Save writes the current tree to a snapshot file.
func (t *KDTree) Save(path string, optFns ...func(o *snapshot.Options)) error {
	err := snapshot.Save(path, t.idx, optFns...)
	t.opts.logger.LogSnapshot(context.Background(), path, err)
	return err
}

// Dimension returns the fixed point dimensionality.
func (t *KDTree) Dimension() int { return t.idx.Dimension() }

// Len returns the number of indexed points.
func (t *KDTree) Len() int { return t.idx.Len() }

// Build replaces the tree contents with the given points.
//
// Points are copied into owned storage; an empty set builds an empty tree.
// The new tree is published atomically, so concurrent searches see either
// the previous tree or the complete new one.
func (t *KDTree) Build(ctx context.Context, points [][]float32) error {
	start := time.Now()

	err := t.idx.Build(ctx, points)

	t.opts.metricsCollector.RecordBuild(len(points), time.Since(start), err)
	t.opts.logger.LogBuild(ctx, len(points), t.idx.Dimension(), err)

	return translateError(err)
}

// Validate checks the partition invariant at every node of the tree.
// It always returns a verdict, never an error; an empty tree is valid.
func (t *KDTree) Validate() bool {
	return t.idx.Validate()
}

// NNSearch returns the single nearest point to q.
//
// On an empty tree it returns SearchResult{ID: index.InvalidID,
// Distance: +Inf} and a nil error.
func (t *KDTree) NNSearch(ctx context.Context, q []float32, optFns ...SearchOption) (index.SearchResult, error) {
	if err := t.opts.controller.AcquireSearch(ctx); err != nil {
		return index.SearchResult{ID: index.InvalidID}, err
	}
	defer t.opts.controller.ReleaseSearch()

	start := time.Now()
	result, err := t.idx.NNSearch(ctx, q, applySearchOptions(optFns))
	t.opts.metricsCollector.RecordSearch("nn", 1, time.Since(start), err)
	t.opts.logger.LogSearch(ctx, "nn", 1, 1, err)

	return result, translateError(err)
}

// KNNSearch returns up to k nearest points to q, ascending by distance.
func (t *KDTree) KNNSearch(ctx context.Context, q []float32, k int, optFns ...SearchOption) ([]index.SearchResult, error) {
	if err := t.opts.controller.AcquireSearch(ctx); err != nil {
		return nil, err
	}
	defer t.opts.controller.ReleaseSearch()

	start := time.Now()
	results, err := t.idx.KNNSearch(ctx, q, k, applySearchOptions(optFns))
	t.opts.metricsCollector.RecordSearch("knn", k, time.Since(start), err)
	t.opts.logger.LogSearch(ctx, "knn", k, len(results), err)

	return results, translateError(err)
}

// RangeSearch returns all points at distance strictly less than radius
// from q, in unspecified order.
func (t *KDTree) RangeSearch(ctx context.Context, q []float32, radius float32, optFns ...SearchOption) ([]index.SearchResult, error) {
	if err := t.opts.controller.AcquireSearch(ctx); err != nil {
		return nil, err
	}
	defer t.opts.controller.ReleaseSearch()

	start := time.Now()
	results, err := t.idx.RangeSearch(ctx, q, radius, applySearchOptions(optFns))
	t.opts.metricsCollector.RecordSearch("range", 0, time.Since(start), err)
	t.opts.logger.LogSearch(ctx, "range", 0, len(results), err)

	return results, translateError(err)
}

// BatchKNNSearch runs KNNSearch for every query with bounded parallelism
// and returns per-query results in input order. The first failing query
// cancels the remaining ones.
func (t *KDTree) BatchKNNSearch(ctx context.Context, queries [][]float32, k int, optFns ...SearchOption) ([][]index.SearchResult, error) {
	start := time.Now()

	results := make([][]index.SearchResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	limit := t.opts.batchParallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	var failed atomic.Int64
	for i, q := range queries {
		g.Go(func() error {
			res, err := t.KNNSearch(gctx, q, k, optFns...)
			if err != nil {
				failed.Add(1)
				return err
			}
			results[i] = res
			return nil
		})
	}

	err := g.Wait()
	t.opts.metricsCollector.RecordBatchSearch(len(queries), int(failed.Load()), time.Since(start))
	if err != nil {
		return nil, err
	}
	return results, nil
}
