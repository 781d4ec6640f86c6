// Package kdgo provides an embedded KD-tree spatial index for Go.
//
// Kdgo indexes a fixed set of fixed-dimension points once and answers exact
// nearest-neighbor, k-nearest-neighbor, and radius range queries many times.
// It targets proximity workloads (point clouds, clustering, collision
// checks) where the dataset is built once and queried often; it does not
// support insertion or deletion after construction; rebuild instead.
//
// # Quick Start
//
//	ctx := context.Background()
//	t, _ := kdgo.New(2)
//	_ = t.Build(ctx, [][]float32{{0, 0}, {1, 1}, {2, 2}, {9, 9}})
//
//	nearest, _ := t.NNSearch(ctx, []float32{1.1, 1.1})
//	top2, _ := t.KNNSearch(ctx, []float32{1.1, 1.1}, 2)
//	within, _ := t.RangeSearch(ctx, []float32{0, 0}, 1.5)
//
// # Filtered Search
//
// Searches accept an ID allowlist backed by a roaring bitmap:
//
//	allowed := filter.FromIDs(0, 2)
//	nearest, _ := t.NNSearch(ctx, query, kdgo.WithFilter(allowed))
//
// # Persistence
//
// A built tree can be snapshotted to disk and restored without a rebuild:
//
//	_ = t.Save("./tree.snap")
//	t2, _ := kdgo.Load("./tree.snap")
//
// # Concurrency
//
// Build publishes an immutable tree atomically; searches are lock-free
// reads of the published state and are safe from any number of goroutines,
// including concurrently with a rebuild.
//
// # Key Features
//
//   - Balanced axis-cycling median build (height ceil(log2 n) regardless of input order)
//   - Branch-and-bound pruning search for NN / KNN / range queries
//   - Roaring-bitmap search filters
//   - Snapshots with LZ4/ZSTD compression
//   - Batch search fan-out with bounded parallelism
package kdgo
