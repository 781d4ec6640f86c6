// Package flat provides an exact brute-force index over the same contract
// as the KD-tree. Every search scans the full point set, so it doubles as
// ground truth for pruning-search implementations and stays competitive for
// very small sets where tree traversal overhead dominates.
package flat

import (
	"container/heap"
	"context"
	"math"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/kdgo/distance"
	"github.com/hupe1980/kdgo/index"
	"github.com/hupe1980/kdgo/internal/queue"
)

// Compile-time check to ensure Flat satisfies the index interface.
var _ index.Index = (*Flat)(nil)

// Options contains configuration options for the flat index.
type Options struct {
	// Dimension is the fixed point dimensionality for this index.
	// It must be > 0 and is enforced for all builds and searches.
	Dimension int
}

// DefaultOptions contains the default configuration options for the flat index.
var DefaultOptions = Options{
	Dimension: 0,
}

// WithDimension sets the fixed point dimensionality.
func WithDimension(dimension int) func(o *Options) {
	return func(o *Options) {
		o.Dimension = dimension
	}
}

// flatState holds the immutable state of the index for lock-free reads.
type flatState struct {
	dim  int
	data []float32 // owned copy, row-major (n * dim)
	n    int
}

// Flat represents a brute-force index over an owned copy of the point set.
type Flat struct {
	state   atomic.Value // holds *flatState
	writeMu sync.Mutex   // serializes builds only
	opts    Options
}

// New creates a new flat index. Dimension is required.
func New(optFns ...func(o *Options)) (*Flat, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if err := index.ValidateDimension(opts.Dimension); err != nil {
		return nil, err
	}

	f := &Flat{opts: opts}
	f.state.Store(&flatState{dim: opts.Dimension})

	return f, nil
}

func (f *Flat) getState() *flatState {
	return f.state.Load().(*flatState)
}

// Name returns the index kind.
func (*Flat) Name() string { return "Flat" }

// Dimension returns the fixed point dimensionality.
func (f *Flat) Dimension() int { return f.opts.Dimension }

// Len returns the number of indexed points.
func (f *Flat) Len() int { return f.getState().n }

// Build replaces the index contents with the given points.
// Points are copied; the caller's buffers are not retained.
func (f *Flat) Build(ctx context.Context, points [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dim := f.opts.Dimension
	for _, p := range points {
		if len(p) != dim {
			return &index.ErrDimensionMismatch{Expected: dim, Actual: len(p)}
		}
	}

	st := &flatState{
		dim:  dim,
		data: make([]float32, len(points)*dim),
		n:    len(points),
	}
	for i, p := range points {
		copy(st.data[i*dim:(i+1)*dim], p)
	}

	f.writeMu.Lock()
	f.state.Store(st)
	f.writeMu.Unlock()

	return nil
}

func (st *flatState) point(id uint32) []float32 {
	base := int(id) * st.dim
	return st.data[base : base+st.dim]
}

// NNSearch returns the single nearest point to q by scanning every point.
// On an empty index it returns SearchResult{ID: index.InvalidID, Distance: +Inf}.
func (f *Flat) NNSearch(ctx context.Context, q []float32, opts *index.SearchOptions) (index.SearchResult, error) {
	best := index.SearchResult{ID: index.InvalidID, Distance: float32(math.Inf(1))}

	if err := ctx.Err(); err != nil {
		return best, err
	}

	st := f.getState()
	if len(q) != st.dim {
		return best, &index.ErrDimensionMismatch{Expected: st.dim, Actual: len(q)}
	}

	var filter func(id uint32) bool
	if opts != nil {
		filter = opts.Filter
	}

	for id := uint32(0); int(id) < st.n; id++ {
		if filter != nil && !filter(id) {
			continue
		}
		if d := distance.Euclidean(q, st.point(id)); d < best.Distance {
			best.ID = id
			best.Distance = d
		}
	}
	return best, nil
}

// KNNSearch returns up to k nearest points, ascending by distance, using a
// bounded max-heap over a full scan.
func (f *Flat) KNNSearch(ctx context.Context, q []float32, k int, opts *index.SearchOptions) ([]index.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if k <= 0 {
		return nil, index.ErrInvalidK
	}

	st := f.getState()
	if len(q) != st.dim {
		return nil, &index.ErrDimensionMismatch{Expected: st.dim, Actual: len(q)}
	}
	if st.n == 0 {
		return nil, nil
	}

	var filter func(id uint32) bool
	if opts != nil {
		filter = opts.Filter
	}

	actualK := k
	if actualK > st.n {
		actualK = st.n
	}

	topCandidates := queue.NewMax(actualK)
	heap.Init(topCandidates)

	for id := uint32(0); int(id) < st.n; id++ {
		if filter != nil && !filter(id) {
			continue
		}

		d := distance.Euclidean(q, st.point(id))

		if topCandidates.Len() < actualK {
			heap.Push(topCandidates, queue.PriorityQueueItem{Node: id, Distance: d})
			continue
		}

		largest := topCandidates.Top().(queue.PriorityQueueItem)
		if d < largest.Distance {
			heap.Pop(topCandidates)
			heap.Push(topCandidates, queue.PriorityQueueItem{Node: id, Distance: d})
		}
	}

	results := make([]index.SearchResult, topCandidates.Len())
	for i := topCandidates.Len() - 1; i >= 0; i-- {
		item := heap.Pop(topCandidates).(queue.PriorityQueueItem)
		results[i] = index.SearchResult{ID: item.Node, Distance: item.Distance}
	}
	return results, nil
}

// RangeSearch returns all points at distance strictly less than radius.
func (f *Flat) RangeSearch(ctx context.Context, q []float32, radius float32, opts *index.SearchOptions) ([]index.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if radius < 0 {
		return nil, index.ErrInvalidRadius
	}

	st := f.getState()
	if len(q) != st.dim {
		return nil, &index.ErrDimensionMismatch{Expected: st.dim, Actual: len(q)}
	}

	var filter func(id uint32) bool
	if opts != nil {
		filter = opts.Filter
	}

	var results []index.SearchResult
	for id := uint32(0); int(id) < st.n; id++ {
		if filter != nil && !filter(id) {
			continue
		}
		if d := distance.Euclidean(q, st.point(id)); d < radius {
			results = append(results, index.SearchResult{ID: id, Distance: d})
		}
	}
	return results, nil
}
