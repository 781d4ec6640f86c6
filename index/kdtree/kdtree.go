// Package kdtree provides a balanced KD-tree spatial index for exact
// nearest-neighbor, k-nearest-neighbor, and radius range queries.
//
// The tree is built once over a fixed point set and is immutable afterward.
// Build partitions an index permutation by axis-cycling lower-median splits,
// so the tree height is ceil(log2 n) regardless of input distribution.
// Searches descend the near side first and prune the far side with the
// axis-distance lower bound.
package kdtree

import (
	"context"
	"math"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/kdgo/distance"
	"github.com/hupe1980/kdgo/index"
	"github.com/hupe1980/kdgo/internal/queue"
)

// Compile-time check to ensure KDTree satisfies the index interface.
var _ index.Index = (*KDTree)(nil)

// nilNode marks an absent child in the node arena.
const nilNode int32 = -1

// Node represents one partition step of the tree.
// Children reference positions in the arena; nilNode means no child.
type Node struct {
	Idx   uint32 // position of the pivot point in the owned point array
	Axis  int32  // coordinate dimension used to split children
	Left  int32
	Right int32
}

// Options contains configuration options for the KD-tree index.
type Options struct {
	// Dimension is the fixed point dimensionality for this index.
	// It must be > 0 and is enforced for all builds and searches.
	Dimension int
}

// DefaultOptions contains the default configuration options for the KD-tree index.
var DefaultOptions = Options{
	Dimension: 0,
}

// WithDimension sets the fixed point dimensionality.
func WithDimension(dimension int) func(o *Options) {
	return func(o *Options) {
		o.Dimension = dimension
	}
}

// treeState holds the immutable state of the index for lock-free reads.
// Build publishes a fully constructed state; searches never observe a
// partially built tree.
type treeState struct {
	dim   int
	data  []float32 // owned copy, row-major (n * dim)
	nodes []Node    // arena; nodes[root] is the top partition
	root  int32
}

// KDTree represents a balanced KD-tree over an owned copy of the point set.
// It uses an atomically swapped state, so searches are lock-free and safe
// concurrently with a rebuild.
type KDTree struct {
	state   atomic.Value // holds *treeState
	writeMu sync.Mutex   // serializes builds only
	opts    Options
}

// New creates a new KD-tree index. Dimension is required.
func New(optFns ...func(o *Options)) (*KDTree, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if err := index.ValidateDimension(opts.Dimension); err != nil {
		return nil, err
	}

	t := &KDTree{opts: opts}
	t.state.Store(&treeState{dim: opts.Dimension, root: nilNode})

	return t, nil
}

// getState returns the current immutable state (lock-free read).
func (t *KDTree) getState() *treeState {
	return t.state.Load().(*treeState)
}

// Name returns the index kind.
func (*KDTree) Name() string { return "KDTree" }

// Dimension returns the fixed point dimensionality.
func (t *KDTree) Dimension() int { return t.opts.Dimension }

// Len returns the number of indexed points.
func (t *KDTree) Len() int {
	return len(t.getState().nodes)
}

// Build replaces the index contents with the given points.
//
// Points are copied into owned storage; the caller's buffers are not
// retained. An empty point set produces an empty tree, not an error.
// The new tree is published atomically: searches either see the previous
// tree or the complete new one.
func (t *KDTree) Build(ctx context.Context, points [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dim := t.opts.Dimension
	for _, p := range points {
		if len(p) != dim {
			return &index.ErrDimensionMismatch{Expected: dim, Actual: len(p)}
		}
	}

	n := len(points)
	st := &treeState{
		dim:  dim,
		data: make([]float32, n*dim),
		root: nilNode,
	}
	for i, p := range points {
		copy(st.data[i*dim:(i+1)*dim], p)
	}

	if n > 0 {
		order := make([]uint32, n)
		for i := range order {
			order[i] = uint32(i)
		}
		st.nodes = make([]Node, 0, n)
		st.root = st.build(order, 0)
	}

	t.writeMu.Lock()
	t.state.Store(st)
	t.writeMu.Unlock()

	return nil
}

// build recursively partitions order by the lower median on the cycling
// axis and returns the arena position of the subtree root.
func (st *treeState) build(order []uint32, depth int) int32 {
	if len(order) == 0 {
		return nilNode
	}

	axis := depth % st.dim
	mid := (len(order) - 1) / 2

	st.selectNth(order, mid, axis)

	id := int32(len(st.nodes))
	st.nodes = append(st.nodes, Node{Idx: order[mid], Axis: int32(axis)})

	left := st.build(order[:mid], depth+1)
	right := st.build(order[mid+1:], depth+1)
	st.nodes[id].Left = left
	st.nodes[id].Right = right

	return id
}

// coord returns the axis coordinate of point idx.
func (st *treeState) coord(idx uint32, axis int) float32 {
	return st.data[int(idx)*st.dim+axis]
}

// point returns the coordinates of point idx.
func (st *treeState) point(idx uint32) []float32 {
	base := int(idx) * st.dim
	return st.data[base : base+st.dim]
}

// selectNth partially reorders order so that order[nth] holds the element
// that would be there after a full sort by the axis coordinate, with no
// larger element before it and no smaller element after it (quickselect).
// Ordering among equal-rank elements is unspecified.
func (st *treeState) selectNth(order []uint32, nth, axis int) {
	lo, hi := 0, len(order)-1
	for lo < hi {
		p := st.partition(order, lo, hi, axis)
		switch {
		case nth < p:
			hi = p - 1
		case nth > p:
			lo = p + 1
		default:
			return
		}
	}
}

// partition applies a median-of-three Lomuto partition to order[lo:hi+1]
// and returns the final pivot position.
func (st *treeState) partition(order []uint32, lo, hi, axis int) int {
	mid := lo + (hi-lo)/2
	if st.coord(order[mid], axis) < st.coord(order[lo], axis) {
		order[lo], order[mid] = order[mid], order[lo]
	}
	if st.coord(order[hi], axis) < st.coord(order[lo], axis) {
		order[lo], order[hi] = order[hi], order[lo]
	}
	if st.coord(order[hi], axis) < st.coord(order[mid], axis) {
		order[mid], order[hi] = order[hi], order[mid]
	}

	pivot := st.coord(order[mid], axis)
	order[mid], order[hi] = order[hi], order[mid]

	i := lo
	for j := lo; j < hi; j++ {
		if st.coord(order[j], axis) < pivot {
			order[i], order[j] = order[j], order[i]
			i++
		}
	}
	order[i], order[hi] = order[hi], order[i]
	return i
}

// Validate walks the tree and checks the one-level partition invariant at
// every node with two children: the pivot's axis coordinate is not less
// than the left child's and not greater than the right child's.
//
// It is a self-check for the builder, not required for query correctness.
// Violations are reported as a verdict, never as a panic or error.
func (t *KDTree) Validate() bool {
	st := t.getState()
	if st.root == nilNode {
		return true
	}
	return st.validate(st.root)
}

func (st *treeState) validate(id int32) bool {
	n := st.nodes[id]
	axis := int(n.Axis)

	if n.Left != nilNode && n.Right != nilNode {
		if st.coord(n.Idx, axis) < st.coord(st.nodes[n.Left].Idx, axis) {
			return false
		}
		if st.coord(n.Idx, axis) > st.coord(st.nodes[n.Right].Idx, axis) {
			return false
		}
	}

	if n.Left != nilNode && !st.validate(n.Left) {
		return false
	}
	if n.Right != nilNode && !st.validate(n.Right) {
		return false
	}
	return true
}

// NNSearch returns the single nearest point to q and its Euclidean distance.
//
// On an empty index it returns SearchResult{ID: index.InvalidID,
// Distance: +Inf} and a nil error.
func (t *KDTree) NNSearch(ctx context.Context, q []float32, opts *index.SearchOptions) (index.SearchResult, error) {
	best := index.SearchResult{ID: index.InvalidID, Distance: float32(math.Inf(1))}

	if err := ctx.Err(); err != nil {
		return best, err
	}

	st := t.getState()
	if len(q) != st.dim {
		return best, &index.ErrDimensionMismatch{Expected: st.dim, Actual: len(q)}
	}

	var filter func(id uint32) bool
	if opts != nil {
		filter = opts.Filter
	}

	st.nnSearch(q, st.root, filter, &best)
	return best, nil
}

func (st *treeState) nnSearch(q []float32, id int32, filter func(id uint32) bool, best *index.SearchResult) {
	if id == nilNode {
		return
	}

	n := st.nodes[id]
	p := st.point(n.Idx)

	if filter == nil || filter(n.Idx) {
		if d := distance.Euclidean(q, p); d < best.Distance {
			best.ID = n.Idx
			best.Distance = d
		}
	}

	axis := int(n.Axis)
	near, far := n.Left, n.Right
	if q[axis] >= p[axis] {
		near, far = n.Right, n.Left
	}

	st.nnSearch(q, near, filter, best)

	// No point behind the splitting plane can beat the current best if the
	// axis distance alone already reaches it.
	if distance.AbsDiff(q[axis], p[axis]) < best.Distance {
		st.nnSearch(q, far, filter, best)
	}
}

// KNNSearch returns up to k nearest points to q, ascending by distance.
//
// Fewer than k results are returned if the index holds fewer points.
// Ties at exactly equal distance have no guaranteed relative order.
func (t *KDTree) KNNSearch(ctx context.Context, q []float32, k int, opts *index.SearchOptions) ([]index.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if k <= 0 {
		return nil, index.ErrInvalidK
	}

	st := t.getState()
	if len(q) != st.dim {
		return nil, &index.ErrDimensionMismatch{Expected: st.dim, Actual: len(q)}
	}
	if len(st.nodes) == 0 {
		return nil, nil
	}

	var filter func(id uint32) bool
	if opts != nil {
		filter = opts.Filter
	}

	candidates, err := queue.NewBounded(k)
	if err != nil {
		return nil, err
	}

	st.knnSearch(q, st.root, filter, candidates)

	results := make([]index.SearchResult, candidates.Len())
	for i, item := range candidates.Items() {
		results[i] = index.SearchResult{ID: item.Node, Distance: item.Distance}
	}
	return results, nil
}

func (st *treeState) knnSearch(q []float32, id int32, filter func(id uint32) bool, candidates *queue.Bounded) {
	if id == nilNode {
		return
	}

	n := st.nodes[id]
	p := st.point(n.Idx)

	if filter == nil || filter(n.Idx) {
		candidates.Push(queue.PriorityQueueItem{Node: n.Idx, Distance: distance.Euclidean(q, p)})
	}

	axis := int(n.Axis)
	near, far := n.Left, n.Right
	if q[axis] >= p[axis] {
		near, far = n.Right, n.Left
	}

	st.knnSearch(q, near, filter, candidates)

	// Generalized pruning bound: the far side may still matter while the
	// accumulator is not full, or while the axis distance undercuts the
	// worst of the current best-k.
	if !candidates.Full() || distance.AbsDiff(q[axis], p[axis]) < candidates.Worst().Distance {
		st.knnSearch(q, far, filter, candidates)
	}
}

// RangeSearch returns all points at Euclidean distance strictly less than
// radius from q. Result order is unspecified; the caller must be prepared
// for up to Len() results.
func (t *KDTree) RangeSearch(ctx context.Context, q []float32, radius float32, opts *index.SearchOptions) ([]index.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if radius < 0 {
		return nil, index.ErrInvalidRadius
	}

	st := t.getState()
	if len(q) != st.dim {
		return nil, &index.ErrDimensionMismatch{Expected: st.dim, Actual: len(q)}
	}

	var filter func(id uint32) bool
	if opts != nil {
		filter = opts.Filter
	}

	var results []index.SearchResult
	st.rangeSearch(q, st.root, radius, filter, &results)
	return results, nil
}

func (st *treeState) rangeSearch(q []float32, id int32, radius float32, filter func(id uint32) bool, results *[]index.SearchResult) {
	if id == nilNode {
		return
	}

	n := st.nodes[id]
	p := st.point(n.Idx)

	if filter == nil || filter(n.Idx) {
		if d := distance.Euclidean(q, p); d < radius {
			*results = append(*results, index.SearchResult{ID: n.Idx, Distance: d})
		}
	}

	axis := int(n.Axis)
	near, far := n.Left, n.Right
	if q[axis] >= p[axis] {
		near, far = n.Right, n.Left
	}

	st.rangeSearch(q, near, radius, filter, results)

	// A point farther than radius on this axis alone cannot be in range.
	if distance.AbsDiff(q[axis], p[axis]) < radius {
		st.rangeSearch(q, far, radius, filter, results)
	}
}

// PointByID returns a copy of the coordinates stored for the given ID.
func (t *KDTree) PointByID(id uint32) ([]float32, bool) {
	st := t.getState()
	if int(id) >= len(st.nodes) {
		return nil, false
	}
	p := make([]float32, st.dim)
	copy(p, st.point(id))
	return p, true
}
