// Package index provides spatial index interfaces and shared types.
//
// Kdgo ships two index implementations:
//
//   - kdtree: balanced KD-tree with branch-and-bound pruning search
//   - flat: exact brute-force scan, useful as ground truth and for tiny sets
//
// Both are built once from a fixed point set and are immutable afterward.
package index

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// InvalidID is the sentinel returned by NNSearch on an empty index.
// It never collides with a real point ID because an index holding
// math.MaxUint32 points is not representable.
const InvalidID uint32 = math.MaxUint32

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrInvalidRadius is returned when a range search radius is negative.
	ErrInvalidRadius = errors.New("radius must be non-negative")
)

// ErrDimensionMismatch is a named error type for dimension mismatch.
type ErrDimensionMismatch struct {
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
}

// Error returns the error message for dimension mismatch.
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidDimension is a named error type for an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int
}

// Error returns the error message for an invalid dimension.
func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// ValidateDimension checks a configured dimension at construction time.
func ValidateDimension(dimension int) error {
	if dimension <= 0 {
		return &ErrInvalidDimension{Dimension: dimension}
	}
	return nil
}

// SearchResult represents a search result.
type SearchResult struct {
	// ID is the build-time position of the point in the indexed set.
	ID uint32

	// Distance is the Euclidean distance between the query and the point.
	Distance float32
}

// SearchOptions controls the execution of a search.
type SearchOptions struct {
	// Filter restricts results to IDs for which it returns true.
	// A nil Filter admits every point.
	Filter func(id uint32) bool
}

// Index is the common contract of kdgo spatial indexes.
//
// Build replaces the entire index state; searches are read-only against
// the state published by the most recent Build.
type Index interface {
	// Build replaces the index contents with the given points.
	// Points are copied; the caller's buffers are not retained.
	Build(ctx context.Context, points [][]float32) error

	// NNSearch returns the single nearest point to q.
	// On an empty index it returns SearchResult{ID: InvalidID, Distance: +Inf}.
	NNSearch(ctx context.Context, q []float32, opts *SearchOptions) (SearchResult, error)

	// KNNSearch returns up to k nearest points, ascending by distance.
	KNNSearch(ctx context.Context, q []float32, k int, opts *SearchOptions) ([]SearchResult, error)

	// RangeSearch returns all points at distance strictly less than radius.
	// Result order is unspecified.
	RangeSearch(ctx context.Context, q []float32, radius float32, opts *SearchOptions) ([]SearchResult, error)

	// Len returns the number of indexed points.
	Len() int

	// Dimension returns the fixed point dimensionality.
	Dimension() int
}
