// Package testutil provides deterministic random data generation and
// brute-force reference searches for cross-checking index implementations.
package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/kdgo/distance"
	"github.com/hupe1980/kdgo/index"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// FillUniform fills dst with random values in range [0, 1).
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float32()
		}
		vectors[i] = vec
	}

	return vectors
}

// BruteNearest returns the nearest point to q by exhaustive scan.
// On an empty set it returns the same sentinel the indexes document:
// ID index.InvalidID with +Inf distance.
func BruteNearest(points [][]float32, q []float32) index.SearchResult {
	best := index.SearchResult{ID: index.InvalidID, Distance: float32(math.Inf(1))}
	for i, p := range points {
		if d := distance.Euclidean(q, p); d < best.Distance {
			best.ID = uint32(i)
			best.Distance = d
		}
	}
	return best
}

// BruteKNN returns up to k nearest points to q by exhaustive scan,
// ascending by distance. Ties are broken by build-time index order.
func BruteKNN(points [][]float32, q []float32, k int) []index.SearchResult {
	all := make([]index.SearchResult, len(points))
	for i, p := range points {
		all[i] = index.SearchResult{ID: uint32(i), Distance: distance.Euclidean(q, p)}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Distance < all[j].Distance
	})
	if k < len(all) {
		all = all[:k]
	}
	return all
}

// BruteRange returns all points at distance strictly less than radius
// from q by exhaustive scan, in build-time index order.
func BruteRange(points [][]float32, q []float32, radius float32) []index.SearchResult {
	var results []index.SearchResult
	for i, p := range points {
		if d := distance.Euclidean(q, p); d < radius {
			results = append(results, index.SearchResult{ID: uint32(i), Distance: d})
		}
	}
	return results
}
