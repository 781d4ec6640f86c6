// Package filter provides ID allowlists for restricting searches to a
// subset of the indexed points, backed by 32-bit roaring bitmaps.
package filter

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Set is a compressed set of point IDs.
// It is cheap to build and to test membership against, which makes it
// suitable as a search filter even for large indexes.
type Set struct {
	rb *roaring.Bitmap
}

// NewSet creates a new empty set.
func NewSet() *Set {
	return &Set{rb: roaring.New()}
}

// FromIDs creates a set holding the given IDs.
func FromIDs(ids ...uint32) *Set {
	return &Set{rb: roaring.BitmapOf(ids...)}
}

// Add adds an ID to the set.
func (s *Set) Add(id uint32) {
	s.rb.Add(id)
}

// AddRange adds all IDs in [lo, hi) to the set.
func (s *Set) AddRange(lo, hi uint32) {
	s.rb.AddRange(uint64(lo), uint64(hi))
}

// Remove removes an ID from the set.
func (s *Set) Remove(id uint32) {
	s.rb.Remove(id)
}

// Contains checks if an ID is in the set.
func (s *Set) Contains(id uint32) bool {
	return s.rb.Contains(id)
}

// IsEmpty returns true if the set is empty.
func (s *Set) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Cardinality returns the number of IDs in the set.
func (s *Set) Cardinality() uint64 {
	return s.rb.GetCardinality()
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	return &Set{rb: s.rb.Clone()}
}

// And computes the intersection with another set.
func (s *Set) And(other *Set) {
	s.rb.And(other.rb)
}

// Or computes the union with another set.
func (s *Set) Or(other *Set) {
	s.rb.Or(other.rb)
}

// Iterator returns an iterator over the set in ascending ID order.
func (s *Set) Iterator() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// Predicate returns the membership test as a search filter function.
// A nil set admits every ID.
func (s *Set) Predicate() func(id uint32) bool {
	if s == nil {
		return nil
	}
	return s.Contains
}
