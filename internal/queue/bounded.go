package queue

import "errors"

// ErrInvalidCapacity is returned when a bounded queue is created with a
// non-positive capacity. A zero-capacity accumulator is almost certainly
// caller error, so it is rejected instead of behaving as always-empty.
var ErrInvalidCapacity = errors.New("queue: capacity must be positive")

// Bounded is a fixed-capacity list of items kept in ascending distance order.
// It is the accumulator for KNN traversals: every visited candidate is pushed
// and the tail beyond the capacity is discarded, so the last item is always
// the worst of the current best-k.
//
// Insertion is O(capacity), which beats a heap for the small k values KNN
// queries use in practice and keeps the items readable in sorted order
// without a final drain.
type Bounded struct {
	bound int
	items []PriorityQueueItem
}

// NewBounded creates a bounded queue with the given capacity.
func NewBounded(capacity int) (*Bounded, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Bounded{
		bound: capacity,
		items: make([]PriorityQueueItem, 0, capacity+1),
	}, nil
}

// Push inserts an item, keeping items ascending by distance, and truncates
// the tail if the capacity is exceeded.
//
// The item is placed immediately before the first existing entry that is not
// strictly closer, so among equal distances the newest entry lands before
// previously inserted ones.
func (b *Bounded) Push(item PriorityQueueItem) {
	pos := len(b.items)
	for i, existing := range b.items {
		if !(existing.Distance < item.Distance) {
			pos = i
			break
		}
	}

	b.items = append(b.items, PriorityQueueItem{})
	copy(b.items[pos+1:], b.items[pos:])
	b.items[pos] = item

	if len(b.items) > b.bound {
		b.items = b.items[:b.bound]
	}
}

// Worst returns the farthest (last) item.
// The caller must guarantee the queue is non-empty.
func (b *Bounded) Worst() PriorityQueueItem {
	return b.items[len(b.items)-1]
}

// At returns the i-th item in ascending distance order.
func (b *Bounded) At(i int) PriorityQueueItem {
	return b.items[i]
}

// Len returns the number of items currently held.
func (b *Bounded) Len() int { return len(b.items) }

// Full reports whether the queue has reached its capacity.
func (b *Bounded) Full() bool { return len(b.items) >= b.bound }

// Items returns the backing slice in ascending distance order.
// The slice is owned by the queue and must not be modified.
func (b *Bounded) Items() []PriorityQueueItem { return b.items }
