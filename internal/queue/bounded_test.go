package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBounded(t *testing.T) {
	t.Run("rejects non-positive capacity", func(t *testing.T) {
		_, err := NewBounded(0)
		assert.ErrorIs(t, err, ErrInvalidCapacity)

		_, err = NewBounded(-3)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
	})

	t.Run("starts empty", func(t *testing.T) {
		b, err := NewBounded(4)
		require.NoError(t, err)
		assert.Equal(t, 0, b.Len())
		assert.False(t, b.Full())
	})
}

func TestBoundedPush(t *testing.T) {
	t.Run("keeps ascending distance order", func(t *testing.T) {
		b, err := NewBounded(10)
		require.NoError(t, err)

		for _, d := range []float32{5, 1, 3, 2, 4} {
			b.Push(PriorityQueueItem{Node: uint32(d), Distance: d})
		}

		require.Equal(t, 5, b.Len())
		for i := 0; i < b.Len(); i++ {
			assert.Equal(t, float32(i+1), b.At(i).Distance)
		}
		assert.Equal(t, float32(5), b.Worst().Distance)
	})

	t.Run("truncates beyond capacity", func(t *testing.T) {
		b, err := NewBounded(3)
		require.NoError(t, err)

		for _, d := range []float32{9, 7, 8, 1, 5} {
			b.Push(PriorityQueueItem{Distance: d})
		}

		require.Equal(t, 3, b.Len())
		assert.True(t, b.Full())
		assert.Equal(t, float32(1), b.At(0).Distance)
		assert.Equal(t, float32(5), b.At(1).Distance)
		assert.Equal(t, float32(7), b.At(2).Distance)
		assert.Equal(t, float32(7), b.Worst().Distance)
	})

	t.Run("far candidate ignored when full", func(t *testing.T) {
		b, err := NewBounded(2)
		require.NoError(t, err)

		b.Push(PriorityQueueItem{Node: 1, Distance: 1})
		b.Push(PriorityQueueItem{Node: 2, Distance: 2})
		b.Push(PriorityQueueItem{Node: 3, Distance: 3})

		require.Equal(t, 2, b.Len())
		assert.Equal(t, uint32(1), b.At(0).Node)
		assert.Equal(t, uint32(2), b.At(1).Node)
	})

	t.Run("equal distances insert before existing", func(t *testing.T) {
		b, err := NewBounded(4)
		require.NoError(t, err)

		b.Push(PriorityQueueItem{Node: 1, Distance: 2})
		b.Push(PriorityQueueItem{Node: 2, Distance: 2})

		assert.Equal(t, uint32(2), b.At(0).Node)
		assert.Equal(t, uint32(1), b.At(1).Node)
	})

	t.Run("capacity one keeps only the best", func(t *testing.T) {
		b, err := NewBounded(1)
		require.NoError(t, err)

		b.Push(PriorityQueueItem{Node: 10, Distance: 4})
		b.Push(PriorityQueueItem{Node: 20, Distance: 2})
		b.Push(PriorityQueueItem{Node: 30, Distance: 3})

		require.Equal(t, 1, b.Len())
		assert.Equal(t, uint32(20), b.Worst().Node)
		assert.Equal(t, float32(2), b.Worst().Distance)
	})
}

func TestBoundedItems(t *testing.T) {
	b, err := NewBounded(3)
	require.NoError(t, err)

	b.Push(PriorityQueueItem{Node: 2, Distance: 2})
	b.Push(PriorityQueueItem{Node: 1, Distance: 1})

	items := b.Items()
	require.Len(t, items, 2)
	assert.Equal(t, uint32(1), items[0].Node)
	assert.Equal(t, uint32(2), items[1].Node)
}
