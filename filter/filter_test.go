package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := NewSet()
	assert.True(t, s.IsEmpty())

	s.Add(1)
	s.Add(5)
	s.Add(1)

	assert.False(t, s.IsEmpty())
	assert.Equal(t, uint64(2), s.Cardinality())
	assert.True(t, s.Contains(1))
	assert.True(t, s.Contains(5))
	assert.False(t, s.Contains(2))

	s.Remove(1)
	assert.False(t, s.Contains(1))
}

func TestFromIDs(t *testing.T) {
	s := FromIDs(3, 1, 2)
	assert.Equal(t, uint64(3), s.Cardinality())
	assert.True(t, s.Contains(2))
}

func TestAddRange(t *testing.T) {
	s := NewSet()
	s.AddRange(10, 15)

	assert.Equal(t, uint64(5), s.Cardinality())
	assert.True(t, s.Contains(10))
	assert.True(t, s.Contains(14))
	assert.False(t, s.Contains(15))
}

func TestSetOps(t *testing.T) {
	t.Run("and", func(t *testing.T) {
		a := FromIDs(1, 2, 3)
		a.And(FromIDs(2, 3, 4))
		assert.Equal(t, uint64(2), a.Cardinality())
		assert.True(t, a.Contains(2))
		assert.False(t, a.Contains(1))
	})

	t.Run("or", func(t *testing.T) {
		a := FromIDs(1, 2)
		a.Or(FromIDs(2, 3))
		assert.Equal(t, uint64(3), a.Cardinality())
	})

	t.Run("clone is independent", func(t *testing.T) {
		a := FromIDs(1)
		b := a.Clone()
		b.Add(2)
		assert.False(t, a.Contains(2))
		assert.True(t, b.Contains(2))
	})
}

func TestIterator(t *testing.T) {
	s := FromIDs(5, 1, 3)

	var ids []uint32
	for id := range s.Iterator() {
		ids = append(ids, id)
	}
	assert.Equal(t, []uint32{1, 3, 5}, ids)
}

func TestPredicate(t *testing.T) {
	t.Run("nil set admits everything", func(t *testing.T) {
		var s *Set
		assert.Nil(t, s.Predicate())
	})

	t.Run("membership test", func(t *testing.T) {
		pred := FromIDs(7).Predicate()
		require.NotNil(t, pred)
		assert.True(t, pred(7))
		assert.False(t, pred(8))
	})
}
