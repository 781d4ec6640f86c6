package kdtree

import (
	"bytes"
	"context"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kdgo/testutil"
)

func TestGobRoundTrip(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(5)

	points := rng.UniformVectors(100, 3)

	kdt, err := New(WithDimension(3))
	require.NoError(t, err)
	require.NoError(t, kdt.Build(ctx, points))

	data, err := kdt.GobEncode()
	require.NoError(t, err)

	restored := new(KDTree)
	require.NoError(t, restored.GobDecode(data))

	assert.Equal(t, kdt.Len(), restored.Len())
	assert.Equal(t, kdt.Dimension(), restored.Dimension())
	assert.True(t, restored.Validate())

	for range 20 {
		q := rng.UniformVectors(1, 3)[0]

		want, err := kdt.NNSearch(ctx, q, nil)
		require.NoError(t, err)

		got, err := restored.NNSearch(ctx, q, nil)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestGobRoundTripEmpty(t *testing.T) {
	kdt, err := New(WithDimension(4))
	require.NoError(t, err)

	data, err := kdt.GobEncode()
	require.NoError(t, err)

	restored := new(KDTree)
	require.NoError(t, restored.GobDecode(data))

	assert.Equal(t, 0, restored.Len())
	assert.Equal(t, 4, restored.Dimension())
	assert.True(t, restored.Validate())
}

func TestGobDecodeRejectsGarbage(t *testing.T) {
	restored := new(KDTree)
	assert.Error(t, restored.GobDecode([]byte("not a gob payload")))
}

func TestGobDecodeRejectsDanglingReferences(t *testing.T) {
	ctx := context.Background()

	encode := func(t *testing.T, gs gobState) []byte {
		t.Helper()
		var buf bytes.Buffer
		require.NoError(t, gob.NewEncoder(&buf).Encode(gs))
		return buf.Bytes()
	}

	tests := []struct {
		name  string
		state gobState
	}{
		{
			name: "right child outside arena",
			state: gobState{
				Dimension: 2,
				Data:      []float32{0, 0, 1, 1},
				Nodes: []Node{
					{Idx: 0, Axis: 0, Left: nilNode, Right: nilNode},
					{Idx: 1, Axis: 1, Left: nilNode, Right: 7},
				},
				Root: 1,
			},
		},
		{
			name: "left child negative but not nil",
			state: gobState{
				Dimension: 1,
				Data:      []float32{0},
				Nodes:     []Node{{Idx: 0, Left: -5, Right: nilNode}},
				Root:      0,
			},
		},
		{
			name: "root outside arena",
			state: gobState{
				Dimension: 1,
				Data:      []float32{0},
				Nodes:     []Node{{Idx: 0, Left: nilNode, Right: nilNode}},
				Root:      3,
			},
		},
		{
			name: "point reference outside point array",
			state: gobState{
				Dimension: 1,
				Data:      []float32{0},
				Nodes:     []Node{{Idx: 9, Left: nilNode, Right: nilNode}},
				Root:      0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restored := new(KDTree)
			require.Error(t, restored.GobDecode(encode(t, tt.state)))

			// The receiver must stay usable as an empty tree, not fault.
			assert.NotPanics(t, func() {
				if restored.Dimension() > 0 {
					q := make([]float32, restored.Dimension())
					_, _ = restored.NNSearch(ctx, q, nil)
				}
			})
		})
	}
}
