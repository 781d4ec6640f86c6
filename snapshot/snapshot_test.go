package snapshot

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kdgo/index/kdtree"
	"github.com/hupe1980/kdgo/testutil"
)

func buildTree(t *testing.T, n, dim int) *kdtree.KDTree {
	t.Helper()

	rng := testutil.NewRNG(13)

	kdt, err := kdtree.New(kdtree.WithDimension(dim))
	require.NoError(t, err)
	require.NoError(t, kdt.Build(context.Background(), rng.UniformVectors(n, dim)))

	return kdt
}

func TestWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(compression.String(), func(t *testing.T) {
			kdt := buildTree(t, 200, 3)

			var buf bytes.Buffer
			require.NoError(t, Write(&buf, kdt, WithCompression(compression)))

			restored, err := Read(&buf)
			require.NoError(t, err)

			assert.Equal(t, kdt.Len(), restored.Len())
			assert.Equal(t, kdt.Dimension(), restored.Dimension())
			assert.True(t, restored.Validate())

			q := []float32{0.5, 0.5, 0.5}
			want, err := kdt.NNSearch(ctx, q, nil)
			require.NoError(t, err)
			got, err := restored.NNSearch(ctx, q, nil)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestReadRejectsMalformed(t *testing.T) {
	t.Run("truncated header", func(t *testing.T) {
		_, err := Read(bytes.NewReader([]byte{1, 2, 3}))
		assert.ErrorIs(t, err, ErrBadSnapshot)
	})

	t.Run("bad magic", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, buildTree(t, 10, 2)))

		raw := buf.Bytes()
		raw[0] ^= 0xff

		_, err := Read(bytes.NewReader(raw))
		assert.ErrorIs(t, err, ErrBadSnapshot)
	})

	t.Run("unsupported version", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, buildTree(t, 10, 2)))

		raw := buf.Bytes()
		raw[4] = 99

		_, err := Read(bytes.NewReader(raw))
		assert.ErrorIs(t, err, ErrBadSnapshot)
	})

	t.Run("truncated block", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, buildTree(t, 10, 2)))

		raw := buf.Bytes()

		_, err := Read(bytes.NewReader(raw[:len(raw)-4]))
		assert.Error(t, err)
	})
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.kdgo")

	kdt := buildTree(t, 50, 2)
	require.NoError(t, Save(path, kdt))

	restored, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, kdt.Len(), restored.Len())
	assert.True(t, restored.Validate())
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.kdgo")

	require.NoError(t, Save(path, buildTree(t, 20, 2)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "index.kdgo", entries[0].Name())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.kdgo"))
	assert.Error(t, err)
}

func TestCompressionString(t *testing.T) {
	assert.Equal(t, "None", CompressionNone.String())
	assert.Equal(t, "LZ4", CompressionLZ4.String())
	assert.Equal(t, "ZSTD", CompressionZSTD.String())
	assert.Equal(t, "Unknown(9)", Compression(9).String())
}
