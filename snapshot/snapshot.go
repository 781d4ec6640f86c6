// Package snapshot persists built KD-trees to disk and restores them,
// avoiding a rebuild on process restart. The payload is gob-encoded and
// optionally block-compressed.
package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hupe1980/kdgo/index/kdtree"
)

// Format: [magic uint32][version uint8][compression uint8]
// followed by one block: [uncompressedSize uint32][compressedSize uint32][data].
// compressedSize == 0 means the block is stored uncompressed.
const (
	magic   uint32 = 0x4b44474f // "KDGO"
	version uint8  = 1

	headerSize      = 6
	blockHeaderSize = 8
)

// ErrBadSnapshot is returned when a snapshot is truncated or malformed.
var ErrBadSnapshot = errors.New("snapshot: malformed snapshot")

// Compression defines the compression algorithm used for the payload.
type Compression uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZSTD:
		return "ZSTD"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

// Options contains configuration options for writing snapshots.
type Options struct {
	// Compression selects the payload compression algorithm.
	Compression Compression
}

// DefaultOptions contains the default configuration options for snapshots.
var DefaultOptions = Options{
	Compression: CompressionZSTD,
}

// WithCompression selects the payload compression algorithm.
func WithCompression(c Compression) func(o *Options) {
	return func(o *Options) {
		o.Compression = c
	}
}

// Write serializes a built tree to w.
func Write(w io.Writer, t *kdtree.KDTree, optFns ...func(o *Options)) error {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	payload, err := t.GobEncode()
	if err != nil {
		return err
	}

	block, err := compressBlock(payload, opts.Compression)
	if err != nil {
		return err
	}

	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header[0:], magic)
	header[4] = version
	header[5] = uint8(opts.Compression)

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err = w.Write(block)
	return err
}

// Read deserializes a tree from r.
func Read(r io.Reader) (*kdtree.KDTree, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(raw) < headerSize {
		return nil, ErrBadSnapshot
	}

	if binary.LittleEndian.Uint32(raw[0:]) != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrBadSnapshot)
	}
	if raw[4] != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, raw[4])
	}
	compression := Compression(raw[5])

	payload, err := decompressBlock(raw[headerSize:], compression)
	if err != nil {
		return nil, err
	}

	t := new(kdtree.KDTree)
	if err := t.GobDecode(payload); err != nil {
		return nil, err
	}
	return t, nil
}

// Save writes a snapshot to path atomically: the snapshot is written to a
// temp file in the same directory and renamed into place, so a crash never
// leaves a truncated snapshot at path.
func Save(path string, t *kdtree.KDTree, optFns ...func(o *Options)) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := Write(tmp, t, optFns...); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}

// Load reads a snapshot from path.
func Load(path string) (*kdtree.KDTree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}
