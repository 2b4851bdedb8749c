// Package cache provides a persistent, lz4-compressed key/value cache
// for serialized Decompilation blobs, behind a single Store interface
// with two selectable backends. Grounded on neo-go's pkg/core/storage
// (Store interface, NewStore factory dispatching on a config's Type
// field) and pkg/network/compress.go (the lz4 block compress/decompress
// helpers).
package cache

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4"
)

// ErrKeyNotFound is returned by Get when key has no entry (or its entry
// has expired, for backends that support expiry).
var ErrKeyNotFound = errors.New("cache: key not found")

// Store is the backend-agnostic persistent cache contract.
type Store interface {
	// Get returns the decompressed value for key, or ErrKeyNotFound.
	Get(key []byte) ([]byte, error)
	// Put stores value for key, compressed with lz4 before it reaches
	// the underlying backend.
	Put(key, value []byte) error
	Close() error
}

// Backend selects which persistent implementation NewStore constructs.
type Backend string

const (
	BackendBolt  Backend = "bolt"
	BackendLevel Backend = "level"
)

// Options configures NewStore.
type Options struct {
	Backend Backend
	Path    string
}

// NewStore opens the backend named by opts.Backend at opts.Path.
func NewStore(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendBolt:
		return NewBoltStore(opts.Path)
	case BackendLevel:
		return NewLevelStore(opts.Path)
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", opts.Backend)
	}
}

// rawMarker flags a frame whose payload was stored uncompressed because
// lz4.CompressBlock reported it as incompressible (it returns size 0
// rather than an error in that case, which is common for very small or
// already-dense inputs, and a cache keyed by script hash sees plenty of
// those for tiny contracts) or because compressing it did not make it
// smaller.
const rawMarker = 0xFFFFFFFF

// frame prepends value's uncompressed length to its lz4-compressed
// bytes, since lz4's block format (as opposed to its streaming frame
// format) needs the caller to know the decompressed size up front.
func frame(value []byte) ([]byte, error) {
	dest := make([]byte, lz4.CompressBlockBound(len(value)))
	size, err := lz4.CompressBlock(value, dest, nil)
	if err != nil {
		return nil, fmt.Errorf("cache: lz4 compress: %w", err)
	}

	out := make([]byte, 4, 4+len(value))
	if size == 0 || size >= len(value) {
		binary.BigEndian.PutUint32(out, rawMarker)
		return append(out, value...), nil
	}
	binary.BigEndian.PutUint32(out, uint32(len(value)))
	return append(out, dest[:size]...), nil
}

// unframe reverses frame.
func unframe(blob []byte) ([]byte, error) {
	if len(blob) < 4 {
		return nil, errors.New("cache: truncated cache entry")
	}
	originalSize := binary.BigEndian.Uint32(blob)
	payload := blob[4:]
	if originalSize == rawMarker {
		return payload, nil
	}

	dest := make([]byte, originalSize)
	size, err := lz4.UncompressBlock(payload, dest)
	if err != nil {
		return nil, fmt.Errorf("cache: lz4 decompress: %w", err)
	}
	return dest[:size], nil
}
