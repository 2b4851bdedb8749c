package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testStores(t *testing.T) map[string]Store {
	bolt, err := NewBoltStore(filepath.Join(t.TempDir(), "cache.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { bolt.Close() })

	level, err := NewLevelStore(filepath.Join(t.TempDir(), "cache.level"))
	require.NoError(t, err)
	t.Cleanup(func() { level.Close() })

	return map[string]Store{"bolt": bolt, "level": level}
}

func TestStorePutGetRoundTrips(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			key := []byte("script-hash")
			value := []byte("a serialized decompilation blob, repeated to exercise compression a bit more than a single byte would")

			require.NoError(t, store.Put(key, value))
			got, err := store.Get(key)
			require.NoError(t, err)
			require.Equal(t, value, got)
		})
	}
}

func TestStoreGetMissingKeyReturnsErrKeyNotFound(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get([]byte("absent"))
			require.ErrorIs(t, err, ErrKeyNotFound)
		})
	}
}

func TestStorePutOverwritesExistingKey(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			key := []byte("k")
			require.NoError(t, store.Put(key, []byte("first")))
			require.NoError(t, store.Put(key, []byte("second, a bit longer")))

			got, err := store.Get(key)
			require.NoError(t, err)
			require.Equal(t, []byte("second, a bit longer"), got)
		})
	}
}

func TestNewStoreDispatchesOnBackend(t *testing.T) {
	s, err := NewStore(Options{Backend: BackendBolt, Path: filepath.Join(t.TempDir(), "x.bolt")})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = NewStore(Options{Backend: "nonsense"})
	require.Error(t, err)
}

func TestFrameUnframeRoundTripsEmptyValue(t *testing.T) {
	blob, err := frame(nil)
	require.NoError(t, err)
	got, err := unframe(blob)
	require.NoError(t, err)
	require.Empty(t, got)
}
