package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

// bucket is the single bucket every cached entry lives in (grounded on
// neo-go's pkg/core/storage BoltDBStore, which likewise keeps all data
// in one fixed top-level bucket rather than per-kind buckets).
var bucket = []byte("decompilations")

// BoltStore is a Store backed by a single bbolt database file.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (creating if absent) a bbolt database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cache: create bolt dir: %w", err)
		}
	}
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("cache: open bolt store: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create bolt bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Get implements Store.
func (s *BoltStore) Get(key []byte) ([]byte, error) {
	var blob []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucket).Get(key)
		if v == nil {
			return ErrKeyNotFound
		}
		blob = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unframe(blob)
}

// Put implements Store.
func (s *BoltStore) Put(key, value []byte) error {
	blob, err := frame(value)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put(key, blob)
	})
}

// Close implements Store.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
