package cache

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
)

// LevelStore is a Store backed by a goleveldb database directory.
type LevelStore struct {
	db *leveldb.DB
}

// NewLevelStore opens (creating if absent) a goleveldb database at path.
func NewLevelStore(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("cache: open level store: %w", err)
	}
	return &LevelStore{db: db}, nil
}

// Get implements Store.
func (s *LevelStore) Get(key []byte) ([]byte, error) {
	blob, err := s.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return unframe(blob)
}

// Put implements Store.
func (s *LevelStore) Put(key, value []byte) error {
	blob, err := frame(value)
	if err != nil {
		return err
	}
	return s.db.Put(key, blob, nil)
}

// Close implements Store.
func (s *LevelStore) Close() error {
	return s.db.Close()
}
