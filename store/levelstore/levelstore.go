// Package levelstore is a [store.Store] on goleveldb.
// all tables share one keyspace; a key is its table byte then the caller's key.
package levelstore

import (
	"errors"
	"fmt"

	"github.com/sanjit-bhat/anchorage/store"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

type Store struct {
	db *leveldb.DB
}

// Config mirrors the usual leveldb knobs. zero values take leveldb defaults.
type Config struct {
	File    string
	CacheMB int
	Handles int
}

func (c *Config) Open() (*Store, error) {
	o := &opt.Options{
		BlockCacheCapacity:     c.CacheMB * opt.MiB,
		OpenFilesCacheCapacity: c.Handles,
	}
	db, err := leveldb.OpenFile(c.File, o)
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}
	return &Store{db: db}, nil
}

// Open opens or creates the database directory at path.
func Open(path string) (*Store, error) {
	c := &Config{File: path}
	return c.Open()
}

// OpenMem opens a store that lives only in memory.
func OpenMem() (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}
	return &Store{db: db}, nil
}

func prefixed(t store.Table, key []byte) ([]byte, error) {
	if !store.Known(t) {
		return nil, &store.UnknownTableError{Table: t}
	}
	b := make([]byte, 0, 1+len(key))
	b = append(b, byte(t))
	return append(b, key...), nil
}

func (s *Store) Get(t store.Table, key []byte) ([]byte, bool, error) {
	k, err := prefixed(t, key)
	if err != nil {
		return nil, false, err
	}
	val, err := s.db.Get(k, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", t, err)
	}
	return val, true, nil
}

func (s *Store) Put(t store.Table, key, val []byte) error {
	k, err := prefixed(t, key)
	if err != nil {
		return err
	}
	if err := s.db.Put(k, val, nil); err != nil {
		return fmt.Errorf("put %s: %w", t, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
