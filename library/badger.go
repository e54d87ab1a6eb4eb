package library

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerBlobStore keeps blobs in an embedded Badger database.
type BadgerBlobStore struct {
	db *badger.DB
}

// NewBadgerBlobStore opens the Badger database in dir. An empty dir opens an
// in-memory instance.
func NewBadgerBlobStore(dir string) (*BadgerBlobStore, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil      // Badger's internal logging is noisy on a CLI
	opts.SyncWrites = true // every mutation is a checkpoint

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &BadgerBlobStore{db: db}, nil
}

func (s *BadgerBlobStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *BadgerBlobStore) Put(key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *BadgerBlobStore) Close() error { return s.db.Close() }
