package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerDB implements DB on an in-memory Badger instance.
type BadgerDB struct {
	db *badger.DB
}

// NewBadger opens an in-memory Badger database. Its contents are lost on
// Close.
func NewBadger() (*BadgerDB, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory badger: %w", err)
	}
	return &BadgerDB{db: db}, nil
}

func (b *BadgerDB) Get(key []byte) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			val = append([]byte{}, v...)
			return nil
		})
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil, ErrKeyNotFound
	case err != nil:
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return val, nil
}

func (b *BadgerDB) Put(key, value []byte) error {
	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(key, value))
	}); err != nil {
		return fmt.Errorf("badger put: %w", err)
	}
	return nil
}

// Count walks keys only; values are never fetched.
func (b *BadgerDB) Count(prefix []byte) (int, error) {
	n := 0
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("badger count: %w", err)
	}
	return n, nil
}

func (b *BadgerDB) DropPrefix(prefix []byte) error {
	if err := b.db.DropPrefix(prefix); err != nil {
		return fmt.Errorf("badger drop prefix: %w", err)
	}
	return nil
}

func (b *BadgerDB) Close() error {
	return b.db.Close()
}
