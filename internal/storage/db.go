// Package storage provides the key-value stores backing process-lifetime
// caches. Nothing is written to disk.
package storage

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by Get for a missing key.
var ErrKeyNotFound = errors.New("key not found")

// DB is a volatile key-value store. Implementations are safe for
// concurrent use and copy values on the way in and out.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	// Count returns the number of keys starting with prefix.
	Count(prefix []byte) (int, error)
	// DropPrefix removes every key starting with prefix.
	DropPrefix(prefix []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Open returns an empty store of the named backend.
func Open(backend string) (DB, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendBadger:
		return NewBadger()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
