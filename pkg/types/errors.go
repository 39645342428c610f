package types

import "errors"

// Invalid input. Returned at construction time.
var (
	ErrEmptyMnemonic      = errors.New("seed phrase cannot be empty")
	ErrInvalidMnemonic    = errors.New("invalid seed phrase")
	ErrUnknownNetwork     = errors.New("unknown network")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrInvalidConcurrency = errors.New("concurrency must be positive")
)

// Lookup and invariant failures.
var (
	// ErrNotFound is reported when the indexer has no such resource.
	ErrNotFound = errors.New("not found")
	// ErrNotUnique is reported when an asset expected to have exactly one
	// holder resolves to several, or to a quantity above one.
	ErrNotUnique = errors.New("not unique")
	// ErrNoStakeKey is reported for addresses without a key stake credential.
	ErrNoStakeKey = errors.New("no stake key attached to address")
	// ErrNetworkMismatch is reported when an address belongs to another network.
	ErrNetworkMismatch = errors.New("network mismatch")
)
