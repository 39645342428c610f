// Package types defines the value types shared by the Cardano toolkit.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HashSize is the length of a transaction or block hash in bytes.
const HashSize = 32

// KeyHashSize is the length of a credential hash (BLAKE2b-224) in bytes.
const KeyHashSize = 28

// Hash represents a 256-bit hash value.
type Hash [HashSize]byte

// KeyHash is the BLAKE2b-224 hash of a public key or script.
type KeyHash [KeyHashSize]byte

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the hex-encoded hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// MarshalJSON encodes the hash as a hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a hex string into a hash.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = Hash{}
		return nil
	}
	parsed, err := HexToHash(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// HexToHash converts a hex string to a Hash.
// Returns an error if the string is not exactly 64 hex characters.
func HexToHash(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != HashSize {
		return Hash{}, fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// String returns the hex-encoded key hash.
func (k KeyHash) String() string {
	return hex.EncodeToString(k[:])
}

// Bytes returns a copy of the key hash as a byte slice.
func (k KeyHash) Bytes() []byte {
	b := make([]byte, KeyHashSize)
	copy(b, k[:])
	return b
}

// MarshalJSON encodes the key hash as a hex string.
func (k KeyHash) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a hex string into a key hash.
func (k *KeyHash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := HexToKeyHash(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// HexToKeyHash converts a 56-character hex string to a KeyHash.
func HexToKeyHash(s string) (KeyHash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return KeyHash{}, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != KeyHashSize {
		return KeyHash{}, fmt.Errorf("key hash must be %d bytes, got %d", KeyHashSize, len(b))
	}
	var k KeyHash
	copy(k[:], b)
	return k, nil
}
