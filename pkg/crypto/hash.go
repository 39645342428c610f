// Package crypto provides the ledger hash functions.
package crypto

import (
	"golang.org/x/crypto/blake2b"

	"github.com/Klingon-tech/cardakit/pkg/types"
)

// KeyHash computes the BLAKE2b-224 digest used for address credentials.
func KeyHash(data []byte) types.KeyHash {
	h, _ := blake2b.New(types.KeyHashSize, nil) // only fails on bad size or key
	h.Write(data)
	var k types.KeyHash
	copy(k[:], h.Sum(nil))
	return k
}

// PubKeyHash returns the credential hash of an Ed25519 public key.
// Public keys must be 32 bytes; the length is not checked.
func PubKeyHash(pubKey []byte) types.KeyHash {
	return KeyHash(pubKey)
}
