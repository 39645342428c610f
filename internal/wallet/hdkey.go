package wallet

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/tyler-smith/go-bip32"
	"golang.org/x/crypto/pbkdf2"

	"github.com/Klingon-tech/cardakit/pkg/crypto"
	"github.com/Klingon-tech/cardakit/pkg/types"
)

// CIP-1852 derivation path constants.
// Full path: m/1852'/1815'/account'/role/index
const (
	// PurposeCIP1852 is the Shelley-era purpose field (hardened).
	PurposeCIP1852 = bip32.FirstHardenedChild + 1852

	// CoinTypeADA is the registered coin type (hardened).
	CoinTypeADA = bip32.FirstHardenedChild + 1815

	// masterIterations is the PBKDF2 round count of the Icarus master key.
	masterIterations = 4096
)

// Key sizes in bytes.
const (
	PrivateKeySize  = 64 // kL || kR
	PublicKeySize   = 32
	ChainCodeSize   = 32
	ExtendedKeySize = PrivateKeySize + ChainCodeSize
)

// Bech32 prefixes for key material.
const (
	PrivateKeyHRP = "ed25519e_sk"
	PublicKeyHRP  = "ed25519_pk"
)

// HDKey is a BIP32-Ed25519 extended key. It is immutable; every derivation
// returns a new key.
type HDKey struct {
	priv    [PrivateKeySize]byte
	pub     [PublicKeySize]byte
	chain   [ChainCodeSize]byte
	depth   uint8
	private bool
}

// NewMasterKey creates the Icarus master key for the given mnemonic entropy
// and passphrase.
func NewMasterKey(entropy []byte, passphrase string) (*HDKey, error) {
	switch len(entropy) {
	case 16, 20, 24, 28, 32:
	default:
		return nil, fmt.Errorf("entropy must be 16-32 bytes in steps of 4, got %d", len(entropy))
	}

	raw := pbkdf2.Key([]byte(passphrase), entropy, masterIterations, ExtendedKeySize, sha512.New)
	raw[0] &= 0xf8
	raw[31] &= 0x1f
	raw[31] |= 0x40

	k := &HDKey{private: true}
	copy(k.priv[:], raw[:PrivateKeySize])
	copy(k.chain[:], raw[PrivateKeySize:])
	k.pub = publicKey(k.priv[:32])
	return k, nil
}

// DeriveChild derives a child key at the given index.
// For hardened derivation, add bip32.FirstHardenedChild to the index.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	hardened := index >= bip32.FirstHardenedChild
	if hardened && !k.private {
		return nil, fmt.Errorf("derive child %d: hardened derivation needs a private key", index)
	}

	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], index)

	zTag, cTag := byte(0x02), byte(0x03)
	var parent []byte
	if hardened {
		zTag, cTag = 0x00, 0x01
		parent = k.priv[:]
	} else {
		parent = k.pub[:]
	}
	z := hmacSHA512(k.chain[:], zTag, parent, idx[:])
	c := hmacSHA512(k.chain[:], cTag, parent, idx[:])

	child := &HDKey{depth: k.depth + 1, private: k.private}
	copy(child.chain[:], c[32:])

	if !k.private {
		pub, err := addPublic(k.pub[:], z[:28])
		if err != nil {
			return nil, fmt.Errorf("derive child %d: %w", index, err)
		}
		child.pub = pub
		return child, nil
	}

	kl := addScaled(k.priv[:32], z[:28])
	kr := add256(k.priv[32:], z[32:])
	copy(child.priv[:32], kl[:])
	copy(child.priv[32:], kr[:])
	child.pub = publicKey(child.priv[:32])
	return child, nil
}

// DerivePath derives a key along a sequence of indices.
func (k *HDKey) DerivePath(indices ...uint32) (*HDKey, error) {
	current := k
	for _, idx := range indices {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// PrivateKeyBytes returns the 64-byte extended private key kL||kR.
// Returns nil if this is a public-only key.
func (k *HDKey) PrivateKeyBytes() []byte {
	if !k.private {
		return nil
	}
	out := make([]byte, PrivateKeySize)
	copy(out, k.priv[:])
	return out
}

// PublicKeyBytes returns the 32-byte Ed25519 public key.
func (k *HDKey) PublicKeyBytes() []byte {
	out := make([]byte, PublicKeySize)
	copy(out, k.pub[:])
	return out
}

// ChainCode returns the 32-byte chain code.
func (k *HDKey) ChainCode() []byte {
	out := make([]byte, ChainCodeSize)
	copy(out, k.chain[:])
	return out
}

// ExtendedBytes returns kL||kR||chaincode. Returns nil if this is a
// public-only key.
func (k *HDKey) ExtendedBytes() []byte {
	if !k.private {
		return nil
	}
	out := make([]byte, 0, ExtendedKeySize)
	out = append(out, k.priv[:]...)
	return append(out, k.chain[:]...)
}

// KeyHash returns the credential hash of the public key.
func (k *HDKey) KeyHash() types.KeyHash {
	return crypto.PubKeyHash(k.pub[:])
}

// Bech32PrivateKey encodes the extended private key as "ed25519e_sk1...".
func (k *HDKey) Bech32PrivateKey() (string, error) {
	if !k.private {
		return "", fmt.Errorf("public-only key has no private key")
	}
	return types.Bech32Encode(PrivateKeyHRP, k.priv[:])
}

// Bech32PublicKey encodes the public key as "ed25519_pk1...".
func (k *HDKey) Bech32PublicKey() (string, error) {
	return types.Bech32Encode(PublicKeyHRP, k.pub[:])
}

// IsPrivate returns true if this key contains a private key.
func (k *HDKey) IsPrivate() bool {
	return k.private
}

// Depth returns the derivation depth (0 for master).
func (k *HDKey) Depth() uint8 {
	return k.depth
}

// Neuter returns a public-key-only copy (for watch-only wallets).
// Soft children of the neutered key match the soft children of k.
func (k *HDKey) Neuter() *HDKey {
	return &HDKey{pub: k.pub, chain: k.chain, depth: k.depth}
}

func hmacSHA512(key []byte, tag byte, parent, index []byte) []byte {
	mac := hmac.New(sha512.New, key)
	mac.Write([]byte{tag})
	mac.Write(parent)
	mac.Write(index)
	return mac.Sum(nil)
}

// publicKey returns kL·B for a little-endian scalar kL.
func publicKey(kl []byte) [PublicKeySize]byte {
	var out [PublicKeySize]byte
	copy(out[:], edwards25519.NewIdentityPoint().ScalarBaseMult(scalar(kl)).Bytes())
	return out
}

// scalar reduces a 32-byte little-endian integer modulo the group order.
func scalar(le []byte) *edwards25519.Scalar {
	var wide [64]byte
	copy(wide[:], le)
	s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		panic(err) // 64-byte input never fails
	}
	return s
}

// addPublic returns A + 8*zL·B.
func addPublic(pub, zl []byte) ([PublicKeySize]byte, error) {
	var out [PublicKeySize]byte
	a, err := edwards25519.NewIdentityPoint().SetBytes(pub)
	if err != nil {
		return out, fmt.Errorf("invalid public key: %w", err)
	}
	var zero [32]byte
	tweak := addScaled(zero[:], zl)
	p := edwards25519.NewIdentityPoint().ScalarBaseMult(scalar(tweak[:]))
	copy(out[:], edwards25519.NewIdentityPoint().Add(a, p).Bytes())
	return out, nil
}

// addScaled returns kl + 8*zl as 256-bit little-endian integers, discarding
// overflow. zl is 28 bytes.
func addScaled(kl, zl []byte) [32]byte {
	var out [32]byte
	var carry uint16
	for i := 0; i < 32; i++ {
		r := uint16(kl[i]) + carry
		if i < len(zl) {
			r += uint16(zl[i]) << 3
		}
		out[i] = byte(r)
		carry = r >> 8
	}
	return out
}

// add256 returns a + b modulo 2^256, little-endian.
func add256(a, b []byte) [32]byte {
	var out [32]byte
	var carry uint16
	for i := 0; i < 32; i++ {
		r := uint16(a[i]) + uint16(b[i]) + carry
		out[i] = byte(r)
		carry = r >> 8
	}
	return out
}
