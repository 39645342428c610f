// Package wallet derives ledger keys and addresses from a seed phrase and
// aggregates wallet state through a provider.
package wallet

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"

	"github.com/Klingon-tech/cardakit/pkg/types"
)

// MnemonicEntropyBits is the entropy size for 24-word mnemonics.
const MnemonicEntropyBits = 256

// GenerateMnemonic creates a new 24-word BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// NormalizeMnemonic lowercases the phrase and collapses whitespace.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}

// ValidateMnemonic checks if a mnemonic is valid per BIP-39
// (correct word count, valid words, valid checksum).
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(NormalizeMnemonic(mnemonic))
}

// MnemonicEntropy returns the entropy bytes encoded by a mnemonic.
func MnemonicEntropy(mnemonic string) ([]byte, error) {
	norm := NormalizeMnemonic(mnemonic)
	if norm == "" {
		return nil, types.ErrEmptyMnemonic
	}
	entropy, err := bip39.EntropyFromMnemonic(norm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidMnemonic, err)
	}
	return entropy, nil
}
