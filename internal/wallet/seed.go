package wallet

import (
	"fmt"

	"github.com/Klingon-tech/cardakit/pkg/types"
)

// Seed is a validated mnemonic bound to a network. It is immutable; every
// key is derived from it along an explicit path.
type Seed struct {
	network types.Network
	account *HDKey
}

// NewSeed validates phrase and derives its first account key. The phrase
// must pass the BIP-39 checksum.
func NewSeed(phrase string, net types.Network) (*Seed, error) {
	if _, err := types.ParseNetwork(string(net)); err != nil {
		return nil, err
	}
	entropy, err := MnemonicEntropy(phrase)
	if err != nil {
		return nil, err
	}
	master, err := NewMasterKey(entropy, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidMnemonic, err)
	}
	account, err := deriveAccount(master, 0)
	if err != nil {
		return nil, fmt.Errorf("derive account: %w", err)
	}
	return &Seed{network: net, account: account}, nil
}

// Network returns the network the seed encodes addresses for.
func (s *Seed) Network() types.Network {
	return s.network
}

// Key derives the key at role/index below the account.
func (s *Seed) Key(role Role, index uint32) (*HDKey, error) {
	return DerivePath(s.account, role, index)
}

// Address returns the base address of payment and stake key 0.
func (s *Seed) Address() (string, error) {
	return s.AddressAt(0, true)
}

// AddressAt returns the address of payment key index. With withStake the
// stake key of the same index is attached; otherwise a payment-only
// address is returned.
func (s *Seed) AddressAt(index uint32, withStake bool) (string, error) {
	pay, err := s.Key(RolePayment, index)
	if err != nil {
		return "", err
	}
	if !withStake {
		return types.EncodeAddress(pay.KeyHash(), nil, s.network)
	}
	stake, err := s.Key(RoleStake, index)
	if err != nil {
		return "", err
	}
	skh := stake.KeyHash()
	return types.EncodeAddress(pay.KeyHash(), &skh, s.network)
}

// StakeAddress returns the reward address of stake key index.
func (s *Seed) StakeAddress(index uint32) (string, error) {
	stake, err := s.Key(RoleStake, index)
	if err != nil {
		return "", err
	}
	return types.EncodeRewardAddress(stake.KeyHash(), s.network)
}

// PrivateKey returns the bech32 extended private key at role/index.
func (s *Seed) PrivateKey(role Role, index uint32) (string, error) {
	k, err := s.Key(role, index)
	if err != nil {
		return "", err
	}
	return k.Bech32PrivateKey()
}
