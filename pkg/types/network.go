package types

import (
	"fmt"
	"strings"
)

// Network identifies one of the public Cardano networks.
type Network string

const (
	Mainnet Network = "mainnet"
	Preprod Network = "preprod"
	Preview Network = "preview"
)

// Network ids embedded in address headers. Every test network shares one id.
const (
	MainnetID byte = 1
	TestnetID byte = 0
)

// ParseNetwork validates a network name.
func ParseNetwork(s string) (Network, error) {
	switch n := Network(strings.ToLower(strings.TrimSpace(s))); n {
	case Mainnet, Preprod, Preview:
		return n, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownNetwork, s)
	}
}

// NetworkFromProjectID maps an indexer project id to its network. Project ids
// are prefixed with the network name, e.g. "preprodAbC...".
func NetworkFromProjectID(id string) (Network, error) {
	var found []Network
	for _, n := range []Network{Mainnet, Preprod, Preview} {
		if strings.HasPrefix(id, string(n)) {
			found = append(found, n)
		}
	}
	if len(found) != 1 {
		return "", fmt.Errorf("%w: project id does not name exactly one network", ErrUnknownNetwork)
	}
	return found[0], nil
}

// ID returns the address header network id.
func (n Network) ID() byte {
	if n.IsMainnet() {
		return MainnetID
	}
	return TestnetID
}

// IsMainnet reports whether n is mainnet.
func (n Network) IsMainnet() bool {
	return n == Mainnet
}

// AddressHRP returns the bech32 prefix for payment addresses.
func (n Network) AddressHRP() string {
	return addressHRP(n.ID())
}

// StakeHRP returns the bech32 prefix for reward addresses.
func (n Network) StakeHRP() string {
	return stakeHRP(n.ID())
}

func (n Network) String() string {
	return string(n)
}

func addressHRP(id byte) string {
	if id == MainnetID {
		return "addr"
	}
	return "addr_test"
}

func stakeHRP(id byte) string {
	if id == MainnetID {
		return "stake"
	}
	return "stake_test"
}
