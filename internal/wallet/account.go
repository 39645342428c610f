package wallet

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip32"
)

// Role selects a chain below the account key.
type Role uint32

const (
	// RolePayment is the external payment chain.
	RolePayment Role = 0
	// RoleChange is the internal change chain.
	RoleChange Role = 1
	// RoleStake is the staking key chain.
	RoleStake Role = 2
)

func (r Role) String() string {
	switch r {
	case RolePayment:
		return "payment"
	case RoleChange:
		return "change"
	case RoleStake:
		return "stake"
	default:
		return fmt.Sprintf("role(%d)", uint32(r))
	}
}

// ParseRole accepts a role name or its number.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "payment", "0":
		return RolePayment, nil
	case "change", "1":
		return RoleChange, nil
	case "stake", "2":
		return RoleStake, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

// DeriveAccountKey derives the first account key m/1852'/1815'/0' of seed.
func DeriveAccountKey(seed *Seed) *HDKey {
	return seed.account
}

// deriveAccount runs the three hardened steps from the master key.
func deriveAccount(master *HDKey, account uint32) (*HDKey, error) {
	return master.DerivePath(PurposeCIP1852, CoinTypeADA, bip32.FirstHardenedChild+account)
}

// DerivePath derives account/role/index with two soft steps. Both role and
// index must be below the hardened offset.
func DerivePath(account *HDKey, role Role, index uint32) (*HDKey, error) {
	if uint32(role) >= bip32.FirstHardenedChild || index >= bip32.FirstHardenedChild {
		return nil, fmt.Errorf("derive %s/%d: soft index required", role, index)
	}
	return account.DerivePath(uint32(role), index)
}
