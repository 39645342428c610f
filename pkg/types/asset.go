package types

import (
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Lovelace is the unit name of the base currency.
const Lovelace = "lovelace"

// PolicyIDSize is the length of a minting policy id in bytes.
const PolicyIDSize = KeyHashSize

// MaxAssetNameSize is the maximum length of an asset name in bytes.
const MaxAssetNameSize = 32

// AssetID is the concatenation of a hex policy id and a hex asset name.
type AssetID string

// ParseAssetID validates a hex asset unit.
func ParseAssetID(s string) (AssetID, error) {
	if len(s) < 2*PolicyIDSize || len(s) > 2*(PolicyIDSize+MaxAssetNameSize) {
		return "", fmt.Errorf("asset id %q: bad length %d", s, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("asset id %q: %w", s, err)
	}
	return AssetID(s), nil
}

// PolicyID returns the hex policy id.
func (a AssetID) PolicyID() string {
	if len(a) < 2*PolicyIDSize {
		return string(a)
	}
	return string(a[:2*PolicyIDSize])
}

// AssetName returns the hex asset name, possibly empty.
func (a AssetID) AssetName() string {
	if len(a) < 2*PolicyIDSize {
		return ""
	}
	return string(a[2*PolicyIDSize:])
}

func (a AssetID) String() string {
	return string(a)
}

// Assets maps asset units to quantities. Keys are unique; order is irrelevant.
type Assets map[string]decimal.Decimal

// Get returns the quantity held for unit, zero if absent.
func (a Assets) Get(unit string) decimal.Decimal {
	if q, ok := a[unit]; ok {
		return q
	}
	return decimal.Zero
}

// Add adds q to the quantity of unit.
func (a Assets) Add(unit string, q decimal.Decimal) {
	a[unit] = a.Get(unit).Add(q)
}

// Units returns the asset units in sorted order.
func (a Assets) Units() []string {
	units := make([]string, 0, len(a))
	for u := range a {
		units = append(units, u)
	}
	sort.Strings(units)
	return units
}

// AssetAddress is one holder of an asset.
type AssetAddress struct {
	Address  string          `json:"address"`
	Quantity decimal.Decimal `json:"quantity"`
}

// AssetHolder is a holder of one asset of a policy.
type AssetHolder struct {
	Asset    AssetID         `json:"asset"`
	Address  string          `json:"address"`
	Quantity decimal.Decimal `json:"quantity"`
}

// PolicyAsset is an asset minted under a policy with its circulating quantity.
type PolicyAsset struct {
	Asset    AssetID         `json:"asset"`
	Quantity decimal.Decimal `json:"quantity"`
}

// TokenHistoryEntry is one transaction touching an asset. Entries are ordered
// newest first.
type TokenHistoryEntry struct {
	TxHash      Hash            `json:"tx_hash"`
	TxIndex     uint32          `json:"tx_index"`
	BlockHeight uint64          `json:"block_height"`
	Amount      decimal.Decimal `json:"amount"`
	Timestamp   time.Time       `json:"timestamp"`
}
