package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// OutRef references a specific output in a transaction. The pair is globally
// unique and immutable once the transaction is final.
type OutRef struct {
	TxHash      Hash   `json:"tx_hash"`
	OutputIndex uint32 `json:"output_index"`
}

// String returns "txhash#index" in hex.
func (o OutRef) String() string {
	return fmt.Sprintf("%s#%d", o.TxHash.String(), o.OutputIndex)
}

// ParseOutRef parses "txhash#index".
func ParseOutRef(s string) (OutRef, error) {
	hash, idx, ok := strings.Cut(s, "#")
	if !ok {
		return OutRef{}, fmt.Errorf("outref %q: missing '#'", s)
	}
	h, err := HexToHash(hash)
	if err != nil {
		return OutRef{}, fmt.Errorf("outref %q: %w", s, err)
	}
	n, err := strconv.ParseUint(idx, 10, 32)
	if err != nil {
		return OutRef{}, fmt.Errorf("outref %q: %w", s, err)
	}
	return OutRef{TxHash: h, OutputIndex: uint32(n)}, nil
}

// UTXO is an unspent output as seen by the indexer. It is never mutated after
// construction.
type UTXO struct {
	OutRef
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"` // lovelace
	Assets  Assets          `json:"assets,omitempty"`
	// DatumHash is only set when the output carries no inline datum.
	DatumHash string  `json:"datum_hash,omitempty"`
	Datum     string  `json:"datum,omitempty"`
	ScriptRef *Script `json:"script_ref,omitempty"`
}

// Quantity returns the quantity of unit held by the output. The Lovelace unit
// returns the base-unit amount.
func (u *UTXO) Quantity(unit string) decimal.Decimal {
	if unit == Lovelace {
		return u.Amount
	}
	return u.Assets.Get(unit)
}
