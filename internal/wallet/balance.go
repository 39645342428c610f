package wallet

import (
	"github.com/shopspring/decimal"

	"github.com/Klingon-tech/cardakit/pkg/types"
)

// Balance is the value held by a set of outputs.
type Balance struct {
	Lovelace decimal.Decimal
	Assets   types.Assets
}

// Fold sums the base amount and every asset quantity across utxos.
func Fold(utxos []types.UTXO) Balance {
	b := Balance{Lovelace: decimal.Zero, Assets: types.Assets{}}
	for i := range utxos {
		b.Lovelace = b.Lovelace.Add(utxos[i].Amount)
		for unit, q := range utxos[i].Assets {
			b.Assets.Add(unit, q)
		}
	}
	return b
}

// Quantity returns the amount of unit held. The Lovelace unit returns the
// base amount; an unknown asset returns zero.
func (b Balance) Quantity(unit string) decimal.Decimal {
	if unit == types.Lovelace {
		return b.Lovelace
	}
	return b.Assets.Get(unit)
}

// Covers reports whether at least n of unit is held.
func (b Balance) Covers(unit string, n decimal.Decimal) bool {
	return b.Quantity(unit).GreaterThanOrEqual(n)
}
