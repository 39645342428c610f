package wallet

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Klingon-tech/cardakit/internal/log"
	"github.com/Klingon-tech/cardakit/internal/provider"
	"github.com/Klingon-tech/cardakit/pkg/types"
)

// DefaultHistoryLimit is the number of history entries AssetHistory
// returns when no positive limit is given.
const DefaultHistoryLimit = 10

// Wallet is a point-in-time view of every output held by the addresses
// sharing one stake key. It is never refreshed in place; Refresh returns a
// new snapshot.
type Wallet struct {
	provider     provider.Provider
	address      string
	stakeAddress string
	addresses    []string
	utxos        []types.UTXO
	balance      Balance
}

// FromAddress builds a snapshot for the stake key attached to address. The
// address must belong to the provider's network and carry a key stake
// credential. Addresses with a script payment credential are skipped.
func FromAddress(ctx context.Context, p provider.Provider, address string) (*Wallet, error) {
	defer log.Benchmark("wallet.FromAddress")()

	addr, err := types.ParseAddress(address)
	if err != nil {
		return nil, err
	}
	if !addr.BelongsTo(p.Network()) {
		return nil, fmt.Errorf("%w: %s is not a %s address", types.ErrNetworkMismatch, address, p.Network())
	}
	reward, err := addr.RewardAddress()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", address, err)
	}
	stake, err := reward.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode reward address: %w", err)
	}

	linked, err := p.GetStakedAddresses(ctx, stake)
	if err != nil {
		return nil, err
	}
	addresses := spendable(linked)

	perAddress := make([][]types.UTXO, len(addresses))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range addresses {
		g.Go(func() error {
			utxos, err := p.GetUtxos(gctx, a)
			if err != nil {
				return err
			}
			perAddress[i] = utxos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	utxos := union(perAddress)

	w := &Wallet{
		provider:     p,
		address:      address,
		stakeAddress: stake,
		addresses:    addresses,
		utxos:        utxos,
		balance:      Fold(utxos),
	}
	log.Wallet.Debug().
		Str("stake", stake).
		Int("linked", len(linked)).
		Int("addresses", len(addresses)).
		Int("utxos", len(utxos)).
		Msg("wallet snapshot")
	return w, nil
}

// FromSeed builds a snapshot for the first address of phrase on the
// provider's network.
func FromSeed(ctx context.Context, p provider.Provider, phrase string) (*Wallet, error) {
	seed, err := NewSeed(phrase, p.Network())
	if err != nil {
		return nil, err
	}
	address, err := seed.Address()
	if err != nil {
		return nil, err
	}
	return FromAddress(ctx, p, address)
}

// spendable drops addresses guarded by a script and duplicates.
func spendable(linked []string) []string {
	seen := make(map[string]struct{}, len(linked))
	out := make([]string, 0, len(linked))
	for _, a := range linked {
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		parsed, err := types.ParseAddress(a)
		if err != nil {
			// Byron addresses and other forms without a Shelley
			// credential are not ours to spend.
			log.Wallet.Debug().Str("address", a).Err(err).Msg("skipping unparseable linked address")
			continue
		}
		if parsed.HasScriptPayment() {
			continue
		}
		out = append(out, a)
	}
	return out
}

// union merges outputs keyed by OutRef, ordered by transaction hash and
// output index.
func union(sets [][]types.UTXO) []types.UTXO {
	byRef := make(map[types.OutRef]types.UTXO)
	for _, set := range sets {
		for _, u := range set {
			byRef[u.OutRef] = u
		}
	}
	return slices.SortedFunc(maps.Values(byRef), func(a, b types.UTXO) int {
		if c := strings.Compare(a.TxHash.String(), b.TxHash.String()); c != 0 {
			return c
		}
		return int(a.OutputIndex) - int(b.OutputIndex)
	})
}

// Address returns the address the wallet was built from.
func (w *Wallet) Address() string {
	return w.address
}

// StakeAddress returns the reward address shared by the wallet's addresses.
func (w *Wallet) StakeAddress() string {
	return w.stakeAddress
}

// Addresses returns the linked addresses whose outputs were collected.
func (w *Wallet) Addresses() []string {
	return slices.Clone(w.addresses)
}

// Utxos returns the outputs held at snapshot time.
func (w *Wallet) Utxos() []types.UTXO {
	return slices.Clone(w.utxos)
}

// Balance returns the total base amount held.
func (w *Wallet) Balance() decimal.Decimal {
	return w.balance.Lovelace
}

// Assets returns the quantity held of every asset, one entry per unit.
func (w *Wallet) Assets() types.Assets {
	return maps.Clone(w.balance.Assets)
}

// AssetBalance returns the quantity held of asset, zero if none.
func (w *Wallet) AssetBalance(asset string) decimal.Decimal {
	return w.balance.Assets.Get(asset)
}

// HasBalance reports whether at least n of the base unit is held.
func (w *Wallet) HasBalance(n decimal.Decimal) bool {
	return w.balance.Covers(types.Lovelace, n)
}

// HasAsset reports whether at least n of asset is held.
func (w *Wallet) HasAsset(asset string, n decimal.Decimal) bool {
	return w.balance.Covers(asset, n)
}

// StakedAddresses queries every address currently linked to the wallet's
// stake key, script addresses included.
func (w *Wallet) StakedAddresses(ctx context.Context) ([]string, error) {
	return w.provider.GetStakedAddresses(ctx, w.stakeAddress)
}

// AssetHistory returns the most recent transactions touching asset. A
// limit below 1 means DefaultHistoryLimit.
func (w *Wallet) AssetHistory(ctx context.Context, asset string, limit int) ([]types.TokenHistoryEntry, error) {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	return w.provider.GetTokenHistory(ctx, asset, limit)
}

// Refresh queries the provider again and returns a new snapshot.
func (w *Wallet) Refresh(ctx context.Context) (*Wallet, error) {
	return FromAddress(ctx, w.provider, w.address)
}
