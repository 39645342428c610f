package blockfrost

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Klingon-tech/cardakit/internal/log"
	"github.com/Klingon-tech/cardakit/internal/paginate"
	"github.com/Klingon-tech/cardakit/pkg/types"
)

// assetJSON is the subset of /assets/{asset} used for unique lookups.
type assetJSON struct {
	Asset             string          `json:"asset"`
	PolicyID          string          `json:"policy_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	InitialMintTxHash string          `json:"initial_mint_tx_hash"`
}

// GetAssetAddresses returns every holder of an asset with its quantity.
func (b *Blockfrost) GetAssetAddresses(ctx context.Context, asset string) ([]types.AssetAddress, error) {
	holders, err := paginate.All(ctx, b.sem, b.parallel,
		listPage[types.AssetAddress](b, "/assets/"+segment(asset)+"/addresses", nil))
	if err != nil {
		return nil, fmt.Errorf("holders of %s: %w", asset, err)
	}
	return holders, nil
}

// FindTokensOf returns the assets minted under a policy. Policies rarely
// span many pages, so pages are read one at a time.
func (b *Blockfrost) FindTokensOf(ctx context.Context, policyID string) ([]types.PolicyAsset, error) {
	assets, err := paginate.All(ctx, b.sem, 1,
		listPage[types.PolicyAsset](b, "/assets/policy/"+segment(policyID), nil))
	if err != nil {
		return nil, fmt.Errorf("assets of policy %s: %w", policyID, err)
	}
	return assets, nil
}

// FindAllTokens returns the asset ids minted under a policy.
func (b *Blockfrost) FindAllTokens(ctx context.Context, policyID string) ([]types.AssetID, error) {
	assets, err := b.FindTokensOf(ctx, policyID)
	if err != nil {
		return nil, err
	}
	ids := make([]types.AssetID, len(assets))
	for i, a := range assets {
		ids[i] = a.Asset
	}
	return ids, nil
}

// FindAllTokenHolders expands every asset of a policy into its holders.
// Both levels draw on the same permit pool. Holders are grouped by asset in
// policy listing order.
func (b *Blockfrost) FindAllTokenHolders(ctx context.Context, policyID string) ([]types.AssetHolder, error) {
	assets, err := b.FindTokensOf(ctx, policyID)
	if err != nil {
		return nil, err
	}

	perAsset := make([][]types.AssetAddress, len(assets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallel)
	for i, a := range assets {
		g.Go(func() error {
			// One page per asset at a time keeps the fan-out at the
			// policy level.
			holders, err := paginate.All(gctx, b.sem, 1,
				listPage[types.AssetAddress](b, "/assets/"+segment(a.Asset.String())+"/addresses", nil))
			if err != nil {
				return fmt.Errorf("holders of %s: %w", a.Asset, err)
			}
			perAsset[i] = holders
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []types.AssetHolder
	for i, holders := range perAsset {
		for _, h := range holders {
			out = append(out, types.AssetHolder{
				Asset:    assets[i].Asset,
				Address:  h.Address,
				Quantity: h.Quantity,
			})
		}
	}
	log.Provider.Debug().
		Str("policy", policyID).
		Int("assets", len(assets)).
		Int("holders", len(out)).
		Msg("expanded policy holders")
	return out, nil
}

// FindToken returns the single address holding a unique asset. The current
// holder listing is authoritative; when it is empty the outputs of the
// minting transaction are scanned instead. Every observed holder is checked,
// so a second holder or a quantity above one yields types.ErrNotUnique.
func (b *Blockfrost) FindToken(ctx context.Context, asset string) (string, error) {
	var info assetJSON
	if err := b.fetch(ctx, "/assets/"+segment(asset), nil, &info); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return "", fmt.Errorf("token %s: %w", asset, types.ErrNotFound)
		}
		return "", fmt.Errorf("token %s: %w", asset, err)
	}
	if info.Quantity.IsZero() {
		return "", fmt.Errorf("token %s: burned: %w", asset, types.ErrNotFound)
	}
	if info.Quantity.GreaterThan(decimal.NewFromInt(1)) {
		return "", fmt.Errorf("token %s: supply %s: %w", asset, info.Quantity, types.ErrNotUnique)
	}

	holders, err := b.GetAssetAddresses(ctx, asset)
	if err != nil {
		return "", err
	}
	if len(holders) == 0 {
		holders, err = b.mintHolders(ctx, asset, info.InitialMintTxHash)
		if err != nil {
			return "", err
		}
	}
	return uniqueHolder(asset, holders)
}

// mintHolders scans every output of the minting transaction for asset.
func (b *Blockfrost) mintHolders(ctx context.Context, asset, txHash string) ([]types.AssetAddress, error) {
	if txHash == "" {
		return nil, nil
	}
	outputs, err := b.GetTransactionUtxos(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("token %s: mint outputs: %w", asset, err)
	}
	var holders []types.AssetAddress
	for _, o := range outputs {
		if q := o.Assets.Get(asset); q.IsPositive() {
			holders = append(holders, types.AssetAddress{Address: o.Address, Quantity: q})
		}
	}
	return holders, nil
}

func uniqueHolder(asset string, holders []types.AssetAddress) (string, error) {
	switch {
	case len(holders) == 0:
		return "", fmt.Errorf("token %s: no holder: %w", asset, types.ErrNotFound)
	case len(holders) > 1:
		return "", fmt.Errorf("token %s: %d holders: %w", asset, len(holders), types.ErrNotUnique)
	case !holders[0].Quantity.Equal(decimal.NewFromInt(1)):
		return "", fmt.Errorf("token %s: quantity %s: %w", asset, holders[0].Quantity, types.ErrNotUnique)
	}
	return holders[0].Address, nil
}
