package blockfrost

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Klingon-tech/cardakit/internal/paginate"
	"github.com/Klingon-tech/cardakit/pkg/types"
)

// assetTxJSON is one row of /assets/{asset}/transactions.
type assetTxJSON struct {
	TxHash      string `json:"tx_hash"`
	TxIndex     uint32 `json:"tx_index"`
	BlockHeight uint64 `json:"block_height"`
	BlockTime   int64  `json:"block_time"`
}

// GetTokenHistory returns at most limit transactions touching asset, newest
// first. Pages are requested one at a time and no page is requested once
// limit rows are in hand.
func (b *Blockfrost) GetTokenHistory(ctx context.Context, asset string, limit int) ([]types.TokenHistoryEntry, error) {
	query := url.Values{"order": {"desc"}}
	rows, err := paginate.Take(paginate.Sequential(ctx, b.sem, PageSize,
		listPage[assetTxJSON](b, "/assets/"+segment(asset)+"/transactions", query)), limit)
	if err != nil {
		return nil, fmt.Errorf("history of %s: %w", asset, err)
	}

	out := make([]types.TokenHistoryEntry, len(rows))
	for i, r := range rows {
		h, err := types.HexToHash(r.TxHash)
		if err != nil {
			return nil, fmt.Errorf("history of %s: %w", asset, err)
		}
		out[i] = types.TokenHistoryEntry{
			TxHash:      h,
			TxIndex:     r.TxIndex,
			BlockHeight: r.BlockHeight,
			Timestamp:   time.Unix(r.BlockTime, 0).UTC(),
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallel)
	for i, r := range rows {
		g.Go(func() error {
			amount, err := b.txAssetAmount(gctx, r.TxHash, asset)
			if err != nil {
				return err
			}
			out[i].Amount = amount
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("history of %s: %w", asset, err)
	}
	return out, nil
}

// txAssetAmount sums the quantity of asset across a transaction's outputs.
func (b *Blockfrost) txAssetAmount(ctx context.Context, txHash, asset string) (decimal.Decimal, error) {
	var tx txUtxosJSON
	err := b.fetch(ctx, "/txs/"+segment(txHash)+"/utxos", nil, &tx)
	if err != nil {
		return decimal.Zero, ignoreNotFound(err)
	}
	total := decimal.Zero
	for _, o := range tx.Outputs {
		if o.Collateral {
			continue
		}
		for _, a := range o.Amount {
			if a.Unit == asset {
				total = total.Add(a.Quantity)
			}
		}
	}
	return total, nil
}
