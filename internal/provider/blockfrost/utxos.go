package blockfrost

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Klingon-tech/cardakit/internal/log"
	"github.com/Klingon-tech/cardakit/internal/paginate"
	"github.com/Klingon-tech/cardakit/pkg/types"
)

// amountJSON is one unit/quantity pair of an output value.
type amountJSON struct {
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
}

// utxoJSON is an output as returned by the address and transaction
// endpoints. Transaction outputs carry no tx_hash.
type utxoJSON struct {
	TxHash              string       `json:"tx_hash"`
	OutputIndex         uint32       `json:"output_index"`
	Address             string       `json:"address"`
	Amount              []amountJSON `json:"amount"`
	DataHash            *string      `json:"data_hash"`
	InlineDatum         *string      `json:"inline_datum"`
	ReferenceScriptHash *string      `json:"reference_script_hash"`
	Collateral          bool         `json:"collateral"`
}

type txUtxosJSON struct {
	Hash    string     `json:"hash"`
	Outputs []utxoJSON `json:"outputs"`
}

type scriptJSON struct {
	Hash string `json:"script_hash"`
	Type string `json:"type"`
}

type scriptCBORJSON struct {
	CBOR *string `json:"cbor"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// toUTXO converts the wire form without resolving the reference script.
func toUTXO(u utxoJSON) (types.UTXO, error) {
	h, err := types.HexToHash(u.TxHash)
	if err != nil {
		return types.UTXO{}, fmt.Errorf("utxo %s#%d: %w", u.TxHash, u.OutputIndex, err)
	}
	out := types.UTXO{
		OutRef:  types.OutRef{TxHash: h, OutputIndex: u.OutputIndex},
		Address: u.Address,
		Amount:  decimal.Zero,
		Assets:  types.Assets{},
		Datum:   deref(u.InlineDatum),
	}
	if out.Datum == "" {
		out.DatumHash = deref(u.DataHash)
	}
	for _, a := range u.Amount {
		if a.Unit == types.Lovelace {
			out.Amount = out.Amount.Add(a.Quantity)
			continue
		}
		out.Assets.Add(a.Unit, a.Quantity)
	}
	return out, nil
}

// resolveScript returns the runnable reference script behind hash, or nil
// for a native script or one without CBOR.
func (b *Blockfrost) resolveScript(ctx context.Context, hash string) (*types.Script, error) {
	if script, ok := b.scripts.get(hash); ok {
		return script, nil
	}

	var info scriptJSON
	if err := b.fetch(ctx, "/scripts/"+segment(hash), nil, &info); err != nil {
		return nil, fmt.Errorf("script %s: %w", hash, err)
	}
	typ, err := types.ParseScriptType(info.Type)
	if err != nil {
		log.Provider.Debug().Str("script", hash).Str("type", info.Type).Msg("unrecognised script language")
	}
	if !typ.IsRunnable() {
		b.scripts.put(hash, nil)
		return nil, nil
	}

	var data scriptCBORJSON
	if err := b.fetch(ctx, "/scripts/"+segment(hash)+"/cbor", nil, &data); err != nil {
		return nil, fmt.Errorf("script %s cbor: %w", hash, err)
	}
	if data.CBOR == nil || *data.CBOR == "" {
		b.scripts.put(hash, nil)
		return nil, nil
	}
	cbor, err := hex.DecodeString(*data.CBOR)
	if err != nil {
		return nil, fmt.Errorf("script %s cbor: %w", hash, err)
	}
	script := &types.Script{Type: typ, CBOR: cbor}
	if typ == types.ScriptTypeUnknown {
		script.Kind = info.Type
	}
	b.scripts.put(hash, script)
	return script, nil
}

// toUTXOs converts outputs and resolves their reference scripts
// concurrently. Order is preserved.
func (b *Blockfrost) toUTXOs(ctx context.Context, raw []utxoJSON) ([]types.UTXO, error) {
	out := make([]types.UTXO, len(raw))
	for i, u := range raw {
		utxo, err := toUTXO(u)
		if err != nil {
			return nil, err
		}
		out[i] = utxo
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallel)
	for i, u := range raw {
		hash := deref(u.ReferenceScriptHash)
		if hash == "" {
			continue
		}
		g.Go(func() error {
			script, err := b.resolveScript(gctx, hash)
			if err != nil {
				return err
			}
			out[i].ScriptRef = script
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUtxos returns the unspent outputs held by address. Pages are read one
// at a time until a short page.
func (b *Blockfrost) GetUtxos(ctx context.Context, address string) ([]types.UTXO, error) {
	raw, err := paginate.Collect(paginate.Sequential(ctx, b.sem, PageSize,
		listPage[utxoJSON](b, "/addresses/"+segment(address)+"/utxos", nil)))
	if err != nil {
		return nil, fmt.Errorf("utxos of %s: %w", address, err)
	}
	utxos, err := b.toUTXOs(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("utxos of %s: %w", address, err)
	}
	log.Provider.Debug().Str("address", address).Int("count", len(utxos)).Msg("fetched utxos")
	return utxos, nil
}

// GetTransactionUtxos returns the outputs created by a transaction. An
// unknown transaction yields no outputs. Collateral outputs are skipped.
func (b *Blockfrost) GetTransactionUtxos(ctx context.Context, txHash string) ([]types.UTXO, error) {
	var tx txUtxosJSON
	err := b.fetch(ctx, "/txs/"+segment(txHash)+"/utxos", nil, &tx)
	if errors.Is(err, types.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("outputs of %s: %w", txHash, err)
	}

	raw := make([]utxoJSON, 0, len(tx.Outputs))
	for _, o := range tx.Outputs {
		if o.Collateral {
			continue
		}
		o.TxHash = txHash
		raw = append(raw, o)
	}
	return b.toUTXOs(ctx, raw)
}

type accountAddressJSON struct {
	Address string `json:"address"`
}

// GetStakedAddresses returns every address associated with a stake
// account. An unknown account yields no addresses.
func (b *Blockfrost) GetStakedAddresses(ctx context.Context, stakeAddress string) ([]string, error) {
	rows, err := paginate.All(ctx, b.sem, b.parallel,
		listPage[accountAddressJSON](b, "/accounts/"+segment(stakeAddress)+"/addresses", nil))
	if err != nil {
		return nil, fmt.Errorf("addresses of %s: %w", stakeAddress, err)
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Address
	}
	return out, nil
}
