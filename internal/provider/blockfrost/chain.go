package blockfrost

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Klingon-tech/cardakit/internal/paginate"
	"github.com/Klingon-tech/cardakit/internal/provider"
	"github.com/Klingon-tech/cardakit/pkg/types"
)

// ignoreNotFound maps a not-found error to nil.
func ignoreNotFound(err error) error {
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	return err
}

type blockJSON struct {
	Time          int64           `json:"time"`
	Height        uint64          `json:"height"`
	Hash          string          `json:"hash"`
	Slot          uint64          `json:"slot"`
	Epoch         uint64          `json:"epoch"`
	EpochSlot     uint64          `json:"epoch_slot"`
	SlotLeader    string          `json:"slot_leader"`
	Size          uint64          `json:"size"`
	TxCount       uint64          `json:"tx_count"`
	Output        decimal.Decimal `json:"output"`
	Fees          decimal.Decimal `json:"fees"`
	PreviousBlock string          `json:"previous_block"`
	NextBlock     string          `json:"next_block"`
	Confirmations uint64          `json:"confirmations"`
}

func (j blockJSON) block() *provider.Block {
	return &provider.Block{
		Hash:          j.Hash,
		Height:        j.Height,
		Slot:          j.Slot,
		Epoch:         j.Epoch,
		EpochSlot:     j.EpochSlot,
		Time:          time.Unix(j.Time, 0).UTC(),
		SlotLeader:    j.SlotLeader,
		Size:          j.Size,
		TxCount:       j.TxCount,
		Output:        j.Output,
		Fees:          j.Fees,
		PreviousBlock: j.PreviousBlock,
		NextBlock:     j.NextBlock,
		Confirmations: j.Confirmations,
	}
}

type txJSON struct {
	Hash        string `json:"hash"`
	Block       string `json:"block"`
	BlockHeight uint64 `json:"block_height"`
	BlockTime   int64  `json:"block_time"`
}

type epochJSON struct {
	Epoch          uint64          `json:"epoch"`
	StartTime      int64           `json:"start_time"`
	EndTime        int64           `json:"end_time"`
	FirstBlockTime int64           `json:"first_block_time"`
	LastBlockTime  int64           `json:"last_block_time"`
	BlockCount     uint64          `json:"block_count"`
	TxCount        uint64          `json:"tx_count"`
	Output         decimal.Decimal `json:"output"`
	Fees           decimal.Decimal `json:"fees"`
	ActiveStake    decimal.Decimal `json:"active_stake"`
}

func (j epochJSON) epoch() *provider.Epoch {
	return &provider.Epoch{
		Number:         j.Epoch,
		StartTime:      time.Unix(j.StartTime, 0).UTC(),
		EndTime:        time.Unix(j.EndTime, 0).UTC(),
		FirstBlockTime: time.Unix(j.FirstBlockTime, 0).UTC(),
		LastBlockTime:  time.Unix(j.LastBlockTime, 0).UTC(),
		BlockCount:     j.BlockCount,
		TxCount:        j.TxCount,
		Output:         j.Output,
		Fees:           j.Fees,
		ActiveStake:    j.ActiveStake,
	}
}

type networkJSON struct {
	Supply struct {
		Max         decimal.Decimal `json:"max"`
		Total       decimal.Decimal `json:"total"`
		Circulating decimal.Decimal `json:"circulating"`
		Locked      decimal.Decimal `json:"locked"`
		Treasury    decimal.Decimal `json:"treasury"`
		Reserves    decimal.Decimal `json:"reserves"`
	} `json:"supply"`
	Stake struct {
		Live   decimal.Decimal `json:"live"`
		Active decimal.Decimal `json:"active"`
	} `json:"stake"`
}

// GetHeight returns the height of the latest block.
func (b *Blockfrost) GetHeight(ctx context.Context) (uint64, error) {
	var latest blockJSON
	if err := b.fetch(ctx, "/blocks/latest", nil, &latest); err != nil {
		return 0, fmt.Errorf("latest block: %w", err)
	}
	if latest.Height == 0 {
		return 0, fmt.Errorf("latest block height: %w", types.ErrNotFound)
	}
	return latest.Height, nil
}

// GetConfirmations returns the number of blocks from the transaction's
// block to the latest one, both included.
func (b *Blockfrost) GetConfirmations(ctx context.Context, txHash string) (int64, error) {
	return b.GetConfirmationsAt(ctx, txHash, 0)
}

// GetConfirmationsAt is GetConfirmations against a known height. A zero
// height queries the latest block.
func (b *Blockfrost) GetConfirmationsAt(ctx context.Context, txHash string, height uint64) (int64, error) {
	var tx txJSON
	if err := b.fetch(ctx, "/txs/"+segment(txHash), nil, &tx); err != nil {
		return 0, fmt.Errorf("transaction %s: %w", txHash, err)
	}
	if height == 0 {
		h, err := b.GetHeight(ctx)
		if err != nil {
			return 0, err
		}
		height = h
	}
	return int64(height) - int64(tx.BlockHeight) + 1, nil
}

// GetMetadata returns the metadata attached to a transaction. An unknown
// transaction has none.
func (b *Blockfrost) GetMetadata(ctx context.Context, txHash string) ([]provider.MetadataEntry, error) {
	var entries []provider.MetadataEntry
	if err := b.fetch(ctx, "/txs/"+segment(txHash)+"/metadata", nil, &entries); err != nil {
		return nil, ignoreNotFound(err)
	}
	return entries, nil
}

// GetLatestBlock returns the tip of the chain.
func (b *Blockfrost) GetLatestBlock(ctx context.Context) (*provider.Block, error) {
	var j blockJSON
	if err := b.fetch(ctx, "/blocks/latest", nil, &j); err != nil {
		return nil, fmt.Errorf("latest block: %w", err)
	}
	return j.block(), nil
}

// GetBlock returns a block by hash or height.
func (b *Blockfrost) GetBlock(ctx context.Context, hashOrNumber string) (*provider.Block, error) {
	var j blockJSON
	if err := b.fetch(ctx, "/blocks/"+segment(hashOrNumber), nil, &j); err != nil {
		return nil, fmt.Errorf("block %s: %w", hashOrNumber, err)
	}
	return j.block(), nil
}

// GetBlockTransactions returns the hashes of a block's transactions in
// block order.
func (b *Blockfrost) GetBlockTransactions(ctx context.Context, hash string) ([]string, error) {
	txs, err := paginate.All(ctx, b.sem, b.parallel,
		listPage[string](b, "/blocks/"+segment(hash)+"/txs", nil))
	if err != nil {
		return nil, fmt.Errorf("transactions of block %s: %w", hash, err)
	}
	return txs, nil
}

// GetPool returns a stake pool's current state.
func (b *Blockfrost) GetPool(ctx context.Context, poolID string) (*provider.Pool, error) {
	var pool provider.Pool
	if err := b.fetch(ctx, "/pools/"+segment(poolID), nil, &pool); err != nil {
		return nil, fmt.Errorf("pool %s: %w", poolID, err)
	}
	return &pool, nil
}

// GetPoolMetadata returns a pool's registration metadata.
func (b *Blockfrost) GetPoolMetadata(ctx context.Context, poolID string) (*provider.PoolMetadata, error) {
	var md provider.PoolMetadata
	if err := b.fetch(ctx, "/pools/"+segment(poolID)+"/metadata", nil, &md); err != nil {
		return nil, fmt.Errorf("pool %s metadata: %w", poolID, err)
	}
	return &md, nil
}

// GetPoolHistory returns a pool's per-epoch performance.
func (b *Blockfrost) GetPoolHistory(ctx context.Context, poolID string) ([]provider.PoolHistoryEntry, error) {
	hist, err := paginate.All(ctx, b.sem, b.parallel,
		listPage[provider.PoolHistoryEntry](b, "/pools/"+segment(poolID)+"/history", nil))
	if err != nil {
		return nil, fmt.Errorf("pool %s history: %w", poolID, err)
	}
	return hist, nil
}

// GetPoolDelegators returns the stake addresses delegated to a pool.
func (b *Blockfrost) GetPoolDelegators(ctx context.Context, poolID string) ([]provider.PoolDelegator, error) {
	dels, err := paginate.All(ctx, b.sem, b.parallel,
		listPage[provider.PoolDelegator](b, "/pools/"+segment(poolID)+"/delegators", nil))
	if err != nil {
		return nil, fmt.Errorf("pool %s delegators: %w", poolID, err)
	}
	return dels, nil
}

// GetEpoch returns an epoch summary.
func (b *Blockfrost) GetEpoch(ctx context.Context, number uint64) (*provider.Epoch, error) {
	return b.epoch(ctx, strconv.FormatUint(number, 10))
}

// GetLatestEpoch returns the current epoch.
func (b *Blockfrost) GetLatestEpoch(ctx context.Context) (*provider.Epoch, error) {
	return b.epoch(ctx, "latest")
}

func (b *Blockfrost) epoch(ctx context.Context, which string) (*provider.Epoch, error) {
	var j epochJSON
	if err := b.fetch(ctx, "/epochs/"+which, nil, &j); err != nil {
		return nil, fmt.Errorf("epoch %s: %w", which, err)
	}
	return j.epoch(), nil
}

// GetEpochParameters returns the protocol parameters of an epoch.
func (b *Blockfrost) GetEpochParameters(ctx context.Context, number uint64) (*provider.EpochParameters, error) {
	var params provider.EpochParameters
	path := "/epochs/" + strconv.FormatUint(number, 10) + "/parameters"
	if err := b.fetch(ctx, path, nil, &params); err != nil {
		return nil, fmt.Errorf("epoch %d parameters: %w", number, err)
	}
	return &params, nil
}

// GetNetworkInfo returns supply and stake totals.
func (b *Blockfrost) GetNetworkInfo(ctx context.Context) (*provider.NetworkInfo, error) {
	var j networkJSON
	if err := b.fetch(ctx, "/network", nil, &j); err != nil {
		return nil, fmt.Errorf("network info: %w", err)
	}
	return &provider.NetworkInfo{
		MaxSupply:         j.Supply.Max,
		TotalSupply:       j.Supply.Total,
		CirculatingSupply: j.Supply.Circulating,
		LockedSupply:      j.Supply.Locked,
		Treasury:          j.Supply.Treasury,
		Reserves:          j.Supply.Reserves,
		LiveStake:         j.Stake.Live,
		ActiveStake:       j.Stake.Active,
	}, nil
}
