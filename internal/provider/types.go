package provider

import (
	"time"

	"github.com/shopspring/decimal"
)

// Block is a block header with summary totals.
type Block struct {
	Hash          string          `json:"hash"`
	Height        uint64          `json:"height"`
	Slot          uint64          `json:"slot"`
	Epoch         uint64          `json:"epoch"`
	EpochSlot     uint64          `json:"epoch_slot"`
	Time          time.Time       `json:"time"`
	SlotLeader    string          `json:"slot_leader"`
	Size          uint64          `json:"size"`
	TxCount       uint64          `json:"tx_count"`
	Output        decimal.Decimal `json:"output"`
	Fees          decimal.Decimal `json:"fees"`
	PreviousBlock string          `json:"previous_block,omitempty"`
	NextBlock     string          `json:"next_block,omitempty"`
	Confirmations uint64          `json:"confirmations"`
}

// Pool is a stake pool's current state.
type Pool struct {
	ID             string          `json:"pool_id"`
	Hex            string          `json:"hex"`
	VRFKey         string          `json:"vrf_key"`
	BlocksMinted   uint64          `json:"blocks_minted"`
	LiveStake      decimal.Decimal `json:"live_stake"`
	LiveSaturation float64         `json:"live_saturation"`
	LiveDelegators uint64          `json:"live_delegators"`
	ActiveStake    decimal.Decimal `json:"active_stake"`
	DeclaredPledge decimal.Decimal `json:"declared_pledge"`
	LivePledge     decimal.Decimal `json:"live_pledge"`
	Margin         float64         `json:"margin_cost"`
	FixedCost      decimal.Decimal `json:"fixed_cost"`
	RewardAccount  string          `json:"reward_account"`
	Owners         []string        `json:"owners"`
}

// PoolMetadata is the off-chain registration metadata of a pool.
type PoolMetadata struct {
	PoolID      string `json:"pool_id"`
	URL         string `json:"url,omitempty"`
	Hash        string `json:"hash,omitempty"`
	Ticker      string `json:"ticker,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Homepage    string `json:"homepage,omitempty"`
}

// PoolHistoryEntry is a pool's performance in one epoch.
type PoolHistoryEntry struct {
	Epoch       uint64          `json:"epoch"`
	Blocks      uint64          `json:"blocks"`
	ActiveStake decimal.Decimal `json:"active_stake"`
	Delegators  uint64          `json:"delegators_count"`
	Rewards     decimal.Decimal `json:"rewards"`
	Fees        decimal.Decimal `json:"fees"`
}

// PoolDelegator is one stake address delegated to a pool.
type PoolDelegator struct {
	Address   string          `json:"address"`
	LiveStake decimal.Decimal `json:"live_stake"`
}

// Epoch summarises one epoch.
type Epoch struct {
	Number         uint64          `json:"epoch"`
	StartTime      time.Time       `json:"start_time"`
	EndTime        time.Time       `json:"end_time"`
	FirstBlockTime time.Time       `json:"first_block_time"`
	LastBlockTime  time.Time       `json:"last_block_time"`
	BlockCount     uint64          `json:"block_count"`
	TxCount        uint64          `json:"tx_count"`
	Output         decimal.Decimal `json:"output"`
	Fees           decimal.Decimal `json:"fees"`
	ActiveStake    decimal.Decimal `json:"active_stake,omitempty"`
}

// EpochParameters are the protocol parameters in force during an epoch.
type EpochParameters struct {
	Epoch            uint64          `json:"epoch"`
	MinFeeA          uint64          `json:"min_fee_a"`
	MinFeeB          uint64          `json:"min_fee_b"`
	MaxBlockSize     uint64          `json:"max_block_size"`
	MaxTxSize        uint64          `json:"max_tx_size"`
	KeyDeposit       decimal.Decimal `json:"key_deposit"`
	PoolDeposit      decimal.Decimal `json:"pool_deposit"`
	MinPoolCost      decimal.Decimal `json:"min_pool_cost"`
	CoinsPerUTxOSize decimal.Decimal `json:"coins_per_utxo_size"`
	ProtocolMajor    uint64          `json:"protocol_major_ver"`
	ProtocolMinor    uint64          `json:"protocol_minor_ver"`
}

// NetworkInfo holds supply and stake totals.
type NetworkInfo struct {
	MaxSupply         decimal.Decimal `json:"max_supply"`
	TotalSupply       decimal.Decimal `json:"total_supply"`
	CirculatingSupply decimal.Decimal `json:"circulating_supply"`
	LockedSupply      decimal.Decimal `json:"locked_supply"`
	Treasury          decimal.Decimal `json:"treasury"`
	Reserves          decimal.Decimal `json:"reserves"`
	LiveStake         decimal.Decimal `json:"live_stake"`
	ActiveStake       decimal.Decimal `json:"active_stake"`
}
