// Package provider defines the query contract the wallet aggregator consumes.
// Concrete backends live in sub-packages.
package provider

import (
	"context"
	"encoding/json"

	"github.com/Klingon-tech/cardakit/pkg/types"
)

// Provider answers ledger queries for one network. Implementations bound the
// number of simultaneous remote calls and are safe for concurrent use.
//
// Lookup methods (FindToken, GetConfirmations, GetHeight) report a missing
// resource with types.ErrNotFound. Listing methods return an empty result
// instead.
type Provider interface {
	// Network returns the network the provider is bound to.
	Network() types.Network

	// GetUtxos returns the unspent outputs held by address.
	GetUtxos(ctx context.Context, address string) ([]types.UTXO, error)
	// GetTransactionUtxos returns the outputs created by a transaction.
	GetTransactionUtxos(ctx context.Context, txHash string) ([]types.UTXO, error)
	// GetStakedAddresses returns every address ever associated with the
	// stake credential of a reward address.
	GetStakedAddresses(ctx context.Context, stakeAddress string) ([]string, error)

	// GetAssetAddresses returns every holder of an asset with its quantity.
	GetAssetAddresses(ctx context.Context, asset string) ([]types.AssetAddress, error)
	// FindToken returns the single address holding a unique asset.
	FindToken(ctx context.Context, asset string) (string, error)
	// FindTokensOf returns the assets minted under a policy with their
	// circulating quantity.
	FindTokensOf(ctx context.Context, policyID string) ([]types.PolicyAsset, error)
	// FindAllTokens returns the asset ids minted under a policy.
	FindAllTokens(ctx context.Context, policyID string) ([]types.AssetID, error)
	// FindAllTokenHolders expands every asset of a policy into its holders.
	FindAllTokenHolders(ctx context.Context, policyID string) ([]types.AssetHolder, error)
	// GetTokenHistory returns at most limit transactions touching asset,
	// newest first.
	GetTokenHistory(ctx context.Context, asset string, limit int) ([]types.TokenHistoryEntry, error)

	// GetHeight returns the height of the latest block.
	GetHeight(ctx context.Context) (uint64, error)
	// GetConfirmations returns latest height - tx block height + 1.
	GetConfirmations(ctx context.Context, txHash string) (int64, error)
	// GetConfirmationsAt is GetConfirmations against a known height.
	GetConfirmationsAt(ctx context.Context, txHash string, height uint64) (int64, error)
	// GetMetadata returns the metadata attached to a transaction.
	GetMetadata(ctx context.Context, txHash string) ([]MetadataEntry, error)
}

// ChainReader exposes read-only chain queries that are passed through to
// the backend with light field renaming.
type ChainReader interface {
	GetLatestBlock(ctx context.Context) (*Block, error)
	GetBlock(ctx context.Context, hashOrNumber string) (*Block, error)
	GetBlockTransactions(ctx context.Context, hash string) ([]string, error)

	GetPool(ctx context.Context, poolID string) (*Pool, error)
	GetPoolMetadata(ctx context.Context, poolID string) (*PoolMetadata, error)
	GetPoolHistory(ctx context.Context, poolID string) ([]PoolHistoryEntry, error)
	GetPoolDelegators(ctx context.Context, poolID string) ([]PoolDelegator, error)

	GetEpoch(ctx context.Context, number uint64) (*Epoch, error)
	GetLatestEpoch(ctx context.Context) (*Epoch, error)
	GetEpochParameters(ctx context.Context, number uint64) (*EpochParameters, error)

	GetNetworkInfo(ctx context.Context) (*NetworkInfo, error)
}

// MetadataEntry is one labelled metadata value of a transaction.
type MetadataEntry struct {
	Label        string          `json:"label"`
	JSONMetadata json.RawMessage `json:"json_metadata"`
}
