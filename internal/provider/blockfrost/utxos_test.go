package blockfrost

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Klingon-tech/cardakit/pkg/types"
)

const testAddr = "addr_test1qholder"

func utxoRow(n int, extra map[string]any) map[string]any {
	row := map[string]any{
		"address":      testAddr,
		"tx_hash":      txh(n),
		"output_index": n % 3,
		"amount":       amount(int64(1_000_000 + n)),
	}
	for k, v := range extra {
		row[k] = v
	}
	return row
}

func TestGetUtxos_Pages(t *testing.T) {
	f := newFakeAPI(t)
	path := "/addresses/" + testAddr + "/utxos"
	for i := range 150 {
		f.list(path, utxoRow(i, nil))
	}
	b := newTestProvider(t, f)

	utxos, err := b.GetUtxos(context.Background(), testAddr)
	require.NoError(t, err)
	require.Len(t, utxos, 150)
	assert.Equal(t, []int{1, 2}, f.pagesOf(path), "a short page ends the listing")
	for i, u := range utxos {
		assert.Equal(t, txh(i), u.TxHash.String())
		assert.Equal(t, uint32(i%3), u.OutputIndex)
		assert.True(t, decimal.NewFromInt(int64(1_000_000+i)).Equal(u.Amount))
	}
}

func TestGetUtxos_ExactPage(t *testing.T) {
	f := newFakeAPI(t)
	path := "/addresses/" + testAddr + "/utxos"
	for i := range 100 {
		f.list(path, utxoRow(i, nil))
	}
	b := newTestProvider(t, f)

	utxos, err := b.GetUtxos(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Len(t, utxos, 100)
	assert.Equal(t, []int{1, 2}, f.pagesOf(path))
}

func TestGetUtxos_UnknownAddress(t *testing.T) {
	f := newFakeAPI(t)
	b := newTestProvider(t, f)

	utxos, err := b.GetUtxos(context.Background(), "addr_test1qnobody")
	require.NoError(t, err)
	assert.Empty(t, utxos)
}

func TestGetUtxos_Assets(t *testing.T) {
	f := newFakeAPI(t)
	nft := assetOf("6e6674")
	f.list("/addresses/"+testAddr+"/utxos", utxoRow(1, map[string]any{
		"amount": amount(2_000_000, nft, 1, assetOf("ff"), "18446744073709551617"),
	}))
	b := newTestProvider(t, f)

	utxos, err := b.GetUtxos(context.Background(), testAddr)
	require.NoError(t, err)
	require.Len(t, utxos, 1)
	u := utxos[0]
	assert.True(t, decimal.NewFromInt(2_000_000).Equal(u.Quantity(types.Lovelace)))
	assert.True(t, decimal.NewFromInt(1).Equal(u.Quantity(nft)))
	big, _ := decimal.NewFromString("18446744073709551617")
	assert.True(t, big.Equal(u.Assets.Get(assetOf("ff"))))
	assert.Equal(t, []string{nft, assetOf("ff")}, u.Assets.Units())
}

func TestGetUtxos_Datum(t *testing.T) {
	f := newFakeAPI(t)
	f.list("/addresses/"+testAddr+"/utxos",
		utxoRow(1, map[string]any{"data_hash": "aa", "inline_datum": "d87980"}),
		utxoRow(2, map[string]any{"data_hash": "bb", "inline_datum": nil}),
		utxoRow(3, nil),
	)
	b := newTestProvider(t, f)

	utxos, err := b.GetUtxos(context.Background(), testAddr)
	require.NoError(t, err)
	require.Len(t, utxos, 3)

	assert.Equal(t, "d87980", utxos[0].Datum)
	assert.Empty(t, utxos[0].DatumHash, "inline datum wins over the hash")
	assert.Empty(t, utxos[1].Datum)
	assert.Equal(t, "bb", utxos[1].DatumHash)
	assert.Empty(t, utxos[2].Datum)
	assert.Empty(t, utxos[2].DatumHash)
}

func TestGetUtxos_ReferenceScripts(t *testing.T) {
	f := newFakeAPI(t)
	plutus := strings.Repeat("01", 28)
	native := strings.Repeat("02", 28)
	noCBOR := strings.Repeat("03", 28)

	f.object("/scripts/"+plutus, map[string]any{"script_hash": plutus, "type": "plutusV2"})
	f.object("/scripts/"+plutus+"/cbor", map[string]any{"cbor": "4e4d01000033222220051200120011"})
	f.object("/scripts/"+native, map[string]any{"script_hash": native, "type": "timelock"})
	f.object("/scripts/"+noCBOR, map[string]any{"script_hash": noCBOR, "type": "plutusV1"})
	f.object("/scripts/"+noCBOR+"/cbor", map[string]any{"cbor": nil})
	f.list("/addresses/"+testAddr+"/utxos",
		utxoRow(1, map[string]any{"reference_script_hash": plutus}),
		utxoRow(2, map[string]any{"reference_script_hash": native}),
		utxoRow(3, map[string]any{"reference_script_hash": noCBOR}),
		utxoRow(4, nil),
	)
	b := newTestProvider(t, f)

	ctx := context.Background()
	utxos, err := b.GetUtxos(ctx, testAddr)
	require.NoError(t, err)
	require.Len(t, utxos, 4)

	require.NotNil(t, utxos[0].ScriptRef)
	assert.Equal(t, types.ScriptTypePlutusV2, utxos[0].ScriptRef.Type)
	assert.Equal(t, "4e4d01000033222220051200120011", fmt.Sprintf("%x", utxos[0].ScriptRef.CBOR))
	assert.Nil(t, utxos[1].ScriptRef, "native scripts are dropped")
	assert.Nil(t, utxos[2].ScriptRef, "scripts without cbor are dropped")
	assert.Nil(t, utxos[3].ScriptRef)
	assert.Zero(t, f.hitCount("/scripts/"+native+"/cbor"))

	// Scripts are immutable: a second listing is served from the cache.
	_, err = b.GetUtxos(ctx, testAddr)
	require.NoError(t, err)
	assert.Equal(t, 1, f.hitCount("/scripts/"+plutus))
	assert.Equal(t, 1, f.hitCount("/scripts/"+plutus+"/cbor"))
	assert.Equal(t, 1, f.hitCount("/scripts/"+native))
	assert.Equal(t, 1, f.hitCount("/scripts/"+noCBOR))

	require.NoError(t, b.PurgeCache())
	_, err = b.GetUtxos(ctx, testAddr)
	require.NoError(t, err)
	assert.Equal(t, 2, f.hitCount("/scripts/"+plutus))
}

func TestGetUtxos_UnknownScriptLanguage(t *testing.T) {
	f := newFakeAPI(t)
	future := strings.Repeat("05", 28)
	f.object("/scripts/"+future, map[string]any{"script_hash": future, "type": "plutusV4"})
	f.object("/scripts/"+future+"/cbor", map[string]any{"cbor": "4d01"})
	f.list("/addresses/"+testAddr+"/utxos",
		utxoRow(1, map[string]any{"reference_script_hash": future}),
		utxoRow(2, nil),
	)
	b := newTestProvider(t, f)

	ctx := context.Background()
	for range 2 {
		utxos, err := b.GetUtxos(ctx, testAddr)
		require.NoError(t, err)
		require.Len(t, utxos, 2)
		require.NotNil(t, utxos[0].ScriptRef)
		assert.Equal(t, types.ScriptTypeUnknown, utxos[0].ScriptRef.Type)
		assert.Equal(t, "plutusV4", utxos[0].ScriptRef.Kind)
		assert.Equal(t, []byte{0x4d, 0x01}, utxos[0].ScriptRef.CBOR)
		assert.Nil(t, utxos[1].ScriptRef)
	}
	// The second listing came from the cache with the kind intact.
	assert.Equal(t, 1, f.hitCount("/scripts/"+future))
}

func TestGetUtxos_ScriptFailure(t *testing.T) {
	f := newFakeAPI(t)
	script := strings.Repeat("04", 28)
	f.fail("/scripts/"+script, 500)
	f.list("/addresses/"+testAddr+"/utxos", utxoRow(1, map[string]any{"reference_script_hash": script}))
	b := newTestProvider(t, f)

	_, err := b.GetUtxos(context.Background(), testAddr)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
}

func TestGetTransactionUtxos(t *testing.T) {
	f := newFakeAPI(t)
	f.object("/txs/"+txh(7)+"/utxos", map[string]any{
		"hash": txh(7),
		"outputs": []map[string]any{
			{"address": "addr_test1qa", "output_index": 0, "amount": amount(5)},
			{"address": "addr_test1qb", "output_index": 1, "amount": amount(6), "collateral": true},
			{"address": "addr_test1qc", "output_index": 2, "amount": amount(7), "inline_datum": "00"},
		},
	})
	b := newTestProvider(t, f)

	ctx := context.Background()
	outs, err := b.GetTransactionUtxos(ctx, txh(7))
	require.NoError(t, err)
	require.Len(t, outs, 2)
	assert.Equal(t, txh(7)+"#0", outs[0].OutRef.String())
	assert.Equal(t, txh(7)+"#2", outs[1].OutRef.String())
	assert.Equal(t, "00", outs[1].Datum)

	outs, err = b.GetTransactionUtxos(ctx, txh(8))
	require.NoError(t, err)
	assert.Empty(t, outs)
}

func TestGetStakedAddresses_Unknown(t *testing.T) {
	f := newFakeAPI(t)
	b := newTestProvider(t, f)

	addrs, err := b.GetStakedAddresses(context.Background(), "stake_test1unknown")
	require.NoError(t, err)
	assert.Empty(t, addrs)
}
