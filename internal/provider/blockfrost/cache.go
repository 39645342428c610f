package blockfrost

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/cardakit/internal/log"
	"github.com/Klingon-tech/cardakit/internal/storage"
	"github.com/Klingon-tech/cardakit/pkg/types"
)

// scriptsPrefix namespaces reference scripts inside the cache store.
const scriptsPrefix = "scripts/"

// Entries are laid out as type byte, kind length byte, kind, CBOR.
// noScript marks a script hash that resolves to nothing usable: a native
// script or one without CBOR.
const noScript = 0xff

// scriptCache remembers resolved reference scripts. Scripts are immutable
// once on chain, so entries never expire.
type scriptCache struct {
	root  storage.DB
	db    *storage.Namespace
	owned bool
}

// newScriptCache wraps db. An owned store is closed with the cache.
func newScriptCache(db storage.DB, owned bool) *scriptCache {
	return &scriptCache{root: db, db: storage.NewNamespace(db, scriptsPrefix), owned: owned}
}

// get returns the cached script. ok is false on a cache miss; a hit with a
// nil script means the hash resolves to nothing.
func (c *scriptCache) get(hash string) (script *types.Script, ok bool) {
	raw, err := c.db.Get(hash)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			log.Storage.Warn().Err(err).Str("script", hash).Msg("script cache read failed")
		}
		return nil, false
	}
	if len(raw) < 2 || raw[0] == noScript || int(raw[1]) > len(raw)-2 {
		return nil, true
	}
	kind := int(raw[1])
	return &types.Script{
		Type: types.ScriptType(raw[0]),
		Kind: string(raw[2 : 2+kind]),
		CBOR: raw[2+kind:],
	}, true
}

func (c *scriptCache) put(hash string, script *types.Script) {
	var raw []byte
	if script == nil {
		raw = []byte{noScript}
	} else {
		kind := script.Kind[:min(len(script.Kind), 255)]
		raw = make([]byte, 0, 2+len(kind)+len(script.CBOR))
		raw = append(raw, byte(script.Type), byte(len(kind)))
		raw = append(raw, kind...)
		raw = append(raw, script.CBOR...)
	}
	if err := c.db.Put(hash, raw); err != nil {
		log.Storage.Warn().Err(err).Str("script", hash).Msg("script cache write failed")
	}
}

// purge drops every cached script.
func (c *scriptCache) purge() error {
	n, err := c.db.Len()
	if err != nil {
		return fmt.Errorf("count script cache: %w", err)
	}
	if err := c.db.Clear(); err != nil {
		return fmt.Errorf("purge script cache: %w", err)
	}
	log.Storage.Debug().Int("scripts", n).Msg("script cache purged")
	return nil
}

func (c *scriptCache) close() error {
	if !c.owned {
		return nil
	}
	return c.root.Close()
}

// PurgeCache drops every cached reference script.
func (b *Blockfrost) PurgeCache() error {
	return b.scripts.purge()
}

// Close releases the cache store unless it was supplied by the caller.
func (b *Blockfrost) Close() error {
	return b.scripts.close()
}
