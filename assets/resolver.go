package assets

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
)

// DefaultCacheSize is the number of assets a resolver keeps by default.
const DefaultCacheSize = 1 << 12

// Resolver caches the assets found by a lookup. Missing ids are not cached,
// so that assets added later are found.
type Resolver struct {
	lookup Lookup
	cache  *ristretto.Cache[string, *AssetData]
}

// NewResolver wraps lookup with a cache holding up to size assets.
func NewResolver(lookup Lookup, size int64) (*Resolver, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, *AssetData]{
		NumCounters: size * 10,
		MaxCost:     size,
		BufferItems: 64,
		// Costs count assets.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create asset cache: %w", err)
	}
	return &Resolver{lookup: lookup, cache: cache}, nil
}

// Resolve returns the asset with the given id, or nil when there is none.
func (r *Resolver) Resolve(id string) *AssetData {
	if id == "" {
		return nil
	}
	if asset, ok := r.cache.Get(id); ok && asset != nil {
		return asset
	}
	asset := r.lookup.Lookup(id)
	if asset != nil {
		r.cache.Set(id, asset, 1)
	}
	return asset
}

// Func returns Resolve as a function value, the form image extensions take.
func (r *Resolver) Func() func(id string) *AssetData {
	return r.Resolve
}

// Wait blocks until the pending cache writes are applied.
func (r *Resolver) Wait() {
	r.cache.Wait()
}

// Close releases the cache.
func (r *Resolver) Close() {
	r.cache.Close()
}
