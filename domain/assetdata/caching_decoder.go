package assetdata

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Decoder decodes asset data blobs.
type Decoder interface {
	Decode(assetData []byte) (AssetData, error)
}

// CachingDecoder memoizes decoded asset data in a bounded LRU.
// The same handful of token asset data blobs appear in most orders, so the hit rate is high.
// Safe for concurrent use.
type CachingDecoder struct {
	cache *lru.Cache[string, AssetData]
}

var _ Decoder = &CachingDecoder{}

// NewCachingDecoder returns a decoder that keeps up to size decoded entries.
func NewCachingDecoder(size int) (*CachingDecoder, error) {
	cache, err := lru.New[string, AssetData](size)
	if err != nil {
		return nil, err
	}

	return &CachingDecoder{cache: cache}, nil
}

// Decode implements Decoder. Failures are not cached.
func (d *CachingDecoder) Decode(assetData []byte) (AssetData, error) {
	key := string(assetData)
	if decoded, ok := d.cache.Get(key); ok {
		return decoded, nil
	}

	decoded, err := Decode(assetData)
	if err != nil {
		return nil, err
	}

	d.cache.Add(key, decoded)
	return decoded, nil
}

// Len returns the number of cached entries.
func (d *CachingDecoder) Len() int {
	return d.cache.Len()
}

type plainDecoder struct{}

// Decode implements Decoder.
func (plainDecoder) Decode(assetData []byte) (AssetData, error) {
	return Decode(assetData)
}

// PlainDecoder decodes without caching.
var PlainDecoder Decoder = plainDecoder{}
